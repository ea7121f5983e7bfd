// Package options binds named, mutable values that render types expose to
// the user interface and the configuration file.
package options

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"sort"
	"strconv"
	"sync"
	"sync/atomic"
)

// ErrUnknown is returned when setting an option that was never registered.
var ErrUnknown = errors.New("unknown option")

// Set is a collection of options. Values may be read from any goroutine
// while the user interface changes them.
type Set struct {
	mu        sync.Mutex
	fs        *flag.FlagSet
	listeners []func(name string)
}

// NewSet returns an empty Set.
func NewSet(name string) *Set {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return &Set{fs: fs}
}

// BoolValue is a boolean option.
type BoolValue struct{ v atomic.Bool }

// Get returns the current value.
func (b *BoolValue) Get() bool { return b.v.Load() }

func (b *BoolValue) String() string { return strconv.FormatBool(b.v.Load()) }

// IsBoolFlag lets a bare option name mean true.
func (b *BoolValue) IsBoolFlag() bool { return true }

func (b *BoolValue) Set(s string) error {
	v, err := strconv.ParseBool(s)
	if err != nil {
		return err
	}
	b.v.Store(v)
	return nil
}

// IntValue is an integer option.
type IntValue struct{ v atomic.Int64 }

// Get returns the current value.
func (i *IntValue) Get() int { return int(i.v.Load()) }

func (i *IntValue) String() string { return strconv.FormatInt(i.v.Load(), 10) }

func (i *IntValue) Set(s string) error {
	v, err := strconv.ParseInt(s, 0, 64)
	if err != nil {
		return err
	}
	i.v.Store(v)
	return nil
}

// Bool registers a boolean option. Registering a name twice panics.
func (s *Set) Bool(name string, def bool, usage string) *BoolValue {
	b := &BoolValue{}
	b.v.Store(def)
	s.define(b, name, usage)
	return b
}

// Int registers an integer option. Registering a name twice panics.
func (s *Set) Int(name string, def int, usage string) *IntValue {
	i := &IntValue{}
	i.v.Store(int64(def))
	s.define(i, name, usage)
	return i
}

func (s *Set) define(v flag.Value, name, usage string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fs.Var(v, name, usage)
}

// Option describes one registered option.
type Option struct {
	Name     string
	Usage    string
	Value    string
	DefValue string
}

// Lookup returns the named option.
func (s *Set) Lookup(name string) (Option, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f := s.fs.Lookup(name)
	if f == nil {
		return Option{}, false
	}
	return toOption(f), true
}

func toOption(f *flag.Flag) Option {
	return Option{Name: f.Name, Usage: f.Usage, Value: f.Value.String(), DefValue: f.DefValue}
}

// All returns every option sorted by name.
func (s *Set) All() []Option {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Option
	s.fs.VisitAll(func(f *flag.Flag) { out = append(out, toOption(f)) })
	return out
}

// Set changes the named option and notifies listeners.
func (s *Set) Set(name, value string) error {
	s.mu.Lock()
	if s.fs.Lookup(name) == nil {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrUnknown, name)
	}
	err := s.fs.Set(name, value)
	listeners := append([]func(string){}, s.listeners...)
	s.mu.Unlock()
	if err != nil {
		return fmt.Errorf("option %s: %w", name, err)
	}
	for _, fn := range listeners {
		fn(name)
	}
	return nil
}

// Apply sets every option in values. Unknown names are skipped so that a
// configuration file may mention types that are not loaded; the first
// invalid value aborts and is returned.
func (s *Set) Apply(values map[string]string) error {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		err := s.Set(name, values[name])
		if errors.Is(err, ErrUnknown) {
			continue
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// OnChange registers fn to be called after an option changes.
func (s *Set) OnChange(fn func(name string)) {
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}
