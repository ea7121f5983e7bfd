package render

import (
	"fmt"
	"sort"
	"sync"

	"github.com/example/overpaint/internal/options"
)

// Registry maps tags to descriptors. Registration normally happens once at
// start-up; lookups are safe from any goroutine.
type Registry struct {
	mu     sync.RWMutex
	types  map[Tag]Descriptor
	names  map[string]Tag
	opts   *options.Set
	closed bool
}

// NewRegistry returns an empty registry whose types register their options
// in opts. A nil opts gets a private set.
func NewRegistry(opts *options.Set) *Registry {
	if opts == nil {
		opts = options.NewSet("render")
	}
	return &Registry{
		types: make(map[Tag]Descriptor),
		names: make(map[string]Tag),
		opts:  opts,
	}
}

// Register installs d under tag and returns the tag. Auto picks one more
// than the largest tag in use, starting at FirstUserTag.
//
// Register panics if d is nil, if the tag or the descriptor's name is
// already taken, or after Close. These are programming errors.
func (r *Registry) Register(tag Tag, d Descriptor) Tag {
	if d == nil {
		panic("render: Register descriptor is nil")
	}
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		panic("render: Register after Close")
	}
	if tag == Auto {
		tag = FirstUserTag
		for t := range r.types {
			if t >= tag {
				tag = t + 1
			}
		}
	}
	if tag < 0 {
		r.mu.Unlock()
		panic(fmt.Sprintf("render: invalid tag %d", int(tag)))
	}
	if _, dup := r.types[tag]; dup {
		r.mu.Unlock()
		panic(fmt.Sprintf("render: Register called twice for %v", tag))
	}
	name := d.Name()
	if _, dup := r.names[name]; dup && name != "" {
		r.mu.Unlock()
		panic("render: Register called twice for " + name)
	}
	r.types[tag] = d
	if name != "" {
		r.names[name] = tag
	}
	r.mu.Unlock()

	d.InitOptions(r.opts)
	Logger().Debug("render type registered", "tag", int(tag), "name", name)
	return tag
}

// Lookup returns the descriptor for tag.
func (r *Registry) Lookup(tag Tag) (Descriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.types[tag]
	return d, ok
}

// Find returns the tag registered under name.
func (r *Registry) Find(name string) (Tag, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.names[name]
	return t, ok
}

// Tags returns the registered tags in ascending order.
func (r *Registry) Tags() []Tag {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tags := make([]Tag, 0, len(r.types))
	for t := range r.types {
		tags = append(tags, t)
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i] < tags[j] })
	return tags
}

// Options returns the option set the registered types use.
func (r *Registry) Options() *options.Set { return r.opts }

// Close removes every type. Lookups fail afterwards and Register panics.
func (r *Registry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.types = map[Tag]Descriptor{}
	r.names = map[string]Tag{}
	r.closed = true
}
