package render

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/example/overpaint/internal/options"
)

func TestRegisterAuto(t *testing.T) {
	r := NewRegistry(nil)
	require.Equal(t, FirstUserTag, r.Register(Auto, &Funcs{TypeName: "a"}))
	require.Equal(t, Tag(100), r.Register(100, &Funcs{TypeName: "b"}))
	require.Equal(t, Tag(101), r.Register(Auto, &Funcs{TypeName: "c"}))
	require.Equal(t, Tag(3), r.Register(3, &Funcs{TypeName: "d"}))
	require.Equal(t, Tag(102), r.Register(Auto, &Funcs{TypeName: "e"}))
	require.Equal(t, []Tag{3, 64, 100, 101, 102}, r.Tags())

	tag, ok := r.Find("c")
	require.True(t, ok)
	require.Equal(t, Tag(101), tag)
}

func TestRegisterTwicePanics(t *testing.T) {
	r := NewRegistry(nil)
	r.Register(7, &Funcs{TypeName: "a"})
	require.Panics(t, func() { r.Register(7, &Funcs{TypeName: "b"}) })
	require.Panics(t, func() { r.Register(8, &Funcs{TypeName: "a"}) })
	require.Panics(t, func() { r.Register(9, nil) })

	// The registry is still usable after a rejected registration.
	require.Equal(t, Tag(10), r.Register(10, &Funcs{TypeName: "c"}))
}

func TestLookupAndClose(t *testing.T) {
	r := NewRegistry(nil)
	RegisterBuiltins(r)
	d, ok := r.Lookup(TagLine)
	require.True(t, ok)
	require.Equal(t, "line", d.Name())
	_, ok = r.Lookup(42)
	require.False(t, ok)

	r.Close()
	_, ok = r.Lookup(TagLine)
	require.False(t, ok)
	require.Empty(t, r.Tags())
	require.Panics(t, func() { r.Register(Auto, &Funcs{TypeName: "late"}) })
}

func TestRegisterInitOptions(t *testing.T) {
	set := options.NewSet("test")
	r := NewRegistry(set)
	RegisterBuiltins(r)
	_, ok := set.Lookup(OptPolygonVertices)
	require.True(t, ok)
	_, ok = set.Lookup(OptLineBBox)
	require.True(t, ok)
	require.Same(t, set, r.Options())

	called := false
	r.Register(Auto, &Funcs{TypeName: "custom", Init: func(s *options.Set) {
		called = true
		s.Int("custom.size", 3, "")
	}})
	require.True(t, called)
}

func TestFuncsDefaults(t *testing.T) {
	f := &Funcs{TypeName: "bare"}
	p := []int{1}
	require.Equal(t, p, f.Copy(p))
	require.NoError(t, f.Render(nil, p, 0))
	_, ok := f.Describe(nil, p, 0, 0, 1)
	require.False(t, ok)
	require.ErrorIs(t, f.RenderVector(nil, nil, p, 0), ErrUnsupportedFormat)
	f.Free(p)
}
