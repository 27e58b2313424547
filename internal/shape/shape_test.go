package shape

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cibuild/internal/capability"
	cerrors "cibuild/internal/errors"
)

type Greeter interface {
	Greet(name string) string
	Wave()
}

type Counter interface {
	Increment() int
}

// Foo_Bar and Foo collide on "Foo_Bar_Baz".
type Foo_Bar interface{ Baz() }

type Foo interface{ Bar_Baz() }

func introspect(t *testing.T, types ...reflect.Type) []*capability.Capability {
	t.Helper()
	caps := make([]*capability.Capability, len(types))
	for i, typ := range types {
		c, err := capability.Introspect(typ)
		require.NoError(t, err)
		caps[i] = c
	}
	return caps
}

// TestSynthesize_SlotsAndNames verifies slot order and the
// "{Capability}_{Method}" naming scheme.
func TestSynthesize_SlotsAndNames(t *testing.T) {
	s, err := Synthesize(introspect(t, capability.Of[Greeter](), capability.Of[Counter]()))
	require.NoError(t, err)

	require.Len(t, s.Slots, 2)
	assert.Equal(t, 0, s.Slots[0].Index)
	assert.Equal(t, "Greeter", s.Slots[0].Capability.Name())
	assert.Equal(t, 1, s.Slots[1].Index)

	var got []string
	for _, m := range s.Methods {
		got = append(got, m.Name)
	}
	assert.Equal(t, []string{"Greeter_Greet", "Greeter_Wave", "Counter_Increment"}, got)
	assert.Equal(t, []string{"Counter_Increment", "Greeter_Greet", "Greeter_Wave"}, s.MethodNames())

	m, ok := s.Lookup("Counter_Increment")
	require.True(t, ok)
	assert.Equal(t, 1, m.Slot)
	assert.Equal(t, "Increment", m.Source.Name)

	_, ok = s.Lookup("Counter_Decrement")
	assert.False(t, ok)
}

// TestSynthesize_SignaturesPreserved verifies synthesized methods carry
// the source parameter and result types.
func TestSynthesize_SignaturesPreserved(t *testing.T) {
	s, err := Synthesize(introspect(t, capability.Of[Greeter]()))
	require.NoError(t, err)

	m, ok := s.Lookup("Greeter_Greet")
	require.True(t, ok)
	assert.Equal(t, reflect.TypeOf(func(string) string { return "" }), m.Source.FuncType())
}

// TestSynthesize_DuplicateMethodName verifies a collision is a hard
// failure rather than a silent pick.
func TestSynthesize_DuplicateMethodName(t *testing.T) {
	_, err := Synthesize(introspect(t, capability.Of[Foo_Bar](), capability.Of[Foo]()))
	require.Error(t, err)
	assert.ErrorIs(t, err, cerrors.ErrDuplicateMethodName)

	var se *cerrors.ShapeError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "Foo_Bar_Baz", se.Method)
}

// TestSynthesize_SameDisplayName verifies two distinct interfaces that
// share a display name and a method name collide.
func TestSynthesize_SameDisplayName(t *testing.T) {
	outer := capability.Of[Greeter]()

	type Greeter interface {
		Greet(name string) string
	}
	inner := capability.Of[Greeter]()
	require.True(t, outer != inner)

	_, err := Synthesize(introspect(t, outer, inner))
	assert.ErrorIs(t, err, cerrors.ErrDuplicateMethodName)
}

// TestSynthesize_DuplicateCapability verifies the same type cannot
// occupy two slots.
func TestSynthesize_DuplicateCapability(t *testing.T) {
	caps := introspect(t, capability.Of[Counter]())
	_, err := Synthesize(append(caps, caps[0]))
	assert.ErrorIs(t, err, cerrors.ErrDuplicateCapability)
}

// TestShape_Key verifies the key is ordered by slot.
func TestShape_Key(t *testing.T) {
	a, err := Synthesize(introspect(t, capability.Of[Greeter](), capability.Of[Counter]()))
	require.NoError(t, err)
	b, err := Synthesize(introspect(t, capability.Of[Counter](), capability.Of[Greeter]()))
	require.NoError(t, err)

	assert.Equal(t, "cibuild/internal/shape.Greeter|cibuild/internal/shape.Counter", a.Key())
	assert.NotEqual(t, a.Key(), b.Key())
}

// TestSynthesize_Empty verifies an empty set yields an empty shape.
func TestSynthesize_Empty(t *testing.T) {
	s, err := Synthesize(nil)
	require.NoError(t, err)
	assert.Empty(t, s.Slots)
	assert.Empty(t, s.Methods)
}
