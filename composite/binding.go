package composite

import (
	"reflect"
	"sort"

	"cibuild/internal/capability"
)

// Entry binds one capability interface to the delegate that serves it.
type Entry struct {
	Capability reflect.Type
	Delegate   interface{}
}

// Bind returns an entry for capability C.  The delegate's static type
// already guarantees it implements C, so only a nil delegate can fail
// with ErrTypeMismatch later.
func Bind[C any](delegate C) Entry {
	return Entry{Capability: capability.Of[C](), Delegate: delegate}
}

// BindAs returns an entry for a capability known only at runtime.  The
// delegate is checked against c when the instance is constructed.
func BindAs(c reflect.Type, delegate interface{}) Entry {
	return Entry{Capability: c, Delegate: delegate}
}

// Binding is an ordered capability → delegate mapping.  Its order
// defines the slot order of the composite built from it.
type Binding []Entry

// FromMap converts a map binding.  Go map iteration order is random, so
// entries are sorted by capability type string to keep slot order
// reproducible.
func FromMap(m map[reflect.Type]interface{}) Binding {
	b := make(Binding, 0, len(m))
	for c, d := range m {
		b = append(b, Entry{Capability: c, Delegate: d})
	}
	sort.SliceStable(b, func(i, j int) bool {
		return capability.TypeID(b[i].Capability) < capability.TypeID(b[j].Capability)
	})
	return b
}

// Capabilities returns the capability types in binding order.
func (b Binding) Capabilities() []reflect.Type {
	out := make([]reflect.Type, len(b))
	for i, e := range b {
		out[i] = e.Capability
	}
	return out
}

// lookup returns every entry bound to c.
func (b Binding) lookup(c reflect.Type) []Entry {
	var out []Entry
	for _, e := range b {
		if e.Capability == c {
			out = append(out, e)
		}
	}
	return out
}
