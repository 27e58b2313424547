// Package shape derives the composite shape of a capability set: one
// storage slot per capability and one forwarding method per
// (capability, method) pair, named "{Capability}_{Method}".
//
// A Shape is plain data.  Materializing it into a concrete type is the
// job of the composite package.
package shape

import (
	"sort"
	"strings"

	"cibuild/internal/capability"
	cerrors "cibuild/internal/errors"
)

// Slot is a storage location for one capability's delegate.
type Slot struct {
	Index      int
	Capability *capability.Capability
}

// Method is a synthesized forwarding method.
type Method struct {
	Name   string // "{Capability}_{Method}"
	Slot   int
	Source capability.MethodSignature
}

// Shape is the union of a capability set's methods under collision-free
// names.  Slots are in input order; Methods are grouped by slot and
// sorted by source method name within each slot.
type Shape struct {
	Slots   []Slot
	Methods []Method

	byName map[string]int
}

// MethodName joins a capability display name and a method name.
func MethodName(capabilityName, methodName string) string {
	return capabilityName + "_" + methodName
}

// Synthesize builds the shape for caps.  Slot i holds caps[i].
//
// It fails with ErrDuplicateCapability if the same interface type
// appears twice and with ErrDuplicateMethodName if two capabilities
// produce the same synthesized name.  No renaming is attempted.
func Synthesize(caps []*capability.Capability) (*Shape, error) {
	s := &Shape{
		Slots:  make([]Slot, 0, len(caps)),
		byName: make(map[string]int),
	}
	owner := make(map[string]*capability.Capability)

	for i, c := range caps {
		for _, prev := range s.Slots {
			if prev.Capability.Type == c.Type {
				return nil, &cerrors.BindingError{
					Op:         "synthesize",
					Capability: c.Type,
					Err:        cerrors.ErrDuplicateCapability,
				}
			}
		}
		s.Slots = append(s.Slots, Slot{Index: i, Capability: c})

		for _, m := range c.Methods {
			name := MethodName(c.Name(), m.Name)
			if first, dup := owner[name]; dup {
				return nil, &cerrors.ShapeError{
					Method: name,
					First:  first.Type.String(),
					Second: c.Type.String(),
				}
			}
			owner[name] = c
			s.byName[name] = len(s.Methods)
			s.Methods = append(s.Methods, Method{Name: name, Slot: i, Source: m})
		}
	}
	return s, nil
}

// Lookup returns the synthesized method with the given name.
func (s *Shape) Lookup(name string) (Method, bool) {
	i, ok := s.byName[name]
	if !ok {
		return Method{}, false
	}
	return s.Methods[i], true
}

// MethodNames returns the synthesized names in lexicographic order.
func (s *Shape) MethodNames() []string {
	names := make([]string, len(s.Methods))
	for i, m := range s.Methods {
		names[i] = m.Name
	}
	sort.Strings(names)
	return names
}

// Key is the ordered capability identity list, joined with "|".  It is
// stable across runs for the same capability set.
func (s *Shape) Key() string {
	ids := make([]string, len(s.Slots))
	for i, sl := range s.Slots {
		ids[i] = sl.Capability.ID()
	}
	return strings.Join(ids, "|")
}
