package composite

import (
	"fmt"
	"reflect"

	"github.com/google/uuid"

	"cibuild/internal/capability"
	"cibuild/internal/metrics"
	"cibuild/internal/shape"
)

// anyType is the universal root every composite extends by default.
var anyType = reflect.TypeOf((*interface{})(nil)).Elem()

// BuildOption tunes a single Materialize or Build call.
type BuildOption func(*buildOptions)

type buildOptions struct {
	base reflect.Type
}

// WithBase makes the composite extend base instead of the universal
// root.  Go has no inheritance, so the base becomes the composite's
// first field, reachable through Instance.Base.  A nil base restores
// the default.
func WithBase(base reflect.Type) BuildOption {
	return func(o *buildOptions) {
		if base != nil {
			o.base = base
		}
	}
}

// Type is a materialized composite type: a struct with one Base field
// and one slot per capability, plus the dispatch table for its
// synthesized methods.  A Type is immutable and may be shared between
// goroutines; each call to New produces an independent Instance.
type Type struct {
	ID     string       // unique per materialization
	Name   string       // "{component}Composite"
	Base   reflect.Type // type of field 0
	Struct reflect.Type // struct{ Base B; Slot0 C0; ...; SlotN CN }

	shape   *shape.Shape
	desc    *Descriptor
	stubs   []stubSpec // parallel to shape.Methods
	slotOf  map[reflect.Type]int
	caps    []reflect.Type
	metrics *metrics.Collector
}

// materialize introspects caps, synthesizes their shape, and derives
// the concrete struct and descriptor for component.
func materialize(component string, caps []reflect.Type, base reflect.Type) (*Type, error) {
	introspected := make([]*capability.Capability, len(caps))
	for i, c := range caps {
		ic, err := capability.Introspect(c)
		if err != nil {
			return nil, err
		}
		introspected[i] = ic
	}

	sh, err := shape.Synthesize(introspected)
	if err != nil {
		return nil, err
	}

	fields := make([]reflect.StructField, 0, len(sh.Slots)+1)
	fields = append(fields, reflect.StructField{Name: "Base", Type: base})
	slotOf := make(map[reflect.Type]int, len(sh.Slots))
	for _, sl := range sh.Slots {
		fields = append(fields, reflect.StructField{
			Name: slotFieldName(sl.Index),
			Type: sl.Capability.Type,
		})
		slotOf[sl.Capability.Type] = sl.Index
	}

	t := &Type{
		ID:     uuid.NewString(),
		Name:   component + "Composite",
		Base:   base,
		Struct: reflect.StructOf(fields),
		shape:  sh,
		stubs:  make([]stubSpec, len(sh.Methods)),
		slotOf: slotOf,
		caps:   append([]reflect.Type(nil), caps...),
	}
	for i, m := range sh.Methods {
		t.stubs[i] = stubSpec{
			name:     m.Name,
			field:    slotField(m.Slot),
			method:   m.Source.Index,
			fn:       m.Source.FuncType(),
			variadic: m.Source.Variadic,
		}
	}
	t.desc = newDescriptor("I"+component, t)
	return t, nil
}

// Descriptor returns the abstract description of the composite's
// synthesized methods.
func (t *Type) Descriptor() *Descriptor { return t.desc }

// Capabilities returns the capability types in slot order.
func (t *Type) Capabilities() []reflect.Type {
	return append([]reflect.Type(nil), t.caps...)
}

// Key is the ordered capability identity list of the composite.
func (t *Type) Key() string { return t.shape.Key() }

func (t *Type) String() string {
	return fmt.Sprintf("%s[%s]", t.Name, t.ID)
}

// slotField maps a slot index to its struct field index; field 0 is Base.
func slotField(slot int) int { return slot + 1 }

func slotFieldName(slot int) string { return fmt.Sprintf("Slot%d", slot) }
