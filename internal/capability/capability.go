// Package capability introspects capability interfaces.  A capability
// is a named Go interface whose exported methods a delegate provides;
// Introspect turns its reflect.Type into an ordered list of method
// signatures that the shape synthesizer can work from.
package capability

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	cerrors "cibuild/internal/errors"
)

// MethodSignature describes one method declared by a capability.
type MethodSignature struct {
	Name     string
	In       []reflect.Type // parameter types, receiver excluded
	Out      []reflect.Type // result types
	Variadic bool

	// Index is the method's position in the interface's reflect method
	// table.  Dispatch uses it with reflect.Value.Method.
	Index int
}

// FuncType returns the function type with this signature.
func (m MethodSignature) FuncType() reflect.Type {
	return reflect.FuncOf(m.In, m.Out, m.Variadic)
}

// String renders the signature as "Name(in, ...) out" or
// "Name(in) (out1, out2)".
func (m MethodSignature) String() string {
	var b strings.Builder
	b.WriteString(m.Name)
	b.WriteByte('(')
	for i, t := range m.In {
		if i > 0 {
			b.WriteString(", ")
		}
		if m.Variadic && i == len(m.In)-1 {
			b.WriteString("..." + t.Elem().String())
			continue
		}
		b.WriteString(t.String())
	}
	b.WriteByte(')')
	switch len(m.Out) {
	case 0:
	case 1:
		b.WriteString(" " + m.Out[0].String())
	default:
		outs := make([]string, len(m.Out))
		for i, t := range m.Out {
			outs[i] = t.String()
		}
		b.WriteString(" (" + strings.Join(outs, ", ") + ")")
	}
	return b.String()
}

// Capability is an introspected capability interface.  It is immutable
// once returned by Introspect.
type Capability struct {
	Type    reflect.Type
	Methods []MethodSignature
}

// Name is the display name used to prefix synthesized method names.
func (c *Capability) Name() string { return c.Type.Name() }

// ID identifies the capability type across packages.  Two capabilities
// with the same display name from different packages have different IDs.
func (c *Capability) ID() string { return TypeID(c.Type) }

// Implemented reports whether delegate satisfies the capability.  A nil
// delegate never does.
func (c *Capability) Implemented(delegate interface{}) bool {
	dt := reflect.TypeOf(delegate)
	return dt != nil && dt.Implements(c.Type)
}

// Introspect extracts the method signatures of the capability interface
// t, sorted by method name.
//
// reflect already lists interface methods by name, but that is an
// implementation detail of the runtime; the explicit sort keeps the
// synthesized shape reproducible regardless.
func Introspect(t reflect.Type) (*Capability, error) {
	if t == nil {
		return nil, &cerrors.BindingError{Op: "introspect", Err: cerrors.ErrNotCapability}
	}
	if t.Kind() != reflect.Interface {
		return nil, notCapability(t, "kind %s", t.Kind())
	}
	if t.Name() == "" {
		return nil, notCapability(t, "interface has no name")
	}

	methods := make([]MethodSignature, 0, t.NumMethod())
	for i := 0; i < t.NumMethod(); i++ {
		m := t.Method(i)
		if !m.IsExported() {
			return nil, notCapability(t, "unexported method %s cannot be forwarded", m.Name)
		}
		ft := m.Type
		sig := MethodSignature{
			Name:     m.Name,
			In:       make([]reflect.Type, ft.NumIn()),
			Out:      make([]reflect.Type, ft.NumOut()),
			Variadic: ft.IsVariadic(),
			Index:    i,
		}
		for j := range sig.In {
			sig.In[j] = ft.In(j)
		}
		for j := range sig.Out {
			sig.Out[j] = ft.Out(j)
		}
		methods = append(methods, sig)
	}
	sort.SliceStable(methods, func(i, j int) bool {
		return methods[i].Name < methods[j].Name
	})

	return &Capability{Type: t, Methods: methods}, nil
}

// Of returns the capability interface type C.
func Of[C any]() reflect.Type {
	return reflect.TypeOf((*C)(nil)).Elem()
}

// TypeID returns "pkgpath.Name" for named types and the type string
// otherwise.
func TypeID(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	if t.Name() != "" && t.PkgPath() != "" {
		return t.PkgPath() + "." + t.Name()
	}
	return t.String()
}

func notCapability(t reflect.Type, format string, args ...interface{}) error {
	return &cerrors.BindingError{
		Op:         "introspect",
		Capability: t,
		Err:        fmt.Errorf("%w: %s", cerrors.ErrNotCapability, fmt.Sprintf(format, args...)),
	}
}
