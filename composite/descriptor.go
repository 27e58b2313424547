package composite

import (
	"reflect"
	"sort"

	"cibuild/internal/capability"
)

// Descriptor is the abstract composite capability: every synthesized
// method as a signature, with no implementation.  Go cannot declare an
// interface type at runtime, so the descriptor is data; Satisfies plays
// the role of the interface check.
type Descriptor struct {
	Name    string // "I{component}"
	Type    string // name of the materialized type
	Methods []MethodDescriptor

	byName map[string]int
}

// MethodDescriptor describes one synthesized method.
type MethodDescriptor struct {
	Name       string       // "{Capability}_{Method}"
	Capability reflect.Type // owning capability
	Method     string       // source method name
	Slot       int
	Func       reflect.Type // exact signature of the stub
}

func newDescriptor(name string, t *Type) *Descriptor {
	d := &Descriptor{
		Name:    name,
		Type:    t.Name,
		Methods: make([]MethodDescriptor, len(t.shape.Methods)),
		byName:  make(map[string]int, len(t.shape.Methods)),
	}
	for i, m := range t.shape.Methods {
		d.Methods[i] = MethodDescriptor{
			Name:       m.Name,
			Capability: t.shape.Slots[m.Slot].Capability.Type,
			Method:     m.Source.Name,
			Slot:       m.Slot,
			Func:       t.stubs[i].fn,
		}
		d.byName[m.Name] = i
	}
	return d
}

// MethodNames returns the synthesized method names, sorted.
func (d *Descriptor) MethodNames() []string {
	names := make([]string, len(d.Methods))
	for i, m := range d.Methods {
		names[i] = m.Name
	}
	sort.Strings(names)
	return names
}

// Method returns the synthesized method with the given name.
func (d *Descriptor) Method(name string) (MethodDescriptor, bool) {
	i, ok := d.byName[name]
	if !ok {
		return MethodDescriptor{}, false
	}
	return d.Methods[i], true
}

// Satisfies reports whether in offers every method of d with the same
// signature.  Instances of any composite built from the same capability
// set satisfy each other's descriptors.
func (d *Descriptor) Satisfies(in *Instance) bool {
	if in == nil {
		return false
	}
	for _, m := range d.Methods {
		stub, ok := in.MethodByName(m.Name)
		if !ok || stub.Type() != m.Func {
			return false
		}
	}
	return true
}

// ── YAML rendering ───────────────────────────────────────────────────

type yamlDescriptor struct {
	Name    string       `yaml:"name"`
	Type    string       `yaml:"type"`
	Methods []yamlMethod `yaml:"methods"`
}

type yamlMethod struct {
	Name       string `yaml:"name"`
	Capability string `yaml:"capability"`
	Slot       int    `yaml:"slot"`
	Signature  string `yaml:"signature"`
}

// MarshalYAML renders types as strings so the descriptor can be printed.
func (d *Descriptor) MarshalYAML() (interface{}, error) {
	out := yamlDescriptor{Name: d.Name, Type: d.Type}
	for _, m := range d.Methods {
		out.Methods = append(out.Methods, yamlMethod{
			Name:       m.Name,
			Capability: capability.TypeID(m.Capability),
			Slot:       m.Slot,
			Signature:  m.Func.String(),
		})
	}
	return out, nil
}
