package composite

import (
	"reflect"

	cerrors "cibuild/internal/errors"
)

// Instance is a composite bound to its delegates.  It holds one
// reference per slot for its lifetime; the delegates themselves may be
// shared with the caller.  Instance adds no synchronization: concurrent
// calls get whatever guarantees the delegates give.
type Instance struct {
	typ   *Type
	value reflect.Value // *Struct
	stubs map[string]reflect.Value
}

// New constructs an instance of t from b.  The binding must contain
// exactly t's capabilities, each with a delegate implementing it.
//
// Every check runs before the instance is allocated, so a failed New
// never exposes a partially bound value.
func (t *Type) New(b Binding) (*Instance, error) {
	delegates := make([]reflect.Value, len(t.caps))
	for slot, c := range t.caps {
		entries := b.lookup(c)
		switch {
		case len(entries) == 0:
			return nil, cerrors.Bind("bind", c, nil, cerrors.ErrMissingCapability)
		case len(entries) > 1:
			return nil, cerrors.Bind("bind", c, nil, cerrors.ErrDuplicateCapability)
		}
		d := entries[0].Delegate
		dt := reflect.TypeOf(d)
		if dt == nil || !dt.Implements(c) {
			return nil, cerrors.Bind("bind", c, d, cerrors.ErrTypeMismatch)
		}
		delegates[slot] = reflect.ValueOf(d)
	}
	for _, e := range b {
		if _, ok := t.slotOf[e.Capability]; !ok {
			return nil, cerrors.Bind("bind", e.Capability, e.Delegate, cerrors.ErrUnexpectedCapability)
		}
	}

	ptr := reflect.New(t.Struct)
	elem := ptr.Elem()
	for slot, d := range delegates {
		elem.Field(slotField(slot)).Set(d)
	}

	in := &Instance{
		typ:   t,
		value: ptr,
		stubs: make(map[string]reflect.Value, len(t.stubs)),
	}
	for _, s := range t.stubs {
		in.stubs[s.name] = s.bind(elem)
	}
	t.metrics.InstanceCreated(len(t.stubs))
	return in, nil
}

// Type returns the composite type of the instance.
func (in *Instance) Type() *Type { return in.typ }

// Value returns the pointer to the underlying struct value.
func (in *Instance) Value() reflect.Value { return in.value }

// Base returns the settable base field.
func (in *Instance) Base() reflect.Value { return in.value.Elem().Field(0) }

// Delegate returns the delegate stored in the slot for capability c.
func (in *Instance) Delegate(c reflect.Type) (interface{}, bool) {
	slot, ok := in.typ.slotOf[c]
	if !ok {
		return nil, false
	}
	return in.value.Elem().Field(slotField(slot)).Interface(), true
}

// MethodByName returns the dispatch stub for a synthesized method name
// such as "Greeter_Greet".  The stub's type is the source method's
// function type, so it can be called with Call or asserted with
// Interface.
func (in *Instance) MethodByName(name string) (reflect.Value, bool) {
	stub, ok := in.stubs[name]
	return stub, ok
}

// Invoke calls the synthesized method name with args and returns its
// results.  The returned error reports only lookup and argument
// problems; an error value produced by the delegate is one of the
// results, exactly as the delegate returned it.
func (in *Instance) Invoke(name string, args ...interface{}) ([]interface{}, error) {
	stub, ok := in.MethodByName(name)
	if !ok {
		return nil, cerrors.Call(name, cerrors.ErrUnknownMethod, "not a method of %s", in.typ.desc.Name)
	}
	argv, err := callArgs(name, stub.Type(), args)
	if err != nil {
		return nil, err
	}

	out := stub.Call(argv)
	results := make([]interface{}, len(out))
	for i, v := range out {
		results[i] = v.Interface()
	}
	return results, nil
}

// Func returns the stub for name as a typed function.  F must be the
// source method's function type exactly.
func Func[F any](in *Instance, name string) (F, error) {
	var zero F
	stub, ok := in.MethodByName(name)
	if !ok {
		return zero, cerrors.Call(name, cerrors.ErrUnknownMethod, "not a method of %s", in.typ.desc.Name)
	}
	want := reflect.TypeOf((*F)(nil)).Elem()
	if stub.Type() != want {
		return zero, cerrors.Call(name, cerrors.ErrArgumentMismatch, "stub is %s, not %s", stub.Type(), want)
	}
	return stub.Interface().(F), nil
}

// callArgs converts args to values for a call of fn.  Untyped nil is
// accepted for parameters whose kind can hold nil.
func callArgs(name string, fn reflect.Type, args []interface{}) ([]reflect.Value, error) {
	numIn := fn.NumIn()
	if fn.IsVariadic() {
		if len(args) < numIn-1 {
			return nil, cerrors.Call(name, cerrors.ErrArgumentMismatch,
				"want at least %d arguments, got %d", numIn-1, len(args))
		}
	} else if len(args) != numIn {
		return nil, cerrors.Call(name, cerrors.ErrArgumentMismatch,
			"want %d arguments, got %d", numIn, len(args))
	}

	argv := make([]reflect.Value, len(args))
	for i, a := range args {
		var target reflect.Type
		if fn.IsVariadic() && i >= numIn-1 {
			target = fn.In(numIn - 1).Elem()
		} else {
			target = fn.In(i)
		}

		if a == nil {
			if !nillable(target) {
				return nil, cerrors.Call(name, cerrors.ErrArgumentMismatch,
					"argument %d: nil is not a %s", i, target)
			}
			argv[i] = reflect.Zero(target)
			continue
		}
		v := reflect.ValueOf(a)
		if !v.Type().AssignableTo(target) {
			return nil, cerrors.Call(name, cerrors.ErrArgumentMismatch,
				"argument %d: %s is not assignable to %s", i, v.Type(), target)
		}
		argv[i] = v
	}
	return argv, nil
}

func nillable(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Pointer, reflect.Slice:
		return true
	}
	return false
}
