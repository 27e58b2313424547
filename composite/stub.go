package composite

import "reflect"

// stubSpec is the template of one dispatch stub: which struct field
// holds the delegate and which method of that capability to call.
type stubSpec struct {
	name     string
	field    int
	method   int // index into the capability's reflect method table
	fn       reflect.Type
	variadic bool
}

// bind creates the stub for the instance struct elem.  The stub has
// exactly the source method's function type.  It loads the slot on
// every call and returns the delegate's results unchanged; a panic in
// the delegate unwinds through it.
func (s stubSpec) bind(elem reflect.Value) reflect.Value {
	slot := elem.Field(s.field)
	method, variadic := s.method, s.variadic
	return reflect.MakeFunc(s.fn, func(args []reflect.Value) []reflect.Value {
		m := slot.Method(method)
		if variadic {
			return m.CallSlice(args)
		}
		return m.Call(args)
	})
}
