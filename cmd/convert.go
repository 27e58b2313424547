package cmd

import (
	"fmt"
	"reflect"
	"strconv"

	"cibuild/composite"
	"cibuild/config"
)

// invoke converts the textual arguments of call to the stub's parameter
// types and calls it through the instance.
func invoke(inst *composite.Instance, call config.Call) ([]interface{}, error) {
	stub, ok := inst.MethodByName(call.Method)
	if !ok {
		// Let Invoke produce the canonical unknown-method error.
		return inst.Invoke(call.Method)
	}
	args, err := convertArgs(stub.Type(), call.Args)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", call.Method, err)
	}
	return inst.Invoke(call.Method, args...)
}

// convertArgs parses raw strings into values of fn's parameter kinds.
// Arity is left to Invoke.
func convertArgs(fn reflect.Type, raw []string) ([]interface{}, error) {
	out := make([]interface{}, len(raw))
	for i, s := range raw {
		var target reflect.Type
		switch {
		case fn.IsVariadic() && i >= fn.NumIn()-1:
			target = fn.In(fn.NumIn() - 1).Elem()
		case i < fn.NumIn():
			target = fn.In(i)
		default:
			out[i] = s
			continue
		}
		v, err := parseValue(s, target)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i, err)
		}
		out[i] = v
	}
	return out, nil
}

func parseValue(s string, t reflect.Type) (interface{}, error) {
	switch t.Kind() {
	case reflect.String:
		return reflect.ValueOf(s).Convert(t).Interface(), nil
	case reflect.Bool:
		b, err := strconv.ParseBool(s)
		if err != nil {
			return nil, err
		}
		return reflect.ValueOf(b).Convert(t).Interface(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(s, 10, t.Bits())
		if err != nil {
			return nil, err
		}
		return reflect.ValueOf(n).Convert(t).Interface(), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(s, 10, t.Bits())
		if err != nil {
			return nil, err
		}
		return reflect.ValueOf(n).Convert(t).Interface(), nil
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(s, t.Bits())
		if err != nil {
			return nil, err
		}
		return reflect.ValueOf(f).Convert(t).Interface(), nil
	case reflect.Interface:
		if reflect.TypeOf(s).AssignableTo(t) {
			return s, nil
		}
	}
	return nil, fmt.Errorf("cannot pass %q as %s", s, t)
}
