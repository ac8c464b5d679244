package dispatch

import (
	"fmt"
	"math"
	"reflect"

	"go.bytecodealliance.org/wit"

	"github.com/wippyai/cvbridge/errors"
	"github.com/wippyai/cvbridge/marshal"
)

// Convert lifts arg to t when arg is assignable to t, or when both are
// numeric and the value survives the conversion (integral floats into
// integer parameters, in range). nil lifts to the zero value of nillable
// types.
func Convert(arg any, t reflect.Type) (reflect.Value, error) {
	if arg == nil {
		switch t.Kind() {
		case reflect.Pointer, reflect.Interface, reflect.Slice, reflect.Map, reflect.Func:
			return reflect.Zero(t), nil
		}
		return reflect.Value{}, errors.TypeMismatch(errors.PhaseDispatch, nil, "nil", t.String())
	}

	v := reflect.ValueOf(arg)
	if v.Type().AssignableTo(t) {
		return v, nil
	}

	switch {
	case isInt(t.Kind()):
		f, ok := number(v)
		if !ok || f != math.Trunc(f) || !fitsInt(f, t) {
			break
		}
		return reflect.ValueOf(f).Convert(t), nil
	case isUint(t.Kind()):
		f, ok := number(v)
		if !ok || f != math.Trunc(f) || f < 0 || f >= math.Ldexp(1, t.Bits()) {
			break
		}
		return reflect.ValueOf(f).Convert(t), nil
	case t.Kind() == reflect.Float32 || t.Kind() == reflect.Float64:
		if f, ok := number(v); ok {
			return reflect.ValueOf(f).Convert(t), nil
		}
	case v.Type().ConvertibleTo(t) && v.Kind() == t.Kind():
		return v.Convert(t), nil
	}
	return reflect.Value{}, errors.New(errors.PhaseDispatch, errors.KindTypeMismatch).
		GoType(t.String()).
		HostType(fmt.Sprintf("%T", arg)).
		Value(arg).
		Build()
}

func number(v reflect.Value) (float64, bool) {
	switch k := v.Kind(); {
	case isInt(k):
		return float64(v.Int()), true
	case isUint(k) || k == reflect.Uintptr:
		return float64(v.Uint()), true
	case k == reflect.Float32 || k == reflect.Float64:
		return v.Float(), true
	}
	return 0, false
}

func isInt(k reflect.Kind) bool {
	return k >= reflect.Int && k <= reflect.Int64
}

func isUint(k reflect.Kind) bool {
	return k >= reflect.Uint && k <= reflect.Uint64
}

func fitsInt(f float64, t reflect.Type) bool {
	bits := t.Bits()
	if bits == 64 {
		return f >= math.MinInt64 && f < math.MaxInt64
	}
	lim := math.Ldexp(1, bits-1)
	return f >= -lim && f < lim
}

// HostNamed is implemented by resource types whose host class name differs
// from the Go type name. HostName must work on a nil receiver.
type HostNamed interface {
	HostName() string
}

var hostNamedType = reflect.TypeFor[HostNamed]()

// Describe maps a Go parameter or result type to the WIT type shown in
// signatures. Value objects use their marshal schema; other named types
// appear as opaque resources.
func Describe(t reflect.Type) wit.Type {
	if s, ok := marshal.SchemaFor(t); ok {
		return s
	}
	switch t.Kind() {
	case reflect.Bool:
		return wit.Bool{}
	case reflect.Int8:
		return wit.S8{}
	case reflect.Uint8:
		return wit.U8{}
	case reflect.Int16:
		return wit.S16{}
	case reflect.Uint16:
		return wit.U16{}
	case reflect.Int, reflect.Int32:
		return wit.S32{}
	case reflect.Uint32:
		return wit.U32{}
	case reflect.Int64:
		return wit.S64{}
	case reflect.Uint, reflect.Uint64:
		return wit.U64{}
	case reflect.Float32:
		return wit.F32{}
	case reflect.Float64:
		return wit.F64{}
	case reflect.String:
		return wit.String{}
	case reflect.Slice, reflect.Array:
		return &wit.TypeDef{Kind: &wit.List{Type: Describe(t.Elem())}}
	case reflect.Pointer:
		if t.Implements(hostNamedType) {
			return resource(reflect.Zero(t).Interface().(HostNamed).HostName())
		}
		return resource(t.Elem().Name())
	case reflect.Interface:
		return resource("any")
	default:
		return resource(t.Name())
	}
}

func resource(name string) *wit.TypeDef {
	return &wit.TypeDef{Name: &name, Kind: &wit.Resource{}}
}

// TypeString renders a WIT type for signatures.
func TypeString(t wit.Type) string {
	switch v := t.(type) {
	case wit.Bool:
		return "bool"
	case wit.U8:
		return "u8"
	case wit.S8:
		return "s8"
	case wit.U16:
		return "u16"
	case wit.S16:
		return "s16"
	case wit.U32:
		return "u32"
	case wit.S32:
		return "s32"
	case wit.U64:
		return "u64"
	case wit.S64:
		return "s64"
	case wit.F32:
		return "f32"
	case wit.F64:
		return "f64"
	case wit.String:
		return "string"
	case *wit.TypeDef:
		if v.Name != nil {
			return *v.Name
		}
		if l, ok := v.Kind.(*wit.List); ok {
			return "list<" + TypeString(l.Type) + ">"
		}
		return "typedef"
	default:
		return fmt.Sprintf("%T", t)
	}
}

// Signature renders the overload as name(param: type, ...) -> results.
func (o *Overload) Signature() string {
	s := o.Symbol + "("
	for i, p := range o.Params {
		if i > 0 {
			s += ", "
		}
		s += p.Name + ": " + TypeString(p.Type)
	}
	s += ")"
	switch len(o.Results) {
	case 0:
	case 1:
		s += " -> " + TypeString(o.Results[0])
	default:
		s += " -> tuple<"
		for i, r := range o.Results {
			if i > 0 {
				s += ", "
			}
			s += TypeString(r)
		}
		s += ">"
	}
	return s
}
