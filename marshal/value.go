package marshal

import (
	"fmt"
	"reflect"

	"github.com/wippyai/cvbridge/errors"
)

// Lower converts a value object, or a slice or array of value objects, to
// its host form.
func Lower(v any) (any, error) {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() {
		return nil, errors.InvalidInput(errors.PhaseMarshal, "lower: nil value")
	}
	return lowerValue(rv)
}

func lowerValue(rv reflect.Value) (any, error) {
	if IsValueType(rv.Type()) {
		cd, err := codecFor(rv.Type())
		if err != nil {
			return nil, err
		}
		return cd.lower(rv), nil
	}
	if k := rv.Kind(); (k == reflect.Slice || k == reflect.Array) && IsValueType(rv.Type().Elem()) {
		items := make([]any, rv.Len())
		for i := range items {
			item, err := lowerValue(rv.Index(i))
			if err != nil {
				return nil, err
			}
			items[i] = item
		}
		return items, nil
	}
	return nil, errors.Unsupported(errors.PhaseMarshal, fmt.Sprintf("lower: %s is not a value type", rv.Type()))
}

// Lift converts a host value to the value object T. A value that already
// has type T is returned as is.
func Lift[T any](value any) (T, error) {
	var zero T
	if v, ok := value.(T); ok {
		return v, nil
	}
	out, err := LiftType(reflect.TypeFor[T](), value)
	if err != nil {
		return zero, err
	}
	return out.(T), nil
}

// LiftType is Lift for a type known only at run time.
func LiftType(t reflect.Type, value any) (any, error) {
	if value != nil && reflect.TypeOf(value) == t {
		return value, nil
	}
	cd, err := codecFor(t)
	if err != nil {
		return nil, err
	}
	name, _ := NameOf(t)
	dst := reflect.New(t).Elem()
	if err := cd.lift(value, dst, []string{name}); err != nil {
		return nil, err
	}
	return dst.Interface(), nil
}
