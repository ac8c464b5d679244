package bridge

import (
	"fmt"
	"reflect"

	"github.com/wippyai/cvbridge/dispatch"
	"github.com/wippyai/cvbridge/errors"
	"github.com/wippyai/cvbridge/marshal"
	"github.com/wippyai/cvbridge/mat"
	"github.com/wippyai/cvbridge/resource"
)

var (
	matType      = reflect.TypeFor[*mat.Mat]()
	handleType   = reflect.TypeFor[resource.Handle]()
	resourceType = reflect.TypeFor[resource.Resource]()
)

// matSource is implemented by vectors that can stand in for an input Mat.
type matSource interface {
	AsMat() (*mat.Mat, error)
}

// valuer is implemented by composite results such as compose.Tracked.
type valuer interface {
	Values() []any
}

// lift converts a host argument. Handles resolve to Mats or vectors, records
// lift to value objects, everything else goes through dispatch.Convert.
func (b *Bridge) lift(arg any, t reflect.Type) (reflect.Value, error) {
	switch {
	case t == matType:
		return b.liftMat(arg)
	case marshal.IsValueType(t):
		v, err := marshal.LiftType(t, arg)
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(v), nil
	case isResource(t):
		return b.liftResource(arg, t)
	default:
		return dispatch.Convert(arg, t)
	}
}

// liftMat resolves a Mat handle. A numeric, point or rect vector handle is
// accepted too and read as an n x 1 input array.
func (b *Bridge) liftMat(arg any) (reflect.Value, error) {
	if m, ok := arg.(*mat.Mat); ok {
		return reflect.ValueOf(m), nil
	}
	r, err := b.resolve(arg, "Mat")
	if err != nil || r == nil {
		return reflect.Zero(matType), err
	}
	switch v := r.(type) {
	case *mat.Mat:
		return reflect.ValueOf(v), nil
	case matSource:
		m, err := v.AsMat()
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(m), nil
	}
	return reflect.Value{}, errors.TypeMismatch(errors.PhaseHost, []string{"handle"}, "Mat", hostName(r))
}

func (b *Bridge) liftResource(arg any, t reflect.Type) (reflect.Value, error) {
	if arg != nil && reflect.TypeOf(arg) == t {
		return reflect.ValueOf(arg), nil
	}
	want := resourceName(t)
	r, err := b.resolve(arg, want)
	if err != nil || r == nil {
		return reflect.Zero(t), err
	}
	if reflect.TypeOf(r) != t {
		return reflect.Value{}, errors.TypeMismatch(errors.PhaseHost, []string{"handle"}, want, hostName(r))
	}
	return reflect.ValueOf(r), nil
}

// resolve looks up the resource behind a handle argument. A nil argument
// resolves to nil.
func (b *Bridge) resolve(arg any, want string) (resource.Resource, error) {
	if arg == nil {
		return nil, nil
	}
	hv, err := dispatch.Convert(arg, handleType)
	if err != nil {
		return nil, errors.TypeMismatch(errors.PhaseHost, nil, fmt.Sprintf("%T", arg), want+" handle")
	}
	return b.table.Get(hv.Interface().(resource.Handle))
}

func isResource(t reflect.Type) bool {
	return t.Kind() == reflect.Pointer && t.Implements(resourceType)
}

func hostName(r resource.Resource) string {
	return resourceName(reflect.TypeOf(r))
}

// resourceName is the class name the host knows a resource type by.
func resourceName(t reflect.Type) string {
	if n, ok := reflect.Zero(t).Interface().(dispatch.HostNamed); ok {
		return n.HostName()
	}
	return t.Elem().Name()
}

// lower converts a Go result to its host form. Mats and vectors become new
// handles, value objects become records and numbers widen to int or
// float64. Slices of numbers are returned as is and alias Mat memory.
func (b *Bridge) lower(v reflect.Value) (any, error) {
	if !v.IsValid() {
		return nil, nil
	}
	if isResource(v.Type()) {
		if v.IsNil() {
			return nil, nil
		}
		return b.table.Insert(v.Interface().(resource.Resource))
	}
	if c, ok := v.Interface().(valuer); ok {
		vals := c.Values()
		out := make([]any, len(vals))
		for i, item := range vals {
			lowered, err := b.lower(reflect.ValueOf(item))
			if err != nil {
				return nil, err
			}
			out[i] = lowered
		}
		return out, nil
	}
	if marshal.IsValueType(v.Type()) {
		return marshal.Lower(v.Interface())
	}

	switch k := v.Kind(); {
	case k >= reflect.Int && k <= reflect.Int64:
		return int(v.Int()), nil
	case k >= reflect.Uint && k <= reflect.Uint64:
		return int(v.Uint()), nil
	case k == reflect.Float32 || k == reflect.Float64:
		return v.Float(), nil
	case k == reflect.Array || k == reflect.Slice:
		if marshal.IsValueType(v.Type().Elem()) {
			return marshal.Lower(v.Interface())
		}
	}
	return v.Interface(), nil
}
