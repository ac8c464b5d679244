package dispatch

import (
	"fmt"
	"reflect"

	"go.uber.org/zap"

	"github.com/wippyai/cvbridge/errors"
)

// Lifter converts a host argument to a value of the parameter type t.
type Lifter interface {
	Lift(arg any, t reflect.Type) (reflect.Value, error)
}

// Lowerer converts a Go result to its host form.
type Lowerer interface {
	Lower(v reflect.Value) (any, error)
}

// LifterFunc adapts a function to Lifter.
type LifterFunc func(arg any, t reflect.Type) (reflect.Value, error)

func (f LifterFunc) Lift(arg any, t reflect.Type) (reflect.Value, error) { return f(arg, t) }

// LowererFunc adapts a function to Lowerer.
type LowererFunc func(v reflect.Value) (any, error)

func (f LowererFunc) Lower(v reflect.Value) (any, error) { return f(v) }

func identity(v reflect.Value) (any, error) {
	return v.Interface(), nil
}

// Invoke calls the overload of symbol selected by len(args).
//
// No result yields nil, one result yields the lowered value and several
// results yield a []any of lowered values.
func (r *Registry) Invoke(symbol string, args ...any) (any, error) {
	ov, err := r.resolve(symbol, len(args))
	if err != nil {
		return nil, err
	}
	if ov.method {
		return nil, errors.New(errors.PhaseDispatch, errors.KindInvalidInput).
			Path(symbol).
			Detail("%s is a method; use InvokeMethod", symbol).
			Build()
	}
	return r.call(ov, args)
}

// InvokeMethod calls the overload of class.name selected by len(args),
// passing recv as the receiver.
func (r *Registry) InvokeMethod(class, name string, recv any, args ...any) (any, error) {
	symbol := class + "." + name
	ov, err := r.resolve(symbol, len(args))
	if err != nil {
		return nil, err
	}
	if !ov.method {
		return nil, errors.New(errors.PhaseDispatch, errors.KindInvalidInput).
			Path(symbol).
			Detail("%s is not a method", symbol).
			Build()
	}
	return r.call(ov, append([]any{recv}, args...))
}

func (r *Registry) resolve(symbol string, arity int) (*Overload, error) {
	if ov, ok := r.Lookup(symbol, arity); ok {
		return ov, nil
	}
	arities := r.Arities(symbol)
	if len(arities) == 0 {
		return nil, errors.NotFound(errors.PhaseDispatch, "symbol", symbol)
	}
	return nil, errors.New(errors.PhaseDispatch, errors.KindNotFound).
		Path(symbol).
		Value(arity).
		Detail("no overload takes %d argument(s); registered arities %v", arity, arities).
		Build()
}

func (r *Registry) call(ov *Overload, args []any) (result any, err error) {
	ft := ov.fn.Type()
	in := make([]reflect.Value, len(args))
	for i, arg := range args {
		v, lerr := r.lifter.Lift(arg, ft.In(i))
		if lerr != nil {
			return nil, argError(ov, i, lerr)
		}
		in[i] = v
	}

	defer func() {
		if p := recover(); p != nil {
			Logger().Debug("dispatch: recovered panic",
				zap.String("symbol", ov.Symbol),
				zap.Int("arity", ov.Arity),
				zap.Any("panic", p))
			result, err = nil, errors.ContractViolation(ov.Symbol, p)
		}
	}()

	out := ov.fn.Call(in)
	if ov.errOut {
		if e := out[len(out)-1]; !e.IsNil() {
			return nil, e.Interface().(error)
		}
		out = out[:len(out)-1]
	}

	switch len(out) {
	case 0:
		return nil, nil
	case 1:
		return r.lowerer.Lower(out[0])
	default:
		vals := make([]any, len(out))
		for i, o := range out {
			if vals[i], err = r.lowerer.Lower(o); err != nil {
				return nil, err
			}
		}
		return vals, nil
	}
}

// argError prefixes the failing argument to a structured lift error.
func argError(ov *Overload, i int, err error) error {
	name := fmt.Sprintf("arg%d", i)
	if ov.method {
		if i == 0 {
			name = "this"
		} else {
			name = ov.Params[i-1].Name
		}
	} else if i < len(ov.Params) {
		name = ov.Params[i].Name
	}
	if e, ok := err.(*errors.Error); ok {
		wrapped := *e
		wrapped.Path = append([]string{ov.Symbol, name}, e.Path...)
		return &wrapped
	}
	return errors.New(errors.PhaseDispatch, errors.KindTypeMismatch).
		Path(ov.Symbol, name).
		Cause(err).
		Build()
}
