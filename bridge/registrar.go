package bridge

import (
	"reflect"

	"github.com/wippyai/cvbridge/dispatch"
)

const matClass = "Mat"

// registrar collects registration errors so symbol tables read as flat lists.
type registrar struct {
	reg  *dispatch.Registry
	errs []error
}

// fn registers a free function. names label the host-visible parameters.
func (g *registrar) fn(symbol string, fn any, names ...string) {
	if err := g.reg.Register(symbol, fn, params(fn, 0, names)...); err != nil {
		g.errs = append(g.errs, err)
	}
}

// method registers a Mat method. fn takes the receiver first.
func (g *registrar) method(name string, fn any, names ...string) {
	g.classMethod(matClass, name, fn, names...)
}

func (g *registrar) classMethod(class, name string, fn any, names ...string) {
	if err := g.reg.RegisterMethod(class, name, fn, params(fn, 1, names)...); err != nil {
		g.errs = append(g.errs, err)
	}
}

func params(fn any, first int, names []string) []dispatch.Param {
	if len(names) == 0 {
		return nil
	}
	ft := reflect.TypeOf(fn)
	if ft == nil || ft.Kind() != reflect.Func || ft.NumIn()-first != len(names) {
		// let Register report the mismatch
		return make([]dispatch.Param, len(names))
	}
	ps := make([]dispatch.Param, len(names))
	for i, n := range names {
		ps[i] = dispatch.Param{Name: n, Type: dispatch.Describe(ft.In(first + i))}
	}
	return ps
}
