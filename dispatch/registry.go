package dispatch

import (
	stderrors "errors"
	"fmt"
	"reflect"
	"slices"
	"sync"

	"go.bytecodealliance.org/wit"
	"go.uber.org/zap"

	"github.com/wippyai/cvbridge/errors"
)

// ErrSealed is the cause of registrations attempted after Seal.
var ErrSealed = stderrors.New("registry is sealed")

var errorType = reflect.TypeFor[error]()

// Param names and types one host-visible parameter for signatures.
type Param struct {
	Type wit.Type
	Name string
}

// Overload is one registered implementation of a symbol.
type Overload struct {
	fn      reflect.Value
	Symbol  string
	Params  []Param
	Results []wit.Type
	Arity   int
	method  bool
	errOut  bool
}

// Method reports whether the overload takes a receiver before its
// host-visible arguments.
func (o *Overload) Method() bool { return o.method }

// Registry maps (symbol, arity) to an Overload.
type Registry struct {
	lifter    Lifter
	lowerer   Lowerer
	describe  func(reflect.Type) wit.Type
	overloads map[string]map[int]*Overload
	mu        sync.RWMutex
	sealed    bool
}

// Option configures a Registry.
type Option func(*Registry)

// WithLifter sets the argument converter. The default accepts values
// assignable or numerically convertible to the parameter type.
func WithLifter(l Lifter) Option {
	return func(r *Registry) { r.lifter = l }
}

// WithLowerer sets the result converter. The default returns results as is.
func WithLowerer(l Lowerer) Option {
	return func(r *Registry) { r.lowerer = l }
}

// WithDescriber sets the function that derives WIT types for parameters
// registered without explicit Params.
func WithDescriber(fn func(reflect.Type) wit.Type) Option {
	return func(r *Registry) { r.describe = fn }
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		lifter:    LifterFunc(Convert),
		lowerer:   LowererFunc(identity),
		describe:  Describe,
		overloads: make(map[string]map[int]*Overload),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds fn as the overload of symbol taking fn's parameter count.
// params, when given, name the parameters for signatures and must match
// that count.
func (r *Registry) Register(symbol string, fn any, params ...Param) error {
	return r.register(symbol, fn, false, params)
}

// RegisterMethod adds fn as the overload of class.name. fn's first
// parameter is the receiver and does not count toward the arity.
func (r *Registry) RegisterMethod(class, name string, fn any, params ...Param) error {
	if class == "" {
		return errors.InvalidInput(errors.PhaseDispatch, "class name cannot be empty")
	}
	return r.register(class+"."+name, fn, true, params)
}

func (r *Registry) register(symbol string, fn any, method bool, params []Param) error {
	if symbol == "" || symbol[len(symbol)-1] == '.' {
		return errors.InvalidInput(errors.PhaseDispatch, "symbol cannot be empty")
	}

	rv := reflect.ValueOf(fn)
	if rv.Kind() != reflect.Func {
		return errors.Registration(symbol, errors.New(errors.PhaseDispatch, errors.KindTypeMismatch).
			GoType(fmt.Sprintf("%T", fn)).
			Detail("handler must be a function").
			Build())
	}
	ft := rv.Type()
	if ft.IsVariadic() {
		return errors.Registration(symbol, errors.InvalidInput(errors.PhaseDispatch, "variadic handlers have no fixed arity"))
	}

	first := 0
	if method {
		if ft.NumIn() == 0 {
			return errors.Registration(symbol, errors.InvalidInput(errors.PhaseDispatch, "method handler needs a receiver parameter"))
		}
		first = 1
	}
	arity := ft.NumIn() - first

	if len(params) == 0 {
		params = make([]Param, arity)
		for i := range params {
			params[i] = Param{Name: fmt.Sprintf("arg%d", i), Type: r.describe(ft.In(first + i))}
		}
	} else if len(params) != arity {
		return errors.Registration(symbol, errors.InvalidInput(errors.PhaseDispatch,
			fmt.Sprintf("%d params described for a handler taking %d", len(params), arity)))
	}

	ov := &Overload{
		fn:     rv,
		Symbol: symbol,
		Params: params,
		Arity:  arity,
		method: method,
	}
	numOut := ft.NumOut()
	if numOut > 0 && ft.Out(numOut-1) == errorType {
		ov.errOut = true
		numOut--
	}
	for i := 0; i < numOut; i++ {
		ov.Results = append(ov.Results, r.describe(ft.Out(i)))
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sealed {
		return errors.Registration(symbol, ErrSealed)
	}
	byArity := r.overloads[symbol]
	if byArity == nil {
		byArity = make(map[int]*Overload)
		r.overloads[symbol] = byArity
	}
	if _, exists := byArity[arity]; exists {
		Logger().Debug("dispatch: arity conflict",
			zap.String("symbol", symbol),
			zap.Int("arity", arity))
		return errors.ArityConflict(symbol, arity)
	}
	byArity[arity] = ov
	return nil
}

// Seal rejects any further registration.
func (r *Registry) Seal() {
	r.mu.Lock()
	r.sealed = true
	r.mu.Unlock()
}

// Sealed reports whether Seal has been called.
func (r *Registry) Sealed() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sealed
}

// Lookup returns the overload of symbol taking arity arguments.
func (r *Registry) Lookup(symbol string, arity int) (*Overload, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ov, ok := r.overloads[symbol][arity]
	return ov, ok
}

// Overloads returns every overload of symbol ordered by arity.
func (r *Registry) Overloads(symbol string) []*Overload {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Overload, 0, len(r.overloads[symbol]))
	for _, ov := range r.overloads[symbol] {
		out = append(out, ov)
	}
	slices.SortFunc(out, func(a, b *Overload) int { return a.Arity - b.Arity })
	return out
}

// Arities returns the registered arities of symbol in ascending order.
func (r *Registry) Arities(symbol string) []int {
	ovs := r.Overloads(symbol)
	out := make([]int, len(ovs))
	for i, ov := range ovs {
		out[i] = ov.Arity
	}
	return out
}

// Symbols returns every registered symbol, sorted.
func (r *Registry) Symbols() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.overloads))
	for s := range r.overloads {
		out = append(out, s)
	}
	slices.Sort(out)
	return out
}
