package bridge

import (
	stderrors "errors"

	"go.uber.org/zap"

	"github.com/wippyai/cvbridge/dispatch"
	"github.com/wippyai/cvbridge/extmem"
	"github.com/wippyai/cvbridge/marshal"
	"github.com/wippyai/cvbridge/mat"
	"github.com/wippyai/cvbridge/resource"
)

// Bridge is the call surface a host talks to. Hosts pass plain values,
// records and handles; Mats never cross the boundary except as handles or
// as typed slices aliasing their memory.
type Bridge struct {
	reg    *dispatch.Registry
	table  *resource.Table
	heap   extmem.Heap
	images marshal.ImageDecoder
	log    *zap.Logger
}

// New creates a bridge with every symbol registered. The registry is sealed
// before New returns.
func New(opts ...Option) (*Bridge, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = Logger()
	}

	b := &Bridge{
		table:  resource.NewTable(),
		heap:   cfg.heap,
		images: marshal.ImageDecoder{Strict: cfg.strict},
		log:    cfg.logger,
	}
	b.reg = dispatch.NewRegistry(
		dispatch.WithLifter(dispatch.LifterFunc(b.lift)),
		dispatch.WithLowerer(dispatch.LowererFunc(b.lower)),
	)
	b.table.Subscribe(resource.ObserverFunc(func(e resource.Event) {
		b.log.Debug("handle",
			zap.Stringer("event", e.Type),
			zap.Uint32("handle", uint32(e.Handle)),
			zap.Uint32("leases", e.Leases),
		)
	}))

	g := &registrar{reg: b.reg}
	b.registerMat(g)
	b.registerViews(g)
	b.registerFree(g)
	b.registerVectors(g)
	if err := stderrors.Join(g.errs...); err != nil {
		return nil, err
	}
	b.reg.Seal()

	b.log.Debug("bridge ready",
		zap.Int("symbols", len(b.reg.Symbols())),
		zap.Bool("heap", b.heap != nil),
		zap.Bool("strictImages", cfg.strict),
	)
	return b, nil
}

// Call invokes a free function or constructor. The overload is selected by
// len(args).
func (b *Bridge) Call(symbol string, args ...any) (any, error) {
	b.log.Debug("call", zap.String("symbol", symbol), zap.Int("arity", len(args)))
	return b.reg.Invoke(symbol, args...)
}

// CallMethod invokes class.name on the Mat or vector behind recv.
func (b *Bridge) CallMethod(class, name string, recv any, args ...any) (any, error) {
	b.log.Debug("call method",
		zap.String("class", class),
		zap.String("method", name),
		zap.Int("arity", len(args)),
	)
	return b.reg.InvokeMethod(class, name, recv, args...)
}

// Insert hands a Go-side Mat to the host.
func (b *Bridge) Insert(m *mat.Mat) (resource.Handle, error) {
	return b.table.Insert(m)
}

// Mat resolves a handle to its Mat. A handle to a vector fails with
// type_mismatch.
func (b *Bridge) Mat(h resource.Handle) (*mat.Mat, error) {
	return resource.Lookup[*mat.Mat](b.table, h)
}

// Resource resolves a handle to whatever it refers to, a Mat or a vector.
func (b *Bridge) Resource(h resource.Handle) (resource.Resource, error) {
	return b.table.Get(h)
}

// Drop releases the Mat or vector behind h. Views exported from it become stale.
// Fails while leases are outstanding.
func (b *Bridge) Drop(h resource.Handle) error {
	return b.table.Drop(h)
}

// Lease pins h so it cannot be dropped until Return is called.
func (b *Bridge) Lease(h resource.Handle) error {
	_, err := b.table.Lease(h)
	return err
}

// Return releases a lease taken with Lease.
func (b *Bridge) Return(h resource.Handle) error {
	return b.table.Return(h)
}

// Handles returns the live handles in ascending order.
func (b *Bridge) Handles() []resource.Handle {
	return b.table.Handles()
}

// Registry exposes the sealed overload table for introspection.
func (b *Bridge) Registry() *dispatch.Registry {
	return b.reg
}

// Close releases every Mat and vector the bridge still holds.
func (b *Bridge) Close() error {
	return b.table.Close()
}
