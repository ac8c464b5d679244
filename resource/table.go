package resource

import (
	stderrors "errors"
	"fmt"
	"strconv"
	"sync"

	"go.uber.org/zap"

	"github.com/wippyai/cvbridge/errors"
)

// Table maps handles to resources, tracks leases and notifies observers.
type Table struct {
	backend   *LocalBackend
	observers map[int]Observer
	nextObs   int
	obsMu     sync.RWMutex
	closed    bool
	closeMu   sync.RWMutex
}

// NewTable creates a new table backed by a LocalBackend.
func NewTable() *Table {
	return &Table{
		backend:   NewLocalBackend(),
		observers: make(map[int]Observer),
	}
}

// Insert adds a resource and returns its handle.
func (t *Table) Insert(r Resource) (Handle, error) {
	t.closeMu.RLock()
	closed := t.closed
	t.closeMu.RUnlock()
	if closed {
		return 0, errors.Wrap(errors.PhaseHost, errors.KindNotInitialized, ErrClosed, "insert")
	}

	h, err := t.backend.Create(r)
	if err != nil {
		return 0, t.wrap(err, "insert", 0)
	}

	t.notify(Event{Type: EventCreated, Handle: h, Resource: r})
	return h, nil
}

// Get retrieves the resource behind a handle.
func (t *Table) Get(h Handle) (Resource, error) {
	r, err := t.backend.Resolve(h)
	if err != nil {
		e := errors.NotFound(errors.PhaseHost, "handle", strconv.FormatUint(uint64(h), 10))
		e.Cause = err
		return nil, e
	}
	return r, nil
}

// Lookup resolves h and checks that it holds a T.
func Lookup[T Resource](t *Table, h Handle) (T, error) {
	var zero T
	r, err := t.Get(h)
	if err != nil {
		return zero, err
	}
	v, ok := r.(T)
	if !ok {
		return zero, errors.TypeMismatch(errors.PhaseHost,
			[]string{"handle", strconv.FormatUint(uint64(h), 10)},
			fmt.Sprintf("%T", zero), fmt.Sprintf("%T", r))
	}
	return v, nil
}

// Lease marks a handle as borrowed. A leased handle cannot be dropped
// until every lease is returned.
func (t *Table) Lease(h Handle) (Resource, error) {
	n, err := t.backend.Lease(h)
	if err != nil {
		return nil, t.wrap(err, "lease", h)
	}
	r, _ := t.backend.Get(h)
	t.notify(Event{Type: EventLeased, Handle: h, Resource: r, Leases: n})
	return r, nil
}

// Return gives back one lease taken with Lease.
func (t *Table) Return(h Handle) error {
	n, err := t.backend.Return(h)
	if err != nil {
		return t.wrap(err, "return", h)
	}
	r, _ := t.backend.Get(h)
	t.notify(Event{Type: EventReturned, Handle: h, Resource: r, Leases: n})
	return nil
}

// Leases returns the outstanding lease count of a live handle.
func (t *Table) Leases(h Handle) (uint32, bool) {
	return t.backend.Leases(h)
}

// Drop removes a handle and releases its resource. For a Mat this
// invalidates every view exported from it.
func (t *Table) Drop(h Handle) error {
	r, err := t.backend.Drop(h)
	if err != nil {
		return t.wrap(err, "drop", h)
	}
	r.Release()
	t.notify(Event{Type: EventDropped, Handle: h, Resource: r})
	return nil
}

// Subscribe adds an observer and returns a function that removes it.
func (t *Table) Subscribe(o Observer) (unsubscribe func()) {
	t.obsMu.Lock()
	defer t.obsMu.Unlock()
	id := t.nextObs
	t.nextObs++
	t.observers[id] = o
	return func() {
		t.obsMu.Lock()
		defer t.obsMu.Unlock()
		delete(t.observers, id)
	}
}

// Len returns the number of live handles.
func (t *Table) Len() int {
	return t.backend.Len()
}

// Handles returns the live handles in ascending order.
func (t *Table) Handles() []Handle {
	var hs []Handle
	t.backend.Each(func(h Handle, _ Resource) bool {
		hs = append(hs, h)
		return true
	})
	return hs
}

// Clear drops every handle without outstanding leases.
func (t *Table) Clear() {
	for _, h := range t.Handles() {
		if err := t.Drop(h); err != nil {
			Logger().Debug("clear skipped handle", zap.Uint32("handle", uint32(h)), zap.Error(err))
		}
	}
}

// Close releases every resource and stops accepting new handles.
func (t *Table) Close() error {
	t.closeMu.Lock()
	t.closed = true
	t.closeMu.Unlock()

	return t.backend.Close()
}

func (t *Table) wrap(err error, op string, h Handle) error {
	kind := errors.KindInvalidInput
	switch {
	case stderrors.Is(err, ErrInvalidHandle), stderrors.Is(err, ErrStaleHandle):
		kind = errors.KindNotFound
	case stderrors.Is(err, ErrClosed):
		kind = errors.KindNotInitialized
	}
	return errors.New(errors.PhaseHost, kind).
		Path(op, strconv.FormatUint(uint64(h), 10)).
		Cause(err).
		Build()
}

func (t *Table) notify(e Event) {
	Logger().Debug("handle event",
		zap.Stringer("event", e.Type),
		zap.Uint32("handle", uint32(e.Handle)),
		zap.Uint32("leases", e.Leases),
	)

	t.obsMu.RLock()
	defer t.obsMu.RUnlock()
	for _, o := range t.observers {
		o.OnResourceEvent(e)
	}
}
