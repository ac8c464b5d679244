package resource

import (
	"errors"
	"reflect"
	"sync"
)

var (
	ErrClosed            = errors.New("resource table closed")
	ErrOutstandingBorrow = errors.New("cannot drop resource with outstanding borrows")
	ErrInvalidHandle     = errors.New("invalid handle")
	ErrNoLease           = errors.New("no outstanding lease")
	ErrStaleHandle       = errors.New("handle refers to a dropped resource")
	ErrTableFull         = errors.New("resource table full")
)

// LocalBackend is an in-memory handle backend with lease tracking.
type LocalBackend struct {
	entries  []entry
	freeList []int
	mu       sync.RWMutex
	closed   bool
}

type entry struct {
	res    Resource
	leases uint32
	gen    uint8
	valid  bool
}

// NewLocalBackend creates a new in-memory backend.
func NewLocalBackend() *LocalBackend {
	return &LocalBackend{
		entries:  make([]entry, 0, 64),
		freeList: make([]int, 0, 16),
	}
}

// Create stores a resource and returns a handle. Freed slots are reused under
// the next generation.
func (b *LocalBackend) Create(r Resource) (Handle, error) {
	if isNil(r) {
		return 0, ErrInvalidHandle
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return 0, ErrClosed
	}

	if len(b.freeList) > 0 {
		slot := b.freeList[len(b.freeList)-1]
		b.freeList = b.freeList[:len(b.freeList)-1]
		e := &b.entries[slot]
		*e = entry{res: r, gen: e.gen, valid: true}
		return makeHandle(slot, e.gen), nil
	}

	if len(b.entries) >= maxSlots {
		return 0, ErrTableFull
	}
	b.entries = append(b.entries, entry{res: r, valid: true})
	return makeHandle(len(b.entries)-1, 0), nil
}

// lookup returns the live entry for h. Callers hold b.mu.
func (b *LocalBackend) lookup(h Handle) (*entry, error) {
	slot := int(h.Slot())
	if slot == 0 || slot > len(b.entries) {
		return nil, ErrInvalidHandle
	}
	e := &b.entries[slot-1]
	if e.gen != h.Generation() {
		return nil, ErrStaleHandle
	}
	if !e.valid {
		return nil, ErrInvalidHandle
	}
	return e, nil
}

// Get retrieves a resource by handle.
func (b *LocalBackend) Get(h Handle) (Resource, bool) {
	r, err := b.Resolve(h)
	return r, err == nil
}

// Resolve is Get with the reason a handle does not resolve.
func (b *LocalBackend) Resolve(h Handle) (Resource, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	e, err := b.lookup(h)
	if err != nil {
		return nil, err
	}
	return e.res, nil
}

// Lease increments the lease count for a handle.
func (b *LocalBackend) Lease(h Handle) (uint32, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	e, err := b.lookup(h)
	if err != nil {
		return 0, err
	}
	e.leases++
	return e.leases, nil
}

// Return decrements the lease count for a handle.
func (b *LocalBackend) Return(h Handle) (uint32, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	e, err := b.lookup(h)
	if err != nil {
		return 0, err
	}
	if e.leases == 0 {
		return 0, ErrNoLease
	}
	e.leases--
	return e.leases, nil
}

// Leases returns the outstanding lease count for a handle.
func (b *LocalBackend) Leases(h Handle) (uint32, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	e, err := b.lookup(h)
	if err != nil {
		return 0, false
	}
	return e.leases, true
}

// Drop removes a handle and returns its resource.
func (b *LocalBackend) Drop(h Handle) (Resource, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	e, err := b.lookup(h)
	if err != nil {
		return nil, err
	}
	if e.leases > 0 {
		return nil, ErrOutstandingBorrow
	}

	r := e.res
	*e = entry{gen: e.gen + 1}
	b.freeList = append(b.freeList, int(h.Slot())-1)
	return r, nil
}

// Close releases every resource. Outstanding leases are ignored.
func (b *LocalBackend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true

	for i := range b.entries {
		if b.entries[i].valid {
			b.entries[i].res.Release()
			b.entries[i] = entry{}
		}
	}

	b.entries = nil
	b.freeList = nil
	return nil
}

// Len returns the number of live handles.
func (b *LocalBackend) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	count := 0
	for _, e := range b.entries {
		if e.valid {
			count++
		}
	}
	return count
}

// Each iterates over live handles in ascending order until fn returns false.
func (b *LocalBackend) Each(fn func(Handle, Resource) bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for i, e := range b.entries {
		if e.valid {
			if !fn(makeHandle(i, e.gen), e.res) {
				break
			}
		}
	}
}

func isNil(r Resource) bool {
	if r == nil {
		return true
	}
	v := reflect.ValueOf(r)
	return v.Kind() == reflect.Pointer && v.IsNil()
}

var _ Backend = (*LocalBackend)(nil)
