package resource

// Resource is a value a Table holds behind a handle: a Mat or a host-visible
// container. Release is called when its handle is dropped or the table closes.
type Resource interface {
	Release()
}

// Handle is an opaque reference to a Resource held in a table.
// Handle 0 is reserved and always invalid.
//
// The low 24 bits select a slot and the high 8 bits carry the slot's
// generation, so a handle kept after Drop does not resolve to whatever
// later reuses its slot.
type Handle uint32

const (
	slotBits = 24
	slotMask = 1<<slotBits - 1
	maxSlots = slotMask
	genShift = slotBits
)

func makeHandle(slot int, gen uint8) Handle {
	return Handle(uint32(gen)<<genShift | uint32(slot+1))
}

// Slot returns the table slot the handle addresses, starting at 1.
func (h Handle) Slot() uint32 { return uint32(h) & slotMask }

// Generation returns the slot generation the handle was issued for.
func (h Handle) Generation() uint8 { return uint8(uint32(h) >> genShift) }

// EventType identifies a handle lifecycle transition.
type EventType uint8

const (
	EventCreated EventType = iota
	EventDropped
	EventLeased
	EventReturned
)

func (t EventType) String() string {
	switch t {
	case EventCreated:
		return "created"
	case EventDropped:
		return "dropped"
	case EventLeased:
		return "leased"
	case EventReturned:
		return "returned"
	default:
		return "unknown"
	}
}

// Event represents a handle lifecycle event.
type Event struct {
	Resource Resource
	Handle   Handle
	Leases   uint32
	Type     EventType
}

// Observer receives notifications about handle lifecycle events.
type Observer interface {
	OnResourceEvent(Event)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(Event)

func (f ObserverFunc) OnResourceEvent(e Event) { f(e) }

// Backend provides the storage behind a Table.
type Backend interface {
	// Create stores a resource and returns its handle.
	Create(r Resource) (Handle, error)

	// Get retrieves a resource by handle.
	Get(h Handle) (Resource, bool)

	// Lease increments the outstanding lease count and returns the new count.
	Lease(h Handle) (uint32, error)

	// Return decrements the outstanding lease count and returns the new count.
	Return(h Handle) (uint32, error)

	// Drop removes a handle and returns its resource.
	// Fails with ErrOutstandingBorrow while leases are outstanding.
	Drop(h Handle) (Resource, error)

	// Len returns the number of live handles.
	Len() int

	// Close releases every handle held by the backend.
	Close() error
}
