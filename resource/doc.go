// Package resource provides the handle table that stands between a host and
// the Mats and vectors it manipulates.
//
// Hosts never hold Go pointers to matrix memory. Every Mat or vector that
// crosses the boundary is inserted into a Table and represented by an opaque
// Handle.
//
// # Lifecycle
//
//	table := resource.NewTable()
//
//	h, err := table.Insert(m)                     // host now owns h
//	m, err := resource.Lookup[*mat.Mat](table, h) // resolve for a call
//	err = table.Drop(h)                           // release the Mat
//
// Drop releases the Mat's storage and bumps its generation, so typed views
// exported from it report themselves stale. A handle kept after Drop stays
// invalid even when its slot is reused.
//
// # Leases
//
// A host that keeps a view alive across calls takes a lease:
//
//	r, err := table.Lease(h)
//	defer table.Return(h)
//
// A handle with outstanding leases cannot be dropped; Drop fails with an
// error wrapping ErrOutstandingBorrow.
//
// # Observers
//
// Observers receive created, dropped, leased and returned events:
//
//	stop := table.Subscribe(resource.ObserverFunc(func(e resource.Event) {
//	    log.Printf("%s %d", e.Type, e.Handle)
//	}))
//	defer stop()
//
// Handles are not garbage collected. Call Close to release everything a
// table still holds.
package resource
