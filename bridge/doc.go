// Package bridge is the host-facing call surface.
//
// A Bridge owns a handle table and a sealed overload registry. Hosts call
// symbols by name with plain values:
//
//	b, err := bridge.New()
//	h, err := b.Call("Mat", 480, 640, bridge.Constants()["CV_8UC4"])
//	px, err := b.CallMethod("Mat", "data", h)       // []uint8 aliasing the Mat
//	err = b.Drop(h)
//
// Arguments are lifted before the call: handles resolve to Mats, records
// ([marshal.Record]) lift to geometric value objects and numbers convert to
// the parameter type when no information is lost. Results are lowered:
// Mats become new handles, value objects become records, composite results
// from the compose package become [primary, window] pairs and typed views
// are returned as Go slices over the Mat's memory.
//
// Vectors (IntVector, FloatVector, DoubleVector, PointVector, RectVector and
// MatVector) are handle-backed too:
//
//	pts, err := b.Call("PointVector")
//	_, err = b.CallMethod("PointVector", "push_back", pts, marshal.Record{"x": 1, "y": 2})
//	c, err := b.Call("minEnclosingCircle", pts)
//
// Overloads are selected by argument count alone. Every symbol and arity
// the bridge exposes is fixed when New returns.
package bridge
