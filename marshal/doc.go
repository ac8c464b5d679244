// Package marshal converts small value objects between their Go form in
// package geom and the plain records a dynamically typed host exchanges.
//
// A Record is a map from host field name to value. Every value type has a
// WIT schema naming its fields and their scalar kinds; lifting walks the
// schema, so a record with a missing field or a non-numeric field is
// rejected with a structured error while unknown fields are ignored.
//
//	r, _ := marshal.Lower(geom.Point{X: 1, Y: 2}) // Record{"x": 1, "y": 2}
//	p, _ := marshal.Lift[geom.Point](r)
//
// Scalar crosses as a four-element list rather than a record.
package marshal
