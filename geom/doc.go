// Package geom defines the small plain-data value objects that cross the
// bridge by value: points, sizes, rectangles, rotated rectangles,
// termination criteria, circles, min/max scan results, scalars and ranges.
//
// Values in this package are never aliased across the boundary. Every
// field is an independent scalar, and the marshal package converts each
// type field-by-field to a host record whose keys are the json tag names.
package geom
