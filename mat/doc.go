// Package mat implements the strided N-dimensional matrix exposed across
// the bridge.
//
// A Mat is described by a TypeTag (element depth and channel count),
// per-dimension extents and byte steps, and a data window that is either
// owned (Go-allocated, 8-byte aligned) or borrowed from the caller.
// Sub-matrices, typed views and element pointers alias the same storage,
// so writes through any of them are visible through all.
//
// Integer results are saturated: values are rounded half-to-even and
// clamped to the destination range.
//
//	m, _ := mat.NewMat(2, 3, mat.CV8UC1)
//	v, _ := mat.Data[uint8](m)
//	v.Slice()[4] = 9
//	_ = *mat.At[uint8](m, 1, 1) // 9
package mat
