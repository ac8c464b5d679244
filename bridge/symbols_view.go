package bridge

import (
	"github.com/wippyai/cvbridge/mat"
)

// registerViews registers the zero-copy buffer accessors and the typed
// element getters and setters. Returned slices alias Mat memory.
func (b *Bridge) registerViews(g *registrar) {
	g.method("ptr", mat.Ptr, "i")
	g.method("ptr", mat.PtrAt, "i", "j")

	registerElem[uint8](g, "data", "uchar")
	registerElem[int8](g, "data8S", "char")
	registerElem[uint16](g, "data16u", "ushort")
	registerElem[int16](g, "data16s", "short")
	registerElem[int32](g, "data32s", "int")
	registerElem[float32](g, "data32f", "float")
	registerElem[float64](g, "data64f", "double")
}

// registerElem registers the whole-buffer view, the row pointers and the
// element accessors for one element kind.
func registerElem[T mat.Elem](g *registrar, data, kind string) {
	g.method(data, func(m *mat.Mat) ([]T, error) {
		v, err := mat.Data[T](m)
		return v.Slice(), err
	})

	g.method(kind+"Ptr", func(m *mat.Mat, i int) ([]T, error) {
		v, err := mat.RowView[T](m, i)
		return v.Slice(), err
	}, "i")
	g.method(kind+"Ptr", func(m *mat.Mat, i, j int) ([]T, error) {
		v, err := mat.RowColView[T](m, i, j)
		return v.Slice(), err
	}, "i", "j")

	get, set := "get_"+kind+"_at", "set_"+kind+"_at"
	g.method(get, func(m *mat.Mat, i int) T { return *mat.At[T](m, i) }, "i")
	g.method(get, func(m *mat.Mat, i, j int) T { return *mat.At[T](m, i, j) }, "i", "j")
	g.method(get, func(m *mat.Mat, i, j, k int) T { return *mat.At[T](m, i, j, k) }, "i", "j", "k")
	g.method(set, func(m *mat.Mat, i int, v T) { *mat.At[T](m, i) = v }, "i", "value")
	g.method(set, func(m *mat.Mat, i, j int, v T) { *mat.At[T](m, i, j) = v }, "i", "j", "value")
	g.method(set, func(m *mat.Mat, i, j, k int, v T) { *mat.At[T](m, i, j, k) = v }, "i", "j", "k", "value")
}
