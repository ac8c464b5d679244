package mat

import (
	"fmt"
	"unsafe"

	"github.com/wippyai/cvbridge/errors"
)

// View is a typed window into a Mat's storage. Writes through the slice are
// visible through the Mat and vice versa.
type View[T Elem] struct {
	m     *Mat
	s     []T
	gen   uint64
	depth Depth
}

// Slice returns the aliased elements.
func (v View[T]) Slice() []T { return v.s }

// Len returns the number of T elements in the window.
func (v View[T]) Len() int { return len(v.s) }

// Depth returns the element kind of the window.
func (v View[T]) Depth() Depth { return v.depth }

// Valid reports whether the source Mat has not been reallocated since the
// view was issued.
func (v View[T]) Valid() bool {
	return v.m != nil && v.m.gen == v.gen
}

// Check returns a KindStaleView error when the view is no longer Valid.
func (v View[T]) Check() error {
	if v.Valid() {
		return nil
	}
	e := errors.New(errors.PhaseView, errors.KindStaleView).Detail("matrix was reallocated after the view was issued")
	if v.m != nil {
		e.Value(v.m.gen)
	}
	return e.Build()
}

// Data exports the whole buffer of a continuous Mat as a typed view. An
// empty Mat yields an empty view of any element type.
func Data[T Elem](m *Mat) (View[T], error) {
	if m.Empty() {
		return View[T]{m: m, s: []T{}, gen: m.gen, depth: DepthFor[T]()}, nil
	}
	if err := checkDepth[T](m, "data"); err != nil {
		return View[T]{}, err
	}
	if !m.IsContinuous() {
		return View[T]{}, errors.New(errors.PhaseView, errors.KindNotContinuous).
			Path("data").
			Detail("%s is not continuous", m).
			Build()
	}
	return viewOf[T](m, m.data, "data")
}

// Bytes exports the whole buffer of a continuous Mat as raw bytes.
func Bytes(m *Mat) ([]byte, error) {
	if !m.IsContinuous() {
		return nil, errors.New(errors.PhaseView, errors.KindNotContinuous).
			Path("bytes").
			Detail("%s is not continuous", m).
			Build()
	}
	if m.data == nil {
		return []byte{}, nil
	}
	return m.data, nil
}

// RowView exports row i of a 2-D Mat.
func RowView[T Elem](m *Mat, i int) (View[T], error) {
	return RowColView[T](m, i, 0)
}

// RowColView exports row i of a 2-D Mat starting at element column j.
func RowColView[T Elem](m *Mat, i, j int) (View[T], error) {
	if err := checkDepth[T](m, "ptr"); err != nil {
		return View[T]{}, err
	}
	b, err := PtrAt(m, i, j)
	if err != nil {
		return View[T]{}, err
	}
	return viewOf[T](m, b, "ptr")
}

// Ptr returns the bytes of row i of a 2-D Mat.
func Ptr(m *Mat, i int) ([]byte, error) {
	return PtrAt(m, i, 0)
}

// PtrAt returns the bytes of row i of a 2-D Mat from element column j to
// the end of the row.
func PtrAt(m *Mat, i, j int) ([]byte, error) {
	if len(m.size) != 2 {
		return nil, errors.InvalidInput(errors.PhaseView, fmt.Sprintf("ptr needs a 2-D matrix, got %d-D", len(m.size)))
	}
	if i < 0 || i >= m.size[0] {
		return nil, errors.OutOfBounds(errors.PhaseView, []string{"ptr", "row"}, i, m.size[0])
	}
	if j < 0 || j >= m.size[1] {
		return nil, errors.OutOfBounds(errors.PhaseView, []string{"ptr", "col"}, j, m.size[1])
	}
	start := i*m.step[0] + j*m.step[1]
	end := i*m.step[0] + m.size[1]*m.ElemSize()
	return m.data[start:end:end], nil
}

func checkDepth[T Elem](m *Mat, op string) error {
	if d := DepthFor[T](); d != m.Depth() {
		return errors.DepthMismatch(errors.PhaseView, op, m.Depth().String(), d.String())
	}
	return nil
}

func viewOf[T Elem](m *Mat, b []byte, op string) (View[T], error) {
	s, err := cast[T](b, op)
	if err != nil {
		return View[T]{}, err
	}
	return View[T]{m: m, s: s, gen: m.gen, depth: DepthFor[T]()}, nil
}

func cast[T Elem](b []byte, op string) ([]T, error) {
	if len(b) == 0 {
		return []T{}, nil
	}
	var z T
	p := unsafe.Pointer(unsafe.SliceData(b))
	if uintptr(p)%unsafe.Alignof(z) != 0 {
		return nil, misaligned(op, p)
	}
	return unsafe.Slice((*T)(p), len(b)/int(unsafe.Sizeof(z))), nil
}
