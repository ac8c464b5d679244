package mat

import (
	"fmt"
	"unsafe"

	"github.com/wippyai/cvbridge/errors"
)

// Elem is the set of Go types a channel scalar can be viewed as.
type Elem interface {
	uint8 | int8 | uint16 | int16 | int32 | float32 | float64
}

// DepthFor returns the depth whose scalars are represented by T.
func DepthFor[T Elem]() Depth {
	var z T
	switch any(z).(type) {
	case uint8:
		return U8
	case int8:
		return S8
	case uint16:
		return U16
	case int16:
		return S16
	case int32:
		return S32
	case float32:
		return F32
	default:
		return F64
	}
}

// At returns a pointer to the scalar addressed by idx. The pointer aliases
// m's storage.
//
// One index is a linear scalar index (row-major over the scalar shape).
// Two indices are (row, scalar column) of a 2-D Mat. Three indices are
// (i, j, k) over the first three dimensions, or (row, col, channel) for a
// 2-D Mat. More indices address every dimension of an N-d Mat.
//
// At panics with *errors.Error when T does not match m's depth or an index
// is out of range.
func At[T Elem](m *Mat, idx ...int) *T {
	if d := DepthFor[T](); d != m.Depth() {
		panic(errors.TypeMismatch(errors.PhaseAccess, []string{"at"}, fmt.Sprintf("%T", *new(T)), m.Depth().String()))
	}
	if m.Empty() {
		panic(errors.OutOfBounds(errors.PhaseAccess, []string{"at"}, firstOr(idx, 0), 0))
	}

	off := m.offset(idx)
	b := m.data[off : off+m.ElemSize1()]
	p := unsafe.Pointer(unsafe.SliceData(b))
	if uintptr(p)%unsafe.Alignof(*new(T)) != 0 {
		panic(misaligned("at", p))
	}
	return (*T)(p)
}

// Value reads the scalar addressed by idx as float64, with At's index rules
// but without a depth check.
func (m *Mat) Value(idx ...int) float64 {
	if m.Empty() {
		panic(errors.OutOfBounds(errors.PhaseAccess, []string{"value"}, firstOr(idx, 0), 0))
	}
	return load(m.data[m.offset(idx):], m.Depth())
}

// SetValue writes v, saturated to m's depth, at the scalar addressed by idx.
func (m *Mat) SetValue(v float64, idx ...int) {
	if m.Empty() {
		panic(errors.OutOfBounds(errors.PhaseAccess, []string{"value"}, firstOr(idx, 0), 0))
	}
	store(m.data[m.offset(idx):], m.Depth(), v)
}

// offset resolves an index tuple to a byte offset into m.data.
func (m *Mat) offset(idx []int) int {
	esz1 := m.ElemSize1()
	cn := m.Channels()
	dims := len(m.size)

	switch len(idx) {
	case 1:
		i := idx[0]
		switch {
		case m.IsContinuous() || (dims == 2 && m.size[0] == 1):
			bound(i, m.Total()*cn, "index")
			return i * esz1
		case dims == 2 && m.size[1] == 1 && cn == 1:
			bound(i, m.size[0], "row")
			return i * m.step[0]
		default:
			bound(i, m.Total()*cn, "index")
			inner := m.size[dims-1] * cn
			off := (i % inner) * esz1
			i /= inner
			for d := dims - 2; d >= 0; d-- {
				off += (i % m.size[d]) * m.step[d]
				i /= m.size[d]
			}
			return off
		}
	case 2:
		if dims != 2 {
			panic(errors.InvalidInput(errors.PhaseAccess, fmt.Sprintf("2 indices on a %d-D matrix", dims)))
		}
		bound(idx[0], m.size[0], "row")
		bound(idx[1], m.size[1]*cn, "col")
		return idx[0]*m.step[0] + idx[1]*esz1
	case 3:
		if dims == 2 {
			bound(idx[0], m.size[0], "row")
			bound(idx[1], m.size[1], "col")
			bound(idx[2], cn, "channel")
			return idx[0]*m.step[0] + idx[1]*m.step[1] + idx[2]*esz1
		}
		off := 0
		for d := 0; d < 3; d++ {
			bound(idx[d], m.size[d], fmt.Sprintf("dim%d", d))
			off += idx[d] * m.step[d]
		}
		return off
	default:
		if len(idx) != dims {
			panic(errors.InvalidInput(errors.PhaseAccess,
				fmt.Sprintf("%d indices on a %d-D matrix", len(idx), dims)))
		}
		off := 0
		for d, v := range idx {
			bound(v, m.size[d], fmt.Sprintf("dim%d", d))
			off += v * m.step[d]
		}
		return off
	}
}

func bound(i, n int, what string) {
	if i < 0 || i >= n {
		panic(errors.OutOfBounds(errors.PhaseAccess, []string{what}, i, n))
	}
}

func firstOr(idx []int, def int) int {
	if len(idx) == 0 {
		return def
	}
	return idx[0]
}

func misaligned(op string, p unsafe.Pointer) *errors.Error {
	return errors.New(errors.PhaseView, errors.KindMisaligned).
		Path(op).
		Value(uintptr(p)).
		Detail("address %#x is not aligned for the element type", uintptr(p)).
		Build()
}
