package marshal

import (
	"fmt"

	"github.com/wippyai/cvbridge/errors"
	"github.com/wippyai/cvbridge/geom"
	"github.com/wippyai/cvbridge/mat"
)

// Vector is a growable sequence the host fills element by element and
// passes to natives that take point sets, rectangles or Mat lists.
//
// A MatVector stores its own header for every Mat pushed or set, so dropping
// the host's handle to a Mat leaves the vector's entry intact. Get returns a
// fresh header over the same storage.
type Vector[T any] struct {
	items []T
}

type (
	IntVector    = Vector[int32]
	FloatVector  = Vector[float32]
	DoubleVector = Vector[float64]
	PointVector  = Vector[geom.Point]
	RectVector   = Vector[geom.Rect]
	MatVector    = Vector[*mat.Mat]
)

// NewVector returns an empty vector.
func NewVector[T any]() *Vector[T] {
	return &Vector[T]{}
}

// VectorOf returns a vector holding items.
func VectorOf[T any](items ...T) *Vector[T] {
	v := &Vector[T]{items: make([]T, 0, len(items))}
	for _, x := range items {
		v.PushBack(x)
	}
	return v
}

// HostName is the class name the host sees.
func (v *Vector[T]) HostName() string {
	var z T
	switch any(z).(type) {
	case int32:
		return "IntVector"
	case float32:
		return "FloatVector"
	case float64:
		return "DoubleVector"
	case geom.Point:
		return "PointVector"
	case geom.Rect:
		return "RectVector"
	case *mat.Mat:
		return "MatVector"
	default:
		return fmt.Sprintf("Vector[%T]", z)
	}
}

// PushBack appends x.
func (v *Vector[T]) PushBack(x T) {
	v.items = append(v.items, share(x))
}

// Get returns element i.
func (v *Vector[T]) Get(i int) (T, error) {
	if i < 0 || i >= len(v.items) {
		var z T
		return z, errors.OutOfBounds(errors.PhaseAccess, []string{v.HostName(), "get"}, i, len(v.items))
	}
	return share(v.items[i]), nil
}

// Set replaces element i.
func (v *Vector[T]) Set(i int, x T) error {
	if i < 0 || i >= len(v.items) {
		return errors.OutOfBounds(errors.PhaseAccess, []string{v.HostName(), "set"}, i, len(v.items))
	}
	v.items[i] = share(x)
	return nil
}

// Size returns the number of elements.
func (v *Vector[T]) Size() int { return len(v.items) }

// Resize truncates or grows the vector to n elements. New elements are
// copies of fill.
func (v *Vector[T]) Resize(n int, fill T) error {
	if n < 0 {
		return errors.New(errors.PhaseAccess, errors.KindInvalidInput).
			Path(v.HostName(), "resize").
			Value(n).
			Detail("negative size %d", n).
			Build()
	}
	if n <= len(v.items) {
		clear(v.items[n:])
		v.items = v.items[:n]
		return nil
	}
	for len(v.items) < n {
		v.items = append(v.items, share(fill))
	}
	return nil
}

// AsMat copies a numeric, point or rect vector into an n x 1 Mat with one
// channel per field, the form natives accept as an input array.
func (v *Vector[T]) AsMat() (*mat.Mat, error) {
	var (
		z   T
		typ mat.TypeTag
	)
	switch any(z).(type) {
	case int32:
		typ = mat.CV32SC1
	case float32:
		typ = mat.CV32FC1
	case float64:
		typ = mat.CV64FC1
	case geom.Point:
		typ = mat.CV32SC2
	case geom.Rect:
		typ = mat.CV32SC4
	default:
		return nil, errors.TypeMismatch(errors.PhaseMarshal, []string{v.HostName()}, "Mat", v.HostName())
	}

	m, err := mat.NewMat(len(v.items), 1, typ)
	if err != nil {
		return nil, err
	}
	for i, x := range v.items {
		switch e := any(x).(type) {
		case int32:
			m.SetValue(float64(e), i, 0)
		case float32:
			m.SetValue(float64(e), i, 0)
		case float64:
			m.SetValue(e, i, 0)
		case geom.Point:
			m.SetValue(float64(e.X), i, 0, 0)
			m.SetValue(float64(e.Y), i, 0, 1)
		case geom.Rect:
			m.SetValue(float64(e.X), i, 0, 0)
			m.SetValue(float64(e.Y), i, 0, 1)
			m.SetValue(float64(e.Width), i, 0, 2)
			m.SetValue(float64(e.Height), i, 0, 3)
		}
	}
	return m, nil
}

// Items returns the elements. The slice aliases the vector.
func (v *Vector[T]) Items() []T { return v.items }

// Release empties the vector. A MatVector releases its own headers only.
func (v *Vector[T]) Release() {
	for _, x := range v.items {
		if m, ok := any(x).(*mat.Mat); ok && m != nil {
			m.Release()
		}
	}
	v.items = nil
}

func (v *Vector[T]) String() string {
	return fmt.Sprintf("%s[%d]", v.HostName(), len(v.items))
}

// share returns the copy of x that is stored or handed out: Mats get a new
// header, other values are returned as they are.
func share[T any](x T) T {
	m, ok := any(x).(*mat.Mat)
	if !ok {
		return x
	}
	if m == nil {
		m = mat.New()
	} else {
		m = m.Header()
	}
	return any(m).(T)
}
