package mat

import (
	"fmt"
	"slices"
	"strings"
	"unsafe"

	"go.uber.org/zap"

	"github.com/wippyai/cvbridge/errors"
	"github.com/wippyai/cvbridge/geom"
)

// AutoStep asks NewBorrowed to derive the row step from cols and element size.
const AutoStep = 0

// Mat is a strided N-dimensional array of TypeTag-typed elements.
//
// A Mat either owns its storage (allocated by a constructor, Create or
// Clone) or borrows caller-supplied memory (NewBorrowed and the extmem
// package). Sub-matrices returned by Row, Col, RowRange, ColRange and ROI
// alias the parent's storage.
//
// Views, sub-matrices and element pointers are not tracked by the Mat.
// Reallocating the Mat (Create with a different shape or type, Release)
// increments its generation; views issued earlier report !Valid() but keep
// pointing at the old storage.
type Mat struct {
	typ      TypeTag
	size     []int
	step     []int
	data     []byte
	gen      uint64
	borrowed bool
}

// New returns an empty Mat.
func New() *Mat {
	return &Mat{}
}

// NewMat allocates a zero-initialised rows x cols Mat.
func NewMat(rows, cols int, typ TypeTag) (*Mat, error) {
	return NewND([]int{rows, cols}, typ)
}

// NewWithSize allocates a zero-initialised Mat of sz.Height rows and sz.Width columns.
func NewWithSize(sz geom.Size, typ TypeTag) (*Mat, error) {
	return NewMat(sz.Height, sz.Width, typ)
}

// NewWithScalar allocates a rows x cols Mat and fills channel c of every
// element with the saturated value of s[c].
func NewWithScalar(rows, cols int, typ TypeTag, s geom.Scalar) (*Mat, error) {
	m, err := NewMat(rows, cols, typ)
	if err != nil {
		return nil, err
	}
	m.SetTo(s)
	return m, nil
}

// NewND allocates a zero-initialised Mat with the given extents.
func NewND(sizes []int, typ TypeTag) (*Mat, error) {
	m := &Mat{}
	if err := m.CreateND(sizes, typ); err != nil {
		return nil, err
	}
	return m, nil
}

// NewBorrowed returns a rows x cols Mat whose elements live in buf, with
// rows step bytes apart (AutoStep for tightly packed rows).
//
// Borrow contract: the caller keeps buf alive and unmoved for as long as
// the Mat or anything derived from it is used. The Mat never frees, grows
// or copies buf. Writes through the Mat are writes to buf.
func NewBorrowed(buf []byte, rows, cols int, typ TypeTag, step int) (*Mat, error) {
	size := []int{rows, cols}
	if err := checkShape(size, typ); err != nil {
		return nil, err
	}

	esz := typ.ElemSize()
	minStep := cols * esz
	if step == AutoStep {
		step = minStep
	}
	if step < minStep || step%typ.Depth().Size() != 0 {
		return nil, errors.New(errors.PhaseConstruct, errors.KindInvalidInput).
			Path("step").
			Value(step).
			Detail("step %d must be >= %d and a multiple of %d", step, minStep, typ.Depth().Size()).
			Build()
	}

	m := &Mat{
		typ:      typ,
		size:     size,
		step:     []int{step, esz},
		borrowed: true,
	}
	n := span(m.size, m.step, esz)
	if len(buf) < n {
		return nil, errors.ShortBuffer(errors.PhaseConstruct, []string{"buf"}, n, len(buf))
	}
	m.data = buf[:n:n]
	return m, nil
}

// NewFromBytes copies b into a new owned len(b) x 1 CV_8UC1 Mat.
func NewFromBytes(b []byte) *Mat {
	if len(b) == 0 {
		return New()
	}
	m, _ := NewMat(len(b), 1, CV8UC1)
	copy(m.data, b)
	return m
}

// Create reallocates m as a rows x cols Mat of typ. It is a no-op when the
// shape and type already match.
func (m *Mat) Create(rows, cols int, typ TypeTag) error {
	return m.CreateND([]int{rows, cols}, typ)
}

// CreateSize is Create with a Size.
func (m *Mat) CreateSize(sz geom.Size, typ TypeTag) error {
	return m.Create(sz.Height, sz.Width, typ)
}

// CreateND reallocates m with the given extents. Fresh storage is zeroed,
// owned, and bumps the generation.
func (m *Mat) CreateND(sizes []int, typ TypeTag) error {
	if err := checkShape(sizes, typ); err != nil {
		return err
	}
	if m.typ == typ && slices.Equal(m.size, sizes) && (m.data != nil || total(sizes) == 0) {
		return nil
	}

	esz := typ.ElemSize()
	size := slices.Clone(sizes)
	step := make([]int, len(size))
	step[len(step)-1] = esz
	for i := len(step) - 2; i >= 0; i-- {
		step[i] = step[i+1] * size[i+1]
	}

	m.typ = typ
	m.size = size
	m.step = step
	m.data = allocBytes(total(size) * esz)
	m.borrowed = false
	m.gen++

	Logger().Debug("mat: allocate",
		zap.Ints("size", size),
		zap.Stringer("type", typ),
		zap.Uint64("generation", m.gen))
	return nil
}

// Release drops m's storage. Outstanding views become stale.
func (m *Mat) Release() {
	if m.data == nil && len(m.size) == 0 {
		return
	}
	m.data = nil
	m.size = []int{0, 0}
	m.step = []int{0, 0}
	m.borrowed = false
	m.gen++
}

// Header returns a second header over m's storage. Writes through either
// header are visible through both; releasing or reallocating one leaves the
// other intact.
func (m *Mat) Header() *Mat {
	if len(m.size) == 0 {
		return &Mat{typ: m.typ}
	}
	return m.sub(0, slices.Clone(m.size))
}

// Clone returns a continuous owned deep copy.
func (m *Mat) Clone() *Mat {
	if len(m.size) == 0 {
		return New()
	}
	c, _ := NewND(m.size, m.typ)
	eachRow(m.size, func(idx []int) {
		copy(c.row(idx), m.row(idx))
	})
	return c
}

// Type returns the type code.
func (m *Mat) Type() TypeTag { return m.typ }

// Depth returns the element kind.
func (m *Mat) Depth() Depth { return m.typ.Depth() }

// Channels returns the channel count.
func (m *Mat) Channels() int { return m.typ.Channels() }

// ElemSize returns the byte size of one element (all channels).
func (m *Mat) ElemSize() int { return m.typ.ElemSize() }

// ElemSize1 returns the byte size of one channel scalar.
func (m *Mat) ElemSize1() int { return m.typ.Depth().Size() }

// Dims returns the number of dimensions (0 for a default Mat).
func (m *Mat) Dims() int { return len(m.size) }

// Rows returns the first extent of a 2-D Mat, 0 for a default Mat and -1
// for Mats with more than two dimensions.
func (m *Mat) Rows() int {
	switch len(m.size) {
	case 0:
		return 0
	case 2:
		return m.size[0]
	default:
		return -1
	}
}

// Cols returns the second extent of a 2-D Mat, with the same conventions as Rows.
func (m *Mat) Cols() int {
	switch len(m.size) {
	case 0:
		return 0
	case 2:
		return m.size[1]
	default:
		return -1
	}
}

// Size returns a copy of the per-dimension extents.
func (m *Mat) Size() []int { return slices.Clone(m.size) }

// MatSize returns the 2-D extents as a Size.
func (m *Mat) MatSize() geom.Size {
	return geom.Size{Width: m.Cols(), Height: m.Rows()}
}

// Total returns the number of elements (product of extents).
func (m *Mat) Total() int {
	if len(m.size) == 0 {
		return 0
	}
	return total(m.size)
}

// Empty reports whether m has no elements.
func (m *Mat) Empty() bool {
	return m.Total() == 0 || m.data == nil
}

// Step returns the byte step of dimension i.
func (m *Mat) Step(i int) int {
	if len(m.size) == 0 {
		return 0
	}
	if i < 0 || i >= len(m.step) {
		panic(errors.OutOfBounds(errors.PhaseAccess, []string{"step"}, i, len(m.step)))
	}
	return m.step[i]
}

// Step1 returns the step of dimension i in channel scalars.
func (m *Mat) Step1(i int) int {
	return m.Step(i) / m.ElemSize1()
}

// IsContinuous reports whether elements are packed without gaps.
func (m *Mat) IsContinuous() bool {
	expect := m.ElemSize()
	for i := len(m.size) - 1; i >= 0; i-- {
		if m.size[i] > 1 && m.step[i] != expect {
			return false
		}
		expect *= m.size[i]
	}
	return true
}

// Generation counts reallocations of m.
func (m *Mat) Generation() uint64 { return m.gen }

// Borrowed reports whether m aliases caller-owned memory.
func (m *Mat) Borrowed() bool { return m.borrowed }

func (m *Mat) String() string {
	if len(m.size) == 0 {
		return "Mat[empty]"
	}
	dims := make([]string, len(m.size))
	for i, s := range m.size {
		dims[i] = fmt.Sprint(s)
	}
	return fmt.Sprintf("Mat[%s %s]", strings.Join(dims, "x"), m.typ)
}

// row returns the bytes of the innermost run addressed by the outer indices.
func (m *Mat) row(idx []int) []byte {
	off := 0
	for i, v := range idx {
		off += v * m.step[i]
	}
	n := m.size[len(m.size)-1] * m.ElemSize()
	return m.data[off : off+n]
}

// sub returns a header aliasing m's storage starting at byte offset off.
func (m *Mat) sub(off int, size []int) *Mat {
	s := &Mat{
		typ:      m.typ,
		size:     size,
		step:     slices.Clone(m.step),
		borrowed: m.borrowed,
	}
	// An empty window may start past the parent's end; it aliases nothing.
	if n := span(size, s.step, m.ElemSize()); n > 0 {
		s.data = m.data[off : off+n : off+n]
	} else {
		s.data = m.data[:0:0]
	}
	return s
}

func checkShape(sizes []int, typ TypeTag) error {
	if !typ.Valid() {
		return errors.InvalidTypeCode(int(typ))
	}
	if len(sizes) < 2 {
		return errors.InvalidInput(errors.PhaseConstruct,
			fmt.Sprintf("matrix needs at least 2 dimensions, got %d", len(sizes)))
	}
	for i, s := range sizes {
		if s < 0 {
			return errors.New(errors.PhaseConstruct, errors.KindInvalidInput).
				Path(fmt.Sprintf("size[%d]", i)).
				Value(s).
				Detail("negative extent %d", s).
				Build()
		}
	}
	return nil
}

func total(size []int) int {
	n := 1
	for _, s := range size {
		n *= s
	}
	return n
}

func span(size, step []int, esz int) int {
	n := esz
	for i, s := range size {
		if s == 0 {
			return 0
		}
		n += (s - 1) * step[i]
	}
	return n
}

// allocBytes returns n zeroed bytes backed by 8-byte aligned storage so that
// typed views of any depth are aligned.
func allocBytes(n int) []byte {
	if n == 0 {
		return []byte{}
	}
	words := make([]uint64, (n+7)/8)
	return unsafe.Slice((*byte)(unsafe.Pointer(unsafe.SliceData(words))), n)
}

// eachRow calls fn with the outer index of every innermost run of shape.
func eachRow(shape []int, fn func(idx []int)) {
	for _, s := range shape {
		if s == 0 {
			return
		}
	}
	outer := shape[:len(shape)-1]
	idx := make([]int, len(outer))
	for {
		fn(idx)
		k := len(outer) - 1
		for ; k >= 0; k-- {
			idx[k]++
			if idx[k] < outer[k] {
				break
			}
			idx[k] = 0
		}
		if k < 0 {
			return
		}
	}
}
