package mat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wippyai/cvbridge/errors"
	"github.com/wippyai/cvbridge/geom"
)

func TestDataViewAliasesMatrix(t *testing.T) {
	m, err := NewMat(2, 3, CV32FC1)
	require.NoError(t, err)

	v, err := Data[float32](m)
	require.NoError(t, err)
	assert.Equal(t, 6, v.Len())
	assert.Equal(t, F32, v.Depth())

	v.Slice()[4] = 2.5
	assert.Equal(t, float32(2.5), *At[float32](m, 1, 1))

	*At[float32](m, 0, 2) = 7
	assert.Equal(t, float32(7), v.Slice()[2])
}

func TestDataRejectsMismatches(t *testing.T) {
	m, err := NewMat(4, 4, CV32FC1)
	require.NoError(t, err)

	_, err = Data[float64](m)
	requireKind(t, err, errors.KindTypeMismatch)
	_, err = Data[uint8](m)
	requireKind(t, err, errors.KindTypeMismatch)

	roi, err := m.ROI(geom.Rect{X: 1, Y: 1, Width: 2, Height: 2})
	require.NoError(t, err)
	_, err = Data[float32](roi)
	requireKind(t, err, errors.KindNotContinuous)
}

func TestDataOfEmptyMat(t *testing.T) {
	f, err := Data[float32](New())
	require.NoError(t, err)
	assert.Equal(t, 0, f.Len())
	assert.NotNil(t, f.Slice())
	assert.True(t, f.Valid())

	m, err := NewMat(0, 3, CV8UC1)
	require.NoError(t, err)
	d, err := Data[float64](m)
	require.NoError(t, err)
	assert.Equal(t, 0, d.Len())
}

func TestDataMisalignedBorrow(t *testing.T) {
	base := make([]byte, 17)
	m, err := NewBorrowed(base[1:], 2, 2, CV16UC1, AutoStep)
	require.NoError(t, err)

	_, err = Data[uint16](m)
	requireKind(t, err, errors.KindMisaligned)
	requirePanicKind(t, errors.KindMisaligned, func() { At[uint16](m, 0) })
}

func TestRowViews(t *testing.T) {
	m, err := NewMat(3, 4, CV16UC2)
	require.NoError(t, err)

	row, err := RowView[uint16](m, 2)
	require.NoError(t, err)
	assert.Equal(t, 8, row.Len())

	tail, err := RowColView[uint16](m, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, 4, tail.Len())
	tail.Slice()[0] = 42
	assert.Equal(t, uint16(42), *At[uint16](m, 1, 4))
	assert.Equal(t, uint16(42), *At[uint16](m, 1, 2, 0))

	_, err = RowView[uint16](m, 3)
	requireKind(t, err, errors.KindOutOfBounds)
	_, err = RowView[int16](m, 0)
	requireKind(t, err, errors.KindTypeMismatch)
}

func TestPtr(t *testing.T) {
	m, err := NewMat(3, 4, CV8UC3)
	require.NoError(t, err)

	p, err := Ptr(m, 2)
	require.NoError(t, err)
	assert.Len(t, p, 12)
	p[0] = 3
	assert.Equal(t, uint8(3), *At[uint8](m, 2, 0, 0))

	p, err = PtrAt(m, 2, 3)
	require.NoError(t, err)
	assert.Len(t, p, 3)

	_, err = PtrAt(m, 0, 4)
	requireKind(t, err, errors.KindOutOfBounds)
}

func TestAtIndexing(t *testing.T) {
	m, err := NewMat(2, 2, CV8UC3)
	require.NoError(t, err)
	*At[uint8](m, 1, 0, 2) = 9
	assert.Equal(t, uint8(9), *At[uint8](m, 8))
	assert.Equal(t, uint8(9), *At[uint8](m, 1, 2))

	g, err := NewMat(4, 4, CV8UC1)
	require.NoError(t, err)
	for i := 0; i < 16; i++ {
		g.SetValue(float64(i), i)
	}

	roi, err := g.ROI(geom.Rect{X: 1, Y: 1, Width: 2, Height: 2})
	require.NoError(t, err)
	assert.Equal(t, uint8(10), *At[uint8](roi, 3))

	col, err := g.Col(1)
	require.NoError(t, err)
	assert.Equal(t, uint8(9), *At[uint8](col, 2))

	row, err := g.Row(3)
	require.NoError(t, err)
	assert.Equal(t, uint8(13), *At[uint8](row, 1))
}

func TestAtPanics(t *testing.T) {
	m, err := NewMat(2, 2, CV8UC1)
	require.NoError(t, err)

	requirePanicKind(t, errors.KindTypeMismatch, func() { At[float32](m, 0) })
	requirePanicKind(t, errors.KindOutOfBounds, func() { At[uint8](m, 4) })
	requirePanicKind(t, errors.KindOutOfBounds, func() { At[uint8](m, 0, 2) })
	requirePanicKind(t, errors.KindOutOfBounds, func() { At[uint8](m, 0, 0, 1) })
	requirePanicKind(t, errors.KindOutOfBounds, func() { At[uint8](New(), 0) })
}
