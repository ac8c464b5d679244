package mat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wippyai/cvbridge/errors"
	"github.com/wippyai/cvbridge/geom"
)

func TestDot(t *testing.T) {
	a := fromValues(t, 1, 3, CV32FC1, 1, 2, 3)
	b := fromValues(t, 1, 3, CV32FC1, 4, 5, 6)
	d, err := a.Dot(b)
	require.NoError(t, err)
	assert.Equal(t, 32.0, d)

	_, err = a.Dot(fromValues(t, 3, 1, CV32FC1, 4, 5, 6))
	requireKind(t, err, errors.KindShapeMismatch)
	_, err = a.Dot(fromValues(t, 1, 3, CV64FC1, 4, 5, 6))
	requireKind(t, err, errors.KindTypeMismatch)
}

func TestMulSaturates(t *testing.T) {
	a := fromValues(t, 1, 2, CV8UC1, 100, 2)
	b := fromValues(t, 1, 2, CV8UC1, 3, 4)
	r, err := a.Mul(b, 1)
	require.NoError(t, err)
	assert.Equal(t, []float64{255, 8}, values(r))

	r, err = a.Mul(b, 0.5)
	require.NoError(t, err)
	assert.Equal(t, []float64{150, 4}, values(r))
}

func TestTranspose(t *testing.T) {
	m := fromValues(t, 2, 3, CV32FC1, 1, 2, 3, 4, 5, 6)
	tr, err := m.T()
	require.NoError(t, err)
	assert.Equal(t, 3, tr.Rows())
	assert.Equal(t, 2, tr.Cols())
	assert.Equal(t, []float64{1, 4, 2, 5, 3, 6}, values(tr))
}

func TestMinMaxLoc(t *testing.T) {
	m := fromValues(t, 2, 3, CV32FC1, 3, -1, 7, 0, 7, 2)

	r, err := MinMaxLoc(m, nil)
	require.NoError(t, err)
	assert.Equal(t, geom.MinMaxLoc{
		MinVal: -1, MaxVal: 7,
		MinLoc: geom.Point{X: 1, Y: 0},
		MaxLoc: geom.Point{X: 2, Y: 0},
	}, r)

	mask := fromValues(t, 2, 3, CV8UC1, 1, 0, 0, 1, 1, 1)
	r, err = MinMaxLoc(m, mask)
	require.NoError(t, err)
	assert.Equal(t, 0.0, r.MinVal)
	assert.Equal(t, geom.Point{X: 0, Y: 1}, r.MinLoc)
	assert.Equal(t, 7.0, r.MaxVal)
	assert.Equal(t, geom.Point{X: 1, Y: 1}, r.MaxLoc)
}

func TestMinMaxLocEmptySelection(t *testing.T) {
	m := fromValues(t, 1, 2, CV8UC1, 5, 6)
	mask := fromValues(t, 1, 2, CV8UC1, 0, 0)

	r, err := MinMaxLoc(m, mask)
	require.NoError(t, err)
	assert.Equal(t, 0.0, r.MinVal)
	assert.Equal(t, 0.0, r.MaxVal)
	assert.Equal(t, geom.Point{X: -1, Y: -1}, r.MinLoc)
	assert.Equal(t, geom.Point{X: -1, Y: -1}, r.MaxLoc)
}

func TestMinMaxLocRejectsMultichannel(t *testing.T) {
	m, err := NewMat(2, 2, CV8UC3)
	require.NoError(t, err)
	_, err = MinMaxLoc(m, nil)
	requireKind(t, err, errors.KindTypeMismatch)
}

func TestFactories(t *testing.T) {
	ones, err := Ones(2, 2, CV8UC3)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 0, 0, 1, 0, 0, 1, 0, 0, 1, 0, 0}, values(ones))

	eye, err := EyeSize(geom.Size{Width: 2, Height: 3}, CV32FC1)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 0, 0, 1, 0, 0}, values(eye))

	z, err := ZerosSize(geom.Size{Width: 2, Height: 1}, CV64FC1)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0}, values(z))

	o, err := OnesSize(geom.Size{Width: 1, Height: 1}, CV16SC1)
	require.NoError(t, err)
	assert.Equal(t, []float64{1}, values(o))
}
