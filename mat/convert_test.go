package mat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wippyai/cvbridge/errors"
	"github.com/wippyai/cvbridge/geom"
)

func TestConvertToSaturates(t *testing.T) {
	src := fromValues(t, 1, 5, CV32FC1, -10, 2.5, 3.5, 255.6, 1000)
	dst := New()
	require.NoError(t, src.ConvertTo(dst, int(CV8UC1), 1, 0))

	assert.Equal(t, CV8UC1, dst.Type())
	assert.Equal(t, []float64{0, 2, 4, 255, 255}, values(dst))
}

func TestConvertToScales(t *testing.T) {
	src := fromValues(t, 1, 2, CV8UC1, 10, 20)
	dst := New()
	require.NoError(t, src.ConvertTo(dst, int(CV32FC1), 0.5, 1))
	assert.Equal(t, []float64{6, 11}, values(dst))

	same := New()
	require.NoError(t, src.ConvertTo(same, -1, 2, 100))
	assert.Equal(t, CV8UC1, same.Type())
	assert.Equal(t, []float64{120, 140}, values(same))
}

func TestConvertToKeepsChannels(t *testing.T) {
	src, err := NewWithScalar(2, 2, CV8UC3, geom.Scalar{1, 2, 3})
	require.NoError(t, err)
	dst := New()
	require.NoError(t, src.ConvertTo(dst, int(CV64FC1), 1, 0))
	assert.Equal(t, CV64FC3, dst.Type())
	assert.Equal(t, 3.0, *At[float64](dst, 1, 1, 2))
}

func TestConvertToInPlace(t *testing.T) {
	m := fromValues(t, 2, 2, CV8UC1, 1, 2, 3, 4)
	gen := m.Generation()
	require.NoError(t, m.ConvertTo(m, int(CV32FC1), 0.5, 0))
	assert.Equal(t, CV32FC1, m.Type())
	assert.Equal(t, gen+1, m.Generation())
	assert.Equal(t, []float64{0.5, 1, 1.5, 2}, values(m))
}

func TestConvertToEmptyReleasesDestination(t *testing.T) {
	dst := fromValues(t, 1, 1, CV8UC1, 1)
	require.NoError(t, New().ConvertTo(dst, int(CV32FC1), 1, 0))
	assert.True(t, dst.Empty())

	requireKind(t, fromValues(t, 1, 1, CV8UC1, 1).ConvertTo(nil, -1, 1, 0), errors.KindInvalidInput)
}

func TestCopyTo(t *testing.T) {
	src := fromValues(t, 2, 2, CV16SC1, -1, 2, -3, 4)
	dst := New()
	require.NoError(t, src.CopyTo(dst))
	assert.Equal(t, values(src), values(dst))

	dst.SetValue(0, 0)
	assert.Equal(t, -1.0, src.Value(0))
}

func TestCopyToMasked(t *testing.T) {
	src := fromValues(t, 2, 2, CV8UC1, 1, 2, 3, 4)
	dst, err := NewWithScalar(2, 2, CV8UC1, geom.ScalarAll(9))
	require.NoError(t, err)
	mask := fromValues(t, 2, 2, CV8UC1, 1, 0, 0, 1)

	require.NoError(t, src.CopyToMasked(dst, mask))
	assert.Equal(t, []float64{1, 9, 9, 4}, values(dst))
}

func TestCopyToMaskedPerChannel(t *testing.T) {
	src := fromValues(t, 1, 2, CV8UC2, 1, 2, 3, 4)
	mask := fromValues(t, 1, 2, CV8UC2, 1, 0, 0, 1)
	dst := New()

	require.NoError(t, src.CopyToMasked(dst, mask))
	assert.Equal(t, []float64{1, 0, 0, 4}, values(dst))
}

func TestCopyToMaskedRejectsBadMask(t *testing.T) {
	src := fromValues(t, 2, 2, CV8UC1, 1, 2, 3, 4)

	bad, err := NewMat(2, 2, CV32FC1)
	require.NoError(t, err)
	requireKind(t, src.CopyToMasked(New(), bad), errors.KindTypeMismatch)

	small, err := NewMat(1, 2, CV8UC1)
	require.NoError(t, err)
	requireKind(t, src.CopyToMasked(New(), small), errors.KindShapeMismatch)
}
