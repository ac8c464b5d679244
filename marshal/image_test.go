package marshal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wippyai/cvbridge/errors"
	"github.com/wippyai/cvbridge/mat"
)

func TestMatFromImageRecord(t *testing.T) {
	rec := Record{
		"width":  2,
		"height": 1,
		"data":   Record{"buffer": []byte{1, 2, 3, 4, 5, 6, 7, 8, 99}},
	}
	m, err := MatFromImageRecord(rec, mat.CV8UC4)
	require.NoError(t, err)
	assert.Equal(t, 1, m.Rows())
	assert.Equal(t, 2, m.Cols())

	v, err := mat.Data[uint8](m)
	require.NoError(t, err)
	assert.Equal(t, []uint8{1, 2, 3, 4, 5, 6, 7, 8}, v.Slice())
}

func TestMatFromImageRecordStringData(t *testing.T) {
	m, err := MatFromImageRecord(Record{"width": 2.0, "height": 1.0, "data": "\x01\x02"}, mat.CV8UC1)
	require.NoError(t, err)
	assert.Equal(t, 2.0, m.Value(1))
}

func TestMatFromImageRecordShortBuffer(t *testing.T) {
	rec := Record{"width": 2, "height": 2, "data": []byte{1, 2, 3}}

	_, err := MatFromImageRecord(rec, mat.CV8UC1)
	e := requireKind(t, err, errors.KindShortBuffer)
	assert.Equal(t, errors.PhaseMarshal, e.Phase)

	m, err := ImageDecoder{}.MatFromRecord(rec, mat.CV8UC1)
	require.NoError(t, err)
	assert.Equal(t, 0.0, m.Value(3))
	assert.Equal(t, 3.0, m.Value(2))
}

func TestMatFromImageRecordValidation(t *testing.T) {
	_, err := MatFromImageRecord(Record{"width": 0, "height": 2, "data": []byte{}}, mat.CV8UC1)
	requireKind(t, err, errors.KindInvalidInput)

	_, err = MatFromImageRecord(Record{"width": 1, "data": []byte{1}}, mat.CV8UC1)
	requireKind(t, err, errors.KindFieldMissing)

	_, err = MatFromImageRecord(Record{"width": 1, "height": 1, "data": Record{}}, mat.CV8UC1)
	requireKind(t, err, errors.KindFieldMissing)

	_, err = MatFromImageRecord(Record{"width": 1, "height": 1, "data": 5}, mat.CV8UC1)
	requireKind(t, err, errors.KindTypeMismatch)

	_, err = MatFromImageRecord(Record{"width": 1, "height": 1, "data": []byte{1}}, mat.TypeTag(7))
	requireKind(t, err, errors.KindInvalidTypeCode)
}
