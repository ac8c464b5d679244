package marshal

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/wippyai/cvbridge/errors"
	"github.com/wippyai/cvbridge/mat"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// ImageRecord is the host's image object: dimensions in pixels plus the
// raw pixel bytes.
type ImageRecord struct {
	Data   []byte `json:"data" validate:"required"`
	Width  int    `json:"width" validate:"gt=0"`
	Height int    `json:"height" validate:"gt=0"`
}

// ImageDecoder builds matrices from image records.
type ImageDecoder struct {
	// Strict rejects records whose data is shorter than the matrix needs.
	// When false, the missing tail of the matrix stays zero.
	Strict bool
}

// LiftImageRecord reads width, height and data from a host record. data
// may be a byte slice, a string, or a record holding either under "buffer".
func LiftImageRecord(v any) (ImageRecord, error) {
	if img, ok := v.(ImageRecord); ok {
		return img, nil
	}
	rec, ok := v.(Record)
	if !ok {
		return ImageRecord{}, errors.TypeMismatch(errors.PhaseMarshal, []string{"image"}, fmt.Sprintf("%T", v), "record")
	}

	var img ImageRecord
	for _, f := range []struct {
		name string
		dst  *int
	}{{"width", &img.Width}, {"height", &img.Height}} {
		raw, ok := rec[f.name]
		if !ok {
			return ImageRecord{}, errors.FieldMissing(errors.PhaseMarshal, []string{"image"}, f.name)
		}
		n, err := toInt32(raw, []string{"image", f.name})
		if err != nil {
			return ImageRecord{}, err
		}
		*f.dst = int(n)
	}

	raw, ok := rec["data"]
	if !ok {
		return ImageRecord{}, errors.FieldMissing(errors.PhaseMarshal, []string{"image"}, "data")
	}
	if inner, ok := raw.(Record); ok {
		if raw, ok = inner["buffer"]; !ok {
			return ImageRecord{}, errors.FieldMissing(errors.PhaseMarshal, []string{"image", "data"}, "buffer")
		}
	}
	switch d := raw.(type) {
	case []byte:
		img.Data = d
	case string:
		img.Data = []byte(d)
	default:
		return ImageRecord{}, errors.TypeMismatch(errors.PhaseMarshal, []string{"image", "data"}, fmt.Sprintf("%T", raw), "bytes")
	}
	return img, nil
}

// MatFromImageRecord builds a Height x Width matrix of typ from a host
// image record, rejecting short pixel buffers.
func MatFromImageRecord(v any, typ mat.TypeTag) (*mat.Mat, error) {
	return ImageDecoder{Strict: true}.MatFromRecord(v, typ)
}

// MatFromRecord lifts and validates the record, then copies exactly
// Height*Width*ElemSize bytes into a new owned matrix. Extra bytes are
// ignored.
func (d ImageDecoder) MatFromRecord(v any, typ mat.TypeTag) (*mat.Mat, error) {
	img, err := LiftImageRecord(v)
	if err != nil {
		return nil, err
	}
	if err := validate.Struct(img); err != nil {
		return nil, errors.Wrap(errors.PhaseMarshal, errors.KindInvalidInput, err, "image record validation failed")
	}

	m, err := mat.NewMat(img.Height, img.Width, typ)
	if err != nil {
		return nil, err
	}
	need := m.Total() * m.ElemSize()
	if len(img.Data) < need && d.Strict {
		return nil, errors.ShortBuffer(errors.PhaseMarshal, []string{"image", "data"}, need, len(img.Data))
	}

	dst, err := mat.Bytes(m)
	if err != nil {
		return nil, err
	}
	copy(dst, img.Data)
	return m, nil
}
