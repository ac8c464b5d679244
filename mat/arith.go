package mat

import (
	"math"

	"github.com/wippyai/cvbridge/errors"
	"github.com/wippyai/cvbridge/geom"
)

// Dot returns the sum of a*b over all scalars of m and o.
func (m *Mat) Dot(o *Mat) (float64, error) {
	if err := sameOperands("dot", m, o); err != nil {
		return 0, err
	}
	if m.Empty() {
		return 0, nil
	}
	d, sz := m.Depth(), m.ElemSize1()
	var sum float64
	eachRow(m.size, func(idx []int) {
		a, b := m.row(idx), o.row(idx)
		for k := 0; k < len(a); k += sz {
			sum += load(a[k:], d) * load(b[k:], d)
		}
	})
	return sum, nil
}

// Mul returns a new Mat holding saturate(scale*a*b) per scalar.
func (m *Mat) Mul(o *Mat, scale float64) (*Mat, error) {
	if err := sameOperands("mul", m, o); err != nil {
		return nil, err
	}
	if m.Empty() {
		return New(), nil
	}
	out, err := NewND(m.size, m.typ)
	if err != nil {
		return nil, err
	}
	d, sz := m.Depth(), m.ElemSize1()
	eachRow(m.size, func(idx []int) {
		a, b, r := m.row(idx), o.row(idx), out.row(idx)
		for k := 0; k < len(a); k += sz {
			store(r[k:], d, scale*load(a[k:], d)*load(b[k:], d))
		}
	})
	return out, nil
}

// T returns the transpose of a 2-D Mat. Multichannel elements move whole.
func (m *Mat) T() (*Mat, error) {
	if len(m.size) != 2 {
		return nil, errors.InvalidInput(errors.PhaseConvert, "t needs a 2-D matrix")
	}
	rows, cols := m.size[0], m.size[1]
	out, err := NewMat(cols, rows, m.typ)
	if err != nil {
		return nil, err
	}
	esz := m.ElemSize()
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			s := i*m.step[0] + j*m.step[1]
			d := j*out.step[0] + i*out.step[1]
			copy(out.data[d:d+esz], m.data[s:s+esz])
		}
	}
	return out, nil
}

// MinMaxLoc scans a single-channel 2-D Mat for its extreme values.
// Locations are (x=col, y=row). mask may be nil; otherwise it is CV_8UC1
// with src's extents. When no element is selected both values are 0 and
// both locations are (-1, -1).
func MinMaxLoc(src, mask *Mat) (geom.MinMaxLoc, error) {
	res := geom.MinMaxLoc{MinLoc: geom.Point{X: -1, Y: -1}, MaxLoc: geom.Point{X: -1, Y: -1}}
	if src.Channels() != 1 {
		return res, errors.DepthMismatch(errors.PhaseConvert, "minMaxLoc", "single channel", src.Type().String())
	}
	if src.Dims() != 2 && src.Dims() != 0 {
		return res, errors.InvalidInput(errors.PhaseConvert, "minMaxLoc needs a 2-D matrix")
	}
	if mask != nil && !mask.Empty() {
		if mask.Type() != CV8UC1 {
			return res, errors.DepthMismatch(errors.PhaseConvert, "minMaxLoc.mask", CV8UC1.String(), mask.Type().String())
		}
		if !sameShape(src.size, mask.size) {
			return res, errors.ShapeMismatch(errors.PhaseConvert, "minMaxLoc.mask", src.size, mask.size)
		}
	} else {
		mask = nil
	}
	if src.Empty() {
		return res, nil
	}

	d := src.Depth()
	minV, maxV := math.Inf(1), math.Inf(-1)
	for i := 0; i < src.size[0]; i++ {
		for j := 0; j < src.size[1]; j++ {
			if mask != nil && mask.data[i*mask.step[0]+j] == 0 {
				continue
			}
			v := load(src.data[i*src.step[0]+j*src.step[1]:], d)
			if v < minV {
				minV, res.MinLoc = v, geom.Point{X: j, Y: i}
			}
			if v > maxV {
				maxV, res.MaxLoc = v, geom.Point{X: j, Y: i}
			}
		}
	}
	if res.MinLoc.X >= 0 {
		res.MinVal, res.MaxVal = minV, maxV
	}
	return res, nil
}

func sameOperands(op string, a, b *Mat) error {
	if b == nil {
		return errors.InvalidInput(errors.PhaseConvert, op+": nil operand")
	}
	if a.typ != b.typ {
		return errors.DepthMismatch(errors.PhaseConvert, op, a.typ.String(), b.typ.String())
	}
	if !sameShape(a.size, b.size) {
		return errors.ShapeMismatch(errors.PhaseConvert, op, a.size, b.size)
	}
	return nil
}
