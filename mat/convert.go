package mat

import (
	"github.com/wippyai/cvbridge/errors"
	"github.com/wippyai/cvbridge/geom"
)

// ConvertTo writes saturate(alpha*m[i] + beta) into dst, element by element.
// A negative rtype keeps m's depth; otherwise the destination depth is
// DepthOf(rtype) and the channel count is kept. dst is (re)created with m's
// shape; dst may be m itself.
func (m *Mat) ConvertTo(dst *Mat, rtype int, alpha, beta float64) error {
	if dst == nil {
		return errors.InvalidInput(errors.PhaseConvert, "convertTo: nil destination")
	}
	if m.Empty() {
		dst.Release()
		return nil
	}

	ddepth := m.Depth()
	if rtype >= 0 {
		ddepth = DepthOf(rtype)
		if !ddepth.Valid() {
			return errors.InvalidTypeCode(rtype)
		}
	}

	src := *m
	if err := dst.CreateND(src.size, MakeType(ddepth, src.Channels())); err != nil {
		return err
	}

	sdepth := src.Depth()
	ssz, dsz := sdepth.Size(), ddepth.Size()
	identity := alpha == 1 && beta == 0
	if identity && sdepth == ddepth {
		eachRow(src.size, func(idx []int) {
			copy(dst.row(idx), src.row(idx))
		})
		return nil
	}

	eachRow(src.size, func(idx []int) {
		s, d := src.row(idx), dst.row(idx)
		for k, n := 0, len(s)/ssz; k < n; k++ {
			v := load(s[k*ssz:], sdepth)
			if !identity {
				v = alpha*v + beta
			}
			store(d[k*dsz:], ddepth, v)
		}
	})
	return nil
}

// CopyTo copies m into dst, recreating dst when its shape or type differs.
func (m *Mat) CopyTo(dst *Mat) error {
	if dst == nil {
		return errors.InvalidInput(errors.PhaseConvert, "copyTo: nil destination")
	}
	if dst == m {
		return nil
	}
	if m.Empty() {
		dst.Release()
		return nil
	}
	src := *m
	if err := dst.CreateND(src.size, src.typ); err != nil {
		return err
	}
	eachRow(src.size, func(idx []int) {
		copy(dst.row(idx), src.row(idx))
	})
	return nil
}

// CopyToMasked copies the elements of m whose mask entry is non-zero. The
// mask is CV_8U with one channel (per element) or m's channel count (per
// channel) and has m's extents. Unselected destination elements keep their
// values, or zero when dst had to be recreated.
func (m *Mat) CopyToMasked(dst, mask *Mat) error {
	if mask == nil || mask.Empty() {
		return m.CopyTo(dst)
	}
	if dst == nil {
		return errors.InvalidInput(errors.PhaseConvert, "copyTo: nil destination")
	}
	cn := m.Channels()
	if mask.Depth() != U8 || (mask.Channels() != 1 && mask.Channels() != cn) {
		return errors.DepthMismatch(errors.PhaseConvert, "copyTo.mask", MakeType(U8, 1).String(), mask.Type().String())
	}
	if !sameShape(m.size, mask.size) {
		return errors.ShapeMismatch(errors.PhaseConvert, "copyTo.mask", m.size, mask.size)
	}
	if m.Empty() {
		dst.Release()
		return nil
	}

	src := *m
	if err := dst.CreateND(src.size, src.typ); err != nil {
		return err
	}

	esz, esz1 := src.ElemSize(), src.ElemSize1()
	perChannel := mask.Channels() == cn && cn > 1
	eachRow(src.size, func(idx []int) {
		s, d, k := src.row(idx), dst.row(idx), mask.row(idx)
		for e, n := 0, len(s)/esz; e < n; e++ {
			if !perChannel {
				if k[e] != 0 {
					copy(d[e*esz:(e+1)*esz], s[e*esz:(e+1)*esz])
				}
				continue
			}
			for c := 0; c < cn; c++ {
				if k[e*cn+c] != 0 {
					o := e*esz + c*esz1
					copy(d[o:o+esz1], s[o:o+esz1])
				}
			}
		}
	})
	return nil
}

// SetTo fills channel c of every element with the saturated value of s[c].
func (m *Mat) SetTo(s geom.Scalar) {
	if m.Empty() {
		return
	}
	d, esz1, cn := m.Depth(), m.ElemSize1(), m.Channels()
	elem := make([]byte, m.ElemSize())
	for c := 0; c < cn; c++ {
		store(elem[c*esz1:], d, s[c])
	}
	eachRow(m.size, func(idx []int) {
		r := m.row(idx)
		for o := 0; o < len(r); o += len(elem) {
			copy(r[o:], elem)
		}
	})
}

func sameShape(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
