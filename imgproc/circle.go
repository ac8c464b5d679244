package imgproc

import (
	"math"

	"github.com/wippyai/cvbridge/errors"
	"github.com/wippyai/cvbridge/geom"
	"github.com/wippyai/cvbridge/mat"
)

const circleEps = 1e-7

// MinEnclosingCircle returns the smallest circle containing every point of
// points. The matrix holds one point per element as CV_32SC2 or CV_32FC2,
// or one point per row of an N x 2 CV_32SC1 / CV_32FC1 matrix.
func MinEnclosingCircle(points *mat.Mat) (geom.Circle, error) {
	pts, err := pointsOf(points)
	if err != nil {
		return geom.Circle{}, err
	}
	return MinEnclosingCirclePoints(pts), nil
}

// MinEnclosingCirclePoints is MinEnclosingCircle over a slice.
func MinEnclosingCirclePoints(pts []geom.Point2f) geom.Circle {
	if len(pts) == 0 {
		return geom.Circle{}
	}

	c := circle{x: float64(pts[0].X), y: float64(pts[0].Y)}
	for i := 1; i < len(pts); i++ {
		pi := pts[i]
		if c.contains(pi) {
			continue
		}
		c = circle{x: float64(pi.X), y: float64(pi.Y)}
		for j := 0; j < i; j++ {
			pj := pts[j]
			if c.contains(pj) {
				continue
			}
			c = circleFrom2(pi, pj)
			for k := 0; k < j; k++ {
				if !c.contains(pts[k]) {
					c = circleFrom3(pi, pj, pts[k])
				}
			}
		}
	}
	return geom.Circle{
		Center: geom.Point2f{X: float32(c.x), Y: float32(c.y)},
		Radius: float32(c.r),
	}
}

type circle struct {
	x, y, r float64
}

func (c circle) contains(p geom.Point2f) bool {
	dx, dy := float64(p.X)-c.x, float64(p.Y)-c.y
	return math.Sqrt(dx*dx+dy*dy) <= c.r*(1+circleEps)+circleEps
}

func circleFrom2(a, b geom.Point2f) circle {
	ax, ay, bx, by := float64(a.X), float64(a.Y), float64(b.X), float64(b.Y)
	return circle{
		x: (ax + bx) / 2,
		y: (ay + by) / 2,
		r: math.Hypot(ax-bx, ay-by) / 2,
	}
}

// circleFrom3 returns the circumcircle of a, b and c, falling back to the
// widest pair when the points are collinear.
func circleFrom3(a, b, c geom.Point2f) circle {
	ax, ay := float64(a.X), float64(a.Y)
	bx, by := float64(b.X)-ax, float64(b.Y)-ay
	cx, cy := float64(c.X)-ax, float64(c.Y)-ay

	d := 2 * (bx*cy - by*cx)
	if math.Abs(d) < 1e-12 {
		best := circleFrom2(a, b)
		for _, alt := range []circle{circleFrom2(a, c), circleFrom2(b, c)} {
			if alt.r > best.r {
				best = alt
			}
		}
		return best
	}

	b2, c2 := bx*bx+by*by, cx*cx+cy*cy
	ux := (cy*b2 - by*c2) / d
	uy := (bx*c2 - cx*b2) / d
	return circle{x: ux + ax, y: uy + ay, r: math.Hypot(ux, uy)}
}

func pointsOf(m *mat.Mat) ([]geom.Point2f, error) {
	if m == nil || m.Empty() {
		return nil, nil
	}
	d := m.Depth()
	if d != mat.S32 && d != mat.F32 {
		return nil, errors.DepthMismatch(errors.PhaseConvert, "minEnclosingCircle", "CV_32S or CV_32F", d.String())
	}

	var n int
	switch {
	case m.Channels() == 2:
		n = m.Total()
	case m.Channels() == 1 && m.Dims() == 2 && m.Cols() == 2:
		n = m.Rows()
	default:
		return nil, errors.New(errors.PhaseConvert, errors.KindShapeMismatch).
			Path("minEnclosingCircle").
			Detail("points must be 2-channel or N x 2, got %s", m).
			Build()
	}

	pts := make([]geom.Point2f, n)
	for i := range pts {
		pts[i] = geom.Point2f{X: float32(m.Value(2 * i)), Y: float32(m.Value(2*i + 1))}
	}
	return pts, nil
}
