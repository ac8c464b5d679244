package video

import (
	"math"

	"github.com/wippyai/cvbridge/errors"
	"github.com/wippyai/cvbridge/geom"
	"github.com/wippyai/cvbridge/mat"
)

const (
	defaultMaxIter = 100
	camTolerance   = 10
	dblEpsilon     = 2.220446049250313e-16
)

type moments struct {
	m00, m10, m01, m20, m11, m02 float64
}

// MeanShift moves window toward the centroid of probImage inside it until
// the shift is below criteria.Epsilon or criteria.MaxCount iterations have
// run. Without TermCount it stops after 100 iterations. It returns the
// number of completed iterations and leaves the final window in *window.
func MeanShift(probImage *mat.Mat, window *geom.Rect, criteria geom.TermCriteria) (int, error) {
	if err := checkInputs("meanShift", probImage, window); err != nil {
		return 0, err
	}
	size := probImage.MatSize()

	niters := defaultMaxIter
	if criteria.Type&geom.TermCount != 0 {
		niters = max(criteria.MaxCount, 1)
	}
	eps := 1.0
	if criteria.Type&geom.TermEps != 0 {
		eps = max(criteria.Epsilon, 0)
	}
	eps = round(eps * eps)

	cur := *window
	i := 0
	for ; i < niters; i++ {
		cur = cur.Intersect(geom.Rect{Width: size.Width, Height: size.Height})
		if cur == (geom.Rect{}) {
			cur.X = size.Width / 2
			cur.Y = size.Height / 2
		}
		cur.Width = max(cur.Width, 1)
		cur.Height = max(cur.Height, 1)

		m := momentsOf(probImage, cur)
		if math.Abs(m.m00) < dblEpsilon {
			break
		}

		dx := int(round(m.m10/m.m00 - float64(window.Width)*0.5))
		dy := int(round(m.m01/m.m00 - float64(window.Height)*0.5))

		nx := min(max(cur.X+dx, 0), size.Width-cur.Width)
		ny := min(max(cur.Y+dy, 0), size.Height-cur.Height)
		dx, dy = nx-cur.X, ny-cur.Y
		cur.X, cur.Y = nx, ny

		if float64(dx*dx+dy*dy) < eps {
			break
		}
	}

	*window = cur
	return i, nil
}

// CamShift runs MeanShift, then fits an oriented box to the distribution
// around the converged window and resizes *window to the box extent.
func CamShift(probImage *mat.Mat, window *geom.Rect, criteria geom.TermCriteria) (geom.RotatedRect, error) {
	if _, err := MeanShift(probImage, window, criteria); err != nil {
		return geom.RotatedRect{}, err
	}
	size := probImage.MatSize()

	w := *window
	w.X = max(w.X-camTolerance, 0)
	w.Y = max(w.Y-camTolerance, 0)
	w.Width = min(w.Width+2*camTolerance, size.Width-w.X)
	w.Height = min(w.Height+2*camTolerance, size.Height-w.Y)

	m := momentsOf(probImage, w)
	if math.Abs(m.m00) < dblEpsilon {
		return geom.RotatedRect{}, nil
	}

	inv := 1 / m.m00
	xc := int(round(m.m10*inv + float64(w.X)))
	yc := int(round(m.m01*inv + float64(w.Y)))

	mu20 := m.m20 - m.m10*m.m10*inv
	mu11 := m.m11 - m.m10*m.m01*inv
	mu02 := m.m02 - m.m01*m.m01*inv

	a, b, c := mu20*inv, mu11*inv, mu02*inv
	square := math.Sqrt(4*b*b + (a-c)*(a-c))
	theta := math.Atan2(2*b, a-c+square)
	cs, sn := math.Cos(theta), math.Sin(theta)

	rotateA := max(cs*cs*mu20+2*cs*sn*mu11+sn*sn*mu02, 0)
	rotateC := max(sn*sn*mu20-2*cs*sn*mu11+cs*cs*mu02, 0)
	length := math.Sqrt(rotateA*inv) * 4
	width := math.Sqrt(rotateC*inv) * 4
	if length < width {
		length, width = width, length
		cs, sn = sn, cs
		theta = math.Pi*0.5 - theta
	}

	t0 := int(round(math.Abs(length * cs)))
	t1 := int(round(math.Abs(width * sn)))
	w.Width = min(max(t0, t1)+2, (size.Width-xc)*2)

	t0 = int(round(math.Abs(length * sn)))
	t1 = int(round(math.Abs(width * cs)))
	w.Height = min(max(t0, t1)+2, (size.Height-yc)*2)

	w.X = max(0, xc-w.Width/2)
	w.Y = max(0, yc-w.Height/2)
	w.Width = min(size.Width-w.X, w.Width)
	w.Height = min(size.Height-w.Y, w.Height)
	*window = w

	angle := (math.Pi*0.5 + theta) * 180 / math.Pi
	for angle < 0 {
		angle += 360
	}
	for angle >= 360 {
		angle -= 360
	}
	if angle >= 180 {
		angle -= 180
	}

	return geom.RotatedRect{
		Center: geom.Point2f{
			X: float32(float64(w.X) + float64(w.Width)*0.5),
			Y: float32(float64(w.Y) + float64(w.Height)*0.5),
		},
		Size:  geom.Size2f{Width: float32(width), Height: float32(length)},
		Angle: float32(angle),
	}, nil
}

func checkInputs(op string, prob *mat.Mat, window *geom.Rect) error {
	if window == nil {
		return errors.InvalidInput(errors.PhaseConvert, op+": nil window")
	}
	if prob == nil || prob.Empty() {
		return errors.InvalidInput(errors.PhaseConvert, op+": empty probability image")
	}
	if prob.Channels() != 1 || prob.Dims() != 2 {
		return errors.DepthMismatch(errors.PhaseConvert, op, "single-channel 2-D image", prob.Type().String())
	}
	if window.Width <= 0 || window.Height <= 0 {
		return errors.New(errors.PhaseConvert, errors.KindInvalidInput).
			Path(op, "window").
			Value(*window).
			Detail("window must have a positive size").
			Build()
	}
	return nil
}

// momentsOf computes raw spatial moments of prob over r, in coordinates
// local to r.
func momentsOf(prob *mat.Mat, r geom.Rect) moments {
	var m moments
	for y := 0; y < r.Height; y++ {
		for x := 0; x < r.Width; x++ {
			v := prob.Value(r.Y+y, r.X+x)
			if v == 0 {
				continue
			}
			fx, fy := float64(x), float64(y)
			m.m00 += v
			m.m10 += fx * v
			m.m01 += fy * v
			m.m20 += fx * fx * v
			m.m11 += fx * fy * v
			m.m02 += fy * fy * v
		}
	}
	return m
}

func round(v float64) float64 {
	return math.RoundToEven(v)
}
