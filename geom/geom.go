package geom

import "math"

// Point is an integer 2-D point.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Point2f is a single-precision 2-D point.
type Point2f struct {
	X float32 `json:"x"`
	Y float32 `json:"y"`
}

// Size is an integer extent pair. Width counts columns, Height counts rows.
type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Area returns Width*Height.
func (s Size) Area() int {
	return s.Width * s.Height
}

// Size2f is a single-precision extent pair.
type Size2f struct {
	Width  float32 `json:"width"`
	Height float32 `json:"height"`
}

// Rect is an integer axis-aligned rectangle with its top-left corner at (X, Y).
type Rect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Area returns Width*Height.
func (r Rect) Area() int {
	return r.Width * r.Height
}

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Intersect returns the overlap of r and o. Disjoint rectangles yield the zero Rect.
func (r Rect) Intersect(o Rect) Rect {
	x1 := max(r.X, o.X)
	y1 := max(r.Y, o.Y)
	x2 := min(r.X+r.Width, o.X+o.Width)
	y2 := min(r.Y+r.Height, o.Y+o.Height)
	if x2 <= x1 || y2 <= y1 {
		return Rect{}
	}
	return Rect{X: x1, Y: y1, Width: x2 - x1, Height: y2 - y1}
}

// Rect2f is a single-precision axis-aligned rectangle.
type Rect2f struct {
	X      float32 `json:"x"`
	Y      float32 `json:"y"`
	Width  float32 `json:"width"`
	Height float32 `json:"height"`
}

// RotatedRect is a rectangle rotated by Angle degrees around its Center.
type RotatedRect struct {
	Center Point2f `json:"center"`
	Size   Size2f  `json:"size"`
	Angle  float32 `json:"angle"`
}

// Points returns the four corners in the order bottom-left, top-left,
// top-right, bottom-right for an unrotated rectangle.
func (r RotatedRect) Points() [4]Point2f {
	angle := float64(r.Angle) * math.Pi / 180
	b := float32(math.Cos(angle)) * 0.5
	a := float32(math.Sin(angle)) * 0.5

	var pt [4]Point2f
	pt[0].X = r.Center.X - a*r.Size.Height - b*r.Size.Width
	pt[0].Y = r.Center.Y + b*r.Size.Height - a*r.Size.Width
	pt[1].X = r.Center.X + a*r.Size.Height - b*r.Size.Width
	pt[1].Y = r.Center.Y - b*r.Size.Height - a*r.Size.Width
	pt[2].X = 2*r.Center.X - pt[0].X
	pt[2].Y = 2*r.Center.Y - pt[0].Y
	pt[3].X = 2*r.Center.X - pt[1].X
	pt[3].Y = 2*r.Center.Y - pt[1].Y
	return pt
}

// BoundingRect returns the smallest integer rectangle containing all corners.
func (r RotatedRect) BoundingRect() Rect {
	minX, minY, maxX, maxY := r.extent()
	x := int(math.Floor(float64(minX)))
	y := int(math.Floor(float64(minY)))
	return Rect{
		X:      x,
		Y:      y,
		Width:  int(math.Ceil(float64(maxX))) - x + 1,
		Height: int(math.Ceil(float64(maxY))) - y + 1,
	}
}

// BoundingRect2f returns the exact floating-point bounding box of the corners.
func (r RotatedRect) BoundingRect2f() Rect2f {
	minX, minY, maxX, maxY := r.extent()
	return Rect2f{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

func (r RotatedRect) extent() (minX, minY, maxX, maxY float32) {
	pt := r.Points()
	minX, minY = pt[0].X, pt[0].Y
	maxX, maxY = pt[0].X, pt[0].Y
	for _, p := range pt[1:] {
		minX = min(minX, p.X)
		minY = min(minY, p.Y)
		maxX = max(maxX, p.X)
		maxY = max(maxY, p.Y)
	}
	return
}

// Termination criteria type bits.
const (
	TermCount   = 1
	TermMaxIter = TermCount
	TermEps     = 2
)

// TermCriteria bounds an iterative algorithm by iteration count, by
// convergence epsilon, or by both depending on the bits set in Type.
type TermCriteria struct {
	Type     int     `json:"type"`
	MaxCount int     `json:"maxCount"`
	Epsilon  float64 `json:"epsilon"`
}

// Circle is a center and a radius.
type Circle struct {
	Center Point2f `json:"center"`
	Radius float32 `json:"radius"`
}

// MinMaxLoc holds the extreme values of a scan and their first locations.
// Locations use (x=column, y=row).
type MinMaxLoc struct {
	MinVal float64 `json:"minVal"`
	MaxVal float64 `json:"maxVal"`
	MinLoc Point   `json:"minLoc"`
	MaxLoc Point   `json:"maxLoc"`
}

// Scalar is a 4-element per-channel value. It crosses the boundary as a
// fixed-length array rather than a record.
type Scalar [4]float64

// ScalarAll returns a Scalar with every element set to v.
func ScalarAll(v float64) Scalar {
	return Scalar{v, v, v, v}
}

// Range is a half-open index interval [Start, End).
type Range struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Len returns End-Start.
func (r Range) Len() int {
	return r.End - r.Start
}
