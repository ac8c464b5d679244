package mat

import (
	"slices"

	"github.com/wippyai/cvbridge/errors"
	"github.com/wippyai/cvbridge/geom"
)

// Row returns a 1 x cols header aliasing row i.
func (m *Mat) Row(i int) (*Mat, error) {
	return m.RowRange(i, i+1)
}

// Col returns a rows x 1 header aliasing column j.
func (m *Mat) Col(j int) (*Mat, error) {
	return m.ColRange(j, j+1)
}

// RowRangeR is RowRange over a Range.
func (m *Mat) RowRangeR(r geom.Range) (*Mat, error) {
	return m.RowRange(r.Start, r.End)
}

// ColRangeR is ColRange over a Range.
func (m *Mat) ColRangeR(r geom.Range) (*Mat, error) {
	return m.ColRange(r.Start, r.End)
}

// RowRange returns a header aliasing rows [start, end) along the first dimension.
func (m *Mat) RowRange(start, end int) (*Mat, error) {
	if len(m.size) == 0 {
		return nil, errors.InvalidInput(errors.PhaseAccess, "rowRange of an empty matrix")
	}
	if err := checkRange("rowRange", start, end, m.size[0]); err != nil {
		return nil, err
	}
	size := slices.Clone(m.size)
	size[0] = end - start
	return m.sub(start*m.step[0], size), nil
}

// ColRange returns a header aliasing columns [start, end) of a 2-D Mat.
func (m *Mat) ColRange(start, end int) (*Mat, error) {
	if len(m.size) != 2 {
		return nil, errors.InvalidInput(errors.PhaseAccess, "colRange needs a 2-D matrix")
	}
	if err := checkRange("colRange", start, end, m.size[1]); err != nil {
		return nil, err
	}
	return m.sub(start*m.step[1], []int{m.size[0], end - start}), nil
}

// ROI returns a header aliasing the rectangle r of a 2-D Mat.
func (m *Mat) ROI(r geom.Rect) (*Mat, error) {
	if len(m.size) != 2 {
		return nil, errors.InvalidInput(errors.PhaseAccess, "roi needs a 2-D matrix")
	}
	if r.X < 0 || r.Y < 0 || r.Width < 0 || r.Height < 0 ||
		r.X+r.Width > m.size[1] || r.Y+r.Height > m.size[0] {
		return nil, errors.New(errors.PhaseAccess, errors.KindOutOfBounds).
			Path("roi").
			Value(r).
			Detail("rect %+v exceeds %dx%d", r, m.size[1], m.size[0]).
			Build()
	}
	return m.sub(r.Y*m.step[0]+r.X*m.step[1], []int{r.Height, r.Width}), nil
}

func checkRange(op string, start, end, n int) error {
	if start < 0 || end < start || end > n {
		return errors.New(errors.PhaseAccess, errors.KindOutOfBounds).
			Path(op).
			Value([2]int{start, end}).
			Detail("range [%d, %d) outside [0, %d)", start, end, n).
			Build()
	}
	return nil
}
