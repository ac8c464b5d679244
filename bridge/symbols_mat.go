package bridge

import (
	"fmt"
	"math"

	"github.com/wippyai/cvbridge/errors"
	"github.com/wippyai/cvbridge/extmem"
	"github.com/wippyai/cvbridge/mat"
)

// registerMat registers the Mat constructors, factories and methods.
func (b *Bridge) registerMat(g *registrar) {
	g.fn(matClass, mat.New)
	g.fn(matClass, mat.NewFromBytes, "bytes")
	g.fn(matClass, mat.NewWithSize, "size", "type")
	g.fn(matClass, mat.NewMat, "rows", "cols", "type")
	g.fn(matClass, mat.NewWithScalar, "rows", "cols", "type", "scalar")
	g.fn(matClass, b.newExternal, "rows", "cols", "type", "ptr", "step")

	g.fn("Mat.zeros", mat.Zeros, "rows", "cols", "type")
	g.fn("Mat.zeros", mat.ZerosSize, "size", "type")
	g.fn("Mat.ones", mat.Ones, "rows", "cols", "type")
	g.fn("Mat.ones", mat.OnesSize, "size", "type")
	g.fn("Mat.eye", mat.Eye, "rows", "cols", "type")
	g.fn("Mat.eye", mat.EyeSize, "size", "type")

	// introspection
	g.method("elemSize", (*mat.Mat).ElemSize)
	g.method("elemSize1", (*mat.Mat).ElemSize1)
	g.method("channels", (*mat.Mat).Channels)
	g.method("total", (*mat.Mat).Total)
	g.method("size", (*mat.Mat).Size)
	g.method("matSize", (*mat.Mat).MatSize)
	g.method("type", (*mat.Mat).Type)
	g.method("depth", (*mat.Mat).Depth)
	g.method("empty", (*mat.Mat).Empty)
	g.method("dims", (*mat.Mat).Dims)
	g.method("rows", (*mat.Mat).Rows)
	g.method("cols", (*mat.Mat).Cols)
	g.method("isContinuous", (*mat.Mat).IsContinuous)
	g.method("step", (*mat.Mat).Step, "i")
	g.method("step1", (*mat.Mat).Step1, "i")

	// reshaping and copies
	g.method("create", (*mat.Mat).CreateSize, "size", "type")
	g.method("create", (*mat.Mat).Create, "rows", "cols", "type")
	g.method("convertTo", func(m, dst *mat.Mat, rtype int) error {
		return m.ConvertTo(dst, rtype, 1, 0)
	}, "dst", "rtype")
	g.method("convertTo", func(m, dst *mat.Mat, rtype int, alpha float64) error {
		return m.ConvertTo(dst, rtype, alpha, 0)
	}, "dst", "rtype", "alpha")
	g.method("convertTo", (*mat.Mat).ConvertTo, "dst", "rtype", "alpha", "beta")
	g.method("copyTo", (*mat.Mat).CopyTo, "dst")
	g.method("copyTo", (*mat.Mat).CopyToMasked, "dst", "mask")
	g.method("clone", (*mat.Mat).Clone)
	g.method("setTo", (*mat.Mat).SetTo, "scalar")

	// aliasing sub-matrices
	g.method("row", (*mat.Mat).Row, "i")
	g.method("col", (*mat.Mat).Col, "j")
	g.method("rowRange", (*mat.Mat).RowRangeR, "range")
	g.method("rowRange", (*mat.Mat).RowRange, "start", "end")
	g.method("colRange", (*mat.Mat).ColRangeR, "range")
	g.method("colRange", (*mat.Mat).ColRange, "start", "end")
	g.method("roi", (*mat.Mat).ROI, "rect")
	g.method("getROI_Rect", (*mat.Mat).ROI, "rect")

	// arithmetic
	g.method("dot", (*mat.Mat).Dot, "m")
	g.method("mul", (*mat.Mat).Mul, "m", "scale")
	g.method("t", (*mat.Mat).T)
	g.method("inv", (*mat.Mat).Inv, "method")
}

// newExternal builds a borrowed Mat over the configured heap. ptr is an
// offset into the heap, not a Go address.
func (b *Bridge) newExternal(rows, cols int, typ mat.TypeTag, ptr, step int) (*mat.Mat, error) {
	if b.heap == nil {
		return nil, errors.NotInitialized(errors.PhaseHost, "heap")
	}
	if ptr < 0 || ptr > math.MaxUint32 {
		return nil, errors.New(errors.PhaseHost, errors.KindOutOfBounds).
			Path("ptr").
			Value(ptr).
			Detail("pointer %d outside 32-bit heap", ptr).
			Build()
	}
	if step < 0 {
		return nil, errors.InvalidInput(errors.PhaseHost, fmt.Sprintf("negative step %d", step))
	}
	return extmem.MatAt(b.heap, uint32(ptr), rows, cols, typ, step)
}
