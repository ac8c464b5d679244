package bridge

import (
	"github.com/wippyai/cvbridge/compose"
	"github.com/wippyai/cvbridge/geom"
	"github.com/wippyai/cvbridge/imgproc"
	"github.com/wippyai/cvbridge/mat"
)

// registerFree registers the free functions.
func (b *Bridge) registerFree(g *registrar) {
	g.fn("rotatedRectPoints", geom.RotatedRect.Points, "rect")
	g.fn("rotatedRectBoundingRect", geom.RotatedRect.BoundingRect, "rect")
	g.fn("rotatedRectBoundingRect2f", geom.RotatedRect.BoundingRect2f, "rect")

	g.fn("minEnclosingCircle", imgproc.MinEnclosingCircle, "points")
	g.fn("minMaxLoc", func(src *mat.Mat) (geom.MinMaxLoc, error) {
		return mat.MinMaxLoc(src, nil)
	}, "src")
	g.fn("minMaxLoc", mat.MinMaxLoc, "src", "mask")

	g.fn("matFromArray", b.matFromImage, "image", "type")
	g.fn("matFromImageData", func(image any) (*mat.Mat, error) {
		return b.matFromImage(image, mat.CV8UC4)
	}, "image")

	g.fn("morphologyDefaultBorderValue", imgproc.MorphologyDefaultBorderValue)
	g.fn("CV_MAT_DEPTH", mat.DepthOf, "flags")

	g.fn("meanShift", compose.MeanShift, "probImage", "window", "criteria")
	g.fn("CamShift", compose.CamShift, "probImage", "window", "criteria")
}

// matFromImage copies an image record into a new Mat, honouring the
// bridge's image record strictness.
func (b *Bridge) matFromImage(image any, typ mat.TypeTag) (*mat.Mat, error) {
	return b.images.MatFromRecord(image, typ)
}
