package compose

import (
	"github.com/wippyai/cvbridge/errors"
	"github.com/wippyai/cvbridge/geom"
	"github.com/wippyai/cvbridge/mat"
	"github.com/wippyai/cvbridge/video"
)

// Tracked pairs a native's return value with the region it updated.
type Tracked[T any] struct {
	Result T
	Window geom.Rect
}

// Values returns [Result, Window].
func (t Tracked[T]) Values() []any {
	return []any{t.Result, t.Window}
}

// Adapt runs fn against a copy of window and returns fn's result together
// with the copy as fn left it. The caller's window is never modified.
func Adapt[T any](fn func(window *geom.Rect) (T, error), window geom.Rect) (Tracked[T], error) {
	if fn == nil {
		return Tracked[T]{}, errors.NotInitialized(errors.PhaseCompose, "native function")
	}
	w := window
	res, err := fn(&w)
	if err != nil {
		return Tracked[T]{}, wrap(err)
	}
	return Tracked[T]{Result: res, Window: w}, nil
}

// MeanShift returns the iteration count and the converged window.
func MeanShift(probImage *mat.Mat, window geom.Rect, criteria geom.TermCriteria) (Tracked[int], error) {
	return Adapt(func(w *geom.Rect) (int, error) {
		return video.MeanShift(probImage, w, criteria)
	}, window)
}

// CamShift returns the fitted box and the resized window.
func CamShift(probImage *mat.Mat, window geom.Rect, criteria geom.TermCriteria) (Tracked[geom.RotatedRect], error) {
	return Adapt(func(w *geom.Rect) (geom.RotatedRect, error) {
		return video.CamShift(probImage, w, criteria)
	}, window)
}

// wrap keeps structured errors as they are and tags anything else with
// the compose phase.
func wrap(err error) error {
	if _, ok := err.(*errors.Error); ok {
		return err
	}
	return errors.Wrap(errors.PhaseCompose, errors.KindContractViolation, err, "native call failed")
}
