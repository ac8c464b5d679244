package bridge

import (
	"context"
	stderrors "errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tetratelabs/wazero"

	"github.com/wippyai/cvbridge/dispatch"
	"github.com/wippyai/cvbridge/errors"
	"github.com/wippyai/cvbridge/extmem"
	"github.com/wippyai/cvbridge/geom"
	"github.com/wippyai/cvbridge/marshal"
	"github.com/wippyai/cvbridge/mat"
	"github.com/wippyai/cvbridge/resource"
)

func requireKind(t *testing.T, err error, kind errors.Kind) *errors.Error {
	t.Helper()
	var e *errors.Error
	require.True(t, stderrors.As(err, &e), "want *errors.Error, got %v", err)
	require.Equal(t, kind, e.Kind, "error: %v", err)
	return e
}

func newBridge(t *testing.T, opts ...Option) *Bridge {
	t.Helper()
	b, err := New(opts...)
	require.NoError(t, err)
	t.Cleanup(func() { b.Close() })
	return b
}

func call(t *testing.T, b *Bridge, symbol string, args ...any) any {
	t.Helper()
	out, err := b.Call(symbol, args...)
	require.NoError(t, err)
	return out
}

func method(t *testing.T, b *Bridge, name string, recv any, args ...any) any {
	t.Helper()
	out, err := b.CallMethod("Mat", name, recv, args...)
	require.NoError(t, err)
	return out
}

func TestConstants(t *testing.T) {
	c := Constants()
	assert.Len(t, c, 28+7+2+4)
	assert.Equal(t, 0, c["CV_8UC1"])
	assert.Equal(t, 21, c["CV_32FC3"])
	assert.Equal(t, 30, c["CV_64FC4"])
	assert.Equal(t, 6, c["CV_64F"])
	assert.Equal(t, math.MinInt32, c["INT_MIN"])
	assert.Equal(t, math.MaxInt32, c["INT_MAX"])
	assert.Equal(t, 1, c["DECOMP_SVD"])

	c["CV_8UC1"] = 99
	v, ok := Constant("CV_8UC1")
	require.True(t, ok)
	assert.Equal(t, 0, v)
	assert.Equal(t, 0, Constants()["CV_8UC1"])
}

func TestMatConstructorsByArity(t *testing.T) {
	b := newBridge(t)

	h := call(t, b, "Mat")
	assert.Equal(t, true, method(t, b, "empty", h))

	h = call(t, b, "Mat", 2, 3, Constants()["CV_8UC3"])
	assert.Equal(t, 2, method(t, b, "rows", h))
	assert.Equal(t, 3, method(t, b, "cols", h))
	assert.Equal(t, 16, method(t, b, "type", h))
	assert.Equal(t, 3, method(t, b, "elemSize", h))
	assert.Equal(t, 1, method(t, b, "elemSize1", h))
	assert.Equal(t, 3, method(t, b, "channels", h))
	assert.Equal(t, 6, method(t, b, "total", h))
	assert.Equal(t, []int{2, 3}, method(t, b, "size", h))
	assert.Equal(t, marshal.Record{"width": 3, "height": 2}, method(t, b, "matSize", h))
	assert.Equal(t, 9, method(t, b, "step", h, 0))
	assert.Equal(t, 9, method(t, b, "step1", h, 0))
	assert.Equal(t, 0, method(t, b, "depth", h))

	h = call(t, b, "Mat", marshal.Record{"width": 4, "height": 2}, 5)
	assert.Equal(t, []int{2, 4}, method(t, b, "size", h))
	assert.Equal(t, 5, method(t, b, "depth", h))

	h = call(t, b, "Mat", 2, 2, 0, []any{7.0, 0.0, 0.0, 0.0})
	assert.Equal(t, []uint8{7, 7, 7, 7}, method(t, b, "data", h))

	h = call(t, b, "Mat", []byte{1, 2, 3})
	assert.Equal(t, []int{3, 1}, method(t, b, "size", h))

	_, err := b.Call("Mat", 1, 2, 3, 4, 5, 6)
	requireKind(t, err, errors.KindNotFound)
}

func TestFactories(t *testing.T) {
	b := newBridge(t)

	z := call(t, b, "Mat.zeros", 2, 2, 0)
	assert.Equal(t, []uint8{0, 0, 0, 0}, method(t, b, "data", z))

	o := call(t, b, "Mat.ones", marshal.Record{"width": 2, "height": 1}, 4)
	assert.Equal(t, []int32{1, 1}, method(t, b, "data32s", o))

	e := call(t, b, "Mat.eye", 2, 2, 6)
	assert.Equal(t, []float64{1, 0, 0, 1}, method(t, b, "data64f", e))
}

func TestExternalMatRequiresHeap(t *testing.T) {
	b := newBridge(t)
	_, err := b.Call("Mat", 2, 2, 0, 0, 0)
	requireKind(t, err, errors.KindNotInitialized)
}

func TestExternalMatAliasesWasmMemory(t *testing.T) {
	ctx := context.Background()
	r := wazero.NewRuntime(ctx)
	defer r.Close(ctx)
	mod, err := r.Instantiate(ctx, []byte{
		0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00,
		0x05, 0x03, 0x01, 0x00, 0x01,
		0x07, 0x0a, 0x01, 0x06, 'm', 'e', 'm', 'o', 'r', 'y', 0x02, 0x00,
	})
	require.NoError(t, err)
	mem := mod.ExportedMemory("memory")
	require.True(t, mem.Write(16, []byte{1, 2, 3, 4}))

	b := newBridge(t, WithHeap(extmem.NewWasmHeap(mem)))

	h := call(t, b, "Mat", 2, 2, 0, 16, 0)
	assert.Equal(t, 4, method(t, b, "get_uchar_at", h, 1, 1))

	method(t, b, "set_uchar_at", h, 0, 0, 99)
	got, ok := mem.ReadByte(16)
	require.True(t, ok)
	assert.Equal(t, byte(99), got)

	_, err = b.Call("Mat", 2, 2, 0, -1, 0)
	requireKind(t, err, errors.KindOutOfBounds)
}

func TestDataViewsAlias(t *testing.T) {
	b := newBridge(t)
	h := call(t, b, "Mat", 2, 2, Constants()["CV_32FC1"])

	view := method(t, b, "data32f", h).([]float32)
	require.Len(t, view, 4)
	view[3] = 2.5
	assert.Equal(t, 2.5, method(t, b, "get_float_at", h, 1, 1))

	row := method(t, b, "floatPtr", h, 1).([]float32)
	assert.Equal(t, []float32{0, 2.5}, row)
	tail := method(t, b, "floatPtr", h, 1, 1).([]float32)
	assert.Equal(t, []float32{2.5}, tail)
	raw := method(t, b, "ptr", h, 0).([]byte)
	assert.Len(t, raw, 8)

	_, err := b.CallMethod("Mat", "data", h)
	requireKind(t, err, errors.KindTypeMismatch)
}

func TestDropMakesViewsStale(t *testing.T) {
	b := newBridge(t)
	h := call(t, b, "Mat", 2, 2, 0).(resource.Handle)

	m, err := b.Mat(h)
	require.NoError(t, err)
	v, err := mat.Data[uint8](m)
	require.NoError(t, err)
	require.True(t, v.Valid())

	require.NoError(t, b.Drop(h))
	assert.False(t, v.Valid())
	requireKind(t, v.Check(), errors.KindStaleView)

	_, err = b.CallMethod("Mat", "rows", h)
	requireKind(t, err, errors.KindNotFound)
}

func TestLeaseBlocksDrop(t *testing.T) {
	b := newBridge(t)
	h := call(t, b, "Mat", 1, 1, 0).(resource.Handle)

	require.NoError(t, b.Lease(h))
	err := b.Drop(h)
	assert.True(t, stderrors.Is(err, resource.ErrOutstandingBorrow))

	require.NoError(t, b.Return(h))
	require.NoError(t, b.Drop(h))
	assert.Empty(t, b.Handles())
}

func TestElementAccessors(t *testing.T) {
	b := newBridge(t)
	h := call(t, b, "Mat", 2, 2, Constants()["CV_16SC2"])

	method(t, b, "set_short_at", h, 1, 1, 1, -300)
	assert.Equal(t, -300, method(t, b, "get_short_at", h, 1, 1, 1))
	assert.Equal(t, -300, method(t, b, "get_short_at", h, 1, 3))
	assert.Equal(t, -300, method(t, b, "get_short_at", h, 7))

	_, err := b.CallMethod("Mat", "get_int_at", h, 0)
	requireKind(t, err, errors.KindTypeMismatch)

	_, err = b.CallMethod("Mat", "get_short_at", h, 8)
	requireKind(t, err, errors.KindOutOfBounds)

	u8 := call(t, b, "Mat", 1, 1, 0)
	_, err = b.CallMethod("Mat", "set_uchar_at", u8, 0, 300)
	e := requireKind(t, err, errors.KindTypeMismatch)
	assert.Equal(t, []string{"Mat.set_uchar_at", "value"}, e.Path)
}

func TestConvertToArities(t *testing.T) {
	b := newBridge(t)
	src := call(t, b, "Mat", []byte{10, 200, 255})
	dst := call(t, b, "Mat")

	method(t, b, "convertTo", src, dst, Constants()["CV_32F"])
	assert.Equal(t, []float32{10, 200, 255}, method(t, b, "data32f", dst))

	method(t, b, "convertTo", src, dst, -1, 2)
	assert.Equal(t, []uint8{20, 255, 255}, method(t, b, "data", dst))

	method(t, b, "convertTo", src, dst, Constants()["CV_32F"], 0.5, 1)
	assert.Equal(t, []float32{6, 101, 128.5}, method(t, b, "data32f", dst))
}

func TestCopyToMasked(t *testing.T) {
	b := newBridge(t)
	src := call(t, b, "Mat", 1, 3, 0)
	copy(method(t, b, "data", src).([]uint8), []uint8{1, 2, 3})
	mask := call(t, b, "Mat", 1, 3, 0)
	copy(method(t, b, "data", mask).([]uint8), []uint8{1, 0, 1})
	dst := call(t, b, "Mat", 1, 3, 0, []any{9, 0, 0, 0})

	method(t, b, "copyTo", src, dst, mask)
	assert.Equal(t, []uint8{1, 9, 3}, method(t, b, "data", dst))

	clone := method(t, b, "clone", dst)
	method(t, b, "setTo", clone, []any{0, 0, 0, 0})
	assert.Equal(t, []uint8{1, 9, 3}, method(t, b, "data", dst))
}

func TestSubMatricesAlias(t *testing.T) {
	b := newBridge(t)
	m := call(t, b, "Mat.zeros", 3, 3, 0)

	row := method(t, b, "row", m, 1)
	method(t, b, "set_uchar_at", row, 0, 2, 7)
	assert.Equal(t, 7, method(t, b, "get_uchar_at", m, 1, 2))

	roi := method(t, b, "roi", m, marshal.Record{"x": 1, "y": 1, "width": 2, "height": 2})
	assert.Equal(t, []int{2, 2}, method(t, b, "size", roi))
	assert.Equal(t, 7, method(t, b, "get_uchar_at", roi, 0, 1))
	assert.Equal(t, false, method(t, b, "isContinuous", roi))

	same := method(t, b, "getROI_Rect", m, marshal.Record{"x": 1, "y": 1, "width": 2, "height": 2})
	assert.Equal(t, []int{2, 2}, method(t, b, "size", same))

	assert.Equal(t, []int{2, 3}, method(t, b, "size", method(t, b, "rowRange", m, marshal.Record{"start": 0, "end": 2})))
	assert.Equal(t, []int{3, 1}, method(t, b, "size", method(t, b, "colRange", m, 2, 3)))
	assert.Equal(t, []int{3, 1}, method(t, b, "size", method(t, b, "col", m, 0)))

	_, err := b.CallMethod("Mat", "rowRange", m, 2, 5)
	requireKind(t, err, errors.KindOutOfBounds)
}

func TestArithmetic(t *testing.T) {
	b := newBridge(t)
	a := call(t, b, "Mat", 2, 2, Constants()["CV_64FC1"])
	copy(method(t, b, "data64f", a).([]float64), []float64{4, 7, 2, 6})

	inv := method(t, b, "inv", a, Constants()["DECOMP_LU"])
	got := method(t, b, "data64f", inv).([]float64)
	want := []float64{0.6, -0.7, -0.2, 0.4}
	for i := range want {
		assert.InDelta(t, want[i], got[i], 1e-12)
	}

	assert.Equal(t, 105.0, method(t, b, "dot", a, a))
	tr := method(t, b, "t", a)
	assert.Equal(t, []float64{4, 2, 7, 6}, method(t, b, "data64f", tr))

	prod := method(t, b, "mul", a, a, 0.5)
	assert.Equal(t, []float64{8, 24.5, 2, 18}, method(t, b, "data64f", prod))

	sing := call(t, b, "Mat.zeros", 2, 2, 6)
	_, err := b.CallMethod("Mat", "inv", sing, 0)
	requireKind(t, err, errors.KindSingular)
}

func TestCreateReallocates(t *testing.T) {
	b := newBridge(t)
	h := call(t, b, "Mat", 1, 1, 0)

	method(t, b, "create", h, 3, 2, Constants()["CV_8UC2"])
	assert.Equal(t, []int{3, 2}, method(t, b, "size", h))
	assert.Equal(t, 2, method(t, b, "channels", h))

	method(t, b, "create", h, marshal.Record{"width": 5, "height": 1}, 0)
	assert.Equal(t, []int{1, 5}, method(t, b, "size", h))
}

func TestFreeFunctions(t *testing.T) {
	b := newBridge(t)
	rr := marshal.Record{
		"center": marshal.Record{"x": 10, "y": 20},
		"size":   marshal.Record{"width": 4, "height": 2},
		"angle":  0,
	}

	pts := call(t, b, "rotatedRectPoints", rr).([]any)
	require.Len(t, pts, 4)
	assert.Equal(t, marshal.Record{"x": 8.0, "y": 21.0}, pts[0])

	assert.Equal(t, marshal.Record{"x": 8, "y": 19, "width": 5, "height": 3},
		call(t, b, "rotatedRectBoundingRect", rr))
	assert.Equal(t, marshal.Record{"x": 8.0, "y": 19.0, "width": 4.0, "height": 2.0},
		call(t, b, "rotatedRectBoundingRect2f", rr))

	assert.Equal(t, 5, call(t, b, "CV_MAT_DEPTH", Constants()["CV_32FC3"]))

	border := call(t, b, "morphologyDefaultBorderValue").([]any)
	assert.Equal(t, []any{math.MaxFloat64, math.MaxFloat64, math.MaxFloat64, math.MaxFloat64}, border)

	_, err := b.Call("rotatedRectPoints", marshal.Record{"center": marshal.Record{"x": 1, "y": 1}})
	requireKind(t, err, errors.KindFieldMissing)
}

func TestMinMaxLocAndCircle(t *testing.T) {
	b := newBridge(t)
	src := call(t, b, "Mat", 2, 2, Constants()["CV_32FC1"])
	copy(method(t, b, "data32f", src).([]float32), []float32{3, -1, 8, 2})

	assert.Equal(t, marshal.Record{
		"minVal": -1.0, "maxVal": 8.0,
		"minLoc": marshal.Record{"x": 1, "y": 0},
		"maxLoc": marshal.Record{"x": 0, "y": 1},
	}, call(t, b, "minMaxLoc", src))

	mask := call(t, b, "Mat", 2, 2, 0)
	copy(method(t, b, "data", mask).([]uint8), []uint8{1, 0, 0, 1})
	masked := call(t, b, "minMaxLoc", src, mask).(marshal.Record)
	assert.Equal(t, 2.0, masked["minVal"])
	assert.Equal(t, 3.0, masked["maxVal"])

	pts := call(t, b, "Mat", 3, 1, Constants()["CV_32SC2"])
	copy(method(t, b, "data32s", pts).([]int32), []int32{0, 0, 6, 0, 0, 8})
	c := call(t, b, "minEnclosingCircle", pts).(marshal.Record)
	assert.InDelta(t, 5.0, c["radius"], 1e-4)
}

// blob is a 20x20 probability image with a 4x4 block at columns 12..15,
// rows 10..13.
func blob(t *testing.T, b *Bridge) resource.Handle {
	t.Helper()
	m, err := mat.NewMat(20, 20, mat.CV8UC1)
	require.NoError(t, err)
	roi, err := m.ROI(geom.Rect{X: 12, Y: 10, Width: 4, Height: 4})
	require.NoError(t, err)
	roi.SetTo(geom.ScalarAll(255))
	h, err := b.Insert(m)
	require.NoError(t, err)
	return h
}

func TestTrackingReturnsPairs(t *testing.T) {
	b := newBridge(t)
	prob := blob(t, b)
	window := marshal.Record{"x": 8, "y": 7, "width": 6, "height": 6}
	criteria := marshal.Record{"type": 3, "maxCount": 10, "epsilon": 1.0}

	out := call(t, b, "meanShift", prob, window, criteria).([]any)
	require.Len(t, out, 2)
	assert.Equal(t, 1, out[0])
	assert.Equal(t, marshal.Record{"x": 10, "y": 8, "width": 6, "height": 6}, out[1])
	assert.Equal(t, 8, window["x"], "caller's window must not change")

	out = call(t, b, "CamShift", prob, window, criteria).([]any)
	require.Len(t, out, 2)
	box := out[0].(marshal.Record)
	assert.Equal(t, marshal.Record{"x": 14.0, "y": 12.0}, box["center"])
	assert.Equal(t, marshal.Record{"x": 11, "y": 9, "width": 6, "height": 6}, out[1])
}

func TestMatFromImageRecords(t *testing.T) {
	short := marshal.Record{"width": 2, "height": 2, "data": []byte{1, 2, 3}}

	strict := newBridge(t)
	_, err := strict.Call("matFromArray", short, 0)
	requireKind(t, err, errors.KindShortBuffer)

	lenient := newBridge(t, WithStrictImageRecords(false))
	h := call(t, lenient, "matFromArray", short, 0)
	assert.Equal(t, []uint8{1, 2, 3, 0}, method(t, lenient, "data", h))

	rgba := marshal.Record{"width": 1, "height": 1, "data": marshal.Record{"buffer": []byte{1, 2, 3, 4}}}
	h = call(t, strict, "matFromImageData", rgba)
	assert.Equal(t, 4, method(t, strict, "channels", h))
	assert.Equal(t, []uint8{1, 2, 3, 4}, method(t, strict, "data", h))
}

func TestDispatchErrors(t *testing.T) {
	b := newBridge(t)

	_, err := b.Call("nope")
	requireKind(t, err, errors.KindNotFound)

	_, err = b.Call("Mat.zeros", 1)
	e := requireKind(t, err, errors.KindNotFound)
	assert.Contains(t, e.Detail, "[2 3]")

	h := call(t, b, "Mat", 1, 1, 0)
	_, err = b.Call("Mat.clone", h)
	requireKind(t, err, errors.KindInvalidInput)

	_, err = b.CallMethod("Mat", "step", h, 5)
	requireKind(t, err, errors.KindOutOfBounds)

	_, err = b.CallMethod("Mat", "rows", "not a handle")
	requireKind(t, err, errors.KindTypeMismatch)

	// hosts that only carry numbers may pass handles as float64
	assert.Equal(t, 1, method(t, b, "rows", float64(h.(resource.Handle))))
}

func TestRegistryIsSealed(t *testing.T) {
	b := newBridge(t)
	reg := b.Registry()
	assert.True(t, reg.Sealed())

	err := reg.Register("extra", func() {})
	assert.True(t, stderrors.Is(err, dispatch.ErrSealed))

	assert.Equal(t, []int{0, 1, 2, 3, 4, 5}, reg.Arities("Mat"))
	assert.Equal(t, []int{1, 2, 3}, reg.Arities("Mat.get_uchar_at"))
	assert.Equal(t, []int{2, 3, 4}, reg.Arities("Mat.set_double_at"))
	assert.Equal(t, []int{2, 3, 4}, reg.Arities("Mat.convertTo"))

	ov, ok := reg.Lookup("Mat", 3)
	require.True(t, ok)
	assert.Equal(t, "Mat(rows: s32, cols: s32, type: s32) -> Mat", ov.Signature())
}

func TestMeanShiftBrightBlock(t *testing.T) {
	b := newBridge(t)
	prob := call(t, b, "Mat.zeros", 50, 50, Constants()["CV_8UC1"])
	block := method(t, b, "roi", prob, marshal.Record{"x": 20, "y": 20, "width": 10, "height": 10})
	method(t, b, "setTo", block, []any{255, 0, 0, 0})

	window := marshal.Record{"x": 15, "y": 15, "width": 20, "height": 20}
	criteria := marshal.Record{"type": 3, "maxCount": 10, "epsilon": 1.0}
	out := call(t, b, "meanShift", prob, window, criteria).([]any)
	require.Len(t, out, 2)
	assert.Equal(t, 0, out[0])

	region := out[1].(marshal.Record)
	assert.Equal(t, marshal.Record{"x": 15, "y": 15, "width": 20, "height": 20}, region)
	cx := region["x"].(int) + region["width"].(int)/2
	cy := region["y"].(int) + region["height"].(int)/2
	assert.InDelta(t, 25, cx, 2)
	assert.InDelta(t, 25, cy, 2)
}

func TestZerosByExtentsAndSize(t *testing.T) {
	b := newBridge(t)
	typ := Constants()["CV_32FC1"]

	for _, h := range []any{
		call(t, b, "Mat.zeros", 3, 4, typ),
		call(t, b, "Mat.zeros", marshal.Record{"width": 4, "height": 3}, typ),
	} {
		assert.Equal(t, []int{3, 4}, method(t, b, "size", h))
		assert.Equal(t, make([]float32, 12), method(t, b, "data32f", h))
	}
}

func TestFourChannelFill(t *testing.T) {
	b := newBridge(t)
	typ := Constants()["CV_8UC4"]

	want := make([]uint8, 0, 48)
	for range 12 {
		want = append(want, 1, 2, 3, 4)
	}
	filled := call(t, b, "Mat", 3, 4, typ, []any{1, 2, 3, 4})
	assert.Equal(t, 4, method(t, b, "channels", filled))
	assert.Equal(t, want, method(t, b, "data", filled))

	reset := call(t, b, "Mat", 3, 4, typ)
	method(t, b, "setTo", reset, []any{1, 2, 3, 4})
	assert.Equal(t, want, method(t, b, "data", reset))

	ones := call(t, b, "Mat.ones", 3, 4, typ)
	data := method(t, b, "data", ones).([]uint8)
	require.Len(t, data, 48)
	for px := 0; px < 12; px++ {
		assert.Equal(t, []uint8{1, 0, 0, 0}, data[px*4:px*4+4], "pixel %d", px)
	}
}

func TestConvertToSaturates(t *testing.T) {
	b := newBridge(t)
	src := call(t, b, "Mat", 1, 2, Constants()["CV_32FC1"])
	copy(method(t, b, "data32f", src).([]float32), []float32{300, -5})
	dst := call(t, b, "Mat")

	method(t, b, "convertTo", src, dst, Constants()["CV_8U"], 1, 0)
	assert.Equal(t, []uint8{255, 0}, method(t, b, "data", dst))
}

func TestDataOfDefaultMat(t *testing.T) {
	b := newBridge(t)
	h := call(t, b, "Mat")
	assert.Equal(t, []float32{}, method(t, b, "data32f", h))
	assert.Equal(t, []uint8{}, method(t, b, "data", h))
}

func vec(t *testing.T, b *Bridge, class, name string, recv any, args ...any) any {
	t.Helper()
	out, err := b.CallMethod(class, name, recv, args...)
	require.NoError(t, err)
	return out
}

func TestVectors(t *testing.T) {
	b := newBridge(t)

	ints := call(t, b, "IntVector")
	vec(t, b, "IntVector", "push_back", ints, 4)
	vec(t, b, "IntVector", "push_back", ints, 9)
	assert.Equal(t, 2, vec(t, b, "IntVector", "size", ints))
	assert.Equal(t, 9, vec(t, b, "IntVector", "get", ints, 1))
	vec(t, b, "IntVector", "set", ints, 0, 7)
	assert.Equal(t, 7, vec(t, b, "IntVector", "get", ints, 0))

	vec(t, b, "IntVector", "resize", ints, 4)
	assert.Equal(t, 0, vec(t, b, "IntVector", "get", ints, 3))
	vec(t, b, "IntVector", "resize", ints, 5, 3)
	assert.Equal(t, 3, vec(t, b, "IntVector", "get", ints, 4))

	_, err := b.CallMethod("IntVector", "get", ints, 5)
	requireKind(t, err, errors.KindOutOfBounds)
	_, err = b.CallMethod("IntVector", "resize", ints, -1)
	requireKind(t, err, errors.KindInvalidInput)

	doubles := call(t, b, "DoubleVector")
	vec(t, b, "DoubleVector", "push_back", doubles, 0.25)
	assert.Equal(t, 0.25, vec(t, b, "DoubleVector", "get", doubles, 0))

	rects := call(t, b, "RectVector")
	vec(t, b, "RectVector", "push_back", rects, marshal.Record{"x": 1, "y": 2, "width": 3, "height": 4})
	assert.Equal(t, marshal.Record{"x": 1, "y": 2, "width": 3, "height": 4}, vec(t, b, "RectVector", "get", rects, 0))

	r, err := b.Resource(ints.(resource.Handle))
	require.NoError(t, err)
	assert.Equal(t, "IntVector[5]", r.(*marshal.IntVector).String())
}

func TestVectorHandleTypes(t *testing.T) {
	b := newBridge(t)
	ints := call(t, b, "IntVector")
	m := call(t, b, "Mat", 1, 1, 0)

	_, err := b.CallMethod("FloatVector", "size", ints)
	e := requireKind(t, err, errors.KindTypeMismatch)
	assert.Equal(t, "IntVector", e.HostType)

	_, err = b.CallMethod("IntVector", "size", m)
	requireKind(t, err, errors.KindTypeMismatch)

	_, err = b.Mat(ints.(resource.Handle))
	requireKind(t, err, errors.KindTypeMismatch)

	require.NoError(t, b.Drop(ints.(resource.Handle)))
	_, err = b.CallMethod("IntVector", "size", ints)
	requireKind(t, err, errors.KindNotFound)

	again := call(t, b, "IntVector")
	assert.NotEqual(t, ints, again, "a reused slot gets a new generation")
}

func TestPointVectorAsInputArray(t *testing.T) {
	b := newBridge(t)
	pts := call(t, b, "PointVector")
	for _, p := range [][2]int{{0, 0}, {6, 0}, {0, 8}} {
		vec(t, b, "PointVector", "push_back", pts, marshal.Record{"x": p[0], "y": p[1]})
	}
	c := call(t, b, "minEnclosingCircle", pts).(marshal.Record)
	assert.InDelta(t, 5.0, c["radius"], 1e-4)
}

func TestMatVectorAliasesPushedMats(t *testing.T) {
	b := newBridge(t)
	m := call(t, b, "Mat", 2, 2, 0)
	mats := call(t, b, "MatVector")
	vec(t, b, "MatVector", "push_back", mats, m)

	got := vec(t, b, "MatVector", "get", mats, 0)
	assert.NotEqual(t, m, got)
	method(t, b, "data", got).([]uint8)[3] = 42

	require.NoError(t, b.Drop(m.(resource.Handle)))
	again := vec(t, b, "MatVector", "get", mats, 0)
	assert.Equal(t, []uint8{0, 0, 0, 42}, method(t, b, "data", again))
}
