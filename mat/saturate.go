package mat

import (
	"math"
	"unsafe"
)

// SaturateCast rounds v half-to-even and clamps it to the representable
// range of d. Floating depths pass through (F32 narrows by conversion).
func SaturateCast(d Depth, v float64) float64 {
	switch d {
	case U8:
		return float64(satInt(v, 0, math.MaxUint8))
	case S8:
		return float64(satInt(v, math.MinInt8, math.MaxInt8))
	case U16:
		return float64(satInt(v, 0, math.MaxUint16))
	case S16:
		return float64(satInt(v, math.MinInt16, math.MaxInt16))
	case S32:
		return float64(satInt(v, math.MinInt32, math.MaxInt32))
	case F32:
		return float64(float32(v))
	default:
		return v
	}
}

func satInt(v float64, lo, hi int64) int64 {
	if math.IsNaN(v) {
		return 0
	}
	r := math.RoundToEven(v)
	if r <= float64(lo) {
		return lo
	}
	if r >= float64(hi) {
		return hi
	}
	return int64(r)
}

// load reads one scalar of depth d at the start of b in native byte order.
func load(b []byte, d Depth) float64 {
	_ = b[d.Size()-1]
	p := unsafe.Pointer(unsafe.SliceData(b))
	switch d {
	case U8:
		return float64(b[0])
	case S8:
		return float64(int8(b[0]))
	case U16:
		return float64(*(*uint16)(p))
	case S16:
		return float64(*(*int16)(p))
	case S32:
		return float64(*(*int32)(p))
	case F32:
		return float64(*(*float32)(p))
	default:
		return *(*float64)(p)
	}
}

// store writes v, saturated to d, at the start of b in native byte order.
func store(b []byte, d Depth, v float64) {
	_ = b[d.Size()-1]
	p := unsafe.Pointer(unsafe.SliceData(b))
	switch d {
	case U8:
		b[0] = uint8(satInt(v, 0, math.MaxUint8))
	case S8:
		*(*int8)(p) = int8(satInt(v, math.MinInt8, math.MaxInt8))
	case U16:
		*(*uint16)(p) = uint16(satInt(v, 0, math.MaxUint16))
	case S16:
		*(*int16)(p) = int16(satInt(v, math.MinInt16, math.MaxInt16))
	case S32:
		*(*int32)(p) = int32(satInt(v, math.MinInt32, math.MaxInt32))
	case F32:
		*(*float32)(p) = float32(v)
	default:
		*(*float64)(p) = v
	}
}
