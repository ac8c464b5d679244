package mat

import (
	"fmt"

	"github.com/wippyai/cvbridge/errors"
)

// Depth is the element kind of a single channel scalar.
type Depth int

const (
	U8 Depth = iota
	S8
	U16
	S16
	S32
	F32
	F64
)

const (
	depthMask    = 7
	channelShift = 3
	maxChannels  = 4
)

var depthNames = [...]string{"CV_8U", "CV_8S", "CV_16U", "CV_16S", "CV_32S", "CV_32F", "CV_64F"}

var depthSizes = [...]int{1, 1, 2, 2, 4, 4, 8}

// Valid reports whether d is one of the seven supported element kinds.
func (d Depth) Valid() bool {
	return d >= U8 && d <= F64
}

// Size returns the byte size of one scalar of this depth.
func (d Depth) Size() int {
	if !d.Valid() {
		return 0
	}
	return depthSizes[d]
}

// IsFloat reports whether the depth is F32 or F64.
func (d Depth) IsFloat() bool {
	return d == F32 || d == F64
}

func (d Depth) String() string {
	if !d.Valid() {
		return fmt.Sprintf("Depth(%d)", int(d))
	}
	return depthNames[d]
}

// TypeTag encodes a (depth, channels) pair as depth + (channels-1)<<3.
type TypeTag int

const (
	CV8UC1 TypeTag = TypeTag(U8) + iota<<channelShift
	CV8UC2
	CV8UC3
	CV8UC4
)

const (
	CV8SC1 TypeTag = TypeTag(S8) + iota<<channelShift
	CV8SC2
	CV8SC3
	CV8SC4
)

const (
	CV16UC1 TypeTag = TypeTag(U16) + iota<<channelShift
	CV16UC2
	CV16UC3
	CV16UC4
)

const (
	CV16SC1 TypeTag = TypeTag(S16) + iota<<channelShift
	CV16SC2
	CV16SC3
	CV16SC4
)

const (
	CV32SC1 TypeTag = TypeTag(S32) + iota<<channelShift
	CV32SC2
	CV32SC3
	CV32SC4
)

const (
	CV32FC1 TypeTag = TypeTag(F32) + iota<<channelShift
	CV32FC2
	CV32FC3
	CV32FC4
)

const (
	CV64FC1 TypeTag = TypeTag(F64) + iota<<channelShift
	CV64FC2
	CV64FC3
	CV64FC4
)

// Range sentinels of a 32-bit signed integer.
const (
	IntMin = -1 << 31
	IntMax = 1<<31 - 1
)

// MakeType encodes depth and channel count. The pair must come from the
// supported domain; use DecodeType to validate codes of unknown origin.
func MakeType(d Depth, channels int) TypeTag {
	return TypeTag(int(d&depthMask) + (channels-1)<<channelShift)
}

// DecodeType splits a type code into depth and channel count. Codes outside
// the published constant table are rejected.
func DecodeType(code int) (Depth, int, error) {
	t := TypeTag(code)
	if !t.Valid() {
		return 0, 0, errors.InvalidTypeCode(code)
	}
	return t.Depth(), t.Channels(), nil
}

// DepthOf extracts the depth bits from any type code or flags word without
// validating the remaining bits.
func DepthOf(flags int) Depth {
	return Depth(flags & depthMask)
}

// AllTypes returns every valid type code, ordered by depth then channels.
func AllTypes() []TypeTag {
	types := make([]TypeTag, 0, int(F64+1)*maxChannels)
	for d := U8; d <= F64; d++ {
		for cn := 1; cn <= maxChannels; cn++ {
			types = append(types, MakeType(d, cn))
		}
	}
	return types
}

// Valid reports whether t is one of the 28 published type codes.
func (t TypeTag) Valid() bool {
	return t >= 0 && t < TypeTag(maxChannels<<channelShift) && Depth(t&depthMask).Valid()
}

// Depth returns the element kind.
func (t TypeTag) Depth() Depth {
	return Depth(t & depthMask)
}

// Channels returns the channel count.
func (t TypeTag) Channels() int {
	return int(t>>channelShift) + 1
}

// ElemSize returns the byte size of one element (all channels).
func (t TypeTag) ElemSize() int {
	return t.Depth().Size() * t.Channels()
}

func (t TypeTag) String() string {
	if !t.Valid() {
		return fmt.Sprintf("TypeTag(%d)", int(t))
	}
	return fmt.Sprintf("%sC%d", t.Depth(), t.Channels())
}
