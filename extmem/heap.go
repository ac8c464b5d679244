package extmem

import (
	"fmt"

	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	"github.com/wippyai/cvbridge/errors"
	"github.com/wippyai/cvbridge/mat"
)

// Heap resolves host offsets to byte windows of externally owned memory.
type Heap interface {
	// Read returns a window of length bytes starting at offset.
	// The window aliases the heap; it is not a copy.
	Read(offset, length uint32) ([]byte, error)

	// Size returns the current heap size in bytes.
	Size() uint32
}

// WasmHeap resolves offsets in a wazero module's linear memory.
type WasmHeap struct {
	mem api.Memory
}

// NewWasmHeap wraps a guest memory.
func NewWasmHeap(mem api.Memory) *WasmHeap {
	return &WasmHeap{mem: mem}
}

func (h *WasmHeap) Read(offset, length uint32) ([]byte, error) {
	if h.mem == nil {
		return nil, errors.NotInitialized(errors.PhaseHost, "wasm memory")
	}
	data, ok := h.mem.Read(offset, length)
	if !ok {
		return nil, errors.New(errors.PhaseHost, errors.KindOutOfBounds).
			Path("heap").
			Detail("read out of bounds: offset=%d, length=%d, size=%d", offset, length, h.mem.Size()).
			Build()
	}
	return data, nil
}

func (h *WasmHeap) Size() uint32 {
	if h.mem == nil {
		return 0
	}
	return h.mem.Size()
}

// MatAt builds a borrowed rows×cols Mat over heap memory starting at offset.
// step is the row stride in bytes; mat.AutoStep means tightly packed rows.
func MatAt(h Heap, offset uint32, rows, cols int, typ mat.TypeTag, step int) (*mat.Mat, error) {
	if h == nil {
		return nil, errors.NotInitialized(errors.PhaseHost, "heap")
	}
	if !typ.Valid() {
		return nil, errors.InvalidTypeCode(int(typ))
	}
	if rows <= 0 || cols <= 0 {
		return nil, errors.InvalidInput(errors.PhaseHost, fmt.Sprintf("extents %dx%d must be positive", rows, cols))
	}

	rowBytes := cols * typ.ElemSize()
	if step == mat.AutoStep {
		step = rowBytes
	}
	if step < rowBytes {
		return nil, errors.InvalidInput(errors.PhaseHost, fmt.Sprintf("step %d shorter than row of %d bytes", step, rowBytes))
	}

	need := uint64(rows-1)*uint64(step) + uint64(rowBytes)
	if need > uint64(h.Size()) {
		return nil, errors.ShortBuffer(errors.PhaseHost, []string{"heap"}, int(need), int(h.Size()))
	}

	buf, err := h.Read(offset, uint32(need))
	if err != nil {
		return nil, err
	}

	m, err := mat.NewBorrowed(buf, rows, cols, typ, step)
	if err != nil {
		return nil, err
	}

	Logger().Debug("borrowed mat",
		zap.Uint32("offset", offset),
		zap.Stringer("mat", m),
		zap.Int("step", step),
	)
	return m, nil
}
