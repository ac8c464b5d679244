// Package extmem exposes memory the bridge does not own as borrowed Mats.
//
// A Heap resolves (offset, length) pairs into byte windows. Two heaps are
// provided: WasmHeap over a wazero guest's linear memory, and MappedFile over
// a memory-mapped file. MatAt builds a borrowed Mat from a heap window:
//
//	heap := extmem.NewWasmHeap(mod.Memory())
//	m, err := extmem.MatAt(heap, ptr, rows, cols, mat.CV8UC4, mat.AutoStep)
//
// Borrowed Mats alias the heap. Writes through the Mat are visible to the
// guest (or the file) and vice versa. The Mat never frees or grows the
// region, and the caller keeps the region alive for as long as the Mat and
// its views are used. Growing wasm memory may move the backing buffer;
// Mats created before the growth keep pointing at the old one.
package extmem
