/*
 * Copyright 2024 CloudWeGo Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package heap

// Stats mirrors spec §6's statistics schema: the counters a dumper
// reads, never the live list pointers themselves. Top and Bottom are
// the region bounds spec §6 lists alongside the counters, reported as
// offsets from the region's own top — the same offset-from-top idiom
// Dump uses for each block line — rather than raw addresses, so a
// snapshot never leaks an absolute process address to a caller.
type Stats struct {
	Top               uintptr
	Bottom            uintptr
	CurrFreeMem       uint32
	CurrUsedMem       uint32
	NumFreeBlocks     uint32
	NumUsedBlocks     uint32
	PeakUsedMem       uint32
	PeakNumUsedBlocks uint32
	TotalAllocCalls   uint64
	TotalFreeCalls    uint64
}

func (h *Heap) statsAddFree(size uint32) {
	h.stats.CurrFreeMem += size
	h.stats.NumFreeBlocks++
}

func (h *Heap) statsRemoveFree(size uint32) {
	h.stats.CurrFreeMem -= size
	h.stats.NumFreeBlocks--
}

func (h *Heap) statsAddUsed(size uint32) {
	h.stats.CurrUsedMem += size
	h.stats.NumUsedBlocks++
	h.stats.TotalAllocCalls++
	if h.stats.CurrUsedMem > h.stats.PeakUsedMem {
		h.stats.PeakUsedMem = h.stats.CurrUsedMem
	}
	if h.stats.NumUsedBlocks > h.stats.PeakNumUsedBlocks {
		h.stats.PeakNumUsedBlocks = h.stats.NumUsedBlocks
	}
}

func (h *Heap) statsRemoveUsed(size uint32) {
	h.stats.CurrUsedMem -= size
	h.stats.NumUsedBlocks--
	h.stats.TotalFreeCalls++
}

// GetHeap returns a snapshot of the heap's live statistics (spec §6's
// get_heap()), including the region bounds as offsets from top. It is
// a copy, not a pointer into the live descriptor, so callers cannot
// mutate allocator state through it.
func (h *Heap) GetHeap() Stats {
	s := h.stats
	s.Top = 0
	s.Bottom = uintptr(h.bottom) - uintptr(h.top)
	return s
}
