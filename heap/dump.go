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

import (
	"fmt"
	"io"
	"unsafe"
)

// Dump writes a human-readable walk of the region to w: one line per
// block in address order (offset from top, kind, payload size,
// above_is_free), followed by a stats summary. It is an external
// diagnostic only — nothing in Malloc/Free ever calls it.
func (h *Heap) Dump(w io.Writer) error {
	cur := (*header)(h.top)
	for uintptr(unsafe.Pointer(cur)) < uintptr(h.bottom) {
		offset := uintptr(unsafe.Pointer(cur)) - uintptr(h.top)
		if _, err := fmt.Fprintf(w, "%08x %-4s size=%-8d above_is_free=%v\n",
			offset, cur.kind, cur.size, cur.aboveIsFree); err != nil {
			return err
		}
		nxt := belowOf(h, cur)
		if nxt == nil {
			break
		}
		cur = nxt
	}

	s := h.GetHeap()
	_, err := fmt.Fprintf(w,
		"--- top=%08x bottom=%08x curr_free=%d curr_used=%d free_blocks=%d used_blocks=%d peak_used=%d allocs=%d frees=%d\n",
		s.Top, s.Bottom, s.CurrFreeMem, s.CurrUsedMem, s.NumFreeBlocks, s.NumUsedBlocks,
		s.PeakUsedMem, s.TotalAllocCalls, s.TotalFreeCalls)
	return err
}
