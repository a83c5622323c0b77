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

import "unsafe"

// minSplitRemainder is the smallest remainder worth carving off as its
// own Free block: it must hold a header plus a trailer-sized payload,
// otherwise the remainder could never itself be allocated or even
// safely store a secret trailer.
const minSplitRemainder = headerSize + ptrSize

// Malloc finds the first free block (by next-fit search) that can
// satisfy size bytes, splits off any sufficiently large remainder, and
// returns the payload as a []byte of exactly size bytes. It returns
// nil if no free block is large enough (spec §4.2).
//
// A remainder smaller than minSplitRemainder is not carved off: it is
// granted to the Used block instead of becoming a Free fragment too
// narrow to hold its own header and secret trailer (see useWhole, and
// DESIGN.md's "tiny-remainder split threshold" entry). The returned
// slice is still exactly size bytes long either way; only the Used
// block's own bookkeeping size absorbs the slack.
func (h *Heap) Malloc(size uint32) []byte {
	fit := h.findFit(size)
	if fit == nil {
		return nil
	}

	h.removeFree(fit)

	remainder := fit.size - size
	if remainder >= uint32(minSplitRemainder) {
		h.splitAndUse(fit, size, remainder)
	} else {
		h.useWhole(fit)
	}

	return unsafe.Slice((*byte)(payloadOf(fit)), int(size))
}

// useWhole converts fit, unchanged in size, into a Used block. Its
// own above_is_free bit is untouched (the neighbor toward top hasn't
// moved); the block below it, if any, currently has above_is_free
// true and must flip to false now that fit is no longer Free.
//
// fit.size keeps its pre-allocation value even when it exceeds the
// caller's requested size: that only happens for a remainder too
// small to ever become its own Free block (below minSplitRemainder),
// and those leftover bytes have nowhere else to go — there's no
// block left to own them. The trailing slack is unreachable through
// the slice Malloc returns; it surfaces again, as ordinary payload,
// the next time this block is freed and re-split by some later
// allocation.
func (h *Heap) useWhole(fit *header) {
	rewriteAsUsed(fit, fit.size)
	h.insertUsed(fit)
	if below := belowOf(h, fit); below != nil {
		below.aboveIsFree = false
	}
}

// splitAndUse carves a new Free header out of the high end of fit's
// payload, sized to hold `remainder` bytes, and converts the low part
// into a Used block of exactly `size` bytes (spec §4.2 "split").
//
// fit's own above_is_free is untouched (its above neighbor hasn't
// moved). newFree's above_is_free is false (its above neighbor is now
// the Used fit). The block below newFree, if any, must flip its
// above_is_free to true.
func (h *Heap) splitAndUse(fit *header, size, remainder uint32) {
	newFreeAddr := unsafe.Add(payloadOf(fit), int(size))
	newFreeSize := remainder - uint32(headerSize)

	rewriteAsUsed(fit, size)
	h.insertUsed(fit)

	newFree := placeFree(newFreeAddr, newFreeSize, false)
	h.insertFreeSorted(newFree)
	h.statsAddFree(newFree.size)
	h.nextFit = newFree

	if below := belowOf(h, newFree); below != nil {
		below.aboveIsFree = true
	}
}

// belowOf returns the header of the block immediately below b — the
// one at the next-higher address, discovered by walking past b's own
// header and payload — or nil if b sits at the high end of the
// region (spec §2: "below" is the higher-address neighbor, "bottom"
// the region's high bound).
func belowOf(h *Heap, b *header) *header {
	addr := unsafe.Add(unsafe.Pointer(b), int(headerSize)+int(b.size))
	if uintptr(addr) >= uintptr(h.bottom) {
		return nil
	}
	return (*header)(addr)
}
