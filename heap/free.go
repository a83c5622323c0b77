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

// Free releases a block previously returned by Malloc, merging it
// with whichever address-adjacent neighbors are themselves Free
// (spec §4.3). Passing a pointer that was not returned by Malloc, or
// one already freed, is undefined behavior: it may panic, corrupt the
// region, or both.
func (h *Heap) Free(block []byte) {
	if len(block) == 0 {
		panic("heap: free of empty/nil slice")
	}
	u := headerOfPayload(unsafe.Pointer(&block[0]))
	if u.kind != kindUsed {
		panic("heap: free of non-Used or already-freed block")
	}

	h.removeUsed(u)

	above := h.aboveNeighbor(u)
	below := h.belowNeighbor(u)

	switch {
	case above == nil && below == nil:
		h.coalesceNone(u)
	case above == nil && below != nil:
		h.coalesceDown(u, below)
	case above != nil && below == nil:
		h.coalesceUp(u, above)
	default:
		h.coalesceBoth(u, above, below)
	}
}

// aboveNeighbor returns u's above (lower-address, toward top)
// neighbor if it exists and is Free, via the secret trailer living
// just before u's own header; nil if u sits at top or its above
// neighbor is Used.
func (h *Heap) aboveNeighbor(u *header) *header {
	if unsafe.Pointer(u) == h.top {
		return nil
	}
	if !u.aboveIsFree {
		return nil
	}
	return readSecretPtrAbove(u)
}

// belowNeighbor returns u's below (higher-address) neighbor if it
// exists and is Free; nil if u sits at the high end of the region or
// its below neighbor is Used.
func (h *Heap) belowNeighbor(u *header) *header {
	b := belowOf(h, u)
	if b == nil || b.kind != kindFree {
		return nil
	}
	return b
}

// coalesceNone (4.3.a): no free neighbor on either side. u becomes a
// standalone Free block, sorted back into the free list. If a block
// below u exists (necessarily Used, since belowNeighbor found none
// Free), its above_is_free flips to true.
func (h *Heap) coalesceNone(u *header) {
	rewriteAsFree(u, u.size)
	h.insertFreeSorted(u)
	h.statsAddFree(u.size)

	if below := belowOf(h, u); below != nil {
		below.aboveIsFree = true
	}
}

// coalesceDown (4.3.b): u has no Free neighbor above but does below.
// u absorbs below: u is rewritten in place as Free with
// size = below.size + H + u.size, splices into the free list at
// below's old position (preserving address order without a full
// re-sort), and free_head moves to u if below was previously head —
// the only way the list's lowest-address node can change here, since
// u's address is provably lower than below's.
func (h *Heap) coalesceDown(u *header, below *header) {
	prevB := freePrev(below)
	nextB := freeNext(below)
	belowSize := below.size

	newSize := u.size + uint32(headerSize) + belowSize
	rewriteAsFree(u, newSize)

	setFreeNext(u, nextB)
	setFreePrev(u, prevB)
	if prevB != nil {
		setFreeNext(prevB, u)
	}
	if nextB != nil {
		setFreePrev(nextB, u)
	}
	if prevB == nil {
		h.freeHead = u
	}
	if h.nextFit == below {
		h.nextFit = u
	}

	h.statsRemoveFree(belowSize)
	h.statsAddFree(u.size)

	if farBelow := belowOf(h, u); farBelow != nil {
		farBelow.aboveIsFree = true
	}
}

// coalesceUp (4.3.c): u has a Free neighbor above but none below.
// above absorbs u: above grows in place to
// size = above.size + H + u.size, its secret trailer is rewritten,
// and its list position is untouched — above's address hasn't moved,
// so its place in the address-sorted free list can't change.
//
// Stats are derived directly as the post-coalesce end state (spec §9
// open question), not by replaying a remove-then-add sequence: one
// free block grows, no block count changes.
func (h *Heap) coalesceUp(u *header, above *header) {
	oldAboveSize := above.size
	newSize := oldAboveSize + uint32(headerSize) + u.size
	above.size = newSize
	writeSecretPtr(above)

	h.stats.CurrFreeMem = h.stats.CurrFreeMem - oldAboveSize + newSize

	if below := belowOf(h, above); below != nil {
		below.aboveIsFree = true
	}
}

// coalesceBoth (4.3.d): u has Free neighbors on both sides. above
// absorbs both u and below in one step:
// size = above.size + H + u.size + H + below.size. below is
// unlinked from the free list and above is respliced into below's old
// position. above's own address is unchanged, so (unlike coalesceDown)
// free_head never needs to move here; next_fit is set to above
// unconditionally, matching the documented, tested cursor behavior
// for this case.
func (h *Heap) coalesceBoth(u *header, above *header, below *header) {
	// below has no Free block between it and above (they were u's
	// immediate physical neighbors), so in the address-sorted list
	// below's predecessor is always above: unlinking below never
	// touches free_head, and above's own next/prev links need no
	// change beyond skipping over the now-absorbed below.
	nextB := freeNext(below)
	belowSize := below.size
	oldAboveSize := above.size

	newSize := oldAboveSize + uint32(headerSize) + u.size + uint32(headerSize) + belowSize
	above.size = newSize
	writeSecretPtr(above)

	setFreeNext(above, nextB)
	if nextB != nil {
		setFreePrev(nextB, above)
	}
	h.nextFit = above

	h.stats.CurrFreeMem = h.stats.CurrFreeMem - oldAboveSize - belowSize + newSize
	h.stats.NumFreeBlocks--

	if farBelow := belowOf(h, above); farBelow != nil {
		farBelow.aboveIsFree = true
	}
}
