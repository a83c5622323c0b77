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

// The free list is address-sorted and doubly linked through the
// header's next/prev fields, reinterpreted as free-list links while
// h.kind == kindFree.

func freeNext(h *header) *header { return (*header)(h.next) }
func freePrev(h *header) *header { return (*header)(h.prev) }

func setFreeNext(h *header, v *header) { h.next = unsafe.Pointer(v) }
func setFreePrev(h *header, v *header) { h.prev = unsafe.Pointer(v) }

func addrLess(a, b *header) bool {
	return uintptr(unsafe.Pointer(a)) < uintptr(unsafe.Pointer(b))
}

// insertFreeSorted splices b into the free list keeping address order,
// and becomes (or stays clear of) freeHead accordingly.
func (h *Heap) insertFreeSorted(b *header) {
	if h.freeHead == nil {
		setFreeNext(b, nil)
		setFreePrev(b, nil)
		h.freeHead = b
		return
	}
	if addrLess(b, h.freeHead) {
		setFreeNext(b, h.freeHead)
		setFreePrev(b, nil)
		setFreePrev(h.freeHead, b)
		h.freeHead = b
		return
	}
	cur := h.freeHead
	for freeNext(cur) != nil && addrLess(freeNext(cur), b) {
		cur = freeNext(cur)
	}
	nxt := freeNext(cur)
	setFreeNext(b, nxt)
	setFreePrev(b, cur)
	setFreeNext(cur, b)
	if nxt != nil {
		setFreePrev(nxt, b)
	}
}

// removeFree unlinks b from the free list and fixes up freeHead and
// the next-fit cursor. The cursor is reassigned unconditionally
// whenever it pointed at b, regardless of whether b was the list's
// sole node — the source only did this for the singleton case, which
// could leave nextFit dangling after removing a non-singleton node
// that happened to be the cursor.
func (h *Heap) removeFree(b *header) {
	prev := freePrev(b)
	next := freeNext(b)

	if prev != nil {
		setFreeNext(prev, next)
	} else {
		h.freeHead = next
	}
	if next != nil {
		setFreePrev(next, prev)
	}

	if h.nextFit == b {
		switch {
		case next != nil:
			h.nextFit = next
		case h.freeHead != nil:
			h.nextFit = h.freeHead
		default:
			h.nextFit = nil
		}
	}

	setFreeNext(b, nil)
	setFreePrev(b, nil)
	h.statsRemoveFree(b.size)
}

// findFit runs the next-fit search starting from the cursor, wrapping
// once around the list, and returns the first Free block whose
// payload is large enough to satisfy size, or nil if none fits.
// On success the cursor is advanced to that block's free-list
// successor (wrapping to freeHead), matching spec §4.2's "search
// resumes, on the *next* call, from the block after wherever it was
// last satisfied".
func (h *Heap) findFit(size uint32) *header {
	if h.freeHead == nil {
		return nil
	}
	start := h.nextFit
	if start == nil {
		start = h.freeHead
	}

	cur := start
	for first := true; first || cur != start; first = false {
		if cur.size >= size {
			if freeNext(cur) != nil {
				h.nextFit = freeNext(cur)
			} else {
				h.nextFit = h.freeHead
			}
			return cur
		}
		cur = freeNext(cur)
		if cur == nil {
			cur = h.freeHead
		}
	}
	return nil
}
