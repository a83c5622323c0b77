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

// The used list is LIFO and doubly linked through the header's
// next/prev fields, reinterpreted as used-list links while
// h.kind == kindUsed. Address order plays no role here.

func usedNext(h *header) *header { return (*header)(h.next) }
func usedPrev(h *header) *header { return (*header)(h.prev) }

func setUsedNext(h *header, v *header) { h.next = unsafe.Pointer(v) }
func setUsedPrev(h *header, v *header) { h.prev = unsafe.Pointer(v) }

// insertUsed pushes b onto the front of the used list.
func (h *Heap) insertUsed(b *header) {
	setUsedPrev(b, nil)
	setUsedNext(b, h.usedHead)
	if h.usedHead != nil {
		setUsedPrev(h.usedHead, b)
	}
	h.usedHead = b
	h.statsAddUsed(b.size)
}

// removeUsed unlinks b from the used list.
func (h *Heap) removeUsed(b *header) {
	prev := usedPrev(b)
	next := usedNext(b)

	if prev != nil {
		setUsedNext(prev, next)
	} else {
		h.usedHead = next
	}
	if next != nil {
		setUsedPrev(next, prev)
	}

	setUsedNext(b, nil)
	setUsedPrev(b, nil)
	h.statsRemoveUsed(b.size)
}
