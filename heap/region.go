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
	"unsafe"

	"github.com/bytedance/gopkg/lang/mcache"
)

// DefaultHeapSize is spec §1's HEAP_SIZE: 50 KiB.
const DefaultHeapSize = 50 * 1024

// minHeapSize is the smallest region that can hold one header plus a
// trailer-sized payload — below this a region can never satisfy even
// a zero-byte allocation.
const minHeapSize = headerSize + ptrSize

// Heap is a single fixed-size user-space region plus the bookkeeping
// described in spec §3: an address-sorted free list, a LIFO used
// list, a next-fit cursor, and running stats. It acquires its backing
// arena exactly once, at construction, and must not be copied
// thereafter.
type Heap struct {
	_ noCopy

	arena  []byte
	owned  bool // true if arena came from mcache and Close must return it
	top    unsafe.Pointer // lowest address in the region (spec §2)
	bottom unsafe.Pointer // one past the highest address in the region

	freeHead *header
	usedHead *header
	nextFit  *header

	stats Stats
}

// NewHeap acquires a fresh size-byte region via mcache (the allocator's
// one and only call into the underlying OS allocator, per spec §1) and
// initializes it as a single Free block.
func NewHeap(size uint32) (*Heap, error) {
	if size < uint32(minHeapSize) {
		return nil, fmt.Errorf("heap: size %d too small, need at least %d", size, minHeapSize)
	}
	arena := mcache.Malloc(0, int(size))
	arena = arena[:size]
	h, err := newHeap(arena)
	if err != nil {
		mcache.Free(arena)
		return nil, err
	}
	h.owned = true
	return h, nil
}

// NewHeapWithArena initializes a Heap over a caller-supplied region
// instead of acquiring one from mcache. Close will not return this
// memory anywhere; the caller retains ownership.
func NewHeapWithArena(arena []byte) (*Heap, error) {
	return newHeap(arena)
}

func newHeap(arena []byte) (*Heap, error) {
	if len(arena) < minHeapSize {
		return nil, fmt.Errorf("heap: arena of %d bytes too small, need at least %d", len(arena), minHeapSize)
	}
	h := &Heap{arena: arena}
	h.top = unsafe.Pointer(&arena[0])
	h.bottom = unsafe.Add(h.top, len(arena))
	h.Initialize()
	return h, nil
}

// Initialize resets the region to the post-construction state: one
// Free block spanning the whole region, no Used blocks, fresh stats
// (spec §4.1). NewHeap and NewHeapWithArena already call this; it is
// exposed so a caller can wipe a heap and start over without
// reacquiring the backing arena.
func (h *Heap) Initialize() {
	size := uint32(uintptr(h.bottom) - uintptr(h.top))
	b := placeFree(h.top, size-uint32(headerSize), false)
	h.freeHead = b
	h.usedHead = nil
	h.nextFit = b
	h.stats = Stats{}
	h.statsAddFree(b.size)
}

// Close releases the backing arena back to mcache if this Heap
// acquired it via NewHeap. Calling Close on a Heap built with
// NewHeapWithArena is a no-op beyond clearing the reference.
func (h *Heap) Close() error {
	if h.owned {
		mcache.Free(h.arena)
	}
	h.arena = nil
	h.top = nil
	h.bottom = nil
	h.freeHead = nil
	h.usedHead = nil
	h.nextFit = nil
	return nil
}
