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
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHeap(t *testing.T, size uint32) *Heap {
	t.Helper()
	h, err := NewHeap(size)
	require.NoError(t, err)
	t.Cleanup(func() { _ = h.Close() })
	return h
}

// checkInvariants walks the free list and the region and asserts
// invariants 1-6, 8 and 9 of spec §3 hold. The secret trailer
// (invariant 7) is not checked here.
func checkInvariants(t *testing.T, h *Heap) {
	t.Helper()

	seen := make(map[*header]bool)

	// Invariant 3 & 4: free-list address order, free_head lowest.
	var freeSum, freeCount uint32
	var prevFree *header
	for cur := h.freeHead; cur != nil; cur = freeNext(cur) {
		assert.Equal(t, kindFree, cur.kind, "free list contains a non-Free header")
		if prevFree != nil {
			assert.True(t, addrLess(prevFree, cur), "free list not address-sorted")
		}
		seen[cur] = true
		freeSum += cur.size
		freeCount++
		prevFree = cur
	}
	if h.freeHead != nil {
		for cur := (*header)(h.top); uintptr(unsafe.Pointer(cur)) < uintptr(h.bottom); {
			if cur.kind == kindFree {
				assert.Same(t, h.freeHead, cur, "free_head is not the lowest-addressed free header")
				break
			}
			nxt := belowOf(h, cur)
			if nxt == nil {
				break
			}
			cur = nxt
		}
	}

	// Invariant 8: cursor validity.
	if h.nextFit != nil {
		assert.True(t, seen[h.nextFit], "next_fit does not point at a current free header")
	}

	// Invariant 1, 2, 5, 6: walk the whole region in address order.
	var usedSum uint32
	var usedCount uint32
	var lastKind kind
	first := true
	cur := (*header)(h.top)
	for uintptr(unsafe.Pointer(cur)) < uintptr(h.bottom) {
		if !first {
			assert.False(t, lastKind == kindFree && cur.kind == kindFree,
				"two adjacent Free blocks found (invariant 5 violated)")
			assert.Equal(t, lastKind == kindFree, cur.aboveIsFree,
				"above_is_free disagrees with actual predecessor kind (invariant 6)")
		} else {
			assert.False(t, cur.aboveIsFree, "block at top must have above_is_free == false")
		}
		if cur.kind == kindFree {
			assert.True(t, seen[cur], "a Free block in the region is not reachable from free_head (invariant 2)")
		} else {
			usedSum += cur.size
			usedCount++
		}
		lastKind = cur.kind
		first = false
		nxt := belowOf(h, cur)
		if nxt == nil {
			break
		}
		cur = nxt
	}

	// Invariant 9: statistics agreement.
	assert.Equal(t, freeSum, h.stats.CurrFreeMem, "curr_free_mem disagrees with list walk")
	assert.Equal(t, freeCount, h.stats.NumFreeBlocks, "curr_num_free_blocks disagrees with list walk")
	assert.Equal(t, usedSum, h.stats.CurrUsedMem, "curr_used_mem disagrees with list walk")
	assert.Equal(t, usedCount, h.stats.NumUsedBlocks, "curr_num_used_blocks disagrees with list walk")
}

func TestNewHeapRejectsUndersizedRegion(t *testing.T) {
	_, err := NewHeap(4)
	assert.Error(t, err)
}

func TestNewHeapWithArenaRejectsUndersizedRegion(t *testing.T) {
	_, err := NewHeapWithArena(make([]byte, 4))
	assert.Error(t, err)
}

func TestInitializeSingleFreeBlock(t *testing.T) {
	h := newTestHeap(t, DefaultHeapSize)

	require.NotNil(t, h.freeHead)
	assert.Nil(t, h.usedHead)
	assert.Same(t, h.freeHead, h.nextFit)
	assert.Equal(t, uint32(DefaultHeapSize-headerSize), h.freeHead.size)
	checkInvariants(t, h)
}

func TestNewHeapWithArenaDoesNotOwnMemory(t *testing.T) {
	arena := make([]byte, DefaultHeapSize)
	h, err := NewHeapWithArena(arena)
	require.NoError(t, err)
	assert.False(t, h.owned)
	require.NoError(t, h.Close())
}
