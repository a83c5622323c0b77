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

// kind tags which of the two block variants a header currently is.
type kind uint8

const (
	kindFree kind = iota
	kindUsed
)

func (k kind) String() string {
	if k == kindFree {
		return "free"
	}
	return "used"
}

// headerSize is H: the fixed size, in bytes, of every block header.
const headerSize = int(unsafe.Sizeof(header{}))

// header is the single physical layout shared by Free and Used
// blocks: they differ only in which list's links `next`/`prev`
// participate in and in the `kind` tag, never in memory shape. A
// header can therefore be safely reinterpreted between the two
// variants in place (spec: "self-referential header rewriting").
type header struct {
	next        unsafe.Pointer // list link (free-list or used-list, per kind)
	prev        unsafe.Pointer // list link (free-list or used-list, per kind)
	size        uint32         // payload bytes, excluding header; a Free block's trailer is its last ptrSize bytes
	kind        kind
	aboveIsFree bool
	_           [2]byte // reserved
}

// payloadOf returns the address immediately following h's header.
func payloadOf(h *header) unsafe.Pointer {
	return unsafe.Add(unsafe.Pointer(h), headerSize)
}

// headerOfPayload recovers a header pointer from its payload address.
func headerOfPayload(p unsafe.Pointer) *header {
	return (*header)(unsafe.Add(p, -headerSize))
}

// placeFree placement-constructs a brand new Free header at addr: a
// block not previously part of either list. Used by Initialize and by
// the new remainder block a split creates.
func placeFree(addr unsafe.Pointer, size uint32, aboveIsFree bool) *header {
	h := (*header)(addr)
	h.next = nil
	h.prev = nil
	h.size = size
	h.kind = kindFree
	h.aboveIsFree = aboveIsFree
	writeSecretPtr(h)
	return h
}

// rewriteAsUsed reinterprets an existing Free header's bytes as a
// Used header of the given size in place, preserving aboveIsFree (it
// lives at the same offset in both variants). The caller is
// responsible for the list transplant (removeFree + insertUsed).
func rewriteAsUsed(h *header, size uint32) {
	h.kind = kindUsed
	h.size = size
}

// rewriteAsFree is rewriteAsUsed's mirror: reinterprets a Used
// header's bytes as Free and writes its trailer. The caller is
// responsible for the list transplant (removeUsed + insertFreeSorted).
func rewriteAsFree(h *header, size uint32) {
	h.kind = kindFree
	h.size = size
	writeSecretPtr(h)
}
