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

// ptrSize is the width of a SecretPtr slot. The source used a 4-byte
// field (32-bit pointers); ported to a 64-bit target this must widen
// to a full pointer, so the trailer is sized accordingly.
const ptrSize = int(unsafe.Sizeof(uintptr(0)))

// trailerAddr returns the address of h's secret trailer: the last
// ptrSize bytes of its payload.
func trailerAddr(h *header) unsafe.Pointer {
	end := unsafe.Add(payloadOf(h), int(h.size))
	return unsafe.Add(end, -ptrSize)
}

// writeSecretPtr stamps h's own address into its trailer. Must only
// be called for Free headers; Used blocks have no trailer and it is
// never read for them.
func writeSecretPtr(h *header) {
	*(*unsafe.Pointer)(trailerAddr(h)) = unsafe.Pointer(h)
}

// readSecretPtrAbove returns the Free header immediately above
// `below` in address order, by reading the trailer that sits in the
// ptrSize bytes just before below's own header. The caller must
// already know below.aboveIsFree is true and below is not at top.
func readSecretPtrAbove(below *header) *header {
	addr := unsafe.Add(unsafe.Pointer(below), -ptrSize)
	return (*header)(*(*unsafe.Pointer)(addr))
}
