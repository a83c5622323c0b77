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

import "fmt"

func Example() {
	h, _ := NewHeap(DefaultHeapSize)
	defer h.Close()

	a := h.Malloc(64)
	b := h.Malloc(128)
	h.Free(a)

	s := h.GetHeap()
	fmt.Printf("len(b)=%d used_blocks=%d free_blocks=%d\n", len(b), s.NumUsedBlocks, s.NumFreeBlocks)

	// Output:
	// len(b)=128 used_blocks=1 free_blocks=2
}
