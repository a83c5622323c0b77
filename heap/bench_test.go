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

import "testing"

func BenchmarkMallocFreeSameSize(b *testing.B) {
	h, err := NewHeap(DefaultHeapSize)
	if err != nil {
		b.Fatal(err)
	}
	defer h.Close()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		p := h.Malloc(64)
		if p == nil {
			b.Fatal("unexpected exhaustion")
		}
		h.Free(p)
	}
}

func BenchmarkMallocVaryingSizes(b *testing.B) {
	h, err := NewHeap(DefaultHeapSize)
	if err != nil {
		b.Fatal(err)
	}
	defer h.Close()

	sizes := []uint32{16, 32, 64, 128, 256}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		p := h.Malloc(sizes[i%len(sizes)])
		if p == nil {
			b.Fatal("unexpected exhaustion")
		}
		h.Free(p)
	}
}

func BenchmarkCoalescing(b *testing.B) {
	h, err := NewHeap(DefaultHeapSize)
	if err != nil {
		b.Fatal(err)
	}
	defer h.Close()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		p1 := h.Malloc(64)
		p2 := h.Malloc(64)
		p3 := h.Malloc(64)
		h.Free(p2)
		h.Free(p1)
		h.Free(p3)
	}
}
