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

// Command uheapdump builds a heap, runs a small fixed alloc/free
// script against it, and dumps the resulting region layout to stdout.
// It exists to exercise Dump/GetHeap from outside the test suite, not
// as a general-purpose tool.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/alxndraflo/uheap/heap"
)

func main() {
	size := flag.Uint("size", heap.DefaultHeapSize, "region size in bytes")
	flag.Parse()

	h, err := heap.NewHeap(uint32(*size))
	if err != nil {
		fmt.Fprintln(os.Stderr, "uheapdump:", err)
		os.Exit(1)
	}
	defer h.Close()

	a := h.Malloc(100)
	b := h.Malloc(200)
	c := h.Malloc(300)
	if a == nil || b == nil || c == nil {
		fmt.Fprintln(os.Stderr, "uheapdump: region too small for the demo script")
		os.Exit(1)
	}
	h.Free(b)

	if err := h.Dump(os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "uheapdump:", err)
		os.Exit(1)
	}
}
