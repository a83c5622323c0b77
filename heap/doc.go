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

// Package heap implements a user-space allocator over a single
// fixed-size contiguous byte region.
//
// It keeps its own bookkeeping in-band: every block (Free or Used)
// starts with a fixed-size header, Free blocks end with a secret
// trailer pointing back at their own header, Free headers form an
// address-sorted intrusive list, and Used headers form a LIFO
// intrusive list. Allocation is next-fit with splitting; release
// coalesces with either, both, or neither address-adjacent neighbor.
//
// A Heap acquires its backing region once, at construction, and never
// touches the underlying allocator again until Close. It is
// single-threaded, non-reentrant, and must not be copied after first
// use.
package heap
