// Copyright 2025 The Nucleus Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package hostarch

import "fmt"

// Addr represents a virtual address in a process address space.
type Addr uintptr

// PhysAddr represents a physical address, i.e. the location of a page frame
// handed out by the physical memory manager.
type PhysAddr uintptr

// AddLength returns v + length. ok is false on overflow.
func (v Addr) AddLength(length uintptr) (end Addr, ok bool) {
	end = v + Addr(length)
	ok = end >= v
	return
}

// RoundDown returns the address rounded down to the nearest page boundary.
func (v Addr) RoundDown() Addr {
	return v &^ PageMask
}

// RoundUp returns the address rounded up to the nearest page boundary. ok is
// false if rounding up overflows.
func (v Addr) RoundUp() (addr Addr, ok bool) {
	addr = (v + PageMask) &^ PageMask
	ok = addr >= v
	return
}

// PageOffset returns the offset of v into its containing page.
func (v Addr) PageOffset() uintptr {
	return uintptr(v & PageMask)
}

// IsPageAligned returns true if v is aligned to the page size.
func (v Addr) IsPageAligned() bool {
	return v.PageOffset() == 0
}

// AddrRange is the virtual address range [Start, End).
type AddrRange struct {
	Start Addr
	End   Addr
}

// WellFormed returns true if ar.Start <= ar.End.
func (ar AddrRange) WellFormed() bool {
	return ar.Start <= ar.End
}

// Length returns the length of the range.
func (ar AddrRange) Length() uintptr {
	return uintptr(ar.End - ar.Start)
}

// Contains returns true if a lies within ar.
func (ar AddrRange) Contains(a Addr) bool {
	return ar.Start <= a && a < ar.End
}

// Overlaps returns true if ar and other share at least one address.
func (ar AddrRange) Overlaps(other AddrRange) bool {
	return ar.Start < other.End && other.Start < ar.End
}

// IsSupersetOf returns true if ar fully contains other.
func (ar AddrRange) IsSupersetOf(other AddrRange) bool {
	return ar.Start <= other.Start && other.End <= ar.End
}

// String implements fmt.Stringer.String.
func (ar AddrRange) String() string {
	return fmt.Sprintf("[%#x, %#x)", uintptr(ar.Start), uintptr(ar.End))
}
