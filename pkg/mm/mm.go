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

// Package mm implements per-process address spaces.
//
// An AddressSpace is exclusively owned by the task running the process it
// describes, so nothing in this package locks; shared structures (the kernel
// address space it copies from, the MemoryFile backing it) are mutated only
// on the spawn path, before the owning task starts.
package mm

import (
	"errors"
	"fmt"
	"sort"

	"nucleus.dev/nucleus/pkg/hostarch"
	"nucleus.dev/nucleus/pkg/pgalloc"
)

var (
	// ErrAllocation is returned when an address space or its page-table
	// structures cannot be created.
	ErrAllocation = errors.New("address space allocation failed")

	// ErrMapping is returned by Map for overlapping regions, misaligned
	// geometry or backing exhaustion. A failed Map leaves the address
	// space unchanged.
	ErrMapping = errors.New("mapping failed")

	// ErrNotMapped is returned by Translate for an unmapped address. On
	// the load path this indicates a programming error: Translate is only
	// called immediately after a successful Map of the same address.
	ErrNotMapped = errors.New("address not mapped")
)

// Region is one mapped virtual range and its permissions.
type Region struct {
	AR     hostarch.AddrRange
	Access hostarch.AccessType

	// Kernel marks a region copied from the kernel address space. Kernel
	// regions alias the kernel's physical frames and are not owned by
	// this address space.
	Kernel bool
}

// String implements fmt.Stringer.String.
func (r Region) String() string {
	return fmt.Sprintf("%s %s", r.AR, r.Access)
}

// translation is one page-table entry.
type translation struct {
	pa hostarch.PhysAddr
	at hostarch.AccessType
}

// AddressSpace is the virtual memory universe of one process: a virtual
// range, the set of mapped regions within it, and the page table resolving
// mapped pages to physical frames.
type AddressSpace struct {
	ar      hostarch.AddrRange
	mf      *pgalloc.MemoryFile
	regions []Region // sorted by AR.Start, non-overlapping

	// pt is the root page-table reference: one entry per mapped page.
	pt map[hostarch.Addr]translation
}

// NewAddressSpace returns an empty address space spanning
// [base, base+size), drawing physical backing from mf.
func NewAddressSpace(base hostarch.Addr, size uintptr, mf *pgalloc.MemoryFile) (*AddressSpace, error) {
	if mf == nil {
		return nil, fmt.Errorf("%w: no memory file", ErrAllocation)
	}
	if !base.IsPageAligned() || size == 0 || size&hostarch.PageMask != 0 {
		return nil, fmt.Errorf("%w: misaligned range base %#x size %#x", ErrAllocation, uintptr(base), size)
	}
	end, ok := base.AddLength(size)
	if !ok {
		return nil, fmt.Errorf("%w: range overflows at base %#x size %#x", ErrAllocation, uintptr(base), size)
	}
	return &AddressSpace{
		ar: hostarch.AddrRange{Start: base, End: end},
		mf: mf,
		pt: make(map[hostarch.Addr]translation),
	}, nil
}

// Range returns the virtual range spanned by the address space.
func (as *AddressSpace) Range() hostarch.AddrRange {
	return as.ar
}

// MemoryFile returns the physical memory manager backing this space.
func (as *AddressSpace) MemoryFile() *pgalloc.MemoryFile {
	return as.mf
}

// Regions returns a snapshot of the mapped regions, ordered by start
// address.
func (as *AddressSpace) Regions() []Region {
	return append([]Region(nil), as.regions...)
}

// CopyKernelMappings inserts the kernel's mappings from k into as, so that
// kernel code and data stay resolvable while this process's traps are being
// handled. The copied entries alias the kernel's physical frames and never
// carry user access, whatever k says. Kernel regions live outside the user
// range and are exempt from its containment invariant.
func (as *AddressSpace) CopyKernelMappings(k *AddressSpace) error {
	for _, r := range k.regions {
		if as.overlapsExisting(r.AR) {
			return fmt.Errorf("%w: kernel region %s overlaps existing mapping", ErrMapping, r.AR)
		}
	}
	for _, r := range k.regions {
		at := r.Access
		at.User = false
		as.insertRegion(Region{AR: r.AR, Access: at, Kernel: true})
		for va := r.AR.Start; va < r.AR.End; va += hostarch.PageSize {
			t := k.pt[va]
			t.at.User = false
			as.pt[va] = t
		}
	}
	return nil
}

// Map installs one region of freshly allocated zeroed frames at
// [vaddr, vaddr+size) with the given access. A failed Map leaves no partial
// region: frames are allocated before anything is committed, and returned to
// the allocator if allocation stops short.
func (as *AddressSpace) Map(vaddr hostarch.Addr, size uintptr, at hostarch.AccessType) error {
	if !vaddr.IsPageAligned() || size == 0 || size&hostarch.PageMask != 0 {
		return fmt.Errorf("%w: misaligned region vaddr %#x size %#x", ErrMapping, uintptr(vaddr), size)
	}
	end, ok := vaddr.AddLength(size)
	if !ok {
		return fmt.Errorf("%w: region overflows at vaddr %#x size %#x", ErrMapping, uintptr(vaddr), size)
	}
	ar := hostarch.AddrRange{Start: vaddr, End: end}
	if !as.ar.IsSupersetOf(ar) {
		return fmt.Errorf("%w: region %s outside address space %s", ErrMapping, ar, as.ar)
	}
	if as.overlapsExisting(ar) {
		return fmt.Errorf("%w: region %s overlaps existing mapping", ErrMapping, ar)
	}

	frames := make([]hostarch.PhysAddr, 0, size>>hostarch.PageShift)
	for i := uintptr(0); i < size; i += hostarch.PageSize {
		pa, err := as.mf.Allocate()
		if err != nil {
			for _, fpa := range frames {
				as.mf.Deallocate(fpa)
			}
			return fmt.Errorf("%w: allocating backing for %s: %v", ErrMapping, ar, err)
		}
		frames = append(frames, pa)
	}

	as.insertRegion(Region{AR: ar, Access: at})
	for i, pa := range frames {
		as.pt[vaddr+hostarch.Addr(i*hostarch.PageSize)] = translation{pa: pa, at: at}
	}
	return nil
}

// Translate resolves a mapped virtual address to its physical address.
func (as *AddressSpace) Translate(vaddr hostarch.Addr) (hostarch.PhysAddr, error) {
	t, ok := as.pt[vaddr.RoundDown()]
	if !ok {
		return 0, fmt.Errorf("%w: %#x", ErrNotMapped, uintptr(vaddr))
	}
	return t.pa + hostarch.PhysAddr(vaddr.PageOffset()), nil
}

// CheckAccess returns true if the page containing vaddr is mapped with at
// least the access types in at.
func (as *AddressSpace) CheckAccess(vaddr hostarch.Addr, at hostarch.AccessType) bool {
	t, ok := as.pt[vaddr.RoundDown()]
	return ok && t.at.SupersetOf(at)
}

// Release returns the frames owned by this address space to the allocator.
// Kernel regions alias shared frames and are skipped. The address space is
// unusable afterwards.
func (as *AddressSpace) Release() {
	for _, r := range as.regions {
		if r.Kernel {
			continue
		}
		for va := r.AR.Start; va < r.AR.End; va += hostarch.PageSize {
			if t, ok := as.pt[va]; ok {
				as.mf.Deallocate(t.pa)
			}
		}
	}
	as.regions = nil
	as.pt = nil
}

// String implements fmt.Stringer.String.
func (as *AddressSpace) String() string {
	return fmt.Sprintf("address space %s, %d regions", as.ar, len(as.regions))
}

func (as *AddressSpace) overlapsExisting(ar hostarch.AddrRange) bool {
	for _, r := range as.regions {
		if r.AR.Overlaps(ar) {
			return true
		}
	}
	return false
}

func (as *AddressSpace) insertRegion(r Region) {
	i := sort.Search(len(as.regions), func(i int) bool {
		return as.regions[i].AR.Start > r.AR.Start
	})
	as.regions = append(as.regions, Region{})
	copy(as.regions[i+1:], as.regions[i:])
	as.regions[i] = r
}
