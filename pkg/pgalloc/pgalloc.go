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

// Package pgalloc provides the physical memory manager: a MemoryFile hands
// out zeroed page frames and exposes the kernel-visible view of each frame.
package pgalloc

import (
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"nucleus.dev/nucleus/pkg/hostarch"
)

// ArenaBase is the physical address of the first page frame. Frame addresses
// are dense from here, one page apart.
const ArenaBase hostarch.PhysAddr = 0x8000_0000

var (
	// ErrOutOfMemory is returned by Allocate when the frame budget is
	// exhausted.
	ErrOutOfMemory = errors.New("out of physical pages")

	// ErrBadAddress is returned by Frame and Deallocate for an address
	// that does not name an allocated frame.
	ErrBadAddress = errors.New("no frame at physical address")
)

// MemoryFile is a fixed-budget allocator of page frames backed by one
// contiguous arena. The zero value is not usable; call NewMemoryFile.
//
// A MemoryFile is a kernel-wide structure shared by every address space, so
// unlike those it carries its own lock: one process may be spawning while
// another's task releases its frames.
type MemoryFile struct {
	mu    sync.Mutex
	arena []byte
	total int
	next  int
	free  []int
}

// NewMemoryFile returns a MemoryFile with a budget of frames page frames.
func NewMemoryFile(frames int) (*MemoryFile, error) {
	if frames <= 0 {
		return nil, fmt.Errorf("invalid frame budget %d", frames)
	}
	arena, err := newArena(frames * hostarch.PageSize)
	if err != nil {
		return nil, fmt.Errorf("allocating %d-frame arena: %w", frames, err)
	}
	logrus.WithField("frames", frames).Debug("physical memory arena ready")
	return &MemoryFile{arena: arena, total: frames}, nil
}

// Allocate returns the physical address of a zeroed page frame. It fails
// with ErrOutOfMemory once the frame budget is spent.
func (mf *MemoryFile) Allocate() (hostarch.PhysAddr, error) {
	mf.mu.Lock()
	defer mf.mu.Unlock()

	var idx int
	switch {
	case len(mf.free) > 0:
		idx = mf.free[len(mf.free)-1]
		mf.free = mf.free[:len(mf.free)-1]
		// Reused frames must come back zeroed, same as fresh ones.
		clear(mf.arena[idx*hostarch.PageSize : (idx+1)*hostarch.PageSize])
	case mf.next < mf.total:
		idx = mf.next
		mf.next++
	default:
		return 0, ErrOutOfMemory
	}
	return ArenaBase + hostarch.PhysAddr(idx*hostarch.PageSize), nil
}

// Deallocate returns the frame at pa to the allocator.
func (mf *MemoryFile) Deallocate(pa hostarch.PhysAddr) error {
	mf.mu.Lock()
	defer mf.mu.Unlock()

	idx, err := mf.frameIndex(pa)
	if err != nil {
		return err
	}
	mf.free = append(mf.free, idx)
	return nil
}

// Frame returns the kernel-visible byte view of the allocated frame at pa,
// the equivalent of a phys-to-virt translation.
func (mf *MemoryFile) Frame(pa hostarch.PhysAddr) ([]byte, error) {
	mf.mu.Lock()
	defer mf.mu.Unlock()

	idx, err := mf.frameIndex(pa)
	if err != nil {
		return nil, err
	}
	return mf.arena[idx*hostarch.PageSize : (idx+1)*hostarch.PageSize : (idx+1)*hostarch.PageSize], nil
}

// TotalFrames returns the frame budget.
func (mf *MemoryFile) TotalFrames() int {
	return mf.total
}

// Destroy releases the arena. The MemoryFile is unusable afterwards.
func (mf *MemoryFile) Destroy() {
	mf.mu.Lock()
	defer mf.mu.Unlock()
	releaseArena(mf.arena)
	mf.arena = nil
}

// frameIndex must be called with mu held.
func (mf *MemoryFile) frameIndex(pa hostarch.PhysAddr) (int, error) {
	if pa < ArenaBase || uintptr(pa-ArenaBase)&hostarch.PageMask != 0 {
		return 0, fmt.Errorf("%w: %#x", ErrBadAddress, uintptr(pa))
	}
	idx := int(pa-ArenaBase) >> hostarch.PageShift
	if idx >= mf.next {
		return 0, fmt.Errorf("%w: %#x", ErrBadAddress, uintptr(pa))
	}
	return idx, nil
}
