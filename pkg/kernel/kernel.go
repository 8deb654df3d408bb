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

// Package kernel spawns user processes and services their traps.
//
// Each spawned process is one Task: a goroutine that owns the process's
// address space and register state, repeatedly enters user mode through the
// platform, and dispatches the resulting traps until the process exits.
package kernel

import (
	"fmt"

	"nucleus.dev/nucleus/pkg/fstore"
	"nucleus.dev/nucleus/pkg/hostarch"
	"nucleus.dev/nucleus/pkg/mm"
	"nucleus.dev/nucleus/pkg/pgalloc"
	"nucleus.dev/nucleus/pkg/platform"
)

const (
	// UserSpaceBase and UserSpaceSize fix the virtual range reserved for
	// user processes: [0, 256 GiB), below kernel space.
	UserSpaceBase hostarch.Addr = 0
	UserSpaceSize uintptr       = 0x40_0000_0000

	// KernelSpaceBase and KernelSpaceSize fix the kernel's own range,
	// directly above user space.
	KernelSpaceBase hostarch.Addr = 0x40_0000_0000
	KernelSpaceSize uintptr       = 1 << 30

	// AppEntry is where the payload image is loaded; flat binaries have
	// no header, so the load address is also the entry point.
	AppEntry hostarch.Addr = 0x1000

	// UserStackSize is the size of the user stack, mapped at the top of
	// the user range.
	UserStackSize uintptr = 0x10000 // 64 KiB

	// FaultExitStatus is the exit status of a process terminated by a
	// page fault or an unrecognized trap.
	FaultExitStatus int32 = -1
)

// Kernel ties together the collaborators of the user-mode execution
// subsystem.
type Kernel struct {
	mf       *pgalloc.MemoryFile
	platform platform.Platform
	store    fstore.FileStore
	kernelAS *mm.AddressSpace
	table    *SyscallTable
}

// Args configures a Kernel.
type Args struct {
	// MemoryFile is the physical memory manager.
	MemoryFile *pgalloc.MemoryFile

	// Platform supplies the privilege-transfer primitive.
	Platform platform.Platform

	// Store serves payload images.
	Store fstore.FileStore

	// KernelSpace is the kernel's own address space; its mappings are
	// copied into every spawned process so kernel code stays resolvable
	// while traps are handled.
	KernelSpace *mm.AddressSpace

	// Table is the syscall table. Nil selects DefaultTable.
	Table *SyscallTable
}

// New returns a Kernel.
func New(args Args) (*Kernel, error) {
	if args.MemoryFile == nil {
		return nil, fmt.Errorf("kernel requires a memory file")
	}
	if args.Platform == nil {
		return nil, fmt.Errorf("kernel requires a platform")
	}
	if args.Store == nil {
		return nil, fmt.Errorf("kernel requires a file store")
	}
	if args.KernelSpace == nil {
		return nil, fmt.Errorf("kernel requires a kernel address space")
	}
	table := args.Table
	if table == nil {
		table = DefaultTable()
	}
	return &Kernel{
		mf:       args.MemoryFile,
		platform: args.Platform,
		store:    args.Store,
		kernelAS: args.KernelSpace,
		table:    table,
	}, nil
}

// NewKernelAddressSpace builds the kernel's own address space over the
// kernel range, with one page of kernel text mapped read/execute and no user
// access. In a full kernel this would mirror the booted image's mappings;
// one page is enough to give every process something to copy and to prove
// that user code cannot reach it.
func NewKernelAddressSpace(mf *pgalloc.MemoryFile) (*mm.AddressSpace, error) {
	kas, err := mm.NewAddressSpace(KernelSpaceBase, KernelSpaceSize, mf)
	if err != nil {
		return nil, err
	}
	if err := kas.Map(KernelSpaceBase, hostarch.PageSize, hostarch.AccessType{Read: true, Execute: true}); err != nil {
		return nil, err
	}
	return kas, nil
}
