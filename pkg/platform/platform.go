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

// Package platform abstracts the privilege-transfer primitive: the one
// operation that runs a user context at the lowest privilege level and
// classifies why control came back.
package platform

import (
	"fmt"

	"nucleus.dev/nucleus/pkg/arch"
	"nucleus.dev/nucleus/pkg/hostarch"
	"nucleus.dev/nucleus/pkg/mm"
)

// TrapClass is the classified cause of a return from user mode.
type TrapClass int

const (
	// TrapSyscall: the context requested a kernel service.
	TrapSyscall TrapClass = iota

	// TrapPageFault: the context accessed a virtual address with invalid
	// or insufficient permissions.
	TrapPageFault

	// TrapOther: any other cause (illegal instruction, platform-internal
	// failure). Always fatal to the process.
	TrapOther
)

// String implements fmt.Stringer.String.
func (c TrapClass) String() string {
	switch c {
	case TrapSyscall:
		return "syscall"
	case TrapPageFault:
		return "page fault"
	default:
		return "other"
	}
}

// Trap describes one return from user mode. It is produced fresh by every
// Switch and consumed immediately; nothing retains it.
type Trap struct {
	Class TrapClass

	// FaultAddr and FaultAccess are set for TrapPageFault.
	FaultAddr   hostarch.Addr
	FaultAccess hostarch.AccessType

	// Desc is set for TrapOther.
	Desc string
}

// SyscallTrap returns a Trap reporting a system call request.
func SyscallTrap() Trap {
	return Trap{Class: TrapSyscall}
}

// PageFaultTrap returns a Trap reporting a faulting access of type at on
// addr.
func PageFaultTrap(addr hostarch.Addr, at hostarch.AccessType) Trap {
	return Trap{Class: TrapPageFault, FaultAddr: addr, FaultAccess: at}
}

// OtherTrap returns a Trap for any cause outside the syscall/page-fault
// taxonomy.
func OtherTrap(format string, args ...any) Trap {
	return Trap{Class: TrapOther, Desc: fmt.Sprintf(format, args...)}
}

// String implements fmt.Stringer.String.
func (t Trap) String() string {
	switch t.Class {
	case TrapPageFault:
		return fmt.Sprintf("page fault at %#x (%s)", uintptr(t.FaultAddr), t.FaultAccess)
	case TrapOther:
		return fmt.Sprintf("trap: %s", t.Desc)
	default:
		return t.Class.String()
	}
}

// Platform produces execution contexts.
type Platform interface {
	// NewContext returns a new execution context. A context is used by
	// exactly one task.
	NewContext() Context
}

// Context is the privilege-transfer primitive for one task.
type Context interface {
	// Switch resumes user execution of regs within as and blocks until
	// control returns to the kernel, then classifies the cause. The full
	// register state is saved back into regs before Switch returns; a
	// subsequent Switch resumes exactly there unless the caller mutates
	// regs in between (e.g. to set a syscall return value).
	//
	// The address space rides on every entry so that scheduling a task
	// also selects its page-table root; implementations must not cache it
	// across calls. Switch must not leak unrelated kernel register state
	// into regs.
	Switch(as *mm.AddressSpace, regs *arch.Registers) Trap
}
