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

//go:build amd64

package arch

// Registers is the x86-64 general-purpose register file of a user context.
type Registers struct {
	RAX uint64
	RBX uint64
	RCX uint64
	RDX uint64
	RSI uint64
	RDI uint64
	RBP uint64
	RSP uint64
	R8  uint64
	R9  uint64
	R10 uint64
	R11 uint64
	R12 uint64
	R13 uint64
	R14 uint64
	R15 uint64
	RIP uint64
}

// New returns the initial register state for a first entry into user mode:
// program counter at entry, stack pointer at stackTop, the first argument
// register holding arg0 and every other register zeroed.
func New(entry, stackTop, arg0 uintptr) *Registers {
	return &Registers{
		RIP: uint64(entry),
		RSP: uint64(stackTop),
		RDI: uint64(arg0),
	}
}

// IP returns the program counter.
func (r *Registers) IP() uintptr {
	return uintptr(r.RIP)
}

// SetIP sets the program counter.
func (r *Registers) SetIP(value uintptr) {
	r.RIP = uint64(value)
}

// SP returns the stack pointer.
func (r *Registers) SP() uintptr {
	return uintptr(r.RSP)
}

// SetSP sets the stack pointer.
func (r *Registers) SetSP(value uintptr) {
	r.RSP = uint64(value)
}

// Return returns the syscall return value register.
func (r *Registers) Return() uintptr {
	return uintptr(r.RAX)
}

// SetReturn sets the syscall return value register.
func (r *Registers) SetReturn(value uintptr) {
	r.RAX = uint64(value)
}

// SyscallNo returns the syscall number according to the 64-bit convention
// (RAX carries the number).
func (r *Registers) SyscallNo() uintptr {
	return uintptr(r.RAX)
}

// SetSyscallNo sets the syscall number register. Used by platforms that
// materialize a trapping syscall into the register file.
func (r *Registers) SetSyscallNo(no uintptr) {
	r.RAX = uint64(no)
}

// SyscallArgs provides syscall arguments according to the 64-bit convention:
// RDI, RSI, RDX, R10, R8, R9.
func (r *Registers) SyscallArgs() SyscallArguments {
	return SyscallArguments{
		SyscallArgument{Value: uintptr(r.RDI)},
		SyscallArgument{Value: uintptr(r.RSI)},
		SyscallArgument{Value: uintptr(r.RDX)},
		SyscallArgument{Value: uintptr(r.R10)},
		SyscallArgument{Value: uintptr(r.R8)},
		SyscallArgument{Value: uintptr(r.R9)},
	}
}

// SetSyscallArg sets the i'th syscall argument register.
func (r *Registers) SetSyscallArg(i int, value uintptr) {
	switch i {
	case 0:
		r.RDI = uint64(value)
	case 1:
		r.RSI = uint64(value)
	case 2:
		r.RDX = uint64(value)
	case 3:
		r.R10 = uint64(value)
	case 4:
		r.R8 = uint64(value)
	case 5:
		r.R9 = uint64(value)
	default:
		panic("invalid syscall argument register index")
	}
}
