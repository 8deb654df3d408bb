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

//go:build arm64

package arch

// Registers is the AArch64 general-purpose register file of a user context.
//
// General purpose register usage on Arm64:
// R0...R7: parameter/result registers.
// R8: indirect result location register, carries the syscall number.
// R9...R15: temporary registers.
// R29: the frame pointer.
// R30: the link register.
type Registers struct {
	Regs [31]uint64
	Sp   uint64
	Pc   uint64
}

// New returns the initial register state for a first entry into user mode:
// program counter at entry, stack pointer at stackTop, the first argument
// register holding arg0 and every other register zeroed.
func New(entry, stackTop, arg0 uintptr) *Registers {
	r := &Registers{
		Sp: uint64(stackTop),
		Pc: uint64(entry),
	}
	r.Regs[0] = uint64(arg0)
	return r
}

// IP returns the program counter.
func (r *Registers) IP() uintptr {
	return uintptr(r.Pc)
}

// SetIP sets the program counter.
func (r *Registers) SetIP(value uintptr) {
	r.Pc = uint64(value)
}

// SP returns the stack pointer.
func (r *Registers) SP() uintptr {
	return uintptr(r.Sp)
}

// SetSP sets the stack pointer.
func (r *Registers) SetSP(value uintptr) {
	r.Sp = uint64(value)
}

// Return returns the syscall return value register (R0).
func (r *Registers) Return() uintptr {
	return uintptr(r.Regs[0])
}

// SetReturn sets the syscall return value register (R0).
func (r *Registers) SetReturn(value uintptr) {
	r.Regs[0] = uint64(value)
}

// SyscallNo returns the syscall number according to the 64-bit convention
// (R8 carries the number).
func (r *Registers) SyscallNo() uintptr {
	return uintptr(r.Regs[8])
}

// SetSyscallNo sets the syscall number register. Used by platforms that
// materialize a trapping syscall into the register file.
func (r *Registers) SetSyscallNo(no uintptr) {
	r.Regs[8] = uint64(no)
}

// SyscallArgs provides syscall arguments according to the 64-bit convention:
// R0 through R5.
func (r *Registers) SyscallArgs() SyscallArguments {
	return SyscallArguments{
		SyscallArgument{Value: uintptr(r.Regs[0])},
		SyscallArgument{Value: uintptr(r.Regs[1])},
		SyscallArgument{Value: uintptr(r.Regs[2])},
		SyscallArgument{Value: uintptr(r.Regs[3])},
		SyscallArgument{Value: uintptr(r.Regs[4])},
		SyscallArgument{Value: uintptr(r.Regs[5])},
	}
}

// SetSyscallArg sets the i'th syscall argument register.
func (r *Registers) SetSyscallArg(i int, value uintptr) {
	if i < 0 || i > 5 {
		panic("invalid syscall argument register index")
	}
	r.Regs[i] = uint64(value)
}
