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

//go:build riscv64

package arch

// Registers is the RV64 general-purpose register file of a user context,
// named per the standard ABI mnemonics. A7 carries the syscall number and
// A0 through A5 the arguments; A0 doubles as the return value register.
type Registers struct {
	RA  uint64
	Sp  uint64
	GP  uint64
	TP  uint64
	T0  uint64
	T1  uint64
	T2  uint64
	S0  uint64
	S1  uint64
	A0  uint64
	A1  uint64
	A2  uint64
	A3  uint64
	A4  uint64
	A5  uint64
	A6  uint64
	A7  uint64
	S2  uint64
	S3  uint64
	S4  uint64
	S5  uint64
	S6  uint64
	S7  uint64
	S8  uint64
	S9  uint64
	S10 uint64
	S11 uint64
	T3  uint64
	T4  uint64
	T5  uint64
	T6  uint64
	PC  uint64
}

// New returns the initial register state for a first entry into user mode:
// program counter at entry, stack pointer at stackTop, the first argument
// register holding arg0 and every other register zeroed.
func New(entry, stackTop, arg0 uintptr) *Registers {
	return &Registers{
		PC: uint64(entry),
		Sp: uint64(stackTop),
		A0: uint64(arg0),
	}
}

// IP returns the program counter.
func (r *Registers) IP() uintptr {
	return uintptr(r.PC)
}

// SetIP sets the program counter.
func (r *Registers) SetIP(value uintptr) {
	r.PC = uint64(value)
}

// SP returns the stack pointer.
func (r *Registers) SP() uintptr {
	return uintptr(r.Sp)
}

// SetSP sets the stack pointer.
func (r *Registers) SetSP(value uintptr) {
	r.Sp = uint64(value)
}

// Return returns the syscall return value register (A0).
func (r *Registers) Return() uintptr {
	return uintptr(r.A0)
}

// SetReturn sets the syscall return value register (A0).
func (r *Registers) SetReturn(value uintptr) {
	r.A0 = uint64(value)
}

// SyscallNo returns the syscall number according to the RV64 convention
// (A7 carries the number).
func (r *Registers) SyscallNo() uintptr {
	return uintptr(r.A7)
}

// SetSyscallNo sets the syscall number register. Used by platforms that
// materialize a trapping syscall into the register file.
func (r *Registers) SetSyscallNo(no uintptr) {
	r.A7 = uint64(no)
}

// SyscallArgs provides syscall arguments according to the RV64 convention:
// A0 through A5.
func (r *Registers) SyscallArgs() SyscallArguments {
	return SyscallArguments{
		SyscallArgument{Value: uintptr(r.A0)},
		SyscallArgument{Value: uintptr(r.A1)},
		SyscallArgument{Value: uintptr(r.A2)},
		SyscallArgument{Value: uintptr(r.A3)},
		SyscallArgument{Value: uintptr(r.A4)},
		SyscallArgument{Value: uintptr(r.A5)},
	}
}

// SetSyscallArg sets the i'th syscall argument register.
func (r *Registers) SetSyscallArg(i int, value uintptr) {
	switch i {
	case 0:
		r.A0 = uint64(value)
	case 1:
		r.A1 = uint64(value)
	case 2:
		r.A2 = uint64(value)
	case 3:
		r.A3 = uint64(value)
	case 4:
		r.A4 = uint64(value)
	case 5:
		r.A5 = uint64(value)
	default:
		panic("invalid syscall argument register index")
	}
}
