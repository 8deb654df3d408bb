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

package kernel

import (
	"fmt"

	"nucleus.dev/nucleus/pkg/arch"
)

// SyscallExit is the EXIT call number, per the generic 64-bit convention.
// The same number is used on every supported architecture.
const SyscallExit = 93

// ErrnoSentinel is written to the return-value register for call numbers the
// table does not implement: all bits set. Whether user code reads it as a
// negative errno or an unsigned maximum is up to its runtime.
const ErrnoSentinel = ^uintptr(0)

// ExitStatus is the exit status of a terminated process.
type ExitStatus struct {
	Code int32
}

// SyscallFn implements one system call. A nil ExitStatus means the process
// continues and ret is written to its return-value register; a non-nil
// ExitStatus terminates the process without touching the register file.
type SyscallFn func(t *Task, args arch.SyscallArguments) (ret uintptr, es *ExitStatus)

// Syscall is one entry in a SyscallTable.
type Syscall struct {
	Name string
	Fn   SyscallFn
}

// SyscallTable maps call numbers to kernel actions. Unknown numbers are
// reported to the caller through ErrnoSentinel and never terminate the
// process; extensions must preserve that policy.
type SyscallTable struct {
	table map[uintptr]Syscall
}

// NewSyscallTable returns an empty table.
func NewSyscallTable() *SyscallTable {
	return &SyscallTable{table: make(map[uintptr]Syscall)}
}

// Register adds a syscall to the table. Registering the same number twice is
// a programming error.
func (st *SyscallTable) Register(no uintptr, sc Syscall) {
	if _, ok := st.table[no]; ok {
		panic(fmt.Sprintf("syscall %d registered twice", no))
	}
	st.table[no] = sc
}

// Lookup returns the syscall registered under no.
func (st *SyscallTable) Lookup(no uintptr) (Syscall, bool) {
	sc, ok := st.table[no]
	return sc, ok
}

// DefaultTable returns the stock table: exit, and nothing else.
func DefaultTable() *SyscallTable {
	st := NewSyscallTable()
	st.Register(SyscallExit, Syscall{Name: "exit", Fn: sysExit})
	return st
}

// sysExit terminates the process with the signed 32-bit exit code in the
// first argument register.
func sysExit(t *Task, args arch.SyscallArguments) (uintptr, *ExitStatus) {
	return 0, &ExitStatus{Code: args[0].Int()}
}
