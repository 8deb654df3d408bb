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
	"testing"

	"nucleus.dev/nucleus/pkg/arch"
)

const maxTestSyscall = 50

func createSyscallTable() *SyscallTable {
	st := NewSyscallTable()
	for i := uintptr(0); i <= maxTestSyscall; i++ {
		j := i
		st.Register(i, Syscall{
			Name: "test",
			Fn: func(*Task, arch.SyscallArguments) (uintptr, *ExitStatus) {
				return j, nil
			},
		})
	}
	return st
}

func TestTable(t *testing.T) {
	table := createSyscallTable()

	// Every registered function returns its own number.
	for i := uintptr(0); i <= maxTestSyscall; i++ {
		sc, ok := table.Lookup(i)
		if !ok {
			t.Errorf("syscall %d not found", i)
			continue
		}
		if v, _ := sc.Fn(nil, arch.SyscallArguments{}); v != i {
			t.Errorf("wrong return value for syscall %d: got %d", i, v)
		}
	}

	// Numbers outside the table are not found.
	for i := uintptr(maxTestSyscall + 1); i < maxTestSyscall+100; i++ {
		if _, ok := table.Lookup(i); ok {
			t.Errorf("syscall %d unexpectedly found", i)
		}
	}
}

func TestRegisterDuplicatePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("duplicate Register did not panic")
		}
	}()
	st := NewSyscallTable()
	st.Register(1, Syscall{Name: "a"})
	st.Register(1, Syscall{Name: "b"})
}

func TestDefaultTable(t *testing.T) {
	st := DefaultTable()
	sc, ok := st.Lookup(SyscallExit)
	if !ok {
		t.Fatalf("default table has no exit syscall")
	}
	if sc.Name != "exit" {
		t.Errorf("syscall %d named %q, want %q", SyscallExit, sc.Name, "exit")
	}

	args := arch.SyscallArguments{arch.SyscallArgument{Value: uintptr(uint64(0xfffffffffffffff9))}} // -7
	_, es := sc.Fn(nil, args)
	if es == nil {
		t.Fatalf("exit did not request termination")
	}
	if es.Code != -7 {
		t.Errorf("exit status = %d, want -7", es.Code)
	}
}

// TestUnknownSyscallPolicy pins the dispatch policy: unknown numbers write
// the sentinel to the return-value register and keep the process runnable.
func TestUnknownSyscallPolicy(t *testing.T) {
	task := &Task{
		k:    &Kernel{table: DefaultTable()},
		name: "policy-test",
		regs: arch.New(0x1000, 0x2000, 0),
	}
	task.regs.SetSyscallNo(999)
	if es := task.executeSyscall(); es != nil {
		t.Fatalf("unknown syscall terminated the process with status %d", es.Code)
	}
	if got := task.regs.Return(); got != ErrnoSentinel {
		t.Errorf("return register = %#x, want sentinel %#x", got, ErrnoSentinel)
	}
}
