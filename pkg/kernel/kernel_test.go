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
	"errors"
	"testing"

	"nucleus.dev/nucleus/pkg/fstore"
	"nucleus.dev/nucleus/pkg/hostarch"
	"nucleus.dev/nucleus/pkg/pgalloc"
	"nucleus.dev/nucleus/pkg/platform/interp"
)

// newTestKernel builds a kernel over the interpreter platform, an in-memory
// file store and a small physical memory budget.
func newTestKernel(t *testing.T, frames int, files map[string][]byte) *Kernel {
	t.Helper()
	mf, err := pgalloc.NewMemoryFile(frames)
	if err != nil {
		t.Fatalf("NewMemoryFile: %v", err)
	}
	t.Cleanup(mf.Destroy)
	kas, err := NewKernelAddressSpace(mf)
	if err != nil {
		t.Fatalf("NewKernelAddressSpace: %v", err)
	}
	k, err := New(Args{
		MemoryFile:  mf,
		Platform:    interp.New(mf),
		Store:       fstore.Memory(files),
		KernelSpace: kas,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return k
}

func exitImage(code int32) []byte {
	return interp.NewProgram().Syscall(SyscallExit, uint64(int64(code))).Bytes()
}

func TestExitStatus(t *testing.T) {
	for _, code := range []int32{0, 1, 42, -7, -128} {
		k := newTestKernel(t, 64, map[string][]byte{"origin": exitImage(code)})
		task, err := k.SpawnProcess("origin")
		if err != nil {
			t.Fatalf("SpawnProcess: %v", err)
		}
		if got := task.Wait(); got != code {
			t.Errorf("Wait() = %d, want %d", got, code)
		}
	}
}

func TestUnknownSyscallLeavesProcessRunnable(t *testing.T) {
	// An unimplemented call, then exit: the process must survive the
	// first call and complete the second.
	image := interp.NewProgram().
		Syscall(500, 0).
		Syscall(SyscallExit, 42).
		Bytes()
	k := newTestKernel(t, 64, map[string][]byte{"origin": image})
	task, err := k.SpawnProcess("origin")
	if err != nil {
		t.Fatalf("SpawnProcess: %v", err)
	}
	if got := task.Wait(); got != 42 {
		t.Errorf("Wait() = %d, want 42", got)
	}
}

func TestPageFaultTerminatesProcess(t *testing.T) {
	image := interp.NewProgram().Load(0x900000).Bytes()
	k := newTestKernel(t, 64, map[string][]byte{"origin": image})
	task, err := k.SpawnProcess("origin")
	if err != nil {
		t.Fatalf("SpawnProcess: %v", err)
	}
	if got := task.Wait(); got != FaultExitStatus {
		t.Errorf("Wait() = %d, want fault status %d", got, FaultExitStatus)
	}
}

func TestKernelMemoryNotUserAccessible(t *testing.T) {
	// Kernel mappings are copied into the process address space but must
	// fault when touched from user mode.
	image := interp.NewProgram().Load(KernelSpaceBase).Bytes()
	k := newTestKernel(t, 64, map[string][]byte{"origin": image})
	task, err := k.SpawnProcess("origin")
	if err != nil {
		t.Fatalf("SpawnProcess: %v", err)
	}
	if got := task.Wait(); got != FaultExitStatus {
		t.Errorf("Wait() = %d, want fault status %d", got, FaultExitStatus)
	}
}

func TestIllegalInstructionTerminatesProcess(t *testing.T) {
	image := interp.NewProgram().Raw(99, 0, 0).Bytes()
	k := newTestKernel(t, 64, map[string][]byte{"origin": image})
	task, err := k.SpawnProcess("origin")
	if err != nil {
		t.Fatalf("SpawnProcess: %v", err)
	}
	if got := task.Wait(); got != FaultExitStatus {
		t.Errorf("Wait() = %d, want fault status %d", got, FaultExitStatus)
	}
}

func TestStackIsMappedAndWritable(t *testing.T) {
	stackTop := UserSpaceBase + hostarch.Addr(UserSpaceSize)
	image := interp.NewProgram().
		Store(stackTop-8, 0x1234).
		Syscall(SyscallExit, 0).
		Bytes()
	k := newTestKernel(t, 64, map[string][]byte{"origin": image})
	task, err := k.SpawnProcess("origin")
	if err != nil {
		t.Fatalf("SpawnProcess: %v", err)
	}
	if got := task.Wait(); got != 0 {
		t.Errorf("Wait() = %d, want 0 (stack store must not fault)", got)
	}
}

func TestSpawnMissingImage(t *testing.T) {
	k := newTestKernel(t, 64, nil)
	if _, err := k.SpawnProcess("missing"); !errors.Is(err, fstore.ErrNotFound) {
		t.Errorf("SpawnProcess(missing) = %v, want ErrNotFound", err)
	}
}

func TestConcurrentProcessesAreIsolated(t *testing.T) {
	k := newTestKernel(t, 128, map[string][]byte{
		"good": exitImage(0),
		"bad":  interp.NewProgram().Load(0x900000).Bytes(),
	})
	good, err := k.SpawnProcess("good")
	if err != nil {
		t.Fatalf("SpawnProcess(good): %v", err)
	}
	bad, err := k.SpawnProcess("bad")
	if err != nil {
		t.Fatalf("SpawnProcess(bad): %v", err)
	}
	if got := bad.Wait(); got != FaultExitStatus {
		t.Errorf("faulting process Wait() = %d, want %d", got, FaultExitStatus)
	}
	if got := good.Wait(); got != 0 {
		t.Errorf("healthy process Wait() = %d, want 0", got)
	}
}

func TestFramesRecycledAcrossProcesses(t *testing.T) {
	// One process needs 17 frames (1 code + 16 stack) on top of the
	// kernel page; a 24-frame budget only survives repeated spawns if
	// exited processes return their frames.
	k := newTestKernel(t, 24, map[string][]byte{"origin": exitImage(0)})
	for i := 0; i < 5; i++ {
		task, err := k.SpawnProcess("origin")
		if err != nil {
			t.Fatalf("SpawnProcess %d: %v", i, err)
		}
		if got := task.Wait(); got != 0 {
			t.Fatalf("Wait %d = %d, want 0", i, got)
		}
	}
}
