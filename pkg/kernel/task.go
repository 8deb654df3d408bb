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
	"nucleus.dev/nucleus/pkg/arch"
	"nucleus.dev/nucleus/pkg/mm"
	"nucleus.dev/nucleus/pkg/platform"
)

// Task is the schedulable unit of execution running one user process. It
// exclusively owns the process's address space and register state; both live
// exactly as long as the task's goroutine runs.
//
// A Task is also the handle the spawner returns: Wait blocks until the
// process terminates.
type Task struct {
	k    *Kernel
	name string

	// mm is the process address space. Handing it to the platform on
	// every Switch is what makes scheduling this task select its
	// page-table root.
	mm *mm.AddressSpace

	// regs is the saved user register state, mutated in place by every
	// entry/exit cycle.
	regs *arch.Registers

	pctx platform.Context

	// exitStatus is valid once done is closed.
	exitStatus int32
	done       chan struct{}
}

// Name returns the task name.
func (t *Task) Name() string {
	return t.name
}

// Start runs the task goroutine.
func (t *Task) Start() {
	go t.run()
}

// Wait blocks until the process terminates and returns its exit status.
func (t *Task) Wait() int32 {
	<-t.done
	return t.exitStatus
}
