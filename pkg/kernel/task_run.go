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
	"github.com/sirupsen/logrus"

	"nucleus.dev/nucleus/pkg/platform"
)

// run is the task goroutine: enter user mode, classify the trap, dispatch,
// repeat until a terminal result, then record the exit status. With no demand
// paging and no signal delivery, page faults and unrecognized traps are fatal
// to the process, never to the kernel.
func (t *Task) run() {
	defer close(t.done)
	defer t.mm.Release()

	logrus.WithFields(logrus.Fields{
		"task":  t.name,
		"entry": t.regs.IP(),
		"stack": t.regs.SP(),
	}).Debug("entering user space")

	for {
		trap := t.pctx.Switch(t.mm, t.regs)
		switch trap.Class {
		case platform.TrapSyscall:
			es := t.executeSyscall()
			if es == nil {
				continue
			}
			t.exitStatus = es.Code
			logrus.WithField("task", t.name).Debugf("process exited with status %d", es.Code)
			return
		case platform.TrapPageFault:
			logrus.WithField("task", t.name).Warnf("fatal %s", trap)
			t.exitStatus = FaultExitStatus
			return
		default:
			logrus.WithField("task", t.name).Warnf("unexpected trap from user space: %s", trap)
			t.exitStatus = FaultExitStatus
			return
		}
	}
}

// executeSyscall decodes and dispatches the syscall recorded in the task's
// registers. It returns a non-nil ExitStatus when the process must
// terminate; otherwise the return-value register has been updated and the
// task re-enters user mode.
func (t *Task) executeSyscall() *ExitStatus {
	no := t.regs.SyscallNo()
	sc, ok := t.k.table.Lookup(no)
	if !ok {
		logrus.WithField("task", t.name).Warnf("unimplemented syscall %d", no)
		t.regs.SetReturn(ErrnoSentinel)
		return nil
	}
	ret, es := sc.Fn(t, t.regs.SyscallArgs())
	if es != nil {
		return es
	}
	t.regs.SetReturn(ret)
	return nil
}
