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

// Package interp implements platform.Platform with a deterministic
// interpreter for the flat-binary instruction set.
//
// Instructions are 24 bytes: three little-endian 64-bit words {op, a, b}.
// The interpreter fetches through the address space's page table with the
// same permission checks real hardware would apply, so payloads observe
// genuine page-fault and syscall trap semantics.
package interp

import (
	"encoding/binary"

	"github.com/sirupsen/logrus"

	"nucleus.dev/nucleus/pkg/arch"
	"nucleus.dev/nucleus/pkg/hostarch"
	"nucleus.dev/nucleus/pkg/mm"
	"nucleus.dev/nucleus/pkg/pgalloc"
	"nucleus.dev/nucleus/pkg/platform"
)

// InstrSize is the size of one encoded instruction.
const InstrSize = 24

// Opcodes of the flat-binary instruction set.
const (
	// OpSyscall requests kernel service a with first argument b.
	OpSyscall uint64 = 1

	// OpLoad reads the 64-bit word at address a.
	OpLoad uint64 = 2

	// OpStore writes the 64-bit value b to address a.
	OpStore uint64 = 3

	// OpJump continues execution at address a.
	OpJump uint64 = 4
)

// DefaultMaxSteps bounds the instructions retired by one Switch, so a
// payload stuck in a tight loop surfaces as a trap instead of wedging its
// task.
const DefaultMaxSteps = 1 << 16

// Interp is the interpreter platform.
type Interp struct {
	mf *pgalloc.MemoryFile

	// MaxSteps is the per-Switch instruction budget.
	MaxSteps int
}

// New returns an Interp executing over frames served by mf.
func New(mf *pgalloc.MemoryFile) *Interp {
	return &Interp{mf: mf, MaxSteps: DefaultMaxSteps}
}

// NewContext implements platform.Platform.NewContext.
func (p *Interp) NewContext() platform.Context {
	return &context{p: p}
}

type context struct {
	p *Interp
}

// Switch implements platform.Context.Switch: fetch-decode-execute until the
// payload traps.
func (c *context) Switch(as *mm.AddressSpace, regs *arch.Registers) platform.Trap {
	fetchAccess := hostarch.AccessType{Execute: true, User: true}
	readAccess := hostarch.AccessType{Read: true, User: true}
	writeAccess := hostarch.AccessType{Write: true, User: true}

	for steps := 0; steps < c.p.MaxSteps; steps++ {
		pc := hostarch.Addr(regs.IP())
		var inst [InstrSize]byte
		if trap, ok := c.copyMem(as, pc, inst[:], fetchAccess, false); !ok {
			return trap
		}
		op := binary.LittleEndian.Uint64(inst[0:8])
		a := binary.LittleEndian.Uint64(inst[8:16])
		b := binary.LittleEndian.Uint64(inst[16:24])

		switch op {
		case OpSyscall:
			regs.SetSyscallNo(uintptr(a))
			regs.SetSyscallArg(0, uintptr(b))
			regs.SetIP(uintptr(pc) + InstrSize)
			return platform.SyscallTrap()
		case OpLoad:
			var word [8]byte
			if trap, ok := c.copyMem(as, hostarch.Addr(a), word[:], readAccess, false); !ok {
				return trap
			}
			regs.SetIP(uintptr(pc) + InstrSize)
		case OpStore:
			var word [8]byte
			binary.LittleEndian.PutUint64(word[:], b)
			if trap, ok := c.copyMem(as, hostarch.Addr(a), word[:], writeAccess, true); !ok {
				return trap
			}
			regs.SetIP(uintptr(pc) + InstrSize)
		case OpJump:
			regs.SetIP(uintptr(a))
		default:
			return platform.OtherTrap("illegal instruction %#x at %#x", op, uintptr(pc))
		}
	}
	logrus.WithField("pc", regs.IP()).Warn("instruction budget exceeded")
	return platform.OtherTrap("instruction budget of %d exceeded", c.p.MaxSteps)
}

// copyMem copies len(buf) bytes between buf and user memory at va, page by
// page, enforcing at on every page touched. A permission or translation
// failure yields a page-fault trap at the first inaccessible address.
func (c *context) copyMem(as *mm.AddressSpace, va hostarch.Addr, buf []byte, at hostarch.AccessType, write bool) (platform.Trap, bool) {
	for len(buf) > 0 {
		if !as.CheckAccess(va, at) {
			return platform.PageFaultTrap(va, at), false
		}
		pa, err := as.Translate(va)
		if err != nil {
			return platform.PageFaultTrap(va, at), false
		}
		off := va.PageOffset()
		frame, err := c.p.mf.Frame(pa - hostarch.PhysAddr(off))
		if err != nil {
			// A mapped page without physical backing is a kernel
			// bug, not a payload fault.
			return platform.OtherTrap("no backing for mapped page %#x: %v", uintptr(va), err), false
		}
		n := len(buf)
		if rem := hostarch.PageSize - int(off); n > rem {
			n = rem
		}
		if write {
			copy(frame[off:], buf[:n])
		} else {
			copy(buf[:n], frame[off:])
		}
		va += hostarch.Addr(n)
		buf = buf[n:]
	}
	return platform.Trap{}, true
}
