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

package interp

import (
	"bytes"
	"encoding/binary"

	"nucleus.dev/nucleus/pkg/hostarch"
)

// Program assembles a flat-binary payload for the interp instruction set.
// Methods return the receiver for chaining.
type Program struct {
	buf bytes.Buffer
}

// NewProgram returns an empty Program.
func NewProgram() *Program {
	return &Program{}
}

// Syscall emits a syscall instruction with the given number and first
// argument.
func (p *Program) Syscall(no uintptr, arg0 uint64) *Program {
	return p.Raw(OpSyscall, uint64(no), arg0)
}

// Load emits a 64-bit load from addr.
func (p *Program) Load(addr hostarch.Addr) *Program {
	return p.Raw(OpLoad, uint64(addr), 0)
}

// Store emits a 64-bit store of value to addr.
func (p *Program) Store(addr hostarch.Addr, value uint64) *Program {
	return p.Raw(OpStore, uint64(addr), value)
}

// Jump emits a jump to addr.
func (p *Program) Jump(addr hostarch.Addr) *Program {
	return p.Raw(OpJump, uint64(addr), 0)
}

// Raw emits an arbitrary instruction.
func (p *Program) Raw(op, a, b uint64) *Program {
	var inst [InstrSize]byte
	binary.LittleEndian.PutUint64(inst[0:8], op)
	binary.LittleEndian.PutUint64(inst[8:16], a)
	binary.LittleEndian.PutUint64(inst[16:24], b)
	p.buf.Write(inst[:])
	return p
}

// Bytes returns the assembled image.
func (p *Program) Bytes() []byte {
	return p.buf.Bytes()
}
