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

// Package arch provides the user-mode register file and the architecture's
// system call calling convention.
//
// The register layout and the choice of convention registers differ per
// architecture; each supported architecture contributes one build-tagged
// implementation of Registers with an identical method surface, so that the
// syscall dispatcher and the run loop stay architecture-agnostic.
package arch

import "nucleus.dev/nucleus/pkg/hostarch"

// SyscallArgument is an argument supplied to a system call, as read from the
// architecture's argument registers.
type SyscallArgument struct {
	Value uintptr
}

// SyscallArguments are the set of argument registers of a system call,
// ordered per the calling convention.
type SyscallArguments [6]SyscallArgument

// Pointer returns the argument as a virtual address.
func (a SyscallArgument) Pointer() hostarch.Addr {
	return hostarch.Addr(a.Value)
}

// Int returns the argument interpreted as a signed 32-bit integer. Exit
// codes travel through this view, so negative codes survive the register
// round trip.
func (a SyscallArgument) Int() int32 {
	return int32(a.Value)
}

// Uint64 returns the argument as an unsigned 64-bit integer.
func (a SyscallArgument) Uint64() uint64 {
	return uint64(a.Value)
}
