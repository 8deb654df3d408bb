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

import "testing"

// TestConventionRegisters pins the calling convention to the hardware
// registers mandated by the RV64 ABI: number in A7, arguments in A0 through
// A5, return value in A0.
func TestConventionRegisters(t *testing.T) {
	r := Registers{
		A7: 93,
		A0: 1, A1: 2, A2: 3, A3: 4, A4: 5, A5: 6,
		// Poison registers that are not part of the convention.
		A6: 0xbad, T0: 0xbad, S0: 0xbad,
	}
	if got := r.SyscallNo(); got != 93 {
		t.Errorf("SyscallNo() = %d, want 93 (A7)", got)
	}
	args := r.SyscallArgs()
	for i, want := range []uintptr{1, 2, 3, 4, 5, 6} {
		if args[i].Value != want {
			t.Errorf("argument %d = %d, want %d", i, args[i].Value, want)
		}
	}
	r.SetReturn(0x1234)
	if r.A0 != 0x1234 {
		t.Errorf("SetReturn wrote %#x to A0, want %#x", r.A0, 0x1234)
	}
}
