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

package arch

import "testing"

func TestNewRegisters(t *testing.T) {
	r := New(0x1000, 0x40000, 7)
	if got := r.IP(); got != 0x1000 {
		t.Errorf("IP() = %#x, want %#x", got, 0x1000)
	}
	if got := r.SP(); got != 0x40000 {
		t.Errorf("SP() = %#x, want %#x", got, 0x40000)
	}
	if got := r.SyscallArgs()[0].Value; got != 7 {
		t.Errorf("first argument register = %d, want 7", got)
	}
}

func TestSyscallNoRoundTrip(t *testing.T) {
	r := New(0x1000, 0x40000, 0)
	r.SetSyscallNo(93)
	if got := r.SyscallNo(); got != 93 {
		t.Errorf("SyscallNo() = %d, want 93", got)
	}
}

func TestSyscallArgsRoundTrip(t *testing.T) {
	r := New(0x1000, 0x40000, 0)
	for i := 0; i < 6; i++ {
		r.SetSyscallArg(i, uintptr(100+i))
	}
	args := r.SyscallArgs()
	for i := 0; i < 6; i++ {
		if got := args[i].Value; got != uintptr(100+i) {
			t.Errorf("argument %d = %d, want %d", i, got, 100+i)
		}
	}
}

func TestSetReturn(t *testing.T) {
	r := New(0x1000, 0x40000, 0)
	r.SetReturn(^uintptr(0))
	if got := r.Return(); got != ^uintptr(0) {
		t.Errorf("Return() = %#x, want all bits set", got)
	}
}

func TestArgumentInt(t *testing.T) {
	for _, tc := range []struct {
		value uintptr
		want  int32
	}{
		{0, 0},
		{42, 42},
		{uintptr(uint64(0xfffffffffffffff9)), -7}, // sign-extended -7
	} {
		if got := (SyscallArgument{Value: tc.value}).Int(); got != tc.want {
			t.Errorf("SyscallArgument{%#x}.Int() = %d, want %d", tc.value, got, tc.want)
		}
	}
}
