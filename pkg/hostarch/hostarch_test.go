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

package hostarch

import "testing"

func TestAddrRounding(t *testing.T) {
	for _, tc := range []struct {
		addr     Addr
		down, up Addr
	}{
		{0, 0, 0},
		{1, 0, PageSize},
		{PageSize - 1, 0, PageSize},
		{PageSize, PageSize, PageSize},
		{PageSize + 1, PageSize, 2 * PageSize},
	} {
		if got := tc.addr.RoundDown(); got != tc.down {
			t.Errorf("RoundDown(%#x) = %#x, want %#x", uintptr(tc.addr), uintptr(got), uintptr(tc.down))
		}
		up, ok := tc.addr.RoundUp()
		if !ok || up != tc.up {
			t.Errorf("RoundUp(%#x) = %#x, %t, want %#x, true", uintptr(tc.addr), uintptr(up), ok, uintptr(tc.up))
		}
	}

	if _, ok := Addr(^uintptr(0)).RoundUp(); ok {
		t.Errorf("RoundUp at the top of the address space did not report overflow")
	}
}

func TestAddrRangeOverlaps(t *testing.T) {
	base := AddrRange{Start: 0x1000, End: 0x3000}
	for _, tc := range []struct {
		other AddrRange
		want  bool
	}{
		{AddrRange{0x0, 0x1000}, false},   // touches start
		{AddrRange{0x3000, 0x4000}, false}, // touches end
		{AddrRange{0x0, 0x1001}, true},
		{AddrRange{0x2fff, 0x4000}, true},
		{AddrRange{0x1800, 0x2000}, true}, // contained
		{AddrRange{0x0, 0x8000}, true},    // containing
	} {
		if got := base.Overlaps(tc.other); got != tc.want {
			t.Errorf("%s.Overlaps(%s) = %t, want %t", base, tc.other, got, tc.want)
		}
	}
}

func TestAccessTypeSupersetOf(t *testing.T) {
	rwxu := AccessType{Read: true, Write: true, Execute: true, User: true}
	ru := AccessType{Read: true, User: true}
	if !rwxu.SupersetOf(ru) {
		t.Errorf("%s.SupersetOf(%s) = false, want true", rwxu, ru)
	}
	if ru.SupersetOf(AccessType{Read: true, Write: true}) {
		t.Errorf("%s claims to cover write access", ru)
	}
	// Kernel-only mappings never satisfy user-mode access.
	rx := AccessType{Read: true, Execute: true}
	if rx.SupersetOf(AccessType{Read: true, User: true}) {
		t.Errorf("kernel-only %s claims to cover user access", rx)
	}
}

func TestAccessTypeString(t *testing.T) {
	for _, tc := range []struct {
		at   AccessType
		want string
	}{
		{NoAccess, "----"},
		{UserRWX, "rwxu"},
		{AccessType{Read: true, Execute: true}, "r-x-"},
	} {
		if got := tc.at.String(); got != tc.want {
			t.Errorf("String() = %q, want %q", got, tc.want)
		}
	}
}
