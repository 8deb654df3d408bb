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

// AccessType specifies memory access types and the privilege level at which
// they are permitted. The zero value grants no access.
type AccessType struct {
	// Read is read access.
	Read bool

	// Write is write access.
	Write bool

	// Execute is executed access.
	Execute bool

	// User is user-mode access; mappings without User are reachable only
	// while the processor runs at kernel privilege.
	User bool
}

// String implements fmt.Stringer.String.
func (a AccessType) String() string {
	return map[bool]string{true: "r", false: "-"}[a.Read] +
		map[bool]string{true: "w", false: "-"}[a.Write] +
		map[bool]string{true: "x", false: "-"}[a.Execute] +
		map[bool]string{true: "u", false: "-"}[a.User]
}

// Any returns true iff at least one of Read, Write or Execute is true.
func (a AccessType) Any() bool {
	return a.Read || a.Write || a.Execute
}

// SupersetOf returns true iff the access types in a are a superset of the
// access types in other.
func (a AccessType) SupersetOf(other AccessType) bool {
	if !a.Read && other.Read {
		return false
	}
	if !a.Write && other.Write {
		return false
	}
	if !a.Execute && other.Execute {
		return false
	}
	if !a.User && other.User {
		return false
	}
	return true
}

// Union returns the union of a and other.
func (a AccessType) Union(other AccessType) AccessType {
	return AccessType{
		Read:    a.Read || other.Read,
		Write:   a.Write || other.Write,
		Execute: a.Execute || other.Execute,
		User:    a.User || other.User,
	}
}

// Useful access types.
var (
	NoAccess  = AccessType{}
	Read      = AccessType{Read: true}
	Write     = AccessType{Write: true}
	Execute   = AccessType{Execute: true}
	ReadWrite = AccessType{Read: true, Write: true}
	AnyAccess = AccessType{Read: true, Write: true, Execute: true}

	// UserReadWrite is the access type of a user stack or heap mapping.
	UserReadWrite = AccessType{Read: true, Write: true, User: true}

	// UserRWX is the access type the loader uses for freshly loaded code,
	// writable only so that the image bytes can be copied in.
	UserRWX = AccessType{Read: true, Write: true, Execute: true, User: true}
)
