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

// Package loader places flat binary images into address spaces.
//
// Images carry no header and no entry-point table: the load address is the
// entry point, and everything from the first byte is executed as-is.
package loader

import (
	"errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"nucleus.dev/nucleus/pkg/fstore"
	"nucleus.dev/nucleus/pkg/hostarch"
	"nucleus.dev/nucleus/pkg/mm"
)

var (
	// ErrNoMemory is returned when the image's backing page cannot be
	// allocated or mapped.
	ErrNoMemory = errors.New("cannot allocate image backing")

	// ErrTooLarge is returned for images larger than one page.
	ErrTooLarge = errors.New("image exceeds one page")
)

// LoadImage reads the flat binary at path from store and installs it in as
// at loadAddr, which becomes the process entry point. The image lands in one
// freshly allocated zeroed page mapped read/write/execute/user; bytes past
// the image up to the page boundary stay zero.
//
// Write permission on the mapping exists only so this copy can land; mapping
// read-only+execute and dropping write after the copy is a hardening
// opportunity this design leaves open.
//
// A missing path reports fstore.ErrNotFound; allocation and mapping failures
// report ErrNoMemory; read errors propagate as-is.
func LoadImage(store fstore.FileStore, path string, as *mm.AddressSpace, loadAddr hostarch.Addr) error {
	if err := as.Map(loadAddr, hostarch.PageSize, hostarch.UserRWX); err != nil {
		return fmt.Errorf("%w: %v", ErrNoMemory, err)
	}

	f, err := store.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	// Stage up to one page. The staging buffer is transient; the durable
	// artifact is the mapped page below.
	var buf [hostarch.PageSize]byte
	n, err := io.ReadFull(f, buf[:])
	switch {
	case err == io.EOF || err == io.ErrUnexpectedEOF:
		// Image shorter than a page.
	case err != nil:
		return fmt.Errorf("reading %q: %w", path, err)
	default:
		var probe [1]byte
		if m, _ := f.Read(probe[:]); m > 0 {
			return fmt.Errorf("%q: %w", path, ErrTooLarge)
		}
	}

	// The page was just mapped, so failure to resolve it is a kernel bug.
	pa, err := as.Translate(loadAddr)
	if err != nil {
		panic(fmt.Sprintf("translating fresh image mapping at %#x: %v", uintptr(loadAddr), err))
	}
	frame, err := as.MemoryFile().Frame(pa)
	if err != nil {
		panic(fmt.Sprintf("no backing for fresh image mapping at %#x: %v", uintptr(loadAddr), err))
	}
	copy(frame, buf[:n])

	logrus.WithFields(logrus.Fields{
		"path":  path,
		"bytes": n,
		"entry": fmt.Sprintf("%#x", uintptr(loadAddr)),
	}).Debug("loaded payload image")
	return nil
}
