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

// Package fstore is the file-store collaborator the loader reads payload
// images from: open a path, read bytes, close. The kernel consumes the
// FileStore interface; this package also ships the two implementations the
// CLI and the tests use.
package fstore

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// ErrNotFound is returned by Open when the path does not name a file.
var ErrNotFound = errors.New("file not found")

// File is an open payload image.
type File interface {
	io.Reader
	io.Closer
}

// FileStore opens payload images by path.
type FileStore interface {
	Open(path string) (File, error)
}

// Dir returns a FileStore serving files beneath root on the host
// filesystem.
func Dir(root string) FileStore {
	return &dirStore{root: root}
}

type dirStore struct {
	root string
}

// Open implements FileStore.Open.
func (d *dirStore) Open(path string) (File, error) {
	f, err := os.Open(filepath.Join(d.root, path))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%q: %w", path, ErrNotFound)
		}
		return nil, err
	}
	return f, nil
}

// Memory returns a FileStore serving the given path-to-contents map.
// Intended for tests.
func Memory(files map[string][]byte) FileStore {
	return memStore(files)
}

type memStore map[string][]byte

// Open implements FileStore.Open.
func (m memStore) Open(path string) (File, error) {
	b, ok := m[path]
	if !ok {
		return nil, fmt.Errorf("%q: %w", path, ErrNotFound)
	}
	return io.NopCloser(bytes.NewReader(b)), nil
}
