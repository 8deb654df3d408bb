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

package fstore

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestDirStore(t *testing.T) {
	root := t.TempDir()
	want := []byte("payload bytes")
	if err := os.WriteFile(filepath.Join(root, "origin"), want, 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	store := Dir(root)
	f, err := store.Open("origin")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer f.Close()
	got, err := io.ReadAll(f)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if string(got) != string(want) {
		t.Errorf("read %q, want %q", got, want)
	}

	if _, err := store.Open("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Open(missing) = %v, want ErrNotFound", err)
	}
}

func TestMemoryStore(t *testing.T) {
	store := Memory(map[string][]byte{"origin": []byte("abc")})
	f, err := store.Open("origin")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	got, err := io.ReadAll(f)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if string(got) != "abc" {
		t.Errorf("read %q, want %q", got, "abc")
	}
	if _, err := store.Open("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Open(missing) = %v, want ErrNotFound", err)
	}
}
