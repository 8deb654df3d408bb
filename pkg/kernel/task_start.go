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

package kernel

import (
	"fmt"
	"path"

	"github.com/sirupsen/logrus"

	"nucleus.dev/nucleus/pkg/arch"
	"nucleus.dev/nucleus/pkg/hostarch"
	"nucleus.dev/nucleus/pkg/loader"
	"nucleus.dev/nucleus/pkg/mm"
)

// SpawnProcess builds a process for the image at imagePath and starts its
// task: a fresh address space pre-populated with kernel mappings, the image
// at AppEntry, a stack at the top of the user range, and an initial user
// context entering at AppEntry with arg0 = 0.
//
// The first failing step aborts the whole spawn; no partial process is left
// runnable. Errors after this point belong to the process alone and surface
// only through Wait.
func (k *Kernel) SpawnProcess(imagePath string) (*Task, error) {
	uas, err := mm.NewAddressSpace(UserSpaceBase, UserSpaceSize, k.mf)
	if err != nil {
		return nil, fmt.Errorf("creating user address space: %w", err)
	}
	if err := uas.CopyKernelMappings(k.kernelAS); err != nil {
		uas.Release()
		return nil, fmt.Errorf("copying kernel mappings: %w", err)
	}
	if err := loader.LoadImage(k.store, imagePath, uas, AppEntry); err != nil {
		uas.Release()
		return nil, fmt.Errorf("loading %q: %w", imagePath, err)
	}

	stackTop := UserSpaceBase + hostarch.Addr(UserSpaceSize)
	stackBase := stackTop - hostarch.Addr(UserStackSize)
	if err := uas.Map(stackBase, UserStackSize, hostarch.UserReadWrite); err != nil {
		uas.Release()
		return nil, fmt.Errorf("mapping user stack: %w", err)
	}
	logrus.WithFields(logrus.Fields{
		"image": imagePath,
		"stack": hostarch.AddrRange{Start: stackBase, End: stackTop}.String(),
	}).Debug("user address space ready")

	t := &Task{
		k:    k,
		name: path.Base(imagePath),
		mm:   uas,
		regs: arch.New(uintptr(AppEntry), uintptr(stackTop), 0),
		pctx: k.platform.NewContext(),
		done: make(chan struct{}),
	}
	t.Start()
	return t, nil
}
