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

package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"
	"github.com/sirupsen/logrus"

	"nucleus.dev/nucleus/pkg/fstore"
	"nucleus.dev/nucleus/pkg/kernel"
	"nucleus.dev/nucleus/pkg/pgalloc"
	"nucleus.dev/nucleus/pkg/platform/interp"
)

// runCmd implements subcommands.Command for the "run" command.
type runCmd struct {
	root     string
	memPages int
	debug    bool
}

// Name implements subcommands.Command.Name.
func (*runCmd) Name() string {
	return "run"
}

// Synopsis implements subcommands.Command.Synopsis.
func (*runCmd) Synopsis() string {
	return "run a payload image as a user process and wait for it to exit"
}

// Usage implements subcommands.Command.Usage.
func (*runCmd) Usage() string {
	return `run [flags] <image path>`
}

// SetFlags implements subcommands.Command.SetFlags.
func (r *runCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&r.root, "root", ".", "directory payload images are read from")
	f.IntVar(&r.memPages, "mem-pages", 4096, "physical page budget")
	f.BoolVar(&r.debug, "debug", false, "enable debug logging")
}

// Execute implements subcommands.Command.Execute.
func (r *runCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	if f.NArg() != 1 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	if r.debug {
		logrus.SetLevel(logrus.DebugLevel)
	}

	mf, err := pgalloc.NewMemoryFile(r.memPages)
	if err != nil {
		return fatalf("creating memory file: %v", err)
	}
	defer mf.Destroy()

	kas, err := kernel.NewKernelAddressSpace(mf)
	if err != nil {
		return fatalf("creating kernel address space: %v", err)
	}
	k, err := kernel.New(kernel.Args{
		MemoryFile:  mf,
		Platform:    interp.New(mf),
		Store:       fstore.Dir(r.root),
		KernelSpace: kas,
	})
	if err != nil {
		return fatalf("creating kernel: %v", err)
	}

	task, err := k.SpawnProcess(f.Arg(0))
	if err != nil {
		return fatalf("spawning %q: %v", f.Arg(0), err)
	}
	code := task.Wait()
	fmt.Printf("%s exited with status %d\n", task.Name(), code)
	if code != 0 {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
