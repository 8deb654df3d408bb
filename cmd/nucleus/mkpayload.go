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
	"os"

	"github.com/google/subcommands"

	"nucleus.dev/nucleus/pkg/kernel"
	"nucleus.dev/nucleus/pkg/platform/interp"
)

// mkpayloadCmd implements subcommands.Command for the "mkpayload" command:
// it assembles small demo payloads for the interpreter platform.
type mkpayloadCmd struct {
	exit  int
	fault bool
	probe bool
}

// Name implements subcommands.Command.Name.
func (*mkpayloadCmd) Name() string {
	return "mkpayload"
}

// Synopsis implements subcommands.Command.Synopsis.
func (*mkpayloadCmd) Synopsis() string {
	return "assemble a demo payload image"
}

// Usage implements subcommands.Command.Usage.
func (*mkpayloadCmd) Usage() string {
	return `mkpayload [flags] <output path>`
}

// SetFlags implements subcommands.Command.SetFlags.
func (m *mkpayloadCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&m.exit, "exit", 0, "exit status the payload reports")
	f.BoolVar(&m.fault, "fault", false, "dereference an unmapped address instead of exiting")
	f.BoolVar(&m.probe, "probe", false, "issue an unimplemented syscall before exiting")
}

// Execute implements subcommands.Command.Execute.
func (m *mkpayloadCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	if f.NArg() != 1 {
		f.Usage()
		return subcommands.ExitUsageError
	}

	p := interp.NewProgram()
	switch {
	case m.fault:
		p.Load(0xdead000)
	default:
		if m.probe {
			p.Syscall(500, 0)
		}
		p.Syscall(kernel.SyscallExit, uint64(int64(m.exit)))
	}

	if err := os.WriteFile(f.Arg(0), p.Bytes(), 0644); err != nil {
		return fatalf("writing payload: %v", err)
	}
	return subcommands.ExitSuccess
}
