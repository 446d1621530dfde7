// Copyright 2023 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package digraph is digraph subcommand to show digraph of the targets of
// a PIF cache for https://pkg.go.dev/golang.org/x/tools/cmd/digraph
package digraph

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/maruel/subcommands"
	"go.chromium.org/luci/common/cli"

	"go.chromium.org/infra/build/xcparse/depgraph"
	"go.chromium.org/infra/build/xcparse/o11y/clog"
	"go.chromium.org/infra/build/xcparse/subcmd/loadflag"
)

const usage = `show digraph

 $ xcparse digraph [-pifcache] <path>

prints directed graph of the targets of the first workspace in the PIF
cache of the build root <path> (or the PIF cache directory <path> with
-pifcache).
Each line contains one or more target GUIDs, and the first target depends
on the rest of the targets on the same line. Dependencies on targets that
are not in the workspace are omitted.

This output can be passed to digraph command, installed by
 $ go install golang.org/x/tools/cmd/digraph@latest

See https://pkg.go.dev/golang.org/x/tools/cmd/digraph
for digraph command.
`

// Cmd returns the Command for the `digraph` subcommand provided by this package.
func Cmd() *subcommands.Command {
	return &subcommands.Command{
		UsageLine: "digraph [-pifcache] [-j <n>] <path>",
		ShortDesc: "show digraph",
		LongDesc:  usage,
		Advanced:  true,
		CommandRun: func() subcommands.CommandRun {
			c := &run{w: os.Stdout}
			c.init()
			return c
		},
	}
}

type run struct {
	subcommands.CommandRunBase
	w io.Writer

	load loadflag.Flags
}

func (c *run) init() {
	c.load.Register(&c.Flags)
}

func (c *run) Run(a subcommands.Application, args []string, env subcommands.Env) int {
	ctx := cli.GetContext(a, c, env)
	err := c.run(ctx, args)
	if err != nil {
		switch {
		case errors.Is(err, flag.ErrHelp):
			fmt.Fprintf(os.Stderr, "%v\n%s\n", err, usage)
		default:
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		return 1
	}
	return 0
}

func (c *run) run(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("want one <path>, got %d args: %w", len(args), flag.ErrHelp)
	}
	ctx = clog.NewSpan(ctx, uuid.New().String(), "", map[string]string{
		"subcmd": "digraph",
		"path":   args[0],
	})
	cache, err := c.load.Load(ctx, args[0], nil)
	if err != nil {
		return err
	}
	g, err := depgraph.Build(cache)
	if err != nil {
		return fmt.Errorf("no graph for %s: %w", cache.Root, err)
	}
	return g.WriteDigraph(c.w)
}
