// Copyright 2026 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package query

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/maruel/subcommands"
	"go.chromium.org/luci/common/cli"

	"go.chromium.org/infra/build/xcparse/deriveddata"
	"go.chromium.org/infra/build/xcparse/manifest"
	"go.chromium.org/infra/build/xcparse/o11y/clog"
)

const manifestUsage = `summarize the xcbuild manifest

 $ xcparse query manifest [-f] [-commands] <path>

prints the client, targets and command counts per tool of the xcbuild
manifest in the build root <path> (or the manifest file <path> with -f).
`

// cmdManifest returns the Command for the `manifest` subcommand provided by this package.
func cmdManifest() *subcommands.Command {
	return &subcommands.Command{
		UsageLine: "manifest [-f] [-commands] <path>",
		ShortDesc: "summarize the xcbuild manifest",
		LongDesc:  manifestUsage,
		CommandRun: func() subcommands.CommandRun {
			c := &manifestRun{w: os.Stdout}
			c.init()
			return c
		},
	}
}

type manifestRun struct {
	subcommands.CommandRunBase
	w io.Writer

	isFile   bool
	commands bool
}

func (c *manifestRun) init() {
	c.Flags.BoolVar(&c.isFile, "f", false, "<path> is a manifest file, not a build root")
	c.Flags.BoolVar(&c.commands, "commands", false, "list commands")
}

func (c *manifestRun) Run(a subcommands.Application, args []string, env subcommands.Env) int {
	ctx := cli.GetContext(a, c, env)
	return exitCode(c.run(ctx, args), manifestUsage)
}

func (c *manifestRun) run(ctx context.Context, args []string) error {
	ctx, fname, err := pathArg(ctx, "manifest", args)
	if err != nil {
		return err
	}
	if !c.isFile {
		p, err := deriveddata.Find(fname)
		if err != nil {
			return err
		}
		fname = p.Manifest
	}
	clog.Infof(ctx, "load manifest %s", fname)
	m, err := manifest.Load(fname)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(c.w)
	fmt.Fprintf(w, "client: %s version=%d file-system=%s\n", m.Client.Name, m.Client.Version, m.Client.FileSystem)
	for _, t := range m.Targets {
		fmt.Fprintf(w, "target %q: %s\n", t.Name, strings.Join(t.Values, " "))
	}
	fmt.Fprintf(w, "nodes: %d\n", len(m.Nodes))
	fmt.Fprintf(w, "commands: %d\n", len(m.Commands))
	counts := m.ToolCounts()
	tools := make([]string, 0, len(counts))
	for tool := range counts {
		tools = append(tools, tool)
	}
	sort.Strings(tools)
	for _, tool := range tools {
		fmt.Fprintf(w, " %s: %d\n", tool, counts[tool])
	}
	if c.commands {
		for _, cmd := range m.Commands {
			fmt.Fprintf(w, "%s: %s\n", cmd.Name, cmd.Tool)
		}
	}
	return w.Flush()
}
