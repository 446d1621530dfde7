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

	"github.com/maruel/subcommands"
	"go.chromium.org/luci/common/cli"

	"go.chromium.org/infra/build/xcparse/deriveddata"
	"go.chromium.org/infra/build/xcparse/o11y/clog"
	"go.chromium.org/infra/build/xcparse/pifcache"
	"go.chromium.org/infra/build/xcparse/subcmd/loadflag"
	"go.chromium.org/infra/build/xcparse/sync/semaphore"
)

const summaryUsage = `summarize a build root

 $ xcparse query summary [-j <n>] <path>

loads the manifest, the PIF cache and the test runs of the build root
<path>, and prints their counts.
`

// cmdSummary returns the Command for the `summary` subcommand provided by this package.
func cmdSummary() *subcommands.Command {
	return &subcommands.Command{
		UsageLine: "summary [-j <n>] <path>",
		ShortDesc: "summarize a build root",
		LongDesc:  summaryUsage,
		CommandRun: func() subcommands.CommandRun {
			c := &summaryRun{w: os.Stdout}
			c.init()
			return c
		},
	}
}

type summaryRun struct {
	subcommands.CommandRunBase
	w io.Writer

	load loadflag.Flags
}

func (c *summaryRun) init() {
	c.load.RegisterJobs(&c.Flags)
}

func (c *summaryRun) Run(a subcommands.Application, args []string, env subcommands.Env) int {
	ctx := cli.GetContext(a, c, env)
	return exitCode(c.run(ctx, args), summaryUsage)
}

func (c *summaryRun) run(ctx context.Context, args []string) error {
	ctx, root, err := pathArg(ctx, "summary", args)
	if err != nil {
		return err
	}
	sema := semaphore.New("pifcache-read", c.load.Jobs)
	dd, err := deriveddata.Load(ctx, root, pifcache.Option{Semaphore: sema})
	if err != nil {
		return err
	}
	clog.Infof(ctx, "%s", sema)

	var projects, targets int
	for _, ws := range dd.PIFCache.Workspaces {
		projects += len(ws.Projects)
		for _, p := range ws.Projects {
			targets += len(p.Targets)
		}
	}
	w := bufio.NewWriter(c.w)
	fmt.Fprintf(w, "manifest: %d targets %d nodes %d commands\n", len(dd.Manifest.Targets), len(dd.Manifest.Nodes), len(dd.Manifest.Commands))
	fmt.Fprintf(w, "pifcache: %d workspaces %d projects %d targets\n", len(dd.PIFCache.Workspaces), projects, targets)
	fmt.Fprintf(w, "testruns: %d\n", len(dd.TestRuns))
	for _, fname := range dd.TestRunPaths() {
		fmt.Fprintf(w, " %s: %d test targets\n", fname, len(dd.TestRuns[fname].Targets))
	}
	return w.Flush()
}
