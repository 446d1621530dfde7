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
	"go.chromium.org/infra/build/xcparse/xctestrun"
)

const testRunsUsage = `list test run targets

 $ xcparse query testruns <path>

prints test targets of each .xctestrun file in Build/Products of the
build root <path>, in run order.
`

// cmdTestRuns returns the Command for the `testruns` subcommand provided by this package.
func cmdTestRuns() *subcommands.Command {
	return &subcommands.Command{
		UsageLine: "testruns <path>",
		ShortDesc: "list test run targets",
		LongDesc:  testRunsUsage,
		CommandRun: func() subcommands.CommandRun {
			return &testRunsRun{w: os.Stdout}
		},
	}
}

type testRunsRun struct {
	subcommands.CommandRunBase
	w io.Writer
}

func (c *testRunsRun) Run(a subcommands.Application, args []string, env subcommands.Env) int {
	ctx := cli.GetContext(a, c, env)
	return exitCode(c.run(ctx, args), testRunsUsage)
}

func (c *testRunsRun) run(ctx context.Context, args []string) error {
	ctx, root, err := pathArg(ctx, "testruns", args)
	if err != nil {
		return err
	}
	p, err := deriveddata.Find(root)
	if err != nil {
		return err
	}
	clog.Infof(ctx, "%d test runs", len(p.TestRuns))
	w := bufio.NewWriter(c.w)
	for _, fname := range p.TestRuns {
		tr, err := xctestrun.Load(fname)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s (format version %d)\n", fname, tr.Metadata.FormatVersion)
		for _, t := range tr.Targets {
			fmt.Fprintf(w, " %d %s", t.RunOrder, t.Name)
			if t.TestConfiguration != "" {
				fmt.Fprintf(w, " [%s]", t.TestConfiguration)
			}
			if t.TestBundlePath != "" {
				fmt.Fprintf(w, ": %s", t.TestBundlePath)
			}
			fmt.Fprintln(w)
		}
	}
	return w.Flush()
}
