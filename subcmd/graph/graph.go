// Copyright 2026 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package graph is graph subcommand to report the target dependency graph
// of a PIF cache.
package graph

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"
	"github.com/maruel/subcommands"
	"go.chromium.org/luci/common/cli"

	"go.chromium.org/infra/build/xcparse/depgraph"
	"go.chromium.org/infra/build/xcparse/o11y/clog"
	"go.chromium.org/infra/build/xcparse/o11y/iometrics"
	"go.chromium.org/infra/build/xcparse/subcmd/loadflag"
	"go.chromium.org/infra/build/xcparse/ui"
)

// ReportEnv is the environment variable for the default of -report.
const ReportEnv = "XCPARSE_REPORT"

const usage = `report the target dependency graph

 $ xcparse graph [-report none|json] [-pifcache] [-o <file>] <path>

loads the PIF cache of the build root <path> (or the PIF cache directory
<path> with -pifcache), and reports the dependency graph of the targets
of its first workspace.

With -report none, prints a line per dependency
  <name> (<guid>) ~> <name> (<guid>)
followed by the number of dependencies.
With -report json, prints {"nodes": [{"id","name"}...], "links": [{"source","target"}...]}.
A dependency on a target that is not in the workspace has a null target.
`

// Cmd returns the Command for the `graph` subcommand provided by this package.
func Cmd() *subcommands.Command {
	return &subcommands.Command{
		UsageLine: "graph [-report none|json] [-pifcache] [-o <file>] [-j <n>] <path>",
		ShortDesc: "report the target dependency graph",
		LongDesc:  usage,
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

	load   loadflag.Flags
	report string
	output string
}

func (c *run) init() {
	c.load.Register(&c.Flags)
	report := os.Getenv(ReportEnv)
	if report == "" {
		report = "none"
	}
	c.Flags.StringVar(&c.report, "report", report, "report format. none or json. default from $"+ReportEnv)
	c.Flags.StringVar(&c.output, "o", "", "output filename. compressed with zstd if it ends with .zst. stdout if empty")
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
	started := time.Now()
	if len(args) != 1 {
		return fmt.Errorf("want one <path>, got %d args: %w", len(args), flag.ErrHelp)
	}
	switch c.report {
	case "none", "json":
	default:
		return fmt.Errorf("unknown report format %q: %w", c.report, flag.ErrHelp)
	}
	path := args[0]
	ctx = clog.NewSpan(ctx, uuid.New().String(), "", map[string]string{
		"subcmd": "graph",
		"path":   path,
	})
	m := iometrics.New("graph")
	cache, err := c.load.Load(ctx, path, m)
	if err != nil {
		return err
	}
	g, err := depgraph.Build(cache)
	if err != nil {
		return fmt.Errorf("no graph for %s: %w", cache.Root, err)
	}
	for _, col := range g.Collisions {
		clog.Warningf(ctx, "target %s defined in %d projects: %q", col.GUID, len(col.Projects), col.Projects)
		ui.Default.Warningf("target %s is defined in %s; using the last one", col.GUID, strings.Join(col.Projects, ", "))
	}
	clog.Infof(ctx, "graph: %d nodes %d links", len(g.Nodes), len(g.Links))

	return c.write(ctx, m, func(w io.Writer) error {
		if c.report == "json" {
			return g.WriteJSON(w)
		}
		err := g.WriteText(w)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(w, "Ok in %s\n", ui.FormatDuration(time.Since(started)))
		return err
	})
}

// write calls report with the output writer.
func (c *run) write(ctx context.Context, m *iometrics.IOMetrics, report func(io.Writer) error) (err error) {
	if c.output == "" {
		return report(c.w)
	}
	f, err := os.Create(c.output)
	m.OpsDone(err)
	if err != nil {
		return err
	}
	defer func() {
		cerr := f.Close()
		if err == nil {
			err = cerr
		}
		clog.Infof(ctx, "wrote %s: %s", c.output, m.Stats())
	}()
	w := m.Writer(f)
	if !strings.HasSuffix(c.output, ".zst") {
		return report(w)
	}
	zw, err := zstd.NewWriter(w)
	if err != nil {
		return err
	}
	err = report(zw)
	if err != nil {
		zw.Close()
		return err
	}
	return zw.Close()
}
