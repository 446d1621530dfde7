// Copyright 2024 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package query is query subcommand to inspect the artifacts of a build root.
package query

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/maruel/subcommands"

	"go.chromium.org/infra/build/xcparse/o11y/clog"
)

func Cmd() *subcommands.Command {
	return &subcommands.Command{
		UsageLine: "query <subcommand> ...",
		ShortDesc: "query artifacts of a build root",
		LongDesc:  "query targets, manifest and test runs of a build root, or summarize all of them.",
		CommandRun: func() subcommands.CommandRun {
			c := &run{
				app: &subcommands.DefaultApplication{
					Name:  "xcparse query",
					Title: "tool to inspect artifacts of a build root",
					Commands: []*subcommands.Command{
						cmdManifest(),
						cmdSummary(),
						cmdTargets(),
						cmdTestRuns(),
						subcommands.CmdHelp,
					},
				},
			}
			c.Flags.Usage = func() {
				subcommands.Usage(os.Stderr, c.app, true)
			}
			return c
		},
	}
}

type run struct {
	subcommands.CommandRunBase
	app *subcommands.DefaultApplication
}

func (c *run) Run(a subcommands.Application, args []string, env subcommands.Env) int {
	return subcommands.Run(c.app, args)
}

// exitCode reports err on stderr and returns the exit code for it.
func exitCode(err error, usage string) int {
	if err == nil {
		return 0
	}
	switch {
	case errors.Is(err, flag.ErrHelp):
		fmt.Fprintf(os.Stderr, "%v\n%s\n", err, usage)
	default:
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	return 1
}

// pathArg returns the single <path> argument, and a context with a log
// span for the query.
func pathArg(ctx context.Context, name string, args []string) (context.Context, string, error) {
	if len(args) != 1 {
		return ctx, "", fmt.Errorf("want one <path>, got %d args: %w", len(args), flag.ErrHelp)
	}
	ctx = clog.NewSpan(ctx, uuid.New().String(), "", map[string]string{
		"subcmd": "query " + name,
		"path":   args[0],
	})
	return ctx, args[0], nil
}
