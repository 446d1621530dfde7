// Copyright 2023 The Chromium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// xcparse inspects the build artifacts of a derived data directory:
// the PIF cache, the xcbuild manifest and the test runs.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"runtime"
	"runtime/debug"
	"strings"

	log "github.com/golang/glog"
	"github.com/maruel/subcommands"
	"go.chromium.org/luci/common/cli"
	"go.chromium.org/luci/common/system/signals"

	"go.chromium.org/infra/build/xcparse/o11y/clog"
	"go.chromium.org/infra/build/xcparse/subcmd/digraph"
	"go.chromium.org/infra/build/xcparse/subcmd/graph"
	"go.chromium.org/infra/build/xcparse/subcmd/help"
	"go.chromium.org/infra/build/xcparse/subcmd/loadflag"
	"go.chromium.org/infra/build/xcparse/subcmd/query"
	"go.chromium.org/infra/build/xcparse/subcmd/version"
	"go.chromium.org/infra/build/xcparse/ui"
)

const xcparseVersion = "v1.0.0"

// getApplication returns the application whose commands run with a
// context derived from ctx.
func getApplication(ctx context.Context) *cli.Application {
	return &cli.Application{
		Name:  "xcparse",
		Title: "inspect PIF cache, xcbuild manifest and test runs of derived data",
		Context: func(context.Context) context.Context {
			return clog.NewContext(ctx, clog.New())
		},
		Commands: []*subcommands.Command{
			graph.Cmd(),
			query.Cmd(),
			digraph.Cmd(),

			help.Cmd(),
			version.Cmd(fmt.Sprintf("xcparse %s", xcparseVersion)),
		},
		EnvVars: map[string]subcommands.EnvVarDefinition{
			loadflag.JobsEnv: {
				ShortDesc: "default of -j: max number of files read concurrently",
			},
			graph.ReportEnv: {
				ShortDesc: "default of graph -report",
				Default:   "none",
			},
		},
	}
}

func main() {
	os.Exit(xcparseMain())
}

func xcparseMain() int {
	flag.Usage = func() {
		out := flag.CommandLine.Output()
		fmt.Fprintf(out, "Usage of %s:\n", os.Args[0])
		fmt.Fprintf(out, "global flags, given before the command:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	ui.Init()
	defer ui.Restore()

	// Flush the log on exit to not lose any messages.
	defer log.Flush()

	// Print a stack trace when a panic occurs.
	defer func() {
		if r := recover(); r != nil {
			const size = 64 << 10
			buf := make([]byte, size)
			buf = buf[:runtime.Stack(buf, false)]
			log.Fatalf("panic: %v\n%s", r, buf)
		}
	}()

	// Print build information to the log.
	buildinfo, ok := debug.ReadBuildInfo()
	if ok {
		log.Infof("main module: %s %s", moduleInfo(&buildinfo.Main), vcsInfo(buildinfo))
		if log.V(1) {
			for _, m := range buildinfo.Deps {
				log.Infof("deps module: %s", moduleInfo(m))
			}
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	defer signals.HandleInterrupt(cancel)()

	return subcommands.Run(getApplication(ctx), flag.Args())
}

func moduleInfo(m *debug.Module) string {
	if m == nil {
		return "<nil>"
	}
	return fmt.Sprintf("path:%s version:%s sum:%s replace:%s", m.Path, m.Version, m.Sum, moduleInfo(m.Replace))
}

func vcsInfo(buildinfo *debug.BuildInfo) string {
	m := make(map[string]string)
	for _, bs := range buildinfo.Settings {
		if strings.HasPrefix(bs.Key, "vcs.") {
			m[bs.Key] = bs.Value
		}
	}
	return fmt.Sprintf("vcs[revision=%s time=%s modified=%s]", m["vcs.revision"], m["vcs.time"], m["vcs.modified"])
}
