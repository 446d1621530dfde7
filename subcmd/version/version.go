// Copyright 2023 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package version provides version subcommand.
package version

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"strings"

	"github.com/maruel/subcommands"
)

func Cmd(ver string) *subcommands.Command {
	return &subcommands.Command{
		UsageLine: "version",
		ShortDesc: "prints the executable version",
		LongDesc:  "Prints the executable version, and the Go version and VCS revision the executable was built with.",
		CommandRun: func() subcommands.CommandRun {
			return &versionRun{
				version:   ver,
				w:         os.Stdout,
				buildInfo: debug.ReadBuildInfo,
			}
		},
	}
}

type versionRun struct {
	subcommands.CommandRunBase
	version   string
	w         io.Writer
	buildInfo func() (*debug.BuildInfo, bool)
}

func (c *versionRun) Run(a subcommands.Application, args []string, env subcommands.Env) int {
	if len(args) != 0 {
		fmt.Fprintf(a.GetErr(), "%s: position arguments not expected\n", a.GetName())
		return 1
	}
	c.print()
	return 0
}

func (c *versionRun) print() {
	fmt.Fprintln(c.w, c.version)
	buildInfo, ok := c.buildInfo()
	if !ok {
		return
	}
	if buildInfo.Main.Version != "" && buildInfo.Main.Version != "(devel)" {
		fmt.Fprintf(c.w, "module\t%s@%s\n", buildInfo.Main.Path, buildInfo.Main.Version)
	}
	if buildInfo.GoVersion != "" {
		fmt.Fprintf(c.w, "go\t%s\n", buildInfo.GoVersion)
	}
	for _, s := range buildInfo.Settings {
		if strings.HasPrefix(s.Key, "vcs.") {
			fmt.Fprintf(c.w, "build\t%s=%s\n", s.Key, s.Value)
		}
	}
}
