// Copyright 2024 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package query

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path"

	"github.com/maruel/subcommands"
	"go.chromium.org/luci/common/cli"

	"go.chromium.org/infra/build/xcparse/pifcache"
	"go.chromium.org/infra/build/xcparse/subcmd/loadflag"
)

const targetsUsage = `list targets per project

 $ xcparse query targets [-pifcache] [-deps] [-files] <path>

prints workspaces, their projects and the targets of the projects in the
PIF cache of the build root <path> (or the PIF cache directory <path>
with -pifcache).
With -files, also prints the files in the group tree of each project.
`

// cmdTargets returns the Command for the `targets` subcommand provided by this package.
func cmdTargets() *subcommands.Command {
	return &subcommands.Command{
		UsageLine: "targets [-pifcache] [-deps] [-files] [-j <n>] <path>",
		ShortDesc: "list targets per project",
		LongDesc:  targetsUsage,
		CommandRun: func() subcommands.CommandRun {
			c := &targetsRun{w: os.Stdout}
			c.init()
			return c
		},
	}
}

type targetsRun struct {
	subcommands.CommandRunBase
	w io.Writer

	load  loadflag.Flags
	deps  bool
	files bool
}

func (c *targetsRun) init() {
	c.load.Register(&c.Flags)
	c.Flags.BoolVar(&c.deps, "deps", false, "list dependencies of each target")
	c.Flags.BoolVar(&c.files, "files", false, "list files in the group tree of each project")
}

func (c *targetsRun) Run(a subcommands.Application, args []string, env subcommands.Env) int {
	ctx := cli.GetContext(a, c, env)
	return exitCode(c.run(ctx, args), targetsUsage)
}

func (c *targetsRun) run(ctx context.Context, args []string) error {
	ctx, root, err := pathArg(ctx, "targets", args)
	if err != nil {
		return err
	}
	cache, err := c.load.Load(ctx, root, nil)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(c.w)
	for _, ws := range cache.Workspaces {
		fmt.Fprintf(w, "%s (%s)\n", ws.Name, ws.Path)
		for _, p := range ws.Projects {
			fmt.Fprintf(w, " %s\n", p.Path)
			if c.files {
				err := printFiles(w, p)
				if err != nil {
					return err
				}
			}
			for _, t := range p.Targets {
				c.printTarget(w, t)
			}
		}
	}
	return w.Flush()
}

func (c *targetsRun) printTarget(w io.Writer, t *pifcache.Target) {
	typ := t.Type
	if t.ProductTypeIdentifier != "" {
		typ = t.ProductTypeIdentifier
	}
	fmt.Fprintf(w, "  %s (%s): %s\n", t.Name, t.GUID, typ)
	if !c.deps {
		return
	}
	for _, d := range t.Dependencies {
		fmt.Fprintf(w, "   %s\n", d)
	}
}

// printFiles prints file references in the group tree of p, with the
// paths of their groups.
func printFiles(w io.Writer, p *pifcache.Project) error {
	return p.GroupTree.Walk(func(parents []*pifcache.GroupTreeChild, c *pifcache.GroupTreeChild) error {
		if c.Type != "file" {
			return nil
		}
		elems := make([]string, 0, len(parents)+1)
		for _, g := range parents {
			if g.Path != "" {
				elems = append(elems, g.Path)
			}
		}
		elems = append(elems, c.Path)
		_, err := fmt.Fprintf(w, "  file %s\n", path.Join(elems...))
		return err
	})
}
