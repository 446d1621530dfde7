// Copyright 2026 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package loadflag provides flags to load a PIF cache, shared by
// subcommands.
package loadflag

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"

	log "github.com/golang/glog"

	"go.chromium.org/infra/build/xcparse/deriveddata"
	"go.chromium.org/infra/build/xcparse/o11y/clog"
	"go.chromium.org/infra/build/xcparse/o11y/iometrics"
	"go.chromium.org/infra/build/xcparse/pifcache"
	"go.chromium.org/infra/build/xcparse/sync/semaphore"
	"go.chromium.org/infra/build/xcparse/ui"
)

// JobsEnv is the environment variable for the default of -j.
const JobsEnv = "XCPARSE_JOBS"

// Flags are flags to locate and load a PIF cache.
type Flags struct {
	PIFCache bool
	Jobs     int
}

// Register registers the flags in fs.
func (f *Flags) Register(fs *flag.FlagSet) {
	fs.BoolVar(&f.PIFCache, "pifcache", false, "<path> is a PIF cache directory, not a build root")
	f.RegisterJobs(fs)
}

// RegisterJobs registers only the -j flag in fs.
func (f *Flags) RegisterJobs(fs *flag.FlagSet) {
	fs.IntVar(&f.Jobs, "j", defaultJobs(), "max number of files read concurrently. 0 uses the number of CPUs. default from $"+JobsEnv)
}

func defaultJobs() int {
	v := os.Getenv(JobsEnv)
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Warningf("$%s=%q is not a number, use the number of CPUs: %v", JobsEnv, v, err)
		return 0
	}
	return n
}

// Load loads the PIF cache at path, reporting progress on the UI.
// m may be nil.
func (f *Flags) Load(ctx context.Context, path string, m *iometrics.IOMetrics) (*pifcache.Cache, error) {
	_, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("path %q: %w", path, err)
	}
	clog.Infof(ctx, "load pifcache=%t jobs=%d", f.PIFCache, f.Jobs)
	spin := ui.Default.NewSpinner()
	spin.Start("loading PIF cache %s", ui.SGR(ui.Bold, path))
	sema := semaphore.New("pifcache-read", f.Jobs)
	cache, err := deriveddata.LoadPIFCache(ctx, path, f.PIFCache, pifcache.Option{
		IOMetrics: m,
		Semaphore: sema,
	})
	if err != nil {
		spin.Stop(err)
		return nil, err
	}
	spin.Done("%d workspaces", len(cache.Workspaces))
	clog.Infof(ctx, "loaded %s: %d workspaces %s", cache.Root, len(cache.Workspaces), m.Stats())
	clog.Infof(ctx, "%s", sema)
	if logger := clog.FromContext(ctx); logger.V(1) {
		for _, ws := range cache.Workspaces {
			for _, p := range ws.Projects {
				logger.Infof("workspace %s project %s: %d targets", ws.GUID, p.Path, len(p.Targets))
			}
		}
	}
	return cache, nil
}
