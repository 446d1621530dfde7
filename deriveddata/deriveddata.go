// Copyright 2026 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package deriveddata loads the build artifacts found in a derived data
// build root.
package deriveddata

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"go.chromium.org/infra/build/xcparse/manifest"
	"go.chromium.org/infra/build/xcparse/pifcache"
	"go.chromium.org/infra/build/xcparse/xctestrun"
)

// ErrInvalidPath is returned when a directory is not a usable build root.
var ErrInvalidPath = errors.New("invalid derived data path")

const (
	buildDataDir   = "Build/Intermediates.noindex/XCBuildData"
	productsDir    = "Build/Products"
	manifestSuffix = "-manifest.xcbuild"
	pifCacheName   = "PIFCache"
	testRunSuffix  = ".xctestrun"
)

// DerivedData is the loaded content of a build root.
type DerivedData struct {
	Root     string
	Manifest *manifest.Manifest
	PIFCache *pifcache.Cache
	// TestRuns are keyed by file path.
	TestRuns map[string]*xctestrun.TestRun
}

// Paths are the locations of the artifacts in a build root.
type Paths struct {
	Manifest string
	PIFCache string
	TestRuns []string
}

// Find locates the artifacts in the build root.
func Find(root string) (Paths, error) {
	var p Paths
	dir := filepath.Join(root, filepath.FromSlash(buildDataDir))
	ents, err := os.ReadDir(dir)
	if err != nil {
		return p, fmt.Errorf("%w: %s: %w", ErrInvalidPath, root, err)
	}
	for _, ent := range ents {
		name := ent.Name()
		if p.Manifest == "" && strings.HasSuffix(name, manifestSuffix) {
			p.Manifest = filepath.Join(dir, name)
		}
		if p.PIFCache == "" && strings.Contains(name, pifCacheName) {
			p.PIFCache = filepath.Join(dir, name)
		}
	}
	if p.Manifest == "" {
		return p, fmt.Errorf("%w: %s: no *%s in %s", ErrInvalidPath, root, manifestSuffix, buildDataDir)
	}
	if p.PIFCache == "" {
		return p, fmt.Errorf("%w: %s: no %s in %s", ErrInvalidPath, root, pifCacheName, buildDataDir)
	}

	dir = filepath.Join(root, filepath.FromSlash(productsDir))
	ents, err = os.ReadDir(dir)
	if errors.Is(err, os.ErrNotExist) {
		return p, nil
	}
	if err != nil {
		return p, err
	}
	for _, ent := range ents {
		if !ent.Type().IsRegular() || !strings.HasSuffix(ent.Name(), testRunSuffix) {
			continue
		}
		p.TestRuns = append(p.TestRuns, filepath.Join(dir, ent.Name()))
	}
	return p, nil
}

// FindPIFCache returns the PIF cache directory of the build root.
func FindPIFCache(root string) (string, error) {
	p, err := Find(root)
	if err != nil {
		return "", err
	}
	return p.PIFCache, nil
}

// Load loads the manifest, the PIF cache and the test runs of the build
// root concurrently.
func Load(ctx context.Context, root string, opt pifcache.Option) (*DerivedData, error) {
	p, err := Find(root)
	if err != nil {
		return nil, err
	}
	dd := &DerivedData{
		Root:     root,
		TestRuns: make(map[string]*xctestrun.TestRun),
	}
	testRuns := make([]*xctestrun.TestRun, len(p.TestRuns))

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		dd.Manifest, err = manifest.Load(p.Manifest)
		return err
	})
	eg.Go(func() error {
		var err error
		dd.PIFCache, err = pifcache.Load(ctx, p.PIFCache, opt)
		return err
	})
	eg.Go(func() error {
		for i, fname := range p.TestRuns {
			if err := context.Cause(ctx); err != nil {
				return err
			}
			var err error
			testRuns[i], err = xctestrun.Load(fname)
			if err != nil {
				return err
			}
		}
		return nil
	})
	err = eg.Wait()
	if err != nil {
		return nil, err
	}
	for i, fname := range p.TestRuns {
		dd.TestRuns[fname] = testRuns[i]
	}
	return dd, nil
}

// TestRunPaths returns the test run file paths in sorted order.
func (dd *DerivedData) TestRunPaths() []string {
	paths := make([]string, 0, len(dd.TestRuns))
	for p := range dd.TestRuns {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// LoadPIFCache loads the PIF cache of the build root. If isPIFCache,
// path is the PIF cache directory itself.
func LoadPIFCache(ctx context.Context, path string, isPIFCache bool, opt pifcache.Option) (*pifcache.Cache, error) {
	dir := path
	if !isPIFCache {
		var err error
		dir, err = FindPIFCache(path)
		if err != nil {
			return nil, err
		}
	}
	return pifcache.Load(ctx, dir, opt)
}
