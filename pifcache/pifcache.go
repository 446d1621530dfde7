// Copyright 2026 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package pifcache loads a PIF (project interchange format) cache of
// xcbuild.
//
// A PIF cache has three stores of JSON files:
//
//	<root>/workspace/<ref>-json
//	<root>/project/<ref>-json
//	<root>/target/<ref>-json
//
// A workspace refers its projects, and a project refers its targets, by
// references naming files in the respective store. Load resolves all
// references and returns fully hydrated workspaces.
package pifcache

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.chromium.org/infra/build/xcparse/o11y/iometrics"
	"go.chromium.org/infra/build/xcparse/sync/semaphore"
)

// Option is an option to load a PIF cache.
type Option struct {
	// Concurrency is the max number of files read concurrently.
	// If <= 0, the number of CPUs is used.
	Concurrency int

	// IOMetrics counts file system access, if not nil.
	IOMetrics *iometrics.IOMetrics

	// Semaphore bounds file reads, if not nil. Concurrency is
	// ignored if it is set.
	Semaphore *semaphore.Semaphore
}

func (o Option) semaphore() *semaphore.Semaphore {
	if o.Semaphore != nil {
		return o.Semaphore
	}
	return semaphore.New("pifcache-read", o.Concurrency)
}

// Cache is a loaded PIF cache.
//
// Loading is expensive, as it reads every workspace, project and target
// file. Callers should load once and reuse the result.
type Cache struct {
	// Root is the cache directory.
	Root string

	// Workspaces are in the order of file names in the workspace store.
	Workspaces []*Workspace
}

// Load loads the PIF cache in dir.
//
// Any error in any file aborts the load. The error from the innermost
// failure is returned as is; a *DecodeError carries the path of the
// failed file.
func Load(ctx context.Context, dir string, opt Option) (*Cache, error) {
	if dir == "" {
		return nil, fmt.Errorf("%w: empty PIF cache path", ErrInvalidPath)
	}
	fi, err := os.Stat(dir)
	opt.IOMetrics.OpsDone(err)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPath, err)
	}
	if !fi.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrInvalidPath, dir)
	}
	opt.Semaphore = opt.semaphore()

	l := &loader{}
	for _, s := range []struct {
		store **Store
		kind  Kind
	}{
		{&l.workspaces, WorkspaceKind},
		{&l.projects, ProjectKind},
		{&l.targets, TargetKind},
	} {
		*s.store, err = NewStore(s.kind, filepath.Join(dir, string(s.kind)), opt)
		if err != nil {
			return nil, err
		}
	}

	paths, err := l.workspaceFiles()
	if err != nil {
		return nil, err
	}
	workspaces, err := resolveAll(ctx, paths, l.workspace)
	if err != nil {
		return nil, err
	}
	return &Cache{
		Root:       dir,
		Workspaces: workspaces,
	}, nil
}

type loader struct {
	workspaces *Store
	projects   *Store
	targets    *Store
}

// workspaceFiles returns paths of regular files directly in the workspace store.
func (l *loader) workspaceFiles() ([]string, error) {
	ents, err := os.ReadDir(l.workspaces.dir)
	l.workspaces.ioMetrics.OpsDone(err)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPath, err)
	}
	var paths []string
	for _, ent := range ents {
		if !ent.Type().IsRegular() {
			continue
		}
		paths = append(paths, filepath.Join(l.workspaces.dir, ent.Name()))
	}
	return paths, nil
}

func (l *loader) workspace(ctx context.Context, path string) (*Workspace, error) {
	raw, err := decodeFile[rawWorkspace](ctx, l.workspaces, path)
	if err != nil {
		return nil, err
	}
	projects, err := resolveAll(ctx, raw.Projects, l.project)
	if err != nil {
		return nil, err
	}
	return &Workspace{
		GUID:     raw.GUID,
		Name:     raw.Name,
		Path:     raw.Path,
		Projects: projects,
	}, nil
}

func (l *loader) project(ctx context.Context, ref string) (*Project, error) {
	raw, err := Resolve[rawProject](ctx, l.projects, ref)
	if err != nil {
		return nil, err
	}
	targets, err := ResolveAll[*Target](ctx, l.targets, raw.Targets)
	if err != nil {
		return nil, err
	}
	return raw.hydrate(targets), nil
}
