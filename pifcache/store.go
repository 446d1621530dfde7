// Copyright 2026 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package pifcache

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"go.chromium.org/infra/build/xcparse/o11y/iometrics"
	"go.chromium.org/infra/build/xcparse/sync/semaphore"
)

// Kind is a kind of objects in a store.
type Kind string

const (
	WorkspaceKind Kind = "workspace"
	ProjectKind   Kind = "project"
	TargetKind    Kind = "target"
)

// fileSuffix is appended to a reference to name its file.
const fileSuffix = "-json"

// Store is a directory of objects of one kind in the PIF cache.
type Store struct {
	kind Kind
	dir  string

	sema      *semaphore.Semaphore
	ioMetrics *iometrics.IOMetrics
}

// NewStore returns a store of kind in dir.
// It returns ErrMissingStoreDirectory if dir is not a directory.
func NewStore(kind Kind, dir string, opt Option) (*Store, error) {
	fi, err := os.Stat(dir)
	opt.IOMetrics.OpsDone(err)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrMissingStoreDirectory, kind, err)
	}
	if !fi.IsDir() {
		return nil, fmt.Errorf("%w: %s: %s is not a directory", ErrMissingStoreDirectory, kind, dir)
	}
	return &Store{
		kind:      kind,
		dir:       dir,
		sema:      opt.semaphore(),
		ioMetrics: opt.IOMetrics,
	}, nil
}

// Kind returns the kind of objects in the store.
func (s *Store) Kind() Kind {
	return s.kind
}

// Dir returns the directory of the store.
func (s *Store) Dir() string {
	return s.dir
}

// Path returns the path of the file named by ref.
func (s *Store) Path(ref string) (string, error) {
	switch {
	case ref == "", ref == ".", ref == "..":
		return "", fmt.Errorf("%w: %q in %s store", ErrUnresolvedReference, ref, s.kind)
	case strings.ContainsAny(ref, `/\`), strings.ContainsRune(ref, 0):
		return "", fmt.Errorf("%w: %q in %s store: not a file name", ErrUnresolvedReference, ref, s.kind)
	}
	return filepath.Join(s.dir, ref+fileSuffix), nil
}

// readFile reads the file at path while holding a slot of the read semaphore.
func (s *Store) readFile(ctx context.Context, path string) ([]byte, error) {
	var buf []byte
	err := s.sema.Do(ctx, func(ctx context.Context) error {
		var err error
		buf, err = os.ReadFile(path)
		s.ioMetrics.ReadDone(len(buf), err)
		return err
	})
	return buf, err
}

// decodeFile reads the file at path and decodes it as T.
func decodeFile[T any](ctx context.Context, s *Store, path string) (T, error) {
	var v T
	err := context.Cause(ctx)
	if err != nil {
		return v, err
	}
	buf, err := s.readFile(ctx, path)
	if err != nil {
		if ctx.Err() != nil {
			return v, err
		}
		return v, &DecodeError{Path: path, Err: err}
	}
	if bytes.Equal(bytes.TrimSpace(buf), []byte("null")) {
		return v, &DecodeError{Path: path, Err: errors.New("null object")}
	}
	err = json.Unmarshal(buf, &v)
	if err != nil {
		return v, &DecodeError{Path: path, Err: err}
	}
	return v, nil
}

// Resolve loads the object named by ref from the store and decodes it as T.
// Nested references of T are not resolved.
//
// It returns an error wrapping ErrUnresolvedReference if ref can't name a
// file, or a *DecodeError if the file is missing, unreadable or
// doesn't match T.
func Resolve[T any](ctx context.Context, s *Store, ref string) (T, error) {
	path, err := s.Path(ref)
	if err != nil {
		var v T
		return v, err
	}
	return decodeFile[T](ctx, s, path)
}

// ResolveAll resolves refs concurrently.
// The i-th element of the result is the object named by refs[i].
// It fails with the first error of any reference.
func ResolveAll[T any](ctx context.Context, s *Store, refs []string) ([]T, error) {
	return resolveAll(ctx, refs, func(ctx context.Context, ref string) (T, error) {
		return Resolve[T](ctx, s, ref)
	})
}

// resolveAll calls resolve for each ref concurrently, and collects the
// results in the order of refs.
func resolveAll[T any](ctx context.Context, refs []string, resolve func(context.Context, string) (T, error)) ([]T, error) {
	out := make([]T, len(refs))
	eg, gctx := errgroup.WithContext(ctx)
	for i, ref := range refs {
		eg.Go(func() error {
			v, err := resolve(gctx, ref)
			if err != nil {
				return err
			}
			out[i] = v
			return nil
		})
	}
	err := eg.Wait()
	if err != nil {
		return nil, err
	}
	return out, nil
}
