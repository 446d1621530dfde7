// Copyright 2026 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package pifcache

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidPath is returned when a path can't be used as a cache root.
	ErrInvalidPath = errors.New("invalid path")

	// ErrMissingStoreDirectory is returned when a cache root lacks
	// one of the workspace, project or target directories.
	ErrMissingStoreDirectory = errors.New("missing PIF cache store directory")

	// ErrUnresolvedReference is returned when a reference can't name
	// a file in a store.
	ErrUnresolvedReference = errors.New("unresolved reference")
)

// DecodeError is an error to read or decode a file in the cache.
type DecodeError struct {
	// Path is the file that failed.
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode %s: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
