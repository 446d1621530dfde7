// Copyright 2024 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package runtimex provides the number of CPUs usable by the process,
// counting all Windows processor groups.
package runtimex

import (
	"runtime"
	"sync"
)

var numCPU = sync.OnceValue(func() int {
	if n := activeProcessorCount(); n > 0 {
		return n
	}
	return runtime.NumCPU()
})

// NumCPU returns the number of logical CPUs usable by the current process.
// On Windows, runtime.NumCPU only counts a single processor group (up to
// 64 CPUs); NumCPU counts all groups.
func NumCPU() int {
	return numCPU()
}
