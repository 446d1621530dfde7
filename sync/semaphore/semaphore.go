// Copyright 2023 The Chromium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package semaphore provides a counting semaphore to bound concurrent
// file reads.
package semaphore

import (
	"context"
	"fmt"
	"sync/atomic"

	"go.chromium.org/infra/build/xcparse/runtimex"
)

// Semaphore is a named counting semaphore.
type Semaphore struct {
	name  string
	slots chan struct{}

	waits atomic.Int64
	reqs  atomic.Int64
}

// New creates a new semaphore with name and capacity.
// If n <= 0, capacity is the number of CPUs.
func New(name string, n int) *Semaphore {
	if n <= 0 {
		n = runtimex.NumCPU()
	}
	return &Semaphore{
		name:  name,
		slots: make(chan struct{}, n),
	}
}

// WaitAcquire acquires a slot of the semaphore.
// It returns a func to release the slot.
// If ctx is done before a slot is available, it returns context.Cause(ctx).
func (s *Semaphore) WaitAcquire(ctx context.Context) (func(), error) {
	s.waits.Add(1)
	defer s.waits.Add(-1)
	select {
	case s.slots <- struct{}{}:
		s.reqs.Add(1)
		return func() { <-s.slots }, nil
	case <-ctx.Done():
		return func() {}, context.Cause(ctx)
	}
}

// Do runs f while holding a slot of the semaphore.
func (s *Semaphore) Do(ctx context.Context, f func(ctx context.Context) error) error {
	release, err := s.WaitAcquire(ctx)
	if err != nil {
		return err
	}
	defer release()
	return f(ctx)
}

// String returns the name and the stats of the semaphore.
func (s *Semaphore) String() string {
	return fmt.Sprintf("%s: capacity=%d servs=%d waits=%d requests=%d", s.Name(), s.Capacity(), s.NumServs(), s.NumWaits(), s.NumRequests())
}

// Name returns name of the semaphore.
func (s *Semaphore) Name() string {
	return s.name
}

// Capacity returns capacity of the semaphore.
func (s *Semaphore) Capacity() int {
	if s == nil {
		return 0
	}
	return cap(s.slots)
}

// NumServs returns number of slots currently held.
func (s *Semaphore) NumServs() int {
	return len(s.slots)
}

// NumWaits returns number of waiters.
func (s *Semaphore) NumWaits() int {
	return int(s.waits.Load())
}

// NumRequests returns total number of acquired requests.
func (s *Semaphore) NumRequests() int {
	return int(s.reqs.Load())
}
