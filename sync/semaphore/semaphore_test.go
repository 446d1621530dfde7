// Copyright 2023 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package semaphore_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go.chromium.org/infra/build/xcparse/sync/semaphore"
)

func TestNew(t *testing.T) {
	sema := semaphore.New(t.Name(), 3)
	if name := sema.Name(); name != t.Name() {
		t.Errorf("Name=%q; want %q", name, t.Name())
	}
	if n := sema.Capacity(); n != 3 {
		t.Errorf("Capacity=%d; want %d", n, 3)
	}
	sema = semaphore.New(t.Name(), 0)
	if n := sema.Capacity(); n <= 0 {
		t.Errorf("Capacity=%d; want >0", n)
	}
}

func TestString(t *testing.T) {
	ctx := context.Background()
	sema := semaphore.New("pifcache-read", 2)
	err := sema.Do(ctx, func(ctx context.Context) error {
		if got, want := sema.String(), "pifcache-read: capacity=2 servs=1 waits=0 requests=1"; got != want {
			t.Errorf("String=%q; want %q", got, want)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Do=%v; want nil", err)
	}
	if got, want := sema.String(), "pifcache-read: capacity=2 servs=0 waits=0 requests=1"; got != want {
		t.Errorf("String=%q; want %q", got, want)
	}
}

func TestWaitAcquire(t *testing.T) {
	ctx := context.Background()
	sema := semaphore.New(t.Name(), 3)

	var releases []func()
	for i := range 3 {
		release, err := sema.WaitAcquire(ctx)
		if err != nil {
			t.Fatalf("WaitAcquire %d: %v", i, err)
		}
		releases = append(releases, release)
		if n := sema.NumServs(); n != i+1 {
			t.Errorf("NumServs=%d; want %d", n, i+1)
		}
		if n := sema.NumRequests(); n != i+1 {
			t.Errorf("NumRequests=%d; want %d", n, i+1)
		}
	}

	func() {
		ctx, cancel := context.WithTimeout(ctx, 100*time.Millisecond)
		defer cancel()
		_, err := sema.WaitAcquire(ctx)
		if !errors.Is(err, context.DeadlineExceeded) {
			t.Fatalf("WaitAcquire=%v; want %v", err, context.DeadlineExceeded)
		}
		if n := sema.NumServs(); n != 3 {
			t.Errorf("NumServs=%d; want %d", n, 3)
		}
		if n := sema.NumWaits(); n != 0 {
			t.Errorf("NumWaits=%d; want %d", n, 0)
		}
	}()

	for _, release := range releases {
		release()
	}
	if n := sema.NumServs(); n != 0 {
		t.Errorf("NumServs=%d; want %d", n, 0)
	}
}

func TestDo(t *testing.T) {
	ctx := context.Background()
	sema := semaphore.New(t.Name(), 2)

	var cur, peak atomic.Int64
	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := sema.Do(ctx, func(ctx context.Context) error {
				n := cur.Add(1)
				for {
					p := peak.Load()
					if n <= p || peak.CompareAndSwap(p, n) {
						break
					}
				}
				time.Sleep(time.Millisecond)
				cur.Add(-1)
				return nil
			})
			if err != nil {
				t.Errorf("Do=%v; want nil", err)
			}
		}()
	}
	wg.Wait()
	if p := peak.Load(); p > 2 {
		t.Errorf("peak concurrency=%d; want <= 2", p)
	}
	if n := sema.NumRequests(); n != 10 {
		t.Errorf("NumRequests=%d; want 10", n)
	}
}
