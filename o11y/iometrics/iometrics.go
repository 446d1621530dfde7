// Copyright 2023 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package iometrics counts file system I/O done while loading caches and
// writing reports.
package iometrics

import (
	"fmt"
	"io"
	"sync/atomic"
)

// IOMetrics holds I/O metrics.
// A nil *IOMetrics is valid and counts nothing.
type IOMetrics struct {
	name string

	ops     atomic.Int64
	opsErrs atomic.Int64
	rOps    atomic.Int64
	rBytes  atomic.Int64
	rErrs   atomic.Int64
	wOps    atomic.Int64
	wBytes  atomic.Int64
	wErrs   atomic.Int64
}

// New returns new iometrics for name.
func New(name string) *IOMetrics {
	return &IOMetrics{name: name}
}

// OpsDone counts when a non read/write I/O operation is done. err is an I/O operation error.
// e.g. stat, readdir.
func (m *IOMetrics) OpsDone(err error) {
	if m == nil {
		return
	}
	m.ops.Add(1)
	if err != nil {
		m.opsErrs.Add(1)
	}
}

// ReadDone counts when a read operation is done.
// n is the number of bytes, and err is a read error.
func (m *IOMetrics) ReadDone(n int, err error) {
	if m == nil {
		return
	}
	m.rOps.Add(1)
	m.rBytes.Add(int64(n))
	if err != nil {
		m.rErrs.Add(1)
	}
}

// WriteDone counts when a write operation is done.
// n is the number of bytes, and err is a write error.
func (m *IOMetrics) WriteDone(n int, err error) {
	if m == nil {
		return
	}
	m.wOps.Add(1)
	m.wBytes.Add(int64(n))
	if err != nil {
		m.wErrs.Add(1)
	}
}

// Writer returns w that counts its writes in m.
func (m *IOMetrics) Writer(w io.Writer) io.Writer {
	if m == nil {
		return w
	}
	return &countingWriter{w: w, m: m}
}

type countingWriter struct {
	w io.Writer
	m *IOMetrics
}

func (cw *countingWriter) Write(buf []byte) (int, error) {
	n, err := cw.w.Write(buf)
	cw.m.WriteDone(n, err)
	return n, err
}

// Name returns the name of the iometrics.
func (m *IOMetrics) Name() string {
	if m == nil {
		return "<nil>"
	}
	return m.name
}

// Stats holds iometrics.
type Stats struct {
	// Number of I/O operations other than reads and writes.
	Ops int64
	// Number of I/O operation errors other than read and write errors.
	OpsErrs int64

	// Number of read operations.
	ROps int64
	// Number of read bytes.
	RBytes int64
	// Number of read errors.
	RErrs int64

	// Number of write operations.
	WOps int64
	// Number of write bytes.
	WBytes int64
	// Number of write errors.
	WErrs int64
}

func (s Stats) String() string {
	return fmt.Sprintf("ops=%d(err=%d) read=%d(%dB, err=%d) write=%d(%dB, err=%d)",
		s.Ops, s.OpsErrs, s.ROps, s.RBytes, s.RErrs, s.WOps, s.WBytes, s.WErrs)
}

// Stats returns the snapshot of the iometrics.
func (m *IOMetrics) Stats() Stats {
	if m == nil {
		return Stats{}
	}
	return Stats{
		Ops:     m.ops.Load(),
		OpsErrs: m.opsErrs.Load(),
		ROps:    m.rOps.Load(),
		RBytes:  m.rBytes.Load(),
		RErrs:   m.rErrs.Load(),
		WOps:    m.wOps.Load(),
		WBytes:  m.wBytes.Load(),
		WErrs:   m.wErrs.Load(),
	}
}
