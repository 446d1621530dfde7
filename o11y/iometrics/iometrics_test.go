// Copyright 2026 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package iometrics

import (
	"bytes"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestIOMetrics(t *testing.T) {
	m := New("pifcache")
	m.OpsDone(nil)
	m.OpsDone(errors.New("stat failed"))
	m.ReadDone(10, nil)
	m.ReadDone(0, errors.New("read failed"))

	var buf bytes.Buffer
	w := m.Writer(&buf)
	if _, err := w.Write([]byte("hello")); err != nil {
		t.Fatalf("Write=%v", err)
	}

	want := Stats{
		Ops:     2,
		OpsErrs: 1,
		ROps:    2,
		RBytes:  10,
		RErrs:   1,
		WOps:    1,
		WBytes:  5,
	}
	if diff := cmp.Diff(want, m.Stats()); diff != "" {
		t.Errorf("Stats diff -want +got:\n%s", diff)
	}
	if buf.String() != "hello" {
		t.Errorf("written=%q; want %q", buf.String(), "hello")
	}
}

func TestIOMetrics_Nil(t *testing.T) {
	var m *IOMetrics
	m.OpsDone(nil)
	m.ReadDone(1, nil)
	m.WriteDone(1, nil)
	if got := m.Name(); got != "<nil>" {
		t.Errorf("Name()=%q; want <nil>", got)
	}
	if got := m.Stats(); got != (Stats{}) {
		t.Errorf("Stats()=%v; want zero", got)
	}
	var buf bytes.Buffer
	if w := m.Writer(&buf); w != &buf {
		t.Errorf("Writer(buf) on nil metrics should return buf")
	}
}
