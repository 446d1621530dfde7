// Copyright 2026 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package main

import (
	"context"
	"runtime/debug"
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestGetApplication(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	app := getApplication(ctx)
	var names []string
	for _, c := range app.GetCommands() {
		names = append(names, c.Name())
	}
	sort.Strings(names)
	want := []string{"digraph", "graph", "help", "query", "version"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Errorf("commands diff -want +got:\n%s", diff)
	}
	cmdCtx := app.ModifyContext(context.Background())
	cancel()
	if cmdCtx.Err() == nil {
		t.Errorf("command context is not canceled with the application context")
	}
	for _, env := range []string{"XCPARSE_JOBS", "XCPARSE_REPORT"} {
		if _, ok := app.GetEnvVars()[env]; !ok {
			t.Errorf("env var %s is not declared", env)
		}
	}
}

func TestVCSInfo(t *testing.T) {
	bi := &debug.BuildInfo{
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "0123abcd"},
			{Key: "vcs.time", Value: "2026-01-02T03:04:05Z"},
			{Key: "vcs.modified", Value: "true"},
			{Key: "GOOS", Value: "darwin"},
		},
	}
	got := vcsInfo(bi)
	want := "vcs[revision=0123abcd time=2026-01-02T03:04:05Z modified=true]"
	if got != want {
		t.Errorf("vcsInfo()=%q; want %q", got, want)
	}
	if got, want := moduleInfo(nil), "<nil>"; got != want {
		t.Errorf("moduleInfo(nil)=%q; want %q", got, want)
	}
}
