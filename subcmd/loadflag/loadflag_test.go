// Copyright 2026 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package loadflag

import (
	"context"
	"errors"
	"flag"
	"os"
	"testing"

	"github.com/google/go-cmp/cmp"

	"go.chromium.org/infra/build/xcparse/o11y/iometrics"
	"go.chromium.org/infra/build/xcparse/pifcache/pifcachetest"
)

func TestRegister_Jobs(t *testing.T) {
	for _, tc := range []struct {
		name string
		env  string
		args []string
		want int
	}{
		{
			name: "unset",
			want: 0,
		},
		{
			name: "env",
			env:  "4",
			want: 4,
		},
		{
			name: "env_not_number",
			env:  "four",
			want: 0,
		},
		{
			name: "flag_overrides_env",
			env:  "4",
			args: []string{"-j", "2"},
			want: 2,
		},
		{
			name: "flag_overrides_bad_env",
			env:  "x",
			args: []string{"-j", "3"},
			want: 3,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv(JobsEnv, tc.env)
			var f Flags
			fs := flag.NewFlagSet(tc.name, flag.ContinueOnError)
			f.Register(fs)
			err := fs.Parse(tc.args)
			if err != nil {
				t.Fatalf("Parse(%q)=%v; want nil", tc.args, err)
			}
			if f.Jobs != tc.want {
				t.Errorf("$%s=%q %q: Jobs=%d; want %d", JobsEnv, tc.env, tc.args, f.Jobs, tc.want)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	ctx := context.Background()
	c := pifcachetest.New(t, t.TempDir())
	c.Workspace("WS", pifcachetest.Workspace{GUID: "W1", Name: "App", Path: "/src", Projects: []string{"P"}})
	c.Project("P", pifcachetest.Project{GUID: "PA", Path: "/src/App.xcodeproj", Targets: []string{"T"}})
	c.Target("T", pifcachetest.Target{GUID: "T1", Name: "App"})

	f := Flags{PIFCache: true, Jobs: 1}
	m := iometrics.New("pifcache")
	cache, err := f.Load(ctx, c.Root, m)
	if err != nil {
		t.Fatalf("Load(%q)=_, %v; want nil err", c.Root, err)
	}
	var got []string
	for _, ws := range cache.Workspaces {
		for _, p := range ws.Projects {
			for _, tgt := range p.Targets {
				got = append(got, ws.GUID+"/"+p.GUID+"/"+tgt.GUID)
			}
		}
	}
	if diff := cmp.Diff([]string{"W1/PA/T1"}, got); diff != "" {
		t.Errorf("Load targets diff -want +got:\n%s", diff)
	}

	_, err = f.Load(ctx, c.Root+"-missing", nil)
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Load(missing)=_, %v; want %v", err, os.ErrNotExist)
	}
}
