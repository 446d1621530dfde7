// Copyright 2026 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package version

import (
	"bytes"
	"runtime/debug"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestPrint(t *testing.T) {
	for _, tc := range []struct {
		name      string
		buildInfo func() (*debug.BuildInfo, bool)
		want      string
	}{
		{
			name: "no_buildinfo",
			buildInfo: func() (*debug.BuildInfo, bool) {
				return nil, false
			},
			want: "xcparse v1.0.0\n",
		},
		{
			name: "vcs",
			buildInfo: func() (*debug.BuildInfo, bool) {
				return &debug.BuildInfo{
					GoVersion: "go1.24.2",
					Main: debug.Module{
						Path:    "go.chromium.org/infra/build/xcparse",
						Version: "(devel)",
					},
					Settings: []debug.BuildSetting{
						{Key: "-trimpath", Value: "true"},
						{Key: "vcs.revision", Value: "0123abcd"},
						{Key: "vcs.modified", Value: "false"},
					},
				}, true
			},
			want: `xcparse v1.0.0
go	go1.24.2
build	vcs.revision=0123abcd
build	vcs.modified=false
`,
		},
		{
			name: "module_version",
			buildInfo: func() (*debug.BuildInfo, bool) {
				return &debug.BuildInfo{
					Main: debug.Module{
						Path:    "go.chromium.org/infra/build/xcparse",
						Version: "v1.0.0",
					},
				}, true
			},
			want: `xcparse v1.0.0
module	go.chromium.org/infra/build/xcparse@v1.0.0
`,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			c := &versionRun{
				version:   "xcparse v1.0.0",
				w:         &buf,
				buildInfo: tc.buildInfo,
			}
			c.print()
			if diff := cmp.Diff(tc.want, buf.String()); diff != "" {
				t.Errorf("print() diff -want +got:\n%s", diff)
			}
		})
	}
}
