// Copyright 2023 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package ui

import "testing"

func TestElideMiddle(t *testing.T) {
	for _, tc := range []struct {
		msg   string
		width int
		want  string
	}{
		{
			msg:   "loading PIF cache /Users/dev/Library/Developer/Xcode/DerivedData/App-abcdefghijklmnop/Build/Intermediates.noindex/XCBuildData/PIFCache",
			width: 40,
			want:  "loading PIF cache ...BuildData/PIFCache",
		},
		{
			msg:   "graph: \033[32m12\033[0m nodes \033[32m34\033[0m links",
			width: 80,
			want:  "graph: \033[32m12\033[0m nodes \033[32m34\033[0m links",
		},
		{
			msg:   "pre: 0 local:\033[41m653\033[0m remote:\033[41m12345\033[0m",
			width: 18,
			want:  "pre: 0 ...e:\033[41m12345\033[0m",
		},
	} {
		got := elideMiddle(tc.msg, tc.width)
		if got != tc.want {
			t.Errorf("elideMiddle(%q, %d)=%q; want %q\nmsg:\n%s\ngot:\n%s", tc.msg, tc.width, got, tc.want, tc.msg, got)
		}
	}
}
