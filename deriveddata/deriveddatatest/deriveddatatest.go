// Copyright 2026 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package deriveddatatest writes derived data build root fixtures for tests.
package deriveddatatest

import (
	"os"
	"path/filepath"
	"testing"

	"go.chromium.org/infra/build/xcparse/pifcache/pifcachetest"
)

// Manifest is a minimal xcbuild manifest with one shell command.
const Manifest = `client:
  name: basic
  version: 0
  file-system: default
targets:
  "": ["<all>"]
nodes:
  "/build/App.app": {"is-mutated": true}
commands:
  "<all>":
    tool: phony
    inputs: ["/build/App.app"]
    outputs: ["<all>"]
  "P0:target-App:Debug:Ld":
    tool: shell
    description: "Ld /build/App.app/App normal"
    inputs: ["/build/main.o"]
    outputs: ["/build/App.app/App"]
    args: ["clang", "-o", "/build/App.app/App", "/build/main.o"]
`

// TestRun is a minimal .xctestrun property list with one target.
const TestRun = `<?xml version="1.0" encoding="UTF-8"?>
<plist version="1.0">
<dict>
	<key>AppTests</key>
	<dict>
		<key>ProductModuleName</key>
		<string>AppTests</string>
		<key>RunOrder</key>
		<integer>0</integer>
	</dict>
	<key>__xctestrun_metadata__</key>
	<dict>
		<key>FormatVersion</key>
		<integer>1</integer>
	</dict>
</dict>
</plist>
`

// Root is a build root under construction.
type Root struct {
	t    testing.TB
	Dir  string
	PIF  *pifcachetest.Cache
	data string
}

// New creates a build root in dir, with a manifest and an empty PIF cache.
func New(t testing.TB, dir string) *Root {
	t.Helper()
	data := filepath.Join(dir, "Build", "Intermediates.noindex", "XCBuildData")
	err := os.MkdirAll(data, 0755)
	if err != nil {
		t.Fatal(err)
	}
	r := &Root{t: t, Dir: dir, data: data}
	r.WriteBuildData("0123abcd-manifest.xcbuild", Manifest)
	r.PIF = pifcachetest.New(t, filepath.Join(data, "PIFCache"))
	return r
}

// WriteBuildData writes content as a file in XCBuildData.
func (r *Root) WriteBuildData(name, content string) string {
	r.t.Helper()
	fname := filepath.Join(r.data, name)
	err := os.WriteFile(fname, []byte(content), 0644)
	if err != nil {
		r.t.Fatal(err)
	}
	return fname
}

// WriteTestRun writes content as Build/Products/<name>.
func (r *Root) WriteTestRun(name, content string) string {
	r.t.Helper()
	dir := filepath.Join(r.Dir, "Build", "Products")
	err := os.MkdirAll(dir, 0755)
	if err != nil {
		r.t.Fatal(err)
	}
	fname := filepath.Join(dir, name)
	err = os.WriteFile(fname, []byte(content), 0644)
	if err != nil {
		r.t.Fatal(err)
	}
	return fname
}
