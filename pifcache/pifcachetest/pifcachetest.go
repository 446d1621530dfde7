// Copyright 2026 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package pifcachetest writes PIF cache fixtures for tests.
package pifcachetest

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// Workspace is a workspace fixture.
type Workspace struct {
	GUID     string
	Name     string
	Path     string
	Projects []string
}

// Project is a project fixture.
type Project struct {
	GUID    string
	Path    string
	Targets []string
	// Files are slash separated file paths in the group tree.
	// Directories become groups.
	Files []string
}

// Target is a target fixture.
type Target struct {
	GUID         string
	Name         string
	Type         string
	Dependencies []string
}

// Cache is a PIF cache directory under construction.
type Cache struct {
	t    testing.TB
	Root string
}

// New creates the workspace, project and target stores under root.
func New(t testing.TB, root string) *Cache {
	t.Helper()
	for _, d := range []string{"workspace", "project", "target"} {
		err := os.MkdirAll(filepath.Join(root, d), 0755)
		if err != nil {
			t.Fatal(err)
		}
	}
	return &Cache{t: t, Root: root}
}

// WriteFile writes content as <root>/<store>/<name>.
func (c *Cache) WriteFile(store, name, content string) string {
	c.t.Helper()
	fname := filepath.Join(c.Root, store, name)
	err := os.WriteFile(fname, []byte(content), 0644)
	if err != nil {
		c.t.Fatal(err)
	}
	return fname
}

func (c *Cache) writeJSON(store, ref string, v any) string {
	c.t.Helper()
	buf, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		c.t.Fatal(err)
	}
	return c.WriteFile(store, ref+"-json", string(buf))
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// Workspace writes a workspace file for ref.
func (c *Cache) Workspace(ref string, w Workspace) string {
	c.t.Helper()
	return c.writeJSON("workspace", ref, map[string]any{
		"guid":     w.GUID,
		"name":     w.Name,
		"path":     w.Path,
		"projects": orEmpty(w.Projects),
	})
}

// Project writes a project file for ref.
func (c *Cache) Project(ref string, p Project) string {
	c.t.Helper()
	return c.writeJSON("project", ref, map[string]any{
		"guid":                        p.GUID,
		"path":                        p.Path,
		"projectDirectory":            filepath.Dir(p.Path),
		"defaultConfigurationName":    "Release",
		"developmentRegion":           "en",
		"appPreferencesBuildSettings": map[string]any{},
		"buildConfigurations": []any{
			map[string]any{
				"guid":          p.GUID + "-debug",
				"name":          "Debug",
				"buildSettings": map[string]string{"SDKROOT": "iphoneos"},
			},
		},
		"groupTree": map[string]any{
			"guid":       p.GUID + "-group",
			"name":       "Sources",
			"path":       "",
			"sourceTree": "<group>",
			"type":       "group",
			"children":   groupChildren(p.GUID+"-group", p.Files),
		},
		"targets": orEmpty(p.Targets),
	})
}

// groupChildren returns group tree children for files, in order of
// first appearance.
func groupChildren(guid string, files []string) []any {
	children := []any{}
	groups := make(map[string][]string)
	for _, f := range files {
		dir, rest, ok := strings.Cut(f, "/")
		if !ok {
			children = append(children, map[string]any{
				"guid":       guid + "/" + f,
				"path":       f,
				"sourceTree": "<group>",
				"type":       "file",
			})
			continue
		}
		if _, seen := groups[dir]; !seen {
			children = append(children, dir)
		}
		groups[dir] = append(groups[dir], rest)
	}
	for i, c := range children {
		dir, ok := c.(string)
		if !ok {
			continue
		}
		children[i] = map[string]any{
			"guid":       guid + "/" + dir,
			"name":       dir,
			"path":       dir,
			"sourceTree": "<group>",
			"type":       "group",
			"children":   groupChildren(guid+"/"+dir, groups[dir]),
		}
	}
	return children
}

// Target writes a target file for ref.
func (c *Cache) Target(ref string, t Target) string {
	c.t.Helper()
	typ := t.Type
	if typ == "" {
		typ = "standard"
	}
	return c.writeJSON("target", ref, map[string]any{
		"guid":                   t.GUID,
		"name":                   t.Name,
		"type":                   typ,
		"dependencies":           orEmpty(t.Dependencies),
		"buildConfigurations":    []any{},
		"buildPhases":            []any{},
		"buildRules":             []any{},
		"provisioningSourceData": []any{},
	})
}
