// Copyright 2026 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package depgraph

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"go.chromium.org/infra/build/xcparse/pifcache"
	"go.chromium.org/infra/build/xcparse/pifcache/pifcachetest"
)

func strp(s string) *string { return &s }

func target(guid, name string, deps ...string) *pifcache.Target {
	return &pifcache.Target{GUID: guid, Name: name, Dependencies: deps}
}

func cacheOf(projects ...*pifcache.Project) *pifcache.Cache {
	return &pifcache.Cache{
		Workspaces: []*pifcache.Workspace{
			{GUID: "W1", Name: "App", Projects: projects},
		},
	}
}

func TestBuild(t *testing.T) {
	for _, tc := range []struct {
		name  string
		cache *pifcache.Cache
		want  *Graph
	}{
		{
			name: "last_project_wins",
			cache: cacheOf(
				&pifcache.Project{Path: "A.xcodeproj", Targets: []*pifcache.Target{target("T1", "First")}},
				&pifcache.Project{Path: "B.xcodeproj", Targets: []*pifcache.Target{target("T1", "Second")}},
			),
			want: &Graph{
				Nodes: []Node{{ID: "T1", Name: "Second"}},
				Links: []Link{},
				Collisions: []Collision{
					{GUID: "T1", Projects: []string{"A.xcodeproj", "B.xcodeproj"}},
				},
			},
		},
		{
			name: "duplicate_in_one_project",
			cache: cacheOf(
				&pifcache.Project{Path: "A.xcodeproj", Targets: []*pifcache.Target{
					target("T1", "Old"),
					target("T2", "Core"),
					target("T1", "New"),
				}},
			),
			want: &Graph{
				Nodes: []Node{{ID: "T1", Name: "New"}, {ID: "T2", Name: "Core"}},
				Links: []Link{},
			},
		},
		{
			name: "duplicate_in_one_project_and_another",
			cache: cacheOf(
				&pifcache.Project{Path: "A.xcodeproj", Targets: []*pifcache.Target{
					target("T1", "Old", "T9"),
					target("S", "Self", "S"),
					target("E", "Empty"),
					target("T1", "Old"),
				}},
				&pifcache.Project{Path: "B.xcodeproj", Targets: []*pifcache.Target{target("T1", "New", "T9")}},
			),
			want: &Graph{
				Nodes: []Node{{ID: "E", Name: "Empty"}, {ID: "S", Name: "Self"}, {ID: "T1", Name: "New"}},
				Links: []Link{
					{Source: "S", Target: strp("S")},
					{Source: "T1", Target: nil},
				},
				Collisions: []Collision{
					{GUID: "T1", Projects: []string{"A.xcodeproj", "B.xcodeproj"}},
				},
			},
		},
		{
			name: "dangling_dependency",
			cache: cacheOf(
				&pifcache.Project{Targets: []*pifcache.Target{target("T1", "App", "T2")}},
			),
			want: &Graph{
				Nodes: []Node{{ID: "T1", Name: "App"}},
				Links: []Link{{Source: "T1", Target: nil}},
			},
		},
		{
			name: "self_dependency",
			cache: cacheOf(
				&pifcache.Project{Targets: []*pifcache.Target{target("T1", "App", "T1")}},
			),
			want: &Graph{
				Nodes: []Node{{ID: "T1", Name: "App"}},
				Links: []Link{{Source: "T1", Target: strp("T1")}},
			},
		},
		{
			name: "empty_dependencies",
			cache: cacheOf(
				&pifcache.Project{Targets: []*pifcache.Target{target("T1", "App")}},
			),
			want: &Graph{
				Nodes: []Node{{ID: "T1", Name: "App"}},
				Links: []Link{},
			},
		},
		{
			name: "across_projects_sorted",
			cache: cacheOf(
				&pifcache.Project{Targets: []*pifcache.Target{
					target("T3", "App", "T2", "T1", "TX"),
				}},
				&pifcache.Project{Targets: []*pifcache.Target{
					target("T2", "Feature", "T1"),
					target("T1", "Core"),
				}},
			),
			want: &Graph{
				Nodes: []Node{
					{ID: "T1", Name: "Core"},
					{ID: "T2", Name: "Feature"},
					{ID: "T3", Name: "App"},
				},
				Links: []Link{
					{Source: "T2", Target: strp("T1")},
					{Source: "T3", Target: strp("T2")},
					{Source: "T3", Target: strp("T1")},
					{Source: "T3", Target: nil},
				},
			},
		},
		{
			name: "first_workspace_only",
			cache: &pifcache.Cache{
				Workspaces: []*pifcache.Workspace{
					{GUID: "W1", Projects: []*pifcache.Project{{Targets: []*pifcache.Target{target("T1", "App", "T9")}}}},
					{GUID: "W2", Projects: []*pifcache.Project{{Targets: []*pifcache.Target{target("T9", "Other")}}}},
				},
			},
			want: &Graph{
				Nodes: []Node{{ID: "T1", Name: "App"}},
				Links: []Link{{Source: "T1", Target: nil}},
			},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Build(tc.cache)
			if err != nil {
				t.Fatalf("Build=_, %v; want nil err", err)
			}
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("Build diff -want +got:\n%s", diff)
			}
		})
	}
}

func TestBuild_NoWorkspace(t *testing.T) {
	for _, cache := range []*pifcache.Cache{nil, {}, {Workspaces: []*pifcache.Workspace{}}} {
		g, err := Build(cache)
		if !errors.Is(err, ErrNoWorkspace) {
			t.Errorf("Build(%v)=%v, %v; want nil, %v", cache, g, err, ErrNoWorkspace)
		}
		if g != nil {
			t.Errorf("Build(%v)=%v; want nil graph", cache, g)
		}
	}
}

func TestBuild_FromLoadedCache(t *testing.T) {
	ctx := context.Background()
	c := pifcachetest.New(t, t.TempDir())
	c.Workspace("WS", pifcachetest.Workspace{GUID: "W1", Name: "App", Path: "/src", Projects: []string{"PROJ_A", "PROJ_B"}})
	c.Project("PROJ_A", pifcachetest.Project{GUID: "PA", Path: "/src/A.xcodeproj", Targets: []string{"TGT_1", "TGT_2"}})
	c.Project("PROJ_B", pifcachetest.Project{GUID: "PB", Path: "/src/B.xcodeproj", Targets: []string{"TGT_1B"}})
	c.Target("TGT_1", pifcachetest.Target{GUID: "T1", Name: "App", Dependencies: []string{"T2"}})
	c.Target("TGT_2", pifcachetest.Target{GUID: "T2", Name: "Core"})
	c.Target("TGT_1B", pifcachetest.Target{GUID: "T1", Name: "AppFromB", Dependencies: []string{"T2", "T404"}})

	cache, err := pifcache.Load(ctx, c.Root, pifcache.Option{})
	if err != nil {
		t.Fatalf("Load=_, %v", err)
	}
	got, err := Build(cache)
	if err != nil {
		t.Fatalf("Build=_, %v", err)
	}
	want := &Graph{
		Nodes: []Node{
			{ID: "T1", Name: "AppFromB"},
			{ID: "T2", Name: "Core"},
		},
		Links: []Link{
			{Source: "T1", Target: strp("T2")},
			{Source: "T1", Target: nil},
		},
		Collisions: []Collision{
			{GUID: "T1", Projects: []string{"/src/A.xcodeproj", "/src/B.xcodeproj"}},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Build diff -want +got:\n%s", diff)
	}
}

func testGraph() *Graph {
	return &Graph{
		Nodes: []Node{
			{ID: "T1", Name: "Core"},
			{ID: "T2", Name: "App"},
			{ID: "T3", Name: "Tests"},
		},
		Links: []Link{
			{Source: "T2", Target: strp("T1")},
			{Source: "T2", Target: nil},
			{Source: "T3", Target: strp("T2")},
		},
	}
}

func TestConnections(t *testing.T) {
	got := testGraph().Connections()
	want := []Connection{
		{From: TargetRef{GUID: "T2", Name: "App"}, To: &TargetRef{GUID: "T1", Name: "Core"}},
		{From: TargetRef{GUID: "T2", Name: "App"}},
		{From: TargetRef{GUID: "T3", Name: "Tests"}, To: &TargetRef{GUID: "T2", Name: "App"}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Connections diff -want +got:\n%s", diff)
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	err := testGraph().WriteJSON(&buf)
	if err != nil {
		t.Fatalf("WriteJSON=%v", err)
	}
	want := `{"nodes":[{"id":"T1","name":"Core"},{"id":"T2","name":"App"},{"id":"T3","name":"Tests"}],"links":[{"source":"T2","target":"T1"},{"source":"T2","target":null},{"source":"T3","target":"T2"}]}` + "\n"
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("WriteJSON diff -want +got:\n%s", diff)
	}
}

func TestWriteJSON_EmptyLinks(t *testing.T) {
	g, err := Build(cacheOf(&pifcache.Project{Targets: []*pifcache.Target{target("T1", "App")}}))
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	err = g.WriteJSON(&buf)
	if err != nil {
		t.Fatalf("WriteJSON=%v", err)
	}
	want := `{"nodes":[{"id":"T1","name":"App"}],"links":[]}` + "\n"
	if got := buf.String(); got != want {
		t.Errorf("WriteJSON=%q; want %q", got, want)
	}
}

func TestWriteText(t *testing.T) {
	var buf bytes.Buffer
	err := testGraph().WriteText(&buf)
	if err != nil {
		t.Fatalf("WriteText=%v", err)
	}
	want := `App (T2) ~> Core (T1)
App (T2) ~> <NULL>
Tests (T3) ~> App (T2)
3 connections in all
`
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("WriteText diff -want +got:\n%s", diff)
	}
}

func TestWriteDigraph(t *testing.T) {
	var buf bytes.Buffer
	err := testGraph().WriteDigraph(&buf)
	if err != nil {
		t.Fatalf("WriteDigraph=%v", err)
	}
	want := `T1
T2 T1
T3 T2
`
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("WriteDigraph diff -want +got:\n%s", diff)
	}
}
