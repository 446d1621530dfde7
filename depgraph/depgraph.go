// Copyright 2026 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package depgraph builds a target dependency graph from a PIF cache.
package depgraph

import (
	"errors"
	"sort"

	"go.chromium.org/infra/build/xcparse/pifcache"
)

// ErrNoWorkspace is returned when a cache has no workspace to build a graph from.
var ErrNoWorkspace = errors.New("no workspace in PIF cache")

// Node is a target in the graph.
type Node struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Link is a dependency of Source on Target.
// Target is nil if the dependency names a target that is not in the graph.
type Link struct {
	Source string  `json:"source"`
	Target *string `json:"target"`
}

// Collision is a target GUID defined in more than one project.
// The target of the last project is used in the graph.
type Collision struct {
	GUID string
	// Projects are paths of the projects defining the target, in order.
	Projects []string
}

// Graph is a dependency graph between targets.
type Graph struct {
	// Nodes are sorted by ID.
	Nodes []Node `json:"nodes"`
	// Links are sorted by Source, then in the order of the source
	// target's dependencies.
	Links []Link `json:"links"`

	// Collisions are sorted by GUID.
	Collisions []Collision `json:"-"`
}

// Build builds the dependency graph of the first workspace in cache.
//
// Targets of all projects are merged by GUID; if projects define the
// same GUID, the one of the later project wins and the override is
// recorded in Collisions.
// It returns ErrNoWorkspace if cache has no workspace.
func Build(cache *pifcache.Cache) (*Graph, error) {
	if cache == nil || len(cache.Workspaces) == 0 {
		return nil, ErrNoWorkspace
	}
	ws := cache.Workspaces[0]

	targets := make(map[string]*pifcache.Target)
	definedIn := make(map[string][]string)
	for _, p := range ws.Projects {
		for _, t := range p.Targets {
			targets[t.GUID] = t
			paths := definedIn[t.GUID]
			if len(paths) > 0 && paths[len(paths)-1] == p.Path {
				// same GUID listed again in the project.
				continue
			}
			definedIn[t.GUID] = append(paths, p.Path)
		}
	}

	ids := make([]string, 0, len(targets))
	for id := range targets {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	g := &Graph{
		Nodes: make([]Node, 0, len(ids)),
		Links: []Link{},
	}
	for _, id := range ids {
		t := targets[id]
		g.Nodes = append(g.Nodes, Node{ID: t.GUID, Name: t.Name})
		for _, dep := range t.Dependencies {
			link := Link{Source: t.GUID}
			if d, ok := targets[dep]; ok {
				guid := d.GUID
				link.Target = &guid
			}
			g.Links = append(g.Links, link)
		}
		if projects := definedIn[id]; len(projects) > 1 {
			g.Collisions = append(g.Collisions, Collision{GUID: id, Projects: projects})
		}
	}
	return g, nil
}

// TargetRef identifies a target in a connection.
type TargetRef struct {
	GUID string
	Name string
}

// Connection is a denormalized Link.
// To is nil if the dependency is not in the graph.
type Connection struct {
	From TargetRef
	To   *TargetRef
}

// Connections returns links with names of both ends, in the order of Links.
func (g *Graph) Connections() []Connection {
	names := make(map[string]string, len(g.Nodes))
	for _, n := range g.Nodes {
		names[n.ID] = n.Name
	}
	conns := make([]Connection, 0, len(g.Links))
	for _, l := range g.Links {
		c := Connection{
			From: TargetRef{GUID: l.Source, Name: names[l.Source]},
		}
		if l.Target != nil {
			c.To = &TargetRef{GUID: *l.Target, Name: names[*l.Target]}
		}
		conns = append(conns, c)
	}
	return conns
}
