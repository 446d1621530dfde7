// Copyright 2026 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package depgraph

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// WriteJSON writes the graph as {"nodes": [...], "links": [...]},
// the input format of d3 force-directed graph.
func (g *Graph) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	return enc.Encode(g)
}

// WriteText writes a line per connection, followed by the number of connections.
//
//	App (T1) ~> Core (T2)
//	App (T1) ~> <NULL>
//	2 connections in all
func (g *Graph) WriteText(w io.Writer) error {
	bw := bufio.NewWriter(w)
	conns := g.Connections()
	for _, c := range conns {
		to := "<NULL>"
		if c.To != nil {
			to = fmt.Sprintf("%s (%s)", c.To.Name, c.To.GUID)
		}
		fmt.Fprintf(bw, "%s (%s) ~> %s\n", c.From.Name, c.From.GUID, to)
	}
	fmt.Fprintf(bw, "%d connections in all\n", len(conns))
	return bw.Flush()
}

// WriteDigraph writes the graph in the format of
// https://pkg.go.dev/golang.org/x/tools/cmd/digraph.
// Each line has a node ID followed by IDs of its resolved dependencies.
// Dependencies not in the graph are omitted.
func (g *Graph) WriteDigraph(w io.Writer) error {
	deps := make(map[string][]string, len(g.Nodes))
	for _, l := range g.Links {
		if l.Target == nil {
			continue
		}
		deps[l.Source] = append(deps[l.Source], *l.Target)
	}
	bw := bufio.NewWriter(w)
	for _, n := range g.Nodes {
		words := append([]string{n.ID}, deps[n.ID]...)
		fmt.Fprintln(bw, strings.Join(words, " "))
	}
	return bw.Flush()
}
