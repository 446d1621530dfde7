// Copyright 2026 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package manifest decodes xcbuild manifest files (*-manifest.xcbuild),
// which are llbuild build descriptions in YAML.
package manifest

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Manifest is a decoded xcbuild manifest.
// Targets, Nodes and Commands are sorted by name.
type Manifest struct {
	Client   Client
	Targets  []Target
	Nodes    []Node
	Commands []Command
}

// Client identifies the llbuild client of the manifest.
type Client struct {
	Name       string `yaml:"name"`
	Version    int    `yaml:"version"`
	FileSystem string `yaml:"file-system"`
}

// Target is a named set of nodes to build.
type Target struct {
	Name   string
	Values []string
}

// Node is a file or virtual node of the build graph.
type Node struct {
	Path               string
	IsMutated          bool
	IsCommandTimestamp bool
}

// Command is a command of the build graph.
type Command struct {
	Name        string
	Tool        string
	Description string
	Inputs      []string
	Outputs     []string
	Args        []string
	Env         map[string]string
	Deps        []string
	DepsStyle   string
	Signature   string
}

type rawManifest struct {
	Client   *Client                      `yaml:"client"`
	Targets  map[string][]string          `yaml:"targets"`
	Nodes    map[string]nodeProperties    `yaml:"nodes"`
	Commands map[string]commandProperties `yaml:"commands"`
}

type nodeProperties struct {
	IsMutated          bool `yaml:"is-mutated"`
	IsCommandTimestamp bool `yaml:"is-command-timestamp"`
}

type commandProperties struct {
	Tool        string            `yaml:"tool"`
	Description string            `yaml:"description"`
	Inputs      []string          `yaml:"inputs"`
	Outputs     []string          `yaml:"outputs"`
	Args        []string          `yaml:"args"`
	Env         map[string]string `yaml:"env"`
	Deps        stringList        `yaml:"deps"`
	DepsStyle   string            `yaml:"deps-style"`
	Signature   string            `yaml:"signature"`
}

func (c *commandProperties) UnmarshalYAML(value *yaml.Node) error {
	if missing := missingKeys(value, "tool"); len(missing) > 0 {
		return fmt.Errorf("line %d: command without tool", value.Line)
	}
	type plain commandProperties
	return value.Decode((*plain)(c))
}

func (c *Client) UnmarshalYAML(value *yaml.Node) error {
	if missing := missingKeys(value, "name", "version", "file-system"); len(missing) > 0 {
		return fmt.Errorf("line %d: client without %s", value.Line, strings.Join(missing, ", "))
	}
	type plain Client
	return value.Decode((*plain)(c))
}

// missingKeys returns keys that the mapping node doesn't have.
// For a node other than a mapping, all keys are missing.
func missingKeys(value *yaml.Node, keys ...string) []string {
	present := make(map[string]bool)
	if value.Kind == yaml.MappingNode {
		for i := 0; i+1 < len(value.Content); i += 2 {
			present[value.Content[i].Value] = true
		}
	}
	var missing []string
	for _, k := range keys {
		if !present[k] {
			missing = append(missing, k)
		}
	}
	return missing
}

// stringList accepts a scalar or a sequence of scalars.
type stringList []string

func (l *stringList) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		*l = []string{value.Value}
		return nil
	}
	var s []string
	err := value.Decode(&s)
	if err != nil {
		return err
	}
	*l = s
	return nil
}

// Load loads the manifest in fname.
func Load(fname string) (*Manifest, error) {
	buf, err := os.ReadFile(fname)
	if err != nil {
		return nil, err
	}
	m, err := Parse(buf)
	if err != nil {
		return nil, fmt.Errorf("failed to parse manifest %s: %w", fname, err)
	}
	return m, nil
}

// Parse parses the manifest in buf.
func Parse(buf []byte) (*Manifest, error) {
	var raw rawManifest
	err := yaml.Unmarshal(buf, &raw)
	if err != nil {
		return nil, err
	}
	var missing []error
	if raw.Client == nil {
		missing = append(missing, errors.New("missing client"))
	}
	if raw.Targets == nil {
		missing = append(missing, errors.New("missing targets"))
	}
	if raw.Nodes == nil {
		missing = append(missing, errors.New("missing nodes"))
	}
	if raw.Commands == nil {
		missing = append(missing, errors.New("missing commands"))
	}
	if len(missing) > 0 {
		return nil, errors.Join(missing...)
	}

	m := &Manifest{
		Client:   *raw.Client,
		Targets:  make([]Target, 0, len(raw.Targets)),
		Nodes:    make([]Node, 0, len(raw.Nodes)),
		Commands: make([]Command, 0, len(raw.Commands)),
	}
	for _, name := range sortedKeys(raw.Targets) {
		m.Targets = append(m.Targets, Target{
			Name:   name,
			Values: nonNil(raw.Targets[name]),
		})
	}
	for _, path := range sortedKeys(raw.Nodes) {
		p := raw.Nodes[path]
		m.Nodes = append(m.Nodes, Node{
			Path:               path,
			IsMutated:          p.IsMutated,
			IsCommandTimestamp: p.IsCommandTimestamp,
		})
	}
	for _, name := range sortedKeys(raw.Commands) {
		p := raw.Commands[name]
		env := p.Env
		if env == nil {
			env = map[string]string{}
		}
		m.Commands = append(m.Commands, Command{
			Name:        name,
			Tool:        p.Tool,
			Description: p.Description,
			Inputs:      nonNil(p.Inputs),
			Outputs:     nonNil(p.Outputs),
			Args:        nonNil(p.Args),
			Env:         env,
			Deps:        nonNil(p.Deps),
			DepsStyle:   p.DepsStyle,
			Signature:   p.Signature,
		})
	}
	return m, nil
}

// ToolCounts returns the number of commands per tool.
func (m *Manifest) ToolCounts() map[string]int {
	counts := make(map[string]int)
	for _, c := range m.Commands {
		counts[c.Tool]++
	}
	return counts
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
