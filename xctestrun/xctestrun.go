// Copyright 2026 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package xctestrun decodes .xctestrun files, the test run descriptors
// written next to build products.
package xctestrun

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"howett.net/plist"
)

// ErrNoMetadata is returned when a file has no __xctestrun_metadata__ entry.
var ErrNoMetadata = errors.New("no xctestrun metadata")

const metadataKey = "__xctestrun_metadata__"

// TestRun is a decoded .xctestrun file.
type TestRun struct {
	Metadata Metadata
	// Targets are sorted by RunOrder, then by Name.
	Targets []Target
}

// Metadata is the metadata of a test run.
type Metadata struct {
	CodeCoverageBuildableInfos []CodeCoverageBuildableInfo `plist:"CodeCoverageBuildableInfos"`
	FormatVersion              int                         `plist:"FormatVersion"`
}

// CodeCoverageBuildableInfo describes a product instrumented for code coverage.
type CodeCoverageBuildableInfo struct {
	Architecture        string   `plist:"Architecture"`
	BuildableIdentifier string   `plist:"BuildableIdentifier"`
	Name                string   `plist:"Name"`
	ProductPath         string   `plist:"ProductPath"`
	Toolchains          []string `plist:"Toolchains"`
}

// Target is a test target of a test run.
type Target struct {
	// Name is the entry key (format version 1) or the blueprint name
	// (format version 2).
	Name string `plist:"-"`
	// TestConfiguration is the name of the test configuration the
	// target belongs to. Empty in format version 1.
	TestConfiguration string `plist:"-"`

	BlueprintName                           string            `plist:"BlueprintName"`
	BundleIdentifiersForCrashReportEmphasis []string          `plist:"BundleIdentifiersForCrashReportEmphasis"`
	ClangProfileDataDirectoryPath           string            `plist:"ClangProfileDataDirectoryPath"`
	CommandLineArguments                    []string          `plist:"CommandLineArguments"`
	DependentProductPaths                   []string          `plist:"DependentProductPaths"`
	EnvironmentVariables                    map[string]string `plist:"EnvironmentVariables"`
	ProductModuleName                       string            `plist:"ProductModuleName"`
	RunOrder                                int               `plist:"RunOrder"`
	SystemAttachmentLifetime                string            `plist:"SystemAttachmentLifetime"`
	TestBundlePath                          string            `plist:"TestBundlePath"`
	TestHostPath                            string            `plist:"TestHostPath"`
	TestingEnvironmentVariables             map[string]string `plist:"TestingEnvironmentVariables"`
	ToolchainsSettingValue                  []string          `plist:"ToolchainsSettingValue"`
	UITargetAppCommandLineArguments         []string          `plist:"UITargetAppCommandLineArguments"`
	UITargetAppMainThreadCheckerEnabled     bool              `plist:"UITargetAppMainThreadCheckerEnabled"`
	UserAttachmentLifetime                  string            `plist:"UserAttachmentLifetime"`
}

// header has the parts of a file common to all format versions, and
// the test configurations of format version 2.
type header struct {
	Metadata                   *Metadata                   `plist:"__xctestrun_metadata__"`
	CodeCoverageBuildableInfos []CodeCoverageBuildableInfo `plist:"CodeCoverageBuildableInfos"`
	TestConfigurations         []struct {
		Name        string   `plist:"Name"`
		TestTargets []Target `plist:"TestTargets"`
	} `plist:"TestConfigurations"`
}

// Load loads the .xctestrun file fname.
func Load(fname string) (*TestRun, error) {
	buf, err := os.ReadFile(fname)
	if err != nil {
		return nil, err
	}
	tr, err := Parse(buf)
	if err != nil {
		return nil, fmt.Errorf("failed to parse xctestrun %s: %w", fname, err)
	}
	return tr, nil
}

// Parse parses a property list in any format as a test run.
func Parse(buf []byte) (*TestRun, error) {
	var h header
	_, err := plist.Unmarshal(buf, &h)
	if err != nil {
		return nil, err
	}
	if h.Metadata == nil {
		return nil, ErrNoMetadata
	}
	tr := &TestRun{
		Metadata: *h.Metadata,
	}
	if len(tr.Metadata.CodeCoverageBuildableInfos) == 0 {
		tr.Metadata.CodeCoverageBuildableInfos = h.CodeCoverageBuildableInfos
	}

	if tr.Metadata.FormatVersion >= 2 {
		for _, c := range h.TestConfigurations {
			for _, t := range c.TestTargets {
				t.Name = t.BlueprintName
				t.TestConfiguration = c.Name
				tr.Targets = append(tr.Targets, t)
			}
		}
	} else {
		var entries map[string]Target
		_, err = plist.Unmarshal(buf, &entries)
		if err != nil {
			return nil, err
		}
		for name, t := range entries {
			if name == metadataKey {
				continue
			}
			t.Name = name
			tr.Targets = append(tr.Targets, t)
		}
	}
	sort.SliceStable(tr.Targets, func(i, j int) bool {
		if tr.Targets[i].RunOrder != tr.Targets[j].RunOrder {
			return tr.Targets[i].RunOrder < tr.Targets[j].RunOrder
		}
		if tr.Targets[i].TestConfiguration != tr.Targets[j].TestConfiguration {
			return tr.Targets[i].TestConfiguration < tr.Targets[j].TestConfiguration
		}
		return tr.Targets[i].Name < tr.Targets[j].Name
	})
	return tr, nil
}
