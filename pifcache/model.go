// Copyright 2026 The Chromium Authors
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package pifcache

import "encoding/json"

// Workspace is a workspace in the PIF cache, with its projects resolved.
type Workspace struct {
	GUID     string     `json:"guid"`
	Name     string     `json:"name"`
	Path     string     `json:"path"`
	Projects []*Project `json:"projects"`
}

// rawWorkspace is a workspace as stored on disk.
// Projects are references to files in the project store.
type rawWorkspace struct {
	GUID     string   `json:"guid"`
	Name     string   `json:"name"`
	Path     string   `json:"path"`
	Projects []string `json:"projects"`
}

func (w *rawWorkspace) UnmarshalJSON(data []byte) error {
	type plain rawWorkspace
	return decodeObject(data, (*plain)(w), "workspace", "guid", "name", "path", "projects")
}

// Project is a project in the PIF cache, with its targets resolved.
type Project struct {
	GUID                        string                      `json:"guid"`
	Path                        string                      `json:"path"`
	ProjectDirectory            string                      `json:"projectDirectory"`
	DefaultConfigurationName    string                      `json:"defaultConfigurationName"`
	DevelopmentRegion           string                      `json:"developmentRegion"`
	AppPreferencesBuildSettings AppPreferencesBuildSettings `json:"appPreferencesBuildSettings"`
	BuildConfigurations         []BuildConfiguration        `json:"buildConfigurations"`
	GroupTree                   GroupTree                   `json:"groupTree"`
	Targets                     []*Target                   `json:"targets"`
}

// rawProject is a project as stored on disk.
// Targets are references to files in the target store.
type rawProject struct {
	GUID                        string                      `json:"guid"`
	Path                        string                      `json:"path"`
	ProjectDirectory            string                      `json:"projectDirectory"`
	DefaultConfigurationName    string                      `json:"defaultConfigurationName"`
	DevelopmentRegion           string                      `json:"developmentRegion"`
	AppPreferencesBuildSettings AppPreferencesBuildSettings `json:"appPreferencesBuildSettings"`
	BuildConfigurations         []BuildConfiguration        `json:"buildConfigurations"`
	GroupTree                   GroupTree                   `json:"groupTree"`
	Targets                     []string                    `json:"targets"`
}

func (p *rawProject) UnmarshalJSON(data []byte) error {
	type plain rawProject
	return decodeObject(data, (*plain)(p), "project",
		"appPreferencesBuildSettings",
		"buildConfigurations",
		"defaultConfigurationName",
		"developmentRegion",
		"groupTree",
		"guid",
		"path",
		"projectDirectory",
		"targets")
}

// hydrate returns the project with the given resolved targets.
func (p *rawProject) hydrate(targets []*Target) *Project {
	return &Project{
		GUID:                        p.GUID,
		Path:                        p.Path,
		ProjectDirectory:            p.ProjectDirectory,
		DefaultConfigurationName:    p.DefaultConfigurationName,
		DevelopmentRegion:           p.DevelopmentRegion,
		AppPreferencesBuildSettings: p.AppPreferencesBuildSettings,
		BuildConfigurations:         p.BuildConfigurations,
		GroupTree:                   p.GroupTree,
		Targets:                     targets,
	}
}

// AppPreferencesBuildSettings is kept opaque.
type AppPreferencesBuildSettings map[string]json.RawMessage

// BuildConfiguration is a named set of build settings of a project.
type BuildConfiguration struct {
	GUID          string            `json:"guid"`
	Name          string            `json:"name"`
	BuildSettings map[string]string `json:"buildSettings"`
}

func (c *BuildConfiguration) UnmarshalJSON(data []byte) error {
	type plain BuildConfiguration
	return decodeObject(data, (*plain)(c), "buildConfiguration", "buildSettings", "guid", "name")
}

// GroupTree is the root of the file and group hierarchy of a project.
type GroupTree struct {
	GUID       string           `json:"guid"`
	Name       string           `json:"name"`
	Path       string           `json:"path"`
	SourceTree string           `json:"sourceTree"`
	Type       string           `json:"type"`
	Children   []GroupTreeChild `json:"children,omitempty"`
}

func (g *GroupTree) UnmarshalJSON(data []byte) error {
	type plain GroupTree
	return decodeObject(data, (*plain)(g), "groupTree", "guid", "name", "path", "sourceTree", "type")
}

// GroupTreeChild is a file or a group in the group tree.
type GroupTreeChild struct {
	GUID              string           `json:"guid"`
	Name              string           `json:"name,omitempty"`
	Type              string           `json:"type"`
	Path              string           `json:"path"`
	SourceTree        string           `json:"sourceTree"`
	FileType          string           `json:"fileType,omitempty"`
	FileTextEncoding  string           `json:"fileTextEncoding,omitempty"`
	RegionVariantName string           `json:"regionVariantName,omitempty"`
	Children          []GroupTreeChild `json:"children,omitempty"`
}

func (c *GroupTreeChild) UnmarshalJSON(data []byte) error {
	type plain GroupTreeChild
	return decodeObject(data, (*plain)(c), "groupTree child", "guid", "type", "path", "sourceTree")
}

// Walk calls fn for each descendant of the group tree in depth-first
// order. parents are the ancestors of the child below the root.
// It stops at the first error fn returns.
func (g *GroupTree) Walk(fn func(parents []*GroupTreeChild, c *GroupTreeChild) error) error {
	var walk func(parents []*GroupTreeChild, children []GroupTreeChild) error
	walk = func(parents []*GroupTreeChild, children []GroupTreeChild) error {
		for i := range children {
			c := &children[i]
			err := fn(parents, c)
			if err != nil {
				return err
			}
			err = walk(append(parents[:len(parents):len(parents)], c), c.Children)
			if err != nil {
				return err
			}
		}
		return nil
	}
	return walk(nil, g.Children)
}

// Target is a buildable unit in the PIF cache.
//
// Dependencies are GUIDs of other targets. They are never resolved to
// files and may name targets that are not in the cache.
type Target struct {
	GUID                          string                     `json:"guid"`
	Name                          string                     `json:"name"`
	Type                          string                     `json:"type"`
	Dependencies                  []string                   `json:"dependencies"`
	BuildConfigurations           []TargetBuildConfiguration `json:"buildConfigurations"`
	BuildPhases                   []BuildPhase               `json:"buildPhases"`
	BuildRules                    []BuildRule                `json:"buildRules"`
	ProductReference              *ProductReference          `json:"productReference,omitempty"`
	ProductTypeIdentifier         string                     `json:"productTypeIdentifier,omitempty"`
	ProvisioningSourceData        []ProvisioningSourceDatum  `json:"provisioningSourceData"`
	IsUnitTest                    string                     `json:"isUnitTest,omitempty"`
	PerformanceTestsBaselinesPath string                     `json:"performanceTestsBaselinesPath,omitempty"`
	PredominantSourceCodeLanguage string                     `json:"predominantSourceCodeLanguage,omitempty"`
}

func (t *Target) UnmarshalJSON(data []byte) error {
	type plain Target
	return decodeObject(data, (*plain)(t), "target",
		"buildConfigurations",
		"buildPhases",
		"buildRules",
		"dependencies",
		"guid",
		"name",
		"provisioningSourceData",
		"type")
}

// TargetBuildConfiguration is a named set of build settings of a target.
type TargetBuildConfiguration struct {
	GUID                           string            `json:"guid"`
	Name                           string            `json:"name"`
	BaseConfigurationFileReference string            `json:"baseConfigurationFileReference,omitempty"`
	BuildSettings                  map[string]string `json:"buildSettings"`
}

func (c *TargetBuildConfiguration) UnmarshalJSON(data []byte) error {
	type plain TargetBuildConfiguration
	return decodeObject(data, (*plain)(c), "target buildConfiguration", "buildSettings", "guid", "name")
}

// BuildPhase is a build phase of a target.
type BuildPhase struct {
	GUID                 string      `json:"guid"`
	Type                 string      `json:"type"`
	BuildFiles           []BuildFile `json:"buildFiles"`
	DestinationSubfolder string      `json:"destinationSubfolder,omitempty"`
	DestinationSubpath   string      `json:"destinationSubpath,omitempty"`
}

func (p *BuildPhase) UnmarshalJSON(data []byte) error {
	type plain BuildPhase
	return decodeObject(data, (*plain)(p), "buildPhase", "buildFiles", "guid", "type")
}

// BuildFile is an entry of a build phase.
// It refers either a file or a nested target by GUID.
type BuildFile struct {
	GUID                string `json:"guid"`
	FileReference       string `json:"fileReference,omitempty"`
	TargetReference     string `json:"targetReference,omitempty"`
	IntentsCodegenFiles string `json:"intentsCodegenFiles"`
	CodeSignOnCopy      string `json:"codeSignOnCopy,omitempty"`
	RemoveHeadersOnCopy string `json:"removeHeadersOnCopy,omitempty"`
}

func (f *BuildFile) UnmarshalJSON(data []byte) error {
	type plain BuildFile
	return decodeObject(data, (*plain)(f), "buildFile", "guid", "intentsCodegenFiles")
}

// BuildRule is kept opaque.
type BuildRule map[string]json.RawMessage

// ProductReference is the product of a target.
type ProductReference struct {
	GUID string `json:"guid"`
	Name string `json:"name"`
	Type string `json:"type"`
}

func (r *ProductReference) UnmarshalJSON(data []byte) error {
	type plain ProductReference
	return decodeObject(data, (*plain)(r), "productReference", "guid", "name", "type")
}

// ProvisioningSourceDatum is code signing data of a target configuration.
type ProvisioningSourceDatum struct {
	BundleIdentifierFromInfoPlist string `json:"bundleIdentifierFromInfoPlist"`
	ConfigurationName             string `json:"configurationName"`
	LegacyTeamID                  string `json:"legacyTeamID"`
	ProvisioningStyle             int    `json:"provisioningStyle"`
}

func (d *ProvisioningSourceDatum) UnmarshalJSON(data []byte) error {
	type plain ProvisioningSourceDatum
	return decodeObject(data, (*plain)(d), "provisioningSourceDatum",
		"bundleIdentifierFromInfoPlist",
		"configurationName",
		"legacyTeamID",
		"provisioningStyle")
}
