package canonizer

import (
	"fmt"
	"path/filepath"
)

// Status represents the lifecycle state of a transform version.
type Status string

const (
	StatusDraft      Status = "draft"
	StatusPublished  Status = "published"
	StatusDeprecated Status = "deprecated"
)

// EngineJSONata is the only expression engine the registry supports.
const EngineJSONata = "jsonata"

// Registry layout names. The on-disk hierarchy is fixed:
//
//	transforms/<category>/<name>/<version>/{spec.jsonata, spec.meta.yaml, tests/}
//	schemas/<vendor>/<name>/jsonschema/<version>.json
const (
	TransformsDirName  = "transforms"
	SchemasDirName     = "schemas"
	ExpressionFileName = "spec.jsonata"
	MetaFileName       = "spec.meta.yaml"
	TestsDirName       = "tests"
)

// TransformRef identifies one transform version directory in the registry.
// The identity is derived from the directory path, never from metadata.
type TransformRef struct {
	Category string `json:"category"`
	Name     string `json:"name"`
	Version  string `json:"version"`
	Dir      string `json:"dir"` // version directory on disk
}

// ID returns the registry-wide transform identifier, e.g. "payments/normalize_amount".
func (r TransformRef) ID() string {
	return r.Category + "/" + r.Name
}

// String renders the full identity as "<category>/<name>@<version>".
func (r TransformRef) String() string {
	return fmt.Sprintf("%s@%s", r.ID(), r.Version)
}

// ExpressionPath returns the path of the JSONata expression source.
func (r TransformRef) ExpressionPath() string {
	return filepath.Join(r.Dir, ExpressionFileName)
}

// MetaPath returns the path of the version metadata record.
func (r TransformRef) MetaPath() string {
	return filepath.Join(r.Dir, MetaFileName)
}

// TestsPath returns the path of the golden test directory.
func (r TransformRef) TestsPath() string {
	return filepath.Join(r.Dir, TestsDirName)
}

// TransformGroup holds all version directories discovered for one transform
// id. A group may be empty when a transform directory contains no version
// subdirectories yet.
type TransformGroup struct {
	ID       string         `json:"id"`
	Versions []TransformRef `json:"versions"`
}

// GoldenTestCase is one (input, expected-output) pair declared by a transform
// version. Both paths are relative to the version directory.
type GoldenTestCase struct {
	Input  string `json:"input"`
	Expect string `json:"expect"`
}

// SchemaRef identifies one JSON schema file in the registry. The version
// token is the filename stem, passed through verbatim with no semantic
// interpretation.
type SchemaRef struct {
	Vendor  string `json:"vendor"`
	Name    string `json:"name"`
	Version string `json:"version"`
	Path    string `json:"path"` // registry-relative schema file path
}

// IgluURI returns the vendor-qualified schema identifier,
// e.g. "iglu:acme/order/jsonschema/1-0-0".
func (s SchemaRef) IgluURI() string {
	return fmt.Sprintf("iglu:%s/%s/jsonschema/%s", s.Vendor, s.Name, s.Version)
}
