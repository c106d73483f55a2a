package internal

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/canonhq/canonizer"
)

// fixtureExpression projects the two fields golden tests exercise.
const fixtureExpression = `{ "amount": amount, "currency": currency }`

var fixtureDoc = map[string]any{"amount": 10, "currency": "usd"}

const fixtureSchemaJSON = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "properties": {
    "amount": {"type": "number"},
    "currency": {"type": "string"}
  }
}`

// fixtureRegistry builds a registry checkout under a temp dir.
type fixtureRegistry struct {
	t    *testing.T
	root string
}

func newFixtureRegistry(t *testing.T) *fixtureRegistry {
	t.Helper()
	f := &fixtureRegistry{t: t, root: t.TempDir()}
	for _, dir := range []string{
		canonizer.TransformsDirName,
		canonizer.SchemasDirName,
		"tools",
		filepath.Join(".github", "workflows"),
	} {
		require.NoError(t, os.MkdirAll(filepath.Join(f.root, dir), 0o755))
	}
	return f
}

func sha256Hex(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// defaultMeta returns a fully valid metadata record for the given identity
// and expression bytes.
func defaultMeta(id, version string, expression []byte) map[string]any {
	return map[string]any{
		"id":          id,
		"version":     version,
		"engine":      "jsonata",
		"from_schema": "iglu:acme/order/jsonschema/1-0-0",
		"to_schema":   "iglu:canon/order/jsonschema/1-0-0",
		"tests": []map[string]string{
			{"input": "tests/basic.input.json", "expect": "tests/basic.expect.json"},
		},
		"checksum": map[string]string{
			"jsonata_sha256": sha256Hex(expression),
		},
		"provenance": map[string]string{
			"author":      "Data Team",
			"created_utc": "2026-01-15T10:00:00Z",
		},
		"status": "published",
	}
}

// addTransform writes a complete version directory: expression, metadata,
// golden test pair. mutate may adjust the metadata record before writing;
// expect may differ from input to provoke golden mismatches.
func (f *fixtureRegistry) addTransform(category, name, version string, mutate func(meta map[string]any)) canonizer.TransformRef {
	f.t.Helper()
	return f.addTransformDocs(category, name, version, fixtureExpression, fixtureDoc, fixtureDoc, mutate)
}

func (f *fixtureRegistry) addTransformDocs(category, name, version, expression string, input, expect any, mutate func(meta map[string]any)) canonizer.TransformRef {
	f.t.Helper()
	ref := canonizer.TransformRef{
		Category: category,
		Name:     name,
		Version:  version,
		Dir:      filepath.Join(f.root, canonizer.TransformsDirName, category, name, version),
	}
	require.NoError(f.t, os.MkdirAll(ref.TestsPath(), 0o755))
	require.NoError(f.t, os.WriteFile(ref.ExpressionPath(), []byte(expression), 0o644))
	f.writeJSON(filepath.Join(ref.TestsPath(), "basic.input.json"), input)
	f.writeJSON(filepath.Join(ref.TestsPath(), "basic.expect.json"), expect)

	meta := defaultMeta(ref.ID(), version, []byte(expression))
	if mutate != nil {
		mutate(meta)
	}
	f.writeMetaMap(ref, meta)
	return ref
}

func (f *fixtureRegistry) writeMetaMap(ref canonizer.TransformRef, meta map[string]any) {
	f.t.Helper()
	encoded, err := yaml.Marshal(meta)
	require.NoError(f.t, err)
	require.NoError(f.t, os.WriteFile(ref.MetaPath(), encoded, 0o644))
}

func (f *fixtureRegistry) writeMetaRaw(ref canonizer.TransformRef, content string) {
	f.t.Helper()
	require.NoError(f.t, os.WriteFile(ref.MetaPath(), []byte(content), 0o644))
}

func (f *fixtureRegistry) writeJSON(path string, doc any) {
	f.t.Helper()
	encoded, err := json.Marshal(doc)
	require.NoError(f.t, err)
	require.NoError(f.t, os.WriteFile(path, encoded, 0o644))
}

// addSchema writes one schema file and returns its registry-relative path.
func (f *fixtureRegistry) addSchema(vendor, name, version, content string) string {
	f.t.Helper()
	dir := filepath.Join(f.root, canonizer.SchemasDirName, vendor, name, "jsonschema")
	require.NoError(f.t, os.MkdirAll(dir, 0o755))
	require.NoError(f.t, os.WriteFile(filepath.Join(dir, version+".json"), []byte(content), 0o644))
	return filepath.ToSlash(filepath.Join(canonizer.SchemasDirName, vendor, name, "jsonschema", version+".json"))
}
