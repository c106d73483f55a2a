package internal

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/canonhq/canonizer"
)

func TestTransformGroups(t *testing.T) {
	f := newFixtureRegistry(t)
	f.addTransform("payments", "normalize_amount", "1.0.0", nil)
	f.addTransform("payments", "normalize_amount", "1.1.0", nil)
	f.addTransform("orders", "flatten_lines", "1.0.0", nil)

	// A transform directory with no version subdirectories yet.
	require.NoError(t, os.MkdirAll(filepath.Join(f.root, canonizer.TransformsDirName, "orders", "empty_one"), 0o755))

	groups, err := TransformGroups(f.root)
	require.NoError(t, err)
	require.Len(t, groups, 3)

	byID := make(map[string]canonizer.TransformGroup, len(groups))
	for _, g := range groups {
		byID[g.ID] = g
	}
	assert.Len(t, byID["payments/normalize_amount"].Versions, 2)
	assert.Len(t, byID["orders/flatten_lines"].Versions, 1)
	assert.Empty(t, byID["orders/empty_one"].Versions, "empty groups are kept")
}

func TestTransformGroups_SkipsHiddenAndFiles(t *testing.T) {
	f := newFixtureRegistry(t)
	ref := f.addTransform("payments", "normalize_amount", "1.0.0", nil)

	transformsDir := filepath.Join(f.root, canonizer.TransformsDirName)
	require.NoError(t, os.MkdirAll(filepath.Join(transformsDir, ".hidden", "x", "1.0.0"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(transformsDir, "README.md"), []byte("docs"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(filepath.Dir(ref.Dir), "notes.txt"), []byte("n"), 0o644))

	refs, err := TransformVersions(f.root)
	require.NoError(t, err)
	require.Len(t, refs, 1)
	assert.Equal(t, "payments/normalize_amount@1.0.0", refs[0].String())
}

func TestTransformGroups_MissingTransformsDir(t *testing.T) {
	_, err := TransformGroups(t.TempDir())
	assert.Error(t, err)
}

func TestSchemaFiles(t *testing.T) {
	f := newFixtureRegistry(t)
	f.addSchema("acme", "order", "1-0-0", fixtureSchemaJSON)
	f.addSchema("acme", "order", "2-0-0", fixtureSchemaJSON)
	f.addSchema("canon", "order", "1-0-0", fixtureSchemaJSON)

	// Non-JSON files and schema sets without a jsonschema directory are
	// ignored.
	require.NoError(t, os.WriteFile(
		filepath.Join(f.root, canonizer.SchemasDirName, "acme", "order", "jsonschema", "notes.txt"),
		[]byte("n"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(f.root, canonizer.SchemasDirName, "acme", "legacy"), 0o755))

	refs, err := SchemaFiles(f.root)
	require.NoError(t, err)
	require.Len(t, refs, 3)

	uris := make([]string, 0, len(refs))
	for _, ref := range refs {
		uris = append(uris, ref.IgluURI())
	}
	assert.ElementsMatch(t, []string{
		"iglu:acme/order/jsonschema/1-0-0",
		"iglu:acme/order/jsonschema/2-0-0",
		"iglu:canon/order/jsonschema/1-0-0",
	}, uris)
}

func TestSchemaFiles_RelativePaths(t *testing.T) {
	f := newFixtureRegistry(t)
	want := f.addSchema("acme", "order", "1-0-0", fixtureSchemaJSON)

	refs, err := SchemaFiles(f.root)
	require.NoError(t, err)
	require.Len(t, refs, 1)
	assert.Equal(t, want, refs[0].Path)
	assert.Equal(t, "schemas/acme/order/jsonschema/1-0-0.json", refs[0].Path)
}
