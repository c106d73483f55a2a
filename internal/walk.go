package internal

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/canonhq/canonizer"
)

// Directory-enumeration order is whatever the filesystem reports. Components
// needing deterministic output sort explicitly before use.

// skipEntry hides non-directories and dot-prefixed names from traversal,
// matching the registry's convention that hidden entries are not content.
func skipEntry(entry os.DirEntry) bool {
	return !entry.IsDir() || strings.HasPrefix(entry.Name(), ".")
}

// TransformGroups enumerates every transform directory under
// <root>/transforms, grouped by "<category>/<name>". Groups are kept even
// when a transform has no version subdirectories yet.
func TransformGroups(root string) ([]canonizer.TransformGroup, error) {
	transformsDir := filepath.Join(root, canonizer.TransformsDirName)
	categories, err := os.ReadDir(transformsDir)
	if err != nil {
		return nil, fmt.Errorf("read transforms directory: %w", err)
	}

	var groups []canonizer.TransformGroup
	for _, category := range categories {
		if skipEntry(category) {
			continue
		}
		names, err := os.ReadDir(filepath.Join(transformsDir, category.Name()))
		if err != nil {
			return nil, fmt.Errorf("read category %s: %w", category.Name(), err)
		}
		for _, name := range names {
			if skipEntry(name) {
				continue
			}
			group := canonizer.TransformGroup{
				ID: category.Name() + "/" + name.Name(),
			}
			versions, err := os.ReadDir(filepath.Join(transformsDir, category.Name(), name.Name()))
			if err != nil {
				return nil, fmt.Errorf("read transform %s: %w", group.ID, err)
			}
			for _, version := range versions {
				if skipEntry(version) {
					continue
				}
				group.Versions = append(group.Versions, canonizer.TransformRef{
					Category: category.Name(),
					Name:     name.Name(),
					Version:  version.Name(),
					Dir:      filepath.Join(transformsDir, category.Name(), name.Name(), version.Name()),
				})
			}
			groups = append(groups, group)
		}
	}
	return groups, nil
}

// TransformVersions flattens TransformGroups into version directories in
// traversal order.
func TransformVersions(root string) ([]canonizer.TransformRef, error) {
	groups, err := TransformGroups(root)
	if err != nil {
		return nil, err
	}
	var refs []canonizer.TransformRef
	for _, group := range groups {
		refs = append(refs, group.Versions...)
	}
	return refs, nil
}

// SchemaFiles enumerates every *.json file under
// <root>/schemas/<vendor>/<name>/jsonschema. The version token is the
// filename stem, verbatim. Paths are registry-relative.
func SchemaFiles(root string) ([]canonizer.SchemaRef, error) {
	schemasDir := filepath.Join(root, canonizer.SchemasDirName)
	vendors, err := os.ReadDir(schemasDir)
	if err != nil {
		return nil, fmt.Errorf("read schemas directory: %w", err)
	}

	var refs []canonizer.SchemaRef
	for _, vendor := range vendors {
		if skipEntry(vendor) {
			continue
		}
		names, err := os.ReadDir(filepath.Join(schemasDir, vendor.Name()))
		if err != nil {
			return nil, fmt.Errorf("read vendor %s: %w", vendor.Name(), err)
		}
		for _, name := range names {
			if skipEntry(name) {
				continue
			}
			jsonschemaDir := filepath.Join(schemasDir, vendor.Name(), name.Name(), "jsonschema")
			files, err := os.ReadDir(jsonschemaDir)
			if err != nil {
				// A schema set without a jsonschema directory holds no
				// validatable content.
				continue
			}
			for _, file := range files {
				if file.IsDir() || !strings.HasSuffix(file.Name(), ".json") {
					continue
				}
				refs = append(refs, canonizer.SchemaRef{
					Vendor:  vendor.Name(),
					Name:    name.Name(),
					Version: strings.TrimSuffix(file.Name(), ".json"),
					Path: filepath.ToSlash(filepath.Join(
						canonizer.SchemasDirName, vendor.Name(), name.Name(), "jsonschema", file.Name())),
				})
			}
		}
	}
	return refs, nil
}
