package internal

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/canonhq/canonizer"
)

// Index is the generated registry catalog. Top-level key order is fixed by
// field order and deliberately not alphabetized, so regenerations over an
// unchanged registry differ only in generated_at.
type Index struct {
	Version     string           `json:"version"`
	GeneratedAt string           `json:"generated_at"`
	Transforms  []TransformEntry `json:"transforms"`
	Schemas     []SchemaEntry    `json:"schemas"`
}

// TransformEntry groups the versions of one transform id, newest first.
type TransformEntry struct {
	ID       string         `json:"id"`
	Versions []VersionEntry `json:"versions"`
}

// VersionEntry is the reduced per-version projection of a metadata record.
type VersionEntry struct {
	Version    string            `json:"version"`
	FromSchema string            `json:"from_schema"`
	ToSchema   string            `json:"to_schema"`
	Status     canonizer.Status  `json:"status"`
	Path       string            `json:"path"`
	Checksum   map[string]string `json:"checksum,omitempty"`
	Author     string            `json:"author,omitempty"`
	CreatedUTC string            `json:"created_utc,omitempty"`
	Compat     *canonizer.Compat `json:"compat,omitempty"`
}

// SchemaEntry is one schema file in the catalog.
type SchemaEntry struct {
	URI  string `json:"uri"`
	Path string `json:"path"`
}

// IndexBuilder derives the flat discovery catalog from a registry checkout.
// The whole index is regenerated on every build, never partially updated.
type IndexBuilder struct {
	root          string
	formatVersion string
	logger        *zap.SugaredLogger
}

// NewIndexBuilder creates a builder for the registry rooted at root.
func NewIndexBuilder(root, formatVersion string, logger *zap.SugaredLogger) *IndexBuilder {
	if logger == nil {
		logger = zap.S()
	}
	return &IndexBuilder{root: root, formatVersion: formatVersion, logger: logger}
}

// Build walks the registry and assembles the index. The generation timestamp
// is captured once at build start. Transform groups are sorted by id,
// versions within a group descending by raw string comparison (a documented
// limitation: "2.0.0" sorts before "10.0.0"), schemas ascending by iglu URI.
func (b *IndexBuilder) Build() (*Index, error) {
	index := &Index{
		Version:     b.formatVersion,
		GeneratedAt: time.Now().UTC().Format(time.RFC3339Nano),
		Transforms:  []TransformEntry{},
		Schemas:     []SchemaEntry{},
	}

	transforms, err := b.collectTransforms()
	if err != nil {
		return nil, err
	}
	index.Transforms = transforms

	schemas, err := b.collectSchemas()
	if err != nil {
		return nil, err
	}
	index.Schemas = schemas

	b.logger.Infow("index assembled",
		"transforms", len(index.Transforms),
		"schemas", len(index.Schemas),
	)
	return index, nil
}

func (b *IndexBuilder) collectTransforms() ([]TransformEntry, error) {
	groups, err := TransformGroups(b.root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []TransformEntry{}, nil
		}
		return nil, err
	}

	entries := make([]TransformEntry, 0, len(groups))
	for _, group := range groups {
		entry := TransformEntry{ID: group.ID, Versions: []VersionEntry{}}
		for _, ref := range group.Versions {
			ve, err := b.readVersionEntry(ref)
			if err != nil {
				// Unreadable metadata drops the version from the catalog; the
				// validator is the component that turns this into a failure.
				b.logger.Warnw("skipping version with unreadable metadata",
					"transform", ref.String(), "error", err)
				continue
			}
			entry.Versions = append(entry.Versions, *ve)
		}
		sort.Slice(entry.Versions, func(i, j int) bool {
			return entry.Versions[i].Version > entry.Versions[j].Version
		})
		entries = append(entries, entry)
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].ID < entries[j].ID
	})
	return entries, nil
}

func (b *IndexBuilder) readVersionEntry(ref canonizer.TransformRef) (*VersionEntry, error) {
	meta, err := canonizer.LoadVersionMeta(ref.MetaPath())
	if err != nil {
		return nil, err
	}

	rel, err := filepath.Rel(b.root, ref.Dir)
	if err != nil {
		return nil, fmt.Errorf("relativize %s: %w", ref.Dir, err)
	}

	entry := &VersionEntry{
		Version:    meta.Version,
		FromSchema: meta.FromSchema,
		ToSchema:   meta.ToSchema,
		Status:     meta.StatusOrDefault(),
		Path:       filepath.ToSlash(rel) + "/",
		Checksum:   meta.Checksum,
	}
	if meta.Provenance != nil {
		entry.Author = meta.Provenance.Author
		if entry.Author == "" {
			entry.Author = "Unknown"
		}
		entry.CreatedUTC = meta.Provenance.CreatedUTC
	}
	if meta.Compat != nil && meta.Compat.FromSchemaRange != "" {
		entry.Compat = meta.Compat
	}
	return entry, nil
}

func (b *IndexBuilder) collectSchemas() ([]SchemaEntry, error) {
	refs, err := SchemaFiles(b.root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []SchemaEntry{}, nil
		}
		return nil, err
	}

	entries := make([]SchemaEntry, 0, len(refs))
	for _, ref := range refs {
		entries = append(entries, SchemaEntry{URI: ref.IgluURI(), Path: ref.Path})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].URI < entries[j].URI
	})
	return entries, nil
}

// WriteIndex serializes the index as pretty-printed JSON with a trailing
// newline and writes it atomically: temp file in the target directory, then
// rename.
func WriteIndex(index *Index, path string) error {
	encoded, err := json.MarshalIndent(index, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal index: %w", err)
	}
	encoded = append(encoded, '\n')

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".registry-index-*")
	if err != nil {
		return fmt.Errorf("create temp index: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(encoded); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp index: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp index: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("chmod temp index: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename index into place: %w", err)
	}
	return nil
}
