package canonizer

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ChecksumKeyJSONata is the checksum block key carrying the SHA-256 digest of
// the JSONata expression source.
const ChecksumKeyJSONata = "jsonata_sha256"

// RequiredMetaFields are the top-level keys a metadata record must declare to
// pass validation. The index builder tolerates their absence.
var RequiredMetaFields = []string{
	"id", "version", "engine", "from_schema", "to_schema",
	"tests", "checksum", "provenance", "status",
}

// Provenance records who created a transform version and when.
type Provenance struct {
	Author     string `yaml:"author" json:"author"`
	CreatedUTC string `yaml:"created_utc" json:"created_utc"`
}

// Compat declares the schema version range a transform accepts.
type Compat struct {
	FromSchemaRange string `yaml:"from_schema_range" json:"from_schema_range"`
}

// VersionMeta is the typed projection of a spec.meta.yaml record. Unknown
// keys are ignored; optional blocks stay nil when absent. Typed access to a
// required field is only meaningful after MissingRequired reports none.
type VersionMeta struct {
	ID         string            `yaml:"id"`
	Version    string            `yaml:"version"`
	Engine     string            `yaml:"engine"`
	FromSchema string            `yaml:"from_schema"`
	ToSchema   string            `yaml:"to_schema"`
	Tests      []GoldenTestCase  `yaml:"tests"`
	Checksum   map[string]string `yaml:"checksum"`
	Provenance *Provenance       `yaml:"provenance"`
	Compat     *Compat           `yaml:"compat"`
	Status     string            `yaml:"status"`

	present map[string]bool
}

// LoadVersionMeta reads and parses one version's metadata record. Callers
// convert the error into a diagnostic; nothing is raised past this boundary.
func LoadVersionMeta(path string) (*VersionMeta, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read metadata: %w", err)
	}

	var meta VersionMeta
	if err := yaml.Unmarshal(raw, &meta); err != nil {
		return nil, fmt.Errorf("parse metadata: %w", err)
	}

	// Decode a second time untyped to capture which top-level keys the
	// record actually declares. Zero values and absent keys are otherwise
	// indistinguishable after typed decoding.
	var keys map[string]any
	if err := yaml.Unmarshal(raw, &keys); err != nil {
		return nil, fmt.Errorf("parse metadata: %w", err)
	}
	meta.present = make(map[string]bool, len(keys))
	for k := range keys {
		meta.present[k] = true
	}

	return &meta, nil
}

// Has reports whether the record declares the given top-level key, even with
// an empty or null value.
func (m *VersionMeta) Has(key string) bool {
	return m.present[key]
}

// MissingRequired returns every required field the record fails to declare,
// in the canonical field order.
func (m *VersionMeta) MissingRequired() []string {
	var missing []string
	for _, field := range RequiredMetaFields {
		if !m.Has(field) {
			missing = append(missing, field)
		}
	}
	return missing
}

// DeclaredChecksum returns the declared expression digest, if any.
func (m *VersionMeta) DeclaredChecksum() (string, bool) {
	if m.Checksum == nil {
		return "", false
	}
	digest, ok := m.Checksum[ChecksumKeyJSONata]
	return digest, ok
}

// StatusOrDefault returns the declared lifecycle status, defaulting to draft.
func (m *VersionMeta) StatusOrDefault() Status {
	if m.Status == "" {
		return StatusDraft
	}
	return Status(m.Status)
}
