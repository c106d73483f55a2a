package canonizer

import (
	"fmt"

	"github.com/google/uuid"
)

// ErrorKind represents the category of a validation error.
type ErrorKind string

const (
	// ErrorKindStructural marks a missing required directory or file. Fatal
	// to the enclosing unit; further checks on that unit are skipped.
	ErrorKindStructural ErrorKind = "structural"
	// ErrorKindMetadata marks an unparsable or field-incomplete metadata
	// record.
	ErrorKindMetadata ErrorKind = "metadata"
	// ErrorKindIdentity marks an id, version or engine mismatch between the
	// metadata record and the directory-derived identity.
	ErrorKindIdentity ErrorKind = "identity"
	// ErrorKindIntegrity marks a checksum mismatch between the declared
	// digest and the expression bytes on disk.
	ErrorKindIntegrity ErrorKind = "integrity"
	// ErrorKindBehavioral marks a golden test mismatch or an evaluation
	// failure.
	ErrorKindBehavioral ErrorKind = "behavioral"
	// ErrorKindSchemaFormat marks a schema file that is not a JSON object or
	// not a structurally valid schema document.
	ErrorKindSchemaFormat ErrorKind = "schema_format"
	// ErrorKindUniqueness marks a duplicate (id, version) pair.
	ErrorKindUniqueness ErrorKind = "uniqueness"
)

// RegistryError is a single validation finding attributed to one registry
// unit (a transform version, a schema file, or the registry root).
type RegistryError struct {
	Kind    ErrorKind `json:"kind"`
	Unit    string    `json:"unit"`
	Field   string    `json:"field,omitempty"`
	Message string    `json:"message"`
	Cause   error     `json:"-"`
}

func (e *RegistryError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("[%s] %s: field '%s': %s", e.Kind, e.Unit, e.Field, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Kind, e.Unit, e.Message)
}

func (e *RegistryError) Unwrap() error {
	return e.Cause
}

// WithField attaches the offending metadata field to the error.
func (e *RegistryError) WithField(field string) *RegistryError {
	e.Field = field
	return e
}

// WithCause attaches the underlying error.
func (e *RegistryError) WithCause(cause error) *RegistryError {
	e.Cause = cause
	return e
}

// NewRegistryError creates an error of the given kind for the given unit.
func NewRegistryError(kind ErrorKind, unit, message string) *RegistryError {
	return &RegistryError{Kind: kind, Unit: unit, Message: message}
}

// NewStructuralError creates a missing-artifact error.
func NewStructuralError(unit, message string) *RegistryError {
	return NewRegistryError(ErrorKindStructural, unit, message)
}

// NewMetadataError creates a metadata parse or completeness error.
func NewMetadataError(unit, message string) *RegistryError {
	return NewRegistryError(ErrorKindMetadata, unit, message)
}

// NewIdentityError creates an id/version/engine mismatch error.
func NewIdentityError(unit, field, message string) *RegistryError {
	return NewRegistryError(ErrorKindIdentity, unit, message).WithField(field)
}

// NewIntegrityError creates a checksum mismatch error naming both digests.
func NewIntegrityError(unit, declared, actual string) *RegistryError {
	return NewRegistryError(ErrorKindIntegrity, unit,
		fmt.Sprintf("checksum mismatch (expected %s, got %s)", declared, actual))
}

// NewBehavioralError creates a golden test failure.
func NewBehavioralError(unit, message string) *RegistryError {
	return NewRegistryError(ErrorKindBehavioral, unit, message)
}

// NewSchemaFormatError creates a schema well-formedness error.
func NewSchemaFormatError(unit, message string) *RegistryError {
	return NewRegistryError(ErrorKindSchemaFormat, unit, message)
}

// NewUniquenessError creates a duplicate identity error.
func NewUniquenessError(unit string) *RegistryError {
	return NewRegistryError(ErrorKindUniqueness, unit, "duplicate transform")
}

// IsKind reports whether err is a RegistryError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	if re, ok := err.(*RegistryError); ok {
		return re.Kind == kind
	}
	return false
}

// Report accumulates errors and warnings across one validation run. It is
// owned by a single caller for the run's lifetime; no state persists between
// runs.
type Report struct {
	RunID          uuid.UUID        `json:"run_id"`
	Errors         []*RegistryError `json:"errors"`
	Warnings       []string         `json:"warnings"`
	TransformCount int              `json:"transform_count"`
	SchemaCount    int              `json:"schema_count"`
}

// NewReport creates an empty report with a fresh run id.
func NewReport() *Report {
	return &Report{
		RunID:    uuid.New(),
		Errors:   make([]*RegistryError, 0),
		Warnings: make([]string, 0),
	}
}

// Add records a hard failure.
func (r *Report) Add(err *RegistryError) {
	r.Errors = append(r.Errors, err)
}

// Warnf records a soft, non-blocking finding.
func (r *Report) Warnf(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// HasErrors returns true if any hard failure was recorded.
func (r *Report) HasErrors() bool {
	return len(r.Errors) > 0
}

// OK is the authoritative pass/fail signal: true iff no errors accumulated.
func (r *Report) OK() bool {
	return !r.HasErrors()
}

// ErrorsOfKind returns the recorded errors of the given kind.
func (r *Report) ErrorsOfKind(kind ErrorKind) []*RegistryError {
	var out []*RegistryError
	for _, err := range r.Errors {
		if err.Kind == kind {
			out = append(out, err)
		}
	}
	return out
}
