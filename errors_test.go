package canonizer

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *RegistryError
		want string
	}{
		{
			name: "without field",
			err:  NewStructuralError("payments/normalize_amount@1.0.0", "missing spec.jsonata"),
			want: "[structural] payments/normalize_amount@1.0.0: missing spec.jsonata",
		},
		{
			name: "with field",
			err:  NewIdentityError("payments/normalize_amount@1.0.0", "engine", `invalid engine "xslt" (must be "jsonata")`),
			want: `[identity] payments/normalize_amount@1.0.0: field 'engine': invalid engine "xslt" (must be "jsonata")`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestRegistryError_Unwrap(t *testing.T) {
	cause := errors.New("yaml: line 3: mapping values are not allowed")
	err := NewMetadataError("a/b@1.0.0", "parse metadata").WithCause(cause)
	assert.ErrorIs(t, err, cause)
}

func TestNewIntegrityError_NamesBothDigests(t *testing.T) {
	err := NewIntegrityError("a/b@1.0.0", "abc", "def")
	assert.Contains(t, err.Message, "abc")
	assert.Contains(t, err.Message, "def")
}

func TestIsKind(t *testing.T) {
	err := NewUniquenessError("a/b@1.0.0")
	assert.True(t, IsKind(err, ErrorKindUniqueness))
	assert.False(t, IsKind(err, ErrorKindStructural))
	assert.False(t, IsKind(errors.New("plain"), ErrorKindUniqueness))
}

// =============================================================================
// Report Tests
// =============================================================================

func TestReport_OK(t *testing.T) {
	report := NewReport()
	require.NotEqual(t, "00000000-0000-0000-0000-000000000000", report.RunID.String())
	assert.True(t, report.OK())
	assert.False(t, report.HasErrors())

	report.Warnf("evaluator unavailable, %d checks skipped", 3)
	assert.True(t, report.OK(), "warnings must not fail the run")
	assert.Equal(t, []string{"evaluator unavailable, 3 checks skipped"}, report.Warnings)

	report.Add(NewStructuralError("a/b@1.0.0", "missing tests/ directory"))
	assert.False(t, report.OK())
	assert.True(t, report.HasErrors())
}

func TestReport_ErrorsOfKind(t *testing.T) {
	report := NewReport()
	report.Add(NewStructuralError("a/b@1.0.0", "missing spec.jsonata"))
	report.Add(NewIdentityError("a/b@1.0.0", "engine", "invalid engine"))
	report.Add(NewIdentityError("a/b@2.0.0", "id", "id mismatch"))

	assert.Len(t, report.ErrorsOfKind(ErrorKindIdentity), 2)
	assert.Len(t, report.ErrorsOfKind(ErrorKindStructural), 1)
	assert.Empty(t, report.ErrorsOfKind(ErrorKindIntegrity))
}
