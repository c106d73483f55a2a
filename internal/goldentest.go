package internal

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/canonhq/canonizer"
)

// previewLimit bounds the expected/actual excerpts in mismatch reports so
// large payloads stay scannable in logs.
const previewLimit = 200

// GoldenFailureKind distinguishes a wrong answer from a failure to answer.
type GoldenFailureKind string

const (
	// GoldenMismatch: evaluation succeeded but the output differs from the
	// expected document.
	GoldenMismatch GoldenFailureKind = "mismatch"
	// GoldenError: the expression failed to compile or evaluate, or a test
	// document could not be parsed.
	GoldenError GoldenFailureKind = "error"
)

// GoldenFailure describes one failed golden test case. A nil *GoldenFailure
// means the case passed.
type GoldenFailure struct {
	Kind     GoldenFailureKind
	Message  string
	Expected string // truncated preview, mismatches only
	Actual   string // truncated preview, mismatches only
}

// GoldenTestRunner executes golden test cases against an expression engine.
type GoldenTestRunner struct {
	eval canonizer.Evaluator
}

// NewGoldenTestRunner creates a runner backed by the given evaluator.
func NewGoldenTestRunner(eval canonizer.Evaluator) *GoldenTestRunner {
	return &GoldenTestRunner{eval: eval}
}

// Run evaluates the expression against the input document and compares the
// result to the expected document with JSON deep equality: order-sensitive
// for arrays, key-set and per-key equality for objects, exact equality for
// scalars. JSON-text differences never matter.
func (r *GoldenTestRunner) Run(expression string, input, expected any) *GoldenFailure {
	actual, err := r.eval.Evaluate(expression, input)
	if err != nil {
		return &GoldenFailure{Kind: GoldenError, Message: err.Error()}
	}

	actualNorm, err := normalizeJSON(actual)
	if err != nil {
		return &GoldenFailure{Kind: GoldenError, Message: fmt.Sprintf("normalize actual output: %v", err)}
	}
	expectedNorm, err := normalizeJSON(expected)
	if err != nil {
		return &GoldenFailure{Kind: GoldenError, Message: fmt.Sprintf("normalize expected output: %v", err)}
	}

	if !reflect.DeepEqual(actualNorm, expectedNorm) {
		return &GoldenFailure{
			Kind:     GoldenMismatch,
			Message:  "golden test failed",
			Expected: preview(expectedNorm),
			Actual:   preview(actualNorm),
		}
	}
	return nil
}

// normalizeJSON round-trips a value through JSON so both sides of the
// comparison use identical representations (float64 numbers, map[string]any
// objects), whatever the evaluator returned.
func normalizeJSON(v any) (any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func preview(v any) string {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("<unrenderable: %v>", err)
	}
	if len(raw) <= previewLimit {
		return string(raw)
	}
	return string(raw[:previewLimit]) + "..."
}
