package canonizer

// Evaluator is the expression engine contract. It is a pure function of
// (expression, input): the same pair always yields the same output.
// Implementations return an error for malformed expressions and for runtime
// evaluation failures alike.
type Evaluator interface {
	Evaluate(expression string, input any) (any, error)
}

// SchemaMetaValidator asserts that a parsed schema document is itself a
// structurally valid JSON Schema. It returns an error describing the first
// structural problem found.
type SchemaMetaValidator interface {
	CheckSchema(doc any) error
}
