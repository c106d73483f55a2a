package internal

import (
	"fmt"

	jsonata "github.com/blues/jsonata-go"

	"github.com/canonhq/canonizer"
)

// jsonataEvaluator evaluates JSONata expressions with the jsonata-go engine.
type jsonataEvaluator struct{}

// NewJSONataEvaluator returns the registry's expression evaluator.
func NewJSONataEvaluator() canonizer.Evaluator {
	return jsonataEvaluator{}
}

func (jsonataEvaluator) Evaluate(expression string, input any) (any, error) {
	expr, err := jsonata.Compile(expression)
	if err != nil {
		return nil, fmt.Errorf("compile expression: %w", err)
	}
	out, err := expr.Eval(input)
	if err != nil {
		return nil, fmt.Errorf("evaluate expression: %w", err)
	}
	return out, nil
}
