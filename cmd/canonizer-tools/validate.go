package main

import (
	"errors"
	"flag"
	"os"

	"go.uber.org/zap"

	"github.com/canonhq/canonizer/internal"
)

func runValidate(args []string) (bool, error) {
	flags := flag.NewFlagSet("validate", flag.ContinueOnError)
	flags.SetOutput(os.Stdout)
	flags.Usage = func() {
		zap.S().Info("Usage: canonizer-tools validate [options]")
		zap.S().Info("")
		zap.S().Info("Options:")
		flags.PrintDefaults()
	}

	repoRoot := flags.String("repo-root", ".", "Registry repository root directory")
	checkStructure := flags.Bool("check-structure", false, "Only check directory structure")
	checkTransforms := flags.Bool("check-transforms", false, "Only check transforms")
	checkSchemas := flags.Bool("check-schemas", false, "Only check schemas")

	if err := flags.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return true, nil
		}
		return false, err
	}

	validator := internal.NewValidator(*repoRoot, internal.ValidatorOptions{
		Evaluator:     internal.NewJSONataEvaluator(),
		MetaValidator: internal.NewSchemaMetaValidator(),
		Logger:        zap.S(),
		Out:           os.Stdout,
	})

	var ok bool
	switch {
	case *checkStructure:
		ok = validator.CheckStructure()
	case *checkTransforms:
		ok = validator.CheckTransforms()
	case *checkSchemas:
		ok = validator.CheckSchemas()
	default:
		ok = validator.ValidateAll()
	}
	return ok, nil
}
