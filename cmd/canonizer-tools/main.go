package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(fmt.Errorf("failed to set up logger: %w", err))
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)
	sugar := logger.Sugar()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "validate":
		ok, err := runValidate(os.Args[2:])
		if err != nil {
			sugar.Fatalf("validate: %v", err)
		}
		if !ok {
			os.Exit(1)
		}
	case "generate-index":
		if err := runGenerateIndex(os.Args[2:]); err != nil {
			sugar.Fatalf("generate-index: %v", err)
		}
	case "publish":
		if err := runPublish(os.Args[2:]); err != nil {
			sugar.Fatalf("publish: %v", err)
		}
	default:
		sugar.Errorf("unknown command %q", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	logger := zap.S()
	logger.Info("Usage: canonizer-tools <command> [options]")
	logger.Info("")
	logger.Info("Commands:")
	logger.Info("  validate        Validate registry structure, transforms and schemas")
	logger.Info("  generate-index  Generate REGISTRY_INDEX.json from registry contents")
	logger.Info("  publish         Upload a generated index to S3")
}
