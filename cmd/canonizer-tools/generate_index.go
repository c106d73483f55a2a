package main

import (
	"errors"
	"flag"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/canonhq/canonizer"
	"github.com/canonhq/canonizer/internal"
)

func runGenerateIndex(args []string) error {
	flags := flag.NewFlagSet("generate-index", flag.ContinueOnError)
	flags.SetOutput(os.Stdout)
	flags.Usage = func() {
		zap.S().Info("Usage: canonizer-tools generate-index [options]")
		zap.S().Info("")
		zap.S().Info("Options:")
		flags.PrintDefaults()
	}

	cfg := canonizer.DefaultConfig()
	repoRoot := flags.String("repo-root", cfg.Registry.Root, "Registry repository root directory")
	output := flags.String("out", "", "Output file path (defaults to <repo-root>/REGISTRY_INDEX.json)")

	if err := flags.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	outputPath := *output
	if outputPath == "" {
		outputPath = filepath.Join(*repoRoot, cfg.Index.OutputPath)
	}

	builder := internal.NewIndexBuilder(*repoRoot, cfg.Index.FormatVersion, zap.S())
	index, err := builder.Build()
	if err != nil {
		return err
	}
	if err := internal.WriteIndex(index, outputPath); err != nil {
		return err
	}

	zap.S().Infow("index written", "path", outputPath)
	return nil
}
