package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/canonhq/canonizer"
	"github.com/canonhq/canonizer/internal"
)

func runPublish(args []string) error {
	flags := flag.NewFlagSet("publish", flag.ContinueOnError)
	flags.SetOutput(os.Stdout)
	flags.Usage = func() {
		zap.S().Info("Usage: canonizer-tools publish [options]")
		zap.S().Info("")
		zap.S().Info("Options:")
		flags.PrintDefaults()
	}

	cfg := canonizer.DefaultConfig()
	repoRoot := flags.String("repo-root", cfg.Registry.Root, "Registry repository root directory")
	indexPath := flags.String("index", "", "Index file to publish (defaults to <repo-root>/REGISTRY_INDEX.json)")
	bucket := flags.String("bucket", "", "Target S3 bucket (required)")
	key := flags.String("key", cfg.Publish.Key, "Target S3 object key")
	region := flags.String("region", "", "AWS region override")

	if err := flags.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	resolvedIndex := *indexPath
	if resolvedIndex == "" {
		resolvedIndex = filepath.Join(*repoRoot, cfg.Index.OutputPath)
	}

	ctx := context.Background()
	client, err := internal.NewS3Client(ctx, *region)
	if err != nil {
		return err
	}

	publisher := internal.NewPublisher(client, canonizer.PublishConfig{
		Bucket: *bucket,
		Key:    *key,
		Region: *region,
	}, zap.S())
	return publisher.Publish(ctx, resolvedIndex)
}
