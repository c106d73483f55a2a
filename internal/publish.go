package internal

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awsCreds "github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"

	"github.com/canonhq/canonizer"
)

// ObjectPutter is the slice of the S3 API the publisher needs.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Publisher uploads the generated index document to object storage so
// external discovery tooling can fetch it without a registry checkout.
type Publisher struct {
	client ObjectPutter
	cfg    canonizer.PublishConfig
	logger *zap.SugaredLogger
}

// NewPublisher creates a publisher over the given client.
func NewPublisher(client ObjectPutter, cfg canonizer.PublishConfig, logger *zap.SugaredLogger) *Publisher {
	if logger == nil {
		logger = zap.S()
	}
	return &Publisher{client: client, cfg: cfg, logger: logger}
}

// NewS3Client builds an S3 client from the ambient AWS configuration,
// falling back to static credentials from the environment when set.
func NewS3Client(ctx context.Context, region string) (*s3.Client, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	if region != "" {
		awsCfg.Region = region
	}
	if os.Getenv("AWS_ACCESS_KEY_ID") != "" && os.Getenv("AWS_SECRET_ACCESS_KEY") != "" {
		awsCfg.Credentials = awsCreds.NewStaticCredentialsProvider(
			os.Getenv("AWS_ACCESS_KEY_ID"), os.Getenv("AWS_SECRET_ACCESS_KEY"), "")
	}
	return s3.NewFromConfig(awsCfg), nil
}

// Publish uploads the index document at indexPath to the configured bucket
// and key.
func (p *Publisher) Publish(ctx context.Context, indexPath string) error {
	if p.cfg.Bucket == "" {
		return fmt.Errorf("publish: bucket is required")
	}
	if p.cfg.Key == "" {
		return fmt.Errorf("publish: key is required")
	}

	raw, err := os.ReadFile(indexPath)
	if err != nil {
		return fmt.Errorf("read index %s: %w", indexPath, err)
	}

	_, err = p.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(p.cfg.Bucket),
		Key:         aws.String(p.cfg.Key),
		Body:        bytes.NewReader(raw),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("put s3://%s/%s: %w", p.cfg.Bucket, p.cfg.Key, err)
	}

	p.logger.Infow("index published",
		"bucket", p.cfg.Bucket,
		"key", p.cfg.Key,
		"bytes", len(raw),
	)
	return nil
}
