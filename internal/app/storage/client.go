package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/rs/zerolog"

	"triviaroom/internal/pkg/logx"
)

// s3Client implements StorageService against S3-compatible storage.
type s3Client struct {
	cfg        ServiceConfig
	s3Client   *s3.Client
	downloader *manager.Downloader
	logger     zerolog.Logger
}

// newS3Client initializes the S3 client with static credentials, a custom endpoint and path-style addressing.
func newS3Client(ctx context.Context, cfg ServiceConfig) (*s3Client, error) {
	sdkCfg, err := config.LoadDefaultConfig(ctx,
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.S3AccessKeyID,
			cfg.S3SecretAccessKey,
			"",
		)),
		config.WithRegion("auto"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize S3 client configuration: %w", err)
	}

	client := s3.NewFromConfig(sdkCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.S3Endpoint)
		o.UsePathStyle = true
	})

	return &s3Client{
		cfg:        cfg,
		s3Client:   client,
		downloader: manager.NewDownloader(client),
		logger:     logx.Component("Storage"),
	}, nil
}

// head returns the object's size, or ErrObjectNotFound.
func (c *s3Client) head(ctx context.Context, key string) (int64, error) {
	resp, err := c.s3Client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(c.cfg.S3BucketName),
		Key:    aws.String(key),
	})
	if err != nil {
		var nf *types.NotFound
		if errors.As(err, &nf) {
			return 0, ErrObjectNotFound
		}
		c.logger.Error().Err(err).Str("key", key).Msg("Failed to get S3 object metadata.")
		return 0, fmt.Errorf("head object %s: %w", key, err)
	}

	return aws.ToInt64(resp.ContentLength), nil
}

// Exists reports whether an object is stored under key.
func (c *s3Client) Exists(ctx context.Context, key string) (bool, error) {
	_, err := c.head(ctx, key)
	if errors.Is(err, ErrObjectNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Download fetches the object stored under key into memory.
func (c *s3Client) Download(ctx context.Context, key string) ([]byte, error) {
	size, err := c.head(ctx, key)
	if err != nil {
		return nil, err
	}

	if size > MaxObjectSize {
		return nil, fmt.Errorf("%w: %s is %d bytes", ErrObjectTooLarge, key, size)
	}

	buf := manager.NewWriteAtBuffer(make([]byte, 0, size))

	n, err := c.downloader.Download(ctx, buf, &s3.GetObjectInput{
		Bucket: aws.String(c.cfg.S3BucketName),
		Key:    aws.String(key),
	})
	if err != nil {
		c.logger.Error().Err(err).Str("key", key).Msg("S3 download failed.")
		return nil, fmt.Errorf("download object %s: %w", key, err)
	}

	c.logger.Info().Str("key", key).Int64("bytes", n).Msg("Downloaded object.")

	return buf.Bytes()[:n], nil
}
