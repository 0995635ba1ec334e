/*
Package storage reads question bank documents from S3-compatible object storage.
*/
package storage

import (
	"context"
	"errors"
)

// MaxObjectSize caps the size of a bank document that will be downloaded (4 MB).
const MaxObjectSize int64 = 4 << 20

var (
	// ErrObjectNotFound is returned when the key does not exist in the bucket.
	ErrObjectNotFound = errors.New("object not found")

	// ErrObjectTooLarge is returned when the object exceeds MaxObjectSize.
	ErrObjectTooLarge = errors.New("object exceeds maximum size")
)

// ServiceConfig holds the configuration required to connect to the storage service.
type ServiceConfig struct {
	S3BucketName      string
	S3Endpoint        string
	S3AccessKeyID     string
	S3SecretAccessKey string
}

// StorageService defines the public interface for the object storage service.
type StorageService interface {
	// Download returns the full contents of the object stored under key.
	Download(ctx context.Context, key string) ([]byte, error)

	// Exists reports whether an object is stored under key.
	Exists(ctx context.Context, key string) (bool, error)
}

// NewStorageService is the factory function for StorageService.
func NewStorageService(ctx context.Context, cfg ServiceConfig) (StorageService, error) {
	// Currently, only S3 compatible implementations are supported.
	return newS3Client(ctx, cfg)
}
