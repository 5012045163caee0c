/*
Package storage provides object storage for user avatars through an
S3-compatible backend.

The server never proxies avatar bytes: clients upload and download through
presigned URLs, and the server only validates and records object keys.
*/
package storage

import (
	"context"
	"time"
)

// ObjectInfo describes a stored object's metadata.
type ObjectInfo struct {
	ContentType   string
	ContentLength int64
}

// ServiceConfig holds the settings needed to reach the storage backend.
type ServiceConfig struct {
	BucketName      string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
}

// Service is the object storage contract consumed by the avatar handlers.
type Service interface {
	// PresignUpload generates a presigned URL for uploading an object.
	PresignUpload(ctx context.Context, key string, mimeType string, size int64, duration time.Duration) (string, error)

	// PresignDownload generates a presigned URL for downloading an object.
	PresignDownload(ctx context.Context, key string, duration time.Duration) (string, error)

	// Head retrieves an object's metadata, or ErrObjectNotFound.
	Head(ctx context.Context, key string) (ObjectInfo, error)

	// Delete removes an object. Deleting a missing object is not an error.
	Delete(ctx context.Context, key string) error
}

// NewService initializes the S3-backed Service implementation.
func NewService(cfg ServiceConfig) (Service, error) {
	return newS3Service(cfg)
}
