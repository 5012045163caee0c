package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"murmur/internal/pkg/logx"
)

// ErrObjectNotFound is returned by Head when the object does not exist.
var ErrObjectNotFound = errors.New("object not found")

// s3Service implements Service against any S3-compatible endpoint.
type s3Service struct {
	cfg     ServiceConfig
	client  *s3.Client
	presign *s3.PresignClient
}

// newS3Service builds the S3 client with static credentials and a custom
// endpoint, so MinIO and similar S3-compatible stores work unchanged.
func newS3Service(cfg ServiceConfig) (*s3Service, error) {
	sdkCfg, err := config.LoadDefaultConfig(context.Background(),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		)),
		config.WithRegion("auto"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize S3 client configuration: %w", err)
	}

	client := s3.NewFromConfig(sdkCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.Endpoint)
		o.UsePathStyle = true
	})

	return &s3Service{
		cfg:     cfg,
		client:  client,
		presign: s3.NewPresignClient(client),
	}, nil
}

// PresignUpload generates a presigned PUT URL bound to the expected MIME type
// and content length, so the client cannot upload something else under the key.
func (s *s3Service) PresignUpload(ctx context.Context, key string, mimeType string, size int64, duration time.Duration) (string, error) {
	resp, err := s.presign.PresignPutObject(ctx,
		&s3.PutObjectInput{
			Bucket:        &s.cfg.BucketName,
			Key:           &key,
			ContentType:   &mimeType,
			ContentLength: &size,
		},
		s3.WithPresignExpires(duration),
	)
	if err != nil {
		logx.Error(err, "Failed to generate presigned upload URL", "key", key)
		return "", errors.New("failed to generate presigned upload URL")
	}

	return resp.URL, nil
}

// PresignDownload generates a presigned GET URL for the given key.
func (s *s3Service) PresignDownload(ctx context.Context, key string, duration time.Duration) (string, error) {
	resp, err := s.presign.PresignGetObject(ctx,
		&s3.GetObjectInput{
			Bucket: &s.cfg.BucketName,
			Key:    &key,
		},
		s3.WithPresignExpires(duration),
	)
	if err != nil {
		logx.Error(err, "Failed to generate presigned download URL", "key", key)
		return "", errors.New("failed to generate presigned download URL")
	}

	return resp.URL, nil
}

// Head retrieves the object's content type and length.
func (s *s3Service) Head(ctx context.Context, key string) (ObjectInfo, error) {
	resp, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: &s.cfg.BucketName,
		Key:    &key,
	})
	if err != nil {
		var nf *types.NotFound
		if errors.As(err, &nf) {
			return ObjectInfo{}, ErrObjectNotFound
		}
		logx.Error(err, "Failed to fetch object metadata", "key", key)
		return ObjectInfo{}, errors.New("failed to fetch object metadata")
	}

	info := ObjectInfo{}
	if resp.ContentType != nil {
		info.ContentType = *resp.ContentType
	}
	if resp.ContentLength != nil {
		info.ContentLength = *resp.ContentLength
	}

	return info, nil
}

// Delete removes the object with the given key from the bucket.
func (s *s3Service) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: &s.cfg.BucketName,
		Key:    &key,
	})
	if err != nil {
		logx.Error(err, "Failed to delete object", "key", key)
		return errors.New("failed to delete object")
	}

	return nil
}
