package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

var ErrUnsupportedType = errors.New("unsupported avatar content type")

// AvatarStore keeps profile pictures in an S3-compatible bucket.
type AvatarStore struct {
	client *minio.Client
	bucket string
	useSSL bool
}

// Config carries the object storage connection settings.
type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// NewAvatarStore connects to the object store and ensures the bucket exists.
func NewAvatarStore(ctx context.Context, cfg Config) (*AvatarStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("connect object storage: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket: %w", err)
		}
	}

	return &AvatarStore{client: client, bucket: cfg.Bucket, useSSL: cfg.UseSSL}, nil
}

// Put stores an avatar under the user's id and returns its public URL.
// A new upload overwrites the previous one.
func (s *AvatarStore) Put(ctx context.Context, userID, contentType string, r io.Reader, size int64) (string, error) {
	ext := extensionFor(contentType)
	if ext == "" {
		return "", fmt.Errorf("%w %q", ErrUnsupportedType, contentType)
	}

	key := "avatars/" + userID + ext
	_, err := s.client.PutObject(ctx, s.bucket, key, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("store avatar: %w", err)
	}

	scheme := "http"
	if s.useSSL {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", scheme, s.client.EndpointURL().Host, s.bucket, key), nil
}

func extensionFor(contentType string) string {
	switch strings.ToLower(contentType) {
	case "image/jpeg", "image/jpg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	default:
		return ""
	}
}
