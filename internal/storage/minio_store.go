package storage

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"unistay-backend/internal/logger"
)

// MinioStore keeps images in a MinIO/S3 compatible bucket and hands out
// pre-signed GET URLs.
type MinioStore struct {
	client     *minio.Client
	bucket     string
	presignTTL time.Duration
}

// NewMinioStore connects to MinIO and ensures the bucket exists.
func NewMinioStore(endpoint, accessKey, secretKey, bucket string, useSSL bool, presignTTL time.Duration) (*MinioStore, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("init minio client: %w", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket: %w", err)
		}
	}
	if presignTTL <= 0 {
		presignTTL = time.Hour
	}
	return &MinioStore{client: client, bucket: bucket, presignTTL: presignTTL}, nil
}

func (m *MinioStore) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	logger.ExternalServiceCall("minio", "PutObject", "bucket", m.bucket, "key", key, "size", size)
	_, err := m.client.PutObject(ctx, m.bucket, key, r, size, minio.PutObjectOptions{ContentType: contentType})
	logger.ExternalServiceResult("minio", "PutObject", err)
	if err != nil {
		return fmt.Errorf("put object: %w", err)
	}
	return nil
}

// URL generates a pre-signed GET URL.
func (m *MinioStore) URL(ctx context.Context, key string) (string, error) {
	u, err := m.client.PresignedGetObject(ctx, m.bucket, key, m.presignTTL, nil)
	if err != nil {
		return "", fmt.Errorf("presign get: %w", err)
	}
	return u.String(), nil
}

func (m *MinioStore) Delete(ctx context.Context, key string) error {
	logger.ExternalServiceCall("minio", "RemoveObject", "bucket", m.bucket, "key", key)
	err := m.client.RemoveObject(ctx, m.bucket, key, minio.RemoveObjectOptions{})
	logger.ExternalServiceResult("minio", "RemoveObject", err)
	if err != nil {
		return fmt.Errorf("delete object: %w", err)
	}
	return nil
}
