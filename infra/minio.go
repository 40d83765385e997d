package infra

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"time"

	"github.com/lumenfilms/lumen-media-service/config"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type MinioClient struct {
	Client   *minio.Client
	Endpoint string
}

func InitMinioClient(cfg *config.EnvConfig) *MinioClient {
	endpoint := cfg.Minio.Endpoint
	if endpoint == "" {
		panic("MinIO endpoint is not configured")
	}

	minioClient, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.Minio.AccessKey, cfg.Minio.SecretKey, ""),
		Secure: cfg.Minio.UseSSL,
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize MinIO client: %v", err))
	}

	return &MinioClient{
		Client:   minioClient,
		Endpoint: endpoint,
	}
}

// EnsureBucket creates a bucket if it doesn't exist
func (m *MinioClient) EnsureBucket(ctx context.Context, bucket string) error {
	exists, err := m.Client.BucketExists(ctx, bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}

	if !exists {
		err = m.Client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{})
		if err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
	}
	return nil
}

// Put uploads an object with an explicit size and content type
func (m *MinioClient) Put(ctx context.Context, bucket, path string, data io.Reader, size int64, contentType string) error {
	_, err := m.Client.PutObject(ctx, bucket, path, data, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("failed to put object: %w", err)
	}
	return nil
}

// PresignedURL returns a time-limited GET URL for an object
func (m *MinioClient) PresignedURL(ctx context.Context, bucket, path string, expire time.Duration) (string, error) {
	u, err := m.Client.PresignedGetObject(ctx, bucket, path, expire, url.Values{})
	if err != nil {
		return "", fmt.Errorf("failed to presign object URL: %w", err)
	}
	return u.String(), nil
}

// GetStream streams an object without loading it into memory
func (m *MinioClient) GetStream(ctx context.Context, bucket, path string) (io.ReadCloser, int64, error) {
	obj, err := m.Client.GetObject(ctx, bucket, path, minio.GetObjectOptions{})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get object: %w", err)
	}

	stat, err := obj.Stat()
	if err != nil {
		obj.Close()
		return nil, 0, fmt.Errorf("failed to stat object: %w", err)
	}

	return obj, stat.Size, nil
}

// Delete removes a single object. Missing objects are not an error.
func (m *MinioClient) Delete(ctx context.Context, bucket, path string) error {
	err := m.Client.RemoveObject(ctx, bucket, path, minio.RemoveObjectOptions{})
	if err != nil {
		return fmt.Errorf("failed to remove object: %w", err)
	}
	return nil
}

// DeleteObjectsWithPrefix deletes all objects with a given prefix in a bucket
func (m *MinioClient) DeleteObjectsWithPrefix(ctx context.Context, bucket, prefix string) error {
	objectCh := m.Client.ListObjects(ctx, bucket, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	})

	objectsCh := make(chan minio.ObjectInfo)

	go func() {
		defer close(objectsCh)
		for obj := range objectCh {
			if obj.Err != nil {
				continue
			}
			objectsCh <- obj
		}
	}()

	errorCh := m.Client.RemoveObjects(ctx, bucket, objectsCh, minio.RemoveObjectsOptions{})

	for err := range errorCh {
		if err.Err != nil {
			return fmt.Errorf("failed to delete object %s: %w", err.ObjectName, err.Err)
		}
	}

	return nil
}
