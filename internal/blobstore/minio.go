package blobstore

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/SeakMengs/AutoActa/internal/config"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

func NewMinioClient(cfg config.BlobConfig) (*minio.Client, error) {
	return minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
}

type minioBackend struct {
	client *minio.Client
	bucket string
	ttl    time.Duration
}

func (m *minioBackend) put(ctx context.Context, key string, content []byte, contentType string) error {
	_, err := m.client.PutObject(ctx, m.bucket, key, bytes.NewReader(content), int64(len(content)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	return err
}

func (m *minioBackend) get(ctx context.Context, key string) ([]byte, error) {
	obj, err := m.client.GetObject(ctx, m.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	defer obj.Close()

	b, err := io.ReadAll(obj)
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, fmt.Errorf("%s: %w", key, ErrObjectNotFound)
		}
		return nil, err
	}
	return b, nil
}

func (m *minioBackend) remove(ctx context.Context, key string) error {
	return m.client.RemoveObject(ctx, m.bucket, key, minio.RemoveObjectOptions{})
}

func (m *minioBackend) list(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	for obj := range m.client.ListObjects(ctx, m.bucket, minio.ListObjectsOptions{Prefix: prefix, Recursive: true}) {
		if obj.Err != nil {
			return nil, obj.Err
		}
		keys = append(keys, obj.Key)
	}
	return keys, nil
}

func (m *minioBackend) presign(ctx context.Context, key string) (string, error) {
	u, err := m.client.PresignedGetObject(ctx, m.bucket, key, m.ttl, nil)
	if err != nil {
		return "", err
	}
	return u.String(), nil
}

func createBucketIfNotExists(ctx context.Context, client *minio.Client, bucket, region string) error {
	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return err
	}

	if !exists {
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{Region: region}); err != nil {
			return err
		}
	}
	return nil
}

// NewMinioStore connects to a MinIO compatible endpoint and ensures the bucket exists.
func NewMinioStore(ctx context.Context, cfg config.BlobConfig, renderer Renderer, logger *zap.SugaredLogger) (*ObjectStore, error) {
	client, err := NewMinioClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}
	if err := createBucketIfNotExists(ctx, client, cfg.Bucket, cfg.Region); err != nil {
		return nil, fmt.Errorf("failed to create bucket: %w", err)
	}

	return newObjectStore(&minioBackend{client: client, bucket: cfg.Bucket, ttl: cfg.PresignTTL}, renderer, cfg.Prefix, logger), nil
}
