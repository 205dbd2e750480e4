package infra

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/tuanvudang/equip-data-service/config"
)

// MinioClient is the blob store for raw upload bytes, keyed by blob key.
type MinioClient struct {
	Client *minio.Client
	Bucket string
}

func InitMinioClient(cfg *config.EnvConfig) *MinioClient {
	endpoint := cfg.Minio.Endpoint
	if endpoint == "" {
		panic("MinIO endpoint is not configured")
	}

	accessKey := cfg.Minio.AccessKey
	if accessKey == "" {
		panic("MinIO access key is not configured")
	}

	secretKey := cfg.Minio.SecretKey
	if secretKey == "" {
		panic("MinIO secret key is not configured")
	}

	minioClient, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: cfg.Minio.UseSSL,
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize MinIO client: %v", err))
	}

	client := &MinioClient{
		Client: minioClient,
		Bucket: cfg.Minio.Bucket,
	}

	if err := client.EnsureBucket(context.Background()); err != nil {
		panic(fmt.Sprintf("Failed to ensure MinIO bucket: %v", err))
	}

	return client
}

// EnsureBucket creates the upload bucket when it does not exist yet.
func (m *MinioClient) EnsureBucket(ctx context.Context) error {
	exists, err := m.Client.BucketExists(ctx, m.Bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket %q: %w", m.Bucket, err)
	}
	if exists {
		return nil
	}
	if err := m.Client.MakeBucket(ctx, m.Bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("failed to create bucket %q: %w", m.Bucket, err)
	}
	return nil
}

func (m *MinioClient) StoreBlob(ctx context.Context, key string, data []byte) error {
	if key == "" {
		return fmt.Errorf("blob key cannot be empty")
	}

	_, err := m.Client.PutObject(ctx, m.Bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "text/csv",
	})
	if err != nil {
		return fmt.Errorf("failed to store blob %q: %w", key, err)
	}
	return nil
}

func (m *MinioClient) ReadBlob(ctx context.Context, key string) ([]byte, error) {
	if key == "" {
		return nil, fmt.Errorf("blob key cannot be empty")
	}

	obj, err := m.Client.GetObject(ctx, m.Bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to read blob %q: %w", key, err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, fmt.Errorf("failed to read blob %q: %w", key, err)
	}
	return data, nil
}

func (m *MinioClient) DeleteBlob(ctx context.Context, key string) error {
	if key == "" {
		return fmt.Errorf("blob key cannot be empty")
	}

	if err := m.Client.RemoveObject(ctx, m.Bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to delete blob %q: %w", key, err)
	}
	return nil
}
