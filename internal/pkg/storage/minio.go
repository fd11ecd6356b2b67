package storage

import (
	"context"
	"io"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinIOOptions is the storage.minio block. Endpoint is host:port without a
// scheme; UseSSL picks https.
type MinIOOptions struct {
	Endpoint     string
	AccessKey    string
	SecretKey    string
	SessionToken string
	Region       string
	UseSSL       bool
}

// MinIOAdapter stores exports in a self-hosted MinIO, the usual choice for
// clinics that keep patient data on premises.
type MinIOAdapter struct {
	client *minio.Client
}

func NewMinIO(opts MinIOOptions) (*MinIOAdapter, error) {
	client, err := minio.New(opts.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, opts.SessionToken),
		Secure: opts.UseSSL,
		Region: opts.Region,
	})
	if err != nil {
		return nil, err
	}
	return &MinIOAdapter{client: client}, nil
}

// minioSize maps an unknown length to -1, which makes minio-go stream the
// body as a multipart upload.
func minioSize(size int64) int64 {
	if size <= 0 {
		return -1
	}
	return size
}

func (m *MinIOAdapter) PutObject(ctx context.Context, bucket, key string, r io.Reader, opts PutOptions) (ObjectInfo, error) {
	up, err := m.client.PutObject(ctx, bucket, key, r, minioSize(opts.Size), minio.PutObjectOptions{
		ContentType:        opts.ContentType,
		ContentDisposition: opts.ContentDisposition,
		UserMetadata:       opts.Metadata,
	})
	if err != nil {
		return ObjectInfo{}, err
	}
	return opts.info(bucket, key, up.Size, up.ETag), nil
}

func (m *MinIOAdapter) DeleteObject(ctx context.Context, bucket, key string) error {
	return m.client.RemoveObject(ctx, bucket, key, minio.RemoveObjectOptions{})
}

func (m *MinIOAdapter) PresignGet(ctx context.Context, bucket, key string, expiry time.Duration) (string, error) {
	if err := validateExpiry(expiry); err != nil {
		return "", err
	}

	link, err := m.client.PresignedGetObject(ctx, bucket, key, expiry, nil)
	if err != nil {
		return "", err
	}
	return link.String(), nil
}

func (*MinIOAdapter) Close() error { return nil }
