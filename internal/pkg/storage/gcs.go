package storage

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	gcs "cloud.google.com/go/storage"
)

// GCSAdapter implements Storage using Google Cloud Storage.
type GCSAdapter struct {
	client *gcs.Client
	signer *gcsSigner
	now    func() time.Time
}

// GCSOptions configures GCS client initialization. Signing needs a service
// account; without one PresignGet returns ErrMissingSigner.
type GCSOptions struct {
	Client         *gcs.Client
	GoogleAccessID string
	PrivateKey     []byte
}

type gcsSigner struct {
	accessID   string
	privateKey []byte
}

func NewGCS(ctx context.Context, opts GCSOptions) (*GCSAdapter, error) {
	client := opts.Client
	if client == nil {
		created, err := gcs.NewClient(ctx)
		if err != nil {
			return nil, err
		}
		client = created
	}

	g := &GCSAdapter{client: client, now: time.Now}
	if opts.GoogleAccessID != "" && len(opts.PrivateKey) > 0 {
		g.signer = &gcsSigner{accessID: opts.GoogleAccessID, privateKey: opts.PrivateKey}
	}
	return g, nil
}

func (g *GCSAdapter) PutObject(ctx context.Context, bucket, key string, r io.Reader, opts PutOptions) (ObjectInfo, error) {
	w := g.client.Bucket(bucket).Object(key).NewWriter(ctx)
	w.ContentType = opts.ContentType
	w.ContentDisposition = opts.ContentDisposition
	if len(opts.Metadata) > 0 {
		w.Metadata = opts.Metadata
	}

	if _, err := io.Copy(w, r); err != nil {
		return ObjectInfo{}, errors.Join(err, w.Close())
	}
	if err := w.Close(); err != nil {
		return ObjectInfo{}, err
	}

	if attrs := w.Attrs(); attrs != nil {
		return opts.info(bucket, key, attrs.Size, attrs.Etag), nil
	}
	return opts.info(bucket, key, opts.Size, ""), nil
}

func (g *GCSAdapter) DeleteObject(ctx context.Context, bucket, key string) error {
	return g.client.Bucket(bucket).Object(key).Delete(ctx)
}

func (g *GCSAdapter) PresignGet(_ context.Context, bucket, key string, expiry time.Duration) (string, error) {
	if g.signer == nil {
		return "", ErrMissingSigner
	}
	if err := validateExpiry(expiry); err != nil {
		return "", err
	}

	return gcs.SignedURL(bucket, key, &gcs.SignedURLOptions{
		Method:         http.MethodGet,
		Expires:        g.now().Add(expiry),
		GoogleAccessID: g.signer.accessID,
		PrivateKey:     g.signer.privateKey,
		Scheme:         gcs.SigningSchemeV4,
	})
}

func (g *GCSAdapter) Close() error {
	return g.client.Close()
}
