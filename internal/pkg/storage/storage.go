// Package storage uploads generated artifacts (log exports) to object storage
// and hands out time-limited download links for them.
package storage

import (
	"context"
	"errors"
	"io"
	"time"
)

var (
	// ErrMissingSigner indicates signed URL support is not configured.
	ErrMissingSigner = errors.New("storage: signed url signer not configured")
	// ErrInvalidExpiry is returned for a non-positive or too long link expiry.
	ErrInvalidExpiry = errors.New("storage: expiry must be between 1s and 7 days")
)

// MaxExpiry is the longest presigned link lifetime every backend accepts.
const MaxExpiry = 7 * 24 * time.Hour

// Storage defines the object operations used by the service.
type Storage interface {
	io.Closer

	// PutObject stores data and returns object metadata.
	PutObject(ctx context.Context, bucket, key string, r io.Reader, opts PutOptions) (ObjectInfo, error)
	// DeleteObject removes the object.
	DeleteObject(ctx context.Context, bucket, key string) error
	// PresignGet returns a signed URL for downloading.
	PresignGet(ctx context.Context, bucket, key string, expiry time.Duration) (string, error)
}

// PutOptions configures upload behavior.
type PutOptions struct {
	// Size is the content length, zero when unknown.
	Size        int64
	ContentType string
	// ContentDisposition lets browsers save exports under a friendly name.
	ContentDisposition string
	Metadata           map[string]string
}

// ObjectInfo describes a stored object.
type ObjectInfo struct {
	Bucket      string
	Key         string
	Size        int64
	ETag        string
	ContentType string
}

func (o PutOptions) info(bucket, key string, size int64, etag string) ObjectInfo {
	return ObjectInfo{Bucket: bucket, Key: key, Size: size, ETag: etag, ContentType: o.ContentType}
}

func validateExpiry(expiry time.Duration) error {
	if expiry < time.Second || expiry > MaxExpiry {
		return ErrInvalidExpiry
	}
	return nil
}
