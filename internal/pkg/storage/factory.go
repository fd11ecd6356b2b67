package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Driver names accepted by storage.driver.
const (
	DriverS3    = "s3"
	DriverGCS   = "gcs"
	DriverMinIO = "minio"
)

var (
	// ErrUnknownDriver indicates an unsupported storage driver.
	ErrUnknownDriver = errors.New("storage: unknown driver")
	// ErrMissingOption is returned before dialing when a driver lacks a
	// setting it cannot work without.
	ErrMissingOption = errors.New("storage: missing option")
)

// FactoryOptions holds one block per driver; only the selected one is read.
type FactoryOptions struct {
	S3    S3Options
	GCS   GCSOptions
	MinIO MinIOOptions
}

// NewFromDriver builds the backend named by driver. Exports hand out signed
// links, so a GCS backend without a signing key is rejected here rather
// than on the first export.
func NewFromDriver(ctx context.Context, driver string, opts FactoryOptions) (Storage, error) {
	name := strings.ToLower(strings.TrimSpace(driver))
	if err := opts.check(name); err != nil {
		return nil, err
	}

	switch name {
	case DriverS3:
		return NewS3(ctx, opts.S3)
	case DriverGCS:
		return NewGCS(ctx, opts.GCS)
	default:
		return NewMinIO(opts.MinIO)
	}
}

func (o FactoryOptions) check(driver string) error {
	var missing string
	switch driver {
	case DriverS3:
		if o.S3.Region == "" && o.S3.Endpoint == "" {
			missing = "s3.region or s3.endpoint"
		}
	case DriverGCS:
		if o.GCS.GoogleAccessID == "" || len(o.GCS.PrivateKey) == 0 {
			missing = "gcs.signer_access_id and gcs.signer_private_key"
		}
	case DriverMinIO:
		if o.MinIO.Endpoint == "" {
			missing = "minio.endpoint"
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}

	if missing != "" {
		return fmt.Errorf("%w: %s", ErrMissingOption, missing)
	}
	return nil
}
