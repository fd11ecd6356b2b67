package storage

import (
	"bytes"
	"context"
	"errors"
	"path"
	"strings"
	"time"

	"github.com/shandysiswandi/gonotif/internal/pkg/instrument"
	"github.com/shandysiswandi/gonotif/internal/pkg/storage"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// ErrBucketRequired is returned by NewExporter without a bucket.
var ErrBucketRequired = errors.New("export bucket is required")

type Config struct {
	Bucket string
	// Prefix is prepended to every object key, e.g. "exports/message-logs".
	Prefix string
	// LinkExpiry is how long download links stay valid.
	LinkExpiry time.Duration
}

// Exporter writes audit exports to object storage and returns presigned links.
type Exporter struct {
	client storage.Storage
	cfg    Config
	ins    instrument.Instrumentation
}

func NewExporter(client storage.Storage, cfg Config, ins instrument.Instrumentation) (*Exporter, error) {
	if strings.TrimSpace(cfg.Bucket) == "" {
		return nil, ErrBucketRequired
	}
	if cfg.LinkExpiry <= 0 {
		cfg.LinkExpiry = 15 * time.Minute
	}
	cfg.LinkExpiry = min(cfg.LinkExpiry, storage.MaxExpiry)
	cfg.Prefix = strings.Trim(cfg.Prefix, "/")

	return &Exporter{client: client, cfg: cfg, ins: ins}, nil
}

// UploadExport stores a CSV under the configured prefix and returns a link
// valid for the configured expiry.
func (e *Exporter) UploadExport(ctx context.Context, filename string, data []byte) (_ string, _ time.Duration, err error) {
	ctx, span := e.ins.Tracer("notification.outbound.storage").Start(ctx, "UploadExport")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	key := path.Join(e.cfg.Prefix, filename)
	span.SetAttributes(attribute.String("key", key), attribute.Int("size", len(data)))

	if _, err = e.client.PutObject(ctx, e.cfg.Bucket, key, bytes.NewReader(data), storage.PutOptions{
		Size:               int64(len(data)),
		ContentType:        "text/csv; charset=utf-8",
		ContentDisposition: `attachment; filename="` + path.Base(filename) + `"`,
	}); err != nil {
		return "", 0, err
	}

	url, err := e.client.PresignGet(ctx, e.cfg.Bucket, key, e.cfg.LinkExpiry)
	if err != nil {
		return "", 0, err
	}

	return url, e.cfg.LinkExpiry, nil
}
