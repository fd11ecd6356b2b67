package storage

import (
	"context"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// fallbackRegion signs requests for S3 compatible endpoints (LocalStack, R2)
// that ignore the region but still require one.
const fallbackRegion = "us-east-1"

// S3Options is the storage.s3 block.
type S3Options struct {
	Region       string
	Endpoint     string
	AccessKey    string
	SecretKey    string
	SessionToken string
	UsePathStyle bool
}

func (o S3Options) loadOptions() []func(*config.LoadOptions) error {
	region := o.Region
	if region == "" && o.Endpoint != "" {
		region = fallbackRegion
	}

	var out []func(*config.LoadOptions) error
	if region != "" {
		out = append(out, config.WithRegion(region))
	}
	// Static keys replace the default chain; otherwise IAM roles apply.
	if o.AccessKey != "" || o.SecretKey != "" {
		out = append(out, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(o.AccessKey, o.SecretKey, o.SessionToken),
		))
	}
	return out
}

func (o S3Options) clientOptions(so *s3.Options) {
	so.UsePathStyle = o.UsePathStyle
	if o.Endpoint != "" {
		so.BaseEndpoint = aws.String(o.Endpoint)
	}
}

// S3Adapter stores exports in S3 or an S3 compatible service.
type S3Adapter struct {
	client  *s3.Client
	presign *s3.PresignClient
}

func NewS3(ctx context.Context, opts S3Options) (*S3Adapter, error) {
	cfg, err := config.LoadDefaultConfig(ctx, opts.loadOptions()...)
	if err != nil {
		return nil, err
	}
	return NewS3WithClient(s3.NewFromConfig(cfg, opts.clientOptions)), nil
}

// NewS3WithClient wraps a preconfigured client.
func NewS3WithClient(client *s3.Client) *S3Adapter {
	return &S3Adapter{client: client, presign: s3.NewPresignClient(client)}
}

func s3PutInput(bucket, key string, r io.Reader, opts PutOptions) *s3.PutObjectInput {
	in := &s3.PutObjectInput{
		Bucket:   aws.String(bucket),
		Key:      aws.String(key),
		Body:     r,
		Metadata: opts.Metadata,
	}
	if opts.ContentType != "" {
		in.ContentType = aws.String(opts.ContentType)
	}
	if opts.ContentDisposition != "" {
		in.ContentDisposition = aws.String(opts.ContentDisposition)
	}
	if opts.Size > 0 {
		in.ContentLength = aws.Int64(opts.Size)
	}
	return in
}

func (s *S3Adapter) PutObject(ctx context.Context, bucket, key string, r io.Reader, opts PutOptions) (ObjectInfo, error) {
	out, err := s.client.PutObject(ctx, s3PutInput(bucket, key, r, opts))
	if err != nil {
		return ObjectInfo{}, err
	}
	return opts.info(bucket, key, opts.Size, aws.ToString(out.ETag)), nil
}

func (s *S3Adapter) DeleteObject(ctx context.Context, bucket, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{Bucket: aws.String(bucket), Key: aws.String(key)})
	return err
}

// PresignGet signs locally without a round trip to S3.
func (s *S3Adapter) PresignGet(ctx context.Context, bucket, key string, expiry time.Duration) (string, error) {
	if err := validateExpiry(expiry); err != nil {
		return "", err
	}

	req, err := s.presign.PresignGetObject(ctx,
		&s3.GetObjectInput{Bucket: aws.String(bucket), Key: aws.String(key)},
		s3.WithPresignExpires(expiry),
	)
	if err != nil {
		return "", err
	}
	return req.URL, nil
}

func (*S3Adapter) Close() error { return nil }
