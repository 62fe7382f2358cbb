package storage

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/gmeta/backoffice/internal/core/ports"
)

// S3Config describes the bucket uploads go to. Endpoint is set for MinIO or
// other S3-compatible stores; PublicBaseURL overrides the URL returned to
// clients for reading the object back.
type S3Config struct {
	Bucket        string
	Region        string
	Endpoint      string
	AccessKey     string
	SecretKey     string
	UsePathStyle  bool
	PublicBaseURL string
}

// S3Signer issues pre-signed POST policies.
type S3Signer struct {
	presign    *s3.PresignClient
	bucket     string
	publicBase string
}

// NewS3Signer builds the client from static keys when given, otherwise from
// the default credential chain.
func NewS3Signer(ctx context.Context, cfg S3Config) (*S3Signer, error) {
	opts := []func(*config.LoadOptions) error{config.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	})

	return &S3Signer{
		presign:    s3.NewPresignClient(client),
		bucket:     cfg.Bucket,
		publicBase: publicBase(cfg),
	}, nil
}

func publicBase(cfg S3Config) string {
	switch {
	case cfg.PublicBaseURL != "":
		return strings.TrimRight(cfg.PublicBaseURL, "/")
	case cfg.Endpoint != "":
		return strings.TrimRight(cfg.Endpoint, "/") + "/" + cfg.Bucket
	default:
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
	}
}

// PresignPost signs a browser-style POST policy for key. The policy pins the
// object key and Content-Type and caps the body at maxSize bytes.
func (s *S3Signer) PresignPost(ctx context.Context, key, contentType string, maxSize int64, expires time.Duration) (*ports.UploadTicket, error) {
	req, err := s.presign.PresignPostObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, func(o *s3.PresignPostOptions) {
		o.Expires = expires
		o.Conditions = uploadConditions(contentType, maxSize)
	})
	if err != nil {
		return nil, fmt.Errorf("presign post: %w", err)
	}

	fields := make(map[string]string, len(req.Values)+1)
	for name, value := range req.Values {
		fields[name] = value
	}
	fields["Content-Type"] = contentType

	return &ports.UploadTicket{
		Method:    http.MethodPost,
		URL:       req.URL,
		Key:       key,
		PublicURL: s.publicBase + "/" + key,
		Fields:    fields,
		ExpiresAt: time.Now().Add(expires).UTC(),
	}, nil
}

func uploadConditions(contentType string, maxSize int64) []any {
	return []any{
		[]any{"content-length-range", 1, maxSize},
		[]any{"eq", "$Content-Type", contentType},
	}
}
