package ports

import (
	"context"
	"time"
)

// UploadTicket tells a client where and how to upload a file. Fields go into
// the multipart form ahead of the file part.
type UploadTicket struct {
	Method      string
	URL         string
	Key         string
	PublicURL   string
	Fields      map[string]string
	ExpiresAt   time.Time
	MaxFileSize int64
}

// UploadSigner issues pre-signed object-storage uploads. The signed policy
// must reject objects larger than maxSize bytes.
type UploadSigner interface {
	PresignPost(ctx context.Context, key, contentType string, maxSize int64, expires time.Duration) (*UploadTicket, error)
}
