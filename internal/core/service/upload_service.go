package service

import (
	"context"
	"fmt"
	"mime"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/gmeta/backoffice/internal/core/domain"
	"github.com/gmeta/backoffice/internal/core/ports"
)

const (
	DefaultUploadExpiry  = 10 * time.Minute
	DefaultUploadMaxSize = 10 << 20
)

var extPattern = regexp.MustCompile(`^[a-z0-9]{1,10}$`)

// UploadService hands out pre-signed POST tickets under upload/YYYYMMDD/.
type UploadService struct {
	signer  ports.UploadSigner
	expiry  time.Duration
	maxSize int64
	now     func() time.Time
}

func NewUploadService(signer ports.UploadSigner, maxSize int64) *UploadService {
	if maxSize <= 0 {
		maxSize = DefaultUploadMaxSize
	}
	return &UploadService{signer: signer, expiry: DefaultUploadExpiry, maxSize: maxSize, now: time.Now}
}

// Params returns a ticket for a new object with the given file extension.
func (s *UploadService) Params(ctx context.Context, ext string) (*ports.UploadTicket, error) {
	ext = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
	if !extPattern.MatchString(ext) {
		return nil, domain.ErrUnsupportedUpload
	}

	key := objectKey(s.now(), ext)
	contentType := mime.TypeByExtension("." + ext)
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	ticket, err := s.signer.PresignPost(ctx, key, contentType, s.maxSize, s.expiry)
	if err != nil {
		return nil, fmt.Errorf("presign upload: %w", err)
	}
	ticket.MaxFileSize = s.maxSize
	return ticket, nil
}

func objectKey(now time.Time, ext string) string {
	return fmt.Sprintf("upload/%s/%s.%s", now.Format("20060102"), strings.ReplaceAll(uuid.NewString(), "-", ""), ext)
}
