package ports

import (
	"context"

	"github.com/gmeta/backoffice/internal/core/domain"
)

// AuthEventRepository is the durable audit trail.
type AuthEventRepository interface {
	InsertEvent(ctx context.Context, event *domain.AuthEvent) error
}

// AuditRecorder accepts events without blocking the request path.
type AuditRecorder interface {
	Record(event domain.AuthEvent)
}
