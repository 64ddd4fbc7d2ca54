package interfaces

import (
	"context"

	"loanflow/internal/pkg/store/models"
)

// AuditRepositoryInterface is append-only.
type AuditRepositoryInterface interface {
	WriteAuditRecord(ctx context.Context, record models.AuditRecord) error
}
