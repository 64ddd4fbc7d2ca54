package audit

import (
	"context"
	"log/slog"

	"go.mongodb.org/mongo-driver/mongo"

	"loanflow/internal/pkg/consts"
	mongodb "loanflow/internal/pkg/db/mongo"
	"loanflow/internal/pkg/logger"
	"loanflow/internal/pkg/store/models"
	"loanflow/internal/pkg/store/repository"
)

type Store interface {
	Create(ctx context.Context, document interface{}) (*mongo.InsertOneResult, error)
}

type AuditRepository struct {
	repo Store
}

func NewAuditRepository(client *mongodb.MongoClient) *AuditRepository {
	collection := client.Database.Collection(consts.AuditCollection)
	return &AuditRepository{repo: repository.NewMongoRepository[models.AuditRecord](collection)}
}

func NewAuditRepositoryWithStore(store Store) *AuditRepository {
	return &AuditRepository{repo: store}
}

func (ar *AuditRepository) WriteAuditRecord(ctx context.Context, record models.AuditRecord) error {
	if _, err := ar.repo.Create(ctx, record); err != nil {
		logger.CtxError(ctx, "Error writing audit record", err,
			slog.String("entity_id", record.EntityID.Hex()),
			slog.String("action", record.Action))
		return err
	}
	return nil
}
