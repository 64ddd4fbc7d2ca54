package system_settings

import (
	"context"
	"errors"
	"log/slog"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"loanflow/internal/pkg/consts"
	mongodb "loanflow/internal/pkg/db/mongo"
	"loanflow/internal/pkg/logger"
	"loanflow/internal/pkg/store/models"
	"loanflow/internal/pkg/store/repository"
)

type Store interface {
	FindOne(ctx context.Context, filter interface{}, opt *options.FindOneOptions) (models.SystemSetting, error)
}

type SystemSettingsRepository struct {
	repo Store
}

func NewSystemSettingsRepository(client *mongodb.MongoClient) *SystemSettingsRepository {
	collection := client.Database.Collection(consts.SystemSettingsCollection)
	return &SystemSettingsRepository{repo: repository.NewMongoRepository[models.SystemSetting](collection)}
}

func NewSystemSettingsRepositoryWithStore(store Store) *SystemSettingsRepository {
	return &SystemSettingsRepository{repo: store}
}

func (sr *SystemSettingsRepository) GetSetting(ctx context.Context, key, defaultValue string) (string, error) {
	setting, err := sr.repo.FindOne(ctx, bson.M{"key": key}, options.FindOne())
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return defaultValue, nil
		}
		logger.CtxError(ctx, "Error reading system setting", err, slog.String("key", key))
		return defaultValue, err
	}
	if setting.Value == "" {
		return defaultValue, nil
	}
	return setting.Value, nil
}
