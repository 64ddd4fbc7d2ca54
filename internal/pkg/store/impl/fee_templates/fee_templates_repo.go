package fee_templates

import (
	"context"
	"errors"
	"log/slog"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"loanflow/internal/pkg/consts"
	mongodb "loanflow/internal/pkg/db/mongo"
	"loanflow/internal/pkg/logger"
	"loanflow/internal/pkg/store/models"
	"loanflow/internal/pkg/store/repository"
)

type Store interface {
	FindOne(ctx context.Context, filter interface{}, opt *options.FindOneOptions) (models.FeeTemplate, error)
	Delete(ctx context.Context, filter interface{}) (int64, error)
}

type FeeTemplatesRepository struct {
	repo Store
}

func NewFeeTemplatesRepository(client *mongodb.MongoClient) *FeeTemplatesRepository {
	collection := client.Database.Collection(consts.FeeTemplatesCollection)
	return &FeeTemplatesRepository{repo: repository.NewMongoRepository[models.FeeTemplate](collection)}
}

func NewFeeTemplatesRepositoryWithStore(store Store) *FeeTemplatesRepository {
	return &FeeTemplatesRepository{repo: store}
}

func (tr *FeeTemplatesRepository) GetTemplateByID(ctx context.Context, id primitive.ObjectID) (*models.FeeTemplate, error) {
	template, err := tr.repo.FindOne(ctx, bson.M{"_id": id}, options.FindOne())
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, consts.ErrorTemplateNotFound
		}
		logger.CtxError(ctx, "Error finding fee template", err, slog.String("template_id", id.Hex()))
		return nil, err
	}
	return &template, nil
}

func (tr *FeeTemplatesRepository) GetActiveTemplate(ctx context.Context, country, paymentMethod string) (*models.FeeTemplate, error) {
	filter := bson.M{"country": country, "payment_method": paymentMethod, "active": true}
	template, err := tr.repo.FindOne(ctx, filter, options.FindOne())
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, consts.ErrorNoActiveTemplate
		}
		logger.CtxError(ctx, "Error finding active fee template", err,
			slog.String("country", country),
			slog.String("payment_method", paymentMethod))
		return nil, err
	}
	return &template, nil
}

func (tr *FeeTemplatesRepository) DeleteTemplate(ctx context.Context, id primitive.ObjectID) error {
	deleted, err := tr.repo.Delete(ctx, bson.M{"_id": id})
	if err != nil {
		logger.CtxError(ctx, "Error deleting fee template", err, slog.String("template_id", id.Hex()))
		return err
	}
	if deleted == 0 {
		return consts.ErrorTemplateNotFound
	}
	return nil
}
