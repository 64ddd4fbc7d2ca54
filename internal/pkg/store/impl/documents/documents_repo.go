package documents

import (
	"context"
	"errors"
	"log/slog"
	"time"

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
	FindOne(ctx context.Context, filter interface{}, opt *options.FindOneOptions) (models.Document, error)
	UpdateOne(ctx context.Context, filter interface{}, update interface{}) (int64, error)
	CountDocuments(ctx context.Context, filter interface{}) (int64, error)
}

type DocumentsRepository struct {
	repo Store
}

func NewDocumentsRepository(client *mongodb.MongoClient) *DocumentsRepository {
	collection := client.Database.Collection(consts.DocumentsCollection)
	return &DocumentsRepository{repo: repository.NewMongoRepository[models.Document](collection)}
}

func NewDocumentsRepositoryWithStore(store Store) *DocumentsRepository {
	return &DocumentsRepository{repo: store}
}

func (dr *DocumentsRepository) GetDocumentByID(ctx context.Context, id primitive.ObjectID) (*models.Document, error) {
	doc, err := dr.repo.FindOne(ctx, bson.M{"_id": id}, options.FindOne())
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, consts.ErrorDocumentNotFound
		}
		logger.CtxError(ctx, "Error finding document", err, slog.String("document_id", id.Hex()))
		return nil, err
	}
	return &doc, nil
}

func (dr *DocumentsRepository) UpdateReview(
	ctx context.Context,
	id primitive.ObjectID,
	status consts.DocumentStatus,
	reviewerID primitive.ObjectID,
	notes string,
	reviewedAt time.Time,
) error {
	update := bson.M{
		"upload_status":      status,
		"verified_by":        reviewerID,
		"verification_notes": notes,
		"verified_at":        reviewedAt,
	}
	matched, err := dr.repo.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		logger.CtxError(ctx, "Error updating document review", err, slog.String("document_id", id.Hex()))
		return err
	}
	if matched == 0 {
		return consts.ErrorDocumentNotFound
	}
	return nil
}

func (dr *DocumentsRepository) CountVerifiedRequired(ctx context.Context, applicationID primitive.ObjectID) (int64, error) {
	filter := bson.M{
		"application_id": applicationID,
		"upload_status":  consts.DocStatusVerified,
		"document_type":  bson.M{"$in": consts.RequiredDocumentTypes},
	}
	return dr.repo.CountDocuments(ctx, filter)
}
