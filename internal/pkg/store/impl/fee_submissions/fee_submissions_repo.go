package fee_submissions

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
	FindOne(ctx context.Context, filter interface{}, opt *options.FindOneOptions) (models.FeeSubmission, error)
	Create(ctx context.Context, document interface{}) (*mongo.InsertOneResult, error)
	UpdateOne(ctx context.Context, filter interface{}, update interface{}) (int64, error)
	CountDocuments(ctx context.Context, filter interface{}) (int64, error)
}

type FeeSubmissionsRepository struct {
	client *mongodb.MongoClient
	repo   Store
}

func NewFeeSubmissionsRepository(client *mongodb.MongoClient) *FeeSubmissionsRepository {
	collection := client.Database.Collection(consts.FeeSubmissionsCollection)
	repo := repository.NewMongoRepository[models.FeeSubmission](collection)
	return &FeeSubmissionsRepository{client: client, repo: repo}
}

func NewFeeSubmissionsRepositoryWithStore(client *mongodb.MongoClient, store Store) *FeeSubmissionsRepository {
	return &FeeSubmissionsRepository{client: client, repo: store}
}

func (fr *FeeSubmissionsRepository) GetSubmissionByID(ctx context.Context, id primitive.ObjectID) (*models.FeeSubmission, error) {
	submission, err := fr.repo.FindOne(ctx, bson.M{"_id": id}, options.FindOne())
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, consts.ErrorSubmissionNotFound
		}
		logger.CtxError(ctx, "Error finding fee submission", err, slog.String("submission_id", id.Hex()))
		return nil, err
	}
	return &submission, nil
}

func (fr *FeeSubmissionsRepository) CreateSubmission(ctx context.Context, submission models.FeeSubmission) (primitive.ObjectID, error) {
	result, err := fr.repo.Create(ctx, submission)
	if err != nil {
		logger.CtxError(ctx, "Error inserting fee submission", err,
			slog.String("application_id", submission.ApplicationID.Hex()))
		return primitive.NilObjectID, err
	}
	if id, ok := result.InsertedID.(primitive.ObjectID); ok {
		return id, nil
	}
	return primitive.NilObjectID, nil
}

func (fr *FeeSubmissionsRepository) UpdateStatus(
	ctx context.Context,
	id primitive.ObjectID,
	status consts.FeeStatus,
	reviewerID primitive.ObjectID,
	notes string,
	reviewedAt time.Time,
) error {
	update := bson.M{
		"status":      status,
		"reviewed_by": reviewerID,
		"admin_notes": notes,
		"reviewed_at": reviewedAt,
	}
	matched, err := fr.repo.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		logger.CtxError(ctx, "Error updating fee submission status", err, slog.String("submission_id", id.Hex()))
		return err
	}
	if matched == 0 {
		return consts.ErrorSubmissionNotFound
	}
	return nil
}

// BulkUpdateStatus applies one decision to every listed submission inside a
// transaction. If any listed id is missing the transaction aborts and no
// submission is changed.
func (fr *FeeSubmissionsRepository) BulkUpdateStatus(
	ctx context.Context,
	ids []primitive.ObjectID,
	status consts.FeeStatus,
	reviewerID primitive.ObjectID,
	notes string,
	reviewedAt time.Time,
) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	collection := fr.client.Database.Collection(consts.FeeSubmissionsCollection)

	session, err := fr.client.Client.StartSession()
	if err != nil {
		return 0, err
	}
	defer session.EndSession(ctx)

	var modified int64
	txnErr := mongo.WithSession(ctx, session, func(sessCtx mongo.SessionContext) error {
		if err := session.StartTransaction(); err != nil {
			return err
		}

		update := bson.M{"$set": bson.M{
			"status":      status,
			"reviewed_by": reviewerID,
			"admin_notes": notes,
			"reviewed_at": reviewedAt,
		}}
		result, err := collection.UpdateMany(sessCtx, bson.M{"_id": bson.M{"$in": ids}}, update)
		if err != nil {
			_ = session.AbortTransaction(sessCtx)
			return err
		}
		if result.MatchedCount != int64(len(ids)) {
			_ = session.AbortTransaction(sessCtx)
			return consts.ErrorSubmissionNotFound
		}

		modified = result.ModifiedCount
		return session.CommitTransaction(sessCtx)
	})
	if txnErr != nil {
		return 0, txnErr
	}

	logger.CtxDebug(ctx, "Bulk fee status update committed",
		slog.Int("submissions", len(ids)),
		slog.String("status", string(status)),
	)
	return modified, nil
}

func (fr *FeeSubmissionsRepository) CountByCountryAndMethod(ctx context.Context, country, paymentMethod string) (int64, error) {
	filter := bson.M{"country": country, "payment_method": paymentMethod}
	return fr.repo.CountDocuments(ctx, filter)
}
