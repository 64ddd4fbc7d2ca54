package applications

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

// Store is the read surface backed by the generic repository. Writes that
// must be atomic go through the session on the raw client instead.
type Store interface {
	FindOne(ctx context.Context, filter interface{}, opt *options.FindOneOptions) (models.LoanApplication, error)
	Find(ctx context.Context, filter interface{}) ([]models.LoanApplication, error)
}

type ApplicationsRepository struct {
	client *mongodb.MongoClient
	repo   Store
}

func NewApplicationsRepository(client *mongodb.MongoClient) *ApplicationsRepository {
	collection := client.Database.Collection(consts.ApplicationsCollection)
	repo := repository.NewMongoRepository[models.LoanApplication](collection)
	return &ApplicationsRepository{client: client, repo: repo}
}

func NewApplicationsRepositoryWithStore(client *mongodb.MongoClient, store Store) *ApplicationsRepository {
	return &ApplicationsRepository{client: client, repo: store}
}

func (ar *ApplicationsRepository) GetApplicationByID(ctx context.Context, id primitive.ObjectID) (*models.LoanApplication, error) {
	filter := bson.M{"_id": id}
	app, err := ar.repo.FindOne(ctx, filter, options.FindOne())
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, consts.ErrorApplicationNotFound
		}
		logger.CtxError(ctx, "Error finding application", err, slog.String("application_id", id.Hex()))
		return nil, err
	}
	return &app, nil
}

func (ar *ApplicationsRepository) ListApplicationsByStatus(ctx context.Context, status consts.ApplicationStatus) ([]models.LoanApplication, error) {
	filter := bson.M{"application_status": status}
	apps, err := ar.repo.Find(ctx, filter)
	if err != nil {
		logger.CtxError(ctx, "Error listing applications by status", err, slog.String("status", string(status)))
		return nil, err
	}
	return apps, nil
}

// ApplyTransition commits the compare-and-set status update together with the
// audit record and the queued notification event in one Mongo transaction.
// A precondition miss (the status moved underneath us) aborts the transaction
// and surfaces as ErrorConcurrentModification.
func (ar *ApplicationsRepository) ApplyTransition(ctx context.Context, write models.TransitionWrite) error {
	applications := ar.client.Database.Collection(consts.ApplicationsCollection)
	audit := ar.client.Database.Collection(consts.AuditCollection)
	queue := ar.client.Database.Collection(consts.NotificationQueueCollection)

	set := bson.M{
		"application_status": write.To,
		"current_step":       write.Step,
		"status_changed_at":  write.At,
		"updated_at":         write.At,
	}
	if write.PreApprovedAt != nil {
		set["pre_approved_at"] = write.PreApprovedAt
	}
	if write.PreApprovalRate != nil {
		set["pre_approval_rate"] = write.PreApprovalRate
	}

	session, err := ar.client.Client.StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	txnErr := mongo.WithSession(ctx, session, func(sessCtx mongo.SessionContext) error {
		if err := session.StartTransaction(); err != nil {
			return err
		}

		filter := bson.M{"_id": write.ApplicationID, "application_status": write.From}
		result, err := applications.UpdateOne(sessCtx, filter, bson.M{"$set": set})
		if err != nil {
			_ = session.AbortTransaction(sessCtx)
			return err
		}
		if result.MatchedCount == 0 {
			_ = session.AbortTransaction(sessCtx)
			return consts.ErrorConcurrentModification
		}

		if _, err := audit.InsertOne(sessCtx, write.Audit); err != nil {
			_ = session.AbortTransaction(sessCtx)
			return err
		}

		if _, err := queue.InsertOne(sessCtx, write.Event); err != nil {
			_ = session.AbortTransaction(sessCtx)
			return err
		}

		return session.CommitTransaction(sessCtx)
	})
	if txnErr != nil {
		return txnErr
	}

	logger.CtxDebug(ctx, "Transition write committed",
		slog.String("application_id", write.ApplicationID.Hex()),
		slog.String("from", string(write.From)),
		slog.String("to", string(write.To)),
		slog.Time("at", write.At.UTC()),
	)
	return nil
}
