package interfaces

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"loanflow/internal/pkg/consts"
	"loanflow/internal/pkg/store/models"
)

type FeeSubmissionsRepositoryInterface interface {
	GetSubmissionByID(ctx context.Context, id primitive.ObjectID) (*models.FeeSubmission, error)
	CreateSubmission(ctx context.Context, submission models.FeeSubmission) (primitive.ObjectID, error)
	UpdateStatus(
		ctx context.Context,
		id primitive.ObjectID,
		status consts.FeeStatus,
		reviewerID primitive.ObjectID,
		notes string,
		reviewedAt time.Time,
	) error
	// BulkUpdateStatus applies the same decision to every listed submission
	// inside one transaction; either all are updated or none are.
	BulkUpdateStatus(
		ctx context.Context,
		ids []primitive.ObjectID,
		status consts.FeeStatus,
		reviewerID primitive.ObjectID,
		notes string,
		reviewedAt time.Time,
	) (int64, error)
	CountByCountryAndMethod(ctx context.Context, country, paymentMethod string) (int64, error)
}

type FeeTemplatesRepositoryInterface interface {
	GetTemplateByID(ctx context.Context, id primitive.ObjectID) (*models.FeeTemplate, error)
	GetActiveTemplate(ctx context.Context, country, paymentMethod string) (*models.FeeTemplate, error)
	DeleteTemplate(ctx context.Context, id primitive.ObjectID) error
}
