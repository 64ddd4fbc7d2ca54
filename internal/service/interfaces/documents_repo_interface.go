package interfaces

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"loanflow/internal/pkg/consts"
	"loanflow/internal/pkg/store/models"
)

type DocumentsRepositoryInterface interface {
	GetDocumentByID(ctx context.Context, id primitive.ObjectID) (*models.Document, error)
	UpdateReview(
		ctx context.Context,
		id primitive.ObjectID,
		status consts.DocumentStatus,
		reviewerID primitive.ObjectID,
		notes string,
		reviewedAt time.Time,
	) error
	// CountVerifiedRequired counts the application's verified documents whose
	// type is in the fixed required set.
	CountVerifiedRequired(ctx context.Context, applicationID primitive.ObjectID) (int64, error)
}
