package interfaces

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"loanflow/internal/pkg/consts"
	"loanflow/internal/pkg/store/models"
)

type ApplicationsRepositoryInterface interface {
	GetApplicationByID(ctx context.Context, id primitive.ObjectID) (*models.LoanApplication, error)
	ListApplicationsByStatus(ctx context.Context, status consts.ApplicationStatus) ([]models.LoanApplication, error)
	// ApplyTransition commits the status update, audit record and queued
	// notification as a single unit. It returns ErrorConcurrentModification
	// when the status precondition no longer holds.
	ApplyTransition(ctx context.Context, write models.TransitionWrite) error
}
