package interfaces

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"loanflow/internal/pkg/consts"
	"loanflow/internal/pkg/store/models"
)

// TransitionerInterface is the state machine surface consumed by the gates
// and the automation scheduler.
type TransitionerInterface interface {
	Transition(
		ctx context.Context,
		applicationID primitive.ObjectID,
		to consts.ApplicationStatus,
		actor string,
		reason string,
	) (*models.LoanApplication, error)
}
