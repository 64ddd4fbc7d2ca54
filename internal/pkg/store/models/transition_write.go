package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"loanflow/internal/pkg/consts"
)

// TransitionWrite carries everything the applications repository must commit
// as one unit of work: the compare-and-set status update, the audit record
// and the queued notification event.
type TransitionWrite struct {
	ApplicationID   primitive.ObjectID
	From            consts.ApplicationStatus
	To              consts.ApplicationStatus
	Step            int
	At              time.Time
	PreApprovedAt   *time.Time
	PreApprovalRate *float64
	Audit           AuditRecord
	Event           NotificationEvent
}
