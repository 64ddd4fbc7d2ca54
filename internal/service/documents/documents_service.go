package documents

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"loanflow/internal/pkg/consts"
	"loanflow/internal/pkg/log_messages"
	"loanflow/internal/pkg/logger"
	pkgmodels "loanflow/internal/pkg/models"
	"loanflow/internal/pkg/store/models"
	"loanflow/internal/service/interfaces"
)

// DocumentReviewResult reports what a single review action did, including
// whether it completed the required set and advanced the application.
type DocumentReviewResult struct {
	DocumentID            primitive.ObjectID       `json:"document_id"`
	Status                consts.DocumentStatus    `json:"status"`
	VerifiedRequiredCount int64                    `json:"verified_required_count"`
	Cascaded              bool                     `json:"cascaded"`
	ApplicationStatus     consts.ApplicationStatus `json:"application_status"`
}

// DocumentsService is the verification gate. It records review verdicts and,
// when the required set completes, asks the state machine to advance the
// application. Review writes per document are serialized with a Redis lock.
type DocumentsService struct {
	documents     interfaces.DocumentsRepositoryInterface
	applications  interfaces.ApplicationsRepositoryInterface
	transitioner  interfaces.TransitionerInterface
	audit         interfaces.AuditRepositoryInterface
	notifications interfaces.NotificationQueueRepositoryInterface
	locks         interfaces.LockRepositoryInterface
	now           func() time.Time
}

func NewDocumentsService(
	documents interfaces.DocumentsRepositoryInterface,
	applications interfaces.ApplicationsRepositoryInterface,
	transitioner interfaces.TransitionerInterface,
	audit interfaces.AuditRepositoryInterface,
	notifications interfaces.NotificationQueueRepositoryInterface,
	locks interfaces.LockRepositoryInterface,
) *DocumentsService {
	return &DocumentsService{
		documents:     documents,
		applications:  applications,
		transitioner:  transitioner,
		audit:         audit,
		notifications: notifications,
		locks:         locks,
		now:           time.Now,
	}
}

func (ds *DocumentsService) ReviewDocument(
	ctx context.Context,
	documentID primitive.ObjectID,
	decision consts.ReviewDecision,
	reviewerID primitive.ObjectID,
	notes string,
) (*DocumentReviewResult, error) {
	var newStatus consts.DocumentStatus
	switch decision {
	case consts.DecisionApprove:
		newStatus = consts.DocStatusVerified
	case consts.DecisionReject:
		newStatus = consts.DocStatusRejected
	default:
		return nil, consts.ErrorInvalidReviewDecision
	}

	document, err := ds.documents.GetDocumentByID(ctx, documentID)
	if err != nil {
		return nil, err
	}

	lockKey := consts.DocumentReviewLockPrefix + documentID.Hex()
	acquired, err := ds.locks.AcquireLock(ctx, lockKey, consts.LockTTLSeconds*time.Second)
	if err != nil {
		return nil, err
	}
	if !acquired {
		logger.CtxWarn(ctx, log_messages.DocumentLockUnavailable,
			slog.String("document_id", documentID.Hex()))
		return nil, consts.ErrorReviewInProgress
	}
	defer func() {
		if err := ds.locks.ReleaseLock(ctx, lockKey); err != nil {
			logger.CtxWarn(ctx, "Failed to release document review lock",
				slog.String("document_id", documentID.Hex()))
		}
	}()

	now := ds.now().UTC()
	if err := ds.documents.UpdateReview(ctx, documentID, newStatus, reviewerID, notes, now); err != nil {
		return nil, err
	}

	auditRecord := models.AuditRecord{
		EntityType:   "document",
		EntityID:     documentID,
		Action:       consts.AuditActionDocumentReview,
		Actor:        reviewerID.Hex(),
		BeforeStatus: string(document.UploadStatus),
		AfterStatus:  string(newStatus),
		Reason:       notes,
		CreatedAt:    now,
	}
	if err := ds.audit.WriteAuditRecord(ctx, auditRecord); err != nil {
		return nil, err
	}

	logger.CtxInfo(ctx, log_messages.DocumentReviewRecorded,
		slog.String("document_id", documentID.Hex()),
		slog.String("application_id", document.ApplicationID.Hex()),
		slog.String("decision", string(decision)))

	result := &DocumentReviewResult{
		DocumentID: documentID,
		Status:     newStatus,
	}

	if decision == consts.DecisionReject {
		event := models.NotificationEvent{
			ApplicationID: document.ApplicationID,
			UserID:        document.UserID,
			EventKind:     consts.EventDocumentRejected,
			Context: map[string]string{
				"document_type": string(document.DocumentType),
				"notes":         notes,
			},
			Status:    consts.NotificationQueued,
			CreatedAt: now,
		}
		if err := ds.notifications.Enqueue(ctx, event); err != nil {
			return nil, err
		}
		return result, nil
	}

	count, err := ds.documents.CountVerifiedRequired(ctx, document.ApplicationID)
	if err != nil {
		return nil, err
	}
	result.VerifiedRequiredCount = count

	if count >= consts.RequiredDocumentCount {
		result.Cascaded, result.ApplicationStatus = ds.cascade(ctx, document.ApplicationID, reviewerID)
	}
	return result, nil
}

// cascade requests document_review -> approved once the required set is
// complete. An application that already moved on (or was cancelled meanwhile)
// makes the cascade a no-op rather than a review failure.
func (ds *DocumentsService) cascade(
	ctx context.Context,
	applicationID primitive.ObjectID,
	reviewerID primitive.ObjectID,
) (bool, consts.ApplicationStatus) {
	app, err := ds.applications.GetApplicationByID(ctx, applicationID)
	if err != nil {
		logger.CtxError(ctx, "Failed to load application for cascade", err,
			slog.String("application_id", applicationID.Hex()))
		return false, ""
	}
	if app.Status != consts.StatusDocumentReview {
		return false, app.Status
	}

	updated, err := ds.transitioner.Transition(
		ctx, applicationID, consts.StatusApproved, reviewerID.Hex(), "all required documents verified")
	if err != nil {
		var customErr *pkgmodels.CustomError
		if errors.As(err, &customErr) {
			// Lost the race to a concurrent transition; the review itself stands.
			logger.CtxWarn(ctx, "Document cascade skipped",
				slog.String("application_id", applicationID.Hex()),
				slog.String("code", customErr.ErrorCode()))
			return false, app.Status
		}
		logger.CtxError(ctx, "Document cascade transition failed", err,
			slog.String("application_id", applicationID.Hex()))
		return false, app.Status
	}

	logger.CtxInfo(ctx, log_messages.DocumentCascadeTriggered,
		slog.String("application_id", applicationID.Hex()))
	return true, updated.Status
}
