package lifecycle

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"loanflow/internal/pkg/consts"
	"loanflow/internal/pkg/log_messages"
	"loanflow/internal/pkg/logger"
	"loanflow/internal/pkg/store/models"
	"loanflow/internal/service/interfaces"
)

// LifecycleService is the single writer of application status. Every status
// change goes through Transition, which enforces the transition table and
// commits the status update, audit record and notification event as one unit.
type LifecycleService struct {
	applications interfaces.ApplicationsRepositoryInterface
	settings     interfaces.SystemSettingsRepositoryInterface
	auditStream  interfaces.KafkaPublisherInterface
	now          func() time.Time
}

func NewLifecycleService(
	applications interfaces.ApplicationsRepositoryInterface,
	settings interfaces.SystemSettingsRepositoryInterface,
	auditStream interfaces.KafkaPublisherInterface,
) *LifecycleService {
	return &LifecycleService{
		applications: applications,
		settings:     settings,
		auditStream:  auditStream,
		now:          time.Now,
	}
}

// auditEvent is the payload published to the audit stream after a commit.
type auditEvent struct {
	ApplicationID string    `json:"application_id"`
	From          string    `json:"from"`
	To            string    `json:"to"`
	Actor         string    `json:"actor"`
	Reason        string    `json:"reason,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}

func (ls *LifecycleService) Transition(
	ctx context.Context,
	applicationID primitive.ObjectID,
	to consts.ApplicationStatus,
	actor string,
	reason string,
) (*models.LoanApplication, error) {
	app, err := ls.applications.GetApplicationByID(ctx, applicationID)
	if err != nil {
		return nil, err
	}

	from := app.Status
	if IsTerminal(from) {
		logger.CtxWarn(ctx, log_messages.TransitionRejected,
			slog.String("application_id", applicationID.Hex()),
			slog.String("from", string(from)),
			slog.String("to", string(to)))
		return nil, consts.ErrorAlreadyTerminal
	}
	if !CanTransition(from, to) {
		logger.CtxWarn(ctx, log_messages.TransitionRejected,
			slog.String("application_id", applicationID.Hex()),
			slog.String("from", string(from)),
			slog.String("to", string(to)))
		return nil, consts.ErrorInvalidTransition(from, to)
	}

	now := ls.now().UTC()
	write := models.TransitionWrite{
		ApplicationID: applicationID,
		From:          from,
		To:            to,
		Step:          StepForStatus(to),
		At:            now,
		Audit: models.AuditRecord{
			EntityType:   "loan_application",
			EntityID:     applicationID,
			Action:       consts.AuditActionStatusTransition,
			Actor:        actor,
			BeforeStatus: string(from),
			AfterStatus:  string(to),
			Reason:       reason,
			CreatedAt:    now,
		},
		Event: models.NotificationEvent{
			ApplicationID: applicationID,
			UserID:        app.UserID,
			EventKind:     eventKindFor(to, actor),
			Context: map[string]string{
				"reference_number": app.ReferenceNumber,
				"from":             string(from),
				"to":               string(to),
				"reason":           reason,
			},
			Status:    consts.NotificationQueued,
			CreatedAt: now,
		},
	}

	if to == consts.StatusPreApproved {
		write.PreApprovedAt = &now
		rate := ls.preApprovalRate(ctx)
		write.PreApprovalRate = &rate
	}

	if err := ls.applications.ApplyTransition(ctx, write); err != nil {
		if errors.Is(err, consts.ErrorConcurrentModification) {
			logger.CtxWarn(ctx, log_messages.TransitionRaceDetected,
				slog.String("application_id", applicationID.Hex()),
				slog.String("expected_from", string(from)))
		}
		return nil, err
	}

	logger.CtxInfo(ctx, log_messages.TransitionApplied,
		slog.String("application_id", applicationID.Hex()),
		slog.String("from", string(from)),
		slog.String("to", string(to)),
		slog.String("actor", actor))

	ls.publishAuditEvent(ctx, auditEvent{
		ApplicationID: applicationID.Hex(),
		From:          string(from),
		To:            string(to),
		Actor:         actor,
		Reason:        reason,
		OccurredAt:    now,
	})

	app.Status = to
	app.CurrentStep = StepForStatus(to)
	app.StatusChangedAt = now
	app.UpdatedAt = now
	if write.PreApprovedAt != nil {
		app.PreApprovedAt = write.PreApprovedAt
		app.PreApprovalRate = write.PreApprovalRate
	}
	return app, nil
}

// preApprovalRate reads the configured base rate, falling back to the default
// when the setting is absent or malformed.
func (ls *LifecycleService) preApprovalRate(ctx context.Context) float64 {
	value, err := ls.settings.GetSetting(ctx, consts.SettingPreApprovalBaseRate, consts.DefaultPreApprovalBaseRate)
	if err != nil {
		value = consts.DefaultPreApprovalBaseRate
	}
	rate, err := strconv.ParseFloat(value, 64)
	if err != nil {
		rate, _ = strconv.ParseFloat(consts.DefaultPreApprovalBaseRate, 64)
	}
	return rate
}

// publishAuditEvent mirrors the committed audit record onto the Kafka audit
// stream. The Mongo record is authoritative; a stream failure is logged, not
// surfaced.
func (ls *LifecycleService) publishAuditEvent(ctx context.Context, event auditEvent) {
	if ls.auditStream == nil {
		return
	}
	payload, err := json.Marshal(event)
	if err != nil {
		logger.CtxError(ctx, log_messages.AuditStreamPublishError, err)
		return
	}
	if err := ls.auditStream.Publish(ctx, payload); err != nil {
		logger.CtxError(ctx, log_messages.AuditStreamPublishError, err,
			slog.String("application_id", event.ApplicationID))
	}
}

// eventKindFor picks the notification kind for a committed transition.
// Automation only rejects on hard timeout expiry, so automation rejections
// surface as expiry notices.
func eventKindFor(to consts.ApplicationStatus, actor string) consts.EventKind {
	switch {
	case to == consts.StatusPreApproved:
		return consts.EventPreApproved
	case to == consts.StatusApproved:
		return consts.EventDocumentsComplete
	case to == consts.StatusRejected && actor == consts.ActorAutomation:
		return consts.EventExpired
	default:
		return consts.EventStatusChanged
	}
}
