package automation

import (
	"context"
	"log/slog"
	"time"

	"loanflow/internal/pkg/consts"
	"loanflow/internal/pkg/log_messages"
	"loanflow/internal/pkg/logger"
	"loanflow/internal/pkg/store/models"
	"loanflow/internal/service/interfaces"
)

// SweepError records one application's failure without stopping the batch.
type SweepError struct {
	ApplicationID string `json:"application_id"`
	Stage         string `json:"stage"`
	Error         string `json:"error"`
}

// SweepResult aggregates what a single sweep run did.
type SweepResult struct {
	PreApproved            int          `json:"pre_approved"`
	DocumentReviewAdvanced int          `json:"document_review_advanced"`
	DocumentReminders      int          `json:"document_reminders"`
	AgreementReminders     int          `json:"agreement_reminders"`
	FundingProcessed       int          `json:"funding_processed"`
	ExpiredApplications    int          `json:"expired_applications"`
	Errors                 []SweepError `json:"errors,omitempty"`
}

// AutomationService runs the periodic sweep over non-terminal applications.
// Each application is evaluated independently; a failure on one is collected
// into the result and the sweep moves on.
type AutomationService struct {
	applications  interfaces.ApplicationsRepositoryInterface
	transitioner  interfaces.TransitionerInterface
	settings      interfaces.SystemSettingsRepositoryInterface
	notifications interfaces.NotificationQueueRepositoryInterface
	now           func() time.Time
}

func NewAutomationService(
	applications interfaces.ApplicationsRepositoryInterface,
	transitioner interfaces.TransitionerInterface,
	settings interfaces.SystemSettingsRepositoryInterface,
	notifications interfaces.NotificationQueueRepositoryInterface,
) *AutomationService {
	return &AutomationService{
		applications:  applications,
		transitioner:  transitioner,
		settings:      settings,
		notifications: notifications,
		now:           time.Now,
	}
}

// Start runs sweeps on the given interval until the context is cancelled.
func (as *AutomationService) Start(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.CtxInfo(ctx, log_messages.SweepCancelled)
			return
		case <-ticker.C:
			if _, err := as.RunSweep(ctx); err != nil {
				logger.CtxError(ctx, "Automation sweep failed", err)
			}
		}
	}
}

// RunSweep executes one sweep pass. The settings snapshot failing to load, or
// a status listing failing, aborts the sweep with a top-level error; anything
// scoped to a single application is collected into the result instead.
func (as *AutomationService) RunSweep(ctx context.Context) (*SweepResult, error) {
	result := &SweepResult{}

	cfg, err := loadSweepConfig(ctx, as.settings)
	if err != nil {
		logger.CtxError(ctx, "Failed to load automation settings", err)
		return result, err
	}
	if !cfg.Enabled {
		logger.CtxInfo(ctx, log_messages.SweepDisabled)
		return result, nil
	}

	logger.CtxInfo(ctx, log_messages.SweepStarted)
	startedAt := as.now().UTC()

	stages := []func(context.Context, *SweepConfig, *SweepResult) error{
		as.sweepPending,
		as.sweepPreApproved,
		as.sweepDocumentReview,
		as.sweepApproved,
		as.sweepFunding,
	}
	for _, stage := range stages {
		if err := stage(ctx, cfg, result); err != nil {
			return result, err
		}
	}

	logger.CtxInfo(ctx, log_messages.SweepFinished,
		slog.Int("pre_approved", result.PreApproved),
		slog.Int("document_review_advanced", result.DocumentReviewAdvanced),
		slog.Int("document_reminders", result.DocumentReminders),
		slog.Int("agreement_reminders", result.AgreementReminders),
		slog.Int("funding_processed", result.FundingProcessed),
		slog.Int("expired_applications", result.ExpiredApplications),
		slog.Int("errors", len(result.Errors)),
		slog.Duration("took", as.now().UTC().Sub(startedAt)))
	return result, nil
}

// sweepPending auto pre-approves applications that have waited out the delay.
func (as *AutomationService) sweepPending(ctx context.Context, cfg *SweepConfig, result *SweepResult) error {
	if !cfg.AutoPreApprove {
		return nil
	}
	apps, err := as.listStage(ctx, consts.StatusPending)
	if err != nil {
		return err
	}

	now := as.now().UTC()
	for i := range apps {
		app := &apps[i]
		if err := ctx.Err(); err != nil {
			logger.CtxInfo(ctx, log_messages.SweepCancelled)
			return err
		}
		if now.Sub(app.CreatedAt) < cfg.PreApprovalDelay {
			continue
		}
		if _, err := as.transitioner.Transition(ctx, app.ID, consts.StatusPreApproved, consts.ActorAutomation, "auto pre-approval"); err != nil {
			as.recordError(ctx, result, app.ID.Hex(), "pending", err)
			continue
		}
		result.PreApproved++
	}
	return nil
}

// sweepPreApproved moves pre-approved applications into document review once
// the advance window has passed.
func (as *AutomationService) sweepPreApproved(ctx context.Context, cfg *SweepConfig, result *SweepResult) error {
	apps, err := as.listStage(ctx, consts.StatusPreApproved)
	if err != nil {
		return err
	}

	now := as.now().UTC()
	for i := range apps {
		app := &apps[i]
		if err := ctx.Err(); err != nil {
			logger.CtxInfo(ctx, log_messages.SweepCancelled)
			return err
		}
		if now.Sub(app.StatusChangedAt) < cfg.PreApprovedAdvance {
			continue
		}
		if _, err := as.transitioner.Transition(ctx, app.ID, consts.StatusDocumentReview, consts.ActorAutomation, "advanced to document review"); err != nil {
			as.recordError(ctx, result, app.ID.Hex(), "pre_approved", err)
			continue
		}
		result.DocumentReviewAdvanced++
	}
	return nil
}

func (as *AutomationService) sweepDocumentReview(ctx context.Context, cfg *SweepConfig, result *SweepResult) error {
	return as.sweepStalledStage(ctx, cfg, result, stalledStage{
		status:       consts.StatusDocumentReview,
		stage:        "document_review",
		timeout:      cfg.DocumentReviewTimeout,
		reminderKind: consts.EventDocumentReminder,
		expiryReason: "document timeout",
		onReminder:   func(r *SweepResult) { r.DocumentReminders++ },
	})
}

func (as *AutomationService) sweepApproved(ctx context.Context, cfg *SweepConfig, result *SweepResult) error {
	return as.sweepStalledStage(ctx, cfg, result, stalledStage{
		status:       consts.StatusApproved,
		stage:        "approved",
		timeout:      cfg.AgreementTimeout,
		reminderKind: consts.EventAgreementReminder,
		expiryReason: "agreement timeout",
		onReminder:   func(r *SweepResult) { r.AgreementReminders++ },
	})
}

func (as *AutomationService) sweepFunding(ctx context.Context, cfg *SweepConfig, result *SweepResult) error {
	return as.sweepStalledStage(ctx, cfg, result, stalledStage{
		status:       consts.StatusFunding,
		stage:        "funding",
		timeout:      cfg.FundingTimeout,
		reminderKind: consts.EventFundingReminder,
		expiryReason: "funding timeout",
		onReminder:   func(r *SweepResult) { r.FundingProcessed++ },
	})
}

type stalledStage struct {
	status       consts.ApplicationStatus
	stage        string
	timeout      time.Duration
	reminderKind consts.EventKind
	expiryReason string
	onReminder   func(*SweepResult)
}

// sweepStalledStage handles the reminder/expiry stages. An application past
// the timeout gets at most one reminder per dedup window; past timeout times
// the grace multiple it is rejected as expired.
func (as *AutomationService) sweepStalledStage(ctx context.Context, cfg *SweepConfig, result *SweepResult, stage stalledStage) error {
	apps, err := as.listStage(ctx, stage.status)
	if err != nil {
		return err
	}

	now := as.now().UTC()
	hardExpiry := stage.timeout * time.Duration(cfg.ExpiryGraceMultiple)
	for i := range apps {
		app := &apps[i]
		if err := ctx.Err(); err != nil {
			logger.CtxInfo(ctx, log_messages.SweepCancelled)
			return err
		}

		dwell := now.Sub(app.StatusChangedAt)
		if dwell < stage.timeout {
			continue
		}

		if dwell >= hardExpiry {
			if _, err := as.transitioner.Transition(ctx, app.ID, consts.StatusRejected, consts.ActorAutomation, stage.expiryReason); err != nil {
				as.recordError(ctx, result, app.ID.Hex(), stage.stage, err)
				continue
			}
			result.ExpiredApplications++
			continue
		}

		sent, err := as.remind(ctx, app, stage.reminderKind, now)
		if err != nil {
			as.recordError(ctx, result, app.ID.Hex(), stage.stage, err)
			continue
		}
		if sent {
			stage.onReminder(result)
		}
	}
	return nil
}

// remind enqueues a reminder unless one of the same kind was already queued
// inside the dedup window, which keeps repeated sweeps idempotent.
func (as *AutomationService) remind(ctx context.Context, app *models.LoanApplication, kind consts.EventKind, now time.Time) (bool, error) {
	since := now.Add(-time.Duration(consts.ReminderDedupWindowHours) * time.Hour)
	recent, err := as.notifications.HasRecentEvent(ctx, app.ID, kind, since)
	if err != nil {
		return false, err
	}
	if recent {
		return false, nil
	}

	event := models.NotificationEvent{
		ApplicationID: app.ID,
		UserID:        app.UserID,
		EventKind:     kind,
		Context: map[string]string{
			"reference_number": app.ReferenceNumber,
			"status":           string(app.Status),
		},
		Status:    consts.NotificationQueued,
		CreatedAt: now,
	}
	if err := as.notifications.Enqueue(ctx, event); err != nil {
		return false, err
	}
	return true, nil
}

func (as *AutomationService) listStage(ctx context.Context, status consts.ApplicationStatus) ([]models.LoanApplication, error) {
	apps, err := as.applications.ListApplicationsByStatus(ctx, status)
	if err != nil {
		logger.CtxError(ctx, log_messages.SweepListFailure, err, slog.String("status", string(status)))
		return nil, err
	}
	return apps, nil
}

func (as *AutomationService) recordError(ctx context.Context, result *SweepResult, applicationID, stage string, err error) {
	logger.CtxWarn(ctx, log_messages.SweepApplicationFailure,
		slog.String("application_id", applicationID),
		slog.String("stage", stage),
		slog.String("error", err.Error()))
	result.Errors = append(result.Errors, SweepError{
		ApplicationID: applicationID,
		Stage:         stage,
		Error:         err.Error(),
	})
}
