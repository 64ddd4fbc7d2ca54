package fees

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"loanflow/internal/pkg/consts"
	"loanflow/internal/pkg/log_messages"
	"loanflow/internal/pkg/logger"
	"loanflow/internal/pkg/store/models"
	"loanflow/internal/service/interfaces"
)

// SubmissionInput carries the client-entered fields of a payment-proof form.
type SubmissionInput struct {
	ApplicationID        primitive.ObjectID `json:"application_id"`
	UserID               primitive.ObjectID `json:"user_id"`
	Country              string             `json:"country"`
	PaymentMethod        string             `json:"payment_method"`
	AmountSent           float64            `json:"amount_sent"`
	DateSent             *time.Time         `json:"date_sent"`
	TransactionReference string             `json:"transaction_reference"`
	ReceiptReference     string             `json:"receipt_reference"`
}

// ValidationResult reports a submission's fields against the active
// template's required-field flags.
type ValidationResult struct {
	Valid         bool     `json:"valid"`
	TemplateName  string   `json:"template_name"`
	MissingFields []string `json:"missing_fields,omitempty"`
}

// FeesService validates payment-proof submissions against fee form templates
// and applies admin review decisions. Fee confirmation never advances the
// application automatically; that stays an explicit admin action.
type FeesService struct {
	submissions interfaces.FeeSubmissionsRepositoryInterface
	templates   interfaces.FeeTemplatesRepositoryInterface
	audit       interfaces.AuditRepositoryInterface
	now         func() time.Time
}

func NewFeesService(
	submissions interfaces.FeeSubmissionsRepositoryInterface,
	templates interfaces.FeeTemplatesRepositoryInterface,
	audit interfaces.AuditRepositoryInterface,
) *FeesService {
	return &FeesService{
		submissions: submissions,
		templates:   templates,
		audit:       audit,
		now:         time.Now,
	}
}

// ValidateSubmission checks the input against the active template for the
// (country, payment method) pair. Missing required fields are all collected
// so the client sees every gap at once.
func (fs *FeesService) ValidateSubmission(
	ctx context.Context,
	country string,
	paymentMethod string,
	input SubmissionInput,
) (*ValidationResult, error) {
	template, err := fs.templates.GetActiveTemplate(ctx, country, paymentMethod)
	if err != nil {
		return nil, err
	}

	result := &ValidationResult{TemplateName: template.TemplateName}
	if template.RequiredFields.AmountSent && input.AmountSent <= 0 {
		result.MissingFields = append(result.MissingFields, "amount_sent")
	}
	if template.RequiredFields.DateSent && input.DateSent == nil {
		result.MissingFields = append(result.MissingFields, "date_sent")
	}
	if template.RequiredFields.TransactionReference && input.TransactionReference == "" {
		result.MissingFields = append(result.MissingFields, "transaction_reference")
	}
	result.Valid = len(result.MissingFields) == 0

	logger.CtxDebug(ctx, log_messages.FeeSubmissionValidated,
		slog.String("country", country),
		slog.String("payment_method", paymentMethod),
		slog.Bool("valid", result.Valid))
	return result, nil
}

// CreateSubmission validates the input and stores the form with pending status.
func (fs *FeesService) CreateSubmission(ctx context.Context, input SubmissionInput) (primitive.ObjectID, error) {
	result, err := fs.ValidateSubmission(ctx, input.Country, input.PaymentMethod, input)
	if err != nil {
		return primitive.NilObjectID, err
	}
	if !result.Valid {
		return primitive.NilObjectID, consts.ErrorMissingRequiredField(result.MissingFields[0])
	}

	submission := models.FeeSubmission{
		ApplicationID:        input.ApplicationID,
		UserID:               input.UserID,
		Country:              input.Country,
		PaymentMethod:        input.PaymentMethod,
		AmountSent:           input.AmountSent,
		DateSent:             input.DateSent,
		TransactionReference: input.TransactionReference,
		ReceiptReference:     input.ReceiptReference,
		Status:               consts.FeeStatusPending,
		CreatedAt:            fs.now().UTC(),
	}
	return fs.submissions.CreateSubmission(ctx, submission)
}

func (fs *FeesService) UpdateStatus(
	ctx context.Context,
	submissionID primitive.ObjectID,
	newStatus consts.FeeStatus,
	reviewerID primitive.ObjectID,
	notes string,
) error {
	if !validFeeStatus(newStatus) {
		return consts.ErrorInvalidFeeStatus
	}

	submission, err := fs.submissions.GetSubmissionByID(ctx, submissionID)
	if err != nil {
		return err
	}

	now := fs.now().UTC()
	if err := fs.submissions.UpdateStatus(ctx, submissionID, newStatus, reviewerID, notes, now); err != nil {
		return err
	}

	auditRecord := models.AuditRecord{
		EntityType:   "fee_submission",
		EntityID:     submissionID,
		Action:       consts.AuditActionFeeStatusUpdate,
		Actor:        reviewerID.Hex(),
		BeforeStatus: string(submission.Status),
		AfterStatus:  string(newStatus),
		Reason:       notes,
		CreatedAt:    now,
	}
	if err := fs.audit.WriteAuditRecord(ctx, auditRecord); err != nil {
		return err
	}

	logger.CtxInfo(ctx, log_messages.FeeStatusUpdated,
		slog.String("submission_id", submissionID.Hex()),
		slog.String("status", string(newStatus)))
	return nil
}

// BulkUpdateStatus applies one decision to a set of submissions all-or-nothing
// and reports how many were actually modified.
func (fs *FeesService) BulkUpdateStatus(
	ctx context.Context,
	submissionIDs []primitive.ObjectID,
	newStatus consts.FeeStatus,
	reviewerID primitive.ObjectID,
	notes string,
) (int64, error) {
	if !validFeeStatus(newStatus) {
		return 0, consts.ErrorInvalidFeeStatus
	}
	if len(submissionIDs) == 0 {
		return 0, nil
	}

	now := fs.now().UTC()
	updated, err := fs.submissions.BulkUpdateStatus(ctx, submissionIDs, newStatus, reviewerID, notes, now)
	if err != nil {
		return 0, err
	}

	auditRecord := models.AuditRecord{
		EntityType:  "fee_submission",
		EntityID:    submissionIDs[0],
		Action:      consts.AuditActionFeeBulkUpdate,
		Actor:       reviewerID.Hex(),
		AfterStatus: string(newStatus),
		Reason:      fmt.Sprintf("bulk update of %d submission(s): %s", len(submissionIDs), notes),
		CreatedAt:   now,
	}
	if err := fs.audit.WriteAuditRecord(ctx, auditRecord); err != nil {
		return updated, err
	}

	logger.CtxInfo(ctx, log_messages.FeeBulkUpdateApplied,
		slog.Int64("updated", updated),
		slog.Int("requested", len(submissionIDs)),
		slog.String("status", string(newStatus)))
	return updated, nil
}

// DeleteTemplate refuses to remove a template still referenced by any
// submission with the same (country, payment method) pair.
func (fs *FeesService) DeleteTemplate(ctx context.Context, templateID primitive.ObjectID) error {
	template, err := fs.templates.GetTemplateByID(ctx, templateID)
	if err != nil {
		return err
	}

	count, err := fs.submissions.CountByCountryAndMethod(ctx, template.Country, template.PaymentMethod)
	if err != nil {
		return err
	}
	if count > 0 {
		logger.CtxWarn(ctx, log_messages.FeeTemplateDeleteError,
			slog.String("template_id", templateID.Hex()),
			slog.Int64("usage_count", count))
		return consts.ErrorTemplateInUse(count)
	}

	return fs.templates.DeleteTemplate(ctx, templateID)
}

func validFeeStatus(status consts.FeeStatus) bool {
	switch status {
	case consts.FeeStatusPending, consts.FeeStatusUnderReview, consts.FeeStatusConfirmed, consts.FeeStatusRejected:
		return true
	}
	return false
}
