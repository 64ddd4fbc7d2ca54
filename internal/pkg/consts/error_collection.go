package consts

import (
	"fmt"

	"loanflow/internal/pkg/models"
)

var (
	ErrorApplicationNotFound = &models.CustomError{
		Code:    "LOANFLOW_LIFECYCLE_APPLICATION_NOT_FOUND",
		Message: "Application not found",
	}
	ErrorDocumentNotFound = &models.CustomError{
		Code:    "LOANFLOW_DOCUMENT_REVIEW_DOCUMENT_NOT_FOUND",
		Message: "Document not found",
	}
	ErrorSubmissionNotFound = &models.CustomError{
		Code:    "LOANFLOW_FEE_CONFIRMATION_SUBMISSION_NOT_FOUND",
		Message: "Fee submission not found",
	}
	ErrorTemplateNotFound = &models.CustomError{
		Code:    "LOANFLOW_FEE_CONFIRMATION_TEMPLATE_NOT_FOUND",
		Message: "Fee form template not found",
	}
	ErrorForbidden = &models.CustomError{
		Code:    "LOANFLOW_AUTHORIZATION_FORBIDDEN",
		Message: "Action not permitted for this reviewer",
	}
	ErrorAlreadyTerminal = &models.CustomError{
		Code:    "LOANFLOW_LIFECYCLE_APPLICATION_ALREADY_TERMINAL",
		Message: "Application is in a terminal status and cannot change",
	}
	ErrorConcurrentModification = &models.CustomError{
		Code:    "LOANFLOW_LIFECYCLE_CONCURRENT_MODIFICATION",
		Message: "Application status changed concurrently, transition not applied",
	}
	ErrorNoActiveTemplate = &models.CustomError{
		Code:    "LOANFLOW_FEE_CONFIRMATION_NO_ACTIVE_TEMPLATE",
		Message: "No active fee form template for this country and payment method",
	}
	ErrorInvalidReviewDecision = &models.CustomError{
		Code:    "LOANFLOW_DOCUMENT_REVIEW_INVALID_DECISION",
		Message: "Review decision must be approve or reject",
	}
	ErrorInvalidFeeStatus = &models.CustomError{
		Code:    "LOANFLOW_FEE_CONFIRMATION_INVALID_STATUS",
		Message: "Fee submission status not recognized",
	}
	ErrorReviewInProgress = &models.CustomError{
		Code:    "LOANFLOW_DOCUMENT_REVIEW_IN_PROGRESS",
		Message: "Another review of this document is in progress",
	}
)

// ErrorInvalidTransition reports a (from, to) pair missing from the transition table.
func ErrorInvalidTransition(from, to ApplicationStatus) *models.CustomError {
	return &models.CustomError{
		Code:    "LOANFLOW_LIFECYCLE_INVALID_TRANSITION",
		Message: fmt.Sprintf("Transition from %s to %s is not allowed", from, to),
	}
}

// ErrorMissingRequiredField reports a template-required field absent from a submission.
func ErrorMissingRequiredField(field string) *models.CustomError {
	return &models.CustomError{
		Code:    "LOANFLOW_FEE_CONFIRMATION_MISSING_REQUIRED_FIELD",
		Message: fmt.Sprintf("Required field %s is missing", field),
	}
}

// ErrorTemplateInUse reports how many submissions still reference the template's
// country and payment method pair.
func ErrorTemplateInUse(count int64) *models.CustomError {
	return &models.CustomError{
		Code:    "LOANFLOW_FEE_CONFIRMATION_TEMPLATE_IN_USE",
		Message: fmt.Sprintf("Template is referenced by %d submission(s) and cannot be deleted", count),
	}
}
