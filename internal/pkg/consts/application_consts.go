package consts

// ApplicationStatus is the authoritative lifecycle status of a loan application.
type ApplicationStatus string

const (
	StatusPending        ApplicationStatus = "pending"
	StatusPreApproved    ApplicationStatus = "pre_approved"
	StatusDocumentReview ApplicationStatus = "document_review"
	StatusApproved       ApplicationStatus = "approved"
	StatusFunding        ApplicationStatus = "funding"
	StatusFunded         ApplicationStatus = "funded"
	StatusRejected       ApplicationStatus = "rejected"
	StatusCancelled      ApplicationStatus = "cancelled"
)

// DocumentType classifies client-uploaded evidence.
type DocumentType string

const (
	DocTypePhotoID      DocumentType = "photo_id"
	DocTypeProofIncome  DocumentType = "proof_income"
	DocTypeProofAddress DocumentType = "proof_address"
	DocTypeOther        DocumentType = "other"
)

// RequiredDocumentTypes is the fixed set that must all be verified before the
// document gate can advance an application.
var RequiredDocumentTypes = []DocumentType{DocTypePhotoID, DocTypeProofIncome, DocTypeProofAddress}

// RequiredDocumentCount is the number of verified required-type documents
// needed for an application to be document-complete.
const RequiredDocumentCount = 3

// DocumentStatus is the review state of a single uploaded document.
type DocumentStatus string

const (
	DocStatusUploaded DocumentStatus = "uploaded"
	DocStatusVerified DocumentStatus = "verified"
	DocStatusRejected DocumentStatus = "rejected"
)

// ReviewDecision is an admin verdict on a document.
type ReviewDecision string

const (
	DecisionApprove ReviewDecision = "approve"
	DecisionReject  ReviewDecision = "reject"
)

// FeeStatus is the admin-driven state of a fee payment submission.
type FeeStatus string

const (
	FeeStatusPending     FeeStatus = "pending"
	FeeStatusUnderReview FeeStatus = "under_review"
	FeeStatusConfirmed   FeeStatus = "confirmed"
	FeeStatusRejected    FeeStatus = "rejected"
)

// EventKind identifies the notification emitted for a lifecycle event.
type EventKind string

const (
	EventPreApproved       EventKind = "pre_approved"
	EventDocumentsComplete EventKind = "documents_complete"
	EventDocumentRejected  EventKind = "document_rejected"
	EventDocumentReminder  EventKind = "document_reminder"
	EventAgreementReminder EventKind = "agreement_reminder"
	EventFundingReminder   EventKind = "funding_reminder"
	EventExpired           EventKind = "expired"
	EventStatusChanged     EventKind = "status_changed"
)

// Notification queue entry states.
const (
	NotificationQueued = "queued"
	NotificationSent   = "sent"
)

// Audit actions recorded against applications, documents and fee submissions.
const (
	AuditActionStatusTransition = "status_transition"
	AuditActionDocumentReview   = "document_review"
	AuditActionFeeStatusUpdate  = "fee_status_update"
	AuditActionFeeBulkUpdate    = "fee_bulk_update"
)

// ActorAutomation is recorded on audit entries written by the scheduler.
const ActorAutomation = "automation"

// Mongo collection names.
const (
	ApplicationsCollection      = "loan_applications"
	DocumentsCollection         = "documents"
	FeeSubmissionsCollection    = "fee_sent_forms"
	FeeTemplatesCollection      = "fee_form_templates"
	AuditCollection             = "audit_log"
	NotificationQueueCollection = "notification_queue"
	SystemSettingsCollection    = "system_settings"
)

// System settings keys with the defaults applied when a key is absent.
const (
	SettingAutomationEnabled         = "pre_approval_automation_enabled"
	SettingAutoPreApproveEnabled     = "auto_pre_approve_enabled"
	SettingPreApprovalDelayHours     = "pre_approval_delay_hours"
	SettingPreApprovedAdvanceHours   = "pre_approved_advance_hours"
	SettingDocumentReviewTimeoutHrs  = "document_review_timeout_hours"
	SettingAgreementTimeoutHours     = "agreement_timeout_hours"
	SettingFundingTimeoutHours       = "funding_timeout_hours"
	SettingExpiryGraceMultiple       = "expiry_grace_multiple"
	SettingPreApprovalBaseRate       = "pre_approval_base_rate"
	DefaultAutomationEnabled         = "1"
	DefaultAutoPreApproveEnabled     = "1"
	DefaultPreApprovalDelayHours     = "2"
	DefaultPreApprovedAdvanceHours   = "24"
	DefaultDocumentReviewTimeoutHrs  = "48"
	DefaultAgreementTimeoutHours     = "72"
	DefaultFundingTimeoutHours       = "168"
	DefaultExpiryGraceMultiple       = "2"
	DefaultPreApprovalBaseRate       = "12.0"
	ReminderDedupWindowHours         = 24
)

// Redis lock key prefixes for serializing review and transition writes.
const (
	DocumentReviewLockPrefix = "loanflow:document_review_lock:"
	LockTTLSeconds           = 30
)
