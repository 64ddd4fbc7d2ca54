package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"loanflow/internal/pkg/consts"
)

// LoanApplication is the authoritative lifecycle record for a client's loan
// request. Status changes only through the state machine's transition write;
// CurrentStep is always derived from the status.
type LoanApplication struct {
	ID              primitive.ObjectID       `bson:"_id,omitempty" json:"id,omitempty"`
	ReferenceNumber string                   `bson:"reference_number" json:"reference_number"`
	UserID          primitive.ObjectID       `bson:"user_id" json:"user_id"`
	Status          consts.ApplicationStatus `bson:"application_status" json:"application_status"`
	CurrentStep     int                      `bson:"current_step" json:"current_step"`
	LoanAmount      float64                  `bson:"loan_amount" json:"loan_amount"`
	PreApprovedAt   *time.Time               `bson:"pre_approved_at,omitempty" json:"pre_approved_at,omitempty"`
	PreApprovalRate *float64                 `bson:"pre_approval_rate,omitempty" json:"pre_approval_rate,omitempty"`
	StatusChangedAt time.Time                `bson:"status_changed_at" json:"status_changed_at"`
	CreatedAt       time.Time                `bson:"created_at" json:"created_at"`
	UpdatedAt       time.Time                `bson:"updated_at" json:"updated_at"`
}

type Document struct {
	ID                primitive.ObjectID    `bson:"_id,omitempty" json:"id,omitempty"`
	UserID            primitive.ObjectID    `bson:"user_id" json:"user_id"`
	ApplicationID     primitive.ObjectID    `bson:"application_id" json:"application_id"`
	DocumentType      consts.DocumentType   `bson:"document_type" json:"document_type"`
	UploadStatus      consts.DocumentStatus `bson:"upload_status" json:"upload_status"`
	VerificationNotes string                `bson:"verification_notes,omitempty" json:"verification_notes,omitempty"`
	VerifiedBy        primitive.ObjectID    `bson:"verified_by,omitempty" json:"verified_by,omitempty"`
	VerifiedAt        *time.Time            `bson:"verified_at,omitempty" json:"verified_at,omitempty"`
	CreatedAt         time.Time             `bson:"created_at" json:"created_at"`
}

// FeeSubmission records a client's payment-proof form. The template binding
// is by (country, payment_method) value at creation time, not by reference.
type FeeSubmission struct {
	ID                   primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	ApplicationID        primitive.ObjectID `bson:"application_id" json:"application_id"`
	UserID               primitive.ObjectID `bson:"user_id" json:"user_id"`
	Country              string             `bson:"country" json:"country"`
	PaymentMethod        string             `bson:"payment_method" json:"payment_method"`
	AmountSent           float64            `bson:"amount_sent,omitempty" json:"amount_sent,omitempty"`
	DateSent             *time.Time         `bson:"date_sent,omitempty" json:"date_sent,omitempty"`
	TransactionReference string             `bson:"transaction_reference,omitempty" json:"transaction_reference,omitempty"`
	ReceiptReference     string             `bson:"receipt_reference,omitempty" json:"receipt_reference,omitempty"`
	Status               consts.FeeStatus   `bson:"status" json:"status"`
	AdminNotes           string             `bson:"admin_notes,omitempty" json:"admin_notes,omitempty"`
	ReviewedBy           primitive.ObjectID `bson:"reviewed_by,omitempty" json:"reviewed_by,omitempty"`
	ReviewedAt           *time.Time         `bson:"reviewed_at,omitempty" json:"reviewed_at,omitempty"`
	CreatedAt            time.Time          `bson:"created_at" json:"created_at"`
}

type RequiredFields struct {
	AmountSent           bool `bson:"amount_sent" json:"amount_sent"`
	DateSent             bool `bson:"date_sent" json:"date_sent"`
	TransactionReference bool `bson:"transaction_reference" json:"transaction_reference"`
}

// FeeTemplate is unique per (country, payment_method).
type FeeTemplate struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Country        string             `bson:"country" json:"country"`
	PaymentMethod  string             `bson:"payment_method" json:"payment_method"`
	TemplateName   string             `bson:"template_name" json:"template_name"`
	Instructions   string             `bson:"instructions" json:"instructions"`
	EmailTemplate  string             `bson:"email_template" json:"email_template"`
	RequiredFields RequiredFields     `bson:"required_fields" json:"required_fields"`
	Active         bool               `bson:"active" json:"active"`
	CreatedBy      primitive.ObjectID `bson:"created_by,omitempty" json:"created_by,omitempty"`
	CreatedAt      time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time          `bson:"updated_at" json:"updated_at"`
}

// AuditRecord entries are append-only.
type AuditRecord struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	EntityType   string             `bson:"entity_type" json:"entity_type"`
	EntityID     primitive.ObjectID `bson:"entity_id" json:"entity_id"`
	Action       string             `bson:"action" json:"action"`
	Actor        string             `bson:"actor" json:"actor"`
	BeforeStatus string             `bson:"before_status,omitempty" json:"before_status,omitempty"`
	AfterStatus  string             `bson:"after_status,omitempty" json:"after_status,omitempty"`
	Reason       string             `bson:"reason,omitempty" json:"reason,omitempty"`
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
}

// NotificationEvent is an outbox entry. It is written in the same transaction
// as the state change that produced it and published by the dispatcher.
type NotificationEvent struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	ApplicationID primitive.ObjectID `bson:"application_id" json:"application_id"`
	UserID        primitive.ObjectID `bson:"user_id,omitempty" json:"user_id,omitempty"`
	EventKind     consts.EventKind   `bson:"event_kind" json:"event_kind"`
	Context       map[string]string  `bson:"context,omitempty" json:"context,omitempty"`
	Status        string             `bson:"status" json:"status"`
	CreatedAt     time.Time          `bson:"created_at" json:"created_at"`
	SentAt        *time.Time         `bson:"sent_at,omitempty" json:"sent_at,omitempty"`
}

type SystemSetting struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Key       string             `bson:"key" json:"key"`
	Value     string             `bson:"value" json:"value"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}
