package fees

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"loanflow/internal/pkg/consts"
	"loanflow/internal/pkg/store/models"
)

type MockFeeSubmissionsRepo struct {
	mock.Mock
}

func (m *MockFeeSubmissionsRepo) GetSubmissionByID(ctx context.Context, id primitive.ObjectID) (*models.FeeSubmission, error) {
	args := m.Called(ctx, id)
	if args.Get(0) != nil {
		return args.Get(0).(*models.FeeSubmission), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockFeeSubmissionsRepo) CreateSubmission(ctx context.Context, submission models.FeeSubmission) (primitive.ObjectID, error) {
	args := m.Called(ctx, submission)
	return args.Get(0).(primitive.ObjectID), args.Error(1)
}

func (m *MockFeeSubmissionsRepo) UpdateStatus(ctx context.Context, id primitive.ObjectID, status consts.FeeStatus, reviewerID primitive.ObjectID, notes string, reviewedAt time.Time) error {
	args := m.Called(ctx, id, status, reviewerID, notes, reviewedAt)
	return args.Error(0)
}

func (m *MockFeeSubmissionsRepo) BulkUpdateStatus(ctx context.Context, ids []primitive.ObjectID, status consts.FeeStatus, reviewerID primitive.ObjectID, notes string, reviewedAt time.Time) (int64, error) {
	args := m.Called(ctx, ids, status, reviewerID, notes, reviewedAt)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockFeeSubmissionsRepo) CountByCountryAndMethod(ctx context.Context, country, paymentMethod string) (int64, error) {
	args := m.Called(ctx, country, paymentMethod)
	return args.Get(0).(int64), args.Error(1)
}

type MockFeeTemplatesRepo struct {
	mock.Mock
}

func (m *MockFeeTemplatesRepo) GetTemplateByID(ctx context.Context, id primitive.ObjectID) (*models.FeeTemplate, error) {
	args := m.Called(ctx, id)
	if args.Get(0) != nil {
		return args.Get(0).(*models.FeeTemplate), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockFeeTemplatesRepo) GetActiveTemplate(ctx context.Context, country, paymentMethod string) (*models.FeeTemplate, error) {
	args := m.Called(ctx, country, paymentMethod)
	if args.Get(0) != nil {
		return args.Get(0).(*models.FeeTemplate), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockFeeTemplatesRepo) DeleteTemplate(ctx context.Context, id primitive.ObjectID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockAuditRepo struct {
	mock.Mock
}

func (m *MockAuditRepo) WriteAuditRecord(ctx context.Context, record models.AuditRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func newFeesService() (*FeesService, *MockFeeSubmissionsRepo, *MockFeeTemplatesRepo, *MockAuditRepo) {
	submissions := new(MockFeeSubmissionsRepo)
	templates := new(MockFeeTemplatesRepo)
	audit := new(MockAuditRepo)
	svc := NewFeesService(submissions, templates, audit)
	svc.now = func() time.Time { return time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC) }
	return svc, submissions, templates, audit
}

func strictTemplate() *models.FeeTemplate {
	return &models.FeeTemplate{
		ID:            primitive.NewObjectID(),
		Country:       "CA",
		PaymentMethod: "interac",
		TemplateName:  "Interac e-transfer",
		RequiredFields: models.RequiredFields{
			AmountSent:           true,
			DateSent:             true,
			TransactionReference: true,
		},
		Active: true,
	}
}

func TestValidateSubmissionAllFieldsPresent(t *testing.T) {
	svc, _, templates, _ := newFeesService()
	templates.On("GetActiveTemplate", mock.Anything, "CA", "interac").Return(strictTemplate(), nil)

	sent := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	result, err := svc.ValidateSubmission(context.Background(), "CA", "interac", SubmissionInput{
		AmountSent:           250,
		DateSent:             &sent,
		TransactionReference: "TX-991",
	})

	assert.NoError(t, err)
	assert.True(t, result.Valid)
	assert.Empty(t, result.MissingFields)
}

func TestValidateSubmissionCollectsAllMissingFields(t *testing.T) {
	svc, _, templates, _ := newFeesService()
	templates.On("GetActiveTemplate", mock.Anything, "CA", "interac").Return(strictTemplate(), nil)

	result, err := svc.ValidateSubmission(context.Background(), "CA", "interac", SubmissionInput{})

	assert.NoError(t, err)
	assert.False(t, result.Valid)
	assert.Equal(t, []string{"amount_sent", "date_sent", "transaction_reference"}, result.MissingFields)
}

func TestValidateSubmissionOptionalFieldsSkipped(t *testing.T) {
	svc, _, templates, _ := newFeesService()
	template := strictTemplate()
	template.RequiredFields.TransactionReference = false
	templates.On("GetActiveTemplate", mock.Anything, "CA", "interac").Return(template, nil)

	sent := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	result, err := svc.ValidateSubmission(context.Background(), "CA", "interac", SubmissionInput{
		AmountSent: 100,
		DateSent:   &sent,
	})

	assert.NoError(t, err)
	assert.True(t, result.Valid)
}

func TestValidateSubmissionNoActiveTemplate(t *testing.T) {
	svc, _, templates, _ := newFeesService()
	templates.On("GetActiveTemplate", mock.Anything, "FR", "wire").Return(nil, consts.ErrorNoActiveTemplate)

	_, err := svc.ValidateSubmission(context.Background(), "FR", "wire", SubmissionInput{})

	assert.ErrorIs(t, err, consts.ErrorNoActiveTemplate)
}

func TestCreateSubmissionRejectsMissingRequiredField(t *testing.T) {
	svc, submissions, templates, _ := newFeesService()
	templates.On("GetActiveTemplate", mock.Anything, "CA", "interac").Return(strictTemplate(), nil)

	_, err := svc.CreateSubmission(context.Background(), SubmissionInput{
		Country:       "CA",
		PaymentMethod: "interac",
	})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "amount_sent")
	submissions.AssertNotCalled(t, "CreateSubmission", mock.Anything, mock.Anything)
}

func TestCreateSubmissionStoresPendingForm(t *testing.T) {
	svc, submissions, templates, _ := newFeesService()
	templates.On("GetActiveTemplate", mock.Anything, "CA", "interac").Return(strictTemplate(), nil)

	newID := primitive.NewObjectID()
	sent := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	submissions.On("CreateSubmission", mock.Anything, mock.MatchedBy(func(submission models.FeeSubmission) bool {
		return submission.Status == consts.FeeStatusPending && submission.AmountSent == 250
	})).Return(newID, nil)

	id, err := svc.CreateSubmission(context.Background(), SubmissionInput{
		ApplicationID:        primitive.NewObjectID(),
		UserID:               primitive.NewObjectID(),
		Country:              "CA",
		PaymentMethod:        "interac",
		AmountSent:           250,
		DateSent:             &sent,
		TransactionReference: "TX-991",
	})

	assert.NoError(t, err)
	assert.Equal(t, newID, id)
}

func TestUpdateStatusRecordsReviewerAndAudit(t *testing.T) {
	svc, submissions, _, audit := newFeesService()
	id := primitive.NewObjectID()
	reviewer := primitive.NewObjectID()

	submissions.On("GetSubmissionByID", mock.Anything, id).Return(&models.FeeSubmission{
		ID:     id,
		Status: consts.FeeStatusPending,
	}, nil)
	submissions.On("UpdateStatus", mock.Anything, id, consts.FeeStatusConfirmed, reviewer, "receipt matches", mock.Anything).Return(nil)
	audit.On("WriteAuditRecord", mock.Anything, mock.MatchedBy(func(record models.AuditRecord) bool {
		return record.Action == consts.AuditActionFeeStatusUpdate &&
			record.BeforeStatus == "pending" &&
			record.AfterStatus == "confirmed"
	})).Return(nil)

	err := svc.UpdateStatus(context.Background(), id, consts.FeeStatusConfirmed, reviewer, "receipt matches")

	assert.NoError(t, err)
	audit.AssertExpectations(t)
}

func TestUpdateStatusRejectsUnknownStatus(t *testing.T) {
	svc, submissions, _, _ := newFeesService()

	err := svc.UpdateStatus(context.Background(), primitive.NewObjectID(), consts.FeeStatus("archived"), primitive.NewObjectID(), "")

	assert.ErrorIs(t, err, consts.ErrorInvalidFeeStatus)
	submissions.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestBulkUpdateStatusReportsUpdatedCount(t *testing.T) {
	svc, submissions, _, audit := newFeesService()
	reviewer := primitive.NewObjectID()
	ids := []primitive.ObjectID{primitive.NewObjectID(), primitive.NewObjectID(), primitive.NewObjectID()}

	submissions.On("BulkUpdateStatus", mock.Anything, ids, consts.FeeStatusUnderReview, reviewer, "weekly batch", mock.Anything).
		Return(int64(3), nil)
	audit.On("WriteAuditRecord", mock.Anything, mock.MatchedBy(func(record models.AuditRecord) bool {
		return record.Action == consts.AuditActionFeeBulkUpdate
	})).Return(nil)

	updated, err := svc.BulkUpdateStatus(context.Background(), ids, consts.FeeStatusUnderReview, reviewer, "weekly batch")

	assert.NoError(t, err)
	assert.Equal(t, int64(3), updated)
}

func TestBulkUpdateStatusAllOrNothing(t *testing.T) {
	svc, submissions, _, _ := newFeesService()
	reviewer := primitive.NewObjectID()
	ids := []primitive.ObjectID{primitive.NewObjectID(), primitive.NewObjectID()}

	submissions.On("BulkUpdateStatus", mock.Anything, ids, consts.FeeStatusConfirmed, reviewer, "", mock.Anything).
		Return(int64(0), consts.ErrorSubmissionNotFound)

	updated, err := svc.BulkUpdateStatus(context.Background(), ids, consts.FeeStatusConfirmed, reviewer, "")

	assert.ErrorIs(t, err, consts.ErrorSubmissionNotFound)
	assert.Zero(t, updated)
}

func TestBulkUpdateStatusEmptySet(t *testing.T) {
	svc, submissions, _, _ := newFeesService()

	updated, err := svc.BulkUpdateStatus(context.Background(), nil, consts.FeeStatusConfirmed, primitive.NewObjectID(), "")

	assert.NoError(t, err)
	assert.Zero(t, updated)
	submissions.AssertNotCalled(t, "BulkUpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestDeleteTemplateBlockedWhileReferenced(t *testing.T) {
	svc, submissions, templates, _ := newFeesService()
	template := strictTemplate()

	templates.On("GetTemplateByID", mock.Anything, template.ID).Return(template, nil)
	submissions.On("CountByCountryAndMethod", mock.Anything, "CA", "interac").Return(int64(7), nil)

	err := svc.DeleteTemplate(context.Background(), template.ID)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "7")
	templates.AssertNotCalled(t, "DeleteTemplate", mock.Anything, mock.Anything)
}

func TestDeleteTemplateUnreferenced(t *testing.T) {
	svc, submissions, templates, _ := newFeesService()
	template := strictTemplate()

	templates.On("GetTemplateByID", mock.Anything, template.ID).Return(template, nil)
	submissions.On("CountByCountryAndMethod", mock.Anything, "CA", "interac").Return(int64(0), nil)
	templates.On("DeleteTemplate", mock.Anything, template.ID).Return(nil)

	err := svc.DeleteTemplate(context.Background(), template.ID)

	assert.NoError(t, err)
	templates.AssertExpectations(t)
}
