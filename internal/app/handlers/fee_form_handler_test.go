package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"loanflow/internal/pkg/consts"
	"loanflow/internal/service/fees"
)

type MockFeeGate struct {
	mock.Mock
}

func (m *MockFeeGate) ValidateSubmission(ctx context.Context, country, paymentMethod string, input fees.SubmissionInput) (*fees.ValidationResult, error) {
	args := m.Called(ctx, country, paymentMethod, input)
	if args.Get(0) != nil {
		return args.Get(0).(*fees.ValidationResult), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockFeeGate) CreateSubmission(ctx context.Context, input fees.SubmissionInput) (primitive.ObjectID, error) {
	args := m.Called(ctx, input)
	return args.Get(0).(primitive.ObjectID), args.Error(1)
}

func (m *MockFeeGate) UpdateStatus(ctx context.Context, submissionID primitive.ObjectID, newStatus consts.FeeStatus, reviewerID primitive.ObjectID, notes string) error {
	args := m.Called(ctx, submissionID, newStatus, reviewerID, notes)
	return args.Error(0)
}

func (m *MockFeeGate) BulkUpdateStatus(ctx context.Context, submissionIDs []primitive.ObjectID, newStatus consts.FeeStatus, reviewerID primitive.ObjectID, notes string) (int64, error) {
	args := m.Called(ctx, submissionIDs, newStatus, reviewerID, notes)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockFeeGate) DeleteTemplate(ctx context.Context, templateID primitive.ObjectID) error {
	args := m.Called(ctx, templateID)
	return args.Error(0)
}

func TestValidateSubmissionHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("Reports missing fields", func(t *testing.T) {
		service := new(MockFeeGate)
		service.On("ValidateSubmission", mock.Anything, "PH", "gcash", mock.Anything).
			Return(&fees.ValidationResult{
				Valid:         false,
				TemplateName:  "PH GCash",
				MissingFields: []string{"amount_sent", "transaction_reference"},
			}, nil)
		handler := NewFeeFormHandler(service)

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = jsonRequest("POST", "/BackOffice/LoanFlow/FeeForms/Validate",
			`{"country":"PH","payment_method":"gcash"}`)

		handler.ValidateSubmission(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"valid":false`)
		assert.Contains(t, w.Body.String(), `"missing_fields":["amount_sent","transaction_reference"]`)
	})

	t.Run("No active template", func(t *testing.T) {
		service := new(MockFeeGate)
		service.On("ValidateSubmission", mock.Anything, "PH", "cash", mock.Anything).
			Return(nil, consts.ErrorNoActiveTemplate)
		handler := NewFeeFormHandler(service)

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = jsonRequest("POST", "/BackOffice/LoanFlow/FeeForms/Validate",
			`{"country":"PH","payment_method":"cash"}`)

		handler.ValidateSubmission(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "LOANFLOW_FEE_CONFIRMATION_NO_ACTIVE_TEMPLATE")
	})
}

func TestCreateSubmissionHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("Created", func(t *testing.T) {
		service := new(MockFeeGate)
		id := primitive.NewObjectID()
		service.On("CreateSubmission", mock.Anything, mock.Anything).Return(id, nil)
		handler := NewFeeFormHandler(service)

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = jsonRequest("POST", "/BackOffice/LoanFlow/FeeForms",
			`{"country":"PH","payment_method":"gcash","amount_sent":500.0,"transaction_reference":"TX-1"}`)

		handler.CreateSubmission(c)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), id.Hex())
	})

	t.Run("Missing required field", func(t *testing.T) {
		service := new(MockFeeGate)
		service.On("CreateSubmission", mock.Anything, mock.Anything).
			Return(primitive.NilObjectID, consts.ErrorMissingRequiredField("amount_sent"))
		handler := NewFeeFormHandler(service)

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = jsonRequest("POST", "/BackOffice/LoanFlow/FeeForms",
			`{"country":"PH","payment_method":"gcash"}`)

		handler.CreateSubmission(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "LOANFLOW_FEE_CONFIRMATION_MISSING_REQUIRED_FIELD")
	})
}

func TestBulkUpdateStatusHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)

	reviewerID := primitive.NewObjectID()

	t.Run("Counts updates", func(t *testing.T) {
		service := new(MockFeeGate)
		first, second := primitive.NewObjectID(), primitive.NewObjectID()
		service.On("BulkUpdateStatus", mock.Anything, []primitive.ObjectID{first, second},
			consts.FeeStatusConfirmed, reviewerID, "batch confirm").Return(int64(2), nil)
		handler := NewFeeFormHandler(service)

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = jsonRequest("POST", "/BackOffice/LoanFlow/FeeForms/BulkStatus",
			`{"submission_ids":["`+first.Hex()+`","`+second.Hex()+`"],"status":"confirmed","reviewer_id":"`+reviewerID.Hex()+`","notes":"batch confirm"}`)

		handler.BulkUpdateStatus(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"requested":2`)
		assert.Contains(t, w.Body.String(), `"updated":2`)
		service.AssertExpectations(t)
	})

	t.Run("Malformed id in batch", func(t *testing.T) {
		handler := NewFeeFormHandler(new(MockFeeGate))

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = jsonRequest("POST", "/BackOffice/LoanFlow/FeeForms/BulkStatus",
			`{"submission_ids":["nope"],"status":"confirmed","reviewer_id":"`+reviewerID.Hex()+`"}`)

		handler.BulkUpdateStatus(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "LOANFLOW_INVALID_ID")
	})

	t.Run("Unknown submission conflicts with nothing applied", func(t *testing.T) {
		service := new(MockFeeGate)
		id := primitive.NewObjectID()
		service.On("BulkUpdateStatus", mock.Anything, []primitive.ObjectID{id},
			consts.FeeStatusRejected, reviewerID, "").Return(int64(0), consts.ErrorSubmissionNotFound)
		handler := NewFeeFormHandler(service)

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = jsonRequest("POST", "/BackOffice/LoanFlow/FeeForms/BulkStatus",
			`{"submission_ids":["`+id.Hex()+`"],"status":"rejected","reviewer_id":"`+reviewerID.Hex()+`"}`)

		handler.BulkUpdateStatus(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "LOANFLOW_FEE_CONFIRMATION_SUBMISSION_NOT_FOUND")
	})
}

func TestDeleteTemplateHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("Deleted", func(t *testing.T) {
		service := new(MockFeeGate)
		id := primitive.NewObjectID()
		service.On("DeleteTemplate", mock.Anything, id).Return(nil)
		handler := NewFeeFormHandler(service)

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest("DELETE", "/BackOffice/LoanFlow/FeeTemplates/"+id.Hex(), nil)
		c.Params = gin.Params{{Key: "id", Value: id.Hex()}}

		handler.DeleteTemplate(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"deleted":true`)
	})

	t.Run("Template still referenced", func(t *testing.T) {
		service := new(MockFeeGate)
		id := primitive.NewObjectID()
		service.On("DeleteTemplate", mock.Anything, id).Return(consts.ErrorTemplateInUse(4))
		handler := NewFeeFormHandler(service)

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest("DELETE", "/BackOffice/LoanFlow/FeeTemplates/"+id.Hex(), nil)
		c.Params = gin.Params{{Key: "id", Value: id.Hex()}}

		handler.DeleteTemplate(c)

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), "LOANFLOW_FEE_CONFIRMATION_TEMPLATE_IN_USE")
	})
}
