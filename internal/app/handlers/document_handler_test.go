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
	"loanflow/internal/service/documents"
)

type MockDocumentReviewer struct {
	mock.Mock
}

func (m *MockDocumentReviewer) ReviewDocument(
	ctx context.Context,
	documentID primitive.ObjectID,
	decision consts.ReviewDecision,
	reviewerID primitive.ObjectID,
	notes string,
) (*documents.DocumentReviewResult, error) {
	args := m.Called(ctx, documentID, decision, reviewerID, notes)
	if args.Get(0) != nil {
		return args.Get(0).(*documents.DocumentReviewResult), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestReviewDocumentHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)

	documentID := primitive.NewObjectID()
	reviewerID := primitive.NewObjectID()

	t.Run("Approve cascades", func(t *testing.T) {
		service := new(MockDocumentReviewer)
		service.On("ReviewDocument", mock.Anything, documentID, consts.DecisionApprove, reviewerID, "all good").
			Return(&documents.DocumentReviewResult{
				DocumentID:            documentID,
				Status:                consts.DocStatusVerified,
				VerifiedRequiredCount: 3,
				Cascaded:              true,
				ApplicationStatus:     consts.StatusApproved,
			}, nil)
		handler := NewDocumentHandler(service)

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = jsonRequest("POST", "/BackOffice/LoanFlow/Documents/"+documentID.Hex()+"/Review",
			`{"decision":"approve","reviewer_id":"`+reviewerID.Hex()+`","notes":"all good"}`)
		c.Params = gin.Params{{Key: "id", Value: documentID.Hex()}}

		handler.ReviewDocument(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"cascaded":true`)
		assert.Contains(t, w.Body.String(), `"verified_required_count":3`)
		service.AssertExpectations(t)
	})

	t.Run("Invalid reviewer id", func(t *testing.T) {
		handler := NewDocumentHandler(new(MockDocumentReviewer))

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = jsonRequest("POST", "/BackOffice/LoanFlow/Documents/"+documentID.Hex()+"/Review",
			`{"decision":"approve","reviewer_id":"nope"}`)
		c.Params = gin.Params{{Key: "id", Value: documentID.Hex()}}

		handler.ReviewDocument(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "LOANFLOW_INVALID_ID")
	})

	t.Run("Review already in progress", func(t *testing.T) {
		service := new(MockDocumentReviewer)
		service.On("ReviewDocument", mock.Anything, documentID, consts.DecisionReject, reviewerID, "").
			Return(nil, consts.ErrorReviewInProgress)
		handler := NewDocumentHandler(service)

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = jsonRequest("POST", "/BackOffice/LoanFlow/Documents/"+documentID.Hex()+"/Review",
			`{"decision":"reject","reviewer_id":"`+reviewerID.Hex()+`"}`)
		c.Params = gin.Params{{Key: "id", Value: documentID.Hex()}}

		handler.ReviewDocument(c)

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), "LOANFLOW_DOCUMENT_REVIEW_IN_PROGRESS")
	})

	t.Run("Document not found", func(t *testing.T) {
		service := new(MockDocumentReviewer)
		service.On("ReviewDocument", mock.Anything, documentID, consts.DecisionApprove, reviewerID, "").
			Return(nil, consts.ErrorDocumentNotFound)
		handler := NewDocumentHandler(service)

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = jsonRequest("POST", "/BackOffice/LoanFlow/Documents/"+documentID.Hex()+"/Review",
			`{"decision":"approve","reviewer_id":"`+reviewerID.Hex()+`"}`)
		c.Params = gin.Params{{Key: "id", Value: documentID.Hex()}}

		handler.ReviewDocument(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "LOANFLOW_DOCUMENT_REVIEW_DOCUMENT_NOT_FOUND")
	})
}
