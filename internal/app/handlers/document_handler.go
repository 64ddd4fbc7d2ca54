package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"loanflow/internal/pkg/consts"
	"loanflow/internal/service/documents"
)

// DocumentReviewerInterface is the gate surface the handler needs.
type DocumentReviewerInterface interface {
	ReviewDocument(
		ctx context.Context,
		documentID primitive.ObjectID,
		decision consts.ReviewDecision,
		reviewerID primitive.ObjectID,
		notes string,
	) (*documents.DocumentReviewResult, error)
}

type DocumentHandler struct {
	service DocumentReviewerInterface
}

func NewDocumentHandler(service DocumentReviewerInterface) *DocumentHandler {
	return &DocumentHandler{service: service}
}

type documentReviewRequest struct {
	Decision   consts.ReviewDecision `json:"decision" binding:"required"`
	ReviewerID string                `json:"reviewer_id" binding:"required"`
	Notes      string                `json:"notes"`
}

func (h *DocumentHandler) ReviewDocument(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Code: "LOANFLOW_INVALID_ID", Message: "invalid document id"})
		return
	}

	var req documentReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Code: "LOANFLOW_INVALID_REQUEST", Message: err.Error()})
		return
	}
	reviewerID, err := primitive.ObjectIDFromHex(req.ReviewerID)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Code: "LOANFLOW_INVALID_ID", Message: "invalid reviewer id"})
		return
	}

	result, err := h.service.ReviewDocument(c.Request.Context(), id, req.Decision, reviewerID, req.Notes)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
