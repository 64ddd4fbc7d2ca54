package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"loanflow/internal/pkg/consts"
	"loanflow/internal/service/fees"
)

// FeeGateInterface is the fee confirmation surface the handler needs.
type FeeGateInterface interface {
	ValidateSubmission(ctx context.Context, country, paymentMethod string, input fees.SubmissionInput) (*fees.ValidationResult, error)
	CreateSubmission(ctx context.Context, input fees.SubmissionInput) (primitive.ObjectID, error)
	UpdateStatus(ctx context.Context, submissionID primitive.ObjectID, newStatus consts.FeeStatus, reviewerID primitive.ObjectID, notes string) error
	BulkUpdateStatus(ctx context.Context, submissionIDs []primitive.ObjectID, newStatus consts.FeeStatus, reviewerID primitive.ObjectID, notes string) (int64, error)
	DeleteTemplate(ctx context.Context, templateID primitive.ObjectID) error
}

type FeeFormHandler struct {
	service FeeGateInterface
}

func NewFeeFormHandler(service FeeGateInterface) *FeeFormHandler {
	return &FeeFormHandler{service: service}
}

type feeStatusRequest struct {
	Status     consts.FeeStatus `json:"status" binding:"required"`
	ReviewerID string           `json:"reviewer_id" binding:"required"`
	Notes      string           `json:"notes"`
}

type feeBulkStatusRequest struct {
	SubmissionIDs []string         `json:"submission_ids" binding:"required"`
	Status        consts.FeeStatus `json:"status" binding:"required"`
	ReviewerID    string           `json:"reviewer_id" binding:"required"`
	Notes         string           `json:"notes"`
}

func (h *FeeFormHandler) ValidateSubmission(c *gin.Context) {
	var input fees.SubmissionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Code: "LOANFLOW_INVALID_REQUEST", Message: err.Error()})
		return
	}

	result, err := h.service.ValidateSubmission(c.Request.Context(), input.Country, input.PaymentMethod, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *FeeFormHandler) CreateSubmission(c *gin.Context) {
	var input fees.SubmissionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Code: "LOANFLOW_INVALID_REQUEST", Message: err.Error()})
		return
	}

	id, err := h.service.CreateSubmission(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"submission_id": id.Hex()})
}

func (h *FeeFormHandler) UpdateStatus(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Code: "LOANFLOW_INVALID_ID", Message: "invalid submission id"})
		return
	}

	var req feeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Code: "LOANFLOW_INVALID_REQUEST", Message: err.Error()})
		return
	}
	reviewerID, err := primitive.ObjectIDFromHex(req.ReviewerID)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Code: "LOANFLOW_INVALID_ID", Message: "invalid reviewer id"})
		return
	}

	if err := h.service.UpdateStatus(c.Request.Context(), id, req.Status, reviewerID, req.Notes); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"submission_id": id.Hex(), "status": req.Status})
}

func (h *FeeFormHandler) BulkUpdateStatus(c *gin.Context) {
	var req feeBulkStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Code: "LOANFLOW_INVALID_REQUEST", Message: err.Error()})
		return
	}
	reviewerID, err := primitive.ObjectIDFromHex(req.ReviewerID)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Code: "LOANFLOW_INVALID_ID", Message: "invalid reviewer id"})
		return
	}

	ids := make([]primitive.ObjectID, 0, len(req.SubmissionIDs))
	for _, raw := range req.SubmissionIDs {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, errorResponse{Code: "LOANFLOW_INVALID_ID", Message: "invalid submission id: " + raw})
			return
		}
		ids = append(ids, id)
	}

	updated, err := h.service.BulkUpdateStatus(c.Request.Context(), ids, req.Status, reviewerID, req.Notes)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"requested": len(ids), "updated": updated})
}

func (h *FeeFormHandler) DeleteTemplate(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Code: "LOANFLOW_INVALID_ID", Message: "invalid template id"})
		return
	}

	if err := h.service.DeleteTemplate(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"template_id": id.Hex(), "deleted": true})
}
