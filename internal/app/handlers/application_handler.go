package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"loanflow/internal/pkg/consts"
	"loanflow/internal/service/interfaces"
)

type ApplicationHandler struct {
	applications interfaces.ApplicationsRepositoryInterface
	transitioner interfaces.TransitionerInterface
}

func NewApplicationHandler(
	applications interfaces.ApplicationsRepositoryInterface,
	transitioner interfaces.TransitionerInterface,
) *ApplicationHandler {
	return &ApplicationHandler{
		applications: applications,
		transitioner: transitioner,
	}
}

type transitionRequest struct {
	To     consts.ApplicationStatus `json:"to" binding:"required"`
	Actor  string                   `json:"actor" binding:"required"`
	Reason string                   `json:"reason"`
}

func (h *ApplicationHandler) GetApplication(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Code: "LOANFLOW_INVALID_ID", Message: "invalid application id"})
		return
	}

	app, err := h.applications.GetApplicationByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, app)
}

func (h *ApplicationHandler) Transition(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Code: "LOANFLOW_INVALID_ID", Message: "invalid application id"})
		return
	}

	var req transitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Code: "LOANFLOW_INVALID_REQUEST", Message: err.Error()})
		return
	}

	app, err := h.transitioner.Transition(c.Request.Context(), id, req.To, req.Actor, req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, app)
}
