package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"loanflow/internal/service/automation"
)

// SweepRunnerInterface lets the handler trigger an on-demand sweep.
type SweepRunnerInterface interface {
	RunSweep(ctx context.Context) (*automation.SweepResult, error)
}

type AutomationHandler struct {
	service SweepRunnerInterface
}

func NewAutomationHandler(service SweepRunnerInterface) *AutomationHandler {
	return &AutomationHandler{service: service}
}

// RunSweep triggers one sweep pass outside the regular schedule. Per-application
// failures ride inside the result; only a sweep-level failure is an error here.
func (h *AutomationHandler) RunSweep(c *gin.Context) {
	result, err := h.service.RunSweep(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error(), "result": result})
		return
	}
	c.JSON(http.StatusOK, result)
}
