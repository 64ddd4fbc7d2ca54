package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestSetupRouterHealthCheckRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := SetupRouter("loanflow-test", Services{})
	assert.NotNil(t, router)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/BackOffice/LoanFlow/HealthCheck", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSetupRouterUnknownRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := SetupRouter("loanflow-test", Services{})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/BackOffice/LoanFlow/Nope", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSetupRouterEchoesTraceIDHeader(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := SetupRouter("loanflow-test", Services{})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/BackOffice/LoanFlow/HealthCheck", nil)
	req.Header.Set("X-Trace-Id", "trace-123")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "trace-123", w.Header().Get("X-Trace-Id"))
}
