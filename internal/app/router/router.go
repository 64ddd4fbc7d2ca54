package router

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"loanflow/internal/app/handlers"
	"loanflow/internal/app/middleware"
	"loanflow/internal/service/interfaces"
)

// Services groups the wired service layer the routes are built on.
type Services struct {
	Applications interfaces.ApplicationsRepositoryInterface
	Transitioner interfaces.TransitionerInterface
	Documents    handlers.DocumentReviewerInterface
	Fees         handlers.FeeGateInterface
	Automation   handlers.SweepRunnerInterface
}

func SetupRouter(serviceName string, services Services) *gin.Engine {
	server := gin.Default()
	server.Use(otelgin.Middleware(serviceName))
	server.Use(middleware.AttachTraceID())

	healthCheckHandler := handlers.NewHealthCheckHandler()
	server.GET("/BackOffice/LoanFlow/HealthCheck", healthCheckHandler.HealthCheck)

	applicationHandler := handlers.NewApplicationHandler(services.Applications, services.Transitioner)
	server.GET("/BackOffice/LoanFlow/Applications/:id", applicationHandler.GetApplication)
	server.POST("/BackOffice/LoanFlow/Applications/:id/Transition", applicationHandler.Transition)

	documentHandler := handlers.NewDocumentHandler(services.Documents)
	server.POST("/BackOffice/LoanFlow/Documents/:id/Review", documentHandler.ReviewDocument)

	feeFormHandler := handlers.NewFeeFormHandler(services.Fees)
	server.POST("/BackOffice/LoanFlow/FeeForms/Validate", feeFormHandler.ValidateSubmission)
	server.POST("/BackOffice/LoanFlow/FeeForms", feeFormHandler.CreateSubmission)
	server.PUT("/BackOffice/LoanFlow/FeeForms/:id/Status", feeFormHandler.UpdateStatus)
	server.POST("/BackOffice/LoanFlow/FeeForms/BulkStatus", feeFormHandler.BulkUpdateStatus)
	server.DELETE("/BackOffice/LoanFlow/FeeTemplates/:id", feeFormHandler.DeleteTemplate)

	automationHandler := handlers.NewAutomationHandler(services.Automation)
	server.POST("/BackOffice/LoanFlow/Automation/Sweep", automationHandler.RunSweep)

	return server
}
