package log_messages

const (
	ServerStartFailure         = "failed to start server"
	ServerExiting              = "Server exiting"
	FailedLoadingConfiguration = "Failed to load configuration"
	CleanupStarted             = "Starting cleanup of resources..."
	CleanupCompleted           = "All resources cleaned up successfully"
	PubsubPublisherCreated     = "PubSub publisher created"
	KafkaProducerCreated       = "Kafka producer created"

	// Lifecycle
	TransitionApplied       = "Application status transition applied"
	TransitionRejected      = "Application status transition rejected"
	TransitionRaceDetected  = "Transition precondition failed, status changed concurrently"
	AuditStreamPublishError = "Failed to publish audit event to Kafka"

	// Document gate
	DocumentReviewRecorded   = "Document review recorded"
	DocumentCascadeTriggered = "All required documents verified, advancing application"
	DocumentLockUnavailable  = "Document review lock held by another session"

	// Fee gate
	FeeSubmissionValidated = "Fee submission validated against template"
	FeeStatusUpdated       = "Fee submission status updated"
	FeeBulkUpdateApplied   = "Bulk fee submission status update applied"
	FeeTemplateDeleteError = "Fee template deletion blocked or failed"

	// Automation sweep
	SweepStarted            = "Automation sweep started"
	SweepFinished           = "Automation sweep finished"
	SweepDisabled           = "Automation disabled, sweep skipped"
	SweepListFailure        = "Failed to list applications for sweep stage"
	SweepApplicationFailure = "Sweep failed for application, continuing"
	SweepCancelled          = "Automation sweep cancelled"

	// Notification dispatcher
	NotificationEnqueued       = "Notification event enqueued"
	NotificationPublished      = "Notification event published"
	NotificationPublishFailure = "Failed to publish notification event"
)
