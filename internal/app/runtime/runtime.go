package runtime

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"loanflow/internal/app/router"
	"loanflow/internal/pkg/cleanup"
	"loanflow/internal/pkg/config"
	"loanflow/internal/pkg/db/mongo"
	"loanflow/internal/pkg/db/redis"
	"loanflow/internal/pkg/kafka"
	"loanflow/internal/pkg/log_messages"
	"loanflow/internal/pkg/logger"
	"loanflow/internal/pkg/notification"
	"loanflow/internal/pkg/otel"
	"loanflow/internal/pkg/pubsub"
	"loanflow/internal/pkg/store/impl/applications"
	"loanflow/internal/pkg/store/impl/audit"
	"loanflow/internal/pkg/store/impl/documents"
	"loanflow/internal/pkg/store/impl/fee_submissions"
	"loanflow/internal/pkg/store/impl/fee_templates"
	"loanflow/internal/pkg/store/impl/locks"
	"loanflow/internal/pkg/store/impl/notification_queue"
	"loanflow/internal/pkg/store/impl/system_settings"
	"loanflow/internal/pkg/utils/worker"
	"loanflow/internal/service/automation"
	documentsService "loanflow/internal/service/documents"
	"loanflow/internal/service/fees"
	"loanflow/internal/service/lifecycle"
)

var (
	connectMongoDB = mongo.ConnectToMongoDB
	connectRedisDB = func(ctx context.Context, cfg config.RedisConfig) (*redis.RedisClient, error) {
		return redis.ConnectToRedis(ctx, cfg, nil)
	}
	newKafkaProducer = kafka.NewKafkaProducer
)

// App encapsulates application resources and lifecycle.
type App struct {
	Cfg             *config.AppConfig
	MongoClient     *mongo.MongoClient
	RedisClient     *redis.RedisClient
	KafkaProducer   *kafka.KafkaProducer
	PubSubPublisher *pubsub.PubSubPublisher
	WorkerPool      *worker.WorkerPool
	Automation      *automation.AutomationService
	Dispatcher      *notification.DispatcherService
	HTTPServer      *http.Server
	OtelShutdown    func(context.Context) error

	services router.Services
}

func New(ctx context.Context) (*App, error) {
	cfg, err := config.LoadFromConfig()
	if err != nil {
		logger.CtxError(ctx, log_messages.FailedLoadingConfiguration, err)
		return nil, err
	}
	logger.Init(cfg.Logging.LogLevel)

	otelShutdown, err := otel.Setup(ctx, cfg.Otel.ServiceName, cfg.Otel.CollectorURL)
	if err != nil {
		logger.CtxError(ctx, "Failed to set up tracing", err)
		return nil, err
	}

	mClient, err := connectMongoDB(ctx, cfg.Mongo)
	if err != nil {
		logger.CtxError(ctx, "Failed to connect to MongoDB", err)
		return nil, err
	}

	rClient, err := connectRedisDB(ctx, cfg.Redis)
	if err != nil {
		logger.CtxError(ctx, "Failed to connect to Redis", err)
		return nil, err
	}

	kafkaProducer, err := newKafkaProducer(cfg.Kafka)
	if err != nil {
		logger.CtxError(ctx, "Failure in Kafka producer creation", err)
		return nil, err
	}

	pubsubPublisher, err := pubsub.NewPubSubPublisher(ctx, cfg.PubSub.ProjectID)
	if err != nil {
		logger.CtxError(ctx, "Failure in PubSub publisher creation", err)
		return nil, err
	}

	app := &App{
		Cfg:             cfg,
		MongoClient:     mClient,
		RedisClient:     rClient,
		KafkaProducer:   kafkaProducer,
		PubSubPublisher: pubsubPublisher,
		WorkerPool:      worker.NewWorkerPool(cfg.Scheduler.WorkerPoolSize),
		OtelShutdown:    otelShutdown,
	}
	app.wireServices()
	return app, nil
}

// wireServices builds the repository and service graph on the shared clients.
func (a *App) wireServices() {
	applicationsRepo := applications.NewApplicationsRepository(a.MongoClient)
	documentsRepo := documents.NewDocumentsRepository(a.MongoClient)
	submissionsRepo := fee_submissions.NewFeeSubmissionsRepository(a.MongoClient)
	templatesRepo := fee_templates.NewFeeTemplatesRepository(a.MongoClient)
	auditRepo := audit.NewAuditRepository(a.MongoClient)
	queueRepo := notification_queue.NewNotificationQueueRepository(a.MongoClient)
	settingsRepo := system_settings.NewSystemSettingsRepository(a.MongoClient)
	locksRepo := locks.NewLocksRepository(a.RedisClient)

	lifecycleService := lifecycle.NewLifecycleService(applicationsRepo, settingsRepo, a.KafkaProducer)
	docsService := documentsService.NewDocumentsService(
		documentsRepo, applicationsRepo, lifecycleService, auditRepo, queueRepo, locksRepo)
	feesService := fees.NewFeesService(submissionsRepo, templatesRepo, auditRepo)
	a.Automation = automation.NewAutomationService(applicationsRepo, lifecycleService, settingsRepo, queueRepo)
	a.Dispatcher = notification.NewDispatcherService(
		queueRepo, a.PubSubPublisher, a.Cfg.PubSub.NotificationTopic, a.WorkerPool)

	a.services = router.Services{
		Applications: applicationsRepo,
		Transitioner: lifecycleService,
		Documents:    docsService,
		Fees:         feesService,
		Automation:   a.Automation,
	}
}

// Run starts the background loops and HTTP server, then blocks until shutdown.
func (a *App) Run(ctx context.Context) error {
	loopCtx, cancelLoops := context.WithCancel(ctx)
	defer cancelLoops()

	go a.Automation.Start(loopCtx, a.Cfg.Scheduler.SweepInterval)
	go a.Dispatcher.Start(loopCtx, a.Cfg.Scheduler.DispatchInterval)

	engine := router.SetupRouter(a.Cfg.Otel.ServiceName, a.services)
	a.HTTPServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", a.Cfg.Server.Port),
		Handler:           engine,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := a.HTTPServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.CtxError(ctx, log_messages.ServerStartFailure, err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	cancelLoops()
	a.Shutdown(ctx)
	logger.CtxInfo(ctx, log_messages.ServerExiting)
	return nil
}

// Shutdown gracefully closes all resources with bounded timeouts.
func (a *App) Shutdown(ctx context.Context) {
	if a.WorkerPool != nil {
		a.WorkerPool.Stop()
	}
	cleanup.CleanupResources(ctx,
		a.PubSubPublisher,
		a.KafkaProducer,
		a.MongoClient,
		a.RedisClient,
		a.HTTPServer,
	)
	if a.OtelShutdown != nil {
		if err := a.OtelShutdown(ctx); err != nil {
			logger.CtxError(ctx, "Failed to shut down tracing", err)
		}
	}
}
