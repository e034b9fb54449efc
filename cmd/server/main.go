package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"assignment_service/internal/auth"
	"assignment_service/internal/cache"
	"assignment_service/internal/config"
	"assignment_service/internal/db"
	"assignment_service/internal/handler"
	"assignment_service/internal/health"
	"assignment_service/internal/logging"
	"assignment_service/internal/metrics"
	"assignment_service/internal/middleware"
	"assignment_service/internal/notify"
	"assignment_service/internal/repository"
	"assignment_service/internal/service"
	"assignment_service/internal/utils"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.New()
	if err != nil {
		panic(fmt.Sprintf("cannot create config: %v", err))
	}

	logger, err := logging.NewFromMode(cfg.LogMode)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	pool, err := utils.RetryWithBackoff(ctx, 5, time.Second, nil, func() (*pgxpool.Pool, error) {
		return db.New(ctx, cfg)
	})
	if err != nil {
		logger.Fatal(ctx, "cannot connect to database", zap.Error(err))
	}
	defer pool.Close()

	recorder := metrics.NewPrometheus()

	notifier, closeNotifier, err := newNotifier(ctx, cfg)
	if err != nil {
		logger.Fatal(ctx, "cannot create notifier", zap.Error(err))
	}
	defer closeNotifier()

	assignmentCache, closeCache := newCache(ctx, cfg, logger)
	defer closeCache()

	userRepo := repository.NewUserRepository(pool)
	assignmentRepo := repository.NewAssignmentRepository(pool)
	submissionRepo := repository.NewSubmissionRepository(pool)

	authenticator := auth.NewAuthenticator(userRepo, logger, recorder, auth.WithBcryptCost(cfg.BcryptCost))
	monitor := health.NewMonitor(pool, cfg.HealthTimeout)

	assignmentService := service.NewAssignmentService(assignmentRepo, logger, recorder)
	submissionService := service.NewSubmissionService(
		assignmentRepo,
		submissionRepo,
		notifier,
		cfg.NotifyTimeout,
		logger,
		recorder,
	)

	r := handler.NewRouter(handler.RouterConfig{
		Logger:         logger,
		Metrics:        recorder,
		RequestTimeout: cfg.RequestTimeout,
		Health:         handler.NewHealthHandler(monitor, recorder),
		Assignments:    handler.NewAssignmentHandler(assignmentService, assignmentCache, cfg.AssignmentCacheTTL),
		Submissions:    handler.NewSubmissionHandler(submissionService),
		HealthGate:     middleware.NewHealthGate(monitor),
		Auth:           middleware.NewAuthMiddleware(authenticator),
	})

	port := fmt.Sprintf(":%d", cfg.HTTPPort)
	logger.Info(ctx, "Starting server", zap.String("port", port), zap.String("notifier", cfg.Notifier))

	srv := &http.Server{
		Addr:              port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal(ctx, "cannot start http server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info(ctx, "Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error(ctx, "server forced to shutdown", zap.Error(err))
	}
	logger.Info(ctx, "Server stopped")
}

func newNotifier(ctx context.Context, cfg *config.Config) (service.Notifier, func(), error) {
	var (
		next    notify.Notifier
		closeFn = func() {}
	)

	switch cfg.Notifier {
	case config.NotifierKafka:
		kafkaNotifier := notify.NewKafkaNotifier(cfg.KafkaBrokers, cfg.KafkaSubmissionTopic)
		next = kafkaNotifier
		closeFn = func() { _ = kafkaNotifier.Close() }
	case config.NotifierSNS:
		client, err := notify.NewSNSClient(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		next = notify.NewSNSNotifier(client, cfg.SNSTopicARN)
	default:
		return notify.Nop(), closeFn, nil
	}

	breaker := notify.NewCircuitBreaker(cfg.NotifyBreakerThreshold, cfg.NotifyBreakerReset)
	return notify.WithBreaker(next, breaker), closeFn, nil
}

func newCache(ctx context.Context, cfg *config.Config, logger *logging.Logger) (handler.Cache, func()) {
	if cfg.RedisURL == "" {
		return cache.Noop{}, func() {}
	}

	rdb, err := cache.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		logger.Warn(ctx, "assignment cache disabled", zap.Error(err))
		return cache.Noop{}, func() {}
	}
	return cache.NewRedisCache(rdb), func() { _ = rdb.Close() }
}
