package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/aescanero/analysis-api/internal/application/analysis"
	"github.com/aescanero/analysis-api/internal/config"
	"github.com/aescanero/analysis-api/pkg/adapters/events/memory"
	"github.com/aescanero/analysis-api/pkg/adapters/events/redis"
	"github.com/aescanero/analysis-api/pkg/adapters/metrics/prometheus"
	"github.com/aescanero/analysis-api/pkg/api/grpc"
	"github.com/aescanero/analysis-api/pkg/api/http"
	"github.com/aescanero/analysis-api/pkg/domain"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Version is set by build flags
	Version   = "dev"
	BuildTime = "unknown"
)

// notifier is an analysis event publisher that owns resources
type notifier interface {
	analysis.Notifier
	Close() error
}

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger := initLogger(cfg.LogLevel)
	defer logger.Sync()

	logger.Info("starting Analysis API",
		zap.String("version", Version),
		zap.String("build_time", BuildTime))

	ctx := context.Background()

	// Initialize event notifications
	var redisClient *goredis.Client
	var events notifier
	if cfg.RedisEnabled() {
		redisClient = goredis.NewClient(&goredis.Options{
			Addr:         cfg.Redis.Addr,
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			PoolSize:     cfg.Redis.PoolSize,
			MaxRetries:   cfg.Redis.MaxRetries,
			DialTimeout:  cfg.Redis.DialTimeout,
			WriteTimeout: cfg.Redis.WriteTimeout,
		})

		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Fatal("failed to connect to Redis", zap.Error(err))
		}
		logger.Info("connected to Redis", zap.String("addr", cfg.Redis.Addr))

		events, err = redis.NewStreamsPublisher(redisClient, cfg.Events.Prefix, cfg.Events.MaxLen, logger)
		if err != nil {
			logger.Fatal("failed to create event publisher", zap.Error(err))
		}
	} else {
		bus := memory.NewInMemoryEventBus(logger)
		subCtx, cancelSub := context.WithCancel(ctx)
		defer cancelSub()
		if err := bus.Subscribe(subCtx, domain.TopicAnalysisEvents, logEvent(logger)); err != nil {
			logger.Fatal("failed to subscribe to analysis events", zap.Error(err))
		}
		events = bus
		logger.Info("Redis not configured, analysis events stay in process")
	}

	metricsCollector := prometheus.NewCollector(nil)

	// Initialize application components
	analysisService := analysis.NewService(
		analysis.NewStaticAnalyzer(),
		events,
		metricsCollector,
		logger,
	)

	// Initialize API servers
	httpServer := http.NewServer(&http.Config{
		Addr:              cfg.GetHTTPAddr(),
		ReadHeaderTimeout: cfg.Timeouts.ReadHeaderTimeout,
		AllowedOrigins:    cfg.CORSAllowedOrigins,
		Analysis:          analysisService,
		Metrics:           metricsCollector,
		Logger:            logger,
	})

	var grpcServer *grpc.Server
	if cfg.GRPCEnabled() {
		grpcServer, err = grpc.NewServer(&grpc.Config{
			Addr:   cfg.GetGRPCAddr(),
			Logger: logger,
		})
		if err != nil {
			logger.Fatal("failed to create gRPC server", zap.Error(err))
		}
	}

	// Start servers
	go func() {
		if err := httpServer.Start(); err != nil {
			logger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	if grpcServer != nil {
		go func() {
			if err := grpcServer.Start(); err != nil {
				logger.Fatal("gRPC server failed", zap.Error(err))
			}
		}()
	}

	logger.Info("Analysis API started",
		zap.Int("http_port", cfg.HTTPPort),
		zap.Int("grpc_port", cfg.GRPCPort),
		zap.Bool("redis_events", cfg.RedisEnabled()))

	// Wait for interrupt signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	logger.Info("received shutdown signal")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Timeouts.ShutdownTimeout)
	defer cancel()

	if grpcServer != nil {
		if err := grpcServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("gRPC server shutdown error", zap.Error(err))
		}
	}

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", zap.Error(err))
	}

	if err := events.Close(); err != nil {
		logger.Error("event publisher close error", zap.Error(err))
	}

	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			logger.Error("Redis close error", zap.Error(err))
		}
	}

	logger.Info("Analysis API shut down complete")
}

// logEvent logs in-process analysis events at debug level
func logEvent(logger *zap.Logger) domain.EventHandler {
	return func(ctx context.Context, event domain.Event) error {
		logger.Debug("analysis event",
			zap.String("event_id", event.ID),
			zap.String("type", string(event.Type)),
			zap.Any("data", event.Data))
		return nil
	}
}

// initLogger initializes the logger based on log level
func initLogger(level string) *zap.Logger {
	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		zapLevel = zapcore.InfoLevel
	}

	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(zapLevel)
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := config.Build()
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}

	return logger
}
