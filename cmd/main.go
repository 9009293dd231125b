package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/akylbek/payment-system/fraud-detector/internal/api"
	"github.com/akylbek/payment-system/fraud-detector/internal/config"
	"github.com/akylbek/payment-system/fraud-detector/internal/handlers"
	"github.com/akylbek/payment-system/fraud-detector/internal/interfaces"
	"github.com/akylbek/payment-system/fraud-detector/internal/middleware"
	"github.com/akylbek/payment-system/fraud-detector/internal/repository"
	"github.com/akylbek/payment-system/fraud-detector/internal/service"
	"github.com/akylbek/payment-system/fraud-detector/internal/session"
	"github.com/akylbek/payment-system/fraud-detector/internal/telemetry"
	"github.com/akylbek/payment-system/fraud-detector/migrations"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load configuration: %v", err))
	}

	if err := telemetry.InitTelemetry(telemetry.Options{
		ServiceName:    "fraud-detector",
		LogLevel:       cfg.LogLevel,
		JaegerEndpoint: cfg.JaegerEndpoint,
	}); err != nil {
		panic(fmt.Sprintf("Failed to initialize telemetry: %v", err))
	}
	defer telemetry.Shutdown(context.Background())

	telemetry.Logger.Info("Starting Fraud Detector")

	var (
		accountRepo   interfaces.AccountRepository
		detectionRepo interfaces.DetectionRepository
	)

	if cfg.DatabaseURL != "" {
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			telemetry.Logger.Fatal("Failed to connect to database", zap.Error(err))
		}
		defer db.Close()

		if err := migrations.Up(context.Background(), db); err != nil {
			telemetry.Logger.Fatal("Failed to initialize database", zap.Error(err))
		}

		accountRepo = repository.NewAccountRepository(db)
		detectionRepo = repository.NewDetectionRepository(db)
	} else {
		telemetry.Logger.Warn("DATABASE_URL not set, using in-memory storage")
		store := repository.NewMemoryStore()
		accountRepo = store
		detectionRepo = store
	}

	var sessions interfaces.SessionStore
	if cfg.RedisURL != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr: cfg.RedisURL,
		})
		defer redisClient.Close()
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			telemetry.Logger.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		sessions = session.NewRedisStore(redisClient)
	} else {
		telemetry.Logger.Warn("REDIS_URL not set, sessions are kept in memory")
		sessions = session.NewMemoryStore()
	}

	var publisher interfaces.EventPublisher
	if len(cfg.KafkaBrokers) > 0 {
		kafkaWriter := &kafka.Writer{
			Addr:     kafka.TCP(cfg.KafkaBrokers...),
			Topic:    service.DetectionTopic,
			Balancer: &kafka.Hash{},
		}
		defer kafkaWriter.Close()
		publisher = service.NewKafkaPublisher(kafkaWriter)
	}

	evaluator := service.NewRiskEvaluator(service.RuleSet{
		AmountThreshold: cfg.AmountThreshold,
		FlaggedMethods:  cfg.FlaggedMethods,
	})

	if cfg.NatsURL != "" {
		nc, err := nats.Connect(cfg.NatsURL)
		if err != nil {
			telemetry.Logger.Fatal("Failed to connect to NATS", zap.Error(err))
		}
		defer nc.Close()

		if _, err := service.NewCheckResponder(evaluator).Subscribe(nc); err != nil {
			telemetry.Logger.Fatal("Failed to subscribe to fraud checks", zap.Error(err))
		}
		telemetry.Logger.Info("Answering fraud checks", zap.String("subject", service.FraudCheckSubject))
	}

	accounts := service.NewAccountService(accountRepo)
	detections := service.NewDetectionService(evaluator, detectionRepo, publisher)
	auth := middleware.NewSessionAuth(sessions, accounts, cfg.CookieSecure)

	r := api.NewRouter(api.Dependencies{
		Auth: auth,
		Accounts: handlers.NewAuthHandler(accounts, sessions, auth, handlers.CookieOptions{
			TTL:    cfg.SessionTTL,
			Secure: cfg.CookieSecure,
		}),
		Detections: handlers.NewDetectionHandler(detections, auth),
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		telemetry.Logger.Info("Fraud Detector starting", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			telemetry.Logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	telemetry.Logger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		telemetry.Logger.Error("Server forced to shutdown", zap.Error(err))
	}

	telemetry.Logger.Info("Server exited")
}
