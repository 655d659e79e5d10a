package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tradeapp "github.com/GranDen-Corp/ls-erp-sub002/internal/application/trade"
	domaincurrency "github.com/GranDen-Corp/ls-erp-sub002/internal/domain/currency"
	"github.com/GranDen-Corp/ls-erp-sub002/internal/domain/trade"
	"github.com/GranDen-Corp/ls-erp-sub002/internal/infrastructure/config"
	"github.com/GranDen-Corp/ls-erp-sub002/internal/infrastructure/currency"
	"github.com/GranDen-Corp/ls-erp-sub002/internal/infrastructure/logger"
	"github.com/GranDen-Corp/ls-erp-sub002/internal/infrastructure/persistence"
	"github.com/GranDen-Corp/ls-erp-sub002/internal/interfaces/http/handler"
	"github.com/GranDen-Corp/ls-erp-sub002/internal/interfaces/http/router"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log := logger.New(cfg.Log)
	defer func() { _ = log.Sync() }()

	log.Info("Starting trade reconciliation service",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Database
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLogLevel(cfg.Log.Level))
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected")

	// Redis is optional; rate lookups fall back to the static table when
	// the cache is unreachable
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer func() { _ = redisClient.Close() }()

	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		log.Warn("Redis unreachable at startup, rate caching degraded", zap.Error(err))
	} else {
		log.Info("Redis connected", zap.String("addr", cfg.Redis.Addr()))
	}

	// Repositories
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	procurementRepo := persistence.NewGormProcurementRepository(db.DB)

	// Currency conversion: static config-backed rates behind a Redis cache
	var rateSource domaincurrency.RateSource = currency.NewStaticRateSource(cfg.Currency)
	rateSource = currency.NewCachedRateSource(rateSource, redisClient, cfg.Currency.CacheTTL, log)
	converter := domaincurrency.NewRateConverter(rateSource)

	// Application services
	orderService := tradeapp.NewOrderService(orderRepo)
	procurementService := tradeapp.NewProcurementService(procurementRepo, orderRepo)
	reconciliationService := tradeapp.NewReconciliationService(orderRepo, procurementRepo, trade.NewValidator(converter))

	// HTTP layer
	engine := router.NewEngine(cfg, log)

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Register(handler.NewOrderHandler(orderService)).
		Register(handler.NewProcurementHandler(procurementService)).
		Register(handler.NewReconciliationHandler(reconciliationService)).
		Register(handler.NewSystemHandler(db, redisClient))
	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// gormLogLevel maps the application log level to a GORM log level
func gormLogLevel(level string) gormlogger.LogLevel {
	switch level {
	case "debug":
		return gormlogger.Info
	case "warn", "error":
		return gormlogger.Error
	default:
		return gormlogger.Warn
	}
}
