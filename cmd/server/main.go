package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	householdapp "github.com/houseledger/backend/internal/application/household"
	identityapp "github.com/houseledger/backend/internal/application/identity"
	settlementapp "github.com/houseledger/backend/internal/application/settlement"
	"github.com/houseledger/backend/internal/infrastructure/auth"
	"github.com/houseledger/backend/internal/infrastructure/config"
	"github.com/houseledger/backend/internal/infrastructure/logger"
	"github.com/houseledger/backend/internal/infrastructure/persistence"
	"github.com/houseledger/backend/internal/infrastructure/telemetry"
	"github.com/houseledger/backend/internal/interfaces/http/handler"
	"github.com/houseledger/backend/internal/interfaces/http/middleware"
	"github.com/houseledger/backend/internal/interfaces/http/router"
)

var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "server exited with error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting server",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("version", version),
	)

	ctx := context.Background()

	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		return fmt.Errorf("failed to initialize tracing: %w", err)
	}

	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, log, logger.MapGormLogLevel(cfg.Log.Level))
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	log.Info("database connected",
		zap.String("host", cfg.Database.Host),
		zap.String("database", cfg.Database.DBName),
	)

	memberRepo := persistence.NewGormMemberRepository(db.DB)
	expenseRepo := persistence.NewGormExpenseRepository(db.DB)
	invoiceRepo := persistence.NewGormInvoiceRepository(db.DB)
	paymentRepo := persistence.NewGormPaymentRepository(db.DB)

	jwtService := auth.NewJWTService(cfg.JWT)
	authService := identityapp.NewAuthService(memberRepo, jwtService, log)
	memberService := householdapp.NewMemberService(memberRepo)
	expenseService := settlementapp.NewExpenseService(expenseRepo, memberRepo)
	invoiceService := settlementapp.NewInvoiceService(invoiceRepo)
	paymentService := settlementapp.NewPaymentService(paymentRepo)
	balanceService := settlementapp.NewBalanceService(expenseRepo, invoiceRepo, paymentRepo, memberRepo)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()
	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			return fmt.Errorf("failed to set trusted proxies: %w", err)
		}
	}
	engine.Use(
		middleware.RequestID(),
		middleware.Tracing(cfg.Telemetry.ServiceName, cfg.Telemetry.Enabled),
		middleware.TracingEnrichment(),
		logger.GinMiddleware(log),
		logger.Recovery(log),
		middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins: cfg.HTTP.CORSAllowOrigins,
			AllowMethods: cfg.HTTP.CORSAllowMethods,
			AllowHeaders: cfg.HTTP.CORSAllowHeaders,
			MaxAge:       12 * time.Hour,
		}),
	)

	r := router.NewRouter(engine,
		router.WithAPIVersion("v1"),
		router.WithMiddleware(
			middleware.JWTAuthMiddleware(jwtService),
			middleware.TracingActorInjector(),
		),
	)
	r.RegisterPublic(handler.NewSystemHandler(db, version))
	r.RegisterPublic(handler.NewAuthHandler(authService))
	r.Register(handler.NewMemberHandler(memberService))
	r.Register(handler.NewExpenseHandler(expenseService))
	r.Register(handler.NewInvoiceHandler(invoiceService))
	r.Register(handler.NewPaymentHandler(paymentService))
	r.Register(handler.NewBalanceHandler(balanceService))
	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("http server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("http server failed: %w", err)
	case sig := <-quit:
		log.Info("shutdown signal received", zap.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http server shutdown failed", zap.Error(err))
	}
	if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("tracer shutdown failed", zap.Error(err))
	}
	if err := db.Close(); err != nil {
		log.Error("database close failed", zap.Error(err))
	}

	log.Info("server stopped")
	return nil
}
