package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ethiopay004-web/ethiopay-wdwuag/config"
	httpHandler "github.com/ethiopay004-web/ethiopay-wdwuag/internal/adapter/http/handler"
	pgStorage "github.com/ethiopay004-web/ethiopay-wdwuag/internal/adapter/storage/postgres"
	redisStorage "github.com/ethiopay004-web/ethiopay-wdwuag/internal/adapter/storage/redis"
	"github.com/ethiopay004-web/ethiopay-wdwuag/internal/core/domain"
	"github.com/ethiopay004-web/ethiopay-wdwuag/internal/core/ports"
	"github.com/ethiopay004-web/ethiopay-wdwuag/internal/service"
	"github.com/ethiopay004-web/ethiopay-wdwuag/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)

	log.Info().
		Str("mode", cfg.Server.Mode).
		Int("port", cfg.Server.Port).
		Msg("Starting EthioPay wallet API")

	ctx := context.Background()

	// Initialize PostgreSQL pool
	pool, err := pgStorage.NewPool(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()
	log.Info().Msg("PostgreSQL connected")

	// Initialize Redis client
	rdb, err := redisStorage.NewClient(ctx, cfg.Redis, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()
	log.Info().Msg("Redis connected")

	// Initialize repositories
	userRepo := pgStorage.NewUserRepo(pool)
	accountRepo := pgStorage.NewAccountRepo(pool)
	txRepo := pgStorage.NewTransactionRepo(pool)
	transactor := pgStorage.NewTransactor(pool)

	// Initialize Redis stores
	otpStore := redisStorage.NewOTPStore(rdb)
	rateLimitStore := redisStorage.NewRateLimitStore(rdb)

	// Initialize core services
	hashSvc := service.NewArgon2HashService()
	tokenSvc := service.NewJWTTokenService(cfg.JWT.Secret, cfg.JWT.Expiry, cfg.JWT.Issuer)
	otpSender := service.NewLogOTPSender(log)

	schedule, err := domain.DefaultFeeSchedule()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid fee schedule")
	}

	// Optional transaction mirroring to a remote document endpoint
	var mirrorSvc ports.MirrorService
	if cfg.Mirror.URL != "" {
		mirrorSvc = service.NewHTTPMirrorService(
			cfg.Mirror.URL,
			&http.Client{Timeout: cfg.Mirror.Timeout},
			log,
		)
		log.Info().Str("url", cfg.Mirror.URL).Msg("Transaction mirroring enabled")
	}

	// Initialize business services
	authSvc := service.NewAuthService(
		userRepo,
		accountRepo,
		otpStore,
		otpSender,
		hashSvc,
		tokenSvc,
		cfg.OTP.Length,
		cfg.OTP.TTL,
		log,
	)
	walletSvc := service.NewWalletService(
		accountRepo,
		txRepo,
		transactor,
		schedule,
		cfg.Wallet.ExchangeRate,
		mirrorSvc,
		log,
	)
	reportingSvc := service.NewReportingService(txRepo)
	profileSvc := service.NewProfileService(userRepo)

	// Initialize health checkers
	pgHealth := pgStorage.NewHealthCheck(pool)
	redisHealth := redisStorage.NewHealthCheck(rdb)

	// Setup Gin router with all routes
	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		AuthSvc:        authSvc,
		WalletSvc:      walletSvc,
		ReportingSvc:   reportingSvc,
		ProfileSvc:     profileSvc,
		TokenSvc:       tokenSvc,
		TxRepo:         txRepo,
		RateLimitStore: rateLimitStore,
		HealthCheckers: []ports.HealthChecker{pgHealth, redisHealth},
		FiatCurrency:   cfg.Wallet.FiatCurrency,
		PointsCurrency: cfg.Wallet.PointsCurrency,
		Logger:         log,
	})

	// HTTP Server with graceful shutdown
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("addr", addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}
