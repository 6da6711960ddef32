package handler

import (
	"github.com/ethiopay004-web/ethiopay-wdwuag/internal/adapter/http/middleware"
	redisStore "github.com/ethiopay004-web/ethiopay-wdwuag/internal/adapter/storage/redis"
	"github.com/ethiopay004-web/ethiopay-wdwuag/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	AuthSvc        ports.AuthService
	WalletSvc      ports.WalletService
	ReportingSvc   ports.ReportingService
	ProfileSvc     ports.ProfileService
	TokenSvc       ports.TokenService
	TxRepo         ports.TransactionRepository
	RateLimitStore *redisStore.RateLimitStore // nil = rate limiting disabled
	HealthCheckers []ports.HealthChecker
	FiatCurrency   string
	PointsCurrency string
	Logger         zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.Metrics())
	r.Use(middleware.MaxBodySize(1 << 20)) // 1 MB request body limit

	// Health check (deep — verifies PostgreSQL + Redis)
	r.GET("/health", HealthCheck(deps.HealthCheckers...))

	// Prometheus scrape endpoint
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Rate limit rules
	rules := middleware.DefaultRateLimitRules()

	// Helper: return rate limiter middleware if store is available, else noop.
	rl := func(group string) gin.HandlerFunc {
		if deps.RateLimitStore == nil {
			return func(c *gin.Context) { c.Next() }
		}
		rule, ok := rules[group]
		if !ok {
			return func(c *gin.Context) { c.Next() }
		}
		return middleware.RateLimiter(deps.RateLimitStore, group, rule, deps.Logger)
	}

	// API v1 routes
	v1 := r.Group("/api/v1")

	// --- Public routes (no auth) ---
	authHandler := NewAuthHandler(deps.AuthSvc)
	auth := v1.Group("/auth")
	{
		auth.POST("/otp/request", rl("otp_request"), authHandler.RequestOTP)
		auth.POST("/otp/verify", rl("auth_login"), authHandler.VerifyOTP)
		auth.POST("/register", rl("auth_register"), authHandler.Register)
		auth.POST("/login", rl("auth_login"), authHandler.Login)
	}

	// --- JWT-authenticated routes ---
	jwtAuth := middleware.JWTAuth(deps.TokenSvc, deps.Logger)
	walletHandler := NewWalletHandler(deps.WalletSvc, deps.FiatCurrency, deps.PointsCurrency)
	txHandler := NewTransactionHandler(deps.ReportingSvc, deps.TxRepo)
	userHandler := NewUserHandler(deps.ProfileSvc)

	wallet := v1.Group("/wallet", jwtAuth)
	{
		wallet.GET("/balance", rl("wallet_reads"), walletHandler.GetBalance)
		wallet.POST("/send", rl("wallet_ops"), walletHandler.Send)
		wallet.POST("/deposit", rl("wallet_ops"), walletHandler.Deposit)
		wallet.POST("/withdraw", rl("wallet_ops"), walletHandler.Withdraw)
		wallet.POST("/pay-bill", rl("wallet_ops"), walletHandler.PayBill)
		wallet.POST("/buy-airtime", rl("wallet_ops"), walletHandler.BuyAirtime)
		wallet.POST("/convert/to-points", rl("wallet_ops"), walletHandler.ConvertToPoints)
		wallet.POST("/convert/to-fiat", rl("wallet_ops"), walletHandler.ConvertToFiat)
	}

	transactions := v1.Group("/transactions", jwtAuth)
	{
		transactions.GET("", rl("wallet_reads"), txHandler.List)
		transactions.GET("/stats", rl("wallet_reads"), txHandler.Stats)
		transactions.GET("/:id", rl("wallet_reads"), txHandler.Get)
	}

	users := v1.Group("/users/me", jwtAuth)
	{
		users.GET("", rl("wallet_reads"), userHandler.GetProfile)
		users.PATCH("", rl("wallet_reads"), userHandler.UpdateProfile)
	}

	return r
}
