package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/gymstack/studio-ops-api/api/swagger"
	"github.com/gymstack/studio-ops-api/internal/handler"
	"github.com/gymstack/studio-ops-api/internal/middleware"
	"github.com/gymstack/studio-ops-api/internal/repository"
	"github.com/gymstack/studio-ops-api/internal/service"
	"github.com/gymstack/studio-ops-api/pkg/cache"
	"github.com/gymstack/studio-ops-api/pkg/config"
	"github.com/gymstack/studio-ops-api/pkg/database"
	"github.com/gymstack/studio-ops-api/pkg/logger"
	corsmiddleware "github.com/gymstack/studio-ops-api/pkg/middleware/cors"
	"github.com/gymstack/studio-ops-api/pkg/middleware/ratelimit"
	reqidmiddleware "github.com/gymstack/studio-ops-api/pkg/middleware/requestid"
)

// @title Studio Ops API
// @version 0.1.0
// @description Back-office API for fitness studio attendance and class-credit accounting
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to database", "error", err)
	}
	defer db.Close()

	if cfg.Database.RunMigrations {
		if err := database.Migrate(db); err != nil {
			logr.Sugar().Fatalw("failed to run migrations", "error", err)
		}
	}

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, dashboard caching disabled", "error", err)
		redisClient = nil
	}

	validate := validator.New()

	attendanceRepo := repository.NewAttendanceRepository(db)
	contractRepo := repository.NewContractRepository(db)
	memberRepo := repository.NewMemberRepository(db)
	planRepo := repository.NewPlanRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	dashboardRepo := repository.NewDashboardRepository(db)
	catalogRepo := repository.NewCatalogRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	metricsSvc := service.NewMetricsService()
	checkInSvc := service.NewCheckInService(attendanceRepo, sessionRepo, memberRepo, contractRepo, metricsSvc, validate, logr)
	attendanceSvc := service.NewAttendanceService(attendanceRepo, logr)
	contractSvc := service.NewContractService(contractRepo, memberRepo, planRepo, validate, logr)
	memberSvc := service.NewMemberService(memberRepo, validate, logr)
	planSvc := service.NewPlanService(planRepo, validate, logr)
	sessionSvc := service.NewSessionService(sessionRepo, validate, logr)
	paymentSvc := service.NewPaymentService(paymentRepo, memberRepo, contractRepo, validate, logr)
	dashboardSvc := service.NewDashboardService(dashboardRepo, cacheRepo, cfg.Dashboard.CacheTTL, logr)
	catalogSvc := service.NewCatalogService(catalogRepo)

	attendanceHandler := handler.NewAttendanceHandler(checkInSvc, attendanceSvc)
	contractHandler := handler.NewContractHandler(contractSvc)
	memberHandler := handler.NewMemberHandler(memberSvc)
	planHandler := handler.NewPlanHandler(planSvc)
	sessionHandler := handler.NewSessionHandler(sessionSvc)
	paymentHandler := handler.NewPaymentHandler(paymentSvc)
	dashboardHandler := handler.NewDashboardHandler(dashboardSvc)
	catalogHandler := handler.NewCatalogHandler(catalogSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	resolvers := []middleware.Resolver{middleware.HeaderResolver{Header: cfg.Tenancy.Header}}
	if cfg.Tenancy.TokenSecret != "" {
		resolvers = append(resolvers, middleware.TokenResolver{Secret: cfg.Tenancy.TokenSecret})
	}

	api := r.Group(cfg.APIPrefix)
	api.Use(middleware.Tenant(resolvers...))
	{
		checkInRoute := api.Group("/attendance")
		if cfg.CheckIn.RateLimitEnabled {
			limiter := ratelimit.New(cfg.CheckIn.RatePerSecond, cfg.CheckIn.RateBurst)
			checkInRoute.POST("/check-in", limiter.Middleware(), attendanceHandler.CheckIn)
		} else {
			checkInRoute.POST("/check-in", attendanceHandler.CheckIn)
		}
		checkInRoute.GET("", attendanceHandler.List)
		checkInRoute.GET("/export", attendanceHandler.Export)
		checkInRoute.POST("/:id/cancel", attendanceHandler.Cancel)
		checkInRoute.POST("/:id/no-show", attendanceHandler.NoShow)

		api.GET("/contracts", contractHandler.List)
		api.POST("/contracts", contractHandler.Create)
		api.GET("/contracts/:id", contractHandler.Get)
		api.POST("/contracts/:id/pause", contractHandler.Pause)
		api.POST("/contracts/:id/cancel", contractHandler.Cancel)

		api.GET("/members", memberHandler.List)
		api.POST("/members", memberHandler.Create)
		api.GET("/members/:id", memberHandler.Get)
		api.PUT("/members/:id", memberHandler.Update)
		api.POST("/members/:id/deactivate", memberHandler.Deactivate)

		api.GET("/plans", planHandler.List)
		api.POST("/plans", planHandler.Create)
		api.GET("/plans/:id", planHandler.Get)
		api.PUT("/plans/:id", planHandler.Update)
		api.POST("/plans/:id/deactivate", planHandler.Deactivate)

		api.GET("/sessions", sessionHandler.List)
		api.POST("/sessions", sessionHandler.Create)
		api.GET("/sessions/:id", sessionHandler.Get)
		api.PUT("/sessions/:id", sessionHandler.Update)
		api.POST("/sessions/:id/cancel", sessionHandler.Cancel)

		api.GET("/payments", paymentHandler.List)
		api.POST("/payments", paymentHandler.Record)

		api.GET("/coaches", catalogHandler.Coaches)
		api.GET("/class-types", catalogHandler.ClassTypes)

		api.GET("/dashboard", dashboardHandler.Summary)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
