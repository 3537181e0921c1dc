package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/class-planner-api/api/swagger"
	"github.com/noah-isme/class-planner-api/internal/handler"
	"github.com/noah-isme/class-planner-api/internal/middleware"
	"github.com/noah-isme/class-planner-api/internal/models"
	"github.com/noah-isme/class-planner-api/internal/repository"
	"github.com/noah-isme/class-planner-api/internal/service"
	"github.com/noah-isme/class-planner-api/pkg/cache"
	"github.com/noah-isme/class-planner-api/pkg/config"
	"github.com/noah-isme/class-planner-api/pkg/database"
	"github.com/noah-isme/class-planner-api/pkg/jobs"
	"github.com/noah-isme/class-planner-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/class-planner-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/class-planner-api/pkg/middleware/requestid"
)

// @title Class Planner API
// @version 1.0.0
// @description Eligibility, conflict and cohort reporting for class scheduling
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

type handlers struct {
	auth         *handler.AuthHandler
	students     *handler.StudentHandler
	planner      *handler.PlannerHandler
	selections   *handler.SelectionHandler
	availability *handler.AvailabilityHandler
	cohort       *handler.CohortHandler
	exports      *handler.ExportHandler
	metrics      *handler.MetricsHandler
}

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

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect database", zap.Error(err))
	}
	defer db.Close()

	checks := map[string]handler.Pinger{"database": handler.PingFunc(db.PingContext)}
	metricsSvc := service.NewMetricsService()
	validate := validator.New()

	var cohortCache *service.CacheService
	if cfg.Cohort.CacheEnabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Fatal("failed to connect redis", zap.Error(err))
		}
		cacheRepo := repository.NewCacheRepository(redisClient, logr)
		defer cacheRepo.Close() //nolint:errcheck
		checks["redis"] = cacheRepo
		cohortCache = service.NewCacheService(cacheRepo, metricsSvc, cfg.Cohort.CacheTTL, logr, true)
	}

	sectionRepo := repository.NewSectionRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	transcriptRepo := repository.NewTranscriptRepository(db)
	preScheduleRepo := repository.NewPreScheduleRepository(db)

	selectionStore := service.NewSelectionStore(cfg.Planner.SessionTTL)
	availabilitySvc := service.NewAvailabilityService(studentRepo, validate, logr, cfg.Planner.SessionTTL)
	plannerSvc := service.NewPlannerService(
		sectionRepo,
		studentRepo,
		transcriptRepo,
		preScheduleRepo,
		selectionStore,
		availabilitySvc,
		metricsSvc,
		logr,
		service.PlannerConfig{
			PassingGrades:     cfg.Planner.PassingGrades,
			InProgressPolicy:  cfg.Planner.InProgressPolicy,
			DefaultTerm:       cfg.Planner.DefaultTerm,
			MaxCatalogEntries: cfg.Planner.MaxCatalogEntries,
		},
	)
	selectionSvc := service.NewSelectionService(plannerSvc, selectionStore, validate, logr)
	cohortCfg := service.CohortConfig{
		DefaultTerm:       cfg.Planner.DefaultTerm,
		TopConflicted:     cfg.Cohort.TopConflicted,
		CacheTTL:          cfg.Cohort.CacheTTL,
		MaxCatalogEntries: cfg.Planner.MaxCatalogEntries,
	}
	// A nil cohortCache is a disabled cache; its methods are nil-safe.
	cohortSvc := service.NewCohortService(sectionRepo, studentRepo, preScheduleRepo, cohortCache, metricsSvc, logr, cohortCfg)
	if cohortCache != nil {
		warmup := jobs.NewQueue("cohort-warmup", func(ctx context.Context, job jobs.Job) error {
			return cohortSvc.WarmReport(ctx, job.Key)
		}, jobs.QueueConfig{Workers: 1, RetryDelay: 5 * time.Second, Logger: logr})
		warmup.Start(context.Background())
		defer warmup.Stop()
		cohortSvc.SetWarmer(warmup)
	}
	exportSvc := service.NewExportService(plannerSvc, cohortSvc, service.ExportConfig{TimezoneLabel: cfg.Export.TimezoneLabel}, logr)
	studentSvc := service.NewStudentService(studentRepo, transcriptRepo, cfg.Planner.PassingGrades, logr)
	tokenSvc := service.NewTokenService(service.TokenConfig{
		Secret:     cfg.JWT.Secret,
		Issuer:     cfg.JWT.Issuer,
		Expiration: cfg.JWT.Expiration,
		Clients:    cfg.JWT.Clients,
	}, validate, logr)

	h := handlers{
		auth:         handler.NewAuthHandler(tokenSvc),
		students:     handler.NewStudentHandler(studentSvc),
		planner:      handler.NewPlannerHandler(plannerSvc),
		selections:   handler.NewSelectionHandler(selectionSvc),
		availability: handler.NewAvailabilityHandler(availabilitySvc),
		cohort:       handler.NewCohortHandler(cohortSvc),
		exports:      handler.NewExportHandler(exportSvc),
		metrics:      handler.NewMetricsHandler(metricsSvc, checks),
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(corsmiddleware.Options{AllowedOrigins: cfg.CORS.AllowedOrigins, MaxAge: cfg.CORS.MaxAge}))
	r.Use(middleware.Metrics(metricsSvc))
	r.Use(middleware.WithResponseMeta())

	r.GET("/health", h.metrics.Health)
	r.GET("/ready", h.metrics.Ready)
	r.GET("/metrics", h.metrics.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	registerRoutes(r.Group(cfg.APIPrefix), h, tokenSvc)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}

func registerRoutes(api *gin.RouterGroup, h handlers, tokens middleware.TokenValidator) {
	api.POST("/auth/token", h.auth.Token)

	secured := api.Group("")
	secured.Use(middleware.JWT(tokens))

	staff := middleware.RequireRoles(models.RoleAdmin, models.RoleAdvisor)
	self := middleware.StaffOrSelf()

	secured.GET("/metrics/summary", staff, h.metrics.Summary)

	students := secured.Group("/students")
	students.GET("", staff, h.students.List)

	student := students.Group("/:id", self)
	student.GET("", h.students.Get)
	student.GET("/transcript", h.students.Transcript)
	student.GET("/plan", h.planner.Plan)
	student.GET("/sections/:sectionCode/eligibility", h.planner.Eligibility)
	student.GET("/selections", h.selections.List)
	student.POST("/selections", h.selections.Select)
	student.DELETE("/selections/:sectionCode", h.selections.Unselect)
	student.DELETE("/selections", h.selections.Reset)
	student.GET("/availability", h.availability.Get)
	student.PUT("/availability", h.availability.Replace)
	student.PATCH("/availability", h.availability.Toggle)
	student.DELETE("/availability", h.availability.Clear)
	student.GET("/schedule/export", h.exports.Schedule)
	student.GET("/cohort-conflicts", h.cohort.StudentConflicts)

	cohort := secured.Group("/cohort", staff)
	cohort.GET("/conflicts", h.cohort.Conflicts)
	cohort.GET("/conflicts/summary", h.cohort.Summary)
	cohort.GET("/conflicts/export", h.exports.Cohort)
	cohort.DELETE("/cache", middleware.RequireRoles(models.RoleAdmin), h.cohort.InvalidateCache)
}
