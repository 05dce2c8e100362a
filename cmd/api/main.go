package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/unmdp-fi/campus-records-api/api/swagger"
	"github.com/unmdp-fi/campus-records-api/internal/handler"
	"github.com/unmdp-fi/campus-records-api/internal/middleware"
	"github.com/unmdp-fi/campus-records-api/internal/repository"
	"github.com/unmdp-fi/campus-records-api/internal/service"
	"github.com/unmdp-fi/campus-records-api/pkg/cache"
	"github.com/unmdp-fi/campus-records-api/pkg/config"
	"github.com/unmdp-fi/campus-records-api/pkg/database"
	"github.com/unmdp-fi/campus-records-api/pkg/logger"
	corsmiddleware "github.com/unmdp-fi/campus-records-api/pkg/middleware/cors"
	reqidmiddleware "github.com/unmdp-fi/campus-records-api/pkg/middleware/requestid"
)

// @title Campus Records API
// @version 1.0.0
// @description Student, subject and enrollment record keeper
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
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	var redisClient *redis.Client
	if cfg.Snapshots.Enabled {
		redisClient, err = cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, snapshots disabled", zap.Error(err))
			redisClient = nil
		}
	}

	metricsSvc := service.NewMetricsService()
	snapshots := repository.NewSnapshotRepository(redisClient, cfg.Snapshots.TTL, logr, metricsSvc)
	defer snapshots.Close() //nolint:errcheck

	studentRepo := repository.NewStudentRepository(db)
	subjectRepo := repository.NewSubjectRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)

	studentSvc := service.NewStudentService(studentRepo, enrollmentRepo, snapshots, nil, logr)
	subjectSvc := service.NewSubjectService(subjectRepo, enrollmentRepo, snapshots, logr)
	enrollmentSvc := service.NewEnrollmentService(enrollmentRepo, snapshots, logr)
	exportSvc := service.NewExportService(studentRepo, subjectRepo, enrollmentRepo, logr)

	students := handler.NewStudentHandler(studentSvc)
	subjects := handler.NewSubjectHandler(subjectSvc)
	enrollments := handler.NewEnrollmentHandler(enrollmentSvc)
	exports := handler.NewExportHandler(exportSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	{
		api.GET("/students", students.Get)
		api.POST("/students", students.Create)
		api.PUT("/students", students.Update)
		api.DELETE("/students", students.Delete)

		api.GET("/subjects", subjects.Get)
		api.POST("/subjects", subjects.Create)
		api.PUT("/subjects", subjects.Update)
		api.DELETE("/subjects", subjects.Delete)

		api.GET("/enrollments", enrollments.Get)
		api.POST("/enrollments", enrollments.Create)
		api.PUT("/enrollments", enrollments.Update)
		api.DELETE("/enrollments", enrollments.Delete)

		if cfg.Exports.Enabled {
			api.GET("/students/export", exports.Download("students"))
			api.GET("/subjects/export", exports.Download("subjects"))
			api.GET("/enrollments/export", exports.Download("enrollments"))
		}
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
