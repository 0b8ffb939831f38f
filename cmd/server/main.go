package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"fitnessallies/backend/internal/api"
	"fitnessallies/backend/internal/config"
	"fitnessallies/backend/internal/generator"
	"fitnessallies/backend/internal/jobs"
	"fitnessallies/backend/internal/lock"
	"fitnessallies/backend/internal/logger"
	"fitnessallies/backend/internal/observability"
	"fitnessallies/backend/internal/repository/mongo"
	"fitnessallies/backend/internal/service"
	"fitnessallies/backend/internal/storage"
)

// @title Fitness Allies Workout API
// @version 1.0
// @description Generates, stores and tracks personalised workout plans.
// @BasePath /api/v1/fitnessAllies
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		bootLog, _ := logger.New("development")
		bootLog.Fatal("could not load config", "error", err)
	}

	log, err := logger.New(cfg.Log.Mode)
	if err != nil {
		panic(err)
	}
	defer log.Sync()
	log.Info("starting fitness allies server", "address", cfg.Server.Address, "mode", cfg.Server.Mode)

	ctx := context.Background()

	// --- Tracing ---
	shutdownTracing := observability.InitOTel(ctx, log, cfg.OTel)
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(shutdownCtx); err != nil {
			log.Warn("tracer shutdown failed", "error", err)
		}
	}()

	// --- Database Connection ---
	dbClient, err := mongo.ConnectDB(ctx, cfg.Database.URI)
	if err != nil {
		log.Fatal("could not connect to MongoDB", "error", err)
	}
	defer func() {
		log.Info("disconnecting MongoDB")
		if err := mongo.DisconnectDB(dbClient); err != nil {
			log.Error("failed to disconnect MongoDB", "error", err)
		}
	}()
	appDB := dbClient.Database(cfg.Database.Name)

	// The unique name index backs catalog upserts, so it must exist before serving.
	indexCtx, cancelIndex := context.WithTimeout(ctx, time.Minute)
	if err := mongo.EnsureIndexes(indexCtx, appDB); err != nil {
		cancelIndex()
		log.Fatal("could not ensure indexes", "error", err)
	}
	cancelIndex()
	log.Info("database ready", "database", cfg.Database.Name)

	// --- Plan lock ---
	var locker lock.Locker
	if cfg.Redis.Addr != "" {
		rdb, err := lock.NewRedisClient(cfg.Redis)
		if err != nil {
			log.Fatal("could not connect to Redis", "error", err)
		}
		defer rdb.Close()
		locker = lock.NewRedisLocker(log, rdb, cfg.Lock)
		log.Info("using redis plan lock", "addr", cfg.Redis.Addr)
	} else {
		locker = lock.NewLocalLocker(cfg.Lock.Wait)
		log.Warn("redis not configured, plan lock is per-process")
	}

	// --- Generation ---
	genaiClient, err := generator.NewGeminiClient(ctx, cfg.Gemini)
	if err != nil {
		log.Fatal("could not create Gemini client", "error", err)
	}
	planGenerator := generator.NewGemini(log, genaiClient.Models, cfg.Gemini)

	// --- Media storage (optional) ---
	var media storage.MediaStorage
	if cfg.S3.Enabled() {
		media, err = storage.NewS3Storage(ctx, log, cfg.S3)
		if err != nil {
			log.Fatal("failed to initialize S3 storage", "error", err)
		}
	} else {
		log.Warn("s3 not configured, exercise media links are served as stored")
	}

	// --- Repositories & services ---
	exerciseRepo := mongo.NewMongoExerciseRepository(appDB)
	planRepo := mongo.NewMongoWorkoutPlanRepository(appDB)

	verifier := service.NewJWTVerifier(cfg.JWT.Secret)
	catalog := service.NewExerciseCatalog(log, exerciseRepo)
	planService := service.NewPlanService(service.PlanServiceDeps{
		Log:          log,
		Plans:        planRepo,
		Exercises:    exerciseRepo,
		Verifier:     verifier,
		Generator:    planGenerator,
		Assembler:    service.NewPlanAssembler(catalog, cfg.Plan.ResolveConcurrency),
		Locker:       locker,
		Media:        media,
		PlanDuration: time.Duration(cfg.Plan.DurationDays) * 24 * time.Hour,
	})
	exerciseService := service.NewExerciseService(log, exerciseRepo, media)

	// --- Expired-plan sweeper ---
	var sweeper *jobs.PlanSweeper
	if cfg.Sweeper.Enabled {
		sweeper, err = jobs.NewPlanSweeper(log, planService, cfg.Sweeper.Schedule)
		if err != nil {
			log.Fatal("could not schedule plan sweeper", "error", err)
		}
		sweeper.Start()
	}

	// --- HTTP ---
	gin.SetMode(cfg.Server.Mode)
	router := gin.New()
	router.Use(gin.Recovery())
	api.SetupRoutes(router, log, cfg, verifier, planService, exerciseService)

	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// --- Graceful Shutdown ---
	go func() {
		log.Info("server listening", "address", cfg.Server.Address)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("ListenAndServe error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()

	if sweeper != nil {
		sweeper.Stop(ctxShutdown)
	}
	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Error("server forced to shutdown", "error", err)
	}
	log.Info("server exiting")
}
