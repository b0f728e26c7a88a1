package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fitlog/backend/internal/api"
	"github.com/fitlog/backend/internal/config"
	"github.com/fitlog/backend/internal/logging"
	"github.com/fitlog/backend/internal/metrics"
	"github.com/fitlog/backend/internal/repository/mongo"
	"github.com/fitlog/backend/internal/service"
	"github.com/fitlog/backend/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

func main() {
	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		logrus.Fatalf("could not load config: %v", err)
	}

	logging.Setup(logging.LoggerSetupParams{
		LogLevel:      cfg.Log.Level,
		LogFormatJSON: cfg.Log.FormatJSON,
	})
	logrus.Info("starting fitlog server ...")

	// --- Database Connection ---
	dbClient, err := mongo.ConnectDB(cfg.Database.URI)
	if err != nil {
		logrus.Fatalf("could not connect to MongoDB: %v", err)
	}
	defer func() {
		logrus.Info("disconnecting MongoDB ...")
		if err := mongo.DisconnectDB(dbClient); err != nil {
			logrus.Errorf("failed to disconnect MongoDB: %v", err)
		}
	}()
	appDB := dbClient.Database(cfg.Database.Name)
	logrus.Info("database connection established")

	// --- Ensure Indexes ---
	go func() { // Run index creation concurrently/in background
		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
		defer cancel()
		mongo.EnsureUserIndexes(ctx, appDB.Collection("users"))
		mongo.EnsureMuscleIndexes(ctx, appDB.Collection("muscles"))
		mongo.EnsureExerciseIndexes(ctx, appDB.Collection("exercises"))
		mongo.EnsureWorkoutIndexes(ctx, appDB.Collection("workouts"))
		mongo.EnsureProgramIndexes(ctx, appDB.Collection("programs"))
		mongo.EnsureSessionIndexes(ctx, appDB.Collection("workout_sessions"))
		logrus.Info("index creation process completed")
	}()

	// --- Initialize Storage ---
	fileStorage, err := storage.NewS3Storage(cfg.Storage)
	if err != nil {
		logrus.Fatalf("failed to initialize S3 storage: %v", err)
	}

	// --- Initialize Repositories ---
	userRepo := mongo.NewMongoUserRepository(appDB)
	muscleRepo := mongo.NewMongoMuscleRepository(appDB)
	exerciseRepo := mongo.NewMongoExerciseRepository(appDB)
	workoutRepo := mongo.NewMongoWorkoutRepository(appDB)
	programRepo := mongo.NewMongoProgramRepository(appDB)
	sessionRepo := mongo.NewMongoSessionRepository(appDB)

	// --- Initialize Services ---
	populater := service.NewPopulater(muscleRepo, exerciseRepo, workoutRepo, programRepo, fileStorage)
	authService := service.NewAuthService(userRepo, cfg.Auth, cfg.JWT.Secret, cfg.JWT.Expiration)
	muscleService := service.NewMuscleService(muscleRepo)
	exerciseService := service.NewExerciseService(exerciseRepo, muscleRepo, fileStorage, populater)
	workoutService := service.NewWorkoutService(workoutRepo, exerciseRepo, populater)
	programService := service.NewProgramService(programRepo, workoutRepo, userRepo)
	sessionService := service.NewSessionService(sessionRepo, workoutRepo, programRepo, populater)
	enricher := service.NewHistoryEnricher(sessionRepo)
	activityService := service.NewRecentActivityService(userRepo, sessionRepo, populater)

	metricsManager := metrics.NewManager("fitlog", "server", prometheus.DefaultRegisterer)

	// --- Initialize Gin Engine ---
	// gin.SetMode(gin.ReleaseMode) // Uncomment for production
	router := gin.Default() // Includes Logger and Recovery middleware

	// --- Setup Routes ---
	api.SetupRoutes(
		router,
		cfg.JWT.Secret,
		metricsManager,
		cfg.Metrics.Enabled,
		userRepo,
		authService,
		muscleService,
		exerciseService,
		workoutService,
		programService,
		sessionService,
		enricher,
		activityService,
	)

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	logrus.Infof("server starting on %s", cfg.Server.Address)

	// --- Graceful Shutdown ---
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Fatalf("listen and serve error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("shutting down server ...")

	// In-flight requests get five seconds to finish.
	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		logrus.Fatalf("server forced to shutdown: %v", err)
	}

	logrus.Info("server exiting")
}
