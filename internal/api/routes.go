package api

import (
	"net/http"

	"github.com/fitlog/backend/internal/metrics"
	"github.com/fitlog/backend/internal/repository"
	"github.com/fitlog/backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupRoutes wires every endpoint onto the router. Everything under
// /api/v1 except /auth requires a valid bearer token.
func SetupRoutes(
	router *gin.Engine,
	jwtSecret string,
	m *metrics.Manager,
	metricsEnabled bool,
	userRepo repository.UserRepository,
	authService service.AuthService,
	muscleService service.MuscleService,
	exerciseService service.ExerciseService,
	workoutService service.WorkoutService,
	programService service.ProgramService,
	sessionService service.SessionService,
	enricher *service.HistoryEnricher,
	activityService *service.RecentActivityService,
) {
	authHandler := NewAuthHandler(authService)
	muscleHandler := NewMuscleHandler(muscleService)
	exerciseHandler := NewExerciseHandler(exerciseService)
	workoutHandler := NewWorkoutHandler(workoutService)
	programHandler := NewProgramHandler(programService)
	sessionHandler := NewSessionHandler(sessionService, enricher, m)
	activityHandler := NewActivityHandler(activityService)

	authMiddleware := AuthMiddleware(jwtSecret)
	router.Use(RequestMetricsMiddleware(m))

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	if metricsEnabled {
		router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}
	}

	protected := apiV1.Group("")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", func(c *gin.Context) {
			userID, ok := currentUserID(c)
			if !ok {
				return
			}
			user, err := userRepo.GetByID(c.Request.Context(), userID)
			if err != nil {
				abortWithError(c, http.StatusNotFound, "User not found")
				return
			}
			c.JSON(http.StatusOK, MapUserToResponse(user))
		})

		muscleGroup := protected.Group("/muscles")
		{
			muscleGroup.POST("", muscleHandler.CreateMuscle)
			muscleGroup.GET("", muscleHandler.GetMuscles)
			muscleGroup.PUT("/:id", muscleHandler.UpdateMuscle)
			muscleGroup.DELETE("/:id", muscleHandler.DeleteMuscle)
		}

		exerciseGroup := protected.Group("/exercises")
		{
			exerciseGroup.POST("", exerciseHandler.CreateExercise)
			exerciseGroup.GET("", exerciseHandler.GetExercises)
			exerciseGroup.GET("/:id", exerciseHandler.GetExerciseByID)
			exerciseGroup.PUT("/:id", exerciseHandler.UpdateExercise)
			exerciseGroup.DELETE("/:id", exerciseHandler.DeleteExercise)
			exerciseGroup.POST("/:id/media", exerciseHandler.UploadMedia)
		}

		workoutGroup := protected.Group("/workouts")
		{
			workoutGroup.POST("", workoutHandler.CreateWorkout)
			workoutGroup.GET("", workoutHandler.GetWorkouts)
			workoutGroup.GET("/:id", workoutHandler.GetWorkoutByID)
			workoutGroup.PUT("/:id", workoutHandler.UpdateWorkout)
			workoutGroup.DELETE("/:id", workoutHandler.DeleteWorkout)
		}

		programGroup := protected.Group("/programs")
		{
			programGroup.POST("", programHandler.CreateProgram)
			programGroup.GET("", programHandler.GetPrograms)
			programGroup.GET("/:id", programHandler.GetProgramByID)
			programGroup.PUT("/:id", programHandler.UpdateProgram)
			programGroup.DELETE("/:id", programHandler.DeleteProgram)
			programGroup.POST("/:id/subscribe", programHandler.Subscribe)
			programGroup.DELETE("/:id/subscribe", programHandler.Unsubscribe)
		}

		sessionGroup := protected.Group("/workout-sessions")
		{
			sessionGroup.POST("", sessionHandler.CreateSession)
			sessionGroup.GET("", sessionHandler.GetSessions)
			sessionGroup.GET("/:id", sessionHandler.GetSessionByID)
			sessionGroup.PUT("/:id", sessionHandler.UpdateSession)
			sessionGroup.DELETE("/:id", sessionHandler.DeleteSession)
		}

		protected.GET("/recent-activity", activityHandler.GetRecentActivity)
	}
}
