package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"fitnessallies/backend/internal/config"
	"fitnessallies/backend/internal/logger"
	"fitnessallies/backend/internal/service"
)

func SetupRoutes(
	router *gin.Engine,
	log *logger.Logger,
	cfg config.Config,
	verifier service.TokenVerifier,
	planService service.PlanService,
	exerciseService service.ExerciseService,
) {
	workoutHandler := NewWorkoutHandler(log, planService)
	exerciseHandler := NewExerciseHandler(log, exerciseService)

	router.Use(
		otelgin.Middleware(cfg.OTel.ServiceName),
		RequestLogger(log),
		CORS(cfg.CORS),
	)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	protected := router.Group("/api/v1/fitnessAllies")
	protected.Use(AuthMiddleware(verifier))
	{
		workoutGroup := protected.Group("/workout")
		{
			workoutGroup.POST("/generate-plan", workoutHandler.GeneratePlan)
			workoutGroup.POST("/override-plan", workoutHandler.OverridePlan)
			workoutGroup.POST("/save-plan", workoutHandler.SavePlan)
			workoutGroup.POST("/mark-complete", workoutHandler.MarkWorkoutComplete)

			workoutGroup.GET("", workoutHandler.GetTodaysPlans)
			workoutGroup.GET("/user", workoutHandler.GetPlansByUser)
			workoutGroup.GET("/check-missed", workoutHandler.CheckMissedWorkouts)
			workoutGroup.GET("/:planId/export", workoutHandler.ExportPlan)
			// :dayIndex is the day label here, e.g. "Monday".
			workoutGroup.GET("/:planId/:dayIndex", workoutHandler.GetPlanDay)

			workoutGroup.PATCH("/:planId/complete-day/:dayIndex", workoutHandler.CompleteDay)
			workoutGroup.PATCH("/:planId/complete-exercise/:dayIndex/:exerciseIndex", workoutHandler.CompleteExercise)
			workoutGroup.PATCH("/:planId/incomplete-exercise/:dayIndex/:exerciseIndex", workoutHandler.IncompleteExercise)
			workoutGroup.PATCH("/:planId", workoutHandler.UpdatePlan)
			workoutGroup.DELETE("/:planId", workoutHandler.DeletePlan)
		}

		exerciseGroup := protected.Group("/exercises")
		{
			exerciseGroup.GET("", exerciseHandler.ListExercises)
			exerciseGroup.GET("/:exerciseId", exerciseHandler.GetExerciseByID)
		}
	}
}
