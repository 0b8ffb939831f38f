package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"fitnessallies/backend/internal/domain"
	"fitnessallies/backend/internal/logger"
	"fitnessallies/backend/internal/service"
)

// ExerciseHandler serves the shared exercise catalog.
type ExerciseHandler struct {
	log             *logger.Logger
	exerciseService service.ExerciseService
}

// NewExerciseHandler creates a new ExerciseHandler.
func NewExerciseHandler(log *logger.Logger, exerciseService service.ExerciseService) *ExerciseHandler {
	return &ExerciseHandler{
		log:             log.With("handler", "ExerciseHandler"),
		exerciseService: exerciseService,
	}
}

// ListExercises godoc
// @Summary List catalog exercises
// @Tags Exercises
// @Produce json
// @Security BearerAuth
// @Param type query string false "Exercise type filter"
// @Param limit query int false "Maximum number of entries"
// @Success 200 {array} domain.Exercise
// @Failure 400 {object} gin.H "Unknown type or bad limit"
// @Router /fitnessAllies/exercises [get]
func (h *ExerciseHandler) ListExercises(c *gin.Context) {
	var limit int64
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed < 0 {
			abortWithError(c, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = parsed
	}

	exercises, err := h.exerciseService.ListExercises(c.Request.Context(), c.Query("type"), limit)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	if exercises == nil {
		exercises = []domain.Exercise{}
	}
	c.JSON(http.StatusOK, exercises)
}

// GetExerciseByID godoc
// @Summary Get one catalog exercise
// @Tags Exercises
// @Produce json
// @Security BearerAuth
// @Param exerciseId path string true "Exercise ID"
// @Success 200 {object} domain.Exercise
// @Failure 404 {object} gin.H "Exercise not found"
// @Router /fitnessAllies/exercises/{exerciseId} [get]
func (h *ExerciseHandler) GetExerciseByID(c *gin.Context) {
	exerciseID, err := primitive.ObjectIDFromHex(c.Param("exerciseId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid exercise ID")
		return
	}
	exercise, err := h.exerciseService.GetExerciseByID(c.Request.Context(), exerciseID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, exercise)
}
