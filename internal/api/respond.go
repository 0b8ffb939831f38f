package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"fitnessallies/backend/internal/generator"
	"fitnessallies/backend/internal/logger"
	"fitnessallies/backend/internal/service"
)

// Client-facing messages. Internal causes are logged, never returned.
const (
	msgMissingToken     = "Authorization token is required"
	msgInvalidToken     = "Invalid or expired token"
	msgMissingOwner     = "userId not found in token"
	msgGenerationFailed = "Failed to generate workout plan with AI."
	msgOverrideFailed   = "Failed to Override the plan."
	msgInvalidPlanData  = "Invalid plan data provided"
	msgPlanNotFound     = "Workout plan not found"
	msgNoPlans          = "No workout plans found for this user"
	msgDayNotFound      = "Workout day not found"
	msgExerciseNotFound = "Exercise not found"
	msgInvalidDayIndex  = "Invalid day index"
	msgAccessDenied     = "You do not have permission to update this plan"
	msgPlanBusy         = "A workout plan request is already in progress. Please try again shortly."
	msgInvalidBody      = "Invalid request body"
	msgInvalidPlanID    = "Invalid plan ID"
	msgInternal         = "Internal Server Error"
)

// respondError maps a service error to its status and message.
func respondError(c *gin.Context, log *logger.Logger, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		abortWithError(c, http.StatusBadRequest, verr.Message)
	case errors.Is(err, service.ErrInvalidPlanData):
		abortWithError(c, http.StatusBadRequest, msgInvalidPlanData)
	case errors.Is(err, service.ErrInvalidDayIndex):
		abortWithError(c, http.StatusBadRequest, msgInvalidDayIndex)

	case errors.Is(err, service.ErrMissingToken):
		abortWithError(c, http.StatusUnauthorized, msgMissingToken)
	case errors.Is(err, service.ErrMissingOwner):
		abortWithError(c, http.StatusUnauthorized, msgMissingOwner)
	case errors.Is(err, service.ErrInvalidToken):
		abortWithError(c, http.StatusUnauthorized, msgInvalidToken)

	case errors.Is(err, service.ErrPlanAccessDenied):
		abortWithError(c, http.StatusForbidden, msgAccessDenied)

	case errors.Is(err, service.ErrPlanNotFound):
		abortWithError(c, http.StatusNotFound, msgPlanNotFound)
	case errors.Is(err, service.ErrNoPlansForUser):
		abortWithError(c, http.StatusNotFound, msgNoPlans)
	case errors.Is(err, service.ErrDayNotFound):
		abortWithError(c, http.StatusNotFound, msgDayNotFound)
	case errors.Is(err, service.ErrExerciseNotFound):
		abortWithError(c, http.StatusNotFound, msgExerciseNotFound)

	case errors.Is(err, service.ErrPlanBusy):
		abortWithError(c, http.StatusConflict, msgPlanBusy)

	case errors.Is(err, generator.ErrGenerationFailed):
		logFailure(c, log, "plan generation failed", err)
		abortWithError(c, http.StatusInternalServerError, msgGenerationFailed)
	case errors.Is(err, service.ErrOverrideFailed):
		logFailure(c, log, "plan override failed", err)
		abortWithError(c, http.StatusInternalServerError, msgOverrideFailed)

	default:
		logFailure(c, log, "request failed", err)
		abortWithError(c, http.StatusInternalServerError, msgInternal)
	}
}

func logFailure(c *gin.Context, log *logger.Logger, msg string, err error) {
	fields := []interface{}{"error", err, "request_id", c.GetString(ContextRequestIDKey)}
	var genErr *generator.GenerationError
	if errors.As(err, &genErr) {
		fields = append(fields, "failure_kind", genErr.Kind.String())
	}
	_ = c.Error(err)
	log.Error(msg, fields...)
}
