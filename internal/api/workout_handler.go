package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"fitnessallies/backend/internal/domain"
	"fitnessallies/backend/internal/export"
	"fitnessallies/backend/internal/logger"
	"fitnessallies/backend/internal/repository"
	"fitnessallies/backend/internal/service"
)

// WorkoutHandler serves plan generation and plan tracking.
type WorkoutHandler struct {
	log         *logger.Logger
	planService service.PlanService
}

func NewWorkoutHandler(log *logger.Logger, planService service.PlanService) *WorkoutHandler {
	return &WorkoutHandler{
		log:         log.With("handler", "WorkoutHandler"),
		planService: planService,
	}
}

// --- DTOs ---

type SavePlanRequest struct {
	PlanName     string              `json:"planName"`
	FitnessGoal  domain.FitnessGoal  `json:"fitnessGoal"`
	FitnessLevel domain.FitnessLevel `json:"fitnessLevel"`
	PlanData     *PlanDataRequest    `json:"planData"`
}

type PlanDataRequest struct {
	Title        string              `json:"title"`
	Description  string              `json:"description"`
	FitnessGoal  domain.FitnessGoal  `json:"fitnessGoal"`
	FitnessLevel domain.FitnessLevel `json:"fitnessLevel"`
	WorkoutDays  []domain.WorkoutDay `json:"workoutDays"`
}

type UpdatePlanRequest struct {
	Title        *string              `json:"title"`
	Description  *string              `json:"description"`
	FitnessGoal  *domain.FitnessGoal  `json:"fitnessGoal"`
	FitnessLevel *domain.FitnessLevel `json:"fitnessLevel"`
	WorkoutDays  []domain.WorkoutDay  `json:"workoutDays"`
	EndDate      *time.Time           `json:"endDate"`
	Active       *bool                `json:"active"`
}

type MarkCompleteRequest struct {
	PlanID   string `json:"planId"`
	DayIndex *int   `json:"dayIndex"`
}

// --- Generation ---

// GeneratePlan returns a new unsaved plan, or the existing plan with
// actionRequired when the caller must confirm an override first.
func (h *WorkoutHandler) GeneratePlan(c *gin.Context) {
	ownerID, raw, ok := h.preferencesRequest(c)
	if !ok {
		return
	}

	result, err := h.planService.GeneratePlan(c.Request.Context(), ownerID, raw, c.GetString(ContextTokenKey))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	if result.ConfirmationRequired {
		c.JSON(http.StatusOK, gin.H{
			"message":        "A workout plan already exists. Do you want to override the existing plan?",
			"existingPlan":   result.ExistingPlan,
			"actionRequired": true,
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":     "Workout plan generated successfully",
		"workoutPlan": result.Plan,
	})
}

// OverridePlan replaces the caller's plans with a freshly generated one.
func (h *WorkoutHandler) OverridePlan(c *gin.Context) {
	ownerID, raw, ok := h.preferencesRequest(c)
	if !ok {
		return
	}

	plan, err := h.planService.OverridePlan(c.Request.Context(), ownerID, raw, c.GetString(ContextTokenKey))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":     "Workout plan generated successfully",
		"workoutPlan": plan,
	})
}

// preferencesRequest reads the owner and the raw preference body. An empty
// body is treated as an empty object so field validation reports it.
func (h *WorkoutHandler) preferencesRequest(c *gin.Context) (primitive.ObjectID, service.RawPreferences, bool) {
	ownerID, ok := ownerFromContext(c)
	if !ok {
		abortWithError(c, http.StatusUnauthorized, msgMissingOwner)
		return primitive.NilObjectID, nil, false
	}
	raw := service.RawPreferences{}
	if err := c.ShouldBindJSON(&raw); err != nil && !errors.Is(err, io.EOF) {
		abortWithError(c, http.StatusBadRequest, msgInvalidBody)
		return primitive.NilObjectID, nil, false
	}
	return ownerID, raw, true
}

// SavePlan persists a plan the caller accepted.
func (h *WorkoutHandler) SavePlan(c *gin.Context) {
	ownerID, ok := ownerFromContext(c)
	if !ok {
		abortWithError(c, http.StatusUnauthorized, msgMissingOwner)
		return
	}
	var req SavePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, msgInvalidPlanData)
		return
	}

	input := service.SavePlanInput{
		PlanName:     req.PlanName,
		FitnessGoal:  req.FitnessGoal,
		FitnessLevel: req.FitnessLevel,
	}
	if req.PlanData != nil {
		input.PlanData = &service.SavePlanData{
			Title:        req.PlanData.Title,
			Description:  req.PlanData.Description,
			FitnessGoal:  req.PlanData.FitnessGoal,
			FitnessLevel: req.PlanData.FitnessLevel,
			WorkoutDays:  req.PlanData.WorkoutDays,
		}
	}

	plan, err := h.planService.SavePlan(c.Request.Context(), ownerID, input)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "Workout plan saved successfully",
		"plan":    plan,
	})
}

// --- Reads ---

// GetTodaysPlans lists plans with a workout scheduled today.
func (h *WorkoutHandler) GetTodaysPlans(c *gin.Context) {
	ownerID, ok := ownerFromContext(c)
	if !ok {
		abortWithError(c, http.StatusUnauthorized, msgMissingOwner)
		return
	}
	result, err := h.planService.GetTodaysPlans(c.Request.Context(), ownerID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	if result.Message != "" {
		c.JSON(http.StatusOK, gin.H{"message": result.Message, "plans": result.Plans})
		return
	}
	c.JSON(http.StatusOK, result.Plans)
}

func (h *WorkoutHandler) GetPlansByUser(c *gin.Context) {
	ownerID, ok := ownerFromContext(c)
	if !ok {
		abortWithError(c, http.StatusUnauthorized, msgMissingOwner)
		return
	}
	plans, err := h.planService.GetPlansByUser(c.Request.Context(), ownerID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	if plans == nil {
		plans = []domain.WorkoutPlan{}
	}
	c.JSON(http.StatusOK, plans)
}

// GetPlanDay returns the plan with catalog details for the day whose label
// is the :dayIndex segment.
func (h *WorkoutHandler) GetPlanDay(c *gin.Context) {
	ownerID, planID, ok := h.planRequest(c)
	if !ok {
		return
	}
	day := c.Param("dayIndex")
	if day == "" {
		abortWithError(c, http.StatusBadRequest, "Day index is required")
		return
	}
	plan, err := h.planService.GetPlanDay(c.Request.Context(), ownerID, planID, day)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

func (h *WorkoutHandler) CheckMissedWorkouts(c *gin.Context) {
	ownerID, ok := ownerFromContext(c)
	if !ok {
		abortWithError(c, http.StatusUnauthorized, msgMissingOwner)
		return
	}
	missed, err := h.planService.CheckMissedWorkouts(c.Request.Context(), ownerID)
	if err != nil {
		logFailure(c, h.log, "missed workout check failed", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Failed to check for missed workouts",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "missedWorkouts": missed})
}

// ExportPlan streams the plan as an xlsx workbook.
func (h *WorkoutHandler) ExportPlan(c *gin.Context) {
	ownerID, planID, ok := h.planRequest(c)
	if !ok {
		return
	}
	plan, err := h.planService.GetPlan(c.Request.Context(), ownerID, planID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	buf, err := export.WritePlanWorkbook(plan)
	if err != nil {
		respondError(c, h.log, fmt.Errorf("export plan %s: %w", planID.Hex(), err))
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.FileName(plan)))
	c.Data(http.StatusOK, export.ContentType, buf.Bytes())
}

// --- Tracking ---

func (h *WorkoutHandler) CompleteDay(c *gin.Context) {
	ownerID, planID, ok := h.planRequest(c)
	if !ok {
		return
	}
	dayIndex, err := strconv.Atoi(c.Param("dayIndex"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, msgInvalidDayIndex)
		return
	}
	if err := h.planService.CompleteDay(c.Request.Context(), ownerID, planID, dayIndex); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Workout day completed"})
}

func (h *WorkoutHandler) CompleteExercise(c *gin.Context) {
	h.setExerciseCompleted(c, true, "Exercise marked as completed")
}

func (h *WorkoutHandler) IncompleteExercise(c *gin.Context) {
	h.setExerciseCompleted(c, false, "Exercise marked as incomplete")
}

func (h *WorkoutHandler) setExerciseCompleted(c *gin.Context, completed bool, message string) {
	ownerID, planID, ok := h.planRequest(c)
	if !ok {
		return
	}
	dayIndex, err := strconv.Atoi(c.Param("dayIndex"))
	if err != nil {
		abortWithError(c, http.StatusNotFound, msgDayNotFound)
		return
	}
	exerciseIndex, err := strconv.Atoi(c.Param("exerciseIndex"))
	if err != nil {
		abortWithError(c, http.StatusNotFound, msgExerciseNotFound)
		return
	}
	if err := h.planService.SetExerciseCompleted(c.Request.Context(), ownerID, planID, dayIndex, exerciseIndex, completed); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": message})
}

// MarkWorkoutComplete is the body-addressed variant kept for older clients.
func (h *WorkoutHandler) MarkWorkoutComplete(c *gin.Context) {
	ownerID, ok := ownerFromContext(c)
	if !ok {
		abortWithError(c, http.StatusUnauthorized, msgMissingOwner)
		return
	}
	var req MarkCompleteRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.PlanID == "" || req.DayIndex == nil {
		abortWithError(c, http.StatusBadRequest, "Plan ID and day index are required")
		return
	}
	planID, err := primitive.ObjectIDFromHex(req.PlanID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, msgInvalidPlanID)
		return
	}
	if err := h.planService.MarkWorkoutComplete(c.Request.Context(), ownerID, planID, *req.DayIndex); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Workout marked as complete"})
}

func (h *WorkoutHandler) UpdatePlan(c *gin.Context) {
	ownerID, planID, ok := h.planRequest(c)
	if !ok {
		return
	}
	var req UpdatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, msgInvalidBody)
		return
	}
	update := repository.PlanUpdate{
		Title:        req.Title,
		Description:  req.Description,
		FitnessGoal:  req.FitnessGoal,
		FitnessLevel: req.FitnessLevel,
		WorkoutDays:  req.WorkoutDays,
		EndDate:      req.EndDate,
		Active:       req.Active,
	}
	plan, err := h.planService.UpdatePlan(c.Request.Context(), ownerID, planID, update)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

func (h *WorkoutHandler) DeletePlan(c *gin.Context) {
	ownerID, planID, ok := h.planRequest(c)
	if !ok {
		return
	}
	if err := h.planService.DeletePlan(c.Request.Context(), ownerID, planID); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Workout plan deleted successfully"})
}

// planRequest reads the owner and the :planId path parameter.
func (h *WorkoutHandler) planRequest(c *gin.Context) (primitive.ObjectID, primitive.ObjectID, bool) {
	ownerID, ok := ownerFromContext(c)
	if !ok {
		abortWithError(c, http.StatusUnauthorized, msgMissingOwner)
		return primitive.NilObjectID, primitive.NilObjectID, false
	}
	planID, err := primitive.ObjectIDFromHex(c.Param("planId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, msgInvalidPlanID)
		return primitive.NilObjectID, primitive.NilObjectID, false
	}
	return ownerID, planID, true
}
