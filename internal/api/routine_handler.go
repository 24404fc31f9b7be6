package api

import (
	"net/http"

	"alcyxob/workout-tracker/internal/config"
	"alcyxob/workout-tracker/internal/domain"
	"alcyxob/workout-tracker/internal/service"

	"github.com/gin-gonic/gin"
)

// RoutineHandler serves routines, their days and the exercises planned on them.
type RoutineHandler struct {
	routineService service.RoutineService
	workoutCfg     config.WorkoutConfig
}

// NewRoutineHandler creates a new RoutineHandler.
func NewRoutineHandler(routineService service.RoutineService, workoutCfg config.WorkoutConfig) *RoutineHandler {
	return &RoutineHandler{routineService: routineService, workoutCfg: workoutCfg}
}

// --- DTOs ---

type RoutineRequest struct {
	UserID      int64   `json:"user_id"`
	Name        string  `json:"name" binding:"required"`
	Description *string `json:"description"`
	IsActive    bool    `json:"is_active"`
}

func (r RoutineRequest) toDomain(id, defaultUserID int64) *domain.Routine {
	userID := r.UserID
	if userID == 0 {
		userID = defaultUserID
	}
	return &domain.Routine{ID: id, UserID: userID, Name: r.Name, Description: r.Description, IsActive: r.IsActive}
}

// RoutineDayRequest is the body of routine-day calls. day_of_week runs
// 0 (Monday) to 6 (Sunday); null leaves the day unscheduled.
type RoutineDayRequest struct {
	RoutineID int64  `json:"routine_id" binding:"required"`
	Name      string `json:"name" binding:"required"`
	DayOfWeek *int   `json:"day_of_week"`
}

func (r RoutineDayRequest) toDomain(id int64) *domain.RoutineDay {
	return &domain.RoutineDay{ID: id, RoutineID: r.RoutineID, Name: r.Name, DayOfWeek: r.DayOfWeek}
}

// RoutineExerciseFields are the planned-exercise attributes shared by the
// append and CRUD endpoints.
type RoutineExerciseFields struct {
	ExerciseID             int64    `json:"exercise_id" binding:"required"`
	Sequence               int      `json:"sequence"`
	SuggestedSets          *int     `json:"suggested_sets"`
	SuggestedReps          *string  `json:"suggested_reps"`
	SuggestedWeightPercent *float64 `json:"suggested_weight_percent"`
	RestPeriodSeconds      *int     `json:"rest_period_seconds"`
	Tempo                  *string  `json:"tempo"`
	GroupName              *string  `json:"group_name"`
	SuggestedTimeSeconds   *int     `json:"suggested_time_seconds"`
}

func (f RoutineExerciseFields) toDomain(id, dayID int64) *domain.RoutineExercise {
	return &domain.RoutineExercise{
		ID:                     id,
		RoutineDayID:           dayID,
		ExerciseID:             f.ExerciseID,
		Sequence:               f.Sequence,
		SuggestedSets:          f.SuggestedSets,
		SuggestedReps:          f.SuggestedReps,
		SuggestedWeightPercent: f.SuggestedWeightPercent,
		RestPeriodSeconds:      f.RestPeriodSeconds,
		Tempo:                  f.Tempo,
		GroupName:              f.GroupName,
		SuggestedTimeSeconds:   f.SuggestedTimeSeconds,
	}
}

type RoutineExerciseRequest struct {
	RoutineDayID int64 `json:"routine_day_id" binding:"required"`
	RoutineExerciseFields
}

// --- Routines ---

// CreateRoutine godoc
// @Summary Create a routine
// @Description Creating an active routine deactivates the user's other routines.
// @Tags Routines
// @Accept json
// @Produce json
// @Param routine body RoutineRequest true "Routine"
// @Success 201 {object} domain.Routine
// @Failure 400 {object} gin.H "Invalid input"
// @Router /routines [post]
func (h *RoutineHandler) CreateRoutine(c *gin.Context) {
	var req RoutineRequest
	if !bindJSON(c, &req) {
		return
	}
	routine, err := h.routineService.Create(c.Request.Context(), req.toDomain(0, h.workoutCfg.DefaultUserID))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, routine)
}

// ListRoutines godoc
// @Summary List routines
// @Tags Routines
// @Produce json
// @Param user_id query int false "Filter by user"
// @Success 200 {array} domain.Routine
// @Router /routines [get]
func (h *RoutineHandler) ListRoutines(c *gin.Context) {
	userID, ok := queryID(c, "user_id")
	if !ok {
		return
	}
	routines, err := h.routineService.List(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, routines)
}

// GetRoutine godoc
// @Summary Get a routine with its days
// @Tags Routines
// @Produce json
// @Param id path int true "Routine ID"
// @Success 200 {object} service.RoutineView
// @Failure 404 {object} gin.H "Routine not found"
// @Router /routines/{id} [get]
func (h *RoutineHandler) GetRoutine(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	routine, err := h.routineService.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, routine)
}

// UpdateRoutine godoc
// @Summary Replace a routine
// @Tags Routines
// @Accept json
// @Produce json
// @Param id path int true "Routine ID"
// @Param routine body RoutineRequest true "Routine"
// @Success 200 {object} domain.Routine
// @Failure 404 {object} gin.H "Routine not found"
// @Router /routines/{id} [put]
func (h *RoutineHandler) UpdateRoutine(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req RoutineRequest
	if !bindJSON(c, &req) {
		return
	}
	routine, err := h.routineService.Update(c.Request.Context(), req.toDomain(id, h.workoutCfg.DefaultUserID))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, routine)
}

// DeleteRoutine godoc
// @Summary Delete a routine with its days
// @Tags Routines
// @Param id path int true "Routine ID"
// @Success 204
// @Failure 404 {object} gin.H "Routine not found"
// @Router /routines/{id} [delete]
func (h *RoutineHandler) DeleteRoutine(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.routineService.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ActivateRoutine godoc
// @Summary Make a routine the user's only active routine
// @Tags Routines
// @Produce json
// @Param id path int true "Routine ID"
// @Success 200 {object} domain.Routine
// @Failure 404 {object} gin.H "Routine not found"
// @Router /routines/{id}/activate [post]
func (h *RoutineHandler) ActivateRoutine(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	routine, err := h.routineService.Activate(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, routine)
}

// ActiveSchedule godoc
// @Summary Days of the active routine with grouped exercises
// @Tags Routines
// @Produce json
// @Param user_id query int false "User (defaults to the configured user)"
// @Success 200 {array} service.RoutineDayView
// @Router /routines/active/schedule [get]
func (h *RoutineHandler) ActiveSchedule(c *gin.Context) {
	userID, ok := userIDParam(c, h.workoutCfg.DefaultUserID)
	if !ok {
		return
	}
	days, err := h.routineService.Schedule(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, days)
}

// --- Routine days ---

// CreateRoutineDay godoc
// @Summary Add a day to a routine
// @Tags RoutineDays
// @Accept json
// @Produce json
// @Param day body RoutineDayRequest true "Day"
// @Success 201 {object} domain.RoutineDay
// @Failure 400 {object} gin.H "Invalid input"
// @Router /routine_days [post]
func (h *RoutineHandler) CreateRoutineDay(c *gin.Context) {
	var req RoutineDayRequest
	if !bindJSON(c, &req) {
		return
	}
	day, err := h.routineService.CreateDay(c.Request.Context(), req.toDomain(0))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, day)
}

// ListRoutineDays godoc
// @Summary List routine days
// @Tags RoutineDays
// @Produce json
// @Param routine_id query int false "Filter by routine"
// @Success 200 {array} domain.RoutineDay
// @Router /routine_days [get]
func (h *RoutineHandler) ListRoutineDays(c *gin.Context) {
	routineID, ok := queryID(c, "routine_id")
	if !ok {
		return
	}
	days, err := h.routineService.ListDays(c.Request.Context(), routineID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, days)
}

// GetRoutineDay godoc
// @Summary Get a routine day
// @Tags RoutineDays
// @Produce json
// @Param id path int true "Day ID"
// @Success 200 {object} domain.RoutineDay
// @Failure 404 {object} gin.H "Not found"
// @Router /routine_days/{id} [get]
func (h *RoutineHandler) GetRoutineDay(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	day, err := h.routineService.GetDay(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, day)
}

// UpdateRoutineDay godoc
// @Summary Replace a routine day
// @Tags RoutineDays
// @Accept json
// @Produce json
// @Param id path int true "Day ID"
// @Param day body RoutineDayRequest true "Day"
// @Success 200 {object} domain.RoutineDay
// @Failure 404 {object} gin.H "Not found"
// @Router /routine_days/{id} [put]
func (h *RoutineHandler) UpdateRoutineDay(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req RoutineDayRequest
	if !bindJSON(c, &req) {
		return
	}
	day, err := h.routineService.UpdateDay(c.Request.Context(), req.toDomain(id))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, day)
}

// DeleteRoutineDay godoc
// @Summary Delete a routine day and its exercises
// @Tags RoutineDays
// @Param id path int true "Day ID"
// @Success 204
// @Failure 404 {object} gin.H "Not found"
// @Router /routine_days/{id} [delete]
func (h *RoutineHandler) DeleteRoutineDay(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.routineService.DeleteDay(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// AddRoutineExercise godoc
// @Summary Append an exercise to a routine day
// @Tags RoutineDays
// @Accept json
// @Produce json
// @Param id path int true "Day ID"
// @Param exercise body RoutineExerciseFields true "Planned exercise"
// @Success 201 {object} domain.RoutineExercise
// @Failure 400 {object} gin.H "Invalid input"
// @Router /routine_days/{id}/exercises [post]
func (h *RoutineHandler) AddRoutineExercise(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req RoutineExerciseFields
	if !bindJSON(c, &req) {
		return
	}
	entry, err := h.routineService.AddExercise(c.Request.Context(), id, req.toDomain(0, id))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

// ReorderRoutineDay godoc
// @Summary Reorder a routine day's exercises
// @Tags RoutineDays
// @Accept json
// @Produce json
// @Param id path int true "Day ID"
// @Param order body ReorderRequest true "Entry ids in order"
// @Success 200 {object} gin.H "status and updated count"
// @Failure 404 {object} gin.H "Day not found"
// @Router /routine_days/{id}/reorder [post]
func (h *RoutineHandler) ReorderRoutineDay(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req ReorderRequest
	if !bindJSON(c, &req) {
		return
	}
	moved, err := h.routineService.Reorder(c.Request.Context(), id, req.IDs)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "updated": moved})
}

// --- Routine exercises ---

// CreateRoutineExercise godoc
// @Summary Plan an exercise on a routine day
// @Tags RoutineExercises
// @Accept json
// @Produce json
// @Param entry body RoutineExerciseRequest true "Planned exercise"
// @Success 201 {object} domain.RoutineExercise
// @Failure 400 {object} gin.H "Invalid input"
// @Router /routine_exercises [post]
func (h *RoutineHandler) CreateRoutineExercise(c *gin.Context) {
	var req RoutineExerciseRequest
	if !bindJSON(c, &req) {
		return
	}
	entry, err := h.routineService.CreateEntry(c.Request.Context(), req.toDomain(0, req.RoutineDayID))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

// ListRoutineExercises godoc
// @Summary List planned exercises
// @Tags RoutineExercises
// @Produce json
// @Param routine_day_id query int false "Filter by day"
// @Success 200 {array} domain.RoutineExercise
// @Router /routine_exercises [get]
func (h *RoutineHandler) ListRoutineExercises(c *gin.Context) {
	dayID, ok := queryID(c, "routine_day_id")
	if !ok {
		return
	}
	entries, err := h.routineService.ListEntries(c.Request.Context(), dayID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

// GetRoutineExercise godoc
// @Summary Get a planned exercise
// @Tags RoutineExercises
// @Produce json
// @Param id path int true "Entry ID"
// @Success 200 {object} domain.RoutineExercise
// @Failure 404 {object} gin.H "Not found"
// @Router /routine_exercises/{id} [get]
func (h *RoutineHandler) GetRoutineExercise(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	entry, err := h.routineService.GetEntry(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

// UpdateRoutineExercise godoc
// @Summary Replace a planned exercise
// @Tags RoutineExercises
// @Accept json
// @Produce json
// @Param id path int true "Entry ID"
// @Param entry body RoutineExerciseRequest true "Planned exercise"
// @Success 200 {object} domain.RoutineExercise
// @Failure 404 {object} gin.H "Not found"
// @Router /routine_exercises/{id} [put]
func (h *RoutineHandler) UpdateRoutineExercise(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req RoutineExerciseRequest
	if !bindJSON(c, &req) {
		return
	}
	entry, err := h.routineService.UpdateEntry(c.Request.Context(), req.toDomain(id, req.RoutineDayID))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

// DeleteRoutineExercise godoc
// @Summary Delete a planned exercise
// @Tags RoutineExercises
// @Param id path int true "Entry ID"
// @Success 204
// @Failure 404 {object} gin.H "Not found"
// @Router /routine_exercises/{id} [delete]
func (h *RoutineHandler) DeleteRoutineExercise(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.routineService.DeleteEntry(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
