package api

import (
	"errors"
	"net/http"
	"time"

	"alcyxob/workout-tracker/internal/config"
	"alcyxob/workout-tracker/internal/domain"
	"alcyxob/workout-tracker/internal/service"

	"github.com/gin-gonic/gin"
)

// WorkoutHandler serves workouts, their exercises and sets, and CSV uploads.
type WorkoutHandler struct {
	workoutService service.WorkoutService
	importService  service.ImportService
	workoutCfg     config.WorkoutConfig
	importCfg      config.ImportConfig
}

// NewWorkoutHandler creates a new WorkoutHandler.
func NewWorkoutHandler(workoutService service.WorkoutService, importService service.ImportService, workoutCfg config.WorkoutConfig, importCfg config.ImportConfig) *WorkoutHandler {
	return &WorkoutHandler{
		workoutService: workoutService,
		importService:  importService,
		workoutCfg:     workoutCfg,
		importCfg:      importCfg,
	}
}

// --- DTOs ---

// WorkoutRequest is the body of workout create and update calls. A zero
// user_id means the configured default user.
type WorkoutRequest struct {
	UserID    int64       `json:"user_id"`
	Date      domain.Date `json:"date"`
	StartTime *time.Time  `json:"start_time"`
	EndTime   *time.Time  `json:"end_time"`
	Notes     *string     `json:"notes"`
}

func (r WorkoutRequest) toDomain(id, defaultUserID int64) *domain.Workout {
	userID := r.UserID
	if userID == 0 {
		userID = defaultUserID
	}
	return &domain.Workout{
		ID:        id,
		UserID:    userID,
		Date:      r.Date,
		StartTime: r.StartTime,
		EndTime:   r.EndTime,
		Notes:     r.Notes,
	}
}

// ReorderRequest lists entry ids in their new order.
type ReorderRequest struct {
	IDs []int64 `json:"ids" binding:"required"`
}

// AddExerciseRequest appends an exercise to a workout.
type AddExerciseRequest struct {
	ExerciseID int64   `json:"exercise_id" binding:"required"`
	GroupName  *string `json:"group_name"`
}

// WorkoutExerciseRequest is the body of workout-exercise create and update
// calls. A zero sequence on create appends.
type WorkoutExerciseRequest struct {
	WorkoutID  int64   `json:"workout_id" binding:"required"`
	ExerciseID int64   `json:"exercise_id" binding:"required"`
	Sequence   int     `json:"sequence"`
	GroupName  *string `json:"group_name"`
}

func (r WorkoutExerciseRequest) toDomain(id int64) *domain.WorkoutExercise {
	return &domain.WorkoutExercise{
		ID:         id,
		WorkoutID:  r.WorkoutID,
		ExerciseID: r.ExerciseID,
		Sequence:   r.Sequence,
		GroupName:  r.GroupName,
	}
}

// WorkoutSetRequest is the body of workout-set create and update calls. A
// zero set_number on create takes the next free number.
type WorkoutSetRequest struct {
	WorkoutExerciseID int64    `json:"workout_exercise_id" binding:"required"`
	SetNumber         int      `json:"set_number"`
	Reps              *int     `json:"reps"`
	WeightKg          *float64 `json:"weight_kg"`
	DurationSeconds   *int     `json:"duration_seconds"`
	DistanceM         *float64 `json:"distance_m"`
	HeightCm          *float64 `json:"height_cm"`
	Tempo             *string  `json:"tempo"`
	Notes             *string  `json:"notes"`
	Completed         bool     `json:"completed"`
}

func (r WorkoutSetRequest) toDomain(id int64) *domain.WorkoutSet {
	return &domain.WorkoutSet{
		ID:                id,
		WorkoutExerciseID: r.WorkoutExerciseID,
		SetNumber:         r.SetNumber,
		Reps:              r.Reps,
		WeightKg:          r.WeightKg,
		DurationSeconds:   r.DurationSeconds,
		DistanceM:         r.DistanceM,
		HeightCm:          r.HeightCm,
		Tempo:             r.Tempo,
		Notes:             r.Notes,
		Completed:         r.Completed,
	}
}

// --- Workouts ---

// CreateWorkout godoc
// @Summary Start or log a workout
// @Tags Workouts
// @Accept json
// @Produce json
// @Param workout body WorkoutRequest true "Workout"
// @Success 201 {object} domain.Workout
// @Failure 400 {object} gin.H "Invalid input"
// @Router /workouts [post]
func (h *WorkoutHandler) CreateWorkout(c *gin.Context) {
	var req WorkoutRequest
	if !bindJSON(c, &req) {
		return
	}
	workout, err := h.workoutService.Create(c.Request.Context(), req.toDomain(0, h.workoutCfg.DefaultUserID))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, workout)
}

// ListWorkouts godoc
// @Summary List workouts newest first, exercises grouped into supersets
// @Tags Workouts
// @Produce json
// @Param user_id query int false "Filter by user"
// @Success 200 {array} service.WorkoutView
// @Router /workouts [get]
func (h *WorkoutHandler) ListWorkouts(c *gin.Context) {
	userID, ok := queryID(c, "user_id")
	if !ok {
		return
	}
	workouts, err := h.workoutService.List(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, workouts)
}

// GetWorkout godoc
// @Summary Get a workout with its exercises and sets
// @Tags Workouts
// @Produce json
// @Param id path int true "Workout ID"
// @Success 200 {object} service.WorkoutView
// @Failure 404 {object} gin.H "Workout not found"
// @Router /workouts/{id} [get]
func (h *WorkoutHandler) GetWorkout(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	workout, err := h.workoutService.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, workout)
}

// UpdateWorkout godoc
// @Summary Replace a workout
// @Tags Workouts
// @Accept json
// @Produce json
// @Param id path int true "Workout ID"
// @Param workout body WorkoutRequest true "Workout"
// @Success 200 {object} domain.Workout
// @Failure 404 {object} gin.H "Workout not found"
// @Router /workouts/{id} [put]
func (h *WorkoutHandler) UpdateWorkout(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req WorkoutRequest
	if !bindJSON(c, &req) {
		return
	}
	workout, err := h.workoutService.Update(c.Request.Context(), req.toDomain(id, h.workoutCfg.DefaultUserID))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, workout)
}

// DeleteWorkout godoc
// @Summary Delete a workout with its exercises and sets
// @Tags Workouts
// @Param id path int true "Workout ID"
// @Success 204
// @Failure 404 {object} gin.H "Workout not found"
// @Router /workouts/{id} [delete]
func (h *WorkoutHandler) DeleteWorkout(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.workoutService.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ActiveWorkout godoc
// @Summary The user's open workout
// @Description Workouts left open longer than the configured window are closed and not returned.
// @Tags Workouts
// @Produce json
// @Param user_id query int false "User (defaults to the configured user)"
// @Success 200 {object} domain.Workout "null when no workout is open"
// @Router /workouts/active [get]
func (h *WorkoutHandler) ActiveWorkout(c *gin.Context) {
	userID, ok := userIDParam(c, h.workoutCfg.DefaultUserID)
	if !ok {
		return
	}
	workout, err := h.workoutService.Active(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, workout)
}

// SuggestedWorkout godoc
// @Summary Today's routine day
// @Tags Workouts
// @Produce json
// @Param user_id query int false "User (defaults to the configured user)"
// @Success 200 {object} service.SuggestedWorkout "null when nothing is scheduled"
// @Router /workouts/suggested [get]
func (h *WorkoutHandler) SuggestedWorkout(c *gin.Context) {
	userID, ok := userIDParam(c, h.workoutCfg.DefaultUserID)
	if !ok {
		return
	}
	suggested, err := h.workoutService.Suggested(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, suggested)
}

// FinishWorkout godoc
// @Summary Set a workout's end time to now
// @Tags Workouts
// @Produce json
// @Param id path int true "Workout ID"
// @Success 200 {object} domain.Workout
// @Failure 404 {object} gin.H "Workout not found"
// @Router /workouts/{id}/finish [put]
func (h *WorkoutHandler) FinishWorkout(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	workout, err := h.workoutService.Finish(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, workout)
}

// ReopenWorkout godoc
// @Summary Clear a workout's end time
// @Tags Workouts
// @Produce json
// @Param id path int true "Workout ID"
// @Success 200 {object} domain.Workout
// @Failure 404 {object} gin.H "Workout not found"
// @Router /workouts/{id}/reopen [put]
func (h *WorkoutHandler) ReopenWorkout(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	workout, err := h.workoutService.Reopen(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, workout)
}

// ReorderWorkout godoc
// @Summary Reorder a workout's exercises
// @Description Sets sequence = position+1 for each listed entry of this workout; ids of other workouts are ignored.
// @Tags Workouts
// @Accept json
// @Produce json
// @Param id path int true "Workout ID"
// @Param order body ReorderRequest true "Entry ids in order"
// @Success 200 {object} gin.H "status and updated count"
// @Failure 404 {object} gin.H "Workout not found"
// @Router /workouts/{id}/reorder [post]
func (h *WorkoutHandler) ReorderWorkout(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req ReorderRequest
	if !bindJSON(c, &req) {
		return
	}
	moved, err := h.workoutService.Reorder(c.Request.Context(), id, req.IDs)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "updated": moved})
}

// AddWorkoutExercise godoc
// @Summary Append an exercise to a workout
// @Tags Workouts
// @Accept json
// @Produce json
// @Param id path int true "Workout ID"
// @Param exercise body AddExerciseRequest true "Exercise"
// @Success 201 {object} domain.WorkoutExercise
// @Failure 400 {object} gin.H "Workout or exercise does not exist"
// @Router /workouts/{id}/exercises [post]
func (h *WorkoutHandler) AddWorkoutExercise(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req AddExerciseRequest
	if !bindJSON(c, &req) {
		return
	}
	entry, err := h.workoutService.AddExercise(c.Request.Context(), id, req.ExerciseID, req.GroupName)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

// ImportWorkouts godoc
// @Summary Import a workout-log CSV export
// @Description Sessions on dates that already have a workout for the user are skipped.
// @Tags Workouts
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "CSV export"
// @Param user_id query int false "User (defaults to the configured import user)"
// @Success 200 {object} importer.Report
// @Failure 400 {object} gin.H "Missing or unreadable file"
// @Failure 500 {object} gin.H "Import rolled back"
// @Router /workouts/import [post]
func (h *WorkoutHandler) ImportWorkouts(c *gin.Context) {
	userID, ok := userIDParam(c, h.importCfg.DefaultUserID)
	if !ok {
		return
	}
	if h.importCfg.MaxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.importCfg.MaxUploadBytes)
	}
	header, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			abortWithError(c, http.StatusRequestEntityTooLarge, "File exceeds the upload limit")
			return
		}
		abortWithError(c, http.StatusBadRequest, "No file uploaded: "+err.Error())
		return
	}
	file, err := header.Open()
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Unable to read uploaded file: "+err.Error())
		return
	}
	defer file.Close()

	report, err := h.importService.Upload(c.Request.Context(), file, userID)
	if err != nil {
		if report == nil {
			respondError(c, err)
			return
		}
		_ = c.Error(err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error(), "report": report})
		return
	}
	c.JSON(http.StatusOK, report)
}

// --- Workout exercises ---

// CreateWorkoutExercise godoc
// @Summary Add an exercise entry to a workout
// @Tags WorkoutExercises
// @Accept json
// @Produce json
// @Param entry body WorkoutExerciseRequest true "Entry"
// @Success 201 {object} domain.WorkoutExercise
// @Failure 400 {object} gin.H "Invalid input"
// @Router /workout_exercises [post]
func (h *WorkoutHandler) CreateWorkoutExercise(c *gin.Context) {
	var req WorkoutExerciseRequest
	if !bindJSON(c, &req) {
		return
	}
	entry, err := h.workoutService.CreateEntry(c.Request.Context(), req.toDomain(0))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

// ListWorkoutExercises godoc
// @Summary List workout exercise entries
// @Tags WorkoutExercises
// @Produce json
// @Param workout_id query int false "Filter by workout"
// @Success 200 {array} domain.WorkoutExercise
// @Router /workout_exercises [get]
func (h *WorkoutHandler) ListWorkoutExercises(c *gin.Context) {
	workoutID, ok := queryID(c, "workout_id")
	if !ok {
		return
	}
	entries, err := h.workoutService.ListEntries(c.Request.Context(), workoutID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

// GetWorkoutExercise godoc
// @Summary Get a workout exercise entry
// @Tags WorkoutExercises
// @Produce json
// @Param id path int true "Entry ID"
// @Success 200 {object} domain.WorkoutExercise
// @Failure 404 {object} gin.H "Not found"
// @Router /workout_exercises/{id} [get]
func (h *WorkoutHandler) GetWorkoutExercise(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	entry, err := h.workoutService.GetEntry(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

// UpdateWorkoutExercise godoc
// @Summary Replace a workout exercise entry
// @Tags WorkoutExercises
// @Accept json
// @Produce json
// @Param id path int true "Entry ID"
// @Param entry body WorkoutExerciseRequest true "Entry"
// @Success 200 {object} domain.WorkoutExercise
// @Failure 404 {object} gin.H "Not found"
// @Router /workout_exercises/{id} [put]
func (h *WorkoutHandler) UpdateWorkoutExercise(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req WorkoutExerciseRequest
	if !bindJSON(c, &req) {
		return
	}
	entry, err := h.workoutService.UpdateEntry(c.Request.Context(), req.toDomain(id))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

// DeleteWorkoutExercise godoc
// @Summary Delete a workout exercise entry and its sets
// @Tags WorkoutExercises
// @Param id path int true "Entry ID"
// @Success 204
// @Failure 404 {object} gin.H "Not found"
// @Router /workout_exercises/{id} [delete]
func (h *WorkoutHandler) DeleteWorkoutExercise(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.workoutService.DeleteEntry(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// --- Workout sets ---

// CreateWorkoutSet godoc
// @Summary Log a set
// @Tags WorkoutSets
// @Accept json
// @Produce json
// @Param set body WorkoutSetRequest true "Set"
// @Success 201 {object} domain.WorkoutSet
// @Failure 400 {object} gin.H "Invalid input"
// @Router /workout_sets [post]
func (h *WorkoutHandler) CreateWorkoutSet(c *gin.Context) {
	var req WorkoutSetRequest
	if !bindJSON(c, &req) {
		return
	}
	set, err := h.workoutService.CreateSet(c.Request.Context(), req.toDomain(0))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, set)
}

// ListWorkoutSets godoc
// @Summary List sets
// @Tags WorkoutSets
// @Produce json
// @Param workout_exercise_id query int false "Filter by workout exercise"
// @Success 200 {array} domain.WorkoutSet
// @Router /workout_sets [get]
func (h *WorkoutHandler) ListWorkoutSets(c *gin.Context) {
	entryID, ok := queryID(c, "workout_exercise_id")
	if !ok {
		return
	}
	sets, err := h.workoutService.ListSets(c.Request.Context(), entryID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sets)
}

// GetWorkoutSet godoc
// @Summary Get a set
// @Tags WorkoutSets
// @Produce json
// @Param id path int true "Set ID"
// @Success 200 {object} domain.WorkoutSet
// @Failure 404 {object} gin.H "Not found"
// @Router /workout_sets/{id} [get]
func (h *WorkoutHandler) GetWorkoutSet(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	set, err := h.workoutService.GetSet(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, set)
}

// UpdateWorkoutSet godoc
// @Summary Replace a set
// @Tags WorkoutSets
// @Accept json
// @Produce json
// @Param id path int true "Set ID"
// @Param set body WorkoutSetRequest true "Set"
// @Success 200 {object} domain.WorkoutSet
// @Failure 404 {object} gin.H "Not found"
// @Router /workout_sets/{id} [put]
func (h *WorkoutHandler) UpdateWorkoutSet(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req WorkoutSetRequest
	if !bindJSON(c, &req) {
		return
	}
	set, err := h.workoutService.UpdateSet(c.Request.Context(), req.toDomain(id))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, set)
}

// DeleteWorkoutSet godoc
// @Summary Delete a set
// @Tags WorkoutSets
// @Param id path int true "Set ID"
// @Success 204
// @Failure 404 {object} gin.H "Not found"
// @Router /workout_sets/{id} [delete]
func (h *WorkoutHandler) DeleteWorkoutSet(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.workoutService.DeleteSet(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
