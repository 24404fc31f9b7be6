package api

import (
	"net/http"
	"strconv"

	"alcyxob/workout-tracker/internal/domain"
	"alcyxob/workout-tracker/internal/service"

	"github.com/gin-gonic/gin"
)

// ExerciseHandler serves the exercise library, muscles and their links.
type ExerciseHandler struct {
	exerciseService       service.ExerciseService
	muscleService         service.MuscleService
	exerciseMuscleService service.ExerciseMuscleService
}

// NewExerciseHandler creates a new ExerciseHandler.
func NewExerciseHandler(exerciseService service.ExerciseService, muscleService service.MuscleService, exerciseMuscleService service.ExerciseMuscleService) *ExerciseHandler {
	return &ExerciseHandler{
		exerciseService:       exerciseService,
		muscleService:         muscleService,
		exerciseMuscleService: exerciseMuscleService,
	}
}

// --- DTOs for API (Data Transfer Objects) ---

// ExerciseRequest defines the expected JSON for creating or replacing an exercise.
type ExerciseRequest struct {
	Name                 string               `json:"name" binding:"required"`
	Description          *string              `json:"description"`
	Type                 *domain.ExerciseType `json:"type"` // strength, cardio or flexibility
	Equipment            *string              `json:"equipment"`
	DefaultTempo         *string              `json:"default_tempo"`
	DefaultSets          *int                 `json:"default_sets" binding:"omitempty,min=0"`
	DefaultReps          *string              `json:"default_reps"` // e.g. "8-12"
	DefaultRestSeconds   *int                 `json:"default_rest_seconds" binding:"omitempty,min=0"`
	DefaultWeightPercent *float64             `json:"default_weight_percent"`
	DefaultTimeSeconds   *int                 `json:"default_time_seconds" binding:"omitempty,min=0"`
	TrackedMetrics       string               `json:"tracked_metrics"`
	MuscleGroups         []string             `json:"muscle_groups"` // muscle names; unknown names are created
}

func (r ExerciseRequest) toDomain(id int64) *domain.Exercise {
	return &domain.Exercise{
		ID:                   id,
		Name:                 r.Name,
		Description:          r.Description,
		Type:                 r.Type,
		Equipment:            r.Equipment,
		DefaultTempo:         r.DefaultTempo,
		DefaultSets:          r.DefaultSets,
		DefaultReps:          r.DefaultReps,
		DefaultRestSeconds:   r.DefaultRestSeconds,
		DefaultWeightPercent: r.DefaultWeightPercent,
		DefaultTimeSeconds:   r.DefaultTimeSeconds,
		TrackedMetrics:       r.TrackedMetrics,
		MuscleGroups:         r.MuscleGroups,
	}
}

// MuscleRequest defines the expected JSON for a muscle.
type MuscleRequest struct {
	Name string `json:"name" binding:"required"`
}

// ExerciseMuscleRequest links an exercise to a muscle.
type ExerciseMuscleRequest struct {
	ExerciseID int64 `json:"exercise_id" binding:"required"`
	MuscleID   int64 `json:"muscle_id" binding:"required"`
	IsPrimary  *bool `json:"is_primary"` // defaults to true
}

// ExerciseMuscleUpdateRequest changes the primary flag of an existing link.
type ExerciseMuscleUpdateRequest struct {
	IsPrimary *bool `json:"is_primary" binding:"required"`
}

// --- Exercises ---

// CreateExercise godoc
// @Summary Create a new exercise
// @Tags Exercises
// @Accept json
// @Produce json
// @Param exercise body ExerciseRequest true "Exercise details"
// @Success 201 {object} domain.Exercise "Exercise created successfully"
// @Failure 400 {object} gin.H "Invalid input (validation error)"
// @Failure 409 {object} gin.H "Name already taken"
// @Router /exercises [post]
func (h *ExerciseHandler) CreateExercise(c *gin.Context) {
	var req ExerciseRequest
	if !bindJSON(c, &req) {
		return
	}
	exercise, err := h.exerciseService.Create(c.Request.Context(), req.toDomain(0))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, exercise)
}

// ListExercises godoc
// @Summary List exercises by name
// @Tags Exercises
// @Produce json
// @Success 200 {array} domain.Exercise "List of exercises"
// @Router /exercises [get]
func (h *ExerciseHandler) ListExercises(c *gin.Context) {
	exercises, err := h.exerciseService.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	if exercises == nil {
		exercises = []domain.Exercise{}
	}
	c.JSON(http.StatusOK, exercises)
}

// GetExercise godoc
// @Summary Get an exercise
// @Tags Exercises
// @Produce json
// @Param id path int true "Exercise ID"
// @Success 200 {object} domain.Exercise
// @Failure 404 {object} gin.H "Exercise not found"
// @Router /exercises/{id} [get]
func (h *ExerciseHandler) GetExercise(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	exercise, err := h.exerciseService.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, exercise)
}

// UpdateExercise godoc
// @Summary Replace an exercise
// @Tags Exercises
// @Accept json
// @Produce json
// @Param id path int true "Exercise ID"
// @Param exercise body ExerciseRequest true "Exercise details"
// @Success 200 {object} domain.Exercise
// @Failure 400 {object} gin.H "Invalid input"
// @Failure 404 {object} gin.H "Exercise not found"
// @Failure 409 {object} gin.H "Name already taken"
// @Router /exercises/{id} [put]
func (h *ExerciseHandler) UpdateExercise(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req ExerciseRequest
	if !bindJSON(c, &req) {
		return
	}
	exercise, err := h.exerciseService.Update(c.Request.Context(), req.toDomain(id))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, exercise)
}

// DeleteExercise godoc
// @Summary Delete an unreferenced exercise
// @Description Refuses with 409 while workouts or routines still reference the exercise; use POST /exercises/{id}/delete to migrate them.
// @Tags Exercises
// @Param id path int true "Exercise ID"
// @Success 204
// @Failure 404 {object} gin.H "Exercise not found"
// @Failure 409 {object} gin.H "Exercise in use"
// @Router /exercises/{id} [delete]
func (h *ExerciseHandler) DeleteExercise(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.exerciseService.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ExerciseUsage godoc
// @Summary Count workout and routine entries referencing an exercise
// @Tags Exercises
// @Produce json
// @Param id path int true "Exercise ID"
// @Success 200 {object} service.Usage
// @Failure 404 {object} gin.H "Exercise not found"
// @Router /exercises/{id}/usage [get]
func (h *ExerciseHandler) ExerciseUsage(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	usage, err := h.exerciseService.Usage(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, usage)
}

// DeleteExerciseWithMigration godoc
// @Summary Delete an exercise, migrating or deleting its references
// @Description strategy is one of delete_all, migrate_to_existing (needs target_exercise_id) or migrate_to_new (needs new_exercise_name). Runs in one transaction.
// @Tags Exercises
// @Accept json
// @Produce json
// @Param id path int true "Exercise ID"
// @Param request body service.DeleteRequest true "Deletion strategy"
// @Success 200 {object} service.DeleteResult
// @Failure 400 {object} gin.H "Invalid strategy or arguments"
// @Failure 404 {object} gin.H "Exercise or target not found"
// @Failure 409 {object} gin.H "New name already taken"
// @Router /exercises/{id}/delete [post]
func (h *ExerciseHandler) DeleteExerciseWithMigration(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req service.DeleteRequest
	if !bindJSON(c, &req) {
		return
	}
	result, err := h.exerciseService.DeleteWithMigration(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// LastSet godoc
// @Summary Most recent set with a given number for an exercise
// @Tags Exercises
// @Produce json
// @Param id path int true "Exercise ID"
// @Param set_number query int true "Set number (1-based)"
// @Param current_workout_id query int false "Workout to exclude"
// @Success 200 {object} service.LastSet "null when there is no earlier set"
// @Failure 400 {object} gin.H "Invalid set_number"
// @Router /exercises/{id}/last_set [get]
func (h *ExerciseHandler) LastSet(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	setNumber, err := strconv.Atoi(c.Query("set_number"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "set_number query parameter is required")
		return
	}
	current, ok := queryID(c, "current_workout_id")
	if !ok {
		return
	}
	last, err := h.exerciseService.LastSet(c.Request.Context(), id, setNumber, current)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, last)
}

// --- Muscles ---

// CreateMuscle godoc
// @Summary Create a muscle
// @Tags Muscles
// @Accept json
// @Produce json
// @Param muscle body MuscleRequest true "Muscle"
// @Success 201 {object} domain.Muscle
// @Failure 409 {object} gin.H "Name already taken"
// @Router /muscles [post]
func (h *ExerciseHandler) CreateMuscle(c *gin.Context) {
	var req MuscleRequest
	if !bindJSON(c, &req) {
		return
	}
	muscle, err := h.muscleService.Create(c.Request.Context(), &domain.Muscle{Name: req.Name})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, muscle)
}

// ListMuscles godoc
// @Summary List muscles
// @Tags Muscles
// @Produce json
// @Success 200 {array} domain.Muscle
// @Router /muscles [get]
func (h *ExerciseHandler) ListMuscles(c *gin.Context) {
	muscles, err := h.muscleService.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, muscles)
}

// GetMuscle godoc
// @Summary Get a muscle
// @Tags Muscles
// @Produce json
// @Param id path int true "Muscle ID"
// @Success 200 {object} domain.Muscle
// @Failure 404 {object} gin.H "Muscle not found"
// @Router /muscles/{id} [get]
func (h *ExerciseHandler) GetMuscle(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	muscle, err := h.muscleService.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, muscle)
}

// UpdateMuscle godoc
// @Summary Rename a muscle
// @Tags Muscles
// @Accept json
// @Produce json
// @Param id path int true "Muscle ID"
// @Param muscle body MuscleRequest true "Muscle"
// @Success 200 {object} domain.Muscle
// @Failure 404 {object} gin.H "Muscle not found"
// @Router /muscles/{id} [put]
func (h *ExerciseHandler) UpdateMuscle(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req MuscleRequest
	if !bindJSON(c, &req) {
		return
	}
	muscle, err := h.muscleService.Update(c.Request.Context(), &domain.Muscle{ID: id, Name: req.Name})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, muscle)
}

// DeleteMuscle godoc
// @Summary Delete a muscle and its exercise links
// @Tags Muscles
// @Param id path int true "Muscle ID"
// @Success 204
// @Failure 404 {object} gin.H "Muscle not found"
// @Router /muscles/{id} [delete]
func (h *ExerciseHandler) DeleteMuscle(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.muscleService.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// --- Exercise muscles ---

// CreateExerciseMuscle godoc
// @Summary Link a muscle to an exercise
// @Tags ExerciseMuscles
// @Accept json
// @Produce json
// @Param link body ExerciseMuscleRequest true "Link"
// @Success 201 {object} domain.ExerciseMuscle
// @Failure 400 {object} gin.H "Exercise or muscle does not exist"
// @Failure 409 {object} gin.H "Link already exists"
// @Router /exercise_muscles [post]
func (h *ExerciseHandler) CreateExerciseMuscle(c *gin.Context) {
	var req ExerciseMuscleRequest
	if !bindJSON(c, &req) {
		return
	}
	link := &domain.ExerciseMuscle{ExerciseID: req.ExerciseID, MuscleID: req.MuscleID, IsPrimary: true}
	if req.IsPrimary != nil {
		link.IsPrimary = *req.IsPrimary
	}
	created, err := h.exerciseMuscleService.Create(c.Request.Context(), link)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// ListExerciseMuscles godoc
// @Summary List exercise-muscle links
// @Tags ExerciseMuscles
// @Produce json
// @Param exercise_id query int false "Filter by exercise"
// @Success 200 {array} domain.ExerciseMuscle
// @Router /exercise_muscles [get]
func (h *ExerciseHandler) ListExerciseMuscles(c *gin.Context) {
	exerciseID, ok := queryID(c, "exercise_id")
	if !ok {
		return
	}
	links, err := h.exerciseMuscleService.List(c.Request.Context(), exerciseID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, links)
}

func linkIDs(c *gin.Context) (int64, int64, bool) {
	exerciseID, ok := pathID(c, "exercise_id")
	if !ok {
		return 0, 0, false
	}
	muscleID, ok := pathID(c, "muscle_id")
	return exerciseID, muscleID, ok
}

// GetExerciseMuscle godoc
// @Summary Get one exercise-muscle link
// @Tags ExerciseMuscles
// @Produce json
// @Param exercise_id path int true "Exercise ID"
// @Param muscle_id path int true "Muscle ID"
// @Success 200 {object} domain.ExerciseMuscle
// @Failure 404 {object} gin.H "Link not found"
// @Router /exercise_muscles/{exercise_id}/{muscle_id} [get]
func (h *ExerciseHandler) GetExerciseMuscle(c *gin.Context) {
	exerciseID, muscleID, ok := linkIDs(c)
	if !ok {
		return
	}
	link, err := h.exerciseMuscleService.Get(c.Request.Context(), exerciseID, muscleID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, link)
}

// UpdateExerciseMuscle godoc
// @Summary Change whether a muscle is primary for an exercise
// @Tags ExerciseMuscles
// @Accept json
// @Produce json
// @Param exercise_id path int true "Exercise ID"
// @Param muscle_id path int true "Muscle ID"
// @Param link body ExerciseMuscleUpdateRequest true "Primary flag"
// @Success 200 {object} domain.ExerciseMuscle
// @Failure 404 {object} gin.H "Link not found"
// @Router /exercise_muscles/{exercise_id}/{muscle_id} [put]
func (h *ExerciseHandler) UpdateExerciseMuscle(c *gin.Context) {
	exerciseID, muscleID, ok := linkIDs(c)
	if !ok {
		return
	}
	var req ExerciseMuscleUpdateRequest
	if !bindJSON(c, &req) {
		return
	}
	link, err := h.exerciseMuscleService.Update(c.Request.Context(), &domain.ExerciseMuscle{
		ExerciseID: exerciseID,
		MuscleID:   muscleID,
		IsPrimary:  *req.IsPrimary,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, link)
}

// DeleteExerciseMuscle godoc
// @Summary Unlink a muscle from an exercise
// @Tags ExerciseMuscles
// @Param exercise_id path int true "Exercise ID"
// @Param muscle_id path int true "Muscle ID"
// @Success 204
// @Failure 404 {object} gin.H "Link not found"
// @Router /exercise_muscles/{exercise_id}/{muscle_id} [delete]
func (h *ExerciseHandler) DeleteExerciseMuscle(c *gin.Context) {
	exerciseID, muscleID, ok := linkIDs(c)
	if !ok {
		return
	}
	if err := h.exerciseMuscleService.Delete(c.Request.Context(), exerciseID, muscleID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
