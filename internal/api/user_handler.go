package api

import (
	"net/http"

	"alcyxob/workout-tracker/internal/domain"
	"alcyxob/workout-tracker/internal/service"

	"github.com/gin-gonic/gin"
)

// UserHandler serves users and their body measurements.
type UserHandler struct {
	userService        service.UserService
	measurementService service.MeasurementService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService service.UserService, measurementService service.MeasurementService) *UserHandler {
	return &UserHandler{userService: userService, measurementService: measurementService}
}

// --- DTOs ---

// UserRequest is the body of user create and update calls. The password is
// stored as a bcrypt hash; leaving it empty on update keeps the current one.
type UserRequest struct {
	Username string  `json:"username" binding:"required"`
	Email    string  `json:"email" binding:"required,email"`
	Password string  `json:"password"`
	GoogleID *string `json:"google_id"`
}

func (r UserRequest) toDomain(id int64) *domain.User {
	return &domain.User{ID: id, Username: r.Username, Email: r.Email, GoogleID: r.GoogleID}
}

// MeasurementRequest is the body of body-measurement create and update calls.
type MeasurementRequest struct {
	UserID            int64       `json:"user_id" binding:"required"`
	Date              domain.Date `json:"date"`
	BodyWeightKg      *float64    `json:"body_weight_kg"`
	BodyFatPercentage *float64    `json:"body_fat_percentage"`
	Notes             *string     `json:"notes"`
}

func (r MeasurementRequest) toDomain(id int64) *domain.BodyMeasurement {
	return &domain.BodyMeasurement{
		ID:                id,
		UserID:            r.UserID,
		Date:              r.Date,
		BodyWeightKg:      r.BodyWeightKg,
		BodyFatPercentage: r.BodyFatPercentage,
		Notes:             r.Notes,
	}
}

// --- Users ---

// CreateUser godoc
// @Summary Create a user
// @Tags Users
// @Accept json
// @Produce json
// @Param user body UserRequest true "User details"
// @Success 201 {object} domain.User
// @Failure 400 {object} gin.H "Invalid input"
// @Failure 409 {object} gin.H "Email already registered"
// @Router /users [post]
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req UserRequest
	if !bindJSON(c, &req) {
		return
	}
	user, err := h.userService.Create(c.Request.Context(), req.toDomain(0), req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

// ListUsers godoc
// @Summary List users
// @Tags Users
// @Produce json
// @Success 200 {array} domain.User
// @Router /users [get]
func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.userService.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// GetUser godoc
// @Summary Get a user
// @Tags Users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} domain.User
// @Failure 404 {object} gin.H "User not found"
// @Router /users/{id} [get]
func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	user, err := h.userService.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// UpdateUser godoc
// @Summary Replace a user
// @Tags Users
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Param user body UserRequest true "User details"
// @Success 200 {object} domain.User
// @Failure 400 {object} gin.H "Invalid input"
// @Failure 404 {object} gin.H "User not found"
// @Router /users/{id} [put]
func (h *UserHandler) UpdateUser(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req UserRequest
	if !bindJSON(c, &req) {
		return
	}
	user, err := h.userService.Update(c.Request.Context(), req.toDomain(id), req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// DeleteUser godoc
// @Summary Delete a user with their workouts, routines and measurements
// @Tags Users
// @Param id path int true "User ID"
// @Success 204
// @Failure 404 {object} gin.H "User not found"
// @Router /users/{id} [delete]
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.userService.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// --- Body measurements ---

// CreateMeasurement godoc
// @Summary Record a body measurement
// @Tags BodyMeasurements
// @Accept json
// @Produce json
// @Param measurement body MeasurementRequest true "Measurement"
// @Success 201 {object} domain.BodyMeasurement
// @Failure 400 {object} gin.H "Invalid input"
// @Router /body_measurements [post]
func (h *UserHandler) CreateMeasurement(c *gin.Context) {
	var req MeasurementRequest
	if !bindJSON(c, &req) {
		return
	}
	m, err := h.measurementService.Create(c.Request.Context(), req.toDomain(0))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, m)
}

// ListMeasurements godoc
// @Summary List body measurements, newest first
// @Tags BodyMeasurements
// @Produce json
// @Param user_id query int false "Filter by user"
// @Success 200 {array} domain.BodyMeasurement
// @Router /body_measurements [get]
func (h *UserHandler) ListMeasurements(c *gin.Context) {
	userID, ok := queryID(c, "user_id")
	if !ok {
		return
	}
	list, err := h.measurementService.List(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// GetMeasurement godoc
// @Summary Get a body measurement
// @Tags BodyMeasurements
// @Produce json
// @Param id path int true "Measurement ID"
// @Success 200 {object} domain.BodyMeasurement
// @Failure 404 {object} gin.H "Not found"
// @Router /body_measurements/{id} [get]
func (h *UserHandler) GetMeasurement(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	m, err := h.measurementService.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

// UpdateMeasurement godoc
// @Summary Replace a body measurement
// @Tags BodyMeasurements
// @Accept json
// @Produce json
// @Param id path int true "Measurement ID"
// @Param measurement body MeasurementRequest true "Measurement"
// @Success 200 {object} domain.BodyMeasurement
// @Failure 404 {object} gin.H "Not found"
// @Router /body_measurements/{id} [put]
func (h *UserHandler) UpdateMeasurement(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req MeasurementRequest
	if !bindJSON(c, &req) {
		return
	}
	m, err := h.measurementService.Update(c.Request.Context(), req.toDomain(id))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

// DeleteMeasurement godoc
// @Summary Delete a body measurement
// @Tags BodyMeasurements
// @Param id path int true "Measurement ID"
// @Success 204
// @Failure 404 {object} gin.H "Not found"
// @Router /body_measurements/{id} [delete]
func (h *UserHandler) DeleteMeasurement(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.measurementService.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
