package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"alcyxob/workout-tracker/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Constants for context keys and headers
const (
	ContextRequestIDKey = "requestID"
	RequestIDHeader     = "X-Request-ID"
)

// RequestID tags every request with an id, reusing the caller's X-Request-ID when present.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(ContextRequestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// RequestLogger writes one structured log line per request.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		attrs := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"latency", time.Since(start),
			"request_id", c.GetString(ContextRequestIDKey),
			"client_ip", c.ClientIP(),
		}
		if len(c.Errors) > 0 {
			attrs = append(attrs, "error", c.Errors.String())
		}

		switch {
		case status >= http.StatusInternalServerError:
			slog.Error("request", attrs...)
		case status >= http.StatusBadRequest:
			slog.Warn("request", attrs...)
		default:
			slog.Info("request", attrs...)
		}
	}
}

// Recovery turns a handler panic into a 500 JSON error.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		slog.Error("panic recovered", "path", c.Request.URL.Path, "request_id", c.GetString(ContextRequestIDKey), "panic", recovered)
		abortWithError(c, http.StatusInternalServerError, "Internal Server Error")
	})
}

// Helper to return JSON error response and abort request
func abortWithError(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, gin.H{"error": message})
}

// respondError maps a service error onto its HTTP status. Unclassified errors
// are passed through as 500 with their message.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrValidation):
		abortWithError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrConflict):
		abortWithError(c, http.StatusConflict, err.Error())
	default:
		_ = c.Error(err)
		abortWithError(c, http.StatusInternalServerError, err.Error())
	}
}

// bindJSON binds the body and answers 400 on failure.
func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return false
	}
	return true
}

// pathID reads a positive integer path parameter.
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Invalid %s: %q", name, c.Param(name)))
		return 0, false
	}
	return id, true
}

// queryID reads an optional integer query filter; absent means nil.
func queryID(c *gin.Context, name string) (*int64, bool) {
	raw, ok := c.GetQuery(name)
	if !ok || raw == "" {
		return nil, true
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Invalid %s: %q", name, raw))
		return nil, false
	}
	return &id, true
}

// userIDParam reads ?user_id=, falling back to the configured default user.
func userIDParam(c *gin.Context, fallback int64) (int64, bool) {
	id, ok := queryID(c, "user_id")
	if !ok {
		return 0, false
	}
	if id == nil {
		return fallback, true
	}
	return *id, true
}
