package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"tourbook/internal/auth"
	"tourbook/internal/maps"
	"tourbook/internal/middleware"
	"tourbook/internal/repository"
	"tourbook/internal/service"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

// SegmentErrorDetails names the leg that could not be resolved.
type SegmentErrorDetails struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// respondError sends an error response with the appropriate HTTP status code.
func respondError(c *gin.Context, err error) {
	code := mapErrorToHTTPStatus(err)
	resp := ErrorResponse{Error: err.Error()}

	var segErr *service.SegmentError
	if errors.As(err, &segErr) {
		resp.Details = SegmentErrorDetails{From: segErr.From, To: segErr.To}
	}
	if code == http.StatusInternalServerError {
		// Internal causes are logged by gin, not returned.
		_ = c.Error(err)
		resp.Error = "internal server error"
	}

	c.JSON(code, resp)
}

// respondJSON sends a JSON response with the given status code.
func respondJSON(c *gin.Context, code int, data any) {
	c.JSON(code, data)
}

// identity returns the authenticated caller or writes a 401.
func identity(c *gin.Context) (middleware.Identity, bool) {
	id, ok := middleware.GetIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "authentication required"})
	}
	return id, ok
}

// mapErrorToHTTPStatus maps service/repository errors to HTTP status codes.
func mapErrorToHTTPStatus(err error) int {
	switch {
	// Route resolution errors, by provider cause
	case errors.Is(err, maps.ErrNoRoute):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, maps.ErrTransient):
		return http.StatusServiceUnavailable
	case errors.Is(err, service.ErrSegmentUnavailable),
		errors.Is(err, maps.ErrRejected):
		return http.StatusBadGateway

	// Not found errors
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound

	// Validation errors - Bad Request
	case errors.Is(err, service.ErrInvalidRoute),
		errors.Is(err, service.ErrInvalidFareInput),
		errors.Is(err, service.ErrUnknownVehicleCategory),
		errors.Is(err, service.ErrCategoryNotSuitable),
		errors.Is(err, service.ErrInvalidBooking),
		errors.Is(err, service.ErrInvalidVehicle),
		errors.Is(err, service.ErrInvalidDriverStatus),
		errors.Is(err, service.ErrCannotModifySelf):
		return http.StatusBadRequest

	// Conflict errors
	case errors.Is(err, repository.ErrConflict),
		errors.Is(err, service.ErrBookingNotPending),
		errors.Is(err, service.ErrBookingLocked):
		return http.StatusConflict

	// Forbidden/Business rule errors
	case errors.Is(err, service.ErrDriverNotApproved),
		errors.Is(err, service.ErrNoMatchingVehicle):
		return http.StatusForbidden

	case errors.Is(err, auth.ErrInvalidToken):
		return http.StatusUnauthorized

	// Client went away
	case errors.Is(err, context.Canceled):
		return 499

	default:
		return http.StatusInternalServerError
	}
}
