package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tourbook/internal/service"
)

// DriverHandler handles HTTP requests from drivers.
type DriverHandler struct {
	driverService *service.DriverService
}

// NewDriverHandler creates a new DriverHandler.
func NewDriverHandler(driverService *service.DriverService) *DriverHandler {
	return &DriverHandler{driverService: driverService}
}

// AddVehicleRequest is the HTTP request body for registering a vehicle.
type AddVehicleRequest struct {
	CategoryID         string `json:"vehicle_category_id"`
	MakeModel          string `json:"make_model"`
	RegistrationNumber string `json:"registration_number"`
	YearManufactured   int    `json:"year_manufactured,omitempty"`
	Color              string `json:"color,omitempty"`
	SeatingCapacity    int    `json:"seating_capacity"`
	InsuranceExpiry    string `json:"insurance_expiry,omitempty"` // YYYY-MM-DD
}

// AddVehicle handles POST /v1/driver/vehicles
func (h *DriverHandler) AddVehicle(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}

	var req AddVehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	vehicle, err := h.driverService.AddVehicle(c.Request.Context(), service.AddVehicleRequest{
		UserID:             id.UserID,
		CategoryID:         req.CategoryID,
		MakeModel:          req.MakeModel,
		RegistrationNumber: req.RegistrationNumber,
		YearManufactured:   req.YearManufactured,
		Color:              req.Color,
		SeatingCapacity:    req.SeatingCapacity,
		InsuranceExpiry:    req.InsuranceExpiry,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toVehicleResponse(vehicle))
}

// ListVehicles handles GET /v1/driver/vehicles
func (h *DriverHandler) ListVehicles(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}

	vehicles, err := h.driverService.ListVehicles(c.Request.Context(), id.UserID)
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]VehicleResponse, 0, len(vehicles))
	for _, v := range vehicles {
		response = append(response, toVehicleResponse(v))
	}
	respondJSON(c, http.StatusOK, response)
}

// AvailableBookings handles GET /v1/driver/bookings/available
func (h *DriverHandler) AvailableBookings(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}

	bookings, err := h.driverService.AvailableBookings(c.Request.Context(), id.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, toBookingResponses(bookings))
}

// MyBookings handles GET /v1/driver/bookings
func (h *DriverHandler) MyBookings(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}

	bookings, err := h.driverService.MyBookings(c.Request.Context(), id.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, toBookingResponses(bookings))
}

// AcceptBooking handles POST /v1/driver/bookings/:id/accept
func (h *DriverHandler) AcceptBooking(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}

	booking, err := h.driverService.AcceptBooking(c.Request.Context(), id.UserID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, toBookingResponse(booking))
}
