package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"tourbook/internal/service"
)

// BookingHandler handles quote, category and tourist booking requests.
type BookingHandler struct {
	bookingService *service.BookingService
}

// NewBookingHandler creates a new BookingHandler.
func NewBookingHandler(bookingService *service.BookingService) *BookingHandler {
	return &BookingHandler{bookingService: bookingService}
}

// QuoteRequest is the HTTP request body for a trip quote.
type QuoteRequest struct {
	Stops                 []string `json:"stops"`
	RoundTrip             bool     `json:"round_trip"`
	StartTime             string   `json:"start_time,omitempty"`
	Travelers             int      `json:"travelers,omitempty"`
	CategoryID            string   `json:"category_id,omitempty"`
	AccommodationProvided bool     `json:"accommodation_provided"`
}

// QuoteResponse is the HTTP response for a trip quote.
type QuoteResponse struct {
	Route RouteResponse  `json:"route"`
	Fares []FareResponse `json:"fares"`
}

// CreateBookingRequest is the HTTP request body for booking a trip.
type CreateBookingRequest struct {
	Stops                 []string `json:"stops"`
	RoundTrip             bool     `json:"round_trip"`
	StartDate             string   `json:"start_date"`
	StartTime             string   `json:"start_time,omitempty"`
	Travelers             int      `json:"travelers"`
	CategoryID            string   `json:"category_id"`
	AccommodationProvided bool     `json:"accommodation_provided"`
	SpecialRequirements   string   `json:"special_requirements,omitempty"`
}

// CreateBookingResponse is the HTTP response for a new booking.
type CreateBookingResponse struct {
	Booking BookingResponse `json:"booking"`
	Route   RouteResponse   `json:"route"`
	Fare    FareResponse    `json:"fare"`
}

// Quote handles POST /v1/quotes
func (h *BookingHandler) Quote(c *gin.Context) {
	var req QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	quote, err := h.bookingService.Quote(c.Request.Context(), service.QuoteRequest{
		Stops:                 req.Stops,
		RoundTrip:             req.RoundTrip,
		StartTime:             req.StartTime,
		Travelers:             req.Travelers,
		CategoryID:            req.CategoryID,
		AccommodationProvided: req.AccommodationProvided,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	fares := make([]FareResponse, 0, len(quote.Fares))
	for _, f := range quote.Fares {
		fares = append(fares, toFareResponse(f))
	}

	respondJSON(c, http.StatusOK, QuoteResponse{
		Route: toRouteResponse(quote.Route),
		Fares: fares,
	})
}

// Categories handles GET /v1/vehicle-categories
func (h *BookingHandler) Categories(c *gin.Context) {
	passengers := 0
	if raw := c.Query("passengers"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "passengers must be a positive integer"})
			return
		}
		passengers = n
	}

	respondJSON(c, http.StatusOK, toCategoryResponses(h.bookingService.Categories(passengers)))
}

// Create handles POST /v1/bookings
func (h *BookingHandler) Create(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}

	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	resp, err := h.bookingService.CreateBooking(c.Request.Context(), service.CreateBookingRequest{
		UserID:                id.UserID,
		Stops:                 req.Stops,
		RoundTrip:             req.RoundTrip,
		StartDate:             req.StartDate,
		StartTime:             req.StartTime,
		Travelers:             req.Travelers,
		CategoryID:            req.CategoryID,
		AccommodationProvided: req.AccommodationProvided,
		SpecialRequirements:   req.SpecialRequirements,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	view := bookingViewOf(resp.Booking, resp.Fare.CategoryName)
	respondJSON(c, http.StatusCreated, CreateBookingResponse{
		Booking: toBookingResponse(view),
		Route:   toRouteResponse(resp.Route),
		Fare:    toFareResponse(resp.Fare),
	})
}

// ListMine handles GET /v1/bookings/mine
func (h *BookingHandler) ListMine(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}

	bookings, err := h.bookingService.ListMine(c.Request.Context(), id.UserID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toBookingResponses(bookings))
}
