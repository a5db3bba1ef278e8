package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"tourbook/internal/domain"
	"tourbook/internal/service"
)

// AdminHandler handles HTTP requests from the admin console.
type AdminHandler struct {
	adminService *service.AdminService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(adminService *service.AdminService) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

// UserResponse is an account in admin listings.
type UserResponse struct {
	ID         string `json:"id"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	IsVerified bool   `json:"is_verified"`
	IsActive   bool   `json:"is_active"`
	FirstName  string `json:"first_name,omitempty"`
	LastName   string `json:"last_name,omitempty"`
	Phone      string `json:"phone,omitempty"`
	CreatedAt  string `json:"created_at"`
}

// DriverResponse is a driver in admin listings.
type DriverResponse struct {
	ID            string `json:"id"`
	UserID        string `json:"user_id"`
	Email         string `json:"email,omitempty"`
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	Phone         string `json:"phone,omitempty"`
	Status        string `json:"status"`
	AdminNotes    string `json:"admin_notes,omitempty"`
	VehicleCount  int    `json:"vehicle_count"`
	TotalBookings int    `json:"total_bookings"`
	UpdatedAt     string `json:"updated_at"`
}

// UpdateDriverStatusRequest is the HTTP request body for a driver decision.
type UpdateDriverStatusRequest struct {
	Status string `json:"status"`
	Notes  string `json:"notes,omitempty"`
}

// AdminLogResponse is one audit log row.
type AdminLogResponse struct {
	ID          string          `json:"id"`
	AdminUserID string          `json:"admin_user_id"`
	AdminEmail  string          `json:"admin_email,omitempty"`
	Action      string          `json:"action"`
	Details     json.RawMessage `json:"details,omitempty"`
	CreatedAt   string          `json:"created_at"`
}

// RoleCountResponse is the per-role user breakdown.
type RoleCountResponse struct {
	Role     string `json:"role"`
	Count    int    `json:"count"`
	Verified int    `json:"verified"`
	Active   int    `json:"active"`
}

// BookingStatusResponse is the booking count and revenue in one status.
type BookingStatusResponse struct {
	Status  string `json:"status"`
	Count   int    `json:"count"`
	Revenue int64  `json:"revenue"`
}

// TotalsResponse holds the headline dashboard counters.
type TotalsResponse struct {
	Users          int    `json:"users"`
	Drivers        int    `json:"drivers"`
	Tourists       int    `json:"tourists"`
	Bookings       int    `json:"bookings"`
	Revenue        int64  `json:"revenue"`
	RevenueDisplay string `json:"revenue_display"`
}

// StatsResponse is the admin dashboard.
type StatsResponse struct {
	Users    []RoleCountResponse     `json:"users"`
	Drivers  map[string]int          `json:"drivers"`
	Bookings []BookingStatusResponse `json:"bookings"`
	Totals   TotalsResponse          `json:"totals"`
}

// Stats handles GET /v1/admin/stats
func (h *AdminHandler) Stats(c *gin.Context) {
	stats, err := h.adminService.Stats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	resp := StatsResponse{
		Users:    make([]RoleCountResponse, 0, len(stats.Users)),
		Drivers:  make(map[string]int, len(stats.Drivers)),
		Bookings: make([]BookingStatusResponse, 0, len(stats.Bookings)),
		Totals: TotalsResponse{
			Users:          stats.Totals.Users,
			Drivers:        stats.Totals.Drivers,
			Tourists:       stats.Totals.Tourists,
			Bookings:       stats.Totals.Bookings,
			Revenue:        stats.Totals.Revenue,
			RevenueDisplay: service.FormatRupees(stats.Totals.Revenue),
		},
	}
	for _, u := range stats.Users {
		resp.Users = append(resp.Users, RoleCountResponse{
			Role:     string(u.Role),
			Count:    u.Count,
			Verified: u.Verified,
			Active:   u.Active,
		})
	}
	for _, d := range stats.Drivers {
		resp.Drivers[string(d.Status)] = d.Count
	}
	for _, b := range stats.Bookings {
		resp.Bookings = append(resp.Bookings, BookingStatusResponse{
			Status:  string(b.Status),
			Count:   b.Count,
			Revenue: b.Revenue,
		})
	}

	respondJSON(c, http.StatusOK, resp)
}

// ListUsers handles GET /v1/admin/users
func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, err := h.adminService.ListUsers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]UserResponse, 0, len(users))
	for _, u := range users {
		response = append(response, UserResponse{
			ID:         u.ID,
			Email:      u.Email,
			Role:       string(u.Role),
			IsVerified: u.IsVerified,
			IsActive:   u.IsActive,
			FirstName:  u.FirstName,
			LastName:   u.LastName,
			Phone:      u.Phone,
			CreatedAt:  u.CreatedAt.Format(timeLayout),
		})
	}
	respondJSON(c, http.StatusOK, response)
}

// ToggleUserStatus handles PUT /v1/admin/users/:id/toggle-status
func (h *AdminHandler) ToggleUserStatus(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}

	user, err := h.adminService.ToggleUserStatus(c.Request.Context(), id.UserID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, gin.H{
		"id":        user.ID,
		"email":     user.Email,
		"is_active": user.IsActive,
	})
}

// ListDrivers handles GET /v1/admin/drivers
func (h *AdminHandler) ListDrivers(c *gin.Context) {
	drivers, err := h.adminService.ListDrivers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]DriverResponse, 0, len(drivers))
	for _, d := range drivers {
		response = append(response, toDriverResponse(&d.Driver, d.Email, d.VehicleCount, d.TotalBookings))
	}
	respondJSON(c, http.StatusOK, response)
}

// UpdateDriverStatus handles PUT /v1/admin/drivers/:id/status
func (h *AdminHandler) UpdateDriverStatus(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}

	var req UpdateDriverStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	driver, err := h.adminService.UpdateDriverStatus(c.Request.Context(), id.UserID, c.Param("id"), domain.DriverStatus(req.Status), req.Notes)
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, toDriverResponse(driver, "", 0, 0))
}

// ListBookings handles GET /v1/admin/bookings
func (h *AdminHandler) ListBookings(c *gin.Context) {
	bookings, err := h.adminService.ListBookings(c.Request.Context(), domain.BookingStatus(c.Query("status")))
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, toBookingResponses(bookings))
}

// Logs handles GET /v1/admin/logs
func (h *AdminHandler) Logs(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "limit must be an integer"})
			return
		}
		limit = n
	}

	logs, err := h.adminService.Logs(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]AdminLogResponse, 0, len(logs))
	for _, l := range logs {
		response = append(response, AdminLogResponse{
			ID:          l.ID,
			AdminUserID: l.AdminUserID,
			AdminEmail:  l.AdminEmail,
			Action:      l.Action,
			Details:     rawDetails(l.Details),
			CreatedAt:   l.CreatedAt.Format(timeLayout),
		})
	}
	respondJSON(c, http.StatusOK, response)
}

func toDriverResponse(d *domain.Driver, email string, vehicles, bookings int) DriverResponse {
	return DriverResponse{
		ID:            d.ID,
		UserID:        d.UserID,
		Email:         email,
		FirstName:     d.FirstName,
		LastName:      d.LastName,
		Phone:         d.Phone,
		Status:        string(d.Status),
		AdminNotes:    d.AdminNotes,
		VehicleCount:  vehicles,
		TotalBookings: bookings,
		UpdatedAt:     d.UpdatedAt.Format(timeLayout),
	}
}
