package ginserver

import (
	"log/slog"
	"net/http"

	gin "github.com/gin-gonic/gin"

	"fleetbook/internal/app/booking"
	"fleetbook/internal/app/tenant"
)

type BookingHandler struct {
	Service *booking.Service
	Logger  *slog.Logger
}

// Calendar returns the vehicle's occupied ranges for the public date
// picker. Only ids, dates and statuses cross the wire; requester identity
// stays server-side.
func (h BookingHandler) Calendar(c *gin.Context) {
	ctx := c.Request.Context()
	entries, err := h.Service.VehicleCalendar(ctx, tenant.FromContext(ctx), c.Param("id"))
	if err != nil {
		writeError(c, h.Logger, err, "Failed to load reservations")
		return
	}
	c.JSON(http.StatusOK, gin.H{"reservations": entries})
}

type createRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	From      any    `json:"from"`
	To        any    `json:"to"`
	Type      string `json:"type"`
}

func (h BookingHandler) Create(c *gin.Context) {
	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid body"})
		return
	}
	ctx := c.Request.Context()
	id, err := h.Service.CreateBookingRequest(ctx, tenant.FromContext(ctx), booking.CreateParams{
		VehicleID: c.Param("id"),
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		From:      req.From,
		To:        req.To,
		Type:      req.Type,
	})
	if err != nil {
		writeError(c, h.Logger, err, "Failed to create reservation")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ok": true, "requestId": id})
}

var _ BookingHTTP = BookingHandler{}
