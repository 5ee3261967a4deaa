package ginserver

import (
	"log/slog"
	"net/http"

	gin "github.com/gin-gonic/gin"

	"fleetbook/internal/app/booking"
	"fleetbook/internal/app/tenant"
)

type AdminHandler struct {
	Service *booking.Service
	Logger  *slog.Logger
}

// ListReservations serves the back-office table, or the same rows as a CSV
// attachment when format=csv.
func (h AdminHandler) ListReservations(c *gin.Context) {
	ctx := c.Request.Context()
	rows, err := h.Service.ListReservations(ctx, tenant.FromContext(ctx), c.Query("vehicleId"))
	if err != nil {
		writeError(c, h.Logger, err, "Failed to list reservations")
		return
	}
	if c.Query("format") == "csv" {
		c.Header("Content-Type", "text/csv; charset=utf-8")
		c.Header("Content-Disposition", `attachment; filename="reservations.csv"`)
		c.Status(http.StatusOK)
		if err := booking.WriteCSV(c.Writer, rows); err != nil && h.Logger != nil {
			h.Logger.Error("csv export failed", "error", err)
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"reservations": rows})
}

type patchRequest struct {
	Email  *string `json:"email"`
	Phone  *string `json:"phone"`
	Status *string `json:"status"`
	From   any     `json:"from"`
	To     any     `json:"to"`
}

func (h AdminHandler) PatchReservation(c *gin.Context) {
	var req patchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid body"})
		return
	}
	ctx := c.Request.Context()
	err := h.Service.EditReservation(ctx, tenant.FromContext(ctx), c.Param("id"), booking.EditParams{
		Email:  req.Email,
		Phone:  req.Phone,
		Status: req.Status,
		From:   req.From,
		To:     req.To,
	})
	if err != nil {
		writeError(c, h.Logger, err, "Failed to update reservation")
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

type setStatusRequest struct {
	Status string `json:"status"`
}

// SetStatus flips the reservation status without re-running date rules;
// staff cancel and reinstate with it. Both "canceled" spellings are
// accepted and normalized.
func (h AdminHandler) SetStatus(c *gin.Context) {
	var req setStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Status == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid body"})
		return
	}
	if err := h.Service.SetReservationStatus(c.Request.Context(), c.Param("id"), req.Status); err != nil {
		writeError(c, h.Logger, err, "Failed to update reservation")
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

var _ AdminHTTP = AdminHandler{}
