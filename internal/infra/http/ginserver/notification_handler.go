package ginserver

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	gin "github.com/gin-gonic/gin"

	"fleetbook/internal/app/notifications"
	"fleetbook/internal/app/tenant"
	"fleetbook/internal/domain/notification"
)

type NotificationHandler struct {
	Service *notifications.Service
	Logger  *slog.Logger
}

type notificationView struct {
	ID              string `json:"id"`
	Type            string `json:"type"`
	RequestID       string `json:"requestId,omitempty"`
	VehicleID       string `json:"vehicleId,omitempty"`
	VehicleName     string `json:"vehicleName,omitempty"`
	VehicleCategory string `json:"vehicleCategory,omitempty"`
	ReservationType string `json:"reservationType,omitempty"`
	FirstName       string `json:"firstName,omitempty"`
	LastName        string `json:"lastName,omitempty"`
	Email           string `json:"email,omitempty"`
	Phone           string `json:"phone,omitempty"`
	From            string `json:"from,omitempty"`
	To              string `json:"to,omitempty"`
	Read            bool   `json:"read"`
	CreatedAt       string `json:"createdAt,omitempty"`
}

func mapNotification(n notification.Notification) notificationView {
	view := notificationView{
		ID:              n.ID,
		Type:            n.Type,
		RequestID:       n.RequestID,
		VehicleID:       n.VehicleID,
		VehicleName:     n.VehicleName,
		VehicleCategory: n.VehicleCategory,
		ReservationType: string(n.ReservationType),
		FirstName:       n.FirstName,
		LastName:        n.LastName,
		Email:           n.Email,
		Phone:           n.Phone,
		Read:            n.Read,
	}
	if !n.From.IsZero() {
		view.From = n.From.String()
	}
	if !n.To.IsZero() {
		view.To = n.To.String()
	}
	if !n.CreatedAt.IsZero() {
		view.CreatedAt = n.CreatedAt.UTC().Format(time.RFC3339)
	}
	return view
}

func (h NotificationHandler) List(c *gin.Context) {
	unreadOnly := c.Query("unreadOnly") == "true" || c.Query("unreadOnly") == "1"
	limit, _ := strconv.Atoi(c.Query("limit"))
	ctx := c.Request.Context()
	ns, err := h.Service.List(ctx, tenant.FromContext(ctx), unreadOnly, limit)
	if err != nil {
		writeError(c, h.Logger, err, "Failed to list notifications")
		return
	}
	views := make([]notificationView, 0, len(ns))
	for _, n := range ns {
		views = append(views, mapNotification(n))
	}
	c.JSON(http.StatusOK, gin.H{"notifications": views})
}

type bulkReadRequest struct {
	ReadAll bool `json:"readAll"`
}

// BulkRead only supports the read-all action; anything else in the body is
// rejected so a typo never silently becomes a no-op.
func (h NotificationHandler) BulkRead(c *gin.Context) {
	var req bulkReadRequest
	if err := c.ShouldBindJSON(&req); err != nil || !req.ReadAll {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid body"})
		return
	}
	ctx := c.Request.Context()
	updated, err := h.Service.MarkAllRead(ctx, tenant.FromContext(ctx))
	if err != nil {
		writeError(c, h.Logger, err, "Failed to update notifications")
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "updated": updated})
}

type setReadRequest struct {
	Read *bool `json:"read"`
}

func (h NotificationHandler) SetRead(c *gin.Context) {
	var req setReadRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Read == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid body"})
		return
	}
	if err := h.Service.SetRead(c.Request.Context(), c.Param("id"), *req.Read); err != nil {
		writeError(c, h.Logger, err, "Failed to update notification")
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

var _ NotificationHTTP = NotificationHandler{}
