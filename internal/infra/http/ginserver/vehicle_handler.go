package ginserver

import (
	"log/slog"
	"net/http"
	"time"

	gin "github.com/gin-gonic/gin"

	"fleetbook/internal/app/booking"
	"fleetbook/internal/domain/vehicle"
)

type VehicleHandler struct {
	Vehicles booking.VehicleRepository
	Logger   *slog.Logger
}

type vehicleView struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Category     string   `json:"category"`
	Summary      string   `json:"summary,omitempty"`
	BlockedDates []string `json:"blockedDates"`
	CreatedAt    string   `json:"createdAt,omitempty"`
}

func mapVehicle(v vehicle.Vehicle) vehicleView {
	view := vehicleView{
		ID:           v.ID,
		Name:         v.Name,
		Category:     v.Category,
		Summary:      v.Summary,
		BlockedDates: make([]string, 0, len(v.BlockedDays)),
	}
	for _, d := range v.BlockedDays {
		view.BlockedDates = append(view.BlockedDates, d.String())
	}
	if !v.CreatedAt.IsZero() {
		view.CreatedAt = v.CreatedAt.UTC().Format(time.RFC3339)
	}
	return view
}

func (h VehicleHandler) List(c *gin.Context) {
	vs, err := h.Vehicles.List(c.Request.Context())
	if err != nil {
		writeError(c, h.Logger, err, "Failed to list vehicles")
		return
	}
	views := make([]vehicleView, 0, len(vs))
	for _, v := range vs {
		views = append(views, mapVehicle(v))
	}
	c.JSON(http.StatusOK, gin.H{"vehicles": views})
}

func (h VehicleHandler) Get(c *gin.Context) {
	v, err := h.Vehicles.ByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, h.Logger, err, "Failed to load vehicle")
		return
	}
	c.JSON(http.StatusOK, mapVehicle(*v))
}

var _ VehicleHTTP = VehicleHandler{}
