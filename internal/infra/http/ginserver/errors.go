package ginserver

import (
	"errors"
	"log/slog"
	"net/http"

	gin "github.com/gin-gonic/gin"

	"fleetbook/internal/app/booking"
	"fleetbook/internal/domain/availability"
	"fleetbook/internal/domain/notification"
	"fleetbook/internal/domain/reservation"
	"fleetbook/internal/domain/vehicle"
)

// writeError maps a service error onto the wire: rule rejections keep their
// message (409 for date conflicts, 400 otherwise), input errors are 400,
// missing records 404. Anything else becomes a 500 with the generic
// fallback so store internals never leak to clients.
func writeError(c *gin.Context, log *slog.Logger, err error, fallback string) {
	var rej *availability.Rejection
	if errors.As(err, &rej) {
		status := http.StatusBadRequest
		if rej.Code == availability.CodeDateConflict {
			status = http.StatusConflict
		}
		c.JSON(status, gin.H{"error": rej.Message})
		return
	}
	switch {
	case errors.Is(err, booking.ErrMissingFields),
		errors.Is(err, booking.ErrNoVehicle):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, reservation.ErrNotFound),
		errors.Is(err, notification.ErrNotFound),
		errors.Is(err, vehicle.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	default:
		if log != nil {
			log.Error(fallback, "error", err)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}
