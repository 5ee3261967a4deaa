package booking

import (
	"context"

	"fleetbook/internal/app/tenant"
	"fleetbook/internal/domain/availability"
	"fleetbook/internal/domain/notification"
	"fleetbook/internal/domain/reservation"
	"fleetbook/internal/domain/vehicle"
)

// VehicleRepository reads the fleet. ByID returns vehicle.ErrNotFound for
// unknown ids.
type VehicleRepository interface {
	ByID(ctx context.Context, id string) (*vehicle.Vehicle, error)
	List(ctx context.Context) ([]vehicle.Vehicle, error)
}

// ReservationRepository reads and patches confirmed reservations. Every
// scoped query applies the tenant visibility rules: permissive contexts see
// all records, strict contexts see records tagged with their tenant plus
// untagged legacy records.
type ReservationRepository interface {
	// ActiveSpans returns the date spans of non-canceled reservations for
	// the vehicle, excluding excludeID when non-empty.
	ActiveSpans(ctx context.Context, tc tenant.Context, vehicleID, excludeID string) ([]availability.Span, error)
	// ForVehicle returns the vehicle's reservations regardless of status.
	ForVehicle(ctx context.Context, tc tenant.Context, vehicleID string) ([]reservation.Reservation, error)
	// List returns reservations for the tenant, optionally filtered by
	// vehicle, newest first.
	List(ctx context.Context, tc tenant.Context, vehicleID string) ([]reservation.Reservation, error)
	ByID(ctx context.Context, id string) (*reservation.Reservation, error)
	Patch(ctx context.Context, id string, p reservation.Patch) error
}

// RequestRepository persists pending booking requests.
type RequestRepository interface {
	Create(ctx context.Context, r *reservation.Request) error
	// PendingSpans returns the date spans of requests still in status new,
	// consulted only when the hold-on-request policy is enabled.
	PendingSpans(ctx context.Context, tc tenant.Context, vehicleID string) ([]availability.Span, error)
}

// NotificationWriter creates the admin notification paired with a request.
type NotificationWriter interface {
	Create(ctx context.Context, n *notification.Notification) error
}
