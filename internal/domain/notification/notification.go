package notification

import (
	"errors"
	"time"

	"fleetbook/internal/domain/calendar"
	"fleetbook/internal/domain/reservation"
)

var ErrNotFound = errors.New("notification: not found")

const TypeReservationRequested = "reservation.requested"

// Notification is the admin-console record created alongside a booking
// request. It denormalizes the vehicle and requester summary so the bell
// listing never joins other collections; the request remains the source of
// truth. The only mutation ever applied is the read flag.
type Notification struct {
	ID              string
	Tenant          reservation.TenantRef
	Type            string
	RequestID       string
	VehicleID       string
	VehicleName     string
	VehicleCategory string
	ReservationType reservation.RequestType
	FirstName       string
	LastName        string
	Email           string
	Phone           string
	From            calendar.Day
	To              calendar.Day
	Read            bool
	CreatedAt       time.Time
}
