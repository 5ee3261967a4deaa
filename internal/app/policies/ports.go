// Package policies declares the outbound ports of the booking application.
package policies

import "context"

// Mail is the confirmation message sent to a requester after intake.
type Mail struct {
	To      string `json:"to"`
	Vehicle string `json:"vehicle"`
	From    string `json:"from"`
	ToDate  string `json:"toDate"`
}

// Mailer delivers booking mail over a side channel. Callers treat delivery
// as best effort: a failed send never fails the booking.
type Mailer interface {
	Send(ctx context.Context, m Mail) error
}

// ReservationRequested is the event emitted when a public booking request
// passes validation and is persisted.
type ReservationRequested struct {
	RequestID string `json:"request_id"`
	TenantID  string `json:"tenant_id"`
	VehicleID string `json:"vehicle_id"`
	From      string `json:"from"`
	To        string `json:"to"`
	Days      int    `json:"days"`
}

// EventPublisher fans booking events out to interested consumers, best
// effort like the mailer.
type EventPublisher interface {
	PublishReservationRequested(ctx context.Context, e ReservationRequested) error
}
