// Package booking is the public operation boundary of the availability
// engine: it normalizes intake, loads what the rule set needs, applies it,
// and persists the outcome.
package booking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"fleetbook/internal/app/policies"
	"fleetbook/internal/app/tenant"
	"fleetbook/internal/domain/availability"
	"fleetbook/internal/domain/calendar"
	"fleetbook/internal/domain/notification"
	"fleetbook/internal/domain/reservation"
	"fleetbook/internal/domain/vehicle"
)

var (
	// ErrMissingFields carries the exact message the public form surfaces.
	ErrMissingFields = errors.New("Missing fields")
	// ErrNoVehicle flags a legacy reservation without a vehicle reference;
	// its dates cannot be re-validated.
	ErrNoVehicle = errors.New("Reservation without vehicleId")
)

type Service struct {
	Vehicles      VehicleRepository
	Reservations  ReservationRepository
	Requests      RequestRepository
	Notifications NotificationWriter
	Mailer        policies.Mailer
	Events        policies.EventPublisher
	// HoldOnRequest makes pending requests occupy the calendar until staff
	// process them. Off by default: a request is an intake record, not a
	// hold.
	HoldOnRequest bool
	Logger        *slog.Logger
	// Now is replaceable in tests; defaults to time.Now.
	Now func() time.Time
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Service) today() calendar.Day {
	return calendar.FromTime(s.now())
}

type CreateParams struct {
	VehicleID string
	FirstName string
	LastName  string
	Email     string
	Phone     string
	From      any
	To        any
	Type      string
}

// CreateBookingRequest validates a public booking request against the
// public-intake policy and, on acceptance, persists the request and its
// admin notification. The two writes are not transactional: if the
// notification write fails after the request landed, the orphaned request
// stays (notifications are a convenience view, not the source of truth).
// Mail and event fan-out are fire and forget.
func (s *Service) CreateBookingRequest(ctx context.Context, tc tenant.Context, p CreateParams) (string, error) {
	p.VehicleID = trim(p.VehicleID)
	p.FirstName = trim(p.FirstName)
	p.LastName = trim(p.LastName)
	p.Email = trim(p.Email)
	p.Phone = trim(p.Phone)
	if p.VehicleID == "" || p.FirstName == "" || p.LastName == "" || p.Email == "" || p.Phone == "" || p.From == nil || p.To == nil {
		return "", ErrMissingFields
	}

	from, err := calendar.Parse(p.From)
	if err != nil {
		return "", &availability.Rejection{Code: availability.CodeInvalidRange, Message: "Invalid date range"}
	}
	to, err := calendar.Parse(p.To)
	if err != nil {
		return "", &availability.Rejection{Code: availability.CodeInvalidRange, Message: "Invalid date range"}
	}
	candidate := availability.Span{From: from, To: to}

	veh, err := s.loadVehicle(ctx, p.VehicleID)
	if err != nil {
		return "", err
	}
	blocked := calendar.DaySet{}
	if veh != nil {
		blocked = veh.BlockedSet()
	}

	existing, err := s.Reservations.ActiveSpans(ctx, tc, p.VehicleID, "")
	if err != nil {
		return "", fmt.Errorf("load active ranges: %w", err)
	}
	if s.HoldOnRequest {
		pending, err := s.Requests.PendingSpans(ctx, tc, p.VehicleID)
		if err != nil {
			return "", fmt.Errorf("load pending ranges: %w", err)
		}
		existing = append(existing, pending...)
	}

	if rej := availability.Evaluate(candidate, s.today(), blocked, existing, availability.PublicIntake); rej != nil {
		return "", rej
	}

	now := s.now()
	req := &reservation.Request{
		ID:        uuid.NewString(),
		VehicleID: p.VehicleID,
		Tenant:    reservation.TaggedTenant(tc.ID),
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Email:     p.Email,
		Phone:     p.Phone,
		From:      from,
		To:        to,
		Days:      calendar.Days(from, to),
		Type:      reservation.ParseRequestType(p.Type),
		Status:    reservation.RequestStatusNew,
		CreatedAt: now,
	}
	if err := s.Requests.Create(ctx, req); err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	notif := &notification.Notification{
		ID:              uuid.NewString(),
		Tenant:          req.Tenant,
		Type:            notification.TypeReservationRequested,
		RequestID:       req.ID,
		VehicleID:       p.VehicleID,
		ReservationType: req.Type,
		FirstName:       p.FirstName,
		LastName:        p.LastName,
		Email:           p.Email,
		Phone:           p.Phone,
		From:            from,
		To:              to,
		Read:            false,
		CreatedAt:       now,
	}
	if veh != nil {
		notif.VehicleName = veh.Name
		notif.VehicleCategory = veh.Category
	}
	if err := s.Notifications.Create(ctx, notif); err != nil {
		return "", fmt.Errorf("create notification: %w", err)
	}

	s.notifySideChannels(ctx, tc, req, veh)
	return req.ID, nil
}

func (s *Service) notifySideChannels(ctx context.Context, tc tenant.Context, req *reservation.Request, veh *vehicle.Vehicle) {
	vehicleName := req.VehicleID
	if veh != nil && veh.Name != "" {
		vehicleName = veh.Name
	}
	if s.Mailer != nil {
		mail := policies.Mail{
			To:      req.Email,
			Vehicle: vehicleName,
			From:    req.From.String(),
			ToDate:  req.To.String(),
		}
		if err := s.Mailer.Send(ctx, mail); err != nil && s.Logger != nil {
			s.Logger.Warn("booking mail not delivered", "request_id", req.ID, "error", err)
		}
	}
	if s.Events != nil {
		ev := policies.ReservationRequested{
			RequestID: req.ID,
			TenantID:  tc.ID,
			VehicleID: req.VehicleID,
			From:      req.From.String(),
			To:        req.To.String(),
			Days:      req.Days,
		}
		if err := s.Events.PublishReservationRequested(ctx, ev); err != nil && s.Logger != nil {
			s.Logger.Warn("booking event not published", "request_id", req.ID, "error", err)
		}
	}
}

type EditParams struct {
	Email  *string
	Phone  *string
	Status *string
	From   any
	To     any
}

// EditReservation stages a partial update and, when dates are touched,
// re-runs the full rule set with the staff-edit policy against every other
// reservation of the same vehicle and tenant. On rejection nothing is
// written.
func (s *Service) EditReservation(ctx context.Context, tc tenant.Context, id string, p EditParams) error {
	res, err := s.Reservations.ByID(ctx, id)
	if err != nil {
		return err
	}

	var patch reservation.Patch
	if p.Email != nil {
		v := trim(*p.Email)
		patch.Email = &v
	}
	if p.Phone != nil {
		v := trim(*p.Phone)
		patch.Phone = &v
	}
	if p.Status != nil {
		st := reservation.NormalizeStatus(*p.Status)
		patch.Status = &st
	}

	if p.From != nil || p.To != nil {
		newFrom, newTo := res.From, res.To
		if p.From != nil {
			if newFrom, err = calendar.Parse(p.From); err != nil {
				return &availability.Rejection{Code: availability.CodeInvalidRange, Message: "Invalid date range"}
			}
		}
		if p.To != nil {
			if newTo, err = calendar.Parse(p.To); err != nil {
				return &availability.Rejection{Code: availability.CodeInvalidRange, Message: "Invalid date range"}
			}
		}
		if res.VehicleID == "" {
			return ErrNoVehicle
		}

		veh, err := s.loadVehicle(ctx, res.VehicleID)
		if err != nil {
			return err
		}
		blocked := calendar.DaySet{}
		if veh != nil {
			blocked = veh.BlockedSet()
		}
		existing, err := s.Reservations.ActiveSpans(ctx, tc, res.VehicleID, id)
		if err != nil {
			return fmt.Errorf("load active ranges: %w", err)
		}

		candidate := availability.Span{From: newFrom, To: newTo}
		if rej := availability.Evaluate(candidate, s.today(), blocked, existing, availability.StaffEdit); rej != nil {
			return rej
		}
		patch.From = &newFrom
		patch.To = &newTo
	}

	if patch.Empty() {
		return nil
	}
	return s.Reservations.Patch(ctx, id, patch)
}

// SetReservationStatus flips a reservation's status without touching dates.
func (s *Service) SetReservationStatus(ctx context.Context, id, status string) error {
	if _, err := s.Reservations.ByID(ctx, id); err != nil {
		return err
	}
	st := reservation.NormalizeStatus(status)
	return s.Reservations.Patch(ctx, id, reservation.Patch{Status: &st})
}

// CalendarEntry is one occupied range on a vehicle's public calendar.
type CalendarEntry struct {
	ID     string `json:"id"`
	From   string `json:"from"`
	To     string `json:"to"`
	Status string `json:"status"`
}

// VehicleCalendar lists the vehicle's calendar-occupying reservations for
// the tenant. Only blocking statuses appear; records with unusable dates
// are skipped rather than surfaced.
func (s *Service) VehicleCalendar(ctx context.Context, tc tenant.Context, vehicleID string) ([]CalendarEntry, error) {
	rs, err := s.Reservations.ForVehicle(ctx, tc, vehicleID)
	if err != nil {
		return nil, err
	}
	entries := make([]CalendarEntry, 0, len(rs))
	for _, r := range rs {
		if r.From.IsZero() || r.To.IsZero() || !r.Status.Blocks() {
			continue
		}
		entries = append(entries, CalendarEntry{
			ID:     r.ID,
			From:   r.From.String(),
			To:     r.To.String(),
			Status: string(r.Status),
		})
	}
	return entries, nil
}

// Row is one line of the staff reservation listing and its CSV export.
type Row struct {
	ID              string `json:"id"`
	VehicleID       string `json:"vehicleId"`
	VehicleName     string `json:"vehicleName"`
	VehicleCategory string `json:"vehicleCategory"`
	From            string `json:"from"`
	To              string `json:"to"`
	Status          string `json:"status"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	CreatedAt       string `json:"createdAt"`
}

// ListReservations returns the tenant's reservations newest first, with the
// vehicle name and category denormalized in.
func (s *Service) ListReservations(ctx context.Context, tc tenant.Context, vehicleID string) ([]Row, error) {
	rs, err := s.Reservations.List(ctx, tc, vehicleID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(rs, func(i, j int) bool {
		return rs[i].CreatedAt.After(rs[j].CreatedAt)
	})

	names := map[string]*vehicle.Vehicle{}
	rows := make([]Row, 0, len(rs))
	for _, r := range rs {
		row := Row{
			ID:        r.ID,
			VehicleID: r.VehicleID,
			Status:    string(r.Status),
			Email:     r.Email,
			Phone:     r.Phone,
		}
		if !r.From.IsZero() {
			row.From = r.From.String()
		}
		if !r.To.IsZero() {
			row.To = r.To.String()
		}
		if !r.CreatedAt.IsZero() {
			row.CreatedAt = r.CreatedAt.UTC().Format(time.RFC3339)
		}
		if r.VehicleID != "" {
			veh, cached := names[r.VehicleID]
			if !cached {
				veh, err = s.loadVehicle(ctx, r.VehicleID)
				if err != nil {
					return nil, err
				}
				names[r.VehicleID] = veh
			}
			if veh != nil {
				row.VehicleName = veh.Name
				row.VehicleCategory = veh.Category
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// loadVehicle treats an unknown vehicle as absent rather than an error:
// requests may reference vehicles the fleet tool already removed, and
// availability then runs with an empty blocked set.
func (s *Service) loadVehicle(ctx context.Context, id string) (*vehicle.Vehicle, error) {
	veh, err := s.Vehicles.ByID(ctx, id)
	if err != nil {
		if errors.Is(err, vehicle.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("load vehicle: %w", err)
	}
	return veh, nil
}

func trim(s string) string { return strings.TrimSpace(s) }
