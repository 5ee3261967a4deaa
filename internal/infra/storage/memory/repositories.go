// Package memory provides mutex-guarded in-memory repositories. They back
// the STORE=memory dev mode and the application tests.
package memory

import (
	"context"
	"sort"
	"sync"

	"fleetbook/internal/app/tenant"
	"fleetbook/internal/domain/availability"
	"fleetbook/internal/domain/calendar"
	"fleetbook/internal/domain/notification"
	"fleetbook/internal/domain/reservation"
	"fleetbook/internal/domain/vehicle"
)

func visible(ref reservation.TenantRef, tc tenant.Context) bool {
	if tc.Mode == tenant.Permissive {
		return true
	}
	return ref.Matches(tc.ID)
}

// VehicleRepository keeps the fleet read models.
type VehicleRepository struct {
	mu    sync.RWMutex
	items map[string]vehicle.Vehicle
}

func NewVehicleRepository() *VehicleRepository {
	return &VehicleRepository{items: make(map[string]vehicle.Vehicle)}
}

// Add seeds a vehicle.
func (r *VehicleRepository) Add(v vehicle.Vehicle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[v.ID] = v
}

func (r *VehicleRepository) ByID(ctx context.Context, id string) (*vehicle.Vehicle, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.items[id]
	if !ok {
		return nil, vehicle.ErrNotFound
	}
	return &v, nil
}

func (r *VehicleRepository) List(ctx context.Context) ([]vehicle.Vehicle, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]vehicle.Vehicle, 0, len(r.items))
	for _, v := range r.items {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// ReservationRepository keeps confirmed reservations.
type ReservationRepository struct {
	mu    sync.RWMutex
	items map[string]reservation.Reservation
}

func NewReservationRepository() *ReservationRepository {
	return &ReservationRepository{items: make(map[string]reservation.Reservation)}
}

// Add seeds a reservation.
func (r *ReservationRepository) Add(res reservation.Reservation) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[res.ID] = res
}

func (r *ReservationRepository) ActiveSpans(ctx context.Context, tc tenant.Context, vehicleID, excludeID string) ([]availability.Span, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var spans []availability.Span
	for _, res := range r.items {
		if res.VehicleID != vehicleID || res.ID == excludeID {
			continue
		}
		if !visible(res.Tenant, tc) {
			continue
		}
		if res.Status == reservation.StatusCanceled {
			continue
		}
		if res.From.IsZero() || res.To.IsZero() {
			continue
		}
		spans = append(spans, availability.Span{From: res.From, To: res.To})
	}
	return spans, nil
}

func (r *ReservationRepository) ForVehicle(ctx context.Context, tc tenant.Context, vehicleID string) ([]reservation.Reservation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []reservation.Reservation
	for _, res := range r.items {
		if res.VehicleID != vehicleID || !visible(res.Tenant, tc) {
			continue
		}
		out = append(out, res)
	}
	return out, nil
}

func (r *ReservationRepository) List(ctx context.Context, tc tenant.Context, vehicleID string) ([]reservation.Reservation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []reservation.Reservation
	for _, res := range r.items {
		if vehicleID != "" && res.VehicleID != vehicleID {
			continue
		}
		if !visible(res.Tenant, tc) {
			continue
		}
		out = append(out, res)
	}
	return out, nil
}

func (r *ReservationRepository) ByID(ctx context.Context, id string) (*reservation.Reservation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	res, ok := r.items[id]
	if !ok {
		return nil, reservation.ErrNotFound
	}
	return &res, nil
}

func (r *ReservationRepository) Patch(ctx context.Context, id string, p reservation.Patch) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	res, ok := r.items[id]
	if !ok {
		return reservation.ErrNotFound
	}
	if p.Email != nil {
		res.Email = *p.Email
	}
	if p.Phone != nil {
		res.Phone = *p.Phone
	}
	if p.Status != nil {
		res.Status = *p.Status
	}
	if p.From != nil {
		res.From = *p.From
	}
	if p.To != nil {
		res.To = *p.To
	}
	r.items[id] = res
	return nil
}

// RequestRepository keeps pending booking requests.
type RequestRepository struct {
	mu    sync.RWMutex
	items map[string]reservation.Request
}

func NewRequestRepository() *RequestRepository {
	return &RequestRepository{items: make(map[string]reservation.Request)}
}

func (r *RequestRepository) Create(ctx context.Context, req *reservation.Request) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[req.ID] = *req
	return nil
}

func (r *RequestRepository) PendingSpans(ctx context.Context, tc tenant.Context, vehicleID string) ([]availability.Span, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var spans []availability.Span
	for _, req := range r.items {
		if req.VehicleID != vehicleID || req.Status != reservation.RequestStatusNew {
			continue
		}
		if !visible(req.Tenant, tc) {
			continue
		}
		spans = append(spans, availability.Span{From: req.From, To: req.To})
	}
	return spans, nil
}

// ByID returns a stored request, for tests and the dev console.
func (r *RequestRepository) ByID(id string) (reservation.Request, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	req, ok := r.items[id]
	return req, ok
}

// NotificationRepository keeps admin notifications.
type NotificationRepository struct {
	mu    sync.RWMutex
	items map[string]notification.Notification
}

func NewNotificationRepository() *NotificationRepository {
	return &NotificationRepository{items: make(map[string]notification.Notification)}
}

func (r *NotificationRepository) Create(ctx context.Context, n *notification.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[n.ID] = *n
	return nil
}

func (r *NotificationRepository) List(ctx context.Context, tc tenant.Context, unreadOnly bool, limit int) ([]notification.Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []notification.Notification
	for _, n := range r.items {
		if !visible(n.Tenant, tc) {
			continue
		}
		if unreadOnly && n.Read {
			continue
		}
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *NotificationRepository) ByID(ctx context.Context, id string) (*notification.Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n, ok := r.items[id]
	if !ok {
		return nil, notification.ErrNotFound
	}
	return &n, nil
}

func (r *NotificationRepository) SetRead(ctx context.Context, id string, read bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.items[id]
	if !ok {
		return notification.ErrNotFound
	}
	n.Read = read
	r.items[id] = n
	return nil
}

func (r *NotificationRepository) MarkAllRead(ctx context.Context, tc tenant.Context, max int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	updated := 0
	for id, n := range r.items {
		if max > 0 && updated >= max {
			break
		}
		if n.Read || !visible(n.Tenant, tc) {
			continue
		}
		n.Read = true
		r.items[id] = n
		updated++
	}
	return updated, nil
}

// Seed loads a small demo fleet for STORE=memory runs.
func Seed(vehicles *VehicleRepository) {
	blocked, _ := calendar.Parse("2025-07-04")
	vehicles.Add(vehicle.Vehicle{
		ID:          "demo-berline",
		Name:        "Berline Démo",
		Category:    "Hybride",
		Summary:     "Véhicule de démonstration.",
		BlockedDays: []calendar.Day{blocked},
	})
}
