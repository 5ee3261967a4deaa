// Package notifications serves the admin bell: listing and read-flag
// toggles over the notifications created at booking intake.
package notifications

import (
	"context"

	"fleetbook/internal/app/tenant"
	"fleetbook/internal/domain/notification"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
	// bulkBatch caps how many unread records one mark-all-read call flips.
	bulkBatch = 200
)

// Repository is the notification store port.
type Repository interface {
	// List returns up to limit notifications visible to the tenant, newest
	// first, optionally unread only.
	List(ctx context.Context, tc tenant.Context, unreadOnly bool, limit int) ([]notification.Notification, error)
	// ByID returns notification.ErrNotFound for unknown ids.
	ByID(ctx context.Context, id string) (*notification.Notification, error)
	SetRead(ctx context.Context, id string, read bool) error
	// MarkAllRead flips up to max unread notifications of the tenant and
	// returns how many it updated.
	MarkAllRead(ctx context.Context, tc tenant.Context, max int) (int, error)
}

type Service struct {
	Store Repository
}

// List clamps the limit into [1, MaxLimit], defaulting when unset.
func (s *Service) List(ctx context.Context, tc tenant.Context, unreadOnly bool, limit int) ([]notification.Notification, error) {
	if limit == 0 {
		limit = DefaultLimit
	}
	if limit < 1 {
		limit = 1
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return s.Store.List(ctx, tc, unreadOnly, limit)
}

// SetRead toggles one notification's read flag.
func (s *Service) SetRead(ctx context.Context, id string, read bool) error {
	if _, err := s.Store.ByID(ctx, id); err != nil {
		return err
	}
	return s.Store.SetRead(ctx, id, read)
}

// MarkAllRead marks the tenant's unread notifications read and returns the
// updated count.
func (s *Service) MarkAllRead(ctx context.Context, tc tenant.Context) (int, error) {
	return s.Store.MarkAllRead(ctx, tc, bulkBatch)
}
