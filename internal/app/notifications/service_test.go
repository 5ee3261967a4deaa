package notifications

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"fleetbook/internal/app/tenant"
	"fleetbook/internal/domain/notification"
	"fleetbook/internal/domain/reservation"
	"fleetbook/internal/infra/storage/memory"
)

var site = tenant.Context{ID: "rental.example.com", Mode: tenant.Strict}

func seed(t *testing.T, store *memory.NotificationRepository, count int, read bool, tenantID string) {
	t.Helper()
	for i := 0; i < count; i++ {
		ref := reservation.UntaggedTenant()
		if tenantID != "" {
			ref = reservation.TaggedTenant(tenantID)
		}
		err := store.Create(context.Background(), &notification.Notification{
			ID:        fmt.Sprintf("%s-%d-%v", tenantID, i, read),
			Tenant:    ref,
			Type:      notification.TypeReservationRequested,
			Read:      read,
			CreatedAt: time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatal(err)
		}
	}
}

func TestListClampsLimit(t *testing.T) {
	store := memory.NewNotificationRepository()
	seed(t, store, 30, false, site.ID)
	svc := &Service{Store: store}

	tests := []struct {
		limit int
		want  int
	}{
		{0, 20},  // default
		{-5, 1},  // clamped up
		{5, 5},
		{500, 30}, // clamped to max, fewer stored
	}
	for _, tt := range tests {
		got, err := svc.List(context.Background(), site, false, tt.limit)
		if err != nil {
			t.Fatal(err)
		}
		if len(got) != tt.want {
			t.Errorf("List(limit=%d) returned %d, want %d", tt.limit, len(got), tt.want)
		}
	}
}

func TestListUnreadOnlyAndTenantScope(t *testing.T) {
	store := memory.NewNotificationRepository()
	seed(t, store, 3, false, site.ID)
	seed(t, store, 2, true, site.ID)
	seed(t, store, 4, false, "other.example.com")
	seed(t, store, 1, false, "") // legacy untagged
	svc := &Service{Store: store}

	got, err := svc.List(context.Background(), site, true, 50)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 4 { // 3 own unread + 1 legacy
		t.Fatalf("unread for tenant = %d, want 4", len(got))
	}

	dev := tenant.Context{ID: "localhost:3000", Mode: tenant.Permissive}
	got, err = svc.List(context.Background(), dev, false, 50)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 10 {
		t.Fatalf("permissive list = %d, want all 10", len(got))
	}
}

func TestSetRead(t *testing.T) {
	store := memory.NewNotificationRepository()
	seed(t, store, 1, false, site.ID)
	svc := &Service{Store: store}

	id := fmt.Sprintf("%s-0-false", site.ID)
	if err := svc.SetRead(context.Background(), id, true); err != nil {
		t.Fatal(err)
	}
	n, err := store.ByID(context.Background(), id)
	if err != nil || !n.Read {
		t.Fatalf("notification not marked read: %v %v", n, err)
	}

	if err := svc.SetRead(context.Background(), "ghost", true); !errors.Is(err, notification.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestMarkAllRead(t *testing.T) {
	store := memory.NewNotificationRepository()
	seed(t, store, 3, false, site.ID)
	seed(t, store, 2, true, site.ID)
	seed(t, store, 4, false, "other.example.com")
	svc := &Service{Store: store}

	updated, err := svc.MarkAllRead(context.Background(), site)
	if err != nil {
		t.Fatal(err)
	}
	if updated != 3 {
		t.Fatalf("updated = %d, want 3", updated)
	}
	remaining, _ := svc.List(context.Background(), site, true, 50)
	if len(remaining) != 0 {
		t.Errorf("unread after bulk = %d", len(remaining))
	}
}
