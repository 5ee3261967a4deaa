package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"fleetbook/internal/app/policies"
	"fleetbook/internal/app/tenant"
	"fleetbook/internal/domain/availability"
	"fleetbook/internal/domain/calendar"
	"fleetbook/internal/domain/reservation"
	"fleetbook/internal/domain/vehicle"
	"fleetbook/internal/infra/storage/memory"
)

type fixture struct {
	svc           *Service
	vehicles      *memory.VehicleRepository
	reservations  *memory.ReservationRepository
	requests      *memory.RequestRepository
	notifications *memory.NotificationRepository
}

type recordingMailer struct {
	sent []policies.Mail
	err  error
}

func (m *recordingMailer) Send(_ context.Context, mail policies.Mail) error {
	m.sent = append(m.sent, mail)
	return m.err
}

func newFixture(t *testing.T, today string) *fixture {
	t.Helper()
	now, err := time.Parse("2006-01-02", today)
	if err != nil {
		t.Fatal(err)
	}
	now = now.Add(12 * time.Hour)
	f := &fixture{
		vehicles:      memory.NewVehicleRepository(),
		reservations:  memory.NewReservationRepository(),
		requests:      memory.NewRequestRepository(),
		notifications: memory.NewNotificationRepository(),
	}
	f.svc = &Service{
		Vehicles:      f.vehicles,
		Reservations:  f.reservations,
		Requests:      f.requests,
		Notifications: f.notifications,
		Now:           func() time.Time { return now },
	}
	return f
}

func mustDay(t *testing.T, s string) calendar.Day {
	t.Helper()
	d, err := calendar.Parse(s)
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func seedVehicle(f *fixture, id string, blocked ...calendar.Day) {
	f.vehicles.Add(vehicle.Vehicle{ID: id, Name: "Peugeot 508", Category: "Hybride", BlockedDays: blocked})
}

func seedReservation(t *testing.T, f *fixture, id, vehicleID, tenantID, from, to string, status reservation.Status) {
	t.Helper()
	f.reservations.Add(reservation.Reservation{
		ID:        id,
		VehicleID: vehicleID,
		Tenant:    reservation.TaggedTenant(tenantID),
		From:      mustDay(t, from),
		To:        mustDay(t, to),
		Status:    status,
		Email:     "old@example.com",
		Phone:     "0600000000",
		CreatedAt: time.Now(),
	})
}

var site = tenant.Context{ID: "rental.example.com", Mode: tenant.Strict}

func createParams(vehicleID, from, to string) CreateParams {
	return CreateParams{
		VehicleID: vehicleID,
		FirstName: "Jean",
		LastName:  "Dupont",
		Email:     "jean@example.com",
		Phone:     "0612345678",
		From:      from,
		To:        to,
	}
}

func wantRejection(t *testing.T, err error, code availability.Code) *availability.Rejection {
	t.Helper()
	var rej *availability.Rejection
	if !errors.As(err, &rej) {
		t.Fatalf("expected rejection, got %v", err)
	}
	if rej.Code != code {
		t.Fatalf("code = %s (%s), want %s", rej.Code, rej.Message, code)
	}
	return rej
}

func TestCreateBookingRequestPersistsRequestAndNotification(t *testing.T) {
	f := newFixture(t, "2025-05-01")
	seedVehicle(f, "v1")
	mailer := &recordingMailer{}
	f.svc.Mailer = mailer

	id, err := f.svc.CreateBookingRequest(context.Background(), site, createParams("v1", "2025-05-10", "2025-05-17"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	req, ok := f.requests.ByID(id)
	if !ok {
		t.Fatal("request not persisted")
	}
	if req.Days != 8 || req.Type != reservation.TypeSimple || req.Status != reservation.RequestStatusNew {
		t.Errorf("request fields: %+v", req)
	}
	if !req.Tenant.Matches(site.ID) || !req.Tenant.Tagged() {
		t.Error("request must be tagged with the resolved tenant")
	}

	notifs, err := f.notifications.List(context.Background(), site, false, 10)
	if err != nil || len(notifs) != 1 {
		t.Fatalf("notifications = %v, %v", notifs, err)
	}
	n := notifs[0]
	if n.RequestID != id || n.Read || n.VehicleName != "Peugeot 508" {
		t.Errorf("notification fields: %+v", n)
	}

	if len(mailer.sent) != 1 || mailer.sent[0].To != "jean@example.com" || mailer.sent[0].From != "2025-05-10" {
		t.Errorf("mail = %+v", mailer.sent)
	}
}

func TestCreateBookingRequestMailFailureIsSwallowed(t *testing.T) {
	f := newFixture(t, "2025-05-01")
	seedVehicle(f, "v1")
	f.svc.Mailer = &recordingMailer{err: errors.New("smtp down")}

	if _, err := f.svc.CreateBookingRequest(context.Background(), site, createParams("v1", "2025-05-10", "2025-05-17")); err != nil {
		t.Fatalf("mail failure must not fail the booking: %v", err)
	}
}

func TestCreateBookingRequestMissingFields(t *testing.T) {
	f := newFixture(t, "2025-05-01")
	p := createParams("v1", "2025-05-10", "2025-05-17")
	p.Email = "   "
	if _, err := f.svc.CreateBookingRequest(context.Background(), site, p); !errors.Is(err, ErrMissingFields) {
		t.Fatalf("err = %v, want ErrMissingFields", err)
	}
}

func TestCreateBookingRequestScenarios(t *testing.T) {
	// Scenario A: overlap with an active reservation.
	t.Run("overlap", func(t *testing.T) {
		f := newFixture(t, "2025-05-01")
		seedVehicle(f, "v1")
		seedReservation(t, f, "r1", "v1", site.ID, "2025-06-10", "2025-06-15", reservation.StatusActive)
		_, err := f.svc.CreateBookingRequest(context.Background(), site, createParams("v1", "2025-06-14", "2025-06-20"))
		wantRejection(t, err, availability.CodeDateConflict)
	})

	// Scenario B: blocked day inside an otherwise valid range.
	t.Run("blocked day", func(t *testing.T) {
		f := newFixture(t, "2025-05-01")
		seedVehicle(f, "v1", mustDay(t, "2025-07-04"))
		_, err := f.svc.CreateBookingRequest(context.Background(), site, createParams("v1", "2025-07-01", "2025-07-08"))
		rej := wantRejection(t, err, availability.CodeBlockedDate)
		if rej.Message != "Plage comporte des jours bloqués" {
			t.Errorf("message = %q", rej.Message)
		}
	})

	// Scenario C: six days, below the public seven-day minimum.
	t.Run("below minimum", func(t *testing.T) {
		f := newFixture(t, "2025-05-01")
		seedVehicle(f, "v1")
		_, err := f.svc.CreateBookingRequest(context.Background(), site, createParams("v1", "2025-05-01", "2025-05-06"))
		rej := wantRejection(t, err, availability.CodeDurationTooShort)
		if rej.Message != "Durée minimale: 7 jours" {
			t.Errorf("message = %q", rej.Message)
		}
	})

	// A canceled reservation never participates in overlap checks.
	t.Run("canceled is transparent", func(t *testing.T) {
		f := newFixture(t, "2025-05-01")
		seedVehicle(f, "v1")
		seedReservation(t, f, "r1", "v1", site.ID, "2025-06-10", "2025-06-16", reservation.StatusCanceled)
		if _, err := f.svc.CreateBookingRequest(context.Background(), site, createParams("v1", "2025-06-10", "2025-06-16")); err != nil {
			t.Fatalf("identical range to a canceled reservation must be accepted: %v", err)
		}
	})

	// Unknown vehicles still take requests; there is just no blocked set.
	t.Run("unknown vehicle", func(t *testing.T) {
		f := newFixture(t, "2025-05-01")
		if _, err := f.svc.CreateBookingRequest(context.Background(), site, createParams("ghost", "2025-05-10", "2025-05-17")); err != nil {
			t.Fatalf("create: %v", err)
		}
	})
}

// Scenario E: pending requests do not hold the slot, so two identical
// create calls both pass the rule check. With HoldOnRequest the second one
// conflicts.
func TestHoldOnRequestPolicy(t *testing.T) {
	f := newFixture(t, "2025-05-01")
	seedVehicle(f, "v1")

	if _, err := f.svc.CreateBookingRequest(context.Background(), site, createParams("v1", "2025-05-10", "2025-05-17")); err != nil {
		t.Fatalf("first create: %v", err)
	}
	if _, err := f.svc.CreateBookingRequest(context.Background(), site, createParams("v1", "2025-05-10", "2025-05-17")); err != nil {
		t.Fatalf("without hold the duplicate range must pass: %v", err)
	}

	f.svc.HoldOnRequest = true
	_, err := f.svc.CreateBookingRequest(context.Background(), site, createParams("v1", "2025-05-10", "2025-05-17"))
	wantRejection(t, err, availability.CodeDateConflict)
}

func TestEditReservation(t *testing.T) {
	// Scenario D: shrink to three days within staff bounds.
	t.Run("shrink dates", func(t *testing.T) {
		f := newFixture(t, "2025-05-01")
		seedVehicle(f, "v1")
		seedReservation(t, f, "r1", "v1", site.ID, "2025-08-01", "2025-08-05", reservation.StatusActive)

		err := f.svc.EditReservation(context.Background(), site, "r1", EditParams{From: "2025-08-01", To: "2025-08-03"})
		if err != nil {
			t.Fatalf("edit: %v", err)
		}
		got, err := f.reservations.ByID(context.Background(), "r1")
		if err != nil {
			t.Fatal(err)
		}
		if got.From.String() != "2025-08-01" || got.To.String() != "2025-08-03" {
			t.Errorf("stored range = %s..%s", got.From, got.To)
		}
	})

	// Self-exclusion: re-saving the current dates must pass.
	t.Run("edit to same value", func(t *testing.T) {
		f := newFixture(t, "2025-05-01")
		seedVehicle(f, "v1")
		seedReservation(t, f, "r1", "v1", site.ID, "2025-08-01", "2025-08-05", reservation.StatusActive)
		if err := f.svc.EditReservation(context.Background(), site, "r1", EditParams{From: "2025-08-01", To: "2025-08-05"}); err != nil {
			t.Fatalf("self-overlap must be excluded: %v", err)
		}
	})

	t.Run("overlap with other reservation", func(t *testing.T) {
		f := newFixture(t, "2025-05-01")
		seedVehicle(f, "v1")
		seedReservation(t, f, "r1", "v1", site.ID, "2025-08-01", "2025-08-05", reservation.StatusActive)
		seedReservation(t, f, "r2", "v1", site.ID, "2025-08-10", "2025-08-15", reservation.StatusActive)
		err := f.svc.EditReservation(context.Background(), site, "r1", EditParams{From: "2025-08-03", To: "2025-08-12"})
		wantRejection(t, err, availability.CodeDateConflict)

		// rejected edits leave the record untouched
		got, _ := f.reservations.ByID(context.Background(), "r1")
		if got.From.String() != "2025-08-01" || got.To.String() != "2025-08-05" {
			t.Errorf("rejected edit mutated the reservation: %s..%s", got.From, got.To)
		}
	})

	t.Run("partial date falls back to current", func(t *testing.T) {
		f := newFixture(t, "2025-05-01")
		seedVehicle(f, "v1")
		seedReservation(t, f, "r1", "v1", site.ID, "2025-08-01", "2025-08-05", reservation.StatusActive)
		if err := f.svc.EditReservation(context.Background(), site, "r1", EditParams{To: "2025-08-04"}); err != nil {
			t.Fatalf("edit: %v", err)
		}
		got, _ := f.reservations.ByID(context.Background(), "r1")
		if got.From.String() != "2025-08-01" || got.To.String() != "2025-08-04" {
			t.Errorf("range = %s..%s", got.From, got.To)
		}
	})

	t.Run("staff lead time", func(t *testing.T) {
		f := newFixture(t, "2025-05-01")
		seedVehicle(f, "v1")
		seedReservation(t, f, "r1", "v1", site.ID, "2025-08-01", "2025-08-05", reservation.StatusActive)
		err := f.svc.EditReservation(context.Background(), site, "r1", EditParams{From: "2025-05-01", To: "2025-05-03"})
		rej := wantRejection(t, err, availability.CodeLeadTime)
		if rej.Message != "Sélection à partir de J+1" {
			t.Errorf("message = %q", rej.Message)
		}
	})

	t.Run("contact only, no rule run", func(t *testing.T) {
		f := newFixture(t, "2025-05-01")
		seedReservation(t, f, "r1", "v1", site.ID, "2025-08-01", "2025-08-05", reservation.StatusActive)
		email := "new@example.com"
		if err := f.svc.EditReservation(context.Background(), site, "r1", EditParams{Email: &email}); err != nil {
			t.Fatalf("edit: %v", err)
		}
		got, _ := f.reservations.ByID(context.Background(), "r1")
		if got.Email != "new@example.com" {
			t.Errorf("email = %s", got.Email)
		}
	})

	t.Run("unknown reservation", func(t *testing.T) {
		f := newFixture(t, "2025-05-01")
		err := f.svc.EditReservation(context.Background(), site, "ghost", EditParams{})
		if !errors.Is(err, reservation.ErrNotFound) {
			t.Fatalf("err = %v, want ErrNotFound", err)
		}
	})
}

func TestSetReservationStatus(t *testing.T) {
	f := newFixture(t, "2025-05-01")
	seedReservation(t, f, "r1", "v1", site.ID, "2025-08-01", "2025-08-05", reservation.StatusActive)

	if err := f.svc.SetReservationStatus(context.Background(), "r1", "cancelled"); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	got, _ := f.reservations.ByID(context.Background(), "r1")
	if got.Status != reservation.StatusCanceled {
		t.Errorf("status = %s", got.Status)
	}
	if err := f.svc.SetReservationStatus(context.Background(), "ghost", "active"); !errors.Is(err, reservation.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestVehicleCalendar(t *testing.T) {
	f := newFixture(t, "2025-05-01")
	seedVehicle(f, "v1")
	seedReservation(t, f, "r1", "v1", site.ID, "2025-06-10", "2025-06-15", reservation.StatusActive)
	seedReservation(t, f, "r2", "v1", site.ID, "2025-07-01", "2025-07-05", reservation.StatusCanceled)
	seedReservation(t, f, "r3", "v1", "other.example.com", "2025-08-01", "2025-08-05", reservation.StatusActive)
	f.reservations.Add(reservation.Reservation{
		ID: "legacy", VehicleID: "v1", Tenant: reservation.UntaggedTenant(),
		From: mustDay(t, "2025-09-01"), To: mustDay(t, "2025-09-08"), Status: "confirmed",
	})

	entries, err := f.svc.VehicleCalendar(context.Background(), site, "v1")
	if err != nil {
		t.Fatal(err)
	}
	ids := map[string]bool{}
	for _, e := range entries {
		ids[e.ID] = true
	}
	if !ids["r1"] || !ids["legacy"] {
		t.Errorf("active and legacy entries must appear: %v", entries)
	}
	if ids["r2"] {
		t.Error("canceled reservations must not appear")
	}
	if ids["r3"] {
		t.Error("other tenants' reservations must not appear in strict mode")
	}

	dev := tenant.Context{ID: "localhost:3000", Mode: tenant.Permissive}
	entries, err = f.svc.VehicleCalendar(context.Background(), dev, "v1")
	if err != nil {
		t.Fatal(err)
	}
	ids = map[string]bool{}
	for _, e := range entries {
		ids[e.ID] = true
	}
	if !ids["r3"] {
		t.Error("permissive mode must see every tenant's reservations")
	}
}

func TestListReservationsJoinsVehicleAndSorts(t *testing.T) {
	f := newFixture(t, "2025-05-01")
	seedVehicle(f, "v1")
	older := reservation.Reservation{
		ID: "r-old", VehicleID: "v1", Tenant: reservation.TaggedTenant(site.ID),
		From: mustDay(t, "2025-06-10"), To: mustDay(t, "2025-06-15"),
		Status: reservation.StatusActive, CreatedAt: time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
	}
	newer := older
	newer.ID = "r-new"
	newer.CreatedAt = time.Date(2025, 4, 20, 0, 0, 0, 0, time.UTC)
	f.reservations.Add(older)
	f.reservations.Add(newer)

	rows, err := f.svc.ListReservations(context.Background(), site, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 || rows[0].ID != "r-new" || rows[1].ID != "r-old" {
		t.Fatalf("rows = %+v", rows)
	}
	if rows[0].VehicleName != "Peugeot 508" || rows[0].VehicleCategory != "Hybride" {
		t.Errorf("vehicle join missing: %+v", rows[0])
	}
}
