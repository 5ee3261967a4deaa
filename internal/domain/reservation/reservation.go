package reservation

import (
	"errors"
	"strings"
	"time"

	"fleetbook/internal/domain/calendar"
)

var (
	ErrNotFound = errors.New("reservation: not found")
)

type Status string

const (
	StatusActive   Status = "active"
	StatusCanceled Status = "canceled"
)

// NormalizeStatus folds the representations found in stored documents to
// the canonical vocabulary: empty means active, the British spelling of
// canceled folds into the American one.
func NormalizeStatus(raw string) Status {
	s := strings.ToLower(strings.TrimSpace(raw))
	switch s {
	case "":
		return StatusActive
	case "cancelled":
		return StatusCanceled
	default:
		return Status(s)
	}
}

// Blocks reports whether a reservation in this status occupies the
// calendar. Besides active, staff workflows mark reservations reserved,
// confirmed or ongoing; all of those hold their dates.
func (s Status) Blocks() bool {
	switch s {
	case StatusActive, "reserved", "confirmed", "ongoing":
		return true
	default:
		return false
	}
}

// TenantRef is the tri-state tenant tag of a stored record. Records written
// by this system are always Tagged; records migrated from before tenant
// scoping existed carry no tag and stay visible to every tenant.
type TenantRef struct {
	id     string
	tagged bool
}

func TaggedTenant(id string) TenantRef {
	id = strings.ToLower(strings.TrimSpace(id))
	if id == "" {
		return UntaggedTenant()
	}
	return TenantRef{id: id, tagged: true}
}

func UntaggedTenant() TenantRef { return TenantRef{} }

func (t TenantRef) Tagged() bool { return t.tagged }

// ID returns the tenant key, empty for untagged legacy records.
func (t TenantRef) ID() string { return t.id }

// Matches reports whether a record with this tag belongs to tenantID.
// Untagged legacy records match every tenant.
func (t TenantRef) Matches(tenantID string) bool {
	if !t.tagged {
		return true
	}
	return t.id == strings.ToLower(tenantID)
}

// Reservation is a confirmed booking occupying [From, To] inclusive.
type Reservation struct {
	ID        string
	VehicleID string
	Tenant    TenantRef
	From      calendar.Day
	To        calendar.Day
	Status    Status
	Email     string
	Phone     string
	CreatedAt time.Time
}

// Span returns the inclusive day range of the reservation.
func (r Reservation) Span() (calendar.Day, calendar.Day) { return r.From, r.To }

// RequestType distinguishes a plain rental request from one attached to an
// existing contract.
type RequestType string

const (
	TypeSimple       RequestType = "simple"
	TypeRattachement RequestType = "rattachement"
)

// ParseRequestType folds anything that is not the attachment type to simple.
func ParseRequestType(raw string) RequestType {
	if RequestType(raw) == TypeRattachement {
		return TypeRattachement
	}
	return TypeSimple
}

// Request is a pending booking request filed by a visitor. It does not
// occupy the calendar unless the hold-on-request policy is enabled; staff
// convert it to a Reservation out of band.
type Request struct {
	ID        string
	VehicleID string
	Tenant    TenantRef
	FirstName string
	LastName  string
	Email     string
	Phone     string
	From      calendar.Day
	To        calendar.Day
	Days      int
	Type      RequestType
	Status    string
	CreatedAt time.Time
}

const RequestStatusNew = "new"

// Patch is a partial staff update to a reservation. Nil fields stay
// untouched; From/To are only set after the date change passed validation.
type Patch struct {
	Email  *string
	Phone  *string
	Status *Status
	From   *calendar.Day
	To     *calendar.Day
}

func (p Patch) Empty() bool {
	return p.Email == nil && p.Phone == nil && p.Status == nil && p.From == nil && p.To == nil
}
