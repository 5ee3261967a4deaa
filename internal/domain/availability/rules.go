// Package availability holds the pure decision rules that accept or reject
// a candidate reservation range for a vehicle.
package availability

import (
	"fmt"

	"fleetbook/internal/domain/calendar"
)

// Code identifies a rejection class for transport mapping; the Message is
// the human-readable reason surfaced to the caller verbatim.
type Code string

const (
	CodeInvalidRange     Code = "invalid_range"
	CodeLeadTime         Code = "lead_time"
	CodeDurationTooShort Code = "duration_too_short"
	CodeDurationTooLong  Code = "duration_too_long"
	CodeBlockedDate      Code = "blocked_date"
	CodeDateConflict     Code = "date_conflict"
)

type Rejection struct {
	Code    Code
	Message string
}

func (r *Rejection) Error() string { return r.Message }

func reject(code Code, message string) *Rejection {
	return &Rejection{Code: code, Message: message}
}

// Span is an inclusive calendar-day range.
type Span struct {
	From calendar.Day
	To   calendar.Day
}

// Overlaps reports whether the two inclusive spans share at least one day.
// Touching end-to-start on the same day counts.
func (s Span) Overlaps(o Span) bool {
	return !s.From.After(o.To) && !s.To.Before(o.From)
}

// Policy carries the rental-duration and lead-time bounds of one intake
// path. MaxDays zero means unbounded.
type Policy struct {
	MinDays  int
	MaxDays  int
	LeadDays int
}

// PublicIntake governs booking requests from the public site: week-long
// minimum, no maximum, start date from today onward.
var PublicIntake = Policy{MinDays: 7, MaxDays: 0, LeadDays: 0}

// StaffEdit governs date edits from the admin console: start tomorrow or
// later, two days to two months.
var StaffEdit = Policy{MinDays: 2, MaxDays: 60, LeadDays: 1}

// Evaluate runs the ordered availability checks for a candidate span and
// returns nil on acceptance or the first failing check's rejection. Checks
// run in a fixed order: well-formed range, lead time, duration bounds,
// blocked days, then overlap against existing spans. The existing slice
// must already be scoped to the candidate's vehicle and tenant; the caller
// filters out canceled reservations and, for edits, the edited reservation
// itself.
func Evaluate(candidate Span, today calendar.Day, blocked calendar.DaySet, existing []Span, policy Policy) *Rejection {
	if candidate.From.IsZero() || candidate.To.IsZero() || candidate.From.After(candidate.To) {
		return reject(CodeInvalidRange, "Invalid date range")
	}

	earliest := today.AddDays(policy.LeadDays)
	if candidate.From.Before(earliest) {
		if policy.LeadDays <= 0 {
			return reject(CodeLeadTime, "Sélection à partir d'aujourd'hui")
		}
		return reject(CodeLeadTime, fmt.Sprintf("Sélection à partir de J+%d", policy.LeadDays))
	}

	days := calendar.Days(candidate.From, candidate.To)
	if policy.MinDays > 0 && days < policy.MinDays {
		return reject(CodeDurationTooShort, fmt.Sprintf("Durée minimale: %d jours", policy.MinDays))
	}
	if policy.MaxDays > 0 && days > policy.MaxDays {
		return reject(CodeDurationTooLong, fmt.Sprintf("Durée maximale: %d jours", policy.MaxDays))
	}

	if blocked.Len() > 0 {
		hit := false
		calendar.EachDay(candidate.From, candidate.To, func(d calendar.Day) bool {
			if blocked.Has(d) {
				hit = true
				return false
			}
			return true
		})
		if hit {
			return reject(CodeBlockedDate, "Plage comporte des jours bloqués")
		}
	}

	for _, span := range existing {
		if candidate.Overlaps(span) {
			return reject(CodeDateConflict, "Dates déjà réservées")
		}
	}
	return nil
}
