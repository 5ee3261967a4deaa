// Package vehicle holds the booking engine's read model of the fleet.
// Vehicles are created and edited by fleet management elsewhere; here they
// are read-only, and authoritative only for their blocked dates.
package vehicle

import (
	"errors"
	"time"

	"fleetbook/internal/domain/calendar"
)

var ErrNotFound = errors.New("vehicle: not found")

type Vehicle struct {
	ID          string
	Name        string
	Category    string
	Summary     string
	BlockedDays []calendar.Day
	CreatedAt   time.Time
}

// BlockedSet returns the withdrawn days as a membership set for rule checks.
func (v Vehicle) BlockedSet() calendar.DaySet {
	return calendar.NewDaySet(v.BlockedDays...)
}
