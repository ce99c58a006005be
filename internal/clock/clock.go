package clock

import (
	"context"
	"strings"
	"time"

	ierr "github.com/flexprice/rawusage/internal/errors"
	"github.com/flexprice/rawusage/internal/types"
)

// Clock supplies the current calendar date. Implementations backed by a remote
// time source may fail; the system clock never does.
type Clock interface {
	// Today returns the current calendar date at midnight UTC
	Today(ctx context.Context) (time.Time, error)
}

// invoiceZoneAliases are the short names accepted for invoice.timezone
var invoiceZoneAliases = map[string]string{
	"GMT": "UTC",
	"IST": "Asia/Kolkata",
	"CET": "Europe/Berlin",
	"EST": "America/New_York",
	"PST": "America/Los_Angeles",
}

// LoadLocation resolves an invoice timezone, either an IANA name or one of a
// few short aliases. An empty name means UTC.
func LoadLocation(timezone string) (*time.Location, error) {
	name := strings.TrimSpace(timezone)
	if name == "" {
		return time.UTC, nil
	}
	if alias, ok := invoiceZoneAliases[strings.ToUpper(name)]; ok {
		name = alias
	}

	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHintf("Unknown timezone %s", timezone).
			WithReportableDetails(map[string]any{
				"timezone": timezone,
			}).
			Mark(ierr.ErrValidation)
	}
	return loc, nil
}

type systemClock struct {
	loc *time.Location
}

// NewSystemClock returns a Clock reading the system time, with days bounded in UTC
func NewSystemClock() Clock {
	return systemClock{loc: time.UTC}
}

// NewSystemClockIn returns a Clock whose days are bounded in the given timezone
func NewSystemClockIn(timezone string) (Clock, error) {
	loc, err := LoadLocation(timezone)
	if err != nil {
		return nil, err
	}
	return systemClock{loc: loc}, nil
}

func (c systemClock) Today(_ context.Context) (time.Time, error) {
	return types.ToDate(time.Now().In(c.loc)), nil
}
