package clock

import (
	"context"
	"testing"
	"time"

	ierr "github.com/flexprice/rawusage/internal/errors"
	"github.com/flexprice/rawusage/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSystemClock_Today(t *testing.T) {
	today, err := NewSystemClock().Today(context.Background())
	require.NoError(t, err)

	assert.Equal(t, types.ToDate(time.Now().UTC()), today)
	assert.Equal(t, time.UTC, today.Location())
	assert.Zero(t, today.Hour())
}

func TestLoadLocation(t *testing.T) {
	tests := []struct {
		name     string
		timezone string
		want     string
	}{
		{name: "empty is utc", timezone: "", want: "UTC"},
		{name: "iana name", timezone: "Europe/Paris", want: "Europe/Paris"},
		{name: "alias", timezone: "IST", want: "Asia/Kolkata"},
		{name: "alias is case insensitive", timezone: "pst", want: "America/Los_Angeles"},
		{name: "gmt alias", timezone: "GMT", want: "UTC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc, err := LoadLocation(tt.timezone)
			require.NoError(t, err)
			assert.Equal(t, tt.want, loc.String())
		})
	}

	_, err := LoadLocation("Mars/Olympus_Mons")
	assert.True(t, ierr.IsValidation(err))
}

func TestNewSystemClockIn(t *testing.T) {
	for _, tz := range []string{"", "UTC", "Asia/Kolkata", "IST"} {
		c, err := NewSystemClockIn(tz)
		require.NoError(t, err, tz)

		today, err := c.Today(context.Background())
		require.NoError(t, err)
		assert.Equal(t, time.UTC, today.Location(), tz)
	}

	_, err := NewSystemClockIn("Mars/Olympus_Mons")
	assert.True(t, ierr.IsValidation(err))
}
