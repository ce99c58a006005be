package postgres

import (
	"database/sql/driver"
	"fmt"
	"testing"

	ierr "github.com/flexprice/rawusage/internal/errors"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		unavailable bool
	}{
		{name: "nil", err: nil},
		{name: "bad connection", err: driver.ErrBadConn, unavailable: true},
		{name: "wrapped bad connection", err: fmt.Errorf("query: %w", driver.ErrBadConn), unavailable: true},
		{name: "connection failure", err: &pq.Error{Code: "08006"}, unavailable: true},
		{name: "admin shutdown", err: &pq.Error{Code: "57P01"}, unavailable: true},
		{name: "undefined table", err: &pq.Error{Code: "42P01"}},
		{name: "lock timeout", err: &pq.Error{Code: "55P03"}},
		{name: "plain error", err: fmt.Errorf("boom")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.err)
			if tt.err == nil {
				assert.NoError(t, got)
				return
			}
			assert.Equal(t, tt.unavailable, ierr.IsStoreUnavailable(got))
			assert.ErrorIs(t, got, tt.err)
		})
	}
}
