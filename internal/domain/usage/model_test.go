package usage

import (
	"testing"

	ierr "github.com/flexprice/rawusage/internal/errors"
	"github.com/flexprice/rawusage/internal/types"
	"github.com/stretchr/testify/assert"
)

func TestDefinitions_BillingPeriods(t *testing.T) {
	defs := Definitions{
		"api_calls":   {UsageID: "api_calls", BillingPeriod: types.BILLING_PERIOD_ANNUAL},
		"storage_gb":  {UsageID: "storage_gb", BillingPeriod: types.BILLING_PERIOD_MONTHLY},
		"egress_gb":   {UsageID: "egress_gb", BillingPeriod: types.BILLING_PERIOD_MONTHLY},
		"seats":       {UsageID: "seats", BillingPeriod: types.BILLING_PERIOD_WEEKLY},
		"cpu_seconds": {UsageID: "cpu_seconds", BillingPeriod: types.BILLING_PERIOD_ANNUAL},
	}

	assert.Equal(t, []types.BillingPeriod{
		types.BILLING_PERIOD_WEEKLY,
		types.BILLING_PERIOD_MONTHLY,
		types.BILLING_PERIOD_ANNUAL,
	}, defs.BillingPeriods())

	assert.Empty(t, Definitions{}.BillingPeriods())
	assert.Empty(t, Definitions(nil).BillingPeriods())
}

func TestDefinitions_Validate(t *testing.T) {
	tests := []struct {
		name    string
		defs    Definitions
		wantErr bool
	}{
		{
			name: "valid",
			defs: Definitions{"api_calls": {UsageID: "api_calls", BillingPeriod: types.BILLING_PERIOD_MONTHLY}},
		},
		{
			name: "empty",
			defs: Definitions{},
		},
		{
			name:    "nil entry",
			defs:    Definitions{"api_calls": nil},
			wantErr: true,
		},
		{
			name:    "missing billing period",
			defs:    Definitions{"api_calls": {UsageID: "api_calls"}},
			wantErr: true,
		},
		{
			name:    "unknown billing period",
			defs:    Definitions{"api_calls": {UsageID: "api_calls", BillingPeriod: "HOURLY"}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.defs.Validate()
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			assert.Error(t, err)
			assert.True(t, ierr.IsInvalidUsageDefinition(err))
		})
	}
}

func TestDefinitions_Validate_ReportsFirstUsageID(t *testing.T) {
	defs := Definitions{
		"b_usage": {UsageID: "b_usage"},
		"a_usage": nil,
	}

	err := defs.Validate()
	assert.Equal(t, "a_usage", ierr.ReportableDetails(err)["usage_id"])
}
