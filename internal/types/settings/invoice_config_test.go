package settings

import (
	"testing"

	ierr "github.com/flexprice/rawusage/internal/errors"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateInvoiceConfig(t *testing.T) {
	tests := []struct {
		name    string
		value   map[string]interface{}
		wantErr bool
	}{
		{name: "empty override", value: map[string]interface{}{}},
		{name: "positive lookback", value: map[string]interface{}{"max_raw_usage_previous_period": 3}},
		{name: "disabled", value: map[string]interface{}{"max_raw_usage_previous_period": -1}},
		{name: "nil value", value: nil, wantErr: true},
		{name: "unknown field", value: map[string]interface{}{"prefix": "INV"}, wantErr: true},
		{name: "wrong type", value: map[string]interface{}{"max_raw_usage_previous_period": "two"}, wantErr: true},
		{name: "fractional", value: map[string]interface{}{"max_raw_usage_previous_period": 1.5}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateInvoiceConfig(tt.value)
			if tt.wantErr {
				assert.True(t, ierr.IsValidation(err))
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestToInvoiceConfig(t *testing.T) {
	cfg, err := ToInvoiceConfig(map[string]interface{}{"max_raw_usage_previous_period": float64(4)})
	require.NoError(t, err)
	assert.Equal(t, lo.ToPtr(4), cfg.MaxRawUsagePreviousPeriod)

	cfg, err = ToInvoiceConfig(map[string]interface{}{})
	require.NoError(t, err)
	assert.Nil(t, cfg.MaxRawUsagePreviousPeriod)
}
