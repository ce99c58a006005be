package settings

import (
	"encoding/json"

	ierr "github.com/flexprice/rawusage/internal/errors"
	"github.com/samber/lo"
)

type SettingKey string

const (
	SettingKeyInvoiceConfig SettingKey = "invoice_config"
)

func (s SettingKey) String() string {
	return string(s)
}

// InvoiceConfig is the tenant and environment scoped override of the
// platform invoicing defaults. Unset fields fall back to the defaults.
type InvoiceConfig struct {
	MaxRawUsagePreviousPeriod *int `json:"max_raw_usage_previous_period,omitempty"`
}

var invoiceConfigFields = []string{
	"max_raw_usage_previous_period",
}

// ValidateInvoiceConfig validates the raw setting value
func ValidateInvoiceConfig(value map[string]interface{}) error {
	if value == nil {
		return ierr.NewError("invoice_config value cannot be nil").
			WithHint("Invoice config value is required").
			Mark(ierr.ErrValidation)
	}

	invalidFields := lo.Filter(lo.Keys(value), func(field string, _ int) bool {
		return !lo.Contains(invoiceConfigFields, field)
	})
	if len(invalidFields) > 0 {
		return ierr.NewErrorf("invoice_config: invalid fields %v", invalidFields).
			WithHintf("Invoice config does not support fields %v. Allowed fields: %v", invalidFields, invoiceConfigFields).
			Mark(ierr.ErrValidation)
	}

	if _, err := ToInvoiceConfig(value); err != nil {
		return err
	}

	return nil
}

// ToInvoiceConfig converts the raw setting value to InvoiceConfig
func ToInvoiceConfig(value map[string]interface{}) (*InvoiceConfig, error) {
	var config InvoiceConfig
	if err := ConvertValue(value, &config); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to parse invoice config").
			Mark(ierr.ErrValidation)
	}
	return &config, nil
}

// ConvertValue converts a generic setting value into the target struct
func ConvertValue(value map[string]interface{}, target interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, target)
}
