package settings

import (
	"encoding/json"
	"time"

	ierr "github.com/flexprice/rawusage/internal/errors"
	settingtypes "github.com/flexprice/rawusage/internal/types/settings"
)

// Setting is a tenant and environment scoped configuration value
type Setting struct {
	ID            string                 `json:"id"`
	Key           string                 `json:"key"`
	Value         map[string]interface{} `json:"value"`
	TenantID      string                 `json:"tenant_id"`
	EnvironmentID string                 `json:"environment_id"`
	CreatedAt     time.Time              `json:"created_at"`
	UpdatedAt     time.Time              `json:"updated_at"`
}

// GetValue retrieves a value by key and unmarshals it into the target
func (s *Setting) GetValue(key string, target interface{}) error {
	if s.Value == nil {
		return ierr.NewErrorf("no value found for key '%s'", key).
			Mark(ierr.ErrNotFound)
	}

	value, exists := s.Value[key]
	if !exists {
		return ierr.NewErrorf("key '%s' not found in setting", key).
			Mark(ierr.ErrNotFound)
	}

	// Marshal and unmarshal to convert interface{} to target type
	jsonBytes, err := json.Marshal(value)
	if err != nil {
		return ierr.WithError(err).
			WithHintf("failed to marshal value for key '%s'", key).
			Mark(ierr.ErrValidation)
	}

	if err := json.Unmarshal(jsonBytes, target); err != nil {
		return ierr.WithError(err).
			WithHintf("failed to unmarshal value for key '%s'", key).
			Mark(ierr.ErrValidation)
	}

	return nil
}

// Validate validates the setting
func (s *Setting) Validate() error {
	if s.Key == "" {
		return ierr.NewError("setting key is required").
			Mark(ierr.ErrValidation)
	}

	if len(s.Key) > 255 {
		return ierr.NewError("setting key cannot exceed 255 characters").
			Mark(ierr.ErrValidation)
	}

	switch settingtypes.SettingKey(s.Key) {
	case settingtypes.SettingKeyInvoiceConfig:
		return settingtypes.ValidateInvoiceConfig(s.Value)
	default:
		return ierr.NewErrorf("unknown setting key: %s", s.Key).
			WithHintf("Unknown setting key: %s", s.Key).
			Mark(ierr.ErrValidation)
	}
}

// ToInvoiceConfig converts an invoice_config setting into its typed form
func (s *Setting) ToInvoiceConfig() (*settingtypes.InvoiceConfig, error) {
	if s.Key != settingtypes.SettingKeyInvoiceConfig.String() {
		return nil, ierr.NewErrorf("setting key '%s' is not invoice_config", s.Key).
			WithHint("Setting is not an invoice configuration").
			Mark(ierr.ErrValidation)
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}

	return settingtypes.ToInvoiceConfig(s.Value)
}
