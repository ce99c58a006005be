package testutil

import (
	"context"
	"strings"
	"sync/atomic"
	"time"

	"github.com/flexprice/rawusage/internal/domain/settings"
	ierr "github.com/flexprice/rawusage/internal/errors"
	"github.com/flexprice/rawusage/internal/types"
	"github.com/samber/lo"
)

// InMemorySettingsStore implements settings.Repository
type InMemorySettingsStore struct {
	*InMemoryStore[*settings.Setting]
	faults
	reads atomic.Int64
}

func NewInMemorySettingsStore() *InMemorySettingsStore {
	return &InMemorySettingsStore{
		InMemoryStore: NewInMemoryStore[*settings.Setting](),
	}
}

func settingStoreKey(tenantID, environmentID, key string) string {
	return strings.Join([]string{tenantID, environmentID, key}, ":")
}

func copySetting(s *settings.Setting) *settings.Setting {
	if s == nil {
		return nil
	}
	copied := *s
	copied.Value = lo.Assign(map[string]interface{}{}, s.Value)
	return &copied
}

// CreateSetting stores a setting for the tenant and environment carried in ctx
func (s *InMemorySettingsStore) CreateSetting(ctx context.Context, setting *settings.Setting) error {
	if setting == nil {
		return ierr.NewError("setting cannot be nil").
			Mark(ierr.ErrValidation)
	}
	if err := setting.Validate(); err != nil {
		return err
	}

	stored := copySetting(setting)
	if stored.ID == "" {
		stored.ID = types.GenerateUUIDWithPrefix(types.UUID_PREFIX_SETTING)
	}
	stored.TenantID = types.GetTenantID(ctx)
	stored.EnvironmentID = types.GetEnvironmentID(ctx)
	now := time.Now().UTC()
	stored.CreatedAt, stored.UpdatedAt = now, now

	return s.InMemoryStore.Create(ctx, settingStoreKey(stored.TenantID, stored.EnvironmentID, stored.Key), stored)
}

func (s *InMemorySettingsStore) GetByKey(ctx context.Context, key string) (*settings.Setting, error) {
	s.reads.Add(1)
	if err := s.record(ctx, DateRange{}); err != nil {
		return nil, err
	}

	setting, err := s.InMemoryStore.Get(ctx, settingStoreKey(types.GetTenantID(ctx), types.GetEnvironmentID(ctx), key))
	if err != nil {
		return nil, ierr.WithError(err).
			WithHintf("Setting with key %s was not found", key).
			Mark(ierr.ErrNotFound)
	}
	return copySetting(setting), nil
}

// Reads returns how many times GetByKey was called
func (s *InMemorySettingsStore) Reads() int {
	return int(s.reads.Load())
}
