package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/flexprice/rawusage/internal/domain/settings"
	ierr "github.com/flexprice/rawusage/internal/errors"
	"github.com/flexprice/rawusage/internal/logger"
	"github.com/flexprice/rawusage/internal/postgres"
	"github.com/flexprice/rawusage/internal/sentry"
	"github.com/flexprice/rawusage/internal/types"
)

const settingByKeyQuery = `
	SELECT id, key, value, tenant_id, environment_id, created_at, updated_at
	FROM ` + string(types.TableNameSettings) + `
	WHERE tenant_id = $1
	AND environment_id = $2
	AND key = $3
	AND status = $4
	LIMIT 1`

type settingsRepository struct {
	client *postgres.Client
	log    *logger.Logger
}

func NewSettingsRepository(client *postgres.Client, log *logger.Logger) settings.Repository {
	return &settingsRepository{client: client, log: log}
}

func (r *settingsRepository) GetByKey(ctx context.Context, key string) (*settings.Setting, error) {
	span := sentry.StartRepositorySpan(ctx, "settings", "get_by_key", map[string]interface{}{
		"key": key,
	})
	defer sentry.FinishSpan(span)

	var (
		s   settings.Setting
		raw []byte
	)
	err := r.client.DB().QueryRowContext(ctx, settingByKeyQuery,
		types.GetTenantID(ctx),
		types.GetEnvironmentID(ctx),
		key,
		types.StatusPublished,
	).Scan(&s.ID, &s.Key, &raw, &s.TenantID, &s.EnvironmentID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		sentry.SetSpanError(span, err)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ierr.WithError(err).
				WithHintf("Setting with key %s was not found", key).
				WithReportableDetails(map[string]any{"key": key}).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(postgres.Classify(err)).
			WithHintf("Failed to get setting with key %s", key).
			Mark(ierr.ErrDatabase)
	}

	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &s.Value); err != nil {
			sentry.SetSpanError(span, err)
			return nil, ierr.WithError(err).
				WithHintf("Setting with key %s has a malformed value", key).
				Mark(ierr.ErrValidation)
		}
	}

	sentry.SetSpanSuccess(span)
	return &s, nil
}
