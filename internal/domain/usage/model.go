package usage

import (
	"sort"
	"time"

	ierr "github.com/flexprice/rawusage/internal/errors"
	"github.com/flexprice/rawusage/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// RawUsageRecord is a single usage event reported for a subscription.
// Records are owned by the usage store and are never modified here.
type RawUsageRecord struct {
	ID             string          `json:"id"`
	SubscriptionID string          `json:"subscription_id"`
	UnitType       string          `json:"unit_type"`
	RecordDate     time.Time       `json:"record_date"`
	Amount         decimal.Decimal `json:"amount"`
	TrackingID     string          `json:"tracking_id"`
}

// Definition is the catalog view of a usage: which cadence it is billed at
type Definition struct {
	UsageID       string              `json:"usage_id"`
	BillingPeriod types.BillingPeriod `json:"billing_period"`
}

// Definitions maps a usage id to its catalog definition
type Definitions map[string]*Definition

// Validate fails on the first entry that has no usable billing period.
// Entries are checked in usage id order so the reported entry is stable.
func (d Definitions) Validate() error {
	ids := lo.Keys(d)
	sort.Strings(ids)

	for _, id := range ids {
		def := d[id]
		if def == nil {
			return ierr.NewErrorf("usage %s has no definition", id).
				WithHint("Every known usage must resolve to a catalog definition").
				WithReportableDetails(map[string]any{
					"usage_id": id,
				}).
				Mark(ierr.ErrInvalidUsageDefinition)
		}

		if err := def.BillingPeriod.Validate(); err != nil {
			return ierr.WithError(err).
				WithHintf("Usage %s must declare a valid billing period", id).
				WithReportableDetails(map[string]any{
					"usage_id":       id,
					"billing_period": def.BillingPeriod,
				}).
				Mark(ierr.ErrInvalidUsageDefinition)
		}
	}

	return nil
}

// BillingPeriods returns the distinct billing periods in use, shortest first.
// Call Validate before relying on the result: nil entries are skipped.
func (d Definitions) BillingPeriods() []types.BillingPeriod {
	inUse := lo.Uniq(lo.FilterMap(lo.Values(d), func(def *Definition, _ int) (types.BillingPeriod, bool) {
		if def == nil {
			return "", false
		}
		return def.BillingPeriod, true
	}))

	return lo.Filter(types.BillingPeriods(), func(bp types.BillingPeriod, _ int) bool {
		return lo.Contains(inUse, bp)
	})
}
