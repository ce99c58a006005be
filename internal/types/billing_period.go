package types

import (
	"time"

	ierr "github.com/flexprice/rawusage/internal/errors"
	"github.com/samber/lo"
)

// BillingPeriod is the cadence at which a usage item accrues and is invoiced
type BillingPeriod string

const (
	BILLING_PERIOD_DAILY     BillingPeriod = "DAILY"
	BILLING_PERIOD_WEEKLY    BillingPeriod = "WEEKLY"
	BILLING_PERIOD_BIWEEKLY  BillingPeriod = "BIWEEKLY"
	BILLING_PERIOD_MONTHLY   BillingPeriod = "MONTHLY"
	BILLING_PERIOD_BIMONTHLY BillingPeriod = "BIMONTHLY"
	BILLING_PERIOD_QUARTER   BillingPeriod = "QUARTERLY"
	BILLING_PERIOD_HALF_YEAR BillingPeriod = "HALF_YEARLY"
	BILLING_PERIOD_ANNUAL    BillingPeriod = "ANNUAL"
	BILLING_PERIOD_BIENNIAL  BillingPeriod = "BIENNIAL"
)

// billingPeriodIntervals holds the length of one period as (months, days).
// Exactly one of the two is non zero.
var billingPeriodIntervals = map[BillingPeriod][2]int{
	BILLING_PERIOD_DAILY:     {0, 1},
	BILLING_PERIOD_WEEKLY:    {0, 7},
	BILLING_PERIOD_BIWEEKLY:  {0, 14},
	BILLING_PERIOD_MONTHLY:   {1, 0},
	BILLING_PERIOD_BIMONTHLY: {2, 0},
	BILLING_PERIOD_QUARTER:   {3, 0},
	BILLING_PERIOD_HALF_YEAR: {6, 0},
	BILLING_PERIOD_ANNUAL:    {12, 0},
	BILLING_PERIOD_BIENNIAL:  {24, 0},
}

// BillingPeriods lists every supported cadence from shortest to longest
func BillingPeriods() []BillingPeriod {
	return []BillingPeriod{
		BILLING_PERIOD_DAILY,
		BILLING_PERIOD_WEEKLY,
		BILLING_PERIOD_BIWEEKLY,
		BILLING_PERIOD_MONTHLY,
		BILLING_PERIOD_BIMONTHLY,
		BILLING_PERIOD_QUARTER,
		BILLING_PERIOD_HALF_YEAR,
		BILLING_PERIOD_ANNUAL,
		BILLING_PERIOD_BIENNIAL,
	}
}

func (b BillingPeriod) String() string {
	return string(b)
}

func (b BillingPeriod) Validate() error {
	if b == "" {
		return ierr.NewError("billing period is required").
			WithHint("Billing period is required").
			Mark(ierr.ErrValidation)
	}

	if !lo.Contains(BillingPeriods(), b) {
		return ierr.NewErrorf("invalid billing period %s", b).
			WithHintf("Billing period must be one of %v", BillingPeriods()).
			WithReportableDetails(map[string]any{
				"billing_period": b,
			}).
			Mark(ierr.ErrValidation)
	}

	return nil
}

// RecedeByNPeriods moves date back by n whole periods of the given cadence.
// Month based cadences clamp to the last day of the resulting month, so
// receding one month from March 31 gives the last day of February.
// The time of day is dropped: the result is a calendar date at midnight UTC.
func RecedeByNPeriods(date time.Time, period BillingPeriod, n int) (time.Time, error) {
	if err := period.Validate(); err != nil {
		return time.Time{}, err
	}
	if n < 0 {
		return time.Time{}, ierr.NewErrorf("number of periods must be non negative, got %d", n).
			WithHint("Number of periods must be zero or a positive integer").
			WithReportableDetails(map[string]any{
				"billing_period": period,
				"periods":        n,
			}).
			Mark(ierr.ErrValidation)
	}

	d := ToDate(date)
	if n == 0 {
		return d, nil
	}

	interval := billingPeriodIntervals[period]
	if months := interval[0]; months > 0 {
		return addMonthsClamped(d, -months*n), nil
	}
	return d.AddDate(0, 0, -interval[1]*n), nil
}

// addMonthsClamped adds months to d and clamps the day to the length of the
// resulting month instead of overflowing into the next one like time.AddDate.
func addMonthsClamped(d time.Time, months int) time.Time {
	year, month, day := d.Date()
	firstOfMonth := time.Date(year, month+time.Month(months), 1, 0, 0, 0, 0, time.UTC)
	lastDay := firstOfMonth.AddDate(0, 1, -1).Day()
	if day > lastDay {
		day = lastDay
	}
	return time.Date(firstOfMonth.Year(), firstOfMonth.Month(), day, 0, 0, 0, 0, time.UTC)
}
