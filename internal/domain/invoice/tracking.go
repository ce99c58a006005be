package invoice

import (
	"maps"
	"time"

	"github.com/flexprice/rawusage/internal/types"
)

// TrackingRecord marks a usage unit as already billed on an invoice.
// Rows are written when an invoice is finalized and only read here.
type TrackingRecord struct {
	ID             string    `json:"id"`
	TrackingID     string    `json:"tracking_id"`
	InvoiceID      string    `json:"invoice_id"`
	SubscriptionID string    `json:"subscription_id"`
	UnitType       string    `json:"unit_type"`
	RecordDate     time.Time `json:"record_date"`
	AccountID      string    `json:"account_id"`
	TenantID       string    `json:"tenant_id"`
	EnvironmentID  string    `json:"environment_id"`
	CreatedAt      time.Time `json:"created_at"`
}

// TrackingRecordID is the composite key identifying a billed usage unit.
// It is comparable and can be used as a map key.
type TrackingRecordID struct {
	TrackingID     string
	InvoiceID      string
	SubscriptionID string
	UnitType       string
	RecordDate     time.Time
}

// NewTrackingRecordID builds the key, normalising the record date to a calendar date
func NewTrackingRecordID(trackingID, invoiceID, subscriptionID, unitType string, recordDate time.Time) TrackingRecordID {
	return TrackingRecordID{
		TrackingID:     trackingID,
		InvoiceID:      invoiceID,
		SubscriptionID: subscriptionID,
		UnitType:       unitType,
		RecordDate:     types.ToDate(recordDate),
	}
}

// RecordID returns the composite key of the tracking row
func (t *TrackingRecord) RecordID() TrackingRecordID {
	return NewTrackingRecordID(t.TrackingID, t.InvoiceID, t.SubscriptionID, t.UnitType, t.RecordDate)
}

// TrackingRecordIDSet is a set of tracking keys
type TrackingRecordIDSet map[TrackingRecordID]struct{}

// NewTrackingRecordIDSet collapses tracking rows into their distinct keys
func NewTrackingRecordIDSet(records []*TrackingRecord) TrackingRecordIDSet {
	set := make(TrackingRecordIDSet, len(records))
	for _, r := range records {
		if r == nil {
			continue
		}
		set.Add(r.RecordID())
	}
	return set
}

func (s TrackingRecordIDSet) Add(id TrackingRecordID) {
	s[id] = struct{}{}
}

func (s TrackingRecordIDSet) Contains(id TrackingRecordID) bool {
	_, ok := s[id]
	return ok
}

func (s TrackingRecordIDSet) Len() int {
	return len(s)
}

func (s TrackingRecordIDSet) Clone() TrackingRecordIDSet {
	if s == nil {
		return TrackingRecordIDSet{}
	}
	return maps.Clone(s)
}
