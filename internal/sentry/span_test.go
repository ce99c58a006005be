package sentry

import (
	"context"
	"errors"
	"testing"

	"github.com/getsentry/sentry-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartRepositorySpan_WithoutHub(t *testing.T) {
	span := StartRepositorySpan(context.Background(), "raw_usage", "get_raw_usage_for_account", nil)
	assert.Nil(t, span)

	// helpers are nil safe
	SetSpanError(span, errors.New("boom"))
	SetSpanSuccess(span)
	FinishSpan(span)
}

func TestStartRepositorySpan_WithHub(t *testing.T) {
	client, err := sentry.NewClient(sentry.ClientOptions{EnableTracing: true, TracesSampleRate: 1})
	require.NoError(t, err)
	hub := sentry.NewHub(client, sentry.NewScope())
	ctx := sentry.SetHubOnContext(context.Background(), hub)

	span := StartRepositorySpan(ctx, "tracking", "get_trackings_by_date_range", map[string]interface{}{"account_id": "acc_1"})
	require.NotNil(t, span)
	assert.Equal(t, "db.repository", span.Op)
	assert.Equal(t, "acc_1", span.Data["account_id"])

	SetSpanError(span, errors.New("boom"))
	assert.Equal(t, sentry.SpanStatusInternalError, span.Status)

	SetSpanSuccess(span)
	assert.Equal(t, sentry.SpanStatusOK, span.Status)
	FinishSpan(span)
}
