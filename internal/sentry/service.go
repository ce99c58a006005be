package sentry

import (
	"context"
	"time"

	"github.com/flexprice/rawusage/internal/config"
	"github.com/flexprice/rawusage/internal/logger"
	"github.com/getsentry/sentry-go"
)

// Service owns the Sentry client. When Sentry is disabled every method is a no-op.
type Service struct {
	cfg    *config.Configuration
	logger *logger.Logger
	hub    *sentry.Hub
}

func NewSentryService(cfg *config.Configuration, log *logger.Logger) *Service {
	s := &Service{cfg: cfg, logger: log}
	if !cfg.Sentry.Enabled {
		return s
	}

	client, err := sentry.NewClient(sentry.ClientOptions{
		Dsn:              cfg.Sentry.DSN,
		Environment:      cfg.Sentry.Environment,
		EnableTracing:    true,
		TracesSampleRate: cfg.Sentry.SampleRate,
	})
	if err != nil {
		log.Errorw("failed to initialize sentry, continuing without it", "error", err)
		return s
	}

	s.hub = sentry.NewHub(client, sentry.NewScope())
	log.Infow("sentry initialized", "environment", cfg.Sentry.Environment)
	return s
}

func (s *Service) IsEnabled() bool {
	return s.hub != nil
}

// WithHub returns ctx carrying a hub clone so repository spans are recorded
func (s *Service) WithHub(ctx context.Context) context.Context {
	if s.hub == nil {
		return ctx
	}
	return sentry.SetHubOnContext(ctx, s.hub.Clone())
}

// CaptureException reports err, tagged with the request scope found in ctx
func (s *Service) CaptureException(ctx context.Context, err error) {
	if s.hub == nil || err == nil {
		return
	}

	hub := sentry.GetHubFromContext(ctx)
	if hub == nil {
		hub = s.hub
	}
	hub.CaptureException(err)
}

// Flush waits for buffered events to be sent
func (s *Service) Flush(timeout time.Duration) bool {
	if s.hub == nil {
		return true
	}
	return s.hub.Flush(timeout)
}
