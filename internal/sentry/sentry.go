package sentry

import (
	"context"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/storepulse/storepulse/internal/config"
	"github.com/storepulse/storepulse/internal/logger"
)

// Service owns the sentry client lifecycle and hands out spans. A disabled
// service returns nil spans, which every helper accepts.
type Service struct {
	enabled bool
	logger  *logger.Logger
}

// NewSentryService initialises the sentry SDK when enabled in cfg.
func NewSentryService(cfg *config.Configuration, log *logger.Logger) *Service {
	svc := &Service{logger: log}
	if !cfg.Sentry.Enabled || cfg.Sentry.DSN == "" {
		return svc
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.Sentry.DSN,
		Environment:      cfg.Sentry.Environment,
		EnableTracing:    true,
		TracesSampleRate: cfg.Sentry.SampleRate,
		AttachStacktrace: true,
	})
	if err != nil {
		log.Warnw("failed to initialize sentry, continuing without it", "error", err)
		return svc
	}

	svc.enabled = true
	log.Infow("sentry initialized", "environment", cfg.Sentry.Environment)
	return svc
}

func (s *Service) IsEnabled() bool {
	return s != nil && s.enabled
}

// Flush waits up to timeout for buffered events to be delivered.
func (s *Service) Flush(timeout time.Duration) {
	if s.IsEnabled() {
		sentry.Flush(timeout)
	}
}

// CaptureException reports err when sentry is enabled.
func (s *Service) CaptureException(err error) {
	if s.IsEnabled() && err != nil {
		sentry.CaptureException(err)
	}
}

// StartRepositorySpan opens a db span named after repository and operation.
// It returns nil when sentry is disabled.
func (s *Service) StartRepositorySpan(ctx context.Context, repository, operation string, params map[string]interface{}) *sentry.Span {
	if !s.IsEnabled() {
		return nil
	}

	span := sentry.StartSpan(ctx, "db."+repository+"."+operation)
	span.Description = repository + "." + operation
	span.Op = "db.repository"
	span.SetData("repository", repository)
	span.SetData("operation", operation)
	for k, v := range params {
		span.SetData(k, v)
	}
	return span
}

// FinishSpan finishes span, handling nil spans
func FinishSpan(span *sentry.Span) {
	if span != nil {
		span.Finish()
	}
}

// SetSpanError marks span as failed and records err
func SetSpanError(span *sentry.Span, err error) {
	if span == nil || err == nil {
		return
	}
	span.Status = sentry.SpanStatusInternalError
	span.SetData("error", err.Error())
}

func SetSpanSuccess(span *sentry.Span) {
	if span != nil {
		span.Status = sentry.SpanStatusOK
	}
}
