// Package forms validates public form submissions and forwards them to the
// legacy spreadsheet webhook.
package forms

import (
	"context"
	"errors"
	"time"

	"github.com/goliatone/go-firmsite/entities"
	"github.com/goliatone/go-firmsite/internal/logging"
	"github.com/goliatone/go-firmsite/internal/remote"
	"github.com/goliatone/go-firmsite/pkg/interfaces"
)

var ErrUnknownForm = errors.New("forms: unknown form")

// Submitter delivers a validated submission.
type Submitter interface {
	SubmitForm(ctx context.Context, submission remote.Submission) error
}

// Result reports the outcome of an accepted submission.
type Result struct {
	Data      map[string]any
	Delivered bool
}

// Option configures a Service.
type Option func(*Service)

// WithSubmitter resolves the delivery target at submit time. A nil
// resolver or a nil Submitter accepts submissions without delivering them.
func WithSubmitter(resolve func() Submitter) Option {
	return func(s *Service) {
		s.resolve = resolve
	}
}

// WithLogger sets the service logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock overrides the submission timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// Service accepts form submissions.
type Service struct {
	resolve func() Submitter
	logger  interfaces.Logger
	now     func() time.Time
}

// New builds a Service.
func New(opts ...Option) *Service {
	s := &Service{
		logger: logging.NoOp(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit validates values against def and forwards the normalized data.
// Validation failures are returned; delivery failures are logged and
// reported through Result.Delivered.
func (s *Service) Submit(ctx context.Context, def entities.FormDefinition, values Values) (Result, error) {
	data, err := Validate(def, values)
	if err != nil {
		return Result{}, err
	}
	result := Result{Data: data}
	logger := logging.WithFields(s.logger, map[string]any{"form_id": def.ID})

	var submitter Submitter
	if s.resolve != nil {
		submitter = s.resolve()
	}
	if submitter == nil {
		logger.Info("forms.submit.not_delivered", "reason", "no_webhook")
		return result, nil
	}
	err = submitter.SubmitForm(ctx, remote.Submission{
		FormID:      def.ID,
		FormTitle:   def.Title,
		Data:        data,
		SubmittedAt: s.now(),
	})
	if err != nil {
		logger.Warn("forms.submit.failed", "error", err)
		return result, nil
	}
	logger.Info("forms.submit.delivered")
	result.Delivered = true
	return result, nil
}

// SubmitByID looks the form up in state before submitting.
func (s *Service) SubmitByID(ctx context.Context, state entities.State, formID string, values Values) (Result, error) {
	def, ok := state.FormByID(formID)
	if !ok {
		return Result{}, ErrUnknownForm
	}
	return s.Submit(ctx, def, values)
}

// WebhookSubmitter returns the legacy webhook for integrations, or nil when
// none is configured.
func WebhookSubmitter(integrations entities.Integrations, opts ...remote.Option) Submitter {
	if !remote.IsLegacyWebhookURL(integrations.GoogleSheetsURL) {
		return nil
	}
	return remote.NewSheets(integrations.GoogleSheetsURL, opts...)
}
