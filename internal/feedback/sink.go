package feedback

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"summarylab/internal/apperr"
	"summarylab/internal/domain"
)

const (
	MinRate = 1
	MaxRate = 5
)

// Store durably records feedback rows.
type Store interface {
	InsertFeedback(ctx context.Context, f domain.Feedback) error
}

// Sink validates feedback and hands it to the store.
type Sink struct {
	store Store
	now   func() time.Time
	log   *slog.Logger
}

func NewSink(store Store, log *slog.Logger) *Sink {
	return &Sink{
		store: store,
		now:   time.Now,
		log:   log,
	}
}

// Validate checks the caller-controlled fields of a feedback record.
func Validate(f domain.Feedback) error {
	if strings.TrimSpace(f.ClientRequestID) == "" {
		return apperr.Validation("missing client_request_id")
	}
	if strings.TrimSpace(f.UserID) == "" {
		return apperr.Validation("missing user_id")
	}
	if f.Rate < MinRate || f.Rate > MaxRate {
		return apperr.Validation("rate must be between 1 and 5")
	}
	return nil
}

// Submit stamps the record with the current UTC time and persists it. Store
// failures are not retried.
func (s *Sink) Submit(ctx context.Context, f domain.Feedback) (domain.Feedback, error) {
	if err := Validate(f); err != nil {
		return domain.Feedback{}, err
	}

	f.Timestamp = s.now().UTC()

	if err := s.store.InsertFeedback(ctx, f); err != nil {
		s.log.ErrorContext(ctx, "Failed to persist feedback",
			"error", err,
			"clientRequestID", f.ClientRequestID)

		return domain.Feedback{}, apperr.Persistence("failed to persist feedback: "+err.Error(), err)
	}

	s.log.InfoContext(ctx, "Feedback is persisted",
		"clientRequestID", f.ClientRequestID,
		"rate", f.Rate,
		"commentLength", len(f.Comment))

	return f, nil
}
