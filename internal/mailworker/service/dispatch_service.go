package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shopstack-backend/internal/domain/shared"
	"github.com/shopstack-backend/internal/platform/mail"
)

// ErrUnrenderable marks an event that no template can render. Retrying such
// an event never succeeds.
var ErrUnrenderable = errors.New("mail event cannot be rendered")

// MailDispatchService renders events with the mail templates and sends the
// result through a Mailer
type MailDispatchService struct {
	mailer mail.Mailer
	logger *slog.Logger
}

// NewMailDispatchService creates a new dispatch service
func NewMailDispatchService(logger *slog.Logger, mailer mail.Mailer) *MailDispatchService {
	return &MailDispatchService{
		mailer: mailer,
		logger: logger,
	}
}

// Dispatch renders the event and sends it to all recipients. A render failure
// means the event can never be delivered and is reported as such so the
// caller can route it to the dead letter queue instead of retrying.
func (s *MailDispatchService) Dispatch(ctx context.Context, event *shared.MailEvent) error {
	logger := s.logger
	if event.CorrelationID != "" {
		logger = s.logger.With("correlation_id", event.CorrelationID)
	}

	subject, body, err := mail.Render(event)
	if err != nil {
		logger.Error("Failed to render mail event",
			"event_id", event.EventID.String(),
			"kind", string(event.Kind),
			"error", err,
		)
		return fmt.Errorf("%w: %s", ErrUnrenderable, err.Error())
	}

	if err := s.mailer.Send(ctx, event.To, subject, body); err != nil {
		logger.Error("Failed to deliver mail event",
			"event_id", event.EventID.String(),
			"kind", string(event.Kind),
			"recipients", len(event.To),
			"error", err,
		)
		return fmt.Errorf("delivering mail event %s failed: %w", event.EventID.String(), err)
	}

	logger.Info("Delivered mail event",
		"event_id", event.EventID.String(),
		"kind", string(event.Kind),
		"recipients", len(event.To),
	)
	return nil
}
