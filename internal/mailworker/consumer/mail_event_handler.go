package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shopstack-backend/internal/domain/shared"
	"github.com/shopstack-backend/internal/mailworker/service"
	"github.com/shopstack-backend/internal/platform/messaging/producers"
)

// MailEventHandler handles incoming mail event messages from Kafka
type MailEventHandler struct {
	dispatchService service.DispatchService
	producer        producers.DeadLetterPublisher
	logger          *slog.Logger
}

// NewMailEventHandler creates a new handler
func NewMailEventHandler(
	logger *slog.Logger,
	dispatchService service.DispatchService,
	producer producers.DeadLetterPublisher,
) *MailEventHandler {
	return &MailEventHandler{
		dispatchService: dispatchService,
		producer:        producer,
		logger:          logger,
	}
}

// HandleMessage processes Kafka messages. Messages that can never succeed,
// malformed JSON or events with no matching template, go to the dead letter
// queue so the consumer group is not wedged on a poison message. Delivery
// failures are returned so the offset stays uncommitted and Kafka redelivers.
func (h *MailEventHandler) HandleMessage(ctx context.Context, key []byte, value []byte) error {
	var event shared.MailEvent
	if err := json.Unmarshal(value, &event); err != nil {
		unmarshalErrorMsg := "Failed to unmarshal mail event from Kafka message"
		h.logger.Error(unmarshalErrorMsg,
			"error", err,
			"message_key", string(key),
		)
		return h.sendToDLQ(ctx, key, value, fmt.Sprintf("%s: %s", unmarshalErrorMsg, err.Error()), err)
	}

	logger := h.logger
	if event.CorrelationID != "" {
		logger = h.logger.With("correlation_id", event.CorrelationID)
	}

	logger.Info("Received mail event",
		"event_id", event.EventID.String(),
		"kind", string(event.Kind),
		"recipients", len(event.To),
	)

	if err := h.dispatchService.Dispatch(ctx, &event); err != nil {
		if errors.Is(err, service.ErrUnrenderable) {
			return h.sendToDLQ(ctx, key, value, err.Error(), err)
		}

		logger.Error("Failed to dispatch mail event",
			"event_id", event.EventID.String(),
			"kind", string(event.Kind),
			"error", err,
		)
		return fmt.Errorf("dispatching mail event %s failed: %w", event.EventID.String(), err)
	}

	logger.Info("Successfully dispatched mail event", "event_id", event.EventID.String())
	return nil // Success, commit offset
}

// sendToDLQ routes a poison message to the dead letter queue. When no DLQ
// producer is configured the original error is returned and Kafka retries.
func (h *MailEventHandler) sendToDLQ(ctx context.Context, key, value []byte, reason string, cause error) error {
	if h.producer == nil {
		return fmt.Errorf("unprocessable mail message and no DLQ configured: %w", cause)
	}

	if dlqErr := h.producer.PublishToDLQ(ctx, string(key), value, reason); dlqErr != nil {
		h.logger.Error("Failed to publish message to DLQ",
			"dlq_error", dlqErr,
			"original_error", cause,
			"message_key", string(key),
		)
		return fmt.Errorf("unprocessable mail message and DLQ publish failed: %w", cause)
	}

	h.logger.Info("Published unprocessable message to DLQ",
		"message_key", string(key),
		"reason", reason,
	)
	// Message handled, commit offset
	return nil
}
