package shared

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrInvalidMailKind = errors.New("invalid mail event kind")

// MailKind defines the template a mail event is rendered with
type MailKind string

const (
	MailKindOTP               MailKind = "OTP"
	MailKindOrderConfirmation MailKind = "ORDER_CONFIRMATION"
	MailKindOrderStatus       MailKind = "ORDER_STATUS"
	MailKindNewsletter        MailKind = "NEWSLETTER"
	MailKindContact           MailKind = "CONTACT"
)

// Valid reports whether the kind is one of the known templates
func (k MailKind) Valid() bool {
	switch k {
	case MailKindOTP, MailKindOrderConfirmation, MailKindOrderStatus,
		MailKindNewsletter, MailKindContact:
		return true
	}
	return false
}

// MailEvent is the Kafka message the API publishes for asynchronous email
// delivery. Fields holds template parameters (otp code, order id, blog title
// and so on) keyed by template placeholder name.
type MailEvent struct {
	EventID       uuid.UUID         `json:"event_id"`
	Kind          MailKind          `json:"kind"`
	To            []string          `json:"to"`
	Fields        map[string]string `json:"fields,omitempty"`
	CorrelationID string            `json:"correlation_id,omitempty"`
	Timestamp     time.Time         `json:"timestamp"`
}

// NewMailEvent builds a mail event with a fresh event id
func NewMailEvent(kind MailKind, to []string, fields map[string]string, correlationID string) (*MailEvent, error) {
	if !kind.Valid() {
		return nil, ErrInvalidMailKind
	}
	if len(to) == 0 {
		return nil, errors.New("mail event needs at least one recipient")
	}

	return &MailEvent{
		EventID:       uuid.New(),
		Kind:          kind,
		To:            to,
		Fields:        fields,
		CorrelationID: correlationID,
		Timestamp:     time.Now(),
	}, nil
}
