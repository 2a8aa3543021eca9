package service

import (
	"context"

	"github.com/shopstack-backend/internal/domain/shared"
)

// DispatchService renders a mail event and delivers the resulting email
type DispatchService interface {
	Dispatch(ctx context.Context, event *shared.MailEvent) error
}
