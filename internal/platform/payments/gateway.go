// Package payments abstracts the card payment provider used at checkout.
package payments

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var ErrChargeDeclined = errors.New("charge declined by gateway")

// ChargeResult is the provider's record of a settled payment
type ChargeResult struct {
	Reference string
	Success   bool
}

// Gateway settles card payments. Cash-on-delivery orders never touch it.
type Gateway interface {
	// Charge settles the amount against the client-side payment nonce.
	// A declined charge returns ErrChargeDeclined.
	Charge(ctx context.Context, nonce string, amount float64) (*ChargeResult, error)

	// Refund reverses a settled charge, used when a later checkout step fails.
	Refund(ctx context.Context, reference string) error
}

// SandboxGateway approves every well-formed charge. It stands in for a real
// provider in development and tests.
type SandboxGateway struct{}

// NewSandboxGateway creates a sandbox gateway
func NewSandboxGateway() *SandboxGateway {
	return &SandboxGateway{}
}

// Charge approves the payment unless the nonce is empty or the amount is not
// positive.
func (g *SandboxGateway) Charge(ctx context.Context, nonce string, amount float64) (*ChargeResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if nonce == "" || amount <= 0 {
		return nil, ErrChargeDeclined
	}

	return &ChargeResult{
		Reference: uuid.NewString(),
		Success:   true,
	}, nil
}

// Refund always succeeds in the sandbox
func (g *SandboxGateway) Refund(ctx context.Context, reference string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if reference == "" {
		return errors.New("refund requires a charge reference")
	}
	return nil
}
