package checkout

import (
	"context"
	"encoding/json"
	"errors"
)

// ErrCheckoutDismissed is returned by Open when the payer closes the checkout without paying
var ErrCheckoutDismissed = errors.New("checkout dismissed")

type CheckoutOptions struct {
	KeyID        string
	OrderID      string
	AmountMinor  int64
	Currency     string
	MerchantName string
	Description  string
	Prefill      Payer
}

// CheckoutResult is the signed completion the gateway hands back
type CheckoutResult struct {
	OrderID   string
	PaymentID string
	Signature string
	Payload   json.RawMessage
}

// Checkout opens the gateway's hosted payment UI for one order.
type Checkout interface {
	Open(ctx context.Context, opts CheckoutOptions) (CheckoutResult, error)
}

type sandboxCompleter interface {
	CompleteSandboxOrder(ctx context.Context, orderID string) (*Capture, error)
}

// SandboxCheckout completes orders through the service's simulated gateway.
// Confirm, when set, is asked before paying; returning false dismisses the checkout.
type SandboxCheckout struct {
	api     sandboxCompleter
	Confirm func(opts CheckoutOptions) bool
}

func NewSandboxCheckout(api sandboxCompleter) *SandboxCheckout {
	return &SandboxCheckout{api: api}
}

func (s *SandboxCheckout) Open(ctx context.Context, opts CheckoutOptions) (CheckoutResult, error) {
	if s.Confirm != nil && !s.Confirm(opts) {
		return CheckoutResult{}, ErrCheckoutDismissed
	}

	capture, err := s.api.CompleteSandboxOrder(ctx, opts.OrderID)
	if err != nil {
		return CheckoutResult{}, err
	}

	payload, err := json.Marshal(map[string]string{
		"razorpay_order_id":   capture.OrderID,
		"razorpay_payment_id": capture.PaymentID,
		"razorpay_signature":  capture.Signature,
	})
	if err != nil {
		return CheckoutResult{}, err
	}

	return CheckoutResult{
		OrderID:   capture.OrderID,
		PaymentID: capture.PaymentID,
		Signature: capture.Signature,
		Payload:   payload,
	}, nil
}
