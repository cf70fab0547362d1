package provider

import (
	"context"
	"time"
)

// PaymentGateway creates gateway-side orders that the hosted checkout later captures.
type PaymentGateway interface {
	// CreateOrder registers an order for AmountMinor and returns the gateway's order id.
	CreateOrder(ctx context.Context, req *CreateOrderRequest) (*Order, error)

	// PublicKey is the key id handed to the client checkout. Never the secret.
	PublicKey() string

	// GetProviderName returns the provider name
	GetProviderName() string
}

// CreateOrderRequest is a provider-agnostic order creation request
type CreateOrderRequest struct {
	AmountMinor int64             `json:"amount"` // Amount in smallest currency unit
	Currency    string            `json:"currency"`
	Receipt     string            `json:"receipt"`
	Notes       map[string]string `json:"notes,omitempty"`
}

// Order is the gateway's view of a created order
type Order struct {
	ID          string    `json:"id"`
	AmountMinor int64     `json:"amount"`
	Currency    string    `json:"currency"`
	Receipt     string    `json:"receipt"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

// ProviderType represents the type of payment provider
type ProviderType string

const (
	ProviderTypeRazorpay ProviderType = "razorpay"
	ProviderTypeSandbox  ProviderType = "sandbox"
)

// Error types for provider operations
type ProviderError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

func (e *ProviderError) Error() string {
	if e.Details != "" {
		return e.Message + ": " + e.Details
	}
	return e.Message
}
