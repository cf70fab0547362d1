// Package sandbox is an in-process stand-in for the hosted gateway. It issues
// order ids and signs simulated captures with the configured secret, so the
// whole checkout flow can run in development and tests.
package sandbox

import (
	"context"
	"fmt"
	"sync"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/wekeepgrowing/institute-backend/services/payment/internal/domain/provider"
	"go.uber.org/zap"
)

const idAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

// Signer produces the capture signature for an order/payment pair
type Signer interface {
	Sign(orderID, paymentID string) string
}

// Capture is what a completed sandbox checkout hands back to the client
type Capture struct {
	OrderID   string `json:"order_id"`
	PaymentID string `json:"payment_id"`
	Signature string `json:"signature"`
}

type SandboxProvider struct {
	keyID  string
	signer Signer
	logger *zap.Logger

	mu     sync.Mutex
	orders map[string]*provider.Order
}

func NewSandboxProvider(keyID string, signer Signer, logger *zap.Logger) *SandboxProvider {
	return &SandboxProvider{
		keyID:  keyID,
		signer: signer,
		logger: logger,
		orders: make(map[string]*provider.Order),
	}
}

func (p *SandboxProvider) GetProviderName() string {
	return string(provider.ProviderTypeSandbox)
}

func (p *SandboxProvider) PublicKey() string {
	return p.keyID
}

func (p *SandboxProvider) CreateOrder(ctx context.Context, req *provider.CreateOrderRequest) (*provider.Order, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if req.AmountMinor <= 0 {
		return nil, &provider.ProviderError{Code: "BAD_REQUEST_ERROR", Message: "amount must be positive"}
	}

	id, err := gonanoid.Generate(idAlphabet, 14)
	if err != nil {
		return nil, &provider.ProviderError{Code: "ID_ERROR", Message: "failed to generate order id", Details: err.Error()}
	}

	order := &provider.Order{
		ID:          "order_" + id,
		AmountMinor: req.AmountMinor,
		Currency:    req.Currency,
		Receipt:     req.Receipt,
		Status:      "created",
		CreatedAt:   time.Now().UTC(),
	}

	p.mu.Lock()
	p.orders[order.ID] = order
	p.mu.Unlock()

	p.logger.Debug("SandboxProvider: order created",
		zap.String("order_id", order.ID),
		zap.Int64("amount", order.AmountMinor))

	copied := *order
	return &copied, nil
}

// Complete simulates a successful capture of orderID and returns the signed triple.
func (p *SandboxProvider) Complete(ctx context.Context, orderID string) (*Capture, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	order, ok := p.orders[orderID]
	if !ok {
		return nil, &provider.ProviderError{Code: "NOT_FOUND", Message: fmt.Sprintf("order %s not found", orderID)}
	}

	id, err := gonanoid.Generate(idAlphabet, 14)
	if err != nil {
		return nil, &provider.ProviderError{Code: "ID_ERROR", Message: "failed to generate payment id", Details: err.Error()}
	}
	order.Status = "paid"

	paymentID := "pay_" + id
	return &Capture{
		OrderID:   orderID,
		PaymentID: paymentID,
		Signature: p.signer.Sign(orderID, paymentID),
	}, nil
}
