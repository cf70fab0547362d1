package sandbox

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wekeepgrowing/institute-backend/services/payment/internal/domain/provider"
	"github.com/wekeepgrowing/institute-backend/services/payment/internal/infrastructure/crypto"
	"go.uber.org/zap"
)

func TestSandboxProvider_OrderAndCapture(t *testing.T) {
	signer := crypto.NewHMACSignatureVerifier("sandbox-secret")
	p := NewSandboxProvider("rzp_test_sandbox", signer, zap.NewNop())

	order, err := p.CreateOrder(context.Background(), &provider.CreateOrderRequest{AmountMinor: 33333, Currency: "INR", Receipt: "r1"})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(order.ID, "order_"))
	assert.Equal(t, int64(33333), order.AmountMinor)

	capture, err := p.Complete(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.ID, capture.OrderID)
	assert.True(t, strings.HasPrefix(capture.PaymentID, "pay_"))
	assert.True(t, signer.Verify(capture.OrderID, capture.PaymentID, capture.Signature))
}

func TestSandboxProvider_Errors(t *testing.T) {
	p := NewSandboxProvider("k", crypto.NewHMACSignatureVerifier("s"), zap.NewNop())

	_, err := p.CreateOrder(context.Background(), &provider.CreateOrderRequest{AmountMinor: 0, Currency: "INR"})
	assert.Error(t, err)

	_, err = p.Complete(context.Background(), "order_unknown")
	var perr *provider.ProviderError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "NOT_FOUND", perr.Code)
}
