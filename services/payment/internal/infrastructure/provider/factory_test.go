package provider

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wekeepgrowing/institute-backend/services/payment/internal/config"
	"github.com/wekeepgrowing/institute-backend/services/payment/internal/domain/provider"
	"github.com/wekeepgrowing/institute-backend/services/payment/internal/infrastructure/crypto"
	"go.uber.org/zap"
)

func TestFactory_GetProvider(t *testing.T) {
	cfg := &config.GatewayConfig{KeyID: "rzp_test_1", KeySecret: "secret"}
	f := NewFactory(cfg, crypto.NewHMACSignatureVerifier(cfg.KeySecret), zap.NewNop())

	gw, err := f.GetProviderFromString("")
	require.NoError(t, err)
	assert.Equal(t, "razorpay", gw.GetProviderName())
	assert.Equal(t, "rzp_test_1", gw.PublicKey())

	gw, err = f.GetProvider(provider.ProviderTypeSandbox)
	require.NoError(t, err)
	assert.Equal(t, "sandbox", gw.GetProviderName())

	_, err = f.GetProviderFromString("stripe")
	assert.Error(t, err)
}

func TestFactory_RazorpayRequiresCredentials(t *testing.T) {
	f := NewFactory(&config.GatewayConfig{KeyID: "rzp_test_1"}, nil, zap.NewNop())

	_, err := f.GetProvider(provider.ProviderTypeRazorpay)
	assert.Error(t, err)
}
