package provider

import (
	"fmt"

	"github.com/wekeepgrowing/institute-backend/services/payment/internal/config"
	"github.com/wekeepgrowing/institute-backend/services/payment/internal/domain/provider"
	razorpayProvider "github.com/wekeepgrowing/institute-backend/services/payment/internal/infrastructure/provider/razorpay"
	sandboxProvider "github.com/wekeepgrowing/institute-backend/services/payment/internal/infrastructure/provider/sandbox"
	"go.uber.org/zap"
)

// Factory creates payment gateways based on the provider type
type Factory struct {
	config *config.GatewayConfig
	signer sandboxProvider.Signer
	logger *zap.Logger
}

// NewFactory creates a new provider factory. signer is only used by the sandbox gateway.
func NewFactory(config *config.GatewayConfig, signer sandboxProvider.Signer, logger *zap.Logger) *Factory {
	return &Factory{
		config: config,
		signer: signer,
		logger: logger,
	}
}

// GetProvider returns a payment gateway based on the provider type
func (f *Factory) GetProvider(providerType provider.ProviderType) (provider.PaymentGateway, error) {
	switch providerType {
	case provider.ProviderTypeRazorpay:
		return f.createRazorpayProvider()
	case provider.ProviderTypeSandbox:
		return f.CreateSandboxProvider(), nil
	default:
		return nil, fmt.Errorf("unsupported provider type: %s", providerType)
	}
}

// GetProviderFromString returns a payment gateway from a string type, defaulting to Razorpay
func (f *Factory) GetProviderFromString(providerStr string) (provider.PaymentGateway, error) {
	if providerStr == "" {
		providerStr = string(provider.ProviderTypeRazorpay)
	}
	return f.GetProvider(provider.ProviderType(providerStr))
}

func (f *Factory) createRazorpayProvider() (provider.PaymentGateway, error) {
	if f.config.KeyID == "" || f.config.KeySecret == "" {
		return nil, fmt.Errorf("Razorpay key id and secret must be configured")
	}

	return razorpayProvider.NewRazorpayProvider(
		f.config.KeyID,
		f.config.KeySecret,
		f.logger.Named("razorpay"),
	), nil
}

// CreateSandboxProvider returns the concrete sandbox gateway so callers can also simulate captures.
func (f *Factory) CreateSandboxProvider() *sandboxProvider.SandboxProvider {
	return sandboxProvider.NewSandboxProvider(f.config.KeyID, f.signer, f.logger.Named("sandbox"))
}
