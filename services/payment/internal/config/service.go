package config

type ServiceConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
	Version     string `mapstructure:"version"`
	ClientURL   string `mapstructure:"client_url"`
	// EnableSandbox exposes the simulated gateway endpoints. Never allowed in production.
	EnableSandbox bool `mapstructure:"enable_sandbox"`
}

const (
	GatewayRazorpay = "razorpay"
	GatewaySandbox  = "sandbox"
)

// GatewayConfig holds the payment gateway credentials and checkout presentation.
type GatewayConfig struct {
	Provider          string `mapstructure:"provider"`
	KeyID             string `mapstructure:"key_id"`
	KeySecret         string `mapstructure:"key_secret"`
	Currency          string `mapstructure:"currency"`
	CheckoutScriptURL string `mapstructure:"checkout_script_url"`
	MerchantName      string `mapstructure:"merchant_name"`
}
