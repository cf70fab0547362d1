package razorpay

import (
	"context"
	"fmt"
	"time"

	rzp "github.com/razorpay/razorpay-go"
	"github.com/wekeepgrowing/institute-backend/services/payment/internal/domain/provider"
	"go.uber.org/zap"
)

// orderAPI is the part of the Razorpay SDK the provider uses
type orderAPI interface {
	Create(data map[string]interface{}, extraHeaders map[string]string) (map[string]interface{}, error)
}

// RazorpayProvider creates orders through the Razorpay Orders API
type RazorpayProvider struct {
	keyID  string
	orders orderAPI
	logger *zap.Logger
}

// NewRazorpayProvider creates a new Razorpay provider instance
func NewRazorpayProvider(keyID, keySecret string, logger *zap.Logger) *RazorpayProvider {
	client := rzp.NewClient(keyID, keySecret)
	return newWithOrderAPI(keyID, client.Order, logger)
}

func newWithOrderAPI(keyID string, orders orderAPI, logger *zap.Logger) *RazorpayProvider {
	return &RazorpayProvider{
		keyID:  keyID,
		orders: orders,
		logger: logger,
	}
}

func (p *RazorpayProvider) GetProviderName() string {
	return string(provider.ProviderTypeRazorpay)
}

func (p *RazorpayProvider) PublicKey() string {
	return p.keyID
}

// CreateOrder calls POST /v1/orders. The SDK call is not context aware, so a
// cancelled ctx abandons the wait but not the request.
func (p *RazorpayProvider) CreateOrder(ctx context.Context, req *provider.CreateOrderRequest) (*provider.Order, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data := map[string]interface{}{
		"amount":   req.AmountMinor,
		"currency": req.Currency,
		"receipt":  req.Receipt,
	}
	if len(req.Notes) > 0 {
		data["notes"] = req.Notes
	}

	type result struct {
		body map[string]interface{}
		err  error
	}
	done := make(chan result, 1)
	go func() {
		body, err := p.orders.Create(data, nil)
		done <- result{body: body, err: err}
	}()

	var res result
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res = <-done:
	}

	if res.err != nil {
		p.logger.Error("RazorpayProvider: order creation failed",
			zap.String("receipt", req.Receipt),
			zap.Int64("amount", req.AmountMinor),
			zap.Error(res.err))
		return nil, &provider.ProviderError{
			Code:    "API_ERROR",
			Message: "Razorpay order creation failed",
			Details: res.err.Error(),
		}
	}

	order, err := parseOrder(res.body)
	if err != nil {
		return nil, err
	}

	p.logger.Info("RazorpayProvider: order created",
		zap.String("order_id", order.ID),
		zap.String("receipt", order.Receipt),
		zap.Int64("amount", order.AmountMinor))

	return order, nil
}

func parseOrder(body map[string]interface{}) (*provider.Order, error) {
	id, _ := body["id"].(string)
	if id == "" {
		return nil, &provider.ProviderError{
			Code:    "PARSE_ERROR",
			Message: "Razorpay response has no order id",
			Details: fmt.Sprintf("%v", body),
		}
	}

	order := &provider.Order{ID: id}
	order.Currency, _ = body["currency"].(string)
	order.Receipt, _ = body["receipt"].(string)
	order.Status, _ = body["status"].(string)
	if amount, ok := body["amount"].(float64); ok {
		order.AmountMinor = int64(amount)
	}
	if created, ok := body["created_at"].(float64); ok {
		order.CreatedAt = time.Unix(int64(created), 0).UTC()
	}
	return order, nil
}
