package razorpay

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/wekeepgrowing/institute-backend/services/payment/internal/domain/provider"
	"go.uber.org/zap"
)

type mockOrderAPI struct {
	mock.Mock
}

func (m *mockOrderAPI) Create(data map[string]interface{}, extraHeaders map[string]string) (map[string]interface{}, error) {
	args := m.Called(data, extraHeaders)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]interface{}), args.Error(1)
}

func TestRazorpayProvider_CreateOrder(t *testing.T) {
	api := new(mockOrderAPI)
	p := newWithOrderAPI("rzp_test_key", api, zap.NewNop())

	api.On("Create", map[string]interface{}{
		"amount":   int64(50000),
		"currency": "INR",
		"receipt":  "adm_1",
		"notes":    map[string]string{"admission_id": "a-1"},
	}, map[string]string(nil)).Return(map[string]interface{}{
		"id":         "order_ABC",
		"amount":     float64(50000),
		"currency":   "INR",
		"receipt":    "adm_1",
		"status":     "created",
		"created_at": float64(1700000000),
	}, nil)

	order, err := p.CreateOrder(context.Background(), &provider.CreateOrderRequest{
		AmountMinor: 50000,
		Currency:    "INR",
		Receipt:     "adm_1",
		Notes:       map[string]string{"admission_id": "a-1"},
	})

	require.NoError(t, err)
	assert.Equal(t, "order_ABC", order.ID)
	assert.Equal(t, int64(50000), order.AmountMinor)
	assert.Equal(t, "created", order.Status)
	assert.Equal(t, int64(1700000000), order.CreatedAt.Unix())
	assert.Equal(t, "rzp_test_key", p.PublicKey())
	api.AssertExpectations(t)
}

func TestRazorpayProvider_CreateOrderErrors(t *testing.T) {
	t.Run("sdk error", func(t *testing.T) {
		api := new(mockOrderAPI)
		api.On("Create", mock.Anything, mock.Anything).Return(nil, errors.New("BAD_REQUEST_ERROR"))
		p := newWithOrderAPI("k", api, zap.NewNop())

		_, err := p.CreateOrder(context.Background(), &provider.CreateOrderRequest{AmountMinor: 100, Currency: "INR"})

		var perr *provider.ProviderError
		require.ErrorAs(t, err, &perr)
		assert.Equal(t, "API_ERROR", perr.Code)
	})

	t.Run("missing id", func(t *testing.T) {
		api := new(mockOrderAPI)
		api.On("Create", mock.Anything, mock.Anything).Return(map[string]interface{}{"status": "created"}, nil)
		p := newWithOrderAPI("k", api, zap.NewNop())

		_, err := p.CreateOrder(context.Background(), &provider.CreateOrderRequest{AmountMinor: 100, Currency: "INR"})

		var perr *provider.ProviderError
		require.ErrorAs(t, err, &perr)
		assert.Equal(t, "PARSE_ERROR", perr.Code)
	})

	t.Run("cancelled context", func(t *testing.T) {
		api := new(mockOrderAPI)
		p := newWithOrderAPI("k", api, zap.NewNop())
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := p.CreateOrder(ctx, &provider.CreateOrderRequest{AmountMinor: 100, Currency: "INR"})
		assert.ErrorIs(t, err, context.Canceled)
		api.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}
