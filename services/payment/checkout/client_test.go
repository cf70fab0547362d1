package checkout

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *APIClient {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewAPIClient(&Session{BaseURL: srv.URL, Token: "tok"}, srv.Client())
}

func TestAPIClient_CreateOrder(t *testing.T) {
	n := 2
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/payments/create-order", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "adm-1", body["admission_id"])
		assert.Equal(t, "333.33", body["amount"])
		assert.Equal(t, float64(2), body["installment_number"])

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"order_id":"order_X","amount":"333.33","amount_minor":33333,"currency":"INR","key_id":"rzp_test","purpose":"INSTALLMENT","installment_number":2}`))
	})

	order, err := client.CreateOrder(context.Background(), &OrderRequest{
		AdmissionID:       "adm-1",
		Amount:            decimal.RequireFromString("333.33"),
		InstallmentNumber: &n,
	})
	require.NoError(t, err)
	assert.Equal(t, "order_X", order.OrderID)
	assert.Equal(t, int64(33333), order.AmountMinor)
	assert.True(t, order.Amount.Equal(decimal.RequireFromString("333.33")))
	require.NotNil(t, order.InstallmentNumber)
	assert.Equal(t, 2, *order.InstallmentNumber)
}

func TestAPIClient_ErrorResponses(t *testing.T) {
	tests := []struct {
		name          string
		status        int
		body          string
		wantCode      string
		wantRetryable bool
	}{
		{
			name:          "service error envelope",
			status:        http.StatusBadGateway,
			body:          `{"error":"could not create order","code":"ORDER_CREATION_FAILED","retryable":true}`,
			wantCode:      "ORDER_CREATION_FAILED",
			wantRetryable: true,
		},
		{
			name:     "signature rejected",
			status:   http.StatusBadRequest,
			body:     `{"error":"signature verification failed","code":"SIGNATURE_INVALID"}`,
			wantCode: "SIGNATURE_INVALID",
		},
		{
			name:     "non json body",
			status:   http.StatusServiceUnavailable,
			body:     `upstream down`,
			wantCode: "HTTP_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := client.VerifyPayment(context.Background(), &VerifyRequest{OrderID: "order_X"})
			var apiErr *APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.status, apiErr.Status)
			assert.Equal(t, tt.wantCode, apiErr.Code)
			assert.Equal(t, tt.wantRetryable, apiErr.Retryable)
		})
	}
}

func TestAPIClient_GetAdmissionAndInstallments(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/admissions/adm-1":
			_, _ = w.Write([]byte(`{"admission":{"id":"adm-1","payment_type":"EMI","total_fees":"1000","pending_amount":"1000","paid_amount":"0"},"installments":[{"installment_number":1,"amount":"333.33","status":"PENDING"}],"payments":[]}`))
		case "/api/v1/payments/installments/adm-1":
			_, _ = w.Write([]byte(`{"installments":[{"installment_number":1,"amount":"333.33","status":"PAID"}]}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	details, err := client.GetAdmission(context.Background(), "adm-1")
	require.NoError(t, err)
	assert.True(t, details.Admission.IsEMI())
	require.Len(t, details.Installments, 1)
	assert.False(t, details.Installments[0].IsPaid())

	installments, err := client.ListInstallments(context.Background(), "adm-1")
	require.NoError(t, err)
	require.Len(t, installments, 1)
	assert.True(t, installments[0].IsPaid())
}

func TestSandboxCheckout_Open(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/sandbox/orders/order_X/complete", r.URL.Path)
		_, _ = w.Write([]byte(`{"order_id":"order_X","payment_id":"pay_Y","signature":"abc123"}`))
	})

	t.Run("completes order", func(t *testing.T) {
		result, err := NewSandboxCheckout(client).Open(context.Background(), CheckoutOptions{OrderID: "order_X"})
		require.NoError(t, err)
		assert.Equal(t, "pay_Y", result.PaymentID)
		assert.Equal(t, "abc123", result.Signature)
		assert.JSONEq(t, `{"razorpay_order_id":"order_X","razorpay_payment_id":"pay_Y","razorpay_signature":"abc123"}`, string(result.Payload))
	})

	t.Run("declined confirmation dismisses", func(t *testing.T) {
		co := NewSandboxCheckout(client)
		co.Confirm = func(CheckoutOptions) bool { return false }

		_, err := co.Open(context.Background(), CheckoutOptions{OrderID: "order_X"})
		assert.ErrorIs(t, err, ErrCheckoutDismissed)
	})
}
