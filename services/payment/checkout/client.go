package checkout

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// APIError is a non-2xx answer from the payment service
type APIError struct {
	Status    int
	Code      string
	Message   string
	Retryable bool
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s (%d): %s", e.Code, e.Status, e.Message)
}

// APIClient calls the payment service REST API on behalf of a Session
type APIClient struct {
	session *Session
	client  *http.Client
}

func NewAPIClient(session *Session, client *http.Client) *APIClient {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &APIClient{session: session, client: client}
}

func (c *APIClient) GetAdmission(ctx context.Context, admissionID string) (*AdmissionDetails, error) {
	var out AdmissionDetails
	if err := c.do(ctx, http.MethodGet, "/api/v1/admissions/"+url.PathEscape(admissionID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *APIClient) ListInstallments(ctx context.Context, admissionID string) ([]Installment, error) {
	var out struct {
		Installments []Installment `json:"installments"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/v1/payments/installments/"+url.PathEscape(admissionID), nil, &out); err != nil {
		return nil, err
	}
	return out.Installments, nil
}

func (c *APIClient) CreateOrder(ctx context.Context, req *OrderRequest) (*Order, error) {
	var out Order
	if err := c.do(ctx, http.MethodPost, "/api/v1/payments/create-order", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *APIClient) VerifyPayment(ctx context.Context, req *VerifyRequest) (*Verification, error) {
	var out Verification
	if err := c.do(ctx, http.MethodPost, "/api/v1/payments/verify", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CompleteSandboxOrder asks the service's simulated gateway to capture orderID.
func (c *APIClient) CompleteSandboxOrder(ctx context.Context, orderID string) (*Capture, error) {
	var out Capture
	if err := c.do(ctx, http.MethodPost, "/sandbox/orders/"+url.PathEscape(orderID)+"/complete", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *APIClient) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.session.BaseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.session.Token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s failed: %w", method, path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		var errResp struct {
			Error     string `json:"error"`
			Code      string `json:"code"`
			Retryable bool   `json:"retryable"`
		}
		if json.Unmarshal(respBody, &errResp) != nil || errResp.Code == "" {
			errResp.Code = "HTTP_ERROR"
			errResp.Error = http.StatusText(resp.StatusCode)
		}
		return &APIError{
			Status:    resp.StatusCode,
			Code:      errResp.Code,
			Message:   errResp.Error,
			Retryable: errResp.Retryable,
		}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
