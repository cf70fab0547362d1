package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasCode(t *testing.T) {
	base := NewAppError(ErrAmountMismatch, "amount mismatch", nil)
	wrapped := Wrap(fmt.Errorf("verify: %w", base), "payment verification failed")

	assert.True(t, HasCode(base, ErrAmountMismatch))
	assert.True(t, HasCode(wrapped, ErrAmountMismatch))
	assert.False(t, HasCode(wrapped, ErrNotFound))
	assert.False(t, HasCode(nil, ErrNotFound))
	assert.Equal(t, ErrAmountMismatch, CodeOf(wrapped))
	assert.Equal(t, ErrInternal, CodeOf(fmt.Errorf("plain")))
}

func TestWrap_PlainErrorBecomesInternal(t *testing.T) {
	err := Wrap(fmt.Errorf("connection refused"), "failed to load admission")
	assert.True(t, HasCode(err, ErrInternal))
	assert.Nil(t, Wrap(nil, "ignored"))
}

func TestToResponse(t *testing.T) {
	tests := []struct {
		name          string
		err           error
		wantStatus    int
		wantCode      string
		wantMessage   string
		wantRetryable bool
	}{
		{
			name:        "signature invalid",
			err:         NewAppError(ErrSignatureInvalid, "payment signature does not match", nil),
			wantStatus:  http.StatusBadRequest,
			wantCode:    ErrSignatureInvalid,
			wantMessage: "payment signature does not match",
		},
		{
			name:          "order creation failed is retryable",
			err:           Wrap(NewAppError(ErrOrderCreationFailed, "gateway rejected the order", fmt.Errorf("timeout")), "create order"),
			wantStatus:    http.StatusBadGateway,
			wantCode:      ErrOrderCreationFailed,
			wantMessage:   "gateway rejected the order",
			wantRetryable: true,
		},
		{
			name:        "internal hides cause",
			err:         NewAppError(ErrInternal, "db exploded", fmt.Errorf("pq: password")),
			wantStatus:  http.StatusInternalServerError,
			wantCode:    ErrInternal,
			wantMessage: http.StatusText(http.StatusInternalServerError),
		},
		{
			name:        "plain error",
			err:         fmt.Errorf("boom"),
			wantStatus:  http.StatusInternalServerError,
			wantCode:    ErrInternal,
			wantMessage: http.StatusText(http.StatusInternalServerError),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := ToResponse(tt.err)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantCode, body["code"])
			assert.Equal(t, tt.wantMessage, body["error"])
			_, retryable := body["retryable"]
			assert.Equal(t, tt.wantRetryable, retryable)
		})
	}
}

func TestGetCodeMapping_Unknown(t *testing.T) {
	httpStatus, grpcCode := GetCodeMapping("SOMETHING_ELSE")
	assert.Equal(t, 500, httpStatus)
	assert.Equal(t, 13, grpcCode)
}
