package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	apperrors "github.com/wekeepgrowing/institute-backend/pkg/errors"
	"github.com/wekeepgrowing/institute-backend/services/payment/internal/domain/provider"
	"github.com/wekeepgrowing/institute-backend/services/payment/internal/infrastructure/provider/sandbox"
	"go.uber.org/zap"
)

// SandboxCompleter simulates the hosted checkout capturing an order
type SandboxCompleter interface {
	Complete(ctx context.Context, orderID string) (*sandbox.Capture, error)
}

// checkoutScript stands in for the gateway's hosted checkout script in development.
const checkoutScript = `window.SandboxCheckout = function (options) {
  this.open = function () {
    fetch("/sandbox/orders/" + encodeURIComponent(options.order_id) + "/complete", { method: "POST" })
      .then(function (r) { return r.json(); })
      .then(function (c) {
        options.handler({
          razorpay_order_id: c.order_id,
          razorpay_payment_id: c.payment_id,
          razorpay_signature: c.signature
        });
      });
  };
};
`

// SandboxHandler serves the development-only gateway simulation
type SandboxHandler struct {
	gateway SandboxCompleter
	logger  *zap.Logger
}

func NewSandboxHandler(gateway SandboxCompleter, logger *zap.Logger) *SandboxHandler {
	return &SandboxHandler{gateway: gateway, logger: logger}
}

// CompleteOrder handles POST /sandbox/orders/:orderId/complete
func (h *SandboxHandler) CompleteOrder(c echo.Context) error {
	orderID := c.Param("orderId")

	capture, err := h.gateway.Complete(c.Request().Context(), orderID)
	if err != nil {
		var perr *provider.ProviderError
		if errors.As(err, &perr) && perr.Code == "NOT_FOUND" {
			return apperrors.NewAppError(apperrors.ErrNotFound, perr.Message, err)
		}
		return apperrors.NewAppError(apperrors.ErrInternal, "sandbox capture failed", err)
	}

	h.logger.Info("Sandbox order captured",
		zap.String("order_id", capture.OrderID),
		zap.String("payment_id", capture.PaymentID))

	return c.JSON(http.StatusOK, capture)
}

// CheckoutScript handles GET /sandbox/checkout.js
func (h *SandboxHandler) CheckoutScript(c echo.Context) error {
	return c.Blob(http.StatusOK, "application/javascript; charset=utf-8", []byte(checkoutScript))
}
