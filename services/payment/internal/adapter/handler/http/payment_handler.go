package http

import (
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"
	apperrors "github.com/wekeepgrowing/institute-backend/pkg/errors"
	"github.com/wekeepgrowing/institute-backend/services/payment/internal/domain/dto"
	domainErrors "github.com/wekeepgrowing/institute-backend/services/payment/internal/domain/errors"
	"github.com/wekeepgrowing/institute-backend/services/payment/internal/usecase"
	"go.uber.org/zap"
)

// PaymentHandler exposes order creation, verification and receipts
type PaymentHandler struct {
	orders        *usecase.OrderService
	verifications *usecase.VerificationService
	logger        *zap.Logger
}

func NewPaymentHandler(orders *usecase.OrderService, verifications *usecase.VerificationService, logger *zap.Logger) *PaymentHandler {
	return &PaymentHandler{
		orders:        orders,
		verifications: verifications,
		logger:        logger,
	}
}

// CreateOrder handles POST /api/v1/payments/create-order
func (h *PaymentHandler) CreateOrder(c echo.Context) error {
	who, err := requester(c)
	if err != nil {
		return err
	}

	var req dto.CreateOrderRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	admissionID, err := parseUUID("admission_id", req.AdmissionID)
	if err != nil {
		return err
	}

	result, err := h.orders.CreateOrder(c.Request().Context(), usecase.CreateOrderCommand{
		AdmissionID:       admissionID,
		Amount:            req.Amount,
		Currency:          req.Currency,
		InstallmentNumber: req.InstallmentNumber,
		Requester:         who,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, result)
}

// VerifyPayment handles POST /api/v1/payments/verify
func (h *PaymentHandler) VerifyPayment(c echo.Context) error {
	who, err := requester(c)
	if err != nil {
		return err
	}

	var req dto.VerifyPaymentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	admissionID, err := parseUUID("admission_id", req.AdmissionID)
	if err != nil {
		return err
	}

	payload, err := gatewayPayload(req.GatewayPayload, req.OrderID, req.PaymentID)
	if err != nil {
		h.logger.Error("Failed to build gateway payload", zap.String("order_id", req.OrderID), zap.Error(err))
		return err
	}

	result, err := h.verifications.Verify(c.Request().Context(), usecase.VerifyCommand{
		OrderID:           req.OrderID,
		PaymentID:         req.PaymentID,
		Signature:         req.Signature,
		AdmissionID:       admissionID,
		Amount:            req.Amount,
		InstallmentNumber: req.InstallmentNumber,
		RawPayload:        payload,
		Requester:         who,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, result)
}

// gatewayPayload returns raw when the client sent one, otherwise the minimal
// callback body the gateway would have posted.
func gatewayPayload(raw json.RawMessage, orderID, paymentID string) (json.RawMessage, error) {
	if len(raw) > 0 {
		return raw, nil
	}
	payload, err := json.Marshal(map[string]string{
		"razorpay_order_id":   orderID,
		"razorpay_payment_id": paymentID,
	})
	if err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrInternal, "failed to encode gateway payload", err)
	}
	return payload, nil
}

// ListPayments handles GET /api/v1/payments?admission_id=
func (h *PaymentHandler) ListPayments(c echo.Context) error {
	who, err := requester(c)
	if err != nil {
		return err
	}

	raw := c.QueryParam("admission_id")
	if raw == "" {
		return domainErrors.NewInvalidArgumentError("admission_id query parameter is required")
	}
	admissionID, err := parseUUID("admission_id", raw)
	if err != nil {
		return err
	}

	payments, err := h.verifications.ListPayments(c.Request().Context(), admissionID, who)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"payments": payments})
}

// GetReceipt handles GET /api/v1/payments/receipts/:receiptNumber
func (h *PaymentHandler) GetReceipt(c echo.Context) error {
	who, err := requester(c)
	if err != nil {
		return err
	}

	payment, admission, err := h.verifications.GetReceipt(c.Request().Context(), c.Param("receiptNumber"), who)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"receipt_number":     payment.ReceiptNumber,
		"payment":            payment,
		"student_name":       admission.StudentName,
		"course_name":        admission.CourseName,
		"total_fees":         admission.TotalFees,
		"paid_amount":        admission.PaidAmount,
		"pending_amount":     admission.PendingAmount,
		"installment_number": payment.InstallmentNumber,
	})
}
