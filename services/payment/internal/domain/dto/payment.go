package dto

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// CreateOrderRequest is the body of POST /api/v1/payments/create-order
type CreateOrderRequest struct {
	AdmissionID       string          `json:"admission_id" validate:"required,uuid"`
	Amount            decimal.Decimal `json:"amount"`
	Currency          string          `json:"currency" validate:"omitempty,len=3,alpha"`
	InstallmentNumber *int            `json:"installment_number" validate:"omitempty,min=1"`
}

// VerifyPaymentRequest is the body of POST /api/v1/payments/verify. The three
// gateway fields use the names the hosted checkout hands back.
type VerifyPaymentRequest struct {
	OrderID           string          `json:"razorpay_order_id" validate:"required,max=64"`
	PaymentID         string          `json:"razorpay_payment_id" validate:"required,max=64"`
	Signature         string          `json:"razorpay_signature" validate:"required,hexadecimal,max=128"`
	AdmissionID       string          `json:"admission_id" validate:"required,uuid"`
	Amount            decimal.Decimal `json:"amount"`
	InstallmentNumber *int            `json:"installment_number" validate:"omitempty,min=1"`
	GatewayPayload    json.RawMessage `json:"gateway_payload,omitempty"`
}

// CreateScheduleRequest is the body of POST /api/v1/payments/installments
type CreateScheduleRequest struct {
	AdmissionID          string `json:"admission_id" validate:"required,uuid"`
	NumberOfInstallments int    `json:"number_of_installments" validate:"required,min=1,max=60"`
	FirstInstallmentDate string `json:"first_installment_date" validate:"required,datetime=2006-01-02"`
}
