package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentPurpose tells which ledger entry an order is meant to settle.
type PaymentPurpose string

const (
	PurposeFullPayment PaymentPurpose = "FULL_PAYMENT"
	PurposeInstallment PaymentPurpose = "INSTALLMENT"
)

// PaymentOrderIntent is the short-lived link between a gateway order and an admission.
// It is cached, never authoritative.
type PaymentOrderIntent struct {
	OrderID           string          `json:"order_id"`
	AdmissionID       uuid.UUID       `json:"admission_id"`
	InstallmentNumber *int            `json:"installment_number,omitempty"`
	Amount            decimal.Decimal `json:"amount"`
	Currency          string          `json:"currency"`
	Purpose           PaymentPurpose  `json:"purpose"`
	CreatedAt         time.Time       `json:"created_at"`
}
