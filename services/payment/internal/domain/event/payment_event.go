package event

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const TypePaymentVerified = "payment.verified"

// PaymentVerified is emitted once per order after the ledger transaction commits.
type PaymentVerified struct {
	Type              string          `json:"type"`
	PaymentID         uuid.UUID       `json:"payment_id"`
	AdmissionID       uuid.UUID       `json:"admission_id"`
	StudentUserID     string          `json:"student_user_id"`
	GatewayOrderID    string          `json:"gateway_order_id"`
	GatewayPaymentID  string          `json:"gateway_payment_id"`
	InstallmentNumber *int            `json:"installment_number,omitempty"`
	Amount            decimal.Decimal `json:"amount"`
	Currency          string          `json:"currency"`
	ReceiptNumber     string          `json:"receipt_number"`
	PendingAmount     decimal.Decimal `json:"pending_amount"`
	Overpaid          bool            `json:"overpaid"`
	OccurredAt        time.Time       `json:"occurred_at"`
}

// Publisher delivers payment events to downstream consumers (receipts, notifications).
type Publisher interface {
	PublishPaymentVerified(ctx context.Context, evt *PaymentVerified) error
}
