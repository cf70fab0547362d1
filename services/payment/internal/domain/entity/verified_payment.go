package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// VerifiedPayment is the durable record of a gateway capture whose signature checked out.
// GatewayOrderID is unique: one order credits the ledger at most once.
type VerifiedPayment struct {
	ID                uuid.UUID       `json:"id"`
	GatewayOrderID    string          `json:"gateway_order_id"`
	GatewayPaymentID  string          `json:"gateway_payment_id"`
	Signature         string          `json:"-"`
	Amount            decimal.Decimal `json:"amount"`
	Currency          string          `json:"currency"`
	AdmissionID       uuid.UUID       `json:"admission_id"`
	InstallmentNumber *int            `json:"installment_number,omitempty"`
	ReceiptNumber     string          `json:"receipt_number"`
	Overpaid          bool            `json:"overpaid"`
	GatewayPayload    json.RawMessage `json:"-"`
	VerifiedAt        time.Time       `json:"verified_at"`
}
