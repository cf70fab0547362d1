package checkout

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

type Admission struct {
	ID            string          `json:"id"`
	StudentName   string          `json:"student_name"`
	CourseName    string          `json:"course_name"`
	Currency      string          `json:"currency"`
	TotalFees     decimal.Decimal `json:"total_fees"`
	PaymentType   string          `json:"payment_type"`
	PaidAmount    decimal.Decimal `json:"paid_amount"`
	PendingAmount decimal.Decimal `json:"pending_amount"`
}

func (a Admission) IsEMI() bool {
	return a.PaymentType == "EMI"
}

type Installment struct {
	Number        int             `json:"installment_number"`
	Amount        decimal.Decimal `json:"amount"`
	DueDate       time.Time       `json:"due_date"`
	Status        string          `json:"status"`
	PaidDate      *time.Time      `json:"paid_date,omitempty"`
	ReceiptNumber *string         `json:"receipt_number,omitempty"`
}

func (i Installment) IsPaid() bool {
	return i.Status == "PAID"
}

// AdmissionDetails mirrors GET /api/v1/admissions/:id
type AdmissionDetails struct {
	Admission    Admission     `json:"admission"`
	Installments []Installment `json:"installments"`
}

type OrderRequest struct {
	AdmissionID       string          `json:"admission_id"`
	Amount            decimal.Decimal `json:"amount"`
	Currency          string          `json:"currency,omitempty"`
	InstallmentNumber *int            `json:"installment_number,omitempty"`
}

type Order struct {
	OrderID           string          `json:"order_id"`
	Amount            decimal.Decimal `json:"amount"`
	AmountMinor       int64           `json:"amount_minor"`
	Currency          string          `json:"currency"`
	KeyID             string          `json:"key_id"`
	Gateway           string          `json:"gateway"`
	Purpose           string          `json:"purpose"`
	InstallmentNumber *int            `json:"installment_number,omitempty"`
	Prefill           Payer           `json:"prefill"`
	MerchantName      string          `json:"merchant_name"`
	Description       string          `json:"description"`
	CheckoutScriptURL string          `json:"checkout_script_url,omitempty"`
}

// Capture is the signed triple the gateway hands back after payment
type Capture struct {
	OrderID   string `json:"order_id"`
	PaymentID string `json:"payment_id"`
	Signature string `json:"signature"`
}

type VerifyRequest struct {
	OrderID           string          `json:"razorpay_order_id"`
	PaymentID         string          `json:"razorpay_payment_id"`
	Signature         string          `json:"razorpay_signature"`
	AdmissionID       string          `json:"admission_id"`
	Amount            decimal.Decimal `json:"amount"`
	InstallmentNumber *int            `json:"installment_number,omitempty"`
	GatewayPayload    json.RawMessage `json:"gateway_payload,omitempty"`
}

type Verification struct {
	Status      string       `json:"status"`
	Admission   Admission    `json:"admission"`
	Installment *Installment `json:"installment,omitempty"`
	Payment     *struct {
		ReceiptNumber string `json:"receipt_number"`
	} `json:"payment,omitempty"`
	Overpaid bool `json:"overpaid"`
}

// ReceiptNumber returns the receipt of the verified payment, if any.
func (v *Verification) ReceiptNumber() string {
	if v.Payment == nil {
		return ""
	}
	return v.Payment.ReceiptNumber
}
