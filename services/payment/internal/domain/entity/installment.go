package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type InstallmentStatus string

const (
	InstallmentPending InstallmentStatus = "PENDING"
	InstallmentPaid    InstallmentStatus = "PAID"
)

// Installment is one scheduled EMI payment. Number is 1-based and unique per admission.
type Installment struct {
	ID            uuid.UUID         `json:"id"`
	AdmissionID   uuid.UUID         `json:"admission_id"`
	Number        int               `json:"installment_number"`
	Amount        decimal.Decimal   `json:"amount"`
	DueDate       time.Time         `json:"due_date"`
	Status        InstallmentStatus `json:"status"`
	PaidDate      *time.Time        `json:"paid_date,omitempty"`
	ReceiptNumber *string           `json:"receipt_number,omitempty"`
}

func (i *Installment) IsPaid() bool {
	return i.Status == InstallmentPaid
}

// MarkPaid transitions PENDING to PAID. It is a no-op returning false when already paid.
func (i *Installment) MarkPaid(at time.Time, receipt string) bool {
	if i.IsPaid() {
		return false
	}
	i.Status = InstallmentPaid
	i.PaidDate = &at
	i.ReceiptNumber = &receipt
	return true
}
