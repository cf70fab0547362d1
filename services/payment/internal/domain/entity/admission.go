package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentType is how an admission's fees are settled.
type PaymentType string

const (
	PaymentTypeOneTime PaymentType = "ONE_TIME"
	PaymentTypeEMI     PaymentType = "EMI"
)

func (t PaymentType) Valid() bool {
	return t == PaymentTypeOneTime || t == PaymentTypeEMI
}

// Admission is the enrolment record and its fee ledger.
// PaidAmount + PendingAmount always equals TotalFees.
type Admission struct {
	ID             uuid.UUID       `json:"id"`
	StudentUserID  string          `json:"student_user_id"`
	StudentName    string          `json:"student_name"`
	StudentEmail   string          `json:"student_email"`
	StudentPhone   string          `json:"student_phone"`
	BranchID       string          `json:"branch_id,omitempty"`
	CourseName     string          `json:"course_name"`
	Currency       string          `json:"currency"`
	TotalFees      decimal.Decimal `json:"total_fees"`
	PaymentType    PaymentType     `json:"payment_type"`
	PaidAmount     decimal.Decimal `json:"paid_amount"`
	PendingAmount  decimal.Decimal `json:"pending_amount"`
	OverpaidAmount decimal.Decimal `json:"overpaid_amount"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// NewAdmission builds an admission with nothing paid yet.
func NewAdmission(studentUserID, name, email, phone, branchID, course, currency string, totalFees decimal.Decimal, paymentType PaymentType) *Admission {
	return &Admission{
		ID:             uuid.New(),
		StudentUserID:  studentUserID,
		StudentName:    name,
		StudentEmail:   email,
		StudentPhone:   phone,
		BranchID:       branchID,
		CourseName:     course,
		Currency:       currency,
		TotalFees:      totalFees,
		PaymentType:    paymentType,
		PaidAmount:     decimal.Zero,
		PendingAmount:  totalFees,
		OverpaidAmount: decimal.Zero,
	}
}

// Credit records a received amount. Pending is floored at zero; anything
// beyond the total is kept in OverpaidAmount and reported.
func (a *Admission) Credit(amount decimal.Decimal) (overpaid bool) {
	paid := a.PaidAmount.Add(amount)
	if paid.GreaterThan(a.TotalFees) {
		a.OverpaidAmount = a.OverpaidAmount.Add(paid.Sub(a.TotalFees))
		paid = a.TotalFees
		overpaid = true
	}
	a.PaidAmount = paid
	a.PendingAmount = a.TotalFees.Sub(paid)
	return overpaid
}

func (a *Admission) FullyPaid() bool {
	return a.PendingAmount.IsZero()
}

// Balanced reports whether the ledger invariant holds.
func (a *Admission) Balanced() bool {
	return a.PaidAmount.Add(a.PendingAmount).Equal(a.TotalFees) &&
		!a.PendingAmount.IsNegative()
}
