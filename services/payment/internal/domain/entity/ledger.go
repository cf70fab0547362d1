package entity

import (
	"time"

	"github.com/shopspring/decimal"
	domainErrors "github.com/wekeepgrowing/institute-backend/services/payment/internal/domain/errors"
)

// VerificationStatus is the result of applying a verified capture.
type VerificationStatus string

const (
	// StatusVerified: the ledger was credited by this call.
	StatusVerified VerificationStatus = "verified"
	// StatusAlreadyProcessed: this order was credited by an earlier call.
	StatusAlreadyProcessed VerificationStatus = "already_processed"
	// StatusAlreadyPaid: the target was settled by a different order. Nothing was credited.
	StatusAlreadyPaid VerificationStatus = "already_paid"
)

// LedgerEffect describes what ApplyPayment did to the ledger.
type LedgerEffect struct {
	Status   VerificationStatus
	Overpaid bool
}

// ApplyPayment credits a verified capture of amount to the admission, and to
// inst for EMI admissions. It mutates adm and inst only when it returns
// StatusVerified. The caller must hold both rows locked.
func ApplyPayment(adm *Admission, inst *Installment, amount decimal.Decimal, receipt string, at time.Time) (LedgerEffect, error) {
	if !amount.IsPositive() {
		return LedgerEffect{}, domainErrors.NewInvalidArgumentError("amount must be greater than zero")
	}

	switch adm.PaymentType {
	case PaymentTypeOneTime:
		if inst != nil {
			return LedgerEffect{}, domainErrors.NewInvalidArgumentError("admission %s is not paid in installments", adm.ID)
		}
		if adm.FullyPaid() {
			return LedgerEffect{Status: StatusAlreadyPaid}, nil
		}
		if !amount.Equal(adm.PendingAmount) {
			return LedgerEffect{}, domainErrors.NewAmountMismatchError(adm.PendingAmount, amount)
		}
		overpaid := adm.Credit(amount)
		adm.UpdatedAt = at
		return LedgerEffect{Status: StatusVerified, Overpaid: overpaid}, nil

	case PaymentTypeEMI:
		if inst == nil {
			return LedgerEffect{}, domainErrors.NewInvalidArgumentError("installment number is required for admission %s", adm.ID)
		}
		if inst.AdmissionID != adm.ID {
			return LedgerEffect{}, domainErrors.NewInvalidArgumentError("installment %d does not belong to admission %s", inst.Number, adm.ID)
		}
		if inst.IsPaid() {
			return LedgerEffect{Status: StatusAlreadyPaid}, nil
		}
		if !amount.Equal(inst.Amount) {
			return LedgerEffect{}, domainErrors.NewAmountMismatchError(inst.Amount, amount)
		}
		inst.MarkPaid(at, receipt)
		overpaid := adm.Credit(inst.Amount)
		adm.UpdatedAt = at
		return LedgerEffect{Status: StatusVerified, Overpaid: overpaid}, nil
	}

	return LedgerEffect{}, domainErrors.NewInvalidArgumentError("unknown payment type %q", adm.PaymentType)
}
