package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/wekeepgrowing/institute-backend/services/payment/internal/domain/entity"
)

// RecordResult is what RecordPayment observed and changed inside its transaction.
type RecordResult struct {
	Status      entity.VerificationStatus
	Payment     *entity.VerifiedPayment
	Admission   *entity.Admission
	Installment *entity.Installment
}

type PaymentRepository interface {
	// GetByOrderID returns nil, nil when no payment was recorded for the order.
	GetByOrderID(ctx context.Context, orderID string) (*entity.VerifiedPayment, error)
	GetByReceiptNumber(ctx context.Context, receiptNumber string) (*entity.VerifiedPayment, error)
	ListByAdmission(ctx context.Context, admissionID uuid.UUID) ([]entity.VerifiedPayment, error)

	// RecordPayment applies payment to the admission ledger atomically.
	//
	// Inside one transaction it re-checks the order id, locks the admission
	// (and installment, when payment names one), runs entity.ApplyPayment, then
	// writes the ledger rows and the payment. When the order was already
	// recorded it returns StatusAlreadyProcessed with the stored payment. When
	// the target was already settled it returns StatusAlreadyPaid and writes
	// nothing. Any error rolls the transaction back.
	RecordPayment(ctx context.Context, payment *entity.VerifiedPayment) (*RecordResult, error)
}
