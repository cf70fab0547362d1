package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/wekeepgrowing/institute-backend/services/payment/internal/domain/entity"
)

// AdmissionFilter narrows admission listings. Empty fields match everything.
type AdmissionFilter struct {
	StudentUserID string
	BranchID      string
	PaymentType   entity.PaymentType
	Limit         int
	Offset        int
}

// AdmissionRepository stores admissions. Updates to the money columns only
// happen through PaymentRepository.RecordPayment.
type AdmissionRepository interface {
	// Create persists the admission and, for EMI admissions, its initial schedule in one transaction.
	Create(ctx context.Context, admission *entity.Admission, installments []entity.Installment) error
	// GetByID returns a NOT_FOUND error when the admission does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Admission, error)
	List(ctx context.Context, filter AdmissionFilter) ([]entity.Admission, int64, error)
}
