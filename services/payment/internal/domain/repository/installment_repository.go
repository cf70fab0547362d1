package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/wekeepgrowing/institute-backend/services/payment/internal/domain/entity"
)

type InstallmentRepository interface {
	// CreateSchedule stores all installments at once. It returns SCHEDULE_EXISTS
	// when the admission already has installments.
	CreateSchedule(ctx context.Context, admissionID uuid.UUID, installments []entity.Installment) error
	// ListByAdmission returns installments ordered by number.
	ListByAdmission(ctx context.Context, admissionID uuid.UUID) ([]entity.Installment, error)
	// GetByNumber returns a NOT_FOUND error when the installment does not exist.
	GetByNumber(ctx context.Context, admissionID uuid.UUID, number int) (*entity.Installment, error)
}
