package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	apperrors "github.com/wekeepgrowing/institute-backend/pkg/errors"
	"github.com/wekeepgrowing/institute-backend/services/payment/internal/domain/entity"
	domainErrors "github.com/wekeepgrowing/institute-backend/services/payment/internal/domain/errors"
	domainRepo "github.com/wekeepgrowing/institute-backend/services/payment/internal/domain/repository"
	"github.com/wekeepgrowing/institute-backend/services/payment/internal/domain/schedule"
	"go.uber.org/zap"
)

// ScheduleService creates and reads EMI installment schedules
type ScheduleService struct {
	admissionRepo   domainRepo.AdmissionRepository
	installmentRepo domainRepo.InstallmentRepository
	opts            schedule.Options
	logger          *zap.Logger
}

func NewScheduleService(
	admissionRepo domainRepo.AdmissionRepository,
	installmentRepo domainRepo.InstallmentRepository,
	opts schedule.Options,
	logger *zap.Logger,
) *ScheduleService {
	return &ScheduleService{
		admissionRepo:   admissionRepo,
		installmentRepo: installmentRepo,
		opts:            opts,
		logger:          logger,
	}
}

// CreateSchedule splits the admission's total fees into n installments starting at first.
func (s *ScheduleService) CreateSchedule(ctx context.Context, admissionID uuid.UUID, n int, first time.Time, requester Requester) ([]entity.Installment, error) {
	admission, err := s.admissionRepo.GetByID(ctx, admissionID)
	if err != nil {
		return nil, err
	}
	if err := authorize(requester, admission); err != nil {
		return nil, err
	}
	if admission.PaymentType != entity.PaymentTypeEMI {
		return nil, domainErrors.NewInvalidArgumentError("admission %s is not an EMI admission", admissionID)
	}

	installments, err := schedule.Generate(admission.ID, admission.TotalFees, n, first, s.opts)
	if err != nil {
		return nil, err
	}

	if err := s.installmentRepo.CreateSchedule(ctx, admission.ID, installments); err != nil {
		apperrors.LogError(s.logger, err, "Failed to create installment schedule",
			zap.String("admission_id", admissionID.String()))
		return nil, err
	}

	s.logger.Info("Installment schedule created",
		zap.String("admission_id", admissionID.String()),
		zap.Int("installments", n),
		zap.Time("first_due_date", first))

	return installments, nil
}

// ListInstallments returns the schedule ordered by installment number.
func (s *ScheduleService) ListInstallments(ctx context.Context, admissionID uuid.UUID, requester Requester) ([]entity.Installment, error) {
	admission, err := s.admissionRepo.GetByID(ctx, admissionID)
	if err != nil {
		return nil, err
	}
	if err := authorize(requester, admission); err != nil {
		return nil, err
	}
	return s.installmentRepo.ListByAdmission(ctx, admissionID)
}
