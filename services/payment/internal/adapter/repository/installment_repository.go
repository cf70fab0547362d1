package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/wekeepgrowing/institute-backend/services/payment/internal/domain/entity"
	domainErrors "github.com/wekeepgrowing/institute-backend/services/payment/internal/domain/errors"
	"github.com/wekeepgrowing/institute-backend/services/payment/internal/domain/model"
	domainRepo "github.com/wekeepgrowing/institute-backend/services/payment/internal/domain/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type installmentRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewInstallmentRepository creates a new installment repository instance
func NewInstallmentRepository(db *gorm.DB, logger *zap.Logger) domainRepo.InstallmentRepository {
	return &installmentRepository{
		db:     db,
		logger: logger,
	}
}

// CreateSchedule locks the admission row so two concurrent requests cannot both
// see an empty schedule. The unique (admission_id, installment_number) index is the backstop.
func (r *installmentRepository) CreateSchedule(ctx context.Context, admissionID uuid.UUID, installments []entity.Installment) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var admission model.Admission
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id").
			Where("id = ?", admissionID).
			Take(&admission).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domainErrors.NewAdmissionNotFoundError(admissionID.String())
			}
			return fmt.Errorf("failed to lock admission: %w", err)
		}

		var existing int64
		if err := tx.Model(&model.Installment{}).Where("admission_id = ?", admissionID).Count(&existing).Error; err != nil {
			return fmt.Errorf("failed to count installments: %w", err)
		}
		if existing > 0 {
			return domainErrors.NewScheduleExistsError(admissionID.String())
		}

		rows := make([]*model.Installment, len(installments))
		for i := range installments {
			rows[i] = toInstallmentModel(&installments[i])
		}
		return tx.Create(rows).Error
	})

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domainErrors.NewScheduleExistsError(admissionID.String())
	}
	if err != nil {
		r.logger.Error("Failed to create installment schedule",
			zap.String("admission_id", admissionID.String()),
			zap.Int("installments", len(installments)),
			zap.Error(err))
	}
	return err
}

func (r *installmentRepository) ListByAdmission(ctx context.Context, admissionID uuid.UUID) ([]entity.Installment, error) {
	var rows []model.Installment
	err := r.db.WithContext(ctx).
		Where("admission_id = ?", admissionID).
		Order("installment_number ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list installments: %w", err)
	}

	installments := make([]entity.Installment, len(rows))
	for i := range rows {
		installments[i] = *toInstallmentEntity(&rows[i])
	}
	return installments, nil
}

func (r *installmentRepository) GetByNumber(ctx context.Context, admissionID uuid.UUID, number int) (*entity.Installment, error) {
	var row model.Installment
	err := r.db.WithContext(ctx).
		Where("admission_id = ? AND installment_number = ?", admissionID, number).
		Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainErrors.NewInstallmentNotFoundError(admissionID.String(), number)
		}
		return nil, fmt.Errorf("failed to get installment: %w", err)
	}
	return toInstallmentEntity(&row), nil
}
