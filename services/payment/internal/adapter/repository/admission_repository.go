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
)

// admissionRepository implements the AdmissionRepository interface
type admissionRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewAdmissionRepository creates a new admission repository instance
func NewAdmissionRepository(db *gorm.DB, logger *zap.Logger) domainRepo.AdmissionRepository {
	return &admissionRepository{
		db:     db,
		logger: logger,
	}
}

func (r *admissionRepository) Create(ctx context.Context, admission *entity.Admission, installments []entity.Installment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row := toAdmissionModel(admission)
		if err := tx.Create(row).Error; err != nil {
			r.logger.Error("Failed to create admission",
				zap.String("admission_id", admission.ID.String()),
				zap.Error(err))
			return fmt.Errorf("failed to create admission: %w", err)
		}
		admission.CreatedAt = row.CreatedAt
		admission.UpdatedAt = row.UpdatedAt

		if len(installments) == 0 {
			return nil
		}

		rows := make([]*model.Installment, len(installments))
		for i := range installments {
			rows[i] = toInstallmentModel(&installments[i])
		}
		if err := tx.Create(rows).Error; err != nil {
			return fmt.Errorf("failed to create installments: %w", err)
		}
		return nil
	})
}

func (r *admissionRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Admission, error) {
	var row model.Admission
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainErrors.NewAdmissionNotFoundError(id.String())
		}
		r.logger.Error("Failed to get admission", zap.String("admission_id", id.String()), zap.Error(err))
		return nil, fmt.Errorf("failed to get admission: %w", err)
	}
	return toAdmissionEntity(&row), nil
}

func (r *admissionRepository) List(ctx context.Context, filter domainRepo.AdmissionFilter) ([]entity.Admission, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Admission{})
	if filter.StudentUserID != "" {
		query = query.Where("student_user_id = ?", filter.StudentUserID)
	}
	if filter.BranchID != "" {
		query = query.Where("branch_id = ?", filter.BranchID)
	}
	if filter.PaymentType != "" {
		query = query.Where("payment_type = ?", string(filter.PaymentType))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count admissions: %w", err)
	}

	var rows []model.Admission
	err := query.Order("created_at DESC").
		Limit(filter.Limit).
		Offset(filter.Offset).
		Find(&rows).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list admissions: %w", err)
	}

	admissions := make([]entity.Admission, len(rows))
	for i := range rows {
		admissions[i] = *toAdmissionEntity(&rows[i])
	}
	return admissions, total, nil
}
