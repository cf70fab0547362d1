package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/wekeepgrowing/institute-backend/services/payment/internal/domain/entity"
	domainErrors "github.com/wekeepgrowing/institute-backend/services/payment/internal/domain/errors"
	"github.com/wekeepgrowing/institute-backend/services/payment/internal/domain/model"
	domainRepo "github.com/wekeepgrowing/institute-backend/services/payment/internal/domain/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// paymentRepository implements the PaymentRepository interface
type paymentRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewPaymentRepository creates a new payment repository instance
func NewPaymentRepository(db *gorm.DB, logger *zap.Logger) domainRepo.PaymentRepository {
	return &paymentRepository{
		db:     db,
		logger: logger,
	}
}

func (r *paymentRepository) GetByOrderID(ctx context.Context, orderID string) (*entity.VerifiedPayment, error) {
	return r.findOne(r.db.WithContext(ctx), "gateway_order_id = ?", orderID)
}

func (r *paymentRepository) GetByReceiptNumber(ctx context.Context, receiptNumber string) (*entity.VerifiedPayment, error) {
	payment, err := r.findOne(r.db.WithContext(ctx), "receipt_number = ?", receiptNumber)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, domainErrors.NewPaymentNotFoundError(receiptNumber)
	}
	return payment, nil
}

func (r *paymentRepository) findOne(db *gorm.DB, where string, arg interface{}) (*entity.VerifiedPayment, error) {
	var row model.VerifiedPayment
	err := db.Where(where, arg).Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get verified payment: %w", err)
	}
	return toVerifiedPaymentEntity(&row), nil
}

func (r *paymentRepository) ListByAdmission(ctx context.Context, admissionID uuid.UUID) ([]entity.VerifiedPayment, error) {
	var rows []model.VerifiedPayment
	err := r.db.WithContext(ctx).
		Where("admission_id = ?", admissionID).
		Order("verified_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list verified payments: %w", err)
	}

	payments := make([]entity.VerifiedPayment, len(rows))
	for i := range rows {
		payments[i] = *toVerifiedPaymentEntity(&rows[i])
	}
	return payments, nil
}

func (r *paymentRepository) RecordPayment(ctx context.Context, payment *entity.VerifiedPayment) (*domainRepo.RecordResult, error) {
	var result *domainRepo.RecordResult

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Re-check inside the transaction; a concurrent verify may have committed since the caller looked
		existing, err := r.findOne(tx, "gateway_order_id = ?", payment.GatewayOrderID)
		if err != nil {
			return err
		}
		if existing != nil {
			result = &domainRepo.RecordResult{Status: entity.StatusAlreadyProcessed, Payment: existing}
			return nil
		}

		var admissionRow model.Admission
		err = tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", payment.AdmissionID).
			Take(&admissionRow).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domainErrors.NewAdmissionNotFoundError(payment.AdmissionID.String())
			}
			return fmt.Errorf("failed to lock admission: %w", err)
		}
		admission := toAdmissionEntity(&admissionRow)

		var installment *entity.Installment
		if payment.InstallmentNumber != nil && admission.PaymentType == entity.PaymentTypeEMI {
			var installmentRow model.Installment
			err = tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				Where("admission_id = ? AND installment_number = ?", payment.AdmissionID, *payment.InstallmentNumber).
				Take(&installmentRow).Error
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return domainErrors.NewInstallmentNotFoundError(payment.AdmissionID.String(), *payment.InstallmentNumber)
				}
				return fmt.Errorf("failed to lock installment: %w", err)
			}
			installment = toInstallmentEntity(&installmentRow)
		} else if payment.InstallmentNumber != nil {
			return domainErrors.NewInvalidArgumentError("admission %s is not paid in installments", admission.ID)
		}

		effect, err := entity.ApplyPayment(admission, installment, payment.Amount, payment.ReceiptNumber, payment.VerifiedAt)
		if err != nil {
			return err
		}

		result = &domainRepo.RecordResult{
			Status:      effect.Status,
			Admission:   admission,
			Installment: installment,
		}
		if effect.Status != entity.StatusVerified {
			return nil
		}

		err = tx.Model(&model.Admission{}).
			Where("id = ?", admission.ID).
			Updates(map[string]interface{}{
				"paid_amount":     admission.PaidAmount,
				"pending_amount":  admission.PendingAmount,
				"overpaid_amount": admission.OverpaidAmount,
				"updated_at":      payment.VerifiedAt,
			}).Error
		if err != nil {
			return fmt.Errorf("failed to update admission ledger: %w", err)
		}

		if installment != nil {
			res := tx.Model(&model.Installment{}).
				Where("id = ? AND status = ?", installment.ID, string(entity.InstallmentPending)).
				Updates(map[string]interface{}{
					"status":         string(installment.Status),
					"paid_date":      installment.PaidDate,
					"receipt_number": installment.ReceiptNumber,
					"updated_at":     time.Now(),
				})
			if res.Error != nil {
				return fmt.Errorf("failed to mark installment paid: %w", res.Error)
			}
			if res.RowsAffected != 1 {
				return fmt.Errorf("installment %d changed concurrently", installment.Number)
			}
		}

		payment.Overpaid = effect.Overpaid
		if err := tx.Create(toVerifiedPaymentModel(payment)).Error; err != nil {
			return err
		}
		result.Payment = payment
		return nil
	})

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// Lost a race on a unique index; the winner's record is the answer
		existing, lookupErr := r.GetByOrderID(ctx, payment.GatewayOrderID)
		if lookupErr == nil && existing != nil {
			r.logger.Info("Concurrent verification already recorded the order",
				zap.String("order_id", payment.GatewayOrderID))
			return &domainRepo.RecordResult{Status: entity.StatusAlreadyProcessed, Payment: existing}, nil
		}
		if lookupErr == nil && payment.InstallmentNumber != nil {
			// (admission_id, installment_number) collided: another order settled this installment
			return &domainRepo.RecordResult{Status: entity.StatusAlreadyPaid}, nil
		}
		return nil, fmt.Errorf("failed to record payment: %w", err)
	}
	if err != nil {
		return nil, err
	}

	if result.Status == entity.StatusVerified {
		r.logger.Info("Payment recorded",
			zap.String("order_id", payment.GatewayOrderID),
			zap.String("admission_id", payment.AdmissionID.String()),
			zap.String("amount", payment.Amount.StringFixed(2)),
			zap.String("pending_amount", result.Admission.PendingAmount.StringFixed(2)))
	}
	return result, nil
}
