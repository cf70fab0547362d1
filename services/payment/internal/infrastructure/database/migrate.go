package database

import (
	"fmt"

	"github.com/wekeepgrowing/institute-backend/services/payment/internal/domain/model"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Migrate runs database migrations
func Migrate(db *gorm.DB, logger *zap.Logger) error {
	logger.Info("Running database migrations...")

	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "pgcrypto"`).Error; err != nil {
		logger.Error("Failed to create extensions", zap.Error(err))
		return err
	}

	err := db.AutoMigrate(
		&model.Admission{},
		&model.Installment{},
		&model.VerifiedPayment{},
	)
	if err != nil {
		logger.Error("Failed to run migrations", zap.Error(err))
		return err
	}

	if err := createCustomIndexes(db); err != nil {
		logger.Error("Failed to create custom indexes", zap.Error(err))
		return err
	}

	if err := createLedgerConstraints(db, logger); err != nil {
		logger.Error("Failed to create ledger constraints", zap.Error(err))
		return err
	}

	logger.Info("Database migrations completed successfully")
	return nil
}

// createCustomIndexes creates the unique indexes the verification transaction relies on
func createCustomIndexes(db *gorm.DB) error {
	statements := []string{
		// one verified payment per gateway order
		`CREATE UNIQUE INDEX IF NOT EXISTS uq_verified_payments_gateway_order_id ON verified_payments (gateway_order_id)`,
		// one verified payment per installment
		`CREATE UNIQUE INDEX IF NOT EXISTS uq_verified_payments_installment ON verified_payments (admission_id, installment_number) WHERE installment_number IS NOT NULL`,
		`CREATE UNIQUE INDEX IF NOT EXISTS uq_verified_payments_receipt_number ON verified_payments (receipt_number)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS uq_admission_installments_number ON admission_installments (admission_id, installment_number)`,
		`CREATE INDEX IF NOT EXISTS idx_admission_installments_pending_due ON admission_installments (due_date) WHERE status = 'PENDING'`,
	}
	for _, stmt := range statements {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}

// createLedgerConstraints adds CHECK constraints mirroring the ledger invariants
func createLedgerConstraints(db *gorm.DB, logger *zap.Logger) error {
	constraints := []struct {
		table, name, check string
	}{
		{"admissions", "chk_admissions_ledger_balanced", "CHECK (paid_amount + pending_amount = total_fees)"},
		{"admissions", "chk_admissions_pending_non_negative", "CHECK (pending_amount >= 0)"},
		{"admissions", "chk_admissions_payment_type", "CHECK (payment_type IN ('ONE_TIME', 'EMI'))"},
		{"admission_installments", "chk_installments_status", "CHECK (status IN ('PENDING', 'PAID'))"},
	}

	for _, c := range constraints {
		var exists bool
		if err := db.Raw(`SELECT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = ?)`, c.name).Scan(&exists).Error; err != nil {
			return err
		}
		if exists {
			continue
		}
		if err := db.Exec(fmt.Sprintf("ALTER TABLE %s ADD CONSTRAINT %s %s", c.table, c.name, c.check)).Error; err != nil {
			return err
		}
		logger.Info("Created constraint", zap.String("constraint", c.name))
	}
	return nil
}
