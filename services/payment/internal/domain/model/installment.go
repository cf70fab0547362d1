package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Installment is the admission_installments table row
type Installment struct {
	ID                uuid.UUID       `gorm:"type:uuid;primaryKey"`
	AdmissionID       uuid.UUID       `gorm:"column:admission_id;type:uuid;not null"`
	InstallmentNumber int             `gorm:"column:installment_number;not null"`
	Amount            decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	DueDate           time.Time       `gorm:"type:date;not null"`
	Status            string          `gorm:"size:20;not null;default:'PENDING'"`
	PaidDate          *time.Time      `gorm:"column:paid_date"`
	ReceiptNumber     *string         `gorm:"size:64"`
	CreatedAt         time.Time       `gorm:"default:now()"`
	UpdatedAt         time.Time       `gorm:"default:now()"`
}

// TableName specifies the table name for GORM
func (Installment) TableName() string {
	return "admission_installments"
}
