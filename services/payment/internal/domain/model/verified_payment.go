package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// VerifiedPayment is the verified_payments table row
type VerifiedPayment struct {
	ID                uuid.UUID       `gorm:"type:uuid;primaryKey"`
	GatewayOrderID    string          `gorm:"column:gateway_order_id;size:100;not null"`
	GatewayPaymentID  string          `gorm:"column:gateway_payment_id;size:100;not null"`
	Signature         string          `gorm:"size:128;not null"`
	Amount            decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	Currency          string          `gorm:"size:3;not null"`
	AdmissionID       uuid.UUID       `gorm:"column:admission_id;type:uuid;not null;index"`
	InstallmentNumber *int            `gorm:"column:installment_number"`
	ReceiptNumber     string          `gorm:"column:receipt_number;size:64;not null"`
	Overpaid          bool            `gorm:"not null;default:false"`
	GatewayPayload    datatypes.JSON  `gorm:"column:gateway_payload;type:jsonb"`
	VerifiedAt        time.Time       `gorm:"not null"`
	CreatedAt         time.Time       `gorm:"default:now()"`
}

// TableName specifies the table name for GORM
func (VerifiedPayment) TableName() string {
	return "verified_payments"
}
