package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Admission is the admissions table row
type Admission struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey"`
	StudentUserID  string          `gorm:"column:student_user_id;size:100;not null;index"`
	StudentName    string          `gorm:"size:200;not null"`
	StudentEmail   string          `gorm:"size:255"`
	StudentPhone   string          `gorm:"size:20"`
	BranchID       string          `gorm:"column:branch_id;size:100;index"`
	CourseName     string          `gorm:"size:200;not null"`
	Currency       string          `gorm:"size:3;not null;default:'INR'"`
	TotalFees      decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	PaymentType    string          `gorm:"size:20;not null"`
	PaidAmount     decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0"`
	PendingAmount  decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	OverpaidAmount decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0"`
	CreatedAt      time.Time       `gorm:"default:now()"`
	UpdatedAt      time.Time       `gorm:"default:now()"`

	Installments []Installment `gorm:"foreignKey:AdmissionID"`
}

// TableName specifies the table name for GORM
func (Admission) TableName() string {
	return "admissions"
}
