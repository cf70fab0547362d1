package dto

import (
	"github.com/shopspring/decimal"
)

// CreateAdmissionRequest is the body of POST /api/v1/admissions.
// FirstInstallmentDate uses YYYY-MM-DD.
type CreateAdmissionRequest struct {
	StudentUserID        string          `json:"student_user_id" validate:"omitempty,max=64"`
	StudentName          string          `json:"student_name" validate:"required,max=200"`
	StudentEmail         string          `json:"student_email" validate:"omitempty,email"`
	StudentPhone         string          `json:"student_phone" validate:"omitempty,max=20"`
	BranchID             string          `json:"branch_id" validate:"omitempty,max=64"`
	CourseName           string          `json:"course_name" validate:"required,max=200"`
	Currency             string          `json:"currency" validate:"omitempty,len=3,alpha"`
	TotalFees            decimal.Decimal `json:"total_fees"`
	PaymentType          string          `json:"payment_type" validate:"required,oneof=ONE_TIME EMI"`
	NumberOfInstallments int             `json:"number_of_installments" validate:"omitempty,min=1,max=60"`
	FirstInstallmentDate string          `json:"first_installment_date" validate:"omitempty,datetime=2006-01-02"`
}

// ListAdmissionsQuery binds the staff listing filters
type ListAdmissionsQuery struct {
	StudentUserID string `query:"student_user_id"`
	BranchID      string `query:"branch_id"`
	PaymentType   string `query:"payment_type" validate:"omitempty,oneof=ONE_TIME EMI"`
	Page          int    `query:"page" validate:"omitempty,min=1"`
	Limit         int    `query:"limit" validate:"omitempty,min=1,max=100"`
}
