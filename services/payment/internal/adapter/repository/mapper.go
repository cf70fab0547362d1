package repository

import (
	"encoding/json"

	"github.com/wekeepgrowing/institute-backend/services/payment/internal/domain/entity"
	"github.com/wekeepgrowing/institute-backend/services/payment/internal/domain/model"
	"gorm.io/datatypes"
)

func toAdmissionModel(a *entity.Admission) *model.Admission {
	return &model.Admission{
		ID:             a.ID,
		StudentUserID:  a.StudentUserID,
		StudentName:    a.StudentName,
		StudentEmail:   a.StudentEmail,
		StudentPhone:   a.StudentPhone,
		BranchID:       a.BranchID,
		CourseName:     a.CourseName,
		Currency:       a.Currency,
		TotalFees:      a.TotalFees,
		PaymentType:    string(a.PaymentType),
		PaidAmount:     a.PaidAmount,
		PendingAmount:  a.PendingAmount,
		OverpaidAmount: a.OverpaidAmount,
	}
}

func toAdmissionEntity(m *model.Admission) *entity.Admission {
	return &entity.Admission{
		ID:             m.ID,
		StudentUserID:  m.StudentUserID,
		StudentName:    m.StudentName,
		StudentEmail:   m.StudentEmail,
		StudentPhone:   m.StudentPhone,
		BranchID:       m.BranchID,
		CourseName:     m.CourseName,
		Currency:       m.Currency,
		TotalFees:      m.TotalFees,
		PaymentType:    entity.PaymentType(m.PaymentType),
		PaidAmount:     m.PaidAmount,
		PendingAmount:  m.PendingAmount,
		OverpaidAmount: m.OverpaidAmount,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

func toInstallmentModel(i *entity.Installment) *model.Installment {
	return &model.Installment{
		ID:                i.ID,
		AdmissionID:       i.AdmissionID,
		InstallmentNumber: i.Number,
		Amount:            i.Amount,
		DueDate:           i.DueDate,
		Status:            string(i.Status),
		PaidDate:          i.PaidDate,
		ReceiptNumber:     i.ReceiptNumber,
	}
}

func toInstallmentEntity(m *model.Installment) *entity.Installment {
	return &entity.Installment{
		ID:            m.ID,
		AdmissionID:   m.AdmissionID,
		Number:        m.InstallmentNumber,
		Amount:        m.Amount,
		DueDate:       m.DueDate,
		Status:        entity.InstallmentStatus(m.Status),
		PaidDate:      m.PaidDate,
		ReceiptNumber: m.ReceiptNumber,
	}
}

func toVerifiedPaymentModel(p *entity.VerifiedPayment) *model.VerifiedPayment {
	var payload datatypes.JSON
	if len(p.GatewayPayload) > 0 && json.Valid(p.GatewayPayload) {
		payload = datatypes.JSON(p.GatewayPayload)
	}
	return &model.VerifiedPayment{
		ID:                p.ID,
		GatewayOrderID:    p.GatewayOrderID,
		GatewayPaymentID:  p.GatewayPaymentID,
		Signature:         p.Signature,
		Amount:            p.Amount,
		Currency:          p.Currency,
		AdmissionID:       p.AdmissionID,
		InstallmentNumber: p.InstallmentNumber,
		ReceiptNumber:     p.ReceiptNumber,
		Overpaid:          p.Overpaid,
		GatewayPayload:    payload,
		VerifiedAt:        p.VerifiedAt,
	}
}

func toVerifiedPaymentEntity(m *model.VerifiedPayment) *entity.VerifiedPayment {
	return &entity.VerifiedPayment{
		ID:                m.ID,
		GatewayOrderID:    m.GatewayOrderID,
		GatewayPaymentID:  m.GatewayPaymentID,
		Signature:         m.Signature,
		Amount:            m.Amount,
		Currency:          m.Currency,
		AdmissionID:       m.AdmissionID,
		InstallmentNumber: m.InstallmentNumber,
		ReceiptNumber:     m.ReceiptNumber,
		Overpaid:          m.Overpaid,
		GatewayPayload:    json.RawMessage(m.GatewayPayload),
		VerifiedAt:        m.VerifiedAt,
	}
}
