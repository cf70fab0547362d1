// Package testutil holds in-memory fakes shared by the service's tests.
package testutil

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/wekeepgrowing/institute-backend/services/payment/internal/domain/entity"
	domainErrors "github.com/wekeepgrowing/institute-backend/services/payment/internal/domain/errors"
	domainRepo "github.com/wekeepgrowing/institute-backend/services/payment/internal/domain/repository"
)

// Ledger keeps admissions, installments and payments in memory. RecordPayment
// is serialized by one mutex, standing in for the postgres row locks.
type Ledger struct {
	mu           sync.Mutex
	admissions   map[uuid.UUID]*entity.Admission
	installments map[uuid.UUID][]*entity.Installment
	payments     []*entity.VerifiedPayment
}

func NewLedger() *Ledger {
	return &Ledger{
		admissions:   make(map[uuid.UUID]*entity.Admission),
		installments: make(map[uuid.UUID][]*entity.Installment),
	}
}

func (l *Ledger) Admissions() domainRepo.AdmissionRepository     { return (*admissionRepo)(l) }
func (l *Ledger) Installments() domainRepo.InstallmentRepository { return (*installmentRepo)(l) }
func (l *Ledger) Payments() domainRepo.PaymentRepository         { return (*paymentRepo)(l) }

// PaymentCount returns the number of recorded payments
func (l *Ledger) PaymentCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.payments)
}

func (l *Ledger) findInstallment(admissionID uuid.UUID, number int) *entity.Installment {
	for _, inst := range l.installments[admissionID] {
		if inst.Number == number {
			return inst
		}
	}
	return nil
}

type admissionRepo Ledger

func (r *admissionRepo) Create(ctx context.Context, admission *entity.Admission, installments []entity.Installment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *admission
	r.admissions[admission.ID] = &copied
	for i := range installments {
		inst := installments[i]
		r.installments[admission.ID] = append(r.installments[admission.ID], &inst)
	}
	return nil
}

func (r *admissionRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Admission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	adm, ok := r.admissions[id]
	if !ok {
		return nil, domainErrors.NewAdmissionNotFoundError(id.String())
	}
	copied := *adm
	return &copied, nil
}

func (r *admissionRepo) List(ctx context.Context, filter domainRepo.AdmissionFilter) ([]entity.Admission, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []entity.Admission{}
	for _, adm := range r.admissions {
		if filter.StudentUserID != "" && adm.StudentUserID != filter.StudentUserID {
			continue
		}
		if filter.BranchID != "" && adm.BranchID != filter.BranchID {
			continue
		}
		if filter.PaymentType != "" && adm.PaymentType != filter.PaymentType {
			continue
		}
		out = append(out, *adm)
	}
	return out, int64(len(out)), nil
}

type installmentRepo Ledger

func (r *installmentRepo) CreateSchedule(ctx context.Context, admissionID uuid.UUID, installments []entity.Installment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.admissions[admissionID]; !ok {
		return domainErrors.NewAdmissionNotFoundError(admissionID.String())
	}
	if len(r.installments[admissionID]) > 0 {
		return domainErrors.NewScheduleExistsError(admissionID.String())
	}
	for i := range installments {
		inst := installments[i]
		r.installments[admissionID] = append(r.installments[admissionID], &inst)
	}
	return nil
}

func (r *installmentRepo) ListByAdmission(ctx context.Context, admissionID uuid.UUID) ([]entity.Installment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]entity.Installment, 0, len(r.installments[admissionID]))
	for _, inst := range r.installments[admissionID] {
		out = append(out, *inst)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out, nil
}

func (r *installmentRepo) GetByNumber(ctx context.Context, admissionID uuid.UUID, number int) (*entity.Installment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	inst := (*Ledger)(r).findInstallment(admissionID, number)
	if inst == nil {
		return nil, domainErrors.NewInstallmentNotFoundError(admissionID.String(), number)
	}
	copied := *inst
	return &copied, nil
}

type paymentRepo Ledger

func (r *paymentRepo) GetByOrderID(ctx context.Context, orderID string) (*entity.VerifiedPayment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.byOrderID(orderID), nil
}

func (r *paymentRepo) byOrderID(orderID string) *entity.VerifiedPayment {
	for _, vp := range r.payments {
		if vp.GatewayOrderID == orderID {
			copied := *vp
			return &copied
		}
	}
	return nil
}

func (r *paymentRepo) GetByReceiptNumber(ctx context.Context, receiptNumber string) (*entity.VerifiedPayment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, vp := range r.payments {
		if vp.ReceiptNumber == receiptNumber {
			copied := *vp
			return &copied, nil
		}
	}
	return nil, domainErrors.NewPaymentNotFoundError(receiptNumber)
}

func (r *paymentRepo) ListByAdmission(ctx context.Context, admissionID uuid.UUID) ([]entity.VerifiedPayment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []entity.VerifiedPayment{}
	for _, vp := range r.payments {
		if vp.AdmissionID == admissionID {
			out = append(out, *vp)
		}
	}
	return out, nil
}

func (r *paymentRepo) RecordPayment(ctx context.Context, payment *entity.VerifiedPayment) (*domainRepo.RecordResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing := r.byOrderID(payment.GatewayOrderID); existing != nil {
		return &domainRepo.RecordResult{Status: entity.StatusAlreadyProcessed, Payment: existing}, nil
	}

	stored, ok := r.admissions[payment.AdmissionID]
	if !ok {
		return nil, domainErrors.NewAdmissionNotFoundError(payment.AdmissionID.String())
	}
	admission := *stored

	var installment *entity.Installment
	if payment.InstallmentNumber != nil && admission.PaymentType != entity.PaymentTypeEMI {
		return nil, domainErrors.NewInvalidArgumentError("admission %s is not paid in installments", admission.ID)
	}
	if payment.InstallmentNumber != nil {
		found := (*Ledger)(r).findInstallment(payment.AdmissionID, *payment.InstallmentNumber)
		if found == nil {
			return nil, domainErrors.NewInstallmentNotFoundError(payment.AdmissionID.String(), *payment.InstallmentNumber)
		}
		copied := *found
		installment = &copied
	}

	effect, err := entity.ApplyPayment(&admission, installment, payment.Amount, payment.ReceiptNumber, payment.VerifiedAt)
	if err != nil {
		return nil, err
	}
	result := &domainRepo.RecordResult{Status: effect.Status, Admission: &admission, Installment: installment}
	if effect.Status != entity.StatusVerified {
		return result, nil
	}

	*stored = admission
	if installment != nil {
		*(*Ledger)(r).findInstallment(payment.AdmissionID, installment.Number) = *installment
	}
	payment.Overpaid = effect.Overpaid
	copied := *payment
	r.payments = append(r.payments, &copied)
	result.Payment = payment
	return result, nil
}
