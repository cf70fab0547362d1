package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/wekeepgrowing/institute-backend/services/payment/internal/domain/entity"
	domainErrors "github.com/wekeepgrowing/institute-backend/services/payment/internal/domain/errors"
	domainRepo "github.com/wekeepgrowing/institute-backend/services/payment/internal/domain/repository"
	"github.com/wekeepgrowing/institute-backend/services/payment/internal/domain/schedule"
	apperrors "github.com/wekeepgrowing/institute-backend/pkg/errors"
	"go.uber.org/zap"
)

// CreateAdmissionCommand enrols a student. NumberOfInstallments and
// FirstInstallmentDate are optional for EMI admissions; when both are set the
// schedule is generated together with the admission.
type CreateAdmissionCommand struct {
	StudentUserID        string
	StudentName          string
	StudentEmail         string
	StudentPhone         string
	BranchID             string
	CourseName           string
	Currency             string
	TotalFees            decimal.Decimal
	PaymentType          entity.PaymentType
	NumberOfInstallments int
	FirstInstallmentDate *time.Time
	Requester            Requester
}

// AdmissionDetails is an admission with its schedule and payments
type AdmissionDetails struct {
	Admission    *entity.Admission        `json:"admission"`
	Installments []entity.Installment     `json:"installments,omitempty"`
	Payments     []entity.VerifiedPayment `json:"payments"`
}

// AdmissionService handles enrolment records
type AdmissionService struct {
	admissionRepo   domainRepo.AdmissionRepository
	installmentRepo domainRepo.InstallmentRepository
	paymentRepo     domainRepo.PaymentRepository
	scheduleOpts    schedule.Options
	currency        string
	logger          *zap.Logger
}

// NewAdmissionService creates a new admission service instance
func NewAdmissionService(
	admissionRepo domainRepo.AdmissionRepository,
	installmentRepo domainRepo.InstallmentRepository,
	paymentRepo domainRepo.PaymentRepository,
	scheduleOpts schedule.Options,
	currency string,
	logger *zap.Logger,
) *AdmissionService {
	return &AdmissionService{
		admissionRepo:   admissionRepo,
		installmentRepo: installmentRepo,
		paymentRepo:     paymentRepo,
		scheduleOpts:    scheduleOpts,
		currency:        currency,
		logger:          logger,
	}
}

func (s *AdmissionService) CreateAdmission(ctx context.Context, cmd CreateAdmissionCommand) (*AdmissionDetails, error) {
	// students can only enrol themselves
	if !cmd.Requester.IsStaff() {
		cmd.StudentUserID = cmd.Requester.UserID
	}
	if cmd.StudentUserID == "" {
		return nil, domainErrors.NewInvalidArgumentError("student user id is required")
	}
	if !cmd.PaymentType.Valid() {
		return nil, domainErrors.NewInvalidArgumentError("payment type must be ONE_TIME or EMI")
	}
	if !cmd.TotalFees.IsPositive() {
		return nil, domainErrors.NewInvalidArgumentError("total fees must be greater than zero")
	}
	if !cmd.TotalFees.Equal(cmd.TotalFees.Truncate(2)) {
		return nil, domainErrors.NewInvalidArgumentError("total fees %s has more than two decimal places", cmd.TotalFees)
	}

	currency := strings.ToUpper(cmd.Currency)
	if currency == "" {
		currency = s.currency
	}

	admission := entity.NewAdmission(
		cmd.StudentUserID,
		cmd.StudentName,
		cmd.StudentEmail,
		cmd.StudentPhone,
		cmd.BranchID,
		cmd.CourseName,
		currency,
		cmd.TotalFees,
		cmd.PaymentType,
	)

	var installments []entity.Installment
	if cmd.NumberOfInstallments > 0 || cmd.FirstInstallmentDate != nil {
		if cmd.PaymentType != entity.PaymentTypeEMI {
			return nil, domainErrors.NewInvalidArgumentError("installments are only allowed for EMI admissions")
		}
		if cmd.FirstInstallmentDate == nil {
			return nil, domainErrors.NewInvalidArgumentError("first installment date is required")
		}
		var err error
		installments, err = schedule.Generate(admission.ID, admission.TotalFees, cmd.NumberOfInstallments, *cmd.FirstInstallmentDate, s.scheduleOpts)
		if err != nil {
			return nil, err
		}
	}

	if err := s.admissionRepo.Create(ctx, admission, installments); err != nil {
		apperrors.LogError(s.logger, err, "Failed to create admission",
			zap.String("student_user_id", admission.StudentUserID))
		return nil, err
	}

	s.logger.Info("Admission created",
		zap.String("admission_id", admission.ID.String()),
		zap.String("payment_type", string(admission.PaymentType)),
		zap.String("total_fees", admission.TotalFees.StringFixed(2)),
		zap.Int("installments", len(installments)))

	return &AdmissionDetails{Admission: admission, Installments: installments, Payments: []entity.VerifiedPayment{}}, nil
}

// GetAdmission returns the admission with its schedule and verified payments.
func (s *AdmissionService) GetAdmission(ctx context.Context, id uuid.UUID, requester Requester) (*AdmissionDetails, error) {
	admission, err := s.admissionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorize(requester, admission); err != nil {
		return nil, err
	}

	details := &AdmissionDetails{Admission: admission}
	if admission.PaymentType == entity.PaymentTypeEMI {
		if details.Installments, err = s.installmentRepo.ListByAdmission(ctx, id); err != nil {
			return nil, err
		}
	}
	if details.Payments, err = s.paymentRepo.ListByAdmission(ctx, id); err != nil {
		return nil, err
	}
	return details, nil
}

// ListAdmissions pages through admissions. Students only ever see their own.
func (s *AdmissionService) ListAdmissions(ctx context.Context, filter domainRepo.AdmissionFilter, page entity.PaginationParams, requester Requester) (*entity.PaginatedAdmissionsResponse, error) {
	if !requester.IsStaff() {
		filter.StudentUserID = requester.UserID
	}
	page.Validate()
	filter.Limit = page.Limit
	filter.Offset = page.CalculateOffset()

	admissions, total, err := s.admissionRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &entity.PaginatedAdmissionsResponse{
		Data:       admissions,
		Pagination: entity.NewPaginationMeta(page.Page, page.Limit, total),
	}, nil
}
