package http

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/wekeepgrowing/institute-backend/services/payment/internal/domain/dto"
	"github.com/wekeepgrowing/institute-backend/services/payment/internal/domain/entity"
	domainRepo "github.com/wekeepgrowing/institute-backend/services/payment/internal/domain/repository"
	"github.com/wekeepgrowing/institute-backend/services/payment/internal/usecase"
	"go.uber.org/zap"
)

// AdmissionHandler handles enrolment HTTP requests
type AdmissionHandler struct {
	service *usecase.AdmissionService
	logger  *zap.Logger
}

func NewAdmissionHandler(service *usecase.AdmissionService, logger *zap.Logger) *AdmissionHandler {
	return &AdmissionHandler{service: service, logger: logger}
}

// CreateAdmission handles POST /api/v1/admissions
func (h *AdmissionHandler) CreateAdmission(c echo.Context) error {
	who, err := requester(c)
	if err != nil {
		return err
	}

	var req dto.CreateAdmissionRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	var first *time.Time
	if req.FirstInstallmentDate != "" {
		t, err := parseDate("first_installment_date", req.FirstInstallmentDate)
		if err != nil {
			return err
		}
		first = &t
	}

	details, err := h.service.CreateAdmission(c.Request().Context(), usecase.CreateAdmissionCommand{
		StudentUserID:        req.StudentUserID,
		StudentName:          req.StudentName,
		StudentEmail:         req.StudentEmail,
		StudentPhone:         req.StudentPhone,
		BranchID:             req.BranchID,
		CourseName:           req.CourseName,
		Currency:             req.Currency,
		TotalFees:            req.TotalFees,
		PaymentType:          entity.PaymentType(req.PaymentType),
		NumberOfInstallments: req.NumberOfInstallments,
		FirstInstallmentDate: first,
		Requester:            who,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, details)
}

// GetAdmission handles GET /api/v1/admissions/:id
func (h *AdmissionHandler) GetAdmission(c echo.Context) error {
	who, err := requester(c)
	if err != nil {
		return err
	}
	id, err := parseUUID("id", c.Param("id"))
	if err != nil {
		return err
	}

	details, err := h.service.GetAdmission(c.Request().Context(), id, who)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, details)
}

// ListAdmissions handles GET /api/v1/admissions (staff only)
func (h *AdmissionHandler) ListAdmissions(c echo.Context) error {
	who, err := requester(c)
	if err != nil {
		return err
	}

	var q dto.ListAdmissionsQuery
	if err := bindAndValidate(c, &q); err != nil {
		return err
	}

	page, err := h.service.ListAdmissions(c.Request().Context(),
		domainRepo.AdmissionFilter{
			StudentUserID: q.StudentUserID,
			BranchID:      q.BranchID,
			PaymentType:   entity.PaymentType(q.PaymentType),
		},
		entity.PaginationParams{Page: q.Page, Limit: q.Limit},
		who)
	if err != nil {
		return err
	}

	h.logger.Debug("Listed admissions",
		zap.String("user_id", who.UserID),
		zap.Int64("total", page.Pagination.Total))

	return c.JSON(http.StatusOK, page)
}
