package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/wekeepgrowing/institute-backend/services/payment/internal/domain/dto"
	"github.com/wekeepgrowing/institute-backend/services/payment/internal/usecase"
	"go.uber.org/zap"
)

type InstallmentHandler struct {
	service *usecase.ScheduleService
	logger  *zap.Logger
}

func NewInstallmentHandler(service *usecase.ScheduleService, logger *zap.Logger) *InstallmentHandler {
	return &InstallmentHandler{service: service, logger: logger}
}

// CreateSchedule handles POST /api/v1/payments/installments
func (h *InstallmentHandler) CreateSchedule(c echo.Context) error {
	who, err := requester(c)
	if err != nil {
		return err
	}

	var req dto.CreateScheduleRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	admissionID, err := parseUUID("admission_id", req.AdmissionID)
	if err != nil {
		return err
	}
	first, err := parseDate("first_installment_date", req.FirstInstallmentDate)
	if err != nil {
		return err
	}

	installments, err := h.service.CreateSchedule(c.Request().Context(), admissionID, req.NumberOfInstallments, first, who)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, echo.Map{"installments": installments})
}

// ListInstallments handles GET /api/v1/payments/installments/:admissionId
func (h *InstallmentHandler) ListInstallments(c echo.Context) error {
	who, err := requester(c)
	if err != nil {
		return err
	}
	admissionID, err := parseUUID("admissionId", c.Param("admissionId"))
	if err != nil {
		return err
	}

	installments, err := h.service.ListInstallments(c.Request().Context(), admissionID, who)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"installments": installments})
}
