package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	apperrors "github.com/wekeepgrowing/institute-backend/pkg/errors"
	"github.com/wekeepgrowing/institute-backend/services/payment/internal/domain/entity"
	domainErrors "github.com/wekeepgrowing/institute-backend/services/payment/internal/domain/errors"
	"github.com/wekeepgrowing/institute-backend/services/payment/internal/domain/provider"
	domainRepo "github.com/wekeepgrowing/institute-backend/services/payment/internal/domain/repository"
	"go.uber.org/zap"
)

// CreateOrderCommand asks for a gateway order covering one ledger entry.
type CreateOrderCommand struct {
	AdmissionID       uuid.UUID
	Amount            decimal.Decimal
	Currency          string
	InstallmentNumber *int
	Requester         Requester
}

// Prefill is handed to the hosted checkout form
type Prefill struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Contact string `json:"contact"`
}

// OrderResult is everything the client needs to open the checkout.
type OrderResult struct {
	OrderID           string                `json:"order_id"`
	Amount            decimal.Decimal       `json:"amount"`
	AmountMinor       int64                 `json:"amount_minor"`
	Currency          string                `json:"currency"`
	GatewayPublicKey  string                `json:"key_id"`
	Gateway           string                `json:"gateway"`
	Purpose           entity.PaymentPurpose `json:"purpose"`
	InstallmentNumber *int                  `json:"installment_number,omitempty"`
	Prefill           Prefill               `json:"prefill"`
	MerchantName      string                `json:"merchant_name"`
	Description       string                `json:"description"`
	CheckoutScriptURL string                `json:"checkout_script_url,omitempty"`
}

// OrderServiceConfig holds the order settings taken from service config
type OrderServiceConfig struct {
	Currency        string
	MerchantName    string
	ScriptURL       string
	IntentTTL       time.Duration
	MinorUnitDigits int32
}

// OrderService creates gateway orders for admission payments
type OrderService struct {
	admissionRepo   domainRepo.AdmissionRepository
	installmentRepo domainRepo.InstallmentRepository
	intents         domainRepo.OrderIntentStore
	gateway         provider.PaymentGateway
	cfg             OrderServiceConfig
	logger          *zap.Logger
	now             func() time.Time
}

func NewOrderService(
	admissionRepo domainRepo.AdmissionRepository,
	installmentRepo domainRepo.InstallmentRepository,
	intents domainRepo.OrderIntentStore,
	gateway provider.PaymentGateway,
	cfg OrderServiceConfig,
	logger *zap.Logger,
) *OrderService {
	if cfg.MinorUnitDigits == 0 {
		cfg.MinorUnitDigits = 2
	}
	return &OrderService{
		admissionRepo:   admissionRepo,
		installmentRepo: installmentRepo,
		intents:         intents,
		gateway:         gateway,
		cfg:             cfg,
		logger:          logger,
		now:             time.Now,
	}
}

// CreateOrder checks the requested amount against the ledger and registers
// an order with the gateway. It never touches the ledger itself.
func (s *OrderService) CreateOrder(ctx context.Context, cmd CreateOrderCommand) (*OrderResult, error) {
	if !cmd.Amount.IsPositive() {
		return nil, domainErrors.NewInvalidArgumentError("amount must be greater than zero")
	}
	if !cmd.Amount.Equal(cmd.Amount.Truncate(s.cfg.MinorUnitDigits)) {
		return nil, domainErrors.NewInvalidArgumentError("amount %s has too many decimal places", cmd.Amount)
	}

	admission, err := s.admissionRepo.GetByID(ctx, cmd.AdmissionID)
	if err != nil {
		return nil, err
	}
	if err := authorize(cmd.Requester, admission); err != nil {
		return nil, err
	}

	currency := strings.ToUpper(cmd.Currency)
	if currency == "" {
		currency = admission.Currency
	}
	if currency != admission.Currency {
		return nil, domainErrors.NewInvalidArgumentError("currency %s does not match admission currency %s", currency, admission.Currency)
	}

	purpose, expected, description, err := s.expectedAmount(ctx, admission, cmd.InstallmentNumber)
	if err != nil {
		return nil, err
	}
	if !cmd.Amount.Equal(expected) {
		return nil, domainErrors.NewAmountMismatchError(expected, cmd.Amount)
	}

	amountMinor := cmd.Amount.Shift(s.cfg.MinorUnitDigits).IntPart()
	notes := map[string]string{
		"admission_id": admission.ID.String(),
		"purpose":      string(purpose),
	}
	if cmd.InstallmentNumber != nil {
		notes["installment_number"] = fmt.Sprintf("%d", *cmd.InstallmentNumber)
	}

	order, err := s.gateway.CreateOrder(ctx, &provider.CreateOrderRequest{
		AmountMinor: amountMinor,
		Currency:    currency,
		Receipt:     shortReceiptRef(admission.ID, cmd.InstallmentNumber),
		Notes:       notes,
	})
	if err != nil {
		s.logger.Error("Gateway order creation failed",
			zap.String("admission_id", admission.ID.String()),
			zap.String("gateway", s.gateway.GetProviderName()),
			zap.Int64("amount_minor", amountMinor),
			zap.Error(err))
		return nil, domainErrors.NewOrderCreationFailedError(err)
	}

	intent := &entity.PaymentOrderIntent{
		OrderID:           order.ID,
		AdmissionID:       admission.ID,
		InstallmentNumber: cmd.InstallmentNumber,
		Amount:            cmd.Amount,
		Currency:          currency,
		Purpose:           purpose,
		CreatedAt:         s.now(),
	}
	if err := s.intents.Put(ctx, intent, s.cfg.IntentTTL); err != nil {
		// verification falls back to the ledger
		s.logger.Warn("Failed to store order intent",
			zap.String("order_id", order.ID),
			zap.Error(err))
	}

	s.logger.Info("Payment order created",
		zap.String("order_id", order.ID),
		zap.String("admission_id", admission.ID.String()),
		zap.String("purpose", string(purpose)),
		zap.String("amount", cmd.Amount.StringFixed(2)))

	return &OrderResult{
		OrderID:           order.ID,
		Amount:            cmd.Amount,
		AmountMinor:       amountMinor,
		Currency:          currency,
		GatewayPublicKey:  s.gateway.PublicKey(),
		Gateway:           s.gateway.GetProviderName(),
		Purpose:           purpose,
		InstallmentNumber: cmd.InstallmentNumber,
		Prefill: Prefill{
			Name:    admission.StudentName,
			Email:   admission.StudentEmail,
			Contact: admission.StudentPhone,
		},
		MerchantName:      s.cfg.MerchantName,
		Description:       description,
		CheckoutScriptURL: s.cfg.ScriptURL,
	}, nil
}

func (s *OrderService) expectedAmount(ctx context.Context, admission *entity.Admission, number *int) (entity.PaymentPurpose, decimal.Decimal, string, error) {
	switch admission.PaymentType {
	case entity.PaymentTypeOneTime:
		if number != nil {
			return "", decimal.Zero, "", domainErrors.NewInvalidArgumentError("admission %s is not paid in installments", admission.ID)
		}
		if admission.FullyPaid() {
			return "", decimal.Zero, "", domainErrors.NewAlreadyPaidError("admission " + admission.ID.String())
		}
		return entity.PurposeFullPayment, admission.PendingAmount,
			fmt.Sprintf("%s fees", admission.CourseName), nil

	case entity.PaymentTypeEMI:
		if number == nil {
			return "", decimal.Zero, "", domainErrors.NewInvalidArgumentError("installment number is required for EMI admissions")
		}
		inst, err := s.installmentRepo.GetByNumber(ctx, admission.ID, *number)
		if err != nil {
			return "", decimal.Zero, "", err
		}
		if inst.IsPaid() {
			return "", decimal.Zero, "", domainErrors.NewAlreadyPaidError(fmt.Sprintf("installment %d", *number))
		}
		return entity.PurposeInstallment, inst.Amount,
			fmt.Sprintf("%s installment %d", admission.CourseName, *number), nil
	}

	return "", decimal.Zero, "", apperrors.NewAppError(apperrors.ErrInternal,
		"unknown payment type "+string(admission.PaymentType), nil)
}

// shortReceiptRef stays within the gateway's 40 character receipt limit.
func shortReceiptRef(admissionID uuid.UUID, number *int) string {
	ref := "adm_" + strings.ReplaceAll(admissionID.String(), "-", "")[:16]
	if number != nil {
		ref += fmt.Sprintf("_i%d", *number)
	}
	return ref
}
