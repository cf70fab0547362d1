package usecase

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	apperrors "github.com/wekeepgrowing/institute-backend/pkg/errors"
	"github.com/wekeepgrowing/institute-backend/services/payment/internal/domain/entity"
	domainErrors "github.com/wekeepgrowing/institute-backend/services/payment/internal/domain/errors"
	"github.com/wekeepgrowing/institute-backend/services/payment/internal/domain/event"
	"github.com/wekeepgrowing/institute-backend/services/payment/internal/domain/provider"
	domainRepo "github.com/wekeepgrowing/institute-backend/services/payment/internal/domain/repository"
	"go.uber.org/zap"
)

// VerifyCommand carries the signed triple the checkout returned plus the
// ledger entry the client believes it paid for.
type VerifyCommand struct {
	OrderID           string
	PaymentID         string
	Signature         string
	AdmissionID       uuid.UUID
	Amount            decimal.Decimal
	InstallmentNumber *int
	RawPayload        json.RawMessage
	Requester         Requester
}

// VerificationResult is returned for every accepted capture, including replays.
type VerificationResult struct {
	Status      entity.VerificationStatus `json:"status"`
	Payment     *entity.VerifiedPayment   `json:"payment,omitempty"`
	Admission   *entity.Admission         `json:"admission"`
	Installment *entity.Installment       `json:"installment,omitempty"`
	Overpaid    bool                      `json:"overpaid"`
}

// VerificationService turns signed gateway captures into ledger credits
type VerificationService struct {
	admissionRepo domainRepo.AdmissionRepository
	paymentRepo   domainRepo.PaymentRepository
	intents       domainRepo.OrderIntentStore
	verifier      provider.SignatureVerifier
	receipts      ReceiptNumberGenerator
	publisher     event.Publisher
	logger        *zap.Logger
	now           func() time.Time
}

func NewVerificationService(
	admissionRepo domainRepo.AdmissionRepository,
	paymentRepo domainRepo.PaymentRepository,
	intents domainRepo.OrderIntentStore,
	verifier provider.SignatureVerifier,
	receipts ReceiptNumberGenerator,
	publisher event.Publisher,
	logger *zap.Logger,
) *VerificationService {
	return &VerificationService{
		admissionRepo: admissionRepo,
		paymentRepo:   paymentRepo,
		intents:       intents,
		verifier:      verifier,
		receipts:      receipts,
		publisher:     publisher,
		logger:        logger,
		now:           time.Now,
	}
}

// Verify authenticates the capture and credits the ledger at most once per order.
func (s *VerificationService) Verify(ctx context.Context, cmd VerifyCommand) (*VerificationResult, error) {
	cmd.OrderID = strings.TrimSpace(cmd.OrderID)
	cmd.PaymentID = strings.TrimSpace(cmd.PaymentID)
	cmd.Signature = strings.TrimSpace(cmd.Signature)
	if cmd.OrderID == "" || cmd.PaymentID == "" || cmd.Signature == "" {
		return nil, domainErrors.NewInvalidArgumentError("order id, payment id and signature are required")
	}
	if cmd.AdmissionID == uuid.Nil {
		return nil, domainErrors.NewInvalidArgumentError("admission id is required")
	}
	if !cmd.Amount.IsPositive() {
		return nil, domainErrors.NewInvalidArgumentError("amount must be greater than zero")
	}

	log := s.logger.With(
		zap.String("order_id", cmd.OrderID),
		zap.String("payment_id", cmd.PaymentID),
		zap.String("admission_id", cmd.AdmissionID.String()))

	if !s.verifier.Verify(cmd.OrderID, cmd.PaymentID, cmd.Signature) {
		log.Warn("Payment signature rejected")
		return nil, domainErrors.NewSignatureInvalidError()
	}

	admission, err := s.admissionRepo.GetByID(ctx, cmd.AdmissionID)
	if err != nil {
		return nil, err
	}
	if err := authorize(cmd.Requester, admission); err != nil {
		return nil, err
	}

	existing, err := s.paymentRepo.GetByOrderID(ctx, cmd.OrderID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		if existing.AdmissionID != admission.ID {
			return nil, domainErrors.NewInvalidArgumentError("order %s belongs to a different admission", cmd.OrderID)
		}
		log.Info("Payment already processed", zap.String("receipt_number", existing.ReceiptNumber))
		return &VerificationResult{Status: entity.StatusAlreadyProcessed, Payment: existing, Admission: admission}, nil
	}

	if err := s.correlate(ctx, log, cmd); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	receipt, err := s.receipts.Next(now)
	if err != nil {
		return nil, apperrors.NewAppError(apperrors.ErrInternal, "failed to issue receipt number", err)
	}

	payment := &entity.VerifiedPayment{
		ID:                uuid.New(),
		GatewayOrderID:    cmd.OrderID,
		GatewayPaymentID:  cmd.PaymentID,
		Signature:         cmd.Signature,
		Amount:            cmd.Amount,
		Currency:          admission.Currency,
		AdmissionID:       admission.ID,
		InstallmentNumber: cmd.InstallmentNumber,
		ReceiptNumber:     receipt,
		GatewayPayload:    cmd.RawPayload,
		VerifiedAt:        now,
	}

	recorded, err := s.paymentRepo.RecordPayment(ctx, payment)
	if err != nil {
		apperrors.LogError(log, err, "Failed to record verified payment")
		return nil, err
	}

	result := &VerificationResult{
		Status:      recorded.Status,
		Payment:     recorded.Payment,
		Admission:   recorded.Admission,
		Installment: recorded.Installment,
	}
	if result.Admission == nil {
		result.Admission = admission
	}
	if recorded.Payment != nil {
		result.Overpaid = recorded.Payment.Overpaid
	}

	switch recorded.Status {
	case entity.StatusVerified:
		log.Info("Payment verified",
			zap.String("receipt_number", recorded.Payment.ReceiptNumber),
			zap.String("amount", recorded.Payment.Amount.StringFixed(2)),
			zap.String("pending_amount", recorded.Admission.PendingAmount.StringFixed(2)))
		if recorded.Payment.Overpaid {
			log.Warn("Admission overpaid",
				zap.String("overpaid_amount", recorded.Admission.OverpaidAmount.StringFixed(2)))
		}
		s.publish(ctx, log, recorded)
	case entity.StatusAlreadyPaid:
		// captured funds with nothing left to credit need manual reconciliation
		log.Warn("Verified capture for an already settled entry; nothing credited")
	default:
		log.Info("Payment already processed")
	}

	return result, nil
}

// correlate checks the command against the intent cached at order time. A
// missing intent is not an error: the ledger transaction is authoritative.
func (s *VerificationService) correlate(ctx context.Context, log *zap.Logger, cmd VerifyCommand) error {
	intent, err := s.intents.Get(ctx, cmd.OrderID)
	if err != nil {
		log.Warn("Order intent lookup failed", zap.Error(err))
		return nil
	}
	if intent == nil {
		log.Debug("No order intent found; relying on ledger checks")
		return nil
	}
	if intent.AdmissionID != cmd.AdmissionID {
		return domainErrors.NewInvalidArgumentError("order %s was created for a different admission", cmd.OrderID)
	}
	if !sameInstallment(intent.InstallmentNumber, cmd.InstallmentNumber) {
		return domainErrors.NewInvalidArgumentError("order %s was created for a different installment", cmd.OrderID)
	}
	if !intent.Amount.Equal(cmd.Amount) {
		return domainErrors.NewAmountMismatchError(intent.Amount, cmd.Amount)
	}
	return nil
}

func (s *VerificationService) publish(ctx context.Context, log *zap.Logger, recorded *domainRepo.RecordResult) {
	p := recorded.Payment
	evt := &event.PaymentVerified{
		Type:              event.TypePaymentVerified,
		PaymentID:         p.ID,
		AdmissionID:       p.AdmissionID,
		StudentUserID:     recorded.Admission.StudentUserID,
		GatewayOrderID:    p.GatewayOrderID,
		GatewayPaymentID:  p.GatewayPaymentID,
		InstallmentNumber: p.InstallmentNumber,
		Amount:            p.Amount,
		Currency:          p.Currency,
		ReceiptNumber:     p.ReceiptNumber,
		PendingAmount:     recorded.Admission.PendingAmount,
		Overpaid:          p.Overpaid,
		OccurredAt:        p.VerifiedAt,
	}
	if err := s.publisher.PublishPaymentVerified(ctx, evt); err != nil {
		log.Error("Failed to publish payment event", zap.Error(err))
	}
}

// ListPayments returns the verified payments of an admission, oldest first.
func (s *VerificationService) ListPayments(ctx context.Context, admissionID uuid.UUID, requester Requester) ([]entity.VerifiedPayment, error) {
	admission, err := s.admissionRepo.GetByID(ctx, admissionID)
	if err != nil {
		return nil, err
	}
	if err := authorize(requester, admission); err != nil {
		return nil, err
	}
	return s.paymentRepo.ListByAdmission(ctx, admissionID)
}

// GetReceipt looks a payment up by its receipt number.
func (s *VerificationService) GetReceipt(ctx context.Context, receiptNumber string, requester Requester) (*entity.VerifiedPayment, *entity.Admission, error) {
	payment, err := s.paymentRepo.GetByReceiptNumber(ctx, receiptNumber)
	if err != nil {
		return nil, nil, err
	}
	admission, err := s.admissionRepo.GetByID(ctx, payment.AdmissionID)
	if err != nil {
		return nil, nil, err
	}
	if err := authorize(requester, admission); err != nil {
		return nil, nil, err
	}
	return payment, admission, nil
}

func sameInstallment(a, b *int) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
