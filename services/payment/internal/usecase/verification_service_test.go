package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	apperrors "github.com/wekeepgrowing/institute-backend/pkg/errors"
	"github.com/wekeepgrowing/institute-backend/services/payment/internal/domain/entity"
	"github.com/wekeepgrowing/institute-backend/services/payment/internal/domain/event"
	domainRepo "github.com/wekeepgrowing/institute-backend/services/payment/internal/domain/repository"
	"go.uber.org/zap"
)

type verificationFixture struct {
	admissions *MockAdmissionRepository
	payments   *MockPaymentRepository
	intents    *MockOrderIntentStore
	verifier   *MockSignatureVerifier
	publisher  *MockEventPublisher
	service    *VerificationService
}

func newVerificationFixture() *verificationFixture {
	f := &verificationFixture{
		admissions: new(MockAdmissionRepository),
		payments:   new(MockPaymentRepository),
		intents:    new(MockOrderIntentStore),
		verifier:   new(MockSignatureVerifier),
		publisher:  new(MockEventPublisher),
	}
	f.service = NewVerificationService(f.admissions, f.payments, f.intents, f.verifier, &fixedReceipts{}, f.publisher, zap.NewNop())
	f.service.now = func() time.Time { return time.Date(2024, 2, 10, 9, 0, 0, 0, time.UTC) }
	return f
}

func TestVerificationService_Verify_Success(t *testing.T) {
	f := newVerificationFixture()
	adm := entity.NewAdmission("student-1", "Asha", "", "", "", "DS", "INR", dec("500"), entity.PaymentTypeOneTime)

	f.verifier.On("Verify", "order_1", "pay_1", "sig").Return(true)
	f.admissions.On("GetByID", mock.Anything, adm.ID).Return(adm, nil)
	f.payments.On("GetByOrderID", mock.Anything, "order_1").Return(nil, nil)
	f.intents.On("Get", mock.Anything, "order_1").Return(&entity.PaymentOrderIntent{
		OrderID: "order_1", AdmissionID: adm.ID, Amount: dec("500"), Purpose: entity.PurposeFullPayment,
	}, nil)

	credited := *adm
	credited.Credit(dec("500"))
	f.payments.On("RecordPayment", mock.Anything, mock.MatchedBy(func(p *entity.VerifiedPayment) bool {
		return p.GatewayOrderID == "order_1" && p.ReceiptNumber == "RCPT-20240210-A" && p.Currency == "INR"
	})).Return(func(_ context.Context, p *entity.VerifiedPayment) *domainRepo.RecordResult {
		return &domainRepo.RecordResult{Status: entity.StatusVerified, Payment: p, Admission: &credited}
	}, nil)
	f.publisher.On("PublishPaymentVerified", mock.Anything, mock.MatchedBy(func(e *event.PaymentVerified) bool {
		return e.Type == event.TypePaymentVerified && e.GatewayOrderID == "order_1" && e.PendingAmount.IsZero()
	})).Return(nil)

	result, err := f.service.Verify(context.Background(), VerifyCommand{
		OrderID: "order_1", PaymentID: "pay_1", Signature: "sig",
		AdmissionID: adm.ID, Amount: dec("500"),
		Requester: Requester{UserID: "student-1", Role: RoleStudent},
	})

	require.NoError(t, err)
	assert.Equal(t, entity.StatusVerified, result.Status)
	assert.Equal(t, "RCPT-20240210-A", result.Payment.ReceiptNumber)
	f.publisher.AssertExpectations(t)
}

func TestVerificationService_Verify_InvalidSignature(t *testing.T) {
	f := newVerificationFixture()
	adm := entity.NewAdmission("student-1", "Asha", "", "", "", "DS", "INR", dec("500"), entity.PaymentTypeOneTime)
	f.verifier.On("Verify", "order_1", "pay_1", "forged").Return(false)

	_, err := f.service.Verify(context.Background(), VerifyCommand{
		OrderID: "order_1", PaymentID: "pay_1", Signature: "forged",
		AdmissionID: adm.ID, Amount: dec("500"),
		Requester: Requester{UserID: "student-1", Role: RoleStudent},
	})

	require.Error(t, err)
	assert.Equal(t, apperrors.ErrSignatureInvalid, apperrors.CodeOf(err))
	f.admissions.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	f.payments.AssertNotCalled(t, "RecordPayment", mock.Anything, mock.Anything)
}

func TestVerificationService_Verify_MissingFields(t *testing.T) {
	f := newVerificationFixture()

	_, err := f.service.Verify(context.Background(), VerifyCommand{OrderID: "order_1", Signature: "sig"})

	assert.Equal(t, apperrors.ErrInvalidArgument, apperrors.CodeOf(err))
	f.verifier.AssertNotCalled(t, "Verify", mock.Anything, mock.Anything, mock.Anything)
}

func TestVerificationService_Verify_ReplayReturnsStoredPayment(t *testing.T) {
	f := newVerificationFixture()
	adm := entity.NewAdmission("student-1", "Asha", "", "", "", "DS", "INR", dec("500"), entity.PaymentTypeOneTime)
	stored := &entity.VerifiedPayment{GatewayOrderID: "order_1", AdmissionID: adm.ID, ReceiptNumber: "RCPT-20240101-Z"}

	f.verifier.On("Verify", "order_1", "pay_1", "sig").Return(true)
	f.admissions.On("GetByID", mock.Anything, adm.ID).Return(adm, nil)
	f.payments.On("GetByOrderID", mock.Anything, "order_1").Return(stored, nil)

	result, err := f.service.Verify(context.Background(), VerifyCommand{
		OrderID: "order_1", PaymentID: "pay_1", Signature: "sig",
		AdmissionID: adm.ID, Amount: dec("500"),
		Requester: Requester{Role: RoleAccountant},
	})

	require.NoError(t, err)
	assert.Equal(t, entity.StatusAlreadyProcessed, result.Status)
	assert.Equal(t, "RCPT-20240101-Z", result.Payment.ReceiptNumber)
	f.payments.AssertNotCalled(t, "RecordPayment", mock.Anything, mock.Anything)
	f.publisher.AssertNotCalled(t, "PublishPaymentVerified", mock.Anything, mock.Anything)
}

func TestVerificationService_Verify_IntentMismatch(t *testing.T) {
	adm := entity.NewAdmission("student-1", "Asha", "", "", "", "DS", "INR", dec("1000"), entity.PaymentTypeEMI)

	tests := []struct {
		name         string
		intent       *entity.PaymentOrderIntent
		expectedCode string
	}{
		{
			name:         "different amount",
			intent:       &entity.PaymentOrderIntent{OrderID: "order_1", AdmissionID: adm.ID, InstallmentNumber: intPtr(1), Amount: dec("333.33")},
			expectedCode: apperrors.ErrAmountMismatch,
		},
		{
			name:         "different installment",
			intent:       &entity.PaymentOrderIntent{OrderID: "order_1", AdmissionID: adm.ID, InstallmentNumber: intPtr(2), Amount: dec("500")},
			expectedCode: apperrors.ErrInvalidArgument,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newVerificationFixture()
			f.verifier.On("Verify", mock.Anything, mock.Anything, mock.Anything).Return(true)
			f.admissions.On("GetByID", mock.Anything, adm.ID).Return(adm, nil)
			f.payments.On("GetByOrderID", mock.Anything, "order_1").Return(nil, nil)
			f.intents.On("Get", mock.Anything, "order_1").Return(tt.intent, nil)

			_, err := f.service.Verify(context.Background(), VerifyCommand{
				OrderID: "order_1", PaymentID: "pay_1", Signature: "sig",
				AdmissionID: adm.ID, Amount: dec("500"), InstallmentNumber: intPtr(1),
				Requester: Requester{Role: RoleAdmin},
			})

			assert.Equal(t, tt.expectedCode, apperrors.CodeOf(err))
			f.payments.AssertNotCalled(t, "RecordPayment", mock.Anything, mock.Anything)
		})
	}
}

func TestVerificationService_Verify_PublishFailureDoesNotFail(t *testing.T) {
	f := newVerificationFixture()
	adm := entity.NewAdmission("student-1", "Asha", "", "", "", "DS", "INR", dec("500"), entity.PaymentTypeOneTime)

	f.verifier.On("Verify", mock.Anything, mock.Anything, mock.Anything).Return(true)
	f.admissions.On("GetByID", mock.Anything, adm.ID).Return(adm, nil)
	f.payments.On("GetByOrderID", mock.Anything, "order_1").Return(nil, nil)
	f.intents.On("Get", mock.Anything, "order_1").Return(nil, errors.New("redis down"))
	f.payments.On("RecordPayment", mock.Anything, mock.Anything).
		Return(func(_ context.Context, p *entity.VerifiedPayment) *domainRepo.RecordResult {
			return &domainRepo.RecordResult{Status: entity.StatusVerified, Payment: p, Admission: adm}
		}, nil)
	f.publisher.On("PublishPaymentVerified", mock.Anything, mock.Anything).Return(errors.New("redis down"))

	result, err := f.service.Verify(context.Background(), VerifyCommand{
		OrderID: "order_1", PaymentID: "pay_1", Signature: "sig",
		AdmissionID: adm.ID, Amount: dec("500"),
		Requester: Requester{Role: RoleAdmin},
	})

	require.NoError(t, err)
	assert.Equal(t, entity.StatusVerified, result.Status)
}

func TestVerificationService_GetReceipt_Authorization(t *testing.T) {
	f := newVerificationFixture()
	adm := entity.NewAdmission("student-1", "Asha", "", "", "", "DS", "INR", dec("500"), entity.PaymentTypeOneTime)
	payment := &entity.VerifiedPayment{AdmissionID: adm.ID, ReceiptNumber: "RCPT-1"}

	f.payments.On("GetByReceiptNumber", mock.Anything, "RCPT-1").Return(payment, nil)
	f.admissions.On("GetByID", mock.Anything, adm.ID).Return(adm, nil)

	got, _, err := f.service.GetReceipt(context.Background(), "RCPT-1", Requester{UserID: "student-1", Role: RoleStudent})
	require.NoError(t, err)
	assert.Equal(t, payment, got)

	_, _, err = f.service.GetReceipt(context.Background(), "RCPT-1", Requester{UserID: "student-2", Role: RoleStudent})
	assert.Equal(t, apperrors.ErrUnauthorized, apperrors.CodeOf(err))
}
