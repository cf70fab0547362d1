package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/wekeepgrowing/institute-backend/services/payment/internal/domain/entity"
	"github.com/wekeepgrowing/institute-backend/services/payment/internal/domain/event"
	"github.com/wekeepgrowing/institute-backend/services/payment/internal/domain/provider"
	domainRepo "github.com/wekeepgrowing/institute-backend/services/payment/internal/domain/repository"
)

type MockAdmissionRepository struct {
	mock.Mock
}

func (m *MockAdmissionRepository) Create(ctx context.Context, admission *entity.Admission, installments []entity.Installment) error {
	return m.Called(ctx, admission, installments).Error(0)
}

func (m *MockAdmissionRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Admission, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Admission), args.Error(1)
}

func (m *MockAdmissionRepository) List(ctx context.Context, filter domainRepo.AdmissionFilter) ([]entity.Admission, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]entity.Admission), args.Get(1).(int64), args.Error(2)
}

type MockInstallmentRepository struct {
	mock.Mock
}

func (m *MockInstallmentRepository) CreateSchedule(ctx context.Context, admissionID uuid.UUID, installments []entity.Installment) error {
	return m.Called(ctx, admissionID, installments).Error(0)
}

func (m *MockInstallmentRepository) ListByAdmission(ctx context.Context, admissionID uuid.UUID) ([]entity.Installment, error) {
	args := m.Called(ctx, admissionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Installment), args.Error(1)
}

func (m *MockInstallmentRepository) GetByNumber(ctx context.Context, admissionID uuid.UUID, number int) (*entity.Installment, error) {
	args := m.Called(ctx, admissionID, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Installment), args.Error(1)
}

type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) GetByOrderID(ctx context.Context, orderID string) (*entity.VerifiedPayment, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.VerifiedPayment), args.Error(1)
}

func (m *MockPaymentRepository) GetByReceiptNumber(ctx context.Context, receiptNumber string) (*entity.VerifiedPayment, error) {
	args := m.Called(ctx, receiptNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.VerifiedPayment), args.Error(1)
}

func (m *MockPaymentRepository) ListByAdmission(ctx context.Context, admissionID uuid.UUID) ([]entity.VerifiedPayment, error) {
	args := m.Called(ctx, admissionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.VerifiedPayment), args.Error(1)
}

func (m *MockPaymentRepository) RecordPayment(ctx context.Context, payment *entity.VerifiedPayment) (*domainRepo.RecordResult, error) {
	args := m.Called(ctx, payment)
	if fn, ok := args.Get(0).(func(context.Context, *entity.VerifiedPayment) *domainRepo.RecordResult); ok {
		return fn(ctx, payment), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domainRepo.RecordResult), args.Error(1)
}

type MockOrderIntentStore struct {
	mock.Mock
}

func (m *MockOrderIntentStore) Put(ctx context.Context, intent *entity.PaymentOrderIntent, ttl time.Duration) error {
	return m.Called(ctx, intent, ttl).Error(0)
}

func (m *MockOrderIntentStore) Get(ctx context.Context, orderID string) (*entity.PaymentOrderIntent, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.PaymentOrderIntent), args.Error(1)
}

type MockPaymentGateway struct {
	mock.Mock
}

func (m *MockPaymentGateway) CreateOrder(ctx context.Context, req *provider.CreateOrderRequest) (*provider.Order, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*provider.Order), args.Error(1)
}

func (m *MockPaymentGateway) PublicKey() string { return "rzp_test_key" }

func (m *MockPaymentGateway) GetProviderName() string { return "razorpay" }

type MockSignatureVerifier struct {
	mock.Mock
}

func (m *MockSignatureVerifier) Verify(orderID, paymentID, signature string) bool {
	return m.Called(orderID, paymentID, signature).Bool(0)
}

type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) PublishPaymentVerified(ctx context.Context, evt *event.PaymentVerified) error {
	return m.Called(ctx, evt).Error(0)
}

type fixedReceipts struct {
	mu sync.Mutex
	n  int
}

func (f *fixedReceipts) Next(at time.Time) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.n++
	return "RCPT-" + at.Format("20060102") + "-" + string(rune('A'+f.n-1)), nil
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func intPtr(i int) *int { return &i }
