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
	"github.com/wekeepgrowing/institute-backend/services/payment/internal/domain/provider"
	"github.com/wekeepgrowing/institute-backend/services/payment/internal/testutil"
	"go.uber.org/zap"
)

func newOrderServiceForTest(l *testutil.Ledger, gw provider.PaymentGateway, intents *MockOrderIntentStore) *OrderService {
	return NewOrderService(l.Admissions(), l.Installments(), intents, gw, OrderServiceConfig{
		Currency:     "INR",
		MerchantName: "Institute",
		ScriptURL:    "https://checkout.example.com/v1/checkout.js",
		IntentTTL:    30 * time.Minute,
	}, zap.NewNop())
}

func TestOrderService_CreateOrder_OneTime(t *testing.T) {
	ctx := context.Background()
	ledger := testutil.NewLedger()
	adm := entity.NewAdmission("student-1", "Asha", "asha@example.com", "9999999999", "", "Data Science", "INR", dec("500"), entity.PaymentTypeOneTime)
	require.NoError(t, ledger.Admissions().Create(ctx, adm, nil))

	gw := new(MockPaymentGateway)
	intents := new(MockOrderIntentStore)
	service := newOrderServiceForTest(ledger, gw, intents)

	gw.On("CreateOrder", mock.Anything, mock.MatchedBy(func(req *provider.CreateOrderRequest) bool {
		return req.AmountMinor == 50000 && req.Currency == "INR" && req.Notes["admission_id"] == adm.ID.String()
	})).Return(&provider.Order{ID: "order_1", AmountMinor: 50000, Currency: "INR"}, nil)
	intents.On("Put", mock.Anything, mock.MatchedBy(func(i *entity.PaymentOrderIntent) bool {
		return i.OrderID == "order_1" && i.Purpose == entity.PurposeFullPayment && i.Amount.Equal(dec("500"))
	}), 30*time.Minute).Return(nil)

	result, err := service.CreateOrder(ctx, CreateOrderCommand{
		AdmissionID: adm.ID,
		Amount:      dec("500"),
		Currency:    "inr",
		Requester:   Requester{UserID: "student-1", Role: RoleStudent},
	})

	require.NoError(t, err)
	assert.Equal(t, "order_1", result.OrderID)
	assert.Equal(t, int64(50000), result.AmountMinor)
	assert.Equal(t, "rzp_test_key", result.GatewayPublicKey)
	assert.Equal(t, "Asha", result.Prefill.Name)
	assert.Equal(t, "Institute", result.MerchantName)
	assert.Equal(t, "https://checkout.example.com/v1/checkout.js", result.CheckoutScriptURL)
	gw.AssertExpectations(t)
	intents.AssertExpectations(t)

	// order creation never touches the ledger
	stored, _ := ledger.Admissions().GetByID(ctx, adm.ID)
	assert.True(t, stored.PendingAmount.Equal(dec("500")))
}

func TestOrderService_CreateOrder_Rejections(t *testing.T) {
	ctx := context.Background()
	ledger := testutil.NewLedger()

	oneTime := entity.NewAdmission("student-1", "Asha", "", "", "", "DS", "INR", dec("500"), entity.PaymentTypeOneTime)
	paid := entity.NewAdmission("student-1", "Asha", "", "", "", "DS", "INR", dec("500"), entity.PaymentTypeOneTime)
	paid.Credit(dec("500"))
	emi := entity.NewAdmission("student-1", "Asha", "", "", "", "DS", "INR", dec("1000"), entity.PaymentTypeEMI)
	require.NoError(t, ledger.Admissions().Create(ctx, oneTime, nil))
	require.NoError(t, ledger.Admissions().Create(ctx, paid, nil))
	require.NoError(t, ledger.Admissions().Create(ctx, emi, []entity.Installment{
		{AdmissionID: emi.ID, Number: 1, Amount: dec("500"), Status: entity.InstallmentPaid},
		{AdmissionID: emi.ID, Number: 2, Amount: dec("500"), Status: entity.InstallmentPending},
	}))

	student := Requester{UserID: "student-1", Role: RoleStudent}

	tests := []struct {
		name         string
		cmd          CreateOrderCommand
		expectedCode string
	}{
		{"zero amount", CreateOrderCommand{AdmissionID: oneTime.ID, Amount: dec("0"), Requester: student}, apperrors.ErrInvalidArgument},
		{"sub-paisa amount", CreateOrderCommand{AdmissionID: oneTime.ID, Amount: dec("499.999"), Requester: student}, apperrors.ErrInvalidArgument},
		{"amount differs from pending", CreateOrderCommand{AdmissionID: oneTime.ID, Amount: dec("400"), Requester: student}, apperrors.ErrAmountMismatch},
		{"foreign currency", CreateOrderCommand{AdmissionID: oneTime.ID, Amount: dec("500"), Currency: "USD", Requester: student}, apperrors.ErrInvalidArgument},
		{"fully paid", CreateOrderCommand{AdmissionID: paid.ID, Amount: dec("500"), Requester: student}, apperrors.ErrAlreadyPaid},
		{"emi without installment", CreateOrderCommand{AdmissionID: emi.ID, Amount: dec("500"), Requester: student}, apperrors.ErrInvalidArgument},
		{"unknown installment", CreateOrderCommand{AdmissionID: emi.ID, Amount: dec("500"), InstallmentNumber: intPtr(5), Requester: student}, apperrors.ErrNotFound},
		{"installment already paid", CreateOrderCommand{AdmissionID: emi.ID, Amount: dec("500"), InstallmentNumber: intPtr(1), Requester: student}, apperrors.ErrAlreadyPaid},
		{"installment amount differs", CreateOrderCommand{AdmissionID: emi.ID, Amount: dec("499"), InstallmentNumber: intPtr(2), Requester: student}, apperrors.ErrAmountMismatch},
		{"other student", CreateOrderCommand{AdmissionID: oneTime.ID, Amount: dec("500"), Requester: Requester{UserID: "student-2", Role: RoleStudent}}, apperrors.ErrUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw := new(MockPaymentGateway)
			intents := new(MockOrderIntentStore)
			service := newOrderServiceForTest(ledger, gw, intents)

			_, err := service.CreateOrder(ctx, tt.cmd)

			require.Error(t, err)
			assert.Equal(t, tt.expectedCode, apperrors.CodeOf(err))
			gw.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything)
		})
	}
}

func TestOrderService_CreateOrder_GatewayFailure(t *testing.T) {
	ctx := context.Background()
	ledger := testutil.NewLedger()
	adm := entity.NewAdmission("student-1", "Asha", "", "", "", "DS", "INR", dec("500"), entity.PaymentTypeOneTime)
	require.NoError(t, ledger.Admissions().Create(ctx, adm, nil))

	gw := new(MockPaymentGateway)
	intents := new(MockOrderIntentStore)
	service := newOrderServiceForTest(ledger, gw, intents)
	gw.On("CreateOrder", mock.Anything, mock.Anything).Return(nil, errors.New("connection reset"))

	_, err := service.CreateOrder(ctx, CreateOrderCommand{AdmissionID: adm.ID, Amount: dec("500"), Requester: Requester{Role: RoleAdmin}})

	require.Error(t, err)
	assert.Equal(t, apperrors.ErrOrderCreationFailed, apperrors.CodeOf(err))
	assert.True(t, apperrors.IsRetryable(apperrors.CodeOf(err)))
	intents.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything)
}

func TestOrderService_CreateOrder_IntentStoreFailureIsTolerated(t *testing.T) {
	ctx := context.Background()
	ledger := testutil.NewLedger()
	adm := entity.NewAdmission("student-1", "Asha", "", "", "", "DS", "INR", dec("1000"), entity.PaymentTypeEMI)
	require.NoError(t, ledger.Admissions().Create(ctx, adm, []entity.Installment{
		{AdmissionID: adm.ID, Number: 1, Amount: dec("500"), Status: entity.InstallmentPending},
		{AdmissionID: adm.ID, Number: 2, Amount: dec("500"), Status: entity.InstallmentPending},
	}))

	gw := new(MockPaymentGateway)
	intents := new(MockOrderIntentStore)
	service := newOrderServiceForTest(ledger, gw, intents)
	gw.On("CreateOrder", mock.Anything, mock.MatchedBy(func(req *provider.CreateOrderRequest) bool {
		return req.Notes["installment_number"] == "2"
	})).Return(&provider.Order{ID: "order_2"}, nil)
	intents.On("Put", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("redis down"))

	result, err := service.CreateOrder(ctx, CreateOrderCommand{
		AdmissionID:       adm.ID,
		Amount:            dec("500"),
		InstallmentNumber: intPtr(2),
		Requester:         Requester{UserID: "student-1", Role: RoleStudent},
	})

	require.NoError(t, err)
	assert.Equal(t, entity.PurposeInstallment, result.Purpose)
	assert.Equal(t, 2, *result.InstallmentNumber)
}
