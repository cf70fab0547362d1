package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	apperrors "github.com/wekeepgrowing/institute-backend/pkg/errors"
	"github.com/wekeepgrowing/institute-backend/services/payment/internal/domain/entity"
	"github.com/wekeepgrowing/institute-backend/services/payment/internal/domain/schedule"
	"github.com/wekeepgrowing/institute-backend/services/payment/internal/testutil"
	"go.uber.org/zap"
)

func TestScheduleService_CreateSchedule(t *testing.T) {
	ctx := context.Background()
	staff := Requester{UserID: "staff-1", Role: RoleAdmin}
	first := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)

	ledger := testutil.NewLedger()
	emi := entity.NewAdmission("student-1", "Asha", "asha@example.com", "9999999999", "", "Data Science", "INR", dec("1000"), entity.PaymentTypeEMI)
	oneTime := entity.NewAdmission("student-2", "Ravi", "", "", "", "Data Science", "INR", dec("500"), entity.PaymentTypeOneTime)
	require.NoError(t, ledger.Admissions().Create(ctx, emi, nil))
	require.NoError(t, ledger.Admissions().Create(ctx, oneTime, nil))

	service := NewScheduleService(ledger.Admissions(), ledger.Installments(), schedule.Options{}, zap.NewNop())

	installments, err := service.CreateSchedule(ctx, emi.ID, 3, first, staff)
	require.NoError(t, err)
	require.Len(t, installments, 3)
	assert.Equal(t, "333.33", installments[0].Amount.StringFixed(2))
	assert.Equal(t, "333.34", installments[2].Amount.StringFixed(2))
	assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), installments[1].DueDate)

	_, err = service.CreateSchedule(ctx, emi.ID, 2, first, staff)
	assert.Equal(t, apperrors.ErrScheduleExists, apperrors.CodeOf(err))

	_, err = service.CreateSchedule(ctx, oneTime.ID, 3, first, staff)
	assert.Equal(t, apperrors.ErrInvalidArgument, apperrors.CodeOf(err))

	_, err = service.CreateSchedule(ctx, uuid.New(), 3, first, staff)
	assert.Equal(t, apperrors.ErrNotFound, apperrors.CodeOf(err))

	listed, err := service.ListInstallments(ctx, emi.ID, Requester{UserID: "student-1", Role: RoleStudent})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, []int{listed[0].Number, listed[1].Number, listed[2].Number})
}
