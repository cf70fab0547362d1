package cache

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wekeepgrowing/institute-backend/services/payment/internal/domain/entity"
)

func TestMemoryOrderIntentStore(t *testing.T) {
	store := NewMemoryOrderIntentStore().(*memoryOrderIntentStore)
	now := time.Date(2024, time.March, 1, 10, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	number := 2
	intent := &entity.PaymentOrderIntent{
		OrderID:           "order_1",
		AdmissionID:       uuid.New(),
		InstallmentNumber: &number,
		Amount:            decimal.RequireFromString("333.33"),
		Currency:          "INR",
		Purpose:           entity.PurposeInstallment,
		CreatedAt:         now,
	}
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, intent, 30*time.Minute))

	got, err := store.Get(ctx, "order_1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, intent.AdmissionID, got.AdmissionID)
	assert.Equal(t, 2, *got.InstallmentNumber)

	missing, err := store.Get(ctx, "order_2")
	require.NoError(t, err)
	assert.Nil(t, missing)

	now = now.Add(31 * time.Minute)
	expired, err := store.Get(ctx, "order_1")
	require.NoError(t, err)
	assert.Nil(t, expired)
}
