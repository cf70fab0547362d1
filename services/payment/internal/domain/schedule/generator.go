// Package schedule splits an admission's fees into dated EMI installments.
package schedule

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/wekeepgrowing/institute-backend/services/payment/internal/domain/entity"
	domainErrors "github.com/wekeepgrowing/institute-backend/services/payment/internal/domain/errors"
)

// Options controls spacing and rounding. Zero values mean monthly, two decimal places.
type Options struct {
	IntervalMonths int
	// MinorUnitDigits is the number of decimal places of the currency's smallest unit.
	MinorUnitDigits int32
}

func (o Options) withDefaults() Options {
	if o.IntervalMonths < 1 {
		o.IntervalMonths = 1
	}
	if o.MinorUnitDigits <= 0 {
		o.MinorUnitDigits = 2
	}
	return o
}

// Generate produces n PENDING installments for totalFees.
//
// Each installment gets totalFees/n floored to the smallest currency unit and
// the last one absorbs the remainder, so the amounts always sum to totalFees.
// Installment i is due (i-1)*IntervalMonths after first; days that do not exist
// in the target month clamp to its last day.
func Generate(admissionID uuid.UUID, totalFees decimal.Decimal, n int, first time.Time, opts Options) ([]entity.Installment, error) {
	opts = opts.withDefaults()

	if n < 1 {
		return nil, domainErrors.NewInvalidArgumentError("number of installments must be at least 1, got %d", n)
	}
	if !totalFees.IsPositive() {
		return nil, domainErrors.NewInvalidArgumentError("total fees must be greater than zero")
	}
	if first.IsZero() {
		return nil, domainErrors.NewInvalidArgumentError("first installment date is required")
	}

	scaled := totalFees.Shift(opts.MinorUnitDigits)
	if !scaled.Equal(scaled.Truncate(0)) {
		return nil, domainErrors.NewInvalidArgumentError("total fees %s has more precision than the currency allows", totalFees)
	}
	minor := scaled.IntPart()

	per := minor / int64(n)
	if per == 0 {
		return nil, domainErrors.NewInvalidArgumentError("total fees %s cannot be split into %d installments", totalFees, n)
	}
	last := minor - per*int64(n-1)

	installments := make([]entity.Installment, n)
	for i := 0; i < n; i++ {
		amount := per
		if i == n-1 {
			amount = last
		}
		installments[i] = entity.Installment{
			ID:          uuid.New(),
			AdmissionID: admissionID,
			Number:      i + 1,
			Amount:      decimal.New(amount, -opts.MinorUnitDigits),
			DueDate:     AddMonths(first, i*opts.IntervalMonths),
			Status:      entity.InstallmentPending,
		}
	}
	return installments, nil
}

// AddMonths adds months to t keeping the day of month when possible and
// clamping to the last day of the target month otherwise (Jan 31 + 1 = Feb 28/29).
func AddMonths(t time.Time, months int) time.Time {
	if months == 0 {
		return t
	}
	y, m, d := t.Date()
	firstOfTarget := time.Date(y, m+time.Month(months), 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	if last := daysIn(firstOfTarget); d > last {
		d = last
	}
	return firstOfTarget.AddDate(0, 0, d-1)
}

func daysIn(firstOfMonth time.Time) int {
	return firstOfMonth.AddDate(0, 1, -1).Day()
}
