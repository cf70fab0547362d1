package errors

import (
	"fmt"

	"github.com/shopspring/decimal"
	apperrors "github.com/wekeepgrowing/institute-backend/pkg/errors"
)

// Sentinels for errors.Is checks. Matching is by code only.
var (
	ErrNotFound            = apperrors.Sentinel(apperrors.ErrNotFound)
	ErrInvalidArgument     = apperrors.Sentinel(apperrors.ErrInvalidArgument)
	ErrGatewayUnavailable  = apperrors.Sentinel(apperrors.ErrGatewayUnavailable)
	ErrOrderCreationFailed = apperrors.Sentinel(apperrors.ErrOrderCreationFailed)
	ErrSignatureInvalid    = apperrors.Sentinel(apperrors.ErrSignatureInvalid)
	ErrAmountMismatch      = apperrors.Sentinel(apperrors.ErrAmountMismatch)
	ErrAlreadyPaid         = apperrors.Sentinel(apperrors.ErrAlreadyPaid)
	ErrScheduleExists      = apperrors.Sentinel(apperrors.ErrScheduleExists)
	ErrForbidden           = apperrors.Sentinel(apperrors.ErrUnauthorized)
)

func NewAdmissionNotFoundError(admissionID string) error {
	return apperrors.NewAppError(apperrors.ErrNotFound,
		fmt.Sprintf("admission %s not found", admissionID), nil)
}

func NewInstallmentNotFoundError(admissionID string, number int) error {
	return apperrors.NewAppError(apperrors.ErrNotFound,
		fmt.Sprintf("installment %d not found for admission %s", number, admissionID), nil)
}

func NewPaymentNotFoundError(ref string) error {
	return apperrors.NewAppError(apperrors.ErrNotFound,
		fmt.Sprintf("payment %s not found", ref), nil)
}

func NewInvalidArgumentError(format string, args ...interface{}) error {
	return apperrors.NewAppError(apperrors.ErrInvalidArgument, fmt.Sprintf(format, args...), nil)
}

// NewAmountMismatchError is returned when a client-supplied amount differs from the stored one.
func NewAmountMismatchError(expected, got decimal.Decimal) error {
	return apperrors.NewAppError(apperrors.ErrAmountMismatch,
		fmt.Sprintf("amount mismatch: expected %s, got %s", expected.StringFixed(2), got.StringFixed(2)), nil)
}

func NewAlreadyPaidError(what string) error {
	return apperrors.NewAppError(apperrors.ErrAlreadyPaid, what+" is already paid", nil)
}

func NewScheduleExistsError(admissionID string) error {
	return apperrors.NewAppError(apperrors.ErrScheduleExists,
		fmt.Sprintf("installment schedule already exists for admission %s", admissionID), nil)
}

func NewOrderCreationFailedError(err error) error {
	return apperrors.NewAppError(apperrors.ErrOrderCreationFailed,
		"payment gateway could not create the order", err)
}

func NewSignatureInvalidError() error {
	return apperrors.NewAppError(apperrors.ErrSignatureInvalid, "payment signature does not match", nil)
}

func NewForbiddenError(msg string) error {
	return apperrors.NewAppError(apperrors.ErrUnauthorized, msg, nil)
}
