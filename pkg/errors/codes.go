package errors

// 공통 에러 코드
const (
	ErrInternal        = "INTERNAL"
	ErrNotFound        = "NOT_FOUND"
	ErrInvalidArgument = "INVALID_ARGUMENT"
	ErrUnauthenticated = "UNAUTHENTICATED"
	ErrUnauthorized    = "UNAUTHORIZED"
	ErrConflict        = "CONFLICT"
	ErrTimeout         = "TIMEOUT"
	ErrNotImplemented  = "NOT_IMPLEMENTED"
	ErrUnavailable     = "UNAVAILABLE"
)

// 결제 흐름 에러 코드
const (
	ErrGatewayUnavailable  = "GATEWAY_UNAVAILABLE"
	ErrOrderCreationFailed = "ORDER_CREATION_FAILED"
	ErrSignatureInvalid    = "SIGNATURE_INVALID"
	ErrAmountMismatch      = "AMOUNT_MISMATCH"
	ErrAlreadyPaid         = "ALREADY_PAID"
	ErrScheduleExists      = "SCHEDULE_EXISTS"
)

// retryableCodes는 클라이언트가 같은 요청을 다시 시도해도 되는 코드 목록입니다
var retryableCodes = map[string]bool{
	ErrOrderCreationFailed: true,
	ErrTimeout:             true,
	ErrUnavailable:         true,
}

// IsRetryable은 에러 코드가 재시도 가능한지 반환합니다
func IsRetryable(code string) bool {
	return retryableCodes[code]
}
