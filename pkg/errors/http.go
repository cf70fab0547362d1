package errors

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ToHTTPStatus는 에러 코드를 HTTP 상태 코드로 변환합니다
func ToHTTPStatus(code string) int {
	httpStatus, _ := GetCodeMapping(code)
	return httpStatus
}

// ToHTTPError는 에러를 Echo HTTP 에러로 변환합니다
func ToHTTPError(err error) *echo.HTTPError {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if As(err, &appErr) {
		return echo.NewHTTPError(ToHTTPStatus(appErr.Code()), publicMessage(appErr))
	}

	if echoErr, ok := err.(*echo.HTTPError); ok {
		return echoErr
	}

	return echo.NewHTTPError(http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
}

// ToResponse는 에러를 상태 코드와 JSON 응답 본문으로 변환합니다.
// 본문 형식: {"error": 메시지, "code": 코드, "retryable": 재시도 가능 여부(가능할 때만)}
func ToResponse(err error) (int, echo.Map) {
	var appErr *AppError
	if As(err, &appErr) {
		body := echo.Map{
			"error": publicMessage(appErr),
			"code":  appErr.Code(),
		}
		if IsRetryable(appErr.Code()) {
			body["retryable"] = true
		}
		return ToHTTPStatus(appErr.Code()), body
	}

	if echoErr, ok := err.(*echo.HTTPError); ok {
		msg, ok := echoErr.Message.(string)
		if !ok {
			msg = http.StatusText(echoErr.Code)
		}
		return echoErr.Code, echo.Map{
			"error": msg,
			"code":  httpStatusToCode(echoErr.Code),
		}
	}

	return http.StatusInternalServerError, echo.Map{
		"error": http.StatusText(http.StatusInternalServerError),
		"code":  ErrInternal,
	}
}

// publicMessage는 클라이언트에 노출할 메시지를 고릅니다. INTERNAL 에러는 내부 원인을 숨깁니다
func publicMessage(appErr *AppError) string {
	if appErr.Code() == ErrInternal {
		return http.StatusText(http.StatusInternalServerError)
	}
	// Wrap 체인에서는 가장 안쪽 AppError의 메시지가 원래 의미를 담고 있습니다
	inner := appErr
	for {
		var next *AppError
		if inner.err == nil || !As(inner.err, &next) {
			break
		}
		inner = next
	}
	if inner.message == "" {
		return appErr.Error()
	}
	return inner.message
}

// FromHTTPError는 Echo HTTP 에러를 내부 에러로 변환합니다
func FromHTTPError(err error) error {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if As(err, &appErr) {
		return err
	}

	if echoErr, ok := err.(*echo.HTTPError); ok {
		msg, ok := echoErr.Message.(string)
		if !ok {
			msg = "HTTP error"
		}
		return NewAppError(httpStatusToCode(echoErr.Code), msg, nil)
	}

	return NewAppError(ErrInternal, err.Error(), err)
}

// httpStatusToCode는 HTTP 상태 코드를 내부 에러 코드로 변환합니다
func httpStatusToCode(status int) string {
	switch status {
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusBadRequest:
		return ErrInvalidArgument
	case http.StatusUnauthorized:
		return ErrUnauthenticated
	case http.StatusForbidden:
		return ErrUnauthorized
	case http.StatusConflict:
		return ErrConflict
	case http.StatusGatewayTimeout:
		return ErrTimeout
	case http.StatusNotImplemented:
		return ErrNotImplemented
	case http.StatusServiceUnavailable:
		return ErrUnavailable
	default:
		return ErrInternal
	}
}
