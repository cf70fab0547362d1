package http

import (
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	apperrors "github.com/wekeepgrowing/institute-backend/pkg/errors"
	domainErrors "github.com/wekeepgrowing/institute-backend/services/payment/internal/domain/errors"
	"github.com/wekeepgrowing/institute-backend/services/payment/internal/middleware/auth"
	"github.com/wekeepgrowing/institute-backend/services/payment/internal/usecase"
)

const dateLayout = "2006-01-02"

// requester maps the authenticated user onto the use case caller
func requester(c echo.Context) (usecase.Requester, error) {
	user, err := auth.GetUserFromContext(c)
	if err != nil {
		return usecase.Requester{}, apperrors.NewAppError(apperrors.ErrUnauthenticated, "authentication required", err)
	}
	return usecase.Requester{UserID: user.UserID, Role: user.Role}, nil
}

// bindAndValidate decodes the request into req and runs the struct validator
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return domainErrors.NewInvalidArgumentError("invalid request body")
	}
	return c.Validate(req)
}

func parseUUID(name, value string) (uuid.UUID, error) {
	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, domainErrors.NewInvalidArgumentError("%s must be a valid UUID", name)
	}
	return id, nil
}

func parseDate(name, value string) (time.Time, error) {
	t, err := time.ParseInLocation(dateLayout, value, time.UTC)
	if err != nil {
		return time.Time{}, domainErrors.NewInvalidArgumentError("%s must use YYYY-MM-DD", name)
	}
	return t, nil
}
