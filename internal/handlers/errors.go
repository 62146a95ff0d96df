package handlers

import (
	"errors"

	"github.com/trackit-app/trackit/internal/services"
	appErrors "github.com/trackit-app/trackit/pkg/errors"
)

// mapServiceError translates service sentinel errors into API errors so that
// handlers return accurate status codes without leaking internals.
func mapServiceError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, services.ErrTaskNotFound),
		errors.Is(err, services.ErrTemplateNotFound),
		errors.Is(err, services.ErrCommentNotFound),
		errors.Is(err, services.ErrNotificationNotFound),
		errors.Is(err, services.ErrUserNotFound):
		return appErrors.ErrNotFound
	case errors.Is(err, services.ErrUsernameTaken),
		errors.Is(err, services.ErrTemplateNameTaken):
		return appErrors.ErrConflict
	case errors.Is(err, services.ErrInvalidCredentials),
		errors.Is(err, services.ErrUserInactive):
		return appErrors.ErrInvalidCredentials
	default:
		var appErr *appErrors.AppError
		if errors.As(err, &appErr) {
			return appErr
		}
		return appErrors.NewBadRequest(err.Error())
	}
}
