package fiber

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v3"

	"github.com/nakeddeadlines/deadline"
)

// handleError maps engine errors to the uniform failure envelope.
// Nothing propagates to the end user as an unhandled fault.
func handleError(c fiber.Ctx, err error) error {
	return c.Status(mapErrorToStatus(err)).JSON(fiber.Map{
		"success": false,
		"error":   err.Error(),
	})
}

// mapErrorToStatus maps engine error types to HTTP status codes
func mapErrorToStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}

	switch {
	case errors.Is(err, deadline.ErrMissingAuthHeader),
		errors.Is(err, deadline.ErrInvalidToken),
		errors.Is(err, deadline.ErrSessionNotFound),
		errors.Is(err, deadline.ErrSessionExpired):
		return http.StatusUnauthorized

	case errors.Is(err, deadline.ErrTimerNotFound),
		errors.Is(err, deadline.ErrTokenNotFound),
		errors.Is(err, deadline.ErrImageNotFound):
		return http.StatusNotFound

	case errors.Is(err, deadline.ErrHandleRequired),
		errors.Is(err, deadline.ErrImageKeyRequired),
		errors.Is(err, deadline.ErrGoalRequired),
		errors.Is(err, deadline.ErrDeadlineRequired),
		errors.Is(err, deadline.ErrFriendEmailRequired),
		errors.Is(err, deadline.ErrInvalidEmail),
		errors.Is(err, deadline.ErrDeadlineNotFuture),
		errors.Is(err, deadline.ErrTokenRequired),
		errors.Is(err, deadline.ErrImageRequired),
		errors.Is(err, deadline.ErrCredentialRequired):
		return http.StatusBadRequest

	case errors.Is(err, deadline.ErrTimerExpired),
		errors.Is(err, deadline.ErrNotExpired):
		return http.StatusConflict

	case errors.Is(err, deadline.ErrPublishFailed),
		errors.Is(err, deadline.ErrPaymentFailed):
		return http.StatusBadGateway

	case errors.Is(err, deadline.ErrStoreFailed):
		return http.StatusServiceUnavailable

	default:
		return http.StatusInternalServerError
	}
}
