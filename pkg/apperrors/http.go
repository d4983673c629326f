package apperrors

import (
	"errors"
	"net/http"
)

// HTTPStatus maps a domain error onto the response code the handlers
// should send. Unknown errors map to 500.
func HTTPStatus(err error) int {
	var (
		validationErr *ValidationError
		stockErr      *InsufficientStockError
		transitionErr *InvalidStateTransitionError
		authzErr      *AuthorizationError
		notFoundErr   *NotFoundError
		conflictErr   *ConflictError
		uniqueViolErr *UniqueViolationError
		foreignKeyErr *ForeignKeyViolationError
	)

	switch {
	case errors.As(err, &validationErr):
		return http.StatusBadRequest
	case errors.As(err, &stockErr):
		return http.StatusConflict
	case errors.As(err, &transitionErr):
		return http.StatusConflict
	case errors.As(err, &authzErr):
		return http.StatusForbidden
	case errors.As(err, &notFoundErr):
		return http.StatusNotFound
	case errors.As(err, &conflictErr):
		return http.StatusConflict
	case errors.As(err, &uniqueViolErr):
		return http.StatusConflict
	case errors.As(err, &foreignKeyErr):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
