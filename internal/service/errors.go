package service

import (
	"errors"
	"strings"

	"github.com/taskwell/taskwell/internal/domain"
	"github.com/taskwell/taskwell/internal/result"
)

// classify maps a domain or repository error to a result.Error. Errors not
// wrapping a known sentinel come from repository writes and are treated as
// business rule violations; by the time they surface any compensating
// rollback has already run.
func classify(err error) *result.Error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return &result.Error{Code: result.CodeNotFound, Message: message(err)}
	case errors.Is(err, domain.ErrValidation):
		return result.Validation(message(err))
	case errors.Is(err, domain.ErrBusinessRule):
		return result.BusinessRule(message(err))
	case errors.Is(err, domain.ErrConflict):
		return result.Conflict(message(err))
	case errors.Is(err, domain.ErrUnauthorized):
		return result.Unauthorized(message(err))
	default:
		return result.BusinessRule(err.Error())
	}
}

// message strips the wrapped sentinel suffix so callers see the human part
// of "title is required: validation error".
func message(err error) string {
	msg := err.Error()
	for _, sentinel := range []error{
		domain.ErrNotFound,
		domain.ErrValidation,
		domain.ErrBusinessRule,
		domain.ErrConflict,
		domain.ErrUnauthorized,
	} {
		msg = strings.TrimSuffix(msg, ": "+sentinel.Error())
	}
	return msg
}
