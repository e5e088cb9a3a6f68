package handler

import (
	"errors"
	"log/slog"

	"github.com/forgo/quest/internal/model"
	"github.com/forgo/quest/internal/service"
)

// conflictRetryAfter is the Retry-After hint, in seconds, sent when a
// transaction gave up under contention
const conflictRetryAfter = 1

// MapServiceError converts a service error to a ProblemDetails response.
// Every handler goes through it so status codes stay consistent.
func MapServiceError(err error) *model.ProblemDetails {
	if err == nil {
		return nil
	}

	switch service.KindOf(err) {
	case service.KindNotFound:
		return model.NewNotFoundError(notFoundResource(err))
	case service.KindInvariantViolation:
		return model.NewConflictError(err.Error())
	case service.KindValidation:
		return model.NewValidationError([]model.FieldError{{Field: validationField(err), Message: err.Error()}})
	case service.KindTransactionConflict:
		return model.NewUnavailableError("the record was busy, retry the request", conflictRetryAfter)
	default:
		slog.Error("unhandled service error", slog.String("error", err.Error()))
		return model.NewInternalError("")
	}
}

func notFoundResource(err error) string {
	switch {
	case errors.Is(err, service.ErrGuildNotFound):
		return "guild"
	case errors.Is(err, service.ErrQuestNotFound):
		return "quest"
	default:
		return "profile"
	}
}

func validationField(err error) string {
	switch {
	case errors.Is(err, service.ErrInvalidAttribute):
		return "attribute"
	case errors.Is(err, service.ErrInvalidQuest):
		return "quest_id"
	case errors.Is(err, service.ErrUserIDRequired):
		return "user_id"
	case errors.Is(err, service.ErrGuildNameRequired),
		errors.Is(err, service.ErrGuildNameTooLong):
		return "name"
	case errors.Is(err, service.ErrGuildDescTooLong):
		return "description"
	default:
		return "request"
	}
}
