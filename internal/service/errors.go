package service

import (
	"errors"
	"fmt"

	"github.com/forgo/quest/internal/database"
)

// Kind classifies a service error for callers that map errors to
// transport status codes
type Kind int

const (
	KindUnknown Kind = iota
	KindNotFound
	KindInvariantViolation
	KindValidation
	KindTransactionConflict
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindInvariantViolation:
		return "invariant_violation"
	case KindValidation:
		return "validation"
	case KindTransactionConflict:
		return "transaction_conflict"
	default:
		return "unknown"
	}
}

// DomainError is a typed service error. Instances are package-level
// sentinels compared with errors.Is.
type DomainError struct {
	Kind Kind
	msg  string
}

func (e *DomainError) Error() string {
	return e.msg
}

func newError(kind Kind, msg string) *DomainError {
	return &DomainError{Kind: kind, msg: msg}
}

// Centralized service layer errors.
// All errors returned by service methods are defined here so handlers can
// map them predictably.

// ===== Lookup Errors =====
var (
	ErrProfileNotFound = newError(KindNotFound, "profile not found")
	ErrGuildNotFound   = newError(KindNotFound, "guild not found")
	ErrQuestNotFound   = newError(KindNotFound, "quest not found")
)

// ===== Invariant Errors =====
var (
	ErrInsufficientSkillPoints = newError(KindInvariantViolation, "no skill points available")
	ErrAlreadyInGuild          = newError(KindInvariantViolation, "already a member of a guild")
	ErrLeaderCannotLeave       = newError(KindInvariantViolation, "guild leader cannot leave the guild")
	ErrNotGuildMember          = newError(KindInvariantViolation, "not a member of this guild")
	ErrGuildFull               = newError(KindInvariantViolation, "guild has reached maximum member limit")
)

// ===== Validation Errors =====
var (
	ErrInvalidAttribute  = newError(KindValidation, "unknown attribute")
	ErrInvalidQuest      = newError(KindValidation, "quest id is required")
	ErrUserIDRequired    = newError(KindValidation, "user id is required")
	ErrGuildNameRequired = newError(KindValidation, "guild name is required")
	ErrGuildNameTooLong  = newError(KindValidation, "guild name exceeds maximum length")
	ErrGuildDescTooLong  = newError(KindValidation, "guild description exceeds maximum length")
)

// ===== Concurrency Errors =====
var (
	ErrTransactionConflict = newError(KindTransactionConflict, "transaction conflict, retry later")
	ErrGuildIDTaken        = newError(KindTransactionConflict, "generated guild id already in use")
)

// KindOf returns the kind of the first DomainError in err's chain
func KindOf(err error) Kind {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindUnknown
}

// Retryable reports whether the caller may retry the whole operation
func Retryable(err error) bool {
	return KindOf(err) == KindTransactionConflict
}

// conflictError wraps an exhausted store conflict as ErrTransactionConflict,
// keeping the store error in the chain
func conflictError(err error) error {
	if errors.Is(err, database.ErrConflict) && KindOf(err) == KindUnknown {
		return fmt.Errorf("%w: %w", ErrTransactionConflict, err)
	}
	return err
}
