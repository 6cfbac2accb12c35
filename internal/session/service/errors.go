package service

import (
	"errors"
	"fmt"

	"github.com/ledgerline/sessionkit/internal/session/domain"
)

var (
	// ErrInvalidCredentials covers both unknown email and wrong password so
	// callers cannot enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid_credentials")

	ErrAccountInactive = errors.New("account_inactive")
	ErrAccountLocked   = errors.New("account_locked")

	// ErrNotAuthenticated is an integration error: a profile save with no
	// session. Not retryable.
	ErrNotAuthenticated = errors.New("not_authenticated")
)

// ValidationError carries the full set of per-field violations for one
// section save attempt. It is produced fresh on every attempt, never merged
// with a previous one.
type ValidationError struct {
	Section domain.Section
	Fields  map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation_failed: %s (%d fields)", e.Section, len(e.Fields))
}

// UserMessage maps a service error to the message the UI shows. Credential
// failures deliberately share one generic message.
func UserMessage(err error) string {
	switch {
	case errors.Is(err, ErrInvalidCredentials):
		return "Invalid email or password"
	case errors.Is(err, ErrAccountInactive):
		return "This account is inactive. Please contact support."
	case errors.Is(err, ErrAccountLocked):
		return "This account is locked. Please contact support."
	case errors.Is(err, ErrNotAuthenticated):
		return "You must be signed in to do that."
	default:
		var vErr *ValidationError
		if errors.As(err, &vErr) {
			return "Please correct the highlighted fields."
		}
		return "Something went wrong. Please try again."
	}
}
