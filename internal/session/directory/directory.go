// Package directory provides the credential directory the session core reads
// during login: a lookup from normalized email to a stored credential record.
// The core never writes through this boundary; failed-attempt bookkeeping and
// lookup throttling live here, in the directory's domain.
package directory

import (
	"context"
	"errors"

	"github.com/ledgerline/sessionkit/internal/session/domain"
)

var (
	// ErrNotFound reports that no record exists for the looked-up email.
	ErrNotFound = errors.New("directory: not found")

	// ErrThrottled reports that lookups for this email are temporarily
	// rate limited. Only returned by the RateLimited decorator.
	ErrThrottled = errors.New("directory: throttled")
)

// Directory is the read surface the session core depends on. Lookup expects
// an already-normalized (trimmed, lowercased) email.
type Directory interface {
	Lookup(ctx context.Context, email string) (domain.CredentialRecord, error)
}
