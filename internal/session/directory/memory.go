package directory

import (
	"context"
	"strings"
	"sync"

	"github.com/ledgerline/sessionkit/internal/session/domain"
	"github.com/ledgerline/sessionkit/pkg/cryptox"
	"github.com/ledgerline/sessionkit/pkg/idx"
)

// Memory is an in-process directory seeded at construction time. It stands in
// for the hardcoded account table the original system shipped with.
type Memory struct {
	mu      sync.RWMutex
	records map[string]domain.CredentialRecord
}

func NewMemory() *Memory {
	return &Memory{records: make(map[string]domain.CredentialRecord)}
}

// Seed adds an account, hashing the plaintext password into the stored
// credential. The email is normalized before use as the lookup key.
func (d *Memory) Seed(email, password string, status domain.Status, profile domain.Profile) error {
	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return err
	}

	normalized := strings.ToLower(strings.TrimSpace(email))

	d.mu.Lock()
	defer d.mu.Unlock()
	d.records[normalized] = domain.CredentialRecord{
		ID:         idx.New().String(),
		Email:      normalized,
		Credential: hash,
		Status:     status,
		Profile:    profile,
	}
	return nil
}

func (d *Memory) Lookup(_ context.Context, email string) (domain.CredentialRecord, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	rec, ok := d.records[email]
	if !ok {
		return domain.CredentialRecord{}, ErrNotFound
	}
	return rec, nil
}

// RecordFailure bumps the failed-attempt counter for an account. The session
// core never calls this; it exists for the directory's own operators.
func (d *Memory) RecordFailure(email string) int {
	d.mu.Lock()
	defer d.mu.Unlock()

	rec, ok := d.records[email]
	if !ok {
		return 0
	}
	rec.FailedAttempts++
	d.records[email] = rec
	return rec.FailedAttempts
}

// ResetFailures clears the failed-attempt counter for an account.
func (d *Memory) ResetFailures(email string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	rec, ok := d.records[email]
	if !ok {
		return
	}
	rec.FailedAttempts = 0
	d.records[email] = rec
}

// SeedDefaults loads the demo account set the original system hardcoded:
// one active account plus an inactive and a locked one for exercising the
// failure paths.
func SeedDefaults(d *Memory) error {
	type account struct {
		email    string
		password string
		status   domain.Status
		profile  domain.Profile
	}

	accounts := []account{
		{
			email:    "john@example.com",
			password: "Password123!",
			status:   domain.StatusActive,
			profile: domain.Profile{
				FirstName: "John",
				LastName:  "Smith",
				FullName:  "John Smith",
				Email:     "john@example.com",
				Phone:     "555-0100",
				Address: domain.Address{
					Street1:     "123 Main St",
					City:        "New York",
					State:       "NY",
					ZipCode:     "10001",
					Country:     "USA",
					AddressType: "home",
				},
			},
		},
		{
			email:    "inactive@example.com",
			password: "Password123!",
			status:   domain.StatusInactive,
			profile:  domain.Profile{FirstName: "Ida", LastName: "Nact", FullName: "Ida Nact"},
		},
		{
			email:    "locked@example.com",
			password: "Password123!",
			status:   domain.StatusLocked,
			profile:  domain.Profile{FirstName: "Lou", LastName: "Kout", FullName: "Lou Kout"},
		},
	}

	for _, a := range accounts {
		if err := d.Seed(a.email, a.password, a.status, a.profile); err != nil {
			return err
		}
	}
	return nil
}
