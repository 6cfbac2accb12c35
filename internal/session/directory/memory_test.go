package directory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ledgerline/sessionkit/internal/session/domain"
	"github.com/ledgerline/sessionkit/pkg/cryptox"
)

func TestMemory_SeedAndLookup(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	d := NewMemory()
	require.NoError(t, d.Seed("  John@Example.COM  ", "Password123!", domain.StatusActive,
		domain.Profile{FirstName: "John", LastName: "Smith"}))

	rec, err := d.Lookup(ctx, "john@example.com")
	require.NoError(t, err)
	require.Equal(t, "john@example.com", rec.Email)
	require.Equal(t, domain.StatusActive, rec.Status)
	require.Equal(t, "John", rec.Profile.FirstName)
	require.NotEmpty(t, rec.ID)

	// Stored credential verifies against the seeded password.
	require.NoError(t, cryptox.VerifyPassword("Password123!", rec.Credential))
	require.Error(t, cryptox.VerifyPassword("wrong", rec.Credential))
}

func TestMemory_LookupUnknown(t *testing.T) {
	t.Parallel()

	_, err := NewMemory().Lookup(context.Background(), "ghost@example.com")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestMemory_FailureCounters(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	d := NewMemory()
	require.NoError(t, d.Seed("john@example.com", "Password123!", domain.StatusActive, domain.Profile{}))

	require.Equal(t, 1, d.RecordFailure("john@example.com"))
	require.Equal(t, 2, d.RecordFailure("john@example.com"))

	rec, err := d.Lookup(ctx, "john@example.com")
	require.NoError(t, err)
	require.Equal(t, 2, rec.FailedAttempts)

	d.ResetFailures("john@example.com")
	rec, err = d.Lookup(ctx, "john@example.com")
	require.NoError(t, err)
	require.Zero(t, rec.FailedAttempts)

	// Unknown accounts are a no-op.
	require.Zero(t, d.RecordFailure("ghost@example.com"))
	d.ResetFailures("ghost@example.com")
}

func TestSeedDefaults(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	d := NewMemory()
	require.NoError(t, SeedDefaults(d))

	john, err := d.Lookup(ctx, "john@example.com")
	require.NoError(t, err)
	require.Equal(t, domain.StatusActive, john.Status)
	require.Equal(t, "John Smith", john.Profile.FullName)

	inactive, err := d.Lookup(ctx, "inactive@example.com")
	require.NoError(t, err)
	require.Equal(t, domain.StatusInactive, inactive.Status)

	locked, err := d.Lookup(ctx, "locked@example.com")
	require.NoError(t, err)
	require.Equal(t, domain.StatusLocked, locked.Status)
}
