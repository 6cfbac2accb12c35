package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ledgerline/sessionkit/internal/session/directory"
	"github.com/ledgerline/sessionkit/internal/session/domain"
	"github.com/ledgerline/sessionkit/internal/session/store"
	"github.com/ledgerline/sessionkit/internal/session/store/drivers/memory"
)

var testNow = time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)

func newTestDirectory(t *testing.T) *directory.Memory {
	t.Helper()

	dir := directory.NewMemory()
	require.NoError(t, directory.SeedDefaults(dir))
	return dir
}

func newTestSession(t *testing.T, dir directory.Directory, blobs store.Blobs) *SessionService {
	t.Helper()

	return &SessionService{
		Directory: dir,
		Blobs:     blobs,
		Now:       func() time.Time { return testNow },
	}
}

func TestLogin_Succeeds(t *testing.T) {
	ctx := context.Background()
	svc := newTestSession(t, newTestDirectory(t), memory.NewStore())

	identity, err := svc.Login(ctx, "  John@Example.COM  ", "Password123!", false)
	require.NoError(t, err)
	require.Equal(t, "john@example.com", identity.Email)
	require.Equal(t, "John Smith", identity.Profile.FullName)
	require.NotEmpty(t, identity.SessionID)
	require.Equal(t, testNow, identity.IssuedAt)

	current := svc.Current()
	require.NotNil(t, current)
	require.Equal(t, identity, *current)
}

func TestLogin_UnknownAndWrongPasswordIndistinguishable(t *testing.T) {
	ctx := context.Background()
	svc := newTestSession(t, newTestDirectory(t), memory.NewStore())

	_, unknownErr := svc.Login(ctx, "ghost@example.com", "Password123!", false)
	require.ErrorIs(t, unknownErr, ErrInvalidCredentials)

	_, wrongErr := svc.Login(ctx, "john@example.com", "wrong-password", false)
	require.ErrorIs(t, wrongErr, ErrInvalidCredentials)

	require.Equal(t, unknownErr, wrongErr)
	require.Equal(t, UserMessage(unknownErr), UserMessage(wrongErr))

	require.Nil(t, svc.Current(), "failed login must leave no session behind")
}

func TestLogin_StatusCheckedRegardlessOfPassword(t *testing.T) {
	ctx := context.Background()
	svc := newTestSession(t, newTestDirectory(t), memory.NewStore())

	for _, password := range []string{"Password123!", "totally-wrong"} {
		_, err := svc.Login(ctx, "inactive@example.com", password, false)
		require.ErrorIs(t, err, ErrAccountInactive, "password %q", password)

		_, err = svc.Login(ctx, "locked@example.com", password, false)
		require.ErrorIs(t, err, ErrAccountLocked, "password %q", password)
	}

	require.Nil(t, svc.Current())
}

func TestLogin_RememberPersistsBlob(t *testing.T) {
	ctx := context.Background()
	blobs := memory.NewStore()
	svc := newTestSession(t, newTestDirectory(t), blobs)

	identity, err := svc.Login(ctx, "john@example.com", "Password123!", true)
	require.NoError(t, err)

	// Simulated restart: a fresh service sharing the same durable store.
	restarted := newTestSession(t, newTestDirectory(t), blobs)
	restored := restarted.Restore(ctx)
	require.NotNil(t, restored)
	require.Equal(t, identity, *restored)

	current := restarted.Current()
	require.NotNil(t, current)
	require.Equal(t, identity, *current)
}

func TestLogin_NoRememberLeavesNoBlob(t *testing.T) {
	ctx := context.Background()
	blobs := memory.NewStore()
	svc := newTestSession(t, newTestDirectory(t), blobs)

	_, err := svc.Login(ctx, "john@example.com", "Password123!", false)
	require.NoError(t, err)

	restarted := newTestSession(t, newTestDirectory(t), blobs)
	require.Nil(t, restarted.Restore(ctx))
}

func TestRestore_CorruptBlobDeletedSilently(t *testing.T) {
	ctx := context.Background()
	blobs := memory.NewStore()
	require.NoError(t, blobs.Set(ctx, DefaultBlobKey, []byte("{corrupt")))

	svc := newTestSession(t, newTestDirectory(t), blobs)
	require.Nil(t, svc.Restore(ctx))

	_, err := blobs.Get(ctx, DefaultBlobKey)
	require.ErrorIs(t, err, store.ErrNotFound, "corrupt blob should have been deleted")
}

func TestRestore_SignedCodecRejectsTamperedBlob(t *testing.T) {
	ctx := context.Background()
	blobs := memory.NewStore()
	dir := newTestDirectory(t)

	signer := newTestSession(t, dir, blobs)
	signer.Codec = store.SignedCodec{Key: []byte("test-key")}

	_, err := signer.Login(ctx, "john@example.com", "Password123!", true)
	require.NoError(t, err)

	raw, err := blobs.Get(ctx, DefaultBlobKey)
	require.NoError(t, err)
	raw[len(raw)/2] ^= 0x01
	require.NoError(t, blobs.Set(ctx, DefaultBlobKey, raw))

	restarted := newTestSession(t, dir, blobs)
	restarted.Codec = store.SignedCodec{Key: []byte("test-key")}
	require.Nil(t, restarted.Restore(ctx))

	_, err = blobs.Get(ctx, DefaultBlobKey)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestLogout_ClearsSessionAndBlob(t *testing.T) {
	ctx := context.Background()
	blobs := memory.NewStore()
	svc := newTestSession(t, newTestDirectory(t), blobs)

	_, err := svc.Login(ctx, "john@example.com", "Password123!", true)
	require.NoError(t, err)

	svc.Logout(ctx)
	require.Nil(t, svc.Current())
	require.Nil(t, svc.Restore(ctx))

	// Idempotent: a second logout is a no-op.
	svc.Logout(ctx)
	require.Nil(t, svc.Current())
}

func TestCurrent_ReturnsCopy(t *testing.T) {
	ctx := context.Background()
	svc := newTestSession(t, newTestDirectory(t), memory.NewStore())

	_, err := svc.Login(ctx, "john@example.com", "Password123!", false)
	require.NoError(t, err)

	first := svc.Current()
	first.Profile.FirstName = "Mutated"

	second := svc.Current()
	require.Equal(t, "John", second.Profile.FirstName)
}

func TestUserMessage(t *testing.T) {
	t.Parallel()

	require.Equal(t, "Invalid email or password", UserMessage(ErrInvalidCredentials))
	require.NotEqual(t, UserMessage(ErrAccountInactive), UserMessage(ErrAccountLocked))
	require.NotEmpty(t, UserMessage(ErrNotAuthenticated))
	require.NotEmpty(t, UserMessage(&ValidationError{Section: domain.SectionPersonal}))
}
