package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ledgerline/sessionkit/internal/session/store"
)

func TestStore_RoundTrip(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := NewStore()

	_, err := s.Get(ctx, "identity")
	require.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, s.Set(ctx, "identity", []byte(`{"email":"john@example.com"}`)))

	got, err := s.Get(ctx, "identity")
	require.NoError(t, err)
	require.JSONEq(t, `{"email":"john@example.com"}`, string(got))

	// Overwrite replaces, not appends.
	require.NoError(t, s.Set(ctx, "identity", []byte(`{}`)))
	got, err = s.Get(ctx, "identity")
	require.NoError(t, err)
	require.Equal(t, `{}`, string(got))

	require.NoError(t, s.Delete(ctx, "identity"))
	_, err = s.Get(ctx, "identity")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestStore_DeleteMissingKeyIsNoop(t *testing.T) {
	t.Parallel()

	require.NoError(t, NewStore().Delete(context.Background(), "absent"))
}

func TestStore_GetReturnsCopy(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := NewStore()

	require.NoError(t, s.Set(ctx, "k", []byte("abc")))

	got, err := s.Get(ctx, "k")
	require.NoError(t, err)
	got[0] = 'z'

	again, err := s.Get(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, "abc", string(again))
}
