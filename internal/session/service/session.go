// Package service implements the session core: who is signed in, and how the
// signed-in profile is validated and mutated. State changes are serialized on
// one mutex so a second login or save queues behind the first instead of
// racing it.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/ledgerline/sessionkit/internal/session/directory"
	"github.com/ledgerline/sessionkit/internal/session/domain"
	"github.com/ledgerline/sessionkit/internal/session/store"
	"github.com/ledgerline/sessionkit/pkg/cryptox"
	"github.com/ledgerline/sessionkit/pkg/idx"
	"github.com/ledgerline/sessionkit/pkg/slogx"
)

// DefaultBlobKey is the key the serialized Identity lives under when the
// embedding shell doesn't pick its own.
const DefaultBlobKey = "sessionkit:identity"

// SessionService is the single source of truth for the authenticated
// identity. Zero value is not usable; construct with the collaborators set.
type SessionService struct {
	Directory directory.Directory
	Blobs     store.Blobs
	Codec     store.Codec

	// BlobKey is the storage key for the persisted Identity. Defaults to
	// DefaultBlobKey when empty.
	BlobKey string

	// Latency stands in for the remote round-trip the original system
	// simulated. Zero in tests.
	Latency time.Duration

	// Now is the clock used for session timestamps. Defaults to time.Now.
	Now func() time.Time

	mu         sync.Mutex
	identity   *domain.Identity
	remembered bool
}

// NormalizeEmail applies the lookup normalization: trim then lowercase.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Login authenticates against the credential directory. On success the
// returned Identity becomes current; with remember set it is also written to
// the persisted blob. Failures leave no state behind.
func (s *SessionService) Login(ctx context.Context, email, password string, remember bool) (domain.Identity, error) {
	l := slogx.FromContext(ctx)
	normalized := NormalizeEmail(email)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.wait(ctx)

	record, err := s.Directory.Lookup(ctx, normalized)
	if err != nil {
		if errors.Is(err, directory.ErrNotFound) {
			l.Info("login rejected", slog.String("email", normalized), slog.String("reason", "unknown_account"))
			return domain.Identity{}, ErrInvalidCredentials
		}
		return domain.Identity{}, fmt.Errorf("credential lookup: %w", err)
	}

	switch record.Status {
	case domain.StatusInactive:
		l.Info("login rejected", slog.String("email", normalized), slog.String("reason", "inactive"))
		return domain.Identity{}, ErrAccountInactive
	case domain.StatusLocked:
		l.Info("login rejected", slog.String("email", normalized), slog.String("reason", "locked"))
		return domain.Identity{}, ErrAccountLocked
	}

	if err := cryptox.VerifyPassword(password, record.Credential); err != nil {
		// Same error as unknown account so the two are indistinguishable.
		l.Info("login rejected", slog.String("email", normalized), slog.String("reason", "bad_password"))
		return domain.Identity{}, ErrInvalidCredentials
	}

	identity := domain.Identity{
		SessionID: idx.New().String(),
		Email:     normalized,
		IssuedAt:  s.now(),
		Profile:   record.Profile,
	}

	if remember {
		if err := s.persist(ctx, identity); err != nil {
			return domain.Identity{}, err
		}
	}

	s.identity = &identity
	s.remembered = remember

	l.Info("login succeeded",
		slog.String("email", normalized),
		slog.String("session_id", identity.SessionID),
		slog.Bool("remembered", remember),
	)
	return identity, nil
}

// Restore loads a previously persisted Identity, typically once at startup.
// A missing blob means anonymous; a corrupt blob is deleted and likewise
// restores to anonymous. Restore never fails.
func (s *SessionService) Restore(ctx context.Context) *domain.Identity {
	l := slogx.FromContext(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := s.Blobs.Get(ctx, s.blobKey())
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			l.Warn("session restore read failed", slog.Any("err", err))
		}
		return nil
	}

	identity, err := s.codec().Decode(raw)
	if err != nil {
		// Corrupt blob: recover locally, never surface to the user.
		l.Warn("discarding corrupt session blob", slog.Any("err", err))
		if err := s.Blobs.Delete(ctx, s.blobKey()); err != nil {
			l.Warn("corrupt session blob delete failed", slog.Any("err", err))
		}
		return nil
	}

	s.identity = &identity
	s.remembered = true

	out := identity
	return &out
}

// Logout clears the session and deletes the persisted blob. Safe to call when
// already anonymous.
func (s *SessionService) Logout(ctx context.Context) {
	l := slogx.FromContext(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.identity = nil
	s.remembered = false

	if err := s.Blobs.Delete(ctx, s.blobKey()); err != nil {
		l.Warn("session blob delete failed", slog.Any("err", err))
	}
}

// Current returns a copy of the authenticated Identity, or nil when
// anonymous. Pure in-memory read.
func (s *SessionService) Current() *domain.Identity {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.identity == nil {
		return nil
	}
	out := *s.identity
	return &out
}

// replace swaps in a new Identity, persisting it only when the session is
// already persisted. Caller must hold s.mu.
func (s *SessionService) replace(ctx context.Context, identity domain.Identity) error {
	if s.remembered {
		if err := s.persist(ctx, identity); err != nil {
			return err
		}
	}
	s.identity = &identity
	return nil
}

// persist writes the serialized Identity under the blob key. Caller must hold
// s.mu.
func (s *SessionService) persist(ctx context.Context, identity domain.Identity) error {
	raw, err := s.codec().Encode(identity)
	if err != nil {
		return fmt.Errorf("encode identity: %w", err)
	}
	if err := s.Blobs.Set(ctx, s.blobKey(), raw); err != nil {
		return fmt.Errorf("persist identity: %w", err)
	}
	return nil
}

func (s *SessionService) blobKey() string {
	if s.BlobKey == "" {
		return DefaultBlobKey
	}
	return s.BlobKey
}

func (s *SessionService) codec() store.Codec {
	if s.Codec == nil {
		return store.JSONCodec{}
	}
	return s.Codec
}

func (s *SessionService) now() time.Time {
	if s.Now == nil {
		return time.Now().UTC()
	}
	return s.Now()
}

// wait simulates the remote round-trip. Login and save run to completion once
// started; the delay is not a cancellation point.
func (s *SessionService) wait(context.Context) {
	if s.Latency > 0 {
		time.Sleep(s.Latency)
	}
}
