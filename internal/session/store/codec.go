package store

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/ledgerline/sessionkit/internal/session/domain"
)

// Codec serializes an Identity for the persisted blob. Decode failures of any
// kind mean the blob is corrupt; callers recover by deleting it.
type Codec interface {
	Encode(identity domain.Identity) ([]byte, error)
	Decode(raw []byte) (domain.Identity, error)
}

// JSONCodec stores the Identity as plain JSON. This is the default; the blob
// round-trips byte-for-byte inspectable.
type JSONCodec struct{}

func (JSONCodec) Encode(identity domain.Identity) ([]byte, error) {
	return json.Marshal(identity)
}

func (JSONCodec) Decode(raw []byte) (domain.Identity, error) {
	var identity domain.Identity
	if err := json.Unmarshal(raw, &identity); err != nil {
		return domain.Identity{}, fmt.Errorf("decode identity blob: %w", err)
	}
	return identity, nil
}

// SignedCodec wraps the Identity in an HS256-signed token so a blob that was
// edited out-of-band fails verification and restores to anonymous instead of
// loading tampered profile data.
type SignedCodec struct {
	Key []byte
}

type identityClaims struct {
	jwt.RegisteredClaims
	Identity domain.Identity `json:"identity"`
}

func (c SignedCodec) Encode(identity domain.Identity) ([]byte, error) {
	if len(c.Key) == 0 {
		return nil, errors.New("store: signed codec requires a key")
	}

	claims := identityClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject: identity.Email,
			ID:      identity.SessionID,
		},
		Identity: identity,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.Key)
	if err != nil {
		return nil, fmt.Errorf("sign identity blob: %w", err)
	}
	return []byte(signed), nil
}

func (c SignedCodec) Decode(raw []byte) (domain.Identity, error) {
	if len(c.Key) == 0 {
		return domain.Identity{}, errors.New("store: signed codec requires a key")
	}

	var claims identityClaims
	_, err := jwt.ParseWithClaims(string(raw), &claims,
		func(*jwt.Token) (any, error) { return c.Key, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		return domain.Identity{}, fmt.Errorf("verify identity blob: %w", err)
	}
	return claims.Identity, nil
}
