package service

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/ledgerline/sessionkit/internal/session/domain"
	"github.com/ledgerline/sessionkit/pkg/slogx"
)

// ProfileService validates and applies partial updates to one section of the
// current Identity. It shares the SessionService mutex, so saves serialize
// with each other and with login/logout; a racing save for the same section
// cannot drop the other's edits.
type ProfileService struct {
	Session *SessionService

	// Latency stands in for the remote save round-trip. Zero in tests.
	Latency time.Duration

	// Now is the clock validation uses for card expiration. Defaults to
	// time.Now.
	Now func() time.Time
}

// Save validates fields against the section's rules and, when clean, merges
// them into the current Identity's profile. On success the Identity is
// replaced in the session (and re-persisted if the session is persisted) and
// the new Identity is returned. On failure nothing changes.
func (s *ProfileService) Save(ctx context.Context, section string, fields domain.Fields) (domain.Identity, error) {
	l := slogx.FromContext(ctx)

	sec, err := domain.ParseSection(section)
	if err != nil {
		return domain.Identity{}, err
	}

	s.Session.mu.Lock()
	defer s.Session.mu.Unlock()

	current := s.Session.identity
	if current == nil {
		return domain.Identity{}, ErrNotAuthenticated
	}

	if violations := validate(sec, fields, s.now()); len(violations) > 0 {
		l.Info("profile save rejected",
			slog.String("section", string(sec)),
			slog.Int("violations", len(violations)),
		)
		return domain.Identity{}, &ValidationError{Section: sec, Fields: violations}
	}

	s.wait(ctx)

	next := *current
	switch sec {
	case domain.SectionPersonal:
		applyPersonal(&next.Profile, fields)
	case domain.SectionAddress:
		applyAddress(&next.Profile.Address, fields)
	case domain.SectionPayment:
		applyPayment(&next.Profile.Payment, fields)
	}

	if err := s.Session.replace(ctx, next); err != nil {
		return domain.Identity{}, err
	}

	l.Info("profile saved",
		slog.String("section", string(sec)),
		slog.String("session_id", next.SessionID),
	)
	return next, nil
}

// applyPersonal shallow-merges the personal fields and recomputes the derived
// full name from the merged first/last names.
func applyPersonal(p *domain.Profile, f domain.Fields) {
	setString(f, "firstName", &p.FirstName)
	setString(f, "lastName", &p.LastName)
	setString(f, "email", &p.Email)
	setString(f, "phone", &p.Phone)
	p.FullName = strings.TrimSpace(p.FirstName + " " + p.LastName)
}

func applyAddress(a *domain.Address, f domain.Fields) {
	setString(f, "street1", &a.Street1)
	setString(f, "street2", &a.Street2)
	setString(f, "city", &a.City)
	setString(f, "state", &a.State)
	setString(f, "zipCode", &a.ZipCode)
	setString(f, "country", &a.Country)
	setString(f, "addressType", &a.AddressType)
}

// applyPayment shallow-merges the payment fields and rederives the display
// card type whenever the card number changes.
func applyPayment(p *domain.PaymentCard, f domain.Fields) {
	setString(f, "cardNumber", &p.CardNumber)
	setString(f, "cardholderName", &p.CardholderName)
	setString(f, "expirationDate", &p.ExpirationDate)
	setString(f, "cvv", &p.CVV)
	setBool(f, "billingAddressSame", &p.BillingAddressSame)
	setBool(f, "isDefault", &p.IsDefault)

	if _, ok := f["cardNumber"]; ok {
		p.CardType = deriveCardType(p.CardNumber)
	}
}

// setString applies a field only when the key was submitted; absent keys
// preserve the existing value (shallow merge).
func setString(f domain.Fields, key string, dst *string) {
	if v, ok := f[key]; ok {
		*dst = strings.TrimSpace(v)
	}
}

// setBool parses a submitted form value as a bool; unparsable values leave
// the existing setting alone.
func setBool(f domain.Fields, key string, dst *bool) {
	v, ok := f[key]
	if !ok {
		return
	}
	if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
		*dst = b
	}
}

func (s *ProfileService) now() time.Time {
	if s.Now == nil {
		return time.Now().UTC()
	}
	return s.Now()
}

// wait simulates the remote save round-trip; like login, a save runs to
// completion once started.
func (s *ProfileService) wait(context.Context) {
	if s.Latency > 0 {
		time.Sleep(s.Latency)
	}
}
