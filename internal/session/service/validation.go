package service

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/ledgerline/sessionkit/internal/session/domain"
)

var zipPattern = regexp.MustCompile(`^\d{5}(-\d{4})?$`)

// rule validates one raw field value. Checks run against the trimmed value;
// every rule for a section is evaluated so the caller gets all violations at
// once, not just the first.
type rule struct {
	field   string
	message string
	valid   func(value string, now time.Time) bool
}

func required(value string, _ time.Time) bool {
	return strings.TrimSpace(value) != ""
}

func looseEmail(value string, _ time.Time) bool {
	// Deliberately loose: presence plus an @ is all the account screens
	// ever enforced.
	v := strings.TrimSpace(value)
	return v != "" && strings.Contains(v, "@")
}

func zipCode(value string, _ time.Time) bool {
	return zipPattern.MatchString(strings.TrimSpace(value))
}

func sixteenDigitCard(value string, _ time.Time) bool {
	digits := stripSpaces(value)
	if len(digits) != 16 {
		return false
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// notExpired accepts month/2-or-4-digit-year and rejects dates strictly
// before the current month. The current month itself is still valid.
func notExpired(value string, now time.Time) bool {
	month, year, ok := parseExpiration(value)
	if !ok {
		return false
	}
	if year != now.Year() {
		return year > now.Year()
	}
	return month >= int(now.Month())
}

func parseExpiration(value string) (month, year int, ok bool) {
	parts := strings.Split(strings.TrimSpace(value), "/")
	if len(parts) != 2 {
		return 0, 0, false
	}

	month, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || month < 1 || month > 12 {
		return 0, 0, false
	}

	rawYear := strings.TrimSpace(parts[1])
	year, err = strconv.Atoi(rawYear)
	if err != nil {
		return 0, 0, false
	}
	switch len(rawYear) {
	case 2:
		year += 2000
	case 4:
		// as-is
	default:
		return 0, 0, false
	}
	return month, year, true
}

func stripSpaces(value string) string {
	return strings.Join(strings.Fields(value), "")
}

var sectionRules = map[domain.Section][]rule{
	domain.SectionPersonal: {
		{field: "firstName", message: "First name is required", valid: required},
		{field: "lastName", message: "Last name is required", valid: required},
		{field: "email", message: "Please enter a valid email address", valid: looseEmail},
	},
	domain.SectionAddress: {
		{field: "street1", message: "Street address is required", valid: required},
		{field: "city", message: "City is required", valid: required},
		{field: "state", message: "State is required", valid: required},
		{field: "zipCode", message: "ZIP code must be 5 digits or ZIP+4", valid: zipCode},
	},
	domain.SectionPayment: {
		{field: "cardNumber", message: "Card number must be 16 digits", valid: sixteenDigitCard},
		{field: "cardholderName", message: "Cardholder name is required", valid: required},
		{field: "expirationDate", message: "Expiration date is invalid or in the past", valid: notExpired},
		// CVV is presence-only upstream; length/format is not enforced here.
		{field: "cvv", message: "CVV is required", valid: required},
	},
}

// validate applies the section's rule table to the raw fields and returns the
// complete field→message violation set, empty when the save may proceed.
func validate(section domain.Section, fields domain.Fields, now time.Time) map[string]string {
	violations := make(map[string]string)
	for _, r := range sectionRules[section] {
		if !r.valid(fields[r.field], now) {
			violations[r.field] = r.message
		}
	}
	return violations
}

// deriveCardType maps leading card digits to a display brand. Unknown
// prefixes fall back to a generic label.
func deriveCardType(cardNumber string) string {
	digits := stripSpaces(cardNumber)
	switch {
	case strings.HasPrefix(digits, "34"), strings.HasPrefix(digits, "37"):
		return "amex"
	case strings.HasPrefix(digits, "4"):
		return "visa"
	case strings.HasPrefix(digits, "5"):
		return "mastercard"
	case strings.HasPrefix(digits, "6"):
		return "discover"
	default:
		return "card"
	}
}
