package domain

import "errors"

// Section names one of the independently validated and saved profile
// sub-areas.
type Section string

const (
	SectionPersonal Section = "personal"
	SectionAddress  Section = "address"
	SectionPayment  Section = "payment"
)

// ErrUnknownSection reports a section name outside the known set.
var ErrUnknownSection = errors.New("unknown_section")

// ParseSection validates a raw section name coming from the UI layer.
func ParseSection(s string) (Section, error) {
	switch Section(s) {
	case SectionPersonal, SectionAddress, SectionPayment:
		return Section(s), nil
	default:
		return "", ErrUnknownSection
	}
}

// Fields carries the raw form values for one section save. Values arrive as
// strings the way form inputs do; boolean fields are parsed on merge. A key
// that is absent leaves the existing value of that field untouched.
type Fields map[string]string
