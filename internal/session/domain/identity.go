package domain

import "time"

// Status reflects whether an account may sign in.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
	StatusLocked   Status = "locked"
)

// Identity is the signed-in user's session-held profile data. It only exists
// while a session is authenticated and is fully replaced on each successful
// profile save.
type Identity struct {
	SessionID string    `json:"sessionId"`
	Email     string    `json:"email"`
	IssuedAt  time.Time `json:"issuedAt"`
	Profile   Profile   `json:"profile"`
}

// Profile holds the editable profile fields, grouped the way the account
// screens edit them: top-level personal/contact fields plus the address and
// payment sub-objects.
type Profile struct {
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	FullName  string `json:"fullName,omitempty"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`

	Address Address     `json:"address"`
	Payment PaymentCard `json:"payment"`
}

type Address struct {
	Street1     string `json:"street1,omitempty"`
	Street2     string `json:"street2,omitempty"`
	City        string `json:"city,omitempty"`
	State       string `json:"state,omitempty"`
	ZipCode     string `json:"zipCode,omitempty"`
	Country     string `json:"country,omitempty"`
	AddressType string `json:"addressType,omitempty"`
}

type PaymentCard struct {
	CardNumber         string `json:"cardNumber,omitempty"`
	CardholderName     string `json:"cardholderName,omitempty"`
	ExpirationDate     string `json:"expirationDate,omitempty"`
	CVV                string `json:"cvv,omitempty"`
	CardType           string `json:"cardType,omitempty"`
	BillingAddressSame bool   `json:"billingAddressSame,omitempty"`
	IsDefault          bool   `json:"isDefault,omitempty"`
}
