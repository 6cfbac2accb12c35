package domain

// CredentialRecord is what the credential directory stores per account. The
// session core only ever reads it; failed-attempt bookkeeping belongs to the
// directory implementation.
type CredentialRecord struct {
	ID             string
	Email          string // normalized (trimmed, lowercased)
	Credential     string // PHC-format argon2id string
	Status         Status
	Profile        Profile // seed copied onto the Identity at login
	FailedAttempts int
}
