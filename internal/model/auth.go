package model

import (
	"time"
)

// Provider tags where a social identity claim came from.
type Provider string

const (
	ProviderGoogle   Provider = "google"
	ProviderFacebook Provider = "facebook"
)

// ProviderClaim is the normalized result of verifying a third-party
// credential server-side. Client-supplied profile fields are never trusted
// without producing one of these first.
type ProviderClaim struct {
	Email     string
	FirstName string
	LastName  string
	SubjectID string
	Provider  Provider
}

// TemporaryIdentity is the unpersisted claim bundle held between a
// successful social-provider verification and phone verification. It lives
// in the ephemeral store under an opaque linking token and is consumed
// exactly once by the completion step; it is never written to the users
// table directly.
type TemporaryIdentity struct {
	Email     string    `json:"email"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Provider  Provider  `json:"provider"`
	SubjectID string    `json:"subjectId"`
	// PlaceholderPassword backs the password_hash column for social-only
	// accounts; it is random and never shown to the user.
	PlaceholderPassword string    `json:"placeholderPassword"`
	CreatedAt           time.Time `json:"createdAt"`
}

// PublicUser is the JSON shape of a user returned by auth endpoints. The
// password hash and provider subject ids stay server-side.
type PublicUser struct {
	ID          int64      `json:"id"`
	FirstName   string     `json:"firstName"`
	LastName    string     `json:"lastName"`
	Email       string     `json:"email"`
	Phone       string     `json:"phoneNumber"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

func NewPublicUser(u *User) PublicUser {
	return PublicUser{
		ID:          u.ID,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Email:       u.Email,
		Phone:       u.Phone,
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
	}
}

// PublicTempUser is handed to the client after a social verification so the
// UI can show who is signing up. LinkToken is the only field the server
// reads back on completion.
type PublicTempUser struct {
	LinkToken string `json:"linkToken"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Provider  string `json:"provider"`
}

type PublicAdmin struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}
