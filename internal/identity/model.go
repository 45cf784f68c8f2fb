package identity

import "time"

// Identity is the authenticated user record shared with the session store.
type Identity struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	IsVerified bool   `json:"isVerified"`
}

// User is the stored credential record behind an Identity.
type User struct {
	Identity
	PasswordHash []byte
	CreatedAt    time.Time
}

// Registration carries sign-up input.
type Registration struct {
	Name     string
	Email    string
	Password string
}

// Credentials carries login input.
type Credentials struct {
	Email    string
	Password string
}
