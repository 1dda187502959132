package identity

import "time"

// User is a registered account holder. Users are created at registration and
// never updated or deleted by this application.
type User struct {
	ID           string
	Email        string
	Username     string
	PasswordHash []byte
	CreatedAt    time.Time
}

// Credentials carries the registration/login form fields.
type Credentials struct {
	Email    string
	Username string
	Password string
}
