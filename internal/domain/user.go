package domain

import "time"

// User represents an account known to the server. The password hash never
// leaves the server; client code only ever sees sanitized users.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}
