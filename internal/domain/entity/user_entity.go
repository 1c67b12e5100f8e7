package entity

import (
	"time"
)

// User is the aggregate root for the credential store.
// Passwords are stored as bcrypt hashes in Password field.
// Users are immutable once registered.
type User struct {
	ID        string
	Name      string
	Email     string
	Password  string
	CreatedAt time.Time
}
