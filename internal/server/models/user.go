package models

import "time"

// User is a vault account. PasswordHash holds the login verifier, never the
// master password or the key derived from it.
type User struct {
	ID           int64
	UserName     string
	Email        string
	PasswordHash []byte
	Salt         []byte
	CreatedAt    time.Time
}
