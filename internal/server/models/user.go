// Package models defines the server-side records persisted by the
// repositories and returned by the services.
package models

import "time"

// User is an account able to sign in. PasswordHash holds a salted digest
// and is never serialized.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}
