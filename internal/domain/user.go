package domain

import "time"

// User is an account as persisted in users.json, keyed by Email.
type User struct {
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash"`
	CreatedAt    time.Time `json:"created_at"`
}

// Registration carries a signup form submission.
type Registration struct {
	Name            string
	Email           string
	Password        string
	PasswordConfirm string
}
