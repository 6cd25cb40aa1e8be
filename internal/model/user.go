package model

import "time"

// Credential is a login account. PasswordHash is never rendered or logged.
type Credential struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Phone        string    `json:"phone"`
	CreatedAt    time.Time `json:"created_at"`
}

// RegisterInput holds the credential registration form.
type RegisterInput struct {
	Username string
	Email    string
	Password string
	Phone    string
}

// LoginInput holds the login form.
type LoginInput struct {
	Email    string
	Password string
}
