package models

import (
	"errors"
	"time"
)

var (
	ErrDuplicateUsername  = errors.New("username already exists")
	ErrDuplicateEmail     = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrAccountNotFound    = errors.New("account not found")
	ErrSessionNotFound    = errors.New("session not found")
)

// Account is a registered identity. PasswordHash never leaves the service layer.
type Account struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	JoinedAt     time.Time
}

// Identity is the authenticated caller as seen by handlers.
type Identity struct {
	AccountID int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	JoinedAt  time.Time `json:"joined_at"`
}

func (a Account) Identity() Identity {
	return Identity{
		AccountID: a.ID,
		Username:  a.Username,
		Email:     a.Email,
		JoinedAt:  a.JoinedAt,
	}
}
