package models

import (
	"time"

	"github.com/google/uuid"
)

// ActionKind tags the pending verification action on a user account.
// A user has at most one pending action at a time: requesting a password
// reset replaces a pending confirmation and vice versa.
type ActionKind string

const (
	// ActionNone means no verification action is pending.
	ActionNone ActionKind = ""
	// ActionConfirm means the account is waiting for email confirmation.
	ActionConfirm ActionKind = "confirm"
	// ActionReset means a password reset was requested.
	ActionReset ActionKind = "reset"
)

// User represents a registered user account.
type User struct {
	// ID is the unique identifier for the user (UUID format).
	ID string `json:"id"`

	// Name is the display name of the user.
	Name string `json:"name"`

	// Email is the user's email address (unique, compared case-insensitively).
	Email string `json:"email"`

	// PasswordHash is the bcrypt digest of the user's password.
	PasswordHash string `json:"-"`

	// Confirmed reports whether the account's email has been confirmed.
	// Unconfirmed accounts cannot log in.
	Confirmed bool `json:"confirmed"`

	// ActionKind tags the pending verification action, if any.
	ActionKind ActionKind `json:"-"`

	// ActionToken is the 6-digit single-use code for the pending action.
	// Empty when ActionKind is ActionNone.
	ActionToken string `json:"-"`

	// ActionExpiresAt is the Unix timestamp after which the pending action
	// token is no longer accepted. Zero when no action is pending.
	ActionExpiresAt int64 `json:"-"`

	// CreatedAt is the Unix timestamp when the account was created.
	CreatedAt int64 `json:"created_at"`

	// UpdatedAt is the Unix timestamp of the last modification.
	UpdatedAt int64 `json:"updated_at"`
}

// NewUser creates an unconfirmed user with a fresh UUID and timestamps.
func NewUser(name, email, passwordHash string) *User {
	now := time.Now().Unix()
	return &User{
		ID:           uuid.New().String(),
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// SetAction records a pending verification action on the user.
func (u *User) SetAction(kind ActionKind, token string, expiresAt time.Time) {
	u.ActionKind = kind
	u.ActionToken = token
	u.ActionExpiresAt = expiresAt.Unix()
}

// ClearAction removes any pending verification action.
func (u *User) ClearAction() {
	u.ActionKind = ActionNone
	u.ActionToken = ""
	u.ActionExpiresAt = 0
}

// ActionExpired reports whether the pending action token has passed its TTL.
func (u *User) ActionExpired(now time.Time) bool {
	return u.ActionExpiresAt != 0 && now.Unix() > u.ActionExpiresAt
}
