package service

import "errors"

// Business-rule failures detected by the services. The HTTP layer maps
// each to a status code; nothing here escapes past the handler boundary.
var (
	// ErrDuplicateEmail means an account with that email already exists.
	ErrDuplicateEmail = errors.New("a user with that email is already registered")
	// ErrUserNotFound means no account matches the given email or ID.
	ErrUserNotFound = errors.New("user not found")
	// ErrNotConfirmed means the account exists but was never confirmed.
	ErrNotConfirmed = errors.New("account has not been confirmed")
	// ErrBadCredentials means the password did not verify against the stored digest.
	ErrBadCredentials = errors.New("incorrect password")
	// ErrInvalidToken means no user holds the given action token, the token
	// was already consumed, its kind does not match the operation, or it expired.
	ErrInvalidToken = errors.New("invalid token")
	// ErrBudgetNotFound means the requested budget does not exist.
	ErrBudgetNotFound = errors.New("budget not found")
	// ErrExpenseNotFound means the requested expense does not exist, or it
	// does not belong to the budget named in the request path.
	ErrExpenseNotFound = errors.New("expense not found")
	// ErrNotBudgetOwner means the authenticated principal does not own the budget.
	ErrNotBudgetOwner = errors.New("action not allowed")
)
