package models

import (
	"time"

	"github.com/google/uuid"
)

// Budget represents a spending budget owned by a single user.
type Budget struct {
	// ID is the unique identifier for the budget (UUID format).
	ID string `json:"id"`

	// Name is the display name of the budget.
	Name string `json:"name"`

	// Amount is the budgeted amount. Always positive.
	Amount float64 `json:"amount"`

	// UserID identifies the owning user. It is assigned from the
	// authenticated principal at creation and never changes afterwards.
	UserID string `json:"user_id"`

	// Expenses are the expenses recorded under this budget. Populated
	// only when the budget is loaded with its expenses.
	Expenses []Expense `json:"expenses,omitempty"`

	// CreatedAt is the Unix timestamp when the budget was created.
	CreatedAt int64 `json:"created_at"`

	// UpdatedAt is the Unix timestamp of the last modification.
	UpdatedAt int64 `json:"updated_at"`
}

// NewBudget creates a budget owned by the given user.
func NewBudget(name string, amount float64, userID string) *Budget {
	now := time.Now().Unix()
	return &Budget{
		ID:        uuid.New().String(),
		Name:      name,
		Amount:    amount,
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
