package models

import (
	"time"

	"github.com/google/uuid"
)

// Expense represents a single expense recorded under a budget.
// Expenses have no owner of their own: access is governed transitively
// by the ownership of the enclosing budget.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string `json:"id"`

	// Name describes the expense.
	Name string `json:"name"`

	// Amount is the expense amount. Always positive.
	Amount float64 `json:"amount"`

	// BudgetID identifies the budget this expense belongs to.
	BudgetID string `json:"budget_id"`

	// CreatedAt is the Unix timestamp when the expense was created.
	CreatedAt int64 `json:"created_at"`

	// UpdatedAt is the Unix timestamp of the last modification.
	UpdatedAt int64 `json:"updated_at"`
}

// NewExpense creates an expense under the given budget.
func NewExpense(name string, amount float64, budgetID string) *Expense {
	now := time.Now().Unix()
	return &Expense{
		ID:        uuid.New().String(),
		Name:      name,
		Amount:    amount,
		BudgetID:  budgetID,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
