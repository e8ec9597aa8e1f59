// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"cashtrackr/internal/models"
)

// ErrNotFound is returned when a requested record does not exist.
// Callers match it with errors.Is and translate it to a domain failure.
var ErrNotFound = errors.New("record not found")

// Store defines the interface for CashTrackr's persistence operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
type Store interface {
	// CreateUser persists a new user.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByEmail retrieves a user by email, compared case-insensitively.
	// Returns ErrNotFound if no such user exists.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByID retrieves a user by ID.
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// GetUserByActionToken retrieves the user holding the given pending
	// action token, regardless of the action kind.
	GetUserByActionToken(ctx context.Context, token string) (*models.User, error)

	// UpdateUser persists changes to an existing user.
	UpdateUser(ctx context.Context, user *models.User) error

	// CreateBudget persists a new budget.
	CreateBudget(ctx context.Context, budget *models.Budget) error

	// GetBudget retrieves a budget by ID without its expenses.
	GetBudget(ctx context.Context, id string) (*models.Budget, error)

	// GetBudgetWithExpenses retrieves a budget by ID including its expenses.
	GetBudgetWithExpenses(ctx context.Context, id string) (*models.Budget, error)

	// ListBudgetsByUser retrieves all budgets owned by the given user,
	// newest first.
	ListBudgetsByUser(ctx context.Context, userID string) ([]models.Budget, error)

	// UpdateBudget persists changes to an existing budget.
	UpdateBudget(ctx context.Context, budget *models.Budget) error

	// DeleteBudget removes a budget and, by cascade, its expenses.
	DeleteBudget(ctx context.Context, id string) error

	// CreateExpense persists a new expense under its budget.
	CreateExpense(ctx context.Context, expense *models.Expense) error

	// GetExpense retrieves an expense by ID.
	GetExpense(ctx context.Context, id string) (*models.Expense, error)

	// UpdateExpense persists changes to an existing expense.
	UpdateExpense(ctx context.Context, expense *models.Expense) error

	// DeleteExpense removes an expense.
	DeleteExpense(ctx context.Context, id string) error

	// Close releases any resources held by the store.
	Close() error
}
