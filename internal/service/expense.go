package service

import (
	"context"
	"errors"
	"log/slog"

	"cashtrackr/internal/models"
	"cashtrackr/internal/storage"
)

// ExpenseService implements expense CRUD nested under a budget.
// Authorization is inherited from the parent budget: by the time any of
// these methods run, the enclosing budget route has already gated access.
type ExpenseService struct {
	store  storage.Store
	logger *slog.Logger
}

// NewExpenseService creates a new expense service.
func NewExpenseService(store storage.Store, logger *slog.Logger) *ExpenseService {
	return &ExpenseService{store: store, logger: logger}
}

// Create persists an expense under the given budget.
func (s *ExpenseService) Create(ctx context.Context, budgetID, name string, amount float64) (*models.Expense, error) {
	expense := models.NewExpense(name, amount, budgetID)
	if err := s.store.CreateExpense(ctx, expense); err != nil {
		return nil, err
	}

	s.logger.Info("expense created", "expense_id", expense.ID, "budget_id", budgetID)
	return expense, nil
}

// Get loads an expense by ID. Fails with ErrExpenseNotFound.
func (s *ExpenseService) Get(ctx context.Context, id string) (*models.Expense, error) {
	expense, err := s.store.GetExpense(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrExpenseNotFound
	}
	return expense, err
}

// Update renames or re-amounts an existing expense.
func (s *ExpenseService) Update(ctx context.Context, expense *models.Expense) error {
	err := s.store.UpdateExpense(ctx, expense)
	if errors.Is(err, storage.ErrNotFound) {
		return ErrExpenseNotFound
	}
	return err
}

// Delete removes an expense.
func (s *ExpenseService) Delete(ctx context.Context, id string) error {
	err := s.store.DeleteExpense(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return ErrExpenseNotFound
	}
	if err == nil {
		s.logger.Info("expense deleted", "expense_id", id)
	}
	return err
}
