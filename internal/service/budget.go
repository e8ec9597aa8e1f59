package service

import (
	"context"
	"errors"
	"log/slog"

	"cashtrackr/internal/auth"
	"cashtrackr/internal/models"
	"cashtrackr/internal/storage"
)

// CheckBudgetAccess is the ownership check: a principal may only touch
// budgets it owns. Expense routes rely on this transitively through the
// enclosing budget and never re-check ownership themselves.
func CheckBudgetAccess(principal *auth.Principal, budget *models.Budget) error {
	if budget.UserID != principal.ID {
		return ErrNotBudgetOwner
	}
	return nil
}

// BudgetService implements budget CRUD scoped to the owning user.
type BudgetService struct {
	store  storage.Store
	logger *slog.Logger
}

// NewBudgetService creates a new budget service.
func NewBudgetService(store storage.Store, logger *slog.Logger) *BudgetService {
	return &BudgetService{store: store, logger: logger}
}

// List returns the budgets owned by the given user, newest first.
func (s *BudgetService) List(ctx context.Context, userID string) ([]models.Budget, error) {
	return s.store.ListBudgetsByUser(ctx, userID)
}

// Create persists a budget owned by the given user. The owner always
// comes from the authenticated principal, never from client input.
func (s *BudgetService) Create(ctx context.Context, userID, name string, amount float64) (*models.Budget, error) {
	budget := models.NewBudget(name, amount, userID)
	if err := s.store.CreateBudget(ctx, budget); err != nil {
		return nil, err
	}

	s.logger.Info("budget created", "budget_id", budget.ID, "user_id", userID)
	return budget, nil
}

// Get loads a budget by ID, without expenses. Fails with ErrBudgetNotFound.
func (s *BudgetService) Get(ctx context.Context, id string) (*models.Budget, error) {
	budget, err := s.store.GetBudget(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrBudgetNotFound
	}
	return budget, err
}

// GetWithExpenses loads a budget together with its expenses.
func (s *BudgetService) GetWithExpenses(ctx context.Context, id string) (*models.Budget, error) {
	budget, err := s.store.GetBudgetWithExpenses(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrBudgetNotFound
	}
	return budget, err
}

// Update renames or re-amounts an existing budget.
func (s *BudgetService) Update(ctx context.Context, budget *models.Budget) error {
	err := s.store.UpdateBudget(ctx, budget)
	if errors.Is(err, storage.ErrNotFound) {
		return ErrBudgetNotFound
	}
	return err
}

// Delete removes a budget and cascades to its expenses.
func (s *BudgetService) Delete(ctx context.Context, id string) error {
	err := s.store.DeleteBudget(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return ErrBudgetNotFound
	}
	if err == nil {
		s.logger.Info("budget deleted", "budget_id", id)
	}
	return err
}
