package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"cashtrackr/internal/models"
	"cashtrackr/internal/storage"
)

// CreateBudget inserts a new budget into the database.
func (s *SQLiteStore) CreateBudget(ctx context.Context, budget *models.Budget) error {
	query := `
		INSERT INTO budgets (id, name, amount, user_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		budget.ID,
		budget.Name,
		budget.Amount,
		budget.UserID,
		budget.CreatedAt,
		budget.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create budget: %w", err)
	}

	return nil
}

// GetBudget retrieves a budget by ID without its expenses.
func (s *SQLiteStore) GetBudget(ctx context.Context, id string) (*models.Budget, error) {
	query := `
		SELECT id, name, amount, user_id, created_at, updated_at
		FROM budgets
		WHERE id = ?
	`

	budget := &models.Budget{}
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&budget.ID,
		&budget.Name,
		&budget.Amount,
		&budget.UserID,
		&budget.CreatedAt,
		&budget.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get budget: %w", err)
	}

	return budget, nil
}

// GetBudgetWithExpenses retrieves a budget by ID including its expenses.
func (s *SQLiteStore) GetBudgetWithExpenses(ctx context.Context, id string) (*models.Budget, error) {
	budget, err := s.GetBudget(ctx, id)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, amount, budget_id, created_at, updated_at
		FROM expenses
		WHERE budget_id = ?
		ORDER BY created_at DESC, id
	`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get expenses: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var expense models.Expense
		if err := rows.Scan(
			&expense.ID,
			&expense.Name,
			&expense.Amount,
			&expense.BudgetID,
			&expense.CreatedAt,
			&expense.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		budget.Expenses = append(budget.Expenses, expense)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}

	return budget, nil
}

// ListBudgetsByUser retrieves all budgets owned by the given user, newest first.
func (s *SQLiteStore) ListBudgetsByUser(ctx context.Context, userID string) ([]models.Budget, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, amount, user_id, created_at, updated_at
		FROM budgets
		WHERE user_id = ?
		ORDER BY created_at DESC, id
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list budgets: %w", err)
	}
	defer rows.Close()

	var budgets []models.Budget
	for rows.Next() {
		var budget models.Budget
		if err := rows.Scan(
			&budget.ID,
			&budget.Name,
			&budget.Amount,
			&budget.UserID,
			&budget.CreatedAt,
			&budget.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan budget: %w", err)
		}
		budgets = append(budgets, budget)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate budgets: %w", err)
	}

	return budgets, nil
}

// UpdateBudget persists changes to an existing budget. The owner column is
// deliberately not part of the statement: ownership is immutable.
func (s *SQLiteStore) UpdateBudget(ctx context.Context, budget *models.Budget) error {
	budget.UpdatedAt = time.Now().Unix()

	res, err := s.db.ExecContext(ctx, `
		UPDATE budgets
		SET name = ?, amount = ?, updated_at = ?
		WHERE id = ?
	`, budget.Name, budget.Amount, budget.UpdatedAt, budget.ID)
	if err != nil {
		return fmt.Errorf("failed to update budget: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}

	return nil
}

// DeleteBudget removes a budget. Expenses under it are removed by the
// ON DELETE CASCADE constraint.
func (s *SQLiteStore) DeleteBudget(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM budgets WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete budget: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}

	return nil
}
