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

// CreateExpense inserts a new expense into the database.
func (s *SQLiteStore) CreateExpense(ctx context.Context, expense *models.Expense) error {
	query := `
		INSERT INTO expenses (id, name, amount, budget_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		expense.ID,
		expense.Name,
		expense.Amount,
		expense.BudgetID,
		expense.CreatedAt,
		expense.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create expense: %w", err)
	}

	return nil
}

// GetExpense retrieves an expense by ID.
func (s *SQLiteStore) GetExpense(ctx context.Context, id string) (*models.Expense, error) {
	query := `
		SELECT id, name, amount, budget_id, created_at, updated_at
		FROM expenses
		WHERE id = ?
	`

	expense := &models.Expense{}
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&expense.ID,
		&expense.Name,
		&expense.Amount,
		&expense.BudgetID,
		&expense.CreatedAt,
		&expense.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}

	return expense, nil
}

// UpdateExpense persists changes to an existing expense.
func (s *SQLiteStore) UpdateExpense(ctx context.Context, expense *models.Expense) error {
	expense.UpdatedAt = time.Now().Unix()

	res, err := s.db.ExecContext(ctx, `
		UPDATE expenses
		SET name = ?, amount = ?, updated_at = ?
		WHERE id = ?
	`, expense.Name, expense.Amount, expense.UpdatedAt, expense.ID)
	if err != nil {
		return fmt.Errorf("failed to update expense: %w", err)
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

// DeleteExpense removes an expense.
func (s *SQLiteStore) DeleteExpense(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
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
