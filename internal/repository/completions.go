package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Pineacles/habit-pulse/internal/models"
)

type CompletionRepository interface {
	Insert(ctx context.Context, goalID string, day models.Date) error
	Delete(ctx context.Context, goalID string, day models.Date) error
	Exists(ctx context.Context, goalID string, day models.Date) (bool, error)
	FindByUserInRange(ctx context.Context, userID string, start, end models.Date) ([]models.Completion, error)
	FindGoalIDsOnDate(ctx context.Context, userID string, day models.Date) (map[string]bool, error)
}

type SQLiteCompletionRepository struct {
	database *sql.DB
}

func NewCompletionRepository(database *sql.DB) *SQLiteCompletionRepository {
	return &SQLiteCompletionRepository{database: database}
}

// Insert records a completion for the goal on the given day. A concurrent
// duplicate insert loses against the (goal_id, completed_on) primary key and
// is reported as ErrDuplicate instead of silently adding a second row.
func (repository *SQLiteCompletionRepository) Insert(ctx context.Context, goalID string, day models.Date) error {
	result, err := repository.database.ExecContext(ctx,
		"INSERT OR IGNORE INTO completions (goal_id, completed_on, created_at) VALUES (?, ?, ?)",
		goalID, day, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("inserting completion: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("inserting completion: %w", err)
	}
	if affected == 0 {
		return ErrDuplicate
	}
	return nil
}

func (repository *SQLiteCompletionRepository) Delete(ctx context.Context, goalID string, day models.Date) error {
	_, err := repository.database.ExecContext(ctx,
		"DELETE FROM completions WHERE goal_id = ? AND completed_on = ?",
		goalID, day,
	)
	if err != nil {
		return fmt.Errorf("deleting completion: %w", err)
	}
	return nil
}

func (repository *SQLiteCompletionRepository) Exists(ctx context.Context, goalID string, day models.Date) (bool, error) {
	var count int
	err := repository.database.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM completions WHERE goal_id = ? AND completed_on = ?",
		goalID, day,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("checking completion: %w", err)
	}
	return count > 0, nil
}

func (repository *SQLiteCompletionRepository) FindByUserInRange(ctx context.Context, userID string, start, end models.Date) ([]models.Completion, error) {
	rows, err := repository.database.QueryContext(ctx,
		`SELECT c.goal_id, c.completed_on, c.created_at
		FROM completions c
		JOIN goals g ON g.id = c.goal_id
		WHERE g.user_id = ? AND c.completed_on >= ? AND c.completed_on <= ?
		ORDER BY c.completed_on ASC`,
		userID, start, end,
	)
	if err != nil {
		return nil, fmt.Errorf("finding completions in range: %w", err)
	}
	defer rows.Close()

	var completions []models.Completion
	for rows.Next() {
		var completion models.Completion
		if err := rows.Scan(&completion.GoalID, &completion.CompletedOn, &completion.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning completion: %w", err)
		}
		completions = append(completions, completion)
	}
	return completions, rows.Err()
}

func (repository *SQLiteCompletionRepository) FindGoalIDsOnDate(ctx context.Context, userID string, day models.Date) (map[string]bool, error) {
	rows, err := repository.database.QueryContext(ctx,
		`SELECT c.goal_id
		FROM completions c
		JOIN goals g ON g.id = c.goal_id
		WHERE g.user_id = ? AND c.completed_on = ?`,
		userID, day,
	)
	if err != nil {
		return nil, fmt.Errorf("finding completed goal ids: %w", err)
	}
	defer rows.Close()

	goalIDs := make(map[string]bool)
	for rows.Next() {
		var goalID string
		if err := rows.Scan(&goalID); err != nil {
			return nil, fmt.Errorf("scanning completed goal id: %w", err)
		}
		goalIDs[goalID] = true
	}
	return goalIDs, rows.Err()
}
