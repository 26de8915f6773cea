package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Pineacles/habit-pulse/internal/models"
	"github.com/google/uuid"
)

const goalColumns = `id, user_id, name, is_measurable, target_value, unit,
	schedule_days, interval_days, interval_start_date,
	description, sort_order, is_active, created_at, updated_at`

type GoalRepository interface {
	FindByID(ctx context.Context, userID, goalID string) (models.Goal, error)
	FindAllByUser(ctx context.Context, userID string) ([]models.Goal, error)
	FindActiveByUser(ctx context.Context, userID string) ([]models.Goal, error)
	Create(ctx context.Context, goal models.Goal) (models.Goal, error)
	Update(ctx context.Context, goal models.Goal) error
	Delete(ctx context.Context, userID, goalID string) error
	MaxSortOrder(ctx context.Context, userID string) (int, error)
	UpdateSortOrders(ctx context.Context, userID string, goalIDs []string) error
}

type SQLiteGoalRepository struct {
	database *sql.DB
}

func NewGoalRepository(database *sql.DB) *SQLiteGoalRepository {
	return &SQLiteGoalRepository{database: database}
}

func (repository *SQLiteGoalRepository) FindByID(ctx context.Context, userID, goalID string) (models.Goal, error) {
	row := repository.database.QueryRowContext(ctx,
		"SELECT "+goalColumns+" FROM goals WHERE id = ? AND user_id = ?", goalID, userID,
	)
	goal, err := scanGoal(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Goal{}, ErrNotFound
	}
	if err != nil {
		return models.Goal{}, fmt.Errorf("finding goal by id: %w", err)
	}
	return goal, nil
}

func (repository *SQLiteGoalRepository) FindAllByUser(ctx context.Context, userID string) ([]models.Goal, error) {
	return repository.findByUser(ctx, userID, false)
}

func (repository *SQLiteGoalRepository) FindActiveByUser(ctx context.Context, userID string) ([]models.Goal, error) {
	return repository.findByUser(ctx, userID, true)
}

func (repository *SQLiteGoalRepository) findByUser(ctx context.Context, userID string, activeOnly bool) ([]models.Goal, error) {
	query := "SELECT " + goalColumns + " FROM goals WHERE user_id = ?"
	if activeOnly {
		query += " AND is_active = 1"
	}
	query += " ORDER BY sort_order ASC, created_at ASC"

	rows, err := repository.database.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("finding goals: %w", err)
	}
	defer rows.Close()

	var goals []models.Goal
	for rows.Next() {
		goal, err := scanGoal(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning goal: %w", err)
		}
		goals = append(goals, goal)
	}
	return goals, rows.Err()
}

func (repository *SQLiteGoalRepository) Create(ctx context.Context, goal models.Goal) (models.Goal, error) {
	if goal.ID == "" {
		goal.ID = uuid.New().String()
	}
	now := time.Now()
	if goal.CreatedAt.IsZero() {
		goal.CreatedAt = now
	}
	goal.UpdatedAt = now
	if goal.Unit == "" {
		goal.Unit = "minutes"
	}

	scheduleDays, err := marshalScheduleDays(goal.ScheduleDays)
	if err != nil {
		return models.Goal{}, err
	}

	_, err = repository.database.ExecContext(ctx,
		`INSERT INTO goals (id, user_id, name, is_measurable, target_value, unit,
			schedule_days, interval_days, interval_start_date,
			description, sort_order, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		goal.ID, goal.UserID, goal.Name, goal.IsMeasurable, goal.TargetValue, goal.Unit,
		scheduleDays, goal.IntervalDays, intervalStartValue(goal.IntervalStart),
		goal.Description, goal.SortOrder, goal.IsActive, goal.CreatedAt, goal.UpdatedAt,
	)
	if err != nil {
		return models.Goal{}, fmt.Errorf("creating goal: %w", err)
	}
	return goal, nil
}

func (repository *SQLiteGoalRepository) Update(ctx context.Context, goal models.Goal) error {
	goal.UpdatedAt = time.Now()

	scheduleDays, err := marshalScheduleDays(goal.ScheduleDays)
	if err != nil {
		return err
	}

	_, err = repository.database.ExecContext(ctx,
		`UPDATE goals SET name = ?, is_measurable = ?, target_value = ?, unit = ?,
			schedule_days = ?, interval_days = ?, interval_start_date = ?,
			description = ?, sort_order = ?, is_active = ?, updated_at = ?
		WHERE id = ? AND user_id = ?`,
		goal.Name, goal.IsMeasurable, goal.TargetValue, goal.Unit,
		scheduleDays, goal.IntervalDays, intervalStartValue(goal.IntervalStart),
		goal.Description, goal.SortOrder, goal.IsActive, goal.UpdatedAt,
		goal.ID, goal.UserID,
	)
	if err != nil {
		return fmt.Errorf("updating goal: %w", err)
	}
	return nil
}

func (repository *SQLiteGoalRepository) Delete(ctx context.Context, userID, goalID string) error {
	result, err := repository.database.ExecContext(ctx,
		"DELETE FROM goals WHERE id = ? AND user_id = ?", goalID, userID,
	)
	if err != nil {
		return fmt.Errorf("deleting goal: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting goal: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (repository *SQLiteGoalRepository) MaxSortOrder(ctx context.Context, userID string) (int, error) {
	var max int
	err := repository.database.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(sort_order), -1) FROM goals WHERE user_id = ?", userID,
	).Scan(&max)
	if err != nil {
		return 0, fmt.Errorf("finding max sort order: %w", err)
	}
	return max, nil
}

// UpdateSortOrders assigns sort_order = position in goalIDs to each listed
// goal. IDs that do not belong to the user match no row and are silently
// skipped.
func (repository *SQLiteGoalRepository) UpdateSortOrders(ctx context.Context, userID string, goalIDs []string) error {
	transaction, err := repository.database.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer transaction.Rollback()

	now := time.Now()
	for position, goalID := range goalIDs {
		if _, err := transaction.ExecContext(ctx,
			"UPDATE goals SET sort_order = ?, updated_at = ? WHERE id = ? AND user_id = ?",
			position, now, goalID, userID,
		); err != nil {
			return fmt.Errorf("updating sort order: %w", err)
		}
	}

	return transaction.Commit()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanGoal(row rowScanner) (models.Goal, error) {
	var goal models.Goal
	var scheduleDays string
	var intervalStart sql.NullString

	err := row.Scan(
		&goal.ID, &goal.UserID, &goal.Name, &goal.IsMeasurable, &goal.TargetValue, &goal.Unit,
		&scheduleDays, &goal.IntervalDays, &intervalStart,
		&goal.Description, &goal.SortOrder, &goal.IsActive, &goal.CreatedAt, &goal.UpdatedAt,
	)
	if err != nil {
		return models.Goal{}, err
	}

	if err := json.Unmarshal([]byte(scheduleDays), &goal.ScheduleDays); err != nil {
		return models.Goal{}, fmt.Errorf("parsing schedule days: %w", err)
	}
	if intervalStart.Valid {
		date, err := models.ParseDate(intervalStart.String)
		if err != nil {
			return models.Goal{}, err
		}
		goal.IntervalStart = &date
	}
	return goal, nil
}

func marshalScheduleDays(days []int) (string, error) {
	if days == nil {
		days = []int{}
	}
	encoded, err := json.Marshal(days)
	if err != nil {
		return "", fmt.Errorf("encoding schedule days: %w", err)
	}
	return string(encoded), nil
}

func intervalStartValue(date *models.Date) any {
	if date == nil {
		return nil
	}
	return date.String()
}
