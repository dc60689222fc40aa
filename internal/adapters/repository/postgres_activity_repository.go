package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/comitanigiacomo/kanso-fit/internal/core/domain"
	"github.com/jmoiron/sqlx"
)

var _ domain.ActivityRepository = (*PostgresActivityRepository)(nil)

type PostgresActivityRepository struct {
	db *sqlx.DB
}

func NewPostgresActivityRepository(db *sqlx.DB) *PostgresActivityRepository {
	return &PostgresActivityRepository{db: db}
}

const activityColumns = `id, user_id, name, description, icon, category, exercises, version, created_at, updated_at`

func (r *PostgresActivityRepository) scanRow(row scannable) (*domain.Activity, error) {
	var a domain.Activity
	var exercisesJSON []byte

	err := row.Scan(
		&a.ID, &a.UserID, &a.Name, &a.Description, &a.Icon, &a.Category,
		&exercisesJSON, &a.Version, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	a.Exercises = []domain.Exercise{}
	if len(exercisesJSON) > 0 {
		if err := json.Unmarshal(exercisesJSON, &a.Exercises); err != nil {
			return nil, fmt.Errorf("failed to unmarshal exercises: %w", err)
		}
	}

	return &a, nil
}

func (r *PostgresActivityRepository) Create(ctx context.Context, a *domain.Activity) error {
	exercisesJSON, err := json.Marshal(a.Exercises)
	if err != nil {
		return fmt.Errorf("failed to marshal exercises: %w", err)
	}

	query := `
        INSERT INTO activities (` + activityColumns + `)
        VALUES ($1, $2, $3, $4, $5, $6, $7, 1, $8, $9)`

	_, err = r.db.ExecContext(ctx, query,
		a.ID, a.UserID, a.Name, a.Description, a.Icon, a.Category,
		exercisesJSON, a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert activity: %w", err)
	}

	a.Version = 1
	return nil
}

func (r *PostgresActivityRepository) GetByID(ctx context.Context, id string) (*domain.Activity, error) {
	query := `SELECT ` + activityColumns + ` FROM activities WHERE id = $1`

	a, err := r.scanRow(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrActivityNotFound
		}
		return nil, fmt.Errorf("database scan error: %w", err)
	}

	return a, nil
}

func (r *PostgresActivityRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.Activity, error) {
	query := `
        SELECT ` + activityColumns + ` FROM activities
        WHERE user_id = $1
        ORDER BY created_at ASC, id ASC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}
	defer rows.Close()

	activities := []*domain.Activity{}
	for rows.Next() {
		a, err := r.scanRow(rows)
		if err != nil {
			return nil, fmt.Errorf("row scan error: %w", err)
		}
		activities = append(activities, a)
	}

	return activities, rows.Err()
}

func (r *PostgresActivityRepository) Update(ctx context.Context, a *domain.Activity) error {
	exercisesJSON, err := json.Marshal(a.Exercises)
	if err != nil {
		return err
	}

	query := `
        UPDATE activities SET
            name=$1, description=$2, icon=$3, category=$4, exercises=$5,
            updated_at=NOW(), version = version + 1
        WHERE id=$6 AND version=$7
        RETURNING version, updated_at`

	row := r.db.QueryRowContext(ctx, query,
		a.Name, a.Description, a.Icon, a.Category, exercisesJSON,
		a.ID, a.Version,
	)

	var newVersion int
	var newUpdatedAt time.Time

	if err := row.Scan(&newVersion, &newUpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			var count int
			if checkErr := r.db.QueryRowContext(ctx, `SELECT count(*) FROM activities WHERE id = $1`, a.ID).Scan(&count); checkErr != nil {
				return fmt.Errorf("existence check failed: %w", checkErr)
			}
			if count == 0 {
				return domain.ErrActivityNotFound
			}
			return domain.ErrActivityConflict
		}
		return fmt.Errorf("update query failed: %w", err)
	}

	a.Version = newVersion
	a.UpdatedAt = newUpdatedAt
	return nil
}

func (r *PostgresActivityRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM activities WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete query failed: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrActivityNotFound
	}

	return nil
}
