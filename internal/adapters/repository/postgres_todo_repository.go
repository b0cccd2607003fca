package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/comitanigiacomo/circle-leader-engine/internal/core/domain"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

var _ domain.TodoRepository = (*PostgresTodoRepository)(nil)

const todoColumns = `
    id, user_id, leader_id, text, due_date, completed, completed_at,
    repeat_rule, repeat_interval, series_id, version, created_at, updated_at`

type PostgresTodoRepository struct {
	db *sqlx.DB
}

func NewPostgresTodoRepository(db *sqlx.DB) *PostgresTodoRepository {
	return &PostgresTodoRepository{db: db}
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullDate(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: domain.FormatDate(*t), Valid: true}
}

// Create inserts every todo in a single statement so a recurring series
// is stored entirely or not at all.
func (r *PostgresTodoRepository) Create(ctx context.Context, todos ...*domain.Todo) error {
	if len(todos) == 0 {
		return nil
	}

	n := len(todos)
	ids := make([]string, n)
	users := make([]string, n)
	leaders := make([]sql.NullString, n)
	texts := make([]string, n)
	dues := make([]sql.NullString, n)
	rules := make([]string, n)
	intervals := make([]int64, n)
	series := make([]sql.NullString, n)
	stamps := make([]string, n)

	for i, t := range todos {
		ids[i] = t.ID
		users[i] = t.UserID
		leaders[i] = nullString(t.LeaderID)
		texts[i] = t.Text
		dues[i] = nullDate(t.DueDate)
		rules[i] = string(t.RepeatRule)
		intervals[i] = int64(t.RepeatInterval)
		series[i] = nullString(t.SeriesID)
		stamps[i] = t.CreatedAt.UTC().Format(time.RFC3339Nano)
	}

	query := `
        INSERT INTO todos (
            id, user_id, leader_id, text, due_date,
            repeat_rule, repeat_interval, series_id,
            version, created_at, updated_at
        )
        SELECT t.id, t.user_id, t.leader_id, t.text, t.due_date,
               t.repeat_rule, t.repeat_interval, t.series_id,
               1, t.created_at, t.created_at
        FROM unnest(
            $1::text[], $2::text[], $3::text[], $4::text[], $5::date[],
            $6::text[], $7::int[], $8::text[], $9::timestamptz[]
        ) AS t(id, user_id, leader_id, text, due_date, repeat_rule, repeat_interval, series_id, created_at)`

	_, err := r.db.ExecContext(ctx, query,
		pq.Array(ids), pq.Array(users), pq.Array(leaders), pq.Array(texts), pq.Array(dues),
		pq.Array(rules), pq.Array(intervals), pq.Array(series), pq.Array(stamps),
	)
	if err != nil {
		switch {
		case isUniqueViolation(err):
			return domain.ErrTodoConflict
		case isForeignKeyViolation(err):
			return domain.ErrLeaderNotFound
		case isCheckViolation(err):
			return domain.ErrInvalidRepeatRule
		}
		return fmt.Errorf("failed to insert %d todos: %w", n, err)
	}

	for _, t := range todos {
		t.Version = 1
	}
	return nil
}

func (r *PostgresTodoRepository) GetByID(ctx context.Context, id string) (*domain.Todo, error) {
	var t domain.Todo
	query := `SELECT ` + todoColumns + ` FROM todos WHERE id = $1`
	if err := r.db.GetContext(ctx, &t, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrTodoNotFound
		}
		return nil, fmt.Errorf("database scan error: %w", err)
	}
	return &t, nil
}

func (r *PostgresTodoRepository) ListByUserID(ctx context.Context, userID string, includeCompleted bool) ([]*domain.Todo, error) {
	query := `SELECT ` + todoColumns + ` FROM todos
        WHERE user_id = $1 AND ($2 OR NOT completed)
        ORDER BY due_date ASC NULLS LAST, created_at ASC`

	todos := []*domain.Todo{}
	if err := r.db.SelectContext(ctx, &todos, query, userID, includeCompleted); err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}
	return todos, nil
}

func (r *PostgresTodoRepository) ListOpenDue(ctx context.Context, userID string, day time.Time) ([]*domain.Todo, error) {
	query := `SELECT ` + todoColumns + ` FROM todos
        WHERE user_id = $1 AND NOT completed AND due_date <= $2
        ORDER BY due_date ASC, created_at ASC`

	todos := []*domain.Todo{}
	if err := r.db.SelectContext(ctx, &todos, query, userID, domain.FormatDate(day)); err != nil {
		return nil, fmt.Errorf("due query error: %w", err)
	}
	return todos, nil
}

func (r *PostgresTodoRepository) Update(ctx context.Context, t *domain.Todo) error {
	query := `
        UPDATE todos SET
            text=$1, due_date=$2, completed=$3, completed_at=$4, leader_id=$5,
            updated_at=NOW(), version = version + 1
        WHERE id=$6 AND version=$7
        RETURNING version, updated_at`

	row := r.db.QueryRowContext(ctx, query,
		t.Text, nullDate(t.DueDate), t.Completed, t.CompletedAt, nullString(t.LeaderID),
		t.ID, t.Version,
	)

	var newVersion int
	var newUpdatedAt time.Time
	if err := row.Scan(&newVersion, &newUpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			var count int
			if checkErr := r.db.QueryRowContext(ctx, `SELECT count(*) FROM todos WHERE id = $1`, t.ID).Scan(&count); checkErr != nil {
				return fmt.Errorf("existence check failed: %w", checkErr)
			}
			if count == 0 {
				return domain.ErrTodoNotFound
			}
			return domain.ErrTodoConflict
		}
		return fmt.Errorf("update query failed: %w", err)
	}

	t.Version = newVersion
	t.UpdatedAt = newUpdatedAt
	return nil
}

func (r *PostgresTodoRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM todos WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete query failed: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrTodoNotFound
	}
	return nil
}

// DeleteOpenInSeries removes the not-yet-completed occurrences of a series
// due on or after from. Completed history is kept.
func (r *PostgresTodoRepository) DeleteOpenInSeries(ctx context.Context, seriesID string, from time.Time) (int, error) {
	query := `DELETE FROM todos WHERE series_id = $1 AND NOT completed AND due_date >= $2`

	res, err := r.db.ExecContext(ctx, query, seriesID, domain.FormatDate(from))
	if err != nil {
		return 0, fmt.Errorf("series delete failed: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(rows), nil
}
