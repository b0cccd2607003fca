package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/comitanigiacomo/circle-leader-engine/internal/core/domain"
	"github.com/jmoiron/sqlx"
)

var _ domain.NoteRepository = (*PostgresNoteRepository)(nil)

type PostgresNoteRepository struct {
	db *sqlx.DB
}

func NewPostgresNoteRepository(db *sqlx.DB) *PostgresNoteRepository {
	return &PostgresNoteRepository{db: db}
}

func (r *PostgresNoteRepository) Create(ctx context.Context, n *domain.Note) error {
	query := `
        INSERT INTO notes (id, leader_id, user_id, content, system, created_at)
        VALUES (:id, :leader_id, :user_id, :content, :system, :created_at)`

	if _, err := r.db.NamedExecContext(ctx, query, n); err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrLeaderNotFound
		}
		return fmt.Errorf("failed to insert note: %w", err)
	}
	return nil
}

func (r *PostgresNoteRepository) GetByID(ctx context.Context, id string) (*domain.Note, error) {
	var n domain.Note
	query := `SELECT id, leader_id, user_id, content, system, created_at FROM notes WHERE id = $1`
	if err := r.db.GetContext(ctx, &n, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNoteNotFound
		}
		return nil, fmt.Errorf("database scan error: %w", err)
	}
	return &n, nil
}

// ListByLeaderID returns notes newest first.
func (r *PostgresNoteRepository) ListByLeaderID(ctx context.Context, leaderID string) ([]*domain.Note, error) {
	notes := []*domain.Note{}
	query := `
        SELECT id, leader_id, user_id, content, system, created_at
        FROM notes WHERE leader_id = $1
        ORDER BY created_at DESC`
	if err := r.db.SelectContext(ctx, &notes, query, leaderID); err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}
	return notes, nil
}

func (r *PostgresNoteRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM notes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete query failed: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrNoteNotFound
	}
	return nil
}
