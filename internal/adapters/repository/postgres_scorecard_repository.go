package repository

import (
	"context"
	"fmt"

	"github.com/comitanigiacomo/circle-leader-engine/internal/core/domain"
	"github.com/jmoiron/sqlx"
)

var _ domain.ScorecardRepository = (*PostgresScorecardRepository)(nil)

type PostgresScorecardRepository struct {
	db *sqlx.DB
}

func NewPostgresScorecardRepository(db *sqlx.DB) *PostgresScorecardRepository {
	return &PostgresScorecardRepository{db: db}
}

func (r *PostgresScorecardRepository) Create(ctx context.Context, s *domain.ScorecardRating) error {
	query := `
        INSERT INTO scorecard_ratings (
            id, leader_id, user_id, scored_date, reach, connect, disciple, develop, notes, created_at
        ) VALUES (
            $1, $2, $3, $4, $5, $6, $7, $8, $9, $10
        )`

	_, err := r.db.ExecContext(ctx, query,
		s.ID, s.LeaderID, s.UserID, domain.FormatDate(s.ScoredDate),
		s.Reach, s.Connect, s.Disciple, s.Develop, s.Notes, s.CreatedAt,
	)
	if err != nil {
		switch {
		case isForeignKeyViolation(err):
			return domain.ErrLeaderNotFound
		case isCheckViolation(err):
			return domain.ErrScoreOutOfRange
		}
		return fmt.Errorf("failed to insert scorecard: %w", err)
	}
	return nil
}

// ListByLeaderID returns ratings oldest first.
func (r *PostgresScorecardRepository) ListByLeaderID(ctx context.Context, leaderID string) ([]*domain.ScorecardRating, error) {
	query := `
        SELECT id, leader_id, user_id, scored_date, reach, connect, disciple, develop, notes, created_at
        FROM scorecard_ratings
        WHERE leader_id = $1
        ORDER BY scored_date ASC, created_at ASC`

	ratings := []*domain.ScorecardRating{}
	if err := r.db.SelectContext(ctx, &ratings, query, leaderID); err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}
	return ratings, nil
}
