package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/comitanigiacomo/circle-leader-engine/internal/core/domain"
	"github.com/jmoiron/sqlx"

	_ "github.com/jackc/pgx/v5/stdlib"
)

var _ domain.LeaderRepository = (*PostgresLeaderRepository)(nil)

const leaderColumns = `
    id, owner_id, name, email, phone, campus, circle_type,
    meeting_day, meeting_time, frequency, status,
    follow_up_required, follow_up_date, last_attendance,
    version, created_at, updated_at, deleted_at`

type PostgresLeaderRepository struct {
	db *sqlx.DB
}

func NewPostgresLeaderRepository(db *sqlx.DB) *PostgresLeaderRepository {
	return &PostgresLeaderRepository{db: db}
}

func (r *PostgresLeaderRepository) Create(ctx context.Context, l *domain.CircleLeader) error {
	query := `
        INSERT INTO circle_leaders (
            id, owner_id, name, email, phone, campus, circle_type,
            meeting_day, meeting_time, frequency, status,
            follow_up_required, follow_up_date, last_attendance,
            version, created_at, updated_at
        ) VALUES (
            :id, :owner_id, :name, :email, :phone, :campus, :circle_type,
            :meeting_day, :meeting_time, :frequency, :status,
            :follow_up_required, :follow_up_date, :last_attendance,
            1, :created_at, :updated_at
        )`

	if _, err := r.db.NamedExecContext(ctx, query, l); err != nil {
		switch {
		case isUniqueViolation(err):
			return domain.ErrLeaderConflict
		case isForeignKeyViolation(err):
			return domain.ErrLeaderInvalidOwner
		case isCheckViolation(err):
			return domain.ErrInvalidLeaderStatus
		}
		return fmt.Errorf("failed to insert circle leader: %w", err)
	}

	l.Version = 1
	return nil
}

func (r *PostgresLeaderRepository) GetByID(ctx context.Context, id string) (*domain.CircleLeader, error) {
	query := `SELECT ` + leaderColumns + ` FROM circle_leaders WHERE id = $1 AND deleted_at IS NULL`

	var l domain.CircleLeader
	if err := r.db.GetContext(ctx, &l, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrLeaderNotFound
		}
		return nil, fmt.Errorf("database scan error: %w", err)
	}
	return &l, nil
}

func (r *PostgresLeaderRepository) List(ctx context.Context, ownerID string, filter domain.LeaderFilter) ([]*domain.CircleLeader, error) {
	conds := []string{"owner_id = $1", "deleted_at IS NULL"}
	args := []interface{}{ownerID}

	if campus := strings.TrimSpace(filter.Campus); campus != "" {
		args = append(args, campus)
		conds = append(conds, fmt.Sprintf("lower(campus) = lower($%d)", len(args)))
	}
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if q := strings.TrimSpace(filter.Search); q != "" {
		args = append(args, "%"+q+"%")
		conds = append(conds, fmt.Sprintf("(name ILIKE $%d OR email ILIKE $%d)", len(args), len(args)))
	}
	if filter.FollowUpOnly {
		conds = append(conds, "follow_up_required")
	}

	query := `SELECT ` + leaderColumns + ` FROM circle_leaders
        WHERE ` + strings.Join(conds, " AND ") + `
        ORDER BY name ASC, created_at ASC`

	leaders := []*domain.CircleLeader{}
	if err := r.db.SelectContext(ctx, &leaders, query, args...); err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}
	return leaders, nil
}

func (r *PostgresLeaderRepository) Update(ctx context.Context, l *domain.CircleLeader) error {
	query := `
        UPDATE circle_leaders SET
            name=$1, email=$2, phone=$3, campus=$4, circle_type=$5,
            meeting_day=$6, meeting_time=$7, frequency=$8, status=$9,
            follow_up_required=$10, follow_up_date=$11, last_attendance=$12,
            updated_at=NOW(), version = version + 1
        WHERE id=$13 AND version=$14 AND deleted_at IS NULL
        RETURNING version, updated_at`

	row := r.db.QueryRowContext(ctx, query,
		l.Name, l.Email, l.Phone, l.Campus, l.CircleType,
		l.MeetingDay, l.MeetingTime, l.Frequency, l.Status,
		l.FollowUpRequired, l.FollowUpDate, l.LastAttendance,
		l.ID, l.Version,
	)

	var newVersion int
	var newUpdatedAt time.Time
	if err := row.Scan(&newVersion, &newUpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			var count int
			existsQuery := `SELECT count(*) FROM circle_leaders WHERE id = $1 AND deleted_at IS NULL`
			if checkErr := r.db.QueryRowContext(ctx, existsQuery, l.ID).Scan(&count); checkErr != nil {
				return fmt.Errorf("existence check failed: %w", checkErr)
			}
			if count == 0 {
				return domain.ErrLeaderNotFound
			}
			return domain.ErrLeaderConflict
		}
		if isCheckViolation(err) {
			return domain.ErrInvalidLeaderStatus
		}
		return fmt.Errorf("update query failed: %w", err)
	}

	l.Version = newVersion
	l.UpdatedAt = newUpdatedAt
	return nil
}

func (r *PostgresLeaderRepository) Delete(ctx context.Context, id string) error {
	query := `
        UPDATE circle_leaders
        SET deleted_at = NOW(), updated_at = NOW(), version = version + 1
        WHERE id = $1 AND deleted_at IS NULL`

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete query failed: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrLeaderNotFound
	}
	return nil
}

func (r *PostgresLeaderRepository) ListFollowUpsDue(ctx context.Context, ownerID string, day time.Time) ([]*domain.CircleLeader, error) {
	query := `SELECT ` + leaderColumns + ` FROM circle_leaders
        WHERE owner_id = $1 AND deleted_at IS NULL AND follow_up_required
          AND (follow_up_date IS NULL OR follow_up_date <= $2)
        ORDER BY follow_up_date ASC NULLS FIRST, name ASC`

	leaders := []*domain.CircleLeader{}
	if err := r.db.SelectContext(ctx, &leaders, query, ownerID, domain.FormatDate(day)); err != nil {
		return nil, fmt.Errorf("follow-up query error: %w", err)
	}
	return leaders, nil
}
