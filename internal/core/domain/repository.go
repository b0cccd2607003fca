package domain

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// LeaderFilter narrows a leader listing. Zero values mean "any".
type LeaderFilter struct {
	Campus       string
	Status       LeaderStatus
	Search       string
	FollowUpOnly bool
}

// Signature is a stable string form of the filter, used as a cache key suffix.
func (f LeaderFilter) Signature() string {
	return fmt.Sprintf("campus=%s|status=%s|q=%s|fu=%t",
		strings.ToLower(strings.TrimSpace(f.Campus)),
		f.Status,
		strings.ToLower(strings.TrimSpace(f.Search)),
		f.FollowUpOnly,
	)
}

type LeaderRepository interface {
	Create(ctx context.Context, leader *CircleLeader) error

	// GetByID retrieves an active (non-deleted) leader.
	GetByID(ctx context.Context, id string) (*CircleLeader, error)

	List(ctx context.Context, ownerID string, filter LeaderFilter) ([]*CircleLeader, error)

	// Update must apply optimistic locking on Version and bump it on success.
	Update(ctx context.Context, leader *CircleLeader) error

	// Delete performs a soft delete.
	Delete(ctx context.Context, id string) error

	// ListFollowUpsDue returns flagged leaders whose follow-up date is on or before the given day.
	ListFollowUpsDue(ctx context.Context, ownerID string, day time.Time) ([]*CircleLeader, error)
}

type NoteRepository interface {
	Create(ctx context.Context, note *Note) error
	GetByID(ctx context.Context, id string) (*Note, error)

	// ListByLeaderID returns notes newest first.
	ListByLeaderID(ctx context.Context, leaderID string) ([]*Note, error)
	Delete(ctx context.Context, id string) error
}

type TodoRepository interface {
	// Create persists the todos in one transaction (a series master and its occurrences).
	Create(ctx context.Context, todos ...*Todo) error
	GetByID(ctx context.Context, id string) (*Todo, error)
	ListByUserID(ctx context.Context, userID string, includeCompleted bool) ([]*Todo, error)

	// ListOpenDue returns open todos due on or before the given day.
	ListOpenDue(ctx context.Context, userID string, day time.Time) ([]*Todo, error)
	Update(ctx context.Context, todo *Todo) error
	Delete(ctx context.Context, id string) error

	// DeleteOpenInSeries removes open occurrences of a series due on or after the given day.
	DeleteOpenInSeries(ctx context.Context, seriesID string, from time.Time) (int, error)
}

type ScorecardRepository interface {
	Create(ctx context.Context, rating *ScorecardRating) error

	// ListByLeaderID returns ratings ordered by scored date ascending.
	ListByLeaderID(ctx context.Context, leaderID string) ([]*ScorecardRating, error)
}

type UserRepository interface {
	Upsert(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	ListDigestRecipients(ctx context.Context) ([]*User, error)
}
