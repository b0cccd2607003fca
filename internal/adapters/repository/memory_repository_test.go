package repository

import (
	"context"
	"testing"
	"time"

	"github.com/comitanigiacomo/circle-leader-engine/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustLeader(t *testing.T, owner, name, campus string) *domain.CircleLeader {
	t.Helper()
	l, err := domain.NewCircleLeader(owner, domain.LeaderDetails{Name: name, Campus: campus}, "")
	require.NoError(t, err)
	return l
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestInMemoryLeaderRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryLeaderRepository()

	alice := mustLeader(t, "owner-1", "Alice", "North")
	bob := mustLeader(t, "owner-1", "Bob", "South")
	other := mustLeader(t, "owner-2", "Carol", "North")
	for _, l := range []*domain.CircleLeader{bob, alice, other} {
		require.NoError(t, repo.Create(ctx, l))
	}

	t.Run("Success: List scoped to owner and sorted by name", func(t *testing.T) {
		list, err := repo.List(ctx, "owner-1", domain.LeaderFilter{})
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, "Alice", list[0].Name)
		assert.Equal(t, "Bob", list[1].Name)
	})

	t.Run("Success: Filter by campus is case-insensitive", func(t *testing.T) {
		list, err := repo.List(ctx, "owner-1", domain.LeaderFilter{Campus: "north"})
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, alice.ID, list[0].ID)
	})

	t.Run("Success: Search matches name substring", func(t *testing.T) {
		list, err := repo.List(ctx, "owner-1", domain.LeaderFilter{Search: "OB"})
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, bob.ID, list[0].ID)
	})

	t.Run("Fail: Stale version is rejected", func(t *testing.T) {
		a, err := repo.GetByID(ctx, alice.ID)
		require.NoError(t, err)
		b, err := repo.GetByID(ctx, alice.ID)
		require.NoError(t, err)

		a.Phone = "555"
		require.NoError(t, repo.Update(ctx, a))
		assert.Equal(t, 2, a.Version)

		b.Phone = "666"
		assert.ErrorIs(t, repo.Update(ctx, b), domain.ErrLeaderConflict)
	})

	t.Run("Success: Returned leaders are copies", func(t *testing.T) {
		l, err := repo.GetByID(ctx, bob.ID)
		require.NoError(t, err)
		l.Name = "Mutated"

		again, err := repo.GetByID(ctx, bob.ID)
		require.NoError(t, err)
		assert.Equal(t, "Bob", again.Name)
	})

	t.Run("Success: Follow-ups due ordered undated first", func(t *testing.T) {
		l, _ := repo.GetByID(ctx, bob.ID)
		l.SetFollowUp(day(2025, 3, 1))
		require.NoError(t, repo.Update(ctx, l))

		a, _ := repo.GetByID(ctx, alice.ID)
		a.FollowUpRequired = true
		require.NoError(t, repo.Update(ctx, a))

		due, err := repo.ListFollowUpsDue(ctx, "owner-1", day(2025, 3, 10))
		require.NoError(t, err)
		require.Len(t, due, 2)
		assert.Equal(t, alice.ID, due[0].ID)
		assert.Equal(t, bob.ID, due[1].ID)

		due, err = repo.ListFollowUpsDue(ctx, "owner-1", day(2025, 2, 1))
		require.NoError(t, err)
		require.Len(t, due, 1)
		assert.Equal(t, alice.ID, due[0].ID)
	})

	t.Run("Success: Soft delete hides leader", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, bob.ID))

		_, err := repo.GetByID(ctx, bob.ID)
		assert.ErrorIs(t, err, domain.ErrLeaderNotFound)
		assert.ErrorIs(t, repo.Delete(ctx, bob.ID), domain.ErrLeaderNotFound)
	})
}

func TestInMemoryTodoRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryTodoRepository()

	start := day(2025, 1, 6)
	master, err := domain.NewTodo("u1", "Call leaders", &start, nil)
	require.NoError(t, err)
	require.NoError(t, master.MakeRecurring(domain.RepeatWeekly, 1))
	occ, err := master.Occurrences(day(2025, 1, 27))
	require.NoError(t, err)
	require.Len(t, occ, 3)

	loose, err := domain.NewTodo("u1", "No date", nil, nil)
	require.NoError(t, err)

	require.NoError(t, repo.Create(ctx, append([]*domain.Todo{master, loose}, occ...)...))

	t.Run("Fail: Duplicate IDs insert nothing", func(t *testing.T) {
		fresh, err := domain.NewTodo("u1", "fresh", nil, nil)
		require.NoError(t, err)
		err = repo.Create(ctx, fresh, master)
		assert.ErrorIs(t, err, domain.ErrTodoConflict)

		_, err = repo.GetByID(ctx, fresh.ID)
		assert.ErrorIs(t, err, domain.ErrTodoNotFound)
	})

	t.Run("Success: List puts undated last", func(t *testing.T) {
		list, err := repo.ListByUserID(ctx, "u1", false)
		require.NoError(t, err)
		require.Len(t, list, 5)
		assert.Equal(t, loose.ID, list[4].ID)
	})

	t.Run("Success: Open due excludes future and completed", func(t *testing.T) {
		first, err := repo.GetByID(ctx, master.ID)
		require.NoError(t, err)
		first.Complete(time.Now())
		require.NoError(t, repo.Update(ctx, first))

		due, err := repo.ListOpenDue(ctx, "u1", day(2025, 1, 14))
		require.NoError(t, err)
		require.Len(t, due, 1)
		assert.Equal(t, "2025-01-13", domain.FormatDate(*due[0].DueDate))

		all, err := repo.ListByUserID(ctx, "u1", true)
		require.NoError(t, err)
		assert.Len(t, all, 5)
		open, err := repo.ListByUserID(ctx, "u1", false)
		require.NoError(t, err)
		assert.Len(t, open, 4)
	})

	t.Run("Success: Series delete keeps completed and earlier occurrences", func(t *testing.T) {
		n, err := repo.DeleteOpenInSeries(ctx, *master.SeriesID, day(2025, 1, 20))
		require.NoError(t, err)
		assert.Equal(t, 2, n)

		list, err := repo.ListByUserID(ctx, "u1", true)
		require.NoError(t, err)
		assert.Len(t, list, 3)
	})
}

func TestInMemoryNoteAndScorecardRepositories(t *testing.T) {
	ctx := context.Background()

	notes := NewInMemoryNoteRepository()
	older := &domain.Note{ID: "n1", LeaderID: "l1", Content: "first", CreatedAt: time.Now().Add(-time.Hour)}
	newer := &domain.Note{ID: "n2", LeaderID: "l1", Content: "second", CreatedAt: time.Now()}
	require.NoError(t, notes.Create(ctx, older))
	require.NoError(t, notes.Create(ctx, newer))

	list, err := notes.ListByLeaderID(ctx, "l1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "n2", list[0].ID)

	require.NoError(t, notes.Delete(ctx, "n1"))
	assert.ErrorIs(t, notes.Delete(ctx, "n1"), domain.ErrNoteNotFound)

	cards := NewInMemoryScorecardRepository()
	four := 4
	require.NoError(t, cards.Create(ctx, &domain.ScorecardRating{ID: "s2", LeaderID: "l1", ScoredDate: day(2025, 2, 1), Reach: &four}))
	require.NoError(t, cards.Create(ctx, &domain.ScorecardRating{ID: "s1", LeaderID: "l1", ScoredDate: day(2025, 1, 1), Reach: &four}))
	require.NoError(t, cards.Create(ctx, &domain.ScorecardRating{ID: "s3", LeaderID: "l2", ScoredDate: day(2025, 1, 1), Reach: &four}))

	ratings, err := cards.ListByLeaderID(ctx, "l1")
	require.NoError(t, err)
	require.Len(t, ratings, 2)
	assert.Equal(t, "s1", ratings[0].ID)
}

func TestInMemoryUserRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryUserRepository(
		&domain.User{ID: "u1", Email: "a@example.com", DigestEnabled: true},
		&domain.User{ID: "u2", Email: "b@example.com"},
	)

	recipients, err := repo.ListDigestRecipients(ctx)
	require.NoError(t, err)
	require.Len(t, recipients, 1)
	assert.Equal(t, "u1", recipients[0].ID)

	_, err = repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrRecipientNotFound)
}
