package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comitanigiacomo/circle-leader-engine/internal/adapters/repository"
	"github.com/comitanigiacomo/circle-leader-engine/internal/core/domain"
	"github.com/comitanigiacomo/circle-leader-engine/internal/core/services"
)

func TestNoteService(t *testing.T) {
	ctx := context.Background()
	leaders := repository.NewInMemoryLeaderRepository()
	notes := repository.NewInMemoryNoteRepository()
	svc := services.NewNoteService(notes, leaders)

	leader, err := domain.NewCircleLeader("u1", domain.LeaderDetails{Name: "Maria"}, "")
	require.NoError(t, err)
	require.NoError(t, leaders.Create(ctx, leader))

	t.Run("Success: Add and list", func(t *testing.T) {
		n, err := svc.Add(ctx, leader.ID, "u1", "  Prayed together  ")
		require.NoError(t, err)
		assert.Equal(t, "Prayed together", n.Content)

		list, err := svc.ListByLeader(ctx, leader.ID, "u1")
		require.NoError(t, err)
		assert.Len(t, list, 1)
	})

	t.Run("Fail: Empty content", func(t *testing.T) {
		_, err := svc.Add(ctx, leader.ID, "u1", "   ")
		assert.ErrorIs(t, err, domain.ErrNoteEmpty)
	})

	t.Run("Fail: Foreign leader", func(t *testing.T) {
		_, err := svc.Add(ctx, leader.ID, "u2", "hello")
		assert.ErrorIs(t, err, domain.ErrLeaderNotFound)

		_, err = svc.ListByLeader(ctx, leader.ID, "u2")
		assert.ErrorIs(t, err, domain.ErrLeaderNotFound)
	})

	t.Run("Delete rules", func(t *testing.T) {
		n, err := svc.Add(ctx, leader.ID, "u1", "temp")
		require.NoError(t, err)

		assert.ErrorIs(t, svc.Delete(ctx, n.ID, "u2"), domain.ErrUnauthorized)
		assert.NoError(t, svc.Delete(ctx, n.ID, "u1"))
		assert.ErrorIs(t, svc.Delete(ctx, n.ID, "u1"), domain.ErrNoteNotFound)

		sys := domain.NewStatusChangeNote(leader.ID, "u1", domain.StatusInvited, domain.StatusActive)
		require.NoError(t, notes.Create(ctx, sys))
		assert.ErrorIs(t, svc.Delete(ctx, sys.ID, "u1"), domain.ErrNoteSystemOnly)
	})
}
