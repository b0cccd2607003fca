package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/comitanigiacomo/circle-leader-engine/internal/adapters/repository"
	"github.com/comitanigiacomo/circle-leader-engine/internal/core/domain"
	"github.com/comitanigiacomo/circle-leader-engine/internal/core/services"
)

func newLeaderService(t *testing.T) (*services.LeaderService, *repository.InMemoryNoteRepository) {
	t.Helper()
	notes := repository.NewInMemoryNoteRepository()
	return services.NewLeaderService(repository.NewInMemoryLeaderRepository(), notes, noonCST(2025, 3, 10)), notes
}

func TestLeaderService_Create(t *testing.T) {
	ctx := context.Background()
	svc, _ := newLeaderService(t)

	tests := []struct {
		name    string
		input   services.CreateLeaderInput
		wantErr error
	}{
		{"Success: Defaults to invited", services.CreateLeaderInput{OwnerID: "u1", Name: "Maria"}, nil},
		{"Success: Explicit status", services.CreateLeaderInput{OwnerID: "u1", Name: "Jo", Status: "active"}, nil},
		{"Fail: Empty name", services.CreateLeaderInput{OwnerID: "u1", Name: "  "}, domain.ErrLeaderNameEmpty},
		{"Fail: Unknown status", services.CreateLeaderInput{OwnerID: "u1", Name: "Jo", Status: "retired"}, domain.ErrInvalidLeaderStatus},
		{"Fail: Bad email", services.CreateLeaderInput{OwnerID: "u1", Name: "Jo", Email: "nope"}, domain.ErrInvalidLeaderEmail},
		{"Fail: Missing owner", services.CreateLeaderInput{Name: "Jo"}, domain.ErrLeaderInvalidOwner},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := svc.Create(ctx, tt.input)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, 1, l.Version)
			if tt.input.Status == "" {
				assert.Equal(t, domain.StatusInvited, l.Status)
			}
		})
	}
}

func TestLeaderService_Ownership(t *testing.T) {
	ctx := context.Background()
	svc, _ := newLeaderService(t)

	l, err := svc.Create(ctx, services.CreateLeaderInput{OwnerID: "u1", Name: "Maria"})
	require.NoError(t, err)

	_, err = svc.Get(ctx, l.ID, "intruder")
	assert.ErrorIs(t, err, domain.ErrLeaderNotFound)

	_, err = svc.Update(ctx, services.UpdateLeaderInput{ID: l.ID, OwnerID: "intruder", Name: "Hacked"})
	assert.ErrorIs(t, err, domain.ErrLeaderNotFound)

	assert.ErrorIs(t, svc.Delete(ctx, l.ID, "intruder"), domain.ErrLeaderNotFound)
	require.NoError(t, svc.Delete(ctx, l.ID, "u1"))

	_, err = svc.Get(ctx, l.ID, "u1")
	assert.ErrorIs(t, err, domain.ErrLeaderNotFound)
}

func TestLeaderService_Update(t *testing.T) {
	ctx := context.Background()
	svc, _ := newLeaderService(t)

	l, err := svc.Create(ctx, services.CreateLeaderInput{OwnerID: "u1", Name: "Maria", Campus: "North", Phone: "111"})
	require.NoError(t, err)

	t.Run("Success: Partial merge keeps unspecified fields", func(t *testing.T) {
		updated, err := svc.Update(ctx, services.UpdateLeaderInput{ID: l.ID, OwnerID: "u1", Phone: "222", Version: 1})
		require.NoError(t, err)
		assert.Equal(t, "Maria", updated.Name)
		assert.Equal(t, "North", updated.Campus)
		assert.Equal(t, "222", updated.Phone)
		assert.Equal(t, 2, updated.Version)
	})

	t.Run("Fail: Stale client version", func(t *testing.T) {
		_, err := svc.Update(ctx, services.UpdateLeaderInput{ID: l.ID, OwnerID: "u1", Phone: "333", Version: 1})
		assert.ErrorIs(t, err, domain.ErrLeaderConflict)
	})
}

func TestLeaderService_ChangeStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("Success: Records a system note", func(t *testing.T) {
		svc, notes := newLeaderService(t)
		l, err := svc.Create(ctx, services.CreateLeaderInput{OwnerID: "u1", Name: "Maria"})
		require.NoError(t, err)

		changed, err := svc.ChangeStatus(ctx, l.ID, "u1", domain.StatusFollowUp)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusFollowUp, changed.Status)
		assert.True(t, changed.FollowUpRequired)

		list, err := notes.ListByLeaderID(ctx, l.ID)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.True(t, list[0].System)
		assert.Equal(t, "Status changed from invited to follow-up", list[0].Content)
	})

	t.Run("Fail: Same status", func(t *testing.T) {
		svc, _ := newLeaderService(t)
		l, err := svc.Create(ctx, services.CreateLeaderInput{OwnerID: "u1", Name: "Maria"})
		require.NoError(t, err)

		_, err = svc.ChangeStatus(ctx, l.ID, "u1", domain.StatusInvited)
		assert.ErrorIs(t, err, domain.ErrStatusUnchanged)
	})

	t.Run("Success: Note failure does not undo the change", func(t *testing.T) {
		noteRepo := new(MockNoteRepo)
		noteRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Note")).Return(errors.New("db down"))

		leaders := repository.NewInMemoryLeaderRepository()
		svc := services.NewLeaderService(leaders, noteRepo, nil)
		l, err := svc.Create(ctx, services.CreateLeaderInput{OwnerID: "u1", Name: "Maria"})
		require.NoError(t, err)

		_, err = svc.ChangeStatus(ctx, l.ID, "u1", domain.StatusActive)
		require.NoError(t, err)

		stored, err := leaders.GetByID(ctx, l.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusActive, stored.Status)
		noteRepo.AssertExpectations(t)
	})
}

func TestLeaderService_FollowUpsAndAttendance(t *testing.T) {
	ctx := context.Background()
	svc, _ := newLeaderService(t)

	due, err := svc.Create(ctx, services.CreateLeaderInput{OwnerID: "u1", Name: "Due"})
	require.NoError(t, err)
	later, err := svc.Create(ctx, services.CreateLeaderInput{OwnerID: "u1", Name: "Later"})
	require.NoError(t, err)

	_, err = svc.SetFollowUp(ctx, due.ID, "u1", day(2025, 3, 10))
	require.NoError(t, err)
	_, err = svc.SetFollowUp(ctx, later.ID, "u1", day(2025, 3, 11))
	require.NoError(t, err)

	list, err := svc.FollowUpsDue(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, due.ID, list[0].ID)

	cleared, err := svc.ClearFollowUp(ctx, due.ID, "u1")
	require.NoError(t, err)
	assert.False(t, cleared.FollowUpRequired)
	assert.Nil(t, cleared.FollowUpDate)

	t.Run("Success: Zero date records today", func(t *testing.T) {
		l, err := svc.RecordAttendance(ctx, later.ID, "u1", time.Time{})
		require.NoError(t, err)
		require.NotNil(t, l.LastAttendance)
		assert.Equal(t, "2025-03-10", domain.FormatDate(*l.LastAttendance))
	})

	t.Run("Success: Older attendance does not overwrite", func(t *testing.T) {
		l, err := svc.RecordAttendance(ctx, later.ID, "u1", day(2025, 2, 1))
		require.NoError(t, err)
		assert.Equal(t, "2025-03-10", domain.FormatDate(*l.LastAttendance))
	})

	t.Run("Fail: Invalid status filter", func(t *testing.T) {
		_, err := svc.List(ctx, "u1", domain.LeaderFilter{Status: "bogus"})
		assert.ErrorIs(t, err, domain.ErrInvalidLeaderStatus)
	})
}
