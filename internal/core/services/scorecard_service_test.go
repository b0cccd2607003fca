package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comitanigiacomo/circle-leader-engine/internal/adapters/cache"
	"github.com/comitanigiacomo/circle-leader-engine/internal/adapters/repository"
	"github.com/comitanigiacomo/circle-leader-engine/internal/core/domain"
	"github.com/comitanigiacomo/circle-leader-engine/internal/core/services"
)

func TestScorecardService(t *testing.T) {
	ctx := context.Background()
	clock := noonCST(2025, 3, 10)

	leaders := repository.NewInMemoryLeaderRepository()
	leader, err := domain.NewCircleLeader("u1", domain.LeaderDetails{Name: "Maria"}, "")
	require.NoError(t, err)
	require.NoError(t, leaders.Create(ctx, leader))

	trendCache := cache.NewTTLCache[domain.WeeklyTrends](time.Hour, clock)
	svc := services.NewScorecardService(repository.NewInMemoryScorecardRepository(), leaders, trendCache, clock)

	record := func(d time.Time, reach int) {
		t.Helper()
		_, err := svc.Record(ctx, services.RecordScorecardInput{LeaderID: leader.ID, UserID: "u1", ScoredDate: d, Reach: ptr(reach)})
		require.NoError(t, err)
	}

	t.Run("Fail: Validation and ownership", func(t *testing.T) {
		_, err := svc.Record(ctx, services.RecordScorecardInput{LeaderID: leader.ID, UserID: "u1", Reach: ptr(6)})
		assert.ErrorIs(t, err, domain.ErrScoreOutOfRange)

		_, err = svc.Record(ctx, services.RecordScorecardInput{LeaderID: leader.ID, UserID: "u1"})
		assert.ErrorIs(t, err, domain.ErrScorecardEmpty)

		_, err = svc.Record(ctx, services.RecordScorecardInput{LeaderID: leader.ID, UserID: "u2", Reach: ptr(3)})
		assert.ErrorIs(t, err, domain.ErrLeaderNotFound)

		_, err = svc.Trends(ctx, services.TrendsInput{LeaderID: leader.ID, UserID: "u2"})
		assert.ErrorIs(t, err, domain.ErrLeaderNotFound)
	})

	record(day(2025, 2, 25), 2)
	record(day(2025, 3, 4), 4)

	t.Run("Success: Completed weeks only by default", func(t *testing.T) {
		trends, err := svc.Trends(ctx, services.TrendsInput{LeaderID: leader.ID, UserID: "u1"})
		require.NoError(t, err)

		assert.Equal(t, []string{"2025-03-01", "2025-03-08"}, trends.AllWeeks)
		require.NotNil(t, trends.Reach.CurrentValue)
		assert.Equal(t, 4.0, *trends.Reach.CurrentValue)
		require.NotNil(t, trends.Reach.WeekOverWeekDelta)
		assert.Equal(t, 2.0, *trends.Reach.WeekOverWeekDelta)
		assert.Nil(t, trends.Connect.CurrentValue)
		assert.Equal(t, 1, trendCache.Len())
	})

	t.Run("Success: Recording invalidates cached reports", func(t *testing.T) {
		record(day(2025, 3, 3), 5)
		assert.Equal(t, 0, trendCache.Len())

		trends, err := svc.Trends(ctx, services.TrendsInput{LeaderID: leader.ID, UserID: "u1"})
		require.NoError(t, err)
		assert.Equal(t, 4.5, *trends.Reach.CurrentValue)
	})

	t.Run("Success: Current week and max weeks", func(t *testing.T) {
		record(time.Time{}, 1)

		trends, err := svc.Trends(ctx, services.TrendsInput{LeaderID: leader.ID, UserID: "u1", IncludeCurrentWeek: true})
		require.NoError(t, err)
		assert.Equal(t, []string{"2025-03-01", "2025-03-08", "2025-03-15"}, trends.AllWeeks)

		trends, err = svc.Trends(ctx, services.TrendsInput{LeaderID: leader.ID, UserID: "u1", IncludeCurrentWeek: true, MaxWeeks: 1})
		require.NoError(t, err)
		assert.Equal(t, []string{"2025-03-15"}, trends.AllWeeks)
	})

	t.Run("Success: List oldest first", func(t *testing.T) {
		list, err := svc.ListByLeader(ctx, leader.ID, "u1")
		require.NoError(t, err)
		require.Len(t, list, 4)
		assert.Equal(t, "2025-02-25", domain.FormatDate(list[0].ScoredDate))
		assert.Equal(t, "2025-03-10", domain.FormatDate(list[3].ScoredDate))
	})
}

func TestScorecardService_WithoutCache(t *testing.T) {
	ctx := context.Background()
	leaders := repository.NewInMemoryLeaderRepository()
	leader, err := domain.NewCircleLeader("u1", domain.LeaderDetails{Name: "Jo"}, "")
	require.NoError(t, err)
	require.NoError(t, leaders.Create(ctx, leader))

	svc := services.NewScorecardService(repository.NewInMemoryScorecardRepository(), leaders, nil, noonCST(2025, 3, 10))

	trends, err := svc.Trends(ctx, services.TrendsInput{LeaderID: leader.ID, UserID: "u1"})
	require.NoError(t, err)
	assert.Empty(t, trends.AllWeeks)
	assert.Empty(t, trends.Reach.Data)
}
