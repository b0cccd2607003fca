package http_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comitanigiacomo/circle-leader-engine/internal/core/domain"
)

func TestScorecardHandler_Trends(t *testing.T) {
	s := setupServer(t, nil)
	leader := s.createLeader(t, "Maria")
	base := "/api/v1/leaders/" + leader.ID

	for _, body := range []map[string]any{
		{"scored_date": "2025-02-24", "reach": 3},
		{"scored_date": "2025-03-04", "reach": 4, "connect": 2},
		{"scored_date": "2025-03-11", "reach": 5},
	} {
		w := s.do(t, http.MethodPost, base+"/scorecards", testUser, body)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}

	w := s.do(t, http.MethodGet, base+"/scorecards", testUser, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]domain.ScorecardRating](t, w), 3)

	t.Run("Success: Current week is excluded by default", func(t *testing.T) {
		w := s.do(t, http.MethodGet, base+"/trends", testUser, nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		trends := decode[domain.WeeklyTrends](t, w)

		assert.Equal(t, []string{"2025-03-01", "2025-03-08"}, trends.AllWeeks)
		require.NotNil(t, trends.Reach.CurrentValue)
		assert.Equal(t, 4.0, *trends.Reach.CurrentValue)
		require.NotNil(t, trends.Reach.WeekOverWeekDelta)
		assert.Equal(t, 1.0, *trends.Reach.WeekOverWeekDelta)
		assert.Len(t, trends.Connect.Data, 2)
	})

	t.Run("Success: Include current week", func(t *testing.T) {
		w := s.do(t, http.MethodGet, base+"/trends?include_current=true&max_weeks=2", testUser, nil)
		require.Equal(t, http.StatusOK, w.Code)
		trends := decode[domain.WeeklyTrends](t, w)

		assert.Equal(t, []string{"2025-03-08", "2025-03-15"}, trends.AllWeeks)
		assert.Equal(t, 5.0, *trends.Reach.CurrentValue)
	})

	t.Run("Success: New rating refreshes cached trends", func(t *testing.T) {
		w := s.do(t, http.MethodPost, base+"/scorecards", testUser, map[string]any{"scored_date": "2025-03-05", "reach": 2})
		require.Equal(t, http.StatusCreated, w.Code)

		w = s.do(t, http.MethodGet, base+"/trends", testUser, nil)
		trends := decode[domain.WeeklyTrends](t, w)
		assert.Equal(t, 3.0, *trends.Reach.CurrentValue)
	})

	t.Run("Fail: Negative max_weeks", func(t *testing.T) {
		w := s.do(t, http.MethodGet, base+"/trends?max_weeks=-1", testUser, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Fail: Other user's leader", func(t *testing.T) {
		w := s.do(t, http.MethodGet, base+"/trends", "intruder", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestScorecardHandler_RecordValidation(t *testing.T) {
	s := setupServer(t, nil)
	leader := s.createLeader(t, "Maria")
	path := "/api/v1/leaders/" + leader.ID + "/scorecards"

	t.Run("Fail: No scores", func(t *testing.T) {
		w := s.do(t, http.MethodPost, path, testUser, map[string]any{"notes": "nothing"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Fail: Score out of range", func(t *testing.T) {
		w := s.do(t, http.MethodPost, path, testUser, map[string]any{"reach": 6})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Fail: Unknown leader", func(t *testing.T) {
		w := s.do(t, http.MethodPost, "/api/v1/leaders/missing/scorecards", testUser, map[string]any{"reach": 3})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Success: Date defaults to today", func(t *testing.T) {
		w := s.do(t, http.MethodPost, path, testUser, map[string]any{"develop": 4})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		assert.Equal(t, "2025-03-12", domain.FormatDate(decode[domain.ScorecardRating](t, w).ScoredDate))
	})
}
