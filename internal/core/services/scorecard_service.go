package services

import (
	"context"
	"fmt"
	"time"

	"github.com/comitanigiacomo/circle-leader-engine/internal/core/domain"
)

// TrendCache memoizes trend reports. Implemented by cache.TTLCache.
type TrendCache interface {
	GetOrCompute(key string, compute func() (domain.WeeklyTrends, error)) (domain.WeeklyTrends, error)
	InvalidatePrefix(prefix string)
}

type ScorecardService struct {
	repo    domain.ScorecardRepository
	leaders domain.LeaderRepository
	cache   TrendCache
	clock   domain.Clock
}

func NewScorecardService(repo domain.ScorecardRepository, leaders domain.LeaderRepository, cache TrendCache, clock domain.Clock) *ScorecardService {
	if clock == nil {
		clock = domain.SystemClock{}
	}
	return &ScorecardService{
		repo:    repo,
		leaders: leaders,
		cache:   cache,
		clock:   clock,
	}
}

type RecordScorecardInput struct {
	LeaderID   string
	UserID     string
	ScoredDate time.Time
	Reach      *int
	Connect    *int
	Disciple   *int
	Develop    *int
	Notes      string
}

type TrendsInput struct {
	LeaderID           string
	UserID             string
	MaxWeeks           int
	IncludeCurrentWeek bool
}

func trendKeyPrefix(leaderID string) string {
	return fmt.Sprintf("trends:%s:", leaderID)
}

func (s *ScorecardService) checkLeader(ctx context.Context, leaderID, userID string) error {
	leader, err := s.leaders.GetByID(ctx, leaderID)
	if err != nil {
		return err
	}
	if leader.OwnerID != userID {
		return domain.ErrLeaderNotFound
	}
	return nil
}

func (s *ScorecardService) Record(ctx context.Context, input RecordScorecardInput) (*domain.ScorecardRating, error) {
	scoredDate := input.ScoredDate
	if scoredDate.IsZero() {
		scoredDate = domain.Today(s.clock)
	}

	rating, err := domain.NewScorecardRating(input.LeaderID, input.UserID, scoredDate, domain.Scores{
		Reach:    input.Reach,
		Connect:  input.Connect,
		Disciple: input.Disciple,
		Develop:  input.Develop,
	}, input.Notes)
	if err != nil {
		return nil, err
	}

	if err := s.checkLeader(ctx, input.LeaderID, input.UserID); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, rating); err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.InvalidatePrefix(trendKeyPrefix(input.LeaderID))
	}
	return rating, nil
}

func (s *ScorecardService) ListByLeader(ctx context.Context, leaderID, userID string) ([]*domain.ScorecardRating, error) {
	if err := s.checkLeader(ctx, leaderID, userID); err != nil {
		return nil, err
	}
	return s.repo.ListByLeaderID(ctx, leaderID)
}

// Trends builds the weekly trend report for a leader. Reports are cached per
// leader, options and current day, and dropped whenever a new rating is recorded.
func (s *ScorecardService) Trends(ctx context.Context, input TrendsInput) (*domain.WeeklyTrends, error) {
	if input.MaxWeeks < 0 {
		input.MaxWeeks = 0
	}
	if err := s.checkLeader(ctx, input.LeaderID, input.UserID); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	compute := func() (domain.WeeklyTrends, error) {
		cards, err := s.repo.ListByLeaderID(ctx, input.LeaderID)
		if err != nil {
			return domain.WeeklyTrends{}, err
		}
		return domain.ComputeWeeklyTrends(domain.RatingsFromScorecards(cards), domain.TrendOptions{
			MaxWeeks:           input.MaxWeeks,
			IncludeCurrentWeek: input.IncludeCurrentWeek,
			Now:                now,
		}), nil
	}

	if s.cache == nil {
		trends, err := compute()
		if err != nil {
			return nil, err
		}
		return &trends, nil
	}

	key := fmt.Sprintf("%s%d:%t:%s", trendKeyPrefix(input.LeaderID), input.MaxWeeks, input.IncludeCurrentWeek,
		domain.FormatDate(domain.Today(s.clock)))

	trends, err := s.cache.GetOrCompute(key, compute)
	if err != nil {
		return nil, err
	}
	return &trends, nil
}
