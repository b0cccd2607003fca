package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	MinScore = 1
	MaxScore = 5
)

// ScorecardRating is one evaluation of a leader across the four dimensions.
type ScorecardRating struct {
	ID         string    `json:"id" db:"id"`
	LeaderID   string    `json:"leader_id" db:"leader_id"`
	UserID     string    `json:"user_id" db:"user_id"`
	ScoredDate time.Time `json:"scored_date" db:"scored_date"`
	Reach      *int      `json:"reach,omitempty" db:"reach"`
	Connect    *int      `json:"connect,omitempty" db:"connect"`
	Disciple   *int      `json:"disciple,omitempty" db:"disciple"`
	Develop    *int      `json:"develop,omitempty" db:"develop"`
	Notes      string    `json:"notes,omitempty" db:"notes"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

type Scores struct {
	Reach    *int
	Connect  *int
	Disciple *int
	Develop  *int
}

func (s Scores) validate() error {
	present := 0
	for _, v := range []*int{s.Reach, s.Connect, s.Disciple, s.Develop} {
		if v == nil {
			continue
		}
		if *v < MinScore || *v > MaxScore {
			return ErrScoreOutOfRange
		}
		present++
	}
	if present == 0 {
		return ErrScorecardEmpty
	}
	return nil
}

func NewScorecardRating(leaderID, userID string, scoredDate time.Time, scores Scores, notes string) (*ScorecardRating, error) {
	if scoredDate.IsZero() {
		return nil, ErrScorecardNoDate
	}
	if err := scores.validate(); err != nil {
		return nil, err
	}

	return &ScorecardRating{
		ID:         uuid.NewString(),
		LeaderID:   leaderID,
		UserID:     userID,
		ScoredDate: CivilDate(scoredDate, nil),
		Reach:      scores.Reach,
		Connect:    scores.Connect,
		Disciple:   scores.Disciple,
		Develop:    scores.Develop,
		Notes:      strings.TrimSpace(notes),
		CreatedAt:  time.Now().UTC(),
	}, nil
}

// Rating converts the stored scorecard into the aggregator's input shape.
func (s *ScorecardRating) Rating() Rating {
	conv := func(v *int) *float64 {
		if v == nil {
			return nil
		}
		f := float64(*v)
		return &f
	}
	return Rating{
		ScoredDate: FormatDate(s.ScoredDate),
		Reach:      conv(s.Reach),
		Connect:    conv(s.Connect),
		Disciple:   conv(s.Disciple),
		Develop:    conv(s.Develop),
	}
}

func RatingsFromScorecards(cards []*ScorecardRating) []Rating {
	out := make([]Rating, 0, len(cards))
	for _, c := range cards {
		out = append(out, c.Rating())
	}
	return out
}
