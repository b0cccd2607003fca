package domain

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

const MaxTodoTextLen = 500

// DefaultSeriesHorizon is how far ahead occurrences are materialized when a
// recurring todo has no explicit end.
const DefaultSeriesHorizon = 365 * 24 * time.Hour

// MaxSeriesYears bounds how far past its first due date a stored or
// previewed series may run.
const MaxSeriesYears = 5

// CheckSeriesHorizon rejects a horizon more than MaxSeriesYears after start.
func CheckSeriesHorizon(start, horizon time.Time) error {
	limit := CivilDate(start, nil).AddDate(MaxSeriesYears, 0, 0)
	if CivilDate(horizon, nil).After(limit) {
		return ErrSeriesTooLong
	}
	return nil
}

type Todo struct {
	ID             string     `json:"id" db:"id"`
	UserID         string     `json:"user_id" db:"user_id"`
	LeaderID       *string    `json:"leader_id,omitempty" db:"leader_id"`
	Text           string     `json:"text" db:"text"`
	DueDate        *time.Time `json:"due_date,omitempty" db:"due_date"`
	Completed      bool       `json:"completed" db:"completed"`
	CompletedAt    *time.Time `json:"completed_at,omitempty" db:"completed_at"`
	RepeatRule     RepeatRule `json:"repeat_rule,omitempty" db:"repeat_rule"`
	RepeatInterval int        `json:"repeat_interval,omitempty" db:"repeat_interval"`
	SeriesID       *string    `json:"series_id,omitempty" db:"series_id"`

	Version   int       `json:"version" db:"version"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

func NewTodo(userID, text string, due *time.Time, leaderID *string) (*Todo, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, ErrUnauthorized
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrTodoTextEmpty
	}
	if utf8.RuneCountInString(text) > MaxTodoTextLen {
		return nil, ErrTodoTextTooLong
	}

	if due != nil {
		d := CivilDate(*due, nil)
		due = &d
	}
	if leaderID != nil && strings.TrimSpace(*leaderID) == "" {
		leaderID = nil
	}

	now := time.Now().UTC()
	return &Todo{
		ID:        uuid.NewString(),
		UserID:    userID,
		LeaderID:  leaderID,
		Text:      text,
		DueDate:   due,
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// MakeRecurring turns the todo into the master of a series.
func (t *Todo) MakeRecurring(rule RepeatRule, interval int) error {
	if !rule.Valid() {
		return ErrInvalidRepeatRule
	}
	if interval < 1 {
		return ErrInvalidInterval
	}
	if t.DueDate == nil {
		return ErrRecurringNeedsDate
	}

	id := t.ID
	t.RepeatRule = rule
	t.RepeatInterval = interval
	t.SeriesID = &id
	return nil
}

func (t *Todo) IsRecurring() bool {
	return t.RepeatRule != ""
}

func (t *Todo) RepeatLabel() string {
	if !t.IsRecurring() {
		return ""
	}
	return BuildRepeatLabel(t.RepeatRule, t.RepeatInterval)
}

// Occurrences materializes the series after this todo's due date, up to and
// including horizon.
func (t *Todo) Occurrences(horizon time.Time) ([]*Todo, error) {
	if !t.IsRecurring() || t.DueDate == nil {
		return nil, ErrRecurringNeedsDate
	}

	dates, err := GenerateDueDates(*t.DueDate, t.RepeatRule, t.RepeatInterval, horizon)
	if err != nil {
		return nil, err
	}

	occurrences := make([]*Todo, 0, len(dates))
	for _, d := range dates {
		due := d
		o := *t
		o.ID = uuid.NewString()
		o.DueDate = &due
		o.Completed = false
		o.CompletedAt = nil
		occurrences = append(occurrences, &o)
	}
	return occurrences, nil
}

func (t *Todo) Complete(at time.Time) {
	if t.Completed {
		return
	}
	at = at.UTC()
	t.Completed = true
	t.CompletedAt = &at
	t.UpdatedAt = at
}

func (t *Todo) Reopen() {
	if !t.Completed {
		return
	}
	t.Completed = false
	t.CompletedAt = nil
	t.UpdatedAt = time.Now().UTC()
}

// IsOverdue reports an open todo whose due date is before today.
func (t *Todo) IsOverdue(today time.Time) bool {
	return !t.Completed && t.DueDate != nil && t.DueDate.Before(today)
}

func (t *Todo) IsDueOn(today time.Time) bool {
	return !t.Completed && t.DueDate != nil && t.DueDate.Equal(today)
}
