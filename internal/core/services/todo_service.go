package services

import (
	"context"
	"fmt"
	"time"

	"github.com/comitanigiacomo/circle-leader-engine/internal/core/domain"
)

type TodoService struct {
	repo  domain.TodoRepository
	clock domain.Clock
}

func NewTodoService(repo domain.TodoRepository, clock domain.Clock) *TodoService {
	if clock == nil {
		clock = domain.SystemClock{}
	}
	return &TodoService{
		repo:  repo,
		clock: clock,
	}
}

type CreateTodoInput struct {
	UserID         string
	Text           string
	LeaderID       *string
	DueDate        *time.Time
	RepeatRule     string
	RepeatInterval int
	RepeatUntil    *time.Time
}

type DueTodos struct {
	Overdue []*domain.Todo `json:"overdue"`
	Today   []*domain.Todo `json:"today"`
}

// Create stores a todo. A recurring todo becomes the series master and its
// occurrences up to RepeatUntil (or one year past the first due date) are
// stored with it. The master is always the first element of the result.
func (s *TodoService) Create(ctx context.Context, input CreateTodoInput) ([]*domain.Todo, error) {
	todo, err := domain.NewTodo(input.UserID, input.Text, input.DueDate, input.LeaderID)
	if err != nil {
		return nil, err
	}

	created := []*domain.Todo{todo}

	if input.RepeatRule != "" {
		rule, err := domain.ParseRepeatRule(input.RepeatRule)
		if err != nil {
			return nil, err
		}

		interval := input.RepeatInterval
		if interval == 0 {
			interval = 1
		}

		if err := todo.MakeRecurring(rule, interval); err != nil {
			return nil, err
		}

		horizon := todo.DueDate.Add(domain.DefaultSeriesHorizon)
		if input.RepeatUntil != nil {
			horizon = *input.RepeatUntil
		}
		if err := domain.CheckSeriesHorizon(*todo.DueDate, horizon); err != nil {
			return nil, err
		}

		occurrences, err := todo.Occurrences(horizon)
		if err != nil {
			return nil, err
		}
		created = append(created, occurrences...)
	}

	if err := s.repo.Create(ctx, created...); err != nil {
		return nil, err
	}
	return created, nil
}

func (s *TodoService) get(ctx context.Context, id, userID string) (*domain.Todo, error) {
	todo, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if todo.UserID != userID {
		return nil, domain.ErrTodoNotFound
	}
	return todo, nil
}

func (s *TodoService) List(ctx context.Context, userID string, includeCompleted bool) ([]*domain.Todo, error) {
	return s.repo.ListByUserID(ctx, userID, includeCompleted)
}

// Due splits the user's open todos into overdue and due today, relative to
// the current day in CentralStandardTime.
func (s *TodoService) Due(ctx context.Context, userID string) (*DueTodos, error) {
	return s.dueOn(ctx, userID, domain.Today(s.clock))
}

func (s *TodoService) dueOn(ctx context.Context, userID string, today time.Time) (*DueTodos, error) {
	todos, err := s.repo.ListOpenDue(ctx, userID, today)
	if err != nil {
		return nil, err
	}

	due := &DueTodos{
		Overdue: []*domain.Todo{},
		Today:   []*domain.Todo{},
	}
	for _, t := range todos {
		switch {
		case t.IsOverdue(today):
			due.Overdue = append(due.Overdue, t)
		case t.IsDueOn(today):
			due.Today = append(due.Today, t)
		}
	}
	return due, nil
}

func (s *TodoService) Complete(ctx context.Context, id, userID string) (*domain.Todo, error) {
	todo, err := s.get(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if todo.Completed {
		return todo, nil
	}

	todo.Complete(s.clock.Now())
	if err := s.repo.Update(ctx, todo); err != nil {
		return nil, err
	}
	return todo, nil
}

func (s *TodoService) Reopen(ctx context.Context, id, userID string) (*domain.Todo, error) {
	todo, err := s.get(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if !todo.Completed {
		return todo, nil
	}

	todo.Reopen()
	if err := s.repo.Update(ctx, todo); err != nil {
		return nil, err
	}
	return todo, nil
}

// Delete removes a todo. With series set, the open occurrences of the same
// series due on or after it are removed too. It returns how many todos were deleted.
func (s *TodoService) Delete(ctx context.Context, id, userID string, series bool) (int, error) {
	todo, err := s.get(ctx, id, userID)
	if err != nil {
		return 0, err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return 0, err
	}
	deleted := 1

	if series && todo.SeriesID != nil && todo.DueDate != nil {
		n, err := s.repo.DeleteOpenInSeries(ctx, *todo.SeriesID, *todo.DueDate)
		if err != nil {
			return deleted, fmt.Errorf("todo service: delete series %s: %w", *todo.SeriesID, err)
		}
		deleted += n
	}
	return deleted, nil
}

// PreviewDueDates shows the dates a recurring todo would produce without storing anything.
func (s *TodoService) PreviewDueDates(start, rule string, interval int, horizon string) ([]string, string, error) {
	startDate, startErr := domain.ParseDate(start)
	horizonDate, horizonErr := domain.ParseDate(horizon)
	if startErr == nil && horizonErr == nil {
		if err := domain.CheckSeriesHorizon(startDate, horizonDate); err != nil {
			return nil, "", err
		}
	}

	dates, err := domain.GenerateDueDateStrings(start, rule, interval, horizon)
	if err != nil {
		return nil, "", err
	}
	parsed, _ := domain.ParseRepeatRule(rule)
	return dates, domain.BuildRepeatLabel(parsed, interval), nil
}
