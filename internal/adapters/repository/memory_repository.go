package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/comitanigiacomo/circle-leader-engine/internal/core/domain"
)

// In-memory repositories back the dev server when no database is configured
// and the service-level tests. Values are copied on the way in and out so
// callers cannot mutate stored state.

type InMemoryLeaderRepository struct {
	store map[string]domain.CircleLeader

	mu sync.RWMutex
}

func NewInMemoryLeaderRepository() *InMemoryLeaderRepository {
	return &InMemoryLeaderRepository{
		store: make(map[string]domain.CircleLeader),
	}
}

func (r *InMemoryLeaderRepository) Create(ctx context.Context, leader *domain.CircleLeader) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.store[leader.ID]; ok {
		return domain.ErrLeaderConflict
	}
	leader.Version = 1
	r.store[leader.ID] = *leader
	return nil
}

func (r *InMemoryLeaderRepository) GetByID(ctx context.Context, id string) (*domain.CircleLeader, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	l, ok := r.store[id]
	if !ok || l.DeletedAt != nil {
		return nil, domain.ErrLeaderNotFound
	}
	return &l, nil
}

func matchesFilter(l domain.CircleLeader, f domain.LeaderFilter) bool {
	if c := strings.TrimSpace(f.Campus); c != "" && !strings.EqualFold(l.Campus, c) {
		return false
	}
	if f.Status != "" && l.Status != f.Status {
		return false
	}
	if q := strings.ToLower(strings.TrimSpace(f.Search)); q != "" {
		if !strings.Contains(strings.ToLower(l.Name), q) && !strings.Contains(strings.ToLower(l.Email), q) {
			return false
		}
	}
	if f.FollowUpOnly && !l.FollowUpRequired {
		return false
	}
	return true
}

func (r *InMemoryLeaderRepository) List(ctx context.Context, ownerID string, filter domain.LeaderFilter) ([]*domain.CircleLeader, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	leaders := []*domain.CircleLeader{}
	for _, l := range r.store {
		if l.OwnerID != ownerID || l.DeletedAt != nil || !matchesFilter(l, filter) {
			continue
		}
		c := l
		leaders = append(leaders, &c)
	}

	sort.Slice(leaders, func(i, j int) bool {
		if leaders[i].Name != leaders[j].Name {
			return leaders[i].Name < leaders[j].Name
		}
		return leaders[i].CreatedAt.Before(leaders[j].CreatedAt)
	})
	return leaders, nil
}

func (r *InMemoryLeaderRepository) Update(ctx context.Context, leader *domain.CircleLeader) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.store[leader.ID]
	if !ok || stored.DeletedAt != nil {
		return domain.ErrLeaderNotFound
	}
	if stored.Version != leader.Version {
		return domain.ErrLeaderConflict
	}

	leader.Version++
	leader.UpdatedAt = time.Now().UTC()
	r.store[leader.ID] = *leader
	return nil
}

func (r *InMemoryLeaderRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	l, ok := r.store[id]
	if !ok || l.DeletedAt != nil {
		return domain.ErrLeaderNotFound
	}
	now := time.Now().UTC()
	l.DeletedAt = &now
	l.Version++
	r.store[id] = l
	return nil
}

func (r *InMemoryLeaderRepository) ListFollowUpsDue(ctx context.Context, ownerID string, day time.Time) ([]*domain.CircleLeader, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	leaders := []*domain.CircleLeader{}
	for _, l := range r.store {
		if l.OwnerID != ownerID || l.DeletedAt != nil || !l.FollowUpDue(day) {
			continue
		}
		c := l
		leaders = append(leaders, &c)
	}

	sort.Slice(leaders, func(i, j int) bool {
		a, b := leaders[i].FollowUpDate, leaders[j].FollowUpDate
		switch {
		case a == nil && b != nil:
			return true
		case a != nil && b == nil:
			return false
		case a != nil && b != nil && !a.Equal(*b):
			return a.Before(*b)
		}
		return leaders[i].Name < leaders[j].Name
	})
	return leaders, nil
}

type InMemoryNoteRepository struct {
	store map[string]domain.Note

	mu sync.RWMutex
}

func NewInMemoryNoteRepository() *InMemoryNoteRepository {
	return &InMemoryNoteRepository{store: make(map[string]domain.Note)}
}

func (r *InMemoryNoteRepository) Create(ctx context.Context, note *domain.Note) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.store[note.ID] = *note
	return nil
}

func (r *InMemoryNoteRepository) GetByID(ctx context.Context, id string) (*domain.Note, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n, ok := r.store[id]
	if !ok {
		return nil, domain.ErrNoteNotFound
	}
	return &n, nil
}

func (r *InMemoryNoteRepository) ListByLeaderID(ctx context.Context, leaderID string) ([]*domain.Note, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	notes := []*domain.Note{}
	for _, n := range r.store {
		if n.LeaderID == leaderID {
			c := n
			notes = append(notes, &c)
		}
	}
	sort.Slice(notes, func(i, j int) bool {
		return notes[i].CreatedAt.After(notes[j].CreatedAt)
	})
	return notes, nil
}

func (r *InMemoryNoteRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.store[id]; !ok {
		return domain.ErrNoteNotFound
	}
	delete(r.store, id)
	return nil
}

type InMemoryTodoRepository struct {
	store map[string]domain.Todo

	mu sync.RWMutex
}

func NewInMemoryTodoRepository() *InMemoryTodoRepository {
	return &InMemoryTodoRepository{store: make(map[string]domain.Todo)}
}

func (r *InMemoryTodoRepository) Create(ctx context.Context, todos ...*domain.Todo) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, t := range todos {
		if _, ok := r.store[t.ID]; ok {
			return domain.ErrTodoConflict
		}
	}
	for _, t := range todos {
		t.Version = 1
		r.store[t.ID] = *t
	}
	return nil
}

func (r *InMemoryTodoRepository) GetByID(ctx context.Context, id string) (*domain.Todo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.store[id]
	if !ok {
		return nil, domain.ErrTodoNotFound
	}
	return &t, nil
}

func sortTodos(todos []*domain.Todo) {
	sort.Slice(todos, func(i, j int) bool {
		a, b := todos[i].DueDate, todos[j].DueDate
		switch {
		case a != nil && b == nil:
			return true
		case a == nil && b != nil:
			return false
		case a != nil && b != nil && !a.Equal(*b):
			return a.Before(*b)
		}
		return todos[i].CreatedAt.Before(todos[j].CreatedAt)
	})
}

func (r *InMemoryTodoRepository) ListByUserID(ctx context.Context, userID string, includeCompleted bool) ([]*domain.Todo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	todos := []*domain.Todo{}
	for _, t := range r.store {
		if t.UserID != userID || (t.Completed && !includeCompleted) {
			continue
		}
		c := t
		todos = append(todos, &c)
	}
	sortTodos(todos)
	return todos, nil
}

func (r *InMemoryTodoRepository) ListOpenDue(ctx context.Context, userID string, day time.Time) ([]*domain.Todo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	todos := []*domain.Todo{}
	for _, t := range r.store {
		if t.UserID != userID || t.Completed || t.DueDate == nil || t.DueDate.After(day) {
			continue
		}
		c := t
		todos = append(todos, &c)
	}
	sortTodos(todos)
	return todos, nil
}

func (r *InMemoryTodoRepository) Update(ctx context.Context, todo *domain.Todo) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.store[todo.ID]
	if !ok {
		return domain.ErrTodoNotFound
	}
	if stored.Version != todo.Version {
		return domain.ErrTodoConflict
	}
	todo.Version++
	r.store[todo.ID] = *todo
	return nil
}

func (r *InMemoryTodoRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.store[id]; !ok {
		return domain.ErrTodoNotFound
	}
	delete(r.store, id)
	return nil
}

func (r *InMemoryTodoRepository) DeleteOpenInSeries(ctx context.Context, seriesID string, from time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	deleted := 0
	for id, t := range r.store {
		if t.SeriesID == nil || *t.SeriesID != seriesID || t.Completed || t.DueDate == nil || t.DueDate.Before(from) {
			continue
		}
		delete(r.store, id)
		deleted++
	}
	return deleted, nil
}

type InMemoryScorecardRepository struct {
	store []domain.ScorecardRating

	mu sync.RWMutex
}

func NewInMemoryScorecardRepository() *InMemoryScorecardRepository {
	return &InMemoryScorecardRepository{}
}

func (r *InMemoryScorecardRepository) Create(ctx context.Context, rating *domain.ScorecardRating) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.store = append(r.store, *rating)
	return nil
}

func (r *InMemoryScorecardRepository) ListByLeaderID(ctx context.Context, leaderID string) ([]*domain.ScorecardRating, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ratings := []*domain.ScorecardRating{}
	for _, s := range r.store {
		if s.LeaderID == leaderID {
			c := s
			ratings = append(ratings, &c)
		}
	}
	sort.SliceStable(ratings, func(i, j int) bool {
		return ratings[i].ScoredDate.Before(ratings[j].ScoredDate)
	})
	return ratings, nil
}

type InMemoryUserRepository struct {
	store map[string]domain.User

	mu sync.RWMutex
}

func NewInMemoryUserRepository(users ...*domain.User) *InMemoryUserRepository {
	r := &InMemoryUserRepository{store: make(map[string]domain.User)}
	for _, u := range users {
		r.store[u.ID] = *u
	}
	return r
}

func (r *InMemoryUserRepository) Upsert(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.store[user.ID] = *user
	return nil
}

func (r *InMemoryUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.store[id]
	if !ok {
		return nil, domain.ErrRecipientNotFound
	}
	return &u, nil
}

func (r *InMemoryUserRepository) ListDigestRecipients(ctx context.Context) ([]*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := []*domain.User{}
	for _, u := range r.store {
		if u.DigestEnabled {
			c := u
			users = append(users, &c)
		}
	}
	sort.Slice(users, func(i, j int) bool {
		return users[i].CreatedAt.Before(users[j].CreatedAt)
	})
	return users, nil
}
