package services_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/comitanigiacomo/circle-leader-engine/internal/core/domain"
)

func ptr[T any](v T) *T {
	return &v
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// noon on the given day at UTC-6, which is that same calendar day.
func noonCST(y int, m time.Month, d int) domain.FixedClock {
	return domain.FixedClock{At: time.Date(y, m, d, 18, 0, 0, 0, time.UTC)}
}

type MockNoteRepo struct {
	mock.Mock
}

func (m *MockNoteRepo) Create(ctx context.Context, note *domain.Note) error {
	return m.Called(ctx, note).Error(0)
}

func (m *MockNoteRepo) GetByID(ctx context.Context, id string) (*domain.Note, error) {
	args := m.Called(ctx, id)
	if n := args.Get(0); n != nil {
		return n.(*domain.Note), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockNoteRepo) ListByLeaderID(ctx context.Context, leaderID string) ([]*domain.Note, error) {
	args := m.Called(ctx, leaderID)
	return args.Get(0).([]*domain.Note), args.Error(1)
}

func (m *MockNoteRepo) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type MockEmailSender struct {
	mock.Mock
}

func (m *MockEmailSender) Send(ctx context.Context, msg domain.EmailMessage) error {
	return m.Called(ctx, msg).Error(0)
}
