package services

import (
	"context"

	"github.com/comitanigiacomo/circle-leader-engine/internal/core/domain"
)

type NoteService struct {
	repo    domain.NoteRepository
	leaders domain.LeaderRepository
}

func NewNoteService(repo domain.NoteRepository, leaders domain.LeaderRepository) *NoteService {
	return &NoteService{
		repo:    repo,
		leaders: leaders,
	}
}

func (s *NoteService) checkLeader(ctx context.Context, leaderID, userID string) error {
	leader, err := s.leaders.GetByID(ctx, leaderID)
	if err != nil {
		return err
	}
	if leader.OwnerID != userID {
		return domain.ErrLeaderNotFound
	}
	return nil
}

func (s *NoteService) Add(ctx context.Context, leaderID, userID, content string) (*domain.Note, error) {
	note, err := domain.NewNote(leaderID, userID, content)
	if err != nil {
		return nil, err
	}

	if err := s.checkLeader(ctx, leaderID, userID); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, note); err != nil {
		return nil, err
	}
	return note, nil
}

func (s *NoteService) ListByLeader(ctx context.Context, leaderID, userID string) ([]*domain.Note, error) {
	if err := s.checkLeader(ctx, leaderID, userID); err != nil {
		return nil, err
	}
	return s.repo.ListByLeaderID(ctx, leaderID)
}

func (s *NoteService) Delete(ctx context.Context, id, userID string) error {
	note, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if note.UserID != userID {
		return domain.ErrUnauthorized
	}
	if note.System {
		return domain.ErrNoteSystemOnly
	}
	return s.repo.Delete(ctx, id)
}
