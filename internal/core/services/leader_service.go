package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/comitanigiacomo/circle-leader-engine/internal/core/domain"
)

type LeaderService struct {
	repo  domain.LeaderRepository
	notes domain.NoteRepository
	clock domain.Clock
}

func NewLeaderService(repo domain.LeaderRepository, notes domain.NoteRepository, clock domain.Clock) *LeaderService {
	if clock == nil {
		clock = domain.SystemClock{}
	}
	return &LeaderService{
		repo:  repo,
		notes: notes,
		clock: clock,
	}
}

type CreateLeaderInput struct {
	OwnerID     string
	Name        string
	Email       string
	Phone       string
	Campus      string
	CircleType  string
	MeetingDay  string
	MeetingTime string
	Frequency   string
	Status      string
}

type UpdateLeaderInput struct {
	ID          string
	OwnerID     string
	Name        string
	Email       string
	Phone       string
	Campus      string
	CircleType  string
	MeetingDay  string
	MeetingTime string
	Frequency   string
	Version     int
}

func mergeString(newVal, oldVal string) string {
	if newVal == "" {
		return oldVal
	}
	return newVal
}

func (s *LeaderService) Create(ctx context.Context, input CreateLeaderInput) (*domain.CircleLeader, error) {
	leader, err := domain.NewCircleLeader(input.OwnerID, domain.LeaderDetails{
		Name:        input.Name,
		Email:       input.Email,
		Phone:       input.Phone,
		Campus:      input.Campus,
		CircleType:  input.CircleType,
		MeetingDay:  input.MeetingDay,
		MeetingTime: input.MeetingTime,
		Frequency:   input.Frequency,
	}, domain.LeaderStatus(input.Status))
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, leader); err != nil {
		return nil, err
	}

	return leader, nil
}

// Get returns the leader only if it belongs to ownerID. Foreign leaders are
// reported as not found so their existence is not leaked.
func (s *LeaderService) Get(ctx context.Context, id, ownerID string) (*domain.CircleLeader, error) {
	leader, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if leader.OwnerID != ownerID {
		return nil, domain.ErrLeaderNotFound
	}
	return leader, nil
}

func (s *LeaderService) List(ctx context.Context, ownerID string, filter domain.LeaderFilter) ([]*domain.CircleLeader, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, domain.ErrInvalidLeaderStatus
	}
	return s.repo.List(ctx, ownerID, filter)
}

func (s *LeaderService) Update(ctx context.Context, input UpdateLeaderInput) (*domain.CircleLeader, error) {
	leader, err := s.Get(ctx, input.ID, input.OwnerID)
	if err != nil {
		return nil, err
	}

	if input.Version > 0 && leader.Version != input.Version {
		return nil, fmt.Errorf("%w: client v%d vs server v%d", domain.ErrLeaderConflict, input.Version, leader.Version)
	}

	current := leader.Details()
	err = leader.Update(domain.LeaderDetails{
		Name:        mergeString(input.Name, current.Name),
		Email:       mergeString(input.Email, current.Email),
		Phone:       mergeString(input.Phone, current.Phone),
		Campus:      mergeString(input.Campus, current.Campus),
		CircleType:  mergeString(input.CircleType, current.CircleType),
		MeetingDay:  mergeString(input.MeetingDay, current.MeetingDay),
		MeetingTime: mergeString(input.MeetingTime, current.MeetingTime),
		Frequency:   mergeString(input.Frequency, current.Frequency),
	})
	if err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, leader); err != nil {
		return nil, err
	}
	return leader, nil
}

// ChangeStatus moves the leader through the status workflow and leaves a
// system note on the leader's timeline.
func (s *LeaderService) ChangeStatus(ctx context.Context, id, ownerID string, status domain.LeaderStatus) (*domain.CircleLeader, error) {
	leader, err := s.Get(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}

	previous, err := leader.ChangeStatus(status)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, leader); err != nil {
		return nil, err
	}

	note := domain.NewStatusChangeNote(leader.ID, ownerID, previous, status)
	if err := s.notes.Create(ctx, note); err != nil {
		log.Printf("[LEADER] Status of %s changed but note was not saved: %v", leader.ID, err)
	}

	return leader, nil
}

func (s *LeaderService) SetFollowUp(ctx context.Context, id, ownerID string, date time.Time) (*domain.CircleLeader, error) {
	leader, err := s.Get(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}

	leader.SetFollowUp(date)
	if err := s.repo.Update(ctx, leader); err != nil {
		return nil, err
	}
	return leader, nil
}

func (s *LeaderService) ClearFollowUp(ctx context.Context, id, ownerID string) (*domain.CircleLeader, error) {
	leader, err := s.Get(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}

	leader.ClearFollowUp()
	if err := s.repo.Update(ctx, leader); err != nil {
		return nil, err
	}
	return leader, nil
}

func (s *LeaderService) RecordAttendance(ctx context.Context, id, ownerID string, date time.Time) (*domain.CircleLeader, error) {
	leader, err := s.Get(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}

	if date.IsZero() {
		date = domain.Today(s.clock)
	}
	leader.RecordAttendance(date)

	if err := s.repo.Update(ctx, leader); err != nil {
		return nil, err
	}
	return leader, nil
}

func (s *LeaderService) FollowUpsDue(ctx context.Context, ownerID string) ([]*domain.CircleLeader, error) {
	return s.repo.ListFollowUpsDue(ctx, ownerID, domain.Today(s.clock))
}

func (s *LeaderService) Delete(ctx context.Context, id, ownerID string) error {
	if _, err := s.Get(ctx, id, ownerID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
