package domain

import (
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
)

type LeaderStatus string

const (
	StatusInvited     LeaderStatus = "invited"
	StatusPipeline    LeaderStatus = "pipeline"
	StatusFollowUp    LeaderStatus = "follow-up"
	StatusActive      LeaderStatus = "active"
	StatusPaused      LeaderStatus = "paused"
	StatusOffBoarding LeaderStatus = "off-boarding"

	MaxLeaderNameLen = 100
)

func (s LeaderStatus) Valid() bool {
	switch s {
	case StatusInvited, StatusPipeline, StatusFollowUp, StatusActive, StatusPaused, StatusOffBoarding:
		return true
	}
	return false
}

type CircleLeader struct {
	ID               string       `json:"id" db:"id"`
	OwnerID          string       `json:"owner_id" db:"owner_id"`
	Name             string       `json:"name" db:"name"`
	Email            string       `json:"email,omitempty" db:"email"`
	Phone            string       `json:"phone,omitempty" db:"phone"`
	Campus           string       `json:"campus,omitempty" db:"campus"`
	CircleType       string       `json:"circle_type,omitempty" db:"circle_type"`
	MeetingDay       string       `json:"meeting_day,omitempty" db:"meeting_day"`
	MeetingTime      string       `json:"meeting_time,omitempty" db:"meeting_time"`
	Frequency        string       `json:"frequency,omitempty" db:"frequency"`
	Status           LeaderStatus `json:"status" db:"status"`
	FollowUpRequired bool         `json:"follow_up_required" db:"follow_up_required"`
	FollowUpDate     *time.Time   `json:"follow_up_date,omitempty" db:"follow_up_date"`
	LastAttendance   *time.Time   `json:"last_attendance,omitempty" db:"last_attendance"`

	Version   int        `json:"version" db:"version"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty" db:"deleted_at"`
}

// LeaderDetails are the free-form descriptive fields shared by create and update.
type LeaderDetails struct {
	Name        string
	Email       string
	Phone       string
	Campus      string
	CircleType  string
	MeetingDay  string
	MeetingTime string
	Frequency   string
}

func (d LeaderDetails) normalize() (LeaderDetails, error) {
	d.Name = strings.TrimSpace(d.Name)
	if d.Name == "" {
		return d, ErrLeaderNameEmpty
	}
	if len(d.Name) > MaxLeaderNameLen {
		return d, ErrLeaderNameTooLong
	}

	d.Email = strings.ToLower(strings.TrimSpace(d.Email))
	if d.Email != "" {
		if _, err := mail.ParseAddress(d.Email); err != nil {
			return d, ErrInvalidLeaderEmail
		}
	}

	d.Phone = strings.TrimSpace(d.Phone)
	d.Campus = strings.TrimSpace(d.Campus)
	d.CircleType = strings.TrimSpace(d.CircleType)
	d.MeetingDay = strings.TrimSpace(d.MeetingDay)
	d.MeetingTime = strings.TrimSpace(d.MeetingTime)
	d.Frequency = strings.TrimSpace(d.Frequency)
	return d, nil
}

func NewCircleLeader(ownerID string, details LeaderDetails, status LeaderStatus) (*CircleLeader, error) {
	if strings.TrimSpace(ownerID) == "" {
		return nil, ErrLeaderInvalidOwner
	}

	clean, err := details.normalize()
	if err != nil {
		return nil, err
	}

	if status == "" {
		status = StatusInvited
	}
	if !status.Valid() {
		return nil, ErrInvalidLeaderStatus
	}

	now := time.Now().UTC()
	l := &CircleLeader{
		ID:        uuid.NewString(),
		OwnerID:   ownerID,
		Status:    status,
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}
	l.apply(clean)
	return l, nil
}

func (l *CircleLeader) apply(d LeaderDetails) {
	l.Name = d.Name
	l.Email = d.Email
	l.Phone = d.Phone
	l.Campus = d.Campus
	l.CircleType = d.CircleType
	l.MeetingDay = d.MeetingDay
	l.MeetingTime = d.MeetingTime
	l.Frequency = d.Frequency
}

func (l *CircleLeader) Details() LeaderDetails {
	return LeaderDetails{
		Name:        l.Name,
		Email:       l.Email,
		Phone:       l.Phone,
		Campus:      l.Campus,
		CircleType:  l.CircleType,
		MeetingDay:  l.MeetingDay,
		MeetingTime: l.MeetingTime,
		Frequency:   l.Frequency,
	}
}

func (l *CircleLeader) Update(details LeaderDetails) error {
	clean, err := details.normalize()
	if err != nil {
		return err
	}
	l.apply(clean)
	l.UpdatedAt = time.Now().UTC()
	return nil
}

// ChangeStatus moves the leader to a new status and returns the previous one.
// Entering the follow-up status raises the follow-up flag.
func (l *CircleLeader) ChangeStatus(status LeaderStatus) (LeaderStatus, error) {
	if !status.Valid() {
		return "", ErrInvalidLeaderStatus
	}
	if status == l.Status {
		return "", ErrStatusUnchanged
	}

	previous := l.Status
	l.Status = status
	if status == StatusFollowUp {
		l.FollowUpRequired = true
	}
	l.UpdatedAt = time.Now().UTC()
	return previous, nil
}

func (l *CircleLeader) SetFollowUp(date time.Time) {
	d := CivilDate(date, nil)
	l.FollowUpRequired = true
	l.FollowUpDate = &d
	l.UpdatedAt = time.Now().UTC()
}

func (l *CircleLeader) ClearFollowUp() {
	l.FollowUpRequired = false
	l.FollowUpDate = nil
	l.UpdatedAt = time.Now().UTC()
}

// FollowUpDue reports whether a flagged follow-up is due on or before today.
// A flag without a date is always due.
func (l *CircleLeader) FollowUpDue(today time.Time) bool {
	if !l.FollowUpRequired {
		return false
	}
	if l.FollowUpDate == nil {
		return true
	}
	return !l.FollowUpDate.After(today)
}

// RecordAttendance keeps the most recent meeting date.
func (l *CircleLeader) RecordAttendance(date time.Time) {
	d := CivilDate(date, nil)
	if l.LastAttendance != nil && !d.After(*l.LastAttendance) {
		return
	}
	l.LastAttendance = &d
	l.UpdatedAt = time.Now().UTC()
}
