package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

const MaxNoteLen = 5000

type Note struct {
	ID        string    `json:"id" db:"id"`
	LeaderID  string    `json:"leader_id" db:"leader_id"`
	UserID    string    `json:"user_id" db:"user_id"`
	Content   string    `json:"content" db:"content"`
	System    bool      `json:"system" db:"system"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

func NewNote(leaderID, userID, content string) (*Note, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrNoteEmpty
	}
	if utf8.RuneCountInString(content) > MaxNoteLen {
		return nil, ErrNoteTooLong
	}

	return &Note{
		ID:        uuid.NewString(),
		LeaderID:  leaderID,
		UserID:    userID,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// NewStatusChangeNote records a status transition on the leader's timeline.
func NewStatusChangeNote(leaderID, userID string, from, to LeaderStatus) *Note {
	return &Note{
		ID:        uuid.NewString(),
		LeaderID:  leaderID,
		UserID:    userID,
		Content:   fmt.Sprintf("Status changed from %s to %s", from, to),
		System:    true,
		CreatedAt: time.Now().UTC(),
	}
}
