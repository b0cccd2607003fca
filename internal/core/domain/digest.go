package domain

import "time"

// Digest is the daily summary mailed to one user.
type Digest struct {
	Recipient    User            `json:"recipient"`
	Date         time.Time       `json:"date"`
	OverdueTodos []*Todo         `json:"overdue_todos"`
	TodayTodos   []*Todo         `json:"today_todos"`
	FollowUps    []*CircleLeader `json:"follow_ups"`
}

func (d *Digest) IsEmpty() bool {
	return len(d.OverdueTodos) == 0 && len(d.TodayTodos) == 0 && len(d.FollowUps) == 0
}

func (d *Digest) ItemCount() int {
	return len(d.OverdueTodos) + len(d.TodayTodos) + len(d.FollowUps)
}

type EmailMessage struct {
	To      string
	Subject string
	HTML    string
	Text    string
}
