package domain

import (
	"net/mail"
	"strings"
	"time"
)

// User is a dashboard account as far as this service cares: someone who owns
// leaders and todos and may receive the daily digest.
type User struct {
	ID            string    `json:"id" db:"id"`
	Email         string    `json:"email" db:"email"`
	Name          string    `json:"name" db:"name"`
	DigestEnabled bool      `json:"digest_enabled" db:"digest_enabled"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}

func (u *User) CanReceiveDigest() bool {
	return u.DigestEnabled && isValidEmail(u.Email)
}

func (u *User) DisplayName() string {
	if name := strings.TrimSpace(u.Name); name != "" {
		return name
	}
	return u.Email
}

func isValidEmail(email string) bool {
	_, err := mail.ParseAddress(email)
	return err == nil
}
