package domain

import "errors"

var (
	ErrUnauthorized = errors.New("unauthorized access to resource")

	ErrLeaderNotFound      = errors.New("circle leader not found")
	ErrLeaderConflict      = errors.New("circle leader version conflict")
	ErrLeaderNameEmpty     = errors.New("leader name cannot be empty")
	ErrLeaderNameTooLong   = errors.New("leader name is too long (max 100 chars)")
	ErrLeaderInvalidOwner  = errors.New("invalid owner id")
	ErrInvalidLeaderEmail  = errors.New("invalid email format")
	ErrInvalidLeaderStatus = errors.New("invalid leader status")
	ErrStatusUnchanged     = errors.New("leader already has this status")

	ErrNoteNotFound   = errors.New("note not found")
	ErrNoteEmpty      = errors.New("note content cannot be empty")
	ErrNoteTooLong    = errors.New("note content is too long (max 5000 chars)")
	ErrNoteSystemOnly = errors.New("system notes cannot be deleted")

	ErrTodoNotFound       = errors.New("todo not found")
	ErrTodoConflict       = errors.New("todo version conflict")
	ErrTodoTextEmpty      = errors.New("todo text cannot be empty")
	ErrTodoTextTooLong    = errors.New("todo text is too long (max 500 chars)")
	ErrRecurringNeedsDate = errors.New("recurring todo requires a due date")

	ErrInvalidRepeatRule = errors.New("invalid repeat rule (must be daily, weekly, monthly or yearly)")
	ErrInvalidInterval   = errors.New("interval must be a positive integer")
	ErrInvalidDate       = errors.New("invalid date (expected YYYY-MM-DD)")
	ErrSeriesTooLong     = errors.New("series end date is too far ahead (max 5 years)")

	ErrScoreOutOfRange   = errors.New("score must be between 1 and 5")
	ErrScorecardEmpty    = errors.New("at least one dimension must be scored")
	ErrScorecardNoDate   = errors.New("scored_date is required")
	ErrScorecardNotFound = errors.New("scorecard not found")

	ErrRecipientNotFound = errors.New("digest recipient not found")
	ErrInvalidLinkToken  = errors.New("invalid or expired link token")
)
