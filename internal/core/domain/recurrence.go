package domain

import (
	"fmt"
	"strings"
	"time"
)

type RepeatRule string

const (
	RepeatDaily   RepeatRule = "daily"
	RepeatWeekly  RepeatRule = "weekly"
	RepeatMonthly RepeatRule = "monthly"
	RepeatYearly  RepeatRule = "yearly"
)

func ParseRepeatRule(s string) (RepeatRule, error) {
	rule := RepeatRule(strings.ToLower(strings.TrimSpace(s)))
	if !rule.Valid() {
		return "", ErrInvalidRepeatRule
	}
	return rule, nil
}

func (r RepeatRule) Valid() bool {
	switch r {
	case RepeatDaily, RepeatWeekly, RepeatMonthly, RepeatYearly:
		return true
	}
	return false
}

func (r RepeatRule) unit() string {
	switch r {
	case RepeatDaily:
		return "day"
	case RepeatWeekly:
		return "week"
	case RepeatMonthly:
		return "month"
	case RepeatYearly:
		return "year"
	}
	return string(r)
}

// Advance moves t forward by interval units of the rule. Month and year steps
// clamp the day-of-month to the last day of the target month.
func (r RepeatRule) Advance(t time.Time, interval int) time.Time {
	switch r {
	case RepeatDaily:
		return t.AddDate(0, 0, interval)
	case RepeatWeekly:
		return t.AddDate(0, 0, 7*interval)
	case RepeatMonthly:
		return AddMonthsClamped(t, interval)
	case RepeatYearly:
		return AddMonthsClamped(t, 12*interval)
	}
	return t
}

// AddMonthsClamped adds n months without letting time.AddDate overflow into
// the following month (Jan 31 + 1 month is Feb 28/29, never Mar 3).
func AddMonthsClamped(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m+time.Month(n), 1, 0, 0, 0, 0, t.Location())
	if last := daysInMonth(first); d > last {
		d = last
	}
	return time.Date(first.Year(), first.Month(), d, 0, 0, 0, 0, t.Location())
}

func daysInMonth(t time.Time) int {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, t.Location()).Day()
}

// GenerateDueDates returns every occurrence strictly after start and not
// after horizon. Each occurrence is derived from the previous one, so a
// clamped day-of-month stays clamped for the rest of the series.
func GenerateDueDates(start time.Time, rule RepeatRule, interval int, horizon time.Time) ([]time.Time, error) {
	if !rule.Valid() {
		return nil, ErrInvalidRepeatRule
	}
	if interval < 1 {
		return nil, ErrInvalidInterval
	}

	start = CivilDate(start, nil)
	horizon = CivilDate(horizon, nil)

	dates := []time.Time{}
	if horizon.Before(start) {
		return dates, nil
	}

	// Every step moves at least one day, so the day distance bounds the loop.
	// Unix seconds, not Sub: a Duration saturates after about 292 years.
	maxSteps := int((horizon.Unix()-start.Unix())/86400) + 1

	cursor := start
	for i := 0; i < maxSteps; i++ {
		next := rule.Advance(cursor, interval)
		if next.After(horizon) || !next.After(cursor) {
			break
		}
		dates = append(dates, next)
		cursor = next
	}

	return dates, nil
}

// GenerateDueDateStrings is the ISO-string form of GenerateDueDates.
func GenerateDueDateStrings(start, rule string, interval int, horizon string) ([]string, error) {
	startDate, err := ParseDate(start)
	if err != nil {
		return nil, fmt.Errorf("start date: %w", err)
	}
	horizonDate, err := ParseDate(horizon)
	if err != nil {
		return nil, fmt.Errorf("horizon date: %w", err)
	}
	parsedRule, err := ParseRepeatRule(rule)
	if err != nil {
		return nil, err
	}

	dates, err := GenerateDueDates(startDate, parsedRule, interval, horizonDate)
	if err != nil {
		return nil, err
	}

	out := make([]string, 0, len(dates))
	for _, d := range dates {
		out = append(out, FormatDate(d))
	}
	return out, nil
}

// BuildRepeatLabel renders a rule for display, e.g. "Every day" or "Every 2 weeks".
func BuildRepeatLabel(rule RepeatRule, interval int) string {
	if !rule.Valid() {
		return ""
	}
	if interval <= 1 {
		return "Every " + rule.unit()
	}
	return fmt.Sprintf("Every %d %ss", interval, rule.unit())
}
