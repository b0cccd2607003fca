package domain

import (
	"math"
	"sort"
	"strings"
	"time"

	"gonum.org/v1/gonum/stat"
)

type Dimension string

const (
	DimensionReach    Dimension = "reach"
	DimensionConnect  Dimension = "connect"
	DimensionDisciple Dimension = "disciple"
	DimensionDevelop  Dimension = "develop"
)

// Dimensions is the fixed output order of every trend report.
var Dimensions = []Dimension{DimensionReach, DimensionConnect, DimensionDisciple, DimensionDevelop}

// Rating is one dated observation. ScoredDate is an ISO date (YYYY-MM-DD) or
// an RFC3339 timestamp; missing dimensions are nil.
type Rating struct {
	ScoredDate string   `json:"scored_date" yaml:"scored_date"`
	Reach      *float64 `json:"reach,omitempty" yaml:"reach,omitempty"`
	Connect    *float64 `json:"connect,omitempty" yaml:"connect,omitempty"`
	Disciple   *float64 `json:"disciple,omitempty" yaml:"disciple,omitempty"`
	Develop    *float64 `json:"develop,omitempty" yaml:"develop,omitempty"`
}

func (r Rating) Score(d Dimension) *float64 {
	switch d {
	case DimensionReach:
		return r.Reach
	case DimensionConnect:
		return r.Connect
	case DimensionDisciple:
		return r.Disciple
	case DimensionDevelop:
		return r.Develop
	}
	return nil
}

type WeeklyDataPoint struct {
	WeekEnding string   `json:"week_ending" yaml:"week_ending"`
	Label      string   `json:"label" yaml:"label"`
	Value      *float64 `json:"value" yaml:"value"`
	Count      int      `json:"count" yaml:"count"`
	Min        *float64 `json:"min" yaml:"min"`
	Max        *float64 `json:"max" yaml:"max"`
}

type CategoryTrend struct {
	Dimension         Dimension         `json:"dimension" yaml:"dimension"`
	Data              []WeeklyDataPoint `json:"data" yaml:"data"`
	TrendSlope        float64           `json:"trend_slope" yaml:"trend_slope"`
	CurrentValue      *float64          `json:"current_value" yaml:"current_value"`
	PreviousValue     *float64          `json:"previous_value" yaml:"previous_value"`
	WeekOverWeekDelta *float64          `json:"week_over_week_delta" yaml:"week_over_week_delta"`
	Trend             TrendLabel        `json:"trend" yaml:"trend"`
}

type WeeklyTrends struct {
	Reach    CategoryTrend `json:"reach" yaml:"reach"`
	Connect  CategoryTrend `json:"connect" yaml:"connect"`
	Disciple CategoryTrend `json:"disciple" yaml:"disciple"`
	Develop  CategoryTrend `json:"develop" yaml:"develop"`
	AllWeeks []string      `json:"all_weeks" yaml:"all_weeks"`
}

func (w *WeeklyTrends) Category(d Dimension) *CategoryTrend {
	switch d {
	case DimensionReach:
		return &w.Reach
	case DimensionConnect:
		return &w.Connect
	case DimensionDisciple:
		return &w.Disciple
	case DimensionDevelop:
		return &w.Develop
	}
	return nil
}

type TrendOptions struct {
	// MaxWeeks keeps only the most recent weeks. Zero means no limit.
	MaxWeeks int
	// IncludeCurrentWeek keeps the week whose Saturday has not passed yet.
	IncludeCurrentWeek bool
	// Now is the reference instant for current-week filtering. Zero means time.Now().
	Now time.Time
}

// WeekEndingSaturday returns the Saturday that closes the Sunday-Saturday
// week containing the given calendar date.
func WeekEndingSaturday(date time.Time) time.Time {
	weekday := int(date.Weekday())
	return date.AddDate(0, 0, (6-weekday+7)%7)
}

// parseScoredDate reads the rating date as a civil date in CentralStandardTime.
func parseScoredDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if len(s) == len(DateLayout) {
		t, err := time.ParseInLocation(DateLayout, s, CentralStandardTime)
		if err != nil {
			return time.Time{}, false
		}
		return CivilDate(t, CentralStandardTime), true
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, false
	}
	return CivilDate(t, CentralStandardTime), true
}

// WeekKey returns the week-ending Saturday for a scored date, or false when
// the date cannot be parsed.
func WeekKey(scoredDate string) (string, bool) {
	d, ok := parseScoredDate(scoredDate)
	if !ok {
		return "", false
	}
	return FormatDate(WeekEndingSaturday(d)), true
}

func weekLabel(key string) string {
	t, err := time.Parse(DateLayout, key)
	if err != nil {
		return key
	}
	return t.Format("Jan 2")
}

// ComputeWeeklyTrends buckets ratings into Sunday-Saturday weeks and derives
// a per-dimension series with averages, a regression slope and the latest
// week-over-week change. Ratings with unparseable dates are ignored.
func ComputeWeeklyTrends(ratings []Rating, opts TrendOptions) WeeklyTrends {
	buckets := make(map[string]map[Dimension][]float64)
	for _, r := range ratings {
		key, ok := WeekKey(r.ScoredDate)
		if !ok {
			continue
		}
		bucket, exists := buckets[key]
		if !exists {
			bucket = make(map[Dimension][]float64)
			buckets[key] = bucket
		}
		for _, d := range Dimensions {
			if v := r.Score(d); v != nil {
				bucket[d] = append(bucket[d], *v)
			}
		}
	}

	weeks := make([]string, 0, len(buckets))
	for k := range buckets {
		weeks = append(weeks, k)
	}
	sort.Strings(weeks)

	if !opts.IncludeCurrentWeek {
		now := opts.Now
		if now.IsZero() {
			now = time.Now()
		}
		today := FormatDate(CivilDate(now, CentralStandardTime))

		completed := weeks[:0]
		for _, w := range weeks {
			if w < today {
				completed = append(completed, w)
			}
		}
		weeks = completed
	}

	if opts.MaxWeeks > 0 && len(weeks) > opts.MaxWeeks {
		weeks = weeks[len(weeks)-opts.MaxWeeks:]
	}

	result := WeeklyTrends{AllWeeks: weeks}
	for _, d := range Dimensions {
		*result.Category(d) = buildCategoryTrend(d, weeks, buckets)
	}
	return result
}

func buildCategoryTrend(d Dimension, weeks []string, buckets map[string]map[Dimension][]float64) CategoryTrend {
	trend := CategoryTrend{
		Dimension: d,
		Data:      make([]WeeklyDataPoint, 0, len(weeks)),
	}

	var xs, ys []float64
	for i, week := range weeks {
		point := WeeklyDataPoint{WeekEnding: week, Label: weekLabel(week)}

		scores := buckets[week][d]
		if len(scores) > 0 {
			sum, lo, hi := 0.0, scores[0], scores[0]
			for _, s := range scores {
				sum += s
				lo = math.Min(lo, s)
				hi = math.Max(hi, s)
			}
			avg := round(sum/float64(len(scores)), 1)
			point.Value = &avg
			point.Count = len(scores)
			point.Min = &lo
			point.Max = &hi

			xs = append(xs, float64(i))
			ys = append(ys, avg)
		}

		trend.Data = append(trend.Data, point)
	}

	trend.TrendSlope = regressionSlope(xs, ys)

	if n := len(ys); n > 0 {
		current := ys[n-1]
		trend.CurrentValue = &current
		if n > 1 {
			previous := ys[n-2]
			delta := round(current-previous, 1)
			trend.PreviousValue = &previous
			trend.WeekOverWeekDelta = &delta
		}
	}

	trend.Trend = GetTrendLabel(trend.TrendSlope)
	return trend
}

func regressionSlope(xs, ys []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	_, slope := stat.LinearRegression(xs, ys, nil, false)
	if math.IsNaN(slope) || math.IsInf(slope, 0) {
		return 0
	}
	return round(slope, 2)
}

func round(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	r := math.Round(v*p) / p
	if r == 0 {
		return 0
	}
	return r
}

type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"
)

type TrendLabel struct {
	Text      string    `json:"text" yaml:"text"`
	Icon      string    `json:"icon" yaml:"icon"`
	Sentiment Sentiment `json:"sentiment" yaml:"sentiment"`
}

// GetTrendLabel classifies a slope. Boundaries are inclusive.
func GetTrendLabel(slope float64) TrendLabel {
	switch {
	case slope >= 0.3:
		return TrendLabel{Text: "Strong Growth", Icon: "↑↑", Sentiment: SentimentPositive}
	case slope >= 0.1:
		return TrendLabel{Text: "Improving", Icon: "↑", Sentiment: SentimentPositive}
	case slope <= -0.3:
		return TrendLabel{Text: "Declining", Icon: "↓↓", Sentiment: SentimentNegative}
	case slope <= -0.1:
		return TrendLabel{Text: "Slight Decline", Icon: "↓", Sentiment: SentimentNegative}
	default:
		return TrendLabel{Text: "Stable", Icon: "→", Sentiment: SentimentNeutral}
	}
}
