// Package analytics derives habit reports from daily log entries. Every
// function here is pure: it reads the input slice and allocates new output.
package analytics

import (
	"math"
	"time"
)

// dayLayout is the grouping key for log dates.
const dayLayout = "2006-01-02"

// Entry is one habit's log row for one day.
type Entry struct {
	Date            time.Time
	HabitID         int64
	HabitName       string
	Category        string
	Completed       bool
	CompletedAt     *time.Time
	DurationMinutes *float64
	FocusScore      *float64
}

// DayKey returns the calendar day the entry belongs to.
func (e Entry) DayKey() string {
	return e.Date.Format(dayLayout)
}

func (e Entry) duration() float64 {
	if e.DurationMinutes == nil {
		return 0
	}
	return *e.DurationMinutes
}

func (e Entry) focusScore() float64 {
	if e.FocusScore == nil {
		return 0
	}
	return *e.FocusScore
}

type Strength string

const (
	StrengthWeak     Strength = "weak"
	StrengthModerate Strength = "moderate"
	StrengthStrong   Strength = "strong"
)

type HabitCorrelation struct {
	HabitA              string   `json:"habit_a" yaml:"habit_a"`
	HabitB              string   `json:"habit_b" yaml:"habit_b"`
	CoCompletionPercent int      `json:"co_completion_percent" yaml:"co_completion_percent"`
	Strength            Strength `json:"strength" yaml:"strength"`
}

type TimePattern struct {
	Hour               int `json:"hour" yaml:"hour"`
	Completions        int `json:"completions" yaml:"completions"`
	SuccessRatePercent int `json:"success_rate_percent" yaml:"success_rate_percent"`
	AvgFocusMinutes    int `json:"avg_focus_minutes" yaml:"avg_focus_minutes"`
}

// StreakEvent marks the end point of a streak within a category.
type StreakEvent struct {
	Date         string `json:"date" yaml:"date"`
	StreakLength int    `json:"streak_length" yaml:"streak_length"`
	Category     string `json:"category" yaml:"category"`
	Momentum     int    `json:"momentum" yaml:"momentum"`
}

type Zone string

const (
	ZonePeak    Zone = "peak"
	ZoneGood    Zone = "good"
	ZoneAverage Zone = "average"
	ZoneLow     Zone = "low"
)

type PerformanceZone struct {
	Date                string `json:"date" yaml:"date"`
	ProductivityPercent int    `json:"productivity_percent" yaml:"productivity_percent"`
	EnergyPercent       int    `json:"energy_percent" yaml:"energy_percent"`
	MoodScore           int    `json:"mood_score" yaml:"mood_score"`
	Zone                Zone   `json:"zone" yaml:"zone"`
}

type Trend string

const (
	TrendUp     Trend = "up"
	TrendDown   Trend = "down"
	TrendStable Trend = "stable"
)

const (
	Morning   = "Morning"
	Afternoon = "Afternoon"
	Evening   = "Evening"
)

type CategoryInsight struct {
	Category             string `json:"category" yaml:"category"`
	AvgCompletionMinutes int    `json:"avg_completion_minutes" yaml:"avg_completion_minutes"`
	BestTimeOfDay        string `json:"best_time_of_day" yaml:"best_time_of_day"`
	ConsistencyPercent   int    `json:"consistency_percent" yaml:"consistency_percent"`
	Trend                Trend  `json:"trend" yaml:"trend"`
}

// round rounds half up. All inputs are non-negative.
func round(x float64) int {
	return int(math.Floor(x + 0.5))
}

func percent(part, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}

// uniqueInOrder returns distinct keys in order of first appearance.
func uniqueInOrder(entries []Entry, key func(Entry) string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, e := range entries {
		k := key(e)
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, k)
	}
	return out
}

func habitName(e Entry) string { return e.HabitName }
func category(e Entry) string  { return e.Category }
