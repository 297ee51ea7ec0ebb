package store

import (
	"strings"
	"time"
)

// DateLayout is how habit log and focus session days are stored.
const DateLayout = "2006-01-02"

type Habit struct {
	ID          int64
	UserID      string
	Name        string
	Category    string
	TargetValue float64
	Unit        string // minutes, hours, times, ...
	Color       string
	Archived    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TargetMinutes converts the habit's target to minutes. Habits whose unit is
// not a duration have no minute target.
func (h Habit) TargetMinutes() int {
	switch strings.ToLower(strings.TrimSpace(h.Unit)) {
	case "min", "mins", "minute", "minutes", "m":
		return int(h.TargetValue)
	case "h", "hr", "hrs", "hour", "hours":
		return int(h.TargetValue * 60)
	}
	return 0
}

// HabitLog is the daily completion row for one habit.
type HabitLog struct {
	ID              int64
	UserID          string
	HabitID         int64
	Date            string
	Completed       bool
	Value           float64
	CompletedAt     *time.Time
	DurationMinutes *float64
	FocusScore      *float64
	UpdatedAt       time.Time
}

// LogUpdate is the full row written by UpsertHabitLog.
type LogUpdate struct {
	HabitID         int64
	Date            string
	Completed       bool
	Value           float64
	CompletedAt     *time.Time
	DurationMinutes *float64
	FocusScore      *float64
}

type FocusSession struct {
	ID              int64
	UserID          string
	HabitID         *int64
	Date            string
	DurationMinutes float64
	PomodoroCount   int
	CreatedAt       time.Time
}

type Setting struct {
	Key   string
	Value string
}

// HabitFilter is used to filter habits in queries.
type HabitFilter struct {
	Category        string
	IncludeArchived bool
}

// DayHabit pairs a habit with its log for one day. Log is nil when nothing
// was recorded yet.
type DayHabit struct {
	Habit Habit
	Log   *HabitLog
}

func (d DayHabit) Done() bool {
	return d.Log != nil && d.Log.Completed
}
