package focus

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/sadopc/habitr/internal/store"
)

// LogStore is the slice of the habit store a Recorder writes through.
type LogStore interface {
	UpsertFocusSession(userID string, habitID *int64, date string, durationMinutes float64, pomodoroCount int) error
	GetHabitLog(userID string, habitID int64, date string) (*store.HabitLog, error)
	UpsertHabitLog(userID string, u store.LogUpdate) error
}

// Recorder persists commits. The machine has already advanced by the time a
// commit arrives; failures are returned to the caller and not retried.
type Recorder struct {
	store LogStore
	log   *zap.Logger
}

func NewRecorder(s LogStore, log *zap.Logger) *Recorder {
	if log == nil {
		log = zap.NewNop()
	}
	return &Recorder{store: s, log: log}
}

// Record stores the focus session and rolls its minutes into the habit's
// daily log, completing the log once the day's total reaches the target.
func (r *Recorder) Record(userID string, c Commit) error {
	var habitID *int64
	if c.HasHabit() {
		id := c.HabitID
		habitID = &id
	}
	if err := r.store.UpsertFocusSession(userID, habitID, c.Date, float64(c.SessionMinutes), c.Pomodoros); err != nil {
		r.log.Error("record focus session", zap.String("date", c.Date), zap.Error(err))
		return err
	}
	if !c.HasHabit() {
		r.log.Info("focus session recorded", zap.Int("minutes", c.SessionMinutes))
		return nil
	}

	existing, err := r.store.GetHabitLog(userID, c.HabitID, c.Date)
	if err != nil {
		r.log.Error("load habit log", zap.Int64("habit_id", c.HabitID), zap.Error(err))
		return err
	}

	u := store.LogUpdate{HabitID: c.HabitID, Date: c.Date}
	var duration float64
	if existing != nil {
		u.Value = existing.Value
		u.Completed = existing.Completed
		u.CompletedAt = existing.CompletedAt
		u.FocusScore = existing.FocusScore
		if existing.DurationMinutes != nil {
			duration = *existing.DurationMinutes
		}
	}
	u.Value += float64(c.SessionMinutes)
	duration += float64(c.SessionMinutes)
	u.DurationMinutes = &duration

	if !u.Completed && c.TargetMinutes > 0 && u.Value >= float64(c.TargetMinutes) {
		at := c.At
		u.Completed = true
		u.CompletedAt = &at
	}

	if err := r.store.UpsertHabitLog(userID, u); err != nil {
		r.log.Error("update habit log", zap.Int64("habit_id", c.HabitID), zap.Error(err))
		return fmt.Errorf("roll focus minutes into habit %d: %w", c.HabitID, err)
	}
	r.log.Info("focus session recorded",
		zap.Int64("habit_id", c.HabitID),
		zap.Int("minutes", c.SessionMinutes),
		zap.Float64("day_total", u.Value),
		zap.Bool("completed", u.Completed))
	return nil
}
