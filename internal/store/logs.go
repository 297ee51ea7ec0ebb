package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/sadopc/habitr/internal/analytics"
)

const logColumns = `id, user_id, habit_id, date, completed, value, completed_at, duration_minutes, focus_score, updated_at`

func scanLog(row rowScanner) (HabitLog, error) {
	var l HabitLog
	var completed int
	var completedAt sql.NullString
	var duration, focus sql.NullFloat64
	var updatedAt string
	err := row.Scan(&l.ID, &l.UserID, &l.HabitID, &l.Date, &completed, &l.Value, &completedAt, &duration, &focus, &updatedAt)
	if err != nil {
		return l, err
	}
	l.Completed = completed == 1
	l.CompletedAt = parseNullTime(completedAt)
	l.DurationMinutes = floatPtr(duration)
	l.FocusScore = floatPtr(focus)
	l.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return l, nil
}

// GetHabitLog returns the day's log for a habit, or nil when none exists.
func (s *Store) GetHabitLog(userID string, habitID int64, date string) (*HabitLog, error) {
	l, err := scanLog(s.db.QueryRow(
		`SELECT `+logColumns+` FROM habit_logs WHERE user_id = ? AND habit_id = ? AND date = ?`,
		userID, habitID, date,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get habit log %d/%s: %w", habitID, date, err)
	}
	return &l, nil
}

// UpsertHabitLog creates or replaces the daily row keyed by (user, habit, date).
func (s *Store) UpsertHabitLog(userID string, u LogUpdate) error {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.Exec(`
		INSERT INTO habit_logs (user_id, habit_id, date, completed, value, completed_at, duration_minutes, focus_score, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id, habit_id, date) DO UPDATE SET
			completed        = excluded.completed,
			value            = excluded.value,
			completed_at     = excluded.completed_at,
			duration_minutes = excluded.duration_minutes,
			focus_score      = excluded.focus_score,
			updated_at       = excluded.updated_at`,
		userID, u.HabitID, u.Date, boolInt(u.Completed), u.Value,
		nullTime(u.CompletedAt), nullFloat(u.DurationMinutes), nullFloat(u.FocusScore), now,
	)
	if err != nil {
		return fmt.Errorf("upsert habit log %d/%s: %w", u.HabitID, u.Date, err)
	}
	return nil
}

// ToggleHabitLog flips the day's completion flag and returns the new row.
func (s *Store) ToggleHabitLog(userID string, habitID int64, date string, at time.Time) (*HabitLog, error) {
	existing, err := s.GetHabitLog(userID, habitID, date)
	if err != nil {
		return nil, err
	}

	u := LogUpdate{HabitID: habitID, Date: date, Completed: true, CompletedAt: &at}
	if existing != nil {
		u.Value = existing.Value
		u.DurationMinutes = existing.DurationMinutes
		u.FocusScore = existing.FocusScore
		if existing.Completed {
			u.Completed = false
			u.CompletedAt = nil
		}
	}
	if err := s.UpsertHabitLog(userID, u); err != nil {
		return nil, err
	}
	return s.GetHabitLog(userID, habitID, date)
}

// FetchLogs returns log rows joined with habit name and category for days in
// [from, to). Completion timestamps on incomplete rows are dropped here so
// analytics only sees them on completed entries.
func (s *Store) FetchLogs(userID string, from, to time.Time) ([]analytics.Entry, error) {
	rows, err := s.db.Query(`
		SELECT l.habit_id, h.name, h.category, l.date, l.completed, l.completed_at, l.duration_minutes, l.focus_score
		FROM habit_logs l
		JOIN habits h ON h.id = l.habit_id
		WHERE l.user_id = ? AND l.date >= ? AND l.date < ?
		ORDER BY l.date, h.name`,
		userID, from.Format(DateLayout), to.Format(DateLayout),
	)
	if err != nil {
		return nil, fmt.Errorf("fetch logs: %w", err)
	}
	defer rows.Close()

	var entries []analytics.Entry
	for rows.Next() {
		var e analytics.Entry
		var date string
		var completed int
		var completedAt sql.NullString
		var duration, focus sql.NullFloat64
		if err := rows.Scan(&e.HabitID, &e.HabitName, &e.Category, &date, &completed, &completedAt, &duration, &focus); err != nil {
			return nil, err
		}
		e.Date, err = time.ParseInLocation(DateLayout, date, time.Local)
		if err != nil {
			return nil, fmt.Errorf("parse log date %q: %w", date, err)
		}
		e.Completed = completed == 1
		if e.Completed {
			e.CompletedAt = parseNullTime(completedAt)
		}
		e.DurationMinutes = floatPtr(duration)
		e.FocusScore = floatPtr(focus)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// ListDay returns every active habit with its log for date, if any.
func (s *Store) ListDay(userID, date string) ([]DayHabit, error) {
	habits, err := s.FetchHabits(userID, HabitFilter{})
	if err != nil {
		return nil, err
	}

	rows, err := s.db.Query(
		`SELECT `+logColumns+` FROM habit_logs WHERE user_id = ? AND date = ?`, userID, date,
	)
	if err != nil {
		return nil, fmt.Errorf("list day %s: %w", date, err)
	}
	defer rows.Close()

	logs := make(map[int64]*HabitLog)
	for rows.Next() {
		l, err := scanLog(rows)
		if err != nil {
			return nil, err
		}
		logs[l.HabitID] = &l
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var day []DayHabit
	for _, h := range habits {
		day = append(day, DayHabit{Habit: h, Log: logs[h.ID]})
	}
	return day, nil
}

func parseNullTime(ns sql.NullString) *time.Time {
	if !ns.Valid {
		return nil
	}
	t, err := time.Parse(time.RFC3339, ns.String)
	if err != nil {
		return nil
	}
	t = t.Local()
	return &t
}

func nullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC().Format(time.RFC3339)
}

func floatPtr(nf sql.NullFloat64) *float64 {
	if !nf.Valid {
		return nil
	}
	v := nf.Float64
	return &v
}

func nullFloat(f *float64) any {
	if f == nil {
		return nil
	}
	return *f
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
