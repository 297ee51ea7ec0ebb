package store

import (
	"database/sql"
	"fmt"
	"time"
)

// UpsertFocusSession records one committed focus session. Sessions are
// append-only; habitID is nil for unbound sessions.
func (s *Store) UpsertFocusSession(userID string, habitID *int64, date string, durationMinutes float64, pomodoroCount int) error {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.Exec(
		`INSERT INTO focus_sessions (user_id, habit_id, date, duration_minutes, pomodoro_count, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		userID, habitID, date, durationMinutes, pomodoroCount, now,
	)
	if err != nil {
		return fmt.Errorf("insert focus session: %w", err)
	}
	return nil
}

// ListFocusSessions returns sessions for days in [from, to), newest first.
func (s *Store) ListFocusSessions(userID string, from, to time.Time) ([]FocusSession, error) {
	rows, err := s.db.Query(`
		SELECT id, user_id, habit_id, date, duration_minutes, pomodoro_count, created_at
		FROM focus_sessions
		WHERE user_id = ? AND date >= ? AND date < ?
		ORDER BY created_at DESC, id DESC`,
		userID, from.Format(DateLayout), to.Format(DateLayout),
	)
	if err != nil {
		return nil, fmt.Errorf("list focus sessions: %w", err)
	}
	defer rows.Close()

	var sessions []FocusSession
	for rows.Next() {
		var fs FocusSession
		var habitID sql.NullInt64
		var createdAt string
		if err := rows.Scan(&fs.ID, &fs.UserID, &habitID, &fs.Date, &fs.DurationMinutes, &fs.PomodoroCount, &createdAt); err != nil {
			return nil, err
		}
		if habitID.Valid {
			fs.HabitID = &habitID.Int64
		}
		fs.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		sessions = append(sessions, fs)
	}
	return sessions, rows.Err()
}

func (s *Store) FocusStats(userID string, from, to time.Time) (sessions int, minutes float64, err error) {
	err = s.db.QueryRow(`
		SELECT COUNT(*), COALESCE(SUM(duration_minutes), 0)
		FROM focus_sessions
		WHERE user_id = ? AND date >= ? AND date < ?`,
		userID, from.Format(DateLayout), to.Format(DateLayout),
	).Scan(&sessions, &minutes)
	if err != nil {
		err = fmt.Errorf("focus stats: %w", err)
	}
	return
}
