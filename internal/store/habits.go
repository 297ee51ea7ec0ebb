package store

import (
	"database/sql"
	"fmt"
	"time"
)

const habitColumns = `id, user_id, name, category, target_value, unit, color, archived, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanHabit(row rowScanner) (Habit, error) {
	var h Habit
	var createdAt, updatedAt string
	var archived int
	err := row.Scan(&h.ID, &h.UserID, &h.Name, &h.Category, &h.TargetValue, &h.Unit, &h.Color, &archived, &createdAt, &updatedAt)
	if err != nil {
		return h, err
	}
	h.Archived = archived == 1
	h.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	h.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return h, nil
}

func (s *Store) CreateHabit(userID, name, category string, targetValue float64, unit string) (*Habit, error) {
	if category == "" {
		category = "general"
	}
	now := time.Now().UTC().Format(time.RFC3339)
	res, err := s.db.Exec(
		`INSERT INTO habits (user_id, name, category, target_value, unit, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		userID, name, category, targetValue, unit, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert habit: %w", err)
	}
	id, _ := res.LastInsertId()
	return s.GetHabit(id)
}

func (s *Store) GetHabit(id int64) (*Habit, error) {
	h, err := scanHabit(s.db.QueryRow(`SELECT `+habitColumns+` FROM habits WHERE id = ?`, id))
	if err != nil {
		return nil, fmt.Errorf("get habit %d: %w", id, err)
	}
	return &h, nil
}

func (s *Store) GetHabitByName(userID, name string) (*Habit, error) {
	h, err := scanHabit(s.db.QueryRow(
		`SELECT `+habitColumns+` FROM habits WHERE user_id = ? AND name = ? COLLATE NOCASE`, userID, name,
	))
	if err != nil {
		return nil, fmt.Errorf("get habit %q: %w", name, err)
	}
	return &h, nil
}

// FetchHabits lists a user's habit definitions ordered by name.
func (s *Store) FetchHabits(userID string, f HabitFilter) ([]Habit, error) {
	query := `SELECT ` + habitColumns + ` FROM habits WHERE user_id = ?`
	args := []any{userID}
	if !f.IncludeArchived {
		query += ` AND archived = 0`
	}
	if f.Category != "" {
		query += ` AND category = ?`
		args = append(args, f.Category)
	}
	query += ` ORDER BY name`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list habits: %w", err)
	}
	defer rows.Close()

	var habits []Habit
	for rows.Next() {
		h, err := scanHabit(rows)
		if err != nil {
			return nil, err
		}
		habits = append(habits, h)
	}
	return habits, rows.Err()
}

func (s *Store) UpdateHabit(id int64, name, category string, targetValue float64, unit string) error {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.Exec(
		`UPDATE habits SET name = ?, category = ?, target_value = ?, unit = ?, updated_at = ? WHERE id = ?`,
		name, category, targetValue, unit, now, id,
	)
	return err
}

func (s *Store) ArchiveHabit(id int64) error {
	now := time.Now().UTC().Format(time.RFC3339)
	res, err := s.db.Exec(
		`UPDATE habits SET archived = 1, updated_at = ? WHERE id = ?`, now, id,
	)
	if err != nil {
		return fmt.Errorf("archive habit %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("archive habit %d: %w", id, sql.ErrNoRows)
	}
	return nil
}

func (s *Store) SetHabitColor(id int64, color string) error {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.Exec(`UPDATE habits SET color = ?, updated_at = ? WHERE id = ?`, color, now, id)
	if err != nil {
		return fmt.Errorf("set habit %d color: %w", id, err)
	}
	return nil
}
