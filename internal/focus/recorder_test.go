package focus

import (
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/sadopc/habitr/internal/store"
)

const testUser = "user-1"

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.NewMemory()
	if err != nil {
		t.Fatalf("new memory store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func dayRange() (time.Time, time.Time) {
	from := time.Date(2026, 10, 18, 0, 0, 0, 0, time.Local)
	return from, from.AddDate(0, 0, 1)
}

// ============================================================
// Settings
// ============================================================

func TestLoadConfigDefaults(t *testing.T) {
	s := newTestStore(t)
	cfg := LoadConfig(s)
	if cfg != DefaultConfig() {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
}

func TestLoadConfigFromSettings(t *testing.T) {
	s := newTestStore(t)
	for k, v := range map[string]string{
		KeyWork:            "50",
		KeyShortBreak:      "10",
		KeyAutoStartBreaks: "true",
		KeyLongBreak:       "garbage",
	} {
		if err := s.SetSetting(k, v); err != nil {
			t.Fatal(err)
		}
	}
	cfg := LoadConfig(s)
	if cfg.WorkMinutes != 50 || cfg.ShortBreakMinutes != 10 || !cfg.AutoStartBreaks {
		t.Fatalf("settings not applied: %+v", cfg)
	}
	if cfg.LongBreakMinutes != 15 {
		t.Fatalf("malformed value should fall back, got %d", cfg.LongBreakMinutes)
	}
}

func TestHabitFrom(t *testing.T) {
	h := HabitFrom(store.Habit{ID: 4, Name: "Run", TargetValue: 1.5, Unit: "hours"})
	if h.ID != 4 || h.Name != "Run" || h.TargetMinutes != 90 {
		t.Fatalf("unexpected habit %+v", h)
	}
}

// ============================================================
// Recorder
// ============================================================

func TestRecordWithoutHabit(t *testing.T) {
	s := newTestStore(t)
	r := NewRecorder(s, zap.NewNop())

	err := r.Record(testUser, Commit{SessionMinutes: 25, Date: "2026-10-18", Pomodoros: 1, At: fixedNow})
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	from, to := dayRange()
	sessions, minutes, err := s.FocusStats(testUser, from, to)
	if err != nil {
		t.Fatal(err)
	}
	if sessions != 1 || minutes != 25 {
		t.Fatalf("expected 1 session of 25m, got %d / %.0f", sessions, minutes)
	}
}

func TestRecordAccumulatesUntilTarget(t *testing.T) {
	s := newTestStore(t)
	h, err := s.CreateHabit(testUser, "Deep Work", "work", 50, "minutes")
	if err != nil {
		t.Fatal(err)
	}
	r := NewRecorder(s, nil)

	c := Commit{HabitID: h.ID, HabitName: h.Name, SessionMinutes: 25, TargetMinutes: 50, Date: "2026-10-18", At: fixedNow}

	c.Pomodoros = 1
	if err := r.Record(testUser, c); err != nil {
		t.Fatalf("first record: %v", err)
	}
	l, err := s.GetHabitLog(testUser, h.ID, "2026-10-18")
	if err != nil || l == nil {
		t.Fatalf("get log: %v %v", l, err)
	}
	if l.Completed || l.Value != 25 {
		t.Fatalf("after first session: completed=%v value=%.0f", l.Completed, l.Value)
	}
	if l.CompletedAt != nil {
		t.Fatal("completed_at set before target was reached")
	}

	c.Pomodoros = 2
	c.At = fixedNow.Add(30 * time.Minute)
	if err := r.Record(testUser, c); err != nil {
		t.Fatalf("second record: %v", err)
	}
	l, _ = s.GetHabitLog(testUser, h.ID, "2026-10-18")
	if !l.Completed || l.Value != 50 {
		t.Fatalf("after second session: completed=%v value=%.0f", l.Completed, l.Value)
	}
	if l.DurationMinutes == nil || *l.DurationMinutes != 50 {
		t.Fatalf("expected 50 duration minutes, got %v", l.DurationMinutes)
	}
	if l.CompletedAt == nil || !l.CompletedAt.Equal(c.At) {
		t.Fatalf("completed_at = %v, want %v", l.CompletedAt, c.At)
	}

	from, to := dayRange()
	sessions, minutes, _ := s.FocusStats(testUser, from, to)
	if sessions != 2 || minutes != 50 {
		t.Fatalf("expected 2 sessions / 50m, got %d / %.0f", sessions, minutes)
	}
}

func TestRecordKeepsOriginalCompletionTime(t *testing.T) {
	s := newTestStore(t)
	h, _ := s.CreateHabit(testUser, "Read", "learning", 20, "minutes")
	r := NewRecorder(s, nil)

	first := Commit{HabitID: h.ID, SessionMinutes: 20, TargetMinutes: 20, Date: "2026-10-18", At: fixedNow}
	second := first
	second.At = fixedNow.Add(time.Hour)
	if err := r.Record(testUser, first); err != nil {
		t.Fatal(err)
	}
	if err := r.Record(testUser, second); err != nil {
		t.Fatal(err)
	}

	l, _ := s.GetHabitLog(testUser, h.ID, "2026-10-18")
	if l.Value != 40 {
		t.Fatalf("expected 40, got %.0f", l.Value)
	}
	if !l.CompletedAt.Equal(first.At) {
		t.Fatalf("completion time moved to %v", l.CompletedAt)
	}
}

func TestRecordWithoutMinuteTargetNeverCompletes(t *testing.T) {
	s := newTestStore(t)
	h, _ := s.CreateHabit(testUser, "Pushups", "fitness", 30, "times")
	r := NewRecorder(s, nil)

	err := r.Record(testUser, Commit{HabitID: h.ID, SessionMinutes: 25, Date: "2026-10-18", At: fixedNow})
	if err != nil {
		t.Fatal(err)
	}
	l, _ := s.GetHabitLog(testUser, h.ID, "2026-10-18")
	if l.Completed {
		t.Fatal("habit without a minute target should not auto-complete")
	}
	if l.Value != 25 {
		t.Fatalf("expected 25 minutes logged, got %.0f", l.Value)
	}
}

type failingStore struct {
	sessionErr error
	logErr     error
	upserts    int
}

func (f *failingStore) UpsertFocusSession(string, *int64, string, float64, int) error {
	return f.sessionErr
}

func (f *failingStore) GetHabitLog(string, int64, string) (*store.HabitLog, error) {
	return nil, nil
}

func (f *failingStore) UpsertHabitLog(string, store.LogUpdate) error {
	f.upserts++
	return f.logErr
}

func TestRecordSessionFailureStopsEarly(t *testing.T) {
	boom := errors.New("disk full")
	fs := &failingStore{sessionErr: boom}
	err := NewRecorder(fs, nil).Record(testUser, Commit{HabitID: 1, SessionMinutes: 25, Date: "2026-10-18"})
	if !errors.Is(err, boom) {
		t.Fatalf("expected %v, got %v", boom, err)
	}
	if fs.upserts != 0 {
		t.Fatal("habit log should not be written after a failed session insert")
	}
}

func TestRecordLogFailureWrapped(t *testing.T) {
	boom := errors.New("locked")
	fs := &failingStore{logErr: boom}
	err := NewRecorder(fs, nil).Record(testUser, Commit{HabitID: 1, SessionMinutes: 25, Date: "2026-10-18"})
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped %v, got %v", boom, err)
	}
}

func TestRecordFailureDoesNotRewindMachine(t *testing.T) {
	m := newTestMachine(Config{WorkMinutes: 1}, &Habit{ID: 1, Name: "Read", TargetMinutes: 1})
	m.Start()
	c, _, ok := runUntilCommit(m, 60)
	if !ok {
		t.Fatal("expected commit")
	}
	if err := NewRecorder(&failingStore{sessionErr: errors.New("x")}, nil).Record(testUser, c); err == nil {
		t.Fatal("expected error")
	}
	if m.CompletedPomodoros() != 1 || m.Session() != ShortBreak {
		t.Fatalf("machine state changed: %d %s", m.CompletedPomodoros(), m.Session())
	}
}
