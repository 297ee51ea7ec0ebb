package focus

import (
	"testing"
	"time"
)

var fixedNow = time.Date(2026, 10, 18, 9, 30, 0, 0, time.Local)

func newTestMachine(cfg Config, h *Habit) *Machine {
	return New(cfg, h).WithClock(func() time.Time { return fixedNow })
}

// runUntilCommit ticks until a commit fires or limit ticks pass.
func runUntilCommit(m *Machine, limit int) (Commit, int, bool) {
	for i := 1; i <= limit; i++ {
		if c, ok := m.Tick(); ok {
			return c, i, true
		}
	}
	return Commit{}, limit, false
}

// ============================================================
// Construction and configuration
// ============================================================

func TestNewStartsStoppedInWork(t *testing.T) {
	m := newTestMachine(DefaultConfig(), nil)
	if m.Session() != Work {
		t.Fatalf("expected work session, got %s", m.Session())
	}
	if m.Running() {
		t.Fatal("new machine should not be running")
	}
	if m.SecondsRemaining() != 1500 {
		t.Fatalf("expected 1500s remaining, got %d", m.SecondsRemaining())
	}
}

func TestNewUsesHabitTarget(t *testing.T) {
	m := newTestMachine(DefaultConfig(), &Habit{ID: 7, Name: "Read", TargetMinutes: 40})
	if m.SecondsRemaining() != 2400 {
		t.Fatalf("expected habit target 2400s, got %d", m.SecondsRemaining())
	}
}

func TestHabitWithoutTargetFallsBackToConfig(t *testing.T) {
	m := newTestMachine(DefaultConfig(), &Habit{ID: 7, Name: "Pushups"})
	if m.SecondsRemaining() != 1500 {
		t.Fatalf("expected configured 1500s, got %d", m.SecondsRemaining())
	}
}

func TestConfigNormalized(t *testing.T) {
	m := newTestMachine(Config{WorkMinutes: 50, LongBreakInterval: -1}, nil)
	cfg := m.Config()
	if cfg.WorkMinutes != 50 {
		t.Fatalf("work minutes overwritten: %d", cfg.WorkMinutes)
	}
	if cfg.ShortBreakMinutes != 5 || cfg.LongBreakMinutes != 15 || cfg.LongBreakInterval != 4 {
		t.Fatalf("expected defaults for unset fields, got %+v", cfg)
	}
}

func TestSessionTypeString(t *testing.T) {
	tests := map[SessionType]string{Work: "WORK", ShortBreak: "SHORT BREAK", LongBreak: "LONG BREAK"}
	for st, want := range tests {
		if got := st.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", st, got, want)
		}
	}
}

// ============================================================
// Start / pause
// ============================================================

func TestTickIgnoredWhenStopped(t *testing.T) {
	m := newTestMachine(DefaultConfig(), nil)
	if _, ok := m.Tick(); ok {
		t.Fatal("stopped machine should not commit")
	}
	if m.SecondsRemaining() != 1500 {
		t.Fatalf("stopped tick changed remaining to %d", m.SecondsRemaining())
	}
}

func TestStartPauseKeepRemaining(t *testing.T) {
	m := newTestMachine(DefaultConfig(), nil)
	m.Start()
	for range 10 {
		m.Tick()
	}
	m.Pause()
	if m.Running() {
		t.Fatal("expected paused")
	}
	if m.SecondsRemaining() != 1490 || m.WorkSecondsElapsed() != 10 {
		t.Fatalf("got remaining=%d elapsed=%d", m.SecondsRemaining(), m.WorkSecondsElapsed())
	}
	m.Toggle()
	if !m.Running() || m.Session() != Work || m.SecondsRemaining() != 1490 {
		t.Fatal("toggle should only resume")
	}
}

// ============================================================
// Session completion
// ============================================================

func TestFullWorkSessionCommitsOnce(t *testing.T) {
	m := newTestMachine(Config{WorkMinutes: 25, ShortBreakMinutes: 5, LongBreakMinutes: 15, LongBreakInterval: 4}, nil)
	m.Start()

	commits := 0
	var last Commit
	for range 1500 {
		if c, ok := m.Tick(); ok {
			commits++
			last = c
		}
	}
	if commits != 1 {
		t.Fatalf("expected 1 commit, got %d", commits)
	}
	if last.SessionMinutes != 25 {
		t.Fatalf("expected 25 session minutes, got %d", last.SessionMinutes)
	}
	if last.Date != "2026-10-18" || !last.At.Equal(fixedNow) {
		t.Fatalf("unexpected commit date %q at %v", last.Date, last.At)
	}
	if last.HasHabit() {
		t.Fatal("commit without a bound habit should not carry one")
	}
	if m.Session() != ShortBreak || m.SecondsRemaining() != 300 {
		t.Fatalf("expected short break with 300s, got %s %d", m.Session(), m.SecondsRemaining())
	}
	if m.CompletedPomodoros() != 1 {
		t.Fatalf("expected 1 pomodoro, got %d", m.CompletedPomodoros())
	}
	if m.WorkSecondsElapsed() != 0 {
		t.Fatalf("elapsed should reset, got %d", m.WorkSecondsElapsed())
	}
	if m.Running() {
		t.Fatal("break should not auto-start by default")
	}
}

func TestCommitCarriesHabit(t *testing.T) {
	m := newTestMachine(Config{WorkMinutes: 25}, &Habit{ID: 3, Name: "Guitar", TargetMinutes: 1})
	m.Start()
	c, n, ok := runUntilCommit(m, 100)
	if !ok || n != 60 {
		t.Fatalf("expected commit after 60 ticks, got ok=%v n=%d", ok, n)
	}
	if c.HabitID != 3 || c.HabitName != "Guitar" || c.SessionMinutes != 1 || c.TargetMinutes != 1 {
		t.Fatalf("unexpected commit %+v", c)
	}
}

func TestLongBreakCadence(t *testing.T) {
	cfg := Config{WorkMinutes: 1, ShortBreakMinutes: 1, LongBreakMinutes: 3, LongBreakInterval: 4, AutoStartBreaks: true, AutoStartWork: true}
	m := newTestMachine(cfg, nil)
	m.Start()

	var sessions []SessionType
	for i := range 4 {
		if _, _, ok := runUntilCommit(m, 60); !ok {
			t.Fatalf("work session %d did not commit", i+1)
		}
		sessions = append(sessions, m.Session())
		if i < 3 {
			for m.Session() != Work {
				m.Tick()
			}
		}
	}

	for i, s := range sessions[:3] {
		if s != ShortBreak {
			t.Fatalf("completion %d: expected short break, got %s", i+1, s)
		}
	}
	if sessions[3] != LongBreak {
		t.Fatalf("4th completion: expected long break, got %s", sessions[3])
	}
	if m.SecondsRemaining() != 180 {
		t.Fatalf("expected 180s long break, got %d", m.SecondsRemaining())
	}
	if m.CompletedPomodoros() != 4 {
		t.Fatalf("expected 4 pomodoros, got %d", m.CompletedPomodoros())
	}
}

func TestBreakCompletionReturnsToWork(t *testing.T) {
	cfg := Config{WorkMinutes: 25, ShortBreakMinutes: 1, AutoStartWork: true}
	m := newTestMachine(cfg, &Habit{ID: 1, Name: "Read", TargetMinutes: 30})
	m.Switch(ShortBreak)
	m.Start()
	for range 60 {
		if _, ok := m.Tick(); ok {
			t.Fatal("break completion must not commit")
		}
	}
	if m.Session() != Work {
		t.Fatalf("expected work, got %s", m.Session())
	}
	if m.SecondsRemaining() != 1800 {
		t.Fatalf("expected habit duration 1800s, got %d", m.SecondsRemaining())
	}
	if !m.Running() {
		t.Fatal("expected auto-start work")
	}
	if m.CompletedPomodoros() != 0 {
		t.Fatal("break completion should not count a pomodoro")
	}
}

func TestBreakDoesNotCountElapsed(t *testing.T) {
	m := newTestMachine(DefaultConfig(), nil)
	m.Switch(LongBreak)
	m.Start()
	for range 5 {
		m.Tick()
	}
	if m.WorkSecondsElapsed() != 0 {
		t.Fatalf("break ticks counted as work: %d", m.WorkSecondsElapsed())
	}
}

// ============================================================
// Reset / skip / switch
// ============================================================

func TestSkipNeverCommits(t *testing.T) {
	m := newTestMachine(DefaultConfig(), nil)
	m.Start()
	for range 100 {
		m.Tick()
	}
	m.Skip()
	if m.CompletedPomodoros() != 0 {
		t.Fatalf("skip changed pomodoros to %d", m.CompletedPomodoros())
	}
	if m.Session() != ShortBreak || m.Running() || m.WorkSecondsElapsed() != 0 {
		t.Fatalf("unexpected state after skip: %s running=%v elapsed=%d", m.Session(), m.Running(), m.WorkSecondsElapsed())
	}
	if m.SecondsRemaining() != 300 {
		t.Fatalf("expected 300s, got %d", m.SecondsRemaining())
	}
}

func TestSkipCycleNeverLongBreak(t *testing.T) {
	m := newTestMachine(Config{LongBreakInterval: 1}, nil)
	want := []SessionType{ShortBreak, Work, ShortBreak, Work}
	for i, w := range want {
		m.Skip()
		if m.Session() != w {
			t.Fatalf("skip %d: expected %s, got %s", i+1, w, m.Session())
		}
	}

	m.Switch(LongBreak)
	m.Skip()
	if m.Session() != Work {
		t.Fatalf("skip from long break should return to work, got %s", m.Session())
	}
}

func TestReset(t *testing.T) {
	m := newTestMachine(DefaultConfig(), nil)
	m.Start()
	for range 42 {
		m.Tick()
	}
	m.Reset()
	if m.Running() || m.SecondsRemaining() != 1500 || m.WorkSecondsElapsed() != 0 {
		t.Fatalf("unexpected state after reset: running=%v remaining=%d elapsed=%d",
			m.Running(), m.SecondsRemaining(), m.WorkSecondsElapsed())
	}
}

func TestSwitchBehavesLikeReset(t *testing.T) {
	m := newTestMachine(DefaultConfig(), nil)
	m.Start()
	m.Tick()
	m.Switch(LongBreak)
	if m.Session() != LongBreak || m.Running() || m.SecondsRemaining() != 900 {
		t.Fatalf("unexpected state after switch: %s running=%v remaining=%d",
			m.Session(), m.Running(), m.SecondsRemaining())
	}
	if m.CompletedPomodoros() != 0 {
		t.Fatal("switch must not count a pomodoro")
	}
}

// ============================================================
// Habit binding and reconfiguration
// ============================================================

func TestBindHabitWhileIdle(t *testing.T) {
	m := newTestMachine(DefaultConfig(), nil)
	m.BindHabit(&Habit{ID: 2, Name: "Write", TargetMinutes: 45})
	if m.SecondsRemaining() != 2700 {
		t.Fatalf("expected 2700s, got %d", m.SecondsRemaining())
	}
	if h := m.Habit(); h == nil || h.ID != 2 {
		t.Fatalf("expected bound habit 2, got %+v", h)
	}
	m.BindHabit(nil)
	if m.SecondsRemaining() != 1500 || m.Habit() != nil {
		t.Fatal("unbinding should restore configured work length")
	}
}

func TestBindHabitWhileRunningKeepsCountdown(t *testing.T) {
	m := newTestMachine(DefaultConfig(), nil)
	m.Start()
	m.Tick()
	m.BindHabit(&Habit{ID: 2, Name: "Write", TargetMinutes: 45})
	if m.SecondsRemaining() != 1499 {
		t.Fatalf("running countdown changed to %d", m.SecondsRemaining())
	}
}

func TestBindHabitDuringBreakKeepsCountdown(t *testing.T) {
	m := newTestMachine(DefaultConfig(), nil)
	m.Switch(ShortBreak)
	m.BindHabit(&Habit{ID: 2, Name: "Write", TargetMinutes: 45})
	if m.SecondsRemaining() != 300 {
		t.Fatalf("break countdown changed to %d", m.SecondsRemaining())
	}
}

func TestHabitReturnsCopy(t *testing.T) {
	m := newTestMachine(DefaultConfig(), &Habit{ID: 1, Name: "Read", TargetMinutes: 20})
	h := m.Habit()
	h.TargetMinutes = 90
	if m.SecondsRemaining() != 1200 || m.Habit().TargetMinutes != 20 {
		t.Fatal("mutating returned habit leaked into machine")
	}
}

func TestReconfigure(t *testing.T) {
	m := newTestMachine(DefaultConfig(), nil)
	m.Reconfigure(Config{WorkMinutes: 50, ShortBreakMinutes: 10, LongBreakMinutes: 30, LongBreakInterval: 2})
	if m.SecondsRemaining() != 3000 {
		t.Fatalf("expected 3000s, got %d", m.SecondsRemaining())
	}
	if m.Duration(LongBreak) != 1800 {
		t.Fatalf("expected long break 1800s, got %d", m.Duration(LongBreak))
	}
}
