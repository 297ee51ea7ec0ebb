// Package focus implements the Pomodoro-style focus timer. A Machine is owned
// by a single goroutine and advances only through explicit events: ticks,
// start/pause, reset, skip, session switches and habit changes.
package focus

import (
	"time"

	"github.com/sadopc/habitr/internal/store"
)

type SessionType int

const (
	Work SessionType = iota
	ShortBreak
	LongBreak
)

var sessionNames = map[SessionType]string{
	Work:       "WORK",
	ShortBreak: "SHORT BREAK",
	LongBreak:  "LONG BREAK",
}

func (t SessionType) String() string {
	return sessionNames[t]
}

// Config holds the user's timer settings. Durations are in minutes.
type Config struct {
	WorkMinutes       int
	ShortBreakMinutes int
	LongBreakMinutes  int
	LongBreakInterval int
	AutoStartBreaks   bool
	AutoStartWork     bool
}

func DefaultConfig() Config {
	return Config{
		WorkMinutes:       25,
		ShortBreakMinutes: 5,
		LongBreakMinutes:  15,
		LongBreakInterval: 4,
	}
}

// normalized replaces non-positive values with defaults.
func (c Config) normalized() Config {
	d := DefaultConfig()
	if c.WorkMinutes <= 0 {
		c.WorkMinutes = d.WorkMinutes
	}
	if c.ShortBreakMinutes <= 0 {
		c.ShortBreakMinutes = d.ShortBreakMinutes
	}
	if c.LongBreakMinutes <= 0 {
		c.LongBreakMinutes = d.LongBreakMinutes
	}
	if c.LongBreakInterval <= 0 {
		c.LongBreakInterval = d.LongBreakInterval
	}
	return c
}

// Habit is the habit a work session is focused on.
type Habit struct {
	ID            int64
	Name          string
	TargetMinutes int
}

// Commit is emitted once for every work interval that counts down to zero.
type Commit struct {
	HabitID        int64 // 0 when no habit is bound
	HabitName      string
	SessionMinutes int
	TargetMinutes  int
	Date           string
	Pomodoros      int
	At             time.Time
}

func (c Commit) HasHabit() bool {
	return c.HabitID != 0
}

type Machine struct {
	cfg   Config
	habit *Habit
	now   func() time.Time

	session     SessionType
	remaining   int
	running     bool
	completed   int
	workElapsed int
}

// New creates a stopped machine at the start of a work session.
func New(cfg Config, habit *Habit) *Machine {
	m := &Machine{
		cfg:     cfg.normalized(),
		habit:   habit,
		now:     time.Now,
		session: Work,
	}
	m.remaining = m.duration(Work)
	return m
}

// WithClock replaces the clock used to date commits.
func (m *Machine) WithClock(now func() time.Time) *Machine {
	m.now = now
	return m
}

func (m *Machine) Session() SessionType    { return m.session }
func (m *Machine) SecondsRemaining() int   { return m.remaining }
func (m *Machine) Running() bool           { return m.running }
func (m *Machine) CompletedPomodoros() int { return m.completed }
func (m *Machine) WorkSecondsElapsed() int { return m.workElapsed }
func (m *Machine) Config() Config          { return m.cfg }

// Habit returns the bound habit, or nil.
func (m *Machine) Habit() *Habit {
	if m.habit == nil {
		return nil
	}
	h := *m.habit
	return &h
}

// Duration returns the full length in seconds of a session type.
func (m *Machine) Duration(t SessionType) int {
	return m.duration(t)
}

func (m *Machine) duration(t SessionType) int {
	switch t {
	case ShortBreak:
		return m.cfg.ShortBreakMinutes * 60
	case LongBreak:
		return m.cfg.LongBreakMinutes * 60
	default:
		return m.workMinutes() * 60
	}
}

// workMinutes prefers the bound habit's target over the configured length.
func (m *Machine) workMinutes() int {
	if m.habit != nil && m.habit.TargetMinutes > 0 {
		return m.habit.TargetMinutes
	}
	return m.cfg.WorkMinutes
}

func (m *Machine) Start() { m.running = true }
func (m *Machine) Pause() { m.running = false }

func (m *Machine) Toggle() {
	m.running = !m.running
}

// Tick advances the countdown by one second. It reports a commit when a work
// session reaches zero.
func (m *Machine) Tick() (Commit, bool) {
	if !m.running {
		return Commit{}, false
	}
	if m.remaining > 0 {
		m.remaining--
		if m.session == Work {
			m.workElapsed++
		}
	}
	if m.remaining > 0 {
		return Commit{}, false
	}
	return m.complete()
}

func (m *Machine) complete() (Commit, bool) {
	if m.session != Work {
		m.session = Work
		m.remaining = m.duration(Work)
		m.running = m.cfg.AutoStartWork
		return Commit{}, false
	}

	m.completed++
	now := m.now()
	c := Commit{
		SessionMinutes: m.workMinutes(),
		Date:           now.Format(store.DateLayout),
		Pomodoros:      m.completed,
		At:             now,
	}
	if m.habit != nil {
		c.HabitID = m.habit.ID
		c.HabitName = m.habit.Name
		c.TargetMinutes = m.habit.TargetMinutes
	}

	m.workElapsed = 0
	m.session = ShortBreak
	if m.completed%m.cfg.LongBreakInterval == 0 {
		m.session = LongBreak
	}
	m.remaining = m.duration(m.session)
	m.running = m.cfg.AutoStartBreaks
	return c, true
}

// Reset stops the timer and rewinds the current session.
func (m *Machine) Reset() {
	m.running = false
	m.remaining = m.duration(m.session)
	m.workElapsed = 0
}

// Skip stops the timer and moves one step along work -> short break -> work.
// It never commits and never lands on a long break.
func (m *Machine) Skip() {
	m.running = false
	m.workElapsed = 0
	if m.session == Work {
		m.session = ShortBreak
	} else {
		m.session = Work
	}
	m.remaining = m.duration(m.session)
}

// Switch resets into the requested session type.
func (m *Machine) Switch(t SessionType) {
	m.session = t
	m.Reset()
}

// BindHabit changes the focused habit. An idle work session picks up the new
// target immediately.
func (m *Machine) BindHabit(h *Habit) {
	m.habit = h
	if m.session == Work && !m.running {
		m.remaining = m.duration(Work)
	}
}

// Reconfigure applies new settings. An idle timer rewinds to the new length.
func (m *Machine) Reconfigure(cfg Config) {
	m.cfg = cfg.normalized()
	if !m.running {
		m.remaining = m.duration(m.session)
	}
}
