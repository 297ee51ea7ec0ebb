package tui

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"github.com/sadopc/habitr/internal/focus"
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

func runeKey(r string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(r)}
}

// ============================================================
// Helpers
// ============================================================

func TestViewNames(t *testing.T) {
	if len(viewNames) != int(viewSettings)+1 {
		t.Fatalf("expected %d view names, got %d", viewSettings+1, len(viewNames))
	}
	if viewNames[viewToday] != "Today" || viewNames[viewFocus] != "Focus" {
		t.Fatalf("unexpected view names %v", viewNames)
	}
}

func TestFormatClock(t *testing.T) {
	tests := []struct {
		secs int
		want string
	}{
		{0, "00:00"},
		{61, "01:01"},
		{1500, "25:00"},
		{-5, "00:00"},
	}
	for _, tt := range tests {
		if got := formatClock(tt.secs); got != tt.want {
			t.Fatalf("formatClock(%d) = %q, want %q", tt.secs, got, tt.want)
		}
	}
}

func TestFormatMinutes(t *testing.T) {
	tests := []struct {
		mins float64
		want string
	}{
		{0, "0m"},
		{45, "45m"},
		{60, "1h 00m"},
		{90.4, "1h 30m"},
	}
	for _, tt := range tests {
		if got := formatMinutes(tt.mins); got != tt.want {
			t.Fatalf("formatMinutes(%v) = %q, want %q", tt.mins, got, tt.want)
		}
	}
}

func TestFormatTarget(t *testing.T) {
	if got := formatTarget(store.Habit{}); got != "-" {
		t.Fatalf("expected -, got %q", got)
	}
	if got := formatTarget(store.Habit{TargetValue: 30, Unit: "minutes"}); got != "30 minutes" {
		t.Fatalf("expected '30 minutes', got %q", got)
	}
}

// ============================================================
// Today
// ============================================================

func loadedDashboard(t *testing.T, s *store.Store) dashboardModel {
	t.Helper()
	d := newDashboardModel(s, testUser, zap.NewNop())
	d, _ = d.update(d.loadData()())
	return d
}

func TestDashboardLoadsHabits(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.CreateHabit(testUser, "Read", "learning", 20, "minutes"); err != nil {
		t.Fatal(err)
	}
	d := loadedDashboard(t, s)
	if len(d.habits) != 1 || d.habits[0].Habit.Name != "Read" {
		t.Fatalf("unexpected habits %+v", d.habits)
	}
	if d.date != today() {
		t.Fatalf("expected date %s, got %s", today(), d.date)
	}
}

func TestDashboardToggleIsOptimistic(t *testing.T) {
	s := newTestStore(t)
	h, _ := s.CreateHabit(testUser, "Meditate", "mindfulness", 10, "minutes")
	d := loadedDashboard(t, s)

	toggled, cmd := d.toggle()
	if cmd == nil {
		t.Fatal("expected a persist command")
	}
	if toggled.habits[0].Log == nil || !toggled.habits[0].Log.Completed {
		t.Fatal("habit should be shown complete before the write lands")
	}
	if toggled.habits[0].Log.CompletedAt == nil {
		t.Fatal("completed_at should be stamped")
	}
	if d.habits[0].Log != nil {
		t.Fatal("toggle must not mutate the previous model's slice")
	}

	msg, ok := cmd().(habitToggledMsg)
	if !ok {
		t.Fatalf("expected habitToggledMsg, got %T", cmd())
	}
	if msg.err != nil {
		t.Fatalf("toggle: %v", msg.err)
	}
	toggled, _ = toggled.update(msg)
	if !toggled.habits[0].Done() {
		t.Fatal("habit should stay complete after the write")
	}

	l, err := s.GetHabitLog(testUser, h.ID, today())
	if err != nil || l == nil || !l.Completed {
		t.Fatalf("log not persisted: %v %v", l, err)
	}
}

func TestDashboardToggleEmpty(t *testing.T) {
	d := loadedDashboard(t, newTestStore(t))
	if _, cmd := d.toggle(); cmd != nil {
		t.Fatal("toggle with no habits should be a no-op")
	}
}

func TestDashboardToggleFailureKeepsState(t *testing.T) {
	d := loadedDashboard(t, newTestStore(t))
	d.habits = []store.DayHabit{{Habit: store.Habit{ID: 9, Name: "Ghost"}}}
	d, _ = d.toggle()

	d, cmd := d.update(habitToggledMsg{habitID: 9, err: os.ErrPermission})
	if cmd == nil {
		t.Fatal("expected an error status")
	}
	if st, ok := cmd().(statusMsg); !ok || !st.isError {
		t.Fatalf("expected error status, got %+v", cmd())
	}
	if !d.habits[0].Done() {
		t.Fatal("optimistic state should not be rolled back")
	}
}

func TestDashboardCursor(t *testing.T) {
	s := newTestStore(t)
	s.CreateHabit(testUser, "A", "general", 0, "times")
	s.CreateHabit(testUser, "B", "general", 0, "times")
	d := loadedDashboard(t, s)

	d, _ = d.update(tea.KeyMsg{Type: tea.KeyUp})
	if d.cursor != 0 {
		t.Fatalf("cursor should clamp at 0, got %d", d.cursor)
	}
	d, _ = d.update(tea.KeyMsg{Type: tea.KeyDown})
	d, _ = d.update(tea.KeyMsg{Type: tea.KeyDown})
	if d.cursor != 1 {
		t.Fatalf("cursor should clamp at 1, got %d", d.cursor)
	}
}

// ============================================================
// Focus
// ============================================================

func TestFocusTicksCommitAndRecord(t *testing.T) {
	s := newTestStore(t)
	if err := s.SetSetting(focus.KeyWork, "1"); err != nil {
		t.Fatal(err)
	}
	f := newFocusModel(s, testUser, zap.NewNop())
	f.machine.Start()

	var cmd tea.Cmd
	for i := range 60 {
		f, cmd = f.update(tickMsg(time.Now()))
		if cmd != nil && i < 59 {
			t.Fatalf("unexpected command at tick %d", i)
		}
	}
	if cmd == nil {
		t.Fatal("expected a commit after one minute of ticks")
	}
	msg, ok := cmd().(commitRecordedMsg)
	if !ok {
		t.Fatalf("expected commitRecordedMsg, got %T", cmd())
	}
	if msg.err != nil {
		t.Fatalf("record: %v", msg.err)
	}
	if msg.commit.SessionMinutes != 1 || msg.commit.Pomodoros != 1 {
		t.Fatalf("unexpected commit %+v", msg.commit)
	}
	if f.machine.Session() != focus.ShortBreak {
		t.Fatalf("expected short break, got %s", f.machine.Session())
	}

	_, cmd = f.update(msg)
	st, ok := cmd().(statusMsg)
	if !ok || !strings.Contains(st.text, "Pomodoro 1 done") {
		t.Fatalf("unexpected status %+v", cmd())
	}

	from, _ := time.ParseInLocation(store.DateLayout, today(), time.Local)
	sessions, minutes, err := s.FocusStats(testUser, from, from.AddDate(0, 0, 1))
	if err != nil {
		t.Fatal(err)
	}
	if sessions != 1 || minutes != 1 {
		t.Fatalf("expected 1 session of 1m, got %d / %.0f", sessions, minutes)
	}
}

func TestFocusPausedDoesNotTick(t *testing.T) {
	f := newFocusModel(newTestStore(t), testUser, zap.NewNop())
	before := f.machine.SecondsRemaining()
	f, _ = f.update(tickMsg(time.Now()))
	if f.machine.SecondsRemaining() != before {
		t.Fatal("paused timer should not count down")
	}
}

func TestFocusBindHabit(t *testing.T) {
	s := newTestStore(t)
	h, _ := s.CreateHabit(testUser, "Deep Work", "work", 45, "minutes")
	f := newFocusModel(s, testUser, zap.NewNop())
	f, _ = f.update(f.refresh()())

	f.bind(h.ID)
	if got := f.machine.Habit(); got == nil || got.ID != h.ID {
		t.Fatalf("habit not bound: %+v", got)
	}
	if f.machine.SecondsRemaining() != 45*60 {
		t.Fatalf("expected habit target as work length, got %d", f.machine.SecondsRemaining())
	}

	f.bind(0)
	if f.machine.Habit() != nil {
		t.Fatal("expected no habit")
	}
	if f.machine.SecondsRemaining() != 25*60 {
		t.Fatalf("expected default work length, got %d", f.machine.SecondsRemaining())
	}
}

func TestFocusKeys(t *testing.T) {
	f := newFocusModel(newTestStore(t), testUser, zap.NewNop())

	f, _ = f.update(runeKey(" "))
	if !f.running() {
		t.Fatal("space should start the timer")
	}
	f, _ = f.update(tea.KeyMsg{Type: tea.KeyRight})
	if f.machine.Session() != focus.ShortBreak || f.running() {
		t.Fatalf("right should switch to a stopped short break, got %s running=%v", f.machine.Session(), f.running())
	}
	f, _ = f.update(tea.KeyMsg{Type: tea.KeyLeft})
	f, _ = f.update(tea.KeyMsg{Type: tea.KeyLeft})
	if f.machine.Session() != focus.LongBreak {
		t.Fatalf("left should wrap to long break, got %s", f.machine.Session())
	}
	f, _ = f.update(runeKey("x"))
	if f.machine.Session() != focus.Work {
		t.Fatalf("skip from a break should go to work, got %s", f.machine.Session())
	}
}

func TestFocusSettingsSaved(t *testing.T) {
	f := newFocusModel(newTestStore(t), testUser, zap.NewNop())
	cfg := focus.DefaultConfig()
	cfg.WorkMinutes = 10

	f, _ = f.update(settingsSavedMsg{cfg: cfg, sound: false})
	if f.machine.SecondsRemaining() != 600 {
		t.Fatalf("expected 600s after reconfigure, got %d", f.machine.SecondsRemaining())
	}
	if f.sound {
		t.Fatal("sound should be off")
	}
}

// ============================================================
// Settings
// ============================================================

func TestPositiveInt(t *testing.T) {
	for _, v := range []string{"5", " 3 "} {
		if err := positiveInt(v); err != nil {
			t.Fatalf("positiveInt(%q): %v", v, err)
		}
	}
	for _, v := range []string{"0", "-1", "x", ""} {
		if positiveInt(v) == nil {
			t.Fatalf("positiveInt(%q) should fail", v)
		}
	}
}

func TestFormatSettingValue(t *testing.T) {
	tests := []struct {
		key, value, want string
	}{
		{focus.KeyWork, "25", "25 min"},
		{focus.KeyLongBreakInterval, "4", "4 pomodoros"},
		{keyAnalyticsDays, "30", "30 days"},
		{focus.KeyAutoStartBreaks, "true", "on"},
		{keyFocusSound, "false", "off"},
		{"other", "x", "x"},
	}
	for _, tt := range tests {
		if got := formatSettingValue(tt.key, tt.value); got != tt.want {
			t.Fatalf("formatSettingValue(%q, %q) = %q, want %q", tt.key, tt.value, got, tt.want)
		}
	}
}

func TestSaveSettings(t *testing.T) {
	s := newTestStore(t)
	m := newSettingsModel(s)
	*m.work = "50"
	*m.shortBreak = "10"
	*m.longBreak = "20"
	*m.interval = "3"
	*m.autoStartBreaks = true
	*m.sound = false
	*m.analyticsDays = "14"

	if err := m.saveSettings(); err != nil {
		t.Fatal(err)
	}
	cfg := focus.LoadConfig(s)
	if cfg.WorkMinutes != 50 || cfg.ShortBreakMinutes != 10 || cfg.LongBreakMinutes != 20 || cfg.LongBreakInterval != 3 {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if !cfg.AutoStartBreaks || cfg.AutoStartWork {
		t.Fatalf("unexpected auto-start flags %+v", cfg)
	}
	if soundEnabled(s) {
		t.Fatal("sound should be disabled")
	}
	if windowDays(s, 30) != 14 {
		t.Fatalf("expected saved window of 14, got %d", windowDays(s, 30))
	}
}

func TestSoundEnabledDefault(t *testing.T) {
	if !soundEnabled(newTestStore(t)) {
		t.Fatal("sound should default to on")
	}
}

// ============================================================
// Habits
// ============================================================

func TestHabitValidators(t *testing.T) {
	if requireText("  ") == nil {
		t.Fatal("blank name should fail")
	}
	if requireNumber("1.5") != nil || requireNumber("0") != nil {
		t.Fatal("non-negative numbers should pass")
	}
	if requireNumber("-1") == nil || requireNumber("abc") == nil {
		t.Fatal("negative or non-numeric targets should fail")
	}
}

func TestWithCurrent(t *testing.T) {
	if got := withCurrent(habitUnits, "minutes"); len(got) != len(habitUnits) {
		t.Fatalf("preset value should not be duplicated, got %d options", len(got))
	}
	got := withCurrent(habitUnits, "km")
	if len(got) != len(habitUnits)+1 || got[0].Value != "km" {
		t.Fatalf("custom value should lead the options, got %+v", got)
	}
}

func TestHabitsRefresh(t *testing.T) {
	s := newTestStore(t)
	s.CreateHabit(testUser, "Run", "fitness", 5, "times")
	p := newHabitsModel(s, testUser, zap.NewNop())
	p, _ = p.update(p.refresh()())
	if len(p.habits) != 1 || p.habits[0].Name != "Run" {
		t.Fatalf("unexpected habits %+v", p.habits)
	}
}

// ============================================================
// App
// ============================================================

func newTestApp(t *testing.T) App {
	t.Helper()
	a := NewApp(newTestStore(t), Options{UserID: testUser, WindowDays: 30, ExportDir: t.TempDir()})
	m, _ := a.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return m.(App)
}

func press(t *testing.T, a App, k tea.KeyMsg) (App, tea.Cmd) {
	t.Helper()
	m, cmd := a.Update(k)
	return m.(App), cmd
}

func TestAppLoading(t *testing.T) {
	a := NewApp(newTestStore(t), Options{UserID: testUser})
	if a.View() != "Loading..." {
		t.Fatalf("expected loading screen, got %q", a.View())
	}
}

func TestAppViewsRender(t *testing.T) {
	a := newTestApp(t)
	for i := range viewNames {
		a.activeView = viewState(i)
		out := a.View()
		if !strings.Contains(out, "habitr") {
			t.Fatalf("view %s: missing title", viewNames[i])
		}
		for _, name := range viewNames {
			if !strings.Contains(out, name) {
				t.Fatalf("view %s: missing tab %s", viewNames[i], name)
			}
		}
	}
}

func TestAppSwitchViews(t *testing.T) {
	a := newTestApp(t)

	a, cmd := press(t, a, runeKey("2"))
	if a.activeView != viewHabits {
		t.Fatalf("expected habits view, got %d", a.activeView)
	}
	if cmd == nil {
		t.Fatal("switching views should refresh")
	}

	a, _ = press(t, a, runeKey("5"))
	a, _ = press(t, a, tea.KeyMsg{Type: tea.KeyTab})
	if a.activeView != viewToday {
		t.Fatalf("tab should wrap to today, got %d", a.activeView)
	}
}

func TestAppQuit(t *testing.T) {
	_, cmd := press(t, newTestApp(t), runeKey("q"))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("expected tea.QuitMsg")
	}
}

func TestAppStatusFooter(t *testing.T) {
	a := newTestApp(t)
	m, _ := a.Update(statusMsg{text: "all good"})
	if !strings.Contains(m.View(), "all good") {
		t.Fatal("status should appear in the footer")
	}
}

func TestAppFooterShowsRunningTimer(t *testing.T) {
	a := newTestApp(t)
	if strings.Contains(a.renderFooter(), "WORK") {
		t.Fatal("stopped timer should not show in the footer")
	}
	a.focus.machine.Start()
	if !strings.Contains(a.renderFooter(), "WORK 25:00") {
		t.Fatalf("running timer missing from footer: %q", a.renderFooter())
	}
}

func TestAppTickReachesFocusFromOtherViews(t *testing.T) {
	a := newTestApp(t)
	a.focus.machine.Start()
	m, _ := a.Update(tickMsg(time.Now()))
	if got := m.(App).focus.machine.SecondsRemaining(); got != 25*60-1 {
		t.Fatalf("expected focus to tick while on Today, got %d", got)
	}
}

func TestAppExport(t *testing.T) {
	a := newTestApp(t)
	h, _ := a.store.CreateHabit(testUser, "Read", "learning", 20, "minutes")
	if _, err := a.store.ToggleHabitLog(testUser, h.ID, today(), time.Now()); err != nil {
		t.Fatal(err)
	}

	a, _ = press(t, a, runeKey("e"))
	if !a.exportPicking {
		t.Fatal("e should open the export picker")
	}
	if !strings.Contains(a.View(), "Export Format") {
		t.Fatal("picker should render")
	}

	a, cmd := press(t, a, tea.KeyMsg{Type: tea.KeyEnter})
	if a.exportPicking || cmd == nil {
		t.Fatal("enter should close the picker and export")
	}
	done, ok := cmd().(exportDoneMsg)
	if !ok {
		t.Fatalf("expected exportDoneMsg, got %+v", cmd())
	}
	data, err := os.ReadFile(done.path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "Read") {
		t.Fatalf("export missing habit row:\n%s", data)
	}
}

func TestAppExportCancel(t *testing.T) {
	a := newTestApp(t)
	a, _ = press(t, a, runeKey("e"))
	a, cmd := press(t, a, tea.KeyMsg{Type: tea.KeyEsc})
	if a.exportPicking || cmd != nil {
		t.Fatal("esc should close the picker without exporting")
	}
}

// ============================================================
// Store watcher
// ============================================================

func TestStoreWatcherRelevant(t *testing.T) {
	sw := &storeWatcher{dbPath: filepath.Clean("/tmp/habitr/habitr.db")}
	if !sw.relevant("/tmp/habitr/habitr.db-wal") {
		t.Fatal("wal sidecar should count as a change")
	}
	if sw.relevant("/tmp/habitr/notes.txt") {
		t.Fatal("unrelated file should be ignored")
	}
}

func TestStoreWatcherReportsWrites(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	db := filepath.Join(t.TempDir(), "habitr.db")
	sw, err := newStoreWatcher(db, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}

	got := make(chan tea.Msg, 1)
	go func() { got <- sw.next()() }()

	if err := os.WriteFile(db+"-wal", []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case msg := <-got:
		if _, ok := msg.(dbChangedMsg); !ok {
			t.Fatalf("expected dbChangedMsg, got %T", msg)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}

	if err := sw.Close(); err != nil {
		t.Fatal(err)
	}
	if msg := sw.next()(); msg != nil {
		t.Fatalf("closed watcher should yield nil, got %T", msg)
	}
}
