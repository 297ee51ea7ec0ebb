package focus

import (
	"strconv"

	"github.com/sadopc/habitr/internal/store"
)

// Settings keys in the store's settings table.
const (
	KeyWork              = "focus_work"
	KeyShortBreak        = "focus_short_break"
	KeyLongBreak         = "focus_long_break"
	KeyLongBreakInterval = "focus_long_break_interval"
	KeyAutoStartBreaks   = "focus_auto_start_breaks"
	KeyAutoStartWork     = "focus_auto_start_work"
)

type SettingsReader interface {
	GetSetting(key string) (string, error)
}

// LoadConfig reads timer settings, falling back to defaults for missing or
// malformed values.
func LoadConfig(s SettingsReader) Config {
	d := DefaultConfig()
	return Config{
		WorkMinutes:       settingInt(s, KeyWork, d.WorkMinutes),
		ShortBreakMinutes: settingInt(s, KeyShortBreak, d.ShortBreakMinutes),
		LongBreakMinutes:  settingInt(s, KeyLongBreak, d.LongBreakMinutes),
		LongBreakInterval: settingInt(s, KeyLongBreakInterval, d.LongBreakInterval),
		AutoStartBreaks:   settingBool(s, KeyAutoStartBreaks, d.AutoStartBreaks),
		AutoStartWork:     settingBool(s, KeyAutoStartWork, d.AutoStartWork),
	}
}

func settingInt(s SettingsReader, key string, fallback int) int {
	if v, err := s.GetSetting(key); err == nil {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

func settingBool(s SettingsReader, key string, fallback bool) bool {
	if v, err := s.GetSetting(key); err == nil {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

// HabitFrom adapts a stored habit for binding to the timer.
func HabitFrom(h store.Habit) *Habit {
	return &Habit{ID: h.ID, Name: h.Name, TargetMinutes: h.TargetMinutes()}
}
