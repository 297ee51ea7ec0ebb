package analytics

import "time"

// Summary holds headline totals for a set of entries.
type Summary struct {
	Entries           int `json:"entries" yaml:"entries"`
	Completions       int `json:"completions" yaml:"completions"`
	CompletionPercent int `json:"completion_percent" yaml:"completion_percent"`
	FocusMinutes      int `json:"focus_minutes" yaml:"focus_minutes"`
	ActiveDays        int `json:"active_days" yaml:"active_days"`
}

// Report bundles every derived view over one window of entries.
type Report struct {
	GeneratedAt  time.Time          `json:"generated_at" yaml:"generated_at"`
	Summary      Summary            `json:"summary" yaml:"summary"`
	Correlations []HabitCorrelation `json:"correlations" yaml:"correlations"`
	TimePatterns []TimePattern      `json:"time_patterns" yaml:"time_patterns"`
	Streaks      []StreakEvent      `json:"streaks" yaml:"streaks"`
	Zones        []PerformanceZone  `json:"zones" yaml:"zones"`
	Insights     []CategoryInsight  `json:"insights" yaml:"insights"`
}

// Build runs all reports over entries, using now for trend windows.
func Build(entries []Entry, now time.Time) Report {
	return Report{
		GeneratedAt:  now,
		Summary:      Summarize(entries),
		Correlations: Correlations(entries),
		TimePatterns: TimePatterns(entries),
		Streaks:      Streaks(entries),
		Zones:        PerformanceZones(entries),
		Insights:     CategoryInsights(entries, now),
	}
}

func Summarize(entries []Entry) Summary {
	var s Summary
	var focus float64
	for _, e := range entries {
		s.Entries++
		if e.Completed {
			s.Completions++
		}
		focus += e.duration()
	}
	s.CompletionPercent = round(percent(s.Completions, s.Entries))
	s.FocusMinutes = round(focus)
	s.ActiveDays = len(uniqueInOrder(entries, Entry.DayKey))
	return s
}
