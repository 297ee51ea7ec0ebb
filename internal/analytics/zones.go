package analytics

import "math"

const (
	maxZoneDays = 30

	// energyFullScaleMinutes of focus time in a day reads as 100% energy.
	energyFullScaleMinutes = 120

	defaultMood = 50
)

// ClassifyZone picks the first zone whose thresholds the raw values clear.
func ClassifyZone(productivity, energy, mood float64) Zone {
	switch {
	case productivity > 80 && energy > 70 && mood > 70:
		return ZonePeak
	case productivity > 60 && energy > 50 && mood > 50:
		return ZoneGood
	case productivity > 40 || energy > 30 || mood > 30:
		return ZoneAverage
	default:
		return ZoneLow
	}
}

type dayTotals struct {
	habits        int
	completions   int
	focus         float64
	focusScoreSum float64
}

// PerformanceZones scores each day on productivity, energy and mood and
// returns the last 30 days in grouping order.
func PerformanceZones(entries []Entry) []PerformanceZone {
	days := uniqueInOrder(entries, Entry.DayKey)
	totals := make(map[string]*dayTotals, len(days))
	for _, e := range entries {
		t := totals[e.DayKey()]
		if t == nil {
			t = &dayTotals{}
			totals[e.DayKey()] = t
		}
		t.habits++
		if e.Completed {
			t.completions++
		}
		t.focus += e.duration()
		t.focusScoreSum += e.focusScore()
	}

	if len(days) > maxZoneDays {
		days = days[len(days)-maxZoneDays:]
	}

	out := make([]PerformanceZone, 0, len(days))
	for _, day := range days {
		t := totals[day]
		productivity := percent(t.completions, t.habits)
		energy := math.Min(100, t.focus/energyFullScaleMinutes*100)
		mood := float64(defaultMood)
		if t.completions > 0 {
			mood = t.focusScoreSum / float64(t.completions) * 20
		}
		out = append(out, PerformanceZone{
			Date:                day,
			ProductivityPercent: round(productivity),
			EnergyPercent:       round(energy),
			MoodScore:           round(mood),
			Zone:                ClassifyZone(productivity, energy, mood),
		})
	}
	return out
}
