package analytics

import "sort"

const maxCorrelations = 10

// ClassifyStrength maps a co-completion percentage to a strength. The
// thresholds are exclusive: exactly 70 is moderate, exactly 40 is weak.
func ClassifyStrength(percent int) Strength {
	switch {
	case percent > 70:
		return StrengthStrong
	case percent > 40:
		return StrengthModerate
	default:
		return StrengthWeak
	}
}

// Correlations pairs every two distinct habits and reports how often both
// were completed on the same day, strongest first, at most ten pairs.
func Correlations(entries []Entry) []HabitCorrelation {
	names := uniqueInOrder(entries, habitName)
	if len(names) < 2 {
		return nil
	}

	// date -> set of habits completed that day
	completedOn := make(map[string]map[string]bool)
	for _, e := range entries {
		day := e.DayKey()
		if completedOn[day] == nil {
			completedOn[day] = make(map[string]bool)
		}
		if e.Completed {
			completedOn[day][e.HabitName] = true
		}
	}
	totalDays := len(completedOn)

	var out []HabitCorrelation
	for i := 0; i < len(names); i++ {
		for j := i + 1; j < len(names); j++ {
			co := 0
			for _, done := range completedOn {
				if done[names[i]] && done[names[j]] {
					co++
				}
			}
			pct := round(percent(co, totalDays))
			out = append(out, HabitCorrelation{
				HabitA:              names[i],
				HabitB:              names[j],
				CoCompletionPercent: pct,
				Strength:            ClassifyStrength(pct),
			})
		}
	}

	sort.SliceStable(out, func(a, b int) bool {
		return out[a].CoCompletionPercent > out[b].CoCompletionPercent
	})
	if len(out) > maxCorrelations {
		out = out[:maxCorrelations]
	}
	return out
}
