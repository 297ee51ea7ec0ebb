package analytics

import "time"

// trendMargin is how far the recent completion rate must move away from the
// previous one before the trend counts as up or down.
const trendMargin = 0.10

// TimeOfDay buckets an hour into Morning, Afternoon or Evening.
func TimeOfDay(hour int) string {
	switch {
	case hour < 12:
		return Morning
	case hour < 17:
		return Afternoon
	default:
		return Evening
	}
}

// ClassifyTrend compares two completion rates in the 0..1 range.
func ClassifyTrend(recent, previous float64) Trend {
	switch {
	case recent > previous+trendMargin:
		return TrendUp
	case recent < previous-trendMargin:
		return TrendDown
	default:
		return TrendStable
	}
}

// CategoryInsights summarizes each category. The trend compares the last
// seven days before now against the seven days before that.
func CategoryInsights(entries []Entry, now time.Time) []CategoryInsight {
	recentStart := now.AddDate(0, 0, -7)
	previousStart := now.AddDate(0, 0, -14)

	var out []CategoryInsight
	for _, cat := range uniqueInOrder(entries, category) {
		var (
			total, completed      int
			durationSum           float64
			hours                 [24]int
			recentTotal, recentOK int
			previousTotal, prevOK int
		)
		for _, e := range entries {
			if e.Category != cat {
				continue
			}
			total++
			if e.Completed {
				completed++
				durationSum += e.duration()
				if e.CompletedAt != nil {
					hours[e.CompletedAt.Local().Hour()]++
				}
			}

			switch {
			case !e.Date.Before(recentStart):
				recentTotal++
				if e.Completed {
					recentOK++
				}
			case !e.Date.Before(previousStart):
				previousTotal++
				if e.Completed {
					prevOK++
				}
			}
		}

		avg := 0
		if completed > 0 {
			avg = round(durationSum / float64(completed))
		}

		out = append(out, CategoryInsight{
			Category:             cat,
			AvgCompletionMinutes: avg,
			BestTimeOfDay:        TimeOfDay(busiestHour(hours)),
			ConsistencyPercent:   round(percent(completed, total)),
			Trend:                ClassifyTrend(rate(recentOK, recentTotal), rate(prevOK, previousTotal)),
		})
	}
	return out
}

// busiestHour returns the hour with the highest count; the lowest hour wins
// ties, so an empty histogram yields 0.
func busiestHour(hours [24]int) int {
	best := 0
	for h := 1; h < len(hours); h++ {
		if hours[h] > hours[best] {
			best = h
		}
	}
	return best
}

func rate(ok, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(ok) / float64(total)
}
