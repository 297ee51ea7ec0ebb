package analytics

type hourBucket struct {
	total       int
	completions int
	focus       float64
}

// TimePatterns buckets timestamped entries by local hour of completion.
// Hours without any entry are omitted.
func TimePatterns(entries []Entry) []TimePattern {
	var buckets [24]hourBucket
	for _, e := range entries {
		if e.CompletedAt == nil {
			continue
		}
		b := &buckets[e.CompletedAt.Local().Hour()]
		b.total++
		if e.Completed {
			b.completions++
		}
		b.focus += e.duration()
	}

	var out []TimePattern
	for hour, b := range buckets {
		if b.total == 0 {
			continue
		}
		out = append(out, TimePattern{
			Hour:               hour,
			Completions:        b.completions,
			SuccessRatePercent: round(percent(b.completions, b.total)),
			AvgFocusMinutes:    round(b.focus / float64(b.total)),
		})
	}
	return out
}
