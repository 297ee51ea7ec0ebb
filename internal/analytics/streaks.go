package analytics

const maxStreakEvents = 30

// Streaks scans each category's completed entries in input order and
// records an event whenever a streak is broken.
//
// The scan only ever sees completed entries, so the break branch in
// scanStreak is not reached and no events are produced for real data. This
// matches how the dashboard has always behaved; changing it alters what users
// see and needs a product decision first.
func Streaks(entries []Entry) []StreakEvent {
	var events []StreakEvent
	for _, cat := range uniqueInOrder(entries, category) {
		var done []Entry
		for _, e := range entries {
			if e.Category == cat && e.Completed {
				done = append(done, e)
			}
		}
		events = append(events, scanStreak(cat, done)...)
	}
	if len(events) > maxStreakEvents {
		events = events[len(events)-maxStreakEvents:]
	}
	return events
}

func scanStreak(cat string, entries []Entry) []StreakEvent {
	var events []StreakEvent
	current, momentum := 0, 0
	for i, e := range entries {
		if e.Completed {
			current++
			if i == 0 {
				momentum = 1
			} else {
				momentum++
			}
			continue
		}
		if current > 0 {
			events = append(events, StreakEvent{
				Date:         e.DayKey(),
				StreakLength: current,
				Category:     cat,
				Momentum:     momentum,
			})
		}
		current, momentum = 0, 0
	}
	return events
}
