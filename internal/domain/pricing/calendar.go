package pricing

import "time"

// ClassifyDays partitions a stay into billable day counts.
//
// The billable duration is end−start truncated to whole days, floored at 1:
// a stay shorter than 24h still bills as one day. Event days are counted by
// walking the half-open calendar range [date(start), date(end)) against the
// configured event dates; the walk uses the real end date even when the
// billing floor bumped totalDays to 1, so a sub-day stay can legitimately
// report zero event days.
func ClassifyDays(start, end time.Time, events DateSet) (totalDays, normalDays, eventDays int) {
	totalDays = int(end.Sub(start) / (24 * time.Hour))
	if totalDays < 1 {
		totalDays = 1
	}

	if len(events) > 0 {
		d := truncateToDate(start)
		stop := truncateToDate(end)
		for d.Before(stop) {
			if events.Contains(d) {
				eventDays++
			}
			d = d.AddDate(0, 0, 1)
		}
	}

	normalDays = totalDays - eventDays
	if normalDays < 0 {
		normalDays = 0
	}
	return totalDays, normalDays, eventDays
}

func truncateToDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
