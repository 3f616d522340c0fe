package frames

import "time"

const (
	maxBefore   = 5
	maxDuring   = 5
	maxSelected = 10

	// duringSlack tolerates sampling jitter at the tail of the window.
	duringSlack = time.Second
)

// Select picks the frames that give visual context around a speech window:
// up to 5 lead-in frames captured before start (the most recent ones) and
// up to 5 frames captured inside [start, end+1s] (the earliest ones).
// The result is chronological, deduplicated by capture timestamp and
// capped at 10 frames. An empty snapshot yields an empty result.
func Select(snapshot []Frame, start, end time.Time) []Frame {
	var before, during []Frame

	cutoff := end.Add(duringSlack)
	for _, f := range snapshot {
		switch {
		case f.CapturedAt.Before(start):
			before = append(before, f)
		case !f.CapturedAt.After(cutoff):
			if len(during) < maxDuring {
				during = append(during, f)
			}
		}
	}

	if len(before) > maxBefore {
		before = before[len(before)-maxBefore:]
	}

	selected := make([]Frame, 0, len(before)+len(during))
	seen := make(map[int64]struct{}, maxSelected)
	for _, f := range append(before, during...) {
		ts := f.CapturedAt.UnixNano()
		if _, ok := seen[ts]; ok {
			continue
		}
		seen[ts] = struct{}{}
		selected = append(selected, f)
		if len(selected) == maxSelected {
			break
		}
	}
	return selected
}
