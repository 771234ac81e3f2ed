package report

import "github.com/kapu/tautulli-snitch-go/internal/tautulli"

// ResolveLastSeen picks the latest of a history row's candidate timestamps.
// Zero and absent are the same "no value"; the result is 0 when all three
// candidates are absent. Called once per row during aggregation — an
// aggregate's last_seen is the running maximum of these per-row values.
func ResolveLastSeen(date, started, stopped tautulli.Epoch) int64 {
	best := int64(0)
	for _, ts := range []tautulli.Epoch{date, started, stopped} {
		if int64(ts) > best {
			best = int64(ts)
		}
	}
	return best
}
