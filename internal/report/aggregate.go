package report

import (
	"github.com/kapu/tautulli-snitch-go/internal/domain"
	"github.com/kapu/tautulli-snitch-go/internal/tautulli"
)

// entry is the shared accumulator for both tables.
type entry struct {
	playCount int
	lastSeen  int64
}

func (e *entry) add(resolved int64) {
	e.playCount++
	if resolved > e.lastSeen {
		e.lastSeen = resolved
	}
}

// AggregateHistory walks a user's full play history once and builds the two
// detailed tables, both ranked by descending play count.
//
// A row with an empty ip_address still counts toward the device table, and a
// row whose device fields are all empty is a valid (if anonymous) device
// identity rather than an error.
func AggregateHistory(rows []tautulli.HistoryRow) ([]domain.IPEntry, []domain.DeviceEntry) {
	ipStats := make(map[string]*entry)
	devStats := make(map[domain.DeviceKey]*entry)
	var ipOrder []string
	var devOrder []domain.DeviceKey

	for _, row := range rows {
		resolved := ResolveLastSeen(row.Date, row.Started, row.Stopped)

		if row.IPAddress != "" {
			e, ok := ipStats[row.IPAddress]
			if !ok {
				e = &entry{}
				ipStats[row.IPAddress] = e
				ipOrder = append(ipOrder, row.IPAddress)
			}
			e.add(resolved)
		}

		key := domain.DeviceKey{Player: row.Player, Platform: row.Platform, Product: row.Product}
		e, ok := devStats[key]
		if !ok {
			e = &entry{}
			devStats[key] = e
			devOrder = append(devOrder, key)
		}
		e.add(resolved)
	}

	ipTable := make([]domain.IPEntry, 0, len(ipOrder))
	for _, ip := range ipOrder {
		e := ipStats[ip]
		ipTable = append(ipTable, domain.IPEntry{IP: ip, PlayCount: e.playCount, LastSeen: e.lastSeen})
	}

	devTable := make([]domain.DeviceEntry, 0, len(devOrder))
	for _, key := range devOrder {
		e := devStats[key]
		devTable = append(devTable, domain.DeviceEntry{Key: key, PlayCount: e.playCount, LastSeen: e.lastSeen})
	}

	ipTable = Rank(ipTable, func(e domain.IPEntry) int { return e.PlayCount }, true)
	devTable = Rank(devTable, func(e domain.DeviceEntry) int { return e.PlayCount }, true)
	return ipTable, devTable
}
