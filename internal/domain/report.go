package domain

import "strings"

// SortMode selects the summary table ordering.
type SortMode string

const (
	SortByName    SortMode = "name"    // display name, ascending
	SortByDevices SortMode = "devices" // device count, descending
	SortByIPs     SortMode = "ips"     // unique IP count, descending
)

// ParseSortMode validates a --sort flag value.
func ParseSortMode(s string) (SortMode, bool) {
	switch SortMode(strings.ToLower(s)) {
	case SortByName:
		return SortByName, true
	case SortByDevices:
		return SortByDevices, true
	case SortByIPs:
		return SortByIPs, true
	}
	return "", false
}

// DeviceKey identifies a client device/application by exact value equality.
// Empty components are valid: two rows agree on a device only when all three
// fields match.
type DeviceKey struct {
	Player   string
	Platform string
	Product  string
}

// Label renders the key the way the report displays it, skipping empty parts.
func (k DeviceKey) Label() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{k.Player, k.Platform, k.Product} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return "Unknown device"
	}
	return strings.Join(parts, " / ")
}

// IPEntry is one row of the detailed per-IP table.
type IPEntry struct {
	IP        string
	PlayCount int
	LastSeen  int64 // epoch seconds, 0 = never resolved
	Country   string
}

// DeviceEntry is one row of the detailed per-device table.
type DeviceEntry struct {
	Key       DeviceKey
	PlayCount int
	LastSeen  int64
}

// UserDetail is the detailed report for one matched user.
type UserDetail struct {
	User      User
	TotalRows int
	IPs       []IPEntry
	Devices   []DeviceEntry
}
