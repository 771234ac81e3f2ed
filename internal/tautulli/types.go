package tautulli

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Epoch is an epoch-seconds timestamp as Tautulli serializes it: a number, a
// numeric string, an empty string, or null. Anything absent, zero, or
// unparseable decodes to 0, which the aggregation layer treats as "no value".
type Epoch int64

func (e *Epoch) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*e = 0
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			*e = 0
			return nil
		}
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			*e = 0
			return nil
		}
		*e = Epoch(v)
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		*e = 0
		return nil
	}
	*e = Epoch(int64(v))
	return nil
}

// UserName is one entry from get_user_names.
type UserName struct {
	UserID       int    `json:"user_id"`
	FriendlyName string `json:"friendly_name"`
	Username     string `json:"username"`
}

// DisplayName prefers the friendly name, then the login name.
func (u UserName) DisplayName() string {
	if u.FriendlyName != "" {
		return u.FriendlyName
	}
	return u.Username
}

// PlayerStat is one per-device-type record from get_user_player_stats.
type PlayerStat struct {
	PlayerName   string `json:"player_name"`
	PlatformName string `json:"platform_name"`
	PlatformType string `json:"platform_type"`
	TotalPlays   int    `json:"total_plays"`
}

// UserIP is one row from the paginated get_user_ips datatable.
type UserIP struct {
	IPAddress string `json:"ip_address"`
	LastSeen  Epoch  `json:"last_seen"`
	PlayCount int    `json:"play_count"`
}

// HistoryRow is one play event from the paginated get_history datatable.
// Only the fields the report consumes are decoded; the rest of the row is
// ignored.
type HistoryRow struct {
	IPAddress string `json:"ip_address"`
	Player    string `json:"player"`
	Platform  string `json:"platform"`
	Product   string `json:"product"`
	Date      Epoch  `json:"date"`
	Started   Epoch  `json:"started"`
	Stopped   Epoch  `json:"stopped"`
}

// envelope is the outer response wrapper every /api/v2 call returns.
type envelope struct {
	Response struct {
		Result  string          `json:"result"`
		Message *string         `json:"message"`
		Data    json.RawMessage `json:"data"`
	} `json:"response"`
}

// datatable is the paging wrapper used by get_user_ips and get_history.
type datatable struct {
	RecordsTotal    int             `json:"recordsTotal"`
	RecordsFiltered int             `json:"recordsFiltered"`
	Data            json.RawMessage `json:"data"`
}

// playerStatsData tolerates both shapes get_user_player_stats has shipped:
// a bare array and an object with a "players" list.
type playerStatsData struct {
	Players []PlayerStat `json:"players"`
}
