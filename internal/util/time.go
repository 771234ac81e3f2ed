package util

import (
	"strconv"
	"time"

	"github.com/kapu/tautulli-snitch-go/internal/constants"
)

// FormatEpoch renders an epoch-seconds value in local time for display.
// Zero means "never resolved" and renders as "unknown".
func FormatEpoch(ts int64) string {
	if ts == 0 {
		return "unknown"
	}
	if ts < 0 {
		return strconv.FormatInt(ts, 10)
	}
	return time.Unix(ts, 0).Format(constants.DisplayConfig.TimeLayout)
}
