package domain

import "fmt"

// User is one Tautulli account as reported by get_user_names.
type User struct {
	ID   int
	Name string
}

// UserSummary is one row of the summary report.
type UserSummary struct {
	UserID        int
	Name          string
	DeviceCount   int // raw player-stats entry count, not deduplicated
	UniqueIPCount int
}

// FallbackName returns a display name for users without one.
func FallbackName(userID int) string {
	return fmt.Sprintf("User %d", userID)
}
