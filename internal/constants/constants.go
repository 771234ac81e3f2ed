package constants

import "time"

var APIConfig = struct {
	APIPath        string
	DefaultTimeout time.Duration
	PageSize       int
}{
	APIPath:        "/api/v2",
	DefaultTimeout: 30 * time.Second,
	PageSize:       10000, // Tautulli caps datatable endpoints at this length
}

var RetryConfig = struct {
	MaxAttempts int
	BaseDelay   time.Duration
	Jitter      time.Duration
}{
	MaxAttempts: 3,
	BaseDelay:   500 * time.Millisecond,
	Jitter:      250 * time.Millisecond,
}

var CircuitBreakerConfig = struct {
	FailureThreshold int
	ResetTimeout     time.Duration
}{
	FailureThreshold: 3,
	ResetTimeout:     30 * time.Second,
}

var DisplayConfig = struct {
	MaxNameLength int
	TimeLayout    string
}{
	MaxNameLength: 28,
	TimeLayout:    "2006-01-02 15:04:05",
}
