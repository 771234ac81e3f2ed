package tautulli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"math/rand"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/kapu/tautulli-snitch-go/internal/constants"
	"github.com/kapu/tautulli-snitch-go/pkg/errors"
)

// API is the surface the report layer consumes. Kept narrow so tests can
// substitute a fake.
type API interface {
	GetUserNames(ctx context.Context) ([]UserName, error)
	GetUserPlayerStats(ctx context.Context, userID int) ([]PlayerStat, error)
	GetUserIPs(ctx context.Context, userID, start, length int) ([]UserIP, int, error)
	GetHistory(ctx context.Context, userID, start, length int) ([]HistoryRow, int, error)
}

// Client talks to a Tautulli server's /api/v2 endpoint. Transient network
// and 5xx failures are retried with backoff; consecutive failures open a
// circuit so a dead backend is not hammered across a many-user summary run.
type Client struct {
	httpClient       *http.Client
	baseURL          string
	apiKey           string
	logger           *zap.Logger
	failureCount     int
	failureMu        sync.Mutex
	circuitOpenUntil *time.Time
	circuitMu        sync.RWMutex
}

func NewClient(httpClient *http.Client, baseURL, apiKey string, logger *zap.Logger) *Client {
	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		apiKey:     apiKey,
		logger:     logger,
	}
}

// DoCommand issues one API command and returns the envelope's data payload.
func (c *Client) DoCommand(ctx context.Context, cmd string, params url.Values) (json.RawMessage, error) {
	if c.isCircuitOpen() {
		c.circuitMu.RLock()
		var remainingMs int64
		if c.circuitOpenUntil != nil {
			remainingMs = time.Until(*c.circuitOpenUntil).Milliseconds()
		}
		c.circuitMu.RUnlock()

		c.logger.Warn("Circuit breaker is open", zap.Int64("retry_after_ms", remainingMs))
		return nil, errors.NewAPIError("Circuit breaker open", 503, map[string]any{
			"retry_after_ms": remainingMs,
		})
	}

	if params == nil {
		params = url.Values{}
	}
	params.Set("apikey", c.apiKey)
	params.Set("cmd", cmd)
	reqURL := c.baseURL + constants.APIConfig.APIPath + "?" + params.Encode()

	maxAttempts := constants.RetryConfig.MaxAttempts
	var lastErr error

	for attempt := 0; attempt < maxAttempts; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			count := c.incrementFailureCount()

			if count >= constants.CircuitBreakerConfig.FailureThreshold {
				c.openCircuit()
				break
			}

			if attempt < maxAttempts-1 {
				delay := c.computeDelay(attempt)
				c.logger.Warn("Request failed, retrying",
					zap.String("cmd", cmd),
					zap.Error(err),
					zap.Int("attempt", attempt+1),
					zap.Duration("delay", delay),
				)
				time.Sleep(delay)
				continue
			}
			break
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()

		if err != nil {
			lastErr = err
			continue
		}

		if resp.StatusCode >= 500 {
			count := c.incrementFailureCount()
			c.logger.Warn("Server error",
				zap.String("cmd", cmd),
				zap.Int("status", resp.StatusCode),
				zap.Int("failure_count", count),
			)

			if count >= constants.CircuitBreakerConfig.FailureThreshold {
				c.openCircuit()
				break
			}

			if attempt < maxAttempts-1 {
				time.Sleep(c.computeDelay(attempt))
				continue
			}

			return nil, errors.NewAPIError(fmt.Sprintf("Server error: %d", resp.StatusCode), resp.StatusCode, map[string]any{
				"cmd": cmd,
			})
		}

		if resp.StatusCode >= 400 {
			return nil, errors.NewAPIError(fmt.Sprintf("Client error: %d", resp.StatusCode), resp.StatusCode, map[string]any{
				"cmd":  cmd,
				"body": string(body),
			})
		}

		var env envelope
		if err := json.Unmarshal(body, &env); err != nil {
			return nil, errors.NewAPIError("Malformed API response", resp.StatusCode, map[string]any{
				"cmd": cmd,
			}).WithCause(err)
		}

		if env.Response.Result != "success" {
			msg := "Unknown error"
			if env.Response.Message != nil && *env.Response.Message != "" {
				msg = *env.Response.Message
			}
			return nil, errors.NewAPIError(fmt.Sprintf("Tautulli error for %q: %s", cmd, msg), resp.StatusCode, map[string]any{
				"cmd": cmd,
			})
		}

		c.resetCircuit()
		return env.Response.Data, nil
	}

	if lastErr != nil {
		return nil, lastErr
	}
	return nil, fmt.Errorf("tautulli request failed: %s", cmd)
}

// GetUserNames lists every known user.
func (c *Client) GetUserNames(ctx context.Context) ([]UserName, error) {
	data, err := c.DoCommand(ctx, "get_user_names", nil)
	if err != nil {
		return nil, err
	}

	var users []UserName
	if err := json.Unmarshal(data, &users); err != nil {
		return nil, errors.NewAPIError("Unexpected get_user_names payload", 0, nil).WithCause(err)
	}
	return users, nil
}

// GetUserPlayerStats returns the per-device-type stat records for one user.
func (c *Client) GetUserPlayerStats(ctx context.Context, userID int) ([]PlayerStat, error) {
	params := url.Values{}
	params.Set("user_id", strconv.Itoa(userID))

	data, err := c.DoCommand(ctx, "get_user_player_stats", params)
	if err != nil {
		return nil, err
	}

	// Bare array first, then the {"players": [...]} object shape.
	var stats []PlayerStat
	if err := json.Unmarshal(data, &stats); err == nil {
		return stats, nil
	}
	var wrapped playerStatsData
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return nil, errors.NewAPIError("Unexpected get_user_player_stats payload", 0, map[string]any{
			"user_id": userID,
		}).WithCause(err)
	}
	return wrapped.Players, nil
}

// GetUserIPs returns one page of a user's IP datatable plus the reported
// total row count.
func (c *Client) GetUserIPs(ctx context.Context, userID, start, length int) ([]UserIP, int, error) {
	params := url.Values{}
	params.Set("user_id", strconv.Itoa(userID))
	params.Set("start", strconv.Itoa(start))
	params.Set("length", strconv.Itoa(length))

	data, err := c.DoCommand(ctx, "get_user_ips", params)
	if err != nil {
		return nil, 0, err
	}

	var rows []UserIP
	total, err := decodeDatatable(data, &rows)
	if err != nil {
		return nil, 0, errors.NewAPIError("Unexpected get_user_ips payload", 0, map[string]any{
			"user_id": userID,
		}).WithCause(err)
	}
	return rows, total, nil
}

// GetHistory returns one page of a user's play history plus the reported
// total row count. grouping=0 keeps individual rows, matching what the web
// UI shows on the History tab.
func (c *Client) GetHistory(ctx context.Context, userID, start, length int) ([]HistoryRow, int, error) {
	params := url.Values{}
	params.Set("user_id", strconv.Itoa(userID))
	params.Set("start", strconv.Itoa(start))
	params.Set("length", strconv.Itoa(length))
	params.Set("grouping", "0")

	data, err := c.DoCommand(ctx, "get_history", params)
	if err != nil {
		return nil, 0, err
	}

	var rows []HistoryRow
	total, err := decodeDatatable(data, &rows)
	if err != nil {
		return nil, 0, errors.NewAPIError("Unexpected get_history payload", 0, map[string]any{
			"user_id": userID,
		}).WithCause(err)
	}
	return rows, total, nil
}

// decodeDatatable unpacks a datatable payload into dest and returns the
// reported total. Some proxied installations return the row list bare, so
// that shape is accepted too.
func decodeDatatable(data json.RawMessage, dest any) (int, error) {
	var table datatable
	if err := json.Unmarshal(data, &table); err == nil {
		if table.Data == nil {
			return 0, nil // object shape with no rows
		}
		if err := json.Unmarshal(table.Data, dest); err != nil {
			return 0, err
		}
		total := table.RecordsFiltered
		if total == 0 {
			total = table.RecordsTotal
		}
		return total, nil
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return 0, err
	}
	return -1, nil // no total reported
}

func (c *Client) isCircuitOpen() bool {
	c.circuitMu.RLock()
	defer c.circuitMu.RUnlock()

	if c.circuitOpenUntil == nil {
		return false
	}
	return time.Now().Before(*c.circuitOpenUntil)
}

func (c *Client) openCircuit() {
	c.circuitMu.Lock()
	defer c.circuitMu.Unlock()

	resetTime := time.Now().Add(constants.CircuitBreakerConfig.ResetTimeout)
	c.circuitOpenUntil = &resetTime
	c.failureCount = 0

	c.logger.Error("Tautulli circuit breaker opened",
		zap.Duration("reset_timeout", constants.CircuitBreakerConfig.ResetTimeout),
	)
}

func (c *Client) resetCircuit() {
	c.circuitMu.Lock()
	defer c.circuitMu.Unlock()

	c.failureCount = 0
	c.circuitOpenUntil = nil
}

func (c *Client) incrementFailureCount() int {
	c.failureMu.Lock()
	defer c.failureMu.Unlock()

	c.failureCount++
	return c.failureCount
}

func (c *Client) computeDelay(attempt int) time.Duration {
	base := constants.RetryConfig.BaseDelay * time.Duration(math.Pow(2, float64(attempt)))
	jitter := time.Duration(rand.Float64() * float64(constants.RetryConfig.Jitter))
	return base + jitter
}
