package report

import (
	"context"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/kapu/tautulli-snitch-go/internal/domain"
	"github.com/kapu/tautulli-snitch-go/internal/tautulli"
	"github.com/kapu/tautulli-snitch-go/internal/util"
	"github.com/kapu/tautulli-snitch-go/pkg/errors"
)

// IPAnnotator adds an origin country to resolved IP entries. Nil disables
// enrichment.
type IPAnnotator interface {
	Country(ip string) string
}

// Service runs one report at a time over the Tautulli API. All state is
// request-scoped; nothing is cached between runs.
type Service struct {
	api       tautulli.API
	annotator IPAnnotator
	logger    *zap.Logger
	pageSize  int
}

func NewService(api tautulli.API, annotator IPAnnotator, pageSize int, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		api:       api,
		annotator: annotator,
		logger:    logger,
		pageSize:  pageSize,
	}
}

// Summary builds the per-user summary table in the requested order. Zero
// users is not an error: the caller gets an empty table and can report
// "0 users" distinctly from a transport failure.
func (s *Service) Summary(ctx context.Context, mode domain.SortMode) ([]domain.UserSummary, error) {
	users, err := s.api.GetUserNames(ctx)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Fetched user list", zap.Int("users", len(users)))

	if len(users) == 0 {
		s.logger.Warn("No users returned by the server")
		return []domain.UserSummary{}, nil
	}

	summaries, err := s.BuildSummary(ctx, users)
	if err != nil {
		return nil, err
	}

	switch mode {
	case domain.SortByName:
		summaries = Rank(summaries, func(u domain.UserSummary) string { return util.Normalize(u.Name) }, false)
	case domain.SortByIPs:
		summaries = Rank(summaries, func(u domain.UserSummary) int { return u.UniqueIPCount }, true)
	default:
		summaries = Rank(summaries, func(u domain.UserSummary) int { return u.DeviceCount }, true)
	}
	return summaries, nil
}

// Detail builds the ranked IP and device tables for every user matching the
// filter. A numeric filter matches by user ID; anything else matches the
// display name case-insensitively as a substring. No match at all is a
// UserNotFoundError.
func (s *Service) Detail(ctx context.Context, filter string) ([]domain.UserDetail, error) {
	if strings.TrimSpace(filter) == "" {
		return nil, errors.NewValidationError("user filter must not be empty", "user", filter)
	}

	users, err := s.api.GetUserNames(ctx)
	if err != nil {
		return nil, err
	}

	matches := matchUsers(users, filter)
	s.logger.Info("Matched users for filter",
		zap.String("filter", filter),
		zap.Int("matches", len(matches)),
	)
	if len(matches) == 0 {
		return nil, errors.NewUserNotFoundError(filter)
	}

	details := make([]domain.UserDetail, 0, len(matches))
	for _, user := range matches {
		rows, err := FetchAll(ctx, func(ctx context.Context, start, count int) ([]tautulli.HistoryRow, int, error) {
			return s.api.GetHistory(ctx, user.ID, start, count)
		}, s.pageSize)
		if err != nil {
			return nil, err
		}
		s.logger.Info("History rows loaded",
			zap.String("user", user.Name),
			zap.Int("rows", len(rows)),
		)

		ipTable, devTable := AggregateHistory(rows)
		if s.annotator != nil {
			for i := range ipTable {
				ipTable[i].Country = s.annotator.Country(ipTable[i].IP)
			}
		}

		details = append(details, domain.UserDetail{
			User:      user,
			TotalRows: len(rows),
			IPs:       ipTable,
			Devices:   devTable,
		})
	}
	return details, nil
}

func matchUsers(users []tautulli.UserName, filter string) []domain.User {
	var matches []domain.User

	if id, err := strconv.Atoi(strings.TrimSpace(filter)); err == nil {
		for _, u := range users {
			if u.UserID == id {
				name := u.DisplayName()
				if name == "" {
					name = domain.FallbackName(u.UserID)
				}
				matches = append(matches, domain.User{ID: u.UserID, Name: name})
			}
		}
		return matches
	}

	target := util.Normalize(filter)
	for _, u := range users {
		name := u.DisplayName()
		if name == "" {
			name = domain.FallbackName(u.UserID)
		}
		if strings.Contains(strings.ToLower(name), target) {
			matches = append(matches, domain.User{ID: u.UserID, Name: name})
		}
	}
	return matches
}
