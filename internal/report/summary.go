package report

import (
	"context"

	"github.com/kapu/tautulli-snitch-go/internal/domain"
	"github.com/kapu/tautulli-snitch-go/internal/tautulli"
)

// BuildSummary produces one UserSummary per user: the raw player-stats entry
// count (no deduplication) and the deduplicated unique-IP count drained from
// the paginated IP listing. Fetch errors propagate; there is no per-user
// suppression.
func (s *Service) BuildSummary(ctx context.Context, users []tautulli.UserName) ([]domain.UserSummary, error) {
	summaries := make([]domain.UserSummary, 0, len(users))

	for _, u := range users {
		name := u.DisplayName()
		if name == "" {
			name = domain.FallbackName(u.UserID)
		}

		stats, err := s.api.GetUserPlayerStats(ctx, u.UserID)
		if err != nil {
			return nil, err
		}

		ips, err := FetchAll(ctx, func(ctx context.Context, start, count int) ([]tautulli.UserIP, int, error) {
			return s.api.GetUserIPs(ctx, u.UserID, start, count)
		}, s.pageSize)
		if err != nil {
			return nil, err
		}

		unique := make(map[string]struct{}, len(ips))
		for _, row := range ips {
			if row.IPAddress != "" {
				unique[row.IPAddress] = struct{}{}
			}
		}

		summaries = append(summaries, domain.UserSummary{
			UserID:        u.UserID,
			Name:          name,
			DeviceCount:   len(stats),
			UniqueIPCount: len(unique),
		})
	}

	return summaries, nil
}
