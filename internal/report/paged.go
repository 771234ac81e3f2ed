package report

import (
	"context"
	"fmt"

	"github.com/kapu/tautulli-snitch-go/pkg/errors"
)

// maxUnboundedPages caps pagination against backends that report no total.
const maxUnboundedPages = 1000

// ListFunc returns one page of records starting at start, at most count of
// them, plus the backend's reported total row count. A total of -1 means the
// backend did not report one.
type ListFunc[T any] func(ctx context.Context, start, count int) ([]T, int, error)

// FetchAll drains a paginated endpoint into one slice, preserving record
// order within and across pages. It stops on a short page or once the
// reported total has been reached, and tolerates an empty final page.
//
// A backend that keeps reporting a total it never delivers would loop
// forever, so iteration is capped at total/pageSize + 2 pages; exceeding the
// cap fails with a FetchError.
func FetchAll[T any](ctx context.Context, list ListFunc[T], pageSize int) ([]T, error) {
	if pageSize <= 0 {
		return nil, errors.NewValidationError("page size must be positive", "pageSize", pageSize)
	}

	var all []T
	start := 0
	pages := 0
	maxPages := -1
	total := -1

	for {
		if maxPages >= 0 && pages >= maxPages {
			return nil, errors.NewFetchError(
				fmt.Sprintf("pagination did not terminate after %d pages (reported total %d, fetched %d)", pages, total, len(all)),
				pages, total, nil)
		}

		records, reportedTotal, err := list(ctx, start, pageSize)
		if err != nil {
			return nil, err
		}
		pages++

		if reportedTotal >= 0 {
			total = reportedTotal
		}
		if maxPages < 0 {
			if total >= 0 {
				// Bound derived from the first reported total; a backend
				// whose total keeps moving out of reach hits this cap.
				maxPages = total/pageSize + 2
			} else {
				// No total reported; only a short page can terminate the
				// loop, so fail safe with an absolute cap.
				maxPages = maxUnboundedPages
			}
		}

		all = append(all, records...)

		if len(records) < pageSize {
			return all, nil
		}
		if total >= 0 && len(all) >= total {
			return all, nil
		}

		start += pageSize
	}
}
