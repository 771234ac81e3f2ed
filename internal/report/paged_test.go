package report

import (
	"context"
	"errors"
	"fmt"
	"testing"

	apperrors "github.com/kapu/tautulli-snitch-go/pkg/errors"
)

// pagedBackend serves n sequential records in pages, mimicking a Tautulli
// datatable endpoint.
func pagedBackend(n int) ListFunc[int] {
	return func(_ context.Context, start, count int) ([]int, int, error) {
		if start >= n {
			return nil, n, nil
		}
		end := start + count
		if end > n {
			end = n
		}
		page := make([]int, 0, end-start)
		for i := start; i < end; i++ {
			page = append(page, i)
		}
		return page, n, nil
	}
}

func TestFetchAllCompleteness(t *testing.T) {
	const pageSize = 10000

	for _, n := range []int{0, pageSize, pageSize + 1, 10000, 10001, 1, 25000} {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			records, err := FetchAll(context.Background(), pagedBackend(n), pageSize)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(records) != n {
				t.Fatalf("got %d records, want %d", len(records), n)
			}
			for i, v := range records {
				if v != i {
					t.Fatalf("record %d out of order: got %d", i, v)
				}
			}
		})
	}
}

func TestFetchAllSmallPages(t *testing.T) {
	records, err := FetchAll(context.Background(), pagedBackend(7), 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 7 {
		t.Fatalf("got %d records, want 7", len(records))
	}
}

func TestFetchAllEmptyFinalPage(t *testing.T) {
	// With no reported total and a record count that divides evenly by the
	// page size, the loop only learns it is done from an empty final page.
	list := func(_ context.Context, start, count int) ([]int, int, error) {
		if start >= 6 {
			return nil, -1, nil
		}
		page := make([]int, count)
		return page, -1, nil
	}

	records, err := FetchAll(context.Background(), list, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 6 {
		t.Fatalf("got %d records, want 6", len(records))
	}
}

func TestFetchAllBoundExceeded(t *testing.T) {
	// Misbehaving backend: always a full page, and a reported total that
	// stays out of reach.
	calls := 0
	list := func(_ context.Context, start, count int) ([]int, int, error) {
		calls++
		page := make([]int, count)
		return page, start + count + 50, nil
	}

	_, err := FetchAll(context.Background(), list, 10)
	if err == nil {
		t.Fatal("expected FetchError, got nil")
	}
	var fetchErr *apperrors.FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("expected FetchError, got %T: %v", err, err)
	}
	wantPages := 60/10 + 2 // first reported total / page size + 2
	if calls != wantPages {
		t.Fatalf("backend called %d times, want %d", calls, wantPages)
	}
}

func TestFetchAllPropagatesBackendError(t *testing.T) {
	boom := fmt.Errorf("transport down")
	failAt := 2

	calls := 0
	list := func(_ context.Context, start, count int) ([]int, int, error) {
		calls++
		if calls == failAt {
			return nil, 0, boom
		}
		return make([]int, count), count * 10, nil
	}

	_, err := FetchAll(context.Background(), list, 5)
	if err != boom {
		t.Fatalf("expected backend error to propagate unmodified, got %v", err)
	}
}

func TestFetchAllUnreportedTotal(t *testing.T) {
	// A backend that never reports a total terminates on the short page.
	list := func(_ context.Context, start, count int) ([]int, int, error) {
		if start >= 8 {
			return []int{8}, -1, nil
		}
		page := make([]int, count)
		return page, -1, nil
	}

	records, err := FetchAll(context.Background(), list, 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 9 {
		t.Fatalf("got %d records, want 9", len(records))
	}
}

func TestFetchAllRejectsBadPageSize(t *testing.T) {
	_, err := FetchAll(context.Background(), pagedBackend(1), 0)
	if err == nil {
		t.Fatal("expected error for page size 0")
	}
}
