package tautulli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	apperrors "github.com/kapu/tautulli-snitch-go/pkg/errors"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(server.Client(), server.URL, "secret", zap.NewNop())
}

func TestDoCommandSendsCredentials(t *testing.T) {
	var gotKey, gotCmd, gotUser string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.URL.Query().Get("apikey")
		gotCmd = r.URL.Query().Get("cmd")
		gotUser = r.URL.Query().Get("user_id")
		fmt.Fprint(w, `{"response":{"result":"success","message":null,"data":[]}}`)
	})

	_, err := client.GetUserPlayerStats(context.Background(), 42)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotKey != "secret" {
		t.Fatalf("apikey = %q, want %q", gotKey, "secret")
	}
	if gotCmd != "get_user_player_stats" {
		t.Fatalf("cmd = %q", gotCmd)
	}
	if gotUser != "42" {
		t.Fatalf("user_id = %q", gotUser)
	}
}

func TestGetUserNames(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"response":{"result":"success","data":[
			{"user_id":1,"friendly_name":"Alice"},
			{"user_id":2,"friendly_name":"","username":"bob"}
		]}}`)
	})

	users, err := client.GetUserNames(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("got %d users, want 2", len(users))
	}
	if users[0].DisplayName() != "Alice" {
		t.Fatalf("display name = %q", users[0].DisplayName())
	}
	if users[1].DisplayName() != "bob" {
		t.Fatalf("fallback display name = %q", users[1].DisplayName())
	}
}

func TestDoCommandEnvelopeError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"response":{"result":"error","message":"Invalid apikey","data":null}}`)
	})

	_, err := client.GetUserNames(context.Background())
	var apiErr *apperrors.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
}

func TestDoCommandClientHTTPError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	})

	_, err := client.GetUserNames(context.Background())
	var apiErr *apperrors.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", apiErr.StatusCode)
	}
}

func TestGetUserPlayerStatsObjectShape(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"response":{"result":"success","data":{"players":[
			{"player_name":"PS5","total_plays":10},
			{"player_name":"iPhone","total_plays":3}
		]}}}`)
	})

	stats, err := client.GetUserPlayerStats(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(stats) != 2 || stats[0].PlayerName != "PS5" {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

func TestGetHistoryDatatable(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("grouping"); got != "0" {
			t.Errorf("grouping = %q, want 0", got)
		}
		fmt.Fprint(w, `{"response":{"result":"success","data":{
			"recordsTotal":250,"recordsFiltered":2,
			"data":[
				{"ip_address":"1.1.1.1","player":"PS5","platform":"PlayStation","date":100,"started":"200","stopped":null},
				{"ip_address":"","player":"Chrome","date":"not-a-number"}
			]
		}}}`)
	})

	rows, total, err := client.GetHistory(context.Background(), 1, 0, 25)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 2 {
		t.Fatalf("total = %d, want recordsFiltered 2", total)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	if rows[0].Date != 100 || rows[0].Started != 200 || rows[0].Stopped != 0 {
		t.Fatalf("timestamp decoding wrong: %+v", rows[0])
	}
	if rows[1].Date != 0 {
		t.Fatalf("unparseable timestamp should decode to 0, got %d", rows[1].Date)
	}
}

func TestGetUserIPsBareArrayShape(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"response":{"result":"success","data":[
			{"ip_address":"1.1.1.1"},{"ip_address":"2.2.2.2"}
		]}}`)
	})

	rows, total, err := client.GetUserIPs(context.Background(), 1, 0, 25)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != -1 {
		t.Fatalf("total = %d, want -1 for unreported", total)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
}
