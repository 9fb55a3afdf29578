package ncaa

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	crerr "github.com/cockroachdb/errors"

	"github.com/bardown/lacrosse-tracker/internal/platform/logging"
	"github.com/bardown/lacrosse-tracker/internal/platform/resilience"
	"github.com/bardown/lacrosse-tracker/internal/usecase"
)

const testHash = "ab12cd34ef56ab12cd34ef56ab12cd34ef56ab12cd34ef56ab12cd34ef56ab12"

func TestExtractHash(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		html string
		want string
	}{
		{
			name: "valid hash",
			html: fmt.Sprintf(`{"GetContests_web":"%s","Other":"x"}`, testHash),
			want: testHash,
		},
		{
			name: "marker absent",
			html: `{"SomethingElse":"abc"}`,
			want: "",
		},
		{
			name: "wrong length",
			html: `{"GetContests_web":"abc123"}`,
			want: "",
		},
		{
			name: "non-hex characters",
			html: fmt.Sprintf(`{"GetContests_web":"%s"}`, strings.Repeat("zz", 32)),
			want: "",
		},
		{
			name: "unterminated value",
			html: `{"GetContests_web":"` + testHash,
			want: "",
		},
	}

	for _, tc := range cases {
		if got := extractHash(tc.html); got != tc.want {
			t.Errorf("%s: extractHash = %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestSeasonYear(t *testing.T) {
	t.Parallel()

	spring := time.Date(2026, time.March, 14, 0, 0, 0, 0, time.UTC)
	if got := seasonYear(spring); got != 2025 {
		t.Fatalf("spring season year = %d, want 2025", got)
	}

	fall := time.Date(2025, time.September, 1, 0, 0, 0, 0, time.UTC)
	if got := seasonYear(fall); got != 2025 {
		t.Fatalf("fall season year = %d, want 2025", got)
	}
}

const contestsPayload = `{
	"data": {
		"contests": [
			{
				"contestId": 101,
				"gameState": "F",
				"currentPeriod": "",
				"contestClock": "",
				"startTimeEpoch": 1740250800,
				"teams": [
					{"isHome": true, "seoname": "duke", "nameShort": "Duke", "name6Char": "duke", "score": 13, "teamRank": 2, "conferenceSeo": "acc"},
					{"isHome": false, "seoname": "syracuse", "nameShort": "Syracuse", "name6Char": "cuse", "score": 10, "conferenceSeo": "acc"}
				]
			},
			{
				"contestId": 102,
				"gameState": "I",
				"currentPeriod": "3rd",
				"contestClock": "04:31",
				"startTimeEpoch": 1740254400,
				"teams": [
					{"isHome": true, "seoname": "cornell", "nameShort": "Cornell", "name6Char": "corn", "score": 7, "conferenceSeo": "ivy-league"},
					{"isHome": false, "seoname": "princeton", "nameShort": "Princeton", "name6Char": "princ", "score": 5, "conferenceSeo": "ivy-league"}
				]
			}
		]
	}
}`

const expiredPayload = `{
	"errors": [
		{"message": "PersistedQueryNotFound", "extensions": {"code": "PERSISTED_QUERY_NOT_FOUND"}}
	]
}`

// newTestServer routes persisted-query requests to queryHandler and every
// other request to the scoreboard-page handler that serves the hash.
func newTestServer(pageCalls, queryCalls *atomic.Int32, queryHandler func(call int32, w http.ResponseWriter)) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("meta") == "GetContests_web" {
			queryHandler(queryCalls.Add(1), w)
			return
		}
		pageCalls.Add(1)
		fmt.Fprintf(w, `<script>{"GetContests_web":"%s"}</script>`, testHash)
	}))
}

func newTestClientFor(srv *httptest.Server) *Client {
	return NewClient(ClientConfig{
		HTTPClient:        srv.Client(),
		GraphQLURL:        srv.URL,
		ScoreboardPageURL: srv.URL + "/scoreboard",
		Logger:            logging.NewNop(),
		CircuitBreaker:    resilience.CircuitBreakerConfig{Enabled: false},
	})
}

func TestFetchScoreboard_MapsContests(t *testing.T) {
	t.Parallel()

	var pageCalls, queryCalls atomic.Int32
	srv := newTestServer(&pageCalls, &queryCalls, func(_ int32, w http.ResponseWriter) {
		_, _ = w.Write([]byte(contestsPayload))
	})
	defer srv.Close()

	client := newTestClientFor(srv)

	games, err := client.FetchScoreboard(context.Background(), time.Date(2026, 2, 22, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("fetch scoreboard: %v", err)
	}
	if len(games) != 2 {
		t.Fatalf("expected 2 games, got %d", len(games))
	}

	final := games[0]
	if final.Status != "final" || final.HomeTeamName != "Duke" || final.HomeScore != 13 {
		t.Fatalf("unexpected final game: %+v", final)
	}
	if final.HomeTeamShort != "DUKE" {
		t.Fatalf("short name should be uppercased: %q", final.HomeTeamShort)
	}
	if final.HomeRank != "2" || final.AwayRank != "" {
		t.Fatalf("unexpected ranks: home=%q away=%q", final.HomeRank, final.AwayRank)
	}
	if final.ExternalGameID != "101" || final.HomeTeamExternalID != "duke" {
		t.Fatalf("unexpected ids: %+v", final)
	}
	if !strings.HasSuffix(final.HomeLogo, "/duke.svg") {
		t.Fatalf("unexpected logo url: %q", final.HomeLogo)
	}

	live := games[1]
	if live.Status != "live" || live.Period != "3rd" || live.Clock != "04:31" {
		t.Fatalf("unexpected live game: %+v", live)
	}
	if live.HomeConference != "ivy league" {
		t.Fatalf("conference seo hyphens should become spaces: %q", live.HomeConference)
	}
}

func TestFetchScoreboard_RefreshesExpiredHashOnce(t *testing.T) {
	t.Parallel()

	var pageCalls, queryCalls atomic.Int32
	srv := newTestServer(&pageCalls, &queryCalls, func(call int32, w http.ResponseWriter) {
		if call == 1 {
			_, _ = w.Write([]byte(expiredPayload))
			return
		}
		_, _ = w.Write([]byte(contestsPayload))
	})
	defer srv.Close()

	client := newTestClientFor(srv)

	games, err := client.FetchScoreboard(context.Background(), time.Date(2026, 2, 22, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("fetch scoreboard: %v", err)
	}
	if len(games) != 2 {
		t.Fatalf("expected 2 games after refresh, got %d", len(games))
	}
	if got := queryCalls.Load(); got != 2 {
		t.Fatalf("expected 2 query calls, got %d", got)
	}
	if got := pageCalls.Load(); got != 2 {
		t.Fatalf("expected 2 page fetches (cold cache + refresh), got %d", got)
	}
}

func TestFetchScoreboard_GivesUpAfterOneRefresh(t *testing.T) {
	t.Parallel()

	var pageCalls, queryCalls atomic.Int32
	srv := newTestServer(&pageCalls, &queryCalls, func(_ int32, w http.ResponseWriter) {
		_, _ = w.Write([]byte(expiredPayload))
	})
	defer srv.Close()

	client := newTestClientFor(srv)

	games, err := client.FetchScoreboard(context.Background(), time.Date(2026, 2, 22, 0, 0, 0, 0, time.UTC))
	if !crerr.Is(err, usecase.ErrQueryIdentifierExpired) {
		t.Fatalf("expected ErrQueryIdentifierExpired, got %v", err)
	}
	if len(games) != 0 {
		t.Fatalf("expected no games, got %d", len(games))
	}
	if got := queryCalls.Load(); got != 2 {
		t.Fatalf("expected exactly 2 query attempts, got %d", got)
	}
}

func TestFetchScoreboard_OpenCircuitShortCircuits(t *testing.T) {
	t.Parallel()

	var pageCalls, queryCalls atomic.Int32
	srv := newTestServer(&pageCalls, &queryCalls, func(_ int32, w http.ResponseWriter) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	defer srv.Close()

	client := NewClient(ClientConfig{
		HTTPClient:        srv.Client(),
		GraphQLURL:        srv.URL,
		ScoreboardPageURL: srv.URL + "/scoreboard",
		Logger:            logging.NewNop(),
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          true,
			FailureThreshold: 1,
			OpenTimeout:      time.Minute,
		},
	})

	day := time.Date(2026, 2, 22, 0, 0, 0, 0, time.UTC)
	if _, err := client.FetchScoreboard(context.Background(), day); !crerr.Is(err, usecase.ErrNetworkFailure) {
		t.Fatalf("expected ErrNetworkFailure from the 500, got %v", err)
	}
	if got := queryCalls.Load(); got != 1 {
		t.Fatalf("expected 1 query call before the circuit opened, got %d", got)
	}

	// The breaker is open now, so the next fetch must fail without
	// touching the upstream again.
	if _, err := client.FetchScoreboard(context.Background(), day); !crerr.Is(err, usecase.ErrNetworkFailure) {
		t.Fatalf("expected ErrNetworkFailure while open, got %v", err)
	}
	if got := queryCalls.Load(); got != 1 {
		t.Fatalf("open circuit must not issue requests, query calls = %d", got)
	}
}

func TestFetchScoreboardByConference_FiltersBySubstring(t *testing.T) {
	t.Parallel()

	var pageCalls, queryCalls atomic.Int32
	srv := newTestServer(&pageCalls, &queryCalls, func(_ int32, w http.ResponseWriter) {
		_, _ = w.Write([]byte(contestsPayload))
	})
	defer srv.Close()

	client := newTestClientFor(srv)

	games, err := client.FetchScoreboardByConference(context.Background(), time.Date(2026, 2, 22, 0, 0, 0, 0, time.UTC), "ivy")
	if err != nil {
		t.Fatalf("fetch by conference: %v", err)
	}
	if len(games) != 1 {
		t.Fatalf("expected 1 ivy game, got %d", len(games))
	}
	if games[0].HomeTeamName != "Cornell" {
		t.Fatalf("unexpected game: %+v", games[0])
	}
}
