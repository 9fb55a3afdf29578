package statbroadcast

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bardown/lacrosse-tracker/internal/platform/logging"
)

func newTestClient(t *testing.T, srv *httptest.Server) *Client {
	t.Helper()

	client := NewClient(ClientConfig{
		HTTPClient:        srv.Client(),
		PrimaryHost:       srv.URL,
		SecondaryHost:     srv.URL,
		RequestsPerSecond: 1000,
		Logger:            logging.NewNop(),
	})
	client.sleep = func(context.Context, time.Duration) error { return nil }
	return client
}

func TestFetchWithRetry_RateLimitedThenSuccess(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte("<html>ok</html>"))
	}))
	defer srv.Close()

	client := newTestClient(t, srv)

	html, ok, err := client.fetchWithRetry(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if !ok {
		t.Fatal("expected a body after retry")
	}
	if html == "" {
		t.Fatal("expected non-empty html")
	}
	if got := calls.Load(); got != 2 {
		t.Fatalf("expected 2 requests, got %d", got)
	}
}

func TestFetchWithRetry_NotFoundMeansNoDataNoRetry(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := newTestClient(t, srv)

	_, ok, err := client.fetchWithRetry(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("expected no error on 404, got %v", err)
	}
	if ok {
		t.Fatal("expected no data on 404")
	}
	if got := calls.Load(); got != 1 {
		t.Fatalf("expected 1 request, got %d", got)
	}
}

func TestScrapeScoreboard_UnknownConference(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected for an untracked conference")
	}))
	defer srv.Close()

	client := newTestClient(t, srv)

	games, err := client.ScrapeScoreboard(context.Background(), "UNKNOWN")
	if err != nil {
		t.Fatalf("scrape failed: %v", err)
	}
	if len(games) != 0 {
		t.Fatalf("expected no games, got %d", len(games))
	}
}

func TestScrapeScoreboard_WalksVariantsUntilGamesFound(t *testing.T) {
	t.Parallel()

	scoreboard := `
	<table>
		<tr class="game-row" data-game-id="sb-1">
			<td class="team">Duke</td>
			<td class="score">4</td>
			<td class="team">Virginia</td>
			<td class="score">3</td>
			<td class="status">2nd</td>
		</tr>
	</table>`

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// First variant has no games, the second does.
		if calls.Add(1) == 1 {
			_, _ = w.Write([]byte("<html><body>no games</body></html>"))
			return
		}
		_, _ = w.Write([]byte(scoreboard))
	}))
	defer srv.Close()

	client := newTestClient(t, srv)

	games, err := client.ScrapeScoreboard(context.Background(), "ACC")
	if err != nil {
		t.Fatalf("scrape failed: %v", err)
	}
	if len(games) != 1 {
		t.Fatalf("expected 1 game, got %d", len(games))
	}
	if games[0].FallbackGameID != "sb-1" {
		t.Fatalf("unexpected game id: %q", games[0].FallbackGameID)
	}
}

func TestScrapeScoreboard_DeadVariantDoesNotEndWalk(t *testing.T) {
	t.Parallel()

	scoreboard := `
	<table>
		<tr class="game-row" data-game-id="sb-7">
			<td class="team">Navy</td>
			<td class="score">9</td>
			<td class="team">Army</td>
			<td class="score">8</td>
			<td class="status">final</td>
		</tr>
	</table>`

	var deadCalls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// The first variant's host drops every connection; the walk
		// must still reach the second variant.
		if strings.HasPrefix(r.URL.Path, "/events/") {
			deadCalls.Add(1)
			hj, ok := w.(http.Hijacker)
			if !ok {
				t.Error("test server must support hijacking")
				return
			}
			conn, _, err := hj.Hijack()
			if err != nil {
				t.Errorf("hijack: %v", err)
				return
			}
			_ = conn.Close()
			return
		}
		_, _ = w.Write([]byte(scoreboard))
	}))
	defer srv.Close()

	client := newTestClient(t, srv)

	games, err := client.ScrapeScoreboard(context.Background(), "PATRIOT")
	if err != nil {
		t.Fatalf("scrape failed: %v", err)
	}
	if len(games) != 1 {
		t.Fatalf("expected 1 game from the surviving variant, got %d", len(games))
	}
	if games[0].FallbackGameID != "sb-7" {
		t.Fatalf("unexpected game id: %q", games[0].FallbackGameID)
	}
	if got := deadCalls.Load(); got != maxRetries {
		t.Fatalf("dead variant should exhaust its retries, got %d calls", got)
	}
}

func TestScrapeBoxScore_NoDataReportsNotOK(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html><body>empty page</body></html>"))
	}))
	defer srv.Close()

	client := newTestClient(t, srv)

	_, ok, err := client.ScrapeBoxScore(context.Background(), "sb-9", "acc")
	if err != nil {
		t.Fatalf("scrape failed: %v", err)
	}
	if ok {
		t.Fatal("expected ok=false for a page with no box score")
	}
}
