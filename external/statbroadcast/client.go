package statbroadcast

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"
	"golang.org/x/time/rate"

	"github.com/bardown/lacrosse-tracker/internal/platform/logging"
	"github.com/bardown/lacrosse-tracker/internal/usecase"
)

// conferenceIDs maps our conference abbreviations to the identifier
// spellings the fallback source accepts in its confid parameter. Some
// conferences answer to more than one spelling.
var conferenceIDs = map[string][]string{
	"ACC":     {"acc"},
	"BIGEAST": {"bigeast", "be"},
	"B1G":     {"bigten", "b1g"},
	"PATRIOT": {"patriot", "pl"},
	"IVY":     {"ivy"},
}

const (
	defaultPrimaryHost   = "https://www.statbroadcast.com"
	defaultSecondaryHost = "https://stats.statbroadcast.com"

	maxRetries = 3
	retryDelay = 2 * time.Second

	userAgent = "lacrosse-tracker/1.0"
)

type ClientConfig struct {
	HTTPClient    *http.Client
	PrimaryHost   string
	SecondaryHost string
	Timeout       time.Duration
	// RequestsPerSecond throttles outbound fetches across all callers.
	// Defaults to 2.
	RequestsPerSecond float64
	Logger            *logging.Logger
}

// Client scrapes scoreboards and box scores from the fallback HTML source.
// The markup is undocumented and shifts between deployments, so every page
// is tried against a list of known URL variants and selector patterns.
type Client struct {
	httpClient    *http.Client
	primaryHost   string
	secondaryHost string
	limiter       *rate.Limiter
	logger        *logging.Logger
	sleep         func(ctx context.Context, d time.Duration) error
}

var _ usecase.FallbackProvider = (*Client)(nil)

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 15 * time.Second
	}

	primary := strings.TrimRight(strings.TrimSpace(cfg.PrimaryHost), "/")
	if primary == "" {
		primary = defaultPrimaryHost
	}
	secondary := strings.TrimRight(strings.TrimSpace(cfg.SecondaryHost), "/")
	if secondary == "" {
		secondary = defaultSecondaryHost
	}

	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 2
	}

	return &Client{
		httpClient:    httpClient,
		primaryHost:   primary,
		secondaryHost: secondary,
		limiter:       rate.NewLimiter(rate.Limit(rps), 1),
		logger:        logger,
		sleep:         sleepContext,
	}
}

// ScrapeScoreboard walks the known URL variants for a conference until one
// returns parseable games. An empty result is normal when nothing is being
// played.
func (c *Client) ScrapeScoreboard(ctx context.Context, conferenceAbbreviation string) ([]usecase.ScrapedGame, error) {
	confIDs, ok := conferenceIDs[conferenceAbbreviation]
	if !ok {
		c.logger.DebugContext(ctx, "conference not tracked by fallback source",
			"conference", conferenceAbbreviation,
		)
		return nil, nil
	}

	for _, confID := range confIDs {
		urls := []string{
			fmt.Sprintf("%s/events/?view=all&sport=lcgame&confid=%s", c.primaryHost, confID),
			fmt.Sprintf("%s/scoreboard/load.php?confid=%s&sport=lcgame&gender=M", c.secondaryHost, confID),
			fmt.Sprintf("%s/scoreboard/?confid=%s&sport=lcgame&gender=M", c.primaryHost, confID),
		}

		for _, pageURL := range urls {
			html, ok, err := c.fetchWithRetry(ctx, pageURL)
			if err != nil {
				if ctx.Err() != nil {
					return nil, err
				}
				// One dead variant must not end the walk; another URL
				// may still serve the conference.
				c.logger.WarnContext(ctx, "scoreboard variant failed, trying next",
					"url", pageURL,
					"error", err,
				)
				continue
			}
			if !ok {
				continue
			}

			games, err := ParseScoreboard(html)
			if err != nil {
				c.logger.WarnContext(ctx, "scoreboard parse error",
					"url", pageURL,
					"error", err,
				)
				continue
			}
			if len(games) > 0 {
				c.logger.InfoContext(ctx, "fallback scoreboard scraped",
					"conference", conferenceAbbreviation,
					"games", len(games),
				)
				return games, nil
			}
		}
	}

	c.logger.DebugContext(ctx, "no fallback games found",
		"conference", conferenceAbbreviation,
	)
	return nil, nil
}

// ScrapeBoxScore fetches a game detail page. ok is false when no URL
// variant yielded a non-empty box score.
func (c *Client) ScrapeBoxScore(ctx context.Context, gameID, confID string) (usecase.ScrapedBoxScore, bool, error) {
	urls := []string{
		fmt.Sprintf("%s/broadcast/?id=%s&confid=%s", c.primaryHost, gameID, confID),
		fmt.Sprintf("%s/broadcast/?id=%s&confid=%s", c.secondaryHost, gameID, confID),
	}

	for _, pageURL := range urls {
		html, ok, err := c.fetchWithRetry(ctx, pageURL)
		if err != nil {
			if ctx.Err() != nil {
				return usecase.ScrapedBoxScore{}, false, err
			}
			c.logger.WarnContext(ctx, "box score variant failed, trying next",
				"url", pageURL,
				"error", err,
			)
			continue
		}
		if !ok {
			continue
		}

		box, err := ParseBoxScore(html)
		if err != nil {
			c.logger.WarnContext(ctx, "box score parse error",
				"game_id", gameID,
				"error", err,
			)
			continue
		}
		if len(box.QuarterScores) > 0 || len(box.PlayerStats) > 0 {
			c.logger.InfoContext(ctx, "box score scraped", "game_id", gameID)
			return box, true, nil
		}
	}

	return usecase.ScrapedBoxScore{}, false, nil
}

// fetchWithRetry fetches a page with up to maxRetries attempts. Transport
// errors retry after a fixed delay; 429 retries after delay scaled by the
// attempt number; any other non-2xx status means the variant has no data
// and is not retried. ok is false when the page yielded nothing usable.
func (c *Client) fetchWithRetry(ctx context.Context, pageURL string) (html string, ok bool, err error) {
	for attempt := 1; attempt <= maxRetries; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return "", false, err
		}

		body, status, fetchErr := c.fetch(ctx, pageURL)
		if fetchErr != nil {
			c.logger.WarnContext(ctx, "fetch attempt failed",
				"url", pageURL,
				"attempt", attempt,
				"error", fetchErr,
			)
			if attempt < maxRetries {
				if err := c.sleep(ctx, retryDelay); err != nil {
					return "", false, err
				}
				continue
			}
			return "", false, crerr.Wrapf(usecase.ErrNetworkFailure, "fetch %s: %v", pageURL, fetchErr)
		}

		if status == http.StatusTooManyRequests {
			c.logger.WarnContext(ctx, "rate limited by source",
				"url", pageURL,
				"attempt", attempt,
			)
			if attempt < maxRetries {
				if err := c.sleep(ctx, retryDelay*time.Duration(attempt)); err != nil {
					return "", false, err
				}
				continue
			}
			return "", false, crerr.Wrapf(usecase.ErrRateLimited, "fetch %s", pageURL)
		}

		if status < 200 || status > 299 {
			c.logger.DebugContext(ctx, "variant returned no data",
				"url", pageURL,
				"status", status,
			)
			return "", false, nil
		}

		if strings.TrimSpace(body) == "" {
			return "", false, nil
		}
		return body, true, nil
	}

	return "", false, nil
}

func (c *Client) fetch(ctx context.Context, pageURL string) (string, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", 0, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", 0, err
	}
	return string(body), resp.StatusCode, nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
