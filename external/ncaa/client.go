package ncaa

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"

	"github.com/bardown/lacrosse-tracker/internal/platform/logging"
	"github.com/bardown/lacrosse-tracker/internal/platform/resilience"
	"github.com/bardown/lacrosse-tracker/internal/usecase"
)

// The scoreboard backend serves Apollo persisted queries: the GetContests_web
// query is addressed by a SHA-256 hash embedded in the public scoreboard
// page's HTML. The hash survives deployments but not forever, so the client
// caches it and refreshes on PERSISTED_QUERY_NOT_FOUND.
const (
	defaultGraphQLURL        = "https://sdataprod.ncaa.com"
	defaultScoreboardPageURL = "https://www.ncaa.com/scoreboard/lacrosse-men/d1"
	logoBaseURL              = "https://www.ncaa.com/sites/default/files/images/logos/schools/bgl"

	sportCode = "MLA"
	division  = 1

	hashMarker = `"GetContests_web":"`
	hashLength = 64

	userAgent       = "lacrosse-tracker/1.0"
	expiredHashCode = "PERSISTED_QUERY_NOT_FOUND"
)

type ClientConfig struct {
	HTTPClient        *http.Client
	GraphQLURL        string
	ScoreboardPageURL string
	Timeout           time.Duration
	Logger            *logging.Logger
	CircuitBreaker    resilience.CircuitBreakerConfig
}

// Client fetches the men's Division I scoreboard from the structured query
// endpoint. Safe for concurrent use.
type Client struct {
	httpClient        *http.Client
	graphqlURL        string
	scoreboardPageURL string
	logger            *logging.Logger
	breaker           *resilience.CircuitBreaker
	circuitEnabled    bool
	flight            resilience.SingleFlight

	mu         sync.Mutex
	cachedHash string
}

var _ usecase.ScheduleProvider = (*Client)(nil)

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
		httpClient.Timeout = 20 * time.Second
	}

	graphqlURL := strings.TrimRight(strings.TrimSpace(cfg.GraphQLURL), "/")
	if graphqlURL == "" {
		graphqlURL = defaultGraphQLURL
	}
	pageURL := strings.TrimSpace(cfg.ScoreboardPageURL)
	if pageURL == "" {
		pageURL = defaultScoreboardPageURL
	}
	return &Client{
		httpClient:        httpClient,
		graphqlURL:        graphqlURL,
		scoreboardPageURL: pageURL,
		logger:            logger,
		breaker:           resilience.NewCircuitBreaker(cfg.CircuitBreaker),
		circuitEnabled:    cfg.CircuitBreaker.Enabled,
	}
}

// --- response models ---

type graphQLResponse struct {
	Data   *contestsWrapper `json:"data"`
	Errors []graphQLError   `json:"errors"`
}

type contestsWrapper struct {
	Contests []contest `json:"contests"`
}

type graphQLError struct {
	Message    string `json:"message"`
	Extensions *struct {
		Code string `json:"code"`
	} `json:"extensions"`
}

type contest struct {
	ContestID int    `json:"contestId"`
	GameState string `json:"gameState"`
	// CurrentPeriod and ContestClock are empty outside live play.
	CurrentPeriod  string        `json:"currentPeriod"`
	ContestClock   string        `json:"contestClock"`
	StartTimeEpoch int64         `json:"startTimeEpoch"`
	Teams          []contestTeam `json:"teams"`
}

type contestTeam struct {
	IsHome        bool   `json:"isHome"`
	Seoname       string `json:"seoname"`
	NameShort     string `json:"nameShort"`
	Name6Char     string `json:"name6Char"`
	TeamRank      *int   `json:"teamRank"`
	Score         *int   `json:"score"`
	ConferenceSeo string `json:"conferenceSeo"`
}

// --- public API ---

// FetchScoreboard returns every men's Division I game for the given date. A
// transport or payload failure yields an empty slice plus the error.
func (c *Client) FetchScoreboard(ctx context.Context, date time.Time) ([]usecase.ScrapedGame, error) {
	contestDate := date.Format("01/02/2006")
	return c.fetchContests(ctx, contestDate, seasonYear(date))
}

// FetchScoreboardByConference filters the full scoreboard by case-insensitive
// substring match on either side's conference label.
func (c *Client) FetchScoreboardByConference(ctx context.Context, date time.Time, conference string) ([]usecase.ScrapedGame, error) {
	all, err := c.FetchScoreboard(ctx, date)
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(conference)
	filtered := make([]usecase.ScrapedGame, 0, len(all))
	for _, item := range all {
		if strings.Contains(strings.ToLower(item.HomeConference), needle) ||
			strings.Contains(strings.ToLower(item.AwayConference), needle) {
			filtered = append(filtered, item)
		}
	}
	return filtered, nil
}

// seasonYear maps a calendar date to the academic-year start the source
// keys seasons on: a spring 2026 game belongs to seasonYear 2025.
func seasonYear(date time.Time) int {
	if date.Month() >= time.August {
		return date.Year()
	}
	return date.Year() - 1
}

// --- fetch ---

func (c *Client) fetchContests(ctx context.Context, contestDate string, season int) ([]usecase.ScrapedGame, error) {
	hash, err := c.queryHash(ctx, false)
	if err != nil {
		return nil, err
	}

	body, err := c.queryContests(ctx, contestDate, season, hash)
	if err != nil {
		return nil, err
	}

	// Hash expired upstream. Refresh exactly once and retry exactly once.
	if hasExpiredHashError(body.Errors) {
		c.logger.InfoContext(ctx, "persisted query hash expired, refreshing")
		hash, err = c.queryHash(ctx, true)
		if err != nil {
			return nil, err
		}
		body, err = c.queryContests(ctx, contestDate, season, hash)
		if err != nil {
			return nil, err
		}
		if hasExpiredHashError(body.Errors) {
			return nil, crerr.Wrapf(usecase.ErrQueryIdentifierExpired, "hash rejected after refresh date=%s", contestDate)
		}
	}

	if body.Data == nil {
		messages := make([]string, 0, len(body.Errors))
		for _, item := range body.Errors {
			messages = append(messages, item.Message)
		}
		return nil, crerr.Wrapf(usecase.ErrMalformedPayload, "query errors: %s", strings.Join(messages, "; "))
	}

	games := make([]usecase.ScrapedGame, 0, len(body.Data.Contests))
	for _, item := range body.Data.Contests {
		mapped, ok := c.mapContest(ctx, item)
		if !ok {
			continue
		}
		games = append(games, mapped)
	}

	c.logger.InfoContext(ctx, "fetched scoreboard",
		"date", contestDate,
		"games", len(games),
	)
	return games, nil
}

func (c *Client) queryContests(ctx context.Context, contestDate string, season int, hash string) (graphQLResponse, error) {
	if c.circuitEnabled && !c.breaker.Allow() {
		return graphQLResponse{}, crerr.Wrap(usecase.ErrNetworkFailure, "circuit open")
	}

	variables := fmt.Sprintf(`{"contestDate":%q,"sportCode":%q,"division":%d,"seasonYear":%d}`,
		contestDate, sportCode, division, season)
	extensions := fmt.Sprintf(`{"persistedQuery":{"version":1,"sha256Hash":%q}}`, hash)

	queryURL := fmt.Sprintf("%s?meta=GetContests_web&extensions=%s&variables=%s",
		c.graphqlURL, url.QueryEscape(extensions), url.QueryEscape(variables))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, queryURL, nil)
	if err != nil {
		return graphQLResponse{}, fmt.Errorf("build contests request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.recordFailure()
		return graphQLResponse{}, crerr.Wrapf(usecase.ErrNetworkFailure, "query contests: %v", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		c.recordFailure()
		return graphQLResponse{}, crerr.Wrapf(usecase.ErrNetworkFailure, "read contests body: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		c.recordFailure()
		return graphQLResponse{}, crerr.Wrapf(usecase.ErrNetworkFailure, "query contests status=%d", resp.StatusCode)
	}

	var body graphQLResponse
	if err := sonic.Unmarshal(raw, &body); err != nil {
		c.recordFailure()
		return graphQLResponse{}, crerr.Wrapf(usecase.ErrMalformedPayload, "decode contests: %v", err)
	}

	if c.circuitEnabled {
		c.breaker.RecordSuccess()
	}
	return body, nil
}

func (c *Client) recordFailure() {
	if c.circuitEnabled {
		c.breaker.RecordFailure()
	}
}

func hasExpiredHashError(errs []graphQLError) bool {
	for _, item := range errs {
		if item.Extensions != nil && item.Extensions.Code == expiredHashCode {
			return true
		}
	}
	return false
}

// --- hash cache ---

// queryHash returns the cached persisted-query hash, scraping the scoreboard
// page when the cache is cold or force is set. Concurrent refreshes for the
// same generation collapse into one page fetch.
func (c *Client) queryHash(ctx context.Context, force bool) (string, error) {
	c.mu.Lock()
	cached := c.cachedHash
	c.mu.Unlock()
	if cached != "" && !force {
		return cached, nil
	}

	val, err, shared := c.flight.Do("query-hash", func() (string, error) {
		hash, err := c.fetchQueryHash(ctx)
		if err != nil {
			return "", err
		}
		c.mu.Lock()
		c.cachedHash = hash
		c.mu.Unlock()
		return hash, nil
	})
	if err != nil {
		return "", err
	}
	if shared {
		c.logger.DebugContext(ctx, "hash refresh coalesced with concurrent caller")
	}
	return val, nil
}

func (c *Client) fetchQueryHash(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.scoreboardPageURL, nil)
	if err != nil {
		return "", fmt.Errorf("build scoreboard page request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", crerr.Wrapf(usecase.ErrNetworkFailure, "fetch scoreboard page: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", crerr.Wrapf(usecase.ErrNetworkFailure, "fetch scoreboard page status=%d", resp.StatusCode)
	}

	html, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", crerr.Wrapf(usecase.ErrNetworkFailure, "read scoreboard page: %v", err)
	}

	hash := extractHash(string(html))
	if hash == "" {
		return "", crerr.Wrap(usecase.ErrMalformedPayload, "no persisted query hash in scoreboard page")
	}

	c.logger.InfoContext(ctx, "extracted fresh persisted query hash", "prefix", hash[:8])
	return hash, nil
}

// extractHash pulls the persisted-query hash out of the scoreboard page
// HTML. Returns "" when the marker is absent or the candidate is not a
// 64-character hex string.
func extractHash(html string) string {
	start := strings.Index(html, hashMarker)
	if start < 0 {
		return ""
	}
	rest := html[start+len(hashMarker):]

	end := strings.IndexByte(rest, '"')
	if end < 0 {
		return ""
	}

	hash := rest[:end]
	if len(hash) != hashLength {
		return ""
	}
	for _, r := range hash {
		if !isHexDigit(r) {
			return ""
		}
	}
	return hash
}

func isHexDigit(r rune) bool {
	switch {
	case r >= '0' && r <= '9':
		return true
	case r >= 'a' && r <= 'f':
		return true
	case r >= 'A' && r <= 'F':
		return true
	}
	return false
}

// --- mapping ---

func (c *Client) mapContest(ctx context.Context, item contest) (usecase.ScrapedGame, bool) {
	var home, away *contestTeam
	for i := range item.Teams {
		if item.Teams[i].IsHome {
			home = &item.Teams[i]
		} else {
			away = &item.Teams[i]
		}
	}
	if home == nil || away == nil {
		c.logger.WarnContext(ctx, "contest missing a team", "contest_id", item.ContestID)
		return usecase.ScrapedGame{}, false
	}

	var status string
	switch item.GameState {
	case "F":
		status = "final"
	case "P":
		status = "scheduled"
	default:
		status = "live"
	}

	// conferenceSeo uses hyphens ("big-ten"); the reconciler's alias table
	// uses spaces ("big ten").
	return usecase.ScrapedGame{
		HomeTeamName:       home.NameShort,
		AwayTeamName:       away.NameShort,
		HomeScore:          intOrZero(home.Score),
		AwayScore:          intOrZero(away.Score),
		Status:             status,
		Period:             item.CurrentPeriod,
		Clock:              item.ContestClock,
		StartTime:          time.Unix(item.StartTimeEpoch, 0),
		ExternalGameID:     strconv.Itoa(item.ContestID),
		HomeTeamExternalID: home.Seoname,
		AwayTeamExternalID: away.Seoname,
		HomeConference:     strings.ReplaceAll(home.ConferenceSeo, "-", " "),
		AwayConference:     strings.ReplaceAll(away.ConferenceSeo, "-", " "),
		HomeTeamShort:      strings.ToUpper(home.Name6Char),
		AwayTeamShort:      strings.ToUpper(away.Name6Char),
		HomeTeamFull:       home.NameShort,
		AwayTeamFull:       away.NameShort,
		HomeRank:           rankString(home.TeamRank),
		AwayRank:           rankString(away.TeamRank),
		HomeLogo:           fmt.Sprintf("%s/%s.svg", logoBaseURL, home.Seoname),
		AwayLogo:           fmt.Sprintf("%s/%s.svg", logoBaseURL, away.Seoname),
	}, true
}

func intOrZero(value *int) int {
	if value == nil {
		return 0
	}
	return *value
}

func rankString(value *int) string {
	if value == nil {
		return ""
	}
	return strconv.Itoa(*value)
}
