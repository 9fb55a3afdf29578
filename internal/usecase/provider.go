package usecase

import (
	"context"
	"time"
)

// ScheduleProvider is the structured source: a versioned query endpoint
// keyed by a persisted-query hash that can expire at any time.
type ScheduleProvider interface {
	// FetchScoreboard returns every tracked game for the given date. A
	// provider-side failure yields an empty slice plus the error for
	// reporting; callers treat "no data" as a normal cycle outcome.
	FetchScoreboard(ctx context.Context, date time.Time) ([]ScrapedGame, error)
	// FetchScoreboardByConference filters by case-insensitive substring
	// match against the source's own conference label.
	FetchScoreboardByConference(ctx context.Context, date time.Time, conference string) ([]ScrapedGame, error)
}

// FallbackProvider is the HTML-scraped secondary source with unstable,
// undocumented markup.
type FallbackProvider interface {
	ScrapeScoreboard(ctx context.Context, conferenceAbbreviation string) ([]ScrapedGame, error)
	// ScrapeBoxScore reports ok=false when no URL variant yielded a
	// non-empty box score.
	ScrapeBoxScore(ctx context.Context, gameID, confID string) (ScrapedBoxScore, bool, error)
}

// ScrapedGame is one game as a source reported it, carrying source-native
// naming. The reconciler translates it before anything touches the store.
type ScrapedGame struct {
	HomeTeamName string
	AwayTeamName string
	HomeScore    int
	AwayScore    int
	Status       string
	Period       string
	Clock        string
	// StartTime is zero when the source omitted it.
	StartTime time.Time
	// ExternalGameID is the structured source's game id, FallbackGameID the
	// scraped source's. Either may be empty.
	ExternalGameID string
	FallbackGameID string
	// Team external ids are only populated by the structured source.
	HomeTeamExternalID string
	AwayTeamExternalID string
	HomeConference     string
	AwayConference     string
	HomeTeamShort      string
	AwayTeamShort      string
	HomeTeamFull       string
	AwayTeamFull       string
	HomeRank           string
	AwayRank           string
	// Records arrive as "(W-L)" strings when present.
	HomeRecord string
	AwayRecord string
	HomeLogo   string
	AwayLogo   string
}

// ScrapedQuarter is one period line from a linescore.
type ScrapedQuarter struct {
	Quarter   int
	HomeScore int
	AwayScore int
}

// ScrapedTeamStats is one team's aggregate row from a box score. Counters
// follow the fixed box-score column order; missing trailing columns are
// zero.
type ScrapedTeamStats struct {
	TeamName       string
	Goals          int
	Assists        int
	Shots          int
	ShotsOnGoal    int
	GroundBalls    int
	Turnovers      int
	Saves          int
	FaceoffsWon    int
	FaceoffsLost   int
	Penalties      int
	PenaltyMinutes int
}

// ScrapedPlayerStats is one player's stat line from a box score.
type ScrapedPlayerStats struct {
	PlayerName string
	// Number is empty when no jersey-number convention matched the name cell.
	Number   string
	Team     string
	Position string
	// IsHome is the positional side of the table the line came from. It is
	// the attribution of last resort: Team wins when it matches a totals
	// row, since captions are more reliable than table order.
	IsHome bool

	Goals           int
	Assists         int
	Shots           int
	GroundBalls     int
	Turnovers       int
	CausedTurnovers int
	Saves           int
	FaceoffsWon     int
	FaceoffsLost    int
	Penalties       int
	PenaltyMinutes  int
}

// ScrapedBoxScore is a full parsed game detail page.
type ScrapedBoxScore struct {
	QuarterScores []ScrapedQuarter
	HomeTeamStats ScrapedTeamStats
	AwayTeamStats ScrapedTeamStats
	PlayerStats   []ScrapedPlayerStats
}
