package game

import (
	"fmt"
	"strings"
	"time"
)

const (
	StatusScheduled = "scheduled"
	StatusLive      = "live"
	StatusFinal     = "final"
)

// Game is one contest between two teams. Status is overwritten with whatever
// the latest scrape reports; the scheduled->live->final progression is the
// source's to enforce, not ours.
type Game struct {
	ID         string
	HomeTeamID string
	AwayTeamID string
	HomeScore  int
	AwayScore  int
	Status     string
	Period     *string
	Clock      *string
	StartTime  time.Time
	Season     int
	// ExternalID is the structured source's contest identifier.
	ExternalID string
	// StatBroadcastID identifies the game on the fallback source, used to
	// fetch box scores.
	StatBroadcastID string
}

func (g Game) Validate() error {
	if g.ID == "" {
		return fmt.Errorf("game id is required")
	}
	if g.HomeTeamID == "" || g.AwayTeamID == "" {
		return fmt.Errorf("game team ids are required")
	}
	if g.HomeTeamID == g.AwayTeamID {
		return fmt.Errorf("game home and away teams must differ")
	}
	switch g.Status {
	case StatusScheduled, StatusLive, StatusFinal:
	default:
		return fmt.Errorf("invalid game status: %s", g.Status)
	}

	return nil
}

// QuarterScore is the per-period line of a game's linescore, unique per
// (game, quarter).
type QuarterScore struct {
	ID        string
	GameID    string
	Quarter   int
	HomeScore int
	AwayScore int
}

var liveTokens = []string{"live", "progress", "half", "1st", "2nd", "3rd", "4th", "ot"}
var scheduledTokens = []string{"pre", "scheduled", "tba"}

// NormalizeStatus folds a raw source status string into one of the three
// canonical statuses. Unrecognized input maps to scheduled; that default is
// deliberate, not an error.
func NormalizeStatus(raw string) string {
	lower := strings.ToLower(strings.TrimSpace(raw))
	if strings.Contains(lower, "final") {
		return StatusFinal
	}
	for _, token := range liveTokens {
		if strings.Contains(lower, token) {
			return StatusLive
		}
	}
	for _, token := range scheduledTokens {
		if strings.Contains(lower, token) {
			return StatusScheduled
		}
	}
	return StatusScheduled
}
