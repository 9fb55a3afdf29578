package stats

import "fmt"

// GameStats is a team's aggregate line for one game, unique per (game, team).
type GameStats struct {
	ID     string
	GameID string
	TeamID string
	IsHome bool

	Goals          int
	Assists        int
	Shots          int
	ShotsOnGoal    *int
	Saves          int
	GroundBalls    int
	FaceoffsWon    int
	FaceoffsLost   int
	Turnovers      int
	Penalties      int
	PenaltyMinutes *int
}

func (s GameStats) Validate() error {
	if s.GameID == "" {
		return fmt.Errorf("game stats game id is required")
	}
	if s.TeamID == "" {
		return fmt.Errorf("game stats team id is required")
	}

	return nil
}

// PlayerGameStats is one player's line for one game, unique per (game, player).
//
// Optional counters are nil when the source reported zero; a zero from a
// box score is indistinguishable from "not tracked", and we resolve that
// ambiguity in favor of "not tracked".
type PlayerGameStats struct {
	ID       string
	GameID   string
	PlayerID string

	Goals   int
	Assists int
	// Points is always goals + assists, recomputed on every upsert.
	Points int
	Shots  int

	Saves           *int
	GroundBalls     *int
	FaceoffsWon     *int
	FaceoffsLost    *int
	Turnovers       *int
	CausedTurnovers *int
	Penalties       *int
	PenaltyMinutes  *int
}

func (s PlayerGameStats) Validate() error {
	if s.GameID == "" {
		return fmt.Errorf("player game stats game id is required")
	}
	if s.PlayerID == "" {
		return fmt.Errorf("player game stats player id is required")
	}

	return nil
}

// OptionalCount maps a scraped counter to its stored representation: nil
// when zero, a pointer otherwise.
func OptionalCount(value int) *int {
	if value <= 0 {
		return nil
	}
	return &value
}
