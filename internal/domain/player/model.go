package player

import "fmt"

// Player is an athlete on a team's roster. Players are created lazily the
// first time they appear in a box score; (team, last name, first name) is the
// identity key within a team.
type Player struct {
	ID        string
	TeamID    string
	FirstName string
	LastName  string
	// Number is the jersey number as printed by the source; nil when the
	// source never exposed one.
	Number   *string
	Position string
}

func (p Player) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("player id is required")
	}
	if p.TeamID == "" {
		return fmt.Errorf("player team id is required")
	}
	if p.LastName == "" {
		return fmt.Errorf("player last name is required")
	}

	return nil
}
