package team

import "fmt"

// Team is a school's lacrosse program inside a conference.
//
// Ranking and the win/loss record are overwritten whenever a scrape carries
// fresher values; they are source-reported, not derived here.
type Team struct {
	ID           string
	ConferenceID string
	Name         string
	Abbreviation string
	Wins         int
	Losses       int
	Ranking      *int
	// ExternalID is the structured source's team identifier.
	ExternalID string
	// StatBroadcastID is the fallback source's team identifier.
	StatBroadcastID string
	LogoURL         string
}

func (t Team) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("team id is required")
	}
	if t.ConferenceID == "" {
		return fmt.Errorf("team conference id is required")
	}
	if t.Name == "" {
		return fmt.Errorf("team name is required")
	}
	if t.Abbreviation == "" {
		return fmt.Errorf("team abbreviation is required")
	}

	return nil
}
