package conference

import "fmt"

// Conference is a grouping of teams (ACC, Big Ten, ...). Conferences are the
// only entities allowed to exist without an owning relation; everything else
// hangs off a conference, team, or game.
type Conference struct {
	ID           string
	Name         string
	Abbreviation string
	// NCAAName is the label the structured source uses for this conference,
	// when it differs from our display name.
	NCAAName string
}

func (c Conference) Validate() error {
	if c.ID == "" {
		return fmt.Errorf("conference id is required")
	}
	if c.Name == "" {
		return fmt.Errorf("conference name is required")
	}
	if c.Abbreviation == "" {
		return fmt.Errorf("conference abbreviation is required")
	}

	return nil
}
