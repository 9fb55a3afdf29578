package statbroadcast

import "testing"

func TestExtractJerseyNumber(t *testing.T) {
	t.Parallel()

	cases := []struct {
		raw        string
		wantName   string
		wantNumber string
	}{
		{"#12 Smith, John", "Smith, John", "12"},
		{"12 Smith", "Smith", "12"},
		{"Jones (#5)", "Jones", "5"},
		{"Brown, Alex (22)", "Brown, Alex", "22"},
		{"Williams", "Williams", ""},
		{"Smith, John", "Smith, John", ""},
	}

	for _, tc := range cases {
		name, number := extractJerseyNumber(tc.raw)
		if name != tc.wantName || number != tc.wantNumber {
			t.Errorf("extractJerseyNumber(%q) = (%q, %q), want (%q, %q)",
				tc.raw, name, number, tc.wantName, tc.wantNumber)
		}
	}
}

func TestParseBoxScore_Linescore(t *testing.T) {
	t.Parallel()

	html := `
	<table class="linescore">
		<tr><th>Team</th><th>1</th><th>2</th><th>3</th><th>4</th><th>T</th></tr>
		<tr><td>Syracuse</td><td>3</td><td>2</td><td>4</td><td>1</td><td>10</td></tr>
		<tr><td>Duke</td><td>2</td><td>5</td><td>3</td><td>3</td><td>13</td></tr>
	</table>`

	box, err := ParseBoxScore(html)
	if err != nil {
		t.Fatalf("parse box score: %v", err)
	}

	if len(box.QuarterScores) != 4 {
		t.Fatalf("expected 4 quarters, got %d", len(box.QuarterScores))
	}

	first := box.QuarterScores[0]
	if first.Quarter != 1 || first.AwayScore != 3 || first.HomeScore != 2 {
		t.Fatalf("unexpected first quarter: %+v", first)
	}
	last := box.QuarterScores[3]
	if last.Quarter != 4 || last.AwayScore != 1 || last.HomeScore != 3 {
		t.Fatalf("unexpected fourth quarter: %+v", last)
	}
}

func TestParseBoxScore_PlayerRowsSkipTotals(t *testing.T) {
	t.Parallel()

	html := `
	<table class="player-stats">
		<caption>Duke</caption>
		<tbody>
			<tr><td>#22 Miller, Chris</td><td>3</td><td>2</td><td>7</td><td>4</td><td>1</td><td>2</td><td>0</td><td>0</td><td>0</td><td>1</td><td>1</td></tr>
			<tr><td>Totals</td><td>13</td><td>8</td><td>40</td></tr>
			<tr><td>TEAM</td><td>0</td><td>0</td><td>0</td></tr>
		</tbody>
	</table>`

	box, err := ParseBoxScore(html)
	if err != nil {
		t.Fatalf("parse box score: %v", err)
	}

	if len(box.PlayerStats) != 1 {
		t.Fatalf("expected 1 player line, got %d", len(box.PlayerStats))
	}

	line := box.PlayerStats[0]
	if line.PlayerName != "Miller, Chris" || line.Number != "22" {
		t.Fatalf("unexpected player identity: %+v", line)
	}
	if line.Team != "Duke" {
		t.Fatalf("expected team Duke, got %q", line.Team)
	}
	if line.Goals != 3 || line.Assists != 2 || line.Shots != 7 {
		t.Fatalf("unexpected scoring line: %+v", line)
	}
	if line.GroundBalls != 4 || line.Turnovers != 1 || line.CausedTurnovers != 2 {
		t.Fatalf("unexpected possession line: %+v", line)
	}
	if line.Penalties != 1 || line.PenaltyMinutes != 1 {
		t.Fatalf("unexpected penalty line: %+v", line)
	}
}

func TestParseBoxScore_CaptionlessTablesKeepTableOrder(t *testing.T) {
	t.Parallel()

	html := `
	<table class="player-stats">
		<tbody>
			<tr><td>#19 Carter, Will</td><td>2</td><td>1</td><td>5</td></tr>
		</tbody>
	</table>
	<table class="player-stats">
		<tbody>
			<tr><td>#22 Miller, Chris</td><td>3</td><td>2</td><td>7</td></tr>
		</tbody>
	</table>`

	box, err := ParseBoxScore(html)
	if err != nil {
		t.Fatalf("parse box score: %v", err)
	}
	if len(box.PlayerStats) != 2 {
		t.Fatalf("expected 2 player lines, got %d", len(box.PlayerStats))
	}

	away := box.PlayerStats[0]
	if away.PlayerName != "Carter, Will" || away.Team != "" || away.IsHome {
		t.Fatalf("first table must read as the away side: %+v", away)
	}
	home := box.PlayerStats[1]
	if home.PlayerName != "Miller, Chris" || home.Team != "" || !home.IsHome {
		t.Fatalf("second table must read as the home side: %+v", home)
	}
}

func TestParseBoxScore_ShortPlayerRowTruncatesToZero(t *testing.T) {
	t.Parallel()

	html := `
	<table class="player-stats">
		<tbody>
			<tr><td>Smith, John</td><td>1</td><td>0</td><td>3</td></tr>
		</tbody>
	</table>`

	box, err := ParseBoxScore(html)
	if err != nil {
		t.Fatalf("parse box score: %v", err)
	}
	if len(box.PlayerStats) != 1 {
		t.Fatalf("expected 1 player line, got %d", len(box.PlayerStats))
	}

	line := box.PlayerStats[0]
	if line.Goals != 1 || line.Shots != 3 {
		t.Fatalf("unexpected stat line: %+v", line)
	}
	if line.Saves != 0 || line.FaceoffsWon != 0 || line.PenaltyMinutes != 0 {
		t.Fatalf("missing columns should read zero: %+v", line)
	}
}

func TestParseBoxScore_TeamTotals(t *testing.T) {
	t.Parallel()

	html := `
	<table>
		<tfoot>
			<tr><td>Syracuse</td><td>10</td><td>6</td><td>38</td><td>20</td><td>30</td><td>14</td><td>9</td><td>12</td><td>15</td><td>2</td><td>2</td></tr>
			<tr><td>Duke</td><td>13</td><td>8</td><td>41</td><td>24</td><td>33</td><td>12</td><td>11</td><td>15</td><td>12</td><td>1</td><td>1</td></tr>
		</tfoot>
	</table>`

	box, err := ParseBoxScore(html)
	if err != nil {
		t.Fatalf("parse box score: %v", err)
	}

	if box.AwayTeamStats.TeamName != "Syracuse" || box.AwayTeamStats.Goals != 10 {
		t.Fatalf("unexpected away totals: %+v", box.AwayTeamStats)
	}
	if box.HomeTeamStats.TeamName != "Duke" || box.HomeTeamStats.Goals != 13 {
		t.Fatalf("unexpected home totals: %+v", box.HomeTeamStats)
	}
	if box.HomeTeamStats.ShotsOnGoal != 24 || box.HomeTeamStats.FaceoffsWon != 15 {
		t.Fatalf("unexpected home detail: %+v", box.HomeTeamStats)
	}
}
