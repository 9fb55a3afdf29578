package statbroadcast

import "testing"

func TestParseScoreboard_TableFormat(t *testing.T) {
	t.Parallel()

	html := `
	<table>
		<tr class="game-row" data-game-id="sb-100">
			<td class="team">Duke</td>
			<td class="score">13</td>
			<td class="team">Syracuse</td>
			<td class="score">10</td>
			<td class="status">Final</td>
		</tr>
		<tr class="game-row" data-game-id="">
			<td class="team">Ignored</td>
			<td class="team">Also Ignored</td>
		</tr>
	</table>`

	games, err := ParseScoreboard(html)
	if err != nil {
		t.Fatalf("parse scoreboard: %v", err)
	}
	if len(games) != 1 {
		t.Fatalf("expected 1 game, got %d", len(games))
	}

	game := games[0]
	if game.FallbackGameID != "sb-100" {
		t.Fatalf("unexpected game id: %q", game.FallbackGameID)
	}
	if game.HomeTeamName != "Duke" || game.AwayTeamName != "Syracuse" {
		t.Fatalf("unexpected teams: %+v", game)
	}
	if game.HomeScore != 13 || game.AwayScore != 10 {
		t.Fatalf("unexpected scores: %+v", game)
	}
	if game.Status != "final" {
		t.Fatalf("unexpected status: %q", game.Status)
	}
}

func TestParseScoreboard_CardFormat(t *testing.T) {
	t.Parallel()

	html := `
	<div class="game-card" data-id="sb-200">
		<span class="team-name">Cornell</span>
		<span class="score">7</span>
		<span class="team-name">Princeton</span>
		<span class="score">5</span>
		<span class="status">3rd 08:12</span>
		<span class="period">3rd</span>
		<span class="clock">08:12</span>
	</div>`

	games, err := ParseScoreboard(html)
	if err != nil {
		t.Fatalf("parse scoreboard: %v", err)
	}
	if len(games) != 1 {
		t.Fatalf("expected 1 game, got %d", len(games))
	}

	game := games[0]
	if game.HomeTeamName != "Cornell" || game.AwayTeamName != "Princeton" {
		t.Fatalf("unexpected teams: %+v", game)
	}
	if game.Period != "3rd" || game.Clock != "08:12" {
		t.Fatalf("unexpected period/clock: %+v", game)
	}
}

func TestParseScoreboard_DataAttributes(t *testing.T) {
	t.Parallel()

	html := `
	<div data-game-id="sb-300" data-home-team="Maryland" data-away-team="Johns Hopkins"
		data-home-score="11" data-away-score="9" data-status="live"></div>
	<div data-home-score="0" data-away-score="0"></div>`

	games, err := ParseScoreboard(html)
	if err != nil {
		t.Fatalf("parse scoreboard: %v", err)
	}
	if len(games) != 1 {
		t.Fatalf("expected 1 game, got %d", len(games))
	}

	game := games[0]
	if game.HomeTeamName != "Maryland" || game.HomeScore != 11 || game.Status != "live" {
		t.Fatalf("unexpected game: %+v", game)
	}
}

func TestParseScoreboard_NoRecognizableMarkup(t *testing.T) {
	t.Parallel()

	games, err := ParseScoreboard("<html><body><p>nothing here</p></body></html>")
	if err != nil {
		t.Fatalf("parse scoreboard: %v", err)
	}
	if len(games) != 0 {
		t.Fatalf("expected no games, got %d", len(games))
	}
}
