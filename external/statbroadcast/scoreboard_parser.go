package statbroadcast

import (
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/bardown/lacrosse-tracker/internal/usecase"
)

// ParseScoreboard extracts games from a scoreboard page or fragment. The
// markup varies between deployments, so three known layouts are tried in
// order: table rows, card elements, then data attributes. An empty slice
// means no recognizable game data, which callers treat as "try the next
// URL variant".
func ParseScoreboard(html string) ([]usecase.ScrapedGame, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}

	if rows := doc.Find("tr.game-row, tr[data-game-id]"); rows.Length() > 0 {
		return parseTableFormat(rows), nil
	}

	if cards := doc.Find(".game-card, .event-card, .scoreboard-game"); cards.Length() > 0 {
		return parseCardFormat(cards), nil
	}

	if elements := doc.Find("[data-home-score], [data-away-score]"); elements.Length() > 0 {
		return parseDataAttributes(elements), nil
	}

	return nil, nil
}

func parseTableFormat(rows *goquery.Selection) []usecase.ScrapedGame {
	games := make([]usecase.ScrapedGame, 0, rows.Length())

	rows.Each(func(_ int, row *goquery.Selection) {
		gameID, _ := row.Attr("data-game-id")
		if gameID == "" {
			return
		}

		teams := row.Find(".team-name, td.team")
		if teams.Length() < 2 {
			return
		}

		scores := row.Find(".score, td.score")

		games = append(games, usecase.ScrapedGame{
			HomeTeamName:   text(teams.First()),
			AwayTeamName:   text(teams.Last()),
			HomeScore:      intText(scores.First()),
			AwayScore:      intText(scores.Last()),
			Status:         strings.ToLower(text(row.Find(".game-status, .status").First())),
			Period:         text(row.Find(".period").First()),
			Clock:          text(row.Find(".clock, .time").First()),
			FallbackGameID: gameID,
		})
	})

	return games
}

func parseCardFormat(cards *goquery.Selection) []usecase.ScrapedGame {
	games := make([]usecase.ScrapedGame, 0, cards.Length())

	cards.Each(func(_ int, card *goquery.Selection) {
		teams := card.Find(".team-name, .team")
		if teams.Length() < 2 {
			return
		}

		scores := card.Find(".score")
		gameID, _ := card.Attr("data-id")

		games = append(games, usecase.ScrapedGame{
			HomeTeamName:   text(teams.First()),
			AwayTeamName:   text(teams.Last()),
			HomeScore:      intText(scores.First()),
			AwayScore:      intText(scores.Last()),
			Status:         text(card.Find(".status, .game-state").First()),
			Period:         text(card.Find(".period").First()),
			Clock:          text(card.Find(".clock").First()),
			FallbackGameID: gameID,
		})
	})

	return games
}

func parseDataAttributes(elements *goquery.Selection) []usecase.ScrapedGame {
	games := make([]usecase.ScrapedGame, 0, elements.Length())

	elements.Each(func(_ int, element *goquery.Selection) {
		homeName, _ := element.Attr("data-home-team")
		awayName, _ := element.Attr("data-away-team")
		if homeName == "" || awayName == "" {
			return
		}

		gameID, _ := element.Attr("data-game-id")
		status, _ := element.Attr("data-status")
		period, _ := element.Attr("data-period")
		clock, _ := element.Attr("data-clock")

		games = append(games, usecase.ScrapedGame{
			HomeTeamName:   homeName,
			AwayTeamName:   awayName,
			HomeScore:      intAttr(element, "data-home-score"),
			AwayScore:      intAttr(element, "data-away-score"),
			Status:         status,
			Period:         period,
			Clock:          clock,
			FallbackGameID: gameID,
		})
	})

	return games
}

func text(sel *goquery.Selection) string {
	return strings.TrimSpace(sel.Text())
}

func intText(sel *goquery.Selection) int {
	value, err := strconv.Atoi(text(sel))
	if err != nil {
		return 0
	}
	return value
}

func intAttr(sel *goquery.Selection, name string) int {
	raw, _ := sel.Attr(name)
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0
	}
	return value
}
