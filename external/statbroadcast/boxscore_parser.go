package statbroadcast

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/bardown/lacrosse-tracker/internal/usecase"
)

var parenNumberRegex = regexp.MustCompile(`\(#?\d+\)`)

// ParseBoxScore extracts a full game detail from a broadcast page: linescore
// periods, team total rows, and per-player stat lines. Any section the page
// lacks comes back empty rather than failing the whole parse.
func ParseBoxScore(html string) (usecase.ScrapedBoxScore, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return usecase.ScrapedBoxScore{}, err
	}

	box := usecase.ScrapedBoxScore{
		QuarterScores: parseQuarterScores(doc),
		PlayerStats:   parsePlayerStats(doc),
	}
	box.AwayTeamStats, box.HomeTeamStats = parseTeamStats(doc)
	return box, nil
}

// parseQuarterScores reads the linescore table. The first data row is the
// away team, the second the home team; the first column is the team name
// and the last is the game total, neither of which is a period.
func parseQuarterScores(doc *goquery.Document) []usecase.ScrapedQuarter {
	rows := doc.Find(".linescore tr, #linescore tr, table.linescore tr")
	if rows.Length() < 3 {
		return nil
	}

	headerCells := rows.Eq(0).Find("th, td")
	awayCells := rows.Eq(1).Find("td")
	homeCells := rows.Eq(2).Find("td")

	quarterCount := headerCells.Length() - 2
	scores := make([]usecase.ScrapedQuarter, 0, quarterCount)
	for q := 0; q < quarterCount; q++ {
		cellIndex := q + 1
		if cellIndex >= awayCells.Length() || cellIndex >= homeCells.Length() {
			break
		}
		scores = append(scores, usecase.ScrapedQuarter{
			Quarter:   q + 1,
			HomeScore: intText(homeCells.Eq(cellIndex)),
			AwayScore: intText(awayCells.Eq(cellIndex)),
		})
	}
	return scores
}

// parsePlayerStats walks every player stat table. The first table is the
// away side and the second the home side by convention; every line carries
// that positional flag since many pages omit captions. Columns after the
// name cell follow the fixed order G, A, Sh, GB, TO, CT, Sv, FOW, FOL,
// Pen, PIM; missing trailing columns read as zero.
func parsePlayerStats(doc *goquery.Document) []usecase.ScrapedPlayerStats {
	var lines []usecase.ScrapedPlayerStats

	doc.Find("table.player-stats, table.boxscore, .stats-table table").Each(func(tableIndex int, table *goquery.Selection) {
		teamName := tableTeamName(table)
		isHome := tableIndex == 1

		table.Find("tbody tr").Each(func(_ int, row *goquery.Selection) {
			cells := row.Find("td")
			if cells.Length() < 4 {
				return
			}

			firstCell := strings.ToLower(text(cells.First()))
			if strings.Contains(firstCell, "total") || strings.Contains(firstCell, "team") {
				return
			}

			line, ok := parsePlayerRow(cells, teamName, isHome)
			if ok {
				lines = append(lines, line)
			}
		})
	})

	return lines
}

func parsePlayerRow(cells *goquery.Selection, teamName string, isHome bool) (usecase.ScrapedPlayerStats, bool) {
	nameCell := text(cells.First())
	if nameCell == "" {
		return usecase.ScrapedPlayerStats{}, false
	}

	name, number := extractJerseyNumber(nameCell)
	values := cellValues(cells)
	if len(values) < 3 {
		return usecase.ScrapedPlayerStats{}, false
	}

	return usecase.ScrapedPlayerStats{
		PlayerName:      name,
		Number:          number,
		Team:            teamName,
		IsHome:          isHome,
		Goals:           at(values, 0),
		Assists:         at(values, 1),
		Shots:           at(values, 2),
		GroundBalls:     at(values, 3),
		Turnovers:       at(values, 4),
		CausedTurnovers: at(values, 5),
		Saves:           at(values, 6),
		FaceoffsWon:     at(values, 7),
		FaceoffsLost:    at(values, 8),
		Penalties:       at(values, 9),
		PenaltyMinutes:  at(values, 10),
	}, true
}

// parseTeamStats reads the team total rows. The first totals row is the
// away side, the second the home side. Columns after the name cell follow
// the order G, A, Sh, SOG, GB, TO, Sv, FOW, FOL, Pen, PIM.
func parseTeamStats(doc *goquery.Document) (away, home usecase.ScrapedTeamStats) {
	doc.Find("tr.totals, tr.team-totals, tfoot tr").Each(func(index int, row *goquery.Selection) {
		values := cellValues(row.Find("td"))
		if len(values) < 3 {
			return
		}

		totals := usecase.ScrapedTeamStats{
			TeamName:       text(row.Find("td").First()),
			Goals:          at(values, 0),
			Assists:        at(values, 1),
			Shots:          at(values, 2),
			ShotsOnGoal:    at(values, 3),
			GroundBalls:    at(values, 4),
			Turnovers:      at(values, 5),
			Saves:          at(values, 6),
			FaceoffsWon:    at(values, 7),
			FaceoffsLost:   at(values, 8),
			Penalties:      at(values, 9),
			PenaltyMinutes: at(values, 10),
		}

		if index == 0 {
			away = totals
		} else {
			home = totals
		}
	})
	return away, home
}

// tableTeamName looks for a caption or a preceding team header near a stat
// table. Empty when the markup carries none; the reconciler then falls back
// to positional assignment.
func tableTeamName(table *goquery.Selection) string {
	if caption := text(table.Find("caption").First()); caption != "" {
		return caption
	}
	if header := text(table.Prev().Filter("h2, h3, .team-header")); header != "" {
		return header
	}
	return ""
}

// extractJerseyNumber splits a jersey number out of a name cell. Known
// conventions, checked in order: "#12 Smith, John", "12 Smith", and a
// trailing "(#12)" or "(12)". Anything else leaves the number unset.
func extractJerseyNumber(raw string) (name, number string) {
	name = strings.TrimSpace(raw)

	name = strings.TrimPrefix(name, "#")

	parts := strings.SplitN(name, " ", 2)
	if len(parts) == 2 {
		if _, err := strconv.Atoi(parts[0]); err == nil {
			number = parts[0]
			name = strings.TrimSpace(parts[1])
		}
	}

	if loc := parenNumberRegex.FindStringIndex(name); loc != nil {
		match := name[loc[0]:loc[1]]
		number = strings.NewReplacer("(", "", ")", "", "#", "").Replace(match)
		name = strings.TrimSpace(name[:loc[0]])
	}

	return name, number
}

func cellValues(cells *goquery.Selection) []int {
	values := make([]int, 0, cells.Length())
	cells.Each(func(i int, cell *goquery.Selection) {
		if i == 0 {
			return
		}
		values = append(values, intText(cell))
	})
	return values
}

func at(values []int, index int) int {
	if index >= len(values) {
		return 0
	}
	return values[index]
}
