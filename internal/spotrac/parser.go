package spotrac

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/pmurley/ulb-tradedesk/internal/models"
)

// PayrollRow is one player line of a team payroll table. Salary is in
// thousands of dollars.
type PayrollRow struct {
	Name          string
	Position      string
	Age           int
	Salary        int
	Years         int // seasons left including the current one, 0 when unknown
	FreeAgentYear int
}

// columns maps the payroll table headers we care about to cell indexes.
type columns struct {
	name, pos, age, salary, years, freeAgent int
}

func findColumns(table *goquery.Selection) columns {
	cols := columns{name: -1, pos: -1, age: -1, salary: -1, years: -1, freeAgent: -1}
	table.Find("thead th").Each(func(i int, s *goquery.Selection) {
		header := strings.ToLower(strings.TrimSpace(s.Text()))
		switch {
		case strings.HasPrefix(header, "player") && cols.name == -1:
			cols.name = i
		case (header == "pos" || header == "position") && cols.pos == -1:
			cols.pos = i
		case strings.HasPrefix(header, "age") && cols.age == -1:
			cols.age = i
		case (strings.Contains(header, "payroll") || strings.Contains(header, "cap hit") || header == "salary") && cols.salary == -1:
			cols.salary = i
		case (header == "yrs" || header == "years") && cols.years == -1:
			cols.years = i
		case strings.Contains(header, "free agent") && cols.freeAgent == -1:
			cols.freeAgent = i
		}
	})
	return cols
}

// ParsePayrollTable extracts player rows from a team payroll page. The first
// table with both a player and a salary column is used.
func ParsePayrollTable(body io.Reader) ([]PayrollRow, error) {
	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	var rows []PayrollRow
	found := false
	doc.Find("table").EachWithBreak(func(_ int, table *goquery.Selection) bool {
		cols := findColumns(table)
		if cols.name < 0 || cols.salary < 0 {
			return true
		}
		found = true

		table.Find("tbody tr").Each(func(_ int, tr *goquery.Selection) {
			cells := tr.Find("td")
			row := PayrollRow{Name: playerName(cells.Eq(cols.name))}
			if row.Name == "" {
				return
			}
			salary, ok := parseMoney(cells.Eq(cols.salary).Text())
			if !ok {
				return
			}
			row.Salary = salary
			if cols.pos >= 0 {
				row.Position = strings.TrimSpace(cells.Eq(cols.pos).Text())
			}
			if cols.age >= 0 {
				row.Age = atoi(cells.Eq(cols.age).Text())
			}
			if cols.years >= 0 {
				row.Years = atoi(cells.Eq(cols.years).Text())
			}
			if cols.freeAgent >= 0 {
				fields := strings.Fields(cells.Eq(cols.freeAgent).Text())
				if len(fields) > 0 {
					row.FreeAgentYear = atoi(fields[0])
				}
			}
			rows = append(rows, row)
		})
		return false
	})

	if !found {
		return nil, fmt.Errorf("no payroll table found")
	}
	return rows, nil
}

// playerName prefers the link text, since the cell also carries a hidden
// sort key.
func playerName(cell *goquery.Selection) string {
	if link := cell.Find("a").First(); link.Length() > 0 {
		return strings.TrimSpace(link.Text())
	}
	return strings.TrimSpace(cell.Text())
}

// parseMoney converts "$12,500,000" to 12500 (thousands).
func parseMoney(text string) (int, bool) {
	text = strings.TrimSpace(text)
	text = strings.NewReplacer("$", "", ",", "").Replace(text)
	if text == "" || text == "-" {
		return 0, false
	}
	dollars, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, false
	}
	return int(dollars / 1000), true
}

func atoi(text string) int {
	n, _ := strconv.Atoi(strings.TrimSpace(text))
	return n
}

// ApplyContracts returns the players of team tid whose contracts differ from
// the payroll rows, updated to match. Rows with no matching player are
// returned by name.
func ApplyContracts(players []models.Player, tid int, rows []PayrollRow, state models.GameState) (updated []models.Player, unmatched []string) {
	byName := make(map[string]int)
	for i, p := range players {
		if p.TeamID == tid {
			byName[normalizeName(p.Name)] = i
		}
	}

	for _, row := range rows {
		i, ok := byName[normalizeName(row.Name)]
		if !ok {
			unmatched = append(unmatched, row.Name)
			continue
		}
		p := players[i]
		contract := models.Contract{Amount: row.Salary, Exp: p.Contract.Exp}
		switch {
		case row.Years > 0:
			contract.Exp = state.Season + row.Years - 1
		case row.FreeAgentYear > 0:
			contract.Exp = row.FreeAgentYear - 1
		}
		if contract == p.Contract {
			continue
		}
		p.Contract = contract
		updated = append(updated, p)
	}
	return updated, unmatched
}

func normalizeName(name string) string {
	name = strings.ToLower(name)
	name = strings.NewReplacer(".", "", "'", "", "-", " ").Replace(name)
	return strings.Join(strings.Fields(name), " ")
}
