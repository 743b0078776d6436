package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pmurley/ulb-tradedesk/internal/league"
	"github.com/pmurley/ulb-tradedesk/internal/league/leaguetest"
	"github.com/pmurley/ulb-tradedesk/internal/models"
)

// writeLeague saves the standard fixture league to a temp file.
func writeLeague(t *testing.T) string {
	t.Helper()
	t.Setenv("TUNING_FILE", "")
	t.Setenv("LOG_LEVEL", "error")
	color.NoColor = true

	path := filepath.Join(t.TempDir(), "league.yaml")
	require.NoError(t, leaguetest.Standard(t).SaveFile(path))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestTeamCmd(t *testing.T) {
	path := writeLeague(t)

	out, err := run(t, "--league", path, "team", "bos")
	require.NoError(t, err)
	assert.Contains(t, out, "Region BOS Club BOS (BOS)")
	assert.Contains(t, out, "BOS Player 1 ")
	assert.Contains(t, out, "2025 round 1")
	assert.NotContains(t, out, "NYY Player")

	_, err = run(t, "--league", path, "team", "Nowhere")
	assert.ErrorIs(t, err, models.ErrTeamNotFound)
}

func TestValueCmd(t *testing.T) {
	path := writeLeague(t)

	out, err := run(t, "--league", path, "value", "BOS", "Player", "1", "for", "NYY", "Player", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "== Trade value ==")
	assert.Contains(t, out, "BOS sends:")
	assert.Contains(t, out, "NYY Player 1")

	_, err = run(t, "--league", path, "value", "Nobody for NYY")
	assert.ErrorContains(t, err, "not found: Nobody")
}

func TestMakeItWorkCmd(t *testing.T) {
	path := writeLeague(t)

	_, err := run(t, "--league", path, "make-it-work", "--hold", "left", "BOS Player 1 for NYY")
	assert.ErrorContains(t, err, "--hold must be")

	_, err = run(t, "--league", path, "make-it-work", "--rounds", "3", "BOS for NYY")
	assert.ErrorIs(t, err, models.ErrNoSolution)
}

func TestNegotiateCmd(t *testing.T) {
	path := writeLeague(t)

	out, err := run(t, "--league", path, "negotiate", "BOS Player 1", "--years", "2", "--amount", "5000")
	require.NoError(t, err)
	assert.Contains(t, out, "BOS Player 1 and the Region BOS Club BOS")
	assert.Contains(t, out, "* 2 yr")

	_, err = run(t, "--league", path, "negotiate", "BOS Player 1", "--years", "2")
	assert.ErrorContains(t, err, "go together")
}

const payrollPage = `<html><body><table>
<thead><tr><th>Player</th><th>Pos</th><th>Age</th><th>Yrs</th><th>Payroll Salary</th></tr></thead>
<tbody>
<tr><td><a href="/p/1">BOS Player 1</a></td><td>C</td><td>30</td><td>3</td><td>$20,000,000</td></tr>
<tr><td><a href="/p/2">Someone Else</a></td><td>SS</td><td>27</td><td>1</td><td>$1,000,000</td></tr>
</tbody></table></body></html>`

func TestImportPayrollCmd(t *testing.T) {
	path := writeLeague(t)
	page := filepath.Join(t.TempDir(), "payroll.html")
	require.NoError(t, os.WriteFile(page, []byte(payrollPage), 0644))

	out, err := run(t, "--league", path, "import-payroll", "BOS", "--file", page, "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, out, "no player named Someone Else")
	snap, err := league.LoadFile(path)
	require.NoError(t, err)
	p, err := snap.Player(1)
	require.NoError(t, err)
	assert.NotEqual(t, 20000, p.Contract.Amount, "dry run leaves the file alone")

	out, err = run(t, "--league", path, "import-payroll", "BOS", "--file", page)
	require.NoError(t, err)
	assert.Contains(t, out, "Saved "+path)

	snap, err = league.LoadFile(path)
	require.NoError(t, err)
	p, err = snap.Player(1)
	require.NoError(t, err)
	assert.Equal(t, models.Contract{Amount: 20000, Exp: leaguetest.Season + 2}, p.Contract)
}
