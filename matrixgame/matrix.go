// Package matrixgame extracts dense payoff matrices from two-player games
// for display.
package matrixgame

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/pkg/errors"

	"github.com/timpalpant/gamekit"
	"github.com/timpalpant/gamekit/numeric"
)

// Matrix holds the payoffs of a two-player game restricted to a strategy
// space. Row[i][j] and Col[i][j] are the payoffs to the row and column
// player when they play RowLabels[i] and ColLabels[j].
type Matrix struct {
	RowLabels []string
	ColLabels []string
	Row       [][]float64
	Col       [][]float64
}

// FromSpace builds the payoff matrix of g over the strategies of space. A
// nil space means every strategy.
func FromSpace(g *gamekit.Game, space gamekit.StrategySpace) (*Matrix, error) {
	if g.NumPlayers() != 2 {
		return nil, errors.Wrapf(gamekit.ErrStructural, "payoff matrix of %v: need 2 players, have %d", g, g.NumPlayers())
	}
	rowPlayer, colPlayer := g.Player(1), g.Player(2)
	rows, cols := rowPlayer.Strategies(), colPlayer.Strategies()
	if space != nil {
		rows, cols = space.Strategies(rowPlayer), space.Strategies(colPlayer)
	}

	m := &Matrix{
		Row: make([][]float64, len(rows)),
		Col: make([][]float64, len(rows)),
	}
	for _, s := range rows {
		m.RowLabels = append(m.RowLabels, s.Label())
	}
	for _, s := range cols {
		m.ColLabels = append(m.ColLabels, s.Label())
	}

	c := g.NewContingency()
	for i, r := range rows {
		m.Row[i] = make([]float64, len(cols))
		m.Col[i] = make([]float64, len(cols))
		if err := c.SetStrategy(r); err != nil {
			return nil, err
		}
		for j, s := range cols {
			if err := c.SetStrategy(s); err != nil {
				return nil, err
			}
			payoffs, err := c.Payoffs()
			if err != nil {
				return nil, err
			}
			m.Row[i][j] = numeric.ToFloat(payoffs[0])
			m.Col[i][j] = numeric.ToFloat(payoffs[1])
		}
	}
	return m, nil
}

// RowBestResponses returns the rows maximizing the row player's payoff
// against column j.
func (m *Matrix) RowBestResponses(j int) []int {
	utilities := make([]float64, len(m.Row))
	for i := range m.Row {
		utilities[i] = m.Row[i][j]
	}
	_, best := argMax(utilities)
	return best
}

// ColBestResponses returns the columns maximizing the column player's
// payoff against row i.
func (m *Matrix) ColBestResponses(i int) []int {
	_, best := argMax(m.Col[i])
	return best
}

// Format writes the matrix as a table. Each cell shows both payoffs; a
// payoff is starred when it is a best response to the other player's
// strategy.
func (m *Matrix) Format(w io.Writer) error {
	rowBest := make([]map[int]bool, len(m.ColLabels))
	for j := range m.ColLabels {
		rowBest[j] = indexSet(m.RowBestResponses(j))
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "\t%s\t\n", strings.Join(m.ColLabels, "\t"))
	for i, label := range m.RowLabels {
		colBest := indexSet(m.ColBestResponses(i))
		cells := make([]string, len(m.ColLabels))
		for j := range cells {
			cells[j] = fmt.Sprintf("%s,%s",
				formatPayoff(m.Row[i][j], rowBest[j][i]),
				formatPayoff(m.Col[i][j], colBest[j]))
		}
		fmt.Fprintf(tw, "%s\t%s\t\n", label, strings.Join(cells, "\t"))
	}
	return tw.Flush()
}

func formatPayoff(v float64, best bool) string {
	s := fmt.Sprintf("%g", v)
	if best {
		s += "*"
	}
	return s
}

func indexSet(indices []int) map[int]bool {
	result := make(map[int]bool, len(indices))
	for _, i := range indices {
		result[i] = true
	}
	return result
}

// argMax returns the largest value of vs and every index attaining it.
func argMax(vs []float64) (float64, []int) {
	var best float64
	var bestIdx []int
	for i, v := range vs {
		switch {
		case len(bestIdx) == 0 || v > best:
			best = v
			bestIdx = []int{i}
		case v == best:
			bestIdx = append(bestIdx, i)
		}
	}
	return best, bestIdx
}
