package matrixgame

import (
	"bytes"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/timpalpant/gamekit"
)

func prisonersDilemma(t *testing.T) *gamekit.Game {
	g, err := gamekit.NewMatrix([]int{2, 2})
	require.NoError(t, err)
	payoffs := [][2]int64{
		{-1, -1}, // (C, C)
		{0, -3},  // (D, C)
		{-3, 0},  // (C, D)
		{-2, -2}, // (D, D)
	}
	it := gamekit.NewContingencyIter(g, nil)
	for k := 0; it.Next(); k++ {
		o := g.NewOutcome()
		require.NoError(t, o.SetPayoff(g.Player(1), big.NewRat(payoffs[k][0], 1)))
		require.NoError(t, o.SetPayoff(g.Player(2), big.NewRat(payoffs[k][1], 1)))
		require.NoError(t, it.Contingency().SetOutcome(o))
	}
	for _, p := range g.Players() {
		p.Strategy(1).SetLabel("C")
		p.Strategy(2).SetLabel("D")
	}
	return g
}

func TestFromSpace_PrisonersDilemma(t *testing.T) {
	m, err := FromSpace(prisonersDilemma(t), nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"C", "D"}, m.RowLabels)
	assert.Equal(t, []string{"C", "D"}, m.ColLabels)
	assert.Equal(t, [][]float64{{-1, -3}, {0, -2}}, m.Row)
	assert.Equal(t, [][]float64{{-1, 0}, {-3, -2}}, m.Col)

	for j := range m.ColLabels {
		assert.Equal(t, []int{1}, m.RowBestResponses(j))
	}
	for i := range m.RowLabels {
		assert.Equal(t, []int{1}, m.ColBestResponses(i))
	}
}

func TestFromSpace_RequiresTwoPlayers(t *testing.T) {
	g, err := gamekit.NewMatrix([]int{2, 2, 2})
	require.NoError(t, err)
	_, err = FromSpace(g, nil)
	assert.ErrorIs(t, err, gamekit.ErrStructural)
}

func TestFormat(t *testing.T) {
	m, err := FromSpace(prisonersDilemma(t), nil)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, m.Format(&buf))
	out := buf.String()
	assert.Contains(t, out, "-2*,-2*")
	assert.Contains(t, out, "-1,-1")
}

func TestArgMax_Ties(t *testing.T) {
	best, idx := argMax([]float64{1, 3, 2, 3})
	assert.Equal(t, 3.0, best)
	assert.Equal(t, []int{1, 3}, idx)
}
