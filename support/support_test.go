package support

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/timpalpant/gamekit"
)

// newMatrixGame builds a matrix game from the payoffs of each contingency,
// in iteration order (player 1 varies fastest). Strategies of player i are
// labeled with the i-th entry of labels.
func newMatrixGame(t *testing.T, labels [][]string, payoffs [][]int64) *gamekit.Game {
	t.Helper()
	dims := make([]int, len(labels))
	for i, l := range labels {
		dims[i] = len(l)
	}
	g, err := gamekit.NewMatrix(dims)
	require.NoError(t, err)
	for i, p := range g.Players() {
		for j, st := range p.Strategies() {
			st.SetLabel(labels[i][j])
		}
	}

	it := gamekit.NewContingencyIter(g, nil)
	k := 0
	for it.Next() {
		require.Less(t, k, len(payoffs))
		o := g.NewOutcome()
		for i, p := range g.Players() {
			require.NoError(t, o.SetPayoff(p, big.NewRat(payoffs[k][i], 1)))
		}
		require.NoError(t, it.Contingency().SetOutcome(o))
		k++
	}
	require.Equal(t, len(payoffs), k)
	return g
}

// strategy returns the strategy of p with the given label.
func strategy(t *testing.T, p *gamekit.Player, label string) *gamekit.Strategy {
	t.Helper()
	for _, st := range p.Strategies() {
		if st.Label() == label {
			return st
		}
	}
	t.Fatalf("%v has no strategy %q", p, label)
	return nil
}

// newSequential builds a tree where player 1 chooses L or R. After L,
// player 2 chooses l for (3, 1) or r for (0, 0); R ends with (1, 2).
func newSequential(t *testing.T) *gamekit.Game {
	t.Helper()
	g := gamekit.NewTree()
	p1, p2 := g.NewPlayer(), g.NewPlayer()
	root, err := g.NewMove(g.Root(), p1, 2)
	require.NoError(t, err)
	root.Action(0).SetLabel("L")
	root.Action(1).SetLabel("R")
	left, err := g.NewMove(g.Root().Child(0), p2, 2)
	require.NoError(t, err)
	left.Action(0).SetLabel("l")
	left.Action(1).SetLabel("r")

	setOutcome := func(n *gamekit.Node, payoffs ...int64) {
		o := g.NewOutcome()
		for i, p := range g.Players() {
			require.NoError(t, o.SetPayoff(p, big.NewRat(payoffs[i], 1)))
		}
		require.NoError(t, g.SetOutcome(n, o))
	}
	setOutcome(g.Root().Child(0).Child(0), 3, 1)
	setOutcome(g.Root().Child(0).Child(1), 0, 0)
	setOutcome(g.Root().Child(1), 1, 2)
	return g
}
