package gamekit

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// allPayoffs returns the payoffs of every contingency in iteration order.
func allPayoffs(t *testing.T, g *Game) [][]string {
	t.Helper()
	var result [][]string
	it := NewContingencyIter(g, nil)
	for it.Next() {
		payoffs, err := it.Contingency().Payoffs()
		require.NoError(t, err)
		var row []string
		for _, v := range payoffs {
			row = append(row, v.RatString())
		}
		result = append(result, row)
	}
	return result
}

func TestChanceExpectation(t *testing.T) {
	g := newCoinFlip(t)
	c := g.NewContingency()

	infosetProbs, err := c.InfosetProbs()
	require.NoError(t, err)
	s := g.Root().Infoset()
	assert.Equal(t, "1", infosetProbs[s].RatString())

	actionProbs, err := c.ActionProbs()
	require.NoError(t, err)
	half := big.NewRat(1, 2)
	for _, a := range s.Actions() {
		assert.Zero(t, half.Cmp(actionProbs[a]), "probability of %v", a)
	}

	v, err := c.Payoff(g.Player(1))
	require.NoError(t, err)
	assert.Equal(t, "1", v.RatString())
	v, err = c.Payoff(g.Player(2))
	require.NoError(t, err)
	assert.Equal(t, "1", v.RatString())
}

func TestChanceExpectation_SetChanceProb(t *testing.T) {
	g := newCoinFlip(t)
	s := g.Root().Infoset()
	c := g.NewContingency()
	v, err := c.Payoff(g.Player(1))
	require.NoError(t, err)
	assert.Equal(t, "1", v.RatString())

	require.NoError(t, g.SetChanceProb(s, 0, big.NewRat(3, 4)))
	require.NoError(t, g.SetChanceProb(s, 1, big.NewRat(1, 4)))
	assert.True(t, c.Valid(), "probability edits keep handles valid")
	v, err = c.Payoff(g.Player(1))
	require.NoError(t, err)
	assert.Equal(t, "3/2", v.RatString())

	err = g.SetChanceProb(s, 0, big.NewRat(-1, 2))
	assert.ErrorIs(t, err, ErrStructural)
	personal, err := g.NewInfoset(g.Player(1), 2)
	require.NoError(t, err)
	err = g.SetChanceProb(personal, 0, big.NewRat(1, 2))
	assert.ErrorIs(t, err, ErrStructural)
}

func TestPayoffs_Sequential(t *testing.T) {
	g := newSequential(t)
	assert.Equal(t, [][]string{
		{"3", "1"}, // L, l
		{"1", "2"}, // R, l
		{"0", "0"}, // L, r
		{"1", "2"}, // R, r
	}, allPayoffs(t, g))
}

func TestPayoffs_InteriorOutcomes(t *testing.T) {
	g := newSequential(t)
	require.NoError(t, g.SetOutcome(g.Root(), newOutcome(t, g, 10, 20)))
	rows := allPayoffs(t, g)
	assert.Equal(t, []string{"13", "21"}, rows[0])
	assert.Equal(t, []string{"11", "22"}, rows[3])
}

func TestDeleteTreeThenInsertMove_RoundTrip(t *testing.T) {
	g := newSequential(t)
	before := allPayoffs(t, g)

	left := g.Root().Child(0)
	o1, o2 := left.Child(0).Outcome(), left.Child(1).Outcome()
	require.NoError(t, g.DeleteTree(left))
	assert.True(t, left.IsTerminal())
	assert.Equal(t, 0, g.Player(2).NumInfosets())
	assert.Equal(t, []int{2, 1}, g.NumStrategies())

	s, err := g.NewInfoset(g.Player(2), 2)
	require.NoError(t, err)
	m, err := g.InsertMove(left, s)
	require.NoError(t, err)
	require.NoError(t, g.SetOutcome(left, o1))
	require.NoError(t, g.SetOutcome(m.Child(1), o2))

	assert.Equal(t, before, allPayoffs(t, g))
	checkInvariants(t, g)
}

func TestContingency_Stale(t *testing.T) {
	g := newSequential(t)
	c := g.NewContingency()
	st := g.Player(1).Strategy(2)
	require.NoError(t, c.SetStrategy(st))
	assert.Equal(t, st, c.Strategy(g.Player(1)))
	assert.Equal(t, int64(1), c.Index())

	_, err := g.NewMove(g.Root().Child(1), g.Player(1), 2)
	require.NoError(t, err)
	assert.False(t, c.Valid())
	_, err = c.Payoffs()
	assert.ErrorIs(t, err, ErrInvalidState)

	c = g.NewContingency()
	err = c.SetStrategy(st)
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestContingency_MatrixOutcome(t *testing.T) {
	g, err := NewMatrix([]int{2, 2})
	require.NoError(t, err)
	c := g.NewContingency()
	require.NoError(t, c.SetStrategy(g.Player(2).Strategy(2)))

	o := newOutcome(t, g, 5, -5)
	require.NoError(t, c.SetOutcome(o))
	got, err := c.Outcome()
	require.NoError(t, err)
	assert.Equal(t, o, got)
	assert.Equal(t, [][]string{{"0", "0"}, {"0", "0"}, {"5", "-5"}, {"0", "0"}}, allPayoffs(t, g))
	assert.True(t, g.IsConstSum())

	tree := newSequential(t)
	_, err = tree.NewContingency().Outcome()
	assert.ErrorIs(t, err, ErrStructural)
}

func TestContingencyIter_Freeze(t *testing.T) {
	g, err := NewMatrix([]int{3, 2})
	require.NoError(t, err)
	it := NewContingencyIter(g, nil)
	require.NoError(t, it.Freeze(g.Player(1).Strategy(2)))

	var seen []string
	for it.Next() {
		seen = append(seen, it.Contingency().String())
	}
	assert.Equal(t, []string{"(2,1)", "(2,2)"}, seen)

	it.Reset()
	assert.True(t, it.Next())
	assert.Equal(t, "(2,1)", it.Contingency().String())
}

func TestMixedProfile_Payoff(t *testing.T) {
	g := newSequential(t)
	mp := g.NewMixedProfile()
	assert.Equal(t, 4, mp.Length())
	mp.SetCentroid()

	v, err := mp.Payoff(g.Player(1))
	require.NoError(t, err)
	// (3 + 1 + 0 + 1) / 4
	assert.Equal(t, "5/4", v.RatString())

	require.NoError(t, mp.SetProb(g.Player(1).Strategy(1), big.NewRat(1, 1)))
	require.NoError(t, mp.SetProb(g.Player(1).Strategy(2), new(big.Rat)))
	v, err = mp.Payoff(g.Player(2))
	require.NoError(t, err)
	assert.Equal(t, "1/2", v.RatString())
}

func TestBehavProfile_Payoff(t *testing.T) {
	g := newCoinFlip(t)
	bp := g.NewBehavProfile()
	assert.Equal(t, 0, bp.Length(), "chance actions are not part of a behavior profile")
	v, err := bp.Payoff(g.Player(2))
	require.NoError(t, err)
	assert.Equal(t, "1", v.RatString())

	g = newSequential(t)
	bp = g.NewBehavProfile()
	bp.SetCentroid()
	v, err = bp.Payoff(g.Player(1))
	require.NoError(t, err)
	// 1/2 (1/2 * 3 + 1/2 * 0) + 1/2 * 1
	assert.Equal(t, "5/4", v.RatString())
}

func TestPurePayoff(t *testing.T) {
	g := newSequential(t)
	root, left := g.Root().Infoset(), g.Root().Child(0).Infoset()
	profile := PureBehavior{root: root.Action(0), left: left.Action(1)}

	payoffs, err := g.PurePayoff(g.Root(), profile)
	require.NoError(t, err)
	assert.Equal(t, "0", payoffs[0].RatString())

	payoffs, err = g.PurePayoff(g.Root().Child(1), profile)
	require.NoError(t, err)
	assert.Equal(t, "2", payoffs[1].RatString())

	delete(profile, left)
	_, err = g.PurePayoff(g.Root(), profile)
	assert.ErrorIs(t, err, ErrStructural)
}

func TestBehavIter(t *testing.T) {
	g := newRepeatedChoice(t)
	p1 := g.Player(1)
	first, second := p1.Infoset(1), p1.Infoset(2)

	it := NewBehavIter(nil, []*Infoset{first, second})
	count := 0
	for it.Next() {
		count++
	}
	assert.Equal(t, 4, count)

	it.Freeze(second.Action(1))
	var chosen []*Action
	for it.Next() {
		assert.Equal(t, second.Action(1), it.Profile()[second])
		chosen = append(chosen, it.Profile()[first])
	}
	assert.Equal(t, first.Actions(), chosen)
}
