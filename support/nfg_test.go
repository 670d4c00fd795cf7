package support

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/timpalpant/gamekit"
	"github.com/timpalpant/gamekit/numeric"
)

// Player 1's B earns less than A against every strategy of player 2.
func newStrictlyDominated(t *testing.T) *gamekit.Game {
	return newMatrixGame(t,
		[][]string{{"A", "B"}, {"X", "Y"}},
		[][]int64{
			{3, 0}, // A, X
			{1, 0}, // B, X
			{4, 0}, // A, Y
			{2, 0}, // B, Y
		})
}

func TestNfgSupport_Dominates(t *testing.T) {
	ctx := context.Background()
	g := newStrictlyDominated(t)
	s := NewNfgSupport(g)
	p1, p2 := g.Player(1), g.Player(2)
	a, b := strategy(t, p1, "A"), strategy(t, p1, "B")

	for _, strong := range []bool{true, false} {
		ok, err := s.Dominates(ctx, a, b, strong)
		require.NoError(t, err)
		assert.True(t, ok, "strong=%v", strong)
		ok, err = s.Dominates(ctx, b, a, strong)
		require.NoError(t, err)
		assert.False(t, ok, "strong=%v", strong)
	}

	dominated, err := s.IsDominated(ctx, b, true)
	require.NoError(t, err)
	assert.True(t, dominated)
	dominated, err = s.IsDominated(ctx, a, false)
	require.NoError(t, err)
	assert.False(t, dominated)

	// Player 2 is indifferent, so neither of its strategies dominates.
	x, y := strategy(t, p2, "X"), strategy(t, p2, "Y")
	ok, err := s.Dominates(ctx, x, y, false)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = s.Dominates(ctx, a, x, true)
	assert.ErrorIs(t, err, gamekit.ErrStructural)
}

func TestNfgSupport_WeakDominance(t *testing.T) {
	ctx := context.Background()
	g := newMatrixGame(t,
		[][]string{{"A", "B"}, {"X", "Y"}},
		[][]int64{
			{1, 0}, {1, 0}, // X
			{1, 0}, {0, 0}, // Y
		})
	s := NewNfgSupport(g)
	a, b := strategy(t, g.Player(1), "A"), strategy(t, g.Player(1), "B")

	ok, err := s.Dominates(ctx, a, b, true)
	require.NoError(t, err)
	assert.False(t, ok)
	ok, err = s.Dominates(ctx, a, b, false)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestNfgSupport_Undominated(t *testing.T) {
	ctx := context.Background()
	g := newStrictlyDominated(t)
	s := NewNfgSupport(g)

	var trace bytes.Buffer
	result, err := s.Undominated(ctx, true, nil, &trace)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, result.NumStrategies())
	assert.Equal(t, []*gamekit.Strategy{strategy(t, g.Player(1), "A")}, result.Strategies(g.Player(1)))
	assert.Contains(t, trace.String(), "is dominated by")
	assert.Equal(t, []int{2, 2}, s.NumStrategies(), "the receiver is unchanged")

	again, err := result.Undominated(ctx, true, nil, nil)
	require.NoError(t, err)
	assert.True(t, again.Equal(result), "elimination reached a fixed point")

	// Restricting to player 2 leaves player 1 alone.
	only2, err := s.Undominated(ctx, true, []*gamekit.Player{g.Player(2)}, nil)
	require.NoError(t, err)
	assert.True(t, only2.Equal(s))
}

func TestNfgSupport_Cancelled(t *testing.T) {
	g := newStrictlyDominated(t)
	s := NewNfgSupport(g)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := s.Undominated(ctx, true, nil, nil)
	assert.ErrorIs(t, err, ErrCancelled)
	assert.Nil(t, result)
	result, err = s.MixedUndominated(ctx, true, numeric.Rational, nil, nil)
	assert.ErrorIs(t, err, ErrCancelled)
	assert.Nil(t, result)
	assert.Equal(t, []int{2, 2}, s.NumStrategies())
}

func TestNfgSupport_AddRemove(t *testing.T) {
	g := newStrictlyDominated(t)
	s := NewNfgSupport(g)
	a, b := strategy(t, g.Player(1), "A"), strategy(t, g.Player(1), "B")

	removed, err := s.RemoveStrategy(a)
	require.NoError(t, err)
	assert.True(t, removed)
	assert.False(t, s.Contains(a))

	removed, err = s.RemoveStrategy(b)
	require.NoError(t, err)
	assert.False(t, removed, "the last strategy of a player stays")
	removed, err = s.RemoveStrategy(a)
	require.NoError(t, err)
	assert.False(t, removed)

	require.NoError(t, s.AddStrategy(a))
	assert.Equal(t, []*gamekit.Strategy{a, b}, s.Strategies(g.Player(1)), "strategies stay in order")
	assert.Equal(t, `{{"A" "B"} {"X" "Y"}}`, s.String())

	it, err := s.NewIterator()
	require.NoError(t, err)
	n := 0
	for it.Next() {
		n++
	}
	assert.Equal(t, 4, n)
}

func TestNfgSupport_Stale(t *testing.T) {
	g := newSequential(t)
	s := NewNfgSupport(g)
	st := g.Player(1).Strategy(1)
	require.True(t, s.Valid())

	_, err := g.NewMove(g.Root().Child(1), g.Player(2), 2)
	require.NoError(t, err)
	assert.False(t, s.Valid())
	_, err = s.Undominated(context.Background(), true, nil, nil)
	assert.ErrorIs(t, err, gamekit.ErrInvalidState)
	_, err = s.RemoveStrategy(st)
	assert.ErrorIs(t, err, gamekit.ErrInvalidState)

	// The support's own contents still describe the old revision.
	assert.Equal(t, []int{2, 2}, s.NumStrategies())
	assert.True(t, s.Contains(st))
}

// Player 1's B is beaten by an even mixture of T and M, but by neither of
// them alone.
func newMixedStrict(t *testing.T) *gamekit.Game {
	return newMatrixGame(t,
		[][]string{{"T", "M", "B"}, {"L", "R"}},
		[][]int64{
			{3, 0}, {0, 0}, {1, 0}, // L
			{0, 0}, {3, 0}, {1, 0}, // R
		})
}

// Player 1's B is matched by an even mixture of T and M in two columns and
// beaten in the third.
func newMixedWeak(t *testing.T) *gamekit.Game {
	return newMatrixGame(t,
		[][]string{{"T", "M", "B"}, {"X", "Y", "Z"}},
		[][]int64{
			{4, 0}, {0, 0}, {2, 0}, // X
			{0, 0}, {4, 0}, {2, 0}, // Y
			{2, 0}, {2, 0}, {1, 0}, // Z
		})
}

func TestMixedUndominated(t *testing.T) {
	ctx := context.Background()
	testCases := []struct {
		name     string
		game     func(*testing.T) *gamekit.Game
		strong   bool
		expected []string
	}{
		{"strict/strong", newMixedStrict, true, []string{"T", "M"}},
		{"strict/weak", newMixedStrict, false, []string{"T", "M"}},
		{"weak/strong", newMixedWeak, true, []string{"T", "M", "B"}},
		{"weak/weak", newMixedWeak, false, []string{"T", "M"}},
	}

	for _, tc := range testCases {
		for _, precision := range []numeric.Precision{numeric.Rational, numeric.Float} {
			t.Run(tc.name+"/"+precision.String(), func(t *testing.T) {
				g := tc.game(t)
				s := NewNfgSupport(g)

				pure, err := s.Undominated(ctx, false, nil, nil)
				require.NoError(t, err)
				assert.True(t, pure.Equal(s), "no pure strategy dominates another")

				var trace bytes.Buffer
				result, err := s.MixedUndominated(ctx, tc.strong, precision, nil, &trace)
				require.NoError(t, err)

				var labels []string
				for _, st := range result.Strategies(g.Player(1)) {
					labels = append(labels, st.Label())
				}
				assert.Equal(t, tc.expected, labels)
				assert.Len(t, result.Strategies(g.Player(2)), g.Player(2).NumStrategies())
				if len(tc.expected) < 3 {
					assert.Contains(t, trace.String(), "mixture {")
				}
			})
		}
	}
}

func TestMixedUndominated_UnknownPrecision(t *testing.T) {
	s := NewNfgSupport(newMixedStrict(t))
	_, err := s.MixedUndominated(context.Background(), true, numeric.Precision(7), nil, nil)
	assert.Error(t, err)
}
