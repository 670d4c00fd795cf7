package support

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/timpalpant/gamekit"
)

func TestEfgSupport_Reachability(t *testing.T) {
	g := newSequential(t)
	s, err := NewEfgSupport(g)
	require.NoError(t, err)
	root, left := g.Root().Infoset(), g.Root().Child(0).Infoset()
	assert.Equal(t, 2, s.NumActiveNodes())
	total, err := s.TotalNumSequences()
	require.NoError(t, err)
	assert.Equal(t, 3+3, total)
	dof, err := s.NumDegreesOfFreedom()
	require.NoError(t, err)
	assert.Equal(t, 2, dof)
	reachable, err := s.ReachableInfosets(g.Root())
	require.NoError(t, err)
	assert.Equal(t, []*gamekit.Infoset{left}, reachable)

	deactivated, err := s.RemoveActionReturningDeletedInfosets(root.Action(0))
	require.NoError(t, err)
	assert.Equal(t, []*gamekit.Infoset{left}, deactivated)
	assert.False(t, s.InfosetIsActive(left))
	active, err := s.NodeIsActive(g.Root().Child(0))
	require.NoError(t, err)
	assert.False(t, active)
	active, err = s.NodeIsActive(g.Root().Child(1))
	require.NoError(t, err)
	assert.True(t, active)
	mayReach, err := s.MayReachInfoset(left)
	require.NoError(t, err)
	assert.False(t, mayReach)
	assert.Equal(t, 1, s.NumActiveNodes())
	infosets, err := s.ReachableInfosetsOf(g.Player(2))
	require.NoError(t, err)
	assert.Empty(t, infosets)
	sequences, err := s.NumSequences(g.Player(2))
	require.NoError(t, err)
	assert.Equal(t, 1, sequences)
	assert.True(t, s.HasActiveActionsAtAllInfosets())

	removed, err := s.RemoveAction(root.Action(1))
	require.NoError(t, err)
	assert.False(t, removed, "the last action of an infoset stays")

	require.NoError(t, s.AddAction(root.Action(0)))
	assert.True(t, s.InfosetIsActive(left))
	assert.Equal(t, []*gamekit.Action{root.Action(0), root.Action(1)}, s.Actions(root))
	members, err := s.ReachableNodesInInfoset(left)
	require.NoError(t, err)
	assert.Equal(t, []*gamekit.Node{g.Root().Child(0)}, members)

	after, err := s.ReachableNonterminalNodesAfter(g.Root(), root.Action(0))
	require.NoError(t, err)
	assert.Equal(t, []*gamekit.Node{g.Root().Child(0)}, after)
	after, err = s.ReachableNonterminalNodesAfter(g.Root(), left.Action(0))
	require.NoError(t, err)
	assert.Empty(t, after, "an action of another infoset reaches nothing")
}

func TestEfgSupport_StaleQueries(t *testing.T) {
	g := newSequential(t)
	s, err := NewEfgSupport(g)
	require.NoError(t, err)
	root := g.Root()
	require.NoError(t, g.DeleteAction(root.Infoset().Action(1)))
	require.False(t, s.Valid())

	_, err = s.ReachableNonterminalNodes(root)
	assert.ErrorIs(t, err, gamekit.ErrInvalidState)
	_, err = s.ReachableNonterminalNodesAfter(root, root.Infoset().Action(0))
	assert.ErrorIs(t, err, gamekit.ErrInvalidState)
	_, err = s.ReachableInfosets(root)
	assert.ErrorIs(t, err, gamekit.ErrInvalidState)
	_, err = s.ReachableInfosetsAfter(root, root.Infoset().Action(0))
	assert.ErrorIs(t, err, gamekit.ErrInvalidState)
	_, err = s.ReachableInfosetsOf(g.Player(2))
	assert.ErrorIs(t, err, gamekit.ErrInvalidState)
	_, err = s.ReachableNodesInInfoset(root.Infoset())
	assert.ErrorIs(t, err, gamekit.ErrInvalidState)
	_, err = s.NodeIsActive(root)
	assert.ErrorIs(t, err, gamekit.ErrInvalidState)
	_, err = s.MayReach(root.Child(0))
	assert.ErrorIs(t, err, gamekit.ErrInvalidState)
	_, err = s.MayReachInfoset(root.Infoset())
	assert.ErrorIs(t, err, gamekit.ErrInvalidState)
	_, err = s.NumSequences(g.Player(1))
	assert.ErrorIs(t, err, gamekit.ErrInvalidState)
	_, err = s.TotalNumSequences()
	assert.ErrorIs(t, err, gamekit.ErrInvalidState)
	_, err = s.NumDegreesOfFreedom()
	assert.ErrorIs(t, err, gamekit.ErrInvalidState)
	_, err = s.NewBehavProfile()
	assert.ErrorIs(t, err, gamekit.ErrInvalidState)
}

func TestEfgSupport_Matrix(t *testing.T) {
	g := newStrictlyDominated(t)
	_, err := NewEfgSupport(g)
	assert.ErrorIs(t, err, gamekit.ErrStructural)
}

func TestEfgSupport_Dominates(t *testing.T) {
	ctx := context.Background()
	g := newSequential(t)
	s, err := NewEfgSupport(g)
	require.NoError(t, err)
	root, left := g.Root().Infoset(), g.Root().Child(0).Infoset()
	l, r := left.Action(0), left.Action(1)

	testCases := []struct {
		strong, conditional bool
		expected            bool
	}{
		// If player 1 chooses R, l and r tie.
		{true, false, false},
		{false, false, true},
		{true, true, true},
		{false, true, true},
	}
	for _, tc := range testCases {
		ok, err := s.Dominates(ctx, l, r, tc.strong, tc.conditional)
		require.NoError(t, err)
		assert.Equal(t, tc.expected, ok, "strong=%v conditional=%v", tc.strong, tc.conditional)
	}

	for _, conditional := range []bool{true, false} {
		dominated, err := s.IsDominated(ctx, root.Action(1), false, conditional)
		require.NoError(t, err)
		assert.False(t, dominated)
	}

	_, err = s.Dominates(ctx, l, root.Action(0), true, false)
	assert.ErrorIs(t, err, gamekit.ErrStructural)
}

func TestEfgSupport_ConditionalUnreachable(t *testing.T) {
	ctx := context.Background()
	g := newSequential(t)
	s, err := NewEfgSupport(g)
	require.NoError(t, err)
	left := g.Root().Child(0).Infoset()

	_, err = s.RemoveAction(g.Root().Infoset().Action(0))
	require.NoError(t, err)
	dominated, err := s.IsDominated(ctx, left.Action(1), true, true)
	require.NoError(t, err)
	assert.True(t, dominated, "unreachable infosets compare at every member")
}

func TestEfgSupport_Undominated(t *testing.T) {
	ctx := context.Background()
	g := newSequential(t)
	s, err := NewEfgSupport(g)
	require.NoError(t, err)

	result, err := s.Undominated(ctx, true, false, nil, nil)
	require.NoError(t, err)
	assert.True(t, result.Equal(s))

	var trace bytes.Buffer
	result, err = s.Undominated(ctx, true, true, nil, &trace)
	require.NoError(t, err)
	assert.Equal(t, `{{{"L" "R"}} {{"l"}}}`, result.String())
	assert.Contains(t, trace.String(), "is dominated by")

	// With r gone, L earns 3 against R's 1.
	result, err = result.Undominated(ctx, true, false, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, `{{{"L"}} {{"l"}}}`, result.String())
	assert.Equal(t, `{{{"L" "R"}} {{"l" "r"}}}`, s.String(), "the receiver is unchanged")

	again, err := result.Undominated(ctx, false, false, nil, nil)
	require.NoError(t, err)
	assert.True(t, again.Equal(result))
}

func TestEfgSupport_CancelledAndStale(t *testing.T) {
	g := newSequential(t)
	s, err := NewEfgSupport(g)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	result, err := s.Undominated(ctx, false, true, nil, nil)
	assert.ErrorIs(t, err, ErrCancelled)
	assert.Nil(t, result)
	assert.Len(t, s.Actions(g.Root().Infoset()), 2)

	_, err = g.AppendAction(g.Root().Infoset())
	require.NoError(t, err)
	assert.False(t, s.Valid())
	_, err = s.Undominated(context.Background(), false, true, nil, nil)
	assert.ErrorIs(t, err, gamekit.ErrInvalidState)
}

func TestEfgSupport_Copy(t *testing.T) {
	g := newSequential(t)
	s, err := NewEfgSupport(g)
	require.NoError(t, err)
	c := s.Copy()
	require.True(t, c.Equal(s))

	_, err = c.RemoveAction(g.Root().Infoset().Action(1))
	require.NoError(t, err)
	assert.False(t, c.Equal(s))
	assert.True(t, s.Contains(g.Root().Infoset().Action(1)))
	active, err := s.NodeIsActive(g.Root().Child(1))
	require.NoError(t, err)
	assert.True(t, active)

	bp, err := c.NewBehavProfile()
	require.NoError(t, err)
	assert.NotNil(t, bp)
}
