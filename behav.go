package gamekit

import (
	"math/big"
)

// PureBehavior chooses one action at each of a set of infosets.
type PureBehavior map[*Infoset]*Action

func (b PureBehavior) Copy() PureBehavior {
	result := make(PureBehavior, len(b))
	for s, a := range b {
		result[s] = a
	}
	return result
}

// ActionSpace lists, for each infoset, the actions a behavior iterator
// ranges over. Supports implement it.
type ActionSpace interface {
	Game() *Game
	// Actions returns the actions of s, in order.
	Actions(s *Infoset) []*Action
}

// PurePayoff returns the expected payoff of every personal player, indexed
// by player id - 1, of play starting at from. Personal moves follow
// profile and chance moves contribute an expectation. Only outcomes at or
// below from count.
func (g *Game) PurePayoff(from *Node, profile PureBehavior) ([]*big.Rat, error) {
	if err := g.checkNode(from); err != nil {
		return nil, err
	}

	payoffs := make([]*big.Rat, len(g.players))
	for i := range payoffs {
		payoffs[i] = new(big.Rat)
	}
	if err := purePayoff(from, big.NewRat(1, 1), profile, payoffs); err != nil {
		return nil, err
	}
	return payoffs, nil
}

func purePayoff(n *Node, prob *big.Rat, profile PureBehavior, payoffs []*big.Rat) error {
	if n.outcome != nil {
		term := new(big.Rat)
		for i, v := range n.outcome.payoffs {
			payoffs[i].Add(payoffs[i], term.Mul(prob, v))
		}
	}
	if n.infoset == nil {
		return nil
	}

	if n.infoset.IsChance() {
		for i, child := range n.children {
			p := n.infoset.probs[i]
			if p.Sign() == 0 {
				continue
			}
			if err := purePayoff(child, new(big.Rat).Mul(prob, p), profile, payoffs); err != nil {
				return err
			}
		}
		return nil
	}

	a, ok := profile[n.infoset]
	if !ok {
		return structuralf("pure payoff: profile has no action at %v", n.infoset)
	}
	if a.infoset != n.infoset || a.deleted {
		return structuralf("pure payoff: %v is not an action of %v", a, n.infoset)
	}
	return purePayoff(n.children[a.number-1], prob, profile, payoffs)
}

// BehavIter enumerates every pure behavior profile over a list of infosets,
// taking the actions of each from an action space. The first infoset's
// action varies fastest.
type BehavIter struct {
	infosets []*Infoset
	actions  [][]*Action
	digits   []int
	frozen   []bool
	current  PureBehavior
	started  bool
	done     bool
}

// NewBehavIter returns an iterator over the pure behavior profiles of the
// given infosets. A nil space ranges over every action.
func NewBehavIter(space ActionSpace, infosets []*Infoset) *BehavIter {
	it := &BehavIter{
		infosets: append([]*Infoset(nil), infosets...),
		actions:  make([][]*Action, len(infosets)),
		digits:   make([]int, len(infosets)),
		frozen:   make([]bool, len(infosets)),
		current:  make(PureBehavior, len(infosets)),
	}
	for i, s := range infosets {
		if space != nil {
			it.actions[i] = space.Actions(s)
		} else {
			it.actions[i] = s.Actions()
		}
		if len(it.actions[i]) == 0 {
			it.done = true
			continue
		}
		it.current[s] = it.actions[i][0]
	}
	return it
}

// Freeze fixes the action at a's infoset, adding the infoset to the
// profile if it is not listed, and restarts the iteration.
func (it *BehavIter) Freeze(a *Action) {
	found := false
	for i, s := range it.infosets {
		if s == a.infoset {
			it.frozen[i] = true
			found = true
		}
	}
	if !found {
		it.infosets = append(it.infosets, a.infoset)
		it.actions = append(it.actions, []*Action{a})
		it.digits = append(it.digits, 0)
		it.frozen = append(it.frozen, true)
	}
	it.current[a.infoset] = a
	it.Reset()
}

// Reset restarts the iteration without changing frozen actions.
func (it *BehavIter) Reset() {
	it.started = false
	it.done = false
	for i, s := range it.infosets {
		if it.frozen[i] {
			continue
		}
		if len(it.actions[i]) == 0 {
			it.done = true
			continue
		}
		it.digits[i] = 0
		it.current[s] = it.actions[i][0]
	}
}

// Next advances to the next profile. It returns false once every profile
// has been visited.
func (it *BehavIter) Next() bool {
	if it.done {
		return false
	}
	if !it.started {
		it.started = true
		return true
	}

	for i, s := range it.infosets {
		if it.frozen[i] {
			continue
		}
		it.digits[i]++
		if it.digits[i] < len(it.actions[i]) {
			it.current[s] = it.actions[i][it.digits[i]]
			return true
		}
		it.digits[i] = 0
		it.current[s] = it.actions[i][0]
	}

	it.done = true
	return false
}

// Profile returns the current profile. It is reused by the iterator;
// callers that keep it must Copy it.
func (it *BehavIter) Profile() PureBehavior {
	return it.current
}
