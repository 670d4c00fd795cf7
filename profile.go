package gamekit

import (
	"math/big"
)

// MixedProfile assigns a probability to each pure strategy of each
// personal player. Probabilities start at zero.
type MixedProfile struct {
	game       *Game
	revision   int64
	strategies [][]*Strategy
	probs      map[*Strategy]*big.Rat
}

// NewMixedProfile returns a zero profile over every strategy of the game.
func (g *Game) NewMixedProfile() *MixedProfile {
	return newMixedProfile(g, nil)
}

// NewMixedProfileOver returns a zero profile over the strategies of space.
func NewMixedProfileOver(space StrategySpace) *MixedProfile {
	return newMixedProfile(space.Game(), space)
}

func newMixedProfile(g *Game, space StrategySpace) *MixedProfile {
	g.index()
	mp := &MixedProfile{
		game:       g,
		revision:   g.revision,
		strategies: make([][]*Strategy, len(g.players)),
		probs:      make(map[*Strategy]*big.Rat),
	}
	for i, p := range g.players {
		if space != nil {
			mp.strategies[i] = space.Strategies(p)
		} else {
			mp.strategies[i] = append([]*Strategy(nil), p.strategies...)
		}
		for _, s := range mp.strategies[i] {
			mp.probs[s] = new(big.Rat)
		}
	}
	return mp
}

func (mp *MixedProfile) Game() *Game {
	return mp.game
}

// Length returns the number of strategies the profile ranges over.
func (mp *MixedProfile) Length() int {
	return len(mp.probs)
}

// Strategies returns the strategies of p the profile ranges over.
func (mp *MixedProfile) Strategies(p *Player) []*Strategy {
	if p.IsChance() {
		return nil
	}
	return append([]*Strategy(nil), mp.strategies[p.id-1]...)
}

// Prob returns the probability of s, which is zero outside the profile.
func (mp *MixedProfile) Prob(s *Strategy) *big.Rat {
	if v, ok := mp.probs[s]; ok {
		return new(big.Rat).Set(v)
	}
	return new(big.Rat)
}

func (mp *MixedProfile) SetProb(s *Strategy, v *big.Rat) error {
	if mp.revision != mp.game.revision {
		return staleErrorf("mixed profile computed at revision %d, game is at revision %d",
			mp.revision, mp.game.revision)
	}
	p, ok := mp.probs[s]
	if !ok {
		return structuralf("set prob: %v is not in the profile", s)
	}
	p.Set(v)
	return nil
}

// SetCentroid sets every player's probabilities to the uniform mixture.
func (mp *MixedProfile) SetCentroid() {
	for _, strategies := range mp.strategies {
		for _, s := range strategies {
			mp.probs[s].SetFrac64(1, int64(len(strategies)))
		}
	}
}

// Payoff returns the expected payoff of p when every player mixes
// independently according to the profile.
func (mp *MixedProfile) Payoff(p *Player) (*big.Rat, error) {
	if mp.revision != mp.game.revision {
		return nil, staleErrorf("mixed profile computed at revision %d, game is at revision %d",
			mp.revision, mp.game.revision)
	}
	if p.IsChance() {
		return new(big.Rat), nil
	}

	total := new(big.Rat)
	weight := new(big.Rat)
	it := NewContingencyIter(mp.game, mp)
	for it.Next() {
		c := it.Contingency()
		weight.SetInt64(1)
		for _, s := range c.profile {
			weight.Mul(weight, mp.probs[s])
			if weight.Sign() == 0 {
				break
			}
		}
		if weight.Sign() == 0 {
			continue
		}

		v, err := c.Payoff(p)
		if err != nil {
			return nil, err
		}
		total.Add(total, v.Mul(v, weight))
	}
	return total, nil
}

// BehavProfile assigns a probability to each action at each information
// set of the personal players. Probabilities start at zero.
type BehavProfile struct {
	game     *Game
	revision int64
	infosets []*Infoset
	actions  map[*Infoset][]*Action
	probs    map[*Action]*big.Rat
}

// NewBehavProfile returns a zero profile over every action of the game.
func (g *Game) NewBehavProfile() *BehavProfile {
	return newBehavProfile(g, nil)
}

// NewBehavProfileOver returns a zero profile over the actions of space.
func NewBehavProfileOver(space ActionSpace) *BehavProfile {
	return newBehavProfile(space.Game(), space)
}

func newBehavProfile(g *Game, space ActionSpace) *BehavProfile {
	g.index()
	bp := &BehavProfile{
		game:     g,
		revision: g.revision,
		actions:  make(map[*Infoset][]*Action),
		probs:    make(map[*Action]*big.Rat),
	}
	for _, p := range g.players {
		for _, s := range p.infosets {
			bp.infosets = append(bp.infosets, s)
			if space != nil {
				bp.actions[s] = space.Actions(s)
			} else {
				bp.actions[s] = append([]*Action(nil), s.actions...)
			}
			for _, a := range bp.actions[s] {
				bp.probs[a] = new(big.Rat)
			}
		}
	}
	return bp
}

func (bp *BehavProfile) Game() *Game {
	return bp.game
}

// Length returns the number of actions the profile ranges over.
func (bp *BehavProfile) Length() int {
	return len(bp.probs)
}

// Actions returns the actions of s the profile ranges over.
func (bp *BehavProfile) Actions(s *Infoset) []*Action {
	return append([]*Action(nil), bp.actions[s]...)
}

// Prob returns the probability of a, which is zero outside the profile.
func (bp *BehavProfile) Prob(a *Action) *big.Rat {
	if v, ok := bp.probs[a]; ok {
		return new(big.Rat).Set(v)
	}
	return new(big.Rat)
}

func (bp *BehavProfile) SetProb(a *Action, v *big.Rat) error {
	if bp.revision != bp.game.revision {
		return staleErrorf("behavior profile computed at revision %d, game is at revision %d",
			bp.revision, bp.game.revision)
	}
	p, ok := bp.probs[a]
	if !ok {
		return structuralf("set prob: %v is not in the profile", a)
	}
	p.Set(v)
	return nil
}

// SetCentroid sets every infoset's probabilities to the uniform mixture.
func (bp *BehavProfile) SetCentroid() {
	for _, actions := range bp.actions {
		for _, a := range actions {
			bp.probs[a].SetFrac64(1, int64(len(actions)))
		}
	}
}

// Payoff returns the expected payoff of p when every personal move is
// drawn from the profile and every chance move from its probabilities.
func (bp *BehavProfile) Payoff(p *Player) (*big.Rat, error) {
	if bp.revision != bp.game.revision {
		return nil, staleErrorf("behavior profile computed at revision %d, game is at revision %d",
			bp.revision, bp.game.revision)
	}
	if !bp.game.IsTree() {
		return nil, structuralf("behavior payoff: %v is a matrix", bp.game)
	}
	if p.IsChance() {
		return new(big.Rat), nil
	}

	total := new(big.Rat)
	bp.accumulate(bp.game.root, big.NewRat(1, 1), p, total)
	return total, nil
}

func (bp *BehavProfile) accumulate(n *Node, prob *big.Rat, p *Player, total *big.Rat) {
	if n.outcome != nil {
		total.Add(total, new(big.Rat).Mul(prob, n.outcome.payoffs[p.id-1]))
	}
	if n.infoset == nil {
		return
	}

	for i, child := range n.children {
		var q *big.Rat
		if n.infoset.IsChance() {
			q = n.infoset.probs[i]
		} else if v, ok := bp.probs[n.infoset.actions[i]]; ok {
			q = v
		} else {
			continue
		}
		if q.Sign() == 0 {
			continue
		}
		bp.accumulate(child, new(big.Rat).Mul(prob, q), p, total)
	}
}
