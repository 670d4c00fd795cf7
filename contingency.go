package gamekit

import (
	"expvar"
	"math/big"

	"github.com/golang/glog"
)

var (
	contingenciesEvaluated = expvar.NewInt("contingencies_evaluated")
	payoffCacheHits        = expvar.NewInt("payoffs/cache_hits")
	payoffCacheMisses      = expvar.NewInt("payoffs/cache_misses")
)

// Contingency is a pure strategy profile: one strategy per personal player.
// Chance is not part of a contingency; its moves contribute an expectation.
type Contingency struct {
	game     *Game
	revision int64
	profile  []*Strategy
}

// NewContingency returns the contingency in which every player plays its
// first strategy.
func (g *Game) NewContingency() *Contingency {
	g.index()
	c := &Contingency{
		game:     g,
		revision: g.revision,
		profile:  make([]*Strategy, len(g.players)),
	}
	for i, p := range g.players {
		c.profile[i] = p.strategies[0]
	}
	return c
}

func (c *Contingency) Game() *Game {
	return c.game
}

// Valid reports whether the contingency still describes the current game.
func (c *Contingency) Valid() bool {
	return c.revision == c.game.revision
}

func (c *Contingency) check() error {
	if !c.Valid() {
		return staleErrorf("contingency computed at revision %d, game %v is at revision %d",
			c.revision, c.game.id, c.game.revision)
	}
	c.game.index()
	return nil
}

// Strategy returns the strategy played by p.
func (c *Contingency) Strategy(p *Player) *Strategy {
	return c.profile[p.id-1]
}

// SetStrategy replaces the strategy of the player owning s.
func (c *Contingency) SetStrategy(s *Strategy) error {
	if err := c.check(); err != nil {
		return err
	}
	if s.player.game != c.game {
		return structuralf("strategy %v belongs to game %v, not %v", s, s.player.game.id, c.game.id)
	}
	if !s.Valid() {
		return staleErrorf("strategy %v is stale", s)
	}
	c.profile[s.player.id-1] = s
	return nil
}

// Index returns the position of the contingency in the payoff table.
func (c *Contingency) Index() int64 {
	var index int64
	for _, s := range c.profile {
		index += s.index
	}
	return index
}

func (c *Contingency) Copy() *Contingency {
	return &Contingency{
		game:     c.game,
		revision: c.revision,
		profile:  append([]*Strategy(nil), c.profile...),
	}
}

func (c *Contingency) String() string {
	result := "("
	for i, s := range c.profile {
		if i > 0 {
			result += ","
		}
		result += s.label
	}
	return result + ")"
}

// Outcome returns the outcome in the matrix cell of the contingency.
func (c *Contingency) Outcome() (*Outcome, error) {
	if err := c.check(); err != nil {
		return nil, err
	}
	if !c.game.IsMatrix() {
		return nil, structuralf("outcome of contingency: %v is a tree", c.game)
	}
	return c.game.table[c.Index()], nil
}

// SetOutcome assigns the outcome of the matrix cell of the contingency.
func (c *Contingency) SetOutcome(o *Outcome) error {
	if err := c.check(); err != nil {
		return err
	}
	if !c.game.IsMatrix() {
		return structuralf("set outcome of contingency: %v is a tree", c.game)
	}
	if err := c.game.checkOutcome(o); err != nil {
		return err
	}
	c.game.table[c.Index()] = o
	c.game.touchPayoffs()
	return nil
}

// Payoff returns the expected payoff of p under the contingency.
func (c *Contingency) Payoff(p *Player) (*big.Rat, error) {
	payoffs, err := c.Payoffs()
	if err != nil {
		return nil, err
	}
	if p.IsChance() {
		return new(big.Rat), nil
	}
	return payoffs[p.id-1], nil
}

// Payoffs returns the expected payoff of every personal player, indexed by
// player id - 1. In a tree game every outcome reached along the way counts,
// weighted by the probability of the chance moves leading to it.
func (c *Contingency) Payoffs() ([]*big.Rat, error) {
	if err := c.check(); err != nil {
		return nil, err
	}

	g := c.game
	if g.IsMatrix() {
		payoffs := make([]*big.Rat, len(g.players))
		o := g.table[c.Index()]
		for i := range payoffs {
			payoffs[i] = new(big.Rat)
			if o != nil {
				payoffs[i].Set(o.payoffs[i])
			}
		}
		return payoffs, nil
	}

	key := c.Index()
	if cached, ok := g.payoffs.Get(key); ok {
		payoffCacheHits.Add(1)
		return copyRats(cached.([]*big.Rat)), nil
	}
	payoffCacheMisses.Add(1)
	contingenciesEvaluated.Add(1)

	payoffs := make([]*big.Rat, len(g.players))
	for i := range payoffs {
		payoffs[i] = new(big.Rat)
	}
	c.accumulate(g.root, big.NewRat(1, 1), payoffs)
	g.payoffs.Add(key, copyRats(payoffs))
	if glog.V(3) {
		glog.Infof("payoffs of %v: %v", c, payoffs)
	}
	return payoffs, nil
}

func (c *Contingency) accumulate(n *Node, prob *big.Rat, payoffs []*big.Rat) {
	if n.outcome != nil {
		term := new(big.Rat)
		for i, v := range n.outcome.payoffs {
			payoffs[i].Add(payoffs[i], term.Mul(prob, v))
		}
	}
	if n.infoset == nil {
		return
	}

	if n.infoset.IsChance() {
		for i, child := range n.children {
			p := n.infoset.probs[i]
			if p.Sign() == 0 {
				continue
			}
			c.accumulate(child, new(big.Rat).Mul(prob, p), payoffs)
		}
		return
	}

	child := c.childAt(n)
	c.accumulate(child, prob, payoffs)
}

// childAt returns the child of n chosen by the strategy of the player
// moving at n.
func (c *Contingency) childAt(n *Node) *Node {
	s := c.profile[n.infoset.player.id-1]
	a := s.behavior[n.infoset.number-1]
	if a == 0 {
		panic(structuralf("%v reaches %v, which it does not assign", s, n.infoset))
	}
	return n.children[a-1]
}

// InfosetProbs returns the probability of reaching each infoset under the
// contingency. Chance moves contribute their probabilities; every other
// move follows the strategy of its player. Unreached infosets are omitted.
func (c *Contingency) InfosetProbs() (map[*Infoset]*big.Rat, error) {
	if err := c.check(); err != nil {
		return nil, err
	}
	if !c.game.IsTree() {
		return nil, structuralf("infoset probabilities: %v is a matrix", c.game)
	}

	probs := make(map[*Infoset]*big.Rat)
	c.visitReached(c.game.root, big.NewRat(1, 1), func(n *Node, prob *big.Rat) {
		if n.infoset == nil {
			return
		}
		if p, ok := probs[n.infoset]; ok {
			p.Add(p, prob)
		} else {
			probs[n.infoset] = new(big.Rat).Set(prob)
		}
	})
	return probs, nil
}

// ActionProbs returns, for each action taken with positive probability
// under the contingency, the probability that it is taken. For a chance
// action this is the reach probability of its infoset times its chance
// probability.
func (c *Contingency) ActionProbs() (map[*Action]*big.Rat, error) {
	if err := c.check(); err != nil {
		return nil, err
	}
	if !c.game.IsTree() {
		return nil, structuralf("action probabilities: %v is a matrix", c.game)
	}

	probs := make(map[*Action]*big.Rat)
	add := func(a *Action, prob *big.Rat) {
		if p, ok := probs[a]; ok {
			p.Add(p, prob)
		} else {
			probs[a] = new(big.Rat).Set(prob)
		}
	}
	c.visitReached(c.game.root, big.NewRat(1, 1), func(n *Node, prob *big.Rat) {
		if n.infoset == nil {
			return
		}
		if n.infoset.IsChance() {
			for i, a := range n.infoset.actions {
				if p := n.infoset.probs[i]; p.Sign() > 0 {
					add(a, new(big.Rat).Mul(prob, p))
				}
			}
			return
		}
		a := c.profile[n.infoset.player.id-1].behavior[n.infoset.number-1]
		add(n.infoset.actions[a-1], prob)
	})
	return probs, nil
}

// visitReached calls visit on every node reached with positive probability,
// in preorder, together with its reach probability.
func (c *Contingency) visitReached(n *Node, prob *big.Rat, visit func(n *Node, prob *big.Rat)) {
	visit(n, prob)
	if n.infoset == nil {
		return
	}

	if n.infoset.IsChance() {
		for i, child := range n.children {
			p := n.infoset.probs[i]
			if p.Sign() == 0 {
				continue
			}
			c.visitReached(child, new(big.Rat).Mul(prob, p), visit)
		}
		return
	}

	c.visitReached(c.childAt(n), prob, visit)
}

func copyRats(v []*big.Rat) []*big.Rat {
	result := make([]*big.Rat, len(v))
	for i, x := range v {
		result[i] = new(big.Rat).Set(x)
	}
	return result
}

// StrategySpace lists, for each personal player, the strategies a
// contingency iterator ranges over. Supports implement it.
type StrategySpace interface {
	Game() *Game
	// Strategies returns the strategies of p, in order.
	Strategies(p *Player) []*Strategy
}

// ContingencyIter enumerates every contingency of a strategy space. The
// strategy of player 1 varies fastest, so for a full game the iteration
// visits contingencies in increasing Index order.
type ContingencyIter struct {
	game       *Game
	revision   int64
	strategies [][]*Strategy
	digits     []int
	frozen     []bool
	current    *Contingency
	started    bool
	done       bool
}

// NewContingencyIter returns an iterator over the contingencies of space.
// A nil space ranges over every strategy of the game.
func NewContingencyIter(g *Game, space StrategySpace) *ContingencyIter {
	g.index()
	it := &ContingencyIter{
		game:       g,
		revision:   g.revision,
		strategies: make([][]*Strategy, len(g.players)),
		digits:     make([]int, len(g.players)),
		frozen:     make([]bool, len(g.players)),
		current:    g.NewContingency(),
	}
	for i, p := range g.players {
		if space != nil {
			it.strategies[i] = space.Strategies(p)
		} else {
			it.strategies[i] = p.strategies
		}
		if len(it.strategies[i]) == 0 {
			it.done = true
			continue
		}
		it.current.profile[i] = it.strategies[i][0]
	}
	return it
}

// Freeze fixes the strategy of the player owning s for the rest of the
// iteration and restarts it.
func (it *ContingencyIter) Freeze(s *Strategy) error {
	if err := it.current.SetStrategy(s); err != nil {
		return err
	}
	i := s.player.id - 1
	it.frozen[i] = true
	it.Reset()
	return nil
}

// Reset restarts the iteration without changing frozen strategies.
func (it *ContingencyIter) Reset() {
	it.started = false
	it.done = false
	for i := range it.digits {
		if len(it.strategies[i]) == 0 {
			it.done = true
			continue
		}
		if it.frozen[i] {
			continue
		}
		it.digits[i] = 0
		it.current.profile[i] = it.strategies[i][0]
	}
}

// Next advances to the next contingency. It returns false once every
// contingency has been visited.
func (it *ContingencyIter) Next() bool {
	if it.done {
		return false
	}
	if !it.started {
		it.started = true
		return true
	}

	for i := range it.digits {
		if it.frozen[i] {
			continue
		}
		it.digits[i]++
		if it.digits[i] < len(it.strategies[i]) {
			it.current.profile[i] = it.strategies[i][it.digits[i]]
			return true
		}
		it.digits[i] = 0
		it.current.profile[i] = it.strategies[i][0]
	}

	it.done = true
	return false
}

// Contingency returns the current contingency. It is reused by the
// iterator; callers that keep it must Copy it.
func (it *ContingencyIter) Contingency() *Contingency {
	return it.current
}
