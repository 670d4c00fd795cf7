// Package gamekit represents finite games in extensive form (game trees with
// information sets) and in normal form (a table of payoffs indexed by one pure
// strategy per player), and provides the structural edits and projections
// used to analyze them.
package gamekit

import (
	"fmt"
	"math/big"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru"
)

// Number of contingency payoff vectors memoized per tree game.
const payoffCacheSize = 1 << 12

// Game owns every entity of a single game instance. Entities are only
// created and removed through Game methods.
//
// A Game is either a tree (it has a root Node) or a matrix (it has a table
// of outcomes indexed by contingency). Games are not safe for concurrent use.
type Game struct {
	id      uuid.UUID
	label   string
	comment string

	chance   *Player
	players  []*Player
	outcomes []*Outcome
	root     *Node

	// Matrix games only: the outcome of each contingency, indexed by
	// Contingency.Index(). A nil cell pays zero to everyone.
	table []*Outcome

	// revision is bumped on every structural mutation.
	revision     int64
	serial       int
	sortInfosets bool

	// Derived state, valid while indexedAt == revision.
	indexedAt int64
	numNodes  int
	strides   []int64

	payoffs *lru.Cache
}

func newGame() *Game {
	g := &Game{
		id:           uuid.New(),
		sortInfosets: true,
		indexedAt:    -1,
	}
	g.chance = &Player{game: g, id: 0, serial: g.nextSerial()}

	cache, err := lru.New(payoffCacheSize)
	if err != nil {
		panic(err)
	}
	g.payoffs = cache
	return g
}

// NewTree creates a trivial extensive-form game: a single terminal root
// node, the chance player and no personal players.
func NewTree() *Game {
	g := newGame()
	g.root = g.newNode(nil)
	return g
}

// NewMatrix creates a normal-form game with one player per entry of dims,
// each having the given number of strategies. Every contingency starts
// without an outcome.
func NewMatrix(dims []int) (*Game, error) {
	if len(dims) == 0 {
		return nil, structuralf("matrix game needs at least one player")
	}

	size := 1
	for i, d := range dims {
		if d < 1 {
			return nil, structuralf("player %d has %d strategies", i+1, d)
		}
		size *= d
	}

	g := newGame()
	for _, d := range dims {
		p := g.addPlayer()
		for j := 0; j < d; j++ {
			p.strategies = append(p.strategies, &Strategy{
				player: p,
				number: j + 1,
				label:  fmt.Sprint(j + 1),
			})
		}
	}
	g.table = make([]*Outcome, size)
	g.index()
	return g, nil
}

func (g *Game) nextSerial() int {
	g.serial++
	return g.serial
}

// bump records a structural mutation, invalidating derived state.
func (g *Game) bump() {
	g.revision++
	g.payoffs.Purge()
}

// touchPayoffs invalidates memoized payoffs without changing the revision.
func (g *Game) touchPayoffs() {
	g.payoffs.Purge()
}

// ID returns the identity of this game instance. Copies get a fresh ID.
func (g *Game) ID() uuid.UUID {
	return g.id
}

func (g *Game) Label() string {
	return g.label
}

func (g *Game) SetLabel(label string) {
	g.label = label
}

func (g *Game) Comment() string {
	return g.comment
}

func (g *Game) SetComment(comment string) {
	g.comment = comment
}

// IsTree returns whether the game is represented as a game tree.
func (g *Game) IsTree() bool {
	return g.root != nil
}

// IsMatrix returns whether the game is represented as a payoff table.
func (g *Game) IsMatrix() bool {
	return g.root == nil
}

// Revision is a counter bumped by every structural mutation of the game.
func (g *Game) Revision() int64 {
	return g.revision
}

// SortsInfosets reports whether information sets are kept ordered by
// their first appearance in the tree.
func (g *Game) SortsInfosets() bool {
	return g.sortInfosets
}

func (g *Game) SetSortInfosets(sort bool) {
	if g.sortInfosets != sort {
		g.sortInfosets = sort
		g.bump()
	}
}

// Root returns the root node of a tree game, or nil for a matrix game.
func (g *Game) Root() *Node {
	return g.root
}

func (g *Game) Chance() *Player {
	return g.chance
}

// NumPlayers returns the number of personal (non-chance) players.
func (g *Game) NumPlayers() int {
	return len(g.players)
}

// Players returns the personal players, ordered by id.
func (g *Game) Players() []*Player {
	return append([]*Player(nil), g.players...)
}

// Player returns the player with the given id: 0 for chance and
// 1..NumPlayers() for personal players. It returns nil if there is none.
func (g *Game) Player(id int) *Player {
	if id == 0 {
		return g.chance
	}
	if id < 0 || id > len(g.players) {
		return nil
	}
	return g.players[id-1]
}

// NewPlayer adds a personal player. Every outcome gets a zero payoff for
// the new player. In a matrix game the new player has a single strategy.
func (g *Game) NewPlayer() *Player {
	p := g.addPlayer()
	if g.IsMatrix() {
		p.strategies = []*Strategy{{player: p, number: 1, label: "1"}}
	}
	g.bump()
	return p
}

func (g *Game) addPlayer() *Player {
	p := &Player{
		game:   g,
		id:     len(g.players) + 1,
		serial: g.nextSerial(),
	}
	g.players = append(g.players, p)
	for _, o := range g.outcomes {
		o.payoffs = append(o.payoffs, new(big.Rat))
	}
	return p
}

// NumNodes returns the number of nodes in the tree.
func (g *Game) NumNodes() int {
	g.index()
	return g.numNodes
}

// Nodes returns every node of the tree in preorder.
func (g *Game) Nodes() []*Node {
	if g.root == nil {
		return nil
	}

	var result []*Node
	stack := allocNodeSlice()
	defer func() { freeNodeSlice(stack) }()
	stack = append(stack, g.root)
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		result = append(result, n)
		for i := len(n.children) - 1; i >= 0; i-- {
			stack = append(stack, n.children[i])
		}
	}
	return result
}

// TerminalNodes returns the terminal nodes of the tree in preorder.
func (g *Game) TerminalNodes() []*Node {
	var result []*Node
	for _, n := range g.Nodes() {
		if n.IsTerminal() {
			result = append(result, n)
		}
	}
	return result
}

// NumStrategies returns the number of pure strategies of each personal player.
func (g *Game) NumStrategies() []int {
	g.index()
	result := make([]int, len(g.players))
	for i, p := range g.players {
		result[i] = len(p.strategies)
	}
	return result
}

// NumContingencies returns the number of pure strategy profiles.
func (g *Game) NumContingencies() int64 {
	total := int64(1)
	for _, n := range g.NumStrategies() {
		total *= int64(n)
	}
	return total
}

// MixedProfileLength is the total number of pure strategies over all players.
func (g *Game) MixedProfileLength() int {
	total := 0
	for _, n := range g.NumStrategies() {
		total += n
	}
	return total
}

// BehavProfileLength is the total number of actions at personal information sets.
func (g *Game) BehavProfileLength() int {
	total := 0
	for _, p := range g.players {
		for _, s := range p.infosets {
			total += len(s.actions)
		}
	}
	return total
}

// NumInfosets returns the number of information sets of each personal player.
func (g *Game) NumInfosets() []int {
	result := make([]int, len(g.players))
	for i, p := range g.players {
		result[i] = len(p.infosets)
	}
	return result
}

// MinPayoff returns the smallest payoff of any player in any outcome.
func (g *Game) MinPayoff() *big.Rat {
	return g.extremePayoff(nil, -1)
}

// MaxPayoff returns the largest payoff of any player in any outcome.
func (g *Game) MaxPayoff() *big.Rat {
	return g.extremePayoff(nil, 1)
}

func (g *Game) extremePayoff(p *Player, sign int) *big.Rat {
	var best *big.Rat
	for _, o := range g.outcomes {
		for i, v := range o.payoffs {
			if p != nil && i != p.id-1 {
				continue
			}
			if best == nil || v.Cmp(best)*sign > 0 {
				best = v
			}
		}
	}
	if best == nil {
		return new(big.Rat)
	}
	return new(big.Rat).Set(best)
}

// IsConstSum returns whether every outcome pays the same total to all players.
func (g *Game) IsConstSum() bool {
	var total *big.Rat
	check := func(payoffs []*big.Rat) bool {
		sum := new(big.Rat)
		for _, v := range payoffs {
			sum.Add(sum, v)
		}
		if total == nil {
			total = sum
			return true
		}
		return total.Cmp(sum) == 0
	}

	for _, o := range g.outcomes {
		if !check(o.payoffs) {
			return false
		}
	}
	if g.IsMatrix() {
		for _, o := range g.table {
			if o == nil && !check(nil) {
				return false
			}
		}
	}
	return true
}

func (g *Game) String() string {
	kind := "tree"
	if g.IsMatrix() {
		kind = "matrix"
	}
	return fmt.Sprintf("%s game %q (%d players, %d outcomes, revision %d)",
		kind, g.label, len(g.players), len(g.outcomes), g.revision)
}

func (g *Game) checkPlayer(p *Player) error {
	if p == nil {
		return structuralf("nil player")
	}
	if p.game != g {
		return structuralf("player %d belongs to game %v, not %v", p.id, p.game.id, g.id)
	}
	return nil
}

func (g *Game) checkNode(n *Node) error {
	if n == nil {
		return structuralf("nil node")
	}
	if n.game != g {
		return structuralf("node %d belongs to game %v, not %v", n.serial, n.game.id, g.id)
	}
	if n.deleted {
		return staleErrorf("node %d has been deleted", n.serial)
	}
	return nil
}

func (g *Game) checkInfoset(s *Infoset) error {
	if s == nil {
		return structuralf("nil infoset")
	}
	if s.player.game != g {
		return structuralf("infoset %d belongs to game %v, not %v", s.serial, s.player.game.id, g.id)
	}
	if s.deleted {
		return staleErrorf("infoset %d has been deleted", s.serial)
	}
	return nil
}

func (g *Game) checkAction(a *Action) error {
	if a == nil {
		return structuralf("nil action")
	}
	if err := g.checkInfoset(a.infoset); err != nil {
		return err
	}
	if a.deleted {
		return staleErrorf("action %d has been deleted", a.serial)
	}
	return nil
}

func (g *Game) checkOutcome(o *Outcome) error {
	if o == nil {
		return nil
	}
	if o.game != g {
		return structuralf("outcome %d belongs to game %v, not %v", o.serial, o.game.id, g.id)
	}
	if o.deleted {
		return staleErrorf("outcome %d has been deleted", o.serial)
	}
	return nil
}
