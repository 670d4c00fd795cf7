package gamekit

import (
	"fmt"
	"math/big"
)

// Outcome is a payoff vector with one entry per personal player. Outcomes
// are owned by the game and shared by every node (or matrix cell) that
// references them.
type Outcome struct {
	game    *Game
	serial  int
	number  int
	label   string
	payoffs []*big.Rat
	deleted bool
}

// ID returns the identity assigned at creation. It is never reused.
func (o *Outcome) ID() int {
	return o.serial
}

// Number returns the 1-based position of the outcome within the game.
func (o *Outcome) Number() int {
	return o.number
}

func (o *Outcome) Label() string {
	return o.label
}

func (o *Outcome) SetLabel(label string) {
	o.label = label
}

func (o *Outcome) Game() *Game {
	return o.game
}

// Deleted reports whether the outcome has been removed from its game.
func (o *Outcome) Deleted() bool {
	return o.deleted
}

// Payoff returns the payoff to the given personal player.
func (o *Outcome) Payoff(p *Player) *big.Rat {
	if p.IsChance() {
		return new(big.Rat)
	}
	return new(big.Rat).Set(o.payoffs[p.id-1])
}

// Payoffs returns a copy of the payoff vector, indexed by player id - 1.
func (o *Outcome) Payoffs() []*big.Rat {
	result := make([]*big.Rat, len(o.payoffs))
	for i, v := range o.payoffs {
		result[i] = new(big.Rat).Set(v)
	}
	return result
}

// SetPayoff sets the payoff to a personal player.
func (o *Outcome) SetPayoff(p *Player, v *big.Rat) error {
	if err := o.game.checkPlayer(p); err != nil {
		return err
	}
	if p.IsChance() {
		return structuralf("chance does not receive payoffs")
	}
	if o.deleted {
		return staleErrorf("outcome %d has been deleted", o.serial)
	}
	o.payoffs[p.id-1].Set(v)
	o.game.touchPayoffs()
	return nil
}

func (o *Outcome) String() string {
	return fmt.Sprintf("outcome %d %q %v", o.number, o.label, o.payoffs)
}

// NumOutcomes returns the number of outcomes.
func (g *Game) NumOutcomes() int {
	return len(g.outcomes)
}

// Outcomes returns the outcomes in order.
func (g *Game) Outcomes() []*Outcome {
	return append([]*Outcome(nil), g.outcomes...)
}

// Outcome returns the outcome with the given 1-based number, or nil.
func (g *Game) Outcome(number int) *Outcome {
	if number < 1 || number > len(g.outcomes) {
		return nil
	}
	return g.outcomes[number-1]
}

// NewOutcome adds an outcome paying zero to every player.
func (g *Game) NewOutcome() *Outcome {
	o := &Outcome{
		game:    g,
		serial:  g.nextSerial(),
		payoffs: make([]*big.Rat, len(g.players)),
	}
	for i := range o.payoffs {
		o.payoffs[i] = new(big.Rat)
	}
	g.outcomes = append(g.outcomes, o)
	o.number = len(g.outcomes)
	return o
}

// SetOutcome attaches an outcome to a node. A nil outcome detaches it.
func (g *Game) SetOutcome(n *Node, o *Outcome) error {
	if err := g.checkNode(n); err != nil {
		return err
	}
	if err := g.checkOutcome(o); err != nil {
		return err
	}
	n.outcome = o
	g.touchPayoffs()
	return nil
}

// DeleteOutcome removes an outcome. Every node and matrix cell referencing
// it is left without an outcome.
func (g *Game) DeleteOutcome(o *Outcome) error {
	if o == nil {
		return structuralf("nil outcome")
	}
	if err := g.checkOutcome(o); err != nil {
		return err
	}

	for _, n := range g.Nodes() {
		if n.outcome == o {
			n.outcome = nil
		}
	}
	for i, cell := range g.table {
		if cell == o {
			g.table[i] = nil
		}
	}

	for i, p := range g.outcomes {
		if p == o {
			g.outcomes = append(g.outcomes[:i], g.outcomes[i+1:]...)
			break
		}
	}
	for i, p := range g.outcomes {
		p.number = i + 1
	}
	o.deleted = true
	g.touchPayoffs()
	return nil
}
