package gamekit

import (
	"fmt"
	"math/big"
)

// Player is a participant in the game. Player 0 is chance (nature); its
// information sets carry fixed action probabilities.
type Player struct {
	game   *Game
	id     int
	serial int
	label  string

	infosets []*Infoset
	// strategies are derived from the tree for tree games and primary
	// data for matrix games. Chance has none.
	strategies []*Strategy
}

// ID returns 0 for chance and 1..NumPlayers() for personal players.
func (p *Player) ID() int {
	return p.id
}

func (p *Player) Game() *Game {
	return p.game
}

func (p *Player) Label() string {
	return p.label
}

func (p *Player) SetLabel(label string) {
	p.label = label
}

func (p *Player) IsChance() bool {
	return p.id == 0
}

// Infosets returns the information sets owned by the player, in order.
func (p *Player) Infosets() []*Infoset {
	p.game.index()
	return append([]*Infoset(nil), p.infosets...)
}

func (p *Player) NumInfosets() int {
	return len(p.infosets)
}

// Infoset returns the information set with the given 1-based number.
func (p *Player) Infoset(number int) *Infoset {
	p.game.index()
	if number < 1 || number > len(p.infosets) {
		return nil
	}
	return p.infosets[number-1]
}

// Strategies returns the player's pure strategies, recomputing them from
// the tree if it changed since they were last derived.
func (p *Player) Strategies() []*Strategy {
	p.game.index()
	return append([]*Strategy(nil), p.strategies...)
}

func (p *Player) NumStrategies() int {
	p.game.index()
	return len(p.strategies)
}

// Strategy returns the strategy with the given 1-based number.
func (p *Player) Strategy(number int) *Strategy {
	p.game.index()
	if number < 1 || number > len(p.strategies) {
		return nil
	}
	return p.strategies[number-1]
}

// MinPayoff returns the smallest payoff to this player in any outcome.
func (p *Player) MinPayoff() *big.Rat {
	return p.game.extremePayoff(p, -1)
}

// MaxPayoff returns the largest payoff to this player in any outcome.
func (p *Player) MaxPayoff() *big.Rat {
	return p.game.extremePayoff(p, 1)
}

func (p *Player) String() string {
	if p.IsChance() {
		return "chance"
	}
	if p.label != "" {
		return p.label
	}
	return fmt.Sprintf("player %d", p.id)
}

// renumber restores the positional numbers of the player's infosets.
func (p *Player) renumber() {
	for i, s := range p.infosets {
		s.number = i + 1
	}
}

func (p *Player) removeInfoset(s *Infoset) {
	for i, t := range p.infosets {
		if t == s {
			p.infosets = append(p.infosets[:i], p.infosets[i+1:]...)
			break
		}
	}
	p.renumber()
}
