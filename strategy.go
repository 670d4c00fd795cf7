package gamekit

import (
	"strconv"
	"strings"
)

// Strategy is a pure strategy of a personal player. In a tree game it is
// derived from the tree: it chooses one action at every infoset of the
// player that its own earlier choices do not rule out.
type Strategy struct {
	player *Player
	number int
	label  string

	// behavior holds, for each of the player's infosets, the 1-based number
	// of the chosen action, or 0 if the strategy never reaches the infoset.
	behavior []int
	// index is the strategy's offset in the contingency table.
	index    int64
	revision int64
}

// Number returns the 1-based position of the strategy within its player.
func (s *Strategy) Number() int {
	return s.number
}

func (s *Strategy) Label() string {
	return s.label
}

func (s *Strategy) SetLabel(label string) {
	s.label = label
}

func (s *Strategy) Player() *Player {
	return s.player
}

// Index returns the strategy's offset in the contingency table. The index
// of a contingency is the sum of the indices of its strategies.
func (s *Strategy) Index() int64 {
	return s.index
}

// Valid reports whether the strategy still describes the current game.
func (s *Strategy) Valid() bool {
	return s.revision == s.player.game.revision
}

// Behavior returns, for each infoset of the player in order, the number of
// the chosen action, or 0 where the strategy leaves the infoset unreached.
func (s *Strategy) Behavior() []int {
	return append([]int(nil), s.behavior...)
}

// Action returns the action chosen at the given infoset, or nil if the
// strategy never reaches it.
func (s *Strategy) Action(infoset *Infoset) *Action {
	if !s.Valid() || infoset.player != s.player || infoset.deleted {
		return nil
	}
	if infoset.number > len(s.behavior) {
		return nil
	}
	a := s.behavior[infoset.number-1]
	if a == 0 {
		return nil
	}
	return infoset.actions[a-1]
}

func (s *Strategy) String() string {
	return s.player.String() + ":" + s.label
}

func (g *Game) computeReducedStrategies() {
	for _, p := range g.players {
		behaviors := reducedBehaviors(g.root, p)
		p.strategies = make([]*Strategy, len(behaviors))
		for i, behavior := range behaviors {
			p.strategies[i] = &Strategy{
				player:   p,
				number:   i + 1,
				label:    behaviorLabel(behavior),
				behavior: behavior,
				revision: g.revision,
			}
		}
	}
}

// reducedBehaviors enumerates the reduced strategies of p by walking the
// tree from the root. Other players' nodes pass through to every child;
// p's nodes either follow the action already chosen at their infoset or
// branch over every action. Infosets never visited along the way are left
// unassigned, which merges strategies that differ only there.
//
// The infoset numbers of p must be current.
func reducedBehaviors(root *Node, p *Player) [][]int {
	var result [][]int
	behavior := make([]int, len(p.infosets))

	var expand func(pending []*Node)
	expand = func(pending []*Node) {
		for len(pending) > 0 {
			n := pending[len(pending)-1]
			pending = pending[:len(pending)-1]
			if n.infoset == nil {
				continue
			}

			if n.infoset.player != p {
				for i := len(n.children) - 1; i >= 0; i-- {
					pending = append(pending, n.children[i])
				}
				continue
			}

			k := n.infoset.number - 1
			if behavior[k] > 0 {
				pending = append(pending, n.children[behavior[k]-1])
				continue
			}

			for a, child := range n.children {
				behavior[k] = a + 1
				next := make([]*Node, len(pending), len(pending)+1)
				copy(next, pending)
				expand(append(next, child))
			}
			behavior[k] = 0
			return
		}

		result = append(result, append([]int(nil), behavior...))
	}

	expand([]*Node{root})
	return result
}

func behaviorLabel(behavior []int) string {
	if len(behavior) == 0 {
		return "1"
	}

	var sb strings.Builder
	for _, a := range behavior {
		if a == 0 {
			sb.WriteByte('*')
		} else {
			sb.WriteString(strconv.Itoa(a))
		}
	}
	return sb.String()
}
