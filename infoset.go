package gamekit

import (
	"fmt"
	"math/big"
)

// Infoset is a set of decision nodes, belonging to one player, among which
// that player cannot distinguish when choosing an action. Every member has
// exactly one child per action.
type Infoset struct {
	player *Player
	serial int
	number int
	label  string

	actions []*Action
	// probs holds one probability per action, for chance infosets only.
	probs   []*big.Rat
	members []*Node
	deleted bool
}

// ID returns the identity assigned at creation. It is never reused.
func (s *Infoset) ID() int {
	return s.serial
}

// Number returns the 1-based position of the infoset within its player.
func (s *Infoset) Number() int {
	s.player.game.index()
	return s.number
}

func (s *Infoset) Label() string {
	return s.label
}

func (s *Infoset) SetLabel(label string) {
	s.label = label
}

func (s *Infoset) Player() *Player {
	return s.player
}

func (s *Infoset) Game() *Game {
	return s.player.game
}

func (s *Infoset) IsChance() bool {
	return s.player.IsChance()
}

// Deleted reports whether the infoset has been removed from its game.
func (s *Infoset) Deleted() bool {
	return s.deleted
}

func (s *Infoset) NumActions() int {
	return len(s.actions)
}

func (s *Infoset) Actions() []*Action {
	return append([]*Action(nil), s.actions...)
}

// Action returns the i'th (0-based) action.
func (s *Infoset) Action(i int) *Action {
	return s.actions[i]
}

func (s *Infoset) NumMembers() int {
	return len(s.members)
}

// Members returns the member nodes in tree order.
func (s *Infoset) Members() []*Node {
	s.player.game.index()
	return append([]*Node(nil), s.members...)
}

// ChanceProb returns the probability of the i'th action. It is zero for
// infosets of personal players.
func (s *Infoset) ChanceProb(i int) *big.Rat {
	if s.probs == nil {
		return new(big.Rat)
	}
	return new(big.Rat).Set(s.probs[i])
}

// Precedes returns whether some member of the infoset lies on the path from
// the root to n (n excluded).
func (s *Infoset) Precedes(n *Node) bool {
	for m := n.parent; m != nil; m = m.parent {
		if m.infoset == s {
			return true
		}
	}
	return false
}

func (s *Infoset) String() string {
	return fmt.Sprintf("%v infoset %d %q", s.player, s.number, s.label)
}

func (s *Infoset) renumber() {
	for i, a := range s.actions {
		a.number = i + 1
	}
}

func (s *Infoset) actionIndex(a *Action) int {
	for i, b := range s.actions {
		if a == b {
			return i
		}
	}
	return -1
}

func (s *Infoset) removeMember(n *Node) {
	for i, m := range s.members {
		if m == n {
			s.members = append(s.members[:i], s.members[i+1:]...)
			return
		}
	}
}

// Action is a choice available at an information set. The i'th action is
// taken by moving to the i'th child of a member node.
type Action struct {
	infoset *Infoset
	serial  int
	number  int
	label   string
	deleted bool
}

// ID returns the identity assigned at creation. It is never reused.
func (a *Action) ID() int {
	return a.serial
}

// Number returns the 1-based position of the action within its infoset.
// Positions are renumbered when an action is inserted or deleted.
func (a *Action) Number() int {
	return a.number
}

func (a *Action) Label() string {
	return a.label
}

func (a *Action) SetLabel(label string) {
	a.label = label
}

func (a *Action) Infoset() *Infoset {
	return a.infoset
}

func (a *Action) Player() *Player {
	return a.infoset.player
}

// Deleted reports whether the action has been removed from its infoset.
func (a *Action) Deleted() bool {
	return a.deleted
}

// ChanceProb returns the probability of this action if it belongs to chance.
func (a *Action) ChanceProb() *big.Rat {
	if a.deleted {
		return new(big.Rat)
	}
	return a.infoset.ChanceProb(a.number - 1)
}

// Precedes returns whether the path from the root to n passes through this action.
func (a *Action) Precedes(n *Node) bool {
	for child, m := n, n.parent; m != nil; child, m = m, m.parent {
		if m.infoset == a.infoset && m.children[a.number-1] == child {
			return true
		}
	}
	return false
}

func (a *Action) String() string {
	if a.label != "" {
		return a.label
	}
	return fmt.Sprint(a.number)
}
