package support

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/timpalpant/gamekit"
)

// EfgSupport is a subset of the actions at each information set of the
// personal players of a tree game. Chance actions are always included.
//
// Alongside the action mask the support tracks which nonterminal nodes and
// which infosets remain reachable: a node is active if every personal
// action on the path to it is in the support, and an infoset is active if
// one of its members is.
type EfgSupport struct {
	snapshot
	// actions holds the actions in the support at each personal infoset,
	// in action order.
	actions       map[*gamekit.Infoset][]*gamekit.Action
	infosetActive map[*gamekit.Infoset]bool
	nodeActive    map[*gamekit.Node]bool
}

var (
	_ Support             = &EfgSupport{}
	_ gamekit.ActionSpace = &EfgSupport{}
)

// NewEfgSupport returns the support containing every action of g.
func NewEfgSupport(g *gamekit.Game) (*EfgSupport, error) {
	if !g.IsTree() {
		return nil, errors.Wrapf(gamekit.ErrStructural, "game %v is not a tree", g.ID())
	}

	s := &EfgSupport{
		snapshot:      snapshot{game: g, revision: g.Revision()},
		actions:       make(map[*gamekit.Infoset][]*gamekit.Action),
		infosetActive: make(map[*gamekit.Infoset]bool),
		nodeActive:    make(map[*gamekit.Node]bool),
	}
	for _, p := range g.Players() {
		for _, infoset := range p.Infosets() {
			s.actions[infoset] = infoset.Actions()
		}
	}
	s.activate(g.Root())
	return s, nil
}

// Actions returns the actions of infoset in the support. For a chance
// infoset these are all of its actions.
func (s *EfgSupport) Actions(infoset *gamekit.Infoset) []*gamekit.Action {
	if infoset.IsChance() {
		return infoset.Actions()
	}
	return append([]*gamekit.Action(nil), s.actions[infoset]...)
}

// NumActions returns the number of actions of infoset in the support.
func (s *EfgSupport) NumActions(infoset *gamekit.Infoset) int {
	if infoset.IsChance() {
		return infoset.NumActions()
	}
	return len(s.actions[infoset])
}

// Contains returns whether a is in the support.
func (s *EfgSupport) Contains(a *gamekit.Action) bool {
	if a.Infoset().IsChance() {
		return !a.Deleted()
	}
	for _, b := range s.actions[a.Infoset()] {
		if a == b {
			return true
		}
	}
	return false
}

func (s *EfgSupport) checkAction(a *gamekit.Action) error {
	if err := s.check(); err != nil {
		return err
	}
	if a.Infoset().Game() != s.game {
		return errors.Wrapf(gamekit.ErrStructural, "%v is not an action of game %v", a, s.game.ID())
	}
	if a.Infoset().IsChance() {
		return errors.Wrapf(gamekit.ErrStructural, "%v is a chance action", a)
	}
	if a.Deleted() {
		return errors.Wrapf(gamekit.ErrInvalidState, "action %v has been deleted", a)
	}
	return nil
}

// AddAction adds a to the support, reactivating whatever becomes reachable
// through it.
func (s *EfgSupport) AddAction(a *gamekit.Action) error {
	if err := s.checkAction(a); err != nil {
		return err
	}
	if s.Contains(a) {
		return nil
	}

	infoset := a.Infoset()
	actions := s.actions[infoset]
	pos := len(actions)
	for i, b := range actions {
		if b.Number() > a.Number() {
			pos = i
			break
		}
	}
	actions = append(actions, nil)
	copy(actions[pos+1:], actions[pos:])
	actions[pos] = a
	s.actions[infoset] = actions

	for _, n := range infoset.Members() {
		if s.nodeActive[n] {
			s.activate(n.ChildFor(a))
		}
	}
	return nil
}

// RemoveAction removes a from the support. It returns false if a is not
// in the support or is the last action of its infoset in the support.
func (s *EfgSupport) RemoveAction(a *gamekit.Action) (bool, error) {
	removed, _, err := s.removeAction(a)
	return removed, err
}

// RemoveActionReturningDeletedInfosets removes a from the support like
// RemoveAction, and returns the infosets that are no longer reachable as a
// consequence.
func (s *EfgSupport) RemoveActionReturningDeletedInfosets(a *gamekit.Action) ([]*gamekit.Infoset, error) {
	_, deactivated, err := s.removeAction(a)
	return deactivated, err
}

func (s *EfgSupport) removeAction(a *gamekit.Action) (bool, []*gamekit.Infoset, error) {
	if err := s.checkAction(a); err != nil {
		return false, nil, err
	}

	infoset := a.Infoset()
	actions := s.actions[infoset]
	if len(actions) == 1 {
		return false, nil, nil
	}
	pos := -1
	for i, b := range actions {
		if a == b {
			pos = i
			break
		}
	}
	if pos < 0 {
		return false, nil, nil
	}
	s.actions[infoset] = append(actions[:pos:pos], actions[pos+1:]...)

	var deactivated []*gamekit.Infoset
	for _, n := range infoset.Members() {
		if s.nodeActive[n] {
			deactivated = s.deactivate(n.ChildFor(a), deactivated)
		}
	}
	return true, deactivated, nil
}

// activate marks n and everything reachable from it through the support
// as active.
func (s *EfgSupport) activate(n *gamekit.Node) {
	if n == nil || n.IsTerminal() {
		return
	}
	s.nodeActive[n] = true
	s.infosetActive[n.Infoset()] = true
	for _, a := range s.Actions(n.Infoset()) {
		s.activate(n.ChildFor(a))
	}
}

// deactivate marks every nonterminal node at or below n as inactive, and
// appends to deactivated every infoset left without active members.
func (s *EfgSupport) deactivate(n *gamekit.Node, deactivated []*gamekit.Infoset) []*gamekit.Infoset {
	if n == nil || n.IsTerminal() || !s.nodeActive[n] {
		return deactivated
	}
	delete(s.nodeActive, n)

	infoset := n.Infoset()
	if s.infosetActive[infoset] && !s.hasActiveMember(infoset) {
		delete(s.infosetActive, infoset)
		deactivated = append(deactivated, infoset)
	}
	for _, c := range n.Children() {
		deactivated = s.deactivate(c, deactivated)
	}
	return deactivated
}

func (s *EfgSupport) hasActiveMember(infoset *gamekit.Infoset) bool {
	for _, m := range infoset.Members() {
		if s.nodeActive[m] {
			return true
		}
	}
	return false
}

// InfosetIsActive returns whether some member of infoset was reachable
// under the support at its revision.
func (s *EfgSupport) InfosetIsActive(infoset *gamekit.Infoset) bool {
	return s.infosetActive[infoset]
}

// NumActiveNodes returns the number of reachable nonterminal nodes at the
// support's revision.
func (s *EfgSupport) NumActiveNodes() int {
	return len(s.nodeActive)
}

// NodeIsActive returns whether n is reachable under the support.
func (s *EfgSupport) NodeIsActive(n *gamekit.Node) (bool, error) {
	if err := s.check(); err != nil {
		return false, err
	}
	if !n.IsTerminal() {
		return s.nodeActive[n], nil
	}
	parent := n.Parent()
	return parent == nil || (s.nodeActive[parent] && s.Contains(n.PriorAction())), nil
}

// ReachableNodesInInfoset returns the members of infoset that are
// reachable under the support.
func (s *EfgSupport) ReachableNodesInInfoset(infoset *gamekit.Infoset) ([]*gamekit.Node, error) {
	if err := s.check(); err != nil {
		return nil, err
	}
	return s.reachableMembers(infoset), nil
}

func (s *EfgSupport) reachableMembers(infoset *gamekit.Infoset) []*gamekit.Node {
	var result []*gamekit.Node
	for _, m := range infoset.Members() {
		if s.nodeActive[m] {
			result = append(result, m)
		}
	}
	return result
}

// ReachableNonterminalNodes returns the nonterminal nodes strictly below
// from that can be reached from it through the support, in preorder.
func (s *EfgSupport) ReachableNonterminalNodes(from *gamekit.Node) ([]*gamekit.Node, error) {
	if err := s.check(); err != nil {
		return nil, err
	}
	var result []*gamekit.Node
	if from.IsTerminal() {
		return result, nil
	}
	for _, a := range s.Actions(from.Infoset()) {
		result = s.reachableFrom(from.ChildFor(a), result)
	}
	return result, nil
}

// ReachableNonterminalNodesAfter returns the nonterminal nodes reached
// from from by taking a and then following the support, in preorder.
func (s *EfgSupport) ReachableNonterminalNodesAfter(from *gamekit.Node, a *gamekit.Action) ([]*gamekit.Node, error) {
	if err := s.check(); err != nil {
		return nil, err
	}
	return s.reachableFrom(from.ChildFor(a), nil), nil
}

func (s *EfgSupport) reachableFrom(n *gamekit.Node, result []*gamekit.Node) []*gamekit.Node {
	if n == nil || n.IsTerminal() {
		return result
	}
	result = append(result, n)
	for _, a := range s.Actions(n.Infoset()) {
		result = s.reachableFrom(n.ChildFor(a), result)
	}
	return result
}

// ReachableInfosets returns the infosets, chance included, of the nodes
// returned by ReachableNonterminalNodes, in order of first appearance.
func (s *EfgSupport) ReachableInfosets(from *gamekit.Node) ([]*gamekit.Infoset, error) {
	nodes, err := s.ReachableNonterminalNodes(from)
	if err != nil {
		return nil, err
	}
	return infosetsOf(nodes), nil
}

// ReachableInfosetsAfter returns the infosets, chance included, of the
// nodes returned by ReachableNonterminalNodesAfter.
func (s *EfgSupport) ReachableInfosetsAfter(from *gamekit.Node, a *gamekit.Action) ([]*gamekit.Infoset, error) {
	nodes, err := s.ReachableNonterminalNodesAfter(from, a)
	if err != nil {
		return nil, err
	}
	return infosetsOf(nodes), nil
}

func infosetsOf(nodes []*gamekit.Node) []*gamekit.Infoset {
	var result []*gamekit.Infoset
	seen := make(map[*gamekit.Infoset]bool)
	for _, n := range nodes {
		if !seen[n.Infoset()] {
			seen[n.Infoset()] = true
			result = append(result, n.Infoset())
		}
	}
	return result
}

// ReachableInfosetsOf returns the active infosets of p.
func (s *EfgSupport) ReachableInfosetsOf(p *gamekit.Player) ([]*gamekit.Infoset, error) {
	if err := s.check(); err != nil {
		return nil, err
	}
	return s.activeInfosets(p), nil
}

func (s *EfgSupport) activeInfosets(p *gamekit.Player) []*gamekit.Infoset {
	var result []*gamekit.Infoset
	for _, infoset := range p.Infosets() {
		if s.infosetActive[infoset] {
			result = append(result, infoset)
		}
	}
	return result
}

// MayReach returns whether every personal action on the path from the
// root to n is in the support.
func (s *EfgSupport) MayReach(n *gamekit.Node) (bool, error) {
	if err := s.check(); err != nil {
		return false, err
	}
	return s.mayReach(n), nil
}

func (s *EfgSupport) mayReach(n *gamekit.Node) bool {
	for ; n.Parent() != nil; n = n.Parent() {
		if !s.Contains(n.PriorAction()) {
			return false
		}
	}
	return true
}

// MayReachInfoset returns whether the support may reach some member of
// infoset.
func (s *EfgSupport) MayReachInfoset(infoset *gamekit.Infoset) (bool, error) {
	if err := s.check(); err != nil {
		return false, err
	}
	for _, m := range infoset.Members() {
		if s.mayReach(m) {
			return true, nil
		}
	}
	return false, nil
}

// HasActiveActionsAtAllInfosets returns whether every personal infoset
// keeps at least one action.
func (s *EfgSupport) HasActiveActionsAtAllInfosets() bool {
	for _, actions := range s.actions {
		if len(actions) == 0 {
			return false
		}
	}
	return true
}

// NumSequences returns the number of sequences of p: the empty sequence
// plus one per action in the support at each active infoset of p.
func (s *EfgSupport) NumSequences(p *gamekit.Player) (int, error) {
	if err := s.check(); err != nil {
		return 0, err
	}
	return s.numSequences(p), nil
}

func (s *EfgSupport) numSequences(p *gamekit.Player) int {
	total := 1
	for _, infoset := range s.activeInfosets(p) {
		total += len(s.actions[infoset])
	}
	return total
}

// TotalNumSequences sums NumSequences over the personal players.
func (s *EfgSupport) TotalNumSequences() (int, error) {
	if err := s.check(); err != nil {
		return 0, err
	}
	total := 0
	for _, p := range s.game.Players() {
		total += s.numSequences(p)
	}
	return total, nil
}

// NumDegreesOfFreedom returns the dimension of the space of behavior
// profiles over the support: one less than the number of actions at each
// active personal infoset, summed.
func (s *EfgSupport) NumDegreesOfFreedom() (int, error) {
	if err := s.check(); err != nil {
		return 0, err
	}
	total := 0
	for _, p := range s.game.Players() {
		for _, infoset := range s.activeInfosets(p) {
			total += len(s.actions[infoset]) - 1
		}
	}
	return total, nil
}

// NewBehavProfile returns a zero behavior profile over the support.
func (s *EfgSupport) NewBehavProfile() (*gamekit.BehavProfile, error) {
	if err := s.check(); err != nil {
		return nil, err
	}
	return gamekit.NewBehavProfileOver(s), nil
}

// Copy returns an independent copy of the support.
func (s *EfgSupport) Copy() *EfgSupport {
	result := &EfgSupport{
		snapshot:      s.snapshot,
		actions:       make(map[*gamekit.Infoset][]*gamekit.Action, len(s.actions)),
		infosetActive: make(map[*gamekit.Infoset]bool, len(s.infosetActive)),
		nodeActive:    make(map[*gamekit.Node]bool, len(s.nodeActive)),
	}
	for infoset, actions := range s.actions {
		result.actions[infoset] = append([]*gamekit.Action(nil), actions...)
	}
	for infoset := range s.infosetActive {
		result.infosetActive[infoset] = true
	}
	for n := range s.nodeActive {
		result.nodeActive[n] = true
	}
	return result
}

// Equal returns whether both supports contain the same actions of the same
// game.
func (s *EfgSupport) Equal(other *EfgSupport) bool {
	if s.game != other.game || len(s.actions) != len(other.actions) {
		return false
	}
	for infoset, actions := range s.actions {
		theirs, ok := other.actions[infoset]
		if !ok || len(theirs) != len(actions) {
			return false
		}
		for i := range actions {
			if actions[i] != theirs[i] {
				return false
			}
		}
	}
	return true
}

func (s *EfgSupport) String() string {
	var sb strings.Builder
	sb.WriteString("{")
	for i, p := range s.game.Players() {
		if i > 0 {
			sb.WriteString(" ")
		}
		sb.WriteString("{")
		for j, infoset := range p.Infosets() {
			if j > 0 {
				sb.WriteString(" ")
			}
			sb.WriteString("{")
			for k, a := range s.actions[infoset] {
				if k > 0 {
					sb.WriteString(" ")
				}
				fmt.Fprintf(&sb, "%q", a.Label())
			}
			sb.WriteString("}")
		}
		sb.WriteString("}")
	}
	sb.WriteString("}")
	return sb.String()
}
