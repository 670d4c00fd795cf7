package gamekit

import (
	"math/big"
)

// NewInfoset creates an information set for p with the given number of
// actions and no members. Chance infosets start with uniform probabilities.
func (g *Game) NewInfoset(p *Player, numActions int) (*Infoset, error) {
	if err := g.checkPlayer(p); err != nil {
		return nil, err
	}
	if g.IsMatrix() {
		return nil, structuralf("new infoset: %v is a matrix", g)
	}
	if numActions < 1 {
		return nil, structuralf("infoset needs at least one action, got %d", numActions)
	}

	s := g.newInfoset(p, numActions)
	g.bump()
	return s, nil
}

func (g *Game) newInfoset(p *Player, numActions int) *Infoset {
	s := &Infoset{player: p, serial: g.nextSerial()}
	for i := 0; i < numActions; i++ {
		s.actions = append(s.actions, &Action{infoset: s, serial: g.nextSerial()})
	}
	s.renumber()
	if p.IsChance() {
		s.probs = make([]*big.Rat, numActions)
		for i := range s.probs {
			s.probs[i] = big.NewRat(1, int64(numActions))
		}
	}
	p.infosets = append(p.infosets, s)
	p.renumber()
	return s
}

// cloneInfoset creates an empty infoset for p with the labels and chance
// probabilities of s.
func (g *Game) cloneInfoset(s *Infoset, p *Player) *Infoset {
	t := g.newInfoset(p, len(s.actions))
	t.label = s.label
	for i, a := range s.actions {
		t.actions[i].label = a.label
	}
	if s.probs != nil && t.probs != nil {
		for i, v := range s.probs {
			t.probs[i].Set(v)
		}
	}
	return t
}

// removeInfoset tombstones s and detaches it from its player.
func (g *Game) removeInfoset(s *Infoset) {
	s.player.removeInfoset(s)
	s.deleted = true
	for _, a := range s.actions {
		a.deleted = true
	}
}

// leave removes n from its infoset, removing the infoset if it is left empty.
func (g *Game) leave(n *Node) {
	s := n.infoset
	if s == nil {
		return
	}
	s.removeMember(n)
	n.infoset = nil
	if len(s.members) == 0 {
		g.removeInfoset(s)
	}
}

// release discards the subtree rooted at n, n included.
func (g *Game) release(n *Node) {
	if n.deleted {
		return
	}
	for _, c := range n.children {
		g.release(c)
	}
	n.children = nil
	g.leave(n)
	n.outcome = nil
	n.deleted = true
}

func (g *Game) appendMove(n *Node, s *Infoset) {
	n.infoset = s
	s.members = append(s.members, n)
	for range s.actions {
		n.children = append(n.children, g.newNode(n))
	}
}

// AppendMove makes the terminal node n a member of s, with one new
// terminal child per action.
func (g *Game) AppendMove(n *Node, s *Infoset) error {
	if err := g.checkNode(n); err != nil {
		return err
	}
	if err := g.checkInfoset(s); err != nil {
		return err
	}
	if !n.IsTerminal() {
		return structuralf("append move: %v is not terminal", n)
	}

	g.appendMove(n, s)
	g.bump()
	return nil
}

// NewMove creates a new infoset for p with the given number of actions and
// appends it at the terminal node n.
func (g *Game) NewMove(n *Node, p *Player, numActions int) (*Infoset, error) {
	if err := g.checkNode(n); err != nil {
		return nil, err
	}
	if err := g.checkPlayer(p); err != nil {
		return nil, err
	}
	if !n.IsTerminal() {
		return nil, structuralf("new move: %v is not terminal", n)
	}
	if numActions < 1 {
		return nil, structuralf("infoset needs at least one action, got %d", numActions)
	}

	s := g.newInfoset(p, numActions)
	g.appendMove(n, s)
	g.bump()
	return s, nil
}

// InsertMove inserts a new decision node belonging to s in place of n.
// n becomes the first child of the new node and the other children are
// new terminal nodes. It returns the inserted node.
func (g *Game) InsertMove(n *Node, s *Infoset) (*Node, error) {
	if err := g.checkNode(n); err != nil {
		return nil, err
	}
	if err := g.checkInfoset(s); err != nil {
		return nil, err
	}

	m := g.newNode(n.parent)
	m.infoset = s
	s.members = append(s.members, m)
	if n.parent != nil {
		n.parent.children[n.parent.childIndex(n)] = m
	} else {
		g.root = m
	}
	m.children = append(m.children, n)
	n.parent = m
	for i := 1; i < len(s.actions); i++ {
		m.children = append(m.children, g.newNode(m))
	}

	g.bump()
	return m, nil
}

// DeleteMove deletes the move at the parent of n: the subtrees of n's
// siblings are discarded and n takes its parent's place in the tree.
func (g *Game) DeleteMove(n *Node) error {
	if err := g.checkNode(n); err != nil {
		return err
	}
	parent := n.parent
	if parent == nil {
		return structuralf("delete move: %v is the root", n)
	}

	for _, c := range parent.children {
		if c != n {
			g.release(c)
		}
	}
	parent.children = nil

	n.parent = parent.parent
	if parent.parent != nil {
		parent.parent.children[parent.parent.childIndex(parent)] = n
	} else {
		g.root = n
	}

	g.leave(parent)
	parent.parent = nil
	parent.outcome = nil
	parent.deleted = true
	g.bump()
	return nil
}

// DeleteTree discards every descendant of n, which becomes a terminal node
// and leaves its infoset. n keeps its own label and outcome.
func (g *Game) DeleteTree(n *Node) error {
	if err := g.checkNode(n); err != nil {
		return err
	}

	for _, c := range n.children {
		g.release(c)
	}
	n.children = nil
	g.leave(n)
	g.bump()
	return nil
}

// JoinInfoset moves n into s. It fails if n does not have one child per
// action of s.
func (g *Game) JoinInfoset(s *Infoset, n *Node) error {
	if err := g.checkNode(n); err != nil {
		return err
	}
	if err := g.checkInfoset(s); err != nil {
		return err
	}
	if n.infoset == s {
		return nil
	}
	if len(n.children) != len(s.actions) {
		return structuralf("join infoset: %v has %d children, %v has %d actions",
			n, len(n.children), s, len(s.actions))
	}

	g.leave(n)
	n.infoset = s
	s.members = append(s.members, n)
	g.bump()
	return nil
}

// LeaveInfoset moves n into a new singleton infoset of the same player,
// with the same action labels and chance probabilities. It returns the
// infoset n ends up in: unchanged if n was the only member, nil if n is
// terminal.
func (g *Game) LeaveInfoset(n *Node) (*Infoset, error) {
	if err := g.checkNode(n); err != nil {
		return nil, err
	}
	s := n.infoset
	if s == nil {
		return nil, nil
	}
	if len(s.members) == 1 {
		return s, nil
	}

	s.removeMember(n)
	t := g.cloneInfoset(s, s.player)
	n.infoset = t
	t.members = append(t.members, n)
	g.bump()
	return t, nil
}

// MergeInfoset moves every member of from into into and removes from. The
// infosets must have the same number of actions.
func (g *Game) MergeInfoset(into, from *Infoset) error {
	if err := g.checkInfoset(into); err != nil {
		return err
	}
	if err := g.checkInfoset(from); err != nil {
		return err
	}
	if into == from {
		return nil
	}
	if len(into.actions) != len(from.actions) {
		return structuralf("merge infoset: %v has %d actions, %v has %d",
			into, len(into.actions), from, len(from.actions))
	}

	for _, m := range from.members {
		m.infoset = into
		into.members = append(into.members, m)
	}
	from.members = nil
	g.removeInfoset(from)
	g.bump()
	return nil
}

// Reveal splits the infosets of p so that p can distinguish which action
// was taken at s. After Reveal, no infoset of p has members both inside
// and outside the subtree following any one action of s.
func (g *Game) Reveal(s *Infoset, p *Player) error {
	if err := g.checkInfoset(s); err != nil {
		return err
	}
	if err := g.checkPlayer(p); err != nil {
		return err
	}
	if p.IsChance() {
		return structuralf("reveal: cannot reveal to chance")
	}
	if len(s.actions) <= 1 {
		return nil
	}

	members := append([]*Node(nil), s.members...)
	for i := range s.actions {
		marked := make(map[*Node]bool)
		for _, m := range members {
			markSubtree(m.children[i], marked)
		}

		for _, t := range append([]*Infoset(nil), p.infosets...) {
			var in, out []*Node
			for _, m := range t.members {
				if marked[m] {
					in = append(in, m)
				} else {
					out = append(out, m)
				}
			}
			if len(in) == 0 || len(out) == 0 {
				continue
			}

			u := g.cloneInfoset(t, p)
			t.members = out
			u.members = in
			for _, m := range in {
				m.infoset = u
			}
		}
	}

	g.bump()
	return nil
}

func markSubtree(n *Node, marked map[*Node]bool) {
	marked[n] = true
	for _, c := range n.children {
		markSubtree(c, marked)
	}
}

// SetPlayer transfers s to another personal player.
func (g *Game) SetPlayer(s *Infoset, p *Player) error {
	if err := g.checkInfoset(s); err != nil {
		return err
	}
	if err := g.checkPlayer(p); err != nil {
		return err
	}
	if s.player == p {
		return nil
	}
	if s.player.IsChance() || p.IsChance() {
		return structuralf("set player: cannot move %v to or from chance", s)
	}

	s.player.removeInfoset(s)
	s.player = p
	p.infosets = append(p.infosets, s)
	p.renumber()
	g.bump()
	return nil
}

// InsertAction adds an action to s before the action at, or after the last
// action if at is nil. Every member gets a new terminal child in the
// corresponding position. A new chance action has probability zero.
func (g *Game) InsertAction(s *Infoset, at *Action) (*Action, error) {
	if err := g.checkInfoset(s); err != nil {
		return nil, err
	}
	pos := len(s.actions)
	if at != nil {
		if err := g.checkAction(at); err != nil {
			return nil, err
		}
		if at.infoset != s {
			return nil, structuralf("insert action: %v is not an action of %v", at, s)
		}
		pos = at.number - 1
	}

	a := &Action{infoset: s, serial: g.nextSerial()}
	s.actions = append(s.actions, nil)
	copy(s.actions[pos+1:], s.actions[pos:])
	s.actions[pos] = a
	s.renumber()
	if s.probs != nil {
		s.probs = append(s.probs, nil)
		copy(s.probs[pos+1:], s.probs[pos:])
		s.probs[pos] = new(big.Rat)
	}

	for _, m := range s.members {
		m.children = append(m.children, nil)
		copy(m.children[pos+1:], m.children[pos:])
		m.children[pos] = g.newNode(m)
	}

	g.bump()
	return a, nil
}

// AppendAction adds an action after the last action of s.
func (g *Game) AppendAction(s *Infoset) (*Action, error) {
	return g.InsertAction(s, nil)
}

// DeleteAction removes a from its infoset, discarding the subtree that
// follows it at every member. The last action of an infoset cannot be
// deleted.
func (g *Game) DeleteAction(a *Action) error {
	if err := g.checkAction(a); err != nil {
		return err
	}
	s := a.infoset
	if len(s.actions) == 1 {
		return structuralf("delete action: %v is the only action of %v", a, s)
	}

	pos := a.number - 1
	var detached []*Node
	for _, m := range s.members {
		detached = append(detached, m.children[pos])
		m.children = append(m.children[:pos], m.children[pos+1:]...)
	}
	s.actions = append(s.actions[:pos], s.actions[pos+1:]...)
	s.renumber()
	if s.probs != nil {
		s.probs = append(s.probs[:pos], s.probs[pos+1:]...)
	}
	a.deleted = true

	for _, c := range detached {
		g.release(c)
	}
	g.bump()
	return nil
}

// DeleteInfoset removes an infoset that has no members.
func (g *Game) DeleteInfoset(s *Infoset) error {
	if err := g.checkInfoset(s); err != nil {
		return err
	}
	if len(s.members) > 0 {
		return structuralf("delete infoset: %v still has %d members", s, len(s.members))
	}

	g.removeInfoset(s)
	g.bump()
	return nil
}

// DeleteEmptyInfosets removes every infoset without members and returns how
// many were removed.
func (g *Game) DeleteEmptyInfosets() int {
	removed := 0
	for _, p := range append([]*Player{g.chance}, g.players...) {
		for _, s := range append([]*Infoset(nil), p.infosets...) {
			if len(s.members) == 0 {
				g.removeInfoset(s)
				removed++
			}
		}
	}
	if removed > 0 {
		g.bump()
	}
	return removed
}

// SetChanceProb sets the probability of the i'th action of a chance infoset.
func (g *Game) SetChanceProb(s *Infoset, i int, prob *big.Rat) error {
	if err := g.checkInfoset(s); err != nil {
		return err
	}
	if !s.IsChance() {
		return structuralf("set chance prob: %v does not belong to chance", s)
	}
	if i < 0 || i >= len(s.actions) {
		return structuralf("set chance prob: %v has no action %d", s, i)
	}
	if prob.Sign() < 0 {
		return structuralf("set chance prob: negative probability %v", prob.RatString())
	}

	s.probs[i].Set(prob)
	g.touchPayoffs()
	return nil
}
