package gamekit

import (
	"math/big"
)

// CopyTree copies the subtree rooted at src onto the terminal node dest,
// which takes the label and outcome of src. The copied nodes join the
// infosets of their originals and take their labels. Outcomes are
// duplicated: each distinct outcome of the subtree gets one new outcome
// with the same label and payoffs, so later edits to the original outcomes
// do not affect the copy. If dest lies inside the subtree, copying stops
// at dest.
func (g *Game) CopyTree(src, dest *Node) error {
	if err := g.checkNode(src); err != nil {
		return err
	}
	if err := g.checkNode(dest); err != nil {
		return err
	}
	if src == dest {
		return structuralf("copy tree: source and destination are both %v", src)
	}
	if !dest.IsTerminal() {
		return structuralf("copy tree: %v is not terminal", dest)
	}
	if src.IsTerminal() {
		return structuralf("copy tree: %v is terminal", src)
	}

	dups := make(map[*Outcome]*Outcome)
	dup := func(o *Outcome) *Outcome {
		if o == nil {
			return nil
		}
		if d, ok := dups[o]; ok {
			return d
		}
		d := g.NewOutcome()
		d.label = o.label
		for i, v := range o.payoffs {
			d.payoffs[i].Set(v)
		}
		dups[o] = d
		return d
	}

	var copySubtree func(from, to *Node)
	copySubtree = func(from, to *Node) {
		if from == dest {
			to.outcome = dup(from.outcome)
			return
		}
		if from.infoset != nil {
			g.appendMove(to, from.infoset)
			for i, c := range from.children {
				copySubtree(c, to.children[i])
			}
		}
		to.label = from.label
		to.outcome = dup(from.outcome)
	}
	copySubtree(src, dest)

	g.bump()
	return nil
}

// MoveTree moves the subtree rooted at src to the place of the terminal
// node dest, which takes src's old place as an unlabeled terminal node
// without outcome.
func (g *Game) MoveTree(src, dest *Node) error {
	if err := g.checkNode(src); err != nil {
		return err
	}
	if err := g.checkNode(dest); err != nil {
		return err
	}
	if src == dest {
		return structuralf("move tree: source and destination are both %v", src)
	}
	if !dest.IsTerminal() {
		return structuralf("move tree: %v is not terminal", dest)
	}
	if src.IsPredecessorOf(dest) {
		return structuralf("move tree: %v lies below %v", dest, src)
	}
	if src.parent == nil {
		return structuralf("move tree: %v is the root", src)
	}

	srcParent, destParent := src.parent, dest.parent
	i, j := srcParent.childIndex(src), destParent.childIndex(dest)
	srcParent.children[i] = dest
	destParent.children[j] = src
	src.parent, dest.parent = destParent, srcParent

	dest.label = ""
	dest.outcome = nil
	g.bump()
	return nil
}

// Copy returns an independent deep copy of the game. If root is not nil,
// the copy holds only the subgame rooted at root, with the infosets met
// there restricted to members inside it. Players and outcomes are always
// copied in full.
func (g *Game) Copy(root *Node) (*Game, error) {
	if root != nil {
		if err := g.checkNode(root); err != nil {
			return nil, err
		}
	}

	h := newGame()
	h.label = g.label
	h.comment = g.comment
	h.sortInfosets = g.sortInfosets
	h.chance.label = g.chance.label
	for _, p := range g.players {
		h.addPlayer().label = p.label
	}

	outcomes := make(map[*Outcome]*Outcome, len(g.outcomes))
	for _, o := range g.outcomes {
		d := h.NewOutcome()
		d.label = o.label
		for i, v := range o.payoffs {
			d.payoffs[i].Set(v)
		}
		outcomes[o] = d
	}

	if g.IsMatrix() {
		for i, p := range g.players {
			q := h.players[i]
			for _, s := range p.strategies {
				q.strategies = append(q.strategies, &Strategy{
					player: q,
					number: s.number,
					label:  s.label,
				})
			}
		}
		h.table = make([]*Outcome, len(g.table))
		for i, o := range g.table {
			h.table[i] = outcomes[o]
		}
		h.index()
		return h, nil
	}

	infosets := make(map[*Infoset]*Infoset)
	copyInfoset := func(s *Infoset) *Infoset {
		if t, ok := infosets[s]; ok {
			return t
		}
		t := h.newInfoset(h.Player(s.player.id), len(s.actions))
		t.label = s.label
		for i, a := range s.actions {
			t.actions[i].label = a.label
		}
		for i, v := range s.probs {
			t.probs[i] = new(big.Rat).Set(v)
		}
		infosets[s] = t
		return t
	}

	if root == nil {
		root = g.root
		for _, p := range append([]*Player{g.chance}, g.players...) {
			for _, s := range p.infosets {
				copyInfoset(s)
			}
		}
	}

	var copyNode func(from, to *Node)
	copyNode = func(from, to *Node) {
		to.label = from.label
		to.outcome = outcomes[from.outcome]
		if from.infoset == nil {
			return
		}
		h.appendMove(to, copyInfoset(from.infoset))
		for i, c := range from.children {
			copyNode(c, to.children[i])
		}
	}
	h.root = h.newNode(nil)
	copyNode(root, h.root)
	h.index()
	return h, nil
}
