package gamekit

// move is one choice made by a player along a path of the tree.
type move struct {
	infoset *Infoset
	action  int
}

// IsPerfectRecall returns whether no personal player ever forgets its own
// earlier moves: all members of each infoset are reached through the same
// sequence of the owner's (infoset, action) choices.
func (g *Game) IsPerfectRecall() bool {
	s, _ := g.RecallViolation()
	return s == nil
}

// RecallViolation returns the first infoset, in player then infoset
// order, whose members disagree on the owner's own history, and a pair of
// members witnessing it. It returns nils if the game has perfect recall.
func (g *Game) RecallViolation() (*Infoset, [2]*Node) {
	var none [2]*Node
	if g.root == nil {
		return nil, none
	}
	g.index()

	histories := make(map[*Node][]move)
	var walk func(n *Node, path []move)
	walk = func(n *Node, path []move) {
		if n.infoset == nil {
			return
		}
		histories[n] = ownMoves(path, n.infoset.player)
		for i, c := range n.children {
			next := append(path[:len(path):len(path)], move{n.infoset, i})
			walk(c, next)
		}
	}
	walk(g.root, nil)

	for _, p := range g.players {
		for _, s := range p.infosets {
			if len(s.members) < 2 {
				continue
			}
			first := histories[s.members[0]]
			for _, m := range s.members[1:] {
				if !sameMoves(first, histories[m]) {
					return s, [2]*Node{s.members[0], m}
				}
			}
		}
	}
	return nil, none
}

func ownMoves(path []move, p *Player) []move {
	var result []move
	for _, m := range path {
		if m.infoset.player == p {
			result = append(result, m)
		}
	}
	return result
}

func sameMoves(a, b []move) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// IsSubgameRoot returns whether n is the root of a proper subgame: n is a
// decision node and every infoset met in its subtree has all of its
// members inside the subtree.
func (g *Game) IsSubgameRoot(n *Node) bool {
	if g.checkNode(n) != nil || n.infoset == nil {
		return false
	}

	inside := make(map[*Node]bool)
	markSubtree(n, inside)
	for m := range inside {
		if m.infoset == nil {
			continue
		}
		for _, o := range m.infoset.members {
			if !inside[o] {
				return false
			}
		}
	}
	return true
}

// SubgameRoots returns every subgame root in preorder. The root of a
// nontrivial tree is always one.
func (g *Game) SubgameRoots() []*Node {
	var result []*Node
	for _, n := range g.Nodes() {
		if g.IsSubgameRoot(n) {
			result = append(result, n)
		}
	}
	return result
}
