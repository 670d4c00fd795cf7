package gamekit

import (
	"sort"
)

// index recomputes node numbers, infoset order, strategies and strategy
// indices if the game changed since they were last computed.
func (g *Game) index() {
	if g.indexedAt == g.revision {
		return
	}
	g.indexedAt = g.revision

	if g.root != nil {
		g.numberNodes()
		g.sortInfosetsByTree()
		g.computeReducedStrategies()
	} else {
		for _, p := range g.players {
			for _, s := range p.strategies {
				s.revision = g.revision
			}
		}
	}
	g.indexStrategies()
}

// NumberNodes assigns preorder numbers, starting at 1 for the root.
func (g *Game) NumberNodes() {
	g.index()
	g.numberNodes()
}

// SortInfosets orders the members of every infoset by their node numbers
// and, if infoset sorting is enabled, every player's infosets by their
// first member.
func (g *Game) SortInfosets() {
	g.index()
	g.sortInfosetsByTree()
}

// IndexStrategies assigns each strategy its offset in the contingency
// table, with player 1's strategies varying fastest.
func (g *Game) IndexStrategies() {
	g.index()
	g.indexStrategies()
}

// ComputeReducedStrategies derives the reduced pure strategies of every
// personal player from the tree. Strategies are cached until the next
// structural edit, so calling it again without intervening edits yields
// the same strategies.
func (g *Game) ComputeReducedStrategies() {
	g.index()
}

func (g *Game) numberNodes() {
	g.numNodes = 0
	if g.root == nil {
		return
	}

	stack := allocNodeSlice()
	stack = append(stack, g.root)
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		g.numNodes++
		n.number = g.numNodes
		for i := len(n.children) - 1; i >= 0; i-- {
			stack = append(stack, n.children[i])
		}
	}
	freeNodeSlice(stack)
}

func (g *Game) sortInfosetsByTree() {
	for _, p := range append([]*Player{g.chance}, g.players...) {
		for _, s := range p.infosets {
			sort.SliceStable(s.members, func(i, j int) bool {
				return s.members[i].number < s.members[j].number
			})
		}

		if g.sortInfosets {
			sort.SliceStable(p.infosets, func(i, j int) bool {
				return firstMember(p.infosets[i]) < firstMember(p.infosets[j])
			})
		}
		p.renumber()
	}
}

// firstMember returns the number of the first member of s; infosets
// without members sort last.
func firstMember(s *Infoset) int {
	if len(s.members) == 0 {
		return int(^uint(0) >> 1)
	}
	return s.members[0].number
}

func (g *Game) indexStrategies() {
	g.strides = make([]int64, len(g.players))
	stride := int64(1)
	for i, p := range g.players {
		g.strides[i] = stride
		for _, s := range p.strategies {
			s.index = int64(s.number-1) * stride
		}
		stride *= int64(len(p.strategies))
	}
}
