package gamekit

import (
	"fmt"
)

// Node is a point in the game tree. A node with an information set is a
// decision (or chance) node with one child per action of the infoset; a
// node without one is terminal.
type Node struct {
	game   *Game
	serial int
	number int
	label  string

	parent   *Node
	infoset  *Infoset
	outcome  *Outcome
	children []*Node
	deleted  bool
}

func (g *Game) newNode(parent *Node) *Node {
	return &Node{
		game:   g,
		serial: g.nextSerial(),
		parent: parent,
	}
}

// ID returns the identity assigned at creation. It is never reused.
func (n *Node) ID() int {
	return n.serial
}

// Number returns the 1-based preorder position of the node in the tree.
func (n *Node) Number() int {
	n.game.index()
	return n.number
}

func (n *Node) Label() string {
	return n.label
}

func (n *Node) SetLabel(label string) {
	n.label = label
}

func (n *Node) Game() *Game {
	return n.game
}

// Deleted reports whether the node has been released from its tree.
func (n *Node) Deleted() bool {
	return n.deleted
}

// Parent returns the parent node, or nil for the root.
func (n *Node) Parent() *Node {
	return n.parent
}

func (n *Node) IsRoot() bool {
	return n.parent == nil
}

func (n *Node) IsTerminal() bool {
	return len(n.children) == 0
}

func (n *Node) NumChildren() int {
	return len(n.children)
}

func (n *Node) Children() []*Node {
	return append([]*Node(nil), n.children...)
}

// Child returns the i'th (0-based) child.
func (n *Node) Child(i int) *Node {
	return n.children[i]
}

// ChildFor returns the child reached by taking the given action, or nil if
// the action is not available at this node.
func (n *Node) ChildFor(a *Action) *Node {
	if n.infoset == nil || a.infoset != n.infoset || a.deleted {
		return nil
	}
	return n.children[a.number-1]
}

func (n *Node) Infoset() *Infoset {
	return n.infoset
}

// Player returns the player who moves at the node, or nil if it is terminal.
func (n *Node) Player() *Player {
	if n.infoset == nil {
		return nil
	}
	return n.infoset.player
}

func (n *Node) Outcome() *Outcome {
	return n.outcome
}

// PriorAction returns the action taken at the parent to reach this node,
// or nil for the root.
func (n *Node) PriorAction() *Action {
	if n.parent == nil {
		return nil
	}
	return n.parent.infoset.actions[n.parent.childIndex(n)]
}

// PriorSibling returns the previous child of the parent, or nil.
func (n *Node) PriorSibling() *Node {
	if n.parent == nil {
		return nil
	}
	i := n.parent.childIndex(n)
	if i == 0 {
		return nil
	}
	return n.parent.children[i-1]
}

// NextSibling returns the next child of the parent, or nil.
func (n *Node) NextSibling() *Node {
	if n.parent == nil {
		return nil
	}
	i := n.parent.childIndex(n)
	if i == len(n.parent.children)-1 {
		return nil
	}
	return n.parent.children[i+1]
}

// IsPredecessorOf returns whether n lies on the path from the root to m.
// A node is its own predecessor.
func (n *Node) IsPredecessorOf(m *Node) bool {
	for ; m != nil; m = m.parent {
		if m == n {
			return true
		}
	}
	return false
}

func (n *Node) String() string {
	if n.label != "" {
		return fmt.Sprintf("node %d %q", n.serial, n.label)
	}
	return fmt.Sprintf("node %d", n.serial)
}

func (n *Node) childIndex(child *Node) int {
	for i, c := range n.children {
		if c == child {
			return i
		}
	}
	panic(fmt.Errorf("%v is not a child of %v", child, n))
}
