package gamekit

import (
	"encoding/binary"
	"expvar"
	"fmt"
	"math/rand"

	"github.com/pkg/errors"
	"github.com/timpalpant/go-cfr"
)

var (
	nodesVisited         = expvar.NewInt("cfr/nodes_visited")
	terminalNodesVisited = expvar.NewInt("cfr/nodes_visited/terminal")
	playerNodesVisited   = expvar.NewInt("cfr/nodes_visited/player")
	chanceNodesVisited   = expvar.NewInt("cfr/nodes_visited/chance")
)

// CFRNode implements cfr.GameTreeNode over a tree game, so that the game
// can be traversed and solved with go-cfr. Players are numbered from 0:
// player i of the game is player i-1 of go-cfr.
//
// Utilities are the sums, as floats, of the outcomes met on the path from
// the root. The game must not be edited while a CFRNode is in use.
type CFRNode struct {
	node     *Node
	parent   *CFRNode
	children []CFRNode
	// utility is the accumulated payoff of each personal player.
	utility []float64
	rng     *rand.Rand
}

// Verify that we implement the interface.
var _ cfr.GameTreeNode = &CFRNode{}

// AsCFR returns the root of the tree as a cfr.GameTreeNode. Chance nodes
// are sampled with rng.
func (g *Game) AsCFR(rng *rand.Rand) (*CFRNode, error) {
	if !g.IsTree() {
		return nil, structuralf("cfr: %v is a matrix", g)
	}
	root := &CFRNode{node: g.root, rng: rng}
	root.utility = allocFloatSlice()
	for range g.players {
		root.utility = append(root.utility, 0)
	}
	root.addOutcome()
	return root, nil
}

func (cn *CFRNode) addOutcome() {
	o := cn.node.outcome
	if o == nil {
		return
	}
	for i, v := range o.payoffs {
		f, _ := v.Float64()
		cn.utility[i] += f
	}
}

// Node returns the game node underlying cn.
func (cn *CFRNode) Node() *Node {
	return cn.node
}

// Type implements cfr.GameTreeNode.
func (cn *CFRNode) Type() cfr.NodeType {
	switch {
	case cn.node.infoset == nil:
		return cfr.TerminalNodeType
	case cn.node.infoset.IsChance():
		return cfr.ChanceNodeType
	default:
		return cfr.PlayerNodeType
	}
}

// Player implements cfr.GameTreeNode. It returns -1 at chance and
// terminal nodes.
func (cn *CFRNode) Player() int {
	if cn.node.infoset == nil {
		return -1
	}
	return cn.node.infoset.player.id - 1
}

// InfoSet implements cfr.GameTreeNode.
func (cn *CFRNode) InfoSet(player int) cfr.InfoSet {
	s := cn.node.infoset
	if s == nil || s.player.id-1 != player {
		panic(fmt.Errorf("player %d does not move at %v", player, cn.node))
	}
	return &CFRInfoSet{Player: player, Infoset: s.serial, NumActions: len(s.actions)}
}

// Utility implements cfr.GameTreeNode.
func (cn *CFRNode) Utility(player int) float64 {
	if cn.Type() != cfr.TerminalNodeType {
		panic("cannot get the utility of a non-terminal node")
	}
	return cn.utility[player]
}

// NumChildren implements cfr.GameTreeNode.
func (cn *CFRNode) NumChildren() int {
	return len(cn.node.children)
}

// GetChild implements cfr.GameTreeNode.
func (cn *CFRNode) GetChild(i int) cfr.GameTreeNode {
	if cn.children == nil {
		cn.buildChildren()
	}
	return &cn.children[i]
}

func (cn *CFRNode) buildChildren() {
	cn.children = allocCFRNodeSlice()
	for _, c := range cn.node.children {
		child := CFRNode{node: c, parent: cn, rng: cn.rng}
		child.utility = append(allocFloatSlice(), cn.utility...)
		child.addOutcome()
		cn.children = append(cn.children, child)
	}
}

// Parent implements cfr.GameTreeNode.
func (cn *CFRNode) Parent() cfr.GameTreeNode {
	if cn.parent == nil {
		return nil
	}
	return cn.parent
}

// GetChildProbability implements cfr.GameTreeNode.
func (cn *CFRNode) GetChildProbability(i int) float64 {
	if cn.Type() != cfr.ChanceNodeType {
		panic("cannot get the probability of a non-chance node")
	}
	p, _ := cn.node.infoset.probs[i].Float64()
	return p
}

// SampleChild implements cfr.GameTreeNode.
func (cn *CFRNode) SampleChild() (cfr.GameTreeNode, float64) {
	x := cn.rng.Float64()
	last := 0
	for i := range cn.node.children {
		p := cn.GetChildProbability(i)
		if p == 0 {
			continue
		}
		last = i
		if x < p {
			return cn.GetChild(i), p
		}
		x -= p
	}
	return cn.GetChild(last), cn.GetChildProbability(last)
}

// Close implements cfr.GameTreeNode.
func (cn *CFRNode) Close() {
	nodesVisited.Add(1)
	switch cn.Type() {
	case cfr.TerminalNodeType:
		terminalNodesVisited.Add(1)
	case cfr.PlayerNodeType:
		playerNodesVisited.Add(1)
	case cfr.ChanceNodeType:
		chanceNodesVisited.Add(1)
	}

	for i := range cn.children {
		freeFloatSlice(cn.children[i].utility)
		cn.children[i].utility = nil
	}
	freeCFRNodeSlice(cn.children)
	cn.children = nil
}

func (cn *CFRNode) String() string {
	return fmt.Sprintf("cfr %v", cn.node)
}

// CFRInfoSet identifies an information set of a game for go-cfr.
type CFRInfoSet struct {
	Player     int
	Infoset    int
	NumActions int
}

// Key returns a string that is unique to the information set.
func (is *CFRInfoSet) Key() string {
	buf, _ := is.MarshalBinary()
	return string(buf)
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (is *CFRInfoSet) MarshalBinary() ([]byte, error) {
	buf := make([]byte, 0, 3*binary.MaxVarintLen64)
	buf = binary.AppendVarint(buf, int64(is.Player))
	buf = binary.AppendVarint(buf, int64(is.Infoset))
	buf = binary.AppendVarint(buf, int64(is.NumActions))
	return buf, nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (is *CFRInfoSet) UnmarshalBinary(buf []byte) error {
	var fields [3]int64
	for i := range fields {
		v, n := binary.Varint(buf)
		if n <= 0 {
			return errors.Errorf("malformed infoset key: %d bytes left", len(buf))
		}
		fields[i] = v
		buf = buf[n:]
	}
	is.Player = int(fields[0])
	is.Infoset = int(fields[1])
	is.NumActions = int(fields[2])
	return nil
}
