package gamefile

import (
	"bufio"
	"fmt"
	"io"
	"math/big"
	"strings"
	"text/scanner"

	"github.com/golang/glog"
	"github.com/pkg/errors"

	"github.com/timpalpant/gamekit"
)

// WriteEfg writes a tree game: the header with the game and player labels,
// the comment, one line per outcome and then one line per node in
// preorder. An infoset's labels and chance probabilities are written where
// it first appears.
func WriteEfg(w io.Writer, g *gamekit.Game) error {
	if !g.IsTree() {
		return errors.Wrapf(gamekit.ErrStructural, "write efg: %v is not a tree", g)
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "EFG 2 R %s { %s }\n", quote(g.Label()), playerLabels(g))
	fmt.Fprintf(bw, "%s\n\n", quote(g.Comment()))

	for _, o := range g.Outcomes() {
		var payoffs []string
		for _, v := range o.Payoffs() {
			payoffs = append(payoffs, v.RatString())
		}
		fmt.Fprintf(bw, "o %d %s { %s }\n", o.Number(), quote(o.Label()), strings.Join(payoffs, " "))
	}
	if g.NumOutcomes() > 0 {
		bw.WriteString("\n")
	}

	introduced := make(map[*gamekit.Infoset]bool)
	for _, n := range g.Nodes() {
		writeNode(bw, n, introduced)
	}
	return bw.Flush()
}

func writeNode(w *bufio.Writer, n *gamekit.Node, introduced map[*gamekit.Infoset]bool) {
	outcome := 0
	if o := n.Outcome(); o != nil {
		outcome = o.Number()
	}

	s := n.Infoset()
	switch {
	case s == nil:
		fmt.Fprintf(w, "t %s %d\n", quote(n.Label()), outcome)
		return
	case s.IsChance():
		fmt.Fprintf(w, "c %s %d", quote(n.Label()), s.Number())
	default:
		fmt.Fprintf(w, "p %s %d %d", quote(n.Label()), s.Player().ID(), s.Number())
	}

	if !introduced[s] {
		introduced[s] = true
		fmt.Fprintf(w, " %s {", quote(s.Label()))
		for i, a := range s.Actions() {
			fmt.Fprintf(w, " %s", quote(a.Label()))
			if s.IsChance() {
				fmt.Fprintf(w, " %s", s.ChanceProb(i).RatString())
			}
		}
		w.WriteString(" }")
	}
	fmt.Fprintf(w, " %d\n", outcome)
}

func playerLabels(g *gamekit.Game) string {
	var labels []string
	for _, p := range g.Players() {
		labels = append(labels, quote(p.Label()))
	}
	return strings.Join(labels, " ")
}

// ReadEfg reads a tree game written by WriteEfg.
func ReadEfg(r io.Reader) (*gamekit.Game, error) {
	return readEfg(newParser(r, "efg"))
}

type infosetKey struct {
	player int
	number int
}

type efgReader struct {
	*parser
	g        *gamekit.Game
	outcomes map[int]*gamekit.Outcome
	infosets map[infosetKey]*gamekit.Infoset
}

func readEfg(p *parser) (*gamekit.Game, error) {
	label, players, err := p.header("EFG", 2)
	if err != nil {
		return nil, err
	}

	g := gamekit.NewTree()
	g.SetLabel(label)
	for _, name := range players {
		g.NewPlayer().SetLabel(name)
	}
	if p.tok == scanner.String {
		comment, err := p.str()
		if err != nil {
			return nil, err
		}
		g.SetComment(comment)
	}

	er := &efgReader{
		parser:   p,
		g:        g,
		outcomes: make(map[int]*gamekit.Outcome),
		infosets: make(map[infosetKey]*gamekit.Infoset),
	}
	for p.tok == scanner.Ident && p.s.TokenText() == "o" {
		if err := er.outcome(); err != nil {
			return nil, err
		}
	}
	if err := er.node(g.Root()); err != nil {
		return nil, err
	}
	if p.tok != scanner.EOF {
		return nil, p.errorf("unexpected %q after the last node", p.s.TokenText())
	}
	if p.err != nil {
		return nil, p.err
	}

	glog.V(1).Infof("Read efg game %q: %d players, %d nodes, %d outcomes",
		g.Label(), g.NumPlayers(), g.NumNodes(), g.NumOutcomes())
	return g, nil
}

func (er *efgReader) outcome() error {
	er.next()
	number, err := er.integer()
	if err != nil {
		return err
	}
	if number != len(er.outcomes)+1 {
		return er.errorf("outcome %d out of order", number)
	}
	label, err := er.str()
	if err != nil {
		return err
	}
	payoffs, err := er.numberList()
	if err != nil {
		return err
	}
	if len(payoffs) != er.g.NumPlayers() {
		return er.errorf("outcome %d has %d payoffs for %d players", number, len(payoffs), er.g.NumPlayers())
	}

	o := er.g.NewOutcome()
	o.SetLabel(label)
	for i, v := range payoffs {
		if err := o.SetPayoff(er.g.Player(i+1), v); err != nil {
			return err
		}
	}
	er.outcomes[number] = o
	return nil
}

func (er *efgReader) node(n *gamekit.Node) error {
	kind, err := er.ident()
	if err != nil {
		return err
	}
	label, err := er.str()
	if err != nil {
		return err
	}
	n.SetLabel(label)

	if kind == "t" {
		return er.nodeOutcome(n)
	}

	var player *gamekit.Player
	switch kind {
	case "c":
		player = er.g.Chance()
	case "p":
		id, err := er.integer()
		if err != nil {
			return err
		}
		if player = er.g.Player(id); player == nil || player.IsChance() {
			return er.errorf("no player %d", id)
		}
	default:
		return er.errorf("unknown node type %q", kind)
	}

	number, err := er.integer()
	if err != nil {
		return err
	}
	key := infosetKey{player.ID(), number}
	s, ok := er.infosets[key]
	if !ok {
		if s, err = er.infoset(player); err != nil {
			return err
		}
		er.infosets[key] = s
	}

	if err := er.g.AppendMove(n, s); err != nil {
		return err
	}
	if err := er.nodeOutcome(n); err != nil {
		return err
	}
	for _, child := range n.Children() {
		if err := er.node(child); err != nil {
			return err
		}
	}
	return nil
}

// infoset reads the definition of an infoset at its first appearance.
func (er *efgReader) infoset(player *gamekit.Player) (*gamekit.Infoset, error) {
	if er.tok != scanner.String {
		return nil, er.errorf("infoset of %v used before it is defined", player)
	}
	label, err := er.str()
	if err != nil {
		return nil, err
	}
	if err := er.expect('{'); err != nil {
		return nil, err
	}

	var actions []string
	var probs []*big.Rat
	for er.tok == scanner.String {
		action, err := er.str()
		if err != nil {
			return nil, err
		}
		actions = append(actions, action)
		if player.IsChance() {
			prob, err := er.number()
			if err != nil {
				return nil, err
			}
			probs = append(probs, prob)
		}
	}
	if err := er.expect('}'); err != nil {
		return nil, err
	}
	if len(actions) == 0 {
		return nil, er.errorf("infoset %q has no actions", label)
	}

	s, err := er.g.NewInfoset(player, len(actions))
	if err != nil {
		return nil, err
	}
	s.SetLabel(label)
	for i, a := range s.Actions() {
		a.SetLabel(actions[i])
	}
	for i, prob := range probs {
		if err := er.g.SetChanceProb(s, i, prob); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (er *efgReader) nodeOutcome(n *gamekit.Node) error {
	number, err := er.integer()
	if err != nil {
		return err
	}
	if number == 0 {
		return nil
	}
	o, ok := er.outcomes[number]
	if !ok {
		return er.errorf("no outcome %d", number)
	}
	return er.g.SetOutcome(n, o)
}
