package gamefile

import (
	"bufio"
	"fmt"
	"io"
	"math/big"
	"strings"
	"text/scanner"

	"github.com/golang/glog"

	"github.com/timpalpant/gamekit"
)

// WriteNfg writes the normal form of a game. A matrix game is written in
// the outcome version, listing its outcomes and then the outcome number of
// every contingency. A tree game is written in the payoff version over its
// reduced strategies.
func WriteNfg(w io.Writer, g *gamekit.Game) error {
	if g.IsMatrix() {
		return writeNfgOutcomes(w, g)
	}
	return WriteNfgRestricted(w, g, nil)
}

// WriteNfgRestricted writes the payoff version of the normal form of g,
// restricted to the strategies of space. A nil space means every strategy.
func WriteNfgRestricted(w io.Writer, g *gamekit.Game, space gamekit.StrategySpace) error {
	bw := bufio.NewWriter(w)
	writeNfgHeader(bw, g, space)

	it := gamekit.NewContingencyIter(g, space)
	for it.Next() {
		payoffs, err := it.Contingency().Payoffs()
		if err != nil {
			return err
		}
		for _, v := range payoffs {
			bw.WriteString(v.RatString())
			bw.WriteString(" ")
		}
		bw.WriteString("\n")
	}
	return bw.Flush()
}

func writeNfgOutcomes(w io.Writer, g *gamekit.Game) error {
	bw := bufio.NewWriter(w)
	writeNfgHeader(bw, g, nil)

	bw.WriteString("{\n")
	for _, o := range g.Outcomes() {
		var payoffs []string
		for _, v := range o.Payoffs() {
			payoffs = append(payoffs, v.RatString())
		}
		fmt.Fprintf(bw, "{ %s %s }\n", quote(o.Label()), strings.Join(payoffs, ", "))
	}
	bw.WriteString("}\n")

	it := gamekit.NewContingencyIter(g, nil)
	for it.Next() {
		o, err := it.Contingency().Outcome()
		if err != nil {
			return err
		}
		number := 0
		if o != nil {
			number = o.Number()
		}
		fmt.Fprintf(bw, "%d ", number)
	}
	bw.WriteString("\n")
	return bw.Flush()
}

func writeNfgHeader(w *bufio.Writer, g *gamekit.Game, space gamekit.StrategySpace) {
	fmt.Fprintf(w, "NFG 1 R %s { %s }\n\n", quote(g.Label()), playerLabels(g))
	w.WriteString("{ ")
	for _, p := range g.Players() {
		strategies := p.Strategies()
		if space != nil {
			strategies = space.Strategies(p)
		}
		w.WriteString("{ ")
		for _, s := range strategies {
			w.WriteString(quote(s.Label()))
			w.WriteString(" ")
		}
		w.WriteString("}\n")
	}
	w.WriteString("}\n")
	fmt.Fprintf(w, "%s\n\n", quote(g.Comment()))
}

// ReadNfg reads a matrix game in either the payoff or the outcome version.
// The strategies may be given by their labels or only by their number per
// player. In the payoff version each contingency gets its own outcome.
func ReadNfg(r io.Reader) (*gamekit.Game, error) {
	return readNfg(newParser(r, "nfg"))
}

func readNfg(p *parser) (*gamekit.Game, error) {
	label, players, err := p.header("NFG", 1)
	if err != nil {
		return nil, err
	}

	dims, labels, err := readStrategyBlock(p)
	if err != nil {
		return nil, err
	}
	if len(dims) != len(players) {
		return nil, p.errorf("%d strategy counts for %d players", len(dims), len(players))
	}

	g, err := gamekit.NewMatrix(dims)
	if err != nil {
		return nil, err
	}
	g.SetLabel(label)
	for i, name := range players {
		pl := g.Player(i + 1)
		pl.SetLabel(name)
		if labels[i] != nil {
			for j, s := range pl.Strategies() {
				s.SetLabel(labels[i][j])
			}
		}
	}
	if p.tok == scanner.String {
		comment, err := p.str()
		if err != nil {
			return nil, err
		}
		g.SetComment(comment)
	}

	if p.tok == '{' {
		err = readNfgOutcomes(p, g)
	} else {
		err = readNfgPayoffs(p, g)
	}
	if err != nil {
		return nil, err
	}
	if p.tok != scanner.EOF {
		return nil, p.errorf("unexpected %q after the last contingency", p.s.TokenText())
	}
	if p.err != nil {
		return nil, p.err
	}

	glog.V(1).Infof("Read nfg game %q: %v strategies, %d outcomes",
		g.Label(), g.NumStrategies(), g.NumOutcomes())
	return g, nil
}

// readStrategyBlock reads either { { "a" "b" } { "c" } } or { 2 1 }.
// Labels are nil for players given only by a count.
func readStrategyBlock(p *parser) ([]int, [][]string, error) {
	if err := p.expect('{'); err != nil {
		return nil, nil, err
	}

	var dims []int
	var labels [][]string
	for p.tok != '}' && p.tok != scanner.EOF {
		if p.tok == '{' {
			names, err := p.stringList()
			if err != nil {
				return nil, nil, err
			}
			dims = append(dims, len(names))
			labels = append(labels, names)
			continue
		}
		n, err := p.integer()
		if err != nil {
			return nil, nil, err
		}
		dims = append(dims, n)
		labels = append(labels, nil)
	}
	if err := p.expect('}'); err != nil {
		return nil, nil, err
	}
	return dims, labels, nil
}

func readNfgPayoffs(p *parser, g *gamekit.Game) error {
	it := gamekit.NewContingencyIter(g, nil)
	for it.Next() {
		o := g.NewOutcome()
		for _, pl := range g.Players() {
			v, err := p.number()
			if err != nil {
				return err
			}
			if err := o.SetPayoff(pl, v); err != nil {
				return err
			}
		}
		if err := it.Contingency().SetOutcome(o); err != nil {
			return err
		}
	}
	return nil
}

func readNfgOutcomes(p *parser, g *gamekit.Game) error {
	if err := p.expect('{'); err != nil {
		return err
	}
	for p.tok == '{' {
		p.next()
		label, err := p.str()
		if err != nil {
			return err
		}
		var payoffs []*big.Rat
		for p.tok != '}' && p.tok != scanner.EOF {
			v, err := p.number()
			if err != nil {
				return err
			}
			payoffs = append(payoffs, v)
		}
		if err := p.expect('}'); err != nil {
			return err
		}
		if len(payoffs) != g.NumPlayers() {
			return p.errorf("outcome %q has %d payoffs for %d players", label, len(payoffs), g.NumPlayers())
		}

		o := g.NewOutcome()
		o.SetLabel(label)
		for i, v := range payoffs {
			if err := o.SetPayoff(g.Player(i+1), v); err != nil {
				return err
			}
		}
	}
	if err := p.expect('}'); err != nil {
		return err
	}

	it := gamekit.NewContingencyIter(g, nil)
	for it.Next() {
		number, err := p.integer()
		if err != nil {
			return err
		}
		if number == 0 {
			continue
		}
		o := g.Outcome(number)
		if o == nil {
			return p.errorf("no outcome %d", number)
		}
		if err := it.Contingency().SetOutcome(o); err != nil {
			return err
		}
	}
	return nil
}
