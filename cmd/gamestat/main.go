// Command gamestat prints summary statistics of a game file.
package main

import (
	_ "expvar"
	"flag"
	"fmt"
	"math/rand"
	"net/http"
	_ "net/http/pprof"
	"os"

	"github.com/golang/glog"
	"github.com/timpalpant/go-cfr"
	"github.com/timpalpant/go-cfr/tree"

	"github.com/timpalpant/gamekit"
	"github.com/timpalpant/gamekit/gamefile"
	"github.com/timpalpant/gamekit/matrixgame"
)

func main() {
	seed := flag.Int64("seed", 123, "Random seed for sampling chance nodes")
	httpAddr := flag.String("http", "", "Address to serve expvar and pprof on, if any")
	showMatrix := flag.Bool("matrix", false, "Print the payoff matrix of two-player games")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: gamestat [flags] game.efg|game.nfg")
		os.Exit(2)
	}
	if *httpAddr != "" {
		go http.ListenAndServe(*httpAddr, nil)
	}

	g, err := gamefile.ReadFile(flag.Arg(0))
	if err != nil {
		glog.Exitf("Unable to load game: %v", err)
	}

	fmt.Printf("Game: %q (%s)\n", g.Label(), g.ID())
	for _, p := range g.Players() {
		fmt.Printf("Player %d %q: %d strategies\n", p.ID(), p.Label(), p.NumStrategies())
	}
	fmt.Printf("Contingencies: %d\n", g.NumContingencies())
	fmt.Printf("Outcomes: %d\n", g.NumOutcomes())
	fmt.Printf("Constant sum: %v\n", g.IsConstSum())
	fmt.Printf("Payoff range: [%s, %s]\n", g.MinPayoff().RatString(), g.MaxPayoff().RatString())

	if g.IsTree() {
		if err := printTreeStats(g, rand.New(rand.NewSource(*seed))); err != nil {
			glog.Exitf("Unable to traverse game: %v", err)
		}
	}

	if *showMatrix && g.NumPlayers() == 2 {
		m, err := matrixgame.FromSpace(g, nil)
		if err != nil {
			glog.Exitf("Unable to build payoff matrix: %v", err)
		}
		if err := m.Format(os.Stdout); err != nil {
			glog.Exit(err)
		}
	}
}

func printTreeStats(g *gamekit.Game, rng *rand.Rand) error {
	fmt.Printf("Nodes: %d (%d terminal)\n", g.NumNodes(), len(g.TerminalNodes()))
	fmt.Printf("Infosets per player: %v\n", g.NumInfosets())
	fmt.Printf("Perfect recall: %v\n", g.IsPerfectRecall())
	if s, nodes := g.RecallViolation(); s != nil {
		fmt.Printf("  %v is reached by %v and %v with different histories\n", s, nodes[0], nodes[1])
	}
	fmt.Printf("Subgame roots: %d\n", len(g.SubgameRoots()))

	root, err := g.AsCFR(rng)
	if err != nil {
		return err
	}
	glog.Infof("Traversing game tree with go-cfr")
	maxDepth, histories := 0, 0
	infosets := make(map[string]struct{})
	tree.Visit(root, func(node cfr.GameTreeNode) {
		switch node.Type() {
		case cfr.TerminalNodeType:
			histories++
		case cfr.PlayerNodeType:
			is := node.InfoSet(node.Player())
			infosets[is.Key()] = struct{}{}
		}

		depth := 0
		for p := node.Parent(); p != nil; p = p.Parent() {
			depth++
		}
		if depth > maxDepth {
			maxDepth = depth
		}
	})
	fmt.Printf("Depth: %d\n", maxDepth)
	fmt.Printf("Personal infosets reached: %d\n", len(infosets))
	fmt.Printf("Histories: %d\n", histories)
	return nil
}
