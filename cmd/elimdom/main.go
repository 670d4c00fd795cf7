// Command elimdom iteratively eliminates dominated strategies or actions
// from a game file and writes what survives.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/golang/glog"
	"github.com/pkg/errors"

	"github.com/timpalpant/gamekit"
	"github.com/timpalpant/gamekit/gamefile"
	"github.com/timpalpant/gamekit/matrixgame"
	"github.com/timpalpant/gamekit/support"
)

func main() {
	cfg, err := ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "elimdom: %v\n", err)
		os.Exit(2)
	}

	g, err := gamefile.ReadFile(cfg.Path)
	if err != nil {
		glog.Exitf("Unable to load game: %v", err)
	}

	ctx := context.Background()
	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	var trace io.Writer
	if cfg.Verbose {
		trace = os.Stderr
	}
	if err := run(ctx, cfg, g, os.Stdout, trace); err != nil {
		if errors.Is(err, support.ErrCancelled) {
			glog.Exitf("Gave up after %v", cfg.Timeout)
		}
		glog.Exit(err)
	}
}

// run eliminates dominated strategies of a matrix game (or of the reduced
// normal form of a tree game when asked to) or dominated actions of a tree
// game, writing the surviving game or support to out.
func run(ctx context.Context, cfg Config, g *gamekit.Game, out, trace io.Writer) error {
	if g.IsMatrix() || cfg.NormalForm || cfg.Mixed {
		s, err := eliminateStrategies(ctx, cfg, support.NewNfgSupport(g), trace)
		if err != nil {
			return err
		}
		if err := gamefile.WriteNfgRestricted(out, g, s); err != nil {
			return err
		}
		if g.NumPlayers() == 2 {
			m, err := matrixgame.FromSpace(g, s)
			if err != nil {
				return err
			}
			fmt.Fprintln(out)
			return m.Format(out)
		}
		return nil
	}

	s, err := support.NewEfgSupport(g)
	if err != nil {
		return err
	}
	s, err = eliminateActions(ctx, cfg, s, trace)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, s)
	return err
}

func eliminateStrategies(ctx context.Context, cfg Config, s *support.NfgSupport, trace io.Writer) (*support.NfgSupport, error) {
	for round := 1; cfg.MaxRounds == 0 || round <= cfg.MaxRounds; round++ {
		var next *support.NfgSupport
		var err error
		if cfg.Mixed {
			next, err = s.MixedUndominated(ctx, cfg.Strong, cfg.Precision, nil, trace)
		} else {
			next, err = s.Undominated(ctx, cfg.Strong, nil, trace)
		}
		if err != nil {
			return nil, err
		}
		glog.Infof("Round %d: %v strategies remain", round, next.NumStrategies())
		if next.Equal(s) {
			return next, nil
		}
		s = next
	}
	return s, nil
}

func eliminateActions(ctx context.Context, cfg Config, s *support.EfgSupport, trace io.Writer) (*support.EfgSupport, error) {
	for round := 1; cfg.MaxRounds == 0 || round <= cfg.MaxRounds; round++ {
		next, err := s.Undominated(ctx, cfg.Strong, cfg.Conditional, nil, trace)
		if err != nil {
			return nil, err
		}
		sequences, err := next.TotalNumSequences()
		if err != nil {
			return nil, err
		}
		glog.Infof("Round %d: %d sequences remain", round, sequences)
		if next.Equal(s) {
			return next, nil
		}
		s = next
	}
	return s, nil
}
