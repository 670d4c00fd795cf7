package main

import (
	"flag"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/pkg/errors"

	"github.com/timpalpant/gamekit/numeric"
)

// Config holds the elimination options. Environment variables supply the
// defaults and flags override them.
type Config struct {
	Strong      bool              `env:"GAMEKIT_STRONG"`
	Conditional bool              `env:"GAMEKIT_CONDITIONAL"`
	Mixed       bool              `env:"GAMEKIT_MIXED"`
	Precision   numeric.Precision `env:"GAMEKIT_PRECISION" envDefault:"rational"`
	Timeout     time.Duration     `env:"GAMEKIT_TIMEOUT" envDefault:"1m"`
	MaxRounds   int               `env:"GAMEKIT_MAX_ROUNDS" envDefault:"0"`

	NormalForm bool
	Verbose    bool
	Path       string
}

// ParseConfig parses the environment and then args into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, errors.Wrap(err, "parse env")
	}

	fs.BoolVar(&cfg.Strong, "strong", cfg.Strong, "Eliminate only strictly dominated strategies (default: GAMEKIT_STRONG)")
	fs.BoolVar(&cfg.Conditional, "conditional", cfg.Conditional, "Use conditional dominance for actions (default: GAMEKIT_CONDITIONAL)")
	fs.BoolVar(&cfg.Mixed, "mixed", cfg.Mixed, "Also eliminate strategies dominated by mixtures (default: GAMEKIT_MIXED)")
	fs.TextVar(&cfg.Precision, "precision", cfg.Precision, "Arithmetic for mixed dominance: rational or float (default: GAMEKIT_PRECISION)")
	fs.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "Give up after this long, 0 for no limit (default: GAMEKIT_TIMEOUT)")
	fs.IntVar(&cfg.MaxRounds, "max_rounds", cfg.MaxRounds, "Stop after this many rounds, 0 for no limit (default: GAMEKIT_MAX_ROUNDS)")
	fs.BoolVar(&cfg.NormalForm, "normal", false, "Eliminate strategies of the reduced normal form of tree games")
	fs.BoolVar(&cfg.Verbose, "trace", false, "Print every eliminated strategy or action")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if fs.NArg() != 1 {
		return Config{}, errors.New("expected exactly one game file")
	}
	cfg.Path = fs.Arg(0)
	if cfg.MaxRounds < 0 {
		return Config{}, errors.Errorf("invalid max_rounds %d", cfg.MaxRounds)
	}
	if cfg.Mixed && cfg.Conditional {
		return Config{}, errors.New("mixed dominance applies to strategies, conditional dominance to actions")
	}
	return cfg, nil
}
