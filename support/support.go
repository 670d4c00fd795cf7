// Package support restricts games to subsets of their strategies (normal
// form) or actions (extensive form) and reduces those subsets by
// eliminating dominated strategies and actions.
//
// Supports never modify their game. They are snapshots of one revision of
// it: after a structural edit of the game, every method of an existing
// support that reads the game fails with gamekit.ErrInvalidState. The
// accessors of a support's own contents (Strategies, Actions, Contains and
// the counts) do not read the game and keep describing the support as it
// was taken; check Valid before relying on them.
package support

import (
	"context"
	"expvar"
	"fmt"
	"io"

	"github.com/golang/glog"
	"github.com/pkg/errors"

	"github.com/timpalpant/gamekit"
)

// ErrCancelled is returned when the context of a dominance computation is
// done before it completes. No support is returned with it.
var ErrCancelled = errors.New("support: cancelled")

var (
	dominanceComparisons = expvar.NewInt("dominance/comparisons")
	eliminated           = expvar.NewInt("dominance/eliminated")
)

// Support is a subset of the strategies or actions of a game.
type Support interface {
	Game() *gamekit.Game
	Label() string
	SetLabel(label string)
	// Valid reports whether the support still describes its game.
	Valid() bool
}

// snapshot is the state shared by both kinds of support.
type snapshot struct {
	game     *gamekit.Game
	revision int64
	label    string
}

func (s *snapshot) Game() *gamekit.Game {
	return s.game
}

func (s *snapshot) Label() string {
	return s.label
}

func (s *snapshot) SetLabel(label string) {
	s.label = label
}

func (s *snapshot) Valid() bool {
	return s.revision == s.game.Revision()
}

func (s *snapshot) check() error {
	if !s.Valid() {
		return errors.Wrapf(gamekit.ErrInvalidState,
			"support of game %v taken at revision %d, game is at revision %d",
			s.game.ID(), s.revision, s.game.Revision())
	}
	return nil
}

// checkContext polls ctx once per unit of work.
func checkContext(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ErrCancelled
	default:
		return nil
	}
}

// dominatedByFunc reports whether c is dominated given its rivals, and
// describes what dominates it.
type dominatedByFunc[C comparable] func(ctx context.Context, c C, rivals []C) (string, bool, error)

// eliminate runs one elimination pass: within each group, every candidate
// dominated by the other members of its group is returned. All candidates
// are judged against the groups as given, so the outcome does not depend
// on the order of the candidates.
func eliminate[C interface {
	comparable
	fmt.Stringer
}](ctx context.Context, groups [][]C, dominatedBy dominatedByFunc[C], trace io.Writer) ([]C, error) {
	if trace == nil {
		trace = io.Discard
	}

	var result []C
	for _, group := range groups {
		if len(group) < 2 {
			continue
		}

		for _, c := range group {
			if err := checkContext(ctx); err != nil {
				return nil, err
			}

			rivals := make([]C, 0, len(group)-1)
			for _, d := range group {
				if d != c {
					rivals = append(rivals, d)
				}
			}

			by, dominated, err := dominatedBy(ctx, c, rivals)
			if err != nil {
				return nil, err
			}
			if dominated {
				fmt.Fprintf(trace, "%v is dominated by %s\n", c, by)
				glog.V(2).Infof("%v is dominated by %s", c, by)
				result = append(result, c)
			}
		}
	}

	eliminated.Add(int64(len(result)))
	glog.V(1).Infof("Eliminated %d dominated candidates in %d groups", len(result), len(groups))
	return result, nil
}

// compare accumulates pairwise payoff comparisons of a candidate
// dominator against a candidate dominated option.
type compare struct {
	strong bool
	// strict records whether some comparison was a strict improvement.
	strict bool
}

// next records one comparison of payoffs a (dominator) and b (dominated).
// It returns false as soon as dominance is disproved.
func (c *compare) next(cmp int) bool {
	dominanceComparisons.Add(1)
	if c.strong {
		return cmp > 0
	}
	if cmp < 0 {
		return false
	}
	if cmp > 0 {
		c.strict = true
	}
	return true
}

// result returns whether dominance held over every recorded comparison.
func (c *compare) result() bool {
	return c.strong || c.strict
}
