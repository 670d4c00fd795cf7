package support

import (
	"context"
	"fmt"
	"strings"

	"github.com/golang/glog"
	"github.com/pkg/errors"

	"github.com/timpalpant/gamekit"
	"github.com/timpalpant/gamekit/internal/lp"
	"github.com/timpalpant/gamekit/numeric"
)

var (
	ratField   = lp.Rat{}
	floatField = lp.Float{Epsilon: numeric.Epsilon}
)

// mixedDominatedBy decides whether a strategy is dominated by a mixture of
// its rivals, computing in field f.
func mixedDominatedBy[T any](s *NfgSupport, f lp.Field[T], strong bool) dominatedByFunc[*gamekit.Strategy] {
	return func(ctx context.Context, st *gamekit.Strategy, rivals []*gamekit.Strategy) (string, bool, error) {
		if len(rivals) == 0 {
			return "", false, nil
		}

		diffs, err := payoffDifferences(ctx, s, f, st, rivals)
		if err != nil {
			return "", false, err
		}

		var dominated bool
		var weights []T
		if strong {
			dominated, weights, err = strongMixture(ctx, f, diffs)
		} else {
			dominated, weights, err = weakMixture(ctx, f, diffs)
		}
		if err != nil {
			if ctx.Err() != nil {
				return "", false, ErrCancelled
			}
			return "", false, errors.Wrapf(err, "mixed dominance of %v", st)
		}
		if !dominated {
			return "", false, nil
		}
		return describeMixture(f, rivals, weights), true, nil
	}
}

// payoffDifferences returns, for each contingency of the other players,
// the payoff of each rival minus the payoff of st.
func payoffDifferences[T any](ctx context.Context, s *NfgSupport, f lp.Field[T], st *gamekit.Strategy, rivals []*gamekit.Strategy) ([][]T, error) {
	p := st.Player()
	it := gamekit.NewContingencyIter(s.game, s)
	if err := it.Freeze(st); err != nil {
		return nil, err
	}

	var diffs [][]T
	for it.Next() {
		if err := checkContext(ctx); err != nil {
			return nil, err
		}

		c := it.Contingency()
		base, err := c.Payoff(p)
		if err != nil {
			return nil, err
		}
		row := make([]T, len(rivals))
		for k, t := range rivals {
			if err := c.SetStrategy(t); err != nil {
				return nil, err
			}
			v, err := c.Payoff(p)
			if err != nil {
				return nil, err
			}
			row[k] = f.FromRat(v.Sub(v, base))
		}
		if err := c.SetStrategy(st); err != nil {
			return nil, err
		}
		dominanceComparisons.Add(int64(len(rivals)))
		diffs = append(diffs, row)
	}
	return diffs, nil
}

// strongMixture decides whether some mixture of the rivals earns a
// strictly positive difference in every contingency, i.e. whether the
// zero-sum game with payoff matrix diffs (rows: contingencies, columns:
// rivals, maximizer choosing columns) has positive value.
//
// Shifting every entry by K = 1 - min(diffs) makes the matrix positive.
// The value of the shifted game is then 1/z, where z is the optimum of
//
//	maximize sum(x) subject to shifted^T x <= 1, x >= 0
//
// and the maximizer's optimal mixture is the normalized dual solution.
// The original value 1/z - K is positive exactly when z*K < 1.
func strongMixture[T any](ctx context.Context, f lp.Field[T], diffs [][]T) (bool, []T, error) {
	numRivals := len(diffs[0])
	lowest := diffs[0][0]
	for _, row := range diffs {
		for _, d := range row {
			if f.Sign(f.Sub(d, lowest)) < 0 {
				lowest = d
			}
		}
	}
	shift := f.Sub(f.One(), lowest)

	A := make([][]T, numRivals)
	b := make([]T, numRivals)
	for k := range A {
		A[k] = make([]T, len(diffs))
		for c, row := range diffs {
			A[k][c] = f.Add(row[k], shift)
		}
		b[k] = f.One()
	}
	obj := make([]T, len(diffs))
	for c := range obj {
		obj[c] = f.One()
	}

	sol, err := lp.Maximize(ctx, f, obj, A, b)
	if err != nil {
		return false, nil, err
	}
	glog.V(2).Infof("Strong mixed dominance LP: %d pivots", sol.Pivots)

	dominated := f.Sign(f.Sub(f.One(), f.Mul(sol.Value, shift))) > 0
	return dominated, normalize(f, sol.Dual), nil
}

// weakMixture decides whether some mixture of the rivals earns a
// nonnegative difference in every contingency and a positive one in some,
// by solving
//
//	maximize sum over contingencies of sigma·diffs[c]
//	subject to -sigma·diffs[c] <= 0 for every c, sum(sigma) <= 1, sigma >= 0
//
// A positive optimum is attained by a dominating mixture.
func weakMixture[T any](ctx context.Context, f lp.Field[T], diffs [][]T) (bool, []T, error) {
	numRivals := len(diffs[0])
	A := make([][]T, 0, len(diffs)+1)
	b := make([]T, 0, len(diffs)+1)
	obj := make([]T, numRivals)
	for k := range obj {
		obj[k] = f.Zero()
	}

	for _, row := range diffs {
		constraint := make([]T, numRivals)
		for k, d := range row {
			constraint[k] = f.Sub(f.Zero(), d)
			obj[k] = f.Add(obj[k], d)
		}
		A = append(A, constraint)
		b = append(b, f.Zero())
	}
	total := make([]T, numRivals)
	for k := range total {
		total[k] = f.One()
	}
	A = append(A, total)
	b = append(b, f.One())

	sol, err := lp.Maximize(ctx, f, obj, A, b)
	if err != nil {
		return false, nil, err
	}
	glog.V(2).Infof("Weak mixed dominance LP: %d pivots", sol.Pivots)

	return f.Sign(sol.Value) > 0, normalize(f, sol.X), nil
}

func normalize[T any](f lp.Field[T], v []T) []T {
	total := f.Zero()
	for _, x := range v {
		total = f.Add(total, x)
	}
	result := make([]T, len(v))
	for i, x := range v {
		if f.Sign(total) == 0 {
			result[i] = f.Zero()
		} else {
			result[i] = f.Div(x, total)
		}
	}
	return result
}

func describeMixture[T any](f lp.Field[T], rivals []*gamekit.Strategy, weights []T) string {
	var parts []string
	for k, w := range weights {
		if f.Sign(w) == 0 {
			continue
		}
		parts = append(parts, fmt.Sprintf("%v@%v", rivals[k].Label(), w))
	}
	return "mixture {" + strings.Join(parts, " ") + "}"
}
