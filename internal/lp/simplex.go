// Package lp solves small linear programs with the simplex method, either
// exactly or in floating point.
package lp

import (
	"context"

	"github.com/golang/glog"
	"github.com/pkg/errors"
)

var (
	ErrUnbounded  = errors.New("lp: objective is unbounded")
	ErrInfeasible = errors.New("lp: origin is not feasible")
)

// Solution is an optimal basic solution of a linear program.
type Solution[T any] struct {
	Value T
	X     []T
	// Dual holds the optimal dual value of each constraint.
	Dual []T
	// Pivots is the number of simplex pivots performed.
	Pivots int
}

// Maximize solves
//
//	maximize c·x subject to A x <= b, x >= 0
//
// for b >= 0, so that the origin is feasible. Pivots follow Bland's rule,
// which rules out cycling. ctx is checked before every pivot.
func Maximize[T any](ctx context.Context, f Field[T], c []T, A [][]T, b []T) (*Solution[T], error) {
	m, n := len(A), len(c)
	if len(b) != m {
		return nil, errors.Errorf("lp: %d constraints, %d bounds", m, len(b))
	}
	for i := range b {
		if len(A[i]) != n {
			return nil, errors.Errorf("lp: constraint %d has %d coefficients, want %d", i, len(A[i]), n)
		}
		if f.Sign(b[i]) < 0 {
			return nil, errors.Wrapf(ErrInfeasible, "bound %d is negative", i)
		}
	}

	t := newTableau(f, c, A, b)
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		enter := t.entering()
		if enter < 0 {
			break
		}
		leave := t.leaving(enter)
		if leave < 0 {
			return nil, ErrUnbounded
		}
		t.pivot(leave, enter)
	}

	if glog.V(3) {
		glog.Infof("lp: optimum after %d pivots", t.pivots)
	}
	return t.solution(), nil
}

// tableau is a dense simplex tableau. Columns 0..n-1 are the decision
// variables, n..n+m-1 the slacks and the last column the right-hand side.
// The objective row holds the negated reduced costs.
type tableau[T any] struct {
	f      Field[T]
	n      int
	rows   [][]T
	obj    []T
	basis  []int
	pivots int
}

func newTableau[T any](f Field[T], c []T, A [][]T, b []T) *tableau[T] {
	m, n := len(A), len(c)
	width := n + m + 1
	t := &tableau[T]{
		f:     f,
		n:     n,
		rows:  make([][]T, m),
		obj:   make([]T, width),
		basis: make([]int, m),
	}
	for i := range A {
		row := make([]T, width)
		for j := range row {
			row[j] = f.Zero()
		}
		copy(row, A[i])
		row[n+i] = f.One()
		row[width-1] = b[i]
		t.rows[i] = row
		t.basis[i] = n + i
	}
	for j := range t.obj {
		t.obj[j] = f.Zero()
	}
	for j, v := range c {
		t.obj[j] = f.Sub(f.Zero(), v)
	}
	return t
}

// entering returns the lowest column with a negative objective entry, or
// -1 at optimality.
func (t *tableau[T]) entering() int {
	for j := 0; j < len(t.obj)-1; j++ {
		if t.f.Sign(t.obj[j]) < 0 {
			return j
		}
	}
	return -1
}

// leaving returns the row passing the minimum ratio test for column j,
// breaking ties by the lowest basic variable, or -1 if j is unbounded.
func (t *tableau[T]) leaving(j int) int {
	rhs := len(t.obj) - 1
	best := -1
	var bestRatio T
	for i, row := range t.rows {
		if t.f.Sign(row[j]) <= 0 {
			continue
		}
		ratio := t.f.Div(row[rhs], row[j])
		if best < 0 {
			best, bestRatio = i, ratio
			continue
		}
		switch t.f.Sign(t.f.Sub(ratio, bestRatio)) {
		case -1:
			best, bestRatio = i, ratio
		case 0:
			if t.basis[i] < t.basis[best] {
				best, bestRatio = i, ratio
			}
		}
	}
	return best
}

func (t *tableau[T]) pivot(r, j int) {
	t.pivots++
	f := t.f
	row := t.rows[r]
	p := row[j]
	for k := range row {
		row[k] = f.Div(row[k], p)
	}

	eliminate := func(other []T) {
		factor := other[j]
		if f.Sign(factor) == 0 {
			return
		}
		for k := range other {
			other[k] = f.Sub(other[k], f.Mul(factor, row[k]))
		}
	}
	for i, other := range t.rows {
		if i != r {
			eliminate(other)
		}
	}
	eliminate(t.obj)
	t.basis[r] = j
}

func (t *tableau[T]) solution() *Solution[T] {
	rhs := len(t.obj) - 1
	x := make([]T, t.n)
	for j := range x {
		x[j] = t.f.Zero()
	}
	for i, j := range t.basis {
		if j < t.n {
			x[j] = t.rows[i][rhs]
		}
	}
	dual := make([]T, len(t.rows))
	copy(dual, t.obj[t.n:rhs])
	return &Solution[T]{Value: t.obj[rhs], X: x, Dual: dual, Pivots: t.pivots}
}
