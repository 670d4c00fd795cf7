package lp

import (
	"math/big"
)

// Field is the arithmetic a tableau is computed in. Operations return new
// values and never modify their arguments.
type Field[T any] interface {
	Zero() T
	One() T
	FromRat(r *big.Rat) T
	Add(a, b T) T
	Sub(a, b T) T
	Mul(a, b T) T
	Div(a, b T) T
	// Sign returns -1, 0 or +1. Inexact fields treat values within their
	// tolerance of zero as zero.
	Sign(a T) int
}

// Rat is exact arithmetic over big.Rat.
type Rat struct{}

func (Rat) Zero() *big.Rat {
	return new(big.Rat)
}

func (Rat) One() *big.Rat {
	return big.NewRat(1, 1)
}

func (Rat) FromRat(r *big.Rat) *big.Rat {
	return new(big.Rat).Set(r)
}

func (Rat) Add(a, b *big.Rat) *big.Rat {
	return new(big.Rat).Add(a, b)
}

func (Rat) Sub(a, b *big.Rat) *big.Rat {
	return new(big.Rat).Sub(a, b)
}

func (Rat) Mul(a, b *big.Rat) *big.Rat {
	return new(big.Rat).Mul(a, b)
}

func (Rat) Div(a, b *big.Rat) *big.Rat {
	return new(big.Rat).Quo(a, b)
}

func (Rat) Sign(a *big.Rat) int {
	return a.Sign()
}

// Float is float64 arithmetic; values within Epsilon of zero are zero.
type Float struct {
	Epsilon float64
}

func (Float) Zero() float64 {
	return 0
}

func (Float) One() float64 {
	return 1
}

func (Float) FromRat(r *big.Rat) float64 {
	f, _ := r.Float64()
	return f
}

func (Float) Add(a, b float64) float64 {
	return a + b
}

func (Float) Sub(a, b float64) float64 {
	return a - b
}

func (Float) Mul(a, b float64) float64 {
	return a * b
}

func (Float) Div(a, b float64) float64 {
	return a / b
}

func (f Float) Sign(a float64) int {
	switch {
	case a > f.Epsilon:
		return 1
	case a < -f.Epsilon:
		return -1
	default:
		return 0
	}
}
