// Package numeric holds the precision policy used by numerical routines and
// helpers to read and write exact rational numbers.
package numeric

import (
	"math/big"
	"strings"

	"github.com/pkg/errors"
)

// Precision selects the arithmetic used by a numerical routine. Callers
// choose it; routines never substitute one for the other.
type Precision int

const (
	// Rational computes exactly with big.Rat.
	Rational Precision = iota
	// Float computes with float64 and compares with Epsilon tolerance.
	Float
)

// Epsilon is the tolerance of Float comparisons.
const Epsilon = 1e-9

var precisionStr = [...]string{
	"rational",
	"float",
}

func (p Precision) String() string {
	if p < 0 || int(p) >= len(precisionStr) {
		return "invalid"
	}
	return precisionStr[p]
}

// ParsePrecision parses "rational" or "float".
func ParsePrecision(s string) (Precision, error) {
	for i, name := range precisionStr {
		if strings.EqualFold(s, name) {
			return Precision(i), nil
		}
	}
	return 0, errors.Errorf("unknown precision %q", s)
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Precision) UnmarshalText(text []byte) error {
	v, err := ParsePrecision(string(text))
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (p Precision) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// ParseRat parses an integer, a fraction such as "-3/4", or a decimal
// such as "0.25" or "1e-3" as an exact rational.
func ParseRat(s string) (*big.Rat, error) {
	r, ok := new(big.Rat).SetString(strings.TrimSpace(s))
	if !ok {
		return nil, errors.Errorf("invalid number %q", s)
	}
	return r, nil
}

// FormatRat writes r as an integer if it is one and as a fraction
// otherwise.
func FormatRat(r *big.Rat) string {
	return r.RatString()
}

// FormatDecimal writes r rounded to the given number of decimal places.
func FormatDecimal(r *big.Rat, places int) string {
	return r.FloatString(places)
}

// ToFloat converts r to the nearest float64.
func ToFloat(r *big.Rat) float64 {
	f, _ := r.Float64()
	return f
}
