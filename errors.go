package gamekit

import (
	"github.com/pkg/errors"
)

var (
	// ErrStructural is returned when an edit would break the structure of the
	// game: mismatched action counts, deleting the root, or passing an entity
	// that belongs to another game. The game is left unchanged.
	ErrStructural = errors.New("structural violation")
	// ErrInvalidState is returned when a handle (entity, strategy,
	// contingency or support) no longer matches the game it was taken from.
	ErrInvalidState = errors.New("invalid state")
)

func structuralf(format string, args ...interface{}) error {
	return errors.Wrapf(ErrStructural, format, args...)
}

func staleErrorf(format string, args ...interface{}) error {
	return errors.Wrapf(ErrInvalidState, format, args...)
}
