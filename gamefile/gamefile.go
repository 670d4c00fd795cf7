// Package gamefile reads and writes games in the EFG (extensive form) and
// NFG (normal form) text formats.
//
// Both formats start with a header naming the format, its version, the
// number type, the game label and the player labels:
//
//	EFG 2 R "Coin flip" { "Alice" "Bob" }
//	NFG 1 R "Matching pennies" { "Alice" "Bob" }
//
// Numbers are written exactly, as integers or fractions; decimals are
// accepted on input and converted exactly.
package gamefile

import (
	"bufio"
	"bytes"
	"io"
	"os"

	"github.com/pkg/errors"

	"github.com/timpalpant/gamekit"
)

// Read reads a game in either format, choosing the format from the header.
func Read(r io.Reader) (*gamekit.Game, error) {
	br := bufio.NewReader(r)
	head, err := br.Peek(3)
	if err != nil && len(head) < 3 {
		return nil, errors.Wrap(ErrSyntax, "missing file header")
	}

	switch {
	case bytes.Equal(head, []byte("EFG")):
		return ReadEfg(br)
	case bytes.Equal(head, []byte("NFG")):
		return ReadNfg(br)
	default:
		return nil, errors.Wrapf(ErrSyntax, "unknown file header %q", head)
	}
}

// ReadFile reads a game from the named file.
func ReadFile(filename string) (*gamekit.Game, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	g, err := Read(f)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", filename)
	}
	return g, nil
}

// Write writes a tree game as EFG and a matrix game as NFG.
func Write(w io.Writer, g *gamekit.Game) error {
	if g.IsTree() {
		return WriteEfg(w, g)
	}
	return WriteNfg(w, g)
}
