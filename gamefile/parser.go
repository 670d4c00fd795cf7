package gamefile

import (
	"fmt"
	"io"
	"math/big"
	"strconv"
	"strings"
	"text/scanner"

	"github.com/pkg/errors"

	"github.com/timpalpant/gamekit/numeric"
)

// ErrSyntax is returned, wrapped with the position of the problem, when a
// game file cannot be parsed.
var ErrSyntax = errors.New("gamefile: syntax error")

// parser reads the tokens shared by both file formats: identifiers,
// quoted strings, integers, rational numbers and braces.
type parser struct {
	s   scanner.Scanner
	tok rune
	err error
}

func newParser(r io.Reader, filename string) *parser {
	p := &parser{}
	p.s.Init(r)
	p.s.Filename = filename
	p.s.Mode = scanner.ScanIdents | scanner.ScanInts | scanner.ScanFloats | scanner.ScanStrings
	p.s.Error = func(s *scanner.Scanner, msg string) {
		if p.err == nil {
			p.err = errors.Wrapf(ErrSyntax, "%v: %s", s.Position, msg)
		}
	}
	p.next()
	return p
}

func (p *parser) next() {
	p.tok = p.s.Scan()
	for p.tok == ',' {
		p.tok = p.s.Scan()
	}
}

func (p *parser) errorf(format string, args ...interface{}) error {
	if p.err != nil {
		return p.err
	}
	return errors.Wrapf(ErrSyntax, "%v: %s", p.s.Position, fmt.Sprintf(format, args...))
}

func (p *parser) expect(tok rune) error {
	if p.tok != tok {
		return p.errorf("expected %s, found %q", scanner.TokenString(tok), p.s.TokenText())
	}
	p.next()
	return nil
}

func (p *parser) ident() (string, error) {
	if p.tok != scanner.Ident {
		return "", p.errorf("expected identifier, found %q", p.s.TokenText())
	}
	text := p.s.TokenText()
	p.next()
	return text, nil
}

func (p *parser) str() (string, error) {
	if p.tok != scanner.String {
		return "", p.errorf("expected string, found %q", p.s.TokenText())
	}
	text, err := strconv.Unquote(p.s.TokenText())
	if err != nil {
		return "", p.errorf("invalid string %s: %v", p.s.TokenText(), err)
	}
	p.next()
	return text, nil
}

func (p *parser) integer() (int, error) {
	if p.tok != scanner.Int {
		return 0, p.errorf("expected integer, found %q", p.s.TokenText())
	}
	n, err := strconv.Atoi(p.s.TokenText())
	if err != nil {
		return 0, p.errorf("invalid integer %s: %v", p.s.TokenText(), err)
	}
	p.next()
	return n, nil
}

// number reads an optionally negative integer, decimal or fraction.
func (p *parser) number() (*big.Rat, error) {
	var sb strings.Builder
	if p.tok == '-' {
		sb.WriteByte('-')
		p.next()
	}
	if p.tok != scanner.Int && p.tok != scanner.Float {
		return nil, p.errorf("expected number, found %q", p.s.TokenText())
	}
	sb.WriteString(p.s.TokenText())
	isInt := p.tok == scanner.Int
	p.next()

	if isInt && p.tok == '/' {
		p.next()
		if p.tok != scanner.Int {
			return nil, p.errorf("expected denominator, found %q", p.s.TokenText())
		}
		sb.WriteByte('/')
		sb.WriteString(p.s.TokenText())
		p.next()
	}

	r, err := numeric.ParseRat(sb.String())
	if err != nil {
		return nil, p.errorf("%v", err)
	}
	return r, nil
}

// stringList reads a braced list of strings.
func (p *parser) stringList() ([]string, error) {
	if err := p.expect('{'); err != nil {
		return nil, err
	}
	var result []string
	for p.tok == scanner.String {
		s, err := p.str()
		if err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	if err := p.expect('}'); err != nil {
		return nil, err
	}
	return result, nil
}

// numberList reads a braced list of numbers.
func (p *parser) numberList() ([]*big.Rat, error) {
	if err := p.expect('{'); err != nil {
		return nil, err
	}
	var result []*big.Rat
	for p.tok != '}' && p.tok != scanner.EOF {
		v, err := p.number()
		if err != nil {
			return nil, err
		}
		result = append(result, v)
	}
	if err := p.expect('}'); err != nil {
		return nil, err
	}
	return result, nil
}

// header reads the common header: the format tag, its version, the
// number type, the game label and the player labels.
func (p *parser) header(tag string, version int) (string, []string, error) {
	got, err := p.ident()
	if err != nil {
		return "", nil, err
	}
	if got != tag {
		return "", nil, p.errorf("expected %s file, found %q", tag, got)
	}
	v, err := p.integer()
	if err != nil {
		return "", nil, err
	}
	if v != version {
		return "", nil, p.errorf("unsupported %s version %d", tag, v)
	}
	if _, err := p.ident(); err != nil {
		return "", nil, err
	}
	label, err := p.str()
	if err != nil {
		return "", nil, err
	}
	players, err := p.stringList()
	if err != nil {
		return "", nil, err
	}
	return label, players, nil
}

func quote(s string) string {
	return strconv.Quote(s)
}
