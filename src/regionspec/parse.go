package regionspec

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseError reports malformed region text with the offending token and the
// grammar fragment that was expected at that position.
type ParseError struct {
	Input    string
	Pos      int
	Token    string
	Expected string
}

func (e *ParseError) Error() string {
	tok := e.Token
	if tok == "" {
		tok = "end of input"
	} else {
		tok = strconv.Quote(tok)
	}
	return fmt.Sprintf("invalid region %q at position %d: found %s, expected %s (format %s, or %q)",
		e.Input, e.Pos, tok, e.Expected, Grammar, FullAlias)
}

type parser struct {
	src string
	pos int
}

// Parse reads a region spec. Numbers written with a decimal point are
// fractions of the canvas and must lie in [0,1]; integers are pixels.
func Parse(text string) (Spec, error) {
	s := strings.TrimSpace(text)
	if s == FullAlias {
		return Full(), nil
	}

	p := &parser{src: s}
	var spec Spec
	var err error

	if spec.Width, err = p.length("<width>"); err != nil {
		return Spec{}, err
	}
	if err = p.expect('x', "'x' between width and height"); err != nil {
		return Spec{}, err
	}
	if spec.Height, err = p.length("<height>"); err != nil {
		return Spec{}, err
	}
	if err = p.expect('+', "'+' before x"); err != nil {
		return Spec{}, err
	}
	if spec.X, err = p.length("<x>"); err != nil {
		return Spec{}, err
	}
	if err = p.expect('+', "'+' before y"); err != nil {
		return Spec{}, err
	}
	if spec.Y, err = p.length("<y>"); err != nil {
		return Spec{}, err
	}

	for !p.done() {
		if spec.Shifts == 2 {
			return Spec{}, p.errorf(p.src[p.pos:], "end of input after two shifts")
		}
		pct, err := p.shift()
		if err != nil {
			return Spec{}, err
		}
		if spec.Shifts == 0 {
			spec.ShiftX = pct
		} else {
			spec.ShiftY = pct
		}
		spec.Shifts++
	}
	return spec, nil
}

func (p *parser) done() bool { return p.pos >= len(p.src) }

func (p *parser) errorf(token, expected string) *ParseError {
	return &ParseError{Input: p.src, Pos: p.pos, Token: token, Expected: expected}
}

// nextToken returns the run of characters up to the next separator, used to
// show the user what we choked on.
func (p *parser) nextToken() string {
	end := p.pos
	for end < len(p.src) && !strings.ContainsRune("x+-%", rune(p.src[end])) {
		end++
	}
	if end == p.pos && end < len(p.src) {
		end++
	}
	return p.src[p.pos:end]
}

func (p *parser) expect(c byte, expected string) error {
	if p.done() || p.src[p.pos] != c {
		return p.errorf(p.nextToken(), expected)
	}
	p.pos++
	return nil
}

func (p *parser) number() string {
	start := p.pos
	for !p.done() && (isDigit(p.src[p.pos]) || p.src[p.pos] == '.') {
		p.pos++
	}
	return p.src[start:p.pos]
}

func (p *parser) length(field string) (Length, error) {
	start := p.pos
	num := p.number()
	if num == "" {
		return Length{}, p.errorf(p.nextToken(), field+" as integer pixels or a fraction like 0.5")
	}
	if strings.Contains(num, ".") {
		v, err := strconv.ParseFloat(num, 64)
		if err != nil || v < 0 || v > 1 {
			p.pos = start
			return Length{}, p.errorf(num, field+" fraction within [0,1]")
		}
		return Relative(v), nil
	}
	v, err := strconv.ParseUint(num, 10, 32)
	if err != nil {
		p.pos = start
		return Length{}, p.errorf(num, field+" as integer pixels")
	}
	return Absolute(float64(v)), nil
}

func (p *parser) shift() (float64, error) {
	if p.src[p.pos] != '+' && p.src[p.pos] != '-' {
		return 0, p.errorf(p.nextToken(), "shift starting with '+' or '-'")
	}
	negative := p.src[p.pos] == '-'
	p.pos++

	start := p.pos
	num := p.number()
	if num == "" {
		return 0, p.errorf(p.nextToken(), "shift percentage digits")
	}
	v, err := strconv.ParseFloat(num, 64)
	if err != nil {
		p.pos = start
		return 0, p.errorf(num, "shift percentage digits")
	}
	if p.done() || p.src[p.pos] != '%' {
		return 0, p.errorf(p.nextToken(), "'%' after shift percentage")
	}
	p.pos++
	if negative {
		v = -v
	}
	return v, nil
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// Flag adapts Spec to a command-line flag value.
type Flag struct {
	Spec *Spec
}

func (f *Flag) Set(text string) error {
	spec, err := Parse(text)
	if err != nil {
		return err
	}
	f.Spec = &spec
	return nil
}

func (f *Flag) String() string {
	if f == nil || f.Spec == nil {
		return ""
	}
	return f.Spec.String()
}

func (f *Flag) Type() string { return "WxH+X+Y" }
