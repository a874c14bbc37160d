package expr

import (
	"math"

	"github.com/pkg/errors"
)

// Binary operator precedence, higher binds tighter. The ternary operator and
// prefix operators are handled by dedicated parse levels.
var precedence = map[string]int{
	"||":  1,
	"&&":  2,
	"==":  3,
	"!=":  3,
	"===": 3,
	"!==": 3,
	"<":   4,
	"<=":  4,
	">":   4,
	">=":  4,
	"+":   5,
	"-":   5,
	"*":   6,
	"/":   6,
	"%":   6,
}

var reserved = map[string]Value{
	"true":     Bool(true),
	"false":    Bool(false),
	"PI":       Number(math.Pi),
	"E":        Number(math.E),
	"NaN":      Number(math.NaN()),
	"Infinity": Number(math.Inf(1)),
}

type parser struct {
	toks []token
	i    int
}

func parse(toks []token) (Node, error) {
	p := &parser{toks: toks}
	n, err := p.ternary()
	if err != nil {
		return nil, err
	}
	if t := p.cur(); t.kind != tokEOF {
		return nil, errors.Errorf("unexpected %q at offset %d", t.text, t.pos)
	}
	return n, nil
}

func (p *parser) cur() token { return p.toks[p.i] }

func (p *parser) advance() token {
	t := p.toks[p.i]
	if t.kind != tokEOF {
		p.i++
	}
	return t
}

func (p *parser) isOp(op string) bool {
	t := p.cur()
	return t.kind == tokOp && t.text == op
}

func (p *parser) ternary() (Node, error) {
	cond, err := p.binary(1)
	if err != nil {
		return nil, err
	}
	if !p.isOp("?") {
		return cond, nil
	}
	p.advance()
	then, err := p.ternary()
	if err != nil {
		return nil, err
	}
	if !p.isOp(":") {
		return nil, errors.Errorf("expected ':' at offset %d", p.cur().pos)
	}
	p.advance()
	els, err := p.ternary()
	if err != nil {
		return nil, err
	}
	return &Conditional{Cond: cond, Then: then, Else: els}, nil
}

// binary parses left-associative operators of at least minPrec.
func (p *parser) binary(minPrec int) (Node, error) {
	left, err := p.unary()
	if err != nil {
		return nil, err
	}
	for {
		t := p.cur()
		prec, ok := precedence[t.text]
		if t.kind != tokOp || !ok || prec < minPrec {
			return left, nil
		}
		p.advance()
		right, err := p.binary(prec + 1)
		if err != nil {
			return nil, err
		}
		left = &BinaryOp{Op: t.text, Left: left, Right: right}
	}
}

func (p *parser) unary() (Node, error) {
	if t := p.cur(); t.kind == tokOp && (t.text == "!" || t.text == "-" || t.text == "+") {
		p.advance()
		operand, err := p.unary()
		if err != nil {
			return nil, err
		}
		return &UnaryOp{Op: t.text, Operand: operand}, nil
	}
	return p.power()
}

func (p *parser) power() (Node, error) {
	base, err := p.primary()
	if err != nil {
		return nil, err
	}
	if !p.isOp("**") {
		return base, nil
	}
	p.advance()
	exp, err := p.unary()
	if err != nil {
		return nil, err
	}
	return &BinaryOp{Op: "**", Left: base, Right: exp}, nil
}

func (p *parser) primary() (Node, error) {
	t := p.advance()
	switch t.kind {
	case tokNumber:
		return &Literal{Value: Number(t.num)}, nil
	case tokString:
		return &Literal{Value: String(t.text)}, nil
	case tokIdent:
		if v, ok := reserved[t.text]; ok {
			return &Literal{Value: v}, nil
		}
		return &ParamRef{Name: t.text}, nil
	case tokLParen:
		n, err := p.ternary()
		if err != nil {
			return nil, err
		}
		if p.cur().kind != tokRParen {
			return nil, errors.Errorf("expected ')' at offset %d", p.cur().pos)
		}
		p.advance()
		return n, nil
	case tokEOF:
		return nil, errors.New("unexpected end of expression")
	default:
		return nil, errors.Errorf("unexpected %q at offset %d", t.text, t.pos)
	}
}
