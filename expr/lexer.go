package expr

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/pkg/errors"
)

type tokenKind uint8

const (
	tokEOF tokenKind = iota
	tokNumber
	tokString
	tokIdent
	tokOp
	tokLParen
	tokRParen
)

type token struct {
	kind tokenKind
	text string // operator spelling, identifier name or decoded string
	num  float64
	pos  int
}

// lexer turns expression text into tokens. In condition mode the permissive
// boolean spellings are normalised to the canonical operators here.
type lexer struct {
	src       []rune
	pos       int
	condition bool
}

var operators = []string{
	"===", "!==", "**", "==", "!=", "<=", ">=", "&&", "||",
	"+", "-", "*", "/", "%", "<", ">", "!", "?", ":", "&", "|",
}

func tokenize(text string, condition bool) ([]token, error) {
	lx := &lexer{src: []rune(text), condition: condition}
	var toks []token
	for {
		tok, err := lx.next()
		if err != nil {
			return nil, err
		}
		toks = append(toks, tok)
		if tok.kind == tokEOF {
			return toks, nil
		}
	}
}

func (lx *lexer) next() (token, error) {
	for lx.pos < len(lx.src) && unicode.IsSpace(lx.src[lx.pos]) {
		lx.pos++
	}
	if lx.pos >= len(lx.src) {
		return token{kind: tokEOF, pos: lx.pos}, nil
	}

	start := lx.pos
	r := lx.src[lx.pos]
	switch {
	case r >= '0' && r <= '9' || (r == '.' && lx.peekDigit(1)):
		return lx.number()
	case r == '\'' || r == '"':
		return lx.quoted(r)
	case isIdentStart(r):
		for lx.pos < len(lx.src) && isIdentPart(lx.src[lx.pos]) {
			lx.pos++
		}
		name := string(lx.src[start:lx.pos])
		if lx.condition {
			switch strings.ToLower(name) {
			case "and":
				return token{kind: tokOp, text: "&&", pos: start}, nil
			case "or":
				return token{kind: tokOp, text: "||", pos: start}, nil
			case "not":
				return token{kind: tokOp, text: "!", pos: start}, nil
			}
			switch name {
			case "True":
				name = "true"
			case "False":
				name = "false"
			}
		}
		return token{kind: tokIdent, text: name, pos: start}, nil
	case r == '(':
		lx.pos++
		return token{kind: tokLParen, text: "(", pos: start}, nil
	case r == ')':
		lx.pos++
		return token{kind: tokRParen, text: ")", pos: start}, nil
	}

	rest := string(lx.src[lx.pos:])
	for _, op := range operators {
		if !strings.HasPrefix(rest, op) {
			continue
		}
		lx.pos += len([]rune(op))
		switch op {
		case "&", "|":
			if !lx.condition {
				return token{}, errors.Errorf("unsupported operator %q at offset %d", op, start)
			}
			op += op
		}
		return token{kind: tokOp, text: op, pos: start}, nil
	}
	return token{}, errors.Errorf("unexpected character %q at offset %d", r, start)
}

func (lx *lexer) peekDigit(off int) bool {
	i := lx.pos + off
	return i < len(lx.src) && lx.src[i] >= '0' && lx.src[i] <= '9'
}

func (lx *lexer) number() (token, error) {
	start := lx.pos
	for lx.pos < len(lx.src) && (lx.src[lx.pos] >= '0' && lx.src[lx.pos] <= '9' || lx.src[lx.pos] == '.') {
		lx.pos++
	}
	if lx.pos < len(lx.src) && (lx.src[lx.pos] == 'e' || lx.src[lx.pos] == 'E') {
		save := lx.pos
		lx.pos++
		if lx.pos < len(lx.src) && (lx.src[lx.pos] == '+' || lx.src[lx.pos] == '-') {
			lx.pos++
		}
		if lx.peekDigit(0) {
			for lx.peekDigit(0) {
				lx.pos++
			}
		} else {
			lx.pos = save
		}
	}
	text := string(lx.src[start:lx.pos])
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return token{}, errors.Errorf("malformed number %q at offset %d", text, start)
	}
	return token{kind: tokNumber, text: text, num: f, pos: start}, nil
}

func (lx *lexer) quoted(quote rune) (token, error) {
	start := lx.pos
	lx.pos++
	var b strings.Builder
	for lx.pos < len(lx.src) {
		r := lx.src[lx.pos]
		lx.pos++
		switch r {
		case quote:
			return token{kind: tokString, text: b.String(), pos: start}, nil
		case '\\':
			if lx.pos >= len(lx.src) {
				break
			}
			esc := lx.src[lx.pos]
			lx.pos++
			switch esc {
			case 'n':
				b.WriteRune('\n')
			case 't':
				b.WriteRune('\t')
			default:
				b.WriteRune(esc)
			}
		default:
			b.WriteRune(r)
		}
	}
	return token{}, errors.Errorf("unterminated string starting at offset %d", start)
}
