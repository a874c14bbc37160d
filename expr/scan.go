package expr

import (
	"strings"
	"unicode"
)

// quoteState tracks string literal regions while walking expression text.
type quoteState struct {
	quote  rune
	escape bool
}

// step feeds r and reports whether r belongs to a string literal (including
// its delimiters).
func (q *quoteState) step(r rune) bool {
	if q.quote == 0 {
		if r == '\'' || r == '"' {
			q.quote = r
			return true
		}
		return false
	}
	switch {
	case q.escape:
		q.escape = false
	case r == '\\':
		q.escape = true
	case r == q.quote:
		q.quote = 0
	}
	return true
}

func isIdentStart(r rune) bool { return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') }
func isIdentPart(r rune) bool  { return isIdentStart(r) || (r >= '0' && r <= '9') }

// wordOperator reports whether an identifier is one of the word forms a
// condition accepts in place of a boolean operator.
func wordOperator(name string) bool {
	switch strings.ToLower(name) {
	case "and", "or", "not":
		return true
	}
	return false
}

// checkStructure rejects braces and call syntax outside string literals.
// Braces are looked for first so that "{f(x)}" reports the brace.
func checkStructure(text string, condition bool) error {
	runes := []rune(text)

	var q quoteState
	for i, r := range runes {
		if q.step(r) {
			continue
		}
		if r == '{' || r == '}' {
			return &InvalidSyntaxError{Char: r, Pos: i}
		}
	}

	q = quoteState{}
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if q.step(r) {
			continue
		}
		switch {
		case r >= '0' && r <= '9' || (r == '.' && i+1 < len(runes) && runes[i+1] >= '0' && runes[i+1] <= '9'):
			// Skip numeric literals so "1e(" is not read as a call to "e".
			for i+1 < len(runes) && (isIdentPart(runes[i+1]) || runes[i+1] == '.') {
				i++
			}
		case isIdentStart(r):
			start := i
			for i+1 < len(runes) && isIdentPart(runes[i+1]) {
				i++
			}
			name := string(runes[start : i+1])
			j := i + 1
			for j < len(runes) && unicode.IsSpace(runes[j]) {
				j++
			}
			if j < len(runes) && runes[j] == '(' {
				if condition && wordOperator(name) {
					continue
				}
				return &DisallowedCallError{Name: name}
			}
		}
	}
	return nil
}

// SplitTopLevel splits text on sep where sep is outside string literals and
// parentheses. Parts are trimmed; empty parts are kept.
func SplitTopLevel(text string, sep rune) []string {
	var (
		parts []string
		depth int
		q     quoteState
		cur   strings.Builder
	)
	for _, r := range text {
		if q.step(r) {
			cur.WriteRune(r)
			continue
		}
		switch {
		case r == '(':
			depth++
		case r == ')' && depth > 0:
			depth--
		case r == sep && depth == 0:
			parts = append(parts, strings.TrimSpace(cur.String()))
			cur.Reset()
			continue
		}
		cur.WriteRune(r)
	}
	return append(parts, strings.TrimSpace(cur.String()))
}
