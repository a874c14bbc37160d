package expr

import (
	"fmt"

	"github.com/pkg/errors"
)

// CompileError is returned when expression text cannot be compiled.
type CompileError struct {
	Text string
	Err  error
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("failed to compile expression %q: %v", e.Text, e.Err)
}

func (e *CompileError) Unwrap() error { return e.Err }

// Cause lets errors.Cause from github.com/pkg/errors reach the underlying error.
func (e *CompileError) Cause() error { return e.Err }

// DisallowedCallError rejects an expression that calls Name as a function.
type DisallowedCallError struct {
	Name string
}

func (e *DisallowedCallError) Error() string {
	return fmt.Sprintf("function calls are not allowed in expressions: %s", e.Name)
}

// InvalidSyntaxError rejects structural characters that have no meaning in an
// expression.
type InvalidSyntaxError struct {
	Char rune
	Pos  int
}

func (e *InvalidSyntaxError) Error() string {
	return fmt.Sprintf("invalid character %q at offset %d", e.Char, e.Pos)
}

// ErrEmpty is the cause of a CompileError for blank text.
var ErrEmpty = errors.New("empty expression")

// EvalError reports an operand that cannot take part in an operation.
type EvalError struct {
	Op      string
	Operand Value
}

func (e *EvalError) Error() string {
	return fmt.Sprintf("cannot apply %s to %s %q", e.Op, e.Operand.Kind(), e.Operand.Text())
}

func compileErr(text string, err error) error {
	return &CompileError{Text: text, Err: err}
}
