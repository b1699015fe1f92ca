package formula

import (
	"errors"
	"strconv"
)

var (
	// ErrStackUnderflow is returned when the evaluator pops an empty value
	// stack. It indicates a defect in the evaluator rather than bad input.
	ErrStackUnderflow = errors.New("value stack underflow")
	// ErrNoFinalValue is returned when an expression leaves no value.
	ErrNoFinalValue = errors.New("expression produced no value")
)

// OverflowError is an error indicating that evaluation needed more than the
// configured maximum number of values on the stack.
type OverflowError struct {
	// Max is the maximum stack depth.
	Max int
}

func (err *OverflowError) Error() string {
	return "value stack overflow (maximum depth " + strconv.Itoa(err.Max) + ")"
}

// ExcessStackError is an error indicating that an expression left more than
// one value, e.g. two numbers with no operator between them.
type ExcessStackError struct {
	// Depth is the number of values left.
	Depth int
}

func (err *ExcessStackError) Error() string {
	return "malformed expression: " + strconv.Itoa(err.Depth) + " values left on the stack"
}

// TokenError is an error indicating a token the grammar cannot accept at its
// position. It implements InputError.
type TokenError struct {
	// Col is the position of the token.
	Col int
	// Text is the token. It is empty at the end of the input.
	Text string
}

func (err *TokenError) Error() string {
	if err.Text == "" {
		return errpos(err.Col, "unexpected end of expression")
	}
	return errpos(err.Col, "unexpected token "+strconv.Quote(err.Text))
}

func (err *TokenError) Pos() int {
	return err.Col
}

// NumberError is an error indicating a number literal that could not be
// parsed, e.g. 1.2.3. It implements InputError.
type NumberError struct {
	// Col is the position of the literal.
	Col int
	// Text is the literal.
	Text string
	// Err is the error from the numeric type's parser.
	Err error
}

func (err *NumberError) Error() string {
	return errpos(err.Col, "invalid number literal "+strconv.Quote(err.Text))
}

func (err *NumberError) Pos() int {
	return err.Col
}

func (err *NumberError) Unwrap() error {
	return err.Err
}

// NameError is an error from a lookup for a variable that is neither a
// constant nor defined in the evaluation context. It implements InputError.
type NameError struct {
	// Col is the position of the name.
	Col int
	// Name is the name that was missing.
	Name string
}

func (err *NameError) Error() string {
	return errpos(err.Col, "undefined variable: "+strconv.Quote(err.Name))
}

func (err *NameError) Pos() int {
	return err.Col
}

// FuncError is an error indicating a call of a function that is not
// registered. It implements InputError.
type FuncError struct {
	// Col is the position of the function name.
	Col int
	// Name is the function name.
	Name string
}

func (err *FuncError) Error() string {
	return errpos(err.Col, "undefined function: "+strconv.Quote(err.Name))
}

func (err *FuncError) Pos() int {
	return err.Col
}

// CallError is an error indicating a function call with the wrong number of
// arguments. It implements InputError.
type CallError struct {
	// Col is the position of the function name.
	Col int
	// Func is the function name that was called.
	Func string
	// Want is the arity of the function.
	Want Arity
	// Len is the number of arguments in the call.
	Len int
}

func (err *CallError) Error() string {
	return errpos(err.Col, "cannot call "+err.Func+" with "+strconv.Itoa(err.Len)+" arguments (want "+err.Want.String()+")")
}

func (err *CallError) Pos() int {
	return err.Col
}

// NestingError is an error indicating parentheses or calls nested more deeply
// than the evaluator allows. It implements InputError.
type NestingError struct {
	// Col is the position of the bracket that exceeded the limit.
	Col int
	// Max is the maximum nesting depth.
	Max int
}

func (err *NestingError) Error() string {
	return errpos(err.Col, "expression nested deeper than "+strconv.Itoa(err.Max)+" levels")
}

func (err *NestingError) Pos() int {
	return err.Col
}

// ArgumentError is an error returned by a function that rejects its
// arguments, e.g. clamp with bounds in the wrong order.
type ArgumentError struct {
	// Func is the function name.
	Func string
	// Msg describes the problem.
	Msg string
}

func (err *ArgumentError) Error() string {
	return "invalid argument to " + err.Func + ": " + err.Msg
}

// DomainError is an error returned when a function is called on arguments
// outside its domain.
type DomainError struct {
	// X is the out-of-domain argument, formatted.
	X string
	// Arg is the 1-based index of the argument, or 0 if unknown.
	Arg int
	// Func is a name identifying the function.
	Func string
	// Err is the underlying error, usually a big.ErrNaN, if any.
	Err error
}

func (err *DomainError) Error() string {
	r := err.X + " outside domain"
	if err.Func != "" {
		r += " of " + err.Func
	}
	if err.Arg > 0 {
		r += " (argument " + strconv.Itoa(err.Arg) + ")"
	}
	return r
}

func (err *DomainError) Unwrap() error {
	return err.Err
}

// EntryError is an error from one entry of a batch evaluation. Batches stop at
// the first failing entry.
type EntryError struct {
	// Index is the position of the entry in EvalMany, or -1 for EvalNamed.
	Index int
	// Name is the name of the entry in EvalNamed.
	Name string
	// Err is the error evaluating the entry.
	Err error
}

func (err *EntryError) Error() string {
	if err.Index < 0 {
		return "evaluating " + strconv.Quote(err.Name) + ": " + err.Err.Error()
	}
	return "evaluating expression " + strconv.Itoa(err.Index) + ": " + err.Err.Error()
}

func (err *EntryError) Unwrap() error {
	return err.Err
}

// errpos is a shortcut to create an error message with a position.
func errpos(pos int, msg string) string {
	return strconv.Itoa(pos) + ": " + msg
}

// InputError is an error with position information. Every error resulting from
// malformed input text implements InputError.
type InputError interface {
	error
	// Pos returns the position of the error as the number of runes up to and
	// including the start of the token that caused the error.
	Pos() int
}

var (
	_ InputError = (*TokenError)(nil)
	_ InputError = (*NumberError)(nil)
	_ InputError = (*NameError)(nil)
	_ InputError = (*FuncError)(nil)
	_ InputError = (*CallError)(nil)
	_ InputError = (*NestingError)(nil)
)
