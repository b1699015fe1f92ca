package formula

import (
	"fmt"
	"log/slog"
	"slices"

	"golang.org/x/exp/constraints"
)

// expression := term (('+'|'-') term)*
// term       := factor (('*'|'/') factor)*
// factor     := ['+'|'-'] (primary | '(' expression ')')
// primary    := num | name ['(' arglist ')']
// arglist    := [expression {',' expression}]
//
// Evaluation happens during parsing. Each rule leaves the value of what it
// parsed on the stack.

// Evaluator evaluates expressions over values of type T. It holds the current
// expression text and variables, so the same expression can be evaluated
// repeatedly or with changing inputs. It is not safe to use an Evaluator
// concurrently.
type Evaluator[T any] struct {
	arith  Arith[T]
	consts constants[T]
	funcs  map[string]Func[T]
	vars   map[string]T

	text  string
	scan  lexer
	tok   lexToken
	stack stack[T]
	// depth is the current nesting depth of brackets.
	depth      int
	maxNesting int

	log *slog.Logger
}

// NewEvaluator creates an evaluator computing with a, starting with the given
// expression text and variables. The options are applied in order.
func NewEvaluator[T any](a Arith[T], text string, vars map[string]T, opts ...Option) (*Evaluator[T], error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, fmt.Errorf("error applying option: %w", err)
		}
	}
	consts, err := constantsFor(a)
	if err != nil {
		return nil, fmt.Errorf("computing constants: %w", err)
	}
	ev := Evaluator[T]{
		arith:      a,
		consts:     consts,
		funcs:      map[string]Func[T]{},
		text:       text,
		stack:      stack[T]{vals: make([]T, 0, min(cfg.maxDepth, 16)), max: cfg.maxDepth},
		maxNesting: cfg.maxNesting,
		log:        cfg.logger(),
	}
	if !cfg.nodefaults {
		ev.funcs = defaultFuncs(a)
	}
	ev.SetVars(vars)
	ev.scan.reset(text)
	return &ev, nil
}

// New creates an evaluator over float64.
func New(text string, vars map[string]float64, opts ...Option) (*Evaluator[float64], error) {
	return NewEvaluator(Float64, text, vars, opts...)
}

// Eval evaluates the current expression with the current variables.
func (ev *Evaluator[T]) Eval() (T, error) {
	r, err := ev.eval()
	if err != nil {
		ev.log.Debug("evaluation failed", "text", ev.text, "error", err)
		var z T
		return z, err
	}
	ev.log.Debug("evaluated", "text", ev.text, "result", r)
	return r, nil
}

// EvalText replaces the current expression and evaluates it.
func (ev *Evaluator[T]) EvalText(text string) (T, error) {
	ev.SetText(text)
	return ev.Eval()
}

// EvalWith replaces the current expression and variables and evaluates.
func (ev *Evaluator[T]) EvalWith(text string, vars map[string]T) (T, error) {
	ev.SetVars(vars)
	return ev.EvalText(text)
}

// EvalMany evaluates each expression with the current variables. It stops at
// the first expression that fails, returning an *EntryError wrapping the
// failure. The evaluator's current expression is unchanged.
func (ev *Evaluator[T]) EvalMany(texts []string) ([]T, error) {
	defer ev.SetText(ev.text)
	r := make([]T, 0, len(texts))
	for i, text := range texts {
		v, err := ev.EvalText(text)
		if err != nil {
			return nil, &EntryError{Index: i, Err: err}
		}
		r = append(r, v)
	}
	return r, nil
}

// EvalNamed evaluates each named expression with the current variables. The
// result has exactly the names of exprs. Expressions are evaluated in order of
// name, stopping at the first that fails; the error is an *EntryError naming
// it. The evaluator's current expression is unchanged.
func (ev *Evaluator[T]) EvalNamed(exprs map[string]string) (map[string]T, error) {
	defer ev.SetText(ev.text)
	names := make([]string, 0, len(exprs))
	for name := range exprs {
		names = append(names, name)
	}
	slices.Sort(names)
	r := make(map[string]T, len(exprs))
	for _, name := range names {
		v, err := ev.EvalText(exprs[name])
		if err != nil {
			return nil, &EntryError{Index: -1, Name: name, Err: err}
		}
		r[name] = v
	}
	return r, nil
}

// Text returns the current expression.
func (ev *Evaluator[T]) Text() string {
	return ev.text
}

// SetText replaces the current expression.
func (ev *Evaluator[T]) SetText(text string) {
	ev.text = text
	ev.scan.reset(text)
}

// SetVars replaces all variables with copies of those in vars.
func (ev *Evaluator[T]) SetVars(vars map[string]T) {
	ev.vars = make(map[string]T, len(vars))
	for k, v := range vars {
		ev.vars[k] = ev.arith.Copy(v)
	}
}

// SetIntVars replaces all variables with integer values widened to T.
func (ev *Evaluator[T]) SetIntVars(vars map[string]int64) {
	ev.vars = IntVars(ev.arith, vars)
}

// Set sets a single variable to a copy of value. Returns ev for chaining.
func (ev *Evaluator[T]) Set(name string, value T) *Evaluator[T] {
	ev.vars[name] = ev.arith.Copy(value)
	return ev
}

// Lookup resolves a name as the evaluator would in an expression: constants
// first, then variables. The result is a copy.
func (ev *Evaluator[T]) Lookup(name string) (T, bool) {
	v, ok := ev.consts[name]
	if !ok {
		v, ok = ev.vars[name]
	}
	if !ok {
		return v, false
	}
	return ev.arith.Copy(v), true
}

// RegisterFunc makes fn callable by name, replacing any function already
// registered with that name.
func (ev *Evaluator[T]) RegisterFunc(name string, fn Func[T]) {
	if fn == nil {
		panic("formula: nil Func for " + name)
	}
	ev.funcs[name] = fn
	ev.log.Debug("registered function", "name", name, "arity", fn.Arity().String())
}

// UnregisterFunc removes the function registered with name, if any.
func (ev *Evaluator[T]) UnregisterFunc(name string) {
	if _, ok := ev.funcs[name]; !ok {
		return
	}
	delete(ev.funcs, name)
	ev.log.Debug("unregistered function", "name", name)
}

// Func returns the function registered with name.
func (ev *Evaluator[T]) Func(name string) (Func[T], bool) {
	fn, ok := ev.funcs[name]
	return fn, ok
}

// IntVars widens integer variables to values of a numeric type.
func IntVars[T any, I constraints.Integer](a Arith[T], vars map[string]I) map[string]T {
	r := make(map[string]T, len(vars))
	for k, v := range vars {
		if v < 0 {
			r[k] = a.FromInt(int64(v))
		} else {
			r[k] = a.FromUint(uint64(v))
		}
	}
	return r
}

// Eval is a shortcut to evaluate an expression over float64 with the default
// functions.
func Eval(text string, vars map[string]float64) (float64, error) {
	ev, err := New(text, vars)
	if err != nil {
		return 0, err
	}
	return ev.Eval()
}

// EvalInt is like Eval with integer variables.
func EvalInt[I constraints.Integer](text string, vars map[string]I) (float64, error) {
	ev, err := New(text, IntVars(Float64, vars))
	if err != nil {
		return 0, err
	}
	return ev.Eval()
}

// eval evaluates the current text from the beginning.
func (ev *Evaluator[T]) eval() (T, error) {
	var z T
	ev.scan.reset(ev.text)
	ev.stack.reset()
	ev.depth = 0
	ev.advance()
	if ev.tok.kind == tokenEOF {
		return ev.arith.Zero(), nil
	}
	if err := ev.expression(); err != nil {
		return z, err
	}
	// Operands following a complete expression are evaluated so that the
	// result is reported as extra values rather than as a bad token.
	for ev.tok.kind == tokenNum || ev.tok.kind == tokenIdent || ev.tok.kind == tokenOpen {
		if err := ev.expression(); err != nil {
			return z, err
		}
	}
	if ev.tok.kind != tokenEOF {
		return z, ev.unexpected()
	}
	switch n := ev.stack.len(); {
	case n == 0:
		return z, ErrNoFinalValue
	case n > 1:
		return z, &ExcessStackError{Depth: n}
	}
	return ev.stack.pop()
}

// advance scans the next token.
func (ev *Evaluator[T]) advance() {
	ev.tok = ev.scan.next()
}

func (ev *Evaluator[T]) unexpected() error {
	return &TokenError{Col: ev.tok.pos, Text: ev.tok.text}
}

// isop returns whether the current token is one of two operators.
func (ev *Evaluator[T]) isop(a, b string) bool {
	return ev.tok.kind == tokenOp && (ev.tok.text == a || ev.tok.text == b)
}

func (ev *Evaluator[T]) expression() error {
	if err := ev.term(); err != nil {
		return err
	}
	for ev.isop("+", "-") {
		op := ev.tok.text
		ev.advance()
		if err := ev.term(); err != nil {
			return err
		}
		if err := ev.binary(op); err != nil {
			return err
		}
	}
	return nil
}

func (ev *Evaluator[T]) term() error {
	if err := ev.factor(); err != nil {
		return err
	}
	for ev.isop("*", "/") {
		op := ev.tok.text
		ev.advance()
		if err := ev.factor(); err != nil {
			return err
		}
		if err := ev.binary(op); err != nil {
			return err
		}
	}
	return nil
}

func (ev *Evaluator[T]) factor() error {
	neg := false
	if ev.isop("+", "-") {
		neg = ev.tok.text == "-"
		ev.advance()
	}
	switch ev.tok.kind {
	case tokenOpen:
		if err := ev.nest(); err != nil {
			return err
		}
		ev.advance()
		if err := ev.expression(); err != nil {
			return err
		}
		if ev.tok.kind != tokenClose {
			return ev.unexpected()
		}
		ev.depth--
		ev.advance()
	case tokenNum, tokenIdent:
		if err := ev.primary(); err != nil {
			return err
		}
	default:
		return ev.unexpected()
	}
	if neg {
		x, err := ev.stack.pop()
		if err != nil {
			return err
		}
		return ev.stack.push(ev.arith.Neg(x))
	}
	return nil
}

func (ev *Evaluator[T]) primary() error {
	tok := ev.tok
	ev.advance()
	if tok.kind == tokenNum {
		v, err := ev.arith.Parse(tok.text)
		if err != nil {
			return &NumberError{Col: tok.pos, Text: tok.text, Err: err}
		}
		return ev.stack.push(v)
	}
	if ev.tok.kind == tokenOpen {
		return ev.call(tok)
	}
	v, ok := ev.Lookup(tok.text)
	if !ok {
		return &NameError{Col: tok.pos, Name: tok.text}
	}
	return ev.stack.push(v)
}

// call parses the argument list of a call to the function named by tok and
// pushes the result. The current token is the open parenthesis.
func (ev *Evaluator[T]) call(tok lexToken) error {
	fn, ok := ev.funcs[tok.text]
	if !ok {
		return &FuncError{Col: tok.pos, Name: tok.text}
	}
	if err := ev.nest(); err != nil {
		return err
	}
	ev.advance()
	n := 0
	if ev.tok.kind != tokenClose {
		for {
			if err := ev.expression(); err != nil {
				return err
			}
			n++
			if ev.tok.kind != tokenSep {
				break
			}
			ev.advance()
		}
		if ev.tok.kind != tokenClose {
			return ev.unexpected()
		}
	}
	ev.depth--
	if !fn.Arity().accepts(n) {
		return &CallError{Col: tok.pos, Func: tok.text, Want: fn.Arity(), Len: n}
	}
	args, err := ev.stack.popn(n)
	if err != nil {
		return err
	}
	r, err := fn.call(args)
	if err != nil {
		return err
	}
	ev.advance()
	return ev.stack.push(r)
}

// nest enters a bracket at the current token.
func (ev *Evaluator[T]) nest() error {
	ev.depth++
	if ev.depth > ev.maxNesting {
		return &NestingError{Col: ev.tok.pos, Max: ev.maxNesting}
	}
	return nil
}

// binary pops two operands and pushes the result of applying op.
func (ev *Evaluator[T]) binary(op string) error {
	b, err := ev.stack.pop()
	if err != nil {
		return err
	}
	a, err := ev.stack.pop()
	if err != nil {
		return err
	}
	var r T
	switch op {
	case "+":
		r, err = ev.arith.Add(a, b)
	case "-":
		r, err = ev.arith.Sub(a, b)
	case "*":
		r, err = ev.arith.Mul(a, b)
	case "/":
		r, err = ev.arith.Div(a, b)
	default:
		panic("formula: invalid binary operator " + op)
	}
	if err != nil {
		return err
	}
	return ev.stack.push(r)
}
