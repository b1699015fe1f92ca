package formula

import (
	"strconv"
	"sync"
)

// Arity is the number of arguments a Func accepts. Variadic functions accept
// one or more.
type Arity int8

// Variadic is the Arity of functions accepting any positive number of
// arguments.
const Variadic Arity = -1

func (a Arity) String() string {
	if a == Variadic {
		return "at least 1"
	}
	return strconv.Itoa(int(a))
}

// accepts returns whether a function of arity a can be called with n
// arguments.
func (a Arity) accepts(n int) bool {
	if a == Variadic {
		return n >= 1
	}
	return int(a) == n
}

// Func is a function from values of type T to a value of type T. The only
// implementations are those created by Niladic, Monadic, Dyadic, Triadic,
// Tetradic, and VariadicFunc, each of which fixes the Arity.
type Func[T any] interface {
	// Arity returns the number of arguments the function accepts.
	Arity() Arity
	// call evaluates the function. len(args) is always accepted by Arity.
	call(args []T) (T, error)
}

type (
	niladic[T any]  func() (T, error)
	monadic[T any]  func(x T) (T, error)
	dyadic[T any]   func(x, y T) (T, error)
	triadic[T any]  func(x, y, z T) (T, error)
	tetradic[T any] func(x, y, z, w T) (T, error)
	variadic[T any] func(args []T) (T, error)
)

func (niladic[T]) Arity() Arity  { return 0 }
func (monadic[T]) Arity() Arity  { return 1 }
func (dyadic[T]) Arity() Arity   { return 2 }
func (triadic[T]) Arity() Arity  { return 3 }
func (tetradic[T]) Arity() Arity { return 4 }
func (variadic[T]) Arity() Arity { return Variadic }

func (f niladic[T]) call(args []T) (T, error)  { return f() }
func (f monadic[T]) call(args []T) (T, error)  { return f(args[0]) }
func (f dyadic[T]) call(args []T) (T, error)   { return f(args[0], args[1]) }
func (f triadic[T]) call(args []T) (T, error)  { return f(args[0], args[1], args[2]) }
func (f tetradic[T]) call(args []T) (T, error) { return f(args[0], args[1], args[2], args[3]) }

// The argument slice aliases the value stack, so give variadic functions their
// own copy.
func (f variadic[T]) call(args []T) (T, error) { return f(append([]T(nil), args...)) }

// Each constructor panics if f is nil.

// Niladic wraps a function of no arguments, e.g. a random number source.
func Niladic[T any](f func() (T, error)) Func[T] {
	if f == nil {
		panic(errNilFunc)
	}
	return niladic[T](f)
}

// Monadic wraps a function of one argument.
func Monadic[T any](f func(x T) (T, error)) Func[T] {
	if f == nil {
		panic(errNilFunc)
	}
	return monadic[T](f)
}

// Dyadic wraps a function of two arguments.
func Dyadic[T any](f func(x, y T) (T, error)) Func[T] {
	if f == nil {
		panic(errNilFunc)
	}
	return dyadic[T](f)
}

// Triadic wraps a function of three arguments.
func Triadic[T any](f func(x, y, z T) (T, error)) Func[T] {
	if f == nil {
		panic(errNilFunc)
	}
	return triadic[T](f)
}

// Tetradic wraps a function of four arguments.
func Tetradic[T any](f func(x, y, z, w T) (T, error)) Func[T] {
	if f == nil {
		panic(errNilFunc)
	}
	return tetradic[T](f)
}

// VariadicFunc wraps a function of one or more arguments. The arguments are
// passed in the order they were written.
func VariadicFunc[T any](f func(args []T) (T, error)) Func[T] {
	if f == nil {
		panic(errNilFunc)
	}
	return variadic[T](f)
}

const errNilFunc = "formula: nil function"

// defaultFuncs creates the functions every Evaluator starts with.
func defaultFuncs[T any](a Arith[T]) map[string]Func[T] {
	fold := func(keep int) Func[T] {
		return VariadicFunc(func(args []T) (T, error) {
			r := args[0]
			for _, x := range args[1:] {
				if a.Cmp(x, r) == keep {
					r = x
				}
			}
			return r, nil
		})
	}
	return map[string]Func[T]{
		"rand": Niladic(func() (T, error) { return a.Rand(), nil }),
		"abs":  Monadic(func(x T) (T, error) { return a.Abs(x), nil }),
		"sin":  Monadic(a.Sin),
		"cos":  Monadic(a.Cos),
		"tan":  Monadic(a.Tan),
		"asin": Monadic(a.Asin),
		"acos": Monadic(a.Acos),
		"atan": Monadic(a.Atan),
		"sqrt": Monadic(a.Sqrt),
		"cbrt": Monadic(a.Cbrt),
		"exp":  Monadic(a.Exp),
		"ln":   Monadic(a.Log),
		"log": Monadic(func(x T) (T, error) {
			l, err := a.Log(x)
			if err != nil {
				return l, err
			}
			ten, err := a.Log(a.FromInt(10))
			if err != nil {
				return ten, err
			}
			return a.Div(l, ten)
		}),
		"atan2": Dyadic(a.Atan2),
		"pow":   Dyadic(a.Pow),
		"min":   fold(-1),
		"max":   fold(1),
		"clamp": Triadic(func(x, lo, hi T) (T, error) {
			if a.Cmp(lo, hi) > 0 {
				return x, &ArgumentError{Func: "clamp", Msg: "lower bound exceeds upper bound"}
			}
			switch {
			case a.Cmp(x, lo) < 0:
				return lo, nil
			case a.Cmp(x, hi) > 0:
				return hi, nil
			}
			return x, nil
		}),
	}
}

// constants maps the names of constants to their values for one Arith.
type constants[T any] map[string]T

// consttabs caches constant tables by Arith.
var consttabs sync.Map

// constantsFor returns the shared constant table for a. The table must not be
// modified.
func constantsFor[T any](a Arith[T]) (constants[T], error) {
	if c, ok := consttabs.Load(a); ok {
		return c.(constants[T]), nil
	}
	pi := a.Pi()
	straight := a.FromInt(180)
	deg, err := a.Div(straight, pi)
	if err != nil {
		return nil, err
	}
	rad, err := a.Div(pi, straight)
	if err != nil {
		return nil, err
	}
	c := constants[T]{
		"pi":  pi,
		"e":   a.E(),
		"deg": deg,
		"rad": rad,
	}
	v, _ := consttabs.LoadOrStore(a, c)
	return v.(constants[T]), nil
}
