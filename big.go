package formula

import (
	"errors"
	"math"
	"math/big"
	"math/rand"

	"github.com/zephyrtronium/bigfloat"
)

// bigArith implements Arith for *big.Float at a fixed precision. Results are
// always freshly allocated; arguments are never modified.
type bigArith struct {
	prec uint
}

// Big returns the arithmetic of *big.Float values computed to prec bits. If
// prec is 0, the precision is 64.
//
// Exponentials, logarithms, and powers are computed to full precision.
// Trigonometric functions and cube roots are computed in float64.
func Big(prec uint) Arith[*big.Float] {
	if prec == 0 {
		prec = 64
	}
	return bigArith{prec: prec}
}

func (a bigArith) new() *big.Float {
	return new(big.Float).SetPrec(a.prec)
}

// guard converts a big.ErrNaN panic from f into a DomainError.
func (a bigArith) guard(fn string, x *big.Float, f func() *big.Float) (r *big.Float, err error) {
	defer func() {
		p := recover()
		if p == nil {
			return
		}
		e, _ := p.(error)
		if e == nil || !errors.As(e, new(big.ErrNaN)) {
			panic(p)
		}
		r, err = nil, &DomainError{X: x.String(), Func: fn, Err: e}
	}()
	return f(), nil
}

func (a bigArith) Zero() *big.Float { return a.new() }

func (a bigArith) Parse(s string) (*big.Float, error) {
	r, _, err := a.new().Parse(s, 10)
	if err != nil {
		return nil, err
	}
	return r, nil
}

func (a bigArith) Copy(x *big.Float) *big.Float { return a.new().Set(x) }

func (a bigArith) FromInt(x int64) *big.Float   { return a.new().SetInt64(x) }
func (a bigArith) FromUint(x uint64) *big.Float { return a.new().SetUint64(x) }
func (a bigArith) Cmp(x, y *big.Float) int      { return x.Cmp(y) }
func (a bigArith) Neg(x *big.Float) *big.Float  { return a.new().Neg(x) }
func (a bigArith) Abs(x *big.Float) *big.Float  { return a.new().Abs(x) }

func (a bigArith) Add(x, y *big.Float) (*big.Float, error) {
	return a.guard("+", y, func() *big.Float { return a.new().Add(x, y) })
}

func (a bigArith) Sub(x, y *big.Float) (*big.Float, error) {
	return a.guard("-", y, func() *big.Float { return a.new().Sub(x, y) })
}

func (a bigArith) Mul(x, y *big.Float) (*big.Float, error) {
	return a.guard("*", y, func() *big.Float { return a.new().Mul(x, y) })
}

func (a bigArith) Div(x, y *big.Float) (*big.Float, error) {
	// Guard against invalid divisions, 0/0 or inf/inf.
	if x.Sign() == 0 && y.Sign() == 0 || x.IsInf() && y.IsInf() {
		return nil, &DomainError{X: y.String(), Func: "/"}
	}
	return a.guard("/", y, func() *big.Float { return a.new().Quo(x, y) })
}

// viaFloat64 computes f in float64 and converts the result back to the
// arithmetic's precision.
func (a bigArith) viaFloat64(fn string, x *big.Float, f func(float64) float64) (*big.Float, error) {
	v, _ := x.Float64()
	r := f(v)
	if math.IsNaN(r) {
		return nil, &DomainError{X: x.String(), Func: fn}
	}
	return a.new().SetFloat64(r), nil
}

func (a bigArith) Sin(x *big.Float) (*big.Float, error)  { return a.viaFloat64("sin", x, math.Sin) }
func (a bigArith) Cos(x *big.Float) (*big.Float, error)  { return a.viaFloat64("cos", x, math.Cos) }
func (a bigArith) Tan(x *big.Float) (*big.Float, error)  { return a.viaFloat64("tan", x, math.Tan) }
func (a bigArith) Asin(x *big.Float) (*big.Float, error) { return a.viaFloat64("asin", x, math.Asin) }
func (a bigArith) Acos(x *big.Float) (*big.Float, error) { return a.viaFloat64("acos", x, math.Acos) }
func (a bigArith) Atan(x *big.Float) (*big.Float, error) { return a.viaFloat64("atan", x, math.Atan) }
func (a bigArith) Cbrt(x *big.Float) (*big.Float, error) { return a.viaFloat64("cbrt", x, math.Cbrt) }

func (a bigArith) Atan2(y, x *big.Float) (*big.Float, error) {
	u, _ := x.Float64()
	return a.viaFloat64("atan2", y, func(v float64) float64 { return math.Atan2(v, u) })
}

func (a bigArith) Sqrt(x *big.Float) (*big.Float, error) {
	if x.Sign() < 0 {
		return nil, &DomainError{X: x.String(), Func: "sqrt"}
	}
	return a.guard("sqrt", x, func() *big.Float { return a.new().Sqrt(x) })
}

// maxBinExp bounds the binary exponent of results of exp, and so of pow.
// Results beyond it overflow to infinity or underflow to zero.
const maxBinExp = 1 << 20

// expLimit is the largest argument to exp whose result is within maxBinExp.
const expLimit = math.Ln2 * maxBinExp

func (a bigArith) Exp(x *big.Float) (*big.Float, error) {
	switch f, _ := x.Float64(); {
	case f > expLimit:
		return a.new().SetInf(false), nil
	case f < -expLimit:
		return a.new(), nil
	}
	return a.guard("exp", x, func() *big.Float { return bigfloat.Exp(a.new(), x) })
}

func (a bigArith) Log(x *big.Float) (*big.Float, error) {
	switch x.Sign() {
	case -1:
		return nil, &DomainError{X: x.String(), Func: "ln"}
	case 0:
		return a.new().SetInf(true), nil
	}
	return a.guard("ln", x, func() *big.Float { return bigfloat.Log(a.new(), x) })
}

func (a bigArith) Pow(x, y *big.Float) (*big.Float, error) {
	switch {
	case y.Sign() == 0:
		return a.new().SetInt64(1), nil
	case x.Sign() == 0:
		if y.Sign() < 0 {
			return a.new().SetInf(false), nil
		}
		return a.new(), nil
	case x.IsInf():
		return a.powInf(x, y), nil
	}
	var one big.Float
	one.SetInt64(1)
	switch c := new(big.Float).Abs(x).Cmp(&one); {
	case c == 0:
		// Includes 1^inf and -1^inf.
		if x.Sign() < 0 && !y.IsInf() {
			if !y.IsInt() {
				return nil, &DomainError{X: x.String(), Arg: 1, Func: "pow"}
			}
			if odd(y) {
				return a.new().SetInt64(-1), nil
			}
		}
		return a.new().SetInt64(1), nil
	case y.IsInf():
		// The sign of x no longer matters.
		if (c > 0) == (y.Sign() > 0) {
			return a.new().SetInf(false), nil
		}
		return a.new(), nil
	}
	neg := false
	if x.Sign() < 0 {
		// A negative base has a real power only for integer exponents.
		if !y.IsInt() {
			return nil, &DomainError{X: x.String(), Arg: 1, Func: "pow"}
		}
		neg = odd(y)
	}
	// |x|^y = exp(y ln|x|), so the bounds on exp apply.
	t := bigfloat.Log(new(big.Float).SetPrec(a.prec+64), new(big.Float).Abs(x))
	r, err := a.Exp(t.Mul(t, y))
	if err != nil {
		return nil, err
	}
	if neg {
		r.Neg(r)
	}
	return r, nil
}

// powInf computes powers of an infinite base.
func (a bigArith) powInf(x, y *big.Float) *big.Float {
	r := a.new()
	if y.Sign() > 0 {
		r.SetInf(false)
	}
	if x.Sign() < 0 && y.IsInt() && odd(y) {
		r.Neg(r)
	}
	return r
}

// odd returns whether the integer y is odd. The lowest set bit of y is at
// position exp-MinPrec, so y is odd exactly when that is zero.
func odd(y *big.Float) bool {
	return y.Sign() != 0 && uint(y.MantExp(nil)) == y.MinPrec()
}

func (a bigArith) Pi() *big.Float {
	return bigfloat.Pi(a.new())
}

func (a bigArith) E() *big.Float {
	var one big.Float
	one.SetFloat64(1)
	return bigfloat.Exp(a.new(), &one)
}

func (a bigArith) Rand() *big.Float {
	return a.new().SetFloat64(rand.Float64())
}
