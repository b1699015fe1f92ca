package formula

import (
	"cmp"
	"errors"
	"math"
	"math/rand"
	"strconv"
)

// Arith is the arithmetic of a numeric type T. An Evaluator does all of its
// computation through an Arith, so the same grammar serves machine floats and
// arbitrary-precision values alike.
//
// Operations which can leave the domain of T, e.g. square roots of negative
// numbers in a type without NaN, return an error, typically a *DomainError.
// Implementations must be comparable so that constant tables can be shared.
type Arith[T any] interface {
	// Zero returns the additive identity.
	Zero() T
	// Copy returns a value equal to x which shares no memory with it.
	Copy(x T) T
	// Parse converts a number literal to T. Literals too large for T
	// are infinite.
	Parse(s string) (T, error)
	// FromInt and FromUint widen integers to T.
	FromInt(x int64) T
	FromUint(x uint64) T
	// Cmp returns -1, 0, or +1 as a is less than, equal to, or greater than b.
	Cmp(a, b T) int

	Neg(x T) T
	Abs(x T) T
	Add(a, b T) (T, error)
	Sub(a, b T) (T, error)
	Mul(a, b T) (T, error)
	Div(a, b T) (T, error)

	Sin(x T) (T, error)
	Cos(x T) (T, error)
	Tan(x T) (T, error)
	Asin(x T) (T, error)
	Acos(x T) (T, error)
	Atan(x T) (T, error)
	Atan2(y, x T) (T, error)
	Pow(x, y T) (T, error)
	Sqrt(x T) (T, error)
	Cbrt(x T) (T, error)
	Exp(x T) (T, error)
	Log(x T) (T, error)

	Pi() T
	E() T
	// Rand returns a uniformly distributed value in [0, 1).
	Rand() T
}

// machine is the set of types floatArith can compute with.
type machine interface {
	float32 | float64
}

// floatArith implements Arith for machine floats. Out-of-domain arguments
// produce NaN rather than errors, as they would in package math.
type floatArith[F machine] struct{}

// Float64 is the arithmetic of float64.
var Float64 Arith[float64] = floatArith[float64]{}

// Float32 is the arithmetic of float32. Transcendental functions are computed
// in float64 and rounded.
var Float32 Arith[float32] = floatArith[float32]{}

func (floatArith[F]) bits() int {
	var z F
	if _, ok := any(z).(float32); ok {
		return 32
	}
	return 64
}

func (floatArith[F]) Zero() F    { return 0 }
func (floatArith[F]) Copy(x F) F { return x }

func (f floatArith[F]) Parse(s string) (F, error) {
	x, err := strconv.ParseFloat(s, f.bits())
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, err
	}
	return F(x), nil
}

func (floatArith[F]) FromInt(x int64) F   { return F(x) }
func (floatArith[F]) FromUint(x uint64) F { return F(x) }
func (floatArith[F]) Cmp(a, b F) int      { return cmp.Compare(a, b) }
func (floatArith[F]) Neg(x F) F           { return -x }
func (floatArith[F]) Abs(x F) F           { return F(math.Abs(float64(x))) }

func (floatArith[F]) Add(a, b F) (F, error) { return a + b, nil }
func (floatArith[F]) Sub(a, b F) (F, error) { return a - b, nil }
func (floatArith[F]) Mul(a, b F) (F, error) { return a * b, nil }
func (floatArith[F]) Div(a, b F) (F, error) { return a / b, nil }

func (floatArith[F]) Sin(x F) (F, error)  { return F(math.Sin(float64(x))), nil }
func (floatArith[F]) Cos(x F) (F, error)  { return F(math.Cos(float64(x))), nil }
func (floatArith[F]) Tan(x F) (F, error)  { return F(math.Tan(float64(x))), nil }
func (floatArith[F]) Asin(x F) (F, error) { return F(math.Asin(float64(x))), nil }
func (floatArith[F]) Acos(x F) (F, error) { return F(math.Acos(float64(x))), nil }
func (floatArith[F]) Atan(x F) (F, error) { return F(math.Atan(float64(x))), nil }
func (floatArith[F]) Sqrt(x F) (F, error) { return F(math.Sqrt(float64(x))), nil }
func (floatArith[F]) Cbrt(x F) (F, error) { return F(math.Cbrt(float64(x))), nil }
func (floatArith[F]) Exp(x F) (F, error)  { return F(math.Exp(float64(x))), nil }
func (floatArith[F]) Log(x F) (F, error)  { return F(math.Log(float64(x))), nil }

func (floatArith[F]) Atan2(y, x F) (F, error) {
	return F(math.Atan2(float64(y), float64(x))), nil
}

func (floatArith[F]) Pow(x, y F) (F, error) {
	return F(math.Pow(float64(x), float64(y))), nil
}

func (floatArith[F]) Pi() F { return F(math.Pi) }
func (floatArith[F]) E() F  { return F(math.E) }

func (f floatArith[F]) Rand() F {
	if f.bits() == 32 {
		// Rounding a float64 in [0, 1) to float32 can produce 1.
		return F(rand.Float32())
	}
	return F(rand.Float64())
}
