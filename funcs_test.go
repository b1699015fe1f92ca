package formula_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zephyrtronium/formula"
)

func TestRegisterFunc(t *testing.T) {
	ev, err := formula.New("", nil)
	require.NoError(t, err)

	ev.RegisterFunc("addone", formula.Monadic(func(x float64) (float64, error) { return x + 1, nil }))
	r, err := ev.EvalText("addone(1)")
	require.NoError(t, err)
	require.Equal(t, 2.0, r)

	// Same behavior as a built-in of the same arity.
	_, err = ev.EvalText("addone(1, 2)")
	var ce *formula.CallError
	require.ErrorAs(t, err, &ce)
	require.Equal(t, "addone", ce.Func)

	// Replacing is allowed.
	ev.RegisterFunc("addone", formula.Monadic(func(x float64) (float64, error) { return x + 100, nil }))
	r, err = ev.EvalText("addone(1)")
	require.NoError(t, err)
	require.Equal(t, 101.0, r)

	// Built-ins can be replaced too.
	ev.RegisterFunc("sin", formula.Niladic(func() (float64, error) { return 7, nil }))
	r, err = ev.EvalText("sin()")
	require.NoError(t, err)
	require.Equal(t, 7.0, r)

	ev.UnregisterFunc("addone")
	_, err = ev.EvalText("addone(1)")
	var fe *formula.FuncError
	require.ErrorAs(t, err, &fe)
	require.Equal(t, "addone", fe.Name)

	// Removing an unknown name does nothing.
	ev.UnregisterFunc("addone")
	ev.UnregisterFunc("nonexistent")
	_, ok := ev.Func("max")
	require.True(t, ok)
}

func TestFuncArgumentOrder(t *testing.T) {
	ev, err := formula.New("", nil)
	require.NoError(t, err)
	ev.RegisterFunc("f2", formula.Dyadic(func(x, y float64) (float64, error) {
		return 10*x + y, nil
	}))
	ev.RegisterFunc("f3", formula.Triadic(func(x, y, z float64) (float64, error) {
		return 100*x + 10*y + z, nil
	}))
	ev.RegisterFunc("f4", formula.Tetradic(func(x, y, z, w float64) (float64, error) {
		return 1000*x + 100*y + 10*z + w, nil
	}))
	ev.RegisterFunc("digits", formula.VariadicFunc(func(args []float64) (float64, error) {
		var r float64
		for _, x := range args {
			r = 10*r + x
		}
		return r, nil
	}))
	cases := []struct {
		src string
		r   float64
	}{
		{"f2(1, 2)", 12},
		{"f3(1, 2, 3)", 123},
		{"f4(1, 2, 3, 4)", 1234},
		{"digits(5)", 5},
		{"digits(1, 2, 3, 4, 5, 6)", 123456},
		{"1 + f2(f2(1, 2), 3)", 124},
		{"digits(f2(0, 1), 2 * 1, 3) - 100", 23},
	}
	for _, c := range cases {
		t.Run(c.src, func(t *testing.T) {
			r, err := ev.EvalText(c.src)
			require.NoError(t, err)
			require.Equal(t, c.r, r)
		})
	}
}

func TestVariadicArgsNotAliased(t *testing.T) {
	ev, err := formula.New("", nil)
	require.NoError(t, err)
	var kept []float64
	ev.RegisterFunc("keep", formula.VariadicFunc(func(args []float64) (float64, error) {
		kept = args
		return 0, nil
	}))
	_, err = ev.EvalText("keep(1, 2) + max(7, 8, 9)")
	require.NoError(t, err)
	require.Equal(t, []float64{1, 2}, kept)
}

func TestFuncError(t *testing.T) {
	sentinel := errors.New("no")
	ev, err := formula.New("", nil)
	require.NoError(t, err)
	ev.RegisterFunc("fail", formula.Niladic(func() (float64, error) { return 0, sentinel }))
	_, err = ev.EvalText("1 + fail()")
	require.ErrorIs(t, err, sentinel)
}

func TestWithoutDefaultFuncs(t *testing.T) {
	ev, err := formula.New("", nil, formula.WithoutDefaultFuncs())
	require.NoError(t, err)
	_, err = ev.EvalText("max(1, 2)")
	var fe *formula.FuncError
	require.ErrorAs(t, err, &fe)
	// Constants are still there.
	r, err := ev.EvalText("2 * rad * deg")
	require.NoError(t, err)
	require.InDelta(t, 2.0, r, 1e-15)
}

func TestArity(t *testing.T) {
	require.Equal(t, formula.Arity(0), formula.Niladic(func() (int, error) { return 0, nil }).Arity())
	require.Equal(t, formula.Arity(1), formula.Monadic(func(x int) (int, error) { return x, nil }).Arity())
	require.Equal(t, formula.Arity(2), formula.Dyadic(func(x, y int) (int, error) { return x, nil }).Arity())
	require.Equal(t, formula.Arity(3), formula.Triadic(func(x, y, z int) (int, error) { return x, nil }).Arity())
	require.Equal(t, formula.Arity(4), formula.Tetradic(func(x, y, z, w int) (int, error) { return x, nil }).Arity())
	require.Equal(t, formula.Variadic, formula.VariadicFunc(func(args []int) (int, error) { return 0, nil }).Arity())
	require.Equal(t, "3", formula.Arity(3).String())
	require.Equal(t, "at least 1", formula.Variadic.String())
}

func TestClamp(t *testing.T) {
	cases := []struct {
		src string
		r   float64
	}{
		{"clamp(2, 1, 3)", 2},
		{"clamp(-1, 1, 3)", 1},
		{"clamp(4, 1, 3)", 3},
		{"clamp(1, 1, 1)", 1},
		{"clamp(5, 1, 1)", 1},
	}
	for _, c := range cases {
		t.Run(c.src, func(t *testing.T) {
			r, err := formula.Eval(c.src, nil)
			require.NoError(t, err)
			require.Equal(t, c.r, r)
		})
	}
	_, err := formula.Eval("clamp(2, 3, 1)", nil)
	var ae *formula.ArgumentError
	require.ErrorAs(t, err, &ae)
	require.Equal(t, "invalid argument to clamp: lower bound exceeds upper bound", ae.Error())
}

func TestNilFunc(t *testing.T) {
	require.Panics(t, func() { formula.Niladic[float64](nil) })
	require.Panics(t, func() { formula.Monadic[float64](nil) })
	require.Panics(t, func() { formula.Dyadic[float64](nil) })
	require.Panics(t, func() { formula.Triadic[float64](nil) })
	require.Panics(t, func() { formula.Tetradic[float64](nil) })
	require.Panics(t, func() { formula.VariadicFunc[float64](nil) })
}
