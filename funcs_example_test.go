package formula_test

import (
	"fmt"

	"github.com/zephyrtronium/formula"
)

func nargin(args []float64) (float64, error) {
	return float64(len(args)), nil
}

func ExampleVariadicFunc() {
	ev, _ := formula.New("", nil)
	ev.RegisterFunc("nargin", formula.VariadicFunc(nargin))

	a, _ := ev.EvalText("nargin(100)")
	b, _ := ev.EvalText("nargin(3, 2, 1)")
	_, err := ev.EvalText("nargin()")
	fmt.Println(a)
	fmt.Println(b)
	fmt.Println(err)

	// Output:
	// 1
	// 3
	// 1: cannot call nargin with 0 arguments (want at least 1)
}

func ExampleEvaluator_EvalNamed() {
	ev, _ := formula.New("", map[string]float64{"price": 40, "qty": 3})
	r, err := ev.EvalNamed(map[string]string{
		"subtotal": "price * qty",
		"shipping": "clamp(price * qty / 10, 5, 10)",
	})
	if err != nil {
		panic(err)
	}
	fmt.Println(r["subtotal"], r["shipping"])

	// Output:
	// 120 10
}
