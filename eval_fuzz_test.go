package formula_test

import (
	"testing"

	"github.com/zephyrtronium/formula"
)

func FuzzEval(f *testing.F) {
	f.Add("x")
	f.Add("y")
	f.Add("1*2")
	f.Add("max(x, (1+2)*3, -4)")
	f.Add("clamp(x, 1..2, )")
	f.Fuzz(func(t *testing.T, s string) {
		formula.Eval(s, map[string]float64{"x": 0})
	})
}

func FuzzEvalBig(f *testing.F) {
	f.Add("x")
	f.Add("1/0")
	f.Add("pow(-8, 1/3)")
	f.Add("pow(2, pow(2, 2000000000))")
	f.Add("pow(-2, pow(2, 2000000000))")
	f.Add("exp(ln(pow(2, 2000000000)))")
	f.Add("pow(-1, 1/0)")
	f.Add("pow(1 + 1/pow(2, 60), pow(2, 100000))")
	f.Fuzz(func(t *testing.T, s string) {
		ev, err := formula.NewEvaluator(formula.Big(64), s, nil)
		if err != nil {
			t.Fatal(err)
		}
		ev.Eval()
	})
}
