// Package formula evaluates arithmetic expressions written as text, such as
// user-supplied formulas in spreadsheets or configuration files.
//
// Expressions combine numbers, variables, constants, and function calls with
// + - * and /, using the usual precedence, parentheses, and unary signs:
// "2 * (x + 1) - max(a, b, 3)". Whitespace is insignificant. Evaluation happens
// in a single pass while parsing, without building a syntax tree.
//
// Names resolve to the constants pi, e, deg, and rad first, then to variables.
// The default functions are rand, abs, sin, cos, tan, asin, acos, atan, sqrt,
// cbrt, exp, ln, log, atan2, pow, min, max, and clamp. An Evaluator can
// register its own functions of zero to four arguments or of any positive
// number of arguments.
//
// Evaluators are generic over the numeric type. Float64 and Float32 compute
// with machine floats; Big computes with *big.Float at a chosen precision.
package formula
