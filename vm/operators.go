package vm

import "math"

// Generic operators accept ints, floats, boxed numbers and strings. Two
// ints stay an int (with 30-bit wraparound and no allocation); any float
// operand promotes the operation to float; a string on either side of +
// turns the operation into concatenation.

type operandKind uint8

const (
	operandNone operandKind = iota
	operandInt
	operandFloat
	operandString
)

// operand classifies v for arithmetic, unboxing boxed numbers.
func (rt *Runtime) operand(v Value) (operandKind, int32, float32) {
	switch {
	case v.IsInt():
		return operandInt, v.Int(), 0
	case v.IsFloat():
		return operandFloat, 0, v.Float()
	case !v.IsPtr():
		return operandNone, 0, 0
	}
	switch rt.ClassOf(v) {
	case IntBoxClass:
		return operandInt, *rt.IntProperty(v, 0), 0
	case FloatBoxClass:
		return operandFloat, 0, *rt.FloatProperty(v, 0)
	case StringClass:
		return operandString, 0, 0
	}
	return operandNone, 0, 0
}

func toFloat(k operandKind, i int32, f float32) float32 {
	if k == operandInt {
		return float32(i)
	}
	return f
}

func opName(op byte) string {
	if op == '^' {
		return "**"
	}
	return string(op)
}

// Binary applies the arithmetic operator op ('+', '-', '*', '/', '%' or
// '^' for power).
func (ctx *Context) Binary(op byte, a, b Value) (Value, error) {
	if op == '+' {
		return ctx.Add(a, b)
	}
	return ctx.rt.arith(op, a, b)
}

// Add implements +.
func (ctx *Context) Add(a, b Value) (Value, error) {
	if a.IsInt() && b.IsInt() {
		return FromInt(a.Int() + b.Int()), nil
	}
	rt := ctx.rt
	if rt.IsString(a) || rt.IsString(b) {
		return ctx.NewString(rt.AnyToString(a) + rt.AnyToString(b))
	}
	return rt.arith('+', a, b)
}

// Subtract implements -.
func (ctx *Context) Subtract(a, b Value) (Value, error) { return ctx.rt.arith('-', a, b) }

// Multiply implements *.
func (ctx *Context) Multiply(a, b Value) (Value, error) { return ctx.rt.arith('*', a, b) }

// Divide implements /. Integer division by zero is a DivisionByZero fault;
// float division follows IEEE 754.
func (ctx *Context) Divide(a, b Value) (Value, error) { return ctx.rt.arith('/', a, b) }

// Modulo implements %.
func (ctx *Context) Modulo(a, b Value) (Value, error) { return ctx.rt.arith('%', a, b) }

// Power implements **. Two ints with a non-negative exponent give an int;
// everything else gives a float.
func (ctx *Context) Power(a, b Value) (Value, error) { return ctx.rt.arith('^', a, b) }

func (rt *Runtime) arith(op byte, a, b Value) (Value, error) {
	ka, ia, fa := rt.operand(a)
	kb, ib, fb := rt.operand(b)
	if ka == operandNone || kb == operandNone || ka == operandString || kb == operandString {
		return Null, typeError("bad operand for %s", opName(op))
	}
	if ka == operandInt && kb == operandInt {
		return intArith(op, ia, ib)
	}
	return floatArith(op, toFloat(ka, ia, fa), toFloat(kb, ib, fb))
}

func intArith(op byte, x, y int32) (Value, error) {
	switch op {
	case '+':
		return FromInt(x + y), nil
	case '-':
		return FromInt(x - y), nil
	case '*':
		return FromInt(x * y), nil
	case '/':
		if y == 0 {
			return Null, newError(DivisionByZero, "%d / 0", x)
		}
		return FromInt(x / y), nil
	case '%':
		if y == 0 {
			return Null, newError(DivisionByZero, "%d %% 0", x)
		}
		return FromInt(x % y), nil
	case '^':
		if y < 0 {
			return floatArith(op, float32(x), float32(y))
		}
		r := int32(1)
		for base := x; y > 0; y >>= 1 {
			if y&1 != 0 {
				r *= base
			}
			base *= base
		}
		return FromInt(r), nil
	}
	return Null, typeError("bad operator %s", opName(op))
}

func floatArith(op byte, x, y float32) (Value, error) {
	switch op {
	case '+':
		return FromFloat(x + y), nil
	case '-':
		return FromFloat(x - y), nil
	case '*':
		return FromFloat(x * y), nil
	case '/':
		return FromFloat(x / y), nil
	case '%':
		return FromFloat(float32(math.Mod(float64(x), float64(y)))), nil
	case '^':
		return FromFloat(float32(math.Pow(float64(x), float64(y)))), nil
	}
	return Null, typeError("bad operator %s", opName(op))
}

// Negate implements unary minus.
func (rt *Runtime) Negate(v Value) (Value, error) {
	switch k, i, f := rt.operand(v); k {
	case operandInt:
		return FromInt(-i), nil
	case operandFloat:
		return FromFloat(-f), nil
	}
	return Null, typeError("bad operand for unary minus")
}

// ---------------------------------------------------------------------------
// Comparison
// ---------------------------------------------------------------------------

// order compares two numbers or two strings. Numbers are totally ordered
// except NaN, which is unordered as in IEEE 754: with a NaN operand lt, eq
// and gt are all false.
func (rt *Runtime) order(op string, a, b Value) (lt, eq, gt bool, err error) {
	ka, ia, fa := rt.operand(a)
	kb, ib, fb := rt.operand(b)
	switch {
	case ka == operandInt && kb == operandInt:
		return ia < ib, ia == ib, ia > ib, nil
	case ka == operandString && kb == operandString:
		c := rt.compareStrings(a, b)
		return c < 0, c == 0, c > 0, nil
	case ka != operandNone && kb != operandNone && ka != operandString && kb != operandString:
		x, y := toFloat(ka, ia, fa), toFloat(kb, ib, fb)
		return x < y, x == y, x > y, nil
	}
	return false, false, false, typeError("bad operand for %s", op)
}

// Equal reports a == b. Numbers compare by promoted value, strings by
// content, everything else by identity.
func (rt *Runtime) Equal(a, b Value) bool {
	if _, eq, _, err := rt.order("==", a, b); err == nil {
		return eq
	}
	return a == b
}

// Less reports a < b.
func (rt *Runtime) Less(a, b Value) (bool, error) {
	lt, _, _, err := rt.order("<", a, b)
	return lt, err
}

// LessEq reports a <= b.
func (rt *Runtime) LessEq(a, b Value) (bool, error) {
	lt, eq, _, err := rt.order("<=", a, b)
	return lt || eq, err
}

// Greater reports a > b.
func (rt *Runtime) Greater(a, b Value) (bool, error) {
	_, _, gt, err := rt.order(">", a, b)
	return gt, err
}

// GreaterEq reports a >= b.
func (rt *Runtime) GreaterEq(a, b Value) (bool, error) {
	_, eq, gt, err := rt.order(">=", a, b)
	return gt || eq, err
}
