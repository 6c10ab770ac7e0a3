package runtime

import "math"

// The math table is built once and never mutated. Math() hands out copies.
var mathFuncs = []*Function{
	unaryMath("sqrt", math.Sqrt),
	unaryMath("sin", math.Sin),
	unaryMath("cos", math.Cos),
	unaryMath("tan", math.Tan),
	binaryMath("pow", math.Pow),
}

func unaryMath(name string, op func(float64) float64) *Function {
	return NewFunction(name, 1, func(args []Value) (Value, error) {
		x, ok := args[0].Number()
		if !ok {
			return Null(), mismatch(name, args[0].Tag(), TagNumber)
		}
		return NumberValue(op(x)), nil
	})
}

func binaryMath(name string, op func(float64, float64) float64) *Function {
	return NewFunction(name, 2, func(args []Value) (Value, error) {
		x, ok := args[0].Number()
		if !ok {
			return Null(), mismatch(name, args[0].Tag(), TagNumber)
		}
		y, ok := args[1].Number()
		if !ok {
			return Null(), mismatch(name, args[1].Tag(), TagNumber)
		}
		return NumberValue(op(x, y)), nil
	})
}

// Math returns the math namespace as a map of sqrt, sin, cos, tan and pow.
// Each call returns a fresh map, so callers cannot alter the shared table.
func Math() Value {
	m := NewMap()
	for _, f := range mathFuncs {
		m.Set(f.Name, FunctionValue(f))
	}
	return MapValue(m)
}

// MathFunc looks up a math function by name
func MathFunc(name string) (*Function, bool) {
	for _, f := range mathFuncs {
		if f.Name == name {
			return f, true
		}
	}
	return nil, false
}

// Sqrt returns the square root of x. Negative inputs yield NaN.
func Sqrt(x float64) float64 { return math.Sqrt(x) }

// Sin returns the sine of x radians.
func Sin(x float64) float64 { return math.Sin(x) }

// Cos returns the cosine of x radians.
func Cos(x float64) float64 { return math.Cos(x) }

// Tan returns the tangent of x radians.
func Tan(x float64) float64 { return math.Tan(x) }

// Pow returns x raised to the power y.
func Pow(x, y float64) float64 { return math.Pow(x, y) }
