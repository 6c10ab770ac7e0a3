package runtime

import (
	"math"
	"strconv"
	"strings"
	"unicode/utf8"
)

// TypeOf returns the tag name of v as a string value
func TypeOf(v Value) Value {
	switch v.tag {
	case TagString, TagArray, TagNumber, TagMap, TagFunction, TagNull:
		return StringValue(v.tag.String())
	default:
		panic("runtime: value with invalid tag " + strconv.Itoa(int(v.tag)))
	}
}

// Length returns the character count of a string, the element count of an
// array, the key count of a map or the arity of a function.
func Length(v Value) (Value, error) {
	switch v.tag {
	case TagString:
		return NumberValue(float64(utf8.RuneCountInString(v.str))), nil
	case TagArray:
		return NumberValue(float64(v.arr.Len())), nil
	case TagMap:
		return NumberValue(float64(v.m.Len())), nil
	case TagFunction:
		return NumberValue(float64(v.fn.Arity)), nil
	case TagNumber, TagNull:
		return Null(), mismatch("length", v.tag, TagString, TagArray, TagMap, TagFunction)
	default:
		panic("runtime: value with invalid tag " + strconv.Itoa(int(v.tag)))
	}
}

// MapArray applies fn to every element of arr in order and returns the
// results as a new array. The first error from fn is returned as is.
func MapArray(arr, fn Value) (Value, error) {
	if arr.tag != TagArray {
		return Null(), mismatch("map", arr.tag, TagArray)
	}
	if fn.tag != TagFunction {
		return Null(), mismatch("map", fn.tag, TagFunction)
	}
	if fn.fn.Arity != 1 {
		return Null(), &ArityError{Name: fn.fn.Name, Want: fn.fn.Arity, Got: 1}
	}

	src := arr.arr.Elements()
	out := make([]Value, len(src))
	for i, elem := range src {
		r, err := fn.fn.Call(elem)
		if err != nil {
			return Null(), err
		}
		out[i] = r
	}
	return Value{tag: TagArray, arr: &Array{elements: out}}, nil
}

// ToString returns the canonical rendering of v as a string value
func ToString(v Value) Value {
	return StringValue(v.AsString())
}

// AsString converts the value to its canonical string representation.
// Strings render as their contents; strings nested in arrays and maps are
// quoted.
func (v Value) AsString() string {
	if v.tag == TagString {
		return v.str
	}
	var b strings.Builder
	writeValue(&b, v, make(map[any]bool))
	return b.String()
}

func writeValue(b *strings.Builder, v Value, seen map[any]bool) {
	switch v.tag {
	case TagNull:
		b.WriteString("null")
	case TagNumber:
		b.WriteString(formatNumber(v.num))
	case TagString:
		b.WriteString(strconv.Quote(v.str))
	case TagArray:
		if seen[v.arr] {
			b.WriteString("[...]")
			return
		}
		seen[v.arr] = true
		b.WriteByte('[')
		for i, elem := range v.arr.elements {
			if i > 0 {
				b.WriteString(", ")
			}
			writeValue(b, elem, seen)
		}
		b.WriteByte(']')
		delete(seen, v.arr)
	case TagMap:
		if seen[v.m] {
			b.WriteString("{...}")
			return
		}
		seen[v.m] = true
		b.WriteByte('{')
		for i, k := range v.m.keys {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(strconv.Quote(k))
			b.WriteString(": ")
			writeValue(b, v.m.entries[k], seen)
		}
		b.WriteByte('}')
		delete(seen, v.m)
	case TagFunction:
		if v.fn.Name == "" {
			b.WriteString("<function>")
		} else {
			b.WriteString("<function " + v.fn.Name + ">")
		}
	default:
		panic("runtime: value with invalid tag " + strconv.Itoa(int(v.tag)))
	}
}

// formatNumber renders integral values without a fraction and switches to
// exponent notation at 1e21.
func formatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	case math.Abs(f) >= 1e21:
		return strconv.FormatFloat(f, 'g', -1, 64)
	default:
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
}
