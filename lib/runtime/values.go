// Package runtime provides the runtime support library for programs compiled
// by Haxic. Compiled output links against this package for its value model
// and built-in functions.
package runtime

import (
	"strings"

	"github.com/google/uuid"
)

// Primitive aliases used by generated code.
type (
	Number = float64
	String = string
	Any    = Value
)

// Tag identifies which variant a Value holds
type Tag int

const (
	TagNull Tag = iota
	TagNumber
	TagString
	TagArray
	TagMap
	TagFunction
)

var tagNames = [...]string{
	TagNull:     "null",
	TagNumber:   "number",
	TagString:   "string",
	TagArray:    "array",
	TagMap:      "map",
	TagFunction: "function",
}

// String returns the tag name reported by typeof
func (t Tag) String() string {
	if t < 0 || int(t) >= len(tagNames) {
		return "invalid"
	}
	return tagNames[t]
}

// Valid reports whether t is one of the six value tags
func (t Tag) Valid() bool {
	return t >= TagNull && t <= TagFunction
}

// Value is the Go representation of a Haxic value. The zero Value is Null.
// Exactly one payload field is meaningful, selected by tag.
type Value struct {
	tag Tag
	num float64
	str string
	arr *Array
	m   *Map
	fn  *Function
}

// Null returns the null value
func Null() Value {
	return Value{}
}

// NumberValue creates a number value
func NumberValue(f float64) Value {
	return Value{tag: TagNumber, num: f}
}

// StringValue creates a string value
func StringValue(s string) Value {
	return Value{tag: TagString, str: s}
}

// ArrayValue creates an array value. A nil array becomes an empty one.
func ArrayValue(a *Array) Value {
	if a == nil {
		a = NewArray()
	}
	return Value{tag: TagArray, arr: a}
}

// MapValue creates a map value. A nil map becomes an empty one.
func MapValue(m *Map) Value {
	if m == nil {
		m = NewMap()
	}
	return Value{tag: TagMap, m: m}
}

// FunctionValue creates a function value. A nil function becomes null.
func FunctionValue(f *Function) Value {
	if f == nil {
		return Null()
	}
	return Value{tag: TagFunction, fn: f}
}

// Tag returns the variant held by v
func (v Value) Tag() Tag {
	return v.tag
}

// IsNull returns true if the value is null
func (v Value) IsNull() bool {
	return v.tag == TagNull
}

// Number returns the number payload and whether v is a number
func (v Value) Number() (float64, bool) {
	return v.num, v.tag == TagNumber
}

// Str returns the string payload and whether v is a string
func (v Value) Str() (string, bool) {
	return v.str, v.tag == TagString
}

// Array returns the array payload, or nil if v is not an array
func (v Value) Array() *Array {
	if v.tag != TagArray {
		return nil
	}
	return v.arr
}

// Map returns the map payload, or nil if v is not a map
func (v Value) Map() *Map {
	if v.tag != TagMap {
		return nil
	}
	return v.m
}

// Function returns the function payload, or nil if v is not a function
func (v Value) Function() *Function {
	if v.tag != TagFunction {
		return nil
	}
	return v.fn
}

// String implements fmt.Stringer using the canonical toString rendering
func (v Value) String() string {
	return v.AsString()
}

// Array represents a Haxic array
type Array struct {
	elements []Value
}

// NewArray creates an array holding the given elements
func NewArray(elems ...Value) *Array {
	a := &Array{elements: make([]Value, len(elems))}
	copy(a.elements, elems)
	return a
}

// Push adds an element to the end of the array
func (a *Array) Push(v Value) {
	a.elements = append(a.elements, v)
}

// At returns the element at the given index, or null when out of range
func (a *Array) At(idx int) Value {
	if idx < 0 || idx >= len(a.elements) {
		return Null()
	}
	return a.elements[idx]
}

// AtPut sets the element at the given index and reports whether it was in range
func (a *Array) AtPut(idx int, v Value) bool {
	if idx < 0 || idx >= len(a.elements) {
		return false
	}
	a.elements[idx] = v
	return true
}

// Len returns the length of the array
func (a *Array) Len() int {
	if a == nil {
		return 0
	}
	return len(a.elements)
}

// Elements returns a copy of the array's elements
func (a *Array) Elements() []Value {
	out := make([]Value, len(a.elements))
	copy(out, a.elements)
	return out
}

// Map is a string-keyed mapping that remembers insertion order
type Map struct {
	keys    []string
	entries map[string]Value
}

// NewMap creates a new empty map
func NewMap() *Map {
	return &Map{entries: make(map[string]Value)}
}

// Set stores v under key. Updating an existing key keeps its position.
func (m *Map) Set(key string, v Value) {
	if _, ok := m.entries[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.entries[key] = v
}

// Get returns the value stored under key
func (m *Map) Get(key string) (Value, bool) {
	v, ok := m.entries[key]
	return v, ok
}

// Has reports whether key is present
func (m *Map) Has(key string) bool {
	_, ok := m.entries[key]
	return ok
}

// Delete removes key and reports whether it was present
func (m *Map) Delete(key string) bool {
	if _, ok := m.entries[key]; !ok {
		return false
	}
	delete(m.entries, key)
	for i, k := range m.keys {
		if k == key {
			m.keys = append(m.keys[:i], m.keys[i+1:]...)
			break
		}
	}
	return true
}

// Len returns the number of distinct keys
func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Keys returns the keys in insertion order
func (m *Map) Keys() []string {
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

// Range calls fn for each entry in insertion order until fn returns false
func (m *Map) Range(fn func(key string, v Value) bool) {
	for _, k := range m.keys {
		if !fn(k, m.entries[k]) {
			return
		}
	}
}

// Copy returns a shallow copy of the map
func (m *Map) Copy() *Map {
	out := &Map{
		keys:    make([]string, len(m.keys)),
		entries: make(map[string]Value, len(m.entries)),
	}
	copy(out.keys, m.keys)
	for k, v := range m.entries {
		out.entries[k] = v
	}
	return out
}

// Impl is the Go implementation behind a Function value
type Impl func(args []Value) (Value, error)

// Function is a callable with a fixed arity
type Function struct {
	ID    string
	Name  string
	Arity int
	impl  Impl
}

// NewFunction creates a named function. Name may be empty for anonymous
// functions.
func NewFunction(name string, arity int, impl Impl) *Function {
	if arity < 0 {
		arity = 0
	}
	return &Function{
		ID:    "fn_" + strings.ReplaceAll(uuid.New().String(), "-", ""),
		Name:  name,
		Arity: arity,
		impl:  impl,
	}
}

// Call invokes the function. The argument count must equal the arity.
func (f *Function) Call(args ...Value) (Value, error) {
	if len(args) != f.Arity {
		return Null(), &ArityError{Name: f.Name, Want: f.Arity, Got: len(args)}
	}
	if f.impl == nil {
		return Null(), nil
	}
	return f.impl(args)
}
