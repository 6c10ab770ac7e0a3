package runtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTagNames(t *testing.T) {
	assert.Equal(t, "number", TagNumber.String())
	assert.Equal(t, "function", TagFunction.String())
	assert.Equal(t, "invalid", Tag(42).String())
	assert.True(t, TagNull.Valid())
	assert.False(t, Tag(-1).Valid())
	assert.False(t, Tag(6).Valid())
}

func TestAccessorsMatchVariant(t *testing.T) {
	n := NumberValue(2)
	_, ok := n.Str()
	assert.False(t, ok)
	assert.Nil(t, n.Array())
	assert.Nil(t, n.Map())
	assert.Nil(t, n.Function())

	s := StringValue("x")
	_, ok = s.Number()
	assert.False(t, ok)
	got, ok := s.Str()
	assert.True(t, ok)
	assert.Equal(t, "x", got)
}

func TestArray(t *testing.T) {
	src := []Value{NumberValue(1), NumberValue(2)}
	a := NewArray(src...)
	src[0] = Null()
	assert.Equal(t, NumberValue(1), a.At(0), "NewArray copies its input")

	a.Push(StringValue("three"))
	assert.Equal(t, 3, a.Len())
	assert.True(t, a.At(-1).IsNull())
	assert.True(t, a.At(3).IsNull())

	assert.True(t, a.AtPut(1, StringValue("two")))
	assert.False(t, a.AtPut(5, Null()))
	assert.Equal(t, `[1, "two", "three"]`, ArrayValue(a).AsString())

	elems := a.Elements()
	elems[0] = Null()
	assert.Equal(t, NumberValue(1), a.At(0), "Elements returns a copy")
}

func TestMapInsertionOrder(t *testing.T) {
	m := NewMap()
	m.Set("z", NumberValue(1))
	m.Set("a", NumberValue(2))
	m.Set("m", NumberValue(3))
	m.Set("z", NumberValue(4))

	assert.Equal(t, []string{"z", "a", "m"}, m.Keys())
	v, ok := m.Get("z")
	require.True(t, ok)
	assert.Equal(t, NumberValue(4), v)

	assert.True(t, m.Delete("a"))
	assert.False(t, m.Delete("a"))
	assert.False(t, m.Has("a"))
	assert.Equal(t, []string{"z", "m"}, m.Keys())

	m.Set("a", Null())
	assert.Equal(t, []string{"z", "m", "a"}, m.Keys())
	assert.Equal(t, 3, m.Len())

	var visited []string
	m.Range(func(k string, _ Value) bool {
		visited = append(visited, k)
		return k != "m"
	})
	assert.Equal(t, []string{"z", "m"}, visited)
}

func TestMapCopy(t *testing.T) {
	m := NewMap()
	m.Set("a", NumberValue(1))
	c := m.Copy()
	c.Set("b", NumberValue(2))
	c.Set("a", NumberValue(9))

	assert.Equal(t, 1, m.Len())
	v, _ := m.Get("a")
	assert.Equal(t, NumberValue(1), v)
	assert.Equal(t, []string{"a", "b"}, c.Keys())
}

func TestFunctionCall(t *testing.T) {
	add := NewFunction("add", 2, func(args []Value) (Value, error) {
		x, _ := args[0].Number()
		y, _ := args[1].Number()
		return NumberValue(x + y), nil
	})
	assert.NotEmpty(t, add.ID)

	got, err := add.Call(NumberValue(2), NumberValue(3))
	require.NoError(t, err)
	assert.Equal(t, NumberValue(5), got)

	_, err = add.Call(NumberValue(2))
	assert.ErrorIs(t, err, ErrArity)
	assert.EqualError(t, err, "add expects 2 argument(s), got 1")

	other := NewFunction("add", 2, nil)
	assert.NotEqual(t, add.ID, other.ID)

	got, err = other.Call(Null(), Null())
	require.NoError(t, err)
	assert.True(t, got.IsNull())

	assert.Equal(t, 0, NewFunction("neg", -3, nil).Arity)
}
