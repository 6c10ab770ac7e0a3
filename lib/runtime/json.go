package runtime

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ToJSON serializes the value to JSON. Functions are written as
// {"_function_id":"..."} references; NaN and infinities are rejected.
func (v Value) ToJSON() (string, error) {
	stream := json.BorrowStream(nil)
	defer json.ReturnStream(stream)

	if err := writeJSON(stream, v, make(map[any]bool)); err != nil {
		return "", err
	}
	if stream.Error != nil {
		return "", stream.Error
	}
	return string(stream.Buffer()), nil
}

// MarshalJSON implements json.Marshaler
func (v Value) MarshalJSON() ([]byte, error) {
	s, err := v.ToJSON()
	if err != nil {
		return nil, err
	}
	return []byte(s), nil
}

func writeJSON(stream *jsoniter.Stream, v Value, seen map[any]bool) error {
	switch v.tag {
	case TagNull:
		stream.WriteNil()
	case TagNumber:
		if math.IsNaN(v.num) || math.IsInf(v.num, 0) {
			return fmt.Errorf("%w: number %s has no JSON form", ErrUnencodable, formatNumber(v.num))
		}
		stream.WriteFloat64(v.num)
	case TagString:
		stream.WriteString(v.str)
	case TagArray:
		if seen[v.arr] {
			return ErrCyclic
		}
		seen[v.arr] = true
		defer delete(seen, v.arr)
		stream.WriteArrayStart()
		for i, elem := range v.arr.elements {
			if i > 0 {
				stream.WriteMore()
			}
			if err := writeJSON(stream, elem, seen); err != nil {
				return err
			}
		}
		stream.WriteArrayEnd()
	case TagMap:
		if seen[v.m] {
			return ErrCyclic
		}
		seen[v.m] = true
		defer delete(seen, v.m)
		stream.WriteObjectStart()
		for i, k := range v.m.keys {
			if i > 0 {
				stream.WriteMore()
			}
			stream.WriteObjectField(k)
			if err := writeJSON(stream, v.m.entries[k], seen); err != nil {
				return err
			}
		}
		stream.WriteObjectEnd()
	case TagFunction:
		stream.WriteObjectStart()
		stream.WriteObjectField("_function_id")
		stream.WriteString(v.fn.ID)
		stream.WriteObjectEnd()
	default:
		return fmt.Errorf("%w: tag %d", ErrUnencodable, int(v.tag))
	}
	return nil
}

var (
	errEmptyJSON     = errors.New("empty document")
	errInvalidJSON   = errors.New("malformed document")
	errTruncatedJSON = errors.New("unexpected end of document")
	errTrailingJSON  = errors.New("unexpected data after value")
	errBoolJSON      = errors.New("booleans are not supported")
)

// ValueFromJSON parses a JSON document into a Value. Object key order is
// kept. Booleans have no Haxic counterpart and are rejected.
func ValueFromJSON(data string) (Value, error) {
	if strings.TrimSpace(data) == "" {
		return Null(), fmt.Errorf("runtime: parse JSON: %w", errEmptyJSON)
	}

	d := &jsonDecoder{iter: jsoniter.ParseString(json, data)}
	v := d.read()
	if d.err != nil {
		return Null(), fmt.Errorf("runtime: parse JSON: %w", d.err)
	}
	if d.iter.Error != nil && !errors.Is(d.iter.Error, io.EOF) {
		return Null(), fmt.Errorf("runtime: parse JSON: %w", errInvalidJSON)
	}
	if d.iter.WhatIsNext() != jsoniter.InvalidValue || !errors.Is(d.iter.Error, io.EOF) {
		return Null(), fmt.Errorf("runtime: parse JSON: %w", errTrailingJSON)
	}
	return v, nil
}

// jsonDecoder keeps the first semantic error apart from jsoniter's own
// syntax errors, which carry a raw byte dump. depth counts open containers:
// reaching the end of input inside one means the document was cut short.
type jsonDecoder struct {
	iter  *jsoniter.Iterator
	depth int
	err   error
}

func (d *jsonDecoder) fail(err error) Value {
	if d.err == nil {
		d.err = err
	}
	d.iter.ReportError("ValueFromJSON", err.Error())
	return Null()
}

func (d *jsonDecoder) read() Value {
	v := d.readValue()
	if d.err == nil && d.depth > 0 && errors.Is(d.iter.Error, io.EOF) {
		return d.fail(errTruncatedJSON)
	}
	return v
}

func (d *jsonDecoder) readValue() Value {
	iter := d.iter
	switch iter.WhatIsNext() {
	case jsoniter.NilValue:
		iter.ReadNil()
		return Null()
	case jsoniter.NumberValue:
		return NumberValue(iter.ReadFloat64())
	case jsoniter.StringValue:
		return StringValue(iter.ReadString())
	case jsoniter.ArrayValue:
		arr := NewArray()
		d.depth++
		iter.ReadArrayCB(func(*jsoniter.Iterator) bool {
			arr.Push(d.read())
			return d.err == nil
		})
		d.depth--
		return ArrayValue(arr)
	case jsoniter.ObjectValue:
		m := NewMap()
		d.depth++
		iter.ReadMapCB(func(_ *jsoniter.Iterator, key string) bool {
			m.Set(key, d.read())
			return d.err == nil
		})
		d.depth--
		return MapValue(m)
	case jsoniter.BoolValue:
		iter.ReadBool()
		return d.fail(errBoolJSON)
	default:
		if errors.Is(iter.Error, io.EOF) {
			return d.fail(errTruncatedJSON)
		}
		return d.fail(errInvalidJSON)
	}
}
