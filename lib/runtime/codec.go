package runtime

import (
	"errors"
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

var (
	// ErrUnencodable is returned when a value cannot be serialized.
	// Functions have no portable encoding.
	ErrUnencodable = errors.New("value cannot be encoded")

	// ErrCyclic is returned when an array or map contains itself
	ErrCyclic = errors.New("cyclic value")

	// ErrTooDeep is returned when arrays and maps nest past MaxValueDepth
	ErrTooDeep = errors.New("value nested too deeply")
)

// MaxValueDepth is the deepest array or map nesting MarshalValue accepts.
// A scalar or empty container counts as depth 1.
const MaxValueDepth = 1024

// Canonical mode keeps encodings deterministic.
var (
	cborEncMode cbor.EncMode
	cborDecMode cbor.DecMode
)

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("runtime: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em

	// Each Value level is a CBOR map holding an element array.
	dm, err := cbor.DecOptions{MaxNestedLevels: 2*MaxValueDepth + 1}.DecMode()
	if err != nil {
		panic(fmt.Sprintf("runtime: failed to create CBOR dec mode: %v", err))
	}
	cborDecMode = dm
}

// wireValue is the CBOR shape of a Value. Maps are encoded as parallel key
// and element lists so insertion order survives.
type wireValue struct {
	Tag   Tag         `cbor:"1,keyasint"`
	Num   *float64    `cbor:"2,keyasint,omitempty"`
	Str   string      `cbor:"3,keyasint,omitempty"`
	Elems []wireValue `cbor:"4,keyasint,omitempty"`
	Keys  []string    `cbor:"5,keyasint,omitempty"`
}

// MarshalValue serializes a Value to CBOR bytes.
func MarshalValue(v Value) ([]byte, error) {
	w, err := toWire(v, make(map[any]bool), 1)
	if err != nil {
		return nil, err
	}
	return cborEncMode.Marshal(w)
}

// UnmarshalValue deserializes a Value from CBOR bytes.
func UnmarshalValue(data []byte) (Value, error) {
	var w wireValue
	if err := cborDecMode.Unmarshal(data, &w); err != nil {
		return Null(), fmt.Errorf("runtime: unmarshal value: %w", err)
	}
	return fromWire(&w)
}

// MarshalCBOR implements cbor.Marshaler
func (v Value) MarshalCBOR() ([]byte, error) {
	return MarshalValue(v)
}

// UnmarshalCBOR implements cbor.Unmarshaler
func (v *Value) UnmarshalCBOR(data []byte) error {
	decoded, err := UnmarshalValue(data)
	if err != nil {
		return err
	}
	*v = decoded
	return nil
}

func toWire(v Value, seen map[any]bool, depth int) (wireValue, error) {
	w := wireValue{Tag: v.tag}
	if depth > MaxValueDepth {
		return w, fmt.Errorf("%w: more than %d levels", ErrTooDeep, MaxValueDepth)
	}
	switch v.tag {
	case TagNull:
	case TagNumber:
		n := v.num
		w.Num = &n
	case TagString:
		w.Str = v.str
	case TagArray:
		if seen[v.arr] {
			return w, ErrCyclic
		}
		seen[v.arr] = true
		defer delete(seen, v.arr)
		w.Elems = make([]wireValue, len(v.arr.elements))
		for i, elem := range v.arr.elements {
			ew, err := toWire(elem, seen, depth+1)
			if err != nil {
				return w, err
			}
			w.Elems[i] = ew
		}
	case TagMap:
		if seen[v.m] {
			return w, ErrCyclic
		}
		seen[v.m] = true
		defer delete(seen, v.m)
		w.Keys = v.m.Keys()
		w.Elems = make([]wireValue, len(w.Keys))
		for i, k := range w.Keys {
			ew, err := toWire(v.m.entries[k], seen, depth+1)
			if err != nil {
				return w, err
			}
			w.Elems[i] = ew
		}
	case TagFunction:
		return w, fmt.Errorf("%w: function %s", ErrUnencodable, v.fn.ID)
	default:
		return w, fmt.Errorf("%w: tag %d", ErrUnencodable, int(v.tag))
	}
	return w, nil
}

func fromWire(w *wireValue) (Value, error) {
	switch w.Tag {
	case TagNull:
		return Null(), nil
	case TagNumber:
		if w.Num == nil {
			return Null(), fmt.Errorf("runtime: number value without payload")
		}
		return NumberValue(*w.Num), nil
	case TagString:
		return StringValue(w.Str), nil
	case TagArray:
		elems := make([]Value, len(w.Elems))
		for i := range w.Elems {
			ev, err := fromWire(&w.Elems[i])
			if err != nil {
				return Null(), err
			}
			elems[i] = ev
		}
		return Value{tag: TagArray, arr: &Array{elements: elems}}, nil
	case TagMap:
		if len(w.Keys) != len(w.Elems) {
			return Null(), fmt.Errorf("runtime: map with %d keys and %d values", len(w.Keys), len(w.Elems))
		}
		m := NewMap()
		for i, k := range w.Keys {
			ev, err := fromWire(&w.Elems[i])
			if err != nil {
				return Null(), err
			}
			m.Set(k, ev)
		}
		return MapValue(m), nil
	default:
		return Null(), fmt.Errorf("runtime: cannot decode value with tag %s (%d)", w.Tag, int(w.Tag))
	}
}
