package value

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/vmihailenco/msgpack/v5"
)

// Kind identifies which scalar a Value holds.
type Kind uint8

const (
	KindNull Kind = iota
	KindInt
	KindText
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "INT"
	case KindText:
		return "TEXT"
	default:
		return "NULL"
	}
}

// Value is a tagged scalar: an integer, a text string, or NULL.
// Values must be built through Int, Text or Null so that the unused
// payload fields stay zeroed; that makes Value comparable and therefore
// directly usable as a map key in indexes.
type Value struct {
	kind Kind
	i    int64
	s    string
}

// Int builds an integer value.
func Int(i int64) Value {
	return Value{kind: KindInt, i: i}
}

// Text builds a text value.
func Text(s string) Value {
	return Value{kind: KindText, s: s}
}

// Null builds the null value.
func Null() Value {
	return Value{kind: KindNull}
}

func (v Value) Kind() Kind   { return v.kind }
func (v Value) IsNull() bool { return v.kind == KindNull }

// Int returns the integer payload. Valid only for KindInt values.
func (v Value) Int() int64 { return v.i }

// Text returns the string payload. Valid only for KindText values.
func (v Value) Text() string { return v.s }

// Equal reports whether two values hold the same scalar.
// NULL equals only NULL.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindInt:
		return v.i == o.i
	case KindText:
		return v.s == o.s
	default:
		return true
	}
}

func (v Value) String() string {
	switch v.kind {
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindText:
		return v.s
	default:
		return "NULL"
	}
}

// MarshalJSON renders the scalar itself: null, a number, or a string.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindInt:
		return strconv.AppendInt(nil, v.i, 10), nil
	case KindText:
		return json.Marshal(v.s)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON accepts null, integers and strings. Fractional numbers
// are rejected: there is no float type.
func (v *Value) UnmarshalJSON(b []byte) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()

	var raw interface{}
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	switch x := raw.(type) {
	case nil:
		*v = Null()
	case json.Number:
		n, err := strconv.ParseInt(x.String(), 10, 64)
		if err != nil {
			return fmt.Errorf("value: not an integer: %s", x)
		}
		*v = Int(n)
	case string:
		*v = Text(x)
	default:
		return fmt.Errorf("value: cannot decode %T", raw)
	}
	return nil
}

// EncodeMsgpack implements msgpack.CustomEncoder for the wire protocol.
func (v Value) EncodeMsgpack(enc *msgpack.Encoder) error {
	switch v.kind {
	case KindInt:
		return enc.EncodeInt(v.i)
	case KindText:
		return enc.EncodeString(v.s)
	default:
		return enc.EncodeNil()
	}
}

// DecodeMsgpack implements msgpack.CustomDecoder for the wire protocol.
func (v *Value) DecodeMsgpack(dec *msgpack.Decoder) error {
	raw, err := dec.DecodeInterfaceLoose()
	if err != nil {
		return err
	}
	switch x := raw.(type) {
	case nil:
		*v = Null()
	case int64:
		*v = Int(x)
	case uint64:
		*v = Int(int64(x))
	case string:
		*v = Text(x)
	default:
		return fmt.Errorf("value: cannot decode %T", raw)
	}
	return nil
}

var (
	_ msgpack.CustomEncoder = Value{}
	_ msgpack.CustomDecoder = (*Value)(nil)
)
