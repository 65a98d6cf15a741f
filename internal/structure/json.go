package structure

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/tidwall/gjson"
)

// Decode parses a JSON document into a Value tree. Object keys keep their
// document order.
func Decode(data []byte) (Value, error) {
	if !gjson.ValidBytes(data) {
		return Value{}, errors.New("invalid JSON document")
	}
	return fromResult(gjson.ParseBytes(data)), nil
}

func fromResult(r gjson.Result) Value {
	switch {
	case r.IsObject():
		m := NewMapping()
		r.ForEach(func(key, val gjson.Result) bool {
			m.Set(key.String(), fromResult(val))
			return true
		})
		return m
	case r.IsArray():
		seq := Sequence()
		r.ForEach(func(_, val gjson.Result) bool {
			seq.Append(fromResult(val))
			return true
		})
		return seq
	case r.Type == gjson.String:
		return String(r.Str)
	case r.Type == gjson.Number:
		return Number(r.Num)
	case r.Type == gjson.True:
		return Bool(true)
	case r.Type == gjson.False:
		return Bool(false)
	default:
		return Null()
	}
}

// MarshalJSON renders the tree as compact JSON, preserving mapping key
// order.
func (v Value) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := encode(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Dump renders the tree as compact JSON without the HTML escaping that
// json.Marshal applies on top of MarshalJSON output. Generic type names
// like List<String> stay readable.
func Dump(v Value) ([]byte, error) {
	var buf bytes.Buffer
	if err := encode(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DumpIndent is Dump with four-space indentation, the format of the
// structure files the grader emits.
func DumpIndent(v Value) ([]byte, error) {
	b, err := Dump(v)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, b, "", "    "); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encode(buf *bytes.Buffer, v Value) error {
	switch v.kind {
	case KindNull:
		buf.WriteString("null")
	case KindBool:
		buf.WriteString(strconv.FormatBool(v.b))
	case KindNumber:
		buf.WriteString(strconv.FormatFloat(v.num, 'f', -1, 64))
	case KindString:
		quoteString(buf, v.str)
	case KindMapping:
		buf.WriteByte('{')
		for i, key := range v.keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			quoteString(buf, key)
			buf.WriteByte(':')
			if err := encode(buf, v.m[key]); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	case KindSequence:
		buf.WriteByte('[')
		for i, item := range v.seq {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := encode(buf, item); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	}
	return nil
}

// quoteString writes a JSON string literal without HTML escaping.
func quoteString(buf *bytes.Buffer, s string) {
	buf.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			buf.WriteString(`\"`)
		case '\\':
			buf.WriteString(`\\`)
		case '\n':
			buf.WriteString(`\n`)
		case '\r':
			buf.WriteString(`\r`)
		case '\t':
			buf.WriteString(`\t`)
		default:
			if r < 0x20 {
				fmt.Fprintf(buf, `\u%04x`, r)
			} else {
				buf.WriteRune(r)
			}
		}
	}
	buf.WriteByte('"')
}
