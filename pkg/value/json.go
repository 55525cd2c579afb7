package value

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Decode parses a JSON document into a Value tree. Object key order is kept
// and numbers keep their literal form.
func Decode(r io.Reader) (Value, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	v, err := decodeValue(dec)
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("unexpected data after top-level value")
	}
	return v, nil
}

// DecodeBytes is Decode over a byte slice
func DecodeBytes(data []byte) (Value, error) {
	return Decode(bytes.NewReader(data))
}

func decodeValue(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.ErrUnexpectedEOF
		}
		return nil, err
	}

	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			obj := NewObject()
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return nil, fmt.Errorf("object key is %T, not string", keyTok)
				}
				child, err := decodeValue(dec)
				if err != nil {
					return nil, fmt.Errorf("%s: %w", key, err)
				}
				obj.Set(key, child)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return obj, nil
		case '[':
			list := List{}
			for dec.More() {
				child, err := decodeValue(dec)
				if err != nil {
					return nil, fmt.Errorf("[%d]: %w", len(list), err)
				}
				list = append(list, child)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return list, nil
		default:
			return nil, fmt.Errorf("unexpected delimiter %q", t)
		}
	case string:
		return String(t), nil
	case json.Number:
		return Number(t), nil
	case bool:
		return Bool(t), nil
	case nil:
		return Nil, nil
	default:
		return nil, fmt.Errorf("unexpected token %T", tok)
	}
}

// UnmarshalJSON lets an *Object sit inside ordinary structs decoded with
// encoding/json.
func (o *Object) UnmarshalJSON(data []byte) error {
	v, err := DecodeBytes(data)
	if err != nil {
		return err
	}
	decoded, ok := v.(*Object)
	if !ok {
		return fmt.Errorf("expected JSON object, got %s", v.Kind())
	}
	*o = *decoded
	return nil
}

// Encode writes v as JSON without HTML-escaping, so already sanitized text
// is emitted as is. A non-empty indent pretty-prints.
func Encode(w io.Writer, v Value, indent string) error {
	var buf bytes.Buffer
	if err := writeValue(&buf, v); err != nil {
		return err
	}
	if indent != "" {
		var pretty bytes.Buffer
		if err := json.Indent(&pretty, buf.Bytes(), "", indent); err != nil {
			return err
		}
		buf = pretty
	}
	buf.WriteByte('\n')
	_, err := w.Write(buf.Bytes())
	return err
}

func writeValue(buf *bytes.Buffer, v Value) error {
	switch t := v.(type) {
	case Null:
		buf.WriteString("null")
	case String:
		writeString(buf, string(t))
	case Number:
		if t == "" {
			buf.WriteString("0")
		} else {
			buf.WriteString(string(t))
		}
	case Bool:
		if t {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case Date:
		writeString(buf, t.String())
	case List:
		buf.WriteByte('[')
		for i, item := range t {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeValue(buf, item); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case *Object:
		if t == nil {
			buf.WriteString("null")
			return nil
		}
		buf.WriteByte('{')
		for i, key := range t.keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			writeString(buf, key)
			buf.WriteByte(':')
			if err := writeValue(buf, t.fields[key]); err != nil {
				return fmt.Errorf("%s: %w", key, err)
			}
		}
		buf.WriteByte('}')
	default:
		return fmt.Errorf("cannot encode %T", v)
	}
	return nil
}

func writeString(buf *bytes.Buffer, s string) {
	var sb strings.Builder
	enc := json.NewEncoder(&sb)
	enc.SetEscapeHTML(false)
	// Encoding a string never fails
	_ = enc.Encode(s)
	buf.WriteString(strings.TrimSuffix(sb.String(), "\n"))
}

func marshal(v Value) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeValue(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (n Null) MarshalJSON() ([]byte, error)    { return marshal(n) }
func (s String) MarshalJSON() ([]byte, error)  { return marshal(s) }
func (n Number) MarshalJSON() ([]byte, error)  { return marshal(n) }
func (b Bool) MarshalJSON() ([]byte, error)    { return marshal(b) }
func (d Date) MarshalJSON() ([]byte, error)    { return marshal(d) }
func (l List) MarshalJSON() ([]byte, error)    { return marshal(l) }
func (o *Object) MarshalJSON() ([]byte, error) { return marshal(o) }
