package document

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/goccy/go-json"

	"github.com/torrentkit/bencode/encoding/bencode"
)

// MarshalJSON returns the JSON form of v. Byte strings become JSON strings,
// integers JSON numbers, lists arrays, and dictionaries objects with keys in
// decoded order.
//
// Byte strings that are not valid UTF-8 have invalid sequences replaced by
// U+FFFD.
func MarshalJSON(v bencode.Value) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeJSON(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// MarshalJSONIndent is like MarshalJSON but indents nested elements.
func MarshalJSONIndent(v bencode.Value, prefix, indent string) ([]byte, error) {
	p, err := MarshalJSON(v)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := json.Indent(&buf, p, prefix, indent); err != nil {
		return nil, fmt.Errorf("indent JSON document: %w", err)
	}
	return buf.Bytes(), nil
}

func writeJSON(buf *bytes.Buffer, v bencode.Value) error {
	switch tv := v.(type) {
	case bencode.String:
		return writeJSONString(buf, string(tv))
	case bencode.Int:
		buf.WriteString(strconv.FormatInt(int64(tv), 10))
	case bencode.List:
		buf.WriteByte('[')
		for i, item := range tv {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeJSON(buf, item); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case *bencode.Dict:
		buf.WriteByte('{')
		i := 0
		for k, item := range tv.All() {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeJSONString(buf, k); err != nil {
				return err
			}
			buf.WriteByte(':')
			if err := writeJSON(buf, item); err != nil {
				return err
			}
			i++
		}
		buf.WriteByte('}')
	default:
		return fmt.Errorf("unsupported document value %T", v)
	}
	return nil
}

func writeJSONString(buf *bytes.Buffer, s string) error {
	p, err := json.MarshalNoEscape(s)
	if err != nil {
		return fmt.Errorf("marshal JSON string: %w", err)
	}
	buf.Write(p)
	return nil
}
