package document

import (
	"fmt"

	"github.com/goccy/go-json"

	"github.com/torrentkit/bencode/encoding/bencode"
)

// Interface returns v as generic Go values: byte strings become string,
// integers int64, lists []interface{}, and dictionaries
// map[string]interface{}.
func Interface(v bencode.Value) interface{} {
	switch tv := v.(type) {
	case bencode.String:
		return string(tv)
	case bencode.Int:
		return int64(tv)
	case bencode.List:
		l := make([]interface{}, len(tv))
		for i, item := range tv {
			l[i] = Interface(item)
		}
		return l
	case *bencode.Dict:
		m := make(map[string]interface{}, tv.Len())
		for k, item := range tv.All() {
			m[k] = Interface(item)
		}
		return m
	default:
		return nil
	}
}

// Value provides an interface for encapsulating a decoded bencode value
// within a protocol agnostic document.
type Value interface {
	// Attempts to unmarshal the document value into the Go type provided. Will
	// panic if the provided value is not a pointer type.
	UnmarshalDocument(interface{}) error

	// GetValue returns the underlying document value.
	GetValue() (interface{}, error)
}

// LazyValue wraps a decoded bencode value and converts it on demand.
type LazyValue struct {
	Value bencode.Value
}

var _ Value = LazyValue{}

// NewValue returns an initialized LazyValue wrapping the provided decoded
// value.
func NewValue(v bencode.Value) LazyValue {
	return LazyValue{
		Value: v,
	}
}

// UnmarshalDocument attempts to convert the wrapped value into the Go type
// provided, using the value's JSON form. Dictionary keys are matched against
// `json` struct tags.
//
// Will panic if the provided value is not a pointer type.
func (d LazyValue) UnmarshalDocument(t interface{}) error {
	blob, err := MarshalJSON(d.Value)
	if err != nil {
		return fmt.Errorf("unable to convert document value, %w", err)
	}

	if err := json.Unmarshal(blob, t); err != nil {
		return fmt.Errorf("unable to convert document value, %w", err)
	}

	return nil
}

// GetValue returns the wrapped value in its generic Go form.
func (d LazyValue) GetValue() (interface{}, error) {
	if d.Value == nil {
		return nil, fmt.Errorf("document value is not set")
	}
	return Interface(d.Value), nil
}
