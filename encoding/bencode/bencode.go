// Package bencode implements decoding of the bencode serialization format used
// by BitTorrent metainfo files and tracker responses.
//
// Bencode has four kinds of data item:
//
//	byte string   <decimal length>:<bytes>
//	integer       i<decimal integer>e
//	list          l<item>*e
//	dictionary    d(<byte string key><item>)*e
//
// The decoder operates strictly on a fully buffered input and reports, for
// every data item, the number of bytes it consumed. Callers embedding bencode
// values in larger payloads can use that length to continue parsing after the
// item.
//
// Encoding is not implemented.
package bencode

import (
	"bytes"
	"iter"

	"github.com/elliotchance/orderedmap/v3"
)

// Kind enumerates bencode data item kinds.
type Kind byte

// Enumeration of bencode data item kinds
const (
	KindString Kind = iota + 1
	KindInt
	KindList
	KindDict
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInt:
		return "integer"
	case KindList:
		return "list"
	case KindDict:
		return "dictionary"
	default:
		return "unknown"
	}
}

// Value describes a bencode data item.
//
// The following structures implement Value:
//   - String
//   - Int
//   - List
//   - *Dict
type Value interface {
	Kind() Kind
	isValue()
}

var (
	_ Value = String(nil)
	_ Value = Int(0)
	_ Value = List(nil)
	_ Value = (*Dict)(nil)
)

// String describes a bencode byte string. The contents are opaque bytes and
// are not required to be valid UTF-8.
type String []byte

// Kind returns KindString.
func (String) Kind() Kind { return KindString }
func (String) isValue()   {}

// Int describes a bencode integer.
type Int int64

// Kind returns KindInt.
func (Int) Kind() Kind { return KindInt }
func (Int) isValue()   {}

// List describes a bencode list.
type List []Value

// Kind returns KindList.
func (List) Kind() Kind { return KindList }
func (List) isValue()   {}

// Dict describes a bencode dictionary.
//
// Keys are the raw bytes of the byte string key, held as a Go string. Entries
// are kept in the order they were first inserted; setting an existing key
// replaces its value in place.
type Dict struct {
	m *orderedmap.OrderedMap[string, Value]
}

// NewDict returns an empty Dict.
func NewDict() *Dict {
	return &Dict{m: orderedmap.NewOrderedMap[string, Value]()}
}

// Kind returns KindDict.
func (*Dict) Kind() Kind { return KindDict }
func (*Dict) isValue()   {}

// Set stores v under key. Returns false if key was already present, in which
// case the previous value is overwritten.
func (d *Dict) Set(key string, v Value) bool {
	return d.m.Set(key, v)
}

// Get returns the value stored under key.
func (d *Dict) Get(key string) (Value, bool) {
	if d == nil {
		return nil, false
	}
	return d.m.Get(key)
}

// Len returns the number of entries.
func (d *Dict) Len() int {
	if d == nil {
		return 0
	}
	return d.m.Len()
}

// Keys returns the keys in insertion order.
func (d *Dict) Keys() []string {
	keys := make([]string, 0, d.Len())
	for k := range d.All() {
		keys = append(keys, k)
	}
	return keys
}

// All iterates over the entries in insertion order.
func (d *Dict) All() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		if d == nil {
			return
		}
		for k, v := range d.m.AllFromFront() {
			if !yield(k, v) {
				return
			}
		}
	}
}

// Equal reports whether d and o hold the same entries in the same order.
func (d *Dict) Equal(o *Dict) bool {
	if d.Len() != o.Len() {
		return false
	}

	next, stop := iter.Pull2(o.All())
	defer stop()
	for k, v := range d.All() {
		k2, v2, ok := next()
		if !ok || k != k2 || !Equal(v, v2) {
			return false
		}
	}
	return true
}

// Equal reports whether a and b are structurally equal. Dictionaries compare
// equal only if their entries appear in the same order.
func Equal(a, b Value) bool {
	switch av := a.(type) {
	case String:
		bv, ok := b.(String)
		return ok && bytes.Equal(av, bv)
	case Int:
		bv, ok := b.(Int)
		return ok && av == bv
	case List:
		bv, ok := b.(List)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !Equal(av[i], bv[i]) {
				return false
			}
		}
		return true
	case *Dict:
		bv, ok := b.(*Dict)
		return ok && av.Equal(bv)
	default:
		return a == nil && b == nil
	}
}
