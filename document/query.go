package document

import (
	"fmt"

	"github.com/jmespath/go-jmespath"

	"github.com/torrentkit/bencode/encoding/bencode"
)

// Query is a compiled JMESPath expression that can be evaluated against
// decoded bencode values.
type Query struct {
	expr string
	jp   *jmespath.JMESPath
}

// Compile parses a JMESPath expression.
func Compile(expr string) (*Query, error) {
	jp, err := jmespath.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("compile query %q: %w", expr, err)
	}
	return &Query{expr: expr, jp: jp}, nil
}

// String returns the source expression.
func (q *Query) String() string {
	return q.expr
}

// Search evaluates the query against v.
//
// The query operates on the generic form of v, except that integers are
// represented as float64 so JMESPath comparisons and functions such as sum
// apply to them. Integers beyond 2^53 lose precision.
func (q *Query) Search(v bencode.Value) (interface{}, error) {
	res, err := q.jp.Search(queryTree(v))
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", q.expr, err)
	}
	return res, nil
}

// Search compiles expr and evaluates it against v.
func Search(expr string, v bencode.Value) (interface{}, error) {
	q, err := Compile(expr)
	if err != nil {
		return nil, err
	}
	return q.Search(v)
}

func queryTree(v bencode.Value) interface{} {
	switch tv := v.(type) {
	case bencode.String:
		return string(tv)
	case bencode.Int:
		return float64(tv)
	case bencode.List:
		l := make([]interface{}, len(tv))
		for i, item := range tv {
			l[i] = queryTree(item)
		}
		return l
	case *bencode.Dict:
		m := make(map[string]interface{}, tv.Len())
		for k, item := range tv.All() {
			m[k] = queryTree(item)
		}
		return m
	default:
		return nil
	}
}
