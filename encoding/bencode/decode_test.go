package bencode

import (
	"errors"
	"strconv"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/torrentkit/bencode/logging"
)

func dict(kv ...interface{}) *Dict {
	d := NewDict()
	for i := 0; i < len(kv); i += 2 {
		d.Set(kv[i].(string), kv[i+1].(Value))
	}
	return d
}

func TestDecode_String(t *testing.T) {
	for name, c := range map[string]struct {
		In     string
		Expect String
		N      int
	}{
		"simple":        {"4:spam", String("spam"), 6},
		"empty":         {"0:", String{}, 2},
		"trailing data": {"3:abcdef", String("abc"), 5},
		"binary":        {"3:\x00\xff:", String{0x00, 0xff, ':'}, 5},
		"long length":   {"10:0123456789", String("0123456789"), 13},
		"colon inside":  {"3:a:b", String("a:b"), 5},
	} {
		t.Run(name, func(t *testing.T) {
			v, n, err := Decode([]byte(c.In))
			if err != nil {
				t.Fatalf("expect no error, got %v", err)
			}
			if e, a := c.N, n; e != a {
				t.Errorf("expect consumed %d, got %d", e, a)
			}
			s, ok := v.(String)
			if !ok {
				t.Fatalf("expect String, got %T", v)
			}
			if diff := cmp.Diff([]byte(c.Expect), []byte(s)); len(diff) != 0 {
				t.Errorf("string mismatch (-expect +actual):\n%s", diff)
			}
		})
	}
}

func TestDecode_StringConsumedLength(t *testing.T) {
	for _, n := range []int{0, 1, 9, 10, 99, 100, 1024} {
		payload := strings.Repeat("x", n)
		in := strconv.Itoa(n) + ":" + payload

		v, consumed, err := Decode([]byte(in))
		if err != nil {
			t.Fatalf("%d: expect no error, got %v", n, err)
		}
		if e, a := len(strconv.Itoa(n))+1+n, consumed; e != a {
			t.Errorf("%d: expect consumed %d, got %d", n, e, a)
		}
		if e, a := payload, string(v.(String)); e != a {
			t.Errorf("%d: expect %q, got %q", n, e, a)
		}
	}
}

func TestDecode_Int(t *testing.T) {
	for _, k := range []int64{0, 1, -1, 42, -42, 123456789, -9223372036854775808, 9223372036854775807} {
		in := "i" + strconv.FormatInt(k, 10) + "e"

		v, n, err := Decode([]byte(in + "junk"))
		if err != nil {
			t.Fatalf("%d: expect no error, got %v", k, err)
		}
		if e, a := len(in), n; e != a {
			t.Errorf("%d: expect consumed %d, got %d", k, e, a)
		}
		if e, a := Int(k), v; e != a {
			t.Errorf("expect %v, got %v", e, a)
		}
	}
}

func TestDecode_Nested(t *testing.T) {
	for name, c := range map[string]struct {
		In     string
		Expect Value
	}{
		"empty list": {
			"le",
			List{},
		},
		"empty dict": {
			"de",
			NewDict(),
		},
		"list of strings": {
			"l4:spam4:eggse",
			List{String("spam"), String("eggs")},
		},
		"dict of strings": {
			"d3:cow3:moo4:spam4:eggse",
			dict("cow", String("moo"), "spam", String("eggs")),
		},
		"dict of list": {
			"d4:spaml1:a1:bee",
			dict("spam", List{String("a"), String("b")}),
		},
		"mixed list": {
			"li-3e0:l1:xedee",
			List{Int(-3), String{}, List{String("x")}, NewDict()},
		},
		"nested lists": {
			"lli1eeli2eee",
			List{List{Int(1)}, List{Int(2)}},
		},
		"dict of dict": {
			"d4:infod6:lengthi1024e4:name5:a.txtee",
			dict("info", dict("length", Int(1024), "name", String("a.txt"))),
		},
		"duplicate key last write wins": {
			"d1:ai1e1:bi2e1:ai3ee",
			dict("a", Int(3), "b", Int(2)),
		},
		"unsorted keys preserved": {
			"d1:bi1e1:ai2ee",
			dict("b", Int(1), "a", Int(2)),
		},
		"negative zero permissive": {
			"i-0e",
			Int(0),
		},
	} {
		t.Run(name, func(t *testing.T) {
			v, n, err := Decode([]byte(c.In))
			if err != nil {
				t.Fatalf("expect no error, got %v", err)
			}
			if e, a := len(c.In), n; e != a {
				t.Errorf("expect consumed %d, got %d", e, a)
			}
			if !Equal(c.Expect, v) {
				t.Errorf("expect %v, got %v", c.Expect, v)
			}
		})
	}
}

func TestDecode_ConsumedStopsAtTerminator(t *testing.T) {
	for name, c := range map[string]struct {
		In string
		N  int
	}{
		"list then list": {"l1:aeli1ee", 5},
		"dict then int":  {"d1:ai1eei2e", 8},
		"int then e":     {"i5ee", 3},
		"deep":           {"llleeeXYZ", 6},
	} {
		t.Run(name, func(t *testing.T) {
			_, n, err := Decode([]byte(c.In))
			if err != nil {
				t.Fatalf("expect no error, got %v", err)
			}
			if e, a := c.N, n; e != a {
				t.Errorf("expect consumed %d, got %d", e, a)
			}
		})
	}
}

func TestDecode_Invalid(t *testing.T) {
	for name, c := range map[string]struct {
		In     string
		Offset int
		Err    string
	}{
		"empty":                       {"", 0, "unexpected end of input"},
		"unknown tag":                 {"x", 0, "unrecognized value tag 'x'"},
		"string/no colon":             {"5abc", 0, "missing length delimiter"},
		"string/truncated":            {"5:ab", 0, "truncated byte string"},
		"string/non-digit length":     {"1a:b", 0, `invalid string length "1a"`},
		"string/length overflow":      {"99999999999999999999:a", 0, "invalid string length"},
		"int/non-numeric":             {"i e", 0, `invalid integer " "`},
		"int/empty":                   {"ie", 0, `invalid integer ""`},
		"int/minus only":              {"i-e", 0, `invalid integer "-"`},
		"int/plus sign":               {"i+1e", 0, `invalid integer "+1"`},
		"int/unterminated":            {"i123", 4, "unterminated integer"},
		"int/overflow":                {"i9223372036854775808e", 0, "invalid integer"},
		"list/unterminated":           {"l4:spam", 7, "unterminated list"},
		"list/bad item":               {"l4:spamxe", 7, "unrecognized value tag 'x'"},
		"list/truncated item":         {"l6:spame", 1, "truncated byte string"},
		"dict/unterminated":           {"d3:cow3:moo", 11, "unterminated dictionary"},
		"dict/missing value":          {"d3:cow", 6, "unexpected end of input"},
		"dict/int key":                {"di5ei1ee", 1, "dictionary key must be a byte string"},
		"dict/list key":               {"dlei1ee", 1, "dictionary key must be a byte string"},
		"dict/nested bad value":       {"d1:ad1:bi1xeee", 8, "invalid integer"},
		"dict/nested unterminated":    {"d1:al", 5, "unterminated list"},
		"list/unexpected end in item": {"l1:ai", 5, "unterminated integer"},
	} {
		t.Run(name, func(t *testing.T) {
			v, n, err := Decode([]byte(c.In))
			if err == nil {
				t.Fatalf("expect err %s", c.Err)
			}
			if v != nil || n != 0 {
				t.Errorf("expect no partial result, got %v, %d", v, n)
			}

			var merr *MalformedInputError
			if !errors.As(err, &merr) {
				t.Fatalf("expect *MalformedInputError, got %T", err)
			}
			if e, a := c.Offset, merr.Offset; e != a {
				t.Errorf("expect offset %d, got %d", e, a)
			}
			if aerr := err.Error(); !strings.Contains(aerr, c.Err) {
				t.Errorf("expect err %s, got %s", c.Err, aerr)
			}
		})
	}
}

func TestDecode_IntRangeErrorUnwraps(t *testing.T) {
	_, _, err := Decode([]byte("i99999999999999999999e"))
	if !errors.Is(err, strconv.ErrRange) {
		t.Errorf("expect strconv.ErrRange in chain, got %v", err)
	}
	if !IsMalformedInput(err) {
		t.Errorf("expect malformed input error, got %T", err)
	}
}

func TestDecodeComplete(t *testing.T) {
	v, err := DecodeComplete([]byte("l4:spame"))
	if err != nil {
		t.Fatalf("expect no error, got %v", err)
	}
	if e, a := (List{String("spam")}), v; !Equal(e, a) {
		t.Errorf("expect %v, got %v", e, a)
	}

	_, err = DecodeComplete([]byte("l4:spamei1e"))
	if err == nil {
		t.Fatal("expect trailing data error")
	}
	var merr *MalformedInputError
	if !errors.As(err, &merr) {
		t.Fatalf("expect *MalformedInputError, got %T", err)
	}
	if e, a := 8, merr.Offset; e != a {
		t.Errorf("expect offset %d, got %d", e, a)
	}
	if e, a := "trailing data: 3 bytes after value", merr.Reason; e != a {
		t.Errorf("expect reason %q, got %q", e, a)
	}
}

func TestDecode_MaxDepth(t *testing.T) {
	nested := func(depth int) []byte {
		return []byte(strings.Repeat("l", depth) + strings.Repeat("e", depth))
	}

	dec := NewDecoder(WithMaxDepth(4))
	if _, _, err := dec.Decode(nested(4)); err != nil {
		t.Fatalf("expect depth 4 to decode, got %v", err)
	}

	_, _, err := dec.Decode(nested(5))
	if err == nil {
		t.Fatal("expect nesting error")
	}
	if e, a := "nesting too deep", err.Error(); !strings.Contains(a, e) {
		t.Errorf("expect err %s, got %s", e, a)
	}

	dict := []byte("d1:ad1:ad1:aleeee")
	if _, _, err := NewDecoder(WithMaxDepth(3)).Decode(dict); err == nil {
		t.Error("expect nesting error for dictionaries")
	}

	unlimited := NewDecoder(WithMaxDepth(0))
	if _, _, err := unlimited.Decode(nested(DefaultMaxDepth * 2)); err != nil {
		t.Errorf("expect unlimited depth to decode, got %v", err)
	}

	if _, _, err := Decode(nested(DefaultMaxDepth + 1)); err == nil {
		t.Error("expect default decoder to enforce DefaultMaxDepth")
	}
}

func TestDecode_Strict(t *testing.T) {
	strict := NewDecoder(WithStrict)

	for name, c := range map[string]struct {
		In  string
		Err string
	}{
		"negative zero":       {"i-0e", "negative zero"},
		"leading zero int":    {"i03e", `leading zero in integer "03"`},
		"leading zero neg":    {"i-03e", `leading zero in integer "-03"`},
		"leading zero length": {"03:abc", `leading zero in string length "03"`},
		"unsorted keys":       {"d1:bi1e1:ai2ee", `dictionary key "a" not sorted after "b"`},
		"duplicate keys":      {"d1:ai1e1:ai2ee", `dictionary key "a" not sorted after "a"`},
	} {
		t.Run(name, func(t *testing.T) {
			if _, _, err := Decode([]byte(c.In)); err != nil {
				t.Fatalf("expect permissive decode to succeed, got %v", err)
			}

			_, _, err := strict.Decode([]byte(c.In))
			if err == nil {
				t.Fatalf("expect err %s", c.Err)
			}
			if aerr := err.Error(); !strings.Contains(aerr, c.Err) {
				t.Errorf("expect err %s, got %s", c.Err, aerr)
			}
		})
	}

	for _, in := range []string{"i0e", "i-1e", "0:", "d0:i1e1:ai2e2:aai3ee", "l10:0123456789e"} {
		if _, _, err := strict.Decode([]byte(in)); err != nil {
			t.Errorf("%s: expect strict decode to succeed, got %v", in, err)
		}
	}
}

func TestDecode_Idempotent(t *testing.T) {
	in := []byte("d8:announce3:url4:infod5:filesld6:lengthi1e4:pathl1:aeeee4:name1:xee")

	first, n1, err := Decode(in)
	if err != nil {
		t.Fatalf("expect no error, got %v", err)
	}
	second, n2, err := Decode(in)
	if err != nil {
		t.Fatalf("expect no error, got %v", err)
	}

	if n1 != n2 {
		t.Errorf("expect equal consumed lengths, got %d and %d", n1, n2)
	}
	if !Equal(first, second) {
		t.Errorf("expect equal trees, got %v and %v", first, second)
	}
}

func TestDecode_DoesNotAliasInput(t *testing.T) {
	in := []byte("l4:spame")
	v, _, err := Decode(in)
	if err != nil {
		t.Fatalf("expect no error, got %v", err)
	}

	copy(in, "l4:eggse")
	if e, a := "spam", string(v.(List)[0].(String)); e != a {
		t.Errorf("expect %q, got %q", e, a)
	}
}

func TestDecode_Logging(t *testing.T) {
	var entries []string
	logger := logging.LoggerFunc(func(level logging.Classification, format string, v ...interface{}) {
		entries = append(entries, string(level))
	})

	dec := NewDecoder(WithLogger(logger))
	if _, _, err := dec.Decode([]byte("d1:ai1e1:ai2ee")); err != nil {
		t.Fatalf("expect no error, got %v", err)
	}

	var debug, warn int
	for _, e := range entries {
		switch logging.Classification(e) {
		case logging.Debug:
			debug++
		case logging.Warn:
			warn++
		}
	}
	if debug == 0 {
		t.Error("expect debug entries")
	}
	if e, a := 1, warn; e != a {
		t.Errorf("expect %d warning for duplicate key, got %d", e, a)
	}
}
