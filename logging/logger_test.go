package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestStandardLogger(t *testing.T) {
	var buf bytes.Buffer
	l := NewStandardLogger(&buf, true)

	l.Logf(Debug, "decodeInt: value=%d", 42)
	if e, a := "DEBUG decodeInt: value=42", buf.String(); !strings.Contains(a, e) {
		t.Errorf("expect %q in %q", e, a)
	}
	if !strings.HasPrefix(buf.String(), "bencode: ") {
		t.Errorf("expect prefix, got %q", buf.String())
	}

	buf.Reset()
	l.Logf("", "plain")
	if strings.Contains(buf.String(), "DEBUG") || !strings.Contains(buf.String(), "plain") {
		t.Errorf("expect unclassified entry, got %q", buf.String())
	}
}

func TestStandardLogger_Quiet(t *testing.T) {
	var buf bytes.Buffer
	l := NewStandardLogger(&buf, false)

	l.Logf(Debug, "dropped")
	if e, a := 0, buf.Len(); e != a {
		t.Errorf("expect debug entry dropped, got %q", buf.String())
	}

	l.Logf(Warn, "duplicate key %q", "a")
	if e, a := `WARN duplicate key "a"`, buf.String(); !strings.Contains(a, e) {
		t.Errorf("expect %q in %q", e, a)
	}
}

func TestEnabled(t *testing.T) {
	for name, c := range map[string]struct {
		Logger Logger
		Level  Classification
		Expect bool
	}{
		"nil":           {nil, Warn, false},
		"noop":          {Noop{}, Warn, false},
		"func":          {LoggerFunc(func(Classification, string, ...interface{}) {}), Debug, true},
		"quiet debug":   {StandardLogger{}, Debug, false},
		"quiet warn":    {StandardLogger{}, Warn, true},
		"verbose debug": {StandardLogger{Verbose: true}, Debug, true},
	} {
		t.Run(name, func(t *testing.T) {
			if e, a := c.Expect, Enabled(c.Logger, c.Level); e != a {
				t.Errorf("expect %v, got %v", e, a)
			}
		})
	}
}
