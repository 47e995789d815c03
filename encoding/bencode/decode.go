package bencode

import (
	"bytes"
	"strconv"

	"github.com/torrentkit/bencode/logging"
)

// Decode returns the first data item encoded in p and the number of bytes it
// occupies. Bytes after the item are ignored.
func Decode(p []byte) (Value, int, error) {
	return defaultDecoder.Decode(p)
}

// DecodeComplete returns the data item encoded in p. It fails if any bytes
// remain after the item.
func DecodeComplete(p []byte) (Value, error) {
	return defaultDecoder.DecodeComplete(p)
}

// Decode returns the first data item encoded in p and the number of bytes it
// occupies. Bytes after the item are ignored.
func (d *Decoder) Decode(p []byte) (Value, int, error) {
	s := &decodeState{buf: p, opts: d.options}
	v, n, err := s.decode(0)
	if err != nil {
		s.logf(logging.Debug, "decode failed: %v", err)
		return nil, 0, err
	}
	return v, n, nil
}

// DecodeComplete returns the data item encoded in p. It fails if any bytes
// remain after the item.
func (d *Decoder) DecodeComplete(p []byte) (Value, error) {
	v, n, err := d.Decode(p)
	if err != nil {
		return nil, err
	}
	if n != len(p) {
		return nil, malformed(n, "trailing data: %d bytes after value", len(p)-n)
	}
	return v, nil
}

// decodeState carries one decode call over an immutable input buffer. Every
// method takes the absolute offset of the item it decodes and returns the
// number of bytes consumed from that offset.
type decodeState struct {
	buf   []byte
	opts  Options
	depth int
}

func (s *decodeState) logf(level logging.Classification, format string, v ...interface{}) {
	if !logging.Enabled(s.opts.Logger, level) {
		return
	}
	s.opts.Logger.Logf(level, format, v...)
}

func (s *decodeState) decode(off int) (Value, int, error) {
	if off >= len(s.buf) {
		return nil, 0, malformed(off, "unexpected end of input")
	}

	tag := s.buf[off]
	s.logf(logging.Debug, "decode: offset=%d tag=%q", off, tag)

	switch {
	case isDigit(tag):
		return s.decodeString(off)
	case tag == 'i':
		return s.decodeInt(off)
	case tag == 'l':
		return s.decodeList(off)
	case tag == 'd':
		return s.decodeDict(off)
	default:
		return nil, 0, malformed(off, "unrecognized value tag %q", tag)
	}
}

func (s *decodeState) decodeString(off int) (String, int, error) {
	p := s.buf[off:]

	colon := bytes.IndexByte(p, ':')
	if colon < 0 {
		return nil, 0, malformed(off, "missing length delimiter")
	}

	prefix := p[:colon]
	if len(prefix) == 0 || !allDigits(prefix) {
		return nil, 0, malformed(off, "invalid string length %q", prefix)
	}
	if s.opts.Strict && len(prefix) > 1 && prefix[0] == '0' {
		return nil, 0, malformed(off, "leading zero in string length %q", prefix)
	}

	slen, err := strconv.ParseUint(string(prefix), 10, 63)
	if err != nil {
		return nil, 0, &MalformedInputError{Offset: off, Reason: "invalid string length", Err: err}
	}

	start := colon + 1
	if remain := len(p) - start; uint64(remain) < slen {
		return nil, 0, malformed(off, "truncated byte string: length %d greater than remaining %d bytes", slen, remain)
	}
	end := start + int(slen)

	s.logf(logging.Debug, "decodeString: offset=%d declared=%d consumed=%d", off, slen, end)

	str := make(String, slen)
	copy(str, p[start:end])
	return str, end, nil
}

func (s *decodeState) decodeInt(off int) (Int, int, error) {
	p := s.buf[off:]

	end := bytes.IndexByte(p[1:], 'e')
	if end < 0 {
		return 0, 0, malformed(len(s.buf), "unterminated integer")
	}
	end++

	lit := p[1:end]
	digits := lit
	if len(digits) > 0 && digits[0] == '-' {
		digits = digits[1:]
	}
	if len(digits) == 0 || !allDigits(digits) {
		return 0, 0, malformed(off, "invalid integer %q", lit)
	}
	if s.opts.Strict {
		if len(digits) > 1 && digits[0] == '0' {
			return 0, 0, malformed(off, "leading zero in integer %q", lit)
		}
		if len(lit) != len(digits) && digits[0] == '0' {
			return 0, 0, malformed(off, "negative zero")
		}
	}

	i, err := strconv.ParseInt(string(lit), 10, 64)
	if err != nil {
		return 0, 0, &MalformedInputError{Offset: off, Reason: "invalid integer", Err: err}
	}

	s.logf(logging.Debug, "decodeInt: offset=%d value=%d consumed=%d", off, i, end+1)
	return Int(i), end + 1, nil
}

func (s *decodeState) decodeList(off int) (List, int, error) {
	if err := s.enter(off); err != nil {
		return nil, 0, err
	}
	defer s.leave()

	l := List{}
	for cur := off + 1; ; {
		if cur >= len(s.buf) {
			return nil, 0, malformed(cur, "unterminated list")
		}

		if s.buf[cur] == 'e' {
			s.logf(logging.Debug, "decodeList: offset=%d items=%d consumed=%d", off, len(l), cur+1-off)
			return l, cur + 1 - off, nil
		}

		item, n, err := s.decode(cur)
		if err != nil {
			return nil, 0, err
		}

		l = append(l, item)
		cur += n
	}
}

func (s *decodeState) decodeDict(off int) (*Dict, int, error) {
	if err := s.enter(off); err != nil {
		return nil, 0, err
	}
	defer s.leave()

	dict := NewDict()
	var prev String
	for cur := off + 1; ; {
		if cur >= len(s.buf) {
			return nil, 0, malformed(cur, "unterminated dictionary")
		}

		if s.buf[cur] == 'e' {
			s.logf(logging.Debug, "decodeDict: offset=%d entries=%d consumed=%d", off, dict.Len(), cur+1-off)
			return dict, cur + 1 - off, nil
		}

		key, kn, err := s.decodeKey(cur, prev)
		if err != nil {
			return nil, 0, err
		}
		cur += kn

		value, vn, err := s.decode(cur)
		if err != nil {
			return nil, 0, err
		}
		cur += vn

		if !dict.Set(string(key), value) {
			s.logf(logging.Warn, "decodeDict: duplicate key %q at offset %d overwrites previous value", key, cur-kn-vn)
		}
		prev = key
	}
}

// decodeKey decodes a dictionary key at off. prev is the previous key in the
// same dictionary, nil for the first.
func (s *decodeState) decodeKey(off int, prev String) (String, int, error) {
	if !isDigit(s.buf[off]) {
		return nil, 0, malformed(off, "dictionary key must be a byte string, got tag %q", s.buf[off])
	}

	key, n, err := s.decodeString(off)
	if err != nil {
		return nil, 0, err
	}

	if s.opts.Strict && prev != nil && bytes.Compare(prev, key) >= 0 {
		return nil, 0, malformed(off, "dictionary key %q not sorted after %q", key, prev)
	}

	s.logf(logging.Debug, "decodeKey: offset=%d key=%q", off, key)
	return key, n, nil
}

func (s *decodeState) enter(off int) error {
	s.depth++
	if s.opts.MaxDepth > 0 && s.depth > s.opts.MaxDepth {
		s.depth--
		return malformed(off, "nesting too deep: exceeds max depth %d", s.opts.MaxDepth)
	}
	return nil
}

func (s *decodeState) leave() {
	s.depth--
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func allDigits(p []byte) bool {
	for _, b := range p {
		if !isDigit(b) {
			return false
		}
	}
	return true
}
