package bencode

import (
	"github.com/torrentkit/bencode/logging"
)

// RawDictValues decodes the dictionary at the start of p and returns, for
// each key, the exact encoded bytes of its value. The returned slices alias p.
//
// This allows hashing a sub-value (for example a metainfo "info" dictionary)
// as it appeared on the wire, without re-encoding it.
func RawDictValues(p []byte) (map[string][]byte, error) {
	return defaultDecoder.RawDictValues(p)
}

// RawDictValues decodes the dictionary at the start of p and returns, for
// each key, the exact encoded bytes of its value. The returned slices alias p.
func (d *Decoder) RawDictValues(p []byte) (map[string][]byte, error) {
	s := &decodeState{buf: p, opts: d.options}
	if len(p) == 0 {
		return nil, malformed(0, "unexpected end of input")
	}
	if p[0] != 'd' {
		return nil, malformed(0, "expected dictionary, got tag %q", p[0])
	}

	if err := s.enter(0); err != nil {
		return nil, err
	}
	defer s.leave()

	raw := map[string][]byte{}
	var prev String
	for cur := 1; ; {
		if cur >= len(p) {
			return nil, malformed(cur, "unterminated dictionary")
		}

		if p[cur] == 'e' {
			s.logf(logging.Debug, "RawDictValues: entries=%d consumed=%d", len(raw), cur+1)
			return raw, nil
		}

		key, kn, err := s.decodeKey(cur, prev)
		if err != nil {
			return nil, err
		}
		cur += kn

		_, vn, err := s.decode(cur)
		if err != nil {
			return nil, err
		}

		raw[string(key)] = p[cur : cur+vn : cur+vn]
		cur += vn
		prev = key
	}
}
