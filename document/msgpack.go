package document

import (
	"bytes"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/torrentkit/bencode/encoding/bencode"
)

// MarshalMsgpack returns the MessagePack form of v. Byte strings are encoded
// as bin, integers as int, lists as arrays, and dictionaries as maps with str
// keys in decoded order.
func MarshalMsgpack(v bencode.Value) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	if err := writeMsgpack(enc, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeMsgpack(enc *msgpack.Encoder, v bencode.Value) error {
	switch tv := v.(type) {
	case bencode.String:
		return enc.EncodeBytes(tv)
	case bencode.Int:
		return enc.EncodeInt(int64(tv))
	case bencode.List:
		if err := enc.EncodeArrayLen(len(tv)); err != nil {
			return err
		}
		for _, item := range tv {
			if err := writeMsgpack(enc, item); err != nil {
				return err
			}
		}
	case *bencode.Dict:
		if err := enc.EncodeMapLen(tv.Len()); err != nil {
			return err
		}
		for k, item := range tv.All() {
			if err := enc.EncodeString(k); err != nil {
				return err
			}
			if err := writeMsgpack(enc, item); err != nil {
				return err
			}
		}
	default:
		return fmt.Errorf("unsupported document value %T", v)
	}
	return nil
}
