// Package metainfo extracts BitTorrent metainfo (.torrent) fields from a
// decoded bencode dictionary.
package metainfo

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/torrentkit/bencode/encoding/bencode"
)

// HashSize is the size of a SHA-1 piece or info hash.
const HashSize = sha1.Size

// Hash is a SHA-1 digest.
type Hash [HashSize]byte

// String returns the hash as lowercase hex.
func (h Hash) String() string {
	return hex.EncodeToString(h[:])
}

// MetaInfo is the content of a .torrent file.
type MetaInfo struct {
	// Announce is the URL of the tracker.
	Announce string

	// AnnounceList holds tiers of tracker URLs, if present.
	AnnounceList [][]string

	Comment      string
	CreatedBy    string
	CreationDate time.Time

	Info Info

	// InfoHash is the SHA-1 of the "info" value exactly as encoded in the
	// source file.
	InfoHash Hash
}

// Info describes the files of the torrent.
type Info struct {
	// Name is the file name in single-file mode and the directory name in
	// multi-file mode.
	Name string

	// PieceLength is the number of bytes in each piece.
	PieceLength int64

	Pieces []Hash

	// Length is the file size in single-file mode, zero otherwise.
	Length int64

	// Files is empty in single-file mode.
	Files []File

	Private bool
}

// File is one entry of a multi-file torrent.
type File struct {
	Length int64
	Path   []string
}

// MultiFile reports whether the torrent uses the multi-file layout.
func (i Info) MultiFile() bool {
	return len(i.Files) != 0
}

// TotalLength returns the length of the single file, or the sum of all file
// lengths in multi-file mode.
func (m *MetaInfo) TotalLength() int64 {
	if !m.Info.MultiFile() {
		return m.Info.Length
	}

	var total int64
	for _, f := range m.Info.Files {
		total += f.Length
	}
	return total
}

// PieceHashes returns the piece hashes as lowercase hex.
func (m *MetaInfo) PieceHashes() []string {
	hashes := make([]string, 0, len(m.Info.Pieces))
	for _, h := range m.Info.Pieces {
		hashes = append(hashes, h.String())
	}
	return hashes
}

func (m *MetaInfo) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Tracker URL: %s\n", m.Announce)
	fmt.Fprintf(&b, "Length: %d\n", m.TotalLength())
	fmt.Fprintf(&b, "Info Hash: %s\n", m.InfoHash)
	fmt.Fprintf(&b, "Piece Length: %d\n", m.Info.PieceLength)
	b.WriteString("Piece Hashes:\n")
	for _, h := range m.PieceHashes() {
		b.WriteString(h)
		b.WriteByte('\n')
	}
	return b.String()
}

// ParseFile reads and parses the .torrent file at path.
func ParseFile(path string, optFns ...func(*bencode.Options)) (*MetaInfo, error) {
	p, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read metainfo file: %w", err)
	}
	return Parse(p, optFns...)
}

// Parse parses the content of a .torrent file. The options configure the
// underlying bencode decoder.
func Parse(p []byte, optFns ...func(*bencode.Options)) (*MetaInfo, error) {
	dec := bencode.NewDecoder(optFns...)

	v, err := dec.DecodeComplete(p)
	if err != nil {
		return nil, err
	}

	root, ok := v.(*bencode.Dict)
	if !ok {
		return nil, fmt.Errorf("metainfo root is a %s, not a dictionary", v.Kind())
	}

	raw, err := dec.RawDictValues(p)
	if err != nil {
		return nil, err
	}

	m := &MetaInfo{}
	if m.Announce, err = optionalString(root, "announce"); err != nil {
		return nil, err
	}
	if m.AnnounceList, err = announceList(root); err != nil {
		return nil, err
	}
	if m.Comment, err = optionalString(root, "comment"); err != nil {
		return nil, err
	}
	if m.CreatedBy, err = optionalString(root, "created by"); err != nil {
		return nil, err
	}
	if v, ok := root.Get("creation date"); ok {
		secs, ok := v.(bencode.Int)
		if !ok {
			return nil, fieldTypeError("creation date", bencode.KindInt, v)
		}
		m.CreationDate = time.Unix(int64(secs), 0).UTC()
	}

	infoValue, ok := root.Get("info")
	if !ok {
		return nil, fmt.Errorf("metainfo missing %q", "info")
	}
	info, ok := infoValue.(*bencode.Dict)
	if !ok {
		return nil, fieldTypeError("info", bencode.KindDict, infoValue)
	}
	if m.Info, err = parseInfo(info); err != nil {
		return nil, err
	}
	m.InfoHash = sha1.Sum(raw["info"])

	return m, nil
}

func parseInfo(d *bencode.Dict) (Info, error) {
	var (
		info Info
		err  error
	)

	if info.Name, err = requiredString(d, "name"); err != nil {
		return Info{}, err
	}
	if info.PieceLength, err = requiredInt(d, "piece length"); err != nil {
		return Info{}, err
	}
	if info.PieceLength <= 0 {
		return Info{}, fmt.Errorf("metainfo %q must be positive, got %d", "piece length", info.PieceLength)
	}

	pieces, err := requiredString(d, "pieces")
	if err != nil {
		return Info{}, err
	}
	if len(pieces)%HashSize != 0 {
		return Info{}, fmt.Errorf("metainfo %q length %d is not a multiple of %d", "pieces", len(pieces), HashSize)
	}
	info.Pieces = make([]Hash, len(pieces)/HashSize)
	for i := range info.Pieces {
		copy(info.Pieces[i][:], pieces[i*HashSize:])
	}

	if v, ok := d.Get("private"); ok {
		private, ok := v.(bencode.Int)
		if !ok {
			return Info{}, fieldTypeError("private", bencode.KindInt, v)
		}
		info.Private = private == 1
	}

	_, single := d.Get("length")
	_, multi := d.Get("files")
	switch {
	case single && multi:
		return Info{}, fmt.Errorf("metainfo has both %q and %q", "length", "files")
	case single:
		if info.Length, err = requiredInt(d, "length"); err != nil {
			return Info{}, err
		}
	case multi:
		if info.Files, err = parseFiles(d); err != nil {
			return Info{}, err
		}
	default:
		return Info{}, fmt.Errorf("metainfo has neither %q nor %q", "length", "files")
	}

	return info, nil
}

func parseFiles(d *bencode.Dict) ([]File, error) {
	v, _ := d.Get("files")
	list, ok := v.(bencode.List)
	if !ok {
		return nil, fieldTypeError("files", bencode.KindList, v)
	}
	if len(list) == 0 {
		return nil, fmt.Errorf("metainfo %q is empty", "files")
	}

	files := make([]File, 0, len(list))
	for i, item := range list {
		fd, ok := item.(*bencode.Dict)
		if !ok {
			return nil, fieldTypeError(fmt.Sprintf("files[%d]", i), bencode.KindDict, item)
		}

		length, err := requiredInt(fd, "length")
		if err != nil {
			return nil, fmt.Errorf("files[%d]: %w", i, err)
		}

		pv, ok := fd.Get("path")
		if !ok {
			return nil, fmt.Errorf("files[%d]: metainfo missing %q", i, "path")
		}
		segments, ok := pv.(bencode.List)
		if !ok {
			return nil, fieldTypeError(fmt.Sprintf("files[%d].path", i), bencode.KindList, pv)
		}
		path := make([]string, 0, len(segments))
		for _, seg := range segments {
			s, ok := seg.(bencode.String)
			if !ok {
				return nil, fieldTypeError(fmt.Sprintf("files[%d].path", i), bencode.KindString, seg)
			}
			path = append(path, string(s))
		}

		files = append(files, File{Length: length, Path: path})
	}
	return files, nil
}

func announceList(d *bencode.Dict) ([][]string, error) {
	v, ok := d.Get("announce-list")
	if !ok {
		return nil, nil
	}
	tiers, ok := v.(bencode.List)
	if !ok {
		return nil, fieldTypeError("announce-list", bencode.KindList, v)
	}

	out := make([][]string, 0, len(tiers))
	for _, tv := range tiers {
		tier, ok := tv.(bencode.List)
		if !ok {
			return nil, fieldTypeError("announce-list", bencode.KindList, tv)
		}
		urls := make([]string, 0, len(tier))
		for _, uv := range tier {
			u, ok := uv.(bencode.String)
			if !ok {
				return nil, fieldTypeError("announce-list", bencode.KindString, uv)
			}
			urls = append(urls, string(u))
		}
		out = append(out, urls)
	}
	return out, nil
}

func optionalString(d *bencode.Dict, key string) (string, error) {
	v, ok := d.Get(key)
	if !ok {
		return "", nil
	}
	s, ok := v.(bencode.String)
	if !ok {
		return "", fieldTypeError(key, bencode.KindString, v)
	}
	return string(s), nil
}

func requiredString(d *bencode.Dict, key string) (string, error) {
	v, ok := d.Get(key)
	if !ok {
		return "", fmt.Errorf("metainfo missing %q", key)
	}
	s, ok := v.(bencode.String)
	if !ok {
		return "", fieldTypeError(key, bencode.KindString, v)
	}
	return string(s), nil
}

func requiredInt(d *bencode.Dict, key string) (int64, error) {
	v, ok := d.Get(key)
	if !ok {
		return 0, fmt.Errorf("metainfo missing %q", key)
	}
	i, ok := v.(bencode.Int)
	if !ok {
		return 0, fieldTypeError(key, bencode.KindInt, v)
	}
	return int64(i), nil
}

func fieldTypeError(key string, expect bencode.Kind, v bencode.Value) error {
	return fmt.Errorf("metainfo %q has type %s, expected %s", key, v.Kind(), expect)
}
