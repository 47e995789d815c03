// Command bencode decodes bencoded values and BitTorrent metainfo files.
//
// Usage:
//
//	bencode [-v] [-strict] [-max-depth N] decode <encoded>
//	bencode [-v] [-strict] [-max-depth N] info <file.torrent>
//	bencode [-v] [-strict] [-max-depth N] query <jmespath> <file>
//	bencode [-v] [-strict] [-max-depth N] convert [-format json|msgpack] <file>
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-json"

	"github.com/torrentkit/bencode/document"
	"github.com/torrentkit/bencode/encoding/bencode"
	"github.com/torrentkit/bencode/logging"
	"github.com/torrentkit/bencode/logging/zaplog"
	"github.com/torrentkit/bencode/metainfo"
)

var errUsage = errors.New("usage")

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

type command struct {
	stdout, stderr io.Writer
	optFns         []func(*bencode.Options)
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("bencode", flag.ContinueOnError)
	fs.SetOutput(stderr)
	verbose := fs.Bool("v", false, "log every decode step to stderr")
	strict := fs.Bool("strict", false, "reject non-canonical encodings")
	maxDepth := fs.Int("max-depth", bencode.DefaultMaxDepth, "maximum nesting depth, 0 for unlimited")
	fs.Usage = func() { usage(stderr) }

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() < 1 {
		usage(stderr)
		return 1
	}

	cmd := &command{stdout: stdout, stderr: stderr}
	cmd.optFns = append(cmd.optFns, bencode.WithMaxDepth(*maxDepth))
	if *strict {
		cmd.optFns = append(cmd.optFns, bencode.WithStrict)
	}
	if *verbose {
		logger := zaplog.New(stderr, true)
		defer logger.Sync()
		cmd.optFns = append(cmd.optFns, bencode.WithLogger(logger))
	} else {
		cmd.optFns = append(cmd.optFns, bencode.WithLogger(logging.NewStandardLogger(stderr, false)))
	}

	var err error
	switch name, rest := fs.Arg(0), fs.Args()[1:]; name {
	case "decode":
		err = cmd.decode(rest)
	case "info":
		err = cmd.info(rest)
	case "query":
		err = cmd.query(rest)
	case "convert":
		err = cmd.convert(rest)
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n", name)
		return 1
	}

	if errors.Is(err, errUsage) {
		usage(stderr)
		return 1
	}
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	return 0
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "Usage: bencode [-v] [-strict] [-max-depth N] <command> [arguments]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  decode <encoded>                          print a bencoded value as JSON")
	fmt.Fprintln(w, "  info <file.torrent>                       print tracker, length and hashes of a metainfo file")
	fmt.Fprintln(w, "  query <jmespath> <file>                   print the result of a JMESPath query as JSON")
	fmt.Fprintln(w, "  convert [-format json|msgpack] <file>     write a bencoded file in another format")
}

func (c *command) decoder() *bencode.Decoder {
	return bencode.NewDecoder(c.optFns...)
}

func (c *command) decodeFile(path string) (bencode.Value, error) {
	p, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return c.decoder().DecodeComplete(p)
}

func (c *command) decode(args []string) error {
	if len(args) != 1 {
		return errUsage
	}

	v, err := c.decoder().DecodeComplete([]byte(args[0]))
	if err != nil {
		return err
	}

	p, err := document.MarshalJSON(v)
	if err != nil {
		return err
	}
	fmt.Fprintln(c.stdout, string(p))
	return nil
}

func (c *command) info(args []string) error {
	if len(args) != 1 {
		return errUsage
	}

	m, err := metainfo.ParseFile(args[0], c.optFns...)
	if err != nil {
		return err
	}

	fmt.Fprint(c.stdout, m.String())
	return nil
}

func (c *command) query(args []string) error {
	if len(args) != 2 {
		return errUsage
	}

	q, err := document.Compile(args[0])
	if err != nil {
		return err
	}

	v, err := c.decodeFile(args[1])
	if err != nil {
		return err
	}

	res, err := q.Search(v)
	if err != nil {
		return err
	}

	p, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("render query result: %w", err)
	}
	fmt.Fprintln(c.stdout, string(p))
	return nil
}

func (c *command) convert(args []string) error {
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	format := fs.String("format", "json", "output format: json or msgpack")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errUsage
	}

	v, err := c.decodeFile(fs.Arg(0))
	if err != nil {
		return err
	}

	var p []byte
	switch *format {
	case "json":
		if p, err = document.MarshalJSONIndent(v, "", "  "); err == nil {
			p = append(p, '\n')
		}
	case "msgpack":
		p, err = document.MarshalMsgpack(v)
	default:
		return fmt.Errorf("unknown format %q", *format)
	}
	if err != nil {
		return err
	}

	_, err = c.stdout.Write(p)
	return err
}
