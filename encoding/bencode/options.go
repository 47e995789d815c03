package bencode

import (
	"github.com/torrentkit/bencode/logging"
)

// DefaultMaxDepth is the nesting limit applied when Options.MaxDepth is not
// overridden.
const DefaultMaxDepth = 512

// Options configures a Decoder.
type Options struct {
	// MaxDepth is the maximum nesting depth of lists and dictionaries. Inputs
	// nested deeper fail to decode. A value <= 0 disables the limit.
	MaxDepth int

	// Strict rejects encodings the format forbids but which decode
	// unambiguously: negative zero, leading zeros in integers and string
	// lengths, and dictionary keys that are not in strictly ascending byte
	// order.
	Strict bool

	// Logger receives a debug trace of every decode step.
	Logger logging.Logger
}

// Decoder decodes bencoded data items. A Decoder holds no state between calls
// and is safe for concurrent use.
type Decoder struct {
	options Options
}

// NewDecoder returns a Decoder configured by the given functional options.
func NewDecoder(optFns ...func(*Options)) *Decoder {
	o := Options{
		MaxDepth: DefaultMaxDepth,
	}

	for _, fn := range optFns {
		fn(&o)
	}

	if o.Logger == nil {
		o.Logger = logging.Noop{}
	}

	return &Decoder{
		options: o,
	}
}

// Options returns a copy of the decoder's options.
func (d *Decoder) Options() Options {
	return d.options
}

// WithStrict enables strict validation.
func WithStrict(o *Options) {
	o.Strict = true
}

// WithMaxDepth sets the nesting limit.
func WithMaxDepth(depth int) func(*Options) {
	return func(o *Options) {
		o.MaxDepth = depth
	}
}

// WithLogger sets the logger that receives the decode trace.
func WithLogger(logger logging.Logger) func(*Options) {
	return func(o *Options) {
		o.Logger = logger
	}
}

var defaultDecoder = NewDecoder()
