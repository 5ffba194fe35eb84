package deflate

import (
	"github.com/chronos-tachyon/assert"
)

// Option represents a configuration option for Compressor, Decompressor,
// Reader or Writer.
type Option func(*options)

type options struct {
	format       Format
	strategy     Strategy
	tracers      []Tracer
	symbolEvents bool
}

func (o *options) reset() {
	*o = options{
		format:       DefaultFormat,
		strategy:     DefaultStrategy,
		tracers:      nil,
		symbolEvents: false,
	}
}

func (o *options) apply(opts []Option) {
	for _, opt := range opts {
		opt(o)
	}
}

func (o *options) populateDefaults() {
	if o.format == DefaultFormat {
		o.format = ZlibFormat
	}
}

// WithFormat specifies the Format to write (compression) or expected to be
// read (decompression).
func WithFormat(format Format) Option {
	assert.Assertf(format.IsValid(), "invalid Format %d", uint(format))
	return func(o *options) { o.format = format }
}

// WithStrategy specifies the Strategy to use.  Ignored by decompression.
func WithStrategy(strategy Strategy) Option {
	assert.Assertf(strategy.IsValid(), "invalid Strategy %d", uint(strategy))
	return func(o *options) { o.strategy = strategy }
}

// WithTracers specifies the list of Tracer instances which will receive Events
// as compression or decompression proceeds.  Completely replaces any previous
// list.
func WithTracers(tracers ...Tracer) Option {
	for _, tr := range tracers {
		assert.NotNil(&tr)
	}
	if len(tracers) == 0 {
		tracers = nil
	} else {
		tmp := make([]Tracer, len(tracers))
		copy(tmp, tracers)
		tracers = tmp
	}
	return func(o *options) { o.tracers = tracers }
}

// WithSymbolEvents enables LiteralEvent and CopyEvent during decompression,
// one per decoded symbol.  Ignored by compression.
func WithSymbolEvents(enabled bool) Option {
	return func(o *options) { o.symbolEvents = enabled }
}
