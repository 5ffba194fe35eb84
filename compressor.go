package deflate

import (
	"encoding/binary"
	"io/fs"

	"github.com/chronos-tachyon/assert"

	"github.com/chronos-tachyon/deflate/internal/adler32"
	"github.com/chronos-tachyon/deflate/internal/lz77"
)

// zlibHeader is CMF = deflate with a 32 KiB window, FLG = default level.
var zlibHeader = [2]byte{0x78, 0x9c}

// Compressor turns a stream of bytes into a DEFLATE stream, optionally
// wrapped in a zlib envelope.  It is driven by the caller pushing input and
// collecting output; it performs no I/O of its own.
//
// A Compressor is not safe for concurrent use.
type Compressor struct {
	format   Format
	strategy Strategy
	tracers  []Tracer

	lz    *lz77.Engine
	syms  *symbolRing
	bits  bitbuffer
	adler *adler32.Digest

	inputBytesTotal  uint64
	outputBytesTotal uint64
	started          bool
	finished         bool
}

// NewCompressor constructs and returns a new Compressor with the given
// options.
func NewCompressor(opts ...Option) *Compressor {
	var o options
	o.reset()
	o.apply(opts)
	o.populateDefaults()

	c := &Compressor{
		format:   o.format,
		strategy: o.strategy,
		tracers:  o.tracers,
		syms:     new(symbolRing),
		adler:    adler32.New(),
	}
	c.lz = lz77.New(compressorSink{c})
	return c
}

// Format returns the Format which this Compressor writes.
func (c *Compressor) Format() Format {
	return c.format
}

// Strategy returns the Strategy which this Compressor uses.
func (c *Compressor) Strategy() Strategy {
	return c.strategy
}

// Reset discards all state, returning c to the beginning of a new stream.
// Any options given here are merged with all previous options.
func (c *Compressor) Reset(opts ...Option) {
	for _, opt := range opts {
		assert.NotNil(&opt)
	}

	if len(opts) != 0 {
		var o options
		o.reset()
		o.format = c.format
		o.strategy = c.strategy
		o.tracers = c.tracers
		o.apply(opts)
		o.populateDefaults()

		c.format = o.format
		c.strategy = o.strategy
		c.tracers = o.tracers
	}

	c.lz.Reset()
	c.syms.reset()
	c.bits.reset()
	c.adler.Reset()
	c.inputBytesTotal = 0
	c.outputBytesTotal = 0
	c.started = false
	c.finished = false
}

// Compress feeds p into the stream and applies flush.  It returns whatever
// compressed output became available, which may be empty; the caller owns
// the returned slice.  Output depends only on the bytes fed and the flush
// points, never on how the input was split between calls.
//
// After a FinishFlush, Compress returns fs.ErrClosed until Reset is called.
func (c *Compressor) Compress(p []byte, flush FlushType) ([]byte, error) {
	assert.Assertf(flush.IsValid(), "invalid FlushType %d", uint(flush))

	if c.finished {
		return nil, fs.ErrClosed
	}

	if !c.started {
		c.writeHeader()
		c.started = true
	}

	if len(p) != 0 {
		c.adler.Write(p)
		c.inputBytesTotal += uint64(len(p))
		if c.strategy == HuffmanOnlyStrategy {
			for _, ch := range p {
				c.pushSymbol(makeLiteral(ch))
			}
		} else {
			c.lz.Write(p)
		}
	}

	switch flush {
	case SyncFlush:
		c.lz.Flush()
		if c.syms.len() != 0 {
			c.emitBlock(c.syms.len(), false)
		}
		writeEmptyStoredBlock(&c.bits, false)

	case FinishFlush:
		c.lz.Flush()
		c.emitBlock(c.syms.len(), true)
		c.bits.alignToByte()
		c.writeFooter()
		c.finished = true
	}

	out := c.bits.take()
	c.outputBytesTotal += uint64(len(out))
	return out, nil
}

func (c *Compressor) writeHeader() {
	c.sendEvent(Event{Type: StreamBeginEvent})

	if c.format == ZlibFormat {
		c.bits.writeBytes(zlibHeader[:])
	}

	c.sendEvent(Event{Type: StreamHeaderEvent})
}

func (c *Compressor) writeFooter() {
	a32 := c.adler.Sum32()
	footer := &FooterEvent{Adler32: Checksum32(a32)}

	c.sendEvent(Event{Type: StreamEndEvent, Footer: footer})

	if c.format == ZlibFormat {
		var tmp [adler32.Size]byte
		binary.BigEndian.PutUint32(tmp[:], a32)
		c.bits.writeBytes(tmp[:])
	}

	c.sendEvent(Event{Type: StreamCloseEvent, Footer: footer})
}

func (c *Compressor) pushSymbol(s symbol) {
	c.syms.push(s)
	if c.syms.full() {
		c.emitBlock(chooseBlockLength(c.syms), false)
	}
}

// emitBlock codes the first n buffered symbols as one block and drops them
// from the ring.  Only an empty block is coded with the static trees, unless
// the strategy demands static trees throughout.
func (c *Compressor) emitBlock(n int, isFinal bool) {
	blockType := DynamicBlock
	if n == 0 || c.strategy == FixedStrategy {
		blockType = StaticBlock
	}

	c.sendEvent(Event{
		Type: BlockBeginEvent,
		Block: &BlockEvent{
			Type:    blockType,
			IsFinal: isFinal,
		},
	})

	writeBlockHeader(&c.bits, blockType, isFinal)

	var ll, d *huffTable
	var trees *TreesEvent
	if blockType == DynamicBlock {
		freqLL, freqD := studyFrequencies(c.syms, n)
		dt := buildDynamicTrees(freqLL, freqD)
		if len(c.tracers) != 0 {
			trees = dt.treesEvent()
		}
		writeTreeDescription(&c.bits, dt)
		ll, d = &dt.ll, &dt.d
	} else {
		trees = staticTreesEvent()
		ll, d = &gFixedTableLL, &gFixedTableD
	}

	c.sendEvent(Event{
		Type: BlockTreesEvent,
		Block: &BlockEvent{
			Type:    blockType,
			IsFinal: isFinal,
		},
		Trees: trees,
	})

	writeBlockSymbols(&c.bits, c.syms, n, ll, d)
	c.syms.discard(n)

	c.sendEvent(Event{
		Type: BlockEndEvent,
		Block: &BlockEvent{
			Type:       blockType,
			IsFinal:    isFinal,
			NumSymbols: uint(n),
		},
	})
}

func (c *Compressor) sendEvent(event Event) {
	if len(c.tracers) == 0 {
		return
	}
	event.InputBytesTotal = c.inputBytesTotal
	event.OutputBytesTotal = c.outputBytesTotal + uint64(len(c.bits.out))
	event.Format = c.format
	for _, tr := range c.tracers {
		tr.OnEvent(event)
	}
}

// type compressorSink {{{

// compressorSink turns LZ77 output into buffered symbols.
type compressorSink struct {
	c *Compressor
}

func (s compressorSink) Literal(ch byte) {
	s.c.pushSymbol(makeLiteral(ch))
}

func (s compressorSink) Match(distance uint, length uint) {
	code, size, extra := lengthCode(length)
	s.c.pushSymbol(makeLength(code))
	if size != 0 {
		s.c.pushSymbol(makeExtraBits(size, extra))
	}

	code, size, extra = distanceCode(distance)
	s.c.pushSymbol(makeDistance(code))
	if size != 0 {
		s.c.pushSymbol(makeExtraBits(size, extra))
	}
}

var _ lz77.Sink = compressorSink{}

// }}}
