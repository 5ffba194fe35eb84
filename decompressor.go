package deflate

import (
	"fmt"

	"github.com/chronos-tachyon/assert"
	buffer "github.com/chronos-tachyon/buffer/v3"

	"github.com/chronos-tachyon/deflate/internal/adler32"
)

// windowNumBits sizes the back-reference history: 32 KiB.
const windowNumBits = 15

type stepResult byte

const (
	stepContinue stepResult = iota
	stepNeedInput
	stepFailed
)

// Decompressor decodes a DEFLATE stream, optionally wrapped in a zlib
// envelope, from input supplied in chunks of any size.  Decoding pauses
// wherever the input runs out and resumes on the next call.
//
// A Decompressor is not safe for concurrent use.
type Decompressor struct {
	format       Format
	tracers      []Tracer
	symbolEvents bool

	br       bitreader
	window   buffer.Window
	adler    *adler32.Digest
	out      []byte
	mark     int
	produced uint64
	state    decoderState
	err      error

	// Current block.
	isFinal   bool
	blockType BlockType
	numSyms   uint
	ll        *decodeTable
	dist      *decodeTable
	storedLen uint16

	// Dynamic tree description.
	hlit     int
	hdist    int
	hclen    int
	index    int
	repCode  uint16
	xsizes   [numXCodes]byte
	sizes    [numLLCodes + numDCodes]byte
	tableX   decodeTable
	tableLL  decodeTable
	tableD   decodeTable
	lenCode  uint16
	length   uint16
	distCode uint16
	symBits  uint

	scratch [bytesPerBlock]byte
}

// NewDecompressor constructs and returns a new Decompressor with the given
// options.
func NewDecompressor(opts ...Option) *Decompressor {
	var o options
	o.reset()
	o.apply(opts)
	o.populateDefaults()

	d := &Decompressor{
		format:       o.format,
		tracers:      o.tracers,
		symbolEvents: o.symbolEvents,
		adler:        adler32.New(),
	}
	d.window.Init(windowNumBits)
	d.resetState()
	return d
}

// Format returns the Format which this Decompressor expects.
func (d *Decompressor) Format() Format {
	return d.format
}

// Reset discards all state, returning d to the beginning of a new stream.
// Any options given here are merged with all previous options.
func (d *Decompressor) Reset(opts ...Option) {
	for _, opt := range opts {
		assert.NotNil(&opt)
	}

	if len(opts) != 0 {
		var o options
		o.reset()
		o.format = d.format
		o.tracers = d.tracers
		o.symbolEvents = d.symbolEvents
		o.apply(opts)
		o.populateDefaults()

		d.format = o.format
		d.tracers = o.tracers
		d.symbolEvents = o.symbolEvents
	}

	d.window.Clear()
	d.resetState()
}

func (d *Decompressor) resetState() {
	d.br.reset()
	d.adler.Reset()
	d.out = nil
	d.mark = 0
	d.produced = 0
	d.err = nil
	d.ll = nil
	d.dist = nil
	d.state = outsideBlockDecoderState
	if d.format == ZlibFormat {
		d.state = startDecoderState
	}
}

// Decompress feeds p into the stream and returns every byte that could be
// decoded from it.  On failure the bytes decoded before the problem are
// returned along with the error, and every later call returns the same
// error until Reset.  An empty p is a no-op.
//
// Corrupt input is reported as a CorruptInputError which wraps one of
// ErrZlibHeader, ErrInvalidHuffman, ErrInvalidBlock or ErrChecksum.
func (d *Decompressor) Decompress(p []byte) ([]byte, error) {
	if d.err != nil {
		return nil, d.err
	}
	if len(p) == 0 {
		return nil, nil
	}

	if d.produced == 0 && d.br.inputBytesTotal == 0 {
		d.sendEvent(Event{Type: StreamBeginEvent})
	}

	d.br.feed(p)
	for {
		d.br.refill()
		if d.step() != stepContinue {
			break
		}
	}
	d.br.release()
	d.syncChecksum()

	out := d.out
	d.out = nil
	d.mark = 0
	return out, d.err
}

// Finish declares that no more input exists.  It succeeds only if the
// stream, including any trailer, is complete.
func (d *Decompressor) Finish() error {
	if d.err != nil {
		return d.err
	}
	if d.state != finalSpinDecoderState {
		return ErrUnexpectedEOF
	}
	return nil
}

func (d *Decompressor) step() stepResult {
	switch d.state {
	case startDecoderState:
		return d.stepStart()
	case outsideBlockDecoderState:
		return d.stepOutsideBlock()
	case treesHeaderDecoderState:
		return d.stepTreesHeader()
	case treesLenLenDecoderState:
		return d.stepTreesLenLen()
	case treesLenDecoderState:
		return d.stepTreesLen()
	case treesLenRepDecoderState:
		return d.stepTreesLenRep()
	case inBlockDecoderState:
		return d.stepInBlock()
	case gotLenSymDecoderState:
		return d.stepGotLenSym()
	case gotLenDecoderState:
		return d.stepGotLen()
	case gotDistSymDecoderState:
		return d.stepGotDistSym()
	case uncompLenDecoderState:
		return d.stepUncompLen()
	case uncompNLenDecoderState:
		return d.stepUncompNLen()
	case uncompDataDecoderState:
		return d.stepUncompData()
	case endDecoderState:
		return d.stepEnd()
	case adler1DecoderState:
		return d.stepAdler(true)
	case adler2DecoderState:
		return d.stepAdler(false)
	case finalSpinDecoderState:
		d.br.ibBlock = 0
		d.br.ibLen = 0
		d.br.release()
		return stepNeedInput
	default:
		assert.Raisef("unknown decoderState %#v", d.state)
		return stepFailed
	}
}

func (d *Decompressor) stepStart() stepResult {
	if !d.br.has(16) {
		return stepNeedInput
	}
	cmf := uint(d.br.read(8))
	flg := uint(d.br.read(8))
	h := (cmf << 8) | flg

	switch {
	case (h & 0x0f00) != 0x0800:
		return d.corruptf(ErrZlibHeader, "compression method %d, expected 8", (h>>8)&0x0f)
	case (h & 0xf000) > 0x7000:
		return d.corruptf(ErrZlibHeader, "window size 2^%d > 2^15", ((h>>12)&0x0f)+8)
	case (h & 0x0020) != 0:
		return d.corruptf(ErrZlibHeader, "preset dictionary is not supported")
	case (h % 31) != 0:
		return d.corruptf(ErrZlibHeader, "header check %#04x is not a multiple of 31", h)
	}

	d.sendEvent(Event{Type: StreamHeaderEvent})
	d.state = outsideBlockDecoderState
	return stepContinue
}

func (d *Decompressor) stepOutsideBlock() stepResult {
	if !d.br.has(3) {
		return stepNeedInput
	}
	d.isFinal = d.br.read(1) != 0
	d.blockType = blockTypeFromBits(d.br.read(2))
	d.numSyms = 0

	if d.blockType == InvalidBlock {
		return d.corruptf(ErrInvalidBlock, "reserved block type 3")
	}

	d.sendEvent(Event{
		Type: BlockBeginEvent,
		Block: &BlockEvent{
			Type:    d.blockType,
			IsFinal: d.isFinal,
		},
	})

	switch d.blockType {
	case StoredBlock:
		d.br.alignToByte()
		d.state = uncompLenDecoderState

	case StaticBlock:
		d.ll = &gFixedDecodeLL
		d.dist = &gFixedDecodeD
		d.sendTreesEvent(staticTreesEvent())
		d.state = inBlockDecoderState

	case DynamicBlock:
		d.state = treesHeaderDecoderState
	}
	return stepContinue
}

func (d *Decompressor) stepTreesHeader() stepResult {
	if !d.br.has(14) {
		return stepNeedInput
	}
	d.hlit = int(d.br.read(5)) + 257
	d.hdist = int(d.br.read(5)) + 1
	d.hclen = int(d.br.read(4)) + 4

	if d.hlit > numLLCodes {
		return d.corruptf(ErrInvalidHuffman, "HLIT %d > %d", d.hlit, numLLCodes)
	}
	if d.hdist > numDCodes {
		return d.corruptf(ErrInvalidHuffman, "HDIST %d > %d", d.hdist, numDCodes)
	}

	d.xsizes = [numXCodes]byte{}
	d.index = 0
	d.state = treesLenLenDecoderState
	return stepContinue
}

func (d *Decompressor) stepTreesLenLen() stepResult {
	if !d.br.has(3) {
		return stepNeedInput
	}
	d.xsizes[scramble[d.index]] = byte(d.br.read(3))
	d.index++
	if d.index < d.hclen {
		return stepContinue
	}

	if err := d.tableX.init(SizeList(d.xsizes[:])); err != nil {
		return d.corruptf(ErrInvalidHuffman, "code-length code: %v", err)
	}
	d.index = 0
	d.state = treesLenDecoderState
	return stepContinue
}

func (d *Decompressor) stepTreesLen() stepResult {
	total := d.hlit + d.hdist
	if d.index >= total {
		return d.finishTrees()
	}

	sym, used, res := d.tableX.lookup(d.br.peek(), d.br.ibLen)
	switch res {
	case lookupNeedMore:
		return stepNeedInput
	case lookupInvalid:
		return d.corruptf(ErrInvalidHuffman, "undefined code-length code")
	}
	d.br.consume(used)

	if sym < 16 {
		d.sizes[d.index] = byte(sym)
		d.index++
		return stepContinue
	}

	if sym == 16 && d.index == 0 {
		return d.corruptf(ErrInvalidHuffman, "repeat of previous code size with no previous code size")
	}
	d.repCode = sym
	d.state = treesLenRepDecoderState
	return stepContinue
}

func (d *Decompressor) stepTreesLenRep() stepResult {
	var nbits byte
	var base int
	var size byte
	switch d.repCode {
	case 16:
		nbits, base, size = 2, 3, d.sizes[d.index-1]
	case 17:
		nbits, base = 3, 3
	default:
		nbits, base = 7, 11
	}

	if !d.br.has(nbits) {
		return stepNeedInput
	}
	count := base + int(d.br.read(nbits))

	total := d.hlit + d.hdist
	if d.index+count > total {
		return d.corruptf(ErrInvalidHuffman, "code size repeat of %d overflows %d code sizes", count, total)
	}
	for ; count > 0; count-- {
		d.sizes[d.index] = size
		d.index++
	}
	d.state = treesLenDecoderState
	return stepContinue
}

func (d *Decompressor) finishTrees() stepResult {
	sizesLL := SizeList(d.sizes[:d.hlit])
	sizesD := SizeList(d.sizes[d.hlit : d.hlit+d.hdist])

	if sizesLL[endOfBlock] == 0 {
		return d.corruptf(ErrInvalidHuffman, "literal/length code has no end-of-block symbol")
	}
	if err := d.tableLL.init(sizesLL); err != nil {
		return d.corruptf(ErrInvalidHuffman, "literal/length code: %v", err)
	}
	if err := d.tableD.init(sizesD); err != nil {
		return d.corruptf(ErrInvalidHuffman, "distance code: %v", err)
	}
	d.ll = &d.tableLL
	d.dist = &d.tableD

	if len(d.tracers) != 0 {
		d.sendTreesEvent(&TreesEvent{
			CodeCount:          uint16(d.hclen),
			LiteralLengthCount: uint16(d.hlit),
			DistanceCount:      uint16(d.hdist),
			CodeSizes:          append(SizeList(nil), d.xsizes[:]...),
			LiteralLengthSizes: append(SizeList(nil), sizesLL...),
			DistanceSizes:      append(SizeList(nil), sizesD...),
		})
	}

	d.state = inBlockDecoderState
	return stepContinue
}

func (d *Decompressor) stepInBlock() stepResult {
	sym, used, res := d.ll.lookup(d.br.peek(), d.br.ibLen)
	switch res {
	case lookupNeedMore:
		return stepNeedInput
	case lookupInvalid:
		return d.corruptf(ErrInvalidHuffman, "undefined literal/length code")
	}
	d.br.consume(used)
	d.symBits = uint(used)

	switch {
	case sym < endOfBlock:
		ch := byte(sym)
		d.emitByte(ch)
		d.numSyms++
		if d.symbolEvents {
			d.sendEvent(Event{
				Type:   LiteralEvent,
				Symbol: &SymbolEvent{Literal: ch, NumBits: d.symBits},
			})
		}
		return stepContinue

	case sym == endOfBlock:
		d.sendEvent(Event{
			Type: BlockEndEvent,
			Block: &BlockEvent{
				Type:       d.blockType,
				IsFinal:    d.isFinal,
				NumSymbols: d.numSyms,
			},
		})
		d.state = outsideBlockDecoderState
		if d.isFinal {
			d.state = endDecoderState
		}
		return stepContinue

	case sym < numLLCodes:
		d.lenCode = sym - 257
		d.length = lengthBase[d.lenCode]
		d.state = gotLenDecoderState
		if lengthExtra[d.lenCode] != 0 {
			d.state = gotLenSymDecoderState
		}
		return stepContinue

	default:
		return d.corruptf(ErrInvalidBlock, "reserved literal/length symbol %d", sym)
	}
}

func (d *Decompressor) stepGotLenSym() stepResult {
	nbits := lengthExtra[d.lenCode]
	if !d.br.has(nbits) {
		return stepNeedInput
	}
	d.length = lengthBase[d.lenCode] + uint16(d.br.read(nbits))
	d.symBits += uint(nbits)
	d.state = gotLenDecoderState
	return stepContinue
}

func (d *Decompressor) stepGotLen() stepResult {
	sym, used, res := d.dist.lookup(d.br.peek(), d.br.ibLen)
	switch res {
	case lookupNeedMore:
		return stepNeedInput
	case lookupInvalid:
		return d.corruptf(ErrInvalidHuffman, "undefined distance code")
	}
	if sym >= numDCodes {
		return d.corruptf(ErrInvalidBlock, "reserved distance symbol %d", sym)
	}
	d.br.consume(used)
	d.symBits += uint(used)
	d.distCode = sym

	if distanceExtra[sym] != 0 {
		d.state = gotDistSymDecoderState
		return stepContinue
	}
	return d.copyMatch(uint(distanceBase[sym]))
}

func (d *Decompressor) stepGotDistSym() stepResult {
	nbits := distanceExtra[d.distCode]
	if !d.br.has(nbits) {
		return stepNeedInput
	}
	distance := uint(distanceBase[d.distCode]) + uint(d.br.read(nbits))
	d.symBits += uint(nbits)
	return d.copyMatch(distance)
}

func (d *Decompressor) copyMatch(distance uint) stepResult {
	if uint64(distance) > d.produced {
		return d.corruptf(ErrInvalidBlock, "distance %d reaches before the start of the stream (%d bytes produced)", distance, d.produced)
	}

	for i := uint16(0); i < d.length; i++ {
		ch, err := d.window.LookupByte(distance)
		if err != nil {
			return d.corruptf(ErrInvalidBlock, "distance %d > window.Size %d", distance, d.window.Size())
		}
		d.emitByte(ch)
	}
	d.numSyms++

	if d.symbolEvents {
		d.sendEvent(Event{
			Type: CopyEvent,
			Symbol: &SymbolEvent{
				Distance: uint16(distance),
				Length:   d.length,
				NumBits:  d.symBits,
			},
		})
	}

	d.state = inBlockDecoderState
	return stepContinue
}

func (d *Decompressor) stepUncompLen() stepResult {
	if !d.br.has(16) {
		return stepNeedInput
	}
	d.storedLen = uint16(d.br.read(16))
	d.state = uncompNLenDecoderState
	return stepContinue
}

func (d *Decompressor) stepUncompNLen() stepResult {
	if !d.br.has(16) {
		return stepNeedInput
	}
	nlen := uint16(d.br.read(16))
	if nlen != ^d.storedLen {
		return d.corruptf(ErrInvalidBlock, "stored block NLEN %#04x is not the complement of LEN %#04x", nlen, d.storedLen)
	}
	d.state = uncompDataDecoderState
	return stepContinue
}

func (d *Decompressor) stepUncompData() stepResult {
	for d.storedLen != 0 {
		p := d.br.takeBytes(d.scratch[:], int(d.storedLen))
		if len(p) == 0 {
			return stepNeedInput
		}
		for _, ch := range p {
			d.emitByte(ch)
		}
		d.storedLen -= uint16(len(p))
	}

	d.sendEvent(Event{
		Type: BlockEndEvent,
		Block: &BlockEvent{
			Type:    StoredBlock,
			IsFinal: d.isFinal,
		},
	})
	d.state = outsideBlockDecoderState
	if d.isFinal {
		d.state = endDecoderState
	}
	return stepContinue
}

func (d *Decompressor) stepEnd() stepResult {
	d.br.alignToByte()
	d.syncChecksum()

	footer := &FooterEvent{Adler32: Checksum32(d.adler.Sum32())}
	d.sendEvent(Event{Type: StreamEndEvent, Footer: footer})

	if d.format == ZlibFormat {
		d.state = adler1DecoderState
		return stepContinue
	}

	d.sendEvent(Event{Type: StreamCloseEvent, Footer: footer})
	d.state = finalSpinDecoderState
	return stepContinue
}

func (d *Decompressor) stepAdler(high bool) stepResult {
	if !d.br.has(16) {
		return stepNeedInput
	}
	b0 := uint16(d.br.read(8))
	b1 := uint16(d.br.read(8))
	got := (b0 << 8) | b1

	if high {
		if expect := d.adler.High(); got != expect {
			return d.corruptf(ErrChecksum, "Adler-32 high half %#04x, computed %#04x", got, expect)
		}
		d.state = adler2DecoderState
		return stepContinue
	}

	if expect := d.adler.Low(); got != expect {
		return d.corruptf(ErrChecksum, "Adler-32 low half %#04x, computed %#04x", got, expect)
	}

	d.sendEvent(Event{
		Type:   StreamCloseEvent,
		Footer: &FooterEvent{Adler32: Checksum32(d.adler.Sum32())},
	})
	d.state = finalSpinDecoderState
	return stepContinue
}

func (d *Decompressor) emitByte(ch byte) {
	d.out = append(d.out, ch)
	if err := d.window.WriteByte(ch); err != nil {
		assert.Raisef("window.WriteByte failed: %v", err)
	}
	d.produced++
}

// syncChecksum folds the output produced since the last call into the
// running Adler-32.
func (d *Decompressor) syncChecksum() {
	if _, err := d.adler.Write(d.out[d.mark:]); err != nil {
		assert.Raisef("adler32.Write failed: %v", err)
	}
	d.mark = len(d.out)
}

func (d *Decompressor) corruptf(sentinel error, format string, v ...interface{}) stepResult {
	d.err = CorruptInputError{
		OffsetTotal: d.br.inputBytesTotal,
		Problem:     fmt.Sprintf(format, v...),
		Err:         sentinel,
	}
	return stepFailed
}

func (d *Decompressor) sendTreesEvent(trees *TreesEvent) {
	d.sendEvent(Event{
		Type: BlockTreesEvent,
		Block: &BlockEvent{
			Type:    d.blockType,
			IsFinal: d.isFinal,
		},
		Trees: trees,
	})
}

func (d *Decompressor) sendEvent(event Event) {
	if len(d.tracers) == 0 {
		return
	}
	event.InputBytesTotal = d.br.inputBytesTotal
	event.OutputBytesTotal = d.produced
	event.Format = d.format
	for _, tr := range d.tracers {
		tr.OnEvent(event)
	}
}
