package deflate

import (
	"encoding/binary"

	"github.com/chronos-tachyon/assert"
)

// type dynamicTrees {{{

// dynamicTrees holds everything needed to transmit the Huffman codes of one
// dynamic block.
type dynamicTrees struct {
	ll    huffTable
	d     huffTable
	x     huffTable
	numLL int
	numD  int
	numX  int
	xsyms []symbol
}

// buildDynamicTrees computes length-limited codes for the given frequencies
// and the run-length encoded description of those codes.  freqD is
// modified.
func buildDynamicTrees(freqLL []uint32, freqD []uint32) *dynamicTrees {
	assert.Assertf(len(freqLL) == numLLCodes, "len(freqLL) = %d, expected %d", len(freqLL), numLLCodes)
	assert.Assertf(len(freqD) == numDCodes, "len(freqD) = %d, expected %d", len(freqD), numDCodes)

	padDistanceFreqs(freqD)

	dt := new(dynamicTrees)
	dt.ll.init(buildSizes(freqLL, maxCodeSize))
	dt.d.init(buildSizes(freqD, maxCodeSize))
	dt.numLL = trimSizes(dt.ll.sizes, 257)
	dt.numD = trimSizes(dt.d.sizes, 1)

	combined := make(SizeList, 0, dt.numLL+dt.numD)
	combined = append(combined, dt.ll.sizes[:dt.numLL]...)
	combined = append(combined, dt.d.sizes[:dt.numD]...)
	dt.xsyms = encodeTreeSymbols(combined)

	dt.x.init(buildSizes(studyFrequenciesX(dt.xsyms), maxXCodeSize))
	dt.numX = trimScrambledSizes(dt.x.sizes, 4)
	return dt
}

// treesEvent describes dt for tracers, including the exact size of its
// transmitted description.
func (dt *dynamicTrees) treesEvent() *TreesEvent {
	var bc bitcounter
	writeTreeDescription(&bc, dt)
	return &TreesEvent{
		CodeCount:          uint16(dt.numX),
		LiteralLengthCount: uint16(dt.numLL),
		DistanceCount:      uint16(dt.numD),
		CodeSizes:          dt.x.sizes,
		LiteralLengthSizes: dt.ll.sizes[:dt.numLL],
		DistanceSizes:      dt.d.sizes[:dt.numD],
		TreeBits:           bc.length(),
	}
}

// }}}

func staticTreesEvent() *TreesEvent {
	return &TreesEvent{
		LiteralLengthSizes: gFixedTableLL.sizes,
		DistanceSizes:      gFixedTableD.sizes,
	}
}

// writeBlockHeader writes BFINAL and BTYPE.
func writeBlockHeader(bw bitwriter, blockType BlockType, isFinal bool) {
	assert.Assertf(blockType != InvalidBlock, "cannot write %#v", blockType)
	bits := blockType.bits() << 1
	if isFinal {
		bits |= 1
	}
	bw.writeBits(3, bits)
}

// writeTreeDescription writes HLIT, HDIST, HCLEN, the code-length code
// sizes, and the encoded literal/length and distance code sizes.
func writeTreeDescription(bw bitwriter, dt *dynamicTrees) {
	bw.writeBits(5, block(dt.numLL-257))
	bw.writeBits(5, block(dt.numD-1))
	bw.writeBits(4, block(dt.numX-4))
	for i := 0; i < dt.numX; i++ {
		bw.writeBits(3, block(dt.x.sizes[scramble[i]]))
	}
	for _, s := range dt.xsyms {
		writeSymbol(bw, s, nil, nil, &dt.x)
	}
}

// writeBlockSymbols writes the first n buffered symbols followed by the
// end-of-block marker.
func writeBlockSymbols(bw bitwriter, r *symbolRing, n int, ll *huffTable, d *huffTable) {
	for i := 0; i < n; i++ {
		writeSymbol(bw, r.at(i), ll, d, nil)
	}
	bw.writeCode(ll.encode(endOfBlock))
}

func writeSymbol(bw bitwriter, s symbol, ll *huffTable, d *huffTable, x *huffTable) {
	switch s.kind {
	case literalSymbol, lengthSymbol:
		bw.writeCode(ll.encode(s.value))
	case distanceSymbol:
		bw.writeCode(d.encode(s.value))
	case codeLengthSymbol:
		bw.writeCode(x.encode(s.value))
	case extraBitsSymbol:
		bw.writeBits(s.size, block(s.value))
	default:
		assert.Raisef("unknown symbol kind %d", s.kind)
	}
}

// writeEmptyStoredBlock writes a stored block with no data.  Its LEN and
// NLEN fields always end the output on a byte boundary.
func writeEmptyStoredBlock(bw bitwriter, isFinal bool) {
	writeBlockHeader(bw, StoredBlock, isFinal)
	bw.alignToByte()
	bw.writeU16(binary.LittleEndian, 0x0000)
	bw.writeU16(binary.LittleEndian, 0xffff)
}
