package deflate

import (
	"encoding/binary"

	"github.com/chronos-tachyon/assert"
	"github.com/chronos-tachyon/huffman"
)

// bitwriter is the sink for block encoding.  Bits are packed LSB-first, as
// RFC 1951 requires.
type bitwriter interface {
	writeBits(size byte, bits block)
	writeCode(hc huffman.Code)
	alignToByte()
	writeBytes(p []byte)
	writeU16(bo binary.ByteOrder, x uint16)
}

// type bitcounter {{{

// bitcounter measures how many bits an encoding would take without
// producing it.
type bitcounter struct {
	numBits uint64
}

func (bc bitcounter) length() uint64 {
	return bc.numBits
}

func (bc *bitcounter) writeBits(size byte, bits block) {
	assert.Assertf(size <= bitsPerBlock, "size %d > bitsPerBlock %d", size, bitsPerBlock)
	bc.numBits += uint64(size)
}

func (bc *bitcounter) writeCode(hc huffman.Code) {
	bc.writeBits(hc.Size, block(hc.Bits))
}

func (bc *bitcounter) alignToByte() {
	remainder := (bc.numBits & 7)
	if remainder != 0 {
		bc.numBits += (8 - remainder)
	}
}

func (bc *bitcounter) writeBytes(p []byte) {
	bc.alignToByte()
	bc.numBits += uint64(len(p)) << 3
}

func (bc *bitcounter) writeU16(bo binary.ByteOrder, x uint16) {
	bc.alignToByte()
	bc.numBits += 16
}

var _ bitwriter = (*bitcounter)(nil)

// }}}

// type bitbuffer {{{

// bitbuffer accumulates encoded output in memory.  Whole bytes are moved to
// out as they complete; the final partial byte stays in obBlock until
// alignToByte pads it.
type bitbuffer struct {
	out     []byte
	obBlock block
	obLen   byte
}

func (bb *bitbuffer) reset() {
	bb.out = nil
	bb.obBlock = 0
	bb.obLen = 0
}

// take returns every completed byte and transfers its ownership to the
// caller.
func (bb *bitbuffer) take() []byte {
	for bb.obLen >= bitsPerByte {
		bb.out = append(bb.out, byte(bb.obBlock))
		bb.obBlock >>= bitsPerByte
		bb.obLen -= bitsPerByte
	}
	out := bb.out
	bb.out = nil
	return out
}

func (bb *bitbuffer) writeBits(inLen byte, inBlock block) {
	assert.Assertf(bb.obLen <= bitsPerBlock, "obLen %d > bitsPerBlock %d", bb.obLen, bitsPerBlock)
	assert.Assertf(inLen <= bitsPerBlock, "inLen %d > bitsPerBlock %d", inLen, bitsPerBlock)

	for inLen != 0 {
		shiftA := bb.obLen
		shiftB := byte(bitsPerBlock - shiftA)
		if shiftB > inLen {
			shiftB = inLen
		}
		maskB := makeMask(shiftB)
		bb.obBlock = bb.obBlock | ((inBlock & maskB) << shiftA)
		inBlock = (inBlock >> shiftB)
		bb.obLen += shiftB
		inLen -= shiftB

		if bb.obLen == bitsPerBlock {
			var tmp [bytesPerBlock]byte
			putBlock(tmp[:], bb.obBlock)
			bb.out = append(bb.out, tmp[:]...)
			bb.obBlock = 0
			bb.obLen = 0
		}
	}
}

func (bb *bitbuffer) writeCode(hc huffman.Code) {
	bb.writeBits(hc.Size, block(hc.Bits))
}

func (bb *bitbuffer) alignToByte() {
	if bb.obLen == 0 {
		return
	}

	var tmp [bytesPerBlock]byte
	n := ((bb.obLen + 7) / 8)
	putBlock(tmp[:], bb.obBlock)
	bb.out = append(bb.out, tmp[:n]...)
	bb.obBlock = 0
	bb.obLen = 0
}

func (bb *bitbuffer) writeBytes(p []byte) {
	bb.alignToByte()
	bb.out = append(bb.out, p...)
}

func (bb *bitbuffer) writeU16(bo binary.ByteOrder, x uint16) {
	var tmp [2]byte
	bo.PutUint16(tmp[:], x)
	bb.writeBytes(tmp[:])
}

var _ bitwriter = (*bitbuffer)(nil)

// }}}
