// +build 386 arm

package deflate

import (
	"encoding/binary"
	"math/bits"
)

// block is the widest unsigned integer the target handles natively.  Both
// bit buffers accumulate into one.
type block uint32

const bytesPerBlock = 4

// putBlock stores x into p[:bytesPerBlock], least significant byte first,
// which is the order DEFLATE packs bits into bytes.
func putBlock(p []byte, x block) {
	binary.LittleEndian.PutUint32(p, uint32(x))
}

// reverseBits returns the low size bits of x in reverse order.
func reverseBits(x block, size byte) block {
	if size == 0 {
		return 0
	}
	return block(bits.Reverse32(uint32(x))) >> (bitsPerBlock - size)
}
