// +build !386,!arm

package deflate

import (
	"encoding/binary"
	"math/bits"
)

// block is the widest unsigned integer the target handles natively.  Both
// bit buffers accumulate into one.
type block uint64

const bytesPerBlock = 8

// putBlock stores x into p[:bytesPerBlock], least significant byte first,
// which is the order DEFLATE packs bits into bytes.
func putBlock(p []byte, x block) {
	binary.LittleEndian.PutUint64(p, uint64(x))
}

// reverseBits returns the low size bits of x in reverse order.
func reverseBits(x block, size byte) block {
	if size == 0 {
		return 0
	}
	return block(bits.Reverse64(uint64(x))) >> (bitsPerBlock - size)
}
