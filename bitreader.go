package deflate

import (
	"github.com/chronos-tachyon/assert"
)

// refillBits is the fill level below which the bit reader pulls in another
// byte.  It covers the longest unit any decoder state reads at once.
const refillBits = 24

// type bitreader {{{

// bitreader serves bits LSB-first from the input of the current call.
// Bytes move from in to ibBlock one at a time, so at most refillBits+7 bits
// carry over from one call to the next.
type bitreader struct {
	in              []byte
	ibBlock         block
	ibLen           byte
	inputBytesTotal uint64
}

func (br *bitreader) reset() {
	*br = bitreader{}
}

// feed sets the input for the current call.  Bits already buffered stay in
// front of it.
func (br *bitreader) feed(p []byte) {
	br.in = p
}

// release forgets whatever is left of the caller's input.
func (br *bitreader) release() {
	br.in = nil
}

func (br *bitreader) refill() {
	for br.ibLen < refillBits && len(br.in) != 0 {
		br.ibBlock |= block(br.in[0]) << br.ibLen
		br.ibLen += bitsPerByte
		br.in = br.in[1:]
		br.inputBytesTotal++
	}
}

func (br *bitreader) has(n byte) bool {
	return br.ibLen >= n
}

func (br *bitreader) peek() block {
	return br.ibBlock
}

func (br *bitreader) consume(n byte) {
	assert.Assertf(n <= br.ibLen, "consume %d bits, only %d available", n, br.ibLen)
	br.ibBlock >>= n
	br.ibLen -= n
}

func (br *bitreader) read(n byte) block {
	out := br.ibBlock & makeMask(n)
	br.consume(n)
	return out
}

// alignToByte discards the bits remaining in a partially consumed byte.
func (br *bitreader) alignToByte() {
	br.consume(br.ibLen % bitsPerByte)
}

// takeBytes returns up to max bytes of byte-aligned input: first whatever
// whole bytes are buffered, then a slice of the caller's input.
func (br *bitreader) takeBytes(scratch []byte, max int) []byte {
	assert.Assertf(br.ibLen%bitsPerByte == 0, "takeBytes with %d stray bits", br.ibLen%bitsPerByte)

	if br.ibLen != 0 {
		n := 0
		for n < max && n < len(scratch) && br.ibLen != 0 {
			scratch[n] = byte(br.read(bitsPerByte))
			n++
		}
		return scratch[:n]
	}

	n := len(br.in)
	if n > max {
		n = max
	}
	out := br.in[:n]
	br.in = br.in[n:]
	br.inputBytesTotal += uint64(n)
	return out
}

// }}}
