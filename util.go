package deflate

import (
	"io"
)

const strDefault = "default"

const bitsPerByte = 8

const bitsPerBlock = bytesPerBlock * bitsPerByte

func makeMask(shift byte) block {
	if shift == 0 {
		return 0
	} else if shift >= bitsPerBlock {
		return ^block(0)
	} else {
		return (block(1) << shift) - 1
	}
}

// type eofReader {{{

type eofReader struct{}

func (eofReader) Read([]byte) (int, error) { return 0, io.EOF }

var _ io.Reader = eofReader{}

// }}}
