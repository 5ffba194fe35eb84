package deflate

import (
	"sync"

	"github.com/chronos-tachyon/assert"
)

// readChunkSize is how much compressed input a Reader requests from its
// source at a time.
const readChunkSize = 4096

var chunkPool = sync.Pool{
	New: func() interface{} {
		ptr := new([]byte)
		*ptr = make([]byte, readChunkSize)
		return ptr
	},
}

func takeChunk() *[]byte {
	return chunkPool.Get().(*[]byte)
}

func giveChunk(ptr *[]byte) {
	assert.NotNil(&ptr)
	assert.NotNil(ptr)
	*ptr = (*ptr)[:readChunkSize]
	chunkPool.Put(ptr)
}
