package deflate

import (
	"github.com/chronos-tachyon/assert"
)

// symbolRingSize is the number of symbols buffered before a block must be
// emitted.
const symbolRingSize = 65536

// type symbolRing {{{

// symbolRing is a bounded FIFO of symbols awaiting block emission.
type symbolRing struct {
	data  [symbolRingSize]symbol
	start int
	count int
}

func (r *symbolRing) reset() {
	r.start = 0
	r.count = 0
}

func (r *symbolRing) len() int {
	return r.count
}

func (r *symbolRing) full() bool {
	return r.count == symbolRingSize
}

func (r *symbolRing) push(s symbol) {
	assert.Assertf(r.count < symbolRingSize, "symbol ring overflow: %d symbols", r.count)
	r.data[(r.start+r.count)%symbolRingSize] = s
	r.count++
}

// at returns the i'th oldest symbol.
func (r *symbolRing) at(i int) symbol {
	assert.Assertf(i >= 0 && i < r.count, "symbol index %d out of range [0, %d)", i, r.count)
	return r.data[(r.start+i)%symbolRingSize]
}

// discard drops the n oldest symbols.
func (r *symbolRing) discard(n int) {
	assert.Assertf(n >= 0 && n <= r.count, "cannot discard %d of %d symbols", n, r.count)
	r.start = (r.start + n) % symbolRingSize
	r.count -= n
}

// }}}
