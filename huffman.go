package deflate

import (
	"container/heap"
	"encoding/json"

	"github.com/chronos-tachyon/assert"
	"github.com/chronos-tachyon/huffman"
)

const (
	numLLCodes         = 286
	numDCodes          = 30
	numXCodes          = 19
	physicalNumLLCodes = 288
	physicalNumDCodes  = 32

	maxCodeSize  = 15
	maxXCodeSize = 7

	endOfBlock = 256
)

var scramble = [numXCodes]byte{16, 17, 18, 0, 8, 7, 9, 6, 10, 5, 11, 4, 12, 3, 13, 2, 14, 1, 15}

var (
	gFixedTableLL  huffTable
	gFixedTableD   huffTable
	gFixedDecodeLL decodeTable
	gFixedDecodeD  decodeTable
)

func init() {
	// https://www.rfc-editor.org/rfc/rfc1951.html - Section 3.2.6
	sizes := make(SizeList, physicalNumLLCodes)
	for i := 0; i < 144; i++ {
		sizes[i] = 8
	}
	for i := 144; i < 256; i++ {
		sizes[i] = 9
	}
	for i := 256; i < 280; i++ {
		sizes[i] = 7
	}
	for i := 280; i < 288; i++ {
		sizes[i] = 8
	}
	gFixedTableLL.init(sizes)
	if err := gFixedDecodeLL.init(sizes); err != nil {
		panic(err)
	}

	sizes = make(SizeList, physicalNumDCodes)
	for i := range sizes {
		sizes[i] = 5
	}
	gFixedTableD.init(sizes)
	if err := gFixedDecodeD.init(sizes); err != nil {
		panic(err)
	}
}

// SizeList represents a list of symbol sizes in a Canonical Huffman Code.
type SizeList []byte

// MarshalJSON returns the JSON representation of this SizeList, as a JSON
// Array of JSON Numbers.
func (sizelist SizeList) MarshalJSON() ([]byte, error) {
	var arr []uint
	if sizelist != nil {
		arr = make([]uint, len(sizelist))
		for index, size := range sizelist {
			arr[index] = uint(size)
		}
	}
	return json.Marshal(arr)
}

func (sizelist SizeList) max() byte {
	var out byte
	for _, size := range sizelist {
		if size > out {
			out = size
		}
	}
	return out
}

// type huffTable {{{

// huffTable is an immutable canonical Huffman code, ready for encoding.
type huffTable struct {
	sizes SizeList
	codes []huffman.Code
}

func newHuffTable(sizes SizeList) *huffTable {
	t := new(huffTable)
	t.init(sizes)
	return t
}

func (t *huffTable) init(sizes SizeList) {
	t.sizes = sizes
	t.codes = canonicalCodes(sizes)
}

func (t *huffTable) encode(sym uint16) huffman.Code {
	hc := t.codes[sym]
	assert.Assertf(hc.Size != 0, "symbol %d has no code", sym)
	return hc
}

// }}}

// canonicalCodes assigns codes per RFC 1951 section 3.2.2: shorter codes
// first, codes of equal size consecutive in symbol order.  The returned codes
// are bit-reversed, ready to be written LSB-first.
func canonicalCodes(sizes SizeList) []huffman.Code {
	var count [maxCodeSize + 1]uint32
	for _, size := range sizes {
		assert.Assertf(size <= maxCodeSize, "size %d > maximum %d", size, maxCodeSize)
		count[size]++
	}
	count[0] = 0

	var next [maxCodeSize + 1]uint32
	var code uint32
	for size := 1; size <= maxCodeSize; size++ {
		code = (code + count[size-1]) << 1
		next[size] = code
	}

	codes := make([]huffman.Code, len(sizes))
	for sym, size := range sizes {
		if size == 0 {
			continue
		}
		bits := reverseBits(block(next[size]), size)
		codes[sym] = huffman.MakeCode(size, uint32(bits))
		next[size]++
	}
	return codes
}

// buildSizes computes optimal code sizes for freqs, none longer than limit.
// Symbols with frequency zero get size zero.
func buildSizes(freqs []uint32, limit byte) SizeList {
	assert.Assertf(limit >= maxXCodeSize && limit <= maxCodeSize, "limit %d out of range", limit)

	sizes := buildSizesOnce(freqs)
	if sizes.max() <= limit {
		return sizes
	}

	// A code longer than limit requires some symbol with probability at
	// most 1/F(limit+3).  Flatten the distribution until the rarest
	// symbol is safely above that bound, then build again.
	var total, smallest, nactive uint64
	for _, f := range freqs {
		if f == 0 {
			continue
		}
		total += uint64(f)
		if nactive == 0 || uint64(f) < smallest {
			smallest = uint64(f)
		}
		nactive++
	}

	maxprob := fibonacci(uint(limit) + 3)
	assert.Assertf(maxprob > nactive, "%d symbols cannot fit in %d bits", nactive, limit)

	var adjust uint64 = 1
	if total > smallest*maxprob {
		adjust = (total-smallest*maxprob)/(maxprob-nactive) + 1
	}

	adjusted := make([]uint32, len(freqs))
	for i, f := range freqs {
		if f != 0 {
			adjusted[i] = uint32(uint64(f) + adjust)
		}
	}

	sizes = buildSizesOnce(adjusted)
	assert.Assertf(sizes.max() <= limit, "rebuilt code has size %d > limit %d", sizes.max(), limit)
	return sizes
}

func fibonacci(n uint) uint64 {
	var a, b uint64 = 0, 1
	for ; n > 0; n-- {
		a, b = b, a+b
	}
	return a
}

func buildSizesOnce(freqs []uint32) SizeList {
	sizes := make(SizeList, len(freqs))

	parent := make([]int, 0, 2*len(freqs))
	h := make(nodeHeap, 0, len(freqs))
	leaf := make([]int, len(freqs))
	for sym, f := range freqs {
		leaf[sym] = -1
		if f == 0 {
			continue
		}
		leaf[sym] = len(parent)
		h = append(h, heapNode{weight: uint64(f), id: len(parent)})
		parent = append(parent, -1)
	}

	switch len(h) {
	case 0:
		return sizes
	case 1:
		for sym := range freqs {
			if leaf[sym] >= 0 {
				sizes[sym] = 1
			}
		}
		return sizes
	}

	heap.Init(&h)
	for h.Len() > 1 {
		a := heap.Pop(&h).(heapNode)
		b := heap.Pop(&h).(heapNode)
		id := len(parent)
		parent = append(parent, -1)
		parent[a.id] = id
		parent[b.id] = id
		heap.Push(&h, heapNode{weight: a.weight + b.weight, id: id})
	}

	// Internal nodes are created after their children, so walking the
	// node list backward visits every parent before its children.
	depth := make([]byte, len(parent))
	for id := len(parent) - 2; id >= 0; id-- {
		depth[id] = depth[parent[id]] + 1
	}
	for sym := range freqs {
		if id := leaf[sym]; id >= 0 {
			sizes[sym] = depth[id]
		}
	}
	return sizes
}

// type nodeHeap {{{

type heapNode struct {
	weight uint64
	id     int
}

// nodeHeap is a min-heap of tree nodes, ordered by weight and then by id so
// that equal weights always resolve the same way.
type nodeHeap []heapNode

func (h nodeHeap) Len() int { return len(h) }

func (h nodeHeap) Less(i, j int) bool {
	if h[i].weight != h[j].weight {
		return h[i].weight < h[j].weight
	}
	return h[i].id < h[j].id
}

func (h nodeHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *nodeHeap) Push(x interface{}) { *h = append(*h, x.(heapNode)) }

func (h *nodeHeap) Pop() interface{} {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

var _ heap.Interface = (*nodeHeap)(nil)

// }}}
