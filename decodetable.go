package deflate

import (
	"fmt"

	"github.com/chronos-tachyon/assert"
	"github.com/chronos-tachyon/huffman"
)

const (
	rootTableBits = 9
	subTableBits  = 7
)

type entryKind byte

const (
	// missingEntry: no code starts with these bits.
	missingEntry entryKind = iota

	// leafEntry: the bits decode to value after consuming size bits.
	leafEntry

	// subTableEntry: the code continues in levels[value].
	subTableEntry
)

type tableEntry struct {
	kind  entryKind
	size  byte
	value uint16
}

type tableLevel struct {
	bits    byte
	entries []tableEntry
}

type lookupResult byte

const (
	lookupOK lookupResult = iota
	lookupNeedMore
	lookupInvalid
)

// decodeTable is a multi-level lookup table for a canonical Huffman code.
// levels[0] is indexed by the next min(maxSize, 9) input bits; longer codes
// continue in sub-levels of at most 7 bits each.  Sub-levels are referenced
// by index, so the whole table is a single value with no internal pointers.
type decodeTable struct {
	levels  []tableLevel
	maxSize byte
}

// init builds the table for sizes.  Over-subscribed size vectors are
// rejected; incomplete ones are accepted, and their unused bit patterns
// decode as lookupInvalid.
func (dt *decodeTable) init(sizes SizeList) error {
	var kraft uint32
	for _, size := range sizes {
		if size > maxCodeSize {
			return fmt.Errorf("code size %d > maximum %d", size, maxCodeSize)
		}
		if size != 0 {
			kraft += uint32(1) << (maxCodeSize - size)
		}
	}
	if kraft > uint32(1)<<maxCodeSize {
		return fmt.Errorf("over-subscribed set of code sizes %v", []byte(sizes))
	}

	codes := canonicalCodes(sizes)

	dt.maxSize = sizes.max()
	dt.levels = dt.levels[:0]
	rootBits := dt.maxSize
	if rootBits > rootTableBits {
		rootBits = rootTableBits
	}
	dt.buildLevel(sizes, codes, 0, 0, rootBits)
	return nil
}

func (dt *decodeTable) buildLevel(sizes SizeList, codes []huffman.Code, pfx block, pfxBits byte, bits byte) int {
	index := len(dt.levels)
	dt.levels = append(dt.levels, tableLevel{
		bits:    bits,
		entries: make([]tableEntry, 1<<bits),
	})
	entries := dt.levels[index].entries
	pfxMask := makeMask(pfxBits)
	levelMask := makeMask(bits)

	for sym, size := range sizes {
		if size <= pfxBits {
			continue
		}
		code := block(codes[sym].Bits)
		if (code & pfxMask) != pfx {
			continue
		}
		code >>= pfxBits
		rest := size - pfxBits

		if rest <= bits {
			for j := code; j < block(len(entries)); j += block(1) << rest {
				entries[j] = tableEntry{kind: leafEntry, size: rest, value: uint16(sym)}
			}
			continue
		}

		e := &entries[code&levelMask]
		assert.Assertf(e.kind != leafEntry, "prefix collision for symbol %d", sym)
		e.kind = subTableEntry
		if e.size < rest {
			e.size = rest
		}
	}

	for j := range entries {
		if entries[j].kind != subTableEntry {
			continue
		}
		subBits := entries[j].size - bits
		if subBits > subTableBits {
			subBits = subTableBits
		}
		sub := dt.buildLevel(sizes, codes, pfx|(block(j)<<pfxBits), pfxBits+bits, subBits)
		entries[j] = tableEntry{kind: subTableEntry, size: bits, value: uint16(sub)}
	}

	return index
}

// lookup decodes one symbol from the low nbits bits of input.
func (dt *decodeTable) lookup(input block, nbits byte) (sym uint16, used byte, res lookupResult) {
	level := 0
	for {
		lv := &dt.levels[level]
		e := lv.entries[input&makeMask(lv.bits)]
		switch e.kind {
		case leafEntry:
			if used+e.size > nbits {
				return 0, 0, lookupNeedMore
			}
			return e.value, used + e.size, lookupOK

		case subTableEntry:
			if used+lv.bits > nbits {
				return 0, 0, lookupNeedMore
			}
			input >>= lv.bits
			used += lv.bits
			level = int(e.value)

		default:
			if used+lv.bits > nbits {
				return 0, 0, lookupNeedMore
			}
			return 0, 0, lookupInvalid
		}
	}
}
