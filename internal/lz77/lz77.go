// Package lz77 implements the lazy-matching LZ77 match finder that feeds the
// DEFLATE block writer.
package lz77

import (
	"github.com/chronos-tachyon/assert"
)

const (
	// MaxDistance is the largest backward distance a match may use.
	MaxDistance = 32768

	// MinLength is the shortest match ever reported.
	MinLength = 3

	// MaxLength is the longest match ever reported.
	MaxLength = 258

	// WindowSize is the capacity of the history window.  The slack beyond
	// MaxDistance lets the engine rewind a few bytes without losing the
	// ability to match at the maximum distance.
	WindowSize = MaxDistance + 2*hashChars

	hashChars   = 3
	hashBuckets = 2039
	maxLazy     = 3

	// maxChain bounds the hash chain positions visited per search, and
	// maxCandidates bounds the distances tracked per start position.
	// Both keep long runs of one byte linear in the input size.
	maxChain      = 256
	maxCandidates = 32
)

// Sink receives the output of an Engine, in stream order.
type Sink interface {
	Literal(ch byte)
	Match(distance uint, length uint)
}

// Engine is a streaming LZ77 match finder.  It tracks candidate matches at
// up to three consecutive start positions and reports whichever one covers
// the most bytes per extra literal spent.
//
// An Engine is not safe for concurrent use.
type Engine struct {
	sink Sink
	win  ring

	// k counts bytes accepted into the window but not yet reported.
	k int

	// nvalid counts bytes in the window that hold real data.
	nvalid int

	// rewound counts bytes handed back by outputMatch that must be
	// reprocessed before new input is consumed.
	rewound int

	// hashNext links window slots into per-bucket chains, most recent
	// first.  Negative values end a chain.
	hashNext [WindowSize]int32
	hashHead [hashBuckets]int32

	// matchNext is indexed by backward distance: 0 means "not in any
	// candidate list", a negative value ends a list.
	matchNext [WindowSize]int32
	matchHead [maxLazy]int32
	matchLen  [maxLazy]int
	matchDist [maxLazy]int

	literals [maxLazy - 1]byte
}

// New returns an Engine that reports to sink.
func New(sink Sink) *Engine {
	assert.NotNil(&sink)
	e := &Engine{sink: sink}
	e.Reset()
	return e
}

// Reset discards all history and pending state.
func (e *Engine) Reset() {
	e.win.reset()
	e.k = 0
	e.nvalid = 0
	e.rewound = 0
	for i := range e.hashNext {
		e.hashNext[i] = -1
		e.matchNext[i] = 0
	}
	for i := range e.hashHead {
		e.hashHead[i] = -1
	}
	for i := 0; i < maxLazy; i++ {
		e.matchHead[i] = -1
		e.matchLen[i] = 0
		e.matchDist[i] = 0
	}
	for i := range e.literals {
		e.literals[i] = 0
	}
}

// Write feeds p to the engine.  Output may lag behind input by a few bytes;
// call Flush to force it out.
func (e *Engine) Write(p []byte) {
	for e.rewound > 0 || len(p) > 0 {
		replayed := false
		if e.rewound == 0 {
			e.win.push(p[0])
			p = p[1:]
		} else {
			e.win.advance()
			e.rewound--
			replayed = true
		}
		e.k++
		if e.nvalid < WindowSize {
			e.nvalid++
		}

		if e.nvalid < hashChars {
			continue
		}

		var cur [hashChars]byte
		for i := 0; i < hashChars; i++ {
			cur[i] = e.win.back(i)
		}
		h := hash(cur)

		if e.k >= hashChars && e.k < hashChars+maxLazy {
			e.hashSearch(h, cur)
		}

		if e.k == hashChars && e.matchHead[0] < 0 {
			e.sink.Literal(cur[hashChars-1])
			e.k--
		}

		if e.k > hashChars {
			e.winnow()
		}

		// A replayed slot is already on its chain.
		if !replayed {
			e.hashNext[e.win.head] = e.hashHead[h]
			e.hashHead[h] = int32(e.win.head)
		}

		if e.k >= hashChars+maxLazy-1 && !e.tracking() {
			e.outputMatch()
		}
	}
}

// Flush reports every pending byte, as if the input ended here.  History is
// kept, so later input may still match against bytes written before the
// flush.
func (e *Engine) Flush() {
	for e.k >= hashChars {
		e.outputMatch()

		for i := 0; i < maxLazy; i++ {
			for e.matchHead[i] >= 0 {
				tmp := e.matchHead[i]
				e.matchHead[i] = e.matchNext[tmp]
				e.matchNext[tmp] = 0
			}
		}

		e.Write(nil)
	}

	assert.Assertf(e.k < hashChars, "k %d >= %d after flush", e.k, hashChars)
	for e.k > 0 {
		e.k--
		e.sink.Literal(e.win.back(e.k))
	}
}

func hash(cur [hashChars]byte) int {
	return (257*int(cur[0]) + 263*int(cur[1]) + 269*int(cur[2])) % hashBuckets
}

func (e *Engine) tracking() bool {
	for i := 0; i < maxLazy; i++ {
		if e.matchHead[i] >= 0 {
			return true
		}
	}
	return false
}

func (e *Engine) hashSearch(h int, cur [hashChars]byte) {
	slot := e.k - hashChars
	assert.Assertf(e.matchHead[slot] < 0, "slot %d already has a candidate list", slot)
	assert.Assertf(e.matchLen[slot] == 0, "slot %d already has length %d", slot, e.matchLen[slot])

	if e.k < hashChars+maxLazy-1 {
		e.literals[slot] = e.win.back(hashChars - 1)
	}

	limit := e.nvalid
	if limit > MaxDistance {
		limit = MaxDistance
	}
	limit = (limit + e.win.head) % WindowSize

	visited, found := 0, 0
	pos := int(e.hashHead[h])
	for pos >= 0 && visited < maxChain && found < maxCandidates {
		visited++
		// Right after a rewind the chain head may point at a slot that
		// is in the future again; bdist filters it out.
		bdist := e.win.distance(pos)
		if bdist > 0 && bdist <= MaxDistance && e.matchNext[bdist] == 0 {
			same := true
			for i := 0; i < hashChars; i++ {
				if e.win.at(pos+i) != cur[i] {
					same = false
					break
				}
			}
			if same {
				e.matchNext[bdist] = e.matchHead[slot]
				e.matchHead[slot] = int32(bdist)
				found++

				// The chain runs most recent first, and the most
				// recent copy wins.
				if e.matchLen[slot] == 0 {
					e.matchLen[slot] = hashChars
					e.matchDist[slot] = bdist
				}
			}
		}

		next := int(e.hashNext[pos])
		if next < 0 || next == pos {
			break
		}
		if (limit+WindowSize-next)%WindowSize > (limit+WindowSize-pos)%WindowSize {
			break
		}
		pos = next
	}
}

func (e *Engine) winnow() {
	newest := e.win.back(0)
	for i := 0; i < maxLazy && e.k-i > hashChars; i++ {
		out := int32(-1)
		best := 0

		in := e.matchHead[i]
		for in >= 0 {
			next := e.matchNext[in]
			if e.matchLen[i] < MaxLength && e.win.back(int(in)) == newest {
				if out < 0 {
					e.matchHead[i] = in
				} else {
					e.matchNext[out] = in
				}
				out = in

				// Lists are built in reverse chain order, so the
				// last survivor is the most recent copy.
				best = int(in)
			} else {
				e.matchNext[in] = 0
			}
			in = next
		}

		if out < 0 {
			e.matchHead[i] = -1
		} else {
			e.matchNext[out] = -1
		}

		if best != 0 {
			e.matchDist[i] = best
			e.matchLen[i]++
		}
	}
}

func (e *Engine) outputMatch() {
	besti, bestval := -1, -1
	for i := maxLazy - 1; i >= 0; i-- {
		if v := e.matchLen[i] - i; v > bestval {
			bestval = v
			besti = i
		}
	}
	assert.Assertf(besti >= 0 && e.matchLen[besti] >= MinLength, "no viable match among %v", e.matchLen)

	for i := 0; i < besti; i++ {
		e.sink.Literal(e.literals[i])
	}
	length := e.matchLen[besti]
	e.sink.Match(uint(e.matchDist[besti]), uint(length))

	e.k -= besti + length
	for i := 0; i < maxLazy; i++ {
		e.matchDist[i] = 0
		e.matchLen[i] = 0
	}

	if e.k >= hashChars {
		rw := e.k - (hashChars - 1)
		assert.Assertf(e.rewound+rw < hashChars, "rewind by %d with %d already rewound", rw, e.rewound)
		e.win.rewind(rw)
		e.rewound += rw
		e.k -= rw
		e.nvalid -= rw
	}
}
