package deflate

import (
	"math"

	"github.com/chronos-tachyon/assert"
)

// blockOverheadBits approximates the cost of a dynamic block header and its
// tree description, charged once per candidate block.
const blockOverheadBits = 300

// type entropyCounter {{{

// entropyCounter tracks T ln T - sum(f ln f) for one alphabet as
// frequencies grow, so the entropy of every prefix of the symbol ring costs
// O(1) to read.
type entropyCounter struct {
	freqs   []uint32
	total   uint64
	sumFLnF float64
}

func (ec *entropyCounter) init(numCodes int) {
	ec.freqs = make([]uint32, numCodes)
	ec.total = 0
	ec.sumFLnF = 0
}

func (ec *entropyCounter) add(code uint16) {
	f := ec.freqs[code]
	ec.sumFLnF += fLnF(uint64(f)+1) - fLnF(uint64(f))
	ec.freqs[code] = f + 1
	ec.total++
}

// nats returns the entropy-coded size of everything counted so far, in
// units of ln 2 bits.
func (ec *entropyCounter) nats() float64 {
	return fLnF(ec.total) - ec.sumFLnF
}

func fLnF(f uint64) float64 {
	if f == 0 {
		return 0
	}
	x := float64(f)
	return x * math.Log(x)
}

// }}}

// chooseBlockLength picks how many of the buffered symbols to emit as the
// next block.  Every position i > 0 that begins a literal/length symbol is a
// candidate; the estimated cost of a block of the first i symbols is its
// entropy-coded size plus extra bits plus a fixed overhead, and the winner
// is the candidate with the most symbols per estimated bit.  Ties go to the
// earliest candidate.
func chooseBlockLength(r *symbolRing) int {
	var ll, d entropyCounter
	ll.init(numLLCodes)
	d.init(numDCodes)
	ll.add(endOfBlock)

	var extraBits uint64
	bestLen := -1
	var bestRatio float64

	n := r.len()
	for i := 0; i < n; i++ {
		s := r.at(i)
		if i > 0 && s.isLL() {
			cost := (ll.nats()+d.nats())/math.Ln2 + float64(extraBits) + blockOverheadBits
			ratio := float64(i) / cost
			if bestLen < 0 || ratio > bestRatio {
				bestLen = i
				bestRatio = ratio
			}
		}

		switch s.kind {
		case literalSymbol, lengthSymbol:
			ll.add(s.value)
		case distanceSymbol:
			d.add(s.value)
		case extraBitsSymbol:
			extraBits += uint64(s.size)
		default:
			assert.Raisef("unexpected %v in symbol ring", s)
		}
	}

	assert.Assertf(bestLen > 0, "no block boundary among %d symbols", n)
	return bestLen
}

// studyFrequencies counts the literal/length and distance codes used by the
// first n buffered symbols.  The end-of-block marker is counted once.
func studyFrequencies(r *symbolRing, n int) (freqLL []uint32, freqD []uint32) {
	freqLL = make([]uint32, numLLCodes)
	freqD = make([]uint32, numDCodes)
	freqLL[endOfBlock] = 1
	for i := 0; i < n; i++ {
		s := r.at(i)
		switch s.kind {
		case literalSymbol, lengthSymbol:
			freqLL[s.value]++
		case distanceSymbol:
			freqD[s.value]++
		}
	}
	return
}

// studyFrequenciesX counts the code-length codes used by a tree description.
func studyFrequenciesX(xsyms []symbol) []uint32 {
	freqX := make([]uint32, numXCodes)
	for _, s := range xsyms {
		if s.kind == codeLengthSymbol {
			freqX[s.value]++
		}
	}
	return freqX
}

// padDistanceFreqs ensures that at least two distance codes get a size.
// Some decoders refuse a distance tree with fewer than two codes.
func padDistanceFreqs(freqD []uint32) {
	used := 0
	for _, f := range freqD {
		if f != 0 {
			used++
		}
	}
	for code := 0; used < 2; code++ {
		if freqD[code] == 0 {
			freqD[code] = 1
			used++
		}
	}
}

// trimSizes returns the length of sizes with trailing zeroes removed, but no
// less than min.
func trimSizes(sizes SizeList, min int) int {
	n := len(sizes)
	for n > min && sizes[n-1] == 0 {
		n--
	}
	return n
}

// trimScrambledSizes is trimSizes for the code-length alphabet, whose sizes
// are transmitted in scrambled order.
func trimScrambledSizes(sizes SizeList, min int) int {
	n := numXCodes
	for n > min && sizes[scramble[n-1]] == 0 {
		n--
	}
	return n
}

// encodeTreeSymbols run-length encodes the concatenated literal/length and
// distance code sizes into code-length symbols, each repeat code followed by
// its extra bits.
//
// Runs of zeroes shorter than 3 are sent literally; longer ones use code 17
// (3..10) or 18 (11..138).  A run of a nonzero size sends the size once, and
// if at least 3 repeats remain, follows it with code 16 (3..6 repeats).  A
// chunk is shortened when it would otherwise leave 1 or 2 stragglers.
func encodeTreeSymbols(sizes SizeList) []symbol {
	out := make([]symbol, 0, len(sizes))

	i := 0
	for i < len(sizes) {
		size := sizes[i]
		j := i + 1
		for j < len(sizes) && sizes[j] == size {
			j++
		}
		k := j - i
		i = j

		if size == 0 {
			if k < 3 {
				for ; k > 0; k-- {
					out = append(out, makeCodeLength(0))
				}
				continue
			}
			for k > 0 {
				rpt := repeatChunk(k, 138)
				if rpt < 11 {
					out = append(out, makeCodeLength(17), makeExtraBits(3, uint16(rpt-3)))
				} else {
					out = append(out, makeCodeLength(18), makeExtraBits(7, uint16(rpt-11)))
				}
				k -= rpt
			}
			continue
		}

		out = append(out, makeCodeLength(size))
		k--
		if k < 3 {
			for ; k > 0; k-- {
				out = append(out, makeCodeLength(size))
			}
			continue
		}
		for k > 0 {
			rpt := repeatChunk(k, 6)
			out = append(out, makeCodeLength(16), makeExtraBits(2, uint16(rpt-3)))
			k -= rpt
		}
	}
	return out
}

func repeatChunk(k int, max int) int {
	rpt := k
	if rpt > max {
		rpt = max
	}
	if rpt > k-3 && rpt < k {
		rpt = k - 3
	}
	return rpt
}
