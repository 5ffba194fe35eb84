package deflate

import (
	"fmt"
	"math/bits"

	"github.com/chronos-tachyon/assert"
)

const (
	minMatchLength   = 3
	maxMatchLength   = 258
	maxMatchDistance = 32768
)

type symbolKind byte

const (
	// literalSymbol: value is a byte, coded in the literal/length tree.
	literalSymbol symbolKind = iota

	// lengthSymbol: value is a length code 257..285, coded in the
	// literal/length tree.
	lengthSymbol

	// distanceSymbol: value is a distance code 0..29, coded in the
	// distance tree.
	distanceSymbol

	// extraBitsSymbol: value holds size raw bits that follow the
	// preceding code.
	extraBitsSymbol

	// codeLengthSymbol: value is a code-length code 0..18, coded in the
	// code-length tree.
	codeLengthSymbol
)

// symbol is one unit of coded output, tagged by kind.
type symbol struct {
	kind  symbolKind
	size  byte
	value uint16
}

func makeLiteral(ch byte) symbol {
	return symbol{kind: literalSymbol, value: uint16(ch)}
}

func makeLength(code uint16) symbol {
	assert.Assertf(code >= 257 && code < numLLCodes, "length code %d out of range", code)
	return symbol{kind: lengthSymbol, value: code}
}

func makeDistance(code uint16) symbol {
	assert.Assertf(code < numDCodes, "distance code %d out of range", code)
	return symbol{kind: distanceSymbol, value: code}
}

func makeExtraBits(size byte, value uint16) symbol {
	assert.Assertf(size <= 13, "extra bits size %d > maximum 13", size)
	return symbol{kind: extraBitsSymbol, size: size, value: value}
}

func makeCodeLength(code byte) symbol {
	assert.Assertf(code < numXCodes, "code-length code %d >= %d", code, numXCodes)
	return symbol{kind: codeLengthSymbol, value: uint16(code)}
}

// isLL reports whether s is coded in the literal/length tree.
func (s symbol) isLL() bool {
	return s.kind == literalSymbol || s.kind == lengthSymbol
}

func (s symbol) String() string {
	switch s.kind {
	case literalSymbol:
		return fmt.Sprintf("[literal: %#02x]", s.value)
	case lengthSymbol:
		return fmt.Sprintf("[length code: %d]", s.value)
	case distanceSymbol:
		return fmt.Sprintf("[distance code: %d]", s.value)
	case extraBitsSymbol:
		return fmt.Sprintf("[extra bits: %0*b]", s.size, s.value)
	case codeLengthSymbol:
		return fmt.Sprintf("[code-length code: %d]", s.value)
	default:
		return fmt.Sprintf("[invalid symbol: kind=%d value=%d]", s.kind, s.value)
	}
}

// lengthCode maps a match length to its literal/length code and the extra
// bits that follow it.
func lengthCode(length uint) (code uint16, size byte, extra uint16) {
	assert.Assertf(length >= minMatchLength, "copy length %d < minimum %d", length, minMatchLength)
	assert.Assertf(length <= maxMatchLength, "copy length %d > maximum %d", length, maxMatchLength)

	n := uint16(length)
	switch {
	case n <= 10:
		return 254 + n, 0, 0
	case n <= 18:
		x := n - 11
		return 265 + x/2, 1, x % 2
	case n <= 34:
		x := n - 19
		return 269 + x/4, 2, x % 4
	case n <= 66:
		x := n - 35
		return 273 + x/8, 3, x % 8
	case n <= 130:
		x := n - 67
		return 277 + x/16, 4, x % 16
	case n <= 257:
		x := n - 131
		return 281 + x/32, 5, x % 32
	default:
		return 285, 0, 0
	}
}

// distanceCode maps a match distance to its distance code and the extra bits
// that follow it.
func distanceCode(distance uint) (code uint16, size byte, extra uint16) {
	assert.Assertf(distance >= 1, "copy distance %d < minimum 1", distance)
	assert.Assertf(distance <= maxMatchDistance, "copy distance %d > maximum %d", distance, maxMatchDistance)

	d := uint16(distance - 1)
	if d < 4 {
		return d, 0, 0
	}
	k := 16 - bits.LeadingZeros16(d)
	c := k*2 - 1
	if bit := uint16(1) << (k - 2); (d & bit) == 0 {
		c--
	}
	size = byte((c / 2) - 1)
	return uint16(c), size, d & ((uint16(1) << size) - 1)
}

// Decoding tables, indexed by code - 257 and by distance code.
var (
	lengthBase    [numLLCodes - 257]uint16
	lengthExtra   [numLLCodes - 257]byte
	distanceBase  [numDCodes]uint16
	distanceExtra [numDCodes]byte
)

func init() {
	base := uint16(minMatchLength)
	for i := range lengthBase {
		var size byte
		if i >= 8 {
			size = byte((i - 4) / 4)
		}
		lengthBase[i] = base
		lengthExtra[i] = size
		base += uint16(1) << size
	}
	lengthBase[len(lengthBase)-1] = maxMatchLength
	lengthExtra[len(lengthExtra)-1] = 0

	base = 1
	for i := range distanceBase {
		var size byte
		if i >= 4 {
			size = byte(i/2 - 1)
		}
		distanceBase[i] = base
		distanceExtra[i] = size
		base += uint16(1) << size
	}
}
