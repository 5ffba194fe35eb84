package deflate

import (
	"fmt"

	"github.com/chronos-tachyon/enumhelper"
)

// Strategy selects how a Compressor turns input into blocks.  Every strategy
// produces a standard stream that any DEFLATE decompressor can read.
type Strategy byte

const (
	// DefaultStrategy runs the lazy LZ77 match finder, picks block
	// boundaries by estimated entropy, and codes every non-empty block
	// with freshly built Huffman trees.
	DefaultStrategy Strategy = iota

	// HuffmanOnlyStrategy skips LZ77 and codes every byte as a literal.
	HuffmanOnlyStrategy

	// FixedStrategy runs LZ77 but codes every block with the static
	// Huffman trees defined by the DEFLATE standard.
	FixedStrategy
)

var strategyData = []enumhelper.EnumData{
	{GoName: "DefaultStrategy", Name: strDefault},
	{GoName: "HuffmanOnlyStrategy", Name: "huffman-only"},
	{GoName: "FixedStrategy", Name: "fixed"},
}

// IsValid returns true if s is a valid Strategy constant.
func (s Strategy) IsValid() bool {
	return s >= DefaultStrategy && s <= FixedStrategy
}

// GoString returns the Go string representation of this Strategy constant.
func (s Strategy) GoString() string {
	return enumhelper.DereferenceEnumData("Strategy", strategyData, uint(s)).GoName
}

// String returns the string representation of this Strategy constant.
func (s Strategy) String() string {
	return enumhelper.DereferenceEnumData("Strategy", strategyData, uint(s)).Name
}

// MarshalJSON returns the JSON representation of this Strategy constant.
func (s Strategy) MarshalJSON() ([]byte, error) {
	return enumhelper.MarshalEnumToJSON("Strategy", strategyData, uint(s))
}

// Parse parses a string representation of a Strategy constant.
func (s *Strategy) Parse(str string) error {
	value, err := enumhelper.ParseEnum("Strategy", strategyData, str)
	*s = Strategy(value)
	return err
}

var _ fmt.GoStringer = Strategy(0)
var _ fmt.Stringer = Strategy(0)
