package deflate

import (
	"fmt"

	"github.com/chronos-tachyon/enumhelper"
)

// decoderState is the position of a Decompressor within the stream grammar.
// Every state boundary is a point at which decoding may pause for input.
type decoderState byte

const (
	// startDecoderState: expecting the 16-bit zlib header.
	startDecoderState decoderState = iota

	// outsideBlockDecoderState: expecting BFINAL and BTYPE.
	outsideBlockDecoderState

	// treesHeaderDecoderState: expecting HLIT, HDIST and HCLEN.
	treesHeaderDecoderState

	// treesLenLenDecoderState: expecting the 3-bit sizes of the
	// code-length alphabet.
	treesLenLenDecoderState

	// treesLenDecoderState: expecting a code-length symbol.
	treesLenDecoderState

	// treesLenRepDecoderState: expecting the extra bits of a code-length
	// repeat symbol.
	treesLenRepDecoderState

	// inBlockDecoderState: expecting a literal/length symbol.
	inBlockDecoderState

	// gotLenSymDecoderState: expecting the extra bits of a length.
	gotLenSymDecoderState

	// gotLenDecoderState: expecting a distance symbol.
	gotLenDecoderState

	// gotDistSymDecoderState: expecting the extra bits of a distance.
	gotDistSymDecoderState

	// uncompLenDecoderState: expecting LEN of a stored block.
	uncompLenDecoderState

	// uncompNLenDecoderState: expecting NLEN of a stored block.
	uncompNLenDecoderState

	// uncompDataDecoderState: copying stored bytes.
	uncompDataDecoderState

	// endDecoderState: the final block has ended; discard bits up to the
	// next byte boundary.
	endDecoderState

	// adler1DecoderState: expecting the high half of the Adler-32.
	adler1DecoderState

	// adler2DecoderState: expecting the low half of the Adler-32.
	adler2DecoderState

	// finalSpinDecoderState: the stream is complete; trailing input is
	// discarded.
	finalSpinDecoderState
)

var decoderStateData = []enumhelper.EnumData{
	{GoName: "startDecoderState", Name: "start"},
	{GoName: "outsideBlockDecoderState", Name: "outsideBlock"},
	{GoName: "treesHeaderDecoderState", Name: "treesHeader"},
	{GoName: "treesLenLenDecoderState", Name: "treesLenLen"},
	{GoName: "treesLenDecoderState", Name: "treesLen"},
	{GoName: "treesLenRepDecoderState", Name: "treesLenRep"},
	{GoName: "inBlockDecoderState", Name: "inBlock"},
	{GoName: "gotLenSymDecoderState", Name: "gotLenSym"},
	{GoName: "gotLenDecoderState", Name: "gotLen"},
	{GoName: "gotDistSymDecoderState", Name: "gotDistSym"},
	{GoName: "uncompLenDecoderState", Name: "uncompLen"},
	{GoName: "uncompNLenDecoderState", Name: "uncompNLen"},
	{GoName: "uncompDataDecoderState", Name: "uncompData"},
	{GoName: "endDecoderState", Name: "end"},
	{GoName: "adler1DecoderState", Name: "adler1"},
	{GoName: "adler2DecoderState", Name: "adler2"},
	{GoName: "finalSpinDecoderState", Name: "finalSpin"},
}

func (s decoderState) GoString() string {
	return enumhelper.DereferenceEnumData("decoderState", decoderStateData, uint(s)).GoName
}

func (s decoderState) String() string {
	return enumhelper.DereferenceEnumData("decoderState", decoderStateData, uint(s)).Name
}

func (s decoderState) MarshalJSON() ([]byte, error) {
	return enumhelper.MarshalEnumToJSON("decoderState", decoderStateData, uint(s))
}

var _ fmt.GoStringer = decoderState(0)
var _ fmt.Stringer = decoderState(0)
