package deflate

import (
	"github.com/rs/zerolog"
)

// Tracer is an interface which callers can implement in order to receive
// Events.  Events provide feedback on the progress of the compression or
// decompression operation.
type Tracer interface {
	OnEvent(Event)
}

// Event is a collection of fields that provide feedback on the progress of the
// compression or decompression operation in progress.
type Event struct {
	Type             EventType
	InputBytesTotal  uint64
	OutputBytesTotal uint64
	Format           Format
	Block            *BlockEvent
	Trees            *TreesEvent
	Footer           *FooterEvent
	Symbol           *SymbolEvent
}

// BlockEvent is a sub-struct that is only present for BlockFooEvent.
type BlockEvent struct {
	Type    BlockType
	IsFinal bool

	// NumSymbols counts the symbols coded in the block, excluding the
	// end-of-block marker.  Only known for BlockEndEvent.
	NumSymbols uint
}

// TreesEvent is a sub-struct that is only present for BlockTreesEvent.
type TreesEvent struct {
	CodeCount          uint16
	LiteralLengthCount uint16
	DistanceCount      uint16

	CodeSizes          SizeList
	LiteralLengthSizes SizeList
	DistanceSizes      SizeList

	// TreeBits is the size of the transmitted tree description, from
	// HLIT through the last code length.  Zero for static blocks.
	TreeBits uint64
}

// FooterEvent is a sub-struct that is only present for StreamEndEvent and
// StreamCloseEvent.
type FooterEvent struct {
	Adler32 Checksum32
}

// SymbolEvent is a sub-struct that is only present for LiteralEvent and
// CopyEvent.
type SymbolEvent struct {
	// Literal is the decoded byte (LiteralEvent).
	Literal byte

	// Distance and Length describe the back-reference (CopyEvent).
	Distance uint16
	Length   uint16

	// NumBits is how many input bits the symbol took, including extra
	// bits.
	NumBits uint
}

// type NoOpTracer {{{

// NoOpTracer is an implementation of Tracer that does nothing.
type NoOpTracer struct{}

// OnEvent fulfills Tracer.
func (NoOpTracer) OnEvent(event Event) {}

var _ Tracer = NoOpTracer{}

// }}}

// type TracerFunc {{{

// TracerFunc is an implementation of Tracer that calls a function.
type TracerFunc func(Event)

// OnEvent fulfills Tracer.
func (tr TracerFunc) OnEvent(event Event) {
	tr(event)
}

var _ Tracer = TracerFunc(nil)

// }}}

// type logTracer {{{

// Log returns a Tracer implementation which will log each Event at Trace
// priority.
func Log(logger zerolog.Logger) Tracer {
	return logTracer{logger: logger}
}

type logTracer struct {
	logger zerolog.Logger
}

// OnEvent fulfills Tracer.
func (tr logTracer) OnEvent(event Event) {
	tr.logger.Trace().
		Interface("event", event).
		Msg("OnEvent")
}

var _ Tracer = logTracer{}

// }}}
