package deflate

import (
	"fmt"

	"github.com/chronos-tachyon/enumhelper"
)

// EventType indicates the type of an Event.
type EventType byte

const (
	// StreamBeginEvent indicates that a compressed stream has begun.
	StreamBeginEvent EventType = iota

	// StreamHeaderEvent indicates that the stream header (if the Format
	// has one) was written or successfully validated.
	StreamHeaderEvent

	// BlockBeginEvent indicates that a block header was written or read.
	BlockBeginEvent

	// BlockTreesEvent indicates that the Huffman trees for the current
	// block have been written or successfully decoded.
	BlockTreesEvent

	// BlockEndEvent indicates that the end-of-block marker for the current
	// block has been written or read.
	BlockEndEvent

	// StreamEndEvent indicates that the final block of the stream has
	// ended.
	StreamEndEvent

	// StreamCloseEvent indicates that the stream trailer (if the Format
	// has one) was written or successfully validated.
	StreamCloseEvent

	// LiteralEvent indicates that a literal byte was decoded.  Only sent
	// when symbol events are enabled.
	LiteralEvent

	// CopyEvent indicates that a back-reference was decoded.  Only sent
	// when symbol events are enabled.
	CopyEvent
)

var eventTypeData = []enumhelper.EnumData{
	{GoName: "StreamBeginEvent", Name: "stream-begin"},
	{GoName: "StreamHeaderEvent", Name: "stream-header"},
	{GoName: "BlockBeginEvent", Name: "block-begin"},
	{GoName: "BlockTreesEvent", Name: "block-trees"},
	{GoName: "BlockEndEvent", Name: "block-end"},
	{GoName: "StreamEndEvent", Name: "stream-end"},
	{GoName: "StreamCloseEvent", Name: "stream-close"},
	{GoName: "LiteralEvent", Name: "literal"},
	{GoName: "CopyEvent", Name: "copy"},
}

// GoString returns the Go string representation of this EventType constant.
func (e EventType) GoString() string {
	return enumhelper.DereferenceEnumData("EventType", eventTypeData, uint(e)).GoName
}

// String returns the string representation of this EventType constant.
func (e EventType) String() string {
	return enumhelper.DereferenceEnumData("EventType", eventTypeData, uint(e)).Name
}

// MarshalJSON returns the JSON representation of this EventType constant.
func (e EventType) MarshalJSON() ([]byte, error) {
	return enumhelper.MarshalEnumToJSON("EventType", eventTypeData, uint(e))
}

var _ fmt.GoStringer = EventType(0)
var _ fmt.Stringer = EventType(0)
