package deflate

import (
	"fmt"

	"github.com/chronos-tachyon/enumhelper"
)

// FlushType indicates how much buffered state a compression call must push
// out before it returns.
type FlushType byte

const (
	// NoFlush lets the Compressor buffer as much as it likes.  The call
	// may return no output at all.
	NoFlush FlushType = iota

	// SyncFlush emits every buffered symbol, then an empty stored block,
	// so that the output ends on a byte boundary and a decompressor can
	// reproduce every byte fed so far.  The stream stays open.
	//
	// SyncFlush can impact your compression ratio by forcing the premature
	// end of the current block.
	//
	SyncFlush

	// FinishFlush emits every buffered symbol in a block marked BFINAL=1,
	// followed by the trailer of the current Format (if any).  No further
	// input is accepted afterward.
	FinishFlush
)

var flushTypeData = []enumhelper.EnumData{
	{GoName: "NoFlush", Name: "none", Aliases: []string{strDefault}},
	{GoName: "SyncFlush", Name: "sync"},
	{GoName: "FinishFlush", Name: "finish"},
}

// IsValid returns true if f is a valid FlushType constant.
func (f FlushType) IsValid() bool {
	return f >= NoFlush && f <= FinishFlush
}

// GoString returns the Go string representation of this FlushType constant.
func (f FlushType) GoString() string {
	return enumhelper.DereferenceEnumData("FlushType", flushTypeData, uint(f)).GoName
}

// String returns the string representation of this FlushType constant.
func (f FlushType) String() string {
	return enumhelper.DereferenceEnumData("FlushType", flushTypeData, uint(f)).Name
}

// MarshalJSON returns the JSON representation of this FlushType constant.
func (f FlushType) MarshalJSON() ([]byte, error) {
	return enumhelper.MarshalEnumToJSON("FlushType", flushTypeData, uint(f))
}

// Parse parses a string representation of a FlushType constant.
func (f *FlushType) Parse(str string) error {
	value, err := enumhelper.ParseEnum("FlushType", flushTypeData, str)
	*f = FlushType(value)
	return err
}

var _ fmt.GoStringer = FlushType(0)
var _ fmt.Stringer = FlushType(0)
