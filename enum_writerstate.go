package deflate

import (
	"fmt"

	"github.com/chronos-tachyon/enumhelper"
)

type writerState byte

const (
	// openWriterState: the stream accepts Write and Flush.
	openWriterState writerState = iota

	// errorWriterState: the underlying io.Writer failed, and the only
	// valid action is to Close.
	errorWriterState

	// closedWriterState: Close has been called, and the only valid action
	// is to Reset.
	closedWriterState
)

var writerStateData = []enumhelper.EnumData{
	{GoName: "openWriterState", Name: "open"},
	{GoName: "errorWriterState", Name: "error"},
	{GoName: "closedWriterState", Name: "closed"},
}

func (s writerState) GoString() string {
	return enumhelper.DereferenceEnumData("writerState", writerStateData, uint(s)).GoName
}

func (s writerState) String() string {
	return enumhelper.DereferenceEnumData("writerState", writerStateData, uint(s)).Name
}

func (s writerState) MarshalJSON() ([]byte, error) {
	return enumhelper.MarshalEnumToJSON("writerState", writerStateData, uint(s))
}

var _ fmt.GoStringer = writerState(0)
var _ fmt.Stringer = writerState(0)
