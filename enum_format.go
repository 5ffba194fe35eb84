package deflate

import (
	"fmt"

	"github.com/chronos-tachyon/enumhelper"
)

// Format indicates the framing written by a Compressor or expected by a
// Decompressor.
type Format byte

const (
	// DefaultFormat requests the default framing (currently ZlibFormat).
	DefaultFormat Format = iota

	// RawFormat indicates a bare DEFLATE stream (RFC 1951), with no header
	// or trailer.
	RawFormat

	// ZlibFormat indicates a zlib stream (RFC 1950): a two-byte header, the
	// DEFLATE stream, and a big-endian Adler-32 of the uncompressed data.
	ZlibFormat
)

var formatData = []enumhelper.EnumData{
	{GoName: "DefaultFormat", Name: strDefault},
	{GoName: "RawFormat", Name: "raw", Aliases: []string{"bare"}},
	{GoName: "ZlibFormat", Name: "zlib"},
}

// IsValid returns true if f is a valid Format constant.
func (f Format) IsValid() bool {
	return f >= DefaultFormat && f <= ZlibFormat
}

// GoString returns the Go string representation of this Format constant.
func (f Format) GoString() string {
	return enumhelper.DereferenceEnumData("Format", formatData, uint(f)).GoName
}

// String returns the string representation of this Format constant.
func (f Format) String() string {
	return enumhelper.DereferenceEnumData("Format", formatData, uint(f)).Name
}

// MarshalJSON returns the JSON representation of this Format constant.
func (f Format) MarshalJSON() ([]byte, error) {
	return enumhelper.MarshalEnumToJSON("Format", formatData, uint(f))
}

// Parse parses a string representation of a Format constant.
func (f *Format) Parse(str string) error {
	value, err := enumhelper.ParseEnum("Format", formatData, str)
	*f = Format(value)
	return err
}

var _ fmt.GoStringer = Format(0)
var _ fmt.Stringer = Format(0)
