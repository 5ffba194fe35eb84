package deflate

import (
	"errors"
	"fmt"
	"io"
)

var (
	// ErrZlibHeader is returned when a zlib stream starts with a header
	// this package cannot accept.
	ErrZlibHeader = errors.New("deflate: invalid zlib header")

	// ErrUnexpectedEOF is returned when input ends before the stream is
	// complete.
	ErrUnexpectedEOF = io.ErrUnexpectedEOF

	// ErrInvalidHuffman is returned when a block describes an impossible
	// Huffman code, or uses a bit pattern its code does not define.
	ErrInvalidHuffman = errors.New("deflate: invalid Huffman code")

	// ErrInvalidBlock is returned for other structural damage: a reserved
	// block type, a stored block whose NLEN is not the complement of LEN,
	// a reserved length or distance code, or a distance reaching back
	// before the start of the stream.
	ErrInvalidBlock = errors.New("deflate: invalid block")

	// ErrChecksum is returned when the Adler-32 in a zlib trailer does not
	// match the decompressed data.
	ErrChecksum = errors.New("deflate: checksum mismatch")
)

// CorruptInputError is returned when the stream being decompressed contains
// data that violates the compression format standard.  Err is one of the
// sentinel errors above, so callers may test with errors.Is.
type CorruptInputError struct {
	OffsetTotal uint64
	Problem     string
	Err         error
}

// Error fulfills the error interface.
func (err CorruptInputError) Error() string {
	return fmt.Sprintf("corrupt input at/near byte offset %d: %s: %s", err.OffsetTotal, err.Err, err.Problem)
}

// Unwrap returns the sentinel error that classifies this corruption.
func (err CorruptInputError) Unwrap() error {
	return err.Err
}

var _ error = CorruptInputError{}
