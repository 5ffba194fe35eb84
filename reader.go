package deflate

import (
	"io"
	"io/fs"
	"sync"

	"github.com/chronos-tachyon/assert"
)

// Reader wraps an io.Reader and decompresses the data which flows through it.
// Reading stops at the end of the compressed stream; whatever follows it in
// the underlying io.Reader is left unread, apart from the last partial chunk.
type Reader struct {
	mu sync.Mutex

	r       io.Reader
	d       *Decompressor
	pending []byte
	err     error
	closed  bool
}

// NewReader constructs and returns a new Reader with the given io.Reader and
// options.
func NewReader(r io.Reader, opts ...Option) *Reader {
	assert.NotNil(&r)

	return &Reader{
		r: r,
		d: NewDecompressor(opts...),
	}
}

// Format returns the Format which this Reader expects.
func (fr *Reader) Format() Format {
	fr.mu.Lock()
	format := fr.d.Format()
	fr.mu.Unlock()
	return format
}

// UnderlyingReader returns the io.Reader which this Reader uses.
func (fr *Reader) UnderlyingReader() io.Reader {
	fr.mu.Lock()
	r := fr.r
	fr.mu.Unlock()
	return r
}

// Reset re-initializes this Reader with the given io.Reader and options.  Any
// options given here are merged with all previous options.
func (fr *Reader) Reset(r io.Reader, opts ...Option) {
	assert.NotNil(&r)

	fr.mu.Lock()
	defer fr.mu.Unlock()

	fr.r = r
	fr.pending = nil
	fr.err = nil
	fr.closed = false
	fr.d.Reset(opts...)
}

// Read reads decompressed bytes.  Conforms to the io.Reader interface.
// Truncated input is reported as io.ErrUnexpectedEOF.
func (fr *Reader) Read(p []byte) (int, error) {
	fr.mu.Lock()
	defer fr.mu.Unlock()

	if fr.closed {
		return 0, fs.ErrClosed
	}

	if len(p) == 0 {
		return 0, nil
	}

	for len(fr.pending) == 0 {
		if fr.err != nil {
			return 0, fr.err
		}
		fr.fill()
	}

	n := copy(p, fr.pending)
	fr.pending = fr.pending[n:]
	return n, nil
}

func (fr *Reader) fill() {
	chunk := takeChunk()
	defer giveChunk(chunk)

	n, err := fr.r.Read(*chunk)
	if n > 0 {
		out, derr := fr.d.Decompress((*chunk)[:n])
		fr.pending = out
		if derr != nil {
			fr.err = derr
			return
		}
		if fr.d.Finish() == nil {
			fr.err = io.EOF
			return
		}
	}

	switch {
	case err == io.EOF:
		fr.err = fr.d.Finish()
		if fr.err == nil {
			fr.err = io.EOF
		}
	case err != nil:
		fr.err = err
	}
}

// Close closes this Reader.  The underlying io.Reader is *not* closed.
func (fr *Reader) Close() error {
	fr.mu.Lock()
	defer fr.mu.Unlock()

	if fr.closed {
		return fs.ErrClosed
	}

	fr.closed = true
	fr.pending = nil
	return nil
}

var _ io.ReadCloser = (*Reader)(nil)
