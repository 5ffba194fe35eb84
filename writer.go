package deflate

import (
	"errors"
	"io"
	"io/fs"
	"sync"
	"syscall"

	"github.com/chronos-tachyon/assert"
	buffer "github.com/chronos-tachyon/buffer/v3"
)

// outputNumBits sizes the staging buffer between the Compressor and the
// underlying io.Writer: 64 KiB.
const outputNumBits = 16

type flushWriter interface {
	io.Writer
	Flush() error
}

type syncWriter interface {
	io.Writer
	Sync() error
}

// Writer wraps an io.Writer and compresses the data which flows through it.
type Writer struct {
	mu sync.Mutex

	w      io.Writer
	c      *Compressor
	output buffer.Buffer
	err    error
	state  writerState
}

// NewWriter constructs and returns a new Writer with the given io.Writer and
// options.
func NewWriter(w io.Writer, opts ...Option) *Writer {
	assert.NotNil(&w)

	fw := &Writer{
		w: w,
		c: NewCompressor(opts...),
	}
	fw.output.Init(outputNumBits)
	return fw
}

// Format returns the Format which this Writer uses.
func (fw *Writer) Format() Format {
	fw.mu.Lock()
	format := fw.c.Format()
	fw.mu.Unlock()
	return format
}

// Strategy returns the Strategy which this Writer uses.
func (fw *Writer) Strategy() Strategy {
	fw.mu.Lock()
	strategy := fw.c.Strategy()
	fw.mu.Unlock()
	return strategy
}

// UnderlyingWriter returns the io.Writer which this Writer uses.
func (fw *Writer) UnderlyingWriter() io.Writer {
	fw.mu.Lock()
	w := fw.w
	fw.mu.Unlock()
	return w
}

// Reset re-initializes this Writer with the given io.Writer and options.  Any
// options given here are merged with all previous options.
func (fw *Writer) Reset(w io.Writer, opts ...Option) {
	assert.NotNil(&w)

	fw.mu.Lock()
	defer fw.mu.Unlock()

	fw.w = w
	fw.err = nil
	fw.state = openWriterState
	fw.output.Clear()
	fw.c.Reset(opts...)
}

// Write writes a slice of bytes to the compressed stream.
// Conforms to the io.Writer interface.
func (fw *Writer) Write(buf []byte) (int, error) {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	if fw.state == closedWriterState {
		return 0, fs.ErrClosed
	}

	if fw.state == errorWriterState {
		return 0, fw.err
	}

	if !fw.compressImpl(buf, NoFlush) {
		return 0, fw.err
	}
	return len(buf), nil
}

// Flush emits every byte written so far, ending on a byte boundary, and then
// flushes the underlying io.Writer if it supports Flush or Sync.
func (fw *Writer) Flush() error {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	if fw.state == closedWriterState {
		return fs.ErrClosed
	}

	if fw.state == errorWriterState {
		return fw.err
	}

	if !fw.compressImpl(nil, SyncFlush) {
		return fw.err
	}

	if !fw.flushUnderlying() {
		return fw.err
	}

	return nil
}

// Close finishes the compressed stream and closes this Writer.
//
// The underlying io.Writer is *not* closed, even if it supports io.Closer.
//
// The only method which is guaranteed to be safe to call on a Writer after
// Close is Reset, which will return the Writer to a non-closed state.
//
func (fw *Writer) Close() error {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	if fw.state == closedWriterState {
		return fs.ErrClosed
	}

	helper := func() error {
		err := fw.err
		fw.state = closedWriterState
		fw.err = nil
		return err
	}

	if fw.state == errorWriterState {
		return helper()
	}

	if !fw.compressImpl(nil, FinishFlush) || !fw.flushUnderlying() {
		return helper()
	}

	fw.state = closedWriterState
	return nil
}

func (fw *Writer) compressImpl(buf []byte, flushType FlushType) bool {
	out, err := fw.c.Compress(buf, flushType)
	if err != nil {
		fw.state = errorWriterState
		fw.err = err
		return false
	}
	return fw.outputBufferWrite(out)
}

func (fw *Writer) outputBufferWrite(buf []byte) bool {
	length := uint(len(buf))
	i := uint(0)
	for i < length {
		nn, _ := fw.output.Write(buf[i:])
		i += uint(nn)
		if !fw.outputBufferFlush() {
			return false
		}
	}
	return true
}

func (fw *Writer) outputBufferFlush() bool {
	_, err := fw.output.WriteTo(fw.w)
	if err != nil {
		fw.state = errorWriterState
		fw.err = err
		return false
	}
	return true
}

func (fw *Writer) flushUnderlying() bool {
	if x, ok := fw.w.(flushWriter); ok {
		if err := x.Flush(); err != nil {
			fw.state = errorWriterState
			fw.err = err
			return false
		}
	}

	if x, ok := fw.w.(syncWriter); ok {
		if err := x.Sync(); err != nil && !isIgnoredSyncError(err) {
			fw.state = errorWriterState
			fw.err = err
			return false
		}
	}

	return true
}

func isIgnoredSyncError(err error) bool {
	return errors.Is(err, syscall.EINVAL)
}

var _ io.WriteCloser = (*Writer)(nil)
